package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/infrastructure/session"
)

func mealFixture() []domain.Meal {
	return []domain.Meal{
		{Name: "Tomato Salad", Ingredients: []string{"tomato"}, Tags: []string{"vegan", "gluten-free"}},
		{Name: "Toast", Ingredients: []string{"bread"}, Tags: []string{"vegan"}},
		{Name: "Roast Chicken", Ingredients: []string{"chicken"}, Tags: []string{"gluten-free"}},
	}
}

func newMealFixture(t *testing.T, debounce time.Duration) (*MealService, *SessionService, *MockMealRecommender, *domain.Session) {
	t.Helper()
	sessions, store := newTestSessionService()
	recommender := &MockMealRecommender{meals: mealFixture()}
	meals := NewMealService(recommender, store, MealServiceConfig{Debounce: debounce}, nil)
	return meals, sessions, recommender, loggedIn(t, sessions)
}

func TestMealService_Recommend(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cart skips the recommender", func(t *testing.T) {
		meals, _, recommender, sess := newMealFixture(t, 0)

		result, err := meals.Recommend(ctx, sess.ID)

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
		assert.Equal(t, 0, recommender.calls)
	})

	t.Run("sends cart names and preferences", func(t *testing.T) {
		meals, sessions, recommender, sess := newMealFixture(t, 0)
		_, err := sessions.AddToCart(ctx, sess.ID, "tomato")
		require.NoError(t, err)
		_, err = sessions.AddToCart(ctx, sess.ID, "bread")
		require.NoError(t, err)

		result, err := meals.Recommend(ctx, sess.ID)

		require.NoError(t, err)
		assert.Len(t, result, 3)
		assert.Equal(t, []string{"Tomato", "Bread"}, recommender.lastRequest.CartItems)
		assert.NotNil(t, recommender.lastRequest.DietaryPrefs)
	})

	t.Run("filters meals by preferences", func(t *testing.T) {
		meals, sessions, _, sess := newMealFixture(t, 0)
		_, err := sessions.AddToCart(ctx, sess.ID, "tomato")
		require.NoError(t, err)
		_, err = sessions.UpdatePreferences(ctx, sess.ID, domain.FilterSelection{"vegan": true, "glutenFree": true})
		require.NoError(t, err)

		result, err := meals.Recommend(ctx, sess.ID)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "Tomato Salad", result[0].Name)
	})

	t.Run("debounces rapid requests", func(t *testing.T) {
		meals, sessions, recommender, sess := newMealFixture(t, 500*time.Millisecond)
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		meals.now = func() time.Time { return now }
		_, err := sessions.AddToCart(ctx, sess.ID, "tomato")
		require.NoError(t, err)

		_, err = meals.Recommend(ctx, sess.ID)
		require.NoError(t, err)

		now = now.Add(100 * time.Millisecond)
		_, err = meals.Recommend(ctx, sess.ID)
		assert.ErrorIs(t, err, domain.ErrDebounced)

		now = now.Add(time.Second)
		_, err = meals.Recommend(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, recommender.calls)
	})

	t.Run("recommender error is returned", func(t *testing.T) {
		meals, sessions, recommender, sess := newMealFixture(t, 0)
		recommender.err = domain.ErrRateLimited
		_, err := sessions.AddToCart(ctx, sess.ID, "tomato")
		require.NoError(t, err)

		result, err := meals.Recommend(ctx, sess.ID)

		assert.Nil(t, result)
		assert.ErrorIs(t, err, domain.ErrRateLimited)
	})

	t.Run("unknown session", func(t *testing.T) {
		store := session.NewMemoryStore()
		meals := NewMealService(&MockMealRecommender{}, store, MealServiceConfig{}, nil)

		_, err := meals.Recommend(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
