package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/logger"
)

// MealServiceConfig holds configuration for the meal service
type MealServiceConfig struct {
	Debounce time.Duration
}

// MealService suggests meals from the cart contents and filters them by
// the session's dietary preferences
type MealService struct {
	recommender domain.MealRecommender
	sessions    domain.SessionRepository
	debounce    time.Duration
	now         func() time.Time
	log         *logger.Logger
}

// NewMealService creates a new meal service with dependencies
func NewMealService(
	recommender domain.MealRecommender,
	sessions domain.SessionRepository,
	config MealServiceConfig,
	log *logger.Logger,
) *MealService {
	if log == nil {
		log = logger.Nop()
	}
	return &MealService{
		recommender: recommender,
		sessions:    sessions,
		debounce:    config.Debounce,
		now:         time.Now,
		log:         log,
	}
}

// Recommend returns meal suggestions for the session's cart.
// An empty cart yields no suggestions without calling the recommender.
// Requests closer together than the debounce window return ErrDebounced.
func (s *MealService) Recommend(ctx context.Context, sessionID string) ([]domain.Meal, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(session.Cart) == 0 {
		return []domain.Meal{}, nil
	}

	now := s.now()
	session, err = s.sessions.UpdateSession(ctx, sessionID, func(sess *domain.Session) error {
		if s.debounce > 0 && !sess.LastMealRequest.IsZero() && now.Sub(sess.LastMealRequest) < s.debounce {
			return domain.ErrDebounced
		}
		sess.LastMealRequest = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	request := domain.MealRequest{
		CartItems:    cartItemNames(session.Cart),
		DietaryPrefs: session.Preferences,
	}
	if request.DietaryPrefs == nil {
		request.DietaryPrefs = domain.FilterSelection{}
	}

	meals, err := s.recommender.RecommendMeals(ctx, request)
	if err != nil {
		s.log.Warn("meal recommendation failed", zap.String("session_id", sessionID), zap.Error(err))
		return nil, err
	}

	return FilterMeals(meals, session.Preferences), nil
}

func cartItemNames(items []domain.CartItem) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return names
}
