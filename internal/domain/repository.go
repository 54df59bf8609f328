package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are opaque encoded payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogSource defines the interface for loading catalog data from the storefront API
type CatalogSource interface {
	GetCatalog(ctx context.Context) ([]Product, error)
	GetOffers(ctx context.Context) ([]Offer, error)
}

// MealRecommender defines the interface for the external meal recommendation API
type MealRecommender interface {
	RecommendMeals(ctx context.Context, request MealRequest) ([]Meal, error)
}

// UserRepository stores registered users
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// SessionRepository stores live sessions. UpdateSession applies fn to the
// stored session atomically and returns the updated copy.
type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)
	UpdateSession(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	DeleteSession(ctx context.Context, id string) error
}
