package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is a registered storefront customer
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatarUrl"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CartItem is one product line in a cart
type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is the line price times quantity
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is the summary returned to clients
type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Session carries everything tied to one logged-in user: cart and
// dietary preferences live here and are discarded at logout.
type Session struct {
	ID              string          `json:"id"`
	UserID          string          `json:"userId"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	AvatarURL       string          `json:"avatarUrl"`
	Cart            []CartItem      `json:"cart"`
	Preferences     FilterSelection `json:"preferences"`
	LastMealRequest time.Time       `json:"-"`
	CreatedAt       time.Time       `json:"createdAt"`
	ExpiresAt       time.Time       `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry at the given time
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Clone returns a deep copy so callers cannot mutate stored state
func (s *Session) Clone() *Session {
	clone := *s
	clone.Cart = append([]CartItem(nil), s.Cart...)
	if s.Preferences != nil {
		clone.Preferences = s.Preferences.Clone()
	}
	return &clone
}
