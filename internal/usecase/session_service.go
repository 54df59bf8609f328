package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/logger"
)

const (
	minPasswordLength = 6
	defaultUserName   = "New User"
	defaultAvatarURL  = "https://default-avatar.com"
)

// ProductLookup resolves a product ID against the catalog
type ProductLookup interface {
	Product(ctx context.Context, id string) (*domain.Product, error)
}

// SessionServiceConfig holds configuration for the session service
type SessionServiceConfig struct {
	SessionTTL time.Duration
	BcryptCost int
}

// SessionService handles signup, login and everything tied to a session:
// the cart and the dietary preferences edited on the profile page
type SessionService struct {
	users      domain.UserRepository
	sessions   domain.SessionRepository
	products   ProductLookup
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
	log        *logger.Logger
}

// NewSessionService creates a new session service with dependencies
func NewSessionService(
	users domain.UserRepository,
	sessions domain.SessionRepository,
	products ProductLookup,
	config SessionServiceConfig,
	log *logger.Logger,
) *SessionService {
	sessionTTL := config.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = 24 * time.Hour
	}
	bcryptCost := config.BcryptCost
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if log == nil {
		log = logger.Nop()
	}

	return &SessionService{
		users:      users,
		sessions:   sessions,
		products:   products,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
		now:        time.Now,
		log:        log,
	}
}

// Signup registers a new user
func (s *SessionService) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email address", domain.ErrInvalidRequest)
	}
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidRequest, minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         defaultUserName,
		AvatarURL:    defaultAvatarURL,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login checks credentials and starts a new session
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := s.now()
	session := &domain.Session{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
		AvatarURL:   user.AvatarURL,
		Cart:        []domain.CartItem{},
		Preferences: domain.FilterSelection{},
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.sessionTTL),
	}

	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.log.Info("user logged in", zap.String("user_id", user.ID))
	return session, nil
}

// Logout ends the session; its cart and preferences are discarded
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.DeleteSession(ctx, sessionID)
}

// Session returns the live session for sessionID
func (s *SessionService) Session(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.sessions.GetSession(ctx, sessionID)
}

// Cart returns the session's cart with its total
func (s *SessionService) Cart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return buildCart(session.Cart), nil
}

// AddToCart adds one unit of a catalog product to the session's cart
func (s *SessionService) AddToCart(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	if _, err := s.Session(ctx, sessionID); err != nil {
		return nil, err
	}

	product, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.UpdateSession(ctx, sessionID, func(sess *domain.Session) error {
		for i := range sess.Cart {
			if sess.Cart[i].ProductID == product.ID {
				sess.Cart[i].Quantity++
				return nil
			}
		}
		sess.Cart = append(sess.Cart, domain.CartItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  1,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("added to cart", zap.String("session_id", sessionID), zap.String("product_id", product.ID))
	return buildCart(session.Cart), nil
}

// RemoveFromCart drops a product line from the cart
func (s *SessionService) RemoveFromCart(ctx context.Context, sessionID, productID string) (*domain.Cart, error) {
	session, err := s.sessions.UpdateSession(ctx, sessionID, func(sess *domain.Session) error {
		for i := range sess.Cart {
			if sess.Cart[i].ProductID == productID {
				sess.Cart = append(sess.Cart[:i], sess.Cart[i+1:]...)
				return nil
			}
		}
		return domain.ErrProductNotFound
	})
	if err != nil {
		return nil, err
	}
	return buildCart(session.Cart), nil
}

// Preferences returns the session's dietary preferences
func (s *SessionService) Preferences(ctx context.Context, sessionID string) (domain.FilterSelection, error) {
	session, err := s.Session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Preferences == nil {
		return domain.FilterSelection{}, nil
	}
	return session.Preferences, nil
}

// UpdatePreferences replaces the session's dietary preferences
func (s *SessionService) UpdatePreferences(ctx context.Context, sessionID string, prefs domain.FilterSelection) (domain.FilterSelection, error) {
	normalized := make(domain.FilterSelection, len(prefs))
	for key, value := range prefs {
		canonical, ok := domain.CanonicalFilterKey(key)
		if !ok || !slices.Contains(domain.MealPreferenceKeys, canonical) {
			return nil, fmt.Errorf("%w: unknown dietary preference %q", domain.ErrInvalidRequest, key)
		}
		normalized[canonical] = value
	}

	session, err := s.sessions.UpdateSession(ctx, sessionID, func(sess *domain.Session) error {
		sess.Preferences = normalized
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session.Preferences, nil
}

// DietarySummary renders active preferences as words, e.g. "vegan, gluten free"
func DietarySummary(prefs domain.FilterSelection) string {
	var active []string
	for _, key := range domain.MealPreferenceKeys {
		if prefs[key] {
			active = append(active, splitCamelCase(key))
		}
	}
	if len(active) == 0 {
		return "None"
	}
	return strings.Join(active, ", ")
}

// splitCamelCase turns "glutenFree" into "gluten free" and "nonGMO" into "non g m o"
func splitCamelCase(key string) string {
	var b strings.Builder
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func buildCart(items []domain.CartItem) *domain.Cart {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return &domain.Cart{Items: items, Total: total}
}
