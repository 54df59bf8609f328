package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/infrastructure/fetch"
	"github.com/smartcart/backend/internal/logger"
	"github.com/smartcart/backend/internal/usecase"
)

const sessionIDKey = "session_id"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	catalog  *usecase.CatalogService
	sessions *usecase.SessionService
	meals    *usecase.MealService
	log      *logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *usecase.CatalogService,
	sessions *usecase.SessionService,
	meals *usecase.MealService,
	log *logger.Logger,
) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		catalog:  catalog,
		sessions: sessions,
		meals:    meals,
		log:      log,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "smartcart-backend",
		"version": "1.0.0",
	})
}

// ListProducts handles GET /products with filter query parameters,
// e.g. ?vegan=true&leafy=true
func (h *Handler) ListProducts(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	products, err := h.catalog.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct handles GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// ListOffers handles GET /offers
func (h *Handler) ListOffers(c *gin.Context) {
	offers, err := h.catalog.Offers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

// GetStorefront handles GET /storefront: filtered products plus offers
func (h *Handler) GetStorefront(c *gin.Context) {
	filters, err := parseFilters(c)
	if err != nil {
		h.writeError(c, err)
		return
	}

	storefront, err := h.catalog.Storefront(c.Request.Context(), filters)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, storefront)
}

// RefreshCatalog handles POST /catalog/refresh
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if err := h.catalog.Invalidate(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "catalog cache cleared"})
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      userView  `json:"user"`
}

type userView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// Signup handles POST /auth/signup
func (h *Handler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.sessions.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userView{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	})
}

// Login handles POST /auth/login and returns the session token
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	session, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Token:     session.ID,
		ExpiresAt: session.ExpiresAt,
		User: userView{
			ID:        session.UserID,
			Email:     session.Email,
			Name:      session.Name,
			AvatarURL: session.AvatarURL,
		},
	})
}

// Logout handles POST /auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), c.GetString(sessionIDKey)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GetCart handles GET /cart
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.sessions.Cart(c.Request.Context(), c.GetString(sessionIDKey))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// AddToCart handles POST /cart
func (h *Handler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}

	cart, err := h.sessions.AddToCart(c.Request.Context(), c.GetString(sessionIDKey), req.ProductID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveFromCart handles DELETE /cart/:productId
func (h *Handler) RemoveFromCart(c *gin.Context) {
	cart, err := h.sessions.RemoveFromCart(c.Request.Context(), c.GetString(sessionIDKey), c.Param("productId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// GetPreferences handles GET /profile/preferences
func (h *Handler) GetPreferences(c *gin.Context) {
	prefs, err := h.sessions.Preferences(c.Request.Context(), c.GetString(sessionIDKey))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// UpdatePreferences handles PUT /profile/preferences with a body like
// {"vegan": true, "glutenFree": false}
func (h *Handler) UpdatePreferences(c *gin.Context) {
	var req domain.FilterSelection
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must map preference names to booleans"})
		return
	}

	prefs, err := h.sessions.UpdatePreferences(c.Request.Context(), c.GetString(sessionIDKey), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// GetProfileSummary handles GET /profile/summary
func (h *Handler) GetProfileSummary(c *gin.Context) {
	session, err := h.sessions.Session(c.Request.Context(), c.GetString(sessionIDKey))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"name":           session.Name,
		"email":          session.Email,
		"avatarUrl":      session.AvatarURL,
		"dietarySummary": usecase.DietarySummary(session.Preferences),
	})
}

// RecommendMeals handles POST /meals/recommendations for the session's cart
func (h *Handler) RecommendMeals(c *gin.Context) {
	meals, err := h.meals.Recommend(c.Request.Context(), c.GetString(sessionIDKey))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meals": meals})
}

// parseFilters reads filter keys from the query string. Unknown keys are
// ignored; known keys must carry a boolean.
func parseFilters(c *gin.Context) (domain.FilterSelection, error) {
	filters := domain.FilterSelection{}
	for key, values := range c.Request.URL.Query() {
		canonical, ok := domain.CanonicalFilterKey(key)
		if !ok || len(values) == 0 {
			continue
		}
		active, err := strconv.ParseBool(values[0])
		if err != nil {
			return nil, fmt.Errorf("%w: filter %q must be true or false", domain.ErrInvalidRequest, key)
		}
		filters[canonical] = active
	}
	return filters, nil
}

// writeError maps domain and fetch errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func errorStatus(err error) (int, string) {
	var timeoutErr *fetch.TimeoutError

	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrRateLimited), errors.Is(err, domain.ErrDebounced):
		return http.StatusTooManyRequests, err.Error()
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout, "upstream API timed out"
	case errors.Is(err, domain.ErrUpstreamFailure):
		return http.StatusBadGateway, "upstream API unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
