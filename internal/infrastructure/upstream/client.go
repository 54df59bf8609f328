package upstream

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/smartcart/backend/internal/domain"
	"github.com/smartcart/backend/internal/infrastructure/fetch"
	"github.com/smartcart/backend/internal/logger"
)

// Config locates the storefront API endpoints
type Config struct {
	BaseURL     string
	APIKey      string
	CatalogPath string
	OffersPath  string
	MealsPath   string
}

// Client loads catalog, offers and meal recommendations from the storefront API
type Client struct {
	fetcher     *fetch.Client
	cfg         Config
	policy      fetch.RetryPolicy
	mealsPolicy fetch.RetryPolicy
	log         *logger.Logger
}

// NewClient creates a new storefront API client. Catalog and offer loads use
// policy; meal recommendations are a single attempt under the same timeout.
func NewClient(fetcher *fetch.Client, cfg Config, policy fetch.RetryPolicy, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	mealsPolicy := policy
	mealsPolicy.Retries = 1

	return &Client{
		fetcher:     fetcher,
		cfg:         cfg,
		policy:      policy,
		mealsPolicy: mealsPolicy,
		log:         log.With(zap.String("component", "upstream")),
	}
}

func (c *Client) endpoint(path string) string {
	return c.cfg.BaseURL + "/" + strings.TrimLeft(path, "/")
}

// GetCatalog loads the grocery catalog
func (c *Client) GetCatalog(ctx context.Context) ([]domain.Product, error) {
	var resp CatalogResponse
	if err := c.fetcher.GetJSON(ctx, c.endpoint(c.cfg.CatalogPath), c.policy, &resp); err != nil {
		return nil, fmt.Errorf("%w: catalog: %w", domain.ErrUpstreamFailure, err)
	}

	c.log.Debug("catalog loaded", zap.Int("items", len(resp.Items)))
	return MapToProducts(resp.Items), nil
}

// GetOffers loads today's offers
func (c *Client) GetOffers(ctx context.Context) ([]domain.Offer, error) {
	var resp OffersResponse
	if err := c.fetcher.GetJSON(ctx, c.endpoint(c.cfg.OffersPath), c.policy, &resp); err != nil {
		return nil, fmt.Errorf("%w: offers: %w", domain.ErrUpstreamFailure, err)
	}

	c.log.Debug("offers loaded", zap.Int("offers", len(resp.Offers)))
	if resp.Offers == nil {
		return []domain.Offer{}, nil
	}
	return resp.Offers, nil
}

// RecommendMeals asks the meal API for recipes using the cart contents
func (c *Client) RecommendMeals(ctx context.Context, request domain.MealRequest) ([]domain.Meal, error) {
	header := http.Header{}
	if c.cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	var resp MealsResponse
	err := c.fetcher.Do(ctx, fetch.Request{
		Method: http.MethodPost,
		URL:    c.endpoint(c.cfg.MealsPath),
		Body:   request,
		Header: header,
	}, c.mealsPolicy, &resp)
	if err != nil {
		return nil, fmt.Errorf("%w: meal recommendations: %w", domain.ErrUpstreamFailure, err)
	}

	if resp.Meals == nil {
		return []domain.Meal{}, nil
	}
	return resp.Meals, nil
}
