package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/smartcart/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu        sync.Mutex
	data      map[string][]byte
	getError  error
	setError  error
	getCalled int
	setCalled int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalled++
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// MockCatalogSource is a mock implementation of domain.CatalogSource
type MockCatalogSource struct {
	mu           sync.Mutex
	products     []domain.Product
	offers       []domain.Offer
	catalogError error
	offersError  error
	catalogCalls int
	offersCalls  int
}

func NewMockCatalogSource() *MockCatalogSource {
	return &MockCatalogSource{}
}

func (m *MockCatalogSource) GetCatalog(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.catalogCalls++
	if m.catalogError != nil {
		return nil, m.catalogError
	}
	return m.products, nil
}

func (m *MockCatalogSource) GetOffers(ctx context.Context) ([]domain.Offer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offersCalls++
	if m.offersError != nil {
		return nil, m.offersError
	}
	return m.offers, nil
}

// MockMealRecommender is a mock implementation of domain.MealRecommender
type MockMealRecommender struct {
	meals       []domain.Meal
	err         error
	calls       int
	lastRequest domain.MealRequest
}

func (m *MockMealRecommender) RecommendMeals(ctx context.Context, request domain.MealRequest) ([]domain.Meal, error) {
	m.calls++
	m.lastRequest = request
	if m.err != nil {
		return nil, m.err
	}
	return m.meals, nil
}

// MockProductLookup resolves products from a fixed list
type MockProductLookup struct {
	products []domain.Product
}

func (m *MockProductLookup) Product(ctx context.Context, id string) (*domain.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}
