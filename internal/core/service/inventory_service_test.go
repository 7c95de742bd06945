package service

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minishop/minishop/internal/core/domain"
)

type mockProductRepo struct {
	mu           sync.Mutex
	products     map[string]*domain.Product
	getCalls     int
	lastFilter   domain.SearchFilter
	searchResult []domain.ProductSummary
	inserted     []*domain.Product
	stockUpdates map[string]int
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		products:     make(map[string]*domain.Product),
		stockUpdates: make(map[string]int),
	}
}

func (m *mockProductRepo) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	product, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (m *mockProductRepo) SearchProducts(ctx context.Context, filter domain.SearchFilter) ([]domain.ProductSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = filter
	return m.searchResult, nil
}

func (m *mockProductRepo) InsertProduct(ctx context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted = append(m.inserted, product)
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepo) UpdateStock(ctx context.Context, id string, stockQty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	product, ok := m.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	product.StockQty = stockQty
	m.stockUpdates[id] = stockQty
	return nil
}

func TestSearchProducts_PassesFilter(t *testing.T) {
	repo := newMockProductRepo()
	maxPrice := decimal.RequireFromString("10.00")
	repo.searchResult = []domain.ProductSummary{
		{ID: "p2", Name: "Blue Mug", Price: decimal.RequireFromString("5.00"), StockQty: 3},
		{ID: "p1", Name: "Red Mug", Price: decimal.RequireFromString("5.00"), StockQty: 7},
	}
	svc := NewInventoryService(repo, nil, newTestLogger())

	summaries, err := svc.SearchProducts(context.Background(), domain.SearchFilter{
		Keyword:  "mug",
		MaxPrice: &maxPrice,
	})

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Blue Mug", summaries[0].Name)
	assert.Equal(t, "Red Mug", summaries[1].Name)
	assert.Equal(t, "mug", repo.lastFilter.Keyword)
	require.NotNil(t, repo.lastFilter.MaxPrice)
	assert.True(t, repo.lastFilter.MaxPrice.Equal(maxPrice))
	assert.Nil(t, repo.lastFilter.MinPrice)
}

func TestGetProduct_CacheMissThenHit(t *testing.T) {
	repo := newMockProductRepo()
	repo.products["p1"] = &domain.Product{ID: "p1", Name: "Red Mug", Price: decimal.RequireFromString("5.00")}
	cache := newMockProductCache()
	svc := NewInventoryService(repo, cache, newTestLogger())

	first, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Red Mug", first.Name)
	assert.Equal(t, 1, repo.getCalls)

	// Second read is served from the cache.
	second, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Red Mug", second.Name)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetProduct_NotFound(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewInventoryService(repo, nil, newTestLogger())

	_, err := svc.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetProduct_NoCache(t *testing.T) {
	repo := newMockProductRepo()
	repo.products["p1"] = &domain.Product{ID: "p1", Name: "Red Mug"}
	svc := NewInventoryService(repo, nil, newTestLogger())

	product, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", product.ID)
}
