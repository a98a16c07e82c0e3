package application

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/domain/principal"
	"github.com/ubarcturus/improbability/internal/domain/randomevent"
	"github.com/ubarcturus/improbability/internal/domain/transaction"
)

// === Mock implementations ===

// MockTxManager implements transaction.Manager
type MockTxManager struct {
	mock.Mock
}

func (m *MockTxManager) Begin(ctx context.Context) (transaction.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transaction.Tx), args.Error(1)
}

// MockTx implements transaction.Tx
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockItemRepository implements item.Repository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) CreateBatch(ctx context.Context, tx transaction.Tx, items []*item.Item) error {
	args := m.Called(ctx, tx, items)
	return args.Error(0)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id int64) (*item.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*item.Item), args.Error(1)
}

func (m *MockItemRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockItemRepository) ListByPrincipal(ctx context.Context, principalID int64) ([]*item.Item, error) {
	args := m.Called(ctx, principalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*item.Item), args.Error(1)
}

func (m *MockItemRepository) Update(ctx context.Context, i *item.Item) error {
	args := m.Called(ctx, i)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEventRepository implements randomevent.Repository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) CreateBatch(ctx context.Context, tx transaction.Tx, events []*randomevent.Event) error {
	args := m.Called(ctx, tx, events)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*randomevent.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*randomevent.Event), args.Error(1)
}

func (m *MockEventRepository) ListByItem(ctx context.Context, itemID int64) ([]*randomevent.Event, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*randomevent.Event), args.Error(1)
}

func (m *MockEventRepository) ListByItems(ctx context.Context, itemIDs []int64) ([]*randomevent.Event, error) {
	args := m.Called(ctx, itemIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*randomevent.Event), args.Error(1)
}

func (m *MockEventRepository) ListResultsByItem(ctx context.Context, itemID int64) ([]int, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, e *randomevent.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPrincipalRepository implements principal.Repository
type MockPrincipalRepository struct {
	mock.Mock
}

func (m *MockPrincipalRepository) GetByAPIKey(ctx context.Context, apiKey string) (*principal.Principal, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*principal.Principal), args.Error(1)
}

// MockPrincipalCache implements PrincipalCache
type MockPrincipalCache struct {
	mock.Mock
}

func (m *MockPrincipalCache) Get(ctx context.Context, apiKey string) (*principal.Principal, error) {
	args := m.Called(ctx, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*principal.Principal), args.Error(1)
}

func (m *MockPrincipalCache) Set(ctx context.Context, p *principal.Principal, ttl time.Duration) error {
	args := m.Called(ctx, p, ttl)
	return args.Error(0)
}

func (m *MockPrincipalCache) Invalidate(ctx context.Context, apiKey string) error {
	args := m.Called(ctx, apiKey)
	return args.Error(0)
}

// testPrincipal はID1でアイテム1,2を所有する利用者
func testPrincipal() *principal.Principal {
	return &principal.Principal{
		ID:      1,
		Name:    "テスト利用者",
		APIKey:  "test-api-key",
		ItemIDs: []int64{1, 2},
	}
}
