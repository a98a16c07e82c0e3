package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ubarcturus/improbability/internal/domain/access"
	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/ingest"
)

func newItemService(ir *MockItemRepository, er *MockEventRepository, tm *MockTxManager) *ItemService {
	accessService := NewAccessService(ir, er)
	authService := NewAuthService(new(MockPrincipalRepository), nil, time.Minute)
	return NewItemService(ir, tm, accessService, authService)
}

func TestItemService_CreateItems(t *testing.T) {
	ctx := context.Background()

	t.Run("全件検証を通れば1トランザクションで作成される", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockTxManager := new(MockTxManager)
		mockTx := new(MockTx)
		p := testPrincipal()

		mockTxManager.On("Begin", ctx).Return(mockTx, nil)
		mockItemRepo.On("CreateBatch", ctx, mockTx, mock.AnythingOfType("[]*item.Item")).
			Run(func(args mock.Arguments) {
				// 挿入順にIDが採番される
				items := args.Get(2).([]*item.Item)
				for i, it := range items {
					it.ID = int64(10 + i)
				}
			}).Return(nil)
		mockTx.On("Commit").Return(nil)
		mockTx.On("Rollback").Return(nil)

		service := newItemService(mockItemRepo, new(MockEventRepository), mockTxManager)

		records := []*ingest.ItemRecord{
			{Name: "青いサイコロ", PossibleResults: 6},
			{Name: "コイン", PossibleResults: 2},
		}
		items, err := service.CreateItems(ctx, p, records)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, int64(10), items[0].ID)
		assert.Equal(t, int64(1), items[0].PrincipalID)

		// 作成したアイテムは手元のPrincipalの所有集合にも反映される
		assert.Contains(t, p.ItemIDs, int64(10))
		assert.Contains(t, p.ItemIDs, int64(11))

		mockItemRepo.AssertExpectations(t)
		mockTx.AssertExpectations(t)
	})

	t.Run("空のバッチで拒否される", func(t *testing.T) {
		mockTxManager := new(MockTxManager)
		service := newItemService(new(MockItemRepository), new(MockEventRepository), mockTxManager)

		_, err := service.CreateItems(ctx, testPrincipal(), []*ingest.ItemRecord{})

		assert.ErrorIs(t, err, ingest.ErrEmptyBatch)
		mockTxManager.AssertNotCalled(t, "Begin")
	})

	t.Run("1件でも検証に失敗すれば何も永続化されない", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockTxManager := new(MockTxManager)

		service := newItemService(mockItemRepo, new(MockEventRepository), mockTxManager)

		records := []*ingest.ItemRecord{
			{Name: "青いサイコロ", PossibleResults: 6},
			{Name: "", PossibleResults: 2}, // 名前欠落
		}
		_, err := service.CreateItems(ctx, testPrincipal(), records)

		assert.ErrorIs(t, err, item.ErrItemNameRequired)
		mockTxManager.AssertNotCalled(t, "Begin")
		mockItemRepo.AssertNotCalled(t, "CreateBatch")
	})

	t.Run("挿入失敗時はロールバックされる", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockTxManager := new(MockTxManager)
		mockTx := new(MockTx)

		mockTxManager.On("Begin", ctx).Return(mockTx, nil)
		mockItemRepo.On("CreateBatch", ctx, mockTx, mock.Anything).Return(errors.New("insert failed"))
		mockTx.On("Rollback").Return(nil)

		service := newItemService(mockItemRepo, new(MockEventRepository), mockTxManager)

		_, err := service.CreateItems(ctx, testPrincipal(), []*ingest.ItemRecord{
			{Name: "青いサイコロ", PossibleResults: 6},
		})

		assert.Error(t, err)
		mockTx.AssertCalled(t, "Rollback")
		mockTx.AssertNotCalled(t, "Commit")
	})
}

func TestItemService_GetItem(t *testing.T) {
	ctx := context.Background()

	t.Run("所有するアイテムを取得できる", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		i := &item.Item{ID: 1, PrincipalID: 1, Name: "青いサイコロ", PossibleResults: 6}
		mockItemRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockItemRepo.On("GetByID", ctx, int64(1)).Return(i, nil)

		service := newItemService(mockItemRepo, new(MockEventRepository), new(MockTxManager))

		got, err := service.GetItem(ctx, testPrincipal(), 1)

		require.NoError(t, err)
		assert.Equal(t, i, got)
	})

	t.Run("存在しないアイテムでnot found", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockItemRepo.On("Exists", ctx, int64(99)).Return(false, nil)

		service := newItemService(mockItemRepo, new(MockEventRepository), new(MockTxManager))

		_, err := service.GetItem(ctx, testPrincipal(), 99)

		assert.ErrorIs(t, err, item.ErrItemNotFound)
	})

	t.Run("他者の既存アイテムで所有権違反", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockItemRepo.On("Exists", ctx, int64(7)).Return(true, nil)

		service := newItemService(mockItemRepo, new(MockEventRepository), new(MockTxManager))

		_, err := service.GetItem(ctx, testPrincipal(), 7)

		assert.ErrorIs(t, err, access.ErrOwnershipViolation)
		mockItemRepo.AssertNotCalled(t, "GetByID")
	})
}

func TestItemService_UpdateItem(t *testing.T) {
	ctx := context.Background()

	input := UpdateItemInput{ID: 1, Name: "赤いサイコロ", PossibleResults: 20}

	t.Run("正常に全置換更新できる", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		stored := &item.Item{ID: 1, PrincipalID: 1, Name: "青いサイコロ", PossibleResults: 6, Description: "古い説明", Version: 1}
		mockItemRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockItemRepo.On("GetByID", ctx, int64(1)).Return(stored, nil)
		mockItemRepo.On("Update", ctx, stored).Return(nil)

		service := newItemService(mockItemRepo, new(MockEventRepository), new(MockTxManager))

		updated, err := service.UpdateItem(ctx, testPrincipal(), input)

		require.NoError(t, err)
		assert.Equal(t, "赤いサイコロ", updated.Name)
		assert.Equal(t, 20, updated.PossibleResults)
		// 省略された任意フィールドは空になる（PUTセマンティクス）
		assert.Empty(t, updated.Description)
	})

	t.Run("検証に失敗すれば更新されない", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		stored := &item.Item{ID: 1, PrincipalID: 1, Name: "青いサイコロ", PossibleResults: 6, Version: 1}
		mockItemRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockItemRepo.On("GetByID", ctx, int64(1)).Return(stored, nil)

		service := newItemService(mockItemRepo, new(MockEventRepository), new(MockTxManager))

		_, err := service.UpdateItem(ctx, testPrincipal(), UpdateItemInput{ID: 1, Name: "赤いサイコロ", PossibleResults: 0})

		assert.ErrorIs(t, err, item.ErrInvalidPossibleResults)
		mockItemRepo.AssertNotCalled(t, "Update")
	})

	t.Run("バージョン競合は競合として伝播する", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		stored := &item.Item{ID: 1, PrincipalID: 1, Name: "青いサイコロ", PossibleResults: 6, Version: 1}
		mockItemRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockItemRepo.On("GetByID", ctx, int64(1)).Return(stored, nil)
		mockItemRepo.On("Update", ctx, stored).Return(item.ErrVersionConflict)

		service := newItemService(mockItemRepo, new(MockEventRepository), new(MockTxManager))

		_, err := service.UpdateItem(ctx, testPrincipal(), input)

		assert.ErrorIs(t, err, item.ErrVersionConflict)
	})

	t.Run("競合中に並行削除されていればnot foundになる", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		stored := &item.Item{ID: 1, PrincipalID: 1, Name: "青いサイコロ", PossibleResults: 6, Version: 1}
		mockItemRepo.On("Exists", ctx, int64(1)).Return(true, nil).Once()
		mockItemRepo.On("GetByID", ctx, int64(1)).Return(stored, nil)
		mockItemRepo.On("Update", ctx, stored).Return(item.ErrVersionConflict)
		mockItemRepo.On("Exists", ctx, int64(1)).Return(false, nil).Once()

		service := newItemService(mockItemRepo, new(MockEventRepository), new(MockTxManager))

		_, err := service.UpdateItem(ctx, testPrincipal(), input)

		assert.ErrorIs(t, err, item.ErrItemNotFound)
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("正常に削除できる", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockItemRepo.On("Exists", ctx, int64(1)).Return(true, nil)
		mockItemRepo.On("Delete", ctx, int64(1)).Return(nil)

		service := newItemService(mockItemRepo, new(MockEventRepository), new(MockTxManager))

		err := service.DeleteItem(ctx, testPrincipal(), 1)

		require.NoError(t, err)
		mockItemRepo.AssertExpectations(t)
	})

	t.Run("他者のアイテムは削除できない", func(t *testing.T) {
		mockItemRepo := new(MockItemRepository)
		mockItemRepo.On("Exists", ctx, int64(7)).Return(true, nil)

		service := newItemService(mockItemRepo, new(MockEventRepository), new(MockTxManager))

		err := service.DeleteItem(ctx, testPrincipal(), 7)

		assert.ErrorIs(t, err, access.ErrOwnershipViolation)
		mockItemRepo.AssertNotCalled(t, "Delete")
	})
}
