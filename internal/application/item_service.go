package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/domain/principal"
	"github.com/ubarcturus/improbability/internal/domain/transaction"
	"github.com/ubarcturus/improbability/internal/ingest"
)

// ItemService はアイテムのユースケースを提供する
type ItemService struct {
	itemRepo  item.Repository
	txManager transaction.Manager
	access    *AccessService
	auth      *AuthService
}

// NewItemService はItemServiceを作成する
func NewItemService(ir item.Repository, tm transaction.Manager, access *AccessService, auth *AuthService) *ItemService {
	return &ItemService{itemRepo: ir, txManager: tm, access: access, auth: auth}
}

// ListItems は利用者が所有する全アイテムを取得する
func (s *ItemService) ListItems(ctx context.Context, p *principal.Principal) ([]*item.Item, error) {
	return s.itemRepo.ListByPrincipal(ctx, p.ID)
}

// GetItem は所有するアイテムを取得する
func (s *ItemService) GetItem(ctx context.Context, p *principal.Principal, id int64) (*item.Item, error) {
	decision, err := s.access.ResolveItemAccess(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := decisionToError(decision, item.ErrItemNotFound); err != nil {
		return nil, err
	}
	return s.itemRepo.GetByID(ctx, id)
}

// CreateItems は一括取り込みされたアイテム候補を全件作成する
// 1件でも検証に失敗すれば何も永続化されない
func (s *ItemService) CreateItems(ctx context.Context, p *principal.Principal, records []*ingest.ItemRecord) ([]*item.Item, error) {
	if len(records) == 0 {
		return nil, ingest.ErrEmptyBatch
	}

	items := make([]*item.Item, 0, len(records))
	for _, record := range records {
		i := item.NewItem(p.ID, record.Name, record.PossibleResults, record.Description)
		if err := i.Validate(); err != nil {
			return nil, err
		}
		items = append(items, i)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if err := s.itemRepo.CreateBatch(ctx, tx, items); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗しました: %w", err)
	}

	// 所有アイテムの集合が変わったのでキャッシュを無効化し、
	// このリクエスト内の後続処理のために手元のPrincipalも更新する
	for _, i := range items {
		p.ItemIDs = append(p.ItemIDs, i.ID)
	}
	s.auth.InvalidatePrincipal(ctx, p)

	return items, nil
}

// UpdateItemInput はアイテム全置換更新の入力
// PUTセマンティクス: 全フィールドを再指定し、省略された任意フィールドは空になる
type UpdateItemInput struct {
	ID              int64
	Name            string
	PossibleResults int
	Description     string
}

// UpdateItem はアイテムを全置換更新する
// 所有者は作成時に固定され、この操作では変更されない
func (s *ItemService) UpdateItem(ctx context.Context, p *principal.Principal, input UpdateItemInput) (*item.Item, error) {
	decision, err := s.access.ResolveItemAccess(ctx, p, input.ID)
	if err != nil {
		return nil, err
	}
	if err := decisionToError(decision, item.ErrItemNotFound); err != nil {
		return nil, err
	}

	i, err := s.itemRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	i.Name = input.Name
	i.PossibleResults = input.PossibleResults
	i.Description = input.Description
	if err := i.Validate(); err != nil {
		return nil, err
	}

	if err := s.itemRepo.Update(ctx, i); err != nil {
		if errors.Is(err, item.ErrVersionConflict) {
			// 競合時は存在を確認し直す。並行削除されていれば404として報告
			exists, existsErr := s.itemRepo.Exists(ctx, input.ID)
			if existsErr == nil && !exists {
				return nil, item.ErrItemNotFound
			}
		}
		return nil, err
	}
	return i, nil
}

// DeleteItem はアイテムを削除する。配下のイベントもカスケード削除される
func (s *ItemService) DeleteItem(ctx context.Context, p *principal.Principal, id int64) error {
	decision, err := s.access.ResolveItemAccess(ctx, p, id)
	if err != nil {
		return err
	}
	if err := decisionToError(decision, item.ErrItemNotFound); err != nil {
		return err
	}

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.auth.InvalidatePrincipal(ctx, p)
	return nil
}
