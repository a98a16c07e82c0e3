package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ubarcturus/improbability/internal/domain/access"
	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/domain/principal"
	"github.com/ubarcturus/improbability/internal/domain/randomevent"
)

// AccessService はリソースへのアクセス可否を解決する
//
// 従来システムではアイテム系の判定が「所有しているか、または存在しない」
// というtie-breakで、イベント系は存在確認を先に行うという不一致があった。
// 本実装は全経路で「存在確認 → 所有確認」に統一する。外から見える
// ステータスコード（存在しないIDは404、他人の既存IDは401）は変わらない
type AccessService struct {
	itemRepo  item.Repository
	eventRepo randomevent.Repository
}

// NewAccessService はAccessServiceを作成する
func NewAccessService(ir item.Repository, er randomevent.Repository) *AccessService {
	return &AccessService{itemRepo: ir, eventRepo: er}
}

// ResolveItemAccess はアイテムへのアクセス可否を三値で返す
func (s *AccessService) ResolveItemAccess(ctx context.Context, p *principal.Principal, itemID int64) (access.Decision, error) {
	exists, err := s.itemRepo.Exists(ctx, itemID)
	if err != nil {
		return access.DecisionNotFound, fmt.Errorf("アイテムの存在確認に失敗しました: %w", err)
	}
	if !exists {
		return access.DecisionNotFound, nil
	}
	if p.OwnsItem(itemID) {
		return access.DecisionAllowed, nil
	}
	return access.DecisionDenied, nil
}

// ResolveEventAccess はイベントへのアクセス可否を親アイテムの所有で解決する
// 許可された場合は解決済みのイベントも返す
func (s *AccessService) ResolveEventAccess(ctx context.Context, p *principal.Principal, eventID int64) (access.Decision, *randomevent.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, randomevent.ErrEventNotFound) {
			return access.DecisionNotFound, nil, nil
		}
		return access.DecisionNotFound, nil, fmt.Errorf("イベント取得に失敗しました: %w", err)
	}
	if p.OwnsItem(e.ItemID) {
		return access.DecisionAllowed, e, nil
	}
	return access.DecisionDenied, nil, nil
}

// decisionToError はDecisionを対応するドメインエラーに写す
// 許可の場合はnil
func decisionToError(d access.Decision, notFound error) error {
	switch d {
	case access.DecisionAllowed:
		return nil
	case access.DecisionDenied:
		return access.ErrOwnershipViolation
	default:
		return notFound
	}
}
