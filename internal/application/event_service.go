package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/domain/principal"
	"github.com/ubarcturus/improbability/internal/domain/randomevent"
	"github.com/ubarcturus/improbability/internal/domain/transaction"
	"github.com/ubarcturus/improbability/internal/ingest"
)

// EventService はイベントのユースケースを提供する
type EventService struct {
	eventRepo randomevent.Repository
	itemRepo  item.Repository
	txManager transaction.Manager
	access    *AccessService
}

// NewEventService はEventServiceを作成する
func NewEventService(er randomevent.Repository, ir item.Repository, tm transaction.Manager, access *AccessService) *EventService {
	return &EventService{eventRepo: er, itemRepo: ir, txManager: tm, access: access}
}

// ListEventsForPrincipal は利用者が所有する全アイテムのイベントを取得する
func (s *EventService) ListEventsForPrincipal(ctx context.Context, p *principal.Principal) ([]*randomevent.Event, error) {
	if len(p.ItemIDs) == 0 {
		return []*randomevent.Event{}, nil
	}
	return s.eventRepo.ListByItems(ctx, p.ItemIDs)
}

// ListEventsByItem は指定アイテムのイベントを取得する
func (s *EventService) ListEventsByItem(ctx context.Context, p *principal.Principal, itemID int64) ([]*randomevent.Event, error) {
	decision, err := s.access.ResolveItemAccess(ctx, p, itemID)
	if err != nil {
		return nil, err
	}
	if err := decisionToError(decision, item.ErrItemNotFound); err != nil {
		return nil, err
	}
	return s.eventRepo.ListByItem(ctx, itemID)
}

// GetEvent は所有するアイテムのイベントを取得する
func (s *EventService) GetEvent(ctx context.Context, p *principal.Principal, id int64) (*randomevent.Event, error) {
	decision, e, err := s.access.ResolveEventAccess(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if err := decisionToError(decision, randomevent.ErrEventNotFound); err != nil {
		return nil, err
	}
	return e, nil
}

// CreateEvents は一括取り込みされたイベント候補を全件作成する
// 全レコードの親アイテムIDが対象アイテムと一致し、全行が検証を通った
// 場合のみ1トランザクションで永続化される
func (s *EventService) CreateEvents(ctx context.Context, p *principal.Principal, itemID int64, records []*ingest.EventRecord) ([]*randomevent.Event, error) {
	decision, err := s.access.ResolveItemAccess(ctx, p, itemID)
	if err != nil {
		return nil, err
	}
	if err := decisionToError(decision, item.ErrItemNotFound); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ingest.ErrEmptyBatch
	}
	if err := ingest.ValidateEventTargets(records, itemID); err != nil {
		return nil, err
	}

	events := make([]*randomevent.Event, 0, len(records))
	for _, record := range records {
		e := randomevent.NewEvent(record.ItemID, record.Name, record.Time, record.Result, record.Description)
		if err := e.Validate(); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	tx, err := s.txManager.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("トランザクション開始に失敗しました: %w", err)
	}
	defer tx.Rollback()

	if err := s.eventRepo.CreateBatch(ctx, tx, events); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("コミットに失敗しました: %w", err)
	}
	return events, nil
}

// UpdateEventInput はイベント全置換更新の入力
type UpdateEventInput struct {
	ID          int64
	ItemID      int64
	Name        string
	Time        string
	Result      int
	Description string
}

// UpdateEvent はイベントを全置換更新する
// 親アイテムIDは作成時に固定され、変更しようとすると拒否される
func (s *EventService) UpdateEvent(ctx context.Context, p *principal.Principal, input UpdateEventInput) (*randomevent.Event, error) {
	decision, e, err := s.access.ResolveEventAccess(ctx, p, input.ID)
	if err != nil {
		return nil, err
	}
	if err := decisionToError(decision, randomevent.ErrEventNotFound); err != nil {
		return nil, err
	}

	if input.ItemID != e.ItemID {
		return nil, randomevent.ErrItemIDImmutable
	}

	e.Name = input.Name
	e.Time = input.Time
	e.Result = input.Result
	e.Description = input.Description
	if err := e.Validate(); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, e); err != nil {
		if errors.Is(err, randomevent.ErrVersionConflict) {
			// 競合時は存在を確認し直す。並行削除されていれば404として報告
			if _, getErr := s.eventRepo.GetByID(ctx, input.ID); errors.Is(getErr, randomevent.ErrEventNotFound) {
				return nil, randomevent.ErrEventNotFound
			}
		}
		return nil, err
	}
	return e, nil
}

// DeleteEvent はイベントを削除する
func (s *EventService) DeleteEvent(ctx context.Context, p *principal.Principal, id int64) error {
	decision, _, err := s.access.ResolveEventAccess(ctx, p, id)
	if err != nil {
		return err
	}
	if err := decisionToError(decision, randomevent.ErrEventNotFound); err != nil {
		return err
	}
	return s.eventRepo.Delete(ctx, id)
}
