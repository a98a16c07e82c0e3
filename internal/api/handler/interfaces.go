package handler

import (
	"context"

	"github.com/ubarcturus/improbability/internal/application"
	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/domain/principal"
	"github.com/ubarcturus/improbability/internal/domain/randomevent"
	"github.com/ubarcturus/improbability/internal/ingest"
	"github.com/ubarcturus/improbability/internal/stats"
)

// ItemServiceInterface はアイテムサービスのインターフェース
type ItemServiceInterface interface {
	ListItems(ctx context.Context, p *principal.Principal) ([]*item.Item, error)
	GetItem(ctx context.Context, p *principal.Principal, id int64) (*item.Item, error)
	CreateItems(ctx context.Context, p *principal.Principal, records []*ingest.ItemRecord) ([]*item.Item, error)
	UpdateItem(ctx context.Context, p *principal.Principal, input application.UpdateItemInput) (*item.Item, error)
	DeleteItem(ctx context.Context, p *principal.Principal, id int64) error
}

// EventServiceInterface はイベントサービスのインターフェース
type EventServiceInterface interface {
	ListEventsForPrincipal(ctx context.Context, p *principal.Principal) ([]*randomevent.Event, error)
	ListEventsByItem(ctx context.Context, p *principal.Principal, itemID int64) ([]*randomevent.Event, error)
	GetEvent(ctx context.Context, p *principal.Principal, id int64) (*randomevent.Event, error)
	CreateEvents(ctx context.Context, p *principal.Principal, itemID int64, records []*ingest.EventRecord) ([]*randomevent.Event, error)
	UpdateEvent(ctx context.Context, p *principal.Principal, input application.UpdateEventInput) (*randomevent.Event, error)
	DeleteEvent(ctx context.Context, p *principal.Principal, id int64) error
}

// StatsServiceInterface は統計サービスのインターフェース
type StatsServiceInterface interface {
	GetItemStatistics(ctx context.Context, p *principal.Principal, itemID int64, significance stats.Significance) (*application.StatsReport, error)
}
