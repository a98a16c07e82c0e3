package application

import (
	"context"

	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/domain/principal"
	"github.com/ubarcturus/improbability/internal/domain/randomevent"
	"github.com/ubarcturus/improbability/internal/stats"
)

// StatsService はアイテムのイベント履歴に対する統計ユースケースを提供する
type StatsService struct {
	itemRepo  item.Repository
	eventRepo randomevent.Repository
	access    *AccessService
}

// NewStatsService はStatsServiceを作成する
func NewStatsService(ir item.Repository, er randomevent.Repository, access *AccessService) *StatsService {
	return &StatsService{itemRepo: ir, eventRepo: er, access: access}
}

// StatsReport は統計エンドポイントの計算結果
type StatsReport struct {
	ItemID           int64
	ItemName         string
	PossibleResults  int
	Summary          *stats.Summary
	ChiSquared       float64
	DegreesOfFreedom int
	Significance     stats.Significance
	CriticalValue    float64
	Verdict          stats.Verdict
}

// GetItemStatistics はアイテムの全イベント結果に対して記述統計量と
// カイ二乗適合度検定を計算する。入力列の純粋関数であり再入可能
func (s *StatsService) GetItemStatistics(ctx context.Context, p *principal.Principal, itemID int64, significance stats.Significance) (*StatsReport, error) {
	decision, err := s.access.ResolveItemAccess(ctx, p, itemID)
	if err != nil {
		return nil, err
	}
	if err := decisionToError(decision, item.ErrItemNotFound); err != nil {
		return nil, err
	}

	i, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	results, err := s.eventRepo.ListResultsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	summary, err := stats.Summarize(results, i.PossibleResults)
	if err != nil {
		return nil, err
	}
	statistic, err := stats.ChiSquared(results, i.PossibleResults)
	if err != nil {
		return nil, err
	}

	df := i.PossibleResults - 1
	verdict, critical, err := stats.Evaluate(statistic, significance, df)
	if err != nil {
		return nil, err
	}

	return &StatsReport{
		ItemID:           i.ID,
		ItemName:         i.Name,
		PossibleResults:  i.PossibleResults,
		Summary:          summary,
		ChiSquared:       statistic,
		DegreesOfFreedom: df,
		Significance:     significance,
		CriticalValue:    critical,
		Verdict:          verdict,
	}, nil
}
