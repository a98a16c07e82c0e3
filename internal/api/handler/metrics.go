package handler

import (
	"errors"

	"github.com/ubarcturus/improbability/internal/domain/item"
	"github.com/ubarcturus/improbability/internal/domain/randomevent"
	"github.com/ubarcturus/improbability/internal/ingest"
	"github.com/ubarcturus/improbability/internal/pkg/metrics"
)

// recordBatchMetrics は一括取り込みの結果をメトリクスに記録する
func recordBatchMetrics(m *metrics.Metrics, entity, format string, accepted int, err error) {
	if m == nil {
		return
	}
	if err == nil {
		m.IngestedRecordsTotal.WithLabelValues(entity, format).Add(float64(accepted))
		return
	}
	m.RejectedBatchesTotal.WithLabelValues(entity, rejectReason(err)).Inc()
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ingest.ErrEmptyBatch):
		return "empty"
	case errors.Is(err, ingest.ErrMalformedRow):
		return "malformed"
	case errors.Is(err, ingest.ErrItemIDMismatch):
		return "item_mismatch"
	case errors.Is(err, item.ErrItemNameRequired),
		errors.Is(err, item.ErrInvalidPossibleResults),
		errors.Is(err, randomevent.ErrItemIDRequired),
		errors.Is(err, randomevent.ErrTimeRequired),
		errors.Is(err, randomevent.ErrInvalidTime):
		return "invalid"
	default:
		return "error"
	}
}
