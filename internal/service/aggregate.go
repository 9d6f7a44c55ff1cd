package service

import (
	"context"
	"errors"
	"time"

	"github.com/guttosm/tickpulse/internal/analytics"
	"github.com/guttosm/tickpulse/internal/domain/models"
	"github.com/guttosm/tickpulse/internal/metrics"
)

// ErrInvalidQuery marks caller mistakes (bad k, reversed interval) so the
// transport layer can tell them from internal failures.
var ErrInvalidQuery = errors.New("invalid query")

// QueryService answers the analytical queries over one loaded dataset.
type QueryService interface {
	TopK(ctx context.Context, k int) ([]models.Ranking, error)
	VWAP(ctx context.Context, k int, ids []string) (models.VWAPReport, error)
	StocksInInterval(ctx context.Context, start, end int) ([]string, error)
	Ready() bool
}

type queryService struct {
	table   *analytics.Table
	index   *analytics.IntervalIndex
	metrics *metrics.Collector
}

// NewQueryService builds the interval index eagerly; the table and index are
// read-only from here on, so the service is safe for concurrent use.
func NewQueryService(table *analytics.Table, m *metrics.Collector) QueryService {
	idx := analytics.BuildIntervalIndex(table)
	m.SetDataset(table.Len(), idx.Len())
	return &queryService{table: table, index: idx, metrics: m}
}

func (s *queryService) TopK(_ context.Context, k int) (out []models.Ranking, err error) {
	defer func(start time.Time) { s.metrics.ObserveQuery("topk", start, err) }(time.Now())

	out, err = analytics.TopK(s.table, k)
	if errors.Is(err, analytics.ErrInvalidK) {
		err = errors.Join(ErrInvalidQuery, err)
	}
	return out, err
}

// VWAP prices either the listed identities (their volume taken over the whole
// table) or, when ids is empty, the k most traded identities.
func (s *queryService) VWAP(ctx context.Context, k int, ids []string) (rep models.VWAPReport, err error) {
	defer func(start time.Time) { s.metrics.ObserveQuery("vwap", start, err) }(time.Now())

	var volumes map[string]float64
	if len(ids) > 0 {
		volumes = analytics.VolumesOf(s.table, ids)
	} else {
		top, topErr := analytics.TopK(s.table, k)
		if topErr != nil {
			return models.VWAPReport{}, errors.Join(ErrInvalidQuery, topErr)
		}
		volumes = analytics.Volumes(top)
	}
	return analytics.NewVWAPReport(s.table, volumes), nil
}

func (s *queryService) StocksInInterval(_ context.Context, start, end int) (out []string, err error) {
	defer func(t time.Time) { s.metrics.ObserveQuery("interval", t, err) }(time.Now())

	out, err = s.index.StocksInInterval(start, end)
	if errors.Is(err, analytics.ErrInvalidRange) {
		err = errors.Join(ErrInvalidQuery, err)
	}
	return out, err
}

func (s *queryService) Ready() bool {
	return s.index.Built()
}
