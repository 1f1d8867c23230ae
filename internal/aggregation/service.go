package aggregation

import (
	"context"
	"fmt"
	"time"

	"github.com/dcplibrary/notices-backend/pkg/db/models"
	pkgerrors "github.com/dcplibrary/notices-backend/pkg/errors"
	"github.com/dcplibrary/notices-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// ProgressFunc reports range progress as (days processed, total days).
type ProgressFunc func(current, total int)

// DayReport summarizes one day's aggregation run.
type DayReport struct {
	Date         time.Time `json:"date"`
	Combinations int       `json:"combinations_aggregated"`
	Failed       int       `json:"combinations_failed"`
}

// RangeReport summarizes an aggregation run over a span of days.
type RangeReport struct {
	Start        time.Time `json:"start_date"`
	End          time.Time `json:"end_date"`
	Days         int       `json:"days"`
	Combinations int       `json:"combinations_aggregated"`
	Failed       int       `json:"combinations_failed"`
}

// CleanupReport summarizes a summary-retention sweep.
type CleanupReport struct {
	Deleted int64     `json:"deleted_records"`
	Cutoff  time.Time `json:"cutoff_date"`
}

// Service rolls notice rows up into daily summaries.
type Service interface {
	AggregateDate(ctx context.Context, date time.Time) (*DayReport, error)
	AggregateDateRange(ctx context.Context, start, end time.Time, progress ProgressFunc) (*RangeReport, error)
	AggregateYesterday(ctx context.Context) (*DayReport, error)
	ReAggregateAll(ctx context.Context, progress ProgressFunc) (*RangeReport, error)
	CleanupOld(ctx context.Context, keepDays int) (*CleanupReport, error)
	ListSummaries(ctx context.Context, from, to time.Time) ([]models.DailySummary, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires an aggregation service with the provided repository.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("aggregation repository required")
	}
	return &service{repo: repo, logg: logg, now: time.Now}, nil
}

func (s *service) AggregateDate(ctx context.Context, date time.Time) (*DayReport, error) {
	day := startOfDay(date)
	lctx := ctx
	if s.logg != nil {
		lctx = s.logg.WithField(ctx, "summary_date", day.Format("2006-01-02"))
		s.logg.Info(lctx, "aggregating notices for day")
	}

	combinations, err := s.repo.DistinctCombinations(ctx, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "combination scan failed")
	}

	report := &DayReport{Date: day}
	for _, combo := range combinations {
		if err := s.aggregateCombination(ctx, day, combo); err != nil {
			// One bad combination must not sink the rest of the day.
			report.Failed++
			if s.logg != nil {
				s.logg.Error(s.logg.WithFields(lctx, map[string]any{
					"notice_type_id":     combo.NoticeTypeID,
					"delivery_method_id": combo.DeliveryMethodID,
				}), "combination aggregation failed", err)
			}
			continue
		}
		report.Combinations++
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(lctx, "combinations", report.Combinations), "day aggregation complete")
	}
	return report, nil
}

func (s *service) aggregateCombination(ctx context.Context, day time.Time, combo Combination) error {
	stats, err := s.repo.CombinationStats(ctx, day, combo.NoticeTypeID, combo.DeliveryMethodID)
	if err != nil {
		return err
	}

	now := s.now()
	summary := &models.DailySummary{
		SummaryDate:      day,
		NoticeTypeID:     combo.NoticeTypeID,
		DeliveryMethodID: combo.DeliveryMethodID,
		TotalSent:        stats.TotalSent,
		TotalSuccess:     stats.TotalSuccess,
		TotalFailed:      stats.TotalFailed,
		TotalPending:     stats.TotalPending,
		TotalHolds:       stats.TotalHolds,
		TotalOverdues:    stats.TotalOverdues,
		TotalOverdues2nd: stats.TotalOverdues2nd,
		TotalOverdues3rd: stats.TotalOverdues3rd,
		TotalCancels:     stats.TotalCancels,
		TotalRecalls:     stats.TotalRecalls,
		TotalBills:       stats.TotalBills,
		UniquePatrons:    stats.UniquePatrons,
		SuccessRate:      rate(stats.TotalSuccess, stats.TotalSent),
		FailureRate:      rate(stats.TotalFailed, stats.TotalSent),
		AggregatedAt:     now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return s.repo.UpsertSummary(ctx, summary)
}

func (s *service) AggregateDateRange(ctx context.Context, start, end time.Time, progress ProgressFunc) (*RangeReport, error) {
	startDay := startOfDay(start)
	endDay := startOfDay(end)
	if endDay.Before(startDay) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "end date precedes start date")
	}

	totalDays := int(endDay.Sub(startDay).Hours()/24) + 1
	report := &RangeReport{Start: startDay, End: endDay}
	for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
		dayReport, err := s.AggregateDate(ctx, day)
		if err != nil {
			return nil, err
		}
		report.Days++
		report.Combinations += dayReport.Combinations
		report.Failed += dayReport.Failed
		if progress != nil {
			progress(report.Days, totalDays)
		}
	}
	return report, nil
}

func (s *service) AggregateYesterday(ctx context.Context) (*DayReport, error) {
	return s.AggregateDate(ctx, s.now().AddDate(0, 0, -1))
}

func (s *service) ReAggregateAll(ctx context.Context, progress ProgressFunc) (*RangeReport, error) {
	min, max, err := s.repo.NoticeDateBounds(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notice date scan failed")
	}
	if min == nil || max == nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "no notice data found to aggregate")
		}
		return &RangeReport{}, nil
	}
	return s.AggregateDateRange(ctx, *min, *max, progress)
}

func (s *service) CleanupOld(ctx context.Context, keepDays int) (*CleanupReport, error) {
	if keepDays <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "retention days must be positive")
	}

	cutoff := startOfDay(s.now().AddDate(0, 0, -keepDays))
	deleted, err := s.repo.DeleteSummariesBefore(ctx, cutoff)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summary cleanup failed")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"deleted": deleted,
			"cutoff":  cutoff.Format("2006-01-02"),
		}), "old summaries removed")
	}
	return &CleanupReport{Deleted: deleted, Cutoff: cutoff}, nil
}

func (s *service) ListSummaries(ctx context.Context, from, to time.Time) ([]models.DailySummary, error) {
	summaries, err := s.repo.ListSummaries(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "summary lookup failed")
	}
	return summaries, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// rate returns count/total as a percentage rounded to two decimal places,
// zero when total is zero.
func rate(count, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(total))).
		Round(2)
}
