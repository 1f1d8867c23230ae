package aggregation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dcplibrary/notices-backend/pkg/db/models"
	pkgerrors "github.com/dcplibrary/notices-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type fakeRepository struct {
	combinationsFn func(ctx context.Context, day time.Time) ([]Combination, error)
	statsFn        func(ctx context.Context, day time.Time, noticeTypeID, deliveryMethodID int) (*CombinationStats, error)
	boundsFn       func(ctx context.Context) (*time.Time, *time.Time, error)
	upsertFn       func(ctx context.Context, summary *models.DailySummary) error
	listFn         func(ctx context.Context, from, to time.Time) ([]models.DailySummary, error)
	deleteFn       func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) DistinctCombinations(ctx context.Context, day time.Time) ([]Combination, error) {
	if f.combinationsFn != nil {
		return f.combinationsFn(ctx, day)
	}
	return nil, nil
}

func (f *fakeRepository) CombinationStats(ctx context.Context, day time.Time, noticeTypeID, deliveryMethodID int) (*CombinationStats, error) {
	if f.statsFn != nil {
		return f.statsFn(ctx, day, noticeTypeID, deliveryMethodID)
	}
	return &CombinationStats{}, nil
}

func (f *fakeRepository) NoticeDateBounds(ctx context.Context) (*time.Time, *time.Time, error) {
	if f.boundsFn != nil {
		return f.boundsFn(ctx)
	}
	return nil, nil, nil
}

func (f *fakeRepository) UpsertSummary(ctx context.Context, summary *models.DailySummary) error {
	if f.upsertFn != nil {
		return f.upsertFn(ctx, summary)
	}
	return nil
}

func (f *fakeRepository) ListSummaries(ctx context.Context, from, to time.Time) ([]models.DailySummary, error) {
	if f.listFn != nil {
		return f.listFn(ctx, from, to)
	}
	return nil, nil
}

func (f *fakeRepository) DeleteSummariesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, cutoff)
	}
	return 0, nil
}

func newTestAggregator(t *testing.T, repo Repository) *service {
	t.Helper()

	svc, err := NewService(repo, nil)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}
	return svc.(*service)
}

func TestService_AggregateDate(t *testing.T) {
	day := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	var upserts []*models.DailySummary
	repo := &fakeRepository{
		combinationsFn: func(ctx context.Context, got time.Time) ([]Combination, error) {
			return []Combination{
				{NoticeTypeID: 2, DeliveryMethodID: 8},
				{NoticeTypeID: 1, DeliveryMethodID: 3},
			}, nil
		},
		statsFn: func(ctx context.Context, day time.Time, noticeTypeID, deliveryMethodID int) (*CombinationStats, error) {
			return &CombinationStats{TotalSent: 8, TotalSuccess: 6, TotalFailed: 1, TotalPending: 1, UniquePatrons: 7}, nil
		},
		upsertFn: func(ctx context.Context, summary *models.DailySummary) error {
			upserts = append(upserts, summary)
			return nil
		},
	}

	report, err := newTestAggregator(t, repo).AggregateDate(context.Background(), day)
	if err != nil {
		t.Fatalf("AggregateDate error: %v", err)
	}
	if report.Combinations != 2 || report.Failed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if !report.Date.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected date normalized to start of day, got %s", report.Date)
	}

	if len(upserts) != 2 {
		t.Fatalf("expected 2 upserts, got %d", len(upserts))
	}
	first := upserts[0]
	if !first.SuccessRate.Equal(decimal.RequireFromString("75")) {
		t.Fatalf("expected 75 success rate, got %s", first.SuccessRate)
	}
	if !first.FailureRate.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected 12.5 failure rate, got %s", first.FailureRate)
	}
}

func TestService_AggregateDateContinuesOnCombinationFailure(t *testing.T) {
	boom := errors.New("deadlock")
	repo := &fakeRepository{
		combinationsFn: func(ctx context.Context, day time.Time) ([]Combination, error) {
			return []Combination{
				{NoticeTypeID: 1, DeliveryMethodID: 3},
				{NoticeTypeID: 2, DeliveryMethodID: 8},
				{NoticeTypeID: 11, DeliveryMethodID: 1},
			}, nil
		},
		statsFn: func(ctx context.Context, day time.Time, noticeTypeID, deliveryMethodID int) (*CombinationStats, error) {
			if noticeTypeID == 2 {
				return nil, boom
			}
			return &CombinationStats{TotalSent: 1}, nil
		},
	}

	report, err := newTestAggregator(t, repo).AggregateDate(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("AggregateDate error: %v", err)
	}
	if report.Combinations != 2 {
		t.Fatalf("expected 2 aggregated, got %d", report.Combinations)
	}
	if report.Failed != 1 {
		t.Fatalf("expected 1 failed, got %d", report.Failed)
	}
}

func TestService_AggregateDateRange(t *testing.T) {
	start := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	var days []time.Time
	repo := &fakeRepository{
		combinationsFn: func(ctx context.Context, day time.Time) ([]Combination, error) {
			days = append(days, day)
			// Middle day is empty; the range must still advance.
			if day.Day() == 9 {
				return nil, nil
			}
			return []Combination{{NoticeTypeID: 2, DeliveryMethodID: 8}}, nil
		},
	}

	var progress []int
	report, err := newTestAggregator(t, repo).AggregateDateRange(context.Background(), start, end, func(current, total int) {
		if total != 3 {
			t.Fatalf("expected total 3, got %d", total)
		}
		progress = append(progress, current)
	})
	if err != nil {
		t.Fatalf("AggregateDateRange error: %v", err)
	}
	if report.Days != 3 || report.Combinations != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(days) != 3 {
		t.Fatalf("expected 3 day scans, got %d", len(days))
	}
	for i := 1; i < len(days); i++ {
		if !days[i].After(days[i-1]) {
			t.Fatalf("days must ascend, got %v", days)
		}
	}
	if len(progress) != 3 || progress[2] != 3 {
		t.Fatalf("unexpected progress %v", progress)
	}
}

func TestService_AggregateDateRangeRejectsInvertedRange(t *testing.T) {
	svc := newTestAggregator(t, &fakeRepository{})

	_, err := svc.AggregateDateRange(context.Background(),
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestService_AggregateYesterday(t *testing.T) {
	var got time.Time
	repo := &fakeRepository{
		combinationsFn: func(ctx context.Context, day time.Time) ([]Combination, error) {
			got = day
			return nil, nil
		},
	}

	svc := newTestAggregator(t, repo)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 11, 4, 0, 0, 0, time.UTC)
	}

	if _, err := svc.AggregateYesterday(context.Background()); err != nil {
		t.Fatalf("AggregateYesterday error: %v", err)
	}
	want := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestService_ReAggregateAll(t *testing.T) {
	min := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)
	max := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	scanned := 0
	repo := &fakeRepository{
		boundsFn: func(ctx context.Context) (*time.Time, *time.Time, error) {
			return &min, &max, nil
		},
		combinationsFn: func(ctx context.Context, day time.Time) ([]Combination, error) {
			scanned++
			return nil, nil
		},
	}

	report, err := newTestAggregator(t, repo).ReAggregateAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("ReAggregateAll error: %v", err)
	}
	if report.Days != 3 || scanned != 3 {
		t.Fatalf("expected full range rescan, got report %+v with %d scans", report, scanned)
	}
}

func TestService_ReAggregateAllWithNoData(t *testing.T) {
	report, err := newTestAggregator(t, &fakeRepository{}).ReAggregateAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("ReAggregateAll error: %v", err)
	}
	if report.Days != 0 || report.Combinations != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestService_CleanupOld(t *testing.T) {
	var gotCutoff time.Time
	repo := &fakeRepository{
		deleteFn: func(ctx context.Context, cutoff time.Time) (int64, error) {
			gotCutoff = cutoff
			return 4, nil
		},
	}

	svc := newTestAggregator(t, repo)
	svc.now = func() time.Time {
		return time.Date(2025, 3, 11, 4, 0, 0, 0, time.UTC)
	}

	report, err := svc.CleanupOld(context.Background(), 365)
	if err != nil {
		t.Fatalf("CleanupOld error: %v", err)
	}
	if report.Deleted != 4 {
		t.Fatalf("expected 4 deleted, got %d", report.Deleted)
	}
	want := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	if !gotCutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, gotCutoff)
	}

	if _, err := svc.CleanupOld(context.Background(), 0); err == nil {
		t.Fatal("expected validation error for zero retention")
	}
}

func TestRatePercentages(t *testing.T) {
	if !rate(0, 0).Equal(decimal.Zero) {
		t.Fatal("rate with zero total must be zero")
	}
	if !rate(1, 3).Equal(decimal.RequireFromString("33.33")) {
		t.Fatalf("expected 33.33, got %s", rate(1, 3))
	}
	if !rate(3, 3).Equal(decimal.RequireFromString("100")) {
		t.Fatalf("expected 100, got %s", rate(3, 3))
	}
}
