package aggregation

import (
	"context"
	"time"

	"github.com/dcplibrary/notices-backend/pkg/db/models"
	"github.com/dcplibrary/notices-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Combination is one (notice type, delivery method) pair seen on a day.
type Combination struct {
	NoticeTypeID     int
	DeliveryMethodID int
}

// CombinationStats are the rolled-up counts for one combination on one day.
type CombinationStats struct {
	TotalSent        int
	TotalSuccess     int
	TotalFailed      int
	TotalPending     int
	TotalHolds       int
	TotalOverdues    int
	TotalOverdues2nd int
	TotalOverdues3rd int
	TotalCancels     int
	TotalRecalls     int
	TotalBills       int
	UniquePatrons    int
}

// Repository reads notice rollups and writes daily summary rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	DistinctCombinations(ctx context.Context, day time.Time) ([]Combination, error)
	CombinationStats(ctx context.Context, day time.Time, noticeTypeID, deliveryMethodID int) (*CombinationStats, error)
	NoticeDateBounds(ctx context.Context) (min, max *time.Time, err error)

	UpsertSummary(ctx context.Context, summary *models.DailySummary) error
	ListSummaries(ctx context.Context, from, to time.Time) ([]models.DailySummary, error)
	DeleteSummariesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an aggregation repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func (r *repository) DistinctCombinations(ctx context.Context, day time.Time) ([]Combination, error) {
	start, end := dayBounds(day)
	var combinations []Combination
	err := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Select("DISTINCT notice_type_id, delivery_method_id").
		Where("notice_date >= ? AND notice_date < ?", start, end).
		Order("notice_type_id, delivery_method_id").
		Scan(&combinations).Error
	if err != nil {
		return nil, err
	}
	return combinations, nil
}

const combinationStatsSelect = `
COUNT(*) as total_sent,
SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as total_success,
SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as total_failed,
SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) as total_pending,
SUM(holds_count) as total_holds,
SUM(overdues_count) as total_overdues,
SUM(overdues_2nd_count) as total_overdues_2nd,
SUM(overdues_3rd_count) as total_overdues_3rd,
SUM(cancels_count) as total_cancels,
SUM(recalls_count) as total_recalls,
SUM(bills_count) as total_bills,
COUNT(DISTINCT patron_id) as unique_patrons`

func (r *repository) CombinationStats(ctx context.Context, day time.Time, noticeTypeID, deliveryMethodID int) (*CombinationStats, error) {
	start, end := dayBounds(day)
	var stats CombinationStats
	err := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Select(combinationStatsSelect, enums.StatusCompleted, enums.StatusFailed, enums.StatusPending).
		Where("notice_date >= ? AND notice_date < ?", start, end).
		Where("notice_type_id = ?", noticeTypeID).
		Where("delivery_method_id = ?", deliveryMethodID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *repository) NoticeDateBounds(ctx context.Context) (*time.Time, *time.Time, error) {
	var bounds struct {
		MinDate *time.Time
		MaxDate *time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Select("MIN(notice_date) as min_date, MAX(notice_date) as max_date").
		Scan(&bounds).Error
	if err != nil {
		return nil, nil, err
	}
	return bounds.MinDate, bounds.MaxDate, nil
}

// UpsertSummary inserts or replaces the summary row for its natural key.
func (r *repository) UpsertSummary(ctx context.Context, summary *models.DailySummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "summary_date"},
				{Name: "notice_type_id"},
				{Name: "delivery_method_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_sent", "total_success", "total_failed", "total_pending",
				"total_holds", "total_overdues", "total_overdues_2nd", "total_overdues_3rd",
				"total_cancels", "total_recalls", "total_bills",
				"unique_patrons", "success_rate", "failure_rate",
				"aggregated_at", "updated_at",
			}),
		}).
		Create(summary).Error
}

func (r *repository) ListSummaries(ctx context.Context, from, to time.Time) ([]models.DailySummary, error) {
	var summaries []models.DailySummary
	err := r.db.WithContext(ctx).
		Where("summary_date BETWEEN ? AND ?", from, to).
		Order("summary_date ASC, notice_type_id ASC, delivery_method_id ASC").
		Find(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func (r *repository) DeleteSummariesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("summary_date < ?", cutoff).
		Delete(&models.DailySummary{})
	return result.RowsAffected, result.Error
}
