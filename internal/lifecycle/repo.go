package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/dcplibrary/notices-backend/pkg/db/models"
	"github.com/dcplibrary/notices-backend/pkg/enums"
	"gorm.io/gorm"
)

// submissionTieBreak orders candidate submissions when several rows share the
// same patron, type and day. The earliest submission wins.
const submissionTieBreak = "submitted_at ASC"

// failedDeliveryClause selects deliveries that carry a failure indicator,
// either through the terminal status or a populated failure reason.
const failedDeliveryClause = "(status = ? OR (failure_reason IS NOT NULL AND failure_reason <> ''))"

// ReasonCount is one failure-reason bucket from a grouped delivery scan.
type ReasonCount struct {
	FailureReason string
	Count         int
}

// Repository manages the four record stores the verifier correlates across.
// Single-row finders treat a missing row as a soft miss and return nil
// without an error; only GetNotice reports not-found as gorm.ErrRecordNotFound.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	GetNotice(ctx context.Context, id uint) (*models.Notice, error)
	ListNoticesByPatron(ctx context.Context, barcode string, from, to *time.Time) ([]models.Notice, error)
	CountNotices(ctx context.Context, from, to time.Time) (int64, error)

	FindSubmission(ctx context.Context, barcode string, subType enums.SubmissionType, day time.Time) (*models.Submission, error)
	FindSubmissionByPhone(ctx context.Context, phone string, day time.Time) (*models.Submission, error)
	ListSubmissions(ctx context.Context, from, to time.Time) ([]models.Submission, error)

	FindPhoneNotice(ctx context.Context, barcode string, day time.Time, itemBarcode string) (*models.PhoneNotice, error)
	ListPhoneNotices(ctx context.Context, from, to time.Time) ([]models.PhoneNotice, error)

	FindDeliveryInWindow(ctx context.Context, phone string, from, to time.Time) (*models.Delivery, error)
	ListDeliveries(ctx context.Context, from, to time.Time) ([]models.Delivery, error)
	ListFailedDeliveries(ctx context.Context, from, to time.Time, reason string, limit int) ([]models.Delivery, error)
	CountFailedDeliveries(ctx context.Context, from, to time.Time) (int64, error)
	FailureReasonCounts(ctx context.Context, from, to time.Time) ([]ReasonCount, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a lifecycle repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// dayBounds returns the half-open [start, end) range covering the calendar
// day of t, in t's location.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

func softMiss(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

func (r *repository) GetNotice(ctx context.Context, id uint) (*models.Notice, error) {
	var notice models.Notice
	if err := r.db.WithContext(ctx).First(&notice, id).Error; err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *repository) ListNoticesByPatron(ctx context.Context, barcode string, from, to *time.Time) ([]models.Notice, error) {
	query := r.db.WithContext(ctx).Where("patron_barcode = ?", barcode)
	switch {
	case from != nil && to != nil:
		query = query.Where("notice_date BETWEEN ? AND ?", *from, *to)
	case from != nil:
		start, end := dayBounds(*from)
		query = query.Where("notice_date >= ? AND notice_date < ?", start, end)
	case to != nil:
		start, end := dayBounds(*to)
		query = query.Where("notice_date >= ? AND notice_date < ?", start, end)
	}

	var notices []models.Notice
	if err := query.Order("notice_date DESC").Find(&notices).Error; err != nil {
		return nil, err
	}
	return notices, nil
}

func (r *repository) CountNotices(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notice{}).
		Where("notice_date BETWEEN ? AND ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *repository) FindSubmission(ctx context.Context, barcode string, subType enums.SubmissionType, day time.Time) (*models.Submission, error) {
	start, end := dayBounds(day)
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("patron_barcode = ?", barcode).
		Where("notice_type = ?", subType).
		Where("submitted_at >= ? AND submitted_at < ?", start, end).
		Order(submissionTieBreak).
		First(&submission).Error
	if err != nil {
		return nil, softMiss(err)
	}
	return &submission, nil
}

func (r *repository) FindSubmissionByPhone(ctx context.Context, phone string, day time.Time) (*models.Submission, error) {
	start, end := dayBounds(day)
	var submission models.Submission
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		Where("submitted_at >= ? AND submitted_at < ?", start, end).
		Order(submissionTieBreak).
		First(&submission).Error
	if err != nil {
		return nil, softMiss(err)
	}
	return &submission, nil
}

func (r *repository) ListSubmissions(ctx context.Context, from, to time.Time) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.WithContext(ctx).
		Where("submitted_at BETWEEN ? AND ?", from, to).
		Order(submissionTieBreak).
		Find(&submissions).Error
	if err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *repository) FindPhoneNotice(ctx context.Context, barcode string, day time.Time, itemBarcode string) (*models.PhoneNotice, error) {
	start, end := dayBounds(day)
	query := r.db.WithContext(ctx).
		Where("patron_barcode = ?", barcode).
		Where("notice_date >= ? AND notice_date < ?", start, end)
	if itemBarcode != "" {
		query = query.Where("item_barcode = ?", itemBarcode)
	}

	var phoneNotice models.PhoneNotice
	if err := query.Order("notice_date ASC").First(&phoneNotice).Error; err != nil {
		return nil, softMiss(err)
	}
	return &phoneNotice, nil
}

func (r *repository) ListPhoneNotices(ctx context.Context, from, to time.Time) ([]models.PhoneNotice, error) {
	var phoneNotices []models.PhoneNotice
	err := r.db.WithContext(ctx).
		Where("notice_date BETWEEN ? AND ?", from, to).
		Order("notice_date ASC").
		Find(&phoneNotices).Error
	if err != nil {
		return nil, err
	}
	return phoneNotices, nil
}

func (r *repository) FindDeliveryInWindow(ctx context.Context, phone string, from, to time.Time) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phone).
		Where("sent_date BETWEEN ? AND ?", from, to).
		Order("sent_date ASC").
		First(&delivery).Error
	if err != nil {
		return nil, softMiss(err)
	}
	return &delivery, nil
}

func (r *repository) ListDeliveries(ctx context.Context, from, to time.Time) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	err := r.db.WithContext(ctx).
		Where("sent_date BETWEEN ? AND ?", from, to).
		Order("sent_date ASC").
		Find(&deliveries).Error
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (r *repository) ListFailedDeliveries(ctx context.Context, from, to time.Time, reason string, limit int) ([]models.Delivery, error) {
	query := r.db.WithContext(ctx).
		Where(failedDeliveryClause, enums.DeliveryStatusFailed).
		Where("sent_date BETWEEN ? AND ?", from, to)
	if reason != "" {
		query = query.Where("failure_reason LIKE ?", "%"+reason+"%")
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var deliveries []models.Delivery
	if err := query.Order("sent_date DESC").Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

func (r *repository) CountFailedDeliveries(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Where(failedDeliveryClause, enums.DeliveryStatusFailed).
		Where("sent_date BETWEEN ? AND ?", from, to).
		Count(&count).Error
	return count, err
}

func (r *repository) FailureReasonCounts(ctx context.Context, from, to time.Time) ([]ReasonCount, error) {
	var rows []ReasonCount
	err := r.db.WithContext(ctx).
		Model(&models.Delivery{}).
		Select("failure_reason, COUNT(*) as count").
		Where(failedDeliveryClause, enums.DeliveryStatusFailed).
		Where("sent_date BETWEEN ? AND ?", from, to).
		Where("failure_reason IS NOT NULL AND failure_reason <> ''").
		Group("failure_reason").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
