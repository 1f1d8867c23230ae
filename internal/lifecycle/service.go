package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dcplibrary/notices-backend/pkg/db/models"
	"github.com/dcplibrary/notices-backend/pkg/enums"
	pkgerrors "github.com/dcplibrary/notices-backend/pkg/errors"
	"github.com/dcplibrary/notices-backend/pkg/logger"
	"gorm.io/gorm"
)

// failedDeliveriesLimit caps the failed-notice listing for operator views.
const failedDeliveriesLimit = 100

// Verification pairs a notice with its lifecycle result.
type Verification struct {
	Notice  *models.Notice `json:"notice"`
	Result  *Result        `json:"verification"`
	Message string         `json:"message"`
}

// FailureReasonStat is one failure-reason bucket with its share of failures.
type FailureReasonStat struct {
	Reason     string  `json:"reason"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// FailureTypeStat is one notice-type bucket with its share of failures.
type FailureTypeStat struct {
	Type       string  `json:"type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TroubleshootingSummary is the at-a-glance health readout for a date range.
type TroubleshootingSummary struct {
	TotalNotices         int64   `json:"total_notices"`
	FailedCount          int64   `json:"failed_count"`
	SuccessRate          float64 `json:"success_rate"`
	SubmittedNotVerified int     `json:"submitted_not_verified"`
	VerifiedNotDelivered int     `json:"verified_not_delivered"`
}

// Service verifies notice lifecycles and reports on delivery failures.
type Service interface {
	Verify(ctx context.Context, noticeID uint) (*Verification, error)
	VerifyNotice(ctx context.Context, notice *models.Notice) (*Result, error)
	VerifyByPatron(ctx context.Context, barcode string, from, to *time.Time) ([]Verification, error)
	FailedDeliveries(ctx context.Context, from, to time.Time, reason string) ([]models.Delivery, error)
	FailuresByReason(ctx context.Context, from, to time.Time) ([]FailureReasonStat, error)
	FailuresByType(ctx context.Context, from, to time.Time) ([]FailureTypeStat, error)
	FindMismatches(ctx context.Context, from, to time.Time, progress ProgressFunc) (*MismatchReport, error)
	TroubleshootingSummary(ctx context.Context, from, to time.Time) (*TroubleshootingSummary, error)
}

type service struct {
	repo     Repository
	registry *Registry
	logg     *logger.Logger
}

// NewService wires a lifecycle service with the provided repository and
// plugin registry. The registry may be nil, in which case only the legacy
// gateway path runs.
func NewService(repo Repository, registry *Registry, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("lifecycle repository required")
	}
	return &service{repo: repo, registry: registry, logg: logg}, nil
}

func (s *service) Verify(ctx context.Context, noticeID uint) (*Verification, error) {
	notice, err := s.repo.GetNotice(ctx, noticeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("notice %d not found", noticeID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notice lookup failed")
	}

	result, err := s.VerifyNotice(ctx, notice)
	if err != nil {
		return nil, err
	}
	return &Verification{Notice: notice, Result: result, Message: result.StatusMessage()}, nil
}

func (s *service) VerifyNotice(ctx context.Context, notice *models.Notice) (*Result, error) {
	result := NewResult()
	result.Created = true
	createdAt := notice.NoticeDate
	result.CreatedAt = &createdAt

	result.AddTimelineEvent("created", &createdAt, models.Notice{}.TableName(), map[string]any{
		"id":              notice.ID,
		"patron_barcode":  notice.PatronBarcode,
		"delivery_method": enums.DeliveryMethodName(notice.DeliveryMethodID),
		"notice_type":     enums.NoticeTypeName(notice.NoticeTypeID),
	})

	if enums.SubmissionTypeForNotice(notice.NoticeTypeID) == enums.SubmissionTypeUnknown && s.logg != nil {
		lctx := s.logg.WithPatronBarcode(ctx, notice.PatronBarcode)
		s.logg.Warn(s.logg.WithField(lctx, "notice_type_id", notice.NoticeTypeID),
			"notice type has no gateway submission grouping")
	}

	if s.registry != nil {
		if plugin := s.registry.FindPluginForNotice(notice); plugin != nil {
			if err := plugin.Verify(ctx, notice, result); err != nil {
				return nil, err
			}
			result.DetermineOverallStatus()
			return result, nil
		}
	}

	// Legacy path for gateway notices when no plugin claims them.
	if enums.IsGatewayDeliveryMethod(notice.DeliveryMethodID) {
		if err := verifySubmission(ctx, s.repo, notice, result); err != nil {
			return nil, err
		}
		if err := verifyPhoneNotice(ctx, s.repo, notice, result); err != nil {
			return nil, err
		}
		if err := verifyDelivery(ctx, s.repo, notice, result); err != nil {
			return nil, err
		}
	}

	result.DetermineOverallStatus()
	return result, nil
}

func (s *service) VerifyByPatron(ctx context.Context, barcode string, from, to *time.Time) ([]Verification, error) {
	if barcode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patron barcode is required")
	}

	notices, err := s.repo.ListNoticesByPatron(ctx, barcode, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "patron notice lookup failed")
	}

	verifications := make([]Verification, 0, len(notices))
	for i := range notices {
		notice := notices[i]
		result, err := s.VerifyNotice(ctx, &notice)
		if err != nil {
			return nil, err
		}
		verifications = append(verifications, Verification{
			Notice:  &notice,
			Result:  result,
			Message: result.StatusMessage(),
		})
	}
	return verifications, nil
}

func (s *service) FailedDeliveries(ctx context.Context, from, to time.Time, reason string) ([]models.Delivery, error) {
	deliveries, err := s.repo.ListFailedDeliveries(ctx, from, to, reason, failedDeliveriesLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed delivery lookup failed")
	}
	return deliveries, nil
}

func (s *service) FailuresByReason(ctx context.Context, from, to time.Time) ([]FailureReasonStat, error) {
	counts, err := s.repo.FailureReasonCounts(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failure reason scan failed")
	}

	total := 0
	for _, row := range counts {
		total += row.Count
	}

	stats := make([]FailureReasonStat, 0, len(counts))
	for _, row := range counts {
		stats = append(stats, FailureReasonStat{
			Reason:     row.FailureReason,
			Count:      row.Count,
			Percentage: percentage(row.Count, total),
		})
	}
	return stats, nil
}

func (s *service) FailuresByType(ctx context.Context, from, to time.Time) ([]FailureTypeStat, error) {
	failures, err := s.repo.ListFailedDeliveries(ctx, from, to, "", 0)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed delivery scan failed")
	}

	// Outcome reports carry no notice type, so each failure is traced back
	// to its submission by phone number and send day.
	byType := make(map[enums.SubmissionType]int)
	for _, delivery := range failures {
		submission, err := s.repo.FindSubmissionByPhone(ctx, delivery.PhoneNumber, delivery.SentDate)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submission lookup failed")
		}
		if submission != nil {
			byType[submission.NoticeType]++
		}
	}

	total := 0
	for _, count := range byType {
		total += count
	}

	stats := make([]FailureTypeStat, 0, len(byType))
	for subType, count := range byType {
		stats = append(stats, FailureTypeStat{
			Type:       capitalize(string(subType)),
			Count:      count,
			Percentage: percentage(count, total),
		})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Type < stats[j].Type
	})
	return stats, nil
}

func (s *service) TroubleshootingSummary(ctx context.Context, from, to time.Time) (*TroubleshootingSummary, error) {
	totalNotices, err := s.repo.CountNotices(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "notice count failed")
	}
	failedCount, err := s.repo.CountFailedDeliveries(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed delivery count failed")
	}

	successRate := 0.0
	if totalNotices > 0 {
		successRate = round2(float64(totalNotices-failedCount) / float64(totalNotices) * 100)
	}

	mismatches, err := s.FindMismatches(ctx, from, to, nil)
	if err != nil {
		return nil, err
	}

	return &TroubleshootingSummary{
		TotalNotices:         totalNotices,
		FailedCount:          failedCount,
		SuccessRate:          successRate,
		SubmittedNotVerified: mismatches.Summary.SubmittedNotVerifiedCount,
		VerifiedNotDelivered: mismatches.Summary.VerifiedNotDeliveredCount,
	}, nil
}

func percentage(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*1000) / 10
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func capitalize(value string) string {
	if value == "" || value[0] < 'a' || value[0] > 'z' {
		return value
	}
	return string(value[0]-('a'-'A')) + value[1:]
}
