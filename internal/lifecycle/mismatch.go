package lifecycle

import (
	"context"
	"fmt"
	"time"

	"github.com/dcplibrary/notices-backend/pkg/db/models"
	pkgerrors "github.com/dcplibrary/notices-backend/pkg/errors"
)

// mismatchListCap bounds each mismatch class so a bad import day cannot
// produce an unbounded report.
const mismatchListCap = 50

// ProgressFunc reports scan progress as (processed, total) record counts.
type ProgressFunc func(current, total int)

// SubmissionMismatch is a gateway submission with no corroborating vendor
// phone-notice record on the same day.
type SubmissionMismatch struct {
	ID            uint      `json:"id"`
	PatronBarcode string    `json:"patron_barcode"`
	Phone         string    `json:"phone"`
	Type          string    `json:"type"`
	SubmittedAt   time.Time `json:"submitted_at"`
	SourceFile    string    `json:"source_file"`
}

// DeliveryMismatch is a vendor phone-notice record with no delivery report
// for the same phone on the same day.
type DeliveryMismatch struct {
	ID            uint      `json:"id"`
	PatronBarcode string    `json:"patron_barcode"`
	Phone         string    `json:"phone"`
	ItemBarcode   string    `json:"item_barcode"`
	NoticeDate    time.Time `json:"notice_date"`
	DeliveryType  string    `json:"delivery_type"`
}

// MismatchSummary carries the listed-entry counts for each class.
type MismatchSummary struct {
	SubmittedNotVerifiedCount int `json:"submitted_not_verified_count"`
	VerifiedNotDeliveredCount int `json:"verified_not_delivered_count"`
}

// MismatchReport is the result of a cross-source consistency scan.
type MismatchReport struct {
	SubmittedNotVerified []SubmissionMismatch `json:"submitted_not_verified"`
	VerifiedNotDelivered []DeliveryMismatch   `json:"verified_not_delivered"`
	Summary              MismatchSummary      `json:"summary"`
}

// FindMismatches scans for records that fell through between pipeline stages:
// submissions the vendor never acknowledged, and vendor records with no
// delivery outcome. Candidate pools are loaded once and indexed so the scan
// stays linear in the range size.
func (s *service) FindMismatches(ctx context.Context, from, to time.Time, progress ProgressFunc) (*MismatchReport, error) {
	report := &MismatchReport{
		SubmittedNotVerified: []SubmissionMismatch{},
		VerifiedNotDelivered: []DeliveryMismatch{},
	}

	// Matching is by calendar day, so the candidate pools must cover the
	// whole days at the range edges: a corroborating record earlier the
	// same day still counts even when it falls before from.
	poolFrom, _ := dayBounds(from)
	_, dayEnd := dayBounds(to)
	poolTo := dayEnd.Add(-time.Nanosecond)

	submissions, err := s.repo.ListSubmissions(ctx, from, to)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submission scan failed")
	}
	phoneNoticePool, err := s.repo.ListPhoneNotices(ctx, poolFrom, poolTo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "phone notice scan failed")
	}
	deliveryPool, err := s.repo.ListDeliveries(ctx, poolFrom, poolTo)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delivery scan failed")
	}

	verifiedByPatronDay := make(map[string]struct{}, len(phoneNoticePool))
	for _, phoneNotice := range phoneNoticePool {
		verifiedByPatronDay[dayKey(phoneNotice.PatronBarcode, phoneNotice.NoticeDate)] = struct{}{}
	}
	deliveredByPhoneDay := make(map[string]struct{}, len(deliveryPool))
	for _, delivery := range deliveryPool {
		deliveredByPhoneDay[dayKey(delivery.PhoneNumber, delivery.SentDate)] = struct{}{}
	}

	// Only records inside the requested range are scanned for mismatches.
	phoneNotices := make([]models.PhoneNotice, 0, len(phoneNoticePool))
	for _, phoneNotice := range phoneNoticePool {
		if phoneNotice.NoticeDate.Before(from) || phoneNotice.NoticeDate.After(to) {
			continue
		}
		phoneNotices = append(phoneNotices, phoneNotice)
	}

	total := len(submissions) + len(phoneNotices)
	processed := 0
	step := func() {
		processed++
		if progress != nil {
			progress(processed, total)
		}
	}

	for _, submission := range submissions {
		step()
		if _, ok := verifiedByPatronDay[dayKey(submission.PatronBarcode, submission.SubmittedAt)]; ok {
			continue
		}
		report.SubmittedNotVerified = append(report.SubmittedNotVerified, SubmissionMismatch{
			ID:            submission.ID,
			PatronBarcode: submission.PatronBarcode,
			Phone:         submission.PhoneNumber,
			Type:          string(submission.NoticeType),
			SubmittedAt:   submission.SubmittedAt,
			SourceFile:    submission.SourceFile,
		})
		if len(report.SubmittedNotVerified) >= mismatchListCap {
			break
		}
	}

	for _, phoneNotice := range phoneNotices {
		step()
		if _, ok := deliveredByPhoneDay[dayKey(phoneNotice.PhoneNumber, phoneNotice.NoticeDate)]; ok {
			continue
		}
		report.VerifiedNotDelivered = append(report.VerifiedNotDelivered, DeliveryMismatch{
			ID:            phoneNotice.ID,
			PatronBarcode: phoneNotice.PatronBarcode,
			Phone:         phoneNotice.PhoneNumber,
			ItemBarcode:   phoneNotice.ItemBarcode,
			NoticeDate:    phoneNotice.NoticeDate,
			DeliveryType:  phoneNotice.DeliveryType,
		})
		if len(report.VerifiedNotDelivered) >= mismatchListCap {
			break
		}
	}

	// The cap can exit the loops before every record is counted; close out
	// the progress stream so callers still see a terminal tick.
	if progress != nil && processed < total {
		progress(total, total)
	}

	report.Summary = MismatchSummary{
		SubmittedNotVerifiedCount: len(report.SubmittedNotVerified),
		VerifiedNotDeliveredCount: len(report.VerifiedNotDelivered),
	}
	return report, nil
}

func dayKey(identifier string, t time.Time) string {
	return fmt.Sprintf("%s|%s", identifier, t.Format("2006-01-02"))
}
