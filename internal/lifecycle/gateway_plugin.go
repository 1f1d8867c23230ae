package lifecycle

import (
	"context"
	"time"

	"github.com/dcplibrary/notices-backend/pkg/db/models"
	"github.com/dcplibrary/notices-backend/pkg/enums"
	pkgerrors "github.com/dcplibrary/notices-backend/pkg/errors"
)

// Delivery reports carry the gateway's own send timestamp, which can trail
// or slightly precede the ILS notice timestamp. A delivery counts as matching
// when it was sent between two hours before and twenty-four hours after the
// notice, both bounds inclusive.
const (
	deliveryWindowBefore = 2 * time.Hour
	deliveryWindowAfter  = 24 * time.Hour
)

// gatewayPlugin verifies notices delivered through the voice/text gateway.
// It correlates three evidence tables: batch submissions, the vendor's own
// phone-notice export, and delivery-outcome reports.
type gatewayPlugin struct {
	repo    Repository
	enabled bool
}

// NewGatewayPlugin returns the built-in voice/text gateway plugin.
func NewGatewayPlugin(repo Repository) Plugin {
	return &gatewayPlugin{repo: repo, enabled: true}
}

func (p *gatewayPlugin) Name() string        { return "gateway" }
func (p *gatewayPlugin) DisplayName() string { return "Gateway Voice/Text" }
func (p *gatewayPlugin) Description() string {
	return "Verifies voice and text notices delivered through the phone gateway."
}

func (p *gatewayPlugin) DeliveryMethodIDs() []int {
	return []int{enums.DeliveryMethodVoice, enums.DeliveryMethodSMS}
}

func (p *gatewayPlugin) Enabled() bool { return p.enabled }

func (p *gatewayPlugin) CanVerify(notice *models.Notice) bool {
	return enums.IsGatewayDeliveryMethod(notice.DeliveryMethodID)
}

func (p *gatewayPlugin) Verify(ctx context.Context, notice *models.Notice, result *Result) error {
	if !p.CanVerify(notice) {
		return nil
	}
	if err := verifySubmission(ctx, p.repo, notice, result); err != nil {
		return err
	}
	if err := verifyPhoneNotice(ctx, p.repo, notice, result); err != nil {
		return err
	}
	return verifyDelivery(ctx, p.repo, notice, result)
}

// verifySubmission checks whether the notice was handed to the gateway:
// same patron barcode, same calendar day, matching submission grouping.
func verifySubmission(ctx context.Context, repo Repository, notice *models.Notice, result *Result) error {
	subType := enums.SubmissionTypeForNotice(notice.NoticeTypeID)
	submission, err := repo.FindSubmission(ctx, notice.PatronBarcode, subType, notice.NoticeDate)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submission lookup failed")
	}
	if submission == nil {
		return nil
	}

	submittedAt := submission.SubmittedAt
	result.Submitted = true
	result.SubmittedAt = &submittedAt
	result.SubmissionFile = submission.SourceFile

	result.AddTimelineEvent("submitted", &submittedAt, models.Submission{}.TableName(), map[string]any{
		"id":            submission.ID,
		"file":          submission.SourceFile,
		"delivery_type": submission.DeliveryType,
	})
	return nil
}

// verifyPhoneNotice checks the vendor's own export for corroboration:
// same patron barcode and day, plus the item barcode when the notice has one.
func verifyPhoneNotice(ctx context.Context, repo Repository, notice *models.Notice, result *Result) error {
	phoneNotice, err := repo.FindPhoneNotice(ctx, notice.PatronBarcode, notice.NoticeDate, notice.ItemBarcode)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "phone notice lookup failed")
	}
	if phoneNotice == nil {
		return nil
	}

	verifiedAt := phoneNotice.NoticeDate
	result.Verified = true
	result.VerifiedAt = &verifiedAt
	result.VerificationFile = phoneNotice.SourceFile

	result.AddTimelineEvent("verified", &verifiedAt, models.PhoneNotice{}.TableName(), map[string]any{
		"id":            phoneNotice.ID,
		"file":          phoneNotice.SourceFile,
		"delivery_type": phoneNotice.DeliveryType,
	})
	return nil
}

// verifyDelivery checks the gateway's outcome reports. Those reports carry no
// barcode, so the match is by phone number within the send window, earliest
// report first.
func verifyDelivery(ctx context.Context, repo Repository, notice *models.Notice, result *Result) error {
	if notice.Phone == "" {
		return nil
	}

	windowStart := notice.NoticeDate.Add(-deliveryWindowBefore)
	windowEnd := notice.NoticeDate.Add(deliveryWindowAfter)
	delivery, err := repo.FindDeliveryInWindow(ctx, notice.Phone, windowStart, windowEnd)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delivery lookup failed")
	}
	if delivery == nil {
		return nil
	}

	sentDate := delivery.SentDate
	result.Delivered = true
	result.DeliveredAt = &sentDate
	result.DeliveryStatus = delivery.Status
	result.FailureReason = delivery.FailureReason

	result.AddTimelineEvent("delivered", &sentDate, models.Delivery{}.TableName(), map[string]any{
		"id":             delivery.ID,
		"status":         delivery.Status,
		"failure_reason": delivery.FailureReason,
		"carrier":        delivery.Carrier,
	})
	return nil
}
