package lifecycle

import (
	"fmt"
	"time"

	"github.com/dcplibrary/notices-backend/pkg/enums"
)

// TimelineEvent is one observed step in a notice's lifecycle.
type TimelineEvent struct {
	Step      string         `json:"step"`
	Timestamp *time.Time     `json:"timestamp"`
	Source    string         `json:"source"`
	Details   map[string]any `json:"details,omitempty"`
}

// Result tracks how far a single notice progressed through the
// created, submitted, verified and delivered stages, together with the
// evidence for each stage.
type Result struct {
	Created   bool       `json:"created"`
	CreatedAt *time.Time `json:"created_at"`

	Submitted      bool       `json:"submitted"`
	SubmittedAt    *time.Time `json:"submitted_at"`
	SubmissionFile string     `json:"submission_file,omitempty"`

	Verified         bool       `json:"verified"`
	VerifiedAt       *time.Time `json:"verified_at"`
	VerificationFile string     `json:"verification_file,omitempty"`

	Delivered      bool                 `json:"delivered"`
	DeliveredAt    *time.Time           `json:"delivered_at"`
	DeliveryStatus enums.DeliveryStatus `json:"delivery_status,omitempty"`
	FailureReason  string               `json:"failure_reason,omitempty"`

	OverallStatus enums.OverallStatus `json:"overall_status"`

	Timeline []TimelineEvent `json:"timeline"`
}

// NewResult returns a result with no observed stages.
func NewResult() *Result {
	return &Result{OverallStatus: enums.OverallStatusPending}
}

// AddTimelineEvent appends one observed step to the timeline.
func (r *Result) AddTimelineEvent(step string, timestamp *time.Time, source string, details map[string]any) {
	r.Timeline = append(r.Timeline, TimelineEvent{
		Step:      step,
		Timestamp: timestamp,
		Source:    source,
		Details:   details,
	})
}

// DetermineOverallStatus recomputes the overall status from the stage flags.
// Delivery evidence wins over everything else; an explicit failure wins over
// partial progress.
func (r *Result) DetermineOverallStatus() {
	switch {
	case r.Delivered && r.DeliveryStatus == enums.DeliveryStatusDelivered:
		r.OverallStatus = enums.OverallStatusSuccess
	case r.DeliveryStatus == enums.DeliveryStatusFailed || r.FailureReason != "":
		r.OverallStatus = enums.OverallStatusFailed
	case r.Created && !r.Submitted:
		r.OverallStatus = enums.OverallStatusPending
	case r.Submitted && !r.Delivered:
		r.OverallStatus = enums.OverallStatusPartial
	default:
		r.OverallStatus = enums.OverallStatusUnknown
	}
}

// StatusMessage returns an operator-readable summary of the result.
func (r *Result) StatusMessage() string {
	switch r.OverallStatus {
	case enums.OverallStatusSuccess:
		return "Notice verified and delivered successfully"
	case enums.OverallStatusFailed:
		if r.FailureReason != "" {
			return fmt.Sprintf("Notice delivery failed: %s", r.FailureReason)
		}
		return "Notice delivery failed"
	case enums.OverallStatusPending:
		return "Notice created but not yet submitted"
	case enums.OverallStatusPartial:
		return "Notice submitted but delivery pending"
	default:
		return "Verification status unknown"
	}
}
