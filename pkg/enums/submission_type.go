package enums

import "fmt"

// SubmissionType is the notice grouping used by the gateway submission files.
type SubmissionType string

const (
	SubmissionTypeHolds   SubmissionType = "holds"
	SubmissionTypeOverdue SubmissionType = "overdue"
	SubmissionTypeRenew   SubmissionType = "renew"
	SubmissionTypeUnknown SubmissionType = "unknown"
)

var validSubmissionTypes = []SubmissionType{
	SubmissionTypeHolds,
	SubmissionTypeOverdue,
	SubmissionTypeRenew,
	SubmissionTypeUnknown,
}

// IsValid checks whether the given type matches the canonical enum.
func (s SubmissionType) IsValid() bool {
	for _, candidate := range validSubmissionTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSubmissionType converts raw strings into SubmissionType.
func ParseSubmissionType(value string) (SubmissionType, error) {
	for _, candidate := range validSubmissionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid submission type %q", value)
}

// SubmissionTypeForNotice maps an ILS notice type code to the gateway
// submission grouping. Types without a gateway file map to unknown.
func SubmissionTypeForNotice(noticeTypeCode int) SubmissionType {
	switch noticeTypeCode {
	case NoticeTypeHoldReady:
		return SubmissionTypeHolds
	case NoticeTypeFirstOverdue, NoticeTypeSecondOverdue, NoticeTypeThirdOverdue:
		return SubmissionTypeOverdue
	default:
		return SubmissionTypeUnknown
	}
}
