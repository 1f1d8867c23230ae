package enums

import "fmt"

// OverallStatus summarizes a notice's lifecycle across all four stages.
type OverallStatus string

const (
	OverallStatusSuccess OverallStatus = "success"
	OverallStatusFailed  OverallStatus = "failed"
	OverallStatusPending OverallStatus = "pending"
	OverallStatusPartial OverallStatus = "partial"
	OverallStatusUnknown OverallStatus = "unknown"
)

var validOverallStatuses = []OverallStatus{
	OverallStatusSuccess,
	OverallStatusFailed,
	OverallStatusPending,
	OverallStatusPartial,
	OverallStatusUnknown,
}

// IsValid checks whether the given status matches the canonical enum.
func (o OverallStatus) IsValid() bool {
	for _, candidate := range validOverallStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOverallStatus converts raw strings into OverallStatus.
func ParseOverallStatus(value string) (OverallStatus, error) {
	for _, candidate := range validOverallStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid overall status %q", value)
}
