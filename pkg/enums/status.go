package enums

import "fmt"

// Status is the coarse per-notice status derived from the fine-grained
// source status code.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

var validStatuses = []Status{StatusCompleted, StatusPending, StatusFailed}

// IsValid checks whether the given status matches the canonical enum.
func (s Status) IsValid() bool {
	for _, candidate := range validStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStatus converts raw strings into Status.
func ParseStatus(value string) (Status, error) {
	for _, candidate := range validStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", value)
}

// Source status codes that resolve to completed and failed. Codes 1-11 are
// voice outcomes, 12-14 email, 15 mail, 16 generic sent.
var completedStatusCodes = map[int]struct{}{
	1:  {}, // Call completed - Voice
	2:  {}, // Call completed - Answering machine
	12: {}, // Email Completed
	15: {}, // Mail Printed
	16: {}, // Sent
}

var failedStatusCodes = map[int]struct{}{
	3:  {}, // Call not completed - Hang up
	4:  {}, // Call not completed - Busy
	5:  {}, // Call not completed - No answer
	6:  {}, // Call not completed - No ring
	7:  {}, // Call failed - No dial tone
	8:  {}, // Call failed - Intercept tones heard
	9:  {}, // Call failed - Probable bad phone number
	10: {}, // Call failed - Maximum retries exceeded
	11: {}, // Call failed - Undetermined error
	13: {}, // Email Failed - Invalid address
	14: {}, // Email Failed
}

// ClassifyStatusCode maps a fine-grained source status code to its coarse
// status. Codes outside both sets classify as pending; the upstream status
// vocabulary grows over time and an unknown code must never be an error.
func ClassifyStatusCode(code int) Status {
	if _, ok := completedStatusCodes[code]; ok {
		return StatusCompleted
	}
	if _, ok := failedStatusCodes[code]; ok {
		return StatusFailed
	}
	return StatusPending
}

var statusCodeDescriptions = map[int]string{
	1:  "Call completed - Voice",
	2:  "Call completed - Answering machine",
	3:  "Call not completed - Hang up",
	4:  "Call not completed - Busy",
	5:  "Call not completed - No answer",
	6:  "Call not completed - No ring",
	7:  "Call failed - No dial tone",
	8:  "Call failed - Intercept tones heard",
	9:  "Call failed - Probable bad phone number",
	10: "Call failed - Maximum retries exceeded",
	11: "Call failed - Undetermined error",
	12: "Email Completed",
	13: "Email Failed - Invalid address",
	14: "Email Failed",
	15: "Mail Printed",
	16: "Sent",
}

// StatusCodeDescription returns the operator-facing label for a source
// status code.
func StatusCodeDescription(code int) string {
	if desc, ok := statusCodeDescriptions[code]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown (%d)", code)
}
