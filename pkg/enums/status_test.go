package enums

import "testing"

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		code int
		want Status
	}{
		{1, StatusCompleted},
		{2, StatusCompleted},
		{12, StatusCompleted},
		{15, StatusCompleted},
		{16, StatusCompleted},
		{3, StatusFailed},
		{7, StatusFailed},
		{11, StatusFailed},
		{13, StatusFailed},
		{14, StatusFailed},
		{0, StatusPending},
		{999, StatusPending},
		{-1, StatusPending},
	}
	for _, tt := range tests {
		if got := ClassifyStatusCode(tt.code); got != tt.want {
			t.Fatalf("ClassifyStatusCode(%d) = %s, want %s", tt.code, got, tt.want)
		}
	}
}

func TestStatusCodeDescription(t *testing.T) {
	if got := StatusCodeDescription(7); got != "Call failed - No dial tone" {
		t.Fatalf("unexpected description %q", got)
	}
	if got := StatusCodeDescription(999); got != "Unknown (999)" {
		t.Fatalf("unexpected fallback %q", got)
	}
}

func TestSubmissionTypeForNotice(t *testing.T) {
	if got := SubmissionTypeForNotice(NoticeTypeHoldReady); got != SubmissionTypeHolds {
		t.Fatalf("hold ready should map to holds, got %s", got)
	}
	for _, code := range []int{NoticeTypeFirstOverdue, NoticeTypeSecondOverdue, NoticeTypeThirdOverdue} {
		if got := SubmissionTypeForNotice(code); got != SubmissionTypeOverdue {
			t.Fatalf("overdue code %d should map to overdue, got %s", code, got)
		}
	}
	if got := SubmissionTypeForNotice(NoticeTypeBill); got != SubmissionTypeUnknown {
		t.Fatalf("bill should map to unknown, got %s", got)
	}
}

func TestParseDeliveryStatus(t *testing.T) {
	status, err := ParseDeliveryStatus("Delivered")
	if err != nil || status != DeliveryStatusDelivered {
		t.Fatalf("expected Delivered, got %s err %v", status, err)
	}
	if _, err := ParseDeliveryStatus("delivered"); err == nil {
		t.Fatal("delivery statuses are case sensitive")
	}
}

func TestOverallStatusIsValid(t *testing.T) {
	for _, status := range validOverallStatuses {
		if !status.IsValid() {
			t.Fatalf("%s should be valid", status)
		}
	}
	if OverallStatus("done").IsValid() {
		t.Fatal("done is not a canonical overall status")
	}
}
