package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dcplibrary/notices-backend/internal/exports"
	"github.com/dcplibrary/notices-backend/pkg/db/models"
	"github.com/dcplibrary/notices-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func TestExportRejectsUnknownReport(t *testing.T) {
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/notices/export/bogus", nil), "report", "bogus")
	resp := httptest.NewRecorder()
	Export(&testLifecycleService{}, &testAggregationService{}, exports.DelimiterTab, testLogger())(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 but got %d", resp.Code)
	}
}

func TestExportSummariesDownload(t *testing.T) {
	svc := &testAggregationService{
		listFn: func(ctx context.Context, from, to time.Time) ([]models.DailySummary, error) {
			return []models.DailySummary{{
				SummaryDate:      time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
				NoticeTypeID:     int(enums.NoticeTypeHoldReady),
				DeliveryMethodID: int(enums.DeliveryMethodVoice),
				TotalSent:        20,
				TotalSuccess:     18,
				TotalFailed:      2,
				SuccessRate:      decimal.RequireFromString("90.00"),
				FailureRate:      decimal.RequireFromString("10.00"),
			}}, nil
		},
	}

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/api/notices/export/summaries?start=2025-03-01&end=2025-03-31&delimiter=comma", nil),
		"report", "summaries",
	)
	resp := httptest.NewRecorder()
	Export(&testLifecycleService{}, svc, exports.DelimiterTab, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := resp.Header().Get("Content-Disposition"); !strings.Contains(got, "summaries-") || !strings.Contains(got, ".csv") {
		t.Fatalf("unexpected disposition %q", got)
	}
	if body := resp.Body.String(); !strings.Contains(body, "Hold Ready") {
		t.Fatalf("expected summary row in export, got %q", body)
	}
}

func TestExportFailedDeliveriesDefaultsToTab(t *testing.T) {
	svc := &testLifecycleService{
		failedDeliveriesFn: func(ctx context.Context, from, to time.Time, reason string) ([]models.Delivery, error) {
			return []models.Delivery{{
				PhoneNumber:   "5551234567",
				SentDate:      time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC),
				Status:        enums.DeliveryStatusFailed,
				FailureReason: "invalid number",
			}}, nil
		},
	}

	req := withURLParam(
		httptest.NewRequest(http.MethodGet, "/api/notices/export/failed-deliveries", nil),
		"report", "failed-deliveries",
	)
	resp := httptest.NewRecorder()
	Export(svc, &testAggregationService{}, exports.DelimiterTab, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "text/tab-separated-values" {
		t.Fatalf("unexpected content type %q", got)
	}
	if body := resp.Body.String(); !strings.Contains(body, "invalid number") {
		t.Fatalf("expected failure reason in export, got %q", body)
	}
}
