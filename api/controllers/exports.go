package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dcplibrary/notices-backend/api/responses"
	"github.com/dcplibrary/notices-backend/api/validators"
	"github.com/dcplibrary/notices-backend/internal/aggregation"
	"github.com/dcplibrary/notices-backend/internal/exports"
	"github.com/dcplibrary/notices-backend/internal/lifecycle"
	pkgerrors "github.com/dcplibrary/notices-backend/pkg/errors"
	"github.com/dcplibrary/notices-backend/pkg/logger"
)

const (
	ReportVerifications    = "verifications"
	ReportFailedDeliveries = "failed-deliveries"
	ReportSummaries        = "summaries"
	ReportMismatches       = "mismatches"
	ReportFailureReasons   = "failure-reasons"
	ReportFailureTypes     = "failure-types"
)

// Export renders one of the delimited reports as a file download. The
// delimiter query parameter overrides the configured default.
func Export(lifecycleSvc lifecycle.Service, aggregationSvc aggregation.Service, defaultDelimiter string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report := chi.URLParam(r, "report")

		delimiter := validators.SanitizeString(r.URL.Query().Get("delimiter"), 8)
		if delimiter == "" {
			delimiter = defaultDelimiter
		}
		exporter := exports.New(delimiter)

		defStart, defEnd := defaultRange()
		from, to, err := validators.ParseQueryDateRange(r, defStart, defEnd)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body string
		switch report {
		case ReportVerifications:
			barcode := validators.SanitizeString(r.URL.Query().Get("barcode"), 32)
			verifications, verr := lifecycleSvc.VerifyByPatron(r.Context(), barcode, &from, &to)
			if verr != nil {
				responses.WriteError(r.Context(), logg, w, verr)
				return
			}
			body, err = exporter.Verifications(verifications)

		case ReportFailedDeliveries:
			reason := validators.SanitizeString(r.URL.Query().Get("reason"), 128)
			deliveries, derr := lifecycleSvc.FailedDeliveries(r.Context(), from, to, reason)
			if derr != nil {
				responses.WriteError(r.Context(), logg, w, derr)
				return
			}
			body, err = exporter.FailedDeliveries(deliveries)

		case ReportSummaries:
			summaries, serr := aggregationSvc.ListSummaries(r.Context(), from, to)
			if serr != nil {
				responses.WriteError(r.Context(), logg, w, serr)
				return
			}
			body, err = exporter.DailySummaries(summaries)

		case ReportMismatches:
			mismatches, merr := lifecycleSvc.FindMismatches(r.Context(), from, to, nil)
			if merr != nil {
				responses.WriteError(r.Context(), logg, w, merr)
				return
			}
			body, err = exporter.Mismatches(mismatches)

		case ReportFailureReasons:
			stats, ferr := lifecycleSvc.FailuresByReason(r.Context(), from, to)
			if ferr != nil {
				responses.WriteError(r.Context(), logg, w, ferr)
				return
			}
			body, err = exporter.FailureReasons(stats)

		case ReportFailureTypes:
			stats, ferr := lifecycleSvc.FailuresByType(r.Context(), from, to)
			if ferr != nil {
				responses.WriteError(r.Context(), logg, w, ferr)
				return
			}
			body, err = exporter.FailureTypes(stats)

		default:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown report").WithDetails(map[string]any{"report": report}))
			return
		}

		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render export"))
			return
		}

		responses.WriteDownload(w, exportFilename(report, delimiter), exportContentType(delimiter), body)
	}
}

func exportFilename(report, delimiter string) string {
	ext := "tsv"
	if delimiter == exports.DelimiterComma {
		ext = "csv"
	}
	return fmt.Sprintf("%s-%s.%s", report, time.Now().UTC().Format("2006-01-02"), ext)
}

func exportContentType(delimiter string) string {
	if delimiter == exports.DelimiterComma {
		return "text/csv"
	}
	return "text/tab-separated-values"
}
