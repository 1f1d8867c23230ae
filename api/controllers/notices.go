package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dcplibrary/notices-backend/api/responses"
	"github.com/dcplibrary/notices-backend/api/validators"
	"github.com/dcplibrary/notices-backend/internal/lifecycle"
	pkgerrors "github.com/dcplibrary/notices-backend/pkg/errors"
	"github.com/dcplibrary/notices-backend/pkg/logger"
)

// defaultLookbackDays bounds the reporting endpoints when the caller does not
// pass an explicit range.
const defaultLookbackDays = 7

func defaultRange() (time.Time, time.Time) {
	end := time.Now().UTC()
	return end.AddDate(0, 0, -defaultLookbackDays), end
}

func VerifyNotice(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "noticeId")
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "notice id must be numeric").WithDetails(map[string]any{"notice_id": raw}))
			return
		}

		verification, err := svc.Verify(r.Context(), uint(id))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, verification)
	}
}

func VerifyPatron(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		barcode := validators.SanitizeString(chi.URLParam(r, "barcode"), 32)

		start, err := validators.ParseQueryDate(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if end != nil {
			// The end date is inclusive; cover the whole day.
			eod := end.AddDate(0, 0, 1).Add(-time.Nanosecond)
			end = &eod
		}

		verifications, err := svc.VerifyByPatron(r.Context(), barcode, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"patron_barcode": barcode,
			"count":          len(verifications),
			"verifications":  verifications,
		})
	}
}

func Mismatches(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defStart, defEnd := defaultRange()
		from, to, err := validators.ParseQueryDateRange(r, defStart, defEnd)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		report, err := svc.FindMismatches(r.Context(), from, to, nil)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, report)
	}
}

func FailuresByReason(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defStart, defEnd := defaultRange()
		from, to, err := validators.ParseQueryDateRange(r, defStart, defEnd)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.FailuresByReason(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"failures": stats})
	}
}

func FailuresByType(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defStart, defEnd := defaultRange()
		from, to, err := validators.ParseQueryDateRange(r, defStart, defEnd)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.FailuresByType(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"failures": stats})
	}
}

func Troubleshooting(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defStart, defEnd := defaultRange()
		from, to, err := validators.ParseQueryDateRange(r, defStart, defEnd)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.TroubleshootingSummary(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}
