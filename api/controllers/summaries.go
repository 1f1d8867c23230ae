package controllers

import (
	"net/http"
	"time"

	"github.com/dcplibrary/notices-backend/api/responses"
	"github.com/dcplibrary/notices-backend/api/validators"
	"github.com/dcplibrary/notices-backend/internal/aggregation"
	pkgerrors "github.com/dcplibrary/notices-backend/pkg/errors"
	"github.com/dcplibrary/notices-backend/pkg/logger"
)

type AggregateBody struct {
	All   bool   `json:"all,omitempty"`
	Date  string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Start string `json:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End   string `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Aggregate runs the daily rollup for a single date, a date range, or every
// recorded day when "all" is set. An empty body aggregates yesterday.
func Aggregate(svc aggregation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body AggregateBody
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		switch {
		case body.All:
			if body.Date != "" || body.Start != "" || body.End != "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "all cannot be combined with date or start/end"))
				return
			}
			report, err := svc.ReAggregateAll(r.Context(), nil)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, report)

		case body.Date != "":
			if body.Start != "" || body.End != "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "date and start/end are mutually exclusive"))
				return
			}
			date, _ := time.Parse("2006-01-02", body.Date)
			report, err := svc.AggregateDate(r.Context(), date)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, report)

		case body.Start != "" || body.End != "":
			if body.Start == "" || body.End == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "start and end are both required for a range"))
				return
			}
			start, _ := time.Parse("2006-01-02", body.Start)
			end, _ := time.Parse("2006-01-02", body.End)
			report, err := svc.AggregateDateRange(r.Context(), start, end, nil)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, report)

		default:
			report, err := svc.AggregateYesterday(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, report)
		}
	}
}

func ListSummaries(svc aggregation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defStart, defEnd := defaultRange()
		from, to, err := validators.ParseQueryDateRange(r, defStart, defEnd)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summaries, err := svc.ListSummaries(r.Context(), from, to)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"count":     len(summaries),
			"summaries": summaries,
		})
	}
}
