package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/dcplibrary/notices-backend/pkg/errors"
)

const queryDateLayout = "2006-01-02"

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryDate reads an optional YYYY-MM-DD query parameter. A missing or
// blank value yields a nil time.
func ParseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a YYYY-MM-DD date").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParseQueryDateRange reads the start and end query parameters, applies the
// given defaults when absent, and rejects inverted ranges. An explicit end
// parses as midnight, so it is extended to the last instant of that day;
// otherwise start=end-of-same-day queries would cover an empty window.
func ParseQueryDateRange(r *http.Request, defaultStart, defaultEnd time.Time) (time.Time, time.Time, error) {
	start, err := ParseQueryDate(r, "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseQueryDate(r, "end")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	from := defaultStart
	if start != nil {
		from = *start
	}
	to := defaultEnd
	if end != nil {
		to = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, "end date must not precede start date").WithDetails(map[string]any{"start": from.Format(queryDateLayout), "end": to.Format(queryDateLayout)})
	}
	return from, to, nil
}
