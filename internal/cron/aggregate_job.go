package cron

import (
	"context"
	"fmt"

	"github.com/dcplibrary/notices-backend/internal/aggregation"
	"github.com/dcplibrary/notices-backend/pkg/logger"
)

// AggregateJobParams configure the nightly summary aggregation job.
type AggregateJobParams struct {
	Logger     *logger.Logger
	Aggregator aggregation.Service
}

type aggregateJob struct {
	logg       *logger.Logger
	aggregator aggregation.Service
}

// NewAggregateJob builds the job that rolls up the previous day's notices.
func NewAggregateJob(params AggregateJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Aggregator == nil {
		return nil, fmt.Errorf("aggregation service required")
	}
	return &aggregateJob{logg: params.Logger, aggregator: params.Aggregator}, nil
}

func (j *aggregateJob) Name() string { return "aggregate-daily-summaries" }

func (j *aggregateJob) Run(ctx context.Context) error {
	report, err := j.aggregator.AggregateYesterday(ctx)
	if err != nil {
		return fmt.Errorf("aggregate yesterday: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"summary_date":            report.Date.Format("2006-01-02"),
		"combinations_aggregated": report.Combinations,
		"combinations_failed":     report.Failed,
	})
	if report.Failed > 0 {
		j.logg.Warn(logCtx, "daily aggregation finished with failed combinations")
		return nil
	}
	j.logg.Info(logCtx, "daily aggregation complete")
	return nil
}
