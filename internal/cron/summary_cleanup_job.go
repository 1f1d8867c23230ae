package cron

import (
	"context"
	"fmt"

	"github.com/dcplibrary/notices-backend/internal/aggregation"
	"github.com/dcplibrary/notices-backend/pkg/logger"
)

const summaryRetentionDays = 365

// SummaryCleanupJobParams configure the summary retention sweep.
type SummaryCleanupJobParams struct {
	Logger     *logger.Logger
	Aggregator aggregation.Service
	Retention  int
}

type summaryCleanupJob struct {
	logg       *logger.Logger
	aggregator aggregation.Service
	retention  int
}

// NewSummaryCleanupJob builds the job that prunes aged summary rows.
func NewSummaryCleanupJob(params SummaryCleanupJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Aggregator == nil {
		return nil, fmt.Errorf("aggregation service required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = summaryRetentionDays
	}
	return &summaryCleanupJob{
		logg:       params.Logger,
		aggregator: params.Aggregator,
		retention:  retention,
	}, nil
}

func (j *summaryCleanupJob) Name() string { return "summary-cleanup" }

func (j *summaryCleanupJob) Run(ctx context.Context) error {
	report, err := j.aggregator.CleanupOld(ctx, j.retention)
	if err != nil {
		return fmt.Errorf("summary cleanup: %w", err)
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         report.Cutoff.Format("2006-01-02"),
		"retention_days": j.retention,
		"rows_deleted":   report.Deleted,
	})
	j.logg.Info(logCtx, "summary cleanup complete")
	return nil
}
