package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary is one aggregated row per (summary date, notice type,
// delivery method). The unique triple is the natural key; rows are written
// exclusively by the aggregator via upsert, which is what makes
// re-aggregation idempotent.
type DailySummary struct {
	ID               uint      `gorm:"primaryKey;autoIncrement"`
	SummaryDate      time.Time `gorm:"type:date;not null;uniqueIndex:uq_daily_summary_key,priority:1"`
	NoticeTypeID     int       `gorm:"not null;uniqueIndex:uq_daily_summary_key,priority:2"`
	DeliveryMethodID int       `gorm:"not null;uniqueIndex:uq_daily_summary_key,priority:3"`

	TotalSent    int `gorm:"not null;default:0"`
	TotalSuccess int `gorm:"not null;default:0"`
	TotalFailed  int `gorm:"not null;default:0"`
	TotalPending int `gorm:"not null;default:0"`

	TotalHolds       int `gorm:"not null;default:0"`
	TotalOverdues    int `gorm:"not null;default:0"`
	TotalOverdues2nd int `gorm:"column:total_overdues_2nd;not null;default:0"`
	TotalOverdues3rd int `gorm:"column:total_overdues_3rd;not null;default:0"`
	TotalCancels     int `gorm:"not null;default:0"`
	TotalRecalls     int `gorm:"not null;default:0"`
	TotalBills       int `gorm:"not null;default:0"`

	UniquePatrons int `gorm:"not null;default:0"`

	SuccessRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	FailureRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`

	AggregatedAt time.Time `gorm:"type:timestamptz;not null"`
	CreatedAt    time.Time `gorm:"type:timestamptz;default:now()"`
	UpdatedAt    time.Time `gorm:"type:timestamptz;default:now()"`
}

// TableName overrides the default pluralization.
func (DailySummary) TableName() string { return "daily_notice_summaries" }
