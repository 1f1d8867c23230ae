package models

import (
	"time"

	"github.com/dcplibrary/notices-backend/pkg/enums"
)

// Notice is one row of the ILS notification log: a single outbound patron
// communication event. Immutable after import except for the derived coarse
// status fields, which may be backfilled.
type Notice struct {
	ID               uint   `gorm:"primaryKey;autoIncrement"`
	PatronID         *int64 `gorm:"index"`
	PatronBarcode    string `gorm:"type:text;not null;index:idx_notices_patron_date"`
	PatronName       string `gorm:"type:text"`
	Phone            string `gorm:"type:text"`
	Email            string `gorm:"type:text"`
	ItemBarcode      string `gorm:"type:text"`
	NoticeDate       time.Time `gorm:"type:timestamptz;not null;index:idx_notices_patron_date;index"`
	NoticeTypeID     int       `gorm:"not null"`
	DeliveryMethodID int       `gorm:"not null"`

	// Fine-grained source status code and its derived coarse status.
	StatusCode        int          `gorm:"not null;default:0"`
	Status            enums.Status `gorm:"type:text;not null;default:pending"`
	StatusDescription string       `gorm:"type:text"`

	// Per-item counts carried on combined notices, used for display and
	// summary sums only.
	HoldsCount       int `gorm:"not null;default:0"`
	OverduesCount    int `gorm:"not null;default:0"`
	Overdues2ndCount int `gorm:"column:overdues_2nd_count;not null;default:0"`
	Overdues3rdCount int `gorm:"column:overdues_3rd_count;not null;default:0"`
	CancelsCount     int `gorm:"not null;default:0"`
	RecallsCount     int `gorm:"not null;default:0"`
	BillsCount       int `gorm:"not null;default:0"`

	SourceFile string    `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"type:timestamptz;default:now()"`
}

// TableName overrides the default pluralization.
func (Notice) TableName() string { return "notices" }

// ApplyStatusCode sets the derived coarse status fields from the source code.
func (n *Notice) ApplyStatusCode(code int) {
	n.StatusCode = code
	n.Status = enums.ClassifyStatusCode(code)
	n.StatusDescription = enums.StatusCodeDescription(code)
}
