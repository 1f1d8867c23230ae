package models

import (
	"time"

	"github.com/dcplibrary/notices-backend/pkg/enums"
)

// Submission is one row submitted to the voice/SMS gateway for a batch run.
// There is no foreign key back to a Notice; rows are correlated heuristically
// by (patron barcode, calendar day, submission type).
//
// Field-order caveat: the upstream "holds" and "renew" file layouts carry a
// phone number in the column the export labels PatronID. PatronBarcode here
// holds whatever that column contained for the given layout; per-format field
// order is authoritative and must not be normalized at this layer.
type Submission struct {
	ID            uint                 `gorm:"primaryKey;autoIncrement"`
	NoticeType    enums.SubmissionType `gorm:"type:text;not null"`
	PatronBarcode string               `gorm:"type:text;not null;index:idx_submissions_patron_day"`
	PhoneNumber   string               `gorm:"type:text"`
	DeliveryType  string               `gorm:"type:text"` // voice or text
	SubmittedAt   time.Time            `gorm:"type:timestamptz;not null;index:idx_submissions_patron_day;index"`
	SourceFile    string               `gorm:"type:text"`
	CreatedAt     time.Time            `gorm:"type:timestamptz;default:now()"`
}

// TableName overrides the default pluralization.
func (Submission) TableName() string { return "gateway_submissions" }
