package models

import (
	"time"

	"github.com/dcplibrary/notices-backend/pkg/enums"
)

// Delivery is one line of a gateway delivery-outcome report: the terminal
// result of a submitted notice.
type Delivery struct {
	ID            uint                 `gorm:"primaryKey;autoIncrement"`
	PatronBarcode string               `gorm:"type:text;index"`
	PhoneNumber   string               `gorm:"type:text;not null;index:idx_deliveries_phone_sent"`
	DeliveryType  string               `gorm:"type:text"`
	SentDate      time.Time            `gorm:"type:timestamptz;not null;index:idx_deliveries_phone_sent;index"`
	Status        enums.DeliveryStatus `gorm:"type:text;not null"`
	Carrier       string               `gorm:"type:text"`
	FailureReason string               `gorm:"type:text"`
	ReportType    string               `gorm:"type:text"`
	SourceFile    string               `gorm:"type:text"`
	CreatedAt     time.Time            `gorm:"type:timestamptz;default:now()"`
}

// TableName overrides the default pluralization.
func (Delivery) TableName() string { return "gateway_deliveries" }

// Failed reports whether the delivery carries a failure indicator.
func (d Delivery) Failed() bool {
	return d.Status == enums.DeliveryStatusFailed || d.FailureReason != ""
}
