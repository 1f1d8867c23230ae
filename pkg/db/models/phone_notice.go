package models

import "time"

// PhoneNotice is the gateway vendor's own record of a patron notice, imported
// from its PhoneNotices export. It exists purely to corroborate that a
// Submission was actually received by the vendor.
type PhoneNotice struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	DeliveryType  string    `gorm:"type:text"`
	PatronBarcode string    `gorm:"type:text;not null;index:idx_phone_notices_patron_day"`
	PhoneNumber   string    `gorm:"type:text;index"`
	Email         string    `gorm:"type:text"`
	FirstName     string    `gorm:"type:text"`
	LastName      string    `gorm:"type:text"`
	LibraryCode   string    `gorm:"type:text"`
	LibraryName   string    `gorm:"type:text"`
	ItemBarcode   string    `gorm:"type:text"`
	Title         string    `gorm:"type:text"`
	NoticeDate    time.Time `gorm:"type:timestamptz;not null;index:idx_phone_notices_patron_day;index"`
	PatronID      *int64
	ItemRecordID  *int64
	BibRecordID   *int64
	SourceFile    string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"type:timestamptz;default:now()"`
}

// TableName overrides the default pluralization.
func (PhoneNotice) TableName() string { return "phone_notices" }
