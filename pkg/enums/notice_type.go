package enums

import "fmt"

// Notice type codes as they appear in the ILS notification log.
const (
	NoticeTypeCombined           = 0
	NoticeTypeFirstOverdue       = 1
	NoticeTypeHoldReady          = 2
	NoticeTypeHoldCancel         = 3
	NoticeTypeRecall             = 4
	NoticeTypeAll                = 5
	NoticeTypeRoute              = 6
	NoticeTypeAlmostOverdue      = 7
	NoticeTypeFineNotice         = 8
	NoticeTypeInactiveReminder   = 9
	NoticeTypeExpirationReminder = 10
	NoticeTypeBill               = 11
	NoticeTypeSecondOverdue      = 12
	NoticeTypeThirdOverdue       = 13
	NoticeTypeSerialClaim        = 14
	NoticeTypeFusion             = 15
	NoticeTypeCourseReserves     = 16
	NoticeTypeBorrowByMailFail   = 17
	NoticeTypeSecondHold         = 18
	NoticeTypeMissingPart        = 19
	NoticeTypeManualBill         = 20
	NoticeTypeSecondFineNotice   = 21
)

var noticeTypeNames = map[int]string{
	NoticeTypeCombined:           "Combined",
	NoticeTypeFirstOverdue:       "1st Overdue",
	NoticeTypeHoldReady:          "Hold Ready",
	NoticeTypeHoldCancel:         "Hold Cancel",
	NoticeTypeRecall:             "Recall",
	NoticeTypeAll:                "All",
	NoticeTypeRoute:              "Route",
	NoticeTypeAlmostOverdue:      "Almost Overdue",
	NoticeTypeFineNotice:         "Fine Notice",
	NoticeTypeInactiveReminder:   "Inactive Reminder",
	NoticeTypeExpirationReminder: "Expiration Reminder",
	NoticeTypeBill:               "Bill",
	NoticeTypeSecondOverdue:      "2nd Overdue",
	NoticeTypeThirdOverdue:       "3rd Overdue",
	NoticeTypeSerialClaim:        "Serial Claim",
	NoticeTypeFusion:             "Polaris Fusion",
	NoticeTypeCourseReserves:     "Course Reserves",
	NoticeTypeBorrowByMailFail:   "Borrow-By-Mail Failure",
	NoticeTypeSecondHold:         "2nd Hold",
	NoticeTypeMissingPart:        "Missing Part",
	NoticeTypeManualBill:         "Manual Bill",
	NoticeTypeSecondFineNotice:   "2nd Fine Notice",
}

// NoticeTypeName returns the display name for a notice type code.
func NoticeTypeName(code int) string {
	if name, ok := noticeTypeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", code)
}
