package exports

import (
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/dcplibrary/notices-backend/internal/lifecycle"
	"github.com/dcplibrary/notices-backend/pkg/db/models"
	"github.com/dcplibrary/notices-backend/pkg/enums"
)

// Delimiter names accepted from configuration.
const (
	DelimiterTab   = "tab"
	DelimiterComma = "comma"
)

// Exporter renders report data as delimited text with a header row. The
// default delimiter is tab, which is what the downstream spreadsheet
// imports expect.
type Exporter struct {
	comma rune
}

// New returns an exporter for the named delimiter. Unrecognized names fall
// back to tab.
func New(delimiter string) *Exporter {
	switch delimiter {
	case DelimiterComma:
		return &Exporter{comma: ','}
	default:
		return &Exporter{comma: '\t'}
	}
}

func (e *Exporter) render(header []string, rows [][]string) (string, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)
	writer.Comma = e.comma

	if err := writer.Write(header); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Verifications renders one row per verified notice.
func (e *Exporter) Verifications(verifications []lifecycle.Verification) (string, error) {
	header := []string{
		"Notice ID", "Date", "Patron Barcode", "Patron Name", "Notice Type",
		"Delivery Method", "Contact", "Item Barcode", "Verification Status",
		"Created", "Submitted", "Verified", "Delivered", "Failure Reason",
	}
	rows := make([][]string, 0, len(verifications))
	for _, v := range verifications {
		notice := v.Notice
		result := v.Result
		rows = append(rows, []string{
			fmt.Sprintf("%d", notice.ID),
			notice.NoticeDate.Format("2006-01-02 15:04:05"),
			notice.PatronBarcode,
			notice.PatronName,
			enums.NoticeTypeName(notice.NoticeTypeID),
			enums.DeliveryMethodName(notice.DeliveryMethodID),
			contactValue(notice),
			notice.ItemBarcode,
			capitalize(string(result.OverallStatus)),
			yesNo(result.Created),
			yesNo(result.Submitted),
			yesNo(result.Verified),
			yesNo(result.Delivered),
			result.FailureReason,
		})
	}
	return e.render(header, rows)
}

// FailedDeliveries renders one row per failed delivery report line.
func (e *Exporter) FailedDeliveries(deliveries []models.Delivery) (string, error) {
	header := []string{
		"ID", "Date", "Patron Barcode", "Phone", "Status",
		"Failure Reason", "Message Type", "Carrier",
	}
	rows := make([][]string, 0, len(deliveries))
	for _, d := range deliveries {
		rows = append(rows, []string{
			fmt.Sprintf("%d", d.ID),
			d.SentDate.Format("2006-01-02 15:04:05"),
			d.PatronBarcode,
			d.PhoneNumber,
			string(d.Status),
			d.FailureReason,
			d.DeliveryType,
			d.Carrier,
		})
	}
	return e.render(header, rows)
}

// DailySummaries renders one row per aggregated summary.
func (e *Exporter) DailySummaries(summaries []models.DailySummary) (string, error) {
	header := []string{
		"Date", "Notice Type", "Delivery Method", "Total Sent", "Success",
		"Failed", "Pending", "Unique Patrons", "Success Rate", "Failure Rate",
	}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.SummaryDate.Format("2006-01-02"),
			enums.NoticeTypeName(s.NoticeTypeID),
			enums.DeliveryMethodName(s.DeliveryMethodID),
			fmt.Sprintf("%d", s.TotalSent),
			fmt.Sprintf("%d", s.TotalSuccess),
			fmt.Sprintf("%d", s.TotalFailed),
			fmt.Sprintf("%d", s.TotalPending),
			fmt.Sprintf("%d", s.UniquePatrons),
			s.SuccessRate.StringFixed(2),
			s.FailureRate.StringFixed(2),
		})
	}
	return e.render(header, rows)
}

// Mismatches renders both mismatch classes in one report, tagged by class.
func (e *Exporter) Mismatches(report *lifecycle.MismatchReport) (string, error) {
	header := []string{
		"Class", "ID", "Patron Barcode", "Phone", "Type Or Item", "Date", "Source",
	}
	rows := make([][]string, 0, len(report.SubmittedNotVerified)+len(report.VerifiedNotDelivered))
	for _, m := range report.SubmittedNotVerified {
		rows = append(rows, []string{
			"submitted_not_verified",
			fmt.Sprintf("%d", m.ID),
			m.PatronBarcode,
			m.Phone,
			m.Type,
			m.SubmittedAt.Format("2006-01-02 15:04:05"),
			m.SourceFile,
		})
	}
	for _, m := range report.VerifiedNotDelivered {
		rows = append(rows, []string{
			"verified_not_delivered",
			fmt.Sprintf("%d", m.ID),
			m.PatronBarcode,
			m.Phone,
			m.ItemBarcode,
			m.NoticeDate.Format("2006-01-02 15:04:05"),
			m.DeliveryType,
		})
	}
	return e.render(header, rows)
}

// FailureReasons renders the failure-reason breakdown.
func (e *Exporter) FailureReasons(stats []lifecycle.FailureReasonStat) (string, error) {
	header := []string{"Reason", "Count", "Percentage"}
	rows := make([][]string, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, []string{
			stat.Reason,
			fmt.Sprintf("%d", stat.Count),
			fmt.Sprintf("%.1f", stat.Percentage),
		})
	}
	return e.render(header, rows)
}

// FailureTypes renders the failure-by-notice-type breakdown.
func (e *Exporter) FailureTypes(stats []lifecycle.FailureTypeStat) (string, error) {
	header := []string{"Type", "Count", "Percentage"}
	rows := make([][]string, 0, len(stats))
	for _, stat := range stats {
		rows = append(rows, []string{
			stat.Type,
			fmt.Sprintf("%d", stat.Count),
			fmt.Sprintf("%.1f", stat.Percentage),
		})
	}
	return e.render(header, rows)
}

// contactValue returns the contact point a notice was addressed to.
func contactValue(notice *models.Notice) string {
	switch notice.DeliveryMethodID {
	case enums.DeliveryMethodVoice, enums.DeliveryMethodSMS:
		return notice.Phone
	case enums.DeliveryMethodEmail:
		return notice.Email
	default:
		return ""
	}
}

func yesNo(value bool) string {
	if value {
		return "Yes"
	}
	return "No"
}

func capitalize(value string) string {
	if value == "" || value[0] < 'a' || value[0] > 'z' {
		return value
	}
	return string(value[0]-('a'-'A')) + value[1:]
}
