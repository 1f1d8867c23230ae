package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/dcplibrary/notices-backend/pkg/db/models"
	"github.com/dcplibrary/notices-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupLifecycleTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	notices := `
CREATE TABLE IF NOT EXISTS notices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  patron_id INTEGER,
  patron_barcode TEXT NOT NULL,
  patron_name TEXT,
  phone TEXT,
  email TEXT,
  item_barcode TEXT,
  notice_date DATETIME NOT NULL,
  notice_type_id INTEGER NOT NULL,
  delivery_method_id INTEGER NOT NULL,
  status_code INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  status_description TEXT,
  holds_count INTEGER NOT NULL DEFAULT 0,
  overdues_count INTEGER NOT NULL DEFAULT 0,
  overdues_2nd_count INTEGER NOT NULL DEFAULT 0,
  overdues_3rd_count INTEGER NOT NULL DEFAULT 0,
  cancels_count INTEGER NOT NULL DEFAULT 0,
  recalls_count INTEGER NOT NULL DEFAULT 0,
  bills_count INTEGER NOT NULL DEFAULT 0,
  source_file TEXT,
  created_at DATETIME
);`
	submissions := `
CREATE TABLE IF NOT EXISTS gateway_submissions (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  notice_type TEXT NOT NULL,
  patron_barcode TEXT NOT NULL,
  phone_number TEXT,
  delivery_type TEXT,
  submitted_at DATETIME NOT NULL,
  source_file TEXT,
  created_at DATETIME
);`
	phoneNotices := `
CREATE TABLE IF NOT EXISTS phone_notices (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  delivery_type TEXT,
  patron_barcode TEXT NOT NULL,
  phone_number TEXT,
  email TEXT,
  first_name TEXT,
  last_name TEXT,
  library_code TEXT,
  library_name TEXT,
  item_barcode TEXT,
  title TEXT,
  notice_date DATETIME NOT NULL,
  patron_id INTEGER,
  item_record_id INTEGER,
  bib_record_id INTEGER,
  source_file TEXT,
  created_at DATETIME
);`
	deliveries := `
CREATE TABLE IF NOT EXISTS gateway_deliveries (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  patron_barcode TEXT,
  phone_number TEXT NOT NULL,
  delivery_type TEXT,
  sent_date DATETIME NOT NULL,
  status TEXT NOT NULL,
  carrier TEXT,
  failure_reason TEXT,
  report_type TEXT,
  source_file TEXT,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(notices).Error)
	require.NoError(t, db.Exec(submissions).Error)
	require.NoError(t, db.Exec(phoneNotices).Error)
	require.NoError(t, db.Exec(deliveries).Error)

	// The shared-cache DSN keeps one database per process, so start clean.
	for _, table := range []string{"notices", "gateway_submissions", "phone_notices", "gateway_deliveries"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func TestRepository_FindSubmissionEarliestWins(t *testing.T) {
	db := setupLifecycleTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	later := models.Submission{NoticeType: enums.SubmissionTypeHolds, PatronBarcode: "p1", SubmittedAt: day.Add(10 * time.Hour), SourceFile: "later.txt"}
	earlier := models.Submission{NoticeType: enums.SubmissionTypeHolds, PatronBarcode: "p1", SubmittedAt: day.Add(9 * time.Hour), SourceFile: "earlier.txt"}
	otherType := models.Submission{NoticeType: enums.SubmissionTypeOverdue, PatronBarcode: "p1", SubmittedAt: day.Add(8 * time.Hour)}
	otherDay := models.Submission{NoticeType: enums.SubmissionTypeHolds, PatronBarcode: "p1", SubmittedAt: day.AddDate(0, 0, 1).Add(time.Hour)}
	require.NoError(t, db.Create(&later).Error)
	require.NoError(t, db.Create(&earlier).Error)
	require.NoError(t, db.Create(&otherType).Error)
	require.NoError(t, db.Create(&otherDay).Error)

	got, err := repo.FindSubmission(ctx, "p1", enums.SubmissionTypeHolds, day.Add(12*time.Hour))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "earlier.txt", got.SourceFile)

	missing, err := repo.FindSubmission(ctx, "p2", enums.SubmissionTypeHolds, day)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_FindPhoneNoticeItemBarcode(t *testing.T) {
	db := setupLifecycleTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.PhoneNotice{PatronBarcode: "p1", ItemBarcode: "item-a", NoticeDate: day}).Error)
	require.NoError(t, db.Create(&models.PhoneNotice{PatronBarcode: "p1", ItemBarcode: "item-b", NoticeDate: day}).Error)

	got, err := repo.FindPhoneNotice(ctx, "p1", day, "item-b")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "item-b", got.ItemBarcode)

	// Without an item barcode any same-day record for the patron matches.
	any, err := repo.FindPhoneNotice(ctx, "p1", day, "")
	require.NoError(t, err)
	require.NotNil(t, any)

	missing, err := repo.FindPhoneNotice(ctx, "p1", day, "item-c")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_FindDeliveryWindowBounds(t *testing.T) {
	db := setupLifecycleTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	noticeAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	windowStart := noticeAt.Add(-deliveryWindowBefore)
	windowEnd := noticeAt.Add(deliveryWindowAfter)

	// Just outside both bounds.
	require.NoError(t, db.Create(&models.Delivery{PhoneNumber: "555-out", SentDate: windowStart.Add(-time.Second), Status: enums.DeliveryStatusDelivered}).Error)
	require.NoError(t, db.Create(&models.Delivery{PhoneNumber: "555-out", SentDate: windowEnd.Add(time.Second), Status: enums.DeliveryStatusDelivered}).Error)

	got, err := repo.FindDeliveryInWindow(ctx, "555-out", windowStart, windowEnd)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Exactly on both bounds; ascending order returns the earlier row.
	require.NoError(t, db.Create(&models.Delivery{PhoneNumber: "555-edge", SentDate: windowEnd, Status: enums.DeliveryStatusDelivered, Carrier: "late"}).Error)
	require.NoError(t, db.Create(&models.Delivery{PhoneNumber: "555-edge", SentDate: windowStart, Status: enums.DeliveryStatusDelivered, Carrier: "early"}).Error)

	got, err = repo.FindDeliveryInWindow(ctx, "555-edge", windowStart, windowEnd)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "early", got.Carrier)
}

func TestRepository_ListFailedDeliveries(t *testing.T) {
	db := setupLifecycleTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sent := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Delivery{PhoneNumber: "1", SentDate: sent, Status: enums.DeliveryStatusFailed, FailureReason: "invalid number"}).Error)
	require.NoError(t, db.Create(&models.Delivery{PhoneNumber: "2", SentDate: sent, Status: enums.DeliveryStatusDelivered, FailureReason: "carrier rejected"}).Error)
	require.NoError(t, db.Create(&models.Delivery{PhoneNumber: "3", SentDate: sent, Status: enums.DeliveryStatusDelivered}).Error)

	failed, err := repo.ListFailedDeliveries(ctx, sent.AddDate(0, 0, -1), sent.AddDate(0, 0, 1), "", 0)
	require.NoError(t, err)
	// A populated failure reason counts even when the status reads delivered.
	assert.Len(t, failed, 2)

	filtered, err := repo.ListFailedDeliveries(ctx, sent.AddDate(0, 0, -1), sent.AddDate(0, 0, 1), "invalid", 0)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "invalid number", filtered[0].FailureReason)

	limited, err := repo.ListFailedDeliveries(ctx, sent.AddDate(0, 0, -1), sent.AddDate(0, 0, 1), "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRepository_FailureReasonCounts(t *testing.T) {
	db := setupLifecycleTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	sent := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.Delivery{PhoneNumber: "1", SentDate: sent, Status: enums.DeliveryStatusFailed, FailureReason: "invalid number"}).Error)
	}
	require.NoError(t, db.Create(&models.Delivery{PhoneNumber: "2", SentDate: sent, Status: enums.DeliveryStatusFailed, FailureReason: "opted out"}).Error)
	require.NoError(t, db.Create(&models.Delivery{PhoneNumber: "3", SentDate: sent, Status: enums.DeliveryStatusFailed}).Error)

	counts, err := repo.FailureReasonCounts(ctx, sent.AddDate(0, 0, -1), sent.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "invalid number", counts[0].FailureReason)
	assert.Equal(t, 3, counts[0].Count)
	assert.Equal(t, "opted out", counts[1].FailureReason)
	assert.Equal(t, 1, counts[1].Count)
}

func TestRepository_ListNoticesByPatron(t *testing.T) {
	db := setupLifecycleTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	day := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.Notice{PatronBarcode: "p1", NoticeDate: day, NoticeTypeID: 2, DeliveryMethodID: 8, Status: enums.StatusPending}).Error)
	require.NoError(t, db.Create(&models.Notice{PatronBarcode: "p1", NoticeDate: day.AddDate(0, 0, -3), NoticeTypeID: 1, DeliveryMethodID: 3, Status: enums.StatusPending}).Error)
	require.NoError(t, db.Create(&models.Notice{PatronBarcode: "p2", NoticeDate: day, NoticeTypeID: 2, DeliveryMethodID: 8, Status: enums.StatusPending}).Error)

	all, err := repo.ListNoticesByPatron(ctx, "p1", nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Newest first.
	assert.True(t, all[0].NoticeDate.After(all[1].NoticeDate))

	from := day.AddDate(0, 0, -1)
	to := day.AddDate(0, 0, 1)
	ranged, err := repo.ListNoticesByPatron(ctx, "p1", &from, &to)
	require.NoError(t, err)
	assert.Len(t, ranged, 1)

	single, err := repo.ListNoticesByPatron(ctx, "p1", &day, nil)
	require.NoError(t, err)
	assert.Len(t, single, 1)
}
