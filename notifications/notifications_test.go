package notifications

import (
	"testing"

	"food-marketplace-api/config"
	"food-marketplace-api/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, config.Migrate(db))
	return db
}

func sampleOrder(courier *uint) *models.Order {
	return &models.Order{
		ID:         42,
		CustomerID: 7,
		CourierID:  courier,
		Merchant:   models.Merchant{UserID: 3, Name: "Corner Deli"},
	}
}

func TestRecipientsWithoutCourier(t *testing.T) {
	tr := Transition{Previous: models.StatusPending, New: models.StatusConfirmed}
	got := Recipients(sampleOrder(nil), tr)

	require.Len(t, got, 2)
	assert.Equal(t, uint(7), got[0].RecipientID)
	assert.Contains(t, got[0].Message, "pending")
	assert.Contains(t, got[0].Message, "confirmed")
	assert.Equal(t, uint(3), got[1].RecipientID)
	assert.Contains(t, got[1].Message, "confirmed")
	assert.NotContains(t, got[1].Message, "pending")
}

func TestRecipientsWithCourier(t *testing.T) {
	courierID := uint(11)
	tr := Transition{Previous: models.StatusPreparing, New: models.StatusOutForDelivery}
	got := Recipients(sampleOrder(&courierID), tr)

	require.Len(t, got, 3)
	assert.Equal(t, uint(7), got[0].RecipientID)
	assert.Equal(t, courierID, got[1].RecipientID)
	assert.Contains(t, got[1].Message, "out_for_delivery")
	assert.NotContains(t, got[1].Message, "preparing")
	assert.Equal(t, uint(3), got[2].RecipientID)
}

func TestRecipientsNotDeduplicated(t *testing.T) {
	// Customer is also the assigned courier: both messages still go out
	sameUser := uint(7)
	order := sampleOrder(&sameUser)
	got := Recipients(order, Transition{Previous: models.StatusPreparing, New: models.StatusOutForDelivery})

	require.Len(t, got, 3)
	assert.Equal(t, sameUser, got[0].RecipientID)
	assert.Equal(t, sameUser, got[1].RecipientID)
	assert.NotEqual(t, got[0].Message, got[1].Message)
}

func TestRecipientsSkipUnresolvedVendor(t *testing.T) {
	order := sampleOrder(nil)
	order.Merchant = models.Merchant{}
	got := Recipients(order, Transition{Previous: models.StatusPending, New: models.StatusCancelled})
	require.Len(t, got, 1)
	assert.Equal(t, uint(7), got[0].RecipientID)
}

func seedInbox(t *testing.T, db *gorm.DB, recipientID uint, messages ...string) {
	t.Helper()
	for _, m := range messages {
		require.NoError(t, db.Create(&models.Notification{RecipientID: recipientID, Message: m}).Error)
	}
}

func TestInboxOperations(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop())

	seedInbox(t, db, 1, "first", "second", "third")
	seedInbox(t, db, 2, "someone else's")

	list, err := svc.List(1)
	require.NoError(t, err)
	require.Len(t, list, 3)
	// Newest first
	assert.Equal(t, "third", list[0].Message)
	assert.Equal(t, "first", list[2].Message)

	unread, err := svc.UnreadCount(1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread)

	affected, err := svc.MarkAllRead(1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, affected)

	unread, err = svc.UnreadCount(1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread)

	// Repeat is a zero-count no-op, not an error
	affected, err = svc.MarkAllRead(1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	deleted, err := svc.ClearAll(1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, deleted)

	list, err = svc.List(1)
	require.NoError(t, err)
	assert.Empty(t, list)

	// User 2's inbox was untouched throughout
	otherUnread, err := svc.UnreadCount(2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, otherUnread)
}

func TestFanOutPersistsPerRecipient(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, zap.NewNop())

	courierID := uint(11)
	order := sampleOrder(&courierID)
	svc.FanOut(order, Transition{Previous: models.StatusConfirmed, New: models.StatusPreparing})

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}
