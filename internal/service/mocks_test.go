package service

import (
	"context"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/mock"
)

type mockUsers struct {
	mock.Mock
}

func (m *mockUsers) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockUsers) GetAllUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *mockUsers) CreateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUsers) UpdateUser(ctx context.Context, u *models.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUsers) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockItems struct {
	mock.Mock
}

func (m *mockItems) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}
func (m *mockItems) GetItemsByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}
func (m *mockItems) SearchItems(ctx context.Context, text string) ([]models.Item, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}
func (m *mockItems) CreateItem(ctx context.Context, i *models.Item) error {
	return m.Called(ctx, i).Error(0)
}
func (m *mockItems) UpdateItem(ctx context.Context, i *models.Item) error {
	return m.Called(ctx, i).Error(0)
}

type mockBookings struct {
	mock.Mock
}

func (m *mockBookings) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockBookings) CreateBooking(ctx context.Context, b *models.Booking) error {
	return m.Called(ctx, b).Error(0)
}
func (m *mockBookings) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockBookings) detailsCall(args mock.Arguments) ([]models.BookingDetails, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingDetails), args.Error(1)
}

func (m *mockBookings) ListByBooker(ctx context.Context, bookerID int64) ([]models.BookingDetails, error) {
	return m.detailsCall(m.Called(ctx, bookerID))
}
func (m *mockBookings) ListByBookerCurrent(ctx context.Context, bookerID int64, now time.Time) ([]models.BookingDetails, error) {
	return m.detailsCall(m.Called(ctx, bookerID, now))
}
func (m *mockBookings) ListByBookerPast(ctx context.Context, bookerID int64, now time.Time) ([]models.BookingDetails, error) {
	return m.detailsCall(m.Called(ctx, bookerID, now))
}
func (m *mockBookings) ListByBookerFuture(ctx context.Context, bookerID int64, now time.Time) ([]models.BookingDetails, error) {
	return m.detailsCall(m.Called(ctx, bookerID, now))
}
func (m *mockBookings) ListByBookerStatus(ctx context.Context, bookerID int64, status string) ([]models.BookingDetails, error) {
	return m.detailsCall(m.Called(ctx, bookerID, status))
}
func (m *mockBookings) ListByOwner(ctx context.Context, ownerID int64) ([]models.BookingDetails, error) {
	return m.detailsCall(m.Called(ctx, ownerID))
}
func (m *mockBookings) ListByOwnerCurrent(ctx context.Context, ownerID int64, now time.Time) ([]models.BookingDetails, error) {
	return m.detailsCall(m.Called(ctx, ownerID, now))
}
func (m *mockBookings) ListByOwnerPast(ctx context.Context, ownerID int64, now time.Time) ([]models.BookingDetails, error) {
	return m.detailsCall(m.Called(ctx, ownerID, now))
}
func (m *mockBookings) ListByOwnerFuture(ctx context.Context, ownerID int64, now time.Time) ([]models.BookingDetails, error) {
	return m.detailsCall(m.Called(ctx, ownerID, now))
}
func (m *mockBookings) ListByOwnerStatus(ctx context.Context, ownerID int64, status string) ([]models.BookingDetails, error) {
	return m.detailsCall(m.Called(ctx, ownerID, status))
}
func (m *mockBookings) LastBookingsForItems(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.Booking, error) {
	args := m.Called(ctx, itemIDs, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]models.Booking), args.Error(1)
}
func (m *mockBookings) NextBookingsForItems(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.Booking, error) {
	args := m.Called(ctx, itemIDs, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]models.Booking), args.Error(1)
}
func (m *mockBookings) HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	args := m.Called(ctx, bookerID, itemID, now)
	return args.Bool(0), args.Error(1)
}

type mockComments struct {
	mock.Mock
}

func (m *mockComments) CreateComment(ctx context.Context, c *models.Comment) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockComments) GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) GetSearch(ctx context.Context, text string) ([]models.Item, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}
func (m *mockCache) SetSearch(ctx context.Context, text string, items []models.Item) error {
	return m.Called(ctx, text, items).Error(0)
}
func (m *mockCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockEventBus struct {
	mock.Mock
}

func (m *mockEventBus) PublishJSON(eventType string, payload interface{}) error {
	return m.Called(eventType, payload).Error(0)
}
