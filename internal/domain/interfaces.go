package domain

import (
	"context"
	"errors"
	"time"

	"shareit/internal/models"
)

// Store-level sentinels. Repositories translate backend-specific
// failures into these so services can branch without knowing the store.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
}

type ItemRepository interface {
	GetItemByID(ctx context.Context, id int64) (*models.Item, error)
	GetItemsByOwner(ctx context.Context, ownerID int64) ([]models.Item, error)
	SearchItems(ctx context.Context, text string) ([]models.Item, error)
	CreateItem(ctx context.Context, item *models.Item) error
	UpdateItem(ctx context.Context, item *models.Item) error
}

type BookingRepository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatus(ctx context.Context, id int64, status string) error

	// List queries join the item and booker rows in a single pass and
	// return detailed views ordered by start descending.
	ListByBooker(ctx context.Context, bookerID int64) ([]models.BookingDetails, error)
	ListByBookerCurrent(ctx context.Context, bookerID int64, now time.Time) ([]models.BookingDetails, error)
	ListByBookerPast(ctx context.Context, bookerID int64, now time.Time) ([]models.BookingDetails, error)
	ListByBookerFuture(ctx context.Context, bookerID int64, now time.Time) ([]models.BookingDetails, error)
	ListByBookerStatus(ctx context.Context, bookerID int64, status string) ([]models.BookingDetails, error)

	ListByOwner(ctx context.Context, ownerID int64) ([]models.BookingDetails, error)
	ListByOwnerCurrent(ctx context.Context, ownerID int64, now time.Time) ([]models.BookingDetails, error)
	ListByOwnerPast(ctx context.Context, ownerID int64, now time.Time) ([]models.BookingDetails, error)
	ListByOwnerFuture(ctx context.Context, ownerID int64, now time.Time) ([]models.BookingDetails, error)
	ListByOwnerStatus(ctx context.Context, ownerID int64, status string) ([]models.BookingDetails, error)

	// Batched per-item lookups: at most one query per direction
	// regardless of how many item ids are passed, one row per item.
	LastBookingsForItems(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.Booking, error)
	NextBookingsForItems(ctx context.Context, itemIDs []int64, now time.Time) (map[int64]models.Booking, error)

	HasFinishedBooking(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)
}

type ReportTaskRepository interface {
	CreateReportTask(ctx context.Context, task *models.ReportTask) error
	GetPendingReportTasks(ctx context.Context, limit int) ([]models.ReportTask, error)
	UpdateReportTaskStatus(ctx context.Context, id int64, status string, errMsg string, nextRetryAt *time.Time) error
}

// SearchCache holds item search results keyed by search text.
// A miss is (nil, nil).
type SearchCache interface {
	GetSearch(ctx context.Context, text string) ([]models.Item, error)
	SetSearch(ctx context.Context, text string, items []models.Item) error
	Invalidate(ctx context.Context) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ReportWorker accepts export jobs from the request path.
type ReportWorker interface {
	EnqueueBookingsReport(ctx context.Context, start, end time.Time) error
}

type UserService interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, name, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type ItemService interface {
	CreateItem(ctx context.Context, ownerID int64, item models.NewItem) (*models.Item, error)
	UpdateItem(ctx context.Context, ownerID, itemID int64, upd models.ItemUpdate) (*models.Item, error)
	GetItem(ctx context.Context, itemID, viewerID int64) (*models.ItemDetails, error)
	ListOwnerItems(ctx context.Context, ownerID int64) ([]models.ItemDetails, error)
	SearchItems(ctx context.Context, text string) ([]models.Item, error)
	AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error)
}

type BookingService interface {
	Create(ctx context.Context, bookerID int64, req models.BookingRequest) (*models.BookingDetails, error)
	Process(ctx context.Context, ownerID, bookingID int64, approved *bool) (*models.BookingDetails, error)
	Get(ctx context.Context, userID, bookingID int64) (*models.BookingDetails, error)
	ListForBooker(ctx context.Context, bookerID int64, state string) ([]models.BookingDetails, error)
	ListForOwner(ctx context.Context, ownerID int64, state string) ([]models.BookingDetails, error)
}
