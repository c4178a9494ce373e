package service

import (
	"context"
	"errors"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	bookings domain.BookingRepository
	items    domain.ItemRepository
	users    domain.UserRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(
	bookings domain.BookingRepository,
	items domain.ItemRepository,
	users domain.UserRepository,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		items:    items,
		users:    users,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Create registers a new booking request. The status is always forced
// to WAITING and the booker is always the authenticated caller, no
// matter what the request carried. Start/end ordering is not checked.
func (s *BookingService) Create(ctx context.Context, bookerID int64, req models.BookingRequest) (*models.BookingDetails, error) {
	booker, err := s.users.GetUserByID(ctx, bookerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errUserNotFound(bookerID)
		}
		return nil, err
	}

	item, err := s.items.GetItemByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errItemNotFound(req.ItemID)
		}
		return nil, err
	}
	if !item.Available {
		return nil, errItemNotAvailable(item.ID)
	}

	if req.Start == nil {
		return nil, errValidation("field 'start' must be set")
	}
	if req.End == nil {
		return nil, errValidation("field 'end' must be set")
	}

	booking := &models.Booking{
		ItemID:   item.ID,
		BookerID: booker.ID,
		Start:    *req.Start,
		End:      *req.End,
		Status:   models.StatusWaiting,
	}
	if err := s.bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", item.ID).
		Int64("booker_id", booker.ID).
		Msg("booking created")
	s.publishEvent(events.EventBookingCreated, booking, bookerID)

	return detailedBooking(booking, item, booker), nil
}

// Process records the owner's decision on a booking. There is no
// WAITING-only guard: a decided booking can be flipped again.
func (s *BookingService) Process(ctx context.Context, ownerID, bookingID int64, approved *bool) (*models.BookingDetails, error) {
	if approved == nil {
		return nil, errValidation("approval flag must be set")
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errBookingNotFound(bookingID)
		}
		return nil, err
	}

	booker, err := s.users.GetUserByID(ctx, booking.BookerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errUserNotFound(booking.BookerID)
		}
		return nil, err
	}

	item, err := s.items.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errItemNotFound(booking.ItemID)
		}
		return nil, err
	}
	if !item.Available {
		return nil, errItemNotAvailable(item.ID)
	}

	if item.OwnerID != ownerID {
		return nil, errValidation("item %d does not belong to user %d", item.ID, ownerID)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if *approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}
	if err := s.bookings.UpdateBookingStatus(ctx, booking.ID, status); err != nil {
		return nil, err
	}
	booking.Status = status

	s.logger.Info().
		Int64("booking_id", booking.ID).
		Str("status", status).
		Int64("owner_id", ownerID).
		Msg("booking processed")
	s.publishEvent(eventType, booking, ownerID)

	return detailedBooking(booking, item, booker), nil
}

// Get returns a booking's detailed view. Only the booker and the item
// owner may look at it; anyone else fails validation.
func (s *BookingService) Get(ctx context.Context, userID, bookingID int64) (*models.BookingDetails, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errBookingNotFound(bookingID)
		}
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errUserNotFound(userID)
		}
		return nil, err
	}

	item, err := s.items.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errItemNotFound(booking.ItemID)
		}
		return nil, err
	}

	if booking.BookerID != userID && item.OwnerID != userID {
		return nil, errValidation("viewing booking %d is forbidden for user %d", bookingID, userID)
	}

	booker := user
	if booking.BookerID != userID {
		booker, err = s.users.GetUserByID(ctx, booking.BookerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, errUserNotFound(booking.BookerID)
			}
			return nil, err
		}
	}

	return detailedBooking(booking, item, booker), nil
}

// ListForBooker returns the caller's own bookings filtered by state.
// Unknown states yield an empty list, not an error.
func (s *BookingService) ListForBooker(ctx context.Context, bookerID int64, state string) ([]models.BookingDetails, error) {
	if _, err := s.users.GetUserByID(ctx, bookerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errUserNotFound(bookerID)
		}
		return nil, err
	}

	now := time.Now()
	switch state {
	case models.StateAll:
		return s.bookings.ListByBooker(ctx, bookerID)
	case models.StateCurrent:
		return s.bookings.ListByBookerCurrent(ctx, bookerID, now)
	case models.StatePast:
		return s.bookings.ListByBookerPast(ctx, bookerID, now)
	case models.StateFuture:
		return s.bookings.ListByBookerFuture(ctx, bookerID, now)
	case models.StateWaiting:
		return s.bookings.ListByBookerStatus(ctx, bookerID, models.StatusWaiting)
	case models.StateRejected:
		return s.bookings.ListByBookerStatus(ctx, bookerID, models.StatusRejected)
	default:
		return []models.BookingDetails{}, nil
	}
}

// ListForOwner returns bookings on the caller's items filtered by state.
func (s *BookingService) ListForOwner(ctx context.Context, ownerID int64, state string) ([]models.BookingDetails, error) {
	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errUserNotFound(ownerID)
		}
		return nil, err
	}

	now := time.Now()
	switch state {
	case models.StateAll:
		return s.bookings.ListByOwner(ctx, ownerID)
	case models.StateCurrent:
		return s.bookings.ListByOwnerCurrent(ctx, ownerID, now)
	case models.StatePast:
		return s.bookings.ListByOwnerPast(ctx, ownerID, now)
	case models.StateFuture:
		return s.bookings.ListByOwnerFuture(ctx, ownerID, now)
	case models.StateWaiting:
		return s.bookings.ListByOwnerStatus(ctx, ownerID, models.StatusWaiting)
	case models.StateRejected:
		return s.bookings.ListByOwnerStatus(ctx, ownerID, models.StatusRejected)
	default:
		return []models.BookingDetails{}, nil
	}
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, actorID int64) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    booking.ItemID,
		BookerID:  booking.BookerID,
		Status:    booking.Status,
		Start:     booking.Start,
		End:       booking.End,
		ActorID:   actorID,
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func detailedBooking(booking *models.Booking, item *models.Item, booker *models.User) *models.BookingDetails {
	return &models.BookingDetails{
		ID:     booking.ID,
		Start:  booking.Start,
		End:    booking.End,
		Status: booking.Status,
		Item:   *item,
		Booker: *booker,
	}
}
