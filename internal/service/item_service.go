package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	items    domain.ItemRepository
	users    domain.UserRepository
	bookings domain.BookingRepository
	comments domain.CommentRepository
	cache    domain.SearchCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(
	items domain.ItemRepository,
	users domain.UserRepository,
	bookings domain.BookingRepository,
	comments domain.CommentRepository,
	cache domain.SearchCache,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *ItemService {
	return &ItemService{
		items:    items,
		users:    users,
		bookings: bookings,
		comments: comments,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateItem registers an item for the given owner. A missing available
// flag is stored as false, not left unset.
func (s *ItemService) CreateItem(ctx context.Context, ownerID int64, newItem models.NewItem) (*models.Item, error) {
	if strings.TrimSpace(newItem.Name) == "" {
		return nil, errValidation("field 'name' must be set")
	}
	if strings.TrimSpace(newItem.Description) == "" {
		return nil, errValidation("field 'description' must be set")
	}

	if _, err := s.users.GetUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errUserNotFound(ownerID)
		}
		return nil, err
	}

	available := false
	if newItem.Available != nil {
		available = *newItem.Available
	}

	item := &models.Item{
		Name:        newItem.Name,
		Description: newItem.Description,
		Available:   available,
		OwnerID:     ownerID,
	}
	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	s.invalidateSearchCache(ctx)

	return item, nil
}

// UpdateItem applies a partial update. Only the owner may update; a
// non-owner gets item-not-found rather than a dedicated forbidden error.
func (s *ItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, upd models.ItemUpdate) (*models.Item, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errItemNotFound(itemID)
		}
		return nil, err
	}

	if item.OwnerID != ownerID {
		return nil, errItemNotFound(itemID)
	}

	if strings.TrimSpace(upd.Name) != "" {
		item.Name = upd.Name
	}
	if strings.TrimSpace(upd.Description) != "" {
		item.Description = upd.Description
	}
	if upd.Available != nil {
		item.Available = *upd.Available
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Msg("item updated")
	s.invalidateSearchCache(ctx)

	return item, nil
}

// GetItem returns the item with its comments. Last/next booking slots
// are filled only when the viewer owns the item; everyone else sees
// them empty regardless of actual booking activity.
func (s *ItemService) GetItem(ctx context.Context, itemID, viewerID int64) (*models.ItemDetails, error) {
	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errItemNotFound(itemID)
		}
		return nil, err
	}

	comments, err := s.comments.GetCommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}

	details := &models.ItemDetails{Item: *item, Comments: comments}

	if item.OwnerID == viewerID {
		now := time.Now()
		ids := []int64{itemID}

		last, err := s.bookings.LastBookingsForItems(ctx, ids, now)
		if err != nil {
			return nil, err
		}
		next, err := s.bookings.NextBookingsForItems(ctx, ids, now)
		if err != nil {
			return nil, err
		}
		if b, ok := last[itemID]; ok {
			details.LastBooking = &b
		}
		if b, ok := next[itemID]; ok {
			details.NextBooking = &b
		}
	}

	return details, nil
}

// ListOwnerItems annotates every item of the owner with its last and
// next booking, computed against a single "now" for the whole batch in
// two batched lookups, so listing cost does not grow with per-item
// booking volume.
func (s *ItemService) ListOwnerItems(ctx context.Context, ownerID int64) ([]models.ItemDetails, error) {
	items, err := s.items.GetItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []models.ItemDetails{}, nil
	}

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	now := time.Now()
	last, err := s.bookings.LastBookingsForItems(ctx, ids, now)
	if err != nil {
		return nil, err
	}
	next, err := s.bookings.NextBookingsForItems(ctx, ids, now)
	if err != nil {
		return nil, err
	}

	details := make([]models.ItemDetails, 0, len(items))
	for _, item := range items {
		d := models.ItemDetails{Item: item}
		if b, ok := last[item.ID]; ok {
			d.LastBooking = &b
		}
		if b, ok := next[item.ID]; ok {
			d.NextBooking = &b
		}
		details = append(details, d)
	}

	return details, nil
}

// SearchItems matches name or description case-insensitively among
// available items. Empty text short-circuits to an empty list.
func (s *ItemService) SearchItems(ctx context.Context, text string) ([]models.Item, error) {
	if text == "" {
		return []models.Item{}, nil
	}

	if s.cache != nil {
		items, err := s.cache.GetSearch(ctx, text)
		if err != nil {
			s.logger.Warn().Err(err).Str("text", text).Msg("search cache read error")
		} else if items != nil {
			metrics.IncSearchCache("hit")
			return items, nil
		}
		metrics.IncSearchCache("miss")
	}

	items, err := s.items.SearchItems(ctx, text)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}

	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, text, items); err != nil {
			s.logger.Warn().Err(err).Str("text", text).Msg("search cache write error")
		}
	}

	return items, nil
}

// AddComment lets a past renter comment on an item. The author must
// have at least one booking on the item that ended strictly before now;
// the absence is reported with the booking not-found kind, as the
// original contract does.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	author, err := s.users.GetUserByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errUserNotFound(authorID)
		}
		return nil, err
	}

	now := time.Now()
	ok, err := s.bookings.HasFinishedBooking(ctx, authorID, itemID, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errBookingNotFound(authorID)
	}

	item, err := s.items.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errItemNotFound(itemID)
		}
		return nil, err
	}

	comment := &models.Comment{
		Text:       text,
		ItemID:     item.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    now,
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", item.ID).Msg("comment added")
	if s.eventBus != nil {
		payload := events.CommentEventPayload{
			CommentID: comment.ID,
			ItemID:    item.ID,
			AuthorID:  author.ID,
		}
		if err := s.eventBus.PublishJSON(events.EventCommentAdded, payload); err != nil {
			s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
		}
	}

	return comment, nil
}

func (s *ItemService) invalidateSearchCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("search cache invalidate error")
	}
}
