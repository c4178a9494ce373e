package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shareit/internal/config"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}
func (m *mockUserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockUserService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockUserService) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockUserService) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockItemService struct {
	mock.Mock
}

func (m *mockItemService) CreateItem(ctx context.Context, ownerID int64, item models.NewItem) (*models.Item, error) {
	args := m.Called(ctx, ownerID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}
func (m *mockItemService) UpdateItem(ctx context.Context, ownerID, itemID int64, upd models.ItemUpdate) (*models.Item, error) {
	args := m.Called(ctx, ownerID, itemID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}
func (m *mockItemService) GetItem(ctx context.Context, itemID, viewerID int64) (*models.ItemDetails, error) {
	args := m.Called(ctx, itemID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemDetails), args.Error(1)
}
func (m *mockItemService) ListOwnerItems(ctx context.Context, ownerID int64) ([]models.ItemDetails, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ItemDetails), args.Error(1)
}
func (m *mockItemService) SearchItems(ctx context.Context, text string) ([]models.Item, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}
func (m *mockItemService) AddComment(ctx context.Context, authorID, itemID int64, text string) (*models.Comment, error) {
	args := m.Called(ctx, authorID, itemID, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

type mockBookingService struct {
	mock.Mock
}

func (m *mockBookingService) Create(ctx context.Context, bookerID int64, req models.BookingRequest) (*models.BookingDetails, error) {
	args := m.Called(ctx, bookerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingDetails), args.Error(1)
}
func (m *mockBookingService) Process(ctx context.Context, ownerID, bookingID int64, approved *bool) (*models.BookingDetails, error) {
	args := m.Called(ctx, ownerID, bookingID, approved)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingDetails), args.Error(1)
}
func (m *mockBookingService) Get(ctx context.Context, userID, bookingID int64) (*models.BookingDetails, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BookingDetails), args.Error(1)
}
func (m *mockBookingService) ListForBooker(ctx context.Context, bookerID int64, state string) ([]models.BookingDetails, error) {
	args := m.Called(ctx, bookerID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingDetails), args.Error(1)
}
func (m *mockBookingService) ListForOwner(ctx context.Context, ownerID int64, state string) ([]models.BookingDetails, error) {
	args := m.Called(ctx, ownerID, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BookingDetails), args.Error(1)
}

type mockReports struct {
	mock.Mock
}

func (m *mockReports) EnqueueBookingsReport(ctx context.Context, start, end time.Time) error {
	return m.Called(ctx, start, end).Error(0)
}

type testServer struct {
	srv      *HTTPServer
	users    *mockUserService
	items    *mockItemService
	bookings *mockBookingService
	reports  *mockReports
}

func newTestServer(cfg config.APIConfig) *testServer {
	users := new(mockUserService)
	items := new(mockItemService)
	bookings := new(mockBookingService)
	reports := new(mockReports)
	logger := zerolog.New(io.Discard)
	srv := NewHTTPServer(cfg, users, items, bookings, reports, &logger)
	return &testServer{srv: srv, users: users, items: items, bookings: bookings, reports: reports}
}

func (ts *testServer) do(t *testing.T, method, target string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.srv.server.Handler.ServeHTTP(rec, req)
	return rec
}

func sharer(id string) map[string]string {
	return map[string]string{userHeader: id}
}

func TestUserEndpoints(t *testing.T) {
	ts := newTestServer(config.APIConfig{Port: 8080})

	t.Run("Create", func(t *testing.T) {
		ts.users.On("CreateUser", mock.Anything, "Alice", "a@example.com").
			Return(&models.User{ID: 1, Name: "Alice", Email: "a@example.com"}, nil).Once()

		rec := ts.do(t, http.MethodPost, "/users", map[string]string{"name": "Alice", "email": "a@example.com"}, nil)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var user models.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, int64(1), user.ID)
	})

	t.Run("ConflictOnTakenEmail", func(t *testing.T) {
		ts.users.On("CreateUser", mock.Anything, "Bob", "a@example.com").
			Return(nil, &service.ConflictError{Msg: "email a@example.com is already in use"}).Once()

		rec := ts.do(t, http.MethodPost, "/users", map[string]string{"name": "Bob", "email": "a@example.com"}, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already in use")
	})

	t.Run("GetUnknownIs404", func(t *testing.T) {
		ts.users.On("GetUserByID", mock.Anything, int64(40)).
			Return(nil, &service.NotFoundError{Kind: service.KindUser, ID: 40}).Once()

		rec := ts.do(t, http.MethodGet, "/users/40", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, rec.Body.String(), "user with id = 40 not found")
	})

	t.Run("BadIDIs400", func(t *testing.T) {
		rec := ts.do(t, http.MethodGet, "/users/abc", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Delete", func(t *testing.T) {
		ts.users.On("DeleteUser", mock.Anything, int64(1)).Return(nil).Once()

		rec := ts.do(t, http.MethodDelete, "/users/1", nil, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("UnexpectedErrorIs500AndOpaque", func(t *testing.T) {
		ts.users.On("GetAllUsers", mock.Anything).Return(nil, assert.AnError).Once()

		rec := ts.do(t, http.MethodGet, "/users", nil, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	})
}

func TestItemEndpoints(t *testing.T) {
	ts := newTestServer(config.APIConfig{Port: 8080})

	t.Run("CreateRequiresSharerHeader", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/items", map[string]string{"name": "Drill"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), userHeader)
	})

	t.Run("Create", func(t *testing.T) {
		ts.items.On("CreateItem", mock.Anything, int64(1), mock.MatchedBy(func(n models.NewItem) bool {
			return n.Name == "Drill"
		})).Return(&models.Item{ID: 3, Name: "Drill", OwnerID: 1}, nil).Once()

		rec := ts.do(t, http.MethodPost, "/items",
			map[string]string{"name": "Drill", "description": "cordless"}, sharer("1"))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("NonOwnerUpdateIs404", func(t *testing.T) {
		ts.items.On("UpdateItem", mock.Anything, int64(9), int64(3), mock.Anything).
			Return(nil, &service.NotFoundError{Kind: service.KindItem, ID: 3}).Once()

		rec := ts.do(t, http.MethodPatch, "/items/3", map[string]string{"name": "Mine"}, sharer("9"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("SearchPassesText", func(t *testing.T) {
		ts.items.On("SearchItems", mock.Anything, "drill").
			Return([]models.Item{{ID: 3, Name: "Drill"}}, nil).Once()

		rec := ts.do(t, http.MethodGet, "/items/search?text=drill", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var items []models.Item
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		assert.Len(t, items, 1)
	})

	t.Run("AddComment", func(t *testing.T) {
		ts.items.On("AddComment", mock.Anything, int64(7), int64(3), "worked great").
			Return(&models.Comment{ID: 5, Text: "worked great", AuthorName: "Renter"}, nil).Once()

		rec := ts.do(t, http.MethodPost, "/items/3/comment",
			map[string]string{"text": "worked great"}, sharer("7"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("CommentWithoutFinishedBookingIs404", func(t *testing.T) {
		ts.items.On("AddComment", mock.Anything, int64(7), int64(3), "never rented").
			Return(nil, &service.NotFoundError{Kind: service.KindBooking, ID: 7}).Once()

		rec := ts.do(t, http.MethodPost, "/items/3/comment",
			map[string]string{"text": "never rented"}, sharer("7"))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBookingEndpoints(t *testing.T) {
	ts := newTestServer(config.APIConfig{Port: 8080})

	t.Run("Create", func(t *testing.T) {
		ts.bookings.On("Create", mock.Anything, int64(7), mock.MatchedBy(func(r models.BookingRequest) bool {
			return r.ItemID == 3 && r.Start != nil && r.End != nil
		})).Return(&models.BookingDetails{ID: 20, Status: models.StatusWaiting}, nil).Once()

		body := map[string]interface{}{
			"item_id": 3,
			"start":   "2026-09-01T10:00:00Z",
			"end":     "2026-09-02T10:00:00Z",
		}
		rec := ts.do(t, http.MethodPost, "/bookings", body, sharer("7"))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("ProcessApproved", func(t *testing.T) {
		ts.bookings.On("Process", mock.Anything, int64(1), int64(20), mock.MatchedBy(func(a *bool) bool {
			return a != nil && *a
		})).Return(&models.BookingDetails{ID: 20, Status: models.StatusApproved}, nil).Once()

		rec := ts.do(t, http.MethodPatch, "/bookings/20?approved=true", nil, sharer("1"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("ProcessMissingFlagReachesService", func(t *testing.T) {
		ts.bookings.On("Process", mock.Anything, int64(1), int64(20), (*bool)(nil)).
			Return(nil, &service.ValidationError{Msg: "approval flag must be set"}).Once()

		rec := ts.do(t, http.MethodPatch, "/bookings/20", nil, sharer("1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ProcessGarbageFlagIs400", func(t *testing.T) {
		rec := ts.do(t, http.MethodPatch, "/bookings/20?approved=maybe", nil, sharer("1"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("StrangerViewIs400", func(t *testing.T) {
		ts.bookings.On("Get", mock.Anything, int64(50), int64(20)).
			Return(nil, &service.ValidationError{Msg: "viewing booking 20 is forbidden for user 50"}).Once()

		rec := ts.do(t, http.MethodGet, "/bookings/20", nil, sharer("50"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("ListDefaultsToAll", func(t *testing.T) {
		ts.bookings.On("ListForBooker", mock.Anything, int64(7), models.StateAll).
			Return([]models.BookingDetails{}, nil).Once()

		rec := ts.do(t, http.MethodGet, "/bookings", nil, sharer("7"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("OwnerListPassesState", func(t *testing.T) {
		ts.bookings.On("ListForOwner", mock.Anything, int64(1), models.StateWaiting).
			Return([]models.BookingDetails{}, nil).Once()

		rec := ts.do(t, http.MethodGet, "/bookings/owner?state=WAITING", nil, sharer("1"))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAdminReportEndpoint(t *testing.T) {
	ts := newTestServer(config.APIConfig{Port: 8080})

	t.Run("Queued", func(t *testing.T) {
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
		ts.reports.On("EnqueueBookingsReport", mock.Anything, start, end).Return(nil).Once()

		rec := ts.do(t, http.MethodPost, "/admin/reports/bookings",
			map[string]string{"start": "2026-03-01", "end": "2026-03-31"}, nil)
		assert.Equal(t, http.StatusAccepted, rec.Code)
		ts.reports.AssertExpectations(t)
	})

	t.Run("BadDates", func(t *testing.T) {
		rec := ts.do(t, http.MethodPost, "/admin/reports/bookings",
			map[string]string{"start": "March 1st", "end": "2026-03-31"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = ts.do(t, http.MethodPost, "/admin/reports/bookings",
			map[string]string{"start": "2026-03-31", "end": "2026-03-01"}, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(config.APIConfig{Port: 8080})

	rec := ts.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(config.APIConfig{Port: 8080})

	rec := ts.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
