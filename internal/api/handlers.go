package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shareit/internal/models"
)

func callerID(r *http.Request) (int64, bool) {
	raw := r.Header.Get(userHeader)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// --- users ---

func (s *HTTPServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.users.CreateUser(r.Context(), req.Name, req.Email)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *HTTPServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.GetAllUsers(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *HTTPServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	user, err := s.users.GetUserByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	var upd models.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.users.UpdateUser(r.Context(), id, upd)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := s.users.DeleteUser(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- items ---

func (s *HTTPServer) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
		return
	}
	var req models.NewItem
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, err := s.items.CreateItem(r.Context(), ownerID, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (s *HTTPServer) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
		return
	}
	itemID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var upd models.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item, err := s.items.UpdateItem(r.Context(), ownerID, itemID, upd)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *HTTPServer) handleGetItem(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
		return
	}
	itemID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	details, err := s.items.GetItem(r.Context(), itemID, viewerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *HTTPServer) handleListOwnerItems(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
		return
	}
	details, err := s.items.ListOwnerItems(r.Context(), ownerID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *HTTPServer) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.SearchItems(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *HTTPServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	authorID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
		return
	}
	itemID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	comment, err := s.items.AddComment(r.Context(), authorID, itemID, req.Text)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

// --- bookings ---

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	bookerID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
		return
	}
	var req models.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	details, err := s.bookings.Create(r.Context(), bookerID, req)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, details)
}

func (s *HTTPServer) handleProcessBooking(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
		return
	}
	bookingID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	var approved *bool
	if raw := r.URL.Query().Get("approved"); raw != "" {
		val, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid approved value")
			return
		}
		approved = &val
	}
	details, err := s.bookings.Process(r.Context(), ownerID, bookingID, approved)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
		return
	}
	bookingID, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}
	details, err := s.bookings.Get(r.Context(), userID, bookingID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func bookingState(r *http.Request) string {
	state := r.URL.Query().Get("state")
	if state == "" {
		return models.StateAll
	}
	return state
}

func (s *HTTPServer) handleListBookerBookings(w http.ResponseWriter, r *http.Request) {
	bookerID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
		return
	}
	details, err := s.bookings.ListForBooker(r.Context(), bookerID, bookingState(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *HTTPServer) handleListOwnerBookings(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing or invalid "+userHeader+" header")
		return
	}
	details, err := s.bookings.ListForOwner(r.Context(), ownerID, bookingState(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// --- admin ---

func (s *HTTPServer) handleEnqueueBookingsReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date, expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date, expected YYYY-MM-DD")
		return
	}
	if !end.After(start) {
		writeError(w, http.StatusBadRequest, "end date must be after start date")
		return
	}
	if err := s.reports.EnqueueBookingsReport(r.Context(), start, end); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
