package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/adeyemio/schoolbase/internal/domain"
	"github.com/adeyemio/schoolbase/internal/service"
	"github.com/adeyemio/schoolbase/pkg/response"
)

type TimetableHandler struct {
	service   *service.TimetableService
	validator *validator.Validate
}

func NewTimetableHandler(service *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /timetable/week
func (h *TimetableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateWeekTimetableRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	timetable, err := h.service.Create(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, timetable)
}

// Find handles GET /timetable/week. With class_id it resolves the term
// and session for the request date (or an explicit ?date=YYYY-MM-DD) and
// returns the single matching document; without class_id it lists,
// optionally filtered by term/session.
func (h *TimetableHandler) Find(w http.ResponseWriter, r *http.Request) {
	classID := r.URL.Query().Get("class_id")

	if classID == "" {
		timetables, err := h.service.List(r.Context(), r.URL.Query().Get("term"), r.URL.Query().Get("session"))
		if err != nil {
			response.FromError(w, err)
			return
		}
		response.Success(w, timetables)
		return
	}

	var ref time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.BadRequest(w, "date must be formatted YYYY-MM-DD")
			return
		}
		ref = parsed
	}

	timetable, err := h.service.Find(r.Context(), classID, ref)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, timetable)
}

// Get handles GET /timetable/week/{id}
func (h *TimetableHandler) Get(w http.ResponseWriter, r *http.Request) {
	timetable, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, timetable)
}

// Update handles PATCH /timetable/week/{id}
func (h *TimetableHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request domain.UpdateWeekTimetableRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	timetable, err := h.service.Update(r.Context(), mux.Vars(r)["id"], &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, timetable)
}

// Delete handles DELETE /timetable/week/{id}
func (h *TimetableHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"deleted": mux.Vars(r)["id"]})
}
