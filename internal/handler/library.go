package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/adeyemio/schoolbase/internal/domain"
	"github.com/adeyemio/schoolbase/internal/service"
	"github.com/adeyemio/schoolbase/pkg/response"
)

type LibraryHandler struct {
	service   *service.LibraryService
	validator *validator.Validate
}

func NewLibraryHandler(service *service.LibraryService) *LibraryHandler {
	return &LibraryHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /library
func (h *LibraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	book, err := h.service.Create(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, book)
}

// List handles GET /library
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, books)
}

// Get handles GET /library/{id}
func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, book)
}

// Update handles PATCH /library/{id}
func (h *LibraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request domain.UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	book, err := h.service.Update(r.Context(), mux.Vars(r)["id"], &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, book)
}

// Delete handles DELETE /library/{id}
func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"deleted": mux.Vars(r)["id"]})
}
