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

type FeeHandler struct {
	service   *service.FeeService
	validator *validator.Validate
}

func NewFeeHandler(service *service.FeeService) *FeeHandler {
	return &FeeHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Create handles POST /fees
func (h *FeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var request domain.CreateFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	fee, err := h.service.Create(r.Context(), &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, fee)
}

// List handles GET /fees
func (h *FeeHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.FeeFilter{
		StudentID: r.URL.Query().Get("student_id"),
		Session:   r.URL.Query().Get("session"),
		Term:      r.URL.Query().Get("term"),
		Status:    r.URL.Query().Get("status"),
	}

	fees, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fees)
}

// Get handles GET /fees/{id}
func (h *FeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	fee, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fee)
}

// RecordInstallment handles PATCH /fees/{id}/installment
func (h *FeeHandler) RecordInstallment(w http.ResponseWriter, r *http.Request) {
	var request domain.RecordInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	fee, err := h.service.RecordInstallment(r.Context(), mux.Vars(r)["id"], &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fee)
}

// Update handles PATCH /fees/{id}
func (h *FeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	var request domain.UpdateFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	fee, err := h.service.Update(r.Context(), mux.Vars(r)["id"], &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, fee)
}

// Delete handles DELETE /fees/{id}
func (h *FeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"deleted": mux.Vars(r)["id"]})
}

// Sweep handles POST /internal/fees/sweep
func (h *FeeHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	updated, err := h.service.SweepOverdue(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]int64{"updated": updated})
}
