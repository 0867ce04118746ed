package handler

import (
	"encoding/json"
	"net/http"

	"discount-api/internal/auth"
	"discount-api/internal/model"
	"discount-api/internal/service"
	"discount-api/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// DiscountHandler handles discount-related HTTP requests.
type DiscountHandler struct {
	service   service.DiscountService
	validator *validation.Validator
	logger    zerolog.Logger
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(service service.DiscountService, validator *validation.Validator, logger zerolog.Logger) *DiscountHandler {
	return &DiscountHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("handler", "discount").Logger(),
	}
}

// List handles GET /discount: the caller's own venue's discounts.
func (h *DiscountHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.From(r.Context())
	if !ok {
		writeServiceError(w, model.ErrNotVenueMember, h.logger)
		return
	}

	discounts, err := h.service.ListOwned(r.Context(), ident)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, discounts)
}

// ListByVenue handles GET /discount/venue/{venueId}: public read of any
// venue's discounts.
func (h *DiscountHandler) ListByVenue(w http.ResponseWriter, r *http.Request) {
	venueID := chi.URLParam(r, "venueId")

	discounts, err := h.service.ListByVenue(r.Context(), venueID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, discounts)
}

// ListAll handles GET /venue: the full-scan listing for the profile
// consumer context.
func (h *DiscountHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	discounts, err := h.service.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, discounts)
}

// Create handles POST /discount.
func (h *DiscountHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.From(r.Context())
	if !ok {
		writeServiceError(w, model.ErrNotVenueMember, h.logger)
		return
	}

	req, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}

	discount, err := h.service.Create(r.Context(), ident, req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, discount)
}

// Update handles PUT /discount/{id}.
func (h *DiscountHandler) Update(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.From(r.Context())
	if !ok {
		writeServiceError(w, model.ErrNotVenueMember, h.logger)
		return
	}

	req, ok := h.decodeAndValidate(w, r)
	if !ok {
		return
	}

	discount, err := h.service.Update(r.Context(), ident, chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeSuccess(w, discount)
}

// Delete handles DELETE /discount/{id}.
func (h *DiscountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ident, ok := auth.From(r.Context())
	if !ok {
		writeServiceError(w, model.ErrNotVenueMember, h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), ident, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.Response{Code: 200, Message: "success"})
}

// HealthCheck handles GET /health-check, echoing the request headers.
func (h *DiscountHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.HealthResponse{
		Code:    200,
		Message: "success",
		Headers: r.Header,
	})
}

// decodeAndValidate reads the submitted discount body and runs field
// validation, writing the 400 response itself on failure.
func (h *DiscountHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request) (*model.DiscountRequest, bool) {
	var req model.DiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("malformed request body")
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Code: 400, Message: "invalid request body"})
		return nil, false
	}

	if fieldErrors := h.validator.Check(&req); len(fieldErrors) > 0 {
		writeJSON(w, http.StatusBadRequest, model.ValidationResponse{
			Code:    400,
			Message: "validation error",
			Errors:  fieldErrors,
		})
		return nil, false
	}

	return &req, true
}
