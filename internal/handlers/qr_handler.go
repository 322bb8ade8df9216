package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cmtracker/backend/internal/services"
)

type QRHandler struct {
	service   *services.QRService
	validator *services.ValidationHelper
}

func NewQRHandler(service *services.QRService) *QRHandler {
	return &QRHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// GenerateQR generates a QR tag for a car record
// @Summary Generate car record QR tag
// @Description Generate a scannable QR tag referencing the car record
// @Tags QR
// @Produce json
// @Param id path int true "Car ID"
// @Success 200 {object} object{qrData=string,qrImage=string}
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /cars/{id}/qr [get]
func (h *QRHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		services.SendErrorResponse(w, "Invalid car id", http.StatusBadRequest, nil)
		return
	}

	qrData, qrImage, err := h.service.GenerateCarQR(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			services.SendErrorResponse(w, "Car not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[QR] Failed to generate QR for car %d: %v", id, err)
		services.SendErrorResponse(w, "Failed to generate QR code", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"qrData":  qrData,
		"qrImage": qrImage,
	})
}

// ResolveQR resolves a scanned QR tag to the current car record
// @Summary Resolve car record QR tag
// @Description Resolve a scanned QR payload to the live car record
// @Tags QR
// @Accept json
// @Produce json
// @Param request body object{qrData=string} true "QR resolve request"
// @Success 200 {object} models.Car
// @Failure 400 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /cars/qr/resolve [post]
func (h *QRHandler) ResolveQR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QRData string `json:"qrData" validate:"required"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	car, err := h.service.ResolveCarQR(r.Context(), req.QRData)
	if err != nil {
		if errors.Is(err, services.ErrInvalidQR) {
			services.SendErrorResponse(w, "Invalid or unreadable QR code", http.StatusBadRequest, nil)
			return
		}
		if errors.Is(err, sql.ErrNoRows) {
			services.SendErrorResponse(w, "Car not found", http.StatusNotFound, nil)
			return
		}
		log.Printf("[QR] Failed to resolve QR payload: %v", err)
		services.SendErrorResponse(w, "Failed to resolve QR code", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(car)
}
