package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frontandrew/shuttlefleet/internal/delivery/http/middleware"
	"github.com/frontandrew/shuttlefleet/internal/domain"
	"github.com/frontandrew/shuttlefleet/internal/pkg/logger"
	"github.com/google/uuid"
)

// ReservationService определяет интерфейс для сервиса журнала бронирований
type ReservationService interface {
	AddReservation(ctx context.Context, vehicleID, actorID uuid.UUID, dates []domain.Date, note string) (int, error)
	RemoveDates(ctx context.Context, vehicleID, actorID uuid.UUID, dates []domain.Date) error
	GetLedger(ctx context.Context, vehicleID uuid.UUID) (*domain.ReservationLedger, error)
	GetCalendar(ctx context.Context, vehicleID uuid.UUID) (map[domain.Date]domain.DateInfo, error)
}

// AddReservationRequest - тело запроса на добавление брони.
// Даты задаются либо явным списком, либо интервалом [start, end]
type AddReservationRequest struct {
	Dates []domain.Date `json:"dates,omitempty"`
	Start domain.Date   `json:"start,omitempty"`
	End   domain.Date   `json:"end,omitempty"`
	Note  string        `json:"note,omitempty"`
}

// RemoveDatesRequest - тело запроса на снятие брони с дат
type RemoveDatesRequest struct {
	Dates []domain.Date `json:"dates"`
}

// ReservationHandler обрабатывает запросы календаря бронирований машины
type ReservationHandler struct {
	reservationService ReservationService
	vehicleService     VehicleService
	logger             logger.Logger
}

// NewReservationHandler создает новый handler
func NewReservationHandler(
	reservationService ReservationService,
	vehicleService VehicleService,
	logger logger.Logger,
) *ReservationHandler {
	return &ReservationHandler{
		reservationService: reservationService,
		vehicleService:     vehicleService,
		logger:             logger,
	}
}

// GetLedger возвращает журнал бронирований машины
// GET /api/v1/vehicles/{id}/reservations
func (h *ReservationHandler) GetLedger(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := h.authorizeVehicleAccess(w, r)
	if !ok {
		return
	}

	ledger, err := h.reservationService.GetLedger(r.Context(), vehicleID)
	if err != nil {
		h.respondReservationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    ledger.Entries,
	})
}

// GetCalendar возвращает карту "дата -> заметка" для календаря владельца
// GET /api/v1/vehicles/{id}/calendar
func (h *ReservationHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := h.authorizeVehicleAccess(w, r)
	if !ok {
		return
	}

	calendar, err := h.reservationService.GetCalendar(r.Context(), vehicleID)
	if err != nil {
		h.respondReservationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    calendar,
	})
}

// AddReservation добавляет запись бронирования в журнал машины
// POST /api/v1/vehicles/{id}/reservations
func (h *ReservationHandler) AddReservation(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := h.authorizeVehicleAccess(w, r)
	if !ok {
		return
	}

	var req AddReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	dates := req.Dates
	if len(dates) == 0 && req.Start != "" {
		// Режим интервала: разворачиваем [start, end] в список дат
		end := req.End
		if end == "" {
			end = req.Start
		}
		if !req.Start.IsValid() || !end.IsValid() {
			respondError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		if end.Before(req.Start) {
			respondError(w, http.StatusBadRequest, "Start date is after end date")
			return
		}
		dates = domain.DatesBetween(req.Start, end)
	}

	claims, _ := middleware.GetUserClaims(r.Context())

	entryID, err := h.reservationService.AddReservation(r.Context(), vehicleID, claims.UserID, dates, req.Note)
	if err != nil {
		h.respondReservationError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"entry_id": entryID,
		},
	})
}

// RemoveDates снимает бронь с указанных дат
// POST /api/v1/vehicles/{id}/reservations/remove-dates
func (h *ReservationHandler) RemoveDates(w http.ResponseWriter, r *http.Request) {
	vehicleID, ok := h.authorizeVehicleAccess(w, r)
	if !ok {
		return
	}

	var req RemoveDatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	claims, _ := middleware.GetUserClaims(r.Context())

	if err := h.reservationService.RemoveDates(r.Context(), vehicleID, claims.UserID, req.Dates); err != nil {
		h.respondReservationError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Dates released",
	})
}

// authorizeVehicleAccess проверяет, что актор - владелец машины или админ.
// Пишет ответ сам и возвращает ok=false, если доступ запрещен
func (h *ReservationHandler) authorizeVehicleAccess(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	vehicleID, err := uuid.Parse(getPathParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid vehicle ID")
		return uuid.Nil, false
	}

	claims, ok := middleware.GetUserClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}

	v, err := h.vehicleService.GetVehicleByID(r.Context(), vehicleID)
	if err != nil {
		if err == domain.ErrVehicleNotFound {
			respondError(w, http.StatusNotFound, "Vehicle not found")
			return uuid.Nil, false
		}
		h.logger.Error("Failed to get vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to get vehicle")
		return uuid.Nil, false
	}

	if v.OwnerID != claims.UserID && claims.Role != domain.RoleAdmin {
		respondError(w, http.StatusForbidden, "Insufficient permissions")
		return uuid.Nil, false
	}

	return vehicleID, true
}

// respondReservationError маппит доменные ошибки журнала на HTTP статусы
func (h *ReservationHandler) respondReservationError(w http.ResponseWriter, err error) {
	switch err {
	case domain.ErrVehicleNotFound:
		respondError(w, http.StatusNotFound, "Vehicle not found")
	case domain.ErrEmptyDateSet:
		respondError(w, http.StatusBadRequest, "At least one date is required")
	case domain.ErrInvalidDate:
		respondError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
	case domain.ErrLedgerConflict:
		respondError(w, http.StatusConflict, "Calendar was modified concurrently, please retry")
	default:
		h.logger.Error("Reservation operation failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Reservation operation failed")
	}
}
