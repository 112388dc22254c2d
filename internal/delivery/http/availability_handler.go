package http

import (
	"context"
	"net/http"

	"github.com/frontandrew/shuttlefleet/internal/domain"
	"github.com/frontandrew/shuttlefleet/internal/pkg/logger"
	"github.com/frontandrew/shuttlefleet/internal/usecase/availability"
)

// AvailabilityService определяет интерфейс для движка доступности автопарка
type AvailabilityService interface {
	QueryRange(ctx context.Context, start, end domain.Date) (*availability.FleetAvailability, error)
	FleetOverview(ctx context.Context) ([]availability.VehicleCalendar, error)
}

// AvailabilityHandler обрабатывает запросы поиска свободных машин
type AvailabilityHandler struct {
	availabilityService AvailabilityService
	logger              logger.Logger
}

// NewAvailabilityHandler создает новый handler
func NewAvailabilityHandler(availabilityService AvailabilityService, logger logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityService: availabilityService,
		logger:              logger,
	}
}

// Search разбивает автопарк на свободные и занятые машины по интервалу дат
// GET /api/v1/admin/availability?start=YYYY-MM-DD&end=YYYY-MM-DD (только админ)
func (h *AvailabilityHandler) Search(w http.ResponseWriter, r *http.Request) {
	start := domain.Date(r.URL.Query().Get("start"))
	end := domain.Date(r.URL.Query().Get("end"))

	if start == "" || end == "" {
		respondError(w, http.StatusBadRequest, "Query parameters 'start' and 'end' are required")
		return
	}

	result, err := h.availabilityService.QueryRange(r.Context(), start, end)
	if err != nil {
		switch err {
		case domain.ErrInvalidDate:
			respondError(w, http.StatusBadRequest, "Invalid date format, expected YYYY-MM-DD")
		case domain.ErrInvalidRange:
			respondError(w, http.StatusBadRequest, "Start date is after end date")
		default:
			h.logger.Error("Availability query failed", map[string]interface{}{
				"error": err.Error(),
			})
			respondError(w, http.StatusInternalServerError, "Availability query failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    result,
	})
}

// Overview возвращает все машины автопарка с картами зарезервированных дат
// GET /api/v1/admin/availability/overview (только админ)
func (h *AvailabilityHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.availabilityService.FleetOverview(r.Context())
	if err != nil {
		h.logger.Error("Fleet overview failed", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Fleet overview failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    overview,
	})
}
