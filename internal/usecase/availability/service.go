package availability

import (
	"context"
	"fmt"

	"github.com/frontandrew/shuttlefleet/internal/domain"
	"github.com/frontandrew/shuttlefleet/internal/pkg/logger"
	"github.com/frontandrew/shuttlefleet/internal/repository"
	"github.com/google/uuid"
)

// VehicleSummary - данные машины и владельца для строки отчета.
// Чистый pass-through из реестра машин: движок доступности их не вычисляет
type VehicleSummary struct {
	ID              uuid.UUID                   `json:"id"`
	Make            string                      `json:"make,omitempty"`
	Model           string                      `json:"model,omitempty"`
	VehicleType     domain.VehicleType          `json:"vehicle_type"`
	LicensePlate    string                      `json:"license_plate"`
	SeatingCapacity int                         `json:"seating_capacity,omitempty"`
	YearManufacture int                         `json:"year_manufacture,omitempty"`
	OwnerName       string                      `json:"owner_name,omitempty"`
	OwnerPhone      string                      `json:"owner_phone,omitempty"`
	OwnerEmail      string                      `json:"owner_email,omitempty"`
	ReservationInfo []domain.ReservationOverlap `json:"reservation_info,omitempty"`
}

// FleetAvailability - результат запроса доступности по автопарку:
// машины без пересечений с интервалом и машины хотя бы с одним пересечением
type FleetAvailability struct {
	Available []VehicleSummary `json:"available"`
	Reserved  []VehicleSummary `json:"reserved"`
}

// VehicleCalendar - машина с картой ее зарезервированных дат (обзор автопарка)
type VehicleCalendar struct {
	VehicleSummary
	Dates map[domain.Date]domain.DateInfo `json:"dates"`
}

// Service отвечает на вопрос "какие машины автопарка свободны
// в заданном интервале дат, а какие заняты и когда именно"
type Service struct {
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	ledgerRepo  repository.LedgerRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр AvailabilityService
func NewService(
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	ledgerRepo repository.LedgerRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		vehicleRepo: vehicleRepo,
		userRepo:    userRepo,
		ledgerRepo:  ledgerRepo,
		logger:      logger,
	}
}

// QueryRange - КЛЮЧЕВОЙ МЕТОД поиска по доступности
// Разбивает автопарк на два списка по закрытому интервалу [start, end]:
// 1. Машина считается занятой, если ХОТЯ БЫ ОДНА запись ее журнала
//    пересекается с интервалом; пересечения отдаются по записям журнала,
//    даты внутри пересечения - по возрастанию
// 2. Машины идут в порядке автопарка; ни одна не попадает в оба списка
// 3. Битый журнал одной машины не роняет весь отчет: машина деградирует
//    до "доступна"
func (s *Service) QueryRange(ctx context.Context, start, end domain.Date) (*FleetAvailability, error) {
	if !start.IsValid() || !end.IsValid() {
		return nil, domain.ErrInvalidDate
	}
	if end.Before(start) {
		return nil, domain.ErrInvalidRange
	}

	s.logger.Info("Running fleet availability query", map[string]interface{}{
		"start": start.String(),
		"end":   end.String(),
	})

	vehicles, err := s.vehicleRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fleet: %w", err)
	}

	result := &FleetAvailability{
		Available: []VehicleSummary{},
		Reserved:  []VehicleSummary{},
	}

	for _, vehicle := range vehicles {
		summary := s.summarize(ctx, vehicle)

		overlaps := s.vehicleOverlaps(ctx, vehicle.ID, start, end)
		if len(overlaps) > 0 {
			summary.ReservationInfo = overlaps
			result.Reserved = append(result.Reserved, summary)
		} else {
			result.Available = append(result.Available, summary)
		}
	}

	s.logger.Info("Fleet availability query finished", map[string]interface{}{
		"fleet":     len(vehicles),
		"available": len(result.Available),
		"reserved":  len(result.Reserved),
	})

	return result, nil
}

// FleetOverview возвращает все машины автопарка с картами зарезервированных
// дат - источник данных для административного календаря
func (s *Service) FleetOverview(ctx context.Context) ([]VehicleCalendar, error) {
	vehicles, err := s.vehicleRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fleet: %w", err)
	}

	overview := make([]VehicleCalendar, 0, len(vehicles))
	for _, vehicle := range vehicles {
		ledger := s.loadLedgerOrEmpty(ctx, vehicle.ID)

		overview = append(overview, VehicleCalendar{
			VehicleSummary: s.summarize(ctx, vehicle),
			Dates:          ledger.DateIndex(),
		})
	}

	return overview, nil
}

// vehicleOverlaps возвращает пересечения журнала машины с интервалом
func (s *Service) vehicleOverlaps(ctx context.Context, vehicleID uuid.UUID, start, end domain.Date) []domain.ReservationOverlap {
	ledger := s.loadLedgerOrEmpty(ctx, vehicleID)
	return ledger.OverlapRange(start, end)
}

// loadLedgerOrEmpty читает журнал машины; любая проблема (ошибка хранилища,
// битый JSON) деградирует до пустого журнала и не прерывает отчет
func (s *Service) loadLedgerOrEmpty(ctx context.Context, vehicleID uuid.UUID) *domain.ReservationLedger {
	raw, _, err := s.ledgerRepo.Get(ctx, vehicleID)
	if err != nil {
		s.logger.Warn("Failed to load ledger, treating vehicle as available", map[string]interface{}{
			"vehicle_id": vehicleID,
			"error":      err.Error(),
		})
		return domain.NewLedger()
	}

	ledger, err := domain.ParseLedger(raw)
	if err != nil {
		s.logger.Warn("Malformed ledger, treating vehicle as available", map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		return domain.NewLedger()
	}

	return ledger
}

// summarize собирает строку отчета: атрибуты машины плюс контакты владельца.
// Недоступный владелец не роняет отчет - контактные поля остаются пустыми
func (s *Service) summarize(ctx context.Context, vehicle *domain.Vehicle) VehicleSummary {
	summary := VehicleSummary{
		ID:              vehicle.ID,
		Make:            vehicle.Make,
		Model:           vehicle.Model,
		VehicleType:     vehicle.VehicleType,
		LicensePlate:    vehicle.LicensePlate,
		SeatingCapacity: vehicle.SeatingCapacity,
		YearManufacture: vehicle.YearManufacture,
	}

	owner, err := s.userRepo.GetByID(ctx, vehicle.OwnerID)
	if err != nil {
		s.logger.Warn("Vehicle owner not found", map[string]interface{}{
			"vehicle_id": vehicle.ID,
			"owner_id":   vehicle.OwnerID,
		})
		return summary
	}

	summary.OwnerName = owner.FullName
	summary.OwnerPhone = owner.Phone
	summary.OwnerEmail = owner.Email

	return summary
}
