package vehicle

import (
	"context"
	"fmt"

	"github.com/frontandrew/shuttlefleet/internal/domain"
	"github.com/frontandrew/shuttlefleet/internal/pkg/logger"
	"github.com/frontandrew/shuttlefleet/internal/repository"
	"github.com/google/uuid"
)

// CreateVehicleRequest - запрос на регистрацию транспортного средства
type CreateVehicleRequest struct {
	OwnerID         uuid.UUID          `json:"owner_id" validate:"required"`
	Make            string             `json:"make,omitempty"`
	Model           string             `json:"model,omitempty"`
	VehicleType     domain.VehicleType `json:"vehicle_type" validate:"required"`
	LicensePlate    string             `json:"license_plate" validate:"required"`
	SeatingCapacity int                `json:"seating_capacity,omitempty"`
	YearManufacture int                `json:"year_manufacture,omitempty"`
	Features        []string           `json:"features,omitempty"`
}

// Service содержит бизнес-логику реестра транспортных средств
type Service struct {
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	ledgerRepo  repository.LedgerRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр VehicleService
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

// CreateVehicle регистрирует новое транспортное средство
// Вместе с машиной создается ее пустой журнал бронирований
func (s *Service) CreateVehicle(ctx context.Context, req *CreateVehicleRequest) (*domain.Vehicle, error) {
	s.logger.Info("Creating new vehicle", map[string]interface{}{
		"owner_id":      req.OwnerID,
		"license_plate": req.LicensePlate,
	})

	// Проверяем, что владелец существует и активен
	owner, err := s.userRepo.GetByID(ctx, req.OwnerID)
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get owner: %w", err)
	}

	if !owner.IsActive {
		return nil, domain.ErrUserInactive
	}

	// Проверяем, что машина с таким номером еще не зарегистрирована
	existingVehicle, err := s.vehicleRepo.GetByLicensePlate(ctx, req.LicensePlate)
	if err != nil && err != domain.ErrVehicleNotFound {
		return nil, fmt.Errorf("failed to check existing vehicle: %w", err)
	}

	if existingVehicle != nil {
		s.logger.Warn("Vehicle already exists", map[string]interface{}{
			"license_plate": req.LicensePlate,
		})
		return nil, domain.ErrVehicleAlreadyExists
	}

	vehicle := &domain.Vehicle{
		OwnerID:         req.OwnerID,
		Make:            req.Make,
		Model:           req.Model,
		VehicleType:     req.VehicleType,
		LicensePlate:    req.LicensePlate,
		SeatingCapacity: req.SeatingCapacity,
		YearManufacture: req.YearManufacture,
		Features:        req.Features,
		IsVerified:      false, // Верифицирует администратор
		IsActive:        true,
	}

	if err := vehicle.Validate(); err != nil {
		return nil, err
	}

	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		s.logger.Error("Failed to create vehicle", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	// Журнал бронирований создается пустым вместе с машиной
	emptyLedger, err := domain.NewLedger().Serialize()
	if err == nil {
		err = s.ledgerRepo.Save(ctx, vehicle.ID, emptyLedger, 0)
	}
	if err != nil {
		s.logger.Error("Failed to initialize vehicle ledger", map[string]interface{}{
			"vehicle_id": vehicle.ID,
			"error":      err.Error(),
		})
	}

	s.logger.Info("Vehicle created successfully", map[string]interface{}{
		"vehicle_id": vehicle.ID,
	})

	return vehicle, nil
}

// GetVehicleByID возвращает транспортное средство по ID
func (s *Service) GetVehicleByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	return s.vehicleRepo.GetByID(ctx, id)
}

// GetVehiclesByOwner возвращает все транспортные средства владельца
func (s *Service) GetVehiclesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.GetByOwnerID(ctx, ownerID)
}

// ListVehicles возвращает список машин автопарка с пагинацией (админка)
func (s *Service) ListVehicles(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	return s.vehicleRepo.List(ctx, limit, offset)
}

// VerifyVehicle отмечает машину как проверенную администратором
func (s *Service) VerifyVehicle(ctx context.Context, id uuid.UUID) error {
	if err := s.vehicleRepo.SetVerified(ctx, id, true); err != nil {
		return err
	}

	s.logger.Info("Vehicle verified", map[string]interface{}{
		"vehicle_id": id,
	})

	return nil
}

// DeleteVehicle удаляет транспортное средство (мягкое удаление)
// Журнал бронирований машины удаляется вместе с ней
func (s *Service) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.ledgerRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete vehicle ledger", map[string]interface{}{
			"vehicle_id": id,
			"error":      err.Error(),
		})
	}

	return nil
}
