package reservation

import (
	"context"
	"fmt"

	"github.com/frontandrew/shuttlefleet/internal/domain"
	"github.com/frontandrew/shuttlefleet/internal/pkg/logger"
	"github.com/frontandrew/shuttlefleet/internal/repository"
	"github.com/google/uuid"
)

// AddReservationRequest - запрос на добавление брони
type AddReservationRequest struct {
	Dates []domain.Date `json:"dates" validate:"required"`
	Note  string        `json:"note,omitempty"`
}

// RemoveDatesRequest - запрос на снятие брони с дат
type RemoveDatesRequest struct {
	Dates []domain.Date `json:"dates" validate:"required"`
}

// Service содержит бизнес-логику журнала бронирований одной машины.
// Каждая мутация - это полный цикл "прочитать журнал, изменить, записать";
// от потерянных обновлений защищает CAS по версии в LedgerRepository.
// Авторизация (актор владеет машиной или администратор) выполняется
// вызывающим слоем; сервис принимает актора явным параметром
type Service struct {
	ledgerRepo  repository.LedgerRepository
	vehicleRepo repository.VehicleRepository
	logger      logger.Logger
}

// NewService создает новый экземпляр ReservationService
func NewService(
	ledgerRepo repository.LedgerRepository,
	vehicleRepo repository.VehicleRepository,
	logger logger.Logger,
) *Service {
	return &Service{
		ledgerRepo:  ledgerRepo,
		vehicleRepo: vehicleRepo,
		logger:      logger,
	}
}

// AddReservation добавляет запись бронирования в журнал машины и возвращает
// ее индекс. Пересечение с существующими записями НЕ отклоняется: брони -
// независимые записи журнала, а не взаимоисключающий календарь
func (s *Service) AddReservation(ctx context.Context, vehicleID, actorID uuid.UUID, dates []domain.Date, note string) (int, error) {
	s.logger.Info("Adding reservation", map[string]interface{}{
		"vehicle_id": vehicleID,
		"actor_id":   actorID,
		"dates":      len(dates),
	})

	var entryID int

	err := s.mutateLedger(ctx, vehicleID, func(ledger *domain.ReservationLedger) error {
		idx, err := ledger.Add(dates, note)
		if err != nil {
			return err
		}
		entryID = idx
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Reservation added", map[string]interface{}{
		"vehicle_id": vehicleID,
		"entry_id":   entryID,
	})

	return entryID, nil
}

// RemoveDates снимает бронь с указанных дат во всех записях журнала.
// Записи, оставшиеся без дат, вычищаются. Операция идемпотентна
func (s *Service) RemoveDates(ctx context.Context, vehicleID, actorID uuid.UUID, dates []domain.Date) error {
	if len(dates) == 0 {
		return domain.ErrEmptyDateSet
	}

	s.logger.Info("Removing reserved dates", map[string]interface{}{
		"vehicle_id": vehicleID,
		"actor_id":   actorID,
		"dates":      len(dates),
	})

	return s.mutateLedger(ctx, vehicleID, func(ledger *domain.ReservationLedger) error {
		ledger.RemoveDates(dates)
		return nil
	})
}

// GetLedger возвращает журнал бронирований машины.
// Нечитаемый сохраненный JSON деградирует до пустого журнала -
// одна битая запись в хранилище не должна ломать чтение календаря
func (s *Service) GetLedger(ctx context.Context, vehicleID uuid.UUID) (*domain.ReservationLedger, error) {
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	ledger, _, err := s.loadLedger(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	return ledger, nil
}

// GetCalendar возвращает производный индекс "дата -> {заметка, запись}"
// для календаря владельца. При дубликатах дат побеждает более поздняя запись
func (s *Service) GetCalendar(ctx context.Context, vehicleID uuid.UUID) (map[domain.Date]domain.DateInfo, error) {
	ledger, err := s.GetLedger(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	return ledger.DateIndex(), nil
}

// mutateLedger выполняет цикл "прочитать, изменить, записать" поверх CAS.
// Проигранную гонку повторяем один раз поверх свежего чтения; вторая
// неудача отдается вызывающему как domain.ErrLedgerConflict
func (s *Service) mutateLedger(ctx context.Context, vehicleID uuid.UUID, mutate func(*domain.ReservationLedger) error) error {
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return err
	}

	const attempts = 2

	for attempt := 1; ; attempt++ {
		ledger, version, err := s.loadLedger(ctx, vehicleID)
		if err != nil {
			return err
		}

		if err := mutate(ledger); err != nil {
			return err
		}

		raw, err := ledger.Serialize()
		if err != nil {
			return fmt.Errorf("failed to serialize ledger: %w", err)
		}

		err = s.ledgerRepo.Save(ctx, vehicleID, raw, version)
		if err == nil {
			return nil
		}

		if err != domain.ErrLedgerConflict || attempt == attempts {
			if err == domain.ErrLedgerConflict {
				s.logger.Warn("Ledger write conflict", map[string]interface{}{
					"vehicle_id": vehicleID,
					"attempts":   attempt,
				})
				return err
			}
			return fmt.Errorf("failed to store ledger: %w", err)
		}
	}
}

// loadLedger читает и разбирает журнал; битый JSON подменяется пустым журналом
func (s *Service) loadLedger(ctx context.Context, vehicleID uuid.UUID) (*domain.ReservationLedger, int64, error) {
	raw, version, err := s.ledgerRepo.Get(ctx, vehicleID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load ledger: %w", err)
	}

	ledger, err := domain.ParseLedger(raw)
	if err != nil {
		s.logger.Warn("Malformed ledger in storage, treating as empty", map[string]interface{}{
			"vehicle_id": vehicleID,
		})
		return domain.NewLedger(), version, nil
	}

	return ledger, version, nil
}
