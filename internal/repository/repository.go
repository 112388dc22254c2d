package repository

import (
	"context"

	"github.com/frontandrew/shuttlefleet/internal/domain"
	"github.com/google/uuid"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	// Create создает нового пользователя
	Create(ctx context.Context, user *domain.User) error

	// GetByID возвращает пользователя по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail возвращает пользователя по email
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update обновляет данные пользователя
	Update(ctx context.Context, user *domain.User) error

	// SetVerified отмечает профиль владельца как проверенный администратором
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error

	// Delete удаляет пользователя (мягкое удаление - is_active = false)
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает список пользователей с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)

	// UpdateLastLogin обновляет время последнего входа
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// VehicleRepository определяет методы для работы с транспортными средствами
type VehicleRepository interface {
	// Create создает новое транспортное средство
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID возвращает транспортное средство по ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)

	// GetByLicensePlate возвращает транспортное средство по номеру
	GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error)

	// GetByOwnerID возвращает все транспортные средства владельца
	GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error)

	// Update обновляет данные транспортного средства
	Update(ctx context.Context, vehicle *domain.Vehicle) error

	// SetVerified отмечает машину как проверенную администратором
	SetVerified(ctx context.Context, id uuid.UUID, verified bool) error

	// Delete удаляет транспортное средство (мягкое удаление - is_active = false)
	Delete(ctx context.Context, id uuid.UUID) error

	// List возвращает список транспортных средств с пагинацией
	List(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error)

	// ListActive возвращает весь активный автопарк в порядке регистрации.
	// КЛЮЧЕВОЙ МЕТОД для запроса доступности по автопарку
	ListActive(ctx context.Context) ([]*domain.Vehicle, error)
}

// LedgerRepository определяет методы для работы с журналом бронирований.
// Журнал хранится одним JSON-блобом на машину; каждая мутация - это
// полный цикл "прочитать, изменить, записать", поэтому запись защищена
// оптимистичным CAS по номеру версии (см. Save)
type LedgerRepository interface {
	// Get возвращает сырой JSON журнала и его текущую версию.
	// Для машины без журнала возвращает пустой raw и версию 0
	Get(ctx context.Context, vehicleID uuid.UUID) (raw []byte, version int64, err error)

	// Save записывает журнал поверх версии expectedVersion.
	// Если версия в хранилище уже другая, возвращает domain.ErrLedgerConflict
	// и ничего не меняет - вызывающий код перечитывает и повторяет
	Save(ctx context.Context, vehicleID uuid.UUID, raw []byte, expectedVersion int64) error

	// Delete удаляет журнал машины (вызывается при удалении машины)
	Delete(ctx context.Context, vehicleID uuid.UUID) error
}

// RefreshTokenRepository определяет методы для работы с refresh токенами
type RefreshTokenRepository interface {
	// Create сохраняет новый refresh token
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetByTokenHash возвращает refresh token по хешу
	GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)

	// Revoke отзывает refresh token
	Revoke(ctx context.Context, tokenHash string) error

	// RevokeAllUserTokens отзывает все токены пользователя
	RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error

	// DeleteExpired удаляет истекшие токены
	DeleteExpired(ctx context.Context) error
}
