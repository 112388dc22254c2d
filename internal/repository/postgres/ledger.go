package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/frontandrew/shuttlefleet/internal/domain"
	"github.com/frontandrew/shuttlefleet/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ledgerRepository - PostgreSQL реализация LedgerRepository
// Таблица vehicle_ledgers: одна строка на машину, журнал целиком в колонке
// data (JSONB), version растет на единицу при каждой успешной записи
type ledgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository создает новый экземпляр ledgerRepository
func NewLedgerRepository(db *pgxpool.Pool) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Get(ctx context.Context, vehicleID uuid.UUID) ([]byte, int64, error) {
	query := `
		SELECT data, version
		FROM vehicle_ledgers
		WHERE vehicle_id = $1
	`

	var raw []byte
	var version int64
	err := r.db.QueryRow(ctx, query, vehicleID).Scan(&raw, &version)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Журнал создается пустым вместе с машиной; отсутствие строки
			// равнозначно пустому журналу с версией 0
			return nil, 0, nil
		}
		return nil, 0, err
	}

	return raw, version, nil
}

func (r *ledgerRepository) Save(ctx context.Context, vehicleID uuid.UUID, raw []byte, expectedVersion int64) error {
	// Оптимистичный CAS: запись проходит только поверх той версии,
	// которую видел читатель. Конкурентная запись дает 0 строк
	query := `
		INSERT INTO vehicle_ledgers (vehicle_id, data, version, updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (vehicle_id) DO UPDATE
		SET data = EXCLUDED.data,
		    version = vehicle_ledgers.version + 1,
		    updated_at = EXCLUDED.updated_at
		WHERE vehicle_ledgers.version = $4
	`

	result, err := r.db.Exec(ctx, query, vehicleID, raw, time.Now(), expectedVersion)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrLedgerConflict
	}

	return nil
}

func (r *ledgerRepository) Delete(ctx context.Context, vehicleID uuid.UUID) error {
	query := `
		DELETE FROM vehicle_ledgers
		WHERE vehicle_id = $1
	`

	_, err := r.db.Exec(ctx, query, vehicleID)
	return err
}
