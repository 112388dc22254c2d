package cached

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frontandrew/shuttlefleet/internal/pkg/redis"
	"github.com/frontandrew/shuttlefleet/internal/repository"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
)

const (
	ledgerCachePrefix = "ledger:"
	ledgerCacheTTL    = 10 * time.Minute
)

// LedgerRepository добавляет кэширование к ledger repository
// Чтение журнала - горячий путь (календарь владельца и запрос доступности
// по всему автопарку), запись - редкая. Кэшируем сырой JSON вместе с версией,
// инвалидируем при каждой записи
type LedgerRepository struct {
	repo  repository.LedgerRepository
	cache *redis.Client
}

// NewLedgerRepository создает новый кэшируемый ledger repository
func NewLedgerRepository(repo repository.LedgerRepository, cache *redis.Client) *LedgerRepository {
	return &LedgerRepository{
		repo:  repo,
		cache: cache,
	}
}

// Get возвращает журнал машины (с кэшированием)
func (r *LedgerRepository) Get(ctx context.Context, vehicleID uuid.UUID) ([]byte, int64, error) {
	cacheKey := ledgerCachePrefix + vehicleID.String()

	// 1. Проверяем кэш: значение хранится как "<version>:<raw json>"
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		if version, raw, ok := decodeCached(cached); ok {
			return raw, version, nil
		}
		// Нечитаемое значение в кэше - выбрасываем и идем в БД
		_ = r.cache.Del(ctx, cacheKey)
	} else if err != redisv9.Nil {
		// Ошибка кэша не фатальна - продолжаем работу с БД
	}

	// 2. Cache miss - идем в БД
	raw, version, err := r.repo.Get(ctx, vehicleID)
	if err != nil {
		return nil, 0, err
	}

	// 3. Сохраняем результат в кэш (ошибку записи игнорируем)
	_ = r.cache.Set(ctx, cacheKey, encodeCached(version, raw), ledgerCacheTTL)

	return raw, version, nil
}

// Save записывает журнал поверх ожидаемой версии и инвалидирует кэш
func (r *LedgerRepository) Save(ctx context.Context, vehicleID uuid.UUID, raw []byte, expectedVersion int64) error {
	if err := r.repo.Save(ctx, vehicleID, raw, expectedVersion); err != nil {
		return err
	}

	_ = r.cache.Del(ctx, ledgerCachePrefix+vehicleID.String())

	return nil
}

// Delete удаляет журнал машины и его кэш
func (r *LedgerRepository) Delete(ctx context.Context, vehicleID uuid.UUID) error {
	if err := r.repo.Delete(ctx, vehicleID); err != nil {
		return err
	}

	_ = r.cache.Del(ctx, ledgerCachePrefix+vehicleID.String())

	return nil
}

func encodeCached(version int64, raw []byte) string {
	return fmt.Sprintf("%d:%s", version, raw)
}

func decodeCached(value string) (int64, []byte, bool) {
	prefix, rest, found := strings.Cut(value, ":")
	if !found {
		return 0, nil, false
	}

	version, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return 0, nil, false
	}

	return version, []byte(rest), true
}
