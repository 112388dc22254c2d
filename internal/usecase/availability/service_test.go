package availability

import (
	"context"
	"errors"
	"testing"

	"github.com/frontandrew/shuttlefleet/internal/domain"
	"github.com/frontandrew/shuttlefleet/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockVehicleRepository - мок для vehicle repository
type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetByLicensePlate(ctx context.Context, licensePlate string) (*domain.Vehicle, error) {
	args := m.Called(ctx, licensePlate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	args := m.Called(ctx, id, verified)
	return args.Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockVehicleRepository) List(ctx context.Context, limit, offset int) ([]*domain.Vehicle, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) ListActive(ctx context.Context) ([]*domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Vehicle), args.Error(1)
}

// MockUserRepository - мок для user repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	args := m.Called(ctx, id, verified)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockLedgerRepository - мок для ledger repository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Get(ctx context.Context, vehicleID uuid.UUID) ([]byte, int64, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]byte), args.Get(1).(int64), args.Error(2)
}

func (m *MockLedgerRepository) Save(ctx context.Context, vehicleID uuid.UUID, raw []byte, expectedVersion int64) error {
	args := m.Called(ctx, vehicleID, raw, expectedVersion)
	return args.Error(0)
}

func (m *MockLedgerRepository) Delete(ctx context.Context, vehicleID uuid.UUID) error {
	args := m.Called(ctx, vehicleID)
	return args.Error(0)
}

type fixture struct {
	vehicleRepo *MockVehicleRepository
	userRepo    *MockUserRepository
	ledgerRepo  *MockLedgerRepository
	service     *Service
}

func newFixture() *fixture {
	f := &fixture{
		vehicleRepo: new(MockVehicleRepository),
		userRepo:    new(MockUserRepository),
		ledgerRepo:  new(MockLedgerRepository),
	}
	f.service = NewService(f.vehicleRepo, f.userRepo, f.ledgerRepo, logger.NewNoop())
	return f
}

func fleetVehicle(id, ownerID uuid.UUID, plate string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:           id,
		OwnerID:      ownerID,
		Model:        "Sprinter",
		VehicleType:  domain.VehicleTypeMinibus,
		LicensePlate: plate,
		IsActive:     true,
	}
}

func fleetOwner(id uuid.UUID) *domain.User {
	return &domain.User{
		ID:       id,
		Email:    "owner@example.com",
		FullName: "Fleet Owner",
		Phone:    "+971 50 000 0000",
		Role:     domain.RoleOwner,
		IsActive: true,
	}
}

// TestService_QueryRange проверяет разбиение автопарка на доступные
// и занятые машины по закрытому интервалу дат
func TestService_QueryRange(t *testing.T) {
	ownerID := uuid.New()
	freeID := uuid.New()
	busyID := uuid.New()
	corruptID := uuid.New()

	f := newFixture()

	f.vehicleRepo.On("ListActive", mock.Anything).Return([]*domain.Vehicle{
		fleetVehicle(freeID, ownerID, "FREE1"),
		fleetVehicle(busyID, ownerID, "BUSY1"),
		fleetVehicle(corruptID, ownerID, "CRPT1"),
	}, nil)
	f.userRepo.On("GetByID", mock.Anything, ownerID).Return(fleetOwner(ownerID), nil)

	// Журнал вне интервала - машина доступна
	f.ledgerRepo.On("Get", mock.Anything, freeID).
		Return([]byte(`[{"dates":["2026-08-01"],"note":"past trip"}]`), int64(1), nil)

	// Пересечение с интервалом - машина занята
	f.ledgerRepo.On("Get", mock.Anything, busyID).
		Return([]byte(`[{"dates":["2026-09-09","2026-09-11","2026-09-20"],"note":"tour"}]`), int64(1), nil)

	// Битый журнал - машина деградирует до "доступна", отчет не падает
	f.ledgerRepo.On("Get", mock.Anything, corruptID).
		Return([]byte(`{"not":"an array"}`), int64(1), nil)

	result, err := f.service.QueryRange(context.Background(), "2026-09-10", "2026-09-12")

	assert.NoError(t, err)

	// Разбиение полное и без пересечений, порядок автопарка сохранен
	assert.Len(t, result.Available, 2)
	assert.Len(t, result.Reserved, 1)
	assert.Equal(t, freeID, result.Available[0].ID)
	assert.Equal(t, corruptID, result.Available[1].ID)
	assert.Equal(t, busyID, result.Reserved[0].ID)

	// В reservation_info только даты из интервала, по возрастанию
	busy := result.Reserved[0]
	assert.Len(t, busy.ReservationInfo, 1)
	assert.Equal(t, []domain.Date{"2026-09-11"}, busy.ReservationInfo[0].Dates)
	assert.Equal(t, "tour", busy.ReservationInfo[0].Note)

	// Контакты владельца - pass-through из реестра
	assert.Equal(t, "Fleet Owner", busy.OwnerName)
	assert.Equal(t, "+971 50 000 0000", busy.OwnerPhone)
}

// TestService_QueryRange_SingleDay проверяет, что границы интервала
// включительные: запрос одного дня ловит бронь ровно на этот день
func TestService_QueryRange_SingleDay(t *testing.T) {
	ownerID := uuid.New()
	vehicleID := uuid.New()

	f := newFixture()

	f.vehicleRepo.On("ListActive", mock.Anything).Return([]*domain.Vehicle{
		fleetVehicle(vehicleID, ownerID, "DAY01"),
	}, nil)
	f.userRepo.On("GetByID", mock.Anything, ownerID).Return(fleetOwner(ownerID), nil)
	f.ledgerRepo.On("Get", mock.Anything, vehicleID).
		Return([]byte(`[{"dates":["2026-09-10"],"note":""}]`), int64(1), nil)

	result, err := f.service.QueryRange(context.Background(), "2026-09-10", "2026-09-10")

	assert.NoError(t, err)
	assert.Empty(t, result.Available)
	assert.Len(t, result.Reserved, 1)
}

// TestService_QueryRange_MultipleEntries проверяет, что пересечения
// отдаются по записям журнала, без склейки между записями
func TestService_QueryRange_MultipleEntries(t *testing.T) {
	ownerID := uuid.New()
	vehicleID := uuid.New()

	f := newFixture()

	f.vehicleRepo.On("ListActive", mock.Anything).Return([]*domain.Vehicle{
		fleetVehicle(vehicleID, ownerID, "MULTI"),
	}, nil)
	f.userRepo.On("GetByID", mock.Anything, ownerID).Return(fleetOwner(ownerID), nil)
	raw := `[
		{"dates":["2026-09-10","2026-09-11"],"note":"wedding"},
		{"dates":["2026-09-25"],"note":"outside"},
		{"dates":["2026-09-12"],"note":"airport"}
	]`
	f.ledgerRepo.On("Get", mock.Anything, vehicleID).Return([]byte(raw), int64(1), nil)

	result, err := f.service.QueryRange(context.Background(), "2026-09-10", "2026-09-14")

	assert.NoError(t, err)
	assert.Len(t, result.Reserved, 1)

	info := result.Reserved[0].ReservationInfo
	assert.Len(t, info, 2)
	assert.Equal(t, []domain.Date{"2026-09-10", "2026-09-11"}, info[0].Dates)
	assert.Equal(t, "wedding", info[0].Note)
	assert.Equal(t, []domain.Date{"2026-09-12"}, info[1].Dates)
	assert.Equal(t, "airport", info[1].Note)
}

// TestService_QueryRange_Validation проверяет отклонение невалидных интервалов
func TestService_QueryRange_Validation(t *testing.T) {
	tests := []struct {
		name        string
		start       domain.Date
		end         domain.Date
		expectedErr error
	}{
		{
			name:        "начало позже конца",
			start:       "2026-09-20",
			end:         "2026-09-10",
			expectedErr: domain.ErrInvalidRange,
		},
		{
			name:        "невалидная дата начала",
			start:       "20.09.2026",
			end:         "2026-09-25",
			expectedErr: domain.ErrInvalidDate,
		},
		{
			name:        "невалидная дата конца",
			start:       "2026-09-20",
			end:         "not-a-date",
			expectedErr: domain.ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			_, err := f.service.QueryRange(context.Background(), tt.start, tt.end)

			assert.ErrorIs(t, err, tt.expectedErr)
			f.vehicleRepo.AssertNotCalled(t, "ListActive", mock.Anything)
		})
	}
}

// TestService_QueryRange_EmptyFleet проверяет ответ на пустом автопарке
func TestService_QueryRange_EmptyFleet(t *testing.T) {
	f := newFixture()

	f.vehicleRepo.On("ListActive", mock.Anything).Return([]*domain.Vehicle{}, nil)

	result, err := f.service.QueryRange(context.Background(), "2026-09-10", "2026-09-12")

	assert.NoError(t, err)
	// Оба списка присутствуют, даже когда пустые
	assert.NotNil(t, result.Available)
	assert.NotNil(t, result.Reserved)
	assert.Empty(t, result.Available)
	assert.Empty(t, result.Reserved)
}

// TestService_QueryRange_OwnerLookupFails проверяет, что недоступный
// владелец не роняет отчет: контактные поля остаются пустыми
func TestService_QueryRange_OwnerLookupFails(t *testing.T) {
	ownerID := uuid.New()
	vehicleID := uuid.New()

	f := newFixture()

	f.vehicleRepo.On("ListActive", mock.Anything).Return([]*domain.Vehicle{
		fleetVehicle(vehicleID, ownerID, "ORPHN"),
	}, nil)
	f.userRepo.On("GetByID", mock.Anything, ownerID).Return(nil, domain.ErrUserNotFound)
	f.ledgerRepo.On("Get", mock.Anything, vehicleID).Return([]byte("[]"), int64(0), nil)

	result, err := f.service.QueryRange(context.Background(), "2026-09-10", "2026-09-12")

	assert.NoError(t, err)
	assert.Len(t, result.Available, 1)
	assert.Empty(t, result.Available[0].OwnerName)
	assert.Empty(t, result.Available[0].OwnerPhone)
}

// TestService_QueryRange_StorageError проверяет, что ошибка чтения журнала
// одной машины деградирует ее до "доступна", а не роняет запрос
func TestService_QueryRange_StorageError(t *testing.T) {
	ownerID := uuid.New()
	vehicleID := uuid.New()

	f := newFixture()

	f.vehicleRepo.On("ListActive", mock.Anything).Return([]*domain.Vehicle{
		fleetVehicle(vehicleID, ownerID, "ERR01"),
	}, nil)
	f.userRepo.On("GetByID", mock.Anything, ownerID).Return(fleetOwner(ownerID), nil)
	f.ledgerRepo.On("Get", mock.Anything, vehicleID).
		Return([]byte(nil), int64(0), errors.New("connection reset"))

	result, err := f.service.QueryRange(context.Background(), "2026-09-10", "2026-09-12")

	assert.NoError(t, err)
	assert.Len(t, result.Available, 1)
}

// TestService_FleetOverview проверяет обзор автопарка с картами дат
func TestService_FleetOverview(t *testing.T) {
	ownerID := uuid.New()
	firstID := uuid.New()
	secondID := uuid.New()

	f := newFixture()

	f.vehicleRepo.On("ListActive", mock.Anything).Return([]*domain.Vehicle{
		fleetVehicle(firstID, ownerID, "OVRV1"),
		fleetVehicle(secondID, ownerID, "OVRV2"),
	}, nil)
	f.userRepo.On("GetByID", mock.Anything, ownerID).Return(fleetOwner(ownerID), nil)

	f.ledgerRepo.On("Get", mock.Anything, firstID).
		Return([]byte(`[{"dates":["2026-09-10","2026-09-11"],"note":"tour"}]`), int64(1), nil)
	f.ledgerRepo.On("Get", mock.Anything, secondID).
		Return([]byte("[]"), int64(0), nil)

	overview, err := f.service.FleetOverview(context.Background())

	assert.NoError(t, err)
	assert.Len(t, overview, 2)

	assert.Equal(t, firstID, overview[0].ID)
	assert.Len(t, overview[0].Dates, 2)
	assert.Equal(t, "tour", overview[0].Dates["2026-09-10"].Note)

	assert.Equal(t, secondID, overview[1].ID)
	assert.Empty(t, overview[1].Dates)
}
