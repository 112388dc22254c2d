package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// VehicleType представляет тип транспортного средства автопарка
type VehicleType string

const (
	VehicleTypeSedan   VehicleType = "sedan"
	VehicleTypeVan     VehicleType = "van"
	VehicleTypeMinibus VehicleType = "minibus"
	VehicleTypeBus     VehicleType = "bus"
	VehicleTypeCoach   VehicleType = "coach"
	VehicleTypeOther   VehicleType = "other"
)

// Vehicle - транспортное средство владельца
// Машина ОБЯЗАТЕЛЬНО привязана к владельцу (OwnerID NOT NULL);
// журнал бронирований ведется 1:1 на машину (vehicle_ledgers)
type Vehicle struct {
	ID              uuid.UUID   `json:"id"`
	OwnerID         uuid.UUID   `json:"owner_id"` // ОБЯЗАТЕЛЬНАЯ связь с User
	Make            string      `json:"make,omitempty"`
	Model           string      `json:"model,omitempty"`
	VehicleType     VehicleType `json:"vehicle_type"`
	LicensePlate    string      `json:"license_plate"` // Номер машины (уникальный)
	SeatingCapacity int         `json:"seating_capacity,omitempty"`
	YearManufacture int         `json:"year_manufacture,omitempty"`
	Features        []string    `json:"features,omitempty"` // Коды из справочника catalog
	IsVerified      bool        `json:"is_verified"`        // Машина проверена администратором
	IsActive        bool        `json:"is_active"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// Связанные данные (не хранятся в БД, заполняются при необходимости)
	Owner *User `json:"owner,omitempty"`
}

// NormalizeLicensePlate нормализует номер машины (убирает пробелы, приводит к верхнему регистру)
func NormalizeLicensePlate(plate string) string {
	return strings.ToUpper(strings.ReplaceAll(plate, " ", ""))
}

// Validate проверяет корректность данных транспортного средства
func (v *Vehicle) Validate() error {
	if v.OwnerID == uuid.Nil {
		return ErrInvalidVehicleData
	}
	if v.LicensePlate == "" {
		return ErrInvalidLicensePlate
	}

	v.LicensePlate = NormalizeLicensePlate(v.LicensePlate)

	if len(v.LicensePlate) < 5 || len(v.LicensePlate) > 20 {
		return ErrInvalidLicensePlate
	}

	switch v.VehicleType {
	case VehicleTypeSedan, VehicleTypeVan, VehicleTypeMinibus, VehicleTypeBus, VehicleTypeCoach, VehicleTypeOther:
	default:
		return ErrInvalidVehicleData
	}

	if v.SeatingCapacity < 0 {
		return ErrInvalidVehicleData
	}

	return nil
}
