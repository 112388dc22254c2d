package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidRole        = errors.New("invalid user role")
	ErrUserInactive       = errors.New("user is inactive")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Vehicle errors
var (
	ErrVehicleNotFound      = errors.New("vehicle not found")
	ErrVehicleAlreadyExists = errors.New("vehicle already exists")
	ErrInvalidLicensePlate  = errors.New("invalid license plate")
	ErrInvalidVehicleData   = errors.New("invalid vehicle data")
)

// Reservation errors
var (
	// ErrEmptyDateSet - попытка добавить бронь без единой даты
	ErrEmptyDateSet = errors.New("reservation requires at least one date")

	// ErrInvalidDate - строка даты не соответствует формату YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid calendar date")

	// ErrInvalidRange - начало интервала позже его конца
	ErrInvalidRange = errors.New("start date is after end date")

	// ErrMalformedLedger - сохраненный журнал не является JSON-массивом.
	// Выше сервисного слоя не поднимается: журнал подменяется пустым
	ErrMalformedLedger = errors.New("malformed reservation ledger")

	// ErrLedgerConflict - конкурентная запись обогнала нашу (CAS по версии);
	// вызывающий код может повторить операцию поверх свежего чтения
	ErrLedgerConflict = errors.New("concurrent ledger modification")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired  = errors.New("token expired")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenNotFound = errors.New("refresh token not found")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)
