package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/frontandrew/shuttlefleet/internal/delivery/http/middleware"
	"github.com/frontandrew/shuttlefleet/internal/domain"
	"github.com/frontandrew/shuttlefleet/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CreateTestUser создает тестового пользователя
func CreateTestUser(id uuid.UUID, email string, role domain.UserRole) *domain.User {
	return &domain.User{
		ID:       id,
		Email:    email,
		FullName: "Test User",
		Phone:    "+971 50 000 0000",
		Role:     role,
		IsActive: true,
	}
}

// CreateTestVehicle создает тестовую машину
func CreateTestVehicle(id, ownerID uuid.UUID, licensePlate string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:           id,
		OwnerID:      ownerID,
		Model:        "Sprinter",
		VehicleType:  domain.VehicleTypeMinibus,
		LicensePlate: licensePlate,
		IsActive:     true,
	}
}

// withClaims добавляет claims пользователя в контекст запроса,
// имитируя прохождение через AuthMiddleware
func withClaims(r *http.Request, userID uuid.UUID, role domain.UserRole) *http.Request {
	claims := &jwt.Claims{
		UserID: userID,
		Role:   role,
	}
	ctx := context.WithValue(r.Context(), middleware.UserClaimsKey, claims)
	return r.WithContext(ctx)
}

// withURLParam добавляет path-параметр chi в контекст запроса,
// имитируя прохождение через роутер
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// AssertSuccess проверяет успешный ответ API
func AssertSuccess(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || !success {
		t.Errorf("Expected success=true, got %v", response)
	}
}

// AssertError проверяет ошибочный ответ API
func AssertError(t *testing.T, response map[string]interface{}) {
	t.Helper()
	success, ok := response["success"].(bool)
	if !ok || success {
		t.Errorf("Expected success=false, got %v", response)
	}
}
