package http

import (
	"net/http"

	"github.com/frontandrew/shuttlefleet/internal/delivery/http/middleware"
	"github.com/frontandrew/shuttlefleet/internal/domain"
	"github.com/frontandrew/shuttlefleet/internal/pkg/config"
	"github.com/frontandrew/shuttlefleet/internal/pkg/jwt"
	"github.com/frontandrew/shuttlefleet/internal/pkg/logger"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Router содержит все зависимости для HTTP роутера
type Router struct {
	authHandler         *AuthHandler
	vehicleHandler      *VehicleHandler
	reservationHandler  *ReservationHandler
	availabilityHandler *AvailabilityHandler
	tokenService        *jwt.TokenService
	config              *config.Config
	logger              logger.Logger
}

// NewRouter создает новый HTTP router
func NewRouter(
	authHandler *AuthHandler,
	vehicleHandler *VehicleHandler,
	reservationHandler *ReservationHandler,
	availabilityHandler *AvailabilityHandler,
	tokenService *jwt.TokenService,
	config *config.Config,
	logger logger.Logger,
) *Router {
	return &Router{
		authHandler:         authHandler,
		vehicleHandler:      vehicleHandler,
		reservationHandler:  reservationHandler,
		availabilityHandler: availabilityHandler,
		tokenService:        tokenService,
		config:              config,
		logger:              logger,
	}
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Глобальные middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.RecoveryMiddleware(rt.logger))
	r.Use(middleware.LoggingMiddleware(rt.logger))
	r.Use(middleware.CORSMiddleware(middleware.CORSConfig{
		AllowedOrigins: rt.config.CORS.AllowedOrigins,
		AllowedMethods: rt.config.CORS.AllowedMethods,
		AllowedHeaders: rt.config.CORS.AllowedHeaders,
	}))

	// Health check endpoint (публичный)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (без аутентификации)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", rt.authHandler.Register)
			r.Post("/login", rt.authHandler.Login)
			r.Post("/refresh", rt.authHandler.RefreshToken)
		})

		// Справочник опций машин (публичный - нужен форме регистрации)
		r.Get("/features", rt.vehicleHandler.GetFeatures)

		// Protected routes (требуют аутентификации)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(rt.tokenService))

			// Current user endpoints
			r.Get("/auth/me", rt.authHandler.GetMe)
			r.Post("/auth/logout", rt.authHandler.Logout)

			// Vehicle endpoints
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/me", rt.vehicleHandler.GetMyVehicles)
				r.Post("/", rt.vehicleHandler.CreateVehicle)
				r.Get("/{id}", rt.vehicleHandler.GetVehicleByID)
				r.Delete("/{id}", rt.vehicleHandler.DeleteVehicle)

				// Календарь бронирований машины (владелец или админ)
				r.Get("/{id}/calendar", rt.reservationHandler.GetCalendar)
				r.Route("/{id}/reservations", func(r chi.Router) {
					r.Get("/", rt.reservationHandler.GetLedger)
					r.Post("/", rt.reservationHandler.AddReservation)
					r.Post("/remove-dates", rt.reservationHandler.RemoveDates)
				})
			})

			// Admin endpoints
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(domain.RoleAdmin))

				r.Get("/vehicles", rt.vehicleHandler.ListVehicles)
				r.Post("/vehicles/{id}/verify", rt.vehicleHandler.VerifyVehicle)
				r.Post("/owners/{id}/verify", rt.authHandler.VerifyOwner)

				// Поиск свободных машин по интервалу дат
				r.Get("/availability", rt.availabilityHandler.Search)
				r.Get("/availability/overview", rt.availabilityHandler.Overview)
			})
		})
	})

	return r
}
