// Package httpapi exposes the REST surface: authentication, category,
// account, transaction, and recurring-template endpoints.
package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bolso-dev/bolso/internal/auth"
	"github.com/bolso-dev/bolso/internal/buildinfo"
	"github.com/bolso-dev/bolso/internal/importer"
	"github.com/bolso-dev/bolso/internal/recurring"
	"github.com/bolso-dev/bolso/internal/store"
	"github.com/bolso-dev/bolso/internal/transactions"
)

// Server wires the services behind the HTTP routes.
type Server struct {
	store        *store.Store
	auth         *auth.Service
	transactions *transactions.Service
	recurring    *recurring.Service
	importers    *importer.Registry
	log          zerolog.Logger
}

// New creates a Server.
func New(st *store.Store, authSvc *auth.Service, txSvc *transactions.Service, recSvc *recurring.Service, log zerolog.Logger) *Server {
	return &Server{
		store:        st,
		auth:         authSvc,
		transactions: txSvc,
		recurring:    recSvc,
		importers:    importer.DefaultRegistry(),
		log:          log,
	}
}

// App builds the fiber application with all routes registered.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "bolso",
		ErrorHandler: s.errorHandler,
	})

	app.Use(s.requestLogger())

	app.Get("/api/health", s.handleHealth)

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", s.handleRegister)
	authGroup.Post("/login", s.handleLogin)
	authGroup.Post("/change_password", s.requireAuth(), s.handleChangePassword)
	authGroup.Get("/profile", s.requireAuth(), s.handleGetProfile)
	authGroup.Patch("/profile", s.requireAuth(), s.handleUpdateProfile)
	authGroup.Get("/stats", s.requireAuth(), s.handleUserStats)
	authGroup.Delete("/account", s.requireAuth(), s.handleDeactivate)

	api := app.Group("/api", s.requireAuth())

	api.Get("/categories", s.handleListCategories)
	api.Get("/categories/by_type", s.handleCategoriesByType)
	api.Post("/categories", s.handleCreateCategory)
	api.Get("/categories/:id", s.handleGetCategory)
	api.Put("/categories/:id", s.handleUpdateCategory)
	api.Delete("/categories/:id", s.handleDeleteCategory)

	api.Get("/accounts", s.handleListAccounts)
	api.Get("/accounts/summary", s.handleAccountsSummary)
	api.Post("/accounts", s.handleCreateAccount)
	api.Get("/accounts/:id", s.handleGetAccount)
	api.Put("/accounts/:id", s.handleUpdateAccount)
	api.Delete("/accounts/:id", s.handleDeleteAccount)
	api.Post("/accounts/:id/adjust_balance", s.handleAdjustBalance)

	api.Get("/transactions", s.handleListTransactions)
	api.Get("/transactions/summary", s.handleTransactionSummary)
	api.Get("/transactions/by_category", s.handleTransactionsByCategory)
	api.Post("/transactions", s.handleCreateTransaction)
	api.Post("/transactions/import", s.handleImportTransactions)
	api.Get("/transactions/:id", s.handleGetTransaction)
	api.Put("/transactions/:id", s.handleUpdateTransaction)
	api.Delete("/transactions/:id", s.handleDeleteTransaction)

	api.Get("/recurring", s.handleListRecurring)
	api.Post("/recurring", s.handleCreateRecurring)
	api.Get("/recurring/:id", s.handleGetRecurring)
	api.Put("/recurring/:id", s.handleUpdateRecurring)
	api.Delete("/recurring/:id", s.handleDeleteRecurring)
	api.Post("/recurring/:id/execute", s.handleExecuteRecurring)

	api.Get("/analytics/dashboard", s.handleDashboard)

	return app
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleDashboard is a placeholder analytics endpoint.
func (s *Server) handleDashboard(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "dashboard analytics not implemented yet",
	})
}

// requestLogger tags each request with an ID and logs its outcome.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := uuid.NewString()
		c.Locals("request_id", requestID)

		err := c.Next()

		s.log.Info().
			Str("request_id", requestID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
		return err
	}
}

// requireAuth verifies the bearer token and stores the user ID in the
// request context.
func (s *Server) requireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		const prefix = "Bearer "
		header := c.Get(fiber.HeaderAuthorization)
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		userID, err := s.auth.VerifyToken(header[len(prefix):])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals("user_id", userID)
		return c.Next()
	}
}

// userID returns the authenticated user set by requireAuth.
func userID(c *fiber.Ctx) int64 {
	id, _ := c.Locals("user_id").(int64)
	return id
}
