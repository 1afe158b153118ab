package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-drafter/internal/auth"
	"github.com/octobees/outreach-drafter/internal/config"
	"github.com/octobees/outreach-drafter/internal/handler"
	"github.com/octobees/outreach-drafter/internal/metrics"
	middlewarepkg "github.com/octobees/outreach-drafter/internal/middleware"
	"github.com/octobees/outreach-drafter/internal/service"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth     *handler.AuthHandler
	Outreach *handler.OutreachHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	e.POST("/auth/login", handlers.Auth.Login)
	e.GET("/auth/logout", handlers.Auth.Logout)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))
	secured.Use(middlewarepkg.RequireRole(service.RoleOperator))

	secured.GET("/peoples", handlers.Outreach.SearchPeople, middlewarepkg.RateLimiter(cfg.RateLimitSearch, "/peoples"))
	secured.POST("/process-csv", handlers.Outreach.ProcessCSV)
	secured.POST("/export-csv", handlers.Outreach.ExportCSV)
	secured.GET("/runs/:id/drafts", handlers.Outreach.RunRecords)
}
