// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"pgtiffin/config"
	"pgtiffin/internal/delivery/http/pages"
	"pgtiffin/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	Config         *config.Config
	AccountHandler *handler.AccountHandler
	HealthHandler  *handler.HealthHandler
	Pages          *pages.Pages
}

// router holds all the handlers that need to be registered.
type router struct {
	cfg            *config.Config
	accountHandler *handler.AccountHandler
	healthHandler  *handler.HealthHandler
	pages          *pages.Pages
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		cfg:            params.Config,
		accountHandler: params.AccountHandler,
		healthHandler:  params.HealthHandler,
		pages:          params.Pages,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.Check)

	if r.cfg.Metrics != nil && r.cfg.Metrics.Enabled {
		e.GET(r.cfg.Metrics.Path, echo.WrapHandler(promhttp.Handler()))
	}

	e.GET("/", r.pages.Home)
	e.GET("/dashboard", r.pages.Dashboard)

	api := e.Group("/api")
	{
		api.POST("/register", r.accountHandler.Register)
		api.POST("/login", r.accountHandler.Login)
	}
}
