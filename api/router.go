package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Domenick1991/airline/config"
	"github.com/Domenick1991/airline/internal/logging"
	"github.com/Domenick1991/airline/internal/service/flights"
	"github.com/Domenick1991/airline/internal/service/users"
	"github.com/Domenick1991/airline/web"
	"github.com/gin-gonic/gin"
)

const (
	flightsPath = "/flights/"
	usersPath   = "/users/"
	loginPath   = "/users/login"
)

type RouterConfig struct {
	Flights        flights.FlightUseCase
	Users          users.UserUseCase
	Logger         *slog.Logger
	Session        config.SessionConfig
	SwaggerEnabled bool
	// Health is mounted on GET /healthz when set.
	Health http.Handler
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(logging.Middleware(cfg.Logger), gin.Recovery())

	sessions := newSessionAuth(cfg.Users, cfg.Session, cfg.Logger)
	r.Use(sessions.Middleware())

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, flightsPath) })
	r.NoRoute(func(c *gin.Context) { notFound(c, "Page not found.") })

	NewFlightHandler(cfg.Flights, cfg.Logger).Register(r.Group("/flights"))
	NewUserHandler(cfg.Users, sessions, cfg.Logger).Register(r.Group("/users"))
	NewFlightAPIHandler(cfg.Flights).Register(r.Group("/api/v1"), sessions.RequireAPIUser())

	registerDocs(r, cfg.SwaggerEnabled)

	if cfg.Health != nil {
		r.GET("/healthz", gin.WrapH(cfg.Health))
	}
	return r, nil
}

func notFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, "not_found.html", gin.H{"message": message})
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
}
