package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legal_aid_app_go/config"
	"legal_aid_app_go/db"
	"legal_aid_app_go/handlers"
	"legal_aid_app_go/logger"
	"legal_aid_app_go/middleware"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.Environment, cfg.LogLevel)

	// Initialize database
	if err := db.Initialize(db.OptionsFromConfig(cfg)); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	services.InitializeStorage(cfg)
	if err := services.InitReportCache(cfg.RedisURL, cfg.ReportCacheTTL); err != nil {
		log.Warn().Err(err).Msg("Report cache unavailable, serving reports uncached")
	}
	defer services.CloseReportCache()
	services.InitSecurityMonitor()
	defer services.Monitor.Stop()

	e := echo.New()
	e.HideBanner = true
	registerRoutes(e, cfg)

	go func() {
		log.Info().Str("port", cfg.ServerPort).Str("environment", cfg.Environment).Msg("Server starting")
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	middleware.TokenRateLimiter.Stop()
	log.Info().Msg("Server stopped")
}

func registerRoutes(e *echo.Echo, cfg *config.Config) {
	// Middleware
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomiddleware.BodyLimit("32M"))
	e.Use(middleware.Metrics())

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Public routes
	e.GET("/healthz", handlers.HealthHandler)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/api/token", handlers.ObtainTokenHandler, middleware.TokenRateLimiter.Middleware())

	api := e.Group("/api")
	api.Use(middleware.RequireToken())
	{
		api.GET("/me", handlers.CurrentUserHandler)
		api.GET("/users/:id", handlers.GetUserHandler)
		api.PUT("/users/:id", handlers.UpdateUserHandler)
		api.PATCH("/users/:id", handlers.UpdateUserHandler)

		api.GET("/case-offices", handlers.ListCaseOfficesHandler)
		api.POST("/case-offices", handlers.CreateCaseOfficeHandler)
		api.GET("/case-offices/:id", handlers.GetCaseOfficeHandler)
		api.PUT("/case-offices/:id", handlers.UpdateCaseOfficeHandler)
		api.PATCH("/case-offices/:id", handlers.UpdateCaseOfficeHandler)
		api.DELETE("/case-offices/:id", handlers.DeleteCaseOfficeHandler)

		api.GET("/case-types", handlers.ListCaseTypesHandler)
		api.POST("/case-types", handlers.CreateCaseTypeHandler)
		api.GET("/case-types/:id", handlers.GetCaseTypeHandler)
		api.PUT("/case-types/:id", handlers.UpdateCaseTypeHandler)
		api.PATCH("/case-types/:id", handlers.UpdateCaseTypeHandler)
		api.DELETE("/case-types/:id", handlers.DeleteCaseTypeHandler)

		api.GET("/clients", handlers.ListClientsHandler)
		api.POST("/clients", handlers.CreateClientHandler)
		api.GET("/clients/:id", handlers.GetClientHandler)
		api.PUT("/clients/:id", handlers.UpdateClientHandler)
		api.PATCH("/clients/:id", handlers.UpdateClientHandler)
		api.DELETE("/clients/:id", handlers.DeleteClientHandler)

		api.GET("/legal-cases", handlers.ListLegalCasesHandler)
		api.POST("/legal-cases", handlers.CreateLegalCaseHandler)
		api.GET("/legal-cases/:id", handlers.GetLegalCaseHandler)
		api.PUT("/legal-cases/:id", handlers.UpdateLegalCaseHandler)
		api.PATCH("/legal-cases/:id", handlers.UpdateLegalCaseHandler)
		api.DELETE("/legal-cases/:id", handlers.DeleteLegalCaseHandler)

		api.GET("/meetings", handlers.ListMeetingsHandler)
		api.POST("/meetings", handlers.CreateMeetingHandler)
		api.GET("/meetings/:id", handlers.GetMeetingHandler)
		api.PUT("/meetings/:id", handlers.UpdateMeetingHandler)
		api.PATCH("/meetings/:id", handlers.UpdateMeetingHandler)
		api.DELETE("/meetings/:id", handlers.DeleteMeetingHandler)

		api.GET("/notes", handlers.ListNotesHandler)
		api.POST("/notes", handlers.CreateNoteHandler)
		api.GET("/notes/:id", handlers.GetNoteHandler)
		api.PUT("/notes/:id", handlers.UpdateNoteHandler)
		api.PATCH("/notes/:id", handlers.UpdateNoteHandler)
		api.DELETE("/notes/:id", handlers.DeleteNoteHandler)

		api.GET("/legal-case-files", handlers.ListLegalCaseFilesHandler)
		api.POST("/legal-case-files", handlers.CreateLegalCaseFileHandler)
		api.GET("/legal-case-files/:id", handlers.GetLegalCaseFileHandler)
		api.GET("/legal-case-files/:id/download", handlers.DownloadLegalCaseFileHandler)
		api.PUT("/legal-case-files/:id", handlers.UpdateLegalCaseFileHandler)
		api.PATCH("/legal-case-files/:id", handlers.UpdateLegalCaseFileHandler)
		api.DELETE("/legal-case-files/:id", handlers.DeleteLegalCaseFileHandler)

		api.GET("/case-updates", handlers.ListCaseUpdatesHandler)
		api.POST("/case-updates", handlers.CreateCaseUpdateHandler)
		api.GET("/case-updates/:id", handlers.GetCaseUpdateHandler)
		api.DELETE("/case-updates/:id", handlers.DeleteCaseUpdateHandler)

		api.GET("/logs", handlers.ListLogsHandler)
		api.POST("/logs", handlers.CreateLogHandler)
		api.GET("/logs/:id", handlers.GetLogHandler)
		api.PUT("/logs/:id", handlers.LogImmutableHandler)
		api.PATCH("/logs/:id", handlers.LogImmutableHandler)
		api.DELETE("/logs/:id", handlers.LogImmutableHandler)

		api.GET("/summary/daily", handlers.DailySummaryHandler)
		api.GET("/summary/monthly", handlers.MonthlySummaryHandler)
	}
}
