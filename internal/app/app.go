package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/ofxpulse/config"
	"github.com/guttosm/ofxpulse/internal/api"
	"github.com/guttosm/ofxpulse/internal/ofx"
	"github.com/guttosm/ofxpulse/internal/service"
	"github.com/guttosm/ofxpulse/internal/storage"
)

// NewDateParser builds the shared date parser from the OFX section of cfg.
func NewDateParser(cfg config.Config) (*ofx.DateTimeParser[time.Time], error) {
	opts, err := cfg.OFX.ParserOptions()
	if err != nil {
		return nil, err
	}
	return ofx.NewDateTimeParser[time.Time](nil, opts...), nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the date parser from config.AppConfig.OFX.
//   - Connects to PostgreSQL using InitPostgres().
//   - Wires repository, services and HTTP handler.
//   - Registers health and readiness probes.
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	cfg := config.AppConfig

	parser, err := NewDateParser(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build date parser: %w", err)
	}

	// indirection for unit testing
	db, err := postgresOpener(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	repo := storage.NewTransactionsRepository(db)

	handler := api.NewHandler(
		service.NewSummaryService(repo),
		service.NewNormalizeService(parser),
	)

	router := api.NewRouter(handler, api.RouterOptions{
		RateLimit:      cfg.Server.RateLimit,
		RequestTimeout: cfg.Server.RequestTimeout,
	})

	api.NewHealthHandler(db.PingContext).Register(router)

	cleanup := func() {
		_ = db.Close()
	}

	return router, cleanup, nil
}
