package main

//
//  @title           ofxpulse API
//  @version         1.0
//  @description     OFX statement ingestion, token normalisation and account summaries.
//  @termsOfService  https://github.com/guttosm/ofxpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/ofxpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        normalize
//  @tag.description Parse OFX date and amount tokens
//
//  @tag.name        accounts
//  @tag.description Account summaries over ingested statements
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // OFX_LOCATION must resolve on hosts without zoneinfo

	"github.com/guttosm/ofxpulse/config"
	_ "github.com/guttosm/ofxpulse/docs" // swagger docs
	"github.com/guttosm/ofxpulse/internal/app"
	"github.com/guttosm/ofxpulse/internal/ingestion"
	"github.com/guttosm/ofxpulse/internal/logger"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// runIngest loads every statement in dir using the configured date parser.
func runIngest(ctx context.Context, cfg config.Config, dir string, parallel int, force bool) error {
	parser, err := app.NewDateParser(cfg)
	if err != nil {
		return err
	}

	db, err := app.InitPostgres(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	return ingestion.ProcessDirectory(ctx, dir, db, ingestion.Options{
		Parallel:         parallel,
		Force:            force,
		BatchSize:        cfg.Ingest.BatchSize,
		IgnoreDateErrors: cfg.OFX.IgnoreDateErrors,
		Parser:           parser,
	})
}

// main is the entry point of the ofxpulse application.
//
// Modes (selected via --mode flag):
//   - ingest: Loads every .ofx/.qfx statement found in --dir.
//   - api:    Starts the REST API (normalisation and account summaries).
//
// Flags:
//   - --mode:     Execution mode ("ingest" or "api"). Default: "ingest".
//   - --dir:      Directory containing statement files. Default: "./data/input".
//   - --parallel: Files processed concurrently (0 = auto, up to 8).
//   - --force:    Reload files already recorded in ingestion_log.
//   - --port:     Port for the API server. Defaults to SERVER_PORT.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "ingest", "Mode: ingest or api")
	dir := flag.String("dir", "./data/input", "Directory with .ofx/.qfx statements")
	parallel := flag.Int("parallel", 0, "How many files to process concurrently (0=auto up to CPU, max 8)")
	force := flag.Bool("force", false, "Reload files even if already ingested (deletes their existing rows)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "ingest":
		logger.L().Info().Str("dir", *dir).Msg("running ingestion")
		if err := runIngest(ctx, config.AppConfig, *dir, *parallel, *force); err != nil {
			logger.L().Fatal().Err(err).Msg("ingestion failed")
		}
		logger.L().Info().Msg("ingestion completed successfully")

	case "api":
		stop() // gracefulShutdown owns signal handling in API mode
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port)
		gracefulShutdown(context.Background(), server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}
