package main

import (
	"context"
	"net/http"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/guttosm/ofxpulse/config"
)

type dummyHandler struct{}

func (d dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestStartServerAndShutdown(t *testing.T) {
	srv := startServer(dummyHandler{}, "0") // random port
	if srv == nil {
		t.Fatalf("expected server")
	}

	// Give server a moment to start
	time.Sleep(50 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		t.Fatalf("shutdown err: %v", err)
	}
}

func TestGracefulShutdown_SignalPath(t *testing.T) {
	srv := startServer(dummyHandler{}, "0")

	cleaned := make(chan struct{}, 1)
	go func() {
		gracefulShutdown(context.Background(), srv, func() { close(cleaned) })
	}()

	// Give the goroutine time to set up signal notifications
	time.Sleep(50 * time.Millisecond)

	p, _ := os.FindProcess(os.Getpid())
	_ = p.Signal(syscall.SIGTERM)

	select {
	case <-cleaned:
	case <-time.After(2 * time.Second):
		t.Fatalf("cleanup not called after SIGTERM")
	}
}

func TestRunIngest_InvalidLocation(t *testing.T) {
	cfg := config.Config{OFX: config.OFXConfig{Location: "Nowhere/Atlantis"}}
	err := runIngest(context.Background(), cfg, t.TempDir(), 1, false)
	if err == nil || !strings.Contains(err.Error(), "OFX_LOCATION") {
		t.Fatalf("expected location error, got %v", err)
	}
}

func TestRunIngest_EmbeddedTZData(t *testing.T) {
	// time/tzdata makes IANA names resolvable; failure must come from the DB step.
	cfg := config.Config{
		OFX: config.OFXConfig{Location: "America/Sao_Paulo"},
		Postgres: config.PostgresConfig{
			Host: "127.0.0.1", Port: 1, User: "x", Password: "y", DBName: "z", SSLMode: "disable",
		},
	}
	err := runIngest(context.Background(), cfg, t.TempDir(), 1, false)
	if err == nil || strings.Contains(err.Error(), "OFX_LOCATION") {
		t.Fatalf("expected database error, got %v", err)
	}
}
