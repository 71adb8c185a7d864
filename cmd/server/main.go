package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kennitala/internal/kennitala/handler"
	"kennitala/internal/kennitala/metrics"
	"kennitala/internal/kennitala/service"
	"kennitala/internal/kennitala/tracer"
	"kennitala/internal/platform/config"
	"kennitala/internal/platform/health"
	"kennitala/internal/platform/httpserver"
	"kennitala/internal/platform/logger"
	httptransport "kennitala/internal/transport/http"
	"kennitala/pkg/kennitala"
	"kennitala/pkg/platform/middleware/request"
)

// selfTestCode is a known-good personal code used by the readiness probe.
const selfTestCode = "1405433229"

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/kennitala.
func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	log.Info("initializing kennitala service",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"max_batch_size", cfg.MaxBatchSize,
	)

	svc := service.New(
		service.WithLogger(log),
		service.WithMetrics(metrics.New()),
		service.WithTracer(tracer.NewOTel()),
		service.WithMaxBatchSize(cfg.MaxBatchSize),
	)

	healthHandler := health.New(cfg.Environment)
	healthHandler.RegisterCheck("checksum", checksumSelfTest)
	healthHandler.RegisterCheck("generator", generatorSelfTest)

	router := httptransport.NewRouter(
		httptransport.RouterConfig{
			RequestTimeout: cfg.RequestTimeout,
			MaxBodyBytes:   cfg.MaxBodyBytes,
		},
		httptransport.Routes{
			Kennitala: handler.New(svc, log),
			Health:    healthHandler,
			Metrics:   promhttp.Handler(),
			Latency:   request.NewMetrics(),
		},
		log,
	)

	srv := httpserver.New(cfg.Addr, router, cfg.RequestTimeout)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func checksumSelfTest(context.Context) error {
	if !kennitala.IsValid(selfTestCode) {
		return errors.New("known-good code rejected")
	}
	return nil
}

func generatorSelfTest(context.Context) error {
	code, err := kennitala.Random()
	if err != nil {
		return err
	}
	if !kennitala.IsValid(code) {
		return errors.New("generated code failed validation")
	}
	return nil
}
