package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/limaJavier/coursetable/pkg/api/handler"
	"github.com/limaJavier/coursetable/pkg/api/router"
	"github.com/limaJavier/coursetable/pkg/config"
	applogger "github.com/limaJavier/coursetable/pkg/logger"
	"github.com/limaJavier/coursetable/pkg/sat"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file; if empty, ./config/timetable.yaml or ./timetable.yaml is used when present")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	solver, err := sat.NewSolver(cfg.Solver.Engine, cfg.Solver.Options)
	if err != nil {
		logger.Fatal("cannot initialize solver", zap.Error(err))
	}

	logger.Info("starting server",
		zap.Int("port", cfg.Server.Port),
		zap.String("engine", cfg.Solver.Engine),
		zap.String("strategy", cfg.Model.Strategy),
		zap.Duration("time_budget", cfg.Solver.TimeBudget),
	)

	gin.SetMode(gin.ReleaseMode)
	h := handler.NewScheduleHandler(solver, handler.Options{
		Strategy:  cfg.Model.Strategy,
		Budget:    cfg.Solver.TimeBudget,
		Delimiter: cfg.Input.Delimiter,
	}, logger)
	engine := router.Setup(cfg, h, logger)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     engine,
		ReadTimeout: 30 * time.Second,
		// Responses wait for the engine
		WriteTimeout: cfg.Solver.TimeBudget + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Solver.TimeBudget+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
