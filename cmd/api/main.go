package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/bootstrap"
	"github.com/cmlabs-hris/ledger-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/ledger-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/jwt"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	appName    = "ledger-backend"
	appVersion = "v1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config: ", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", appName),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.OpenRepositories(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store: ", err)
	}
	defer repos.Close()

	app := bootstrap.NewApp(cfg, repos)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		log.Fatal("Failed to initialize JWT service: ", err)
	}

	scheduler := cron.NewScheduler(ctx)
	cron.NewPayrollJobs(app.Payroll, cfg.Payroll.AutoPostPaymentMethod, nil).
		RegisterJobs(scheduler, cfg.Payroll.AutoPostInterval)
	scheduler.Start()
	defer scheduler.Stop()

	employeeHandler := appHTTP.NewEmployeeHandler(app.Employee)
	ledgerHandler := appHTTP.NewLedgerHandler(app.Ledger, JWTService)
	payrollHandler := appHTTP.NewPayrollHandler(app.Payroll)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        appName,
			Version:        appVersion,
			Env:            cfg.App.Env,
			LogLevel:       cfg.SlogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
			Metrics:        promhttp.Handler(),
		},
		JWTService,
		employeeHandler,
		ledgerHandler,
		payrollHandler,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
}
