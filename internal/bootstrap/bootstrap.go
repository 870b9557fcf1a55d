// Package bootstrap wires the store, services and stream hub from config.
// It is shared by the API server and the ledgerctl CLI.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/ledger-backend-go/internal/config"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/ledger-backend-go/internal/repository/boltdb"
	"github.com/cmlabs-hris/ledger-backend-go/internal/repository/postgresql"
	employeeService "github.com/cmlabs-hris/ledger-backend-go/internal/service/employee"
	ledgerService "github.com/cmlabs-hris/ledger-backend-go/internal/service/ledger"
	payrollService "github.com/cmlabs-hris/ledger-backend-go/internal/service/payroll"
)

// Repositories is one store backend.
type Repositories struct {
	TxManager    database.TxManager
	Employees    employee.EmployeeRepository
	TimeLogs     payroll.TimeLogRepository
	Transactions ledger.TransactionRepository
	close        func() error
}

// App holds the wired services.
type App struct {
	Repositories
	Hub      *sse.Hub
	Employee employee.EmployeeService
	Ledger   ledger.LedgerService
	Payroll  payroll.PayrollService
}

// OpenRepositories connects to the store selected by STORE_DRIVER.
func OpenRepositories(ctx context.Context, cfg *config.Config) (Repositories, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverBolt:
		store, err := boltdb.Open(cfg.Store.BoltPath)
		if err != nil {
			return Repositories{}, fmt.Errorf("open bolt store: %w", err)
		}
		slog.Info("Using embedded store", "path", cfg.Store.BoltPath)
		return Repositories{
			TxManager:    store,
			Employees:    boltdb.NewEmployeeRepository(store),
			TimeLogs:     boltdb.NewTimeLogRepository(store),
			Transactions: boltdb.NewLedgerRepository(store),
			close:        store.Close,
		}, nil

	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return Repositories{}, fmt.Errorf("connect to database: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return Repositories{}, fmt.Errorf("apply schema: %w", err)
		}
		slog.Info("Using PostgreSQL store", "host", cfg.Database.Host, "database", cfg.Database.Name)
		return Repositories{
			TxManager:    postgresql.NewTxManager(db),
			Employees:    postgresql.NewEmployeeRepository(db),
			TimeLogs:     postgresql.NewTimeLogRepository(db),
			Transactions: postgresql.NewLedgerRepository(db),
			close: func() error {
				db.Close()
				return nil
			},
		}, nil

	default:
		return Repositories{}, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

// Close releases the store.
func (r Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// NewApp wires the services on top of repos.
func NewApp(cfg *config.Config, repos Repositories) *App {
	hub := sse.NewHub(sse.WithSubscriberGauge(func(total int) {
		metrics.StreamSubscribers.Set(float64(total))
	}))

	payrollSvc := payrollService.NewPayrollService(
		repos.TxManager,
		repos.TimeLogs,
		repos.Employees,
		repos.Transactions,
		ledgerService.NewHubNotifier(hub),
		payrollService.Config{
			CorrectionCategory:    cfg.Payroll.CorrectionCategory,
			TravelCategory:        cfg.Payroll.TravelCategory,
			DefaultSalaryCategory: cfg.Payroll.DefaultSalaryCategory,
		},
	)

	ledgerSvc := ledgerService.NewLedgerService(
		repos.TxManager,
		repos.Transactions,
		repos.Employees,
		payrollSvc,
		hub,
		ledgerService.Config{
			Categories:         cfg.Categories,
			CorrectionCategory: cfg.Payroll.CorrectionCategory,
			TravelCategory:     cfg.Payroll.TravelCategory,
		},
	)

	return &App{
		Repositories: repos,
		Hub:          hub,
		Employee:     employeeService.NewEmployeeService(repos.Employees),
		Ledger:       ledgerSvc,
		Payroll:      payrollSvc,
	}
}
