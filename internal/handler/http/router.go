package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ledger-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the request-log labels and CORS origins.
type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	employeeHandler EmployeeHandler,
	ledgerHandler LedgerHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {

		// Authenticated by the short-lived stream token in the query string
		r.Get("/ledger/stream", ledgerHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermissionEmployeeView)).Get("/", employeeHandler.ListEmployees)
				r.With(middleware.RequirePermission(auth.PermissionEmployeeView)).Get("/roles", employeeHandler.ListRoles)
				r.With(middleware.RequirePermission(auth.PermissionEmployeeView)).Get("/{id}", employeeHandler.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(auth.PermissionEmployeeManage))
					r.Post("/", employeeHandler.CreateEmployee)
					r.Put("/{id}", employeeHandler.UpdateEmployee)
					r.Delete("/{id}", employeeHandler.DeleteEmployee)
				})
			})

			r.Route("/transactions", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermissionLedgerView)).Get("/", ledgerHandler.ListTransactions)
				r.With(middleware.RequirePermission(auth.PermissionLedgerView)).Get("/{id}", ledgerHandler.GetTransaction)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequirePermission(auth.PermissionLedgerManage))
					r.Post("/", ledgerHandler.CreateTransaction)
					r.Put("/{id}", ledgerHandler.UpdateTransaction)
					r.Delete("/{id}", ledgerHandler.DeleteTransaction)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(auth.PermissionLedgerView))
				r.Get("/categories", ledgerHandler.Categories)
				r.Get("/ledger/stream-token", ledgerHandler.GetStreamToken)
			})

			r.Route("/payroll", func(r chi.Router) {
				r.With(middleware.RequirePermission(auth.PermissionPayrollManage)).Post("/migrate-tags", payrollHandler.MigrateLegacyTags)

				r.Route("/{month}", func(r chi.Router) {
					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(auth.PermissionPayrollView))
						r.Get("/statement", payrollHandler.GetStatement)
						r.Get("/statement.pdf", payrollHandler.GetStatementPDF)
						r.Get("/employees/{employeeId}/summary", payrollHandler.GetSummary)
					})

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequirePermission(auth.PermissionPayrollManage))
						r.Post("/bulk-post", payrollHandler.PostMonthlyPayroll)

						r.Put("/employees/{employeeId}/hours/{day}", payrollHandler.RecordHours)
						r.Post("/employees/{employeeId}/advances", payrollHandler.AddAdvance)
						r.Put("/employees/{employeeId}/advances/total", payrollHandler.SetAdvanceTotal)
						r.Post("/employees/{employeeId}/advances/refund", payrollHandler.RefundAdvance)
						r.Put("/employees/{employeeId}/travel", payrollHandler.SetTravelExpense)
						r.Post("/employees/{employeeId}/settlement", payrollHandler.Settle)
						r.Delete("/employees/{employeeId}/settlement", payrollHandler.CancelSettlement)
					})
				})
			})
		})
	})
	return r
}
