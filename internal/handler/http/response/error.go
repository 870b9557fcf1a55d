package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidRole), errors.Is(err, auth.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrNameExists):
		Conflict(w, "Employee name already exists")
	case errors.Is(err, employee.ErrInvalidRate):
		UnprocessableEntity(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrTimeLogNotFound):
		NotFound(w, "Time log not found")
	case errors.Is(err, payroll.ErrTimeLogExists):
		Conflict(w, "Time log already exists for this employee and month")
	case errors.Is(err, payroll.ErrAlreadyPaid):
		Conflict(w, "Salary for this month is already settled")
	case errors.Is(err, payroll.ErrNotPaid):
		Conflict(w, "Salary for this month is not settled")
	case errors.Is(err, payroll.ErrInvalidAmount),
		errors.Is(err, payroll.ErrNegativeAmount),
		errors.Is(err, payroll.ErrAdvanceExceedsRemaining),
		errors.Is(err, payroll.ErrRefundExceedsAdvances),
		errors.Is(err, payroll.ErrInvalidDay),
		errors.Is(err, payroll.ErrInvalidHours),
		errors.Is(err, period.ErrInvalidMonth):
		UnprocessableEntity(w, err.Error())

	// Ledger domain errors
	case errors.Is(err, ledger.ErrTransactionNotFound):
		NotFound(w, "Transaction not found")
	case errors.Is(err, ledger.ErrInvalidType),
		errors.Is(err, ledger.ErrInvalidCategory),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidPayment):
		UnprocessableEntity(w, err.Error())

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
