package employee

import (
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	Name          string           `json:"name"`
	Role          string           `json:"role"`
	HourlyRate    *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyRate     *decimal.Decimal `json:"daily_rate,omitempty"`
	PaymentMethod string           `json:"payment_method"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	} else if !validator.IsValidTagName(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "must not contain '@' or ':'"})
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
	}
	if r.DailyRate != nil && r.DailyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "daily_rate", Message: "must be non-negative"})
	}
	if r.PaymentMethod != "" && !ledger.PaymentMethod(r.PaymentMethod).Valid() {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "must be 'cash' or 'bank'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID            string           `json:"-"`
	Name          *string          `json:"name,omitempty"`
	Role          *string          `json:"role,omitempty"`
	HourlyRate    *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyRate     *decimal.Decimal `json:"daily_rate,omitempty"`
	PaymentMethod *string          `json:"payment_method,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "cannot be empty"})
		} else if !validator.IsValidTagName(*r.Name) {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "must not contain '@' or ':'"})
		}
	}
	if r.HourlyRate != nil && r.HourlyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "hourly_rate", Message: "must be non-negative"})
	}
	if r.DailyRate != nil && r.DailyRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "daily_rate", Message: "must be non-negative"})
	}
	if r.PaymentMethod != nil && !ledger.PaymentMethod(*r.PaymentMethod).Valid() {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: "must be 'cash' or 'bank'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeFilter struct {
	Role   string `json:"role,omitempty"`
	Search string `json:"search,omitempty"`
}

type EmployeeResponse struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Role          string           `json:"role"`
	HourlyRate    *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyRate     *decimal.Decimal `json:"daily_rate,omitempty"`
	PaymentMethod string           `json:"payment_method"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:            e.ID,
		Name:          e.Name,
		Role:          e.Role,
		HourlyRate:    e.HourlyRate,
		DailyRate:     e.DailyRate,
		PaymentMethod: string(e.PaymentMethod),
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
