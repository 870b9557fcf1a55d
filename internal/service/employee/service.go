package employee

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	e, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(e), nil
}

func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	method := ledger.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = ledger.PaymentCash
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		Name:          strings.TrimSpace(req.Name),
		Role:          strings.TrimSpace(req.Role),
		HourlyRate:    req.HourlyRate,
		DailyRate:     req.DailyRate,
		PaymentMethod: method,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(created), nil
}

func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	if req.Name != nil {
		current.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		current.Role = strings.TrimSpace(*req.Role)
	}
	if req.HourlyRate != nil {
		current.HourlyRate = req.HourlyRate
	}
	if req.DailyRate != nil {
		current.DailyRate = req.DailyRate
	}
	if req.PaymentMethod != nil {
		current.PaymentMethod = ledger.PaymentMethod(*req.PaymentMethod)
	}

	updated, err := s.employeeRepo.Update(ctx, current)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.NewEmployeeResponse(updated), nil
}

func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	return s.employeeRepo.Delete(ctx, id)
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) ([]employee.EmployeeResponse, error) {
	all, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	out := make([]employee.EmployeeResponse, 0, len(all))
	for _, e := range all {
		if filter.Role != "" && e.Role != filter.Role {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		out = append(out, employee.NewEmployeeResponse(e))
	}
	return out, nil
}

func (s *EmployeeServiceImpl) Roles(ctx context.Context) ([]string, error) {
	all, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var roles []string
	for _, e := range all {
		if e.Role == "" {
			continue
		}
		if _, ok := seen[e.Role]; ok {
			continue
		}
		seen[e.Role] = struct{}{}
		roles = append(roles, e.Role)
	}
	sort.Strings(roles)
	return roles, nil
}
