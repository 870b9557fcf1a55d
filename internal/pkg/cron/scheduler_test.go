package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddJob_IgnoresNonPositiveInterval(t *testing.T) {
	s := NewScheduler(context.Background())

	// Act
	s.AddJob("disabled", 0, func(ctx context.Context) error { return nil })
	s.AddJob("enabled", time.Hour, func(ctx context.Context) error { return nil })

	// Assert
	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, "enabled", jobs[0].Name)
}

func TestScheduler_Start_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())
	var runs atomic.Int32
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	// Act
	s.Start()
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()

	// Assert
	assert.Equal(t, int32(1), runs.Load())
}

func TestScheduler_RunOnce_ReturnsFirstError(t *testing.T) {
	s := NewScheduler(context.Background())
	boom := errors.New("boom")
	var second bool
	s.AddJob("fails", time.Hour, func(ctx context.Context) error { return boom })
	s.AddJob("runs", time.Hour, func(ctx context.Context) error {
		second = true
		return nil
	})

	// Act
	err := s.RunOnce(context.Background())

	// Assert
	assert.ErrorIs(t, err, boom)
	assert.True(t, second)
}

// stubPayrollService records bulk posting requests.
type stubPayrollService struct {
	payroll.PayrollService
	requests []payroll.BulkPostRequest
	err      error
}

func (s *stubPayrollService) PostMonthlyPayroll(ctx context.Context, req payroll.BulkPostRequest) (payroll.BulkResult, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return payroll.BulkResult{}, s.err
	}
	return payroll.BulkResult{Month: req.Month, Created: 2, Total: decimal.NewFromInt(300)}, nil
}

func TestPayrollJobs_PostCurrentMonth(t *testing.T) {
	svc := &stubPayrollService{}
	jobs := NewPayrollJobs(svc, "bank", func() time.Time {
		return time.Date(2025, 3, 31, 23, 0, 0, 0, time.UTC)
	})

	// Act
	err := jobs.PostCurrentMonth(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, svc.requests, 1)
	assert.Equal(t, "2025-03", svc.requests[0].Month)
	assert.Equal(t, "bank", svc.requests[0].PaymentMethod)
}

func TestPayrollJobs_RegisterJobs(t *testing.T) {
	svc := &stubPayrollService{err: errors.New("store unavailable")}
	jobs := NewPayrollJobs(svc, "cash", nil)
	s := NewScheduler(context.Background())

	// Act
	jobs.RegisterJobs(s, time.Hour)
	err := s.RunOnce(context.Background())

	// Assert
	require.Len(t, s.Jobs(), 1)
	assert.Equal(t, "post_monthly_payroll", s.Jobs()[0].Name)
	assert.Error(t, err)
	assert.Len(t, svc.requests, 1)
}
