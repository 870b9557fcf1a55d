package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/validator"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// ========== SUMMARY ==========

func (s *PayrollServiceImpl) GetSummary(ctx context.Context, req payroll.PeriodRequest) (payroll.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SummaryResponse{}, err
	}
	month, _ := period.ParseMonth(req.Month)

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	log, err := s.timeLogRepo.GetByEmployeeMonth(ctx, emp.ID, month)
	hasLog := err == nil
	if err != nil && !errors.Is(err, payroll.ErrTimeLogNotFound) {
		return payroll.SummaryResponse{}, err
	}
	if !hasLog {
		log = payroll.NewTimeLog(emp.ID, month)
	}

	m := &mutation{emp: emp, log: log}
	txs, err := s.linked(ctx, m,
		ledger.SourceAdvance, ledger.SourceRemainingSettlement, ledger.SourceFullSettlement,
		ledger.SourceTravel, ledger.SourceRefundedAdvance, ledger.SourceCorrection,
	)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	resp := payroll.SummaryResponse{
		EmployeeID:   emp.ID,
		EmployeeName: emp.Name,
		Month:        month.String(),
		HasTimeLog:   hasLog,
		IsPaid:       log.IsPaid,
		Breakdown:    payroll.NewBreakdownResponse(payroll.Calculate(emp, log)),
		Transactions: ledger.NewTransactionResponses(txs),
	}
	if hasLog {
		tl := toTimeLogResponse(emp, log)
		resp.TimeLog = &tl
	}
	return resp, nil
}

// ========== STATEMENT ==========

// GetStatement lists every employee's salary position for the month.
func (s *PayrollServiceImpl) GetStatement(ctx context.Context, month string) (payroll.StatementResponse, error) {
	m, err := period.ParseMonth(month)
	if err != nil {
		return payroll.StatementResponse{}, validator.ValidationErrors{{Field: "month", Message: "must be in YYYY-MM format"}}
	}

	data, err := s.loadMonth(ctx, m)
	if err != nil {
		return payroll.StatementResponse{}, err
	}

	resp := payroll.StatementResponse{
		Month: m.String(),
		Rows:  make([]payroll.StatementRow, 0, len(data.employees)),
		Totals: payroll.StatementTotals{
			BaseSalary:      decimal.Zero,
			TravelTotal:     decimal.Zero,
			AdvancesTotal:   decimal.Zero,
			FinalSalary:     decimal.Zero,
			RemainingSalary: decimal.Zero,
		},
	}

	for _, emp := range data.employees {
		log, ok := data.logs[emp.ID]
		if !ok {
			log = payroll.NewTimeLog(emp.ID, m)
		}
		b := payroll.Calculate(emp, log)

		resp.Rows = append(resp.Rows, payroll.StatementRow{
			EmployeeID:      emp.ID,
			Name:            emp.Name,
			Role:            emp.Role,
			PaymentMethod:   string(emp.PaymentMethod),
			TotalHours:      b.TotalHours,
			DaysWorked:      b.DaysWorked,
			BaseSalary:      b.BaseSalary,
			TravelTotal:     b.TravelTotal,
			AdvancesTotal:   b.AdvancesTotal,
			FinalSalary:     b.FinalSalary,
			RemainingSalary: b.RemainingSalary,
			IsPaid:          log.IsPaid,
		})

		resp.Totals.BaseSalary = resp.Totals.BaseSalary.Add(b.BaseSalary)
		resp.Totals.TravelTotal = resp.Totals.TravelTotal.Add(b.TravelTotal)
		resp.Totals.AdvancesTotal = resp.Totals.AdvancesTotal.Add(b.AdvancesTotal)
		resp.Totals.FinalSalary = resp.Totals.FinalSalary.Add(b.FinalSalary)
		resp.Totals.RemainingSalary = resp.Totals.RemainingSalary.Add(b.RemainingSalary)
		if log.IsPaid {
			resp.Totals.PaidCount++
		}
	}

	return resp, nil
}

// RenderStatementPDF renders the monthly statement as an A4 landscape table.
func (s *PayrollServiceImpl) RenderStatementPDF(ctx context.Context, month string) ([]byte, error) {
	st, err := s.GetStatement(ctx, month)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Payroll statement %s", st.Month), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Payroll statement %s", st.Month))
	pdf.Ln(12)

	headers := []string{"Employee", "Role", "Hours", "Days", "Base", "Travel", "Advances", "Final", "Remaining", "Paid"}
	widths := []float64{50, 35, 18, 14, 26, 24, 26, 26, 28, 14}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, r := range st.Rows {
		paid := "no"
		if r.IsPaid {
			paid = "yes"
		}
		cells := []string{
			tr(r.Name), tr(r.Role), r.TotalHours.StringFixed(2), fmt.Sprintf("%d", r.DaysWorked),
			r.BaseSalary.StringFixed(2), r.TravelTotal.StringFixed(2), r.AdvancesTotal.StringFixed(2),
			r.FinalSalary.StringFixed(2), r.RemainingSalary.StringFixed(2), paid,
		}
		for i, c := range cells {
			align := "R"
			if i < 2 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 7, c, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	totals := []string{
		"Total", "", "", "",
		st.Totals.BaseSalary.StringFixed(2), st.Totals.TravelTotal.StringFixed(2), st.Totals.AdvancesTotal.StringFixed(2),
		st.Totals.FinalSalary.StringFixed(2), st.Totals.RemainingSalary.StringFixed(2),
		fmt.Sprintf("%d/%d", st.Totals.PaidCount, len(st.Rows)),
	}
	for i, c := range totals {
		pdf.CellFormat(widths[i], 8, c, "1", 0, "R", true, 0, "")
	}
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render statement pdf: %w", err)
	}
	return buf.Bytes(), nil
}
