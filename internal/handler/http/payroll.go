package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/ledger-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Time log and settlement
	RecordHours(w http.ResponseWriter, r *http.Request)
	AddAdvance(w http.ResponseWriter, r *http.Request)
	SetAdvanceTotal(w http.ResponseWriter, r *http.Request)
	RefundAdvance(w http.ResponseWriter, r *http.Request)
	SetTravelExpense(w http.ResponseWriter, r *http.Request)
	Settle(w http.ResponseWriter, r *http.Request)
	CancelSettlement(w http.ResponseWriter, r *http.Request)

	// Read models
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetStatement(w http.ResponseWriter, r *http.Request)
	GetStatementPDF(w http.ResponseWriter, r *http.Request)

	// Bulk and maintenance
	PostMonthlyPayroll(w http.ResponseWriter, r *http.Request)
	MigrateLegacyTags(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func periodFromURL(r *http.Request) payroll.PeriodRequest {
	return payroll.PeriodRequest{
		EmployeeID: chi.URLParam(r, "employeeId"),
		Month:      chi.URLParam(r, "month"),
	}
}

// decodeAmount reads {"amount": ...} into a request scoped by the URL.
func decodeAmount(r *http.Request) (payroll.AmountRequest, error) {
	req := payroll.AmountRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, err
	}
	req.PeriodRequest = periodFromURL(r)
	return req, nil
}

// ========== TIME LOG ==========

func (h *payrollHandlerImpl) RecordHours(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(chi.URLParam(r, "day"))
	if err != nil {
		response.BadRequest(w, "Day must be a number", nil)
		return
	}

	var req payroll.RecordHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.PeriodRequest = periodFromURL(r)
	req.Day = day

	result, err := h.payrollService.RecordHours(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== ADVANCES ==========

func (h *payrollHandlerImpl) AddAdvance(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAmount(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.AddAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Advance recorded", result)
}

func (h *payrollHandlerImpl) SetAdvanceTotal(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAmount(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.SetAdvanceTotal(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) RefundAdvance(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAmount(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.RefundAdvance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Advance refunded", result)
}

// ========== TRAVEL ==========

func (h *payrollHandlerImpl) SetTravelExpense(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAmount(r)
	if err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.SetTravelExpense(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SETTLEMENT ==========

func (h *payrollHandlerImpl) Settle(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.Settle(r.Context(), periodFromURL(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary settled", result)
}

func (h *payrollHandlerImpl) CancelSettlement(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.CancelSettlement(r.Context(), periodFromURL(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settlement cancelled", result)
}

// ========== READ MODELS ==========

func (h *payrollHandlerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetSummary(r.Context(), periodFromURL(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetStatement(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetStatement(r.Context(), chi.URLParam(r, "month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetStatementPDF(w http.ResponseWriter, r *http.Request) {
	month := chi.URLParam(r, "month")
	doc, err := h.payrollService.RenderStatementPDF(r.Context(), month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, "application/pdf", fmt.Sprintf("payroll-%s.pdf", month), doc)
}

// ========== BULK ==========

func (h *payrollHandlerImpl) PostMonthlyPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.BulkPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Month = chi.URLParam(r, "month")

	result, err := h.payrollService.PostMonthlyPayroll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if result.Empty() {
		response.SuccessWithMessage(w, "No salaries to post for this month", result)
		return
	}
	response.SuccessWithMessage(w, "Payroll posted", result)
}

func (h *payrollHandlerImpl) MigrateLegacyTags(w http.ResponseWriter, r *http.Request) {
	dryRun := r.URL.Query().Get("dry_run") == "true" || r.URL.Query().Get("dry_run") == "1"

	report, err := h.payrollService.MigrateLegacyTags(r.Context(), dryRun)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}
