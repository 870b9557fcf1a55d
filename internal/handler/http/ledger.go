package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/ledger-backend-go/internal/domain/ledger"
	"github.com/cmlabs-hris/ledger-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ledger-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ledger-backend-go/internal/pkg/period"
	"github.com/go-chi/chi/v5"
)

const streamKeepalive = 30 * time.Second

type LedgerHandler interface {
	// Transactions
	ListTransactions(w http.ResponseWriter, r *http.Request)
	GetTransaction(w http.ResponseWriter, r *http.Request)
	CreateTransaction(w http.ResponseWriter, r *http.Request)
	UpdateTransaction(w http.ResponseWriter, r *http.Request)
	DeleteTransaction(w http.ResponseWriter, r *http.Request)
	Categories(w http.ResponseWriter, r *http.Request)

	// SSE
	GetStreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.LedgerService
	jwtService    jwt.Service
}

func NewLedgerHandler(ledgerService ledger.LedgerService, jwtService jwt.Service) LedgerHandler {
	return &ledgerHandlerImpl{
		ledgerService: ledgerService,
		jwtService:    jwtService,
	}
}

// ListTransactions returns transactions matching the query filters with totals
func (h *ledgerHandlerImpl) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := ledger.TransactionFilter{
		Type:       ledger.TransactionType(q.Get("type")),
		Category:   q.Get("category"),
		Kind:       ledger.SourceKind(q.Get("kind")),
		Search:     q.Get("search"),
		ManualOnly: q.Get("manual") == "true",
	}
	if m := q.Get("month"); m != "" {
		month, err := period.ParseMonth(m)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.Month = month
	}

	result, err := h.ledgerService.ListTransactions(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Transaction ID is required", nil)
		return
	}

	result, err := h.ledgerService.GetTransaction(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *ledgerHandlerImpl) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req ledger.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.ledgerService.CreateTransaction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Transaction created successfully", result)
}

func (h *ledgerHandlerImpl) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Transaction ID is required", nil)
		return
	}

	var req ledger.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.ledgerService.UpdateTransaction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Transaction updated successfully", result)
}

// DeleteTransaction removes a transaction and reports the payroll reversal it caused
func (h *ledgerHandlerImpl) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Transaction ID is required", nil)
		return
	}

	result, err := h.ledgerService.DeleteTransaction(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Transaction deleted successfully", result)
}

func (h *ledgerHandlerImpl) Categories(w http.ResponseWriter, r *http.Request) {
	result, err := h.ledgerService.Categories(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetStreamToken generates a short-lived token for SSE connections
func (h *ledgerHandlerImpl) GetStreamToken(w http.ResponseWriter, r *http.Request) {
	subject := middleware.Subject(r)
	if subject == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.jwtService.GenerateSSEToken(subject, middleware.Role(r))
	if err != nil {
		response.InternalServerError(w, "Failed to generate stream token")
		return
	}

	response.Success(w, ledger.StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream pushes ledger changes to the client as server-sent events
func (h *ledgerHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot set headers, so the token comes in the query
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	subject, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.ledgerService.Subscribe(r.Context())
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"subject\":%q}\n\n", subject)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
