package ledger

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	ledgerdomain "institute-app-go/internal/domain/ledger"
	"institute-app-go/internal/transport/httpserver/handler/common"
	"institute-app-go/internal/transport/httpserver/middleware"
)

type recordTransactionRequest struct {
	Direction   string  `json:"direction" validate:"required,oneof=CREDIT DEBIT"`
	Category    string  `json:"category" validate:"required,oneof=FEE SALARY EXPENSE REFUND"`
	Amount      int64   `json:"amount" validate:"gt=0"`
	FamilyID    *string `json:"family_id" validate:"omitempty,uuid"`
	StudentID   *string `json:"student_id" validate:"omitempty,uuid"`
	StaffID     *string `json:"staff_id" validate:"omitempty,notblank"`
	ExpenseHead *string `json:"expense_head" validate:"omitempty,notblank,max=80"`
	Description string  `json:"description" validate:"max=500"`
}

type paymentRequest struct {
	FamilyID  string  `json:"family_id" validate:"required,uuid"`
	StudentID *string `json:"student_id" validate:"omitempty,uuid"`
	Amount    int64   `json:"amount" validate:"gt=0"`
	Channel   string  `json:"channel" validate:"required,oneof=CASH UPI BANK_TRANSFER CHEQUE"`
}

type voidRequest struct {
	Reason string `json:"reason"`
}

type recordedResponse struct {
	Transaction common.TransactionResponse `json:"transaction"`
	Balance     *int64                     `json:"balance"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := ledgerdomain.TransactionFilter{}
	if familyID := strings.TrimSpace(query.Get("family_id")); familyID != "" {
		filter.FamilyID = &familyID
	}
	if value := strings.TrimSpace(query.Get("category")); value != "" {
		category := ledgerdomain.Category(strings.ToUpper(value))
		if !category.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_category", "unknown transaction category")
			return
		}
		filter.Category = &category
	}

	var err error
	if filter.IncludeVoid, err = common.ParseBoolParam(query.Get("include_void")); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "include_void must be a boolean")
		return
	}
	if filter.Limit, err = common.ParseIntParam(query.Get("limit"), 0); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_limit", "invalid limit")
		return
	}
	if filter.Offset, err = common.ParseIntParam(query.Get("offset"), 0); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_offset", "invalid offset")
		return
	}

	txs, err := h.Ledger.ListTransactions(r.Context(), filter)
	if err != nil {
		common.WriteDomainError(w, h.log, "transactions.list: list failed", err)
		return
	}
	writeJSON(w, http.StatusOK, common.ToTransactionResponses(txs))
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	txn, err := h.Ledger.GetTransaction(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, h.log, "transactions.get: get failed", err, "transaction_id", id)
		return
	}
	writeJSON(w, http.StatusOK, common.ToTransactionResponse(*txn))
}

func (h *Handlers) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "missing actor")
		return
	}

	var req recordTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if fields := h.validator.Struct(req); fields != nil {
		common.WriteValidationError(w, fields)
		return
	}

	recorded, err := h.Ledger.RecordTransaction(r.Context(), ledgerdomain.RecordInput{
		Direction:   ledgerdomain.Direction(req.Direction),
		Category:    ledgerdomain.Category(req.Category),
		Amount:      req.Amount,
		FamilyID:    req.FamilyID,
		StudentID:   req.StudentID,
		StaffID:     req.StaffID,
		ExpenseHead: req.ExpenseHead,
		Description: strings.TrimSpace(req.Description),
		ActorID:     actor.ID,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "transactions.record: record failed", err, "actor_id", actor.ID)
		return
	}

	writeJSON(w, http.StatusCreated, recordedResponse{
		Transaction: common.ToTransactionResponse(recorded.Transaction),
		Balance:     recorded.Balance,
	})
}

func (h *Handlers) CollectPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "missing actor")
		return
	}

	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if fields := h.validator.Struct(req); fields != nil {
		common.WriteValidationError(w, fields)
		return
	}

	recorded, err := h.Ledger.CollectPayment(r.Context(), ledgerdomain.PaymentInput{
		FamilyID:  req.FamilyID,
		StudentID: req.StudentID,
		Amount:    req.Amount,
		Channel:   ledgerdomain.Channel(req.Channel),
		ActorID:   actor.ID,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "payments.collect: collect failed", err, "family_id", req.FamilyID, "actor_id", actor.ID)
		return
	}

	writeJSON(w, http.StatusCreated, recordedResponse{
		Transaction: common.ToTransactionResponse(recorded.Transaction),
		Balance:     recorded.Balance,
	})
}

func (h *Handlers) VoidTransaction(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "missing actor")
		return
	}

	var req voidRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	id := chi.URLParam(r, "id")
	voided, err := h.Ledger.VoidTransaction(r.Context(), ledgerdomain.VoidInput{
		TransactionID: id,
		Reason:        req.Reason,
		ActorID:       actor.ID,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "transactions.void: void failed", err, "transaction_id", id, "actor_id", actor.ID)
		return
	}

	writeJSON(w, http.StatusOK, recordedResponse{
		Transaction: common.ToTransactionResponse(voided.Transaction),
		Balance:     voided.Balance,
	})
}
