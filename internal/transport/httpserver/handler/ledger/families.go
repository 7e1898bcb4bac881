package ledger

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	admissiondomain "institute-app-go/internal/domain/admission"
	ledgerdomain "institute-app-go/internal/domain/ledger"
	"institute-app-go/internal/transport/httpserver/handler/common"
)

type updateFamilyRequest struct {
	Name  *string `json:"name" validate:"omitempty,notblank,max=120"`
	Phone *string `json:"phone" validate:"omitempty,notblank,max=32"`
}

type totalDueResponse struct {
	FamilyID string `json:"family_id"`
	TotalDue int64  `json:"total_due"`
}

type reconcileResponse struct {
	FamilyID    string `json:"family_id"`
	Balance     int64  `json:"balance"`
	LedgerTotal int64  `json:"ledger_total"`
	Consistent  bool   `json:"consistent"`
}

func (h *Handlers) ListFamilies(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := common.ParseIntParam(query.Get("limit"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_limit", "invalid limit")
		return
	}
	offset, err := common.ParseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_offset", "invalid offset")
		return
	}

	families, err := h.Ledger.ListFamilies(r.Context(), ledgerdomain.FamilyFilter{
		Status: strings.ToLower(strings.TrimSpace(query.Get("status"))),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "families.list: list failed", err)
		return
	}

	response := make([]common.FamilyResponse, 0, len(families))
	for _, family := range families {
		response = append(response, common.ToFamilyResponse(family))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) LookupFamily(w http.ResponseWriter, r *http.Request) {
	phone := r.URL.Query().Get("phone")
	if strings.TrimSpace(phone) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "phone is required")
		return
	}

	family, err := h.Ledger.LookupFamilyByPhone(r.Context(), phone)
	if err != nil {
		common.WriteDomainError(w, h.log, "families.lookup: lookup failed", err)
		return
	}
	writeJSON(w, http.StatusOK, common.ToFamilyResponse(*family))
}

func (h *Handlers) GetFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	family, err := h.Ledger.GetFamily(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, h.log, "families.get: get failed", err, "family_id", id)
		return
	}
	writeJSON(w, http.StatusOK, common.ToFamilyResponse(*family))
}

func (h *Handlers) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	var req updateFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if fields := h.validator.Struct(req); fields != nil {
		common.WriteValidationError(w, fields)
		return
	}
	if req.Name == nil && req.Phone == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "nothing to update")
		return
	}

	id := chi.URLParam(r, "id")
	family, err := h.Ledger.UpdateFamily(r.Context(), id, ledgerdomain.UpdateFamilyInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "families.update: update failed", err, "family_id", id)
		return
	}
	writeJSON(w, http.StatusOK, common.ToFamilyResponse(*family))
}

func (h *Handlers) DeactivateFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Ledger.DeactivateFamily(r.Context(), id); err != nil {
		common.WriteDomainError(w, h.log, "families.deactivate: deactivate failed", err, "family_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListFamilyStudents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	includeInactive, err := common.ParseBoolParam(r.URL.Query().Get("include_inactive"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "include_inactive must be a boolean")
		return
	}

	students, err := h.Admission.ListStudents(r.Context(), admissiondomain.StudentFilter{
		FamilyID:        id,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "families.students: list failed", err, "family_id", id)
		return
	}

	response := make([]common.StudentResponse, 0, len(students))
	for _, student := range students {
		response = append(response, common.ToStudentResponse(student))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) TotalDue(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	total, err := h.Ledger.TotalDue(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, h.log, "families.total_due: compute failed", err, "family_id", id)
		return
	}
	writeJSON(w, http.StatusOK, totalDueResponse{FamilyID: id, TotalDue: total})
}

func (h *Handlers) Reconcile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	result, err := h.Ledger.Reconcile(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, h.log, "families.reconcile: reconcile failed", err, "family_id", id)
		return
	}
	writeJSON(w, http.StatusOK, reconcileResponse{
		FamilyID:    result.FamilyID,
		Balance:     result.Balance,
		LedgerTotal: result.LedgerTotal,
		Consistent:  result.Consistent,
	})
}
