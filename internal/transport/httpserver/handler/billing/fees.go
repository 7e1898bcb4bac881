package billing

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	feesdomain "institute-app-go/internal/domain/fees"
	"institute-app-go/internal/transport/httpserver/handler/common"
)

type feeResponse struct {
	ClassName  string `json:"class_name"`
	MonthlyFee int64  `json:"monthly_fee"`
	Configured bool   `json:"configured"`
}

type createStructureRequest struct {
	ClassName    string `json:"class_name" validate:"required,notblank,max=50"`
	Session      string `json:"session" validate:"max=20"`
	MonthlyFee   int64  `json:"monthly_fee" validate:"gte=0"`
	AdmissionFee int64  `json:"admission_fee" validate:"gte=0"`
}

type structureResponse struct {
	ID           string    `json:"id"`
	ClassName    string    `json:"class_name"`
	Session      string    `json:"session"`
	MonthlyFee   int64     `json:"monthly_fee"`
	AdmissionFee int64     `json:"admission_fee"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func (h *Handlers) ResolveFee(w http.ResponseWriter, r *http.Request) {
	className := strings.TrimSpace(chi.URLParam(r, "class"))
	if className == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "class is required")
		return
	}

	fee := h.Fees.ResolveMonthlyFee(r.Context(), className)
	writeJSON(w, http.StatusOK, feeResponse{
		ClassName:  className,
		MonthlyFee: fee,
		Configured: fee > 0,
	})
}

func (h *Handlers) ListStructures(w http.ResponseWriter, r *http.Request) {
	structures, err := h.Fees.ListStructures(r.Context())
	if err != nil {
		common.WriteDomainError(w, h.log, "fee_structures.list: list failed", err)
		return
	}

	response := make([]structureResponse, 0, len(structures))
	for _, structure := range structures {
		response = append(response, toStructureResponse(structure))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateStructure(w http.ResponseWriter, r *http.Request) {
	var req createStructureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if fields := h.validator.Struct(req); fields != nil {
		common.WriteValidationError(w, fields)
		return
	}

	structure, err := h.Fees.CreateStructure(r.Context(), feesdomain.CreateStructureInput{
		ClassName:    req.ClassName,
		Session:      req.Session,
		MonthlyFee:   req.MonthlyFee,
		AdmissionFee: req.AdmissionFee,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "fee_structures.create: create failed", err, "class_name", req.ClassName)
		return
	}

	writeJSON(w, http.StatusCreated, toStructureResponse(*structure))
}

func (h *Handlers) DeactivateStructure(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Fees.DeactivateStructure(r.Context(), id); err != nil {
		common.WriteDomainError(w, h.log, "fee_structures.deactivate: deactivate failed", err, "structure_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toStructureResponse(structure feesdomain.FeeStructure) structureResponse {
	return structureResponse{
		ID:           structure.ID,
		ClassName:    structure.ClassName,
		Session:      structure.Session,
		MonthlyFee:   structure.MonthlyFee,
		AdmissionFee: structure.AdmissionFee,
		IsActive:     structure.IsActive,
		CreatedAt:    structure.CreatedAt,
	}
}
