package enrollment

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	admissiondomain "institute-app-go/internal/domain/admission"
	ledgerdomain "institute-app-go/internal/domain/ledger"
	"institute-app-go/internal/transport/httpserver/handler/common"
	"institute-app-go/internal/transport/httpserver/middleware"
)

type admissionRequest struct {
	FamilyName    string              `json:"family_name" validate:"required,notblank,max=120"`
	Phone         string              `json:"phone" validate:"required,notblank,max=32"`
	StudentName   string              `json:"student_name" validate:"required,notblank,max=120"`
	ClassName     string              `json:"class_name" validate:"required,notblank,max=50"`
	FeeOverride   *int64              `json:"fee_override" validate:"omitempty,gte=0"`
	JoiningDate   string              `json:"joining_date" validate:"omitempty,datetime=2006-01-02"`
	InitialCharge *int64              `json:"initial_charge" validate:"omitempty,gte=0"`
	Payment       *deskPaymentRequest `json:"payment"`
}

type deskPaymentRequest struct {
	Amount  int64  `json:"amount" validate:"gt=0"`
	Channel string `json:"channel" validate:"required,oneof=CASH UPI BANK_TRANSFER CHEQUE"`
}

type admissionResponse struct {
	Student   common.StudentResponse      `json:"student"`
	Family    common.FamilyResponse       `json:"family"`
	NewFamily bool                        `json:"new_family"`
	Billing   common.JoiningFeeResponse   `json:"billing"`
	Charge    *common.TransactionResponse `json:"charge"`
	Payment   *common.TransactionResponse `json:"payment"`
	Balance   int64                       `json:"balance"`
}

type enrolledBatchResponse struct {
	EnrollmentID string    `json:"enrollment_id"`
	BatchID      string    `json:"batch_id"`
	BatchName    string    `json:"batch_name"`
	Fee          int64     `json:"fee"`
	Schedule     string    `json:"schedule"`
	EnrolledAt   time.Time `json:"enrolled_at"`
}

func (h *Handlers) Admit(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "missing actor")
		return
	}

	var req admissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if fields := h.validator.Struct(req); fields != nil {
		common.WriteValidationError(w, fields)
		return
	}

	input := admissiondomain.AdmissionInput{
		FamilyName:    req.FamilyName,
		Phone:         req.Phone,
		StudentName:   req.StudentName,
		ClassName:     req.ClassName,
		FeeOverride:   req.FeeOverride,
		InitialCharge: req.InitialCharge,
		ActorID:       actor.ID,
	}
	joiningDate, err := common.ParseDateParam(req.JoiningDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "joining_date must be YYYY-MM-DD")
		return
	}
	if joiningDate != nil {
		input.JoiningDate = *joiningDate
	}
	if req.Payment != nil {
		input.Payment = &admissiondomain.DeskPayment{
			Amount:  req.Payment.Amount,
			Channel: ledgerdomain.Channel(req.Payment.Channel),
		}
	}

	result, err := h.Admission.Admit(r.Context(), input)
	if err != nil {
		common.WriteDomainError(w, h.log, "admissions.admit: admit failed", err, "actor_id", actor.ID)
		return
	}

	response := admissionResponse{
		Student:   common.ToStudentResponse(result.Student),
		Family:    common.ToFamilyResponse(result.Family),
		NewFamily: result.NewFamily,
		Billing:   common.ToJoiningFeeResponse(result.Billing),
		Balance:   result.Balance,
	}
	if result.Charge != nil {
		charge := common.ToTransactionResponse(*result.Charge)
		response.Charge = &charge
	}
	if result.Payment != nil {
		payment := common.ToTransactionResponse(*result.Payment)
		response.Payment = &payment
	}
	writeJSON(w, http.StatusCreated, response)
}

func (h *Handlers) GetStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	student, err := h.Admission.GetStudent(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, h.log, "students.get: get failed", err, "student_id", id)
		return
	}
	writeJSON(w, http.StatusOK, common.ToStudentResponse(*student))
}

func (h *Handlers) DeactivateStudent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Admission.DeactivateStudent(r.Context(), id); err != nil {
		common.WriteDomainError(w, h.log, "students.deactivate: deactivate failed", err, "student_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListStudentEnrollments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Admission.GetStudent(r.Context(), id); err != nil {
		common.WriteDomainError(w, h.log, "students.enrollments: get student failed", err, "student_id", id)
		return
	}

	enrolled, err := h.Academics.ListStudentEnrollments(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, h.log, "students.enrollments: list failed", err, "student_id", id)
		return
	}

	response := make([]enrolledBatchResponse, 0, len(enrolled))
	for _, e := range enrolled {
		response = append(response, enrolledBatchResponse{
			EnrollmentID: e.EnrollmentID,
			BatchID:      e.BatchID,
			BatchName:    e.BatchName,
			Fee:          e.Fee,
			Schedule:     e.Schedule,
			EnrolledAt:   e.EnrolledAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}
