package enrollment

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	academicsdomain "institute-app-go/internal/domain/academics"
	"institute-app-go/internal/transport/httpserver/handler/common"
)

type createBatchRequest struct {
	Name      string  `json:"name" validate:"required,notblank,max=120"`
	Fee       int64   `json:"fee" validate:"gte=0"`
	Schedule  string  `json:"schedule" validate:"max=120"`
	TeacherID *string `json:"teacher_id" validate:"omitempty,notblank"`
}

type updateBatchRequest struct {
	Name      *string `json:"name" validate:"omitempty,notblank,max=120"`
	Fee       *int64  `json:"fee" validate:"omitempty,gte=0"`
	Schedule  *string `json:"schedule" validate:"omitempty,max=120"`
	TeacherID *string `json:"teacher_id"`
}

type enrollRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
}

type checkScheduleRequest struct {
	Candidate string   `json:"candidate" validate:"required"`
	Existing  []string `json:"existing"`
}

type batchResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Fee       int64     `json:"fee"`
	Schedule  string    `json:"schedule"`
	TeacherID *string   `json:"teacher_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type enrollmentResponse struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"student_id"`
	BatchID    string    `json:"batch_id"`
	IsActive   bool      `json:"is_active"`
	EnrolledAt time.Time `json:"enrolled_at"`
	Created    bool      `json:"created"`
}

type conflictEnvelope struct {
	Error conflictBody `json:"error"`
}

type conflictBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	BatchID  string `json:"batch_id"`
	Batch    string `json:"batch"`
	Schedule string `json:"schedule"`
}

type scheduleCheckResponse struct {
	Conflict bool   `json:"conflict"`
	With     string `json:"with,omitempty"`
}

func (h *Handlers) ListBatches(w http.ResponseWriter, r *http.Request) {
	includeInactive, err := common.ParseBoolParam(r.URL.Query().Get("include_inactive"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "include_inactive must be a boolean")
		return
	}

	batches, err := h.Academics.ListBatches(r.Context(), includeInactive)
	if err != nil {
		common.WriteDomainError(w, h.log, "batches.list: list failed", err)
		return
	}

	response := make([]batchResponse, 0, len(batches))
	for _, batch := range batches {
		response = append(response, toBatchResponse(batch))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) GetBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	batch, err := h.Academics.GetBatch(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, h.log, "batches.get: get failed", err, "batch_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponse(*batch))
}

func (h *Handlers) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if fields := h.validator.Struct(req); fields != nil {
		common.WriteValidationError(w, fields)
		return
	}

	batch, err := h.Academics.CreateBatch(r.Context(), academicsdomain.CreateBatchInput{
		Name:      req.Name,
		Fee:       req.Fee,
		Schedule:  req.Schedule,
		TeacherID: req.TeacherID,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "batches.create: create failed", err)
		return
	}
	writeJSON(w, http.StatusCreated, toBatchResponse(*batch))
}

func (h *Handlers) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	var req updateBatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if fields := h.validator.Struct(req); fields != nil {
		common.WriteValidationError(w, fields)
		return
	}

	id := chi.URLParam(r, "id")
	batch, err := h.Academics.UpdateBatch(r.Context(), id, academicsdomain.UpdateBatchInput{
		Name:      req.Name,
		Fee:       req.Fee,
		Schedule:  req.Schedule,
		TeacherID: req.TeacherID,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "batches.update: update failed", err, "batch_id", id)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResponse(*batch))
}

func (h *Handlers) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Academics.DeleteBatch(r.Context(), id); err != nil {
		common.WriteDomainError(w, h.log, "batches.delete: delete failed", err, "batch_id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) Enroll(w http.ResponseWriter, r *http.Request) {
	var req enrollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if fields := h.validator.Struct(req); fields != nil {
		common.WriteValidationError(w, fields)
		return
	}

	batchID := chi.URLParam(r, "id")
	result, err := h.Academics.Enroll(r.Context(), req.StudentID, batchID)
	if err != nil {
		var conflict *academicsdomain.ConflictError
		if errors.As(err, &conflict) {
			writeJSON(w, http.StatusConflict, conflictEnvelope{Error: conflictBody{
				Code:     "time_conflict",
				Message:  "Time Conflict",
				BatchID:  conflict.BatchID,
				Batch:    conflict.BatchName,
				Schedule: conflict.Schedule,
			}})
			return
		}
		common.WriteDomainError(w, h.log, "enrollments.create: enroll failed", err, "student_id", req.StudentID, "batch_id", batchID)
		return
	}

	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}
	writeJSON(w, status, enrollmentResponse{
		ID:         result.Enrollment.ID,
		StudentID:  result.Enrollment.StudentID,
		BatchID:    result.Enrollment.BatchID,
		IsActive:   result.Enrollment.IsActive,
		EnrolledAt: result.Enrollment.EnrolledAt,
		Created:    result.Created,
	})
}

func (h *Handlers) Unenroll(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "id")
	studentID := chi.URLParam(r, "student_id")
	if err := h.Academics.Unenroll(r.Context(), studentID, batchID); err != nil {
		common.WriteDomainError(w, h.log, "enrollments.delete: unenroll failed", err, "student_id", studentID, "batch_id", batchID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) CheckSchedule(w http.ResponseWriter, r *http.Request) {
	var req checkScheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if fields := h.validator.Struct(req); fields != nil {
		common.WriteValidationError(w, fields)
		return
	}

	result := h.Academics.CheckSchedule(req.Candidate, req.Existing)
	writeJSON(w, http.StatusOK, scheduleCheckResponse{Conflict: result.Conflict, With: result.With})
}

func toBatchResponse(batch academicsdomain.Batch) batchResponse {
	return batchResponse{
		ID:        batch.ID,
		Name:      batch.Name,
		Fee:       batch.Fee,
		Schedule:  batch.Schedule,
		TeacherID: batch.TeacherID,
		IsActive:  batch.IsActive,
		CreatedAt: batch.CreatedAt,
	}
}
