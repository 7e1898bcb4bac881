package common

import (
	"errors"
	"net/http"

	"institute-app-go/internal/domain/academics"
	"institute-app-go/internal/domain/admission"
	"institute-app-go/internal/domain/billing"
	"institute-app-go/internal/domain/fees"
	"institute-app-go/internal/domain/ledger"
	"institute-app-go/pkg/logger"
)

type errorRule struct {
	target error
	status int
	code   string
}

var errorRules = []errorRule{
	{ledger.ErrFamilyNotFound, http.StatusNotFound, "family_not_found"},
	{ledger.ErrTransactionNotFound, http.StatusNotFound, "transaction_not_found"},
	{admission.ErrStudentNotFound, http.StatusNotFound, "student_not_found"},
	{academics.ErrBatchNotFound, http.StatusNotFound, "batch_not_found"},
	{academics.ErrEnrollmentNotFound, http.StatusNotFound, "enrollment_not_found"},
	{fees.ErrStructureNotFound, http.StatusNotFound, "fee_structure_not_found"},

	{academics.ErrScheduleConflict, http.StatusConflict, "time_conflict"},
	{academics.ErrAlreadyEnrolled, http.StatusConflict, "already_enrolled"},
	{academics.ErrBatchInactive, http.StatusConflict, "batch_inactive"},
	{academics.ErrStudentInactive, http.StatusConflict, "student_inactive"},
	{ledger.ErrAlreadyVoided, http.StatusConflict, "already_voided"},
	{ledger.ErrPhoneTaken, http.StatusConflict, "phone_taken"},
	{ledger.ErrDuplicateReceipt, http.StatusConflict, "duplicate_receipt"},
	{fees.ErrDuplicateActive, http.StatusConflict, "fee_structure_exists"},

	{ledger.ErrVoidForbidden, http.StatusForbidden, "forbidden"},

	{ledger.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
	{ledger.ErrInvalidDirection, http.StatusBadRequest, "invalid_direction"},
	{ledger.ErrInvalidCategory, http.StatusBadRequest, "invalid_category"},
	{ledger.ErrInvalidChannel, http.StatusBadRequest, "invalid_channel"},
	{ledger.ErrFamilyRequired, http.StatusBadRequest, "family_required"},
	{ledger.ErrInvalidReason, http.StatusBadRequest, "invalid_reason"},
	{ledger.ErrInvalidFamilyName, http.StatusBadRequest, "invalid_request"},
	{ledger.ErrInvalidPhone, http.StatusBadRequest, "invalid_request"},
	{ledger.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{admission.ErrFeeNotConfigured, http.StatusBadRequest, "fee_not_configured"},
	{admission.ErrInvalidStudentName, http.StatusBadRequest, "invalid_request"},
	{admission.ErrInvalidClassName, http.StatusBadRequest, "invalid_request"},
	{admission.ErrNegativeOverride, http.StatusBadRequest, "invalid_request"},
	{admission.ErrNegativeCharge, http.StatusBadRequest, "invalid_request"},
	{academics.ErrInvalidBatchName, http.StatusBadRequest, "invalid_request"},
	{academics.ErrNegativeFee, http.StatusBadRequest, "invalid_request"},
	{fees.ErrInvalidClassName, http.StatusBadRequest, "invalid_request"},
	{fees.ErrNegativeFee, http.StatusBadRequest, "invalid_request"},
	{billing.ErrNegativeFee, http.StatusBadRequest, "invalid_request"},
}

// WriteDomainError maps a service error onto the error envelope. Anything
// unrecognised, ledger integrity failures included, is logged as internal and
// rendered without detail.
func WriteDomainError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	for _, rule := range errorRules {
		if !errors.Is(err, rule.target) {
			continue
		}
		log.BusinessError(op, err, args...)
		writeError(w, rule.status, rule.code, err.Error())
		return
	}

	log.InternalError(op, err, args...)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
