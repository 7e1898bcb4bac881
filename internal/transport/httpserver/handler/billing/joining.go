package billing

import (
	"net/http"
	"strings"
	"time"

	billingdomain "institute-app-go/internal/domain/billing"
	"institute-app-go/internal/transport/httpserver/handler/common"
)

// JoiningFee previews the first charge for a student joining on date. With a
// class the fee goes through the resolver, otherwise fee is required.
func (h *Handlers) JoiningFee(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	date, err := common.ParseDateParam(query.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return
	}
	joiningDate := time.Now().UTC()
	if date != nil {
		joiningDate = *date
	}

	fee, err := common.ParseAmountParam(query.Get("fee"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_fee", "fee must be a non-negative integer")
		return
	}

	className := strings.TrimSpace(query.Get("class"))
	if className != "" {
		result, err := h.Admission.PreviewJoiningFee(r.Context(), className, fee, joiningDate)
		if err != nil {
			common.WriteDomainError(w, h.log, "billing.joining_fee: preview failed", err, "class_name", className)
			return
		}
		writeJSON(w, http.StatusOK, common.ToJoiningFeeResponse(result))
		return
	}

	if fee == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "fee or class is required")
		return
	}

	result, err := billingdomain.ComputeJoiningFee(joiningDate, *fee)
	if err != nil {
		common.WriteDomainError(w, h.log, "billing.joining_fee: compute failed", err)
		return
	}
	writeJSON(w, http.StatusOK, common.ToJoiningFeeResponse(result))
}
