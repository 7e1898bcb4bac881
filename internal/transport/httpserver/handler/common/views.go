package common

import (
	"time"

	"institute-app-go/internal/domain/admission"
	"institute-app-go/internal/domain/billing"
	"institute-app-go/internal/domain/ledger"
)

type FamilyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Balance   int64     `json:"balance"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TransactionResponse struct {
	ID            string     `json:"id"`
	Direction     string     `json:"direction"`
	Category      string     `json:"category"`
	Amount        int64      `json:"amount"`
	FamilyID      *string    `json:"family_id"`
	StudentID     *string    `json:"student_id"`
	StaffID       *string    `json:"staff_id"`
	ExpenseHead   *string    `json:"expense_head"`
	Description   string     `json:"description"`
	IsVoid        bool       `json:"is_void"`
	VoidedAt      *time.Time `json:"voided_at"`
	VoidedBy      *string    `json:"voided_by"`
	ReceiptNumber *string    `json:"receipt_number"`
	Channel       *string    `json:"channel"`
	CreatedAt     time.Time  `json:"created_at"`
}

type StudentResponse struct {
	ID          string    `json:"id"`
	FamilyID    string    `json:"family_id"`
	Name        string    `json:"name"`
	ClassName   string    `json:"class_name"`
	FeeOverride *int64    `json:"fee_override"`
	JoinedOn    string    `json:"joined_on"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

type JoiningFeeResponse struct {
	Amount        int64  `json:"amount"`
	MonthlyFee    int64  `json:"monthly_fee"`
	IsProRated    bool   `json:"is_pro_rated"`
	Explanation   string `json:"explanation"`
	DaysRemaining int    `json:"days_remaining,omitempty"`
	DaysInMonth   int    `json:"days_in_month"`
	DailyRate     string `json:"daily_rate,omitempty"`
}

func ToFamilyResponse(family ledger.Family) FamilyResponse {
	return FamilyResponse{
		ID:        family.ID,
		Name:      family.Name,
		Phone:     family.Phone,
		Balance:   family.Balance,
		Status:    family.Status,
		CreatedAt: family.CreatedAt,
		UpdatedAt: family.UpdatedAt,
	}
}

func ToTransactionResponse(tx ledger.Transaction) TransactionResponse {
	var channel *string
	if tx.Channel != nil {
		value := string(*tx.Channel)
		channel = &value
	}
	return TransactionResponse{
		ID:            tx.ID,
		Direction:     string(tx.Direction),
		Category:      string(tx.Category),
		Amount:        tx.Amount,
		FamilyID:      tx.FamilyID,
		StudentID:     tx.StudentID,
		StaffID:       tx.StaffID,
		ExpenseHead:   tx.ExpenseHead,
		Description:   tx.Description,
		IsVoid:        tx.IsVoid,
		VoidedAt:      tx.VoidedAt,
		VoidedBy:      tx.VoidedBy,
		ReceiptNumber: tx.ReceiptNumber,
		Channel:       channel,
		CreatedAt:     tx.CreatedAt,
	}
}

func ToTransactionResponses(txs []ledger.Transaction) []TransactionResponse {
	response := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		response = append(response, ToTransactionResponse(tx))
	}
	return response
}

func ToStudentResponse(student admission.Student) StudentResponse {
	return StudentResponse{
		ID:          student.ID,
		FamilyID:    student.FamilyID,
		Name:        student.Name,
		ClassName:   student.ClassName,
		FeeOverride: student.FeeOverride,
		JoinedOn:    FormatDate(student.JoinedOn),
		IsActive:    student.IsActive,
		CreatedAt:   student.CreatedAt,
	}
}

func ToJoiningFeeResponse(fee billing.JoiningFee) JoiningFeeResponse {
	response := JoiningFeeResponse{
		Amount:        fee.Amount,
		MonthlyFee:    fee.MonthlyFee,
		IsProRated:    fee.IsProRated,
		Explanation:   fee.Explanation,
		DaysRemaining: fee.DaysRemaining,
		DaysInMonth:   fee.DaysInMonth,
	}
	if fee.IsProRated {
		response.DailyRate = fee.DailyRate.StringFixed(2)
	}
	return response
}
