package admission

import (
	"time"

	"institute-app-go/internal/domain/billing"
	"institute-app-go/internal/domain/ledger"
)

type Student struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	FamilyID    string    `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"not null"`
	ClassName   string    `gorm:"not null"`
	FeeOverride *int64    `gorm:"type:bigint"`
	JoinedOn    time.Time `gorm:"type:date;not null"`
	IsActive    bool      `gorm:"not null;default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

type DeskPayment struct {
	Amount  int64
	Channel ledger.Channel
}

type AdmissionInput struct {
	FamilyName  string
	Phone       string
	StudentName string
	ClassName   string
	FeeOverride *int64
	// JoiningDate defaults to today.
	JoiningDate time.Time
	// InitialCharge replaces the computed joining fee when set.
	InitialCharge *int64
	Payment       *DeskPayment
	ActorID       string
}

type Admission struct {
	Student   Student
	Family    ledger.Family
	NewFamily bool
	Billing   billing.JoiningFee
	Charge    *ledger.Transaction
	Payment   *ledger.Transaction
	Balance   int64
}

type StudentFilter struct {
	FamilyID        string
	IncludeInactive bool
}
