package admission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"institute-app-go/internal/domain/billing"
	"institute-app-go/internal/domain/fees"
	"institute-app-go/internal/domain/ledger"
	"institute-app-go/pkg/logger"
)

type Service struct {
	repo     Repository
	fees     *fees.Factory
	receipts ledger.ReceiptGenerator
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, feeFactory *fees.Factory, receipts ledger.ReceiptGenerator, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:     repo,
		fees:     feeFactory,
		receipts: receipts,
		log:      log,
		now:      time.Now,
	}
}

// Admit creates the family (when the phone is new), the student and the
// joining charge in one store transaction. A desk payment, when given, is
// recorded in the same transaction.
func (s *Service) Admit(ctx context.Context, input AdmissionInput) (*Admission, error) {
	input.FamilyName = strings.TrimSpace(input.FamilyName)
	input.StudentName = strings.TrimSpace(input.StudentName)
	input.ClassName = strings.TrimSpace(input.ClassName)
	input.Phone = ledger.NormalizePhone(input.Phone)
	if err := validateAdmission(input); err != nil {
		return nil, err
	}

	joiningDate := input.JoiningDate
	if joiningDate.IsZero() {
		joiningDate = s.now()
	}
	year, month, day := joiningDate.Date()
	joinedOn := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	joiningFee, err := s.joiningFee(ctx, input.ClassName, input.FeeOverride, joinedOn)
	if err != nil {
		return nil, err
	}

	charge := joiningFee.Amount
	if input.InitialCharge != nil {
		charge = *input.InitialCharge
	}

	var receipt string
	if input.Payment != nil {
		receipt, err = s.receipts.NextReceiptNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("admission.admit: receipt number: %w", err)
		}
	}

	result := Admission{Billing: joiningFee}
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		ledgerRepo := tx.Ledger()

		family, created, err := findOrCreateFamily(ctx, ledgerRepo, input.FamilyName, input.Phone)
		if err != nil {
			return err
		}
		result.NewFamily = created
		result.Balance = family.Balance

		student := Student{
			ID:          uuid.NewString(),
			FamilyID:    family.ID,
			Name:        input.StudentName,
			ClassName:   input.ClassName,
			FeeOverride: input.FeeOverride,
			JoinedOn:    joinedOn,
			IsActive:    true,
		}
		if err := tx.CreateStudent(ctx, &student); err != nil {
			return err
		}
		result.Student = student

		if charge > 0 {
			recorded, err := ledger.Apply(ctx, ledgerRepo, ledger.RecordInput{
				Direction:   ledger.Debit,
				Category:    ledger.CategoryFee,
				Amount:      charge,
				FamilyID:    &family.ID,
				StudentID:   &student.ID,
				Description: fmt.Sprintf("Admission fee for %s (%s)", student.Name, joiningFee.Explanation),
				ActorID:     input.ActorID,
			})
			if err != nil {
				return err
			}
			result.Charge = &recorded.Transaction
			result.Balance = *recorded.Balance
		}

		if input.Payment != nil {
			channel := input.Payment.Channel
			recorded, err := ledger.Apply(ctx, ledgerRepo, ledger.RecordInput{
				Direction:     ledger.Credit,
				Category:      ledger.CategoryFee,
				Amount:        input.Payment.Amount,
				FamilyID:      &family.ID,
				StudentID:     &student.ID,
				Description:   fmt.Sprintf("Payment via %s", channel),
				ReceiptNumber: &receipt,
				Channel:       &channel,
				ActorID:       input.ActorID,
			})
			if err != nil {
				return err
			}
			result.Payment = &recorded.Transaction
			result.Balance = *recorded.Balance
		}

		family.Balance = result.Balance
		result.Family = *family
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Audit("admission.created",
		"student_id", result.Student.ID,
		"family_id", result.Family.ID,
		"new_family", result.NewFamily,
		"charge", charge,
		"pro_rated", joiningFee.IsProRated,
		"actor_id", input.ActorID,
	)
	return &result, nil
}

// PreviewJoiningFee runs the admission fee calculation without writing anything.
func (s *Service) PreviewJoiningFee(ctx context.Context, className string, override *int64, joiningDate time.Time) (billing.JoiningFee, error) {
	className = strings.TrimSpace(className)
	if className == "" && override == nil {
		return billing.JoiningFee{}, ErrInvalidClassName
	}
	if override != nil && *override < 0 {
		return billing.JoiningFee{}, ErrNegativeOverride
	}
	if joiningDate.IsZero() {
		joiningDate = s.now()
	}
	return s.joiningFee(ctx, className, override, joiningDate)
}

func (s *Service) joiningFee(ctx context.Context, className string, override *int64, joiningDate time.Time) (billing.JoiningFee, error) {
	monthlyFee := fees.EffectiveMonthlyFee(ctx, s.fees.NewResolver(), className, override)
	if monthlyFee == 0 && override == nil {
		return billing.JoiningFee{}, fmt.Errorf("%w: %q", ErrFeeNotConfigured, className)
	}
	return billing.ComputeJoiningFee(joiningDate, monthlyFee)
}

func (s *Service) GetStudent(ctx context.Context, id string) (*Student, error) {
	return s.repo.GetStudent(ctx, id)
}

func (s *Service) ListStudents(ctx context.Context, filter StudentFilter) ([]Student, error) {
	if filter.FamilyID != "" {
		if _, err := s.repo.Ledger().GetFamily(ctx, filter.FamilyID); err != nil {
			return nil, err
		}
	}
	return s.repo.ListStudents(ctx, filter)
}

// DeactivateStudent withdraws a student. The family keeps its ledger history.
func (s *Service) DeactivateStudent(ctx context.Context, id string) error {
	ok, err := s.repo.DeactivateStudent(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStudentNotFound
	}
	s.log.Audit("student.deactivated", "student_id", id)
	return nil
}

func validateAdmission(input AdmissionInput) error {
	switch {
	case input.FamilyName == "":
		return ledger.ErrInvalidFamilyName
	case input.Phone == "":
		return ledger.ErrInvalidPhone
	case input.StudentName == "":
		return ErrInvalidStudentName
	case input.ClassName == "":
		return ErrInvalidClassName
	case input.FeeOverride != nil && *input.FeeOverride < 0:
		return ErrNegativeOverride
	case input.InitialCharge != nil && *input.InitialCharge < 0:
		return ErrNegativeCharge
	}
	if input.Payment != nil {
		if input.Payment.Amount <= 0 {
			return ledger.ErrInvalidAmount
		}
		if !input.Payment.Channel.Valid() {
			return ledger.ErrInvalidChannel
		}
	}
	return nil
}

func findOrCreateFamily(ctx context.Context, repo ledger.Repository, name, phone string) (*ledger.Family, bool, error) {
	family, err := repo.GetFamilyByPhone(ctx, phone)
	if err == nil {
		if family.Status != ledger.FamilyStatusActive {
			if _, err := repo.SetFamilyStatus(ctx, family.ID, ledger.FamilyStatusActive); err != nil {
				return nil, false, err
			}
			family.Status = ledger.FamilyStatusActive
		}
		return family, false, nil
	}
	if !errors.Is(err, ledger.ErrFamilyNotFound) {
		return nil, false, err
	}

	family = &ledger.Family{
		ID:     uuid.NewString(),
		Name:   name,
		Phone:  phone,
		Status: ledger.FamilyStatusActive,
	}
	if err := repo.CreateFamily(ctx, family); err != nil {
		return nil, false, err
	}
	return family, true, nil
}
