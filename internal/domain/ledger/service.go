package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"institute-app-go/internal/domain/fees"
	"institute-app-go/pkg/logger"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Service struct {
	repo     Repository
	fees     *fees.Factory
	receipts ReceiptGenerator
	log      logger.Logger
	voidGate VoidGate
	now      func() time.Time
}

func NewService(repo Repository, feeFactory *fees.Factory, receipts ReceiptGenerator, log logger.Logger) *Service {
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

// SetVoidGate installs the authorization check run before every void.
func (s *Service) SetVoidGate(gate VoidGate) {
	s.voidGate = gate
}

func (s *Service) RecordTransaction(ctx context.Context, input RecordInput) (*Recorded, error) {
	if err := validateRecord(input); err != nil {
		return nil, err
	}

	var recorded *Recorded
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		result, err := Apply(ctx, tx, input)
		if err != nil {
			return err
		}
		recorded = result
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Audit("transaction.recorded",
		"transaction_id", recorded.Transaction.ID,
		"direction", recorded.Transaction.Direction,
		"category", recorded.Transaction.Category,
		"amount", recorded.Transaction.Amount,
		"family_id", deref(recorded.Transaction.FamilyID),
		"actor_id", input.ActorID,
	)
	return recorded, nil
}

func (s *Service) CollectPayment(ctx context.Context, input PaymentInput) (*Recorded, error) {
	if input.Amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !input.Channel.Valid() {
		return nil, ErrInvalidChannel
	}
	if strings.TrimSpace(input.FamilyID) == "" {
		return nil, ErrFamilyRequired
	}

	receipt, err := s.receipts.NextReceiptNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("ledger.payment: receipt number: %w", err)
	}

	familyID := input.FamilyID
	channel := input.Channel
	recorded, err := s.RecordTransaction(ctx, RecordInput{
		Direction:     Credit,
		Category:      CategoryFee,
		Amount:        input.Amount,
		FamilyID:      &familyID,
		StudentID:     input.StudentID,
		Description:   fmt.Sprintf("Payment via %s", channel),
		ReceiptNumber: &receipt,
		Channel:       &channel,
		ActorID:       input.ActorID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Audit("payment.received",
		"family_id", familyID,
		"amount", input.Amount,
		"channel", channel,
		"receipt_number", receipt,
	)
	return recorded, nil
}

// VoidTransaction reverses a transaction's balance effect exactly once.
func (s *Service) VoidTransaction(ctx context.Context, input VoidInput) (*Voided, error) {
	if s.voidGate != nil {
		req := VoidRequest{TransactionID: input.TransactionID, Reason: input.Reason, ActorID: input.ActorID}
		if err := s.voidGate(ctx, req); err != nil {
			return nil, err
		}
	}

	reason, err := normalizeReason(input.Reason)
	if err != nil {
		return nil, err
	}

	var voided Voided
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		txn, err := tx.LockTransaction(ctx, input.TransactionID)
		if err != nil {
			return err
		}
		if txn.IsVoid {
			return ErrAlreadyVoided
		}

		at := s.now().UTC()
		description := voidedDescription(txn.Description, reason)
		voidedBy := optional(input.ActorID)

		ok, err := tx.MarkVoided(ctx, txn.ID, description, voidedBy, at)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyVoided
		}

		txn.IsVoid = true
		txn.Description = description
		txn.VoidedAt = &at
		txn.VoidedBy = voidedBy
		voided.Transaction = *txn

		if txn.FamilyID == nil {
			return nil
		}
		if _, err := tx.LockFamily(ctx, *txn.FamilyID); err != nil {
			if errors.Is(err, ErrFamilyNotFound) {
				return fmt.Errorf("%w: transaction %s references missing family", ErrIntegrity, txn.ID)
			}
			return err
		}
		balance, err := tx.AdjustBalance(ctx, *txn.FamilyID, -txn.Direction.Signed(txn.Amount))
		if err != nil {
			return err
		}
		voided.Balance = &balance
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Audit("transaction.voided",
		"transaction_id", voided.Transaction.ID,
		"amount", voided.Transaction.Amount,
		"family_id", deref(voided.Transaction.FamilyID),
		"actor_id", input.ActorID,
		"reason", reason,
	)
	return &voided, nil
}

// TotalDue projects next cycle's obligation: every active student's monthly
// fee plus the fees of their active batch enrollments. It is not the balance.
func (s *Service) TotalDue(ctx context.Context, familyID string) (int64, error) {
	if _, err := s.repo.GetFamily(ctx, familyID); err != nil {
		return 0, err
	}

	students, err := s.repo.ListActiveStudentFees(ctx, familyID)
	if err != nil {
		return 0, err
	}
	if len(students) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(students))
	for _, student := range students {
		ids = append(ids, student.StudentID)
	}
	batchFees, err := s.repo.ActiveEnrollmentFees(ctx, ids)
	if err != nil {
		return 0, err
	}

	resolver := s.fees.NewResolver()
	var total int64
	for _, student := range students {
		total += fees.EffectiveMonthlyFee(ctx, resolver, student.ClassName, student.FeeOverride)
		total += batchFees[student.StudentID]
	}
	return total, nil
}

// Reconcile compares the stored balance with the sum of non-voided transactions.
func (s *Service) Reconcile(ctx context.Context, familyID string) (*Reconciliation, error) {
	family, err := s.repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.SumActiveTransactions(ctx, familyID)
	if err != nil {
		return nil, err
	}

	result := &Reconciliation{
		FamilyID:    family.ID,
		Balance:     family.Balance,
		LedgerTotal: total,
		Consistent:  family.Balance == total,
	}
	if !result.Consistent {
		s.log.Critical("ledger.reconcile: balance drift", "family_id", family.ID, "balance", family.Balance, "ledger_total", total)
	}
	return result, nil
}

func (s *Service) GetFamily(ctx context.Context, id string) (*Family, error) {
	return s.repo.GetFamily(ctx, id)
}

func (s *Service) LookupFamilyByPhone(ctx context.Context, phone string) (*Family, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return nil, ErrInvalidPhone
	}
	return s.repo.GetFamilyByPhone(ctx, phone)
}

func (s *Service) ListFamilies(ctx context.Context, filter FamilyFilter) ([]Family, error) {
	switch strings.ToLower(strings.TrimSpace(filter.Status)) {
	case "", FamilyStatusActive:
		filter.Status = FamilyStatusActive
	case FamilyStatusInactive:
		filter.Status = FamilyStatusInactive
	case familyStatusAll:
		filter.Status = ""
	default:
		return nil, ErrInvalidStatus
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	return s.repo.ListFamilies(ctx, filter)
}

func (s *Service) UpdateFamily(ctx context.Context, id string, input UpdateFamilyInput) (*Family, error) {
	var family *Family
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.LockFamily(ctx, id)
		if err != nil {
			return err
		}

		name, phone := current.Name, current.Phone
		if input.Name != nil {
			name = strings.TrimSpace(*input.Name)
			if name == "" {
				return ErrInvalidFamilyName
			}
		}
		if input.Phone != nil {
			phone = NormalizePhone(*input.Phone)
			if phone == "" {
				return ErrInvalidPhone
			}
		}

		if err := tx.UpdateFamily(ctx, id, name, phone); err != nil {
			return err
		}
		current.Name, current.Phone = name, phone
		family = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return family, nil
}

func (s *Service) DeactivateFamily(ctx context.Context, id string) error {
	ok, err := s.repo.SetFamilyStatus(ctx, id, FamilyStatusInactive)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFamilyNotFound
	}
	s.log.Audit("family.deactivated", "family_id", id)
	return nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	if filter.Category != nil && !filter.Category.Valid() {
		return nil, ErrInvalidCategory
	}
	filter.Limit, filter.Offset = clampPage(filter.Limit, filter.Offset)
	return s.repo.ListTransactions(ctx, filter)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
