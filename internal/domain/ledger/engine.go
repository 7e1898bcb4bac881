package ledger

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const minVoidReasonLength = 5

func validateRecord(input RecordInput) error {
	if input.Amount <= 0 {
		return ErrInvalidAmount
	}
	if !input.Direction.Valid() {
		return ErrInvalidDirection
	}
	if !input.Category.Valid() {
		return ErrInvalidCategory
	}
	if input.Channel != nil && !input.Channel.Valid() {
		return ErrInvalidChannel
	}
	if input.Category.RequiresFamily() && blank(input.FamilyID) {
		return ErrFamilyRequired
	}
	return nil
}

// Apply records input against repo, which must already be inside a store
// transaction. The family row is locked before the insert, and the balance is
// moved by a relative update evaluated by the store.
func Apply(ctx context.Context, repo Repository, input RecordInput) (*Recorded, error) {
	if err := validateRecord(input); err != nil {
		return nil, err
	}

	familyID := input.FamilyID
	if blank(familyID) {
		familyID = nil
	}
	if familyID != nil {
		if _, err := repo.LockFamily(ctx, *familyID); err != nil {
			return nil, err
		}
	}

	txn := Transaction{
		ID:            uuid.NewString(),
		Direction:     input.Direction,
		Category:      input.Category,
		Amount:        input.Amount,
		FamilyID:      familyID,
		StudentID:     input.StudentID,
		StaffID:       input.StaffID,
		ExpenseHead:   input.ExpenseHead,
		Description:   strings.TrimSpace(input.Description),
		ReceiptNumber: input.ReceiptNumber,
		Channel:       input.Channel,
		ActorID:       optional(input.ActorID),
	}
	if err := repo.CreateTransaction(ctx, &txn); err != nil {
		return nil, err
	}

	recorded := &Recorded{Transaction: txn}
	if familyID != nil {
		balance, err := repo.AdjustBalance(ctx, *familyID, input.Direction.Signed(input.Amount))
		if err != nil {
			return nil, err
		}
		recorded.Balance = &balance
	}
	return recorded, nil
}

func normalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if utf8.RuneCountInString(reason) < minVoidReasonLength {
		return "", ErrInvalidReason
	}
	return reason, nil
}

func voidedDescription(description, reason string) string {
	return strings.TrimSpace(fmt.Sprintf("%s [VOIDED: %s]", description, reason))
}

// NormalizePhone drops spaces, dashes and brackets so the same number always
// maps to one family.
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		switch r {
		case ' ', '-', '(', ')', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func blank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
