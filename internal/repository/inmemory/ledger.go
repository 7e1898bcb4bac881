package inmemory

import (
	"context"
	"fmt"
	"time"

	"institute-app-go/internal/domain/ledger"
)

var _ ledger.Repository = (*LedgerRepository)(nil)

type LedgerRepository struct {
	s *session
}

func (r *LedgerRepository) Transaction(ctx context.Context, fn func(ledger.Repository) error) error {
	return r.s.transaction(func(tx *session) error {
		return fn(&LedgerRepository{s: tx})
	})
}

func (r *LedgerRepository) GetFamily(ctx context.Context, id string) (*ledger.Family, error) {
	var family ledger.Family
	err := r.s.read(func(d *dataset) error {
		f, ok := d.families[id]
		if !ok {
			return ledger.ErrFamilyNotFound
		}
		family = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *LedgerRepository) GetFamilyByPhone(ctx context.Context, phone string) (*ledger.Family, error) {
	var family ledger.Family
	err := r.s.read(func(d *dataset) error {
		for _, f := range d.families {
			if f.Phone == phone {
				family = f
				return nil
			}
		}
		return ledger.ErrFamilyNotFound
	})
	if err != nil {
		return nil, err
	}
	return &family, nil
}

// LockFamily is a plain read: transactions are already serialized.
func (r *LedgerRepository) LockFamily(ctx context.Context, id string) (*ledger.Family, error) {
	return r.GetFamily(ctx, id)
}

func (r *LedgerRepository) CreateFamily(ctx context.Context, family *ledger.Family) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.families[family.ID]; ok {
			return fmt.Errorf("inmemory: family %s already exists", family.ID)
		}
		for _, f := range d.families {
			if f.Phone == family.Phone {
				return ledger.ErrPhoneTaken
			}
		}
		now := r.s.now()
		family.CreatedAt, family.UpdatedAt = now, now
		if family.Status == "" {
			family.Status = ledger.FamilyStatusActive
		}
		d.families[family.ID] = *family
		d.track(family.ID)
		return nil
	})
}

func (r *LedgerRepository) UpdateFamily(ctx context.Context, id string, name, phone string) error {
	return r.s.write(func(d *dataset) error {
		family, ok := d.families[id]
		if !ok {
			return ledger.ErrFamilyNotFound
		}
		for otherID, f := range d.families {
			if otherID != id && f.Phone == phone {
				return ledger.ErrPhoneTaken
			}
		}
		family.Name, family.Phone = name, phone
		family.UpdatedAt = r.s.now()
		d.families[id] = family
		return nil
	})
}

func (r *LedgerRepository) SetFamilyStatus(ctx context.Context, id, status string) (bool, error) {
	found := false
	err := r.s.write(func(d *dataset) error {
		family, ok := d.families[id]
		if !ok {
			return nil
		}
		found = true
		family.Status = status
		family.UpdatedAt = r.s.now()
		d.families[id] = family
		return nil
	})
	return found, err
}

func (r *LedgerRepository) ListFamilies(ctx context.Context, filter ledger.FamilyFilter) ([]ledger.Family, error) {
	var families []ledger.Family
	err := r.s.read(func(d *dataset) error {
		for _, f := range d.families {
			if filter.Status != "" && f.Status != filter.Status {
				continue
			}
			families = append(families, f)
		}
		sortByCreated(families, d,
			func(f ledger.Family) string { return f.ID },
			func(f ledger.Family) time.Time { return f.CreatedAt })
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page(families, filter.Limit, filter.Offset), nil
}

func (r *LedgerRepository) AdjustBalance(ctx context.Context, familyID string, delta int64) (int64, error) {
	var balance int64
	err := r.s.write(func(d *dataset) error {
		family, ok := d.families[familyID]
		if !ok {
			return fmt.Errorf("%w: balance update matched no family %s", ledger.ErrIntegrity, familyID)
		}
		family.Balance += delta
		family.UpdatedAt = r.s.now()
		d.families[familyID] = family
		balance = family.Balance
		return nil
	})
	return balance, err
}

func (r *LedgerRepository) CreateTransaction(ctx context.Context, txn *ledger.Transaction) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.transactions[txn.ID]; ok {
			return fmt.Errorf("inmemory: transaction %s already exists", txn.ID)
		}
		if txn.FamilyID != nil {
			if _, ok := d.families[*txn.FamilyID]; !ok {
				return ledger.ErrFamilyNotFound
			}
		}
		if txn.ReceiptNumber != nil {
			for _, existing := range d.transactions {
				if existing.ReceiptNumber != nil && *existing.ReceiptNumber == *txn.ReceiptNumber {
					return ledger.ErrDuplicateReceipt
				}
			}
		}
		txn.CreatedAt = r.s.now()
		d.transactions[txn.ID] = *txn
		d.track(txn.ID)
		return nil
	})
}

func (r *LedgerRepository) GetTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	var txn ledger.Transaction
	err := r.s.read(func(d *dataset) error {
		t, ok := d.transactions[id]
		if !ok {
			return ledger.ErrTransactionNotFound
		}
		txn = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *LedgerRepository) LockTransaction(ctx context.Context, id string) (*ledger.Transaction, error) {
	return r.GetTransaction(ctx, id)
}

func (r *LedgerRepository) MarkVoided(ctx context.Context, id, description string, voidedBy *string, voidedAt time.Time) (bool, error) {
	updated := false
	err := r.s.write(func(d *dataset) error {
		txn, ok := d.transactions[id]
		if !ok || txn.IsVoid {
			return nil
		}
		txn.IsVoid = true
		txn.Description = description
		txn.VoidedBy = voidedBy
		txn.VoidedAt = &voidedAt
		d.transactions[id] = txn
		updated = true
		return nil
	})
	return updated, err
}

func (r *LedgerRepository) ListTransactions(ctx context.Context, filter ledger.TransactionFilter) ([]ledger.Transaction, error) {
	var txns []ledger.Transaction
	err := r.s.read(func(d *dataset) error {
		for _, t := range d.transactions {
			if filter.FamilyID != nil && (t.FamilyID == nil || *t.FamilyID != *filter.FamilyID) {
				continue
			}
			if filter.Category != nil && t.Category != *filter.Category {
				continue
			}
			if t.IsVoid && !filter.IncludeVoid {
				continue
			}
			txns = append(txns, t)
		}
		sortByCreated(txns, d,
			func(t ledger.Transaction) string { return t.ID },
			func(t ledger.Transaction) time.Time { return t.CreatedAt })
		return nil
	})
	if err != nil {
		return nil, err
	}

	// newest first
	for i, j := 0, len(txns)-1; i < j; i, j = i+1, j-1 {
		txns[i], txns[j] = txns[j], txns[i]
	}
	return page(txns, filter.Limit, filter.Offset), nil
}

func (r *LedgerRepository) SumActiveTransactions(ctx context.Context, familyID string) (int64, error) {
	var total int64
	err := r.s.read(func(d *dataset) error {
		for _, t := range d.transactions {
			if t.FamilyID != nil && *t.FamilyID == familyID {
				total += t.SignedAmount()
			}
		}
		return nil
	})
	return total, err
}

func (r *LedgerRepository) ListActiveStudentFees(ctx context.Context, familyID string) ([]ledger.StudentFee, error) {
	var result []ledger.StudentFee
	err := r.s.read(func(d *dataset) error {
		students := activeStudents(d, familyID)
		result = make([]ledger.StudentFee, 0, len(students))
		for _, s := range students {
			result = append(result, ledger.StudentFee{StudentID: s.ID, ClassName: s.ClassName, FeeOverride: s.FeeOverride})
		}
		return nil
	})
	return result, err
}

func (r *LedgerRepository) ActiveEnrollmentFees(ctx context.Context, studentIDs []string) (map[string]int64, error) {
	wanted := make(map[string]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		wanted[id] = struct{}{}
	}

	result := make(map[string]int64, len(studentIDs))
	err := r.s.read(func(d *dataset) error {
		for _, e := range d.enrollments {
			if _, ok := wanted[e.StudentID]; !ok || !e.IsActive {
				continue
			}
			batch, ok := d.batches[e.BatchID]
			if !ok || !batch.IsActive {
				continue
			}
			result[e.StudentID] += batch.Fee
		}
		return nil
	})
	return result, err
}
