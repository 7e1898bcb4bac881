package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	ledgerdomain "institute-app-go/internal/domain/ledger"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(ledgerdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamily(ctx context.Context, id string) (*ledgerdomain.Family, error) {
	return r.findFamily(r.db.WithContext(ctx), id)
}

func (r *PostgresRepository) GetFamilyByPhone(ctx context.Context, phone string) (*ledgerdomain.Family, error) {
	var family ledgerdomain.Family
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) LockFamily(ctx context.Context, id string) (*ledgerdomain.Family, error) {
	return r.findFamily(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *PostgresRepository) findFamily(db *gorm.DB, id string) (*ledgerdomain.Family, error) {
	if uuid.Validate(id) != nil {
		return nil, ledgerdomain.ErrFamilyNotFound
	}
	var family ledgerdomain.Family
	if err := db.Where("id = ?", id).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *ledgerdomain.Family) error {
	err := r.db.WithContext(ctx).Create(family).Error
	if isUniqueViolation(err) {
		return ledgerdomain.ErrPhoneTaken
	}
	return err
}

func (r *PostgresRepository) UpdateFamily(ctx context.Context, id string, name, phone string) error {
	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.Family{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":  name,
			"phone": phone,
		})
	if isUniqueViolation(result.Error) {
		return ledgerdomain.ErrPhoneTaken
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledgerdomain.ErrFamilyNotFound
	}
	return nil
}

func (r *PostgresRepository) SetFamilyStatus(ctx context.Context, id, status string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.Family{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected > 0, result.Error
}

func (r *PostgresRepository) ListFamilies(ctx context.Context, filter ledgerdomain.FamilyFilter) ([]ledgerdomain.Family, error) {
	query := r.db.WithContext(ctx).Model(&ledgerdomain.Family{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var families []ledgerdomain.Family
	if err := query.
		Order("created_at asc, id asc").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}

// AdjustBalance lets Postgres evaluate balance + delta; the row is never
// written back from a value read earlier.
func (r *PostgresRepository) AdjustBalance(ctx context.Context, familyID string, delta int64) (int64, error) {
	var updated []ledgerdomain.Family
	result := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "balance"}}}).
		Where("id = ?", familyID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected != 1 || len(updated) != 1 {
		return 0, fmt.Errorf("%w: balance update for family %s affected %d rows", ledgerdomain.ErrIntegrity, familyID, result.RowsAffected)
	}
	return updated[0].Balance, nil
}

func (r *PostgresRepository) CreateTransaction(ctx context.Context, txn *ledgerdomain.Transaction) error {
	err := r.db.WithContext(ctx).Create(txn).Error
	switch {
	case isUniqueViolation(err):
		return ledgerdomain.ErrDuplicateReceipt
	case isForeignKeyViolation(err):
		return ledgerdomain.ErrFamilyNotFound
	}
	return err
}

func (r *PostgresRepository) GetTransaction(ctx context.Context, id string) (*ledgerdomain.Transaction, error) {
	return r.findTransaction(r.db.WithContext(ctx), id)
}

func (r *PostgresRepository) LockTransaction(ctx context.Context, id string) (*ledgerdomain.Transaction, error) {
	return r.findTransaction(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *PostgresRepository) findTransaction(db *gorm.DB, id string) (*ledgerdomain.Transaction, error) {
	if uuid.Validate(id) != nil {
		return nil, ledgerdomain.ErrTransactionNotFound
	}
	var txn ledgerdomain.Transaction
	if err := db.Where("id = ?", id).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *PostgresRepository) MarkVoided(ctx context.Context, id, description string, voidedBy *string, voidedAt time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("id = ? AND is_void = ?", id, false).
		Updates(map[string]interface{}{
			"is_void":     true,
			"description": description,
			"voided_by":   voidedBy,
			"voided_at":   voidedAt,
		})
	return result.RowsAffected == 1, result.Error
}

func (r *PostgresRepository) ListTransactions(ctx context.Context, filter ledgerdomain.TransactionFilter) ([]ledgerdomain.Transaction, error) {
	query := r.db.WithContext(ctx).Model(&ledgerdomain.Transaction{})
	if filter.FamilyID != nil {
		if uuid.Validate(*filter.FamilyID) != nil {
			return []ledgerdomain.Transaction{}, nil
		}
		query = query.Where("family_id = ?", *filter.FamilyID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if !filter.IncludeVoid {
		query = query.Where("is_void = ?", false)
	}

	var txns []ledgerdomain.Transaction
	if err := query.
		Order("created_at desc, id desc").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (r *PostgresRepository) SumActiveTransactions(ctx context.Context, familyID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN direction = ? THEN amount ELSE -amount END), 0)", ledgerdomain.Credit).
		Where("family_id = ? AND is_void = ?", familyID, false).
		Scan(&total).Error
	return total, err
}

func (r *PostgresRepository) ListActiveStudentFees(ctx context.Context, familyID string) ([]ledgerdomain.StudentFee, error) {
	type studentRow struct {
		StudentID   string `gorm:"column:student_id"`
		ClassName   string `gorm:"column:class_name"`
		FeeOverride *int64 `gorm:"column:fee_override"`
	}

	var rows []studentRow
	if err := r.db.WithContext(ctx).
		Table("students").
		Select("id AS student_id, class_name, fee_override").
		Where("family_id = ? AND is_active = ?", familyID, true).
		Order("created_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]ledgerdomain.StudentFee, 0, len(rows))
	for _, row := range rows {
		result = append(result, ledgerdomain.StudentFee{
			StudentID:   row.StudentID,
			ClassName:   row.ClassName,
			FeeOverride: row.FeeOverride,
		})
	}
	return result, nil
}

func (r *PostgresRepository) ActiveEnrollmentFees(ctx context.Context, studentIDs []string) (map[string]int64, error) {
	result := make(map[string]int64, len(studentIDs))
	if len(studentIDs) == 0 {
		return result, nil
	}

	type feeRow struct {
		StudentID string `gorm:"column:student_id"`
		Total     int64  `gorm:"column:total"`
	}

	var rows []feeRow
	if err := r.db.WithContext(ctx).
		Table("enrollments").
		Select("enrollments.student_id, COALESCE(SUM(batches.fee), 0) AS total").
		Joins("join batches on batches.id = enrollments.batch_id").
		Where("enrollments.student_id IN ?", studentIDs).
		Where("enrollments.is_active = ? AND batches.is_active = ?", true, true).
		Group("enrollments.student_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.StudentID] = row.Total
	}
	return result, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
