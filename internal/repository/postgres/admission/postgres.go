package admission

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	admissiondomain "institute-app-go/internal/domain/admission"
	ledgerdomain "institute-app-go/internal/domain/ledger"
	ledgerrepo "institute-app-go/internal/repository/postgres/ledger"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(admissiondomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Ledger() ledgerdomain.Repository {
	return ledgerrepo.NewPostgres(r.db)
}

func (r *PostgresRepository) CreateStudent(ctx context.Context, student *admissiondomain.Student) error {
	err := r.db.WithContext(ctx).Create(student).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ledgerdomain.ErrFamilyNotFound
	}
	return err
}

func (r *PostgresRepository) GetStudent(ctx context.Context, id string) (*admissiondomain.Student, error) {
	if uuid.Validate(id) != nil {
		return nil, admissiondomain.ErrStudentNotFound
	}
	var student admissiondomain.Student
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, admissiondomain.ErrStudentNotFound
		}
		return nil, err
	}
	return &student, nil
}

func (r *PostgresRepository) ListStudents(ctx context.Context, filter admissiondomain.StudentFilter) ([]admissiondomain.Student, error) {
	query := r.db.WithContext(ctx).Model(&admissiondomain.Student{})
	if filter.FamilyID != "" {
		query = query.Where("family_id = ?", filter.FamilyID)
	}
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}

	var students []admissiondomain.Student
	if err := query.Order("created_at asc, id asc").Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

func (r *PostgresRepository) DeactivateStudent(ctx context.Context, id string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}

	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&admissiondomain.Student{}).
			Where("id = ?", id).
			Update("is_active", false)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		found = true

		return tx.Table("enrollments").
			Where("student_id = ? AND is_active = ?", id, true).
			Update("is_active", false).Error
	})
	return found, err
}
