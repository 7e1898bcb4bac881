package fees

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	feesdomain "institute-app-go/internal/domain/fees"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(feesdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

// ListActiveStructures returns oldest first so later structures win in the resolver.
func (r *PostgresRepository) ListActiveStructures(ctx context.Context) ([]feesdomain.FeeStructure, error) {
	var structures []feesdomain.FeeStructure
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at asc, created_at asc").
		Find(&structures).Error; err != nil {
		return nil, err
	}
	return structures, nil
}

func (r *PostgresRepository) CreateStructure(ctx context.Context, structure *feesdomain.FeeStructure) error {
	err := r.db.WithContext(ctx).Create(structure).Error
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return feesdomain.ErrDuplicateActive
	}
	return err
}

func (r *PostgresRepository) DeactivateStructures(ctx context.Context, className, session string) error {
	return r.db.WithContext(ctx).
		Model(&feesdomain.FeeStructure{}).
		Where("class_name = ? AND session = ? AND is_active = ?", className, session, true).
		Update("is_active", false).Error
}

func (r *PostgresRepository) DeactivateStructure(ctx context.Context, id string) (bool, error) {
	if uuid.Validate(id) != nil {
		return false, nil
	}
	result := r.db.WithContext(ctx).
		Model(&feesdomain.FeeStructure{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("is_active", false)
	return result.RowsAffected > 0, result.Error
}
