package fees

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	factory *Factory
}

func NewService(repo Repository, factory *Factory) *Service {
	return &Service{repo: repo, factory: factory}
}

func (s *Service) ResolveMonthlyFee(ctx context.Context, className string) int64 {
	return s.factory.NewResolver().ResolveMonthlyFee(ctx, strings.TrimSpace(className))
}

func (s *Service) ListStructures(ctx context.Context) ([]FeeStructure, error) {
	return s.repo.ListActiveStructures(ctx)
}

// CreateStructure adds an active structure and retires the one it replaces.
func (s *Service) CreateStructure(ctx context.Context, input CreateStructureInput) (*FeeStructure, error) {
	className := strings.TrimSpace(input.ClassName)
	if className == "" {
		return nil, ErrInvalidClassName
	}
	if input.MonthlyFee < 0 || input.AdmissionFee < 0 {
		return nil, ErrNegativeFee
	}

	structure := FeeStructure{
		ID:           uuid.NewString(),
		ClassName:    className,
		Session:      strings.TrimSpace(input.Session),
		MonthlyFee:   input.MonthlyFee,
		AdmissionFee: input.AdmissionFee,
		IsActive:     true,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.DeactivateStructures(ctx, structure.ClassName, structure.Session); err != nil {
			return err
		}
		return tx.CreateStructure(ctx, &structure)
	})
	if err != nil {
		return nil, err
	}

	return &structure, nil
}

func (s *Service) DeactivateStructure(ctx context.Context, id string) error {
	ok, err := s.repo.DeactivateStructure(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStructureNotFound
	}
	return nil
}
