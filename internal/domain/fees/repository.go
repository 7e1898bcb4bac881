package fees

import "context"

// Store is the read side the resolver needs.
type Store interface {
	ListActiveStructures(ctx context.Context) ([]FeeStructure, error)
}

type Repository interface {
	Store
	Transaction(ctx context.Context, fn func(Repository) error) error
	CreateStructure(ctx context.Context, structure *FeeStructure) error
	DeactivateStructures(ctx context.Context, className, session string) error
	DeactivateStructure(ctx context.Context, id string) (bool, error)
}
