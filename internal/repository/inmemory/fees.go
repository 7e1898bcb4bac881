package inmemory

import (
	"context"
	"fmt"
	"time"

	"institute-app-go/internal/domain/fees"
)

var _ fees.Repository = (*FeesRepository)(nil)

type FeesRepository struct {
	s *session
}

func (r *FeesRepository) Transaction(ctx context.Context, fn func(fees.Repository) error) error {
	return r.s.transaction(func(tx *session) error {
		return fn(&FeesRepository{s: tx})
	})
}

func (r *FeesRepository) ListActiveStructures(ctx context.Context) ([]fees.FeeStructure, error) {
	var structures []fees.FeeStructure
	err := r.s.read(func(d *dataset) error {
		for _, fs := range d.feeStructures {
			if fs.IsActive {
				structures = append(structures, fs)
			}
		}
		sortByCreated(structures, d,
			func(fs fees.FeeStructure) string { return fs.ID },
			func(fs fees.FeeStructure) time.Time { return fs.UpdatedAt })
		return nil
	})
	return structures, err
}

func (r *FeesRepository) CreateStructure(ctx context.Context, structure *fees.FeeStructure) error {
	return r.s.write(func(d *dataset) error {
		if _, ok := d.feeStructures[structure.ID]; ok {
			return fmt.Errorf("inmemory: fee structure %s already exists", structure.ID)
		}
		if structure.IsActive {
			for _, fs := range d.feeStructures {
				if fs.IsActive && fs.ClassName == structure.ClassName && fs.Session == structure.Session {
					return fees.ErrDuplicateActive
				}
			}
		}
		now := r.s.now()
		structure.CreatedAt, structure.UpdatedAt = now, now
		d.feeStructures[structure.ID] = *structure
		d.track(structure.ID)
		return nil
	})
}

func (r *FeesRepository) DeactivateStructures(ctx context.Context, className, session string) error {
	return r.s.write(func(d *dataset) error {
		for id, fs := range d.feeStructures {
			if fs.IsActive && fs.ClassName == className && fs.Session == session {
				fs.IsActive = false
				fs.UpdatedAt = r.s.now()
				d.feeStructures[id] = fs
			}
		}
		return nil
	})
}

func (r *FeesRepository) DeactivateStructure(ctx context.Context, id string) (bool, error) {
	found := false
	err := r.s.write(func(d *dataset) error {
		fs, ok := d.feeStructures[id]
		if !ok || !fs.IsActive {
			return nil
		}
		fs.IsActive = false
		fs.UpdatedAt = r.s.now()
		d.feeStructures[id] = fs
		found = true
		return nil
	})
	return found, err
}
