package fees

import (
	"context"
	"sync"

	"institute-app-go/pkg/logger"
)

// Resolver answers monthly-fee lookups for one request or workflow. The active
// structures are read from the store on first use and kept for the resolver's
// lifetime. A failed read is logged and the static table is used instead; the
// next lookup tries the store again.
type Resolver struct {
	store Store
	log   logger.Logger

	mu     sync.RWMutex
	loaded bool
	fees   map[string]int64
}

func (r *Resolver) ResolveMonthlyFee(ctx context.Context, className string) int64 {
	if fee, ok := r.cached(ctx, className); ok {
		return fee
	}
	return FallbackMonthlyFee(className)
}

func (r *Resolver) cached(ctx context.Context, className string) (int64, bool) {
	r.mu.RLock()
	if r.loaded {
		fee, ok := r.fees[className]
		r.mu.RUnlock()
		return fee, ok
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loaded {
		if err := r.load(ctx); err != nil {
			r.log.Warn("fees.resolve: fee structures unavailable, using fallback table",
				"class", className, "error", err)
			return 0, false
		}
	}
	fee, ok := r.fees[className]
	return fee, ok
}

func (r *Resolver) load(ctx context.Context) error {
	structures, err := r.store.ListActiveStructures(ctx)
	if err != nil {
		return err
	}

	fees := make(map[string]int64, len(structures))
	// Structures arrive oldest first, so the newest one per class wins.
	for _, structure := range structures {
		fees[structure.ClassName] = structure.MonthlyFee
	}
	r.fees = fees
	r.loaded = true
	return nil
}

type Factory struct {
	store Store
	log   logger.Logger
}

func NewFactory(store Store, log logger.Logger) *Factory {
	if log == nil {
		log = logger.Nop()
	}
	return &Factory{store: store, log: log}
}

func (f *Factory) NewResolver() *Resolver {
	return &Resolver{store: f.store, log: f.log}
}

// EffectiveMonthlyFee returns override when set, the resolved class fee otherwise.
func EffectiveMonthlyFee(ctx context.Context, resolver *Resolver, className string, override *int64) int64 {
	if override != nil {
		return *override
	}
	return resolver.ResolveMonthlyFee(ctx, className)
}
