package fees

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu         sync.Mutex
	structures []FeeStructure
	err        error
	calls      int
}

func (s *fakeStore) ListActiveStructures(ctx context.Context) ([]FeeStructure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return append([]FeeStructure(nil), s.structures...), nil
}

func (s *fakeStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestResolverPrefersStoredStructure(t *testing.T) {
	store := &fakeStore{structures: []FeeStructure{
		{ClassName: "Class 2", MonthlyFee: 1100},
		{ClassName: "Class 2", MonthlyFee: 1300},
		{ClassName: "Robotics", MonthlyFee: 900},
	}}
	resolver := NewFactory(store, nil).NewResolver()
	ctx := context.Background()

	assert.Equal(t, int64(1300), resolver.ResolveMonthlyFee(ctx, "Class 2"))
	assert.Equal(t, int64(900), resolver.ResolveMonthlyFee(ctx, "Robotics"))
	assert.Equal(t, int64(4000), resolver.ResolveMonthlyFee(ctx, "Class 12"))
	assert.Zero(t, resolver.ResolveMonthlyFee(ctx, "Class 13"))
	assert.Equal(t, 1, store.callCount())
}

func TestResolverFallsBackWhenStoreFails(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	resolver := NewFactory(store, nil).NewResolver()
	ctx := context.Background()

	assert.Equal(t, int64(1200), resolver.ResolveMonthlyFee(ctx, "Class 2"))
	assert.Zero(t, resolver.ResolveMonthlyFee(ctx, "Unknown"))

	store.mu.Lock()
	store.err = nil
	store.structures = []FeeStructure{{ClassName: "Class 2", MonthlyFee: 1250}}
	store.mu.Unlock()

	assert.Equal(t, int64(1250), resolver.ResolveMonthlyFee(ctx, "Class 2"))
	assert.Equal(t, 3, store.callCount())
}

func TestResolversDoNotShareState(t *testing.T) {
	store := &fakeStore{structures: []FeeStructure{{ClassName: "Class 1", MonthlyFee: 1050}}}
	factory := NewFactory(store, nil)
	ctx := context.Background()

	first := factory.NewResolver()
	assert.Equal(t, int64(1050), first.ResolveMonthlyFee(ctx, "Class 1"))

	store.mu.Lock()
	store.structures = []FeeStructure{{ClassName: "Class 1", MonthlyFee: 1075}}
	store.mu.Unlock()

	assert.Equal(t, int64(1050), first.ResolveMonthlyFee(ctx, "Class 1"))
	assert.Equal(t, int64(1075), factory.NewResolver().ResolveMonthlyFee(ctx, "Class 1"))
}

func TestResolverConcurrentFirstUse(t *testing.T) {
	store := &fakeStore{structures: []FeeStructure{{ClassName: "Class 3", MonthlyFee: 1450}}}
	resolver := NewFactory(store, nil).NewResolver()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, int64(1450), resolver.ResolveMonthlyFee(context.Background(), "Class 3"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.callCount())
}

func TestEffectiveMonthlyFee(t *testing.T) {
	store := &fakeStore{err: errors.New("must not be called")}
	resolver := NewFactory(store, nil).NewResolver()
	override := int64(0)

	assert.Equal(t, int64(0), EffectiveMonthlyFee(context.Background(), resolver, "Class 5", &override))
	assert.Zero(t, store.callCount())

	assert.Equal(t, int64(1600), EffectiveMonthlyFee(context.Background(), resolver, "Class 5", nil))
}

type fakeRepo struct {
	fakeStore
	created []FeeStructure
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeRepo) CreateStructure(ctx context.Context, structure *FeeStructure) error {
	r.created = append(r.created, *structure)
	r.structures = append(r.structures, *structure)
	return nil
}

func (r *fakeRepo) DeactivateStructures(ctx context.Context, className, session string) error {
	active := r.structures[:0]
	for _, s := range r.structures {
		if s.ClassName == className && s.Session == session {
			continue
		}
		active = append(active, s)
	}
	r.structures = active
	return nil
}

func (r *fakeRepo) DeactivateStructure(ctx context.Context, id string) (bool, error) {
	for i, s := range r.structures {
		if s.ID == id {
			r.structures = append(r.structures[:i], r.structures[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func TestServiceCreateStructureReplacesActive(t *testing.T) {
	repo := &fakeRepo{}
	service := NewService(repo, NewFactory(repo, nil))
	ctx := context.Background()

	_, err := service.CreateStructure(ctx, CreateStructureInput{ClassName: " Class 4 ", MonthlyFee: 1550})
	require.NoError(t, err)
	second, err := service.CreateStructure(ctx, CreateStructureInput{ClassName: "Class 4", MonthlyFee: 1575})
	require.NoError(t, err)

	structures, err := service.ListStructures(ctx)
	require.NoError(t, err)
	require.Len(t, structures, 1)
	assert.Equal(t, second.ID, structures[0].ID)
	assert.Equal(t, int64(1575), service.ResolveMonthlyFee(ctx, "Class 4"))
}

func TestServiceCreateStructureValidates(t *testing.T) {
	service := NewService(&fakeRepo{}, nil)

	_, err := service.CreateStructure(context.Background(), CreateStructureInput{ClassName: "  ", MonthlyFee: 10})
	require.ErrorIs(t, err, ErrInvalidClassName)

	_, err = service.CreateStructure(context.Background(), CreateStructureInput{ClassName: "Class 1", MonthlyFee: -1})
	require.ErrorIs(t, err, ErrNegativeFee)
}

func TestServiceDeactivateUnknownStructure(t *testing.T) {
	service := NewService(&fakeRepo{}, nil)
	require.ErrorIs(t, service.DeactivateStructure(context.Background(), "missing"), ErrStructureNotFound)
}
