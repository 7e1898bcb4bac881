package inmemory

import (
	"sort"
	"sync"
	"time"

	"institute-app-go/internal/domain/academics"
	"institute-app-go/internal/domain/admission"
	"institute-app-go/internal/domain/fees"
	"institute-app-go/internal/domain/ledger"
)

// Store keeps every table in process memory. Transactions are serialized and
// work on a private copy that replaces the committed data only on success.
type Store struct {
	writeMu sync.Mutex
	mu      sync.RWMutex
	data    *dataset
	now     func() time.Time
}

type dataset struct {
	families      map[string]ledger.Family
	transactions  map[string]ledger.Transaction
	students      map[string]admission.Student
	batches       map[string]academics.Batch
	enrollments   map[string]academics.Enrollment
	feeStructures map[string]fees.FeeStructure

	// insertion sequence per id, used to break timestamp ties
	order map[string]int64
	seq   int64
}

func NewStore() *Store {
	return &Store{
		data: &dataset{
			families:      make(map[string]ledger.Family),
			transactions:  make(map[string]ledger.Transaction),
			students:      make(map[string]admission.Student),
			batches:       make(map[string]academics.Batch),
			enrollments:   make(map[string]academics.Enrollment),
			feeStructures: make(map[string]fees.FeeStructure),
			order:         make(map[string]int64),
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Ledger() *LedgerRepository {
	return &LedgerRepository{s: &session{store: s}}
}

func (s *Store) Fees() *FeesRepository {
	return &FeesRepository{s: &session{store: s}}
}

func (s *Store) Admission() *AdmissionRepository {
	return &AdmissionRepository{s: &session{store: s}}
}

func (s *Store) Academics() *AcademicsRepository {
	return &AcademicsRepository{s: &session{store: s}}
}

func (d *dataset) clone() *dataset {
	return &dataset{
		families:      cloneMap(d.families),
		transactions:  cloneMap(d.transactions),
		students:      cloneMap(d.students),
		batches:       cloneMap(d.batches),
		enrollments:   cloneMap(d.enrollments),
		feeStructures: cloneMap(d.feeStructures),
		order:         cloneMap(d.order),
		seq:           d.seq,
	}
}

func (d *dataset) track(id string) {
	d.seq++
	d.order[id] = d.seq
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// session is a view of the store: the committed data, or a transaction's
// working copy.
type session struct {
	store *Store
	tx    *dataset
}

func (s *session) read(fn func(d *dataset) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return fn(s.store.data)
}

func (s *session) write(fn func(d *dataset) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	s.store.writeMu.Lock()
	defer s.store.writeMu.Unlock()

	working := s.snapshot()
	if err := fn(working); err != nil {
		return err
	}
	s.commit(working)
	return nil
}

func (s *session) transaction(fn func(tx *session) error) error {
	if s.tx != nil {
		return fn(s)
	}
	s.store.writeMu.Lock()
	defer s.store.writeMu.Unlock()

	working := s.snapshot()
	if err := fn(&session{store: s.store, tx: working}); err != nil {
		return err
	}
	s.commit(working)
	return nil
}

func (s *session) snapshot() *dataset {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()
	return s.store.data.clone()
}

func (s *session) commit(working *dataset) {
	s.store.mu.Lock()
	s.store.data = working
	s.store.mu.Unlock()
}

func (s *session) now() time.Time {
	return s.store.now()
}

// sortByCreated orders items oldest first, ties broken by insertion order.
func sortByCreated[T any](items []T, d *dataset, id func(T) string, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if !ci.Equal(cj) {
			return ci.Before(cj)
		}
		return d.order[id(items[i])] < d.order[id(items[j])]
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
