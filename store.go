package corosim

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
)

// Store is the entity-component store: logically
// map<kind, map<handle, row>> plus a reverse map<handle, set<kind>> to
// answer KindsOf in O(1 in kinds). Rows are stored as
// `any` because the kind set is closed but heterogeneous; callers read
// them through Get and type-assert to the component struct for the kind.
type Store struct {
	tables map[Kind]map[Handle]any
	kinds  map[Handle]map[Kind]struct{}
	dirty  map[Handle]struct{}
	logger kitlog.Logger
}

// NewStore returns an empty Store. A nil logger is replaced with one
// that discards output, so callers that don't care about logging don't
// need to thread a logger through just to satisfy the constructor.
func NewStore(logger kitlog.Logger) *Store {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Store{
		tables: make(map[Kind]map[Handle]any),
		kinds:  make(map[Handle]map[Kind]struct{}),
		dirty:  make(map[Handle]struct{}),
		logger: logger,
	}
}

// Attach adds or overwrites the row of kind k for h, marks h dirty, and
// enforces the one cross-kind invariant: a propagator
// component requires an orbital-elements component to already be
// attached. Attaching a PropagatorComponent without one returns
// ErrInvariantViolation and leaves the store unchanged.
func (s *Store) Attach(h Handle, k Kind, row any) error {
	if k == KindPropagator {
		if _, ok := s.Get(h, KindOrbitalElements); !ok {
			return fmt.Errorf("%w: propagator requires orbital-elements on %s", ErrInvariantViolation, h)
		}
	}
	table, ok := s.tables[k]
	if !ok {
		table = make(map[Handle]any)
		s.tables[k] = table
	}
	table[h] = row

	ks, ok := s.kinds[h]
	if !ok {
		ks = make(map[Kind]struct{})
		s.kinds[h] = ks
	}
	ks[k] = struct{}{}

	s.dirty[h] = struct{}{}
	return nil
}

// Get returns the row of kind k for h, and whether it was present. A
// miss is not an error.
func (s *Store) Get(h Handle, k Kind) (any, bool) {
	table, ok := s.tables[k]
	if !ok {
		return nil, false
	}
	row, ok := table[h]
	return row, ok
}

// Detach removes the row of kind k for h from both indexes and marks h
// dirty. Detaching an absent row is a no-op.
func (s *Store) Detach(h Handle, k Kind) {
	if table, ok := s.tables[k]; ok {
		if _, present := table[h]; present {
			delete(table, h)
			s.dirty[h] = struct{}{}
		}
	}
	if ks, ok := s.kinds[h]; ok {
		delete(ks, k)
		if len(ks) == 0 {
			delete(s.kinds, h)
		}
	}
}

// DestroyEntity removes every component row for h.
func (s *Store) DestroyEntity(h Handle) {
	if ks, ok := s.kinds[h]; ok {
		for k := range ks {
			if table, ok := s.tables[k]; ok {
				delete(table, h)
			}
		}
		delete(s.kinds, h)
	}
	delete(s.dirty, h)
}

// KindsOf returns the set of kinds attached to h.
func (s *Store) KindsOf(h Handle) []Kind {
	ks, ok := s.kinds[h]
	if !ok {
		return nil
	}
	out := make([]Kind, 0, len(ks))
	for k := range ks {
		out = append(out, k)
	}
	return out
}

// Has reports whether h carries kind k.
func (s *Store) Has(h Handle, k Kind) bool {
	_, ok := s.Get(h, k)
	return ok
}

// MarkDirty marks h dirty without touching any row, for systems that
// mutate a row's contents in place (e.g. a row that's a pointer) rather
// than going through Attach.
func (s *Store) MarkDirty(h Handle) {
	s.dirty[h] = struct{}{}
}

// DirtyHandles returns a snapshot of the current dirty set.
func (s *Store) DirtyHandles() []Handle {
	out := make([]Handle, 0, len(s.dirty))
	for h := range s.dirty {
		out = append(out, h)
	}
	return out
}

// ClearDirty empties the dirty set. The scheduler calls this once, at
// the end of every frame.
func (s *Store) ClearDirty() {
	s.dirty = make(map[Handle]struct{})
}

// tableFor returns the table for k, or nil if no row of kind k has ever
// been attached. Used by the query service, which picks the smallest
// table among several kinds and treats nil as "no rows".
func (s *Store) tableFor(k Kind) map[Handle]any {
	t, ok := s.tables[k]
	if !ok {
		return nil
	}
	return t
}
