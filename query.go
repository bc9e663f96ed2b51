package corosim

import "sort"

// QueryService answers entity queries by intersecting component-kind
// sets and by simple spatial/time filters. It holds no state of its own
// beyond named secondary indexes; every query reads straight through to
// the Store, so results always reflect the store as of the call.
type QueryService struct {
	store   *Store
	indexes map[string]map[any][]Handle
}

// NewQueryService returns a query service backed by store.
func NewQueryService(store *Store) *QueryService {
	return &QueryService{
		store:   store,
		indexes: make(map[string]map[any][]Handle),
	}
}

// With returns the handles carrying every kind in kinds, found by
// filtering the smallest matching table. The result is sorted by
// ascending handle, so two calls in the same frame with no mutation
// between them return the same order.
// Querying an unknown kind yields an empty result, not an error.
func (q *QueryService) With(kinds ...Kind) []Handle {
	if len(kinds) == 0 {
		return nil
	}
	var smallest map[Handle]any
	for _, k := range kinds {
		t := q.store.tableFor(k)
		if t == nil {
			return nil // a required kind has no rows at all
		}
		if smallest == nil || len(t) < len(smallest) {
			smallest = t
		}
	}
	out := make([]Handle, 0, len(smallest))
candidate:
	for h := range smallest {
		for _, k := range kinds {
			if !q.store.Has(h, k) {
				continue candidate
			}
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Where filters the handles carrying kind k by pred, which receives the
// row's value.
func (q *QueryService) Where(k Kind, pred func(row any) bool) []Handle {
	t := q.store.tableFor(k)
	if t == nil {
		return nil
	}
	out := make([]Handle, 0)
	for h, row := range t {
		if pred(row) {
			out = append(out, h)
		}
	}
	return out
}

// VisibleAt returns handles with a TimeVisibilityComponent whose
// interval contains t (sim-time milliseconds).
func (q *QueryService) VisibleAt(t float64) []Handle {
	return q.Where(KindTimeVisibility, func(row any) bool {
		tv, ok := row.(TimeVisibilityComponent)
		return ok && tv.Contains(t)
	})
}

// InRadius returns handles with a PositionComponent within r kilometers
// of center (brute-force squared-distance test). If
// frame is non-zero, only positions in that frame are considered.
func (q *QueryService) InRadius(center [3]float64, r float64, frame Frame) []Handle {
	r2 := r * r
	return q.Where(KindPosition, func(row any) bool {
		pos, ok := row.(PositionComponent)
		if !ok {
			return false
		}
		if frame != FrameUnknownZero && pos.Frame != frame {
			return false
		}
		return distance2(center, [3]float64{pos.X, pos.Y, pos.Z}) <= r2
	})
}

// FrameUnknownZero is the zero Frame value, used by InRadius to mean
// "any frame" when the caller doesn't care to restrict the search.
const FrameUnknownZero Frame = 0

// Frustum is a view frustum expressed as six inward-facing planes
// (ax+by+cz+d >= 0 means inside), the standard representation a
// renderer hands the core for point-in-frustum culling.
type Frustum struct {
	Planes [6][4]float64
}

// Contains reports whether p is inside every plane of f.
func (f Frustum) Contains(p [3]float64) bool {
	for _, pl := range f.Planes {
		if pl[0]*p[0]+pl[1]*p[1]+pl[2]*p[2]+pl[3] < 0 {
			return false
		}
	}
	return true
}

// InFrustum returns handles with a PositionComponent inside fr.
func (q *QueryService) InFrustum(fr Frustum) []Handle {
	return q.Where(KindPosition, func(row any) bool {
		pos, ok := row.(PositionComponent)
		return ok && fr.Contains([3]float64{pos.X, pos.Y, pos.Z})
	})
}

// BuildIndex (re)builds a named secondary index over kind k, keyed by
// keyFn(row). Indexes are not auto-maintained: a caller must
// call BuildIndex again after mutating the underlying component to see
// fresh results.
func (q *QueryService) BuildIndex(name string, k Kind, keyFn func(row any) any) {
	t := q.store.tableFor(k)
	idx := make(map[any][]Handle)
	for h, row := range t {
		key := keyFn(row)
		idx[key] = append(idx[key], h)
	}
	q.indexes[name] = idx
}

// Lookup returns the handles stored under key in the named index, or
// nil if the index or the key is unknown.
func (q *QueryService) Lookup(name string, key any) []Handle {
	idx, ok := q.indexes[name]
	if !ok {
		return nil
	}
	return idx[key]
}

// distance2 is a small helper exposing a squared-distance variant
// alongside the normed one, to avoid an unnecessary sqrt where callers
// only need to compare distances.
func distance2(a, b [3]float64) float64 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return dx*dx + dy*dy + dz*dz
}
