// Package dedupe tracks keys that were already seen so that the first
// occurrence of a key wins and later repeats are dropped.
package dedupe

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord reports whether key was seen before and records it if not.
	SeenAndRecord(key string) bool

	Size() int
}

// inMemoryDeduper is an unbounded set of keys. Rank tables fit in memory, so
// there is no eviction: evicting a key would let a later duplicate through.
type inMemoryDeduper struct {
	seen     map[string]struct{}
	capacity int
}

// NewInMemoryDeduper creates an empty deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(key string) bool {
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = struct{}{}
	return false
}

// Size returns the number of distinct keys recorded.
func (d *inMemoryDeduper) Size() int { return len(d.seen) }

// KeepFirst returns the items whose key has not appeared earlier in items,
// preserving their relative order.
func KeepFirst[T any](items []T, key func(T) string) []T {
	d := NewInMemoryDeduper(WithCapacity(len(items)))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if d.SeenAndRecord(key(it)) {
			continue
		}
		out = append(out, it)
	}
	return out
}
