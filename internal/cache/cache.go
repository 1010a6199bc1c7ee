package cache

import (
	"sync"
	"sync/atomic"

	"github.com/standardbeagle/remap/internal/debug"
	"github.com/standardbeagle/remap/internal/types"
)

var nextTokenID atomic.Uint64

// Token identifies one memoized computation and the type of its result.
// Tokens are unique per process; two tokens with the same name never share entries.
type Token[T any] struct {
	id   uint64
	name string
}

// NewToken allocates a fresh token
func NewToken[T any](name string) *Token[T] {
	return &Token[T]{id: nextTokenID.Add(1), name: name}
}

// Name returns the label given at creation
func (t *Token[T]) Name() string { return t.name }

type key struct {
	token uint64
	a     types.EntityKey
	b     types.EntityKey
}

// entry is written once. done flips after val is stored so Get never
// observes a partially computed value.
type entry struct {
	once sync.Once
	done atomic.Bool
	val  any
}

// Cache memoizes pairwise comparisons for one matching session.
// The zero value is an empty cache.
type Cache struct {
	entries sync.Map // map[key]*entry

	// Atomic counters
	hits   atomic.Int64
	misses atomic.Int64
	size   atomic.Int64
	clears atomic.Int64
}

// Stats is a point-in-time view of the cache counters
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int64
	Clears  int64
}

// HitRate returns hits / (hits + misses), 0 when unused
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// New creates an empty session cache
func New() *Cache {
	return &Cache{}
}

// Compute returns the memoized f(a, b) for tok, evaluating f at most once per
// (tok, a, b) even under concurrent callers. Callers racing on a missing key
// block until the single evaluation finishes. A nil cache computes directly.
func Compute[E types.Entity, T any](c *Cache, tok *Token[T], a, b E, f func(a, b E) T) T {
	if c == nil {
		return f(a, b)
	}

	k := key{token: tok.id, a: a.EntityKey(), b: b.EntityKey()}
	v, loaded := c.entries.Load(k)
	if !loaded {
		v, loaded = c.entries.LoadOrStore(k, &entry{})
		if !loaded {
			c.size.Add(1)
		}
	}
	e := v.(*entry)

	computed := false
	e.once.Do(func() {
		e.val = f(a, b)
		e.done.Store(true)
		computed = true
	})
	if computed {
		c.misses.Add(1)
	} else {
		c.hits.Add(1)
	}
	return e.val.(T)
}

// Get returns a completed entry without computing anything
func Get[E types.Entity, T any](c *Cache, tok *Token[T], a, b E) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.entries.Load(key{token: tok.id, a: a.EntityKey(), b: b.EntityKey()})
	if !ok {
		return zero, false
	}
	e := v.(*entry)
	if !e.done.Load() {
		return zero, false
	}
	return e.val.(T), true
}

// Clear drops every entry. Call it between unrelated matching sessions;
// entries computed for one pair of groups are meaningless for another.
func (c *Cache) Clear() {
	n := c.size.Swap(0)
	c.entries.Clear()
	c.clears.Add(1)
	debug.LogCache("cleared %d entries\n", n)
}

// Len returns the approximate number of entries
func (c *Cache) Len() int {
	return int(c.size.Load())
}

// Stats returns the current counters
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.size.Load(),
		Clears:  c.clears.Load(),
	}
}
