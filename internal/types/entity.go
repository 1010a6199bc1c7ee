package types

import (
	"fmt"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"

	remaperrors "github.com/standardbeagle/remap/internal/errors"
)

// Kind distinguishes the matchable entity variants
type Kind uint8

const (
	KindClass Kind = iota
	KindMethod
	KindField
)

func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	default:
		return "unknown"
	}
}

// Side names one of the two program snapshots
type Side uint8

const (
	SideA Side = iota // old program
	SideB             // new program
)

func (s Side) String() string {
	if s == SideA {
		return "old"
	}
	return "new"
}

// Opposite returns the other side
func (s Side) Opposite() Side {
	return 1 - s
}

// EntityID is the synthetic numeric id of an entity within its group
type EntityID uint32

// EntityKey is a comparable identity for map and set use
type EntityKey struct {
	Side Side
	Kind Kind
	Key  string
}

// Entity is the common surface of classes, methods and fields.
type Entity interface {
	Kind() Kind
	Side() Side
	ID() EntityID
	// Key is the fully-qualified structural descriptor, stable for the session
	Key() string
	// Hash is the precomputed xxhash of Key
	Hash() uint64
	EntityKey() EntityKey
	Group() *Group
	HasMatch() bool
	// MatchEntity returns the confirmed counterpart in the other group, or nil
	MatchEntity() Entity
	fmt.Stringer

	core() *entity
}

// entity carries identity and the match handle shared by all variants.
// The match is stored as counterpart id + 1 so the zero value means unmatched.
type entity struct {
	id    EntityID
	key   string
	hash  uint64
	group *Group
	match atomic.Uint32
}

func (e *entity) init(g *Group, key string) {
	e.group = g
	e.key = key
	e.hash = xxhash.Sum64String(key)
}

func (e *entity) core() *entity { return e }
func (e *entity) ID() EntityID { return e.id }
func (e *entity) Key() string { return e.key }
func (e *entity) Hash() uint64 { return e.hash }
func (e *entity) Group() *Group { return e.group }
func (e *entity) Side() Side { return e.group.side }
func (e *entity) HasMatch() bool { return e.match.Load() != 0 }
func (e *entity) String() string { return e.key }

// MatchEntity resolves the match handle through the paired group
func (e *entity) MatchEntity() Entity {
	h := e.match.Load()
	if h == 0 || e.group.peer == nil {
		return nil
	}
	return e.group.peer.Entity(EntityID(h - 1))
}

// Same reports structural identity: same group side, same kind, same key.
// Match status never participates.
func Same(a, b Entity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Side() == b.Side() &&
		a.Kind() == b.Kind() &&
		a.Hash() == b.Hash() &&
		a.Key() == b.Key()
}

// SetMatch records a confirmed correspondence between a and b. It is the
// only writer of the match relation and succeeds at most once per entity.
func SetMatch(a, b Entity) error {
	if a.Kind() != b.Kind() {
		return fmt.Errorf("cannot match %s %s with %s %s", a.Kind(), a, b.Kind(), b)
	}
	if a.Side() == b.Side() {
		return remaperrors.ErrSideMismatch
	}
	if a.Group().peer != b.Group() {
		return fmt.Errorf("groups of %s and %s are not paired in an environment", a, b)
	}

	ca, cb := a.core(), b.core()
	if !ca.match.CompareAndSwap(0, uint32(b.ID())+1) {
		return remaperrors.ErrAlreadyMatched
	}
	if !cb.match.CompareAndSwap(0, uint32(a.ID())+1) {
		ca.match.Store(0)
		return remaperrors.ErrAlreadyMatched
	}
	return nil
}

// IsMatchedTo reports whether a carries a confirmed match that is exactly b
func IsMatchedTo(a, b Entity) bool {
	m := a.MatchEntity()
	return m != nil && Same(m, b)
}
