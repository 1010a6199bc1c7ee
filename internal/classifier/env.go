// Package classifier scores candidate correspondences between the entities of
// two program snapshots. Everything here is a pure function of its inputs
// except the comparison cache carried by Env.
package classifier

import (
	"github.com/standardbeagle/remap/internal/cache"
	"github.com/standardbeagle/remap/internal/types"
)

// DefaultInsnCacheThreshold is the body-size product from which instruction
// alignments are memoized instead of recomputed.
const DefaultInsnCacheThreshold = 1000

// Env is the context every analyzer receives. It is never global: the driver
// builds one per session and passes it down.
type Env struct {
	*types.Env

	Cache *cache.Cache

	// InsnCacheThreshold gates MapInsns memoization on len(a)*len(b)
	InsnCacheThreshold int
}

// NewEnv bundles a paired environment with a session cache
func NewEnv(groups *types.Env, c *cache.Cache) *Env {
	return &Env{
		Env:                groups,
		Cache:              c,
		InsnCacheThreshold: DefaultInsnCacheThreshold,
	}
}
