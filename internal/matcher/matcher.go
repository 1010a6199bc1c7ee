// Package matcher drives the classifier over a pair of groups: it ranks
// unmatched sources against the other side and accepts unambiguous winners.
package matcher

import (
	"errors"
	"fmt"
	"sort"

	"github.com/standardbeagle/remap/internal/cache"
	"github.com/standardbeagle/remap/internal/classifier"
	"github.com/standardbeagle/remap/internal/config"
	"github.com/standardbeagle/remap/internal/debug"
	remaperrors "github.com/standardbeagle/remap/internal/errors"
	"github.com/standardbeagle/remap/internal/types"
)

// Matcher owns one matching session over a paired environment. Ranking may run
// concurrently; accepting matches is serialized inside AutoMatch.
type Matcher struct {
	env    *types.Env
	cfg    *config.Config
	cache  *cache.Cache
	cls    *classifier.Env
	filter classFilter

	classAnalyzers  []classifier.Analyzer[*types.ClassEntry]
	methodAnalyzers []classifier.Analyzer[*types.MethodEntry]
	fieldAnalyzers  []classifier.Analyzer[*types.FieldEntry]
}

// New builds a matcher with the stock analyzers reweighted from cfg. A nil cfg
// means config.Default(). Weight overrides naming no stock analyzer are rejected.
func New(env *types.Env, cfg *config.Config) (*Matcher, error) {
	if cfg == nil {
		cfg = config.Default()
		if err := config.ValidateConfig(cfg); err != nil {
			return nil, err
		}
	}

	classes := classifier.ClassAnalyzers()
	methods := classifier.MethodAnalyzers()
	fields := classifier.FieldAnalyzers()
	if err := checkWeightNames(cfg.Weights, classes, methods, fields); err != nil {
		return nil, err
	}

	c := cache.New()
	cls := classifier.NewEnv(env, c)
	if cfg.Matching.InsnCacheThreshold > 0 {
		cls.InsnCacheThreshold = cfg.Matching.InsnCacheThreshold
	}

	m := &Matcher{
		env:             env,
		cfg:             cfg,
		cache:           c,
		cls:             cls,
		filter:          newClassFilter(cfg.Include, cfg.Exclude),
		classAnalyzers:  classifier.ApplyWeights(classes, cfg.Weights),
		methodAnalyzers: classifier.ApplyWeights(methods, cfg.Weights),
		fieldAnalyzers:  classifier.ApplyWeights(fields, cfg.Weights),
	}
	return m, nil
}

func checkWeightNames(weights map[string]float64,
	classes []classifier.Analyzer[*types.ClassEntry],
	methods []classifier.Analyzer[*types.MethodEntry],
	fields []classifier.Analyzer[*types.FieldEntry],
) error {
	known := map[string]bool{}
	for _, a := range classes {
		known[a.Name()] = true
	}
	for _, a := range methods {
		known[a.Name()] = true
	}
	for _, a := range fields {
		known[a.Name()] = true
	}

	names := make([]string, 0, len(weights))
	for name := range weights {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !known[name] {
			return remaperrors.NewConfigError("weights."+name, fmt.Sprint(weights[name]), errors.New("no analyzer with this name"))
		}
	}
	return nil
}

// Env returns the paired groups
func (m *Matcher) Env() *types.Env { return m.env }

// Reset ends the current session: every memoized comparison is dropped.
// Confirmed matches are kept.
func (m *Matcher) Reset() {
	m.cache.Clear()
}

// CacheStats reports the session cache counters
func (m *Matcher) CacheStats() cache.Stats {
	return m.cache.Stats()
}

// MatchExternals pairs classes that exist outside both programs under the same
// name, e.g. java/lang/Object. Library classes keep their names across
// obfuscation runs and anchor the hierarchy comparisons.
func (m *Matcher) MatchExternals() int {
	n := 0
	for _, a := range m.env.A.Classes() {
		if !a.External || a.HasMatch() {
			continue
		}
		b := m.env.B.Class(a.Name)
		if b == nil || !b.External || b.HasMatch() {
			continue
		}
		if err := types.SetMatch(a, b); err == nil {
			n++
		}
	}
	debug.LogMatch("matched %d external classes by name\n", n)
	return n
}

// RankClass ranks every unmatched defined class of the other group against src
func (m *Matcher) RankClass(src *types.ClassEntry) []classifier.RankResult[*types.ClassEntry] {
	other := m.env.Other(src.Side())
	var dsts []*types.ClassEntry
	for _, c := range other.DefinedClasses() {
		if !c.HasMatch() {
			dsts = append(dsts, c)
		}
	}
	return classifier.Rank(m.cls, src, dsts, m.classAnalyzers, classifier.PotentiallyEqualClasses,
		budget(m.cfg.Matching.ClassMaxMismatch, m.classAnalyzers))
}

// RankMethod ranks the unmatched methods of the counterpart owner when the
// owner is matched, otherwise every unmatched method of the other group.
func (m *Matcher) RankMethod(src *types.MethodEntry) []classifier.RankResult[*types.MethodEntry] {
	var pool []*types.MethodEntry
	if owner := src.Owner.Match(); owner != nil {
		pool = owner.Methods
	} else {
		pool = m.env.Other(src.Side()).Methods()
	}
	dsts := make([]*types.MethodEntry, 0, len(pool))
	for _, d := range pool {
		if !d.HasMatch() {
			dsts = append(dsts, d)
		}
	}
	return classifier.Rank(m.cls, src, dsts, m.methodAnalyzers, classifier.PotentiallyEqualMethods,
		budget(m.cfg.Matching.MethodMaxMismatch, m.methodAnalyzers))
}

// RankField is RankMethod for fields
func (m *Matcher) RankField(src *types.FieldEntry) []classifier.RankResult[*types.FieldEntry] {
	var pool []*types.FieldEntry
	if owner := src.Owner.Match(); owner != nil {
		pool = owner.Fields
	} else {
		pool = m.env.Other(src.Side()).Fields()
	}
	dsts := make([]*types.FieldEntry, 0, len(pool))
	for _, d := range pool {
		if !d.HasMatch() {
			dsts = append(dsts, d)
		}
	}
	return classifier.Rank(m.cls, src, dsts, m.fieldAnalyzers, classifier.PotentiallyEqualFields,
		budget(m.cfg.Matching.FieldMaxMismatch, m.fieldAnalyzers))
}

// ClassWeight and friends return the total analyzer weight used to normalize scores
func (m *Matcher) ClassWeight() float64  { return classifier.TotalWeight(m.classAnalyzers) }
func (m *Matcher) MethodWeight() float64 { return classifier.TotalWeight(m.methodAnalyzers) }
func (m *Matcher) FieldWeight() float64  { return classifier.TotalWeight(m.fieldAnalyzers) }

func budget[T types.Entity](fraction float64, analyzers []classifier.Analyzer[T]) float64 {
	return fraction * classifier.TotalWeight(analyzers)
}
