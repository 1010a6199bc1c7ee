package matcher

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/remap/internal/classifier"
	"github.com/standardbeagle/remap/internal/debug"
	"github.com/standardbeagle/remap/internal/types"
)

// Ranking is the ranked candidate list of one source entity
type Ranking[T types.Entity] struct {
	Source  T
	Results []classifier.RankResult[T]
}

// Best returns the top candidate, if any
func (r Ranking[T]) Best() (classifier.RankResult[T], bool) {
	if len(r.Results) == 0 {
		var zero classifier.RankResult[T]
		return zero, false
	}
	return r.Results[0], true
}

// rankAll ranks srcs on a bounded worker pool. Rankings come back in source
// order regardless of completion order.
func rankAll[T types.Entity](ctx context.Context, workers int, srcs []T, rank func(T) []classifier.RankResult[T]) ([]Ranking[T], error) {
	out := make([]Ranking[T], len(srcs))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, src := range srcs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			out[i] = Ranking[T]{Source: src, Results: rank(src)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ClassSources returns the unmatched defined classes of group A that pass
// the include and exclude patterns
func (m *Matcher) ClassSources() []*types.ClassEntry {
	var out []*types.ClassEntry
	for _, c := range m.env.A.DefinedClasses() {
		if !c.HasMatch() && m.filter.Allows(c.Name) {
			out = append(out, c)
		}
	}
	return out
}

// MethodSources returns the unmatched methods of group A. With ownerMatched
// set only methods of already matched classes qualify.
func (m *Matcher) MethodSources(ownerMatched bool) []*types.MethodEntry {
	var out []*types.MethodEntry
	for _, c := range m.env.A.DefinedClasses() {
		if !m.filter.Allows(c.Name) || (ownerMatched && !c.HasMatch()) {
			continue
		}
		for _, me := range c.Methods {
			if !me.HasMatch() {
				out = append(out, me)
			}
		}
	}
	return out
}

// FieldSources is MethodSources for fields
func (m *Matcher) FieldSources(ownerMatched bool) []*types.FieldEntry {
	var out []*types.FieldEntry
	for _, c := range m.env.A.DefinedClasses() {
		if !m.filter.Allows(c.Name) || (ownerMatched && !c.HasMatch()) {
			continue
		}
		for _, f := range c.Fields {
			if !f.HasMatch() {
				out = append(out, f)
			}
		}
	}
	return out
}

// RankAllClasses ranks every class source concurrently
func (m *Matcher) RankAllClasses(ctx context.Context) ([]Ranking[*types.ClassEntry], error) {
	srcs := m.ClassSources()
	debug.LogRank("ranking %d classes on %d workers\n", len(srcs), m.cfg.Matching.Workers)
	return rankAll(ctx, m.cfg.Matching.Workers, srcs, m.RankClass)
}

// RankAllMethods ranks every method source concurrently
func (m *Matcher) RankAllMethods(ctx context.Context, ownerMatched bool) ([]Ranking[*types.MethodEntry], error) {
	srcs := m.MethodSources(ownerMatched)
	debug.LogRank("ranking %d methods on %d workers\n", len(srcs), m.cfg.Matching.Workers)
	return rankAll(ctx, m.cfg.Matching.Workers, srcs, m.RankMethod)
}

// RankAllFields ranks every field source concurrently
func (m *Matcher) RankAllFields(ctx context.Context, ownerMatched bool) ([]Ranking[*types.FieldEntry], error) {
	srcs := m.FieldSources(ownerMatched)
	debug.LogRank("ranking %d fields on %d workers\n", len(srcs), m.cfg.Matching.Workers)
	return rankAll(ctx, m.cfg.Matching.Workers, srcs, m.RankField)
}
