package matcher

import (
	"context"
	"fmt"

	"github.com/standardbeagle/remap/internal/debug"
	"github.com/standardbeagle/remap/internal/types"
)

// Pair is one accepted correspondence
type Pair struct {
	Kind  types.Kind
	A     string  // key in the old group
	B     string  // key in the new group
	Score float64 // normalized to [0, 1]
}

// Report summarizes an AutoMatch run
type Report struct {
	Externals int // classes paired by name before ranking
	Classes   int
	Methods   int
	Fields    int
	Passes    int
	Pairs     []Pair
}

// Total is the number of pairs accepted by ranking
func (r *Report) Total() int {
	return r.Classes + r.Methods + r.Fields
}

type accepted[T types.Entity] struct {
	src, dst T
	score    float64
}

// selectMatches picks, per ranking, the top candidate when its normalized score
// reaches abs and leads the runner-up by at least rel. A candidate chosen by
// several sources goes to the strictly highest score; a tie leaves it unmatched.
func selectMatches[T types.Entity](rankings []Ranking[T], total, abs, rel float64) []accepted[T] {
	if total <= 0 {
		return nil
	}

	var picks []accepted[T]
	tied := map[int]bool{}
	byDst := map[types.EntityKey]int{}

	for _, r := range rankings {
		top, ok := r.Best()
		if !ok {
			continue
		}
		score := top.Score / total
		if score < abs {
			continue
		}
		if len(r.Results) > 1 && score-r.Results[1].Score/total < rel {
			continue
		}

		pick := accepted[T]{src: r.Source, dst: top.Subject, score: score}
		key := top.Subject.EntityKey()
		i, seen := byDst[key]
		if !seen {
			byDst[key] = len(picks)
			picks = append(picks, pick)
			continue
		}
		switch {
		case score > picks[i].score:
			picks[i] = pick
			tied[i] = false
		case score == picks[i].score:
			tied[i] = true
		}
	}

	out := picks[:0]
	for i, p := range picks {
		if !tied[i] {
			out = append(out, p)
		}
	}
	return out
}

func commit[T types.Entity](kind types.Kind, picks []accepted[T], rep *Report) (int, error) {
	for _, p := range picks {
		if err := types.SetMatch(p.src, p.dst); err != nil {
			return 0, fmt.Errorf("accepting %s -> %s: %w", p.src, p.dst, err)
		}
		debug.LogMatch("%s %s -> %s (%.3f)\n", kind, p.src, p.dst, p.score)
		rep.Pairs = append(rep.Pairs, Pair{Kind: kind, A: p.src.Key(), B: p.dst.Key(), Score: p.score})
	}
	return len(picks), nil
}

// AutoMatch repeatedly ranks and accepts until a pass adds nothing: classes
// first, then the methods and fields of matched classes. The comparison cache
// is reset whenever matches were added, since pre-filter results depend on
// the match state.
func (m *Matcher) AutoMatch(ctx context.Context) (*Report, error) {
	rep := &Report{Externals: m.MatchExternals()}
	mc := m.cfg.Matching

	for {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Passes++
		added := 0

		classes, err := m.RankAllClasses(ctx)
		if err != nil {
			return rep, err
		}
		n, err := commit(types.KindClass, selectMatches(classes, m.ClassWeight(), mc.AbsThreshold, mc.RelThreshold), rep)
		if err != nil {
			return rep, err
		}
		rep.Classes += n
		added += n
		if n > 0 {
			m.Reset()
		}

		methods, err := m.RankAllMethods(ctx, true)
		if err != nil {
			return rep, err
		}
		n, err = commit(types.KindMethod, selectMatches(methods, m.MethodWeight(), mc.AbsThreshold, mc.RelThreshold), rep)
		if err != nil {
			return rep, err
		}
		rep.Methods += n
		added += n

		fields, err := m.RankAllFields(ctx, true)
		if err != nil {
			return rep, err
		}
		n, err = commit(types.KindField, selectMatches(fields, m.FieldWeight(), mc.AbsThreshold, mc.RelThreshold), rep)
		if err != nil {
			return rep, err
		}
		rep.Fields += n
		added += n

		debug.LogMatch("pass %d: %d new matches\n", rep.Passes, added)
		if added == 0 {
			break
		}
		m.Reset()
	}
	return rep, nil
}
