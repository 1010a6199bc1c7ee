package classifier

import (
	"sort"

	"github.com/standardbeagle/remap/internal/debug"
	"github.com/standardbeagle/remap/internal/types"
)

// Rank scores src against every candidate and returns the survivors sorted by
// score, highest first. A candidate is dropped when check rejects it or as soon
// as its accumulated weighted mismatch reaches maxMismatch. Equal scores keep
// candidate order.
func Rank[T types.Entity](env *Env, src T, dsts []T, analyzers []Analyzer[T], check func(a, b T) bool, maxMismatch float64) []RankResult[T] {
	results := make([]RankResult[T], 0, len(dsts))
	pruned := 0
	for _, dst := range dsts {
		if r, ok := rankOne(env, src, dst, analyzers, check, maxMismatch); ok {
			results = append(results, r)
		} else {
			pruned++
		}
	}
	sortResults(results)
	debug.LogRank("%s: %d candidates, %d kept, %d pruned\n", src, len(dsts), len(results), pruned)
	return results
}

func rankOne[T types.Entity](env *Env, src, dst T, analyzers []Analyzer[T], check func(a, b T) bool, maxMismatch float64) (RankResult[T], bool) {
	if !check(src, dst) {
		return RankResult[T]{}, false
	}

	score, mismatch := 0.0, 0.0
	results := make([]AnalyzerResult[T], 0, len(analyzers))
	for _, a := range analyzers {
		s := a.Score(env, src, dst)
		w := a.Weight()
		weighted := s * w

		mismatch += w - weighted
		if mismatch >= maxMismatch {
			return RankResult[T]{}, false
		}

		score += weighted
		results = append(results, AnalyzerResult[T]{Analyzer: a, Score: s})
	}
	return RankResult[T]{Subject: dst, Score: score, Results: results}, true
}

// RankBruteForce computes every analyzer for every candidate and filters on
// the final mismatch. It returns the same survivors and scores as Rank and
// exists to check the early exit.
func RankBruteForce[T types.Entity](env *Env, src T, dsts []T, analyzers []Analyzer[T], check func(a, b T) bool, maxMismatch float64) []RankResult[T] {
	var results []RankResult[T]
	for _, dst := range dsts {
		if !check(src, dst) {
			continue
		}
		score, mismatch := 0.0, 0.0
		rs := make([]AnalyzerResult[T], 0, len(analyzers))
		for _, a := range analyzers {
			s := a.Score(env, src, dst)
			score += s * a.Weight()
			mismatch += a.Weight() - s*a.Weight()
			rs = append(rs, AnalyzerResult[T]{Analyzer: a, Score: s})
		}
		// mismatch only grows, so the final check equals Rank's per-step one;
		// with no analyzers Rank never checks at all
		if len(analyzers) > 0 && mismatch >= maxMismatch {
			continue
		}
		results = append(results, RankResult[T]{Subject: dst, Score: score, Results: rs})
	}
	sortResults(results)
	return results
}

func sortResults[T types.Entity](results []RankResult[T]) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
