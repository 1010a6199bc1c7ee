package classifier

import "github.com/standardbeagle/remap/internal/types"

// Analyzer is one weighted similarity signal. Score must return a value in
// [0, 1] and Weight must be non-negative; the ranker's early exit relies on both.
type Analyzer[T types.Entity] interface {
	Name() string
	Weight() float64
	Score(env *Env, a, b T) float64
}

// AnalyzerFunc adapts a plain function into an Analyzer
type AnalyzerFunc[T types.Entity] struct {
	name   string
	weight float64
	fn     func(env *Env, a, b T) float64
}

// NewAnalyzer wraps fn under name with the given weight
func NewAnalyzer[T types.Entity](name string, weight float64, fn func(env *Env, a, b T) float64) *AnalyzerFunc[T] {
	return &AnalyzerFunc[T]{name: name, weight: weight, fn: fn}
}

func (f *AnalyzerFunc[T]) Name() string { return f.name }
func (f *AnalyzerFunc[T]) Weight() float64 { return f.weight }

func (f *AnalyzerFunc[T]) Score(env *Env, a, b T) float64 {
	return f.fn(env, a, b)
}

type reweighted[T types.Entity] struct {
	Analyzer[T]
	weight float64
}

func (r reweighted[T]) Weight() float64 { return r.weight }

// WithWeight returns an analyzer identical to a but for its weight
func WithWeight[T types.Entity](a Analyzer[T], weight float64) Analyzer[T] {
	return reweighted[T]{Analyzer: a, weight: weight}
}

// ApplyWeights overrides weights by analyzer name. Unknown names are ignored.
func ApplyWeights[T types.Entity](analyzers []Analyzer[T], overrides map[string]float64) []Analyzer[T] {
	out := make([]Analyzer[T], len(analyzers))
	for i, a := range analyzers {
		if w, ok := overrides[a.Name()]; ok {
			a = WithWeight(a, w)
		}
		out[i] = a
	}
	return out
}

// TotalWeight is the best score a candidate can reach with analyzers
func TotalWeight[T types.Entity](analyzers []Analyzer[T]) float64 {
	sum := 0.0
	for _, a := range analyzers {
		sum += a.Weight()
	}
	return sum
}

// AnalyzerResult is the raw score one analyzer gave a candidate
type AnalyzerResult[T types.Entity] struct {
	Analyzer Analyzer[T]
	Score    float64
}

// RankResult is one surviving candidate with its weighted total
type RankResult[T types.Entity] struct {
	Subject T
	Score   float64
	Results []AnalyzerResult[T]
}
