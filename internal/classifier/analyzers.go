package classifier

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/remap/internal/types"
)

// ClassAnalyzers returns the default class signals. Callers may replace or
// reweight them; nothing in the ranker depends on this particular set.
func ClassAnalyzers() []Analyzer[*types.ClassEntry] {
	return []Analyzer[*types.ClassEntry]{
		NewAnalyzer("class-depth", 1, func(_ *Env, a, b *types.ClassEntry) float64 {
			return CompareCounts(a.Depth(), b.Depth())
		}),
		NewAnalyzer("class-super", 4, func(_ *Env, a, b *types.ClassEntry) float64 {
			return matchScore(a.Super, b.Super)
		}),
		NewAnalyzer("class-interfaces", 3, func(_ *Env, a, b *types.ClassEntry) float64 {
			return CompareClassSets(a.Interfaces, b.Interfaces)
		}),
		NewAnalyzer("class-children", 2, func(_ *Env, a, b *types.ClassEntry) float64 {
			return CompareClassSets(subtypes(a), subtypes(b))
		}),
		NewAnalyzer("class-method-count", 3, func(_ *Env, a, b *types.ClassEntry) float64 {
			return CompareCounts(len(a.Methods), len(b.Methods))
		}),
		NewAnalyzer("class-field-count", 3, func(_ *Env, a, b *types.ClassEntry) float64 {
			return CompareCounts(len(a.Fields), len(b.Fields))
		}),
		NewAnalyzer("class-method-types", 5, func(_ *Env, a, b *types.ClassEntry) float64 {
			return CompareLists(len(a.Methods), len(b.Methods), func(i, j int) int {
				ma, mb := a.Methods[i], b.Methods[j]
				return similarIf(ma.Static == mb.Static && MaybeEqualSignatures(ma.Sig, mb.Sig))
			})
		}),
		NewAnalyzer("class-field-types", 5, func(_ *Env, a, b *types.ClassEntry) float64 {
			return CompareFieldLists(a.Fields, b.Fields)
		}),
		NewAnalyzer("class-strings", 8, func(_ *Env, a, b *types.ClassEntry) float64 {
			return CompareSets(classStrings(a), classStrings(b))
		}),
		NewAnalyzer("class-numbers", 6, func(_ *Env, a, b *types.ClassEntry) float64 {
			return CompareNumbers(classNumbers(a), classNumbers(b))
		}),
		NewAnalyzer("class-refs", 4, func(_ *Env, a, b *types.ClassEntry) float64 {
			return CompareClassSets(classRefs(a), classRefs(b))
		}),
		NewAnalyzer("class-name", 1, func(_ *Env, a, b *types.ClassEntry) float64 {
			return NameSimilarity(simpleName(a.Name), simpleName(b.Name))
		}),
	}
}

// MethodAnalyzers returns the default method signals
func MethodAnalyzers() []Analyzer[*types.MethodEntry] {
	return []Analyzer[*types.MethodEntry]{
		NewAnalyzer("method-signature", 4, func(_ *Env, a, b *types.MethodEntry) float64 {
			ta := append(append([]types.Type(nil), a.Sig.Params...), a.Sig.Return)
			tb := append(append([]types.Type(nil), b.Sig.Params...), b.Sig.Return)
			return CompareTypeLists(ta, tb)
		}),
		NewAnalyzer("method-insns", 10, func(env *Env, a, b *types.MethodEntry) float64 {
			return InsnSimilarity(env, a, b)
		}),
		NewAnalyzer("method-strings", 6, func(_ *Env, a, b *types.MethodEntry) float64 {
			sa, sb := map[string]struct{}{}, map[string]struct{}{}
			ExtractStrings(a.Insns, sa)
			ExtractStrings(b.Insns, sb)
			return CompareSets(sa, sb)
		}),
		NewAnalyzer("method-numbers", 5, func(_ *Env, a, b *types.MethodEntry) float64 {
			na, nb := NewNumbers(), NewNumbers()
			ExtractNumbers(a.Insns, na)
			ExtractNumbers(b.Insns, nb)
			return CompareNumbers(na, nb)
		}),
		NewAnalyzer("method-calls", 5, func(_ *Env, a, b *types.MethodEntry) float64 {
			return CompareMethodSets(a.Calls, b.Calls)
		}),
		NewAnalyzer("method-callers", 4, func(_ *Env, a, b *types.MethodEntry) float64 {
			return CompareMethodSets(a.CalledBy, b.CalledBy)
		}),
		NewAnalyzer("method-field-reads", 3, func(_ *Env, a, b *types.MethodEntry) float64 {
			return CompareFieldSets(a.FieldReads, b.FieldReads)
		}),
		NewAnalyzer("method-field-writes", 3, func(_ *Env, a, b *types.MethodEntry) float64 {
			return CompareFieldSets(a.FieldWrites, b.FieldWrites)
		}),
		NewAnalyzer("method-name", 1, func(_ *Env, a, b *types.MethodEntry) float64 {
			return NameSimilarity(a.Name, b.Name)
		}),
	}
}

// FieldAnalyzers returns the default field signals
func FieldAnalyzers() []Analyzer[*types.FieldEntry] {
	return []Analyzer[*types.FieldEntry]{
		NewAnalyzer("field-type", 4, func(_ *Env, a, b *types.FieldEntry) float64 {
			if !MaybeEqualTypes(a.Type, b.Type) {
				return 0
			}
			ea, eb := a.Type.ElementType(), b.Type.ElementType()
			if ea.Sort() != types.SortObject {
				return 1
			}
			return matchScore(a.Group().Class(ea.InternalName()), b.Group().Class(eb.InternalName()))
		}),
		NewAnalyzer("field-static", 2, func(_ *Env, a, b *types.FieldEntry) float64 {
			if a.Static == b.Static {
				return 1
			}
			return 0
		}),
		NewAnalyzer("field-owner", 3, func(_ *Env, a, b *types.FieldEntry) float64 {
			return matchScore(a.Owner, b.Owner)
		}),
		NewAnalyzer("field-readers", 4, func(_ *Env, a, b *types.FieldEntry) float64 {
			return CompareMethodSets(a.ReadBy, b.ReadBy)
		}),
		NewAnalyzer("field-writers", 4, func(_ *Env, a, b *types.FieldEntry) float64 {
			return CompareMethodSets(a.WrittenBy, b.WrittenBy)
		}),
		NewAnalyzer("field-name", 1, func(_ *Env, a, b *types.FieldEntry) float64 {
			return NameSimilarity(a.Name, b.Name)
		}),
	}
}

// NameSimilarity is the Jaro-Winkler similarity of two identifiers.
// Obfuscators leave library-facing names alone, so equal names are a strong hint
// and unrelated short names score low.
func NameSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0
	}
	return float64(score)
}

// matchScore grades a pair of related classes: 1 when confirmed as matched to
// each other (or both absent), 0.5 when still potentially equal, 0 otherwise.
func matchScore(a, b *types.ClassEntry) float64 {
	if a == nil || b == nil {
		if a == nil && b == nil {
			return 1
		}
		return 0
	}
	if types.IsMatchedTo(a, b) {
		return 1
	}
	if PotentiallyEqualClasses(a, b) {
		return 0.5
	}
	return 0
}

func simpleName(internal string) string {
	if i := strings.LastIndexByte(internal, '/'); i >= 0 {
		return internal[i+1:]
	}
	return internal
}

func classStrings(c *types.ClassEntry) map[string]struct{} {
	out := map[string]struct{}{}
	for _, m := range c.Methods {
		ExtractStrings(m.Insns, out)
	}
	return out
}

func classNumbers(c *types.ClassEntry) *Numbers {
	out := NewNumbers()
	for _, m := range c.Methods {
		ExtractNumbers(m.Insns, out)
	}
	return out
}

func subtypes(c *types.ClassEntry) []*types.ClassEntry {
	out := make([]*types.ClassEntry, 0, len(c.Children)+len(c.Implementers))
	out = append(out, c.Children...)
	return append(out, c.Implementers...)
}

func classRefs(c *types.ClassEntry) []*types.ClassEntry {
	var out []*types.ClassEntry
	for _, m := range c.Methods {
		out = append(out, m.ClassRefs...)
	}
	return out
}
