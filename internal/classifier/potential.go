package classifier

import "github.com/standardbeagle/remap/internal/types"

// PotentiallyEqualClasses is the cheap pre-filter for class candidates. It is
// sound but incomplete: false means the pair can never be a match.
func PotentiallyEqualClasses(a, b *types.ClassEntry) bool {
	if decided, ok := matchShortCircuit(a, b); ok {
		return decided
	}
	if a.IsArray() != b.IsArray() {
		return false
	}
	if a.IsArray() {
		if a.Dims != b.Dims {
			return false
		}
		if a.ElemClass == nil && b.ElemClass == nil {
			return a.ElemType == b.ElemType
		}
		if !PotentiallyEqualClassesNullable(a.ElemClass, b.ElemClass) {
			return false
		}
	}
	return MaybeEqualClasses(a, b)
}

// PotentiallyEqualMethods is the pre-filter for method candidates
func PotentiallyEqualMethods(a, b *types.MethodEntry) bool {
	if decided, ok := matchShortCircuit(a, b); ok {
		return decided
	}
	if !a.Static && !b.Static && !PotentiallyEqualClasses(a.Owner, b.Owner) {
		return false
	}
	if (a.IsInitializer() || b.IsInitializer()) && a.Name != b.Name {
		return false
	}
	return MaybeEqualSignatures(a.Sig, b.Sig)
}

// PotentiallyEqualFields is the pre-filter for field candidates
func PotentiallyEqualFields(a, b *types.FieldEntry) bool {
	if decided, ok := matchShortCircuit(a, b); ok {
		return decided
	}
	if !a.Static && !b.Static && !PotentiallyEqualClasses(a.Owner, b.Owner) {
		return false
	}
	return MaybeEqualFields(a, b)
}

// PotentiallyEqualClassesNullable treats two missing classes as equal and a
// single missing one as different.
func PotentiallyEqualClassesNullable(a, b *types.ClassEntry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return PotentiallyEqualClasses(a, b)
}

// PotentiallyEqualMethodsNullable is the nullable form for resolved call targets
func PotentiallyEqualMethodsNullable(a, b *types.MethodEntry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return PotentiallyEqualMethods(a, b)
}

// PotentiallyEqualFieldsNullable is the nullable form for resolved field refs
func PotentiallyEqualFieldsNullable(a, b *types.FieldEntry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return PotentiallyEqualFields(a, b)
}

// matchShortCircuit decides the pair from identity or a confirmed match.
// ok is false when shape checks are still needed.
func matchShortCircuit(a, b types.Entity) (decided, ok bool) {
	if types.Same(a, b) {
		return true, true
	}
	if a.HasMatch() {
		return types.IsMatchedTo(a, b), true
	}
	if b.HasMatch() {
		return types.IsMatchedTo(b, a), true
	}
	return false, false
}

// MaybeEqualTypes compares descriptor shapes. Obfuscation renames classes, so
// reference types are always compatible; only dimensions and primitives count.
func MaybeEqualTypes(a, b types.Type) bool {
	if a.Dimensions() != b.Dimensions() {
		return false
	}
	ea, eb := a.ElementType(), b.ElementType()
	if ea.IsPrimitive() || eb.IsPrimitive() {
		return ea == eb
	}
	return true
}

// MaybeEqualSignatures requires equal arity and pairwise maybe-equal
// parameter and return types.
func MaybeEqualSignatures(a, b types.Signature) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	if !MaybeEqualTypes(a.Return, b.Return) {
		return false
	}
	for i := range a.Params {
		if !MaybeEqualTypes(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return true
}

// MaybeEqualFields requires the same static flag and a maybe-equal type
func MaybeEqualFields(a, b *types.FieldEntry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Static != b.Static {
		return false
	}
	return MaybeEqualTypes(a.Type, b.Type)
}

// MaybeEqualClasses walks the superclass chains in lockstep and requires the
// same interface count at every level.
func MaybeEqualClasses(a, b *types.ClassEntry) bool {
	for {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		if len(a.Interfaces) != len(b.Interfaces) {
			return false
		}
		a, b = a.Super, b.Super
	}
}
