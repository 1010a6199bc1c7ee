package types

import (
	"strings"

	remaperrors "github.com/standardbeagle/remap/internal/errors"
)

// Sort classifies a type descriptor. The primitive sorts come first so that
// IsPrimitive is a single comparison.
type Sort uint8

const (
	SortVoid Sort = iota
	SortBoolean
	SortChar
	SortByte
	SortShort
	SortInt
	SortFloat
	SortLong
	SortDouble
	SortArray
	SortObject
	SortMethod
)

var sortNames = [...]string{"void", "boolean", "char", "byte", "short", "int", "float", "long", "double", "array", "object", "method"}

func (s Sort) String() string {
	if int(s) < len(sortNames) {
		return sortNames[s]
	}
	return "unknown"
}

// Type is a parsed JVM field or method descriptor. The zero value is invalid.
type Type struct {
	desc string
}

// ParseType validates and wraps a descriptor. Method descriptors are accepted
// and report SortMethod.
func ParseType(desc string) (Type, error) {
	if strings.HasPrefix(desc, "(") {
		if _, err := ParseSignature(desc); err != nil {
			return Type{}, err
		}
		return Type{desc: desc}, nil
	}
	end, err := scanFieldType(desc, 0)
	if err != nil {
		return Type{}, err
	}
	if end != len(desc) {
		return Type{}, remaperrors.NewDescriptorError(desc, end, "trailing characters")
	}
	return Type{desc: desc}, nil
}

// MustParseType is ParseType for descriptors known to be valid, e.g. in tests.
func MustParseType(desc string) Type {
	t, err := ParseType(desc)
	if err != nil {
		panic(err)
	}
	return t
}

// ObjectType returns the descriptor type for an internal class name
func ObjectType(internalName string) Type {
	if strings.HasPrefix(internalName, "[") {
		return Type{desc: internalName}
	}
	return Type{desc: "L" + internalName + ";"}
}

// scanFieldType returns the offset just past the field type starting at off.
func scanFieldType(desc string, off int) (int, error) {
	i := off
	for i < len(desc) && desc[i] == '[' {
		i++
	}
	if i >= len(desc) {
		return 0, remaperrors.NewDescriptorError(desc, i, "missing element type")
	}
	switch desc[i] {
	case 'Z', 'C', 'B', 'S', 'I', 'F', 'J', 'D':
		return i + 1, nil
	case 'V':
		if i != off {
			return 0, remaperrors.NewDescriptorError(desc, i, "void array")
		}
		return i + 1, nil
	case 'L':
		semi := strings.IndexByte(desc[i:], ';')
		if semi <= 1 {
			return 0, remaperrors.NewDescriptorError(desc, i, "unterminated object type")
		}
		return i + semi + 1, nil
	default:
		return 0, remaperrors.NewDescriptorError(desc, i, "unknown type tag "+string(desc[i]))
	}
}

// Descriptor returns the raw descriptor string
func (t Type) Descriptor() string { return t.desc }

func (t Type) String() string { return t.desc }

// IsValid reports whether t was produced by a parser
func (t Type) IsValid() bool { return t.desc != "" }

// Sort returns the descriptor sort
func (t Type) Sort() Sort {
	if t.desc == "" {
		return SortVoid
	}
	switch t.desc[0] {
	case 'V':
		return SortVoid
	case 'Z':
		return SortBoolean
	case 'C':
		return SortChar
	case 'B':
		return SortByte
	case 'S':
		return SortShort
	case 'I':
		return SortInt
	case 'F':
		return SortFloat
	case 'J':
		return SortLong
	case 'D':
		return SortDouble
	case '[':
		return SortArray
	case '(':
		return SortMethod
	default:
		return SortObject
	}
}

// IsPrimitive reports whether t is void or one of the eight primitive types
func (t Type) IsPrimitive() bool {
	return t.Sort() <= SortDouble
}

// Dimensions returns the array dimension count, 0 for non-arrays
func (t Type) Dimensions() int {
	n := 0
	for n < len(t.desc) && t.desc[n] == '[' {
		n++
	}
	return n
}

// ElementType strips every array dimension
func (t Type) ElementType() Type {
	return Type{desc: t.desc[t.Dimensions():]}
}

// InternalName returns the class name for object and array types
func (t Type) InternalName() string {
	switch t.Sort() {
	case SortObject:
		return t.desc[1 : len(t.desc)-1]
	case SortArray:
		return t.desc
	default:
		return ""
	}
}

// Signature is a parsed method descriptor
type Signature struct {
	Params []Type
	Return Type
	desc   string
}

// ParseSignature parses "(params)ret"
func ParseSignature(desc string) (Signature, error) {
	if !strings.HasPrefix(desc, "(") {
		return Signature{}, remaperrors.NewDescriptorError(desc, 0, "method descriptor must start with '('")
	}
	sig := Signature{desc: desc}
	i := 1
	for {
		if i >= len(desc) {
			return Signature{}, remaperrors.NewDescriptorError(desc, i, "unterminated parameter list")
		}
		if desc[i] == ')' {
			i++
			break
		}
		end, err := scanFieldType(desc, i)
		if err != nil {
			return Signature{}, err
		}
		if desc[i] == 'V' {
			return Signature{}, remaperrors.NewDescriptorError(desc, i, "void parameter")
		}
		sig.Params = append(sig.Params, Type{desc: desc[i:end]})
		i = end
	}
	end, err := scanFieldType(desc, i)
	if err != nil {
		return Signature{}, err
	}
	if end != len(desc) {
		return Signature{}, remaperrors.NewDescriptorError(desc, end, "trailing characters")
	}
	sig.Return = Type{desc: desc[i:end]}
	return sig, nil
}

// Descriptor returns the raw method descriptor
func (s Signature) Descriptor() string { return s.desc }

func (s Signature) String() string { return s.desc }
