package types

import "strings"

// ClassEntry is a class, interface or array class of one group.
// All fields are populated by GroupBuilder and read-only afterwards.
type ClassEntry struct {
	entity

	Name       string
	Super      *ClassEntry
	Interfaces []*ClassEntry

	// Array classes: Dims > 0, ElemType is the innermost element type and
	// ElemClass its class (nil for primitive elements).
	Dims      int
	ElemType  Type
	ElemClass *ClassEntry

	Methods []*MethodEntry
	Fields  []*FieldEntry

	Children     []*ClassEntry // direct subclasses
	Implementers []*ClassEntry // direct implementers when this is an interface

	// External classes are referenced by the snapshot but not defined in it
	// (library types, arrays).
	External bool

	methodIndex map[string]*MethodEntry
	fieldIndex  map[string]*FieldEntry
}

func (c *ClassEntry) Kind() Kind { return KindClass }

// EntityKey returns the comparable identity
func (c *ClassEntry) EntityKey() EntityKey {
	return EntityKey{Side: c.Side(), Kind: KindClass, Key: c.key}
}

// Match returns the confirmed counterpart class or nil
func (c *ClassEntry) Match() *ClassEntry {
	m, _ := c.MatchEntity().(*ClassEntry)
	return m
}

// IsArray reports whether c is an array class
func (c *ClassEntry) IsArray() bool { return c.Dims > 0 }

// Type returns the descriptor type of c
func (c *ClassEntry) Type() Type { return ObjectType(c.Name) }

// Method looks up a declared method by name and descriptor
func (c *ClassEntry) Method(name, desc string) *MethodEntry {
	return c.methodIndex[name+desc]
}

// Field looks up a declared field by name and descriptor
func (c *ClassEntry) Field(name, desc string) *FieldEntry {
	return c.fieldIndex[name+":"+desc]
}

// ResolveMethod follows JVM method resolution from c. Interface dispatch
// searches the interface hierarchy before the superclass chain.
func (c *ClassEntry) ResolveMethod(name, desc string, itf bool) *MethodEntry {
	key := name + desc
	if itf {
		if m := c.methodIndex[key]; m != nil {
			return m
		}
		if m := c.resolveInterfaceMethod(key, map[*ClassEntry]bool{}); m != nil {
			return m
		}
		for cls := c.Super; cls != nil; cls = cls.Super {
			if m := cls.methodIndex[key]; m != nil {
				return m
			}
		}
		return nil
	}

	for cls := c; cls != nil; cls = cls.Super {
		if m := cls.methodIndex[key]; m != nil {
			return m
		}
	}
	return c.resolveInterfaceMethod(key, map[*ClassEntry]bool{})
}

func (c *ClassEntry) resolveInterfaceMethod(key string, seen map[*ClassEntry]bool) *MethodEntry {
	for cls := c; cls != nil; cls = cls.Super {
		for _, itf := range cls.Interfaces {
			if seen[itf] {
				continue
			}
			seen[itf] = true
			if m := itf.methodIndex[key]; m != nil {
				return m
			}
			if m := itf.resolveInterfaceMethod(key, seen); m != nil {
				return m
			}
		}
	}
	return nil
}

// ResolveField follows JVM field resolution: declared fields, then
// superinterfaces, then the superclass.
func (c *ClassEntry) ResolveField(name, desc string) *FieldEntry {
	return c.resolveField(name+":"+desc, map[*ClassEntry]bool{})
}

func (c *ClassEntry) resolveField(key string, seen map[*ClassEntry]bool) *FieldEntry {
	if c == nil || seen[c] {
		return nil
	}
	seen[c] = true
	if f := c.fieldIndex[key]; f != nil {
		return f
	}
	for _, itf := range c.Interfaces {
		if f := itf.resolveField(key, seen); f != nil {
			return f
		}
	}
	return c.Super.resolveField(key, seen)
}

// Depth counts superclass links up to the hierarchy root
func (c *ClassEntry) Depth() int {
	d := 0
	for cls := c.Super; cls != nil; cls = cls.Super {
		d++
	}
	return d
}

// MethodEntry is a method declared by a class of one group
type MethodEntry struct {
	entity

	Owner  *ClassEntry
	Name   string
	Desc   string
	Sig    Signature
	Static bool
	Insns  []Insn

	// Resolved references, deduplicated in order of first appearance
	Calls       []*MethodEntry
	CalledBy    []*MethodEntry
	FieldReads  []*FieldEntry
	FieldWrites []*FieldEntry
	ClassRefs   []*ClassEntry
}

func (m *MethodEntry) Kind() Kind { return KindMethod }

// EntityKey returns the comparable identity
func (m *MethodEntry) EntityKey() EntityKey {
	return EntityKey{Side: m.Side(), Kind: KindMethod, Key: m.key}
}

// Match returns the confirmed counterpart method or nil
func (m *MethodEntry) Match() *MethodEntry {
	mm, _ := m.MatchEntity().(*MethodEntry)
	return mm
}

// IsInitializer reports constructors and static initializers
func (m *MethodEntry) IsInitializer() bool {
	return strings.HasPrefix(m.Name, "<")
}

// FieldEntry is a field declared by a class of one group
type FieldEntry struct {
	entity

	Owner  *ClassEntry
	Name   string
	Desc   string
	Type   Type
	Static bool

	ReadBy    []*MethodEntry
	WrittenBy []*MethodEntry
}

func (f *FieldEntry) Kind() Kind { return KindField }

// EntityKey returns the comparable identity
func (f *FieldEntry) EntityKey() EntityKey {
	return EntityKey{Side: f.Side(), Kind: KindField, Key: f.key}
}

// Match returns the confirmed counterpart field or nil
func (f *FieldEntry) Match() *FieldEntry {
	m, _ := f.MatchEntity().(*FieldEntry)
	return m
}

func methodKey(owner, name, desc string) string {
	return owner + "." + name + desc
}

func fieldKey(owner, name, desc string) string {
	return owner + "." + name + ":" + desc
}
