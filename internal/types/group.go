package types

import (
	"fmt"
	"sort"
	"strings"

	remaperrors "github.com/standardbeagle/remap/internal/errors"
)

// Group is one program snapshot. It is immutable once built; only the match
// handles of its entities change during a session.
type Group struct {
	side    Side
	name    string
	classes map[string]*ClassEntry
	sorted  []*ClassEntry
	byID    []Entity
	peer    *Group
}

// Side returns which snapshot this group is
func (g *Group) Side() Side { return g.side }

// Name is a human-readable label (usually the snapshot path)
func (g *Group) Name() string { return g.name }

// Peer returns the paired group, nil before NewEnv
func (g *Group) Peer() *Group { return g.peer }

// Class resolves an internal name, an object descriptor ("La/b;") or an array
// descriptor. Unknown names return nil.
func (g *Group) Class(name string) *ClassEntry {
	if len(name) > 2 && name[0] == 'L' && name[len(name)-1] == ';' {
		name = name[1 : len(name)-1]
	}
	return g.classes[name]
}

// Entity returns the entity with the given id, or nil
func (g *Group) Entity(id EntityID) Entity {
	if int(id) >= len(g.byID) {
		return nil
	}
	return g.byID[id]
}

// ClassByID returns the class with the given id, or nil when id names
// another kind of entity
func (g *Group) ClassByID(id EntityID) *ClassEntry {
	c, _ := g.Entity(id).(*ClassEntry)
	return c
}

// Classes returns every class sorted by name, external and array classes included
func (g *Group) Classes() []*ClassEntry {
	return g.sorted
}

// DefinedClasses returns the classes the snapshot defines
func (g *Group) DefinedClasses() []*ClassEntry {
	out := make([]*ClassEntry, 0, len(g.sorted))
	for _, c := range g.sorted {
		if !c.External {
			out = append(out, c)
		}
	}
	return out
}

// Methods returns every method in id order
func (g *Group) Methods() []*MethodEntry {
	var out []*MethodEntry
	for _, c := range g.sorted {
		out = append(out, c.Methods...)
	}
	return out
}

// Fields returns every field in id order
func (g *Group) Fields() []*FieldEntry {
	var out []*FieldEntry
	for _, c := range g.sorted {
		out = append(out, c.Fields...)
	}
	return out
}

// Len returns the number of entities of all kinds
func (g *Group) Len() int { return len(g.byID) }

// Env pairs the old and new groups of a matching session
type Env struct {
	A *Group
	B *Group
}

// NewEnv pairs two groups. a must be the old side and b the new side.
func NewEnv(a, b *Group) (*Env, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("both groups are required")
	}
	if a.side != SideA || b.side != SideB {
		return nil, remaperrors.ErrSideMismatch
	}
	if (a.peer != nil && a.peer != b) || (b.peer != nil && b.peer != a) {
		return nil, fmt.Errorf("group already paired with another snapshot")
	}
	a.peer = b
	b.peer = a
	return &Env{A: a, B: b}, nil
}

// Group returns the group for a side
func (e *Env) Group(s Side) *Group {
	if s == SideA {
		return e.A
	}
	return e.B
}

// Other returns the group opposite to side
func (e *Env) Other(s Side) *Group {
	return e.Group(s.Opposite())
}

// GroupBuilder assembles a Group. It is single-use and not safe for concurrent use.
type GroupBuilder struct {
	g       *Group
	defined []*ClassEntry
	supers  map[*ClassEntry]string
	itfs    map[*ClassEntry][]string
	errs    []error
	built   bool
}

// NewGroupBuilder starts an empty group for side
func NewGroupBuilder(side Side, name string) *GroupBuilder {
	return &GroupBuilder{
		g: &Group{
			side:    side,
			name:    name,
			classes: make(map[string]*ClassEntry),
		},
		supers: make(map[*ClassEntry]string),
		itfs:   make(map[*ClassEntry][]string),
	}
}

// AddClass defines a class. Super and interface names may refer to classes
// defined later or not at all (they become external classes).
func (b *GroupBuilder) AddClass(name, superName string, interfaces ...string) *ClassEntry {
	if existing, ok := b.g.classes[name]; ok {
		b.errs = append(b.errs, remaperrors.NewModelError(name, "duplicate class"))
		return existing
	}
	c := b.newClass(name)
	b.defined = append(b.defined, c)
	if superName != "" {
		b.supers[c] = superName
	}
	if len(interfaces) > 0 {
		b.itfs[c] = append([]string(nil), interfaces...)
	}
	return c
}

func (b *GroupBuilder) newClass(name string) *ClassEntry {
	c := &ClassEntry{
		Name:        name,
		methodIndex: make(map[string]*MethodEntry),
		fieldIndex:  make(map[string]*FieldEntry),
	}
	c.init(b.g, name)
	b.g.classes[name] = c
	return c
}

// external returns the class for name, creating an external one if needed
func (b *GroupBuilder) external(name string) *ClassEntry {
	if c, ok := b.g.classes[name]; ok {
		return c
	}
	if strings.HasPrefix(name, "[") {
		return b.arrayClass(name)
	}
	c := b.newClass(name)
	c.External = true
	return c
}

func (b *GroupBuilder) arrayClass(desc string) *ClassEntry {
	if c, ok := b.g.classes[desc]; ok {
		return c
	}
	t, err := ParseType(desc)
	if err != nil || t.Sort() != SortArray {
		b.errs = append(b.errs, remaperrors.NewModelError(desc, "invalid array descriptor"))
		return nil
	}
	c := b.newClass(desc)
	c.External = true
	c.Dims = t.Dimensions()
	c.ElemType = t.ElementType()
	if c.ElemType.Sort() == SortObject {
		c.ElemClass = b.external(c.ElemType.InternalName())
	}
	return c
}

// AddMethod declares a method on owner
func (b *GroupBuilder) AddMethod(owner *ClassEntry, name, desc string, static bool, insns []Insn) (*MethodEntry, error) {
	if err := b.checkOwner(owner, name); err != nil {
		return nil, err
	}
	sig, err := ParseSignature(desc)
	if err != nil {
		return nil, err
	}
	key := name + desc
	if _, dup := owner.methodIndex[key]; dup {
		return nil, remaperrors.NewModelError(methodKey(owner.Name, name, desc), "duplicate method")
	}
	for i, insn := range insns {
		if j, ok := insn.(JumpInsn); ok && (j.Target < 0 || j.Target >= len(insns)) {
			return nil, remaperrors.NewModelError(methodKey(owner.Name, name, desc),
				fmt.Sprintf("jump at %d targets %d outside body of %d instructions", i, j.Target, len(insns)))
		}
	}
	m := &MethodEntry{
		Owner:  owner,
		Name:   name,
		Desc:   desc,
		Sig:    sig,
		Static: static,
		Insns:  insns,
	}
	m.init(b.g, methodKey(owner.Name, name, desc))
	owner.Methods = append(owner.Methods, m)
	owner.methodIndex[key] = m
	return m, nil
}

func (b *GroupBuilder) checkOwner(owner *ClassEntry, member string) error {
	if owner == nil {
		return remaperrors.NewModelError(member, "member has no owner class")
	}
	if owner.group != b.g || owner.External {
		return remaperrors.NewModelError(owner.Name+"."+member, "owner is not defined by this group")
	}
	return nil
}

// AddField declares a field on owner
func (b *GroupBuilder) AddField(owner *ClassEntry, name, desc string, static bool) (*FieldEntry, error) {
	if err := b.checkOwner(owner, name); err != nil {
		return nil, err
	}
	t, err := ParseType(desc)
	if err != nil {
		return nil, err
	}
	if t.Sort() == SortMethod || t.Sort() == SortVoid {
		return nil, remaperrors.NewDescriptorError(desc, 0, "not a field type")
	}
	key := name + ":" + desc
	if _, dup := owner.fieldIndex[key]; dup {
		return nil, remaperrors.NewModelError(fieldKey(owner.Name, name, desc), "duplicate field")
	}
	f := &FieldEntry{
		Owner:  owner,
		Name:   name,
		Desc:   desc,
		Type:   t,
		Static: static,
	}
	f.init(b.g, fieldKey(owner.Name, name, desc))
	owner.Fields = append(owner.Fields, f)
	owner.fieldIndex[key] = f
	return f, nil
}

// Build links the hierarchy, creates external and array classes, resolves
// instruction references and assigns ids.
func (b *GroupBuilder) Build() (*Group, error) {
	if b.built {
		return nil, fmt.Errorf("group builder already used")
	}
	b.built = true

	for _, c := range b.defined {
		if name, ok := b.supers[c]; ok {
			c.Super = b.external(name)
		}
		for _, name := range b.itfs[c] {
			if itf := b.external(name); itf != nil {
				c.Interfaces = append(c.Interfaces, itf)
			}
		}
	}

	// Array classes for every array type the members mention
	for _, c := range b.defined {
		for _, f := range c.Fields {
			b.noteType(f.Type)
		}
		for _, m := range c.Methods {
			for _, p := range m.Sig.Params {
				b.noteType(p)
			}
			b.noteType(m.Sig.Return)
			for _, insn := range m.Insns {
				switch in := insn.(type) {
				case TypeInsn:
					if strings.HasPrefix(in.Desc, "[") {
						b.arrayClass(in.Desc)
					}
				case MultiANewArrayInsn:
					b.arrayClass(in.Desc)
				case LdcInsn:
					if in.Value.Kind == ConstType {
						b.noteType(in.Value.Type)
					}
				}
			}
		}
	}

	if len(b.errs) > 0 {
		return nil, remaperrors.NewMultiError(b.errs)
	}

	for _, c := range b.defined {
		if c.Super != nil {
			c.Super.Children = append(c.Super.Children, c)
		}
		for _, itf := range c.Interfaces {
			itf.Implementers = append(itf.Implementers, c)
		}
	}

	for _, c := range b.defined {
		for _, m := range c.Methods {
			b.linkRefs(m)
		}
	}

	g := b.g
	g.sorted = make([]*ClassEntry, 0, len(g.classes))
	for _, c := range g.classes {
		g.sorted = append(g.sorted, c)
	}
	sort.Slice(g.sorted, func(i, j int) bool { return g.sorted[i].Name < g.sorted[j].Name })

	for _, c := range g.sorted {
		c.id = EntityID(len(g.byID))
		g.byID = append(g.byID, c)
		for _, m := range c.Methods {
			m.id = EntityID(len(g.byID))
			g.byID = append(g.byID, m)
		}
		for _, f := range c.Fields {
			f.id = EntityID(len(g.byID))
			g.byID = append(g.byID, f)
		}
	}

	return g, nil
}

func (b *GroupBuilder) noteType(t Type) {
	switch t.Sort() {
	case SortArray:
		b.arrayClass(t.Descriptor())
	case SortMethod:
		if sig, err := ParseSignature(t.Descriptor()); err == nil {
			for _, p := range sig.Params {
				b.noteType(p)
			}
			b.noteType(sig.Return)
		}
	}
}

func (b *GroupBuilder) linkRefs(m *MethodEntry) {
	calls := map[*MethodEntry]bool{}
	reads := map[*FieldEntry]bool{}
	writes := map[*FieldEntry]bool{}
	classes := map[*ClassEntry]bool{}

	addClass := func(c *ClassEntry) {
		if c != nil && !classes[c] {
			classes[c] = true
			m.ClassRefs = append(m.ClassRefs, c)
		}
	}

	for _, insn := range m.Insns {
		switch in := insn.(type) {
		case MethodInsn:
			owner := b.g.Class(in.Owner)
			addClass(owner)
			if owner == nil {
				continue
			}
			if target := owner.ResolveMethod(in.Name, in.Desc, in.Itf); target != nil && !calls[target] {
				calls[target] = true
				m.Calls = append(m.Calls, target)
				target.CalledBy = append(target.CalledBy, m)
			}
		case FieldInsn:
			owner := b.g.Class(in.Owner)
			addClass(owner)
			if owner == nil {
				continue
			}
			f := owner.ResolveField(in.Name, in.Desc)
			if f == nil {
				continue
			}
			if in.Op.IsFieldWrite() {
				if !writes[f] {
					writes[f] = true
					m.FieldWrites = append(m.FieldWrites, f)
					f.WrittenBy = append(f.WrittenBy, m)
				}
			} else if !reads[f] {
				reads[f] = true
				m.FieldReads = append(m.FieldReads, f)
				f.ReadBy = append(f.ReadBy, m)
			}
		case TypeInsn:
			addClass(b.g.Class(in.Desc))
		case MultiANewArrayInsn:
			addClass(b.g.Class(in.Desc))
		}
	}
}
