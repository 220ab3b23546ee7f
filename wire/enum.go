package wire

import (
	"fmt"
	"math/bits"
	"reflect"
	"sync"

	"golang.org/x/exp/constraints"
	"golang.org/x/text/cases"
)

// Member is one value of a registered enumeration.
type Member struct {
	// Name is the Go-facing name. Matched case-insensitively when parsing.
	Name string
	// Value is the numeric value (a single bit for flag enumerations).
	Value int64
	// Wire lists the textual forms the server emits for this member. The first
	// entry is the form written into queries.
	Wire []string
	// Of names the concrete sibling members an umbrella member stands for.
	// The server never emits an umbrella member itself.
	Of []string
}

// IsUmbrella reports whether m aggregates other members.
func (m Member) IsUmbrella() bool {
	return len(m.Of) > 0
}

// WireValue is the form used when the member is sent to the server.
func (m Member) WireValue() string {
	if len(m.Wire) > 0 {
		return m.Wire[0]
	}
	return m.Name
}

// Enum describes a registered enumeration type.
type Enum struct {
	typ     reflect.Type
	flags   bool
	members []Member
	byName  map[string]int
	byWire  map[string]int
	byValue map[int64]int
}

var registry sync.Map // reflect.Type -> *Enum

// Register declares the members of enumeration type E. It panics on duplicate
// names, wire values or numeric values, and on umbrella members referring to
// unknown or umbrella siblings; registration happens in package init.
func Register[E constraints.Integer](members ...Member) *Enum {
	return register(reflect.TypeFor[E](), false, members)
}

// RegisterFlags declares a flag enumeration: each concrete member is one bit and a
// value with several bits set expands to one member per bit.
func RegisterFlags[E constraints.Integer](members ...Member) *Enum {
	return register(reflect.TypeFor[E](), true, members)
}

func register(typ reflect.Type, flags bool, members []Member) *Enum {
	e := &Enum{
		typ:     typ,
		flags:   flags,
		members: members,
		byName:  make(map[string]int, len(members)),
		byWire:  make(map[string]int, len(members)),
		byValue: make(map[int64]int, len(members)),
	}
	for idx, m := range members {
		name := fold(m.Name)
		if _, dup := e.byName[name]; dup {
			panic(fmt.Sprintf("enum %s: duplicate member name %q", typ, m.Name))
		}
		e.byName[name] = idx
		if _, dup := e.byValue[m.Value]; dup {
			panic(fmt.Sprintf("enum %s: duplicate value %d (%s)", typ, m.Value, m.Name))
		}
		e.byValue[m.Value] = idx
		for _, w := range m.Wire {
			key := fold(w)
			if other, dup := e.byWire[key]; dup {
				panic(fmt.Sprintf("enum %s: wire value %q used by %s and %s", typ, w, members[other].Name, m.Name))
			}
			e.byWire[key] = idx
		}
	}
	for _, m := range members {
		for _, sibling := range m.Of {
			idx, ok := e.byName[fold(sibling)]
			if !ok {
				panic(fmt.Sprintf("enum %s: umbrella %s refers to unknown member %q", typ, m.Name, sibling))
			}
			if members[idx].IsUmbrella() {
				panic(fmt.Sprintf("enum %s: umbrella %s refers to umbrella %s", typ, m.Name, sibling))
			}
		}
	}
	if _, loaded := registry.LoadOrStore(typ, e); loaded {
		panic(fmt.Sprintf("enum %s registered twice", typ))
	}
	return e
}

// EnumOf returns the registration for typ, if any.
func EnumOf(typ reflect.Type) (*Enum, bool) {
	e, ok := registry.Load(typ)
	if !ok {
		return nil, false
	}
	return e.(*Enum), true
}

// EnumFor is EnumOf for a type parameter.
func EnumFor[E constraints.Integer]() (*Enum, bool) {
	return EnumOf(reflect.TypeFor[E]())
}

func (e *Enum) Type() reflect.Type { return e.typ }

func (e *Enum) Name() string { return e.typ.Name() }

func (e *Enum) IsFlags() bool { return e.flags }

// Members returns the members in declaration order.
func (e *Enum) Members() []Member {
	return append([]Member(nil), e.members...)
}

// Parse resolves text against member names and wire values, ignoring case.
func (e *Enum) Parse(text string) (Member, bool) {
	key := fold(text)
	if idx, ok := e.byName[key]; ok {
		return e.members[idx], true
	}
	if idx, ok := e.byWire[key]; ok {
		return e.members[idx], true
	}
	return Member{}, false
}

// ByValue returns the member declared with value v.
func (e *Enum) ByValue(v int64) (Member, bool) {
	idx, ok := e.byValue[v]
	if !ok {
		return Member{}, false
	}
	return e.members[idx], true
}

// Expand returns the concrete members v stands for, in declaration order.
// Umbrella members expand to their siblings; flag values with several bits set
// expand to one member per bit. Anything else expands to itself.
func (e *Enum) Expand(v int64) ([]Member, error) {
	if e.flags && bits.OnesCount64(uint64(v)) > 1 {
		return e.expandBits(v)
	}
	m, ok := e.ByValue(v)
	if !ok {
		return nil, fmt.Errorf("value %d is not a member of enum %s", v, e.Name())
	}
	if !m.IsUmbrella() {
		return []Member{m}, nil
	}
	out := make([]Member, 0, len(m.Of))
	for _, sibling := range m.Of {
		out = append(out, e.members[e.byName[fold(sibling)]])
	}
	return out, nil
}

func (e *Enum) expandBits(v int64) ([]Member, error) {
	var out []Member
	remaining := v
	for _, m := range e.members {
		if m.IsUmbrella() || m.Value == 0 || bits.OnesCount64(uint64(m.Value)) != 1 {
			continue
		}
		if v&m.Value == m.Value {
			out = append(out, m)
			remaining &^= m.Value
		}
	}
	if remaining != 0 {
		return nil, fmt.Errorf("value %d of flag enum %s has undeclared bits %#x", v, e.Name(), remaining)
	}
	return out, nil
}

// cases.Caser is stateful, so one is created per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

// NameOf returns the name of the member declared with value v, or v as a
// number when E is not registered or has no such member.
func NameOf[E constraints.Integer](v E) string {
	if e, ok := EnumFor[E](); ok {
		if m, ok := e.ByValue(int64(v)); ok {
			return m.Name
		}
	}
	return fmt.Sprint(int64(v))
}
