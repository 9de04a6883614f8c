// Package ir holds the typed intermediate representation consumed by the
// targets: function graphs made of basic blocks of operators.
//
// Label and temporary ids are scoped to the function graph that uses them.
package ir

import (
	"fmt"
	"strings"

	"github.com/pontaoski/oxide/symbols"
	"github.com/pontaoski/oxide/types"
)

type Value interface {
	is_Value()
	Type() types.DataType
	String() string
}

// Tn is a temporary value introduced by the IR generator.
type Tn struct {
	ID       symbols.TnID
	DataType types.DataType
}

func (v Tn) is_Value()            {}
func (v Tn) Type() types.DataType { return v.DataType }
func (v Tn) String() string       { return fmt.Sprintf("%%%d", v.ID) }

type Const struct {
	Literal  types.LiteralValue
	DataType types.DataType
}

func (v Const) is_Value()            {}
func (v Const) Type() types.DataType { return v.DataType }
func (v Const) String() string       { return fmt.Sprintf("%s:%s", v.Literal, v.DataType) }

// Static reads the static data entry ID.
type Static struct {
	ID       symbols.StaticID
	Name     string
	DataType types.DataType
}

func (v Static) is_Value()            {}
func (v Static) Type() types.DataType { return v.DataType }
func (v Static) String() string       { return "@" + v.Name }

type Operator interface {
	is_Operator()
	String() string
}

type Add struct {
	Target      Tn
	Left, Right Value
}

type Sub struct {
	Target      Tn
	Left, Right Value
}

type Mul struct {
	Target      Tn
	Left, Right Value
}

type Div struct {
	Target      Tn
	Left, Right Value
}

type Mod struct {
	Target      Tn
	Left, Right Value
}

type Greater struct {
	Target      Tn
	Left, Right Value
}

type Less struct {
	Target      Tn
	Left, Right Value
}

type GreaterEqual struct {
	Target      Tn
	Left, Right Value
}

type LessEqual struct {
	Target      Tn
	Left, Right Value
}

type Equal struct {
	Target      Tn
	Left, Right Value
}

type NotEqual struct {
	Target      Tn
	Left, Right Value
}

type BitShiftLeft struct {
	Target      Tn
	Left, Right Value
}

type BitShiftRight struct {
	Target      Tn
	Left, Right Value
}

type BitAnd struct {
	Target      Tn
	Left, Right Value
}

type BitOr struct {
	Target      Tn
	Left, Right Value
}

type BitXor struct {
	Target      Tn
	Left, Right Value
}

type BitNot struct {
	Target  Tn
	Operand Value
}

type Assign struct {
	Target Tn
	Source Value
}

// Deref loads the value Ref points to into Target.
type Deref struct {
	Target Tn
	Ref    Value
}

// DerefAssign stores Source at the address held by Target.
type DerefAssign struct {
	Target Value
	Source Value
}

// Ref takes the address of a temporary or a static.
type Ref struct {
	Target Tn
	Ref    Value
}

// Copy copies the bytes of Source into Target.
type Copy struct {
	Target Tn
	Source Value
}

// DerefCopy copies the value Source points to into the location Target
// points to.
type DerefCopy struct {
	Target Value
	Source Value
}

type Jump struct {
	Target symbols.LabelID
}

type JumpIf struct {
	Condition Value
	Target    symbols.LabelID
}

type JumpIfNot struct {
	Condition Value
	Target    symbols.LabelID
}

type Label struct {
	Label symbols.LabelID
}

// Call invokes the function named Callee. Target is nil when the result is
// discarded or the callee returns void.
type Call struct {
	Target *Tn
	Callee string
	Args   []Value
}

// Return leaves the function. Value is nil for void functions.
type Return struct {
	Value Value
}

type PushScope struct {
	Bytes uint64
}

type PopScope struct {
	Bytes uint64
}

type Nop struct{}

func (v Add) is_Operator()           {}
func (v Sub) is_Operator()           {}
func (v Mul) is_Operator()           {}
func (v Div) is_Operator()           {}
func (v Mod) is_Operator()           {}
func (v Greater) is_Operator()       {}
func (v Less) is_Operator()          {}
func (v GreaterEqual) is_Operator()  {}
func (v LessEqual) is_Operator()     {}
func (v Equal) is_Operator()         {}
func (v NotEqual) is_Operator()      {}
func (v BitShiftLeft) is_Operator()  {}
func (v BitShiftRight) is_Operator() {}
func (v BitAnd) is_Operator()        {}
func (v BitOr) is_Operator()         {}
func (v BitXor) is_Operator()        {}
func (v BitNot) is_Operator()        {}
func (v Assign) is_Operator()        {}
func (v Deref) is_Operator()         {}
func (v DerefAssign) is_Operator()   {}
func (v Ref) is_Operator()           {}
func (v Copy) is_Operator()          {}
func (v DerefCopy) is_Operator()     {}
func (v Jump) is_Operator()          {}
func (v JumpIf) is_Operator()        {}
func (v JumpIfNot) is_Operator()     {}
func (v Label) is_Operator()         {}
func (v Call) is_Operator()          {}
func (v Return) is_Operator()        {}
func (v PushScope) is_Operator()     {}
func (v PopScope) is_Operator()      {}
func (v Nop) is_Operator()           {}

type BasicBlock struct {
	ID  int
	Ops []Operator
}

type FunctionGraph struct {
	Name   string
	Params []Tn
	Return types.DataType
	Blocks []BasicBlock
}

// Signature returns the function type of the graph.
func (f *FunctionGraph) Signature() types.Function {
	fn := types.Function{Return: f.Return}
	for _, p := range f.Params {
		fn.Params = append(fn.Params, p.DataType)
	}
	return fn
}

type Program struct {
	Symbols   *symbols.Table
	Functions []*FunctionGraph
}

// Function looks up a function graph by name.
func (p *Program) Function(name string) (*FunctionGraph, bool) {
	for _, f := range p.Functions {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// DefaultEntries are tried in order when no entry function is configured.
var DefaultEntries = []string{"__init__", "main"}

// Entry returns the function a program starts in: the configured one if name
// is set, else the first of DefaultEntries that is defined.
func (p *Program) Entry(name string) (*FunctionGraph, bool) {
	if name != "" {
		return p.Function(name)
	}
	for _, candidate := range DefaultEntries {
		if f, ok := p.Function(candidate); ok {
			return f, true
		}
	}
	return nil, false
}

func (p *Program) String() string {
	var sb strings.Builder
	for _, s := range p.Symbols.Statics() {
		fmt.Fprintf(&sb, "static %s: %s = %s\n", s.Name, s.DataType, s.Value)
	}
	for _, f := range p.Functions {
		sb.WriteString(f.String())
	}
	return sb.String()
}

func (f *FunctionGraph) String() string {
	var sb strings.Builder
	var params []string
	for _, p := range f.Params {
		params = append(params, fmt.Sprintf("%s: %s", p, p.DataType))
	}
	fmt.Fprintf(&sb, "fn %s(%s) -> %s {\n", f.Name, strings.Join(params, ", "), f.Return)
	for _, b := range f.Blocks {
		fmt.Fprintf(&sb, "block %d:\n", b.ID)
		for _, op := range b.Ops {
			fmt.Fprintf(&sb, "\t%s\n", op)
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}
