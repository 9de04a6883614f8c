package ir

import (
	"fmt"
	"strings"
)

func def(target Tn, rhs string) string {
	return fmt.Sprintf("%s: %s = %s", target, target.DataType, rhs)
}

func binary(name string, target Tn, left, right Value) string {
	return def(target, fmt.Sprintf("%s %s, %s", name, left, right))
}

func args(values []Value) string {
	var s []string
	for _, v := range values {
		s = append(s, v.String())
	}
	return strings.Join(s, ", ")
}

func (v Add) String() string           { return binary("add", v.Target, v.Left, v.Right) }
func (v Sub) String() string           { return binary("sub", v.Target, v.Left, v.Right) }
func (v Mul) String() string           { return binary("mul", v.Target, v.Left, v.Right) }
func (v Div) String() string           { return binary("div", v.Target, v.Left, v.Right) }
func (v Mod) String() string           { return binary("mod", v.Target, v.Left, v.Right) }
func (v Greater) String() string       { return binary("gt", v.Target, v.Left, v.Right) }
func (v Less) String() string          { return binary("lt", v.Target, v.Left, v.Right) }
func (v GreaterEqual) String() string  { return binary("ge", v.Target, v.Left, v.Right) }
func (v LessEqual) String() string     { return binary("le", v.Target, v.Left, v.Right) }
func (v Equal) String() string         { return binary("eq", v.Target, v.Left, v.Right) }
func (v NotEqual) String() string      { return binary("ne", v.Target, v.Left, v.Right) }
func (v BitShiftLeft) String() string  { return binary("shl", v.Target, v.Left, v.Right) }
func (v BitShiftRight) String() string { return binary("shr", v.Target, v.Left, v.Right) }
func (v BitAnd) String() string        { return binary("and", v.Target, v.Left, v.Right) }
func (v BitOr) String() string         { return binary("or", v.Target, v.Left, v.Right) }
func (v BitXor) String() string        { return binary("xor", v.Target, v.Left, v.Right) }

func (v BitNot) String() string { return def(v.Target, "not "+v.Operand.String()) }
func (v Assign) String() string { return def(v.Target, v.Source.String()) }
func (v Deref) String() string  { return def(v.Target, "deref "+v.Ref.String()) }
func (v Ref) String() string    { return def(v.Target, "ref "+v.Ref.String()) }
func (v Copy) String() string   { return def(v.Target, "copy "+v.Source.String()) }

func (v DerefAssign) String() string {
	return fmt.Sprintf("store %s, %s", v.Target, v.Source)
}

func (v DerefCopy) String() string {
	return fmt.Sprintf("storecopy %s, %s", v.Target, v.Source)
}

func (v Jump) String() string      { return fmt.Sprintf("jump %d", v.Target) }
func (v JumpIf) String() string    { return fmt.Sprintf("jumpif %s, %d", v.Condition, v.Target) }
func (v JumpIfNot) String() string { return fmt.Sprintf("jumpifnot %s, %d", v.Condition, v.Target) }
func (v Label) String() string     { return fmt.Sprintf("label %d", v.Label) }

func (v Call) String() string {
	call := fmt.Sprintf("call %s(%s)", v.Callee, args(v.Args))
	if v.Target == nil {
		return call
	}
	return def(*v.Target, call)
}

func (v Return) String() string {
	if v.Value == nil {
		return "ret void"
	}
	return "ret " + v.Value.String()
}

func (v PushScope) String() string { return fmt.Sprintf("push %d", v.Bytes) }
func (v PopScope) String() string  { return fmt.Sprintf("pop %d", v.Bytes) }
func (v Nop) String() string       { return "nop" }
