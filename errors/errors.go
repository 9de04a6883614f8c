package errors

import (
	"fmt"

	"github.com/pontaoski/oxide/types"
)

type IllegalCast struct {
	From     types.DataType
	To       types.DataType
	Implicit bool
	Location types.Span
}

// NewIllegalCast builds the diagnostic for a rejected cast. The internal any
// type is never visible to programs, alone or inside another type, so seeing
// it here means type checking went wrong earlier.
func NewIllegalCast(from, to types.DataType, implicit bool, location types.Span) IllegalCast {
	if types.ContainsAny(from) || types.ContainsAny(to) {
		panic(Internal{Kind: AnyInDiagnostic, Detail: fmt.Sprintf("cast from %s to %s", from, to)})
	}
	return IllegalCast{From: from, To: to, Implicit: implicit, Location: location}
}

func (e IllegalCast) Error() string {
	if e.Implicit {
		return fmt.Sprintf("cannot implicitly cast %s to %s. %s", e.From, e.To, e.Location)
	}
	return fmt.Sprintf("cannot cast %s to %s. %s", e.From, e.To, e.Location)
}

type DuplicateDefinition struct {
	Name     string
	Location types.Span
}

func (e DuplicateDefinition) Error() string {
	return fmt.Sprintf("%s defined more than once. %s", e.Name, e.Location)
}

type UndefinedName struct {
	What     string
	Name     string
	Location types.Span
}

func (e UndefinedName) Error() string {
	return fmt.Sprintf("undefined %s %s. %s", e.What, e.Name, e.Location)
}

type InvalidOpcode struct {
	Byte byte
}

func (e InvalidOpcode) Error() string {
	return fmt.Sprintf("invalid opcode %d", e.Byte)
}

type InvalidRegister struct {
	Byte byte
}

func (e InvalidRegister) Error() string {
	return fmt.Sprintf("invalid register %d", e.Byte)
}

type TruncatedInstruction struct {
	Offset int
	Op     fmt.Stringer
}

func (e TruncatedInstruction) Error() string {
	return fmt.Sprintf("instruction %s at offset %d is truncated", e.Op, e.Offset)
}

type TypeMismatch struct {
	Expected types.DataType
	Got      types.DataType
	Location types.Span
}

func (e TypeMismatch) Error() string {
	return fmt.Sprintf("expected %s, got %s. %s", e.Expected, e.Got, e.Location)
}

// Syntax wraps a parse failure of a textual input.
type Syntax struct {
	Filename string
	Err      error
}

func (e Syntax) Error() string {
	return fmt.Sprintf("%s: %s", e.Filename, e.Err)
}

func (e Syntax) Unwrap() error {
	return e.Err
}

type InvalidOperandSize struct {
	Offset int
	Size   byte
}

func (e InvalidOperandSize) Error() string {
	return fmt.Sprintf("invalid operand size %d at offset %d", e.Size, e.Offset)
}
