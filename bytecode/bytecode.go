// Package bytecode describes the instruction set of the Oxide virtual machine:
// opcodes, registers and the operand layout of every instruction.
package bytecode

//go:generate sh -c "cd ../tool && go run . ../bytecode/opcodes.def ../bytecode/opcodes.go bytecode"

import (
	"github.com/pontaoski/oxide/errors"
)

type ByteCode byte

func (b ByteCode) String() string {
	if int(b) >= Count {
		return "INVALID"
	}
	return Names[b]
}

// IsJump reports whether b transfers control, from JUMP up to RETURN.
func IsJump(b ByteCode) bool {
	return JUMP <= b && b <= RETURN
}

// FromByte maps a raw byte to its opcode.
func FromByte(b byte) (ByteCode, error) {
	if int(b) >= Count {
		return 0, errors.InvalidOpcode{Byte: b}
	}
	return ByteCode(b), nil
}

// Operand is one field of an instruction after the opcode byte.
type Operand int

const (
	// Size is a one byte width, in bytes, of the value being handled.
	Size Operand = iota
	// Reg is a one byte register number.
	Reg
	// Const is an immediate whose width is the preceding Size operand.
	Const
	// Addr is an 8 byte little-endian address.
	Addr
)

func (o Operand) String() string {
	data := map[Operand]string{
		Size:  "size",
		Reg:   "reg",
		Const: "const",
		Addr:  "addr",
	}
	return data[o]
}

// Layout returns the operands that follow b's opcode byte, in order.
func Layout(b ByteCode) []Operand {
	if int(b) >= Count {
		return nil
	}
	return layouts[b]
}

// AddressSize is the width of addresses and label placeholders.
const AddressSize = 8

type Register byte

const (
	R1 Register = iota
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	EXIT_REGISTER
	INPUT
	ERROR
	PRINT
	STACK_FRAME_POINTER
	STACK_TOP_POINTER
	PROGRAM_COUNTER
	ZERO_FLAG
	SIGN_FLAG
	REMAINDER_FLAG
	CARRY_FLAG
	OVERFLOW_FLAG

	RegisterCount = int(OVERFLOW_FLAG) + 1
)

func (r Register) String() string {
	data := map[Register]string{
		R1:                  "r1",
		R2:                  "r2",
		R3:                  "r3",
		R4:                  "r4",
		R5:                  "r5",
		R6:                  "r6",
		R7:                  "r7",
		R8:                  "r8",
		EXIT_REGISTER:       "exit",
		INPUT:               "input",
		ERROR:               "error",
		PRINT:               "print",
		STACK_FRAME_POINTER: "sfp",
		STACK_TOP_POINTER:   "stp",
		PROGRAM_COUNTER:     "pc",
		ZERO_FLAG:           "zf",
		SIGN_FLAG:           "sf",
		REMAINDER_FLAG:      "rf",
		CARRY_FLAG:          "cf",
		OVERFLOW_FLAG:       "of",
	}
	if name, ok := data[r]; ok {
		return name
	}
	return "invalid"
}

func RegisterFromByte(b byte) (Register, error) {
	if int(b) >= RegisterCount {
		return 0, errors.InvalidRegister{Byte: b}
	}
	return Register(b), nil
}
