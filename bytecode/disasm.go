package bytecode

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/pontaoski/oxide/errors"
)

// Instruction is one decoded instruction. Args holds one entry per operand of
// the layout, Size included.
type Instruction struct {
	Offset int
	Op     ByteCode
	Args   []uint64
}

// Len returns the encoded length of the instruction.
func (in Instruction) Len() int {
	n := 1
	var size int
	for i, operand := range Layout(in.Op) {
		switch operand {
		case Size:
			size = int(in.Args[i])
			n++
		case Reg:
			n++
		case Const:
			n += size
		case Addr:
			n += AddressSize
		}
	}
	return n
}

func (in Instruction) String() string {
	parts := []string{fmt.Sprintf("%06x  %s", in.Offset, in.Op)}
	for i, operand := range Layout(in.Op) {
		arg := in.Args[i]
		switch operand {
		case Size:
			parts = append(parts, fmt.Sprintf("(%d)", arg))
		case Reg:
			parts = append(parts, Register(arg).String())
		case Const:
			parts = append(parts, fmt.Sprintf("%d", arg))
		case Addr:
			parts = append(parts, fmt.Sprintf("[%#x]", arg))
		}
	}
	return strings.Join(parts, " ")
}

// Decode reads the instruction at code[offset:]. base is added to offsets
// reported in the result and in errors.
func Decode(code []byte, offset, base int) (Instruction, error) {
	op, err := FromByte(code[offset])
	if err != nil {
		return Instruction{}, err
	}
	in := Instruction{Offset: base + offset, Op: op}

	pos := offset + 1
	need := func(n int) error {
		if pos+n > len(code) {
			return errors.TruncatedInstruction{Offset: base + offset, Op: op}
		}
		return nil
	}

	var size byte
	for _, operand := range Layout(op) {
		switch operand {
		case Size:
			if err := need(1); err != nil {
				return in, err
			}
			size = code[pos]
			if size != 1 && size != 2 && size != 4 && size != 8 {
				return in, errors.InvalidOperandSize{Offset: base + pos, Size: size}
			}
			in.Args = append(in.Args, uint64(size))
			pos++
		case Reg:
			if err := need(1); err != nil {
				return in, err
			}
			reg, err := RegisterFromByte(code[pos])
			if err != nil {
				return in, err
			}
			in.Args = append(in.Args, uint64(reg))
			pos++
		case Const:
			if err := need(int(size)); err != nil {
				return in, err
			}
			var buf [8]byte
			copy(buf[:], code[pos:pos+int(size)])
			in.Args = append(in.Args, binary.LittleEndian.Uint64(buf[:]))
			pos += int(size)
		case Addr:
			if err := need(AddressSize); err != nil {
				return in, err
			}
			in.Args = append(in.Args, binary.LittleEndian.Uint64(code[pos:]))
			pos += AddressSize
		}
	}
	return in, nil
}

// Disassemble decodes every instruction of code, which is loaded at base.
func Disassemble(code []byte, base int) ([]Instruction, error) {
	var out []Instruction
	for offset := 0; offset < len(code); {
		in, err := Decode(code, offset, base)
		if err != nil {
			return out, err
		}
		out = append(out, in)
		offset += in.Len()
	}
	return out, nil
}
