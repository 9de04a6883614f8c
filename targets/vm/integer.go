package vm

import (
	"github.com/pontaoski/oxide/bytecode"
	"github.com/pontaoski/oxide/types"
)

// Integers narrower than a register are kept normalised in registers: signed
// values sign-extended to 64 bits, unsigned ones zero-extended. Memory holds
// them at their own width, so loads extend and arithmetic renormalises.

// narrowBits returns the width of integer types narrower than a register.
func narrowBits(t types.DataType) (uint, bool) {
	if !types.IsInteger(t) {
		return 0, false
	}
	size := sizeOf(t)
	if size >= slotSize {
		return 0, false
	}
	return uint(size * 8), true
}

// normalise truncates R1 to the width of t and extends it again. Clobbers R2.
func (f *function) normalise(t types.DataType) {
	bits, ok := narrowBits(t)
	if !ok {
		return
	}
	f.moveRegU64(bytecode.R2, 1<<bits-1)
	f.emitter.op(bytecode.AND)
	if types.IsSignedInteger(t) {
		// (x ^ s) - s with s the sign bit of the narrow value
		f.moveRegU64(bytecode.R2, 1<<(bits-1))
		f.emitter.op(bytecode.XOR)
		f.emitter.op(bytecode.INTEGER_SUB)
	}
}

// extend sign-extends a signed value just loaded into dst from memory.
// Clobbers R1 and R2.
func (f *function) extend(dst bytecode.Register, t types.DataType) {
	if !types.IsSignedInteger(t) {
		return
	}
	if _, ok := narrowBits(t); !ok {
		return
	}
	f.moveRegReg(bytecode.R1, dst)
	f.normalise(t)
	f.moveRegReg(dst, bytecode.R1)
}

// signMask replaces R1 with all ones if it is negative and zero otherwise.
// Clobbers R2.
func (f *function) signMask() {
	f.moveRegU8(bytecode.R2, 63)
	f.emitter.op(bytecode.SHIFT_RIGHT)
	f.moveRegReg(bytecode.R2, bytecode.R1)
	f.moveRegU8(bytecode.R1, 0)
	f.emitter.op(bytecode.INTEGER_SUB)
}

// signedDivide divides R1 by R2 as signed values, truncating toward zero.
// The machine divides unsigned, so both operands are made positive and the
// sign is put back on the result: the xor of both signs for a quotient, the
// dividend's sign for a remainder. Uses R3, R4 and two stack words.
func (f *function) signedDivide(remainder bool) {
	f.moveRegReg(bytecode.R4, bytecode.R1)
	f.moveRegReg(bytecode.R3, bytecode.R2)

	// |y|, keeping its sign on the stack
	f.moveRegReg(bytecode.R1, bytecode.R3)
	f.signMask()
	f.push(bytecode.R1)
	f.moveRegReg(bytecode.R2, bytecode.R1)
	f.moveRegReg(bytecode.R1, bytecode.R3)
	f.emitter.op(bytecode.XOR)
	f.emitter.op(bytecode.INTEGER_SUB)
	f.moveRegReg(bytecode.R3, bytecode.R1)

	// |x|, likewise
	f.moveRegReg(bytecode.R1, bytecode.R4)
	f.signMask()
	f.push(bytecode.R1)
	f.moveRegReg(bytecode.R2, bytecode.R1)
	f.moveRegReg(bytecode.R1, bytecode.R4)
	f.emitter.op(bytecode.XOR)
	f.emitter.op(bytecode.INTEGER_SUB)

	f.moveRegReg(bytecode.R2, bytecode.R3)
	if remainder {
		f.emitter.op(bytecode.INTEGER_MOD)
	} else {
		f.emitter.op(bytecode.INTEGER_DIV)
	}

	f.pop(bytecode.R2)
	f.pop(bytecode.R3)
	if !remainder {
		f.moveRegReg(bytecode.R4, bytecode.R1)
		f.moveRegReg(bytecode.R1, bytecode.R2)
		f.moveRegReg(bytecode.R2, bytecode.R3)
		f.emitter.op(bytecode.XOR)
		f.moveRegReg(bytecode.R2, bytecode.R1)
		f.moveRegReg(bytecode.R1, bytecode.R4)
	}
	f.emitter.op(bytecode.XOR)
	f.emitter.op(bytecode.INTEGER_SUB)
}

// arithmeticShift shifts R1 right by R2 keeping the sign, computed as
// ((x ^ m) >> n) ^ m with m the sign mask of x. Uses R3 and R4.
func (f *function) arithmeticShift() {
	f.moveRegReg(bytecode.R3, bytecode.R2)
	f.moveRegReg(bytecode.R4, bytecode.R1)
	f.signMask()
	f.moveRegReg(bytecode.R2, bytecode.R1)
	f.moveRegReg(bytecode.R1, bytecode.R4)
	f.emitter.op(bytecode.XOR)
	f.moveRegReg(bytecode.R4, bytecode.R2)
	f.moveRegReg(bytecode.R2, bytecode.R3)
	f.emitter.op(bytecode.SHIFT_RIGHT)
	f.moveRegReg(bytecode.R2, bytecode.R4)
	f.emitter.op(bytecode.XOR)
}
