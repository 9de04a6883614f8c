package vm

import (
	"github.com/pontaoski/oxide/bytecode"
	"github.com/pontaoski/oxide/errors"
	"github.com/pontaoski/oxide/ir"
	"github.com/pontaoski/oxide/types"
)

var integerOps = map[string]bytecode.ByteCode{
	"add": bytecode.INTEGER_ADD,
	"sub": bytecode.INTEGER_SUB,
	"mul": bytecode.INTEGER_MUL,
	"div": bytecode.INTEGER_DIV,
	"mod": bytecode.INTEGER_MOD,
	"shl": bytecode.SHIFT_LEFT,
	"shr": bytecode.SHIFT_RIGHT,
	"and": bytecode.AND,
	"or":  bytecode.OR,
	"xor": bytecode.XOR,
}

var floatOps = map[string]bytecode.ByteCode{
	"add": bytecode.FLOAT_ADD,
	"sub": bytecode.FLOAT_SUB,
	"mul": bytecode.FLOAT_MUL,
	"div": bytecode.FLOAT_DIV,
	"mod": bytecode.FLOAT_MOD,
}

// flagTest is the jump taken when a comparison holds. swap compares the
// operands the other way round, for tests a single flag cannot express.
type flagTest struct {
	jump bytecode.ByteCode
	swap bool
}

type comparison struct {
	signed, unsigned, float flagTest
}

// COMPARE a, b sets the zero and sign flags from a-b, carry when a is below b
// as unsigned, and overflow when a-b overflows as signed. FLOAT_SUB sets the
// zero and sign flags from its result.
var comparisons = map[string]comparison{
	"lt": {
		signed:   flagTest{bytecode.JUMP_LESS, false},
		unsigned: flagTest{bytecode.JUMP_CARRY, false},
		float:    flagTest{bytecode.JUMP_SIGN, false},
	},
	"gt": {
		signed:   flagTest{bytecode.JUMP_GREATER, false},
		unsigned: flagTest{bytecode.JUMP_CARRY, true},
		float:    flagTest{bytecode.JUMP_SIGN, true},
	},
	"le": {
		signed:   flagTest{bytecode.JUMP_LESS_OR_EQUAL, false},
		unsigned: flagTest{bytecode.JUMP_NOT_CARRY, true},
		float:    flagTest{bytecode.JUMP_NOT_SIGN, true},
	},
	"ge": {
		signed:   flagTest{bytecode.JUMP_GREATER_OR_EQUAL, false},
		unsigned: flagTest{bytecode.JUMP_NOT_CARRY, false},
		float:    flagTest{bytecode.JUMP_NOT_SIGN, false},
	},
	"eq": {
		signed:   flagTest{bytecode.JUMP_ZERO, false},
		unsigned: flagTest{bytecode.JUMP_ZERO, false},
		float:    flagTest{bytecode.JUMP_ZERO, false},
	},
	"ne": {
		signed:   flagTest{bytecode.JUMP_NOT_ZERO, false},
		unsigned: flagTest{bytecode.JUMP_NOT_ZERO, false},
		float:    flagTest{bytecode.JUMP_NOT_ZERO, false},
	},
}

func (f *function) lower(op ir.Operator) {
	if target, left, right, ok := ir.Operands(op); ok {
		f.binary(ir.Mnemonic(op), target, left, right)
		return
	}

	switch o := op.(type) {
	case ir.BitNot:
		if types.IsFloat(o.Operand.Type()) {
			panic(errors.Internalf(errors.UnsupportedOperand, "not on %s", o.Operand.Type()))
		}
		f.load(o.Operand, bytecode.R1)
		f.emitter.op(bytecode.NOT)
		f.normalise(o.Target.DataType)
		f.define(o.Target, bytecode.R1)
	case ir.Assign:
		f.load(o.Source, bytecode.R1)
		f.define(o.Target, bytecode.R1)
	case ir.Copy:
		f.load(o.Source, bytecode.R1)
		f.define(o.Target, bytecode.R1)
	case ir.Deref:
		f.load(o.Ref, bytecode.R3)
		f.emitter.load(sizeOf(o.Target.DataType), bytecode.R1, bytecode.R3)
		f.extend(bytecode.R1, o.Target.DataType)
		f.define(o.Target, bytecode.R1)
	case ir.DerefAssign:
		f.load(o.Source, bytecode.R4)
		f.load(o.Target, bytecode.R3)
		f.store(sizeOf(o.Source.Type()), bytecode.R3, bytecode.R4)
	case ir.DerefCopy:
		ref, ok := o.Source.Type().(types.Ref)
		if !ok {
			panic(errors.Internalf(errors.UnsupportedOperand, "copy from non-pointer %s", o.Source))
		}
		f.load(o.Target, bytecode.R4)
		f.load(o.Source, bytecode.R3)
		f.copyMem(sizeOf(ref.Target), bytecode.R4, bytecode.R3)
	case ir.Ref:
		f.ref(o)
	case ir.Jump:
		f.emitter.op(bytecode.JUMP)
		f.placeholder(f.labelKey(f.index, o.Target))
	case ir.JumpIf:
		f.conditional(o.Condition, bytecode.JUMP_NOT_ZERO)
		f.placeholder(f.labelKey(f.index, o.Target))
	case ir.JumpIfNot:
		f.conditional(o.Condition, bytecode.JUMP_ZERO)
		f.placeholder(f.labelKey(f.index, o.Target))
	case ir.Label:
		f.mark(f.labelKey(f.index, o.Label))
	case ir.Call:
		f.call(o)
	case ir.Return:
		if o.Value != nil {
			f.load(o.Value, bytecode.R1)
		}
		f.epilogue()
	case ir.PushScope:
		f.adjustStackTop(o.Bytes, true)
	case ir.PopScope:
		f.adjustStackTop(o.Bytes, false)
	case ir.Nop:
		f.emitter.op(bytecode.NO_OPERATION)
	default:
		panic(errors.Internalf(errors.UnsupportedOperand, "operator %s", op))
	}
}

// binary evaluates left into R1 and right into R2, leaving the result in R1.
func (f *function) binary(name string, target ir.Tn, left, right ir.Value) {
	t := left.Type()

	f.load(right, bytecode.R4)
	f.load(left, bytecode.R1)
	f.moveRegReg(bytecode.R2, bytecode.R4)

	if cmp, ok := comparisons[name]; ok {
		f.compareValues(cmp, t)
		f.define(target, bytecode.R1)
		return
	}

	switch {
	case types.IsFloat(t):
		code, ok := floatOps[name]
		if !ok {
			panic(errors.Internalf(errors.UnsupportedOperand, "%s on %s", name, t))
		}
		f.emitter.op(code)
	case types.IsSignedInteger(t) && (name == "div" || name == "mod"):
		f.signedDivide(name == "mod")
	case types.IsSignedInteger(t) && name == "shr":
		f.arithmeticShift()
	default:
		code, ok := integerOps[name]
		if !ok {
			panic(errors.Internalf(errors.UnsupportedOperand, "%s on %s", name, t))
		}
		f.emitter.op(code)
	}
	f.normalise(target.DataType)
	f.define(target, bytecode.R1)
}

// compareValues sets R1 to 1 if the comparison of R1 and R2 holds, else 0.
func (f *function) compareValues(cmp comparison, t types.DataType) {
	test := cmp.unsigned
	switch {
	case types.IsFloat(t):
		test = cmp.float
	case types.IsSignedInteger(t):
		test = cmp.signed
	}

	switch {
	case types.IsFloat(t):
		if test.swap {
			f.moveRegReg(bytecode.R3, bytecode.R1)
			f.moveRegReg(bytecode.R1, bytecode.R2)
			f.moveRegReg(bytecode.R2, bytecode.R3)
		}
		f.emitter.op(bytecode.FLOAT_SUB)
	case test.swap:
		f.compare(bytecode.R2, bytecode.R1)
	default:
		f.compare(bytecode.R1, bytecode.R2)
	}

	f.moveRegU8(bytecode.R1, 1)
	// skip the jump itself and the 4 byte move after it
	after := uint64(f.offset() + 1 + bytecode.AddressSize + 4)
	f.jumpTo(test.jump, after)
	f.moveRegU8(bytecode.R1, 0)
}

// conditional compares cond against zero and emits the jump opcode. The
// caller writes the target placeholder.
func (f *function) conditional(cond ir.Value, jump bytecode.ByteCode) {
	f.load(cond, bytecode.R1)
	f.moveRegU8(bytecode.R2, 0)
	f.compare(bytecode.R1, bytecode.R2)
	f.emitter.op(jump)
}

func (f *function) ref(o ir.Ref) {
	switch v := o.Ref.(type) {
	case ir.Tn:
		loc, ok := f.locs[v.ID]
		switch {
		case !ok:
			f.stackOnly[v.ID] = true
			loc = f.place(v)
		case loc.inReg:
			f.spill(v.ID)
			loc = f.locs[v.ID]
		}
		f.slotAddress(loc.offset, bytecode.R1)
	case ir.Static:
		addr, ok := f.staticAddrs[v.ID]
		if !ok {
			panic(errors.Internalf(errors.UnknownStatic, "static %s (%d)", v.Name, v.ID))
		}
		f.moveRegU64(bytecode.R1, addr)
	default:
		panic(errors.Internalf(errors.UnsupportedOperand, "cannot take the address of %s", o.Ref))
	}
	f.define(o.Target, bytecode.R1)
}

// call pushes the arguments left to right, calls, and pops them again. The
// result is stashed in R4 while the stack top is restored.
func (f *function) call(o ir.Call) {
	key, ok := f.fnKeys[o.Callee]
	if !ok {
		panic(errors.Internalf(errors.UnknownFunction, "%s calls undefined function %s", f.graph.Name, o.Callee))
	}
	for _, arg := range o.Args {
		f.load(arg, bytecode.R1)
		f.push(bytecode.R1)
	}
	f.emitter.op(bytecode.CALL)
	f.placeholder(key)
	f.moveRegReg(bytecode.R4, bytecode.R1)
	if n := len(o.Args); n > 0 {
		f.adjustStackTop(uint64(slotSize*n), false)
	}
	if o.Target != nil {
		f.define(*o.Target, bytecode.R4)
	}
}
