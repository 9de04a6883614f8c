// Package llvm lowers IR programs to LLVM modules.
//
// Every temporary gets an alloca in the entry block and every access goes
// through it, leaving promotion to registers to LLVM's mem2reg.
package llvm

import (
	"fmt"

	"github.com/coreos/pkg/capnslog"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
	"github.com/pontaoski/oxide/errors"
	"github.com/pontaoski/oxide/image"
	oxir "github.com/pontaoski/oxide/ir"
	"github.com/pontaoski/oxide/symbols"
	"github.com/pontaoski/oxide/types"
	"github.com/ztrue/tracerr"
)

var plog = capnslog.NewPackageLogger("github.com/pontaoski/oxide", "targets/llvm")

// MainWrapper is the symbol to link the program with as its entry point.
const MainWrapper = "_oxide_main"

type Options struct {
	// Entry names the function MainWrapper calls. When empty the first of
	// ir.DefaultEntries that is defined is used; with none defined the
	// wrapper is left out.
	Entry string
}

type ctx struct {
	prog    *oxir.Program
	module  *ir.Module
	funcs   map[string]*ir.Func
	statics map[symbols.StaticID]*ir.Global
}

// Generate lowers prog into an LLVM module.
func Generate(prog *oxir.Program, opts Options) (m *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	c := &ctx{
		prog:    prog,
		module:  ir.NewModule(),
		funcs:   map[string]*ir.Func{},
		statics: map[symbols.StaticID]*ir.Global{},
	}

	for _, s := range prog.Symbols.Statics() {
		g := c.module.NewGlobalDef("oxide.static."+s.Name, constant.NewCharArray(s.Encoded))
		g.Immutable = true
		c.statics[s.ID] = g
	}

	info := map[string]string{}
	for _, fn := range prog.Functions {
		if _, ok := c.funcs[fn.Name]; ok {
			panic(errors.Internalf(errors.DuplicateLabel, "function %s is defined twice", fn.Name))
		}
		sig := fn.Signature()
		var params []*ir.Param
		for _, p := range fn.Params {
			params = append(params, ir.NewParam(fmt.Sprintf("p%d", p.ID), lowerType(p.DataType)))
		}
		c.funcs[fn.Name] = c.module.NewFunc(fn.Name, lowerSignature(sig).RetType, params...)
		info[fn.Name] = sig.String()
	}

	for _, fn := range prog.Functions {
		newFunction(c, fn).lower()
	}

	if entry, ok := prog.Entry(opts.Entry); ok {
		c.wrapEntry(entry)
	} else if opts.Entry != "" {
		panic(errors.Internalf(errors.MissingEntry, "entry function %s is not defined", opts.Entry))
	}

	registerTypeInfoWithModule(image.TypeInfo{Functions: info}, c.module)
	plog.Debugf("lowered %d functions and %d statics", len(prog.Functions), len(c.statics))
	return c.module, nil
}

// wrapEntry emits MainWrapper, which calls the entry and exits with its result.
func (c *ctx) wrapEntry(entry *oxir.FunctionGraph) {
	if len(entry.Params) != 0 {
		panic(errors.Internalf(errors.MissingEntry, "entry function %s must not take parameters", entry.Name))
	}
	opening := c.module.NewFunc(MainWrapper, lltypes.Void)
	bloc := opening.NewBlock("_entry")

	var status value.Value = constant.NewInt(Int64, 0)
	result := bloc.NewCall(c.funcs[entry.Name])
	if types.IsInteger(entry.Return) {
		status = result
		if size := result.Type().(*lltypes.IntType).BitSize; size < 64 {
			status = bloc.NewZExt(result, Int64)
		}
	}

	exit := ir.NewInlineAsm(lltypes.NewPointer(lltypes.NewFunc(lltypes.Void, Int64)), `movq $$0x3C, %rax; syscall`, `{di}`)
	bloc.NewCall(exit, status)
	bloc.NewUnreachable()
}

type function struct {
	*ctx
	graph *oxir.FunctionGraph
	fn    *ir.Func

	cur    *ir.Block
	allocs map[symbols.TnID]*ir.InstAlloca
	labels map[symbols.LabelID]*ir.Block
	blocks int
}

func newFunction(c *ctx, graph *oxir.FunctionGraph) *function {
	return &function{
		ctx:    c,
		graph:  graph,
		fn:     c.funcs[graph.Name],
		allocs: map[symbols.TnID]*ir.InstAlloca{},
		labels: map[symbols.LabelID]*ir.Block{},
	}
}

func (f *function) lower() {
	entry := f.fn.NewBlock("entry")
	f.cur = entry

	for i, p := range f.graph.Params {
		f.cur.NewStore(f.fn.Params[i], f.alloca(p))
	}
	for _, block := range f.graph.Blocks {
		for _, op := range block.Ops {
			for _, tn := range oxir.Temporaries(op) {
				f.alloca(tn)
			}
		}
	}

	for _, block := range f.graph.Blocks {
		for _, op := range block.Ops {
			f.lowerOp(op)
		}
	}

	if f.cur.Term == nil {
		if ret := f.fn.Sig.RetType; lltypes.IsVoid(ret) {
			f.cur.NewRet(nil)
		} else {
			f.cur.NewRet(constant.NewZeroInitializer(ret))
		}
	}
	plog.Tracef("function %s: %d blocks, %d temporaries", f.graph.Name, len(f.fn.Blocks), len(f.allocs))
}

func (f *function) alloca(tn oxir.Tn) *ir.InstAlloca {
	if a, ok := f.allocs[tn.ID]; ok {
		return a
	}
	a := f.fn.Blocks[0].NewAlloca(lowerType(tn.DataType))
	a.SetName(fmt.Sprintf("t%d", tn.ID))
	f.allocs[tn.ID] = a
	return a
}

func (f *function) label(id symbols.LabelID) *ir.Block {
	if b, ok := f.labels[id]; ok {
		return b
	}
	b := f.fn.NewBlock(fmt.Sprintf("L%d", id))
	f.labels[id] = b
	return b
}

// fresh starts a new block for code following a terminator.
func (f *function) fresh() *ir.Block {
	f.blocks++
	return f.fn.NewBlock(fmt.Sprintf("b%d", f.blocks))
}

func (f *function) lowerOp(op oxir.Operator) {
	if target, left, right, ok := oxir.Operands(op); ok {
		f.store(target, f.binary(op, left, right))
		return
	}

	switch o := op.(type) {
	case oxir.BitNot:
		v := f.value(o.Operand)
		t, ok := v.Type().(*lltypes.IntType)
		if !ok {
			panic(errors.Internalf(errors.UnsupportedOperand, "not on %s", o.Operand.Type()))
		}
		f.store(o.Target, f.cur.NewXor(v, constant.NewInt(t, -1)))
	case oxir.Assign:
		f.store(o.Target, f.value(o.Source))
	case oxir.Copy:
		f.store(o.Target, f.value(o.Source))
	case oxir.Deref:
		ptr := f.value(o.Ref)
		f.store(o.Target, f.cur.NewLoad(lowerType(o.Target.DataType), ptr))
	case oxir.DerefAssign:
		f.cur.NewStore(f.value(o.Source), f.value(o.Target))
	case oxir.DerefCopy:
		ref, ok := o.Source.Type().(types.Ref)
		if !ok {
			panic(errors.Internalf(errors.UnsupportedOperand, "copy from non-pointer %s", o.Source))
		}
		v := f.cur.NewLoad(lowerType(ref.Target), f.value(o.Source))
		f.cur.NewStore(v, f.value(o.Target))
	case oxir.Ref:
		f.store(o.Target, f.address(o.Ref))
	case oxir.Jump:
		f.cur.NewBr(f.label(o.Target))
		f.cur = f.fresh()
	case oxir.JumpIf:
		next := f.fresh()
		f.cur.NewCondBr(f.truth(o.Condition), f.label(o.Target), next)
		f.cur = next
	case oxir.JumpIfNot:
		next := f.fresh()
		f.cur.NewCondBr(f.truth(o.Condition), next, f.label(o.Target))
		f.cur = next
	case oxir.Label:
		b := f.label(o.Label)
		if f.cur.Term == nil {
			f.cur.NewBr(b)
		}
		f.cur = b
	case oxir.Call:
		callee, ok := f.funcs[o.Callee]
		if !ok {
			panic(errors.Internalf(errors.UnknownFunction, "%s calls undefined function %s", f.graph.Name, o.Callee))
		}
		var args []value.Value
		for _, arg := range o.Args {
			args = append(args, f.value(arg))
		}
		result := f.cur.NewCall(callee, args...)
		if o.Target != nil {
			f.store(*o.Target, result)
		}
	case oxir.Return:
		if o.Value != nil {
			f.cur.NewRet(f.value(o.Value))
		} else {
			f.cur.NewRet(nil)
		}
		f.cur = f.fresh()
	case oxir.PushScope, oxir.PopScope, oxir.Nop:
		// frames are managed by LLVM
	default:
		panic(errors.Internalf(errors.UnsupportedOperand, "operator %s", op))
	}
}

func (f *function) store(target oxir.Tn, v value.Value) {
	f.cur.NewStore(v, f.alloca(target))
}

// truth turns a bool byte into an i1.
func (f *function) truth(v oxir.Value) value.Value {
	return f.cur.NewICmp(enum.IPredNE, f.value(v), constant.NewInt(Boolean, 0))
}

func (f *function) value(v oxir.Value) value.Value {
	switch v := v.(type) {
	case oxir.Tn:
		a, ok := f.allocs[v.ID]
		if !ok {
			panic(errors.Internalf(errors.UnknownTemporary, "%%%d in %s", v.ID, f.graph.Name))
		}
		return f.cur.NewLoad(lowerType(v.DataType), a)
	case oxir.Const:
		return lowerConst(v)
	case oxir.Static:
		t := lowerType(v.DataType)
		return f.cur.NewLoad(t, f.address(v))
	}
	panic(errors.Internalf(errors.UnsupportedOperand, "operand %v", v))
}

// address returns a typed pointer to a temporary or a static.
func (f *function) address(v oxir.Value) value.Value {
	switch v := v.(type) {
	case oxir.Tn:
		return f.alloca(v)
	case oxir.Static:
		g, ok := f.statics[v.ID]
		if !ok {
			panic(errors.Internalf(errors.UnknownStatic, "static %s (%d)", v.Name, v.ID))
		}
		return f.cur.NewBitCast(g, lltypes.NewPointer(lowerType(v.DataType)))
	}
	panic(errors.Internalf(errors.UnsupportedOperand, "cannot take the address of %s", v))
}

func lowerConst(c oxir.Const) constant.Constant {
	t := lowerType(c.DataType)
	switch lit := c.Literal.(type) {
	case types.BoolLiteral:
		if lit {
			return constant.NewInt(Boolean, 1)
		}
		return constant.NewInt(Boolean, 0)
	case types.CharLiteral:
		return constant.NewInt(Char, int64(lit))
	case types.NumericLiteral:
		switch t := t.(type) {
		case *lltypes.FloatType:
			var x float64
			switch n := lit.Number.(type) {
			case types.Float:
				x = float64(n)
			case types.Int:
				x = float64(n)
			case types.Uint:
				x = float64(n)
			}
			return constant.NewFloat(t, x)
		case *lltypes.IntType:
			return constant.NewInt(t, integerBits(lit.Number))
		case *lltypes.PointerType:
			return constant.NewIntToPtr(constant.NewInt(Int64, integerBits(lit.Number)), t)
		}
	}
	panic(errors.Internalf(errors.UnsupportedOperand, "constant %s", c))
}

func integerBits(n types.Number) int64 {
	switch n := n.(type) {
	case types.Int:
		return int64(n)
	case types.Uint:
		return int64(n)
	case types.Float:
		return int64(n)
	}
	return 0
}

type binaryOp struct {
	signed, unsigned, float func(b *ir.Block, x, y value.Value) value.Value
}

var arithmetic = map[string]binaryOp{
	"add": {
		signed:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewAdd(x, y) },
		unsigned: func(b *ir.Block, x, y value.Value) value.Value { return b.NewAdd(x, y) },
		float:    func(b *ir.Block, x, y value.Value) value.Value { return b.NewFAdd(x, y) },
	},
	"sub": {
		signed:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewSub(x, y) },
		unsigned: func(b *ir.Block, x, y value.Value) value.Value { return b.NewSub(x, y) },
		float:    func(b *ir.Block, x, y value.Value) value.Value { return b.NewFSub(x, y) },
	},
	"mul": {
		signed:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewMul(x, y) },
		unsigned: func(b *ir.Block, x, y value.Value) value.Value { return b.NewMul(x, y) },
		float:    func(b *ir.Block, x, y value.Value) value.Value { return b.NewFMul(x, y) },
	},
	"div": {
		signed:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewSDiv(x, y) },
		unsigned: func(b *ir.Block, x, y value.Value) value.Value { return b.NewUDiv(x, y) },
		float:    func(b *ir.Block, x, y value.Value) value.Value { return b.NewFDiv(x, y) },
	},
	"mod": {
		signed:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewSRem(x, y) },
		unsigned: func(b *ir.Block, x, y value.Value) value.Value { return b.NewURem(x, y) },
		float:    func(b *ir.Block, x, y value.Value) value.Value { return b.NewFRem(x, y) },
	},
	"shl": {
		signed:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewShl(x, y) },
		unsigned: func(b *ir.Block, x, y value.Value) value.Value { return b.NewShl(x, y) },
	},
	"shr": {
		signed:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewAShr(x, y) },
		unsigned: func(b *ir.Block, x, y value.Value) value.Value { return b.NewLShr(x, y) },
	},
	"and": {
		signed:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewAnd(x, y) },
		unsigned: func(b *ir.Block, x, y value.Value) value.Value { return b.NewAnd(x, y) },
	},
	"or": {
		signed:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewOr(x, y) },
		unsigned: func(b *ir.Block, x, y value.Value) value.Value { return b.NewOr(x, y) },
	},
	"xor": {
		signed:   func(b *ir.Block, x, y value.Value) value.Value { return b.NewXor(x, y) },
		unsigned: func(b *ir.Block, x, y value.Value) value.Value { return b.NewXor(x, y) },
	},
}

type predicates struct {
	signed, unsigned enum.IPred
	float            enum.FPred
}

var comparisons = map[string]predicates{
	"gt": {enum.IPredSGT, enum.IPredUGT, enum.FPredOGT},
	"lt": {enum.IPredSLT, enum.IPredULT, enum.FPredOLT},
	"ge": {enum.IPredSGE, enum.IPredUGE, enum.FPredOGE},
	"le": {enum.IPredSLE, enum.IPredULE, enum.FPredOLE},
	"eq": {enum.IPredEQ, enum.IPredEQ, enum.FPredOEQ},
	"ne": {enum.IPredNE, enum.IPredNE, enum.FPredONE},
}

func (f *function) binary(op oxir.Operator, left, right oxir.Value) value.Value {
	name := oxir.Mnemonic(op)
	t := left.Type()
	x, y := f.value(left), f.value(right)

	if preds, ok := comparisons[name]; ok {
		var cmp value.Value
		switch {
		case types.IsFloat(t):
			cmp = f.cur.NewFCmp(preds.float, x, y)
		case types.IsSignedInteger(t):
			cmp = f.cur.NewICmp(preds.signed, x, y)
		default:
			cmp = f.cur.NewICmp(preds.unsigned, x, y)
		}
		return f.cur.NewZExt(cmp, Boolean)
	}

	if name == "shl" || name == "shr" {
		y = f.shiftAmount(x, y)
	}

	ops, ok := arithmetic[name]
	if !ok {
		panic(errors.Internalf(errors.UnsupportedOperand, "operator %s", op))
	}
	var lower func(b *ir.Block, x, y value.Value) value.Value
	switch {
	case types.IsFloat(t):
		lower = ops.float
	case types.IsSignedInteger(t):
		lower = ops.signed
	default:
		lower = ops.unsigned
	}
	if lower == nil {
		panic(errors.Internalf(errors.UnsupportedOperand, "%s on %s", name, t))
	}
	return lower(f.cur, x, y)
}

// shiftAmount converts y to the width of x; LLVM shifts take equal types.
func (f *function) shiftAmount(x, y value.Value) value.Value {
	xt, ok := x.Type().(*lltypes.IntType)
	if !ok {
		return y
	}
	yt, ok := y.Type().(*lltypes.IntType)
	switch {
	case !ok:
		return y
	case yt.BitSize < xt.BitSize:
		return f.cur.NewZExt(y, xt)
	case yt.BitSize > xt.BitSize:
		return f.cur.NewTrunc(y, xt)
	}
	return y
}
