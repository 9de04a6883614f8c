package vm

import (
	"github.com/pontaoski/oxide/bytecode"
	"github.com/pontaoski/oxide/errors"
	"github.com/pontaoski/oxide/image"
	"github.com/pontaoski/oxide/ir"
	"github.com/pontaoski/oxide/symbols"
	"github.com/pontaoski/oxide/types"
)

// Register roles. R1 and R2 are the operands of arithmetic instructions and R1
// receives the result, R3 holds computed addresses and R4 stashes a value while
// the others are busy. Only R5 to R8 ever hold temporaries.
var allocatable = []bytecode.Register{bytecode.R5, bytecode.R6, bytecode.R7, bytecode.R8}

const slotSize = 8

// location is where a temporary currently lives: a register, or a slot at an
// offset from the stack frame pointer.
type location struct {
	inReg  bool
	reg    bytecode.Register
	offset int64
}

type function struct {
	*generator
	index int
	graph *ir.FunctionGraph

	locs     map[symbols.TnID]location
	regOwner map[bytecode.Register]symbols.TnID
	slots    int64
	// frameAt is the offset of the frame size immediate in the prologue.
	frameAt int

	// stackOnly holds temporaries that must never live in a register:
	// those used in several blocks or whose live range spans a label or
	// a call.
	stackOnly map[symbols.TnID]bool

	// at is the index of the operator being lowered in the current block.
	at      int
	lastUse map[symbols.TnID]int
}

func (g *generator) emitFunction(index int, graph *ir.FunctionGraph) {
	f := &function{
		generator: g,
		index:     index,
		graph:     graph,
		locs:      map[symbols.TnID]location{},
		regOwner:  map[bytecode.Register]symbols.TnID{},
		stackOnly: map[symbols.TnID]bool{},
	}

	start := g.offset()
	g.mark(g.fnKeys[graph.Name])
	f.prologue()
	f.analyse()

	returned := false
	for _, block := range graph.Blocks {
		f.startBlock(block)
		for i, op := range block.Ops {
			f.at = i
			f.lower(op)
			f.releaseDead(nil)
			_, returned = op.(ir.Return)
		}
	}
	if !returned {
		f.epilogue()
	}

	g.putU64(f.frameAt, uint64(f.slots*slotSize))

	sig := graph.Signature().String()
	g.img.Functions = append(g.img.Functions, image.Symbol{
		Name:   graph.Name,
		Type:   sig,
		Offset: uint64(start),
		Size:   uint64(g.offset() - start),
	})
	g.img.TypeInfo.Functions[graph.Name] = sig
	plog.Tracef("function %s at %#x: %d bytes, %d stack slots", graph.Name, start, g.offset()-start, f.slots)
}

// prologue saves the caller's frame pointer and reserves the frame. The frame
// size is only known once the body has been lowered, so it is patched later.
//
// Frame layout, addresses growing upwards:
//
//	SFP + 16 + 8*(n-1-i)  parameter i of n
//	SFP + 8               return address
//	SFP                   caller's frame pointer
//	SFP - 8*k             slot k
func (f *function) prologue() {
	f.push(bytecode.STACK_FRAME_POINTER)
	f.moveRegReg(bytecode.STACK_FRAME_POINTER, bytecode.STACK_TOP_POINTER)
	f.frameAt = f.adjustStackTop(0, true)

	n := len(f.graph.Params)
	for i, p := range f.graph.Params {
		f.locs[p.ID] = location{offset: int64(2*slotSize + slotSize*(n-1-i))}
		f.stackOnly[p.ID] = true
	}
}

func (f *function) epilogue() {
	f.moveRegReg(bytecode.STACK_TOP_POINTER, bytecode.STACK_FRAME_POINTER)
	f.pop(bytecode.STACK_FRAME_POINTER)
	f.emitter.op(bytecode.RETURN)
}

// analyse finds the temporaries that need a stack slot for their whole life.
func (f *function) analyse() {
	seenIn := map[symbols.TnID]int{}
	for b, block := range f.graph.Blocks {
		for _, op := range block.Ops {
			for _, tn := range ir.Temporaries(op) {
				if first, ok := seenIn[tn.ID]; ok && first != b {
					f.stackOnly[tn.ID] = true
				}
				seenIn[tn.ID] = b
			}
		}
	}

	for _, block := range f.graph.Blocks {
		first := map[symbols.TnID]int{}
		last := map[symbols.TnID]int{}
		for i, op := range block.Ops {
			for _, tn := range ir.Temporaries(op) {
				if _, ok := first[tn.ID]; !ok {
					first[tn.ID] = i
				}
				last[tn.ID] = i
			}
		}
		for i, op := range block.Ops {
			switch op.(type) {
			case ir.Label, ir.Call:
			default:
				continue
			}
			for id := range first {
				if first[id] < i && i < last[id] {
					f.stackOnly[id] = true
				}
			}
		}
	}
}

func (f *function) startBlock(block ir.BasicBlock) {
	f.regOwner = map[bytecode.Register]symbols.TnID{}
	f.lastUse = map[symbols.TnID]int{}
	for i, op := range block.Ops {
		for _, tn := range ir.Temporaries(op) {
			f.lastUse[tn.ID] = i
		}
	}
}

func (f *function) newSlot() location {
	f.slots++
	return location{offset: -f.slots * slotSize}
}

// releaseDead frees the registers of temporaries whose last use in the block
// is the current operator.
func (f *function) releaseDead(except *ir.Tn) {
	for reg, id := range f.regOwner {
		if except != nil && except.ID == id {
			continue
		}
		if last, ok := f.lastUse[id]; ok && last <= f.at {
			delete(f.regOwner, reg)
			delete(f.locs, id)
		}
	}
}

// place returns where a value written to tn goes, allocating on first write.
func (f *function) place(tn ir.Tn) location {
	if loc, ok := f.locs[tn.ID]; ok {
		return loc
	}
	if f.stackOnly[tn.ID] {
		loc := f.newSlot()
		f.locs[tn.ID] = loc
		return loc
	}

	for _, reg := range allocatable {
		if _, busy := f.regOwner[reg]; !busy {
			return f.assign(tn.ID, reg)
		}
	}

	// Out of registers: whichever of tn and the register holders is needed
	// furthest ahead goes to the stack.
	victim, victimReg, furthest := tn.ID, bytecode.Register(0), f.lastUse[tn.ID]
	for reg, id := range f.regOwner {
		if f.lastUse[id] > furthest || (f.lastUse[id] == furthest && victim != tn.ID && reg < victimReg) {
			victim, victimReg, furthest = id, reg, f.lastUse[id]
		}
	}
	if victim == tn.ID {
		loc := f.newSlot()
		f.locs[tn.ID] = loc
		return loc
	}
	plog.Tracef("%s: spilling %%%d from %s", f.graph.Name, victim, victimReg)
	f.spill(victim)
	return f.assign(tn.ID, victimReg)
}

func (f *function) assign(id symbols.TnID, reg bytecode.Register) location {
	loc := location{inReg: true, reg: reg}
	f.locs[id] = loc
	f.regOwner[reg] = id
	return loc
}

// spill moves a register-resident temporary to a fresh stack slot for the
// rest of its life.
func (f *function) spill(id symbols.TnID) {
	loc := f.locs[id]
	if !loc.inReg {
		return
	}
	slot := f.newSlot()
	f.slotAddress(slot.offset, bytecode.R3)
	f.store(slotSize, bytecode.R3, loc.reg)
	delete(f.regOwner, loc.reg)
	f.locs[id] = slot
	f.stackOnly[id] = true
}

// slotAddress computes SFP+offset into dst. Clobbers R1 and R2.
func (f *function) slotAddress(offset int64, dst bytecode.Register) {
	f.moveRegReg(bytecode.R1, bytecode.STACK_FRAME_POINTER)
	if offset < 0 {
		f.moveRegU64(bytecode.R2, uint64(-offset))
		f.emitter.op(bytecode.INTEGER_SUB)
	} else {
		f.moveRegU64(bytecode.R2, uint64(offset))
		f.emitter.op(bytecode.INTEGER_ADD)
	}
	f.moveRegReg(dst, bytecode.R1)
}

func sizeOf(t types.DataType) int {
	size, err := types.StaticSize(t)
	if err != nil || size == 0 {
		panic(errors.Internalf(errors.NoStaticSize, "value of type %s cannot be held in a register", t))
	}
	return size
}

// load puts v into dst, extended to a full register. Clobbers R1, R2 and R3,
// never R4 unless dst is R4.
func (f *function) load(v ir.Value, dst bytecode.Register) {
	switch v := v.(type) {
	case ir.Tn:
		loc, ok := f.locs[v.ID]
		if !ok {
			panic(errors.Internalf(errors.UnknownTemporary, "%%%d is read before it is written in %s", v.ID, f.graph.Name))
		}
		if loc.inReg {
			f.moveRegReg(dst, loc.reg)
			return
		}
		f.slotAddress(loc.offset, bytecode.R3)
		f.emitter.load(sizeOf(v.DataType), dst, bytecode.R3)
		f.extend(dst, v.DataType)
	case ir.Const:
		size := sizeOf(v.DataType)
		t := v.DataType
		_, numeric := v.Literal.(types.NumericLiteral)
		if _, narrow := narrowBits(t); narrow && numeric && types.IsSignedInteger(t) {
			// the encoding of the full register is the sign-extended value
			size, t = slotSize, types.I64
		}
		encoded, err := types.Encode(v.Literal, t)
		if err != nil {
			panic(errors.Internalf(errors.UnsupportedOperand, "constant %s: %s", v, err))
		}
		f.moveRegConst(dst, size, encoded)
	case ir.Static:
		addr, ok := f.staticAddrs[v.ID]
		if !ok {
			panic(errors.Internalf(errors.UnknownStatic, "static %s (%d)", v.Name, v.ID))
		}
		f.loadLiteral(sizeOf(v.DataType), dst, addr)
		f.extend(dst, v.DataType)
	default:
		panic(errors.Internalf(errors.UnsupportedOperand, "operand %v", v))
	}
}

// define writes src into target, allocating its location if needed.
func (f *function) define(target ir.Tn, src bytecode.Register) {
	f.moveRegReg(bytecode.R4, src)
	f.releaseDead(&target)

	loc := f.place(target)
	if loc.inReg {
		f.moveRegReg(loc.reg, bytecode.R4)
		return
	}
	f.slotAddress(loc.offset, bytecode.R3)
	f.store(sizeOf(target.DataType), bytecode.R3, bytecode.R4)
}
