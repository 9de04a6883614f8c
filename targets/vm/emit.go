package vm

import (
	"encoding/binary"

	"github.com/pontaoski/oxide/bytecode"
)

// emitter appends instructions to the image bytes. Offsets into buf are
// absolute addresses since the image is loaded at address zero.
type emitter struct {
	buf []byte
	// fixups holds the offsets of 8 byte placeholders carrying a label key.
	fixups []int
}

func (e *emitter) offset() int { return len(e.buf) }

func (e *emitter) op(b bytecode.ByteCode) {
	e.buf = append(e.buf, byte(b))
}

func (e *emitter) reg(r bytecode.Register) {
	e.buf = append(e.buf, byte(r))
}

func (e *emitter) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf = append(e.buf, b[:]...)
}

func (e *emitter) putU64(at int, v uint64) {
	binary.LittleEndian.PutUint64(e.buf[at:], v)
}

func (e *emitter) u64At(at int) uint64 {
	return binary.LittleEndian.Uint64(e.buf[at:])
}

// placeholder writes key where an address belongs and remembers to resolve it.
func (e *emitter) placeholder(key uint64) {
	e.fixups = append(e.fixups, e.offset())
	e.u64(key)
}

func (e *emitter) moveRegReg(dst, src bytecode.Register) {
	if dst == src {
		return
	}
	e.op(bytecode.MOVE_INTO_REG_FROM_REG)
	e.reg(dst)
	e.reg(src)
}

// moveRegConst loads an immediate of the given width into dst.
func (e *emitter) moveRegConst(dst bytecode.Register, size int, value []byte) {
	e.op(bytecode.MOVE_INTO_REG_FROM_CONST)
	e.buf = append(e.buf, byte(size))
	e.reg(dst)
	e.buf = append(e.buf, value[:size]...)
}

func (e *emitter) moveRegU64(dst bytecode.Register, v uint64) int {
	e.op(bytecode.MOVE_INTO_REG_FROM_CONST)
	e.buf = append(e.buf, 8)
	e.reg(dst)
	at := e.offset()
	e.u64(v)
	return at
}

func (e *emitter) moveRegU8(dst bytecode.Register, v byte) {
	e.moveRegConst(dst, 1, []byte{v})
}

func (e *emitter) load(size int, dst, addr bytecode.Register) {
	e.op(bytecode.MOVE_INTO_REG_FROM_ADDR_IN_REG)
	e.buf = append(e.buf, byte(size))
	e.reg(dst)
	e.reg(addr)
}

func (e *emitter) loadLiteral(size int, dst bytecode.Register, addr uint64) {
	e.op(bytecode.MOVE_INTO_REG_FROM_ADDR_LITERAL)
	e.buf = append(e.buf, byte(size))
	e.reg(dst)
	e.u64(addr)
}

func (e *emitter) store(size int, addr, src bytecode.Register) {
	e.op(bytecode.MOVE_INTO_ADDR_IN_REG_FROM_REG)
	e.buf = append(e.buf, byte(size))
	e.reg(addr)
	e.reg(src)
}

func (e *emitter) copyMem(size int, dst, src bytecode.Register) {
	e.op(bytecode.MOVE_INTO_ADDR_IN_REG_FROM_ADDR_IN_REG)
	e.buf = append(e.buf, byte(size))
	e.reg(dst)
	e.reg(src)
}

func (e *emitter) push(r bytecode.Register) {
	e.op(bytecode.PUSH_FROM_REG)
	e.reg(r)
}

func (e *emitter) pop(r bytecode.Register) {
	e.op(bytecode.POP_INTO_REG)
	e.reg(r)
}

func (e *emitter) compare(a, b bytecode.Register) {
	e.op(bytecode.COMPARE_REG_REG)
	e.reg(a)
	e.reg(b)
}

// jumpTo emits a jump whose target is already known.
func (e *emitter) jumpTo(b bytecode.ByteCode, addr uint64) {
	e.op(b)
	e.u64(addr)
}

// adjustStackTop moves the stack top by bytes: down when grow is set, up
// otherwise. The stack grows toward lower addresses.
func (e *emitter) adjustStackTop(bytes uint64, grow bool) int {
	e.moveRegReg(bytecode.R1, bytecode.STACK_TOP_POINTER)
	at := e.moveRegU64(bytecode.R2, bytes)
	if grow {
		e.op(bytecode.INTEGER_SUB)
	} else {
		e.op(bytecode.INTEGER_ADD)
	}
	e.moveRegReg(bytecode.STACK_TOP_POINTER, bytecode.R1)
	return at
}
