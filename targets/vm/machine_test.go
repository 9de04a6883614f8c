package vm

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/pontaoski/oxide/bytecode"
	"github.com/pontaoski/oxide/image"
)

// machine executes the subset of the instruction set the generator emits.
// The stack grows down from the end of memory, COMPARE and INTEGER_SUB set
// all four flags and the FLOAT_* instructions set zero and sign.
type machine struct {
	mem            []byte
	regs           [bytecode.RegisterCount]uint64
	zf, sf, cf, of bool
}

func (m *machine) read(addr, size uint64) uint64 {
	var buf [8]byte
	copy(buf[:], m.mem[addr:addr+size])
	return binary.LittleEndian.Uint64(buf[:])
}

func (m *machine) write(addr, size, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	copy(m.mem[addr:addr+size], buf[:size])
}

func (m *machine) push(v uint64) {
	m.regs[bytecode.STACK_TOP_POINTER] -= 8
	m.write(m.regs[bytecode.STACK_TOP_POINTER], 8, v)
}

func (m *machine) pop() uint64 {
	v := m.read(m.regs[bytecode.STACK_TOP_POINTER], 8)
	m.regs[bytecode.STACK_TOP_POINTER] += 8
	return v
}

func (m *machine) result(r uint64) {
	m.regs[bytecode.R1] = r
	m.zf, m.sf, m.cf, m.of = r == 0, int64(r) < 0, false, false
}

func (m *machine) subtract(a, b uint64) uint64 {
	r := a - b
	m.zf, m.sf = r == 0, int64(r) < 0
	m.cf = a < b
	m.of = ((a^b)&(a^r))>>63 == 1
	return r
}

func (m *machine) float(r float64) {
	m.regs[bytecode.R1] = math.Float64bits(r)
	m.zf, m.sf, m.cf, m.of = r == 0, r < 0, false, false
}

func (m *machine) holds(op bytecode.ByteCode) bool {
	switch op {
	case bytecode.JUMP:
		return true
	case bytecode.JUMP_ZERO:
		return m.zf
	case bytecode.JUMP_NOT_ZERO:
		return !m.zf
	case bytecode.JUMP_LESS:
		return m.sf != m.of
	case bytecode.JUMP_GREATER_OR_EQUAL:
		return m.sf == m.of
	case bytecode.JUMP_GREATER:
		return !m.zf && m.sf == m.of
	case bytecode.JUMP_LESS_OR_EQUAL:
		return m.zf || m.sf != m.of
	case bytecode.JUMP_CARRY:
		return m.cf
	case bytecode.JUMP_NOT_CARRY:
		return !m.cf
	case bytecode.JUMP_SIGN:
		return m.sf
	case bytecode.JUMP_NOT_SIGN:
		return !m.sf
	case bytecode.JUMP_OVERFLOW:
		return m.of
	case bytecode.JUMP_NOT_OVERFLOW:
		return !m.of
	}
	return false
}

// step executes the instruction at pc and returns the next pc.
func (m *machine) step(pc uint64) (next uint64, exited bool, err error) {
	in, err := bytecode.Decode(m.mem, int(pc), 0)
	if err != nil {
		return 0, false, err
	}
	next = pc + uint64(in.Len())
	a := in.Args
	r1, r2 := m.regs[bytecode.R1], m.regs[bytecode.R2]
	f1, f2 := math.Float64frombits(r1), math.Float64frombits(r2)

	switch in.Op {
	case bytecode.NO_OPERATION:
	case bytecode.MOVE_INTO_REG_FROM_REG:
		m.regs[a[0]] = m.regs[a[1]]
	case bytecode.MOVE_INTO_REG_FROM_CONST:
		m.regs[a[1]] = a[2]
	case bytecode.MOVE_INTO_REG_FROM_ADDR_IN_REG:
		m.regs[a[1]] = m.read(m.regs[a[2]], a[0])
	case bytecode.MOVE_INTO_REG_FROM_ADDR_LITERAL:
		m.regs[a[1]] = m.read(a[2], a[0])
	case bytecode.MOVE_INTO_ADDR_IN_REG_FROM_REG:
		m.write(m.regs[a[1]], a[0], m.regs[a[2]])
	case bytecode.MOVE_INTO_ADDR_IN_REG_FROM_ADDR_IN_REG:
		m.write(m.regs[a[1]], a[0], m.read(m.regs[a[2]], a[0]))
	case bytecode.PUSH_FROM_REG:
		m.push(m.regs[a[0]])
	case bytecode.POP_INTO_REG:
		m.regs[a[0]] = m.pop()
	case bytecode.INTEGER_ADD:
		m.result(r1 + r2)
	case bytecode.INTEGER_SUB:
		m.regs[bytecode.R1] = m.subtract(r1, r2)
	case bytecode.INTEGER_MUL:
		m.result(r1 * r2)
	case bytecode.INTEGER_DIV, bytecode.INTEGER_MOD:
		if r2 == 0 {
			return 0, false, fmt.Errorf("division by zero at %#x", pc)
		}
		if in.Op == bytecode.INTEGER_DIV {
			m.result(r1 / r2)
		} else {
			m.result(r1 % r2)
		}
	case bytecode.AND:
		m.result(r1 & r2)
	case bytecode.OR:
		m.result(r1 | r2)
	case bytecode.XOR:
		m.result(r1 ^ r2)
	case bytecode.NOT:
		m.result(^r1)
	case bytecode.SHIFT_LEFT:
		m.result(r1 << r2)
	case bytecode.SHIFT_RIGHT:
		m.result(r1 >> r2)
	case bytecode.FLOAT_ADD:
		m.float(f1 + f2)
	case bytecode.FLOAT_SUB:
		m.float(f1 - f2)
	case bytecode.FLOAT_MUL:
		m.float(f1 * f2)
	case bytecode.FLOAT_DIV:
		m.float(f1 / f2)
	case bytecode.FLOAT_MOD:
		m.float(math.Mod(f1, f2))
	case bytecode.COMPARE_REG_REG:
		m.subtract(m.regs[a[0]], m.regs[a[1]])
	case bytecode.CALL:
		m.push(next)
		next = a[0]
	case bytecode.RETURN:
		next = m.pop()
	case bytecode.EXIT:
		return next, true, nil
	default:
		if !bytecode.IsJump(in.Op) {
			return 0, false, fmt.Errorf("unexpected instruction %s", in)
		}
		if m.holds(in.Op) {
			next = a[0]
		}
	}
	return next, false, nil
}

// execute runs img from its entry and returns the exit register.
func execute(t *testing.T, img *image.Image) int64 {
	t.Helper()
	m := &machine{mem: make([]byte, 1<<16)}
	copy(m.mem, img.Bytes)
	m.regs[bytecode.STACK_TOP_POINTER] = uint64(len(m.mem))

	pc := img.Entry
	for steps := 0; steps < 100000; steps++ {
		next, exited, err := m.step(pc)
		if err != nil {
			t.Fatal(err)
		}
		if exited {
			return int64(m.regs[bytecode.EXIT_REGISTER])
		}
		pc = next
	}
	t.Fatalf("program did not exit")
	return 0
}

func mainReturning(ret, body string) string {
	return fmt.Sprintf("fn main() -> %s {\nblock 0:\n%s}\n", ret, body)
}

func TestExecution(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want int64
	}{
		{"signed division", mainReturning("i32", "%0: i32 = -6:i32\n%1: i32 = div %0, 2:i32\nret %1\n"), -3},
		{"signed division by a negative", mainReturning("i32", "%0: i32 = 7:i32\n%1: i32 = div %0, -2:i32\nret %1\n"), -3},
		{"signed remainder", mainReturning("i32", "%0: i32 = -7:i32\n%1: i32 = mod %0, 2:i32\nret %1\n"), -1},
		{"remainder takes the dividend's sign", mainReturning("i32", "%0: i32 = 7:i32\n%1: i32 = mod %0, -2:i32\nret %1\n"), 1},
		{"unsigned division", mainReturning("u32", "%0: u32 = 4294967290:u32\n%1: u32 = div %0, 2:u32\nret %1\n"), 2147483645},
		{"arithmetic shift", mainReturning("i32", "%0: i32 = -8:i32\n%1: i32 = shr %0, 1:i32\nret %1\n"), -4},
		{"wide arithmetic shift", mainReturning("i64", "%0: i64 = -16:i64\n%1: i64 = shr %0, 2:i64\nret %1\n"), -4},
		{"logical shift", mainReturning("u32", "%0: u32 = 4294967288:u32\n%1: u32 = shr %0, 1:u32\nret %1\n"), 2147483644},
		{"signed wrap around", mainReturning("i8", "%0: i8 = 100:i8\n%1: i8 = add %0, 100:i8\nret %1\n"), -56},
		{"unsigned wrap around", mainReturning("u8", "%0: u8 = 200:u8\n%1: u8 = add %0, 100:u8\nret %1\n"), 44},
		{"not stays in width", mainReturning("u8", "%0: u8 = 0:u8\n%1: u8 = not %0\nret %1\n"), 255},
		{"signed less", mainReturning("bool", "%0: i32 = -1:i32\n%1: bool = lt %0, 1:i32\nret %1\n"), 1},
		{"unsigned less", mainReturning("bool", "%0: u32 = 4294967295:u32\n%1: bool = lt %0, 1:u32\nret %1\n"), 0},
		{"unsigned greater", mainReturning("bool", "%0: u32 = 4294967295:u32\n%1: bool = gt %0, 1:u32\nret %1\n"), 1},
		{"unsigned less or equal", mainReturning("bool", "%0: u8 = 200:u8\n%1: bool = le %0, 100:u8\nret %1\n"), 0},
		{"signed greater or equal", mainReturning("bool", "%0: i16 = -5:i16\n%1: bool = ge %0, -5:i16\nret %1\n"), 1},
		{"signed greater", mainReturning("bool", "%0: i16 = -5:i16\n%1: bool = gt %0, -6:i16\nret %1\n"), 1},
		{"float less", mainReturning("bool", "%0: f64 = -2.0:f64\n%1: bool = lt %0, -1.0:f64\nret %1\n"), 1},
		{"float greater", mainReturning("bool", "%0: f64 = -2.0:f64\n%1: bool = gt %0, -1.0:f64\nret %1\n"), 0},
		{"float less or equal", mainReturning("bool", "%0: f64 = -1.0:f64\n%1: bool = le %0, -1.0:f64\nret %1\n"), 1},
		{"float equal", mainReturning("bool", "%0: f64 = 0.5:f64\n%1: bool = eq %0, 0.5:f64\nret %1\n"), 1},
		{"signed static", "static s: i16 = -300\n" + mainReturning("i16", "%0: i16 = @s\n%1: i16 = add %0, 1:i16\nret %1\n"), -299},
		{"loop, call and pointer store", program, -3},
	}
	for _, c := range cases {
		if got := execute(t, generate(t, c.src, Options{})); got != c.want {
			t.Errorf("%s: expected %d, got %d", c.name, c.want, got)
		}
	}
}

func TestSignedParameters(t *testing.T) {
	src := `
fn half(%0: i16) -> i16 {
block 0:
	%1: i16 = div %0, 2:i16
	ret %1
}

fn main() -> i16 {
block 0:
	%0: i16 = call half(-9:i16)
	ret %0
}
`
	if got := execute(t, generate(t, src, Options{})); got != -4 {
		t.Fatalf("expected -4, got %d", got)
	}
}
