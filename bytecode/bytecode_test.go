package bytecode

import (
	"testing"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/oxide/errors"
)

func TestOpcodeTable(t *testing.T) {
	if INTEGER_ADD != 0 || int(EXIT) != Count-1 || Count > 256 {
		t.Fatalf("opcode numbering is off: EXIT=%d Count=%d", EXIT, Count)
	}
	if len(Names) != Count || len(layouts) != Count {
		t.Fatalf("tables are not aligned with the opcode count")
	}
	if MOVE_INTO_REG_FROM_CONST.String() != "MOVE_REG_CONST" || PUSH_FROM_REG.String() != "PUSH_REG" {
		t.Fatalf("unexpected mnemonics")
	}

	for b := 0; b < Count; b++ {
		op := ByteCode(b)
		want := b >= int(JUMP) && b <= int(RETURN)
		if IsJump(op) != want {
			t.Errorf("IsJump(%s) = %v", op, !want)
		}
	}
}

func TestFromByte(t *testing.T) {
	op, err := FromByte(byte(CALL))
	if err != nil || op != CALL {
		t.Fatalf("FromByte(CALL) = %s, %v", op, err)
	}
	_, err = FromByte(byte(Count))
	if e, ok := err.(errors.InvalidOpcode); !ok || e.Byte != byte(Count) {
		t.Fatalf("expected an invalid opcode error, got %v", err)
	}
	if _, err := RegisterFromByte(200); err == nil {
		t.Fatalf("200 is not a register")
	}
}

func TestDisassemble(t *testing.T) {
	code := []byte{
		byte(MOVE_INTO_REG_FROM_CONST), 2, byte(R1), 0x34, 0x12,
		byte(MOVE_INTO_REG_FROM_REG), byte(R2), byte(STACK_TOP_POINTER),
		byte(INTEGER_ADD),
		byte(JUMP), 0x10, 0, 0, 0, 0, 0, 0, 0,
		byte(MOVE_INTO_ADDR_IN_REG_FROM_REG), 4, byte(R3), byte(R1),
		byte(RETURN),
	}

	ins, err := Disassemble(code, 0x100)
	if err != nil {
		t.Fatal(err)
	}
	if len(ins) != 6 {
		t.Fatalf("expected 6 instructions, got %s", repr.String(ins))
	}

	expected := []struct {
		offset int
		op     ByteCode
		args   []uint64
	}{
		{0x100, MOVE_INTO_REG_FROM_CONST, []uint64{2, uint64(R1), 0x1234}},
		{0x105, MOVE_INTO_REG_FROM_REG, []uint64{uint64(R2), uint64(STACK_TOP_POINTER)}},
		{0x108, INTEGER_ADD, nil},
		{0x109, JUMP, []uint64{0x10}},
		{0x112, MOVE_INTO_ADDR_IN_REG_FROM_REG, []uint64{4, uint64(R3), uint64(R1)}},
		{0x116, RETURN, nil},
	}
	for i, e := range expected {
		in := ins[i]
		if in.Offset != e.offset || in.Op != e.op || repr.String(in.Args) != repr.String(e.args) {
			t.Errorf("instruction %d: got %s, expected %s", i, repr.String(in), repr.String(e))
		}
	}

	if s := ins[0].String(); s != "000100  MOVE_REG_CONST (2) r1 4660" {
		t.Errorf("unexpected rendering %q", s)
	}
	if s := ins[3].String(); s != "000109  JUMP [0x10]" {
		t.Errorf("unexpected rendering %q", s)
	}
}

func TestDisassembleErrors(t *testing.T) {
	cases := []struct {
		name  string
		code  []byte
		check func(error) bool
	}{
		{"truncated address", []byte{byte(CALL), 1, 2}, func(err error) bool {
			_, ok := err.(errors.TruncatedInstruction)
			return ok
		}},
		{"invalid opcode", []byte{byte(NO_OPERATION), 250}, func(err error) bool {
			e, ok := err.(errors.InvalidOpcode)
			return ok && e.Byte == 250
		}},
		{"invalid size", []byte{byte(PUSH_FROM_CONST), 3, 0, 0, 0}, func(err error) bool {
			_, ok := err.(errors.InvalidOperandSize)
			return ok
		}},
		{"invalid register", []byte{byte(POP_INTO_REG), 99}, func(err error) bool {
			_, ok := err.(errors.InvalidRegister)
			return ok
		}},
	}

	for _, c := range cases {
		_, err := Disassemble(c.code, 0)
		if !c.check(err) {
			t.Errorf("%s: unexpected error %v", c.name, err)
		}
	}
}
