package types

import (
	"bytes"
	"math"
	"testing"

	"github.com/alecthomas/repr"
)

func TestLiteralDataType(t *testing.T) {
	tests := []struct {
		lit      LiteralValue
		expected DataType
	}{
		{intLit(0), I32},
		{intLit(math.MaxInt32), I32},
		{intLit(math.MinInt32), I32},
		{intLit(math.MaxInt32 + 1), I64},
		{intLit(math.MinInt32 - 1), I64},
		{uintLit(math.MaxUint32), U32},
		{uintLit(math.MaxUint32 + 1), U64},
		{NumericLiteral{Float(3.5)}, F32},
		{NumericLiteral{Float(math.MaxFloat32)}, F32},
		{NumericLiteral{Float(math.MaxFloat32 * 2)}, F64},
		{NumericLiteral{Float(-math.MaxFloat32 * 2)}, F64},
		{CharLiteral('x'), Char},
		{StringLiteral("hi"), String},
		{BoolLiteral(true), Bool},
		{ArrayLiteral{ElementType: U8}, Array{Elem: U8}},
	}

	for _, test := range tests {
		if got := LiteralDataType(test.lit); !Equal(got, test.expected) {
			t.Errorf("LiteralDataType(%s) = %s, expected %s", test.lit, got, test.expected)
		}
	}
}

func TestLiteralEqual(t *testing.T) {
	a := ArrayLiteral{ElementType: I32, Items: []LiteralValue{intLit(1), intLit(2)}}
	b := ArrayLiteral{ElementType: I32, Items: []LiteralValue{intLit(1), intLit(2)}}
	c := ArrayLiteral{ElementType: I64, Items: []LiteralValue{intLit(1), intLit(2)}}
	d := ArrayLiteral{ElementType: I32, Items: []LiteralValue{intLit(1), intLit(3)}}

	if !LiteralEqual(a, b) {
		t.Errorf("expected %s == %s", a, b)
	}
	if LiteralEqual(a, c) || LiteralEqual(a, d) {
		t.Errorf("arrays with different element types or items compared equal")
	}
	if LiteralEqual(intLit(1), uintLit(1)) {
		t.Errorf("numbers with different tags compared equal")
	}
	if !LiteralEqual(StringLiteral("x"), StringLiteral("x")) || LiteralEqual(CharLiteral('x'), StringLiteral("x")) {
		t.Errorf("unexpected scalar literal comparison")
	}
}

func TestStaticSize(t *testing.T) {
	tests := []struct {
		dt   DataType
		size int
	}{
		{Bool, 1}, {Char, 1}, {I8, 1}, {U8, 1},
		{I16, 2}, {U16, 2},
		{I32, 4}, {U32, 4}, {F32, 4},
		{I64, 8}, {U64, 8}, {F64, 8},
		{Ref{Target: String}, 8},
		{Function{Return: Void}, 8},
		{Void, 0},
	}
	for _, test := range tests {
		size, err := StaticSize(test.dt)
		if err != nil || size != test.size {
			t.Errorf("StaticSize(%s) = %d, %v; expected %d", test.dt, size, err, test.size)
		}
	}

	for _, dt := range []DataType{String, Array{Elem: U8}, Any} {
		if _, err := StaticSize(dt); err == nil {
			t.Errorf("StaticSize(%s) should fail", dt)
		}
	}
}

func TestEncodeMatchesStaticSize(t *testing.T) {
	tests := []struct {
		lit      LiteralValue
		dt       DataType
		expected []byte
	}{
		{intLit(-2), I8, []byte{0xfe}},
		{intLit(258), U16, []byte{0x02, 0x01}},
		{intLit(-1), I32, []byte{0xff, 0xff, 0xff, 0xff}},
		{uintLit(1), U64, []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{uintLit(0x1000), Ref{Target: U8}, []byte{0, 0x10, 0, 0, 0, 0, 0, 0}},
		{NumericLiteral{Float(1)}, F32, []byte{0, 0, 0x80, 0x3f}},
		{NumericLiteral{Float(1)}, F64, []byte{0, 0, 0, 0, 0, 0, 0xf0, 0x3f}},
		{CharLiteral('A'), Char, []byte{'A'}},
		{BoolLiteral(true), Bool, []byte{1}},
	}

	for _, test := range tests {
		got, err := Encode(test.lit, test.dt)
		if err != nil {
			t.Errorf("Encode(%s, %s): %s", test.lit, test.dt, err)
			continue
		}
		size, _ := StaticSize(test.dt)
		if len(got) != size {
			t.Errorf("Encode(%s, %s) produced %d bytes, static size is %d", test.lit, test.dt, len(got), size)
		}
		if !bytes.Equal(got, test.expected) {
			t.Errorf("Encode(%s, %s) = %s, expected %s", test.lit, test.dt, repr.String(got), repr.String(test.expected))
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := Encode(intLit(256), U8); err == nil {
		t.Errorf("256 should not fit in u8")
	} else if _, ok := err.(LiteralOutOfRange); !ok {
		t.Errorf("expected LiteralOutOfRange, got %T", err)
	}
	if _, err := Encode(intLit(-1), U64); err == nil {
		t.Errorf("-1 should not fit in u64")
	}
	if _, err := Encode(BoolLiteral(true), I32); err == nil {
		t.Errorf("bool should not encode as i32")
	}
	if _, err := Encode(StringLiteral("x"), String); err == nil {
		t.Errorf("strings have no static size")
	}
	if _, err := Encode(NumericLiteral{Float(1.5)}, I32); err == nil {
		t.Errorf("floats should not encode as integers")
	}
}

func TestDataTypeNames(t *testing.T) {
	tests := []struct {
		dt   DataType
		name string
	}{
		{String, "str"},
		{Array{Elem: Array{Elem: U8}}, "[[u8]]"},
		{Ref{Target: Char}, "&char"},
		{Function{Params: []DataType{I32, Ref{Target: F64}}, Return: Bool}, "fn(i32, &f64) -> bool"},
		{Function{Return: Void}, "fn() -> void"},
		{Function{Params: []DataType{Function{Params: []DataType{U8}, Return: U8}}, Return: Array{Elem: I8}}, "fn(fn(u8) -> u8) -> [i8]"},
	}

	for _, test := range tests {
		if got := test.dt.String(); got != test.name {
			t.Errorf("name of %s: got %q, expected %q", repr.String(test.dt), got, test.name)
		}
		parsed, err := ParseDataType(test.name)
		if err != nil {
			t.Errorf("ParseDataType(%q): %s", test.name, err)
			continue
		}
		if !Equal(parsed, test.dt) {
			t.Errorf("ParseDataType(%q) = %s", test.name, parsed)
		}
	}

	if _, err := ParseDataType("any"); err == nil {
		t.Errorf("any must not be parseable")
	}
}
