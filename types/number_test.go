package types

import (
	"math"
	"testing"
)

func TestDivisionByZero(t *testing.T) {
	tests := []struct {
		name string
		op   func(a, b Number) (Number, error)
		a, b Number
	}{
		{"int div", Div, Int(10), Int(0)},
		{"uint div", Div, Uint(10), Uint(0)},
		{"float div", Div, Float(10), Float(0)},
		{"int mod", Mod, Int(10), Int(0)},
		{"uint mod", Mod, Uint(10), Uint(0)},
		{"float mod", Mod, Float(10), Float(0)},
	}

	for _, test := range tests {
		_, err := test.op(test.a, test.b)
		if _, ok := err.(DivisionByZero); !ok {
			t.Errorf("%s: expected DivisionByZero, got %v", test.name, err)
		}
	}
}

func TestArithmetic(t *testing.T) {
	res, err := Div(Int(10), Int(2))
	if err != nil || res != Int(5) {
		t.Fatalf("10 / 2 = %v, %v", res, err)
	}
	res, err = Mod(Uint(10), Uint(4))
	if err != nil || res != Uint(2) {
		t.Fatalf("10 %% 4 = %v, %v", res, err)
	}
	res, err = Mod(Float(7.5), Float(2))
	if err != nil || res != Float(1.5) {
		t.Fatalf("7.5 %% 2 = %v, %v", res, err)
	}

	tests := []struct {
		got, expected Number
	}{
		{Add(Int(-3), Int(5)), Int(2)},
		{Add(Uint(3), Uint(5)), Uint(8)},
		{Add(Float(0.5), Float(0.25)), Float(0.75)},
		{Sub(Int(3), Int(5)), Int(-2)},
		{Sub(Uint(0), Uint(1)), Uint(math.MaxUint64)},
		{Mul(Int(-4), Int(4)), Int(-16)},
		{Mul(Float(1.5), Float(2)), Float(3)},
		{And(Uint(0b1100), Uint(0b1010)), Uint(0b1000)},
		{Or(Int(0b1100), Int(0b1010)), Int(0b1110)},
		{Xor(Int(0b1100), Int(0b1010)), Int(0b0110)},
		{Shl(Uint(1), Uint(4)), Uint(16)},
		{Shr(Int(-16), Int(2)), Int(-4)},
		{Not(Uint(0)), Uint(math.MaxUint64)},
		{Not(Int(0)), Int(-1)},
		{Neg(Float(2)), Float(-2)},
	}
	for i, test := range tests {
		if test.got != test.expected {
			t.Errorf("case %d: got %s, expected %s", i, test.got, test.expected)
		}
	}
}

func TestCompare(t *testing.T) {
	if Compare(Int(-1), Int(1)) != -1 || Compare(Uint(3), Uint(3)) != 0 || Compare(Float(2), Float(1)) != 1 {
		t.Fatalf("unexpected comparison results")
	}
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected a panic", name)
		}
	}()
	f()
}

func TestMixedTagsPanic(t *testing.T) {
	expectPanic(t, "add", func() { Add(Int(1), Uint(1)) })
	expectPanic(t, "compare", func() { Compare(Float(1), Int(1)) })
	expectPanic(t, "div", func() { Div(Uint(1), Float(1)) })
	expectPanic(t, "float bitwise", func() { And(Float(1), Float(1)) })
	expectPanic(t, "float not", func() { Not(Float(1)) })
}
