package types

import (
	"fmt"
	"math"
	"strconv"
)

// Number is a numeric value tagged as Int, Uint or Float. Binary operations
// are only defined between numbers with the same tag; callers unify operand
// tags first, so a mismatch panics.
type Number interface {
	is_Number()
	String() string
}

type Int int64

func (v Int) is_Number() {}

type Uint uint64

func (v Uint) is_Number() {}

type Float float64

func (v Float) is_Number() {}

func (v Int) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v Uint) String() string  { return strconv.FormatUint(uint64(v), 10) }
func (v Float) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

func mismatch(op string, a, b Number) string {
	return fmt.Sprintf("cannot %s different numeric types %T(%s) and %T(%s)", op, a, a, b, b)
}

func Add(a, b Number) Number {
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			return x + y
		}
	case Uint:
		if y, ok := b.(Uint); ok {
			return x + y
		}
	case Float:
		if y, ok := b.(Float); ok {
			return x + y
		}
	}
	panic(mismatch("add", a, b))
}

func Sub(a, b Number) Number {
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			return x - y
		}
	case Uint:
		if y, ok := b.(Uint); ok {
			return x - y
		}
	case Float:
		if y, ok := b.(Float); ok {
			return x - y
		}
	}
	panic(mismatch("subtract", a, b))
}

func Mul(a, b Number) Number {
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			return x * y
		}
	case Uint:
		if y, ok := b.(Uint); ok {
			return x * y
		}
	case Float:
		if y, ok := b.(Float); ok {
			return x * y
		}
	}
	panic(mismatch("multiply", a, b))
}

func Div(a, b Number) (Number, error) {
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			if y == 0 {
				return nil, DivisionByZero{Dividend: a}
			}
			return x / y, nil
		}
	case Uint:
		if y, ok := b.(Uint); ok {
			if y == 0 {
				return nil, DivisionByZero{Dividend: a}
			}
			return x / y, nil
		}
	case Float:
		if y, ok := b.(Float); ok {
			if y == 0 {
				return nil, DivisionByZero{Dividend: a}
			}
			return x / y, nil
		}
	}
	panic(mismatch("divide", a, b))
}

func Mod(a, b Number) (Number, error) {
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			if y == 0 {
				return nil, DivisionByZero{Dividend: a}
			}
			return x % y, nil
		}
	case Uint:
		if y, ok := b.(Uint); ok {
			if y == 0 {
				return nil, DivisionByZero{Dividend: a}
			}
			return x % y, nil
		}
	case Float:
		if y, ok := b.(Float); ok {
			if y == 0 {
				return nil, DivisionByZero{Dividend: a}
			}
			return Float(math.Mod(float64(x), float64(y))), nil
		}
	}
	panic(mismatch("modulo", a, b))
}

func integerOp(op string, a, b Number, fi func(x, y int64) int64, fu func(x, y uint64) uint64) Number {
	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			return Int(fi(int64(x), int64(y)))
		}
	case Uint:
		if y, ok := b.(Uint); ok {
			return Uint(fu(uint64(x), uint64(y)))
		}
	case Float:
		if _, ok := b.(Float); ok {
			panic(fmt.Sprintf("cannot %s floating point numbers", op))
		}
	}
	panic(mismatch(op, a, b))
}

func And(a, b Number) Number {
	return integerOp("bitwise and", a, b,
		func(x, y int64) int64 { return x & y },
		func(x, y uint64) uint64 { return x & y })
}

func Or(a, b Number) Number {
	return integerOp("bitwise or", a, b,
		func(x, y int64) int64 { return x | y },
		func(x, y uint64) uint64 { return x | y })
}

func Xor(a, b Number) Number {
	return integerOp("bitwise xor", a, b,
		func(x, y int64) int64 { return x ^ y },
		func(x, y uint64) uint64 { return x ^ y })
}

func Shl(a, b Number) Number {
	return integerOp("shift", a, b,
		func(x, y int64) int64 { return x << uint64(y) },
		func(x, y uint64) uint64 { return x << y })
}

func Shr(a, b Number) Number {
	return integerOp("shift", a, b,
		func(x, y int64) int64 { return x >> uint64(y) },
		func(x, y uint64) uint64 { return x >> y })
}

func Not(a Number) Number {
	switch x := a.(type) {
	case Int:
		return ^x
	case Uint:
		return ^x
	}
	panic(fmt.Sprintf("cannot negate bits of %T(%s)", a, a))
}

func Neg(a Number) Number {
	switch x := a.(type) {
	case Int:
		return -x
	case Uint:
		return -x
	case Float:
		return -x
	}
	panic(fmt.Sprintf("unknown number %T", a))
}

// Compare returns -1, 0 or +1. A NaN compares equal to nothing and reports +1.
func Compare(a, b Number) int {
	cmp := func(less, equal bool) int {
		switch {
		case less:
			return -1
		case equal:
			return 0
		}
		return 1
	}

	switch x := a.(type) {
	case Int:
		if y, ok := b.(Int); ok {
			return cmp(x < y, x == y)
		}
	case Uint:
		if y, ok := b.(Uint); ok {
			return cmp(x < y, x == y)
		}
	case Float:
		if y, ok := b.(Float); ok {
			return cmp(x < y, x == y)
		}
	}
	panic(mismatch("compare", a, b))
}
