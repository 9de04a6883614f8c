package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LiteralValue is the value a literal token denotes.
type LiteralValue interface {
	is_LiteralValue()
	String() string
}

type CharLiteral rune

func (v CharLiteral) is_LiteralValue() {}

type StringLiteral string

func (v StringLiteral) is_LiteralValue() {}

type ArrayLiteral struct {
	ElementType DataType
	Items       []LiteralValue
}

func (v ArrayLiteral) is_LiteralValue() {}

type NumericLiteral struct {
	Number
}

func (v NumericLiteral) is_LiteralValue() {}

type BoolLiteral bool

func (v BoolLiteral) is_LiteralValue() {}

func (v CharLiteral) String() string   { return strconv.QuoteRune(rune(v)) }
func (v StringLiteral) String() string { return strconv.Quote(string(v)) }
func (v BoolLiteral) String() string   { return strconv.FormatBool(bool(v)) }

func (v NumericLiteral) String() string {
	return v.Number.String()
}

func (v ArrayLiteral) String() string {
	var items []string
	for _, item := range v.Items {
		items = append(items, item.String())
	}
	return fmt.Sprintf("[%s]: [%s]", v.ElementType, strings.Join(items, ", "))
}

// LiteralDataType infers the default type of a literal. Integers default to 32
// bits and only widen to 64 bits when the value does not fit; floats likewise
// default to f32.
func LiteralDataType(v LiteralValue) DataType {
	switch lit := v.(type) {
	case CharLiteral:
		return Char
	case StringLiteral:
		return String
	case ArrayLiteral:
		return Array{Elem: lit.ElementType}
	case BoolLiteral:
		return Bool
	case NumericLiteral:
		switch n := lit.Number.(type) {
		case Int:
			if n > math.MaxInt32 || n < math.MinInt32 {
				return I64
			}
			return I32
		case Uint:
			if n > math.MaxUint32 {
				return U64
			}
			return U32
		case Float:
			if n > math.MaxFloat32 || n < -math.MaxFloat32 {
				return F64
			}
			return F32
		}
	}
	panic(fmt.Sprintf("unknown literal %T", v))
}

// LiteralEqual compares two literals structurally, recursing into arrays.
func LiteralEqual(a, b LiteralValue) bool {
	switch x := a.(type) {
	case ArrayLiteral:
		y, ok := b.(ArrayLiteral)
		if !ok || !Equal(x.ElementType, y.ElementType) || len(x.Items) != len(y.Items) {
			return false
		}
		for i := range x.Items {
			if !LiteralEqual(x.Items[i], y.Items[i]) {
				return false
			}
		}
		return true
	case NumericLiteral:
		y, ok := b.(NumericLiteral)
		return ok && x.Number == y.Number
	case nil:
		return b == nil
	}
	return a == b
}
