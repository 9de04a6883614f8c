package types

import (
	"encoding/binary"
	"math"
)

// Encode returns the little-endian static representation of lit as a value
// of type t. The result is always exactly StaticSize(t) bytes long.
func Encode(lit LiteralValue, t DataType) ([]byte, error) {
	size, err := StaticSize(t)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 8)

	switch v := lit.(type) {
	case BoolLiteral:
		if t != Bool {
			return nil, LiteralTypeMismatch{lit, t}
		}
		if v {
			buf[0] = 1
		}
	case CharLiteral:
		if t != Char && t != U8 && t != I8 {
			return nil, LiteralTypeMismatch{lit, t}
		}
		if v < 0 || v > math.MaxUint8 {
			return nil, LiteralOutOfRange{lit, t}
		}
		buf[0] = byte(v)
	case NumericLiteral:
		if err := encodeNumber(buf, v.Number, t); err != nil {
			if _, ok := err.(LiteralTypeMismatch); ok {
				return nil, LiteralTypeMismatch{lit, t}
			}
			return nil, LiteralOutOfRange{lit, t}
		}
	default:
		return nil, LiteralTypeMismatch{lit, t}
	}

	return buf[:size], nil
}

func encodeNumber(buf []byte, n Number, t DataType) error {
	if IsFloat(t) {
		var f float64
		switch x := n.(type) {
		case Float:
			f = float64(x)
		case Int:
			f = float64(x)
		case Uint:
			f = float64(x)
		}
		if t == F32 {
			if f > math.MaxFloat32 || f < -math.MaxFloat32 {
				return LiteralOutOfRange{}
			}
			binary.LittleEndian.PutUint32(buf, math.Float32bits(float32(f)))
			return nil
		}
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		return nil
	}

	// Pointers and function addresses are stored as u64.
	if IsPointer(t) {
		t = U64
	} else if _, ok := t.(Function); ok {
		t = U64
	}
	if !IsInteger(t) && t != Char {
		return LiteralTypeMismatch{}
	}

	var raw uint64
	switch x := n.(type) {
	case Int:
		if !integerFits(int64(x) < 0, uint64(x), t) {
			return LiteralOutOfRange{}
		}
		raw = uint64(x)
	case Uint:
		if !integerFits(false, uint64(x), t) {
			return LiteralOutOfRange{}
		}
		raw = uint64(x)
	default:
		return LiteralTypeMismatch{}
	}
	binary.LittleEndian.PutUint64(buf, raw)
	return nil
}

// integerFits checks a value given as sign and two's complement bits.
func integerFits(negative bool, bits uint64, t DataType) bool {
	value := int64(bits)
	switch t {
	case I8:
		return value >= math.MinInt8 && value <= math.MaxInt8 && (negative || bits <= math.MaxInt8)
	case I16:
		return value >= math.MinInt16 && value <= math.MaxInt16 && (negative || bits <= math.MaxInt16)
	case I32:
		return value >= math.MinInt32 && value <= math.MaxInt32 && (negative || bits <= math.MaxInt32)
	case I64:
		return negative || bits <= math.MaxInt64
	case U8, Char:
		return !negative && bits <= math.MaxUint8
	case U16:
		return !negative && bits <= math.MaxUint16
	case U32:
		return !negative && bits <= math.MaxUint32
	case U64:
		return !negative
	}
	return false
}
