package types

import "math"

// IsCastableTo reports whether an explicit cast from self to target is legal.
func IsCastableTo(self, target DataType) bool {
	if Equal(self, target) {
		return true
	}

	switch {
	// 1-byte integers are also castable to chars.
	case self == I8 || self == U8:
		return target == Char || IsNumeric(target)
	// u64 doubles as an address.
	case self == U64:
		return IsNumeric(target) || IsPointer(target)
	case IsNumeric(self):
		return IsNumeric(target)
	case self == Char:
		return target == I8 || target == U8
	case IsPointer(self):
		return IsPointer(target) || target == U64
	}
	return false
}

// IsImplicitlyCastableTo reports whether the compiler may insert a cast from
// self to target on its own. value is the compile-time value of the source
// expression when it is a literal, or nil.
func IsImplicitlyCastableTo(self, target DataType, value LiteralValue) bool {
	if Equal(self, target) {
		return true
	}
	if target == Any {
		return true
	}
	if self == Any {
		return false
	}

	if arr, ok := self.(Array); ok {
		targetArr, ok := target.(Array)
		if !ok {
			return false
		}
		// An empty array can be cast to any other array type.
		if arr.Elem == Void {
			return true
		}
		if IsImplicitlyCastableTo(arr.Elem, targetArr.Elem, nil) {
			return true
		}
		lit, ok := value.(ArrayLiteral)
		if !ok {
			return false
		}
		for _, item := range lit.Items {
			if !IsImplicitlyCastableTo(arr.Elem, targetArr.Elem, item) {
				return false
			}
		}
		return true
	}

	switch target {
	case I8:
		return fitsSigned(value, math.MinInt8, math.MaxInt8)
	case I16:
		return oneOf(self, I8, U8) ||
			fitsSigned(value, math.MinInt16, math.MaxInt16)
	case I32:
		return oneOf(self, I8, U8, I16, U16) ||
			fitsSigned(value, math.MinInt32, math.MaxInt32)
	case I64:
		if oneOf(self, I8, U8, I16, U16, I32, U32) {
			return true
		}
		n, ok := numberOf(value).(Uint)
		return ok && n <= math.MaxInt64
	case U8:
		return fitsUnsigned(value, math.MaxUint8)
	case U16:
		return oneOf(self, U8) ||
			fitsUnsigned(value, math.MaxUint16)
	case U32:
		return oneOf(self, U8, U16) ||
			fitsUnsigned(value, math.MaxUint32)
	case U64:
		if oneOf(self, U8, U16, U32) {
			return true
		}
		n, ok := numberOf(value).(Int)
		return ok && n >= 0
	case F32:
		if IsInteger(self) {
			return true
		}
		n, ok := numberOf(value).(Float)
		return ok && n >= -math.MaxFloat32 && n <= math.MaxFloat32
	case F64:
		// f64 is the widest numeric type.
		return IsInteger(self) || self == F32
	}
	return false
}

func oneOf(t DataType, candidates ...Primitive) bool {
	for _, c := range candidates {
		if t == c {
			return true
		}
	}
	return false
}

func numberOf(value LiteralValue) Number {
	if lit, ok := value.(NumericLiteral); ok {
		return lit.Number
	}
	return nil
}

func fitsSigned(value LiteralValue, min, max int64) bool {
	switch n := numberOf(value).(type) {
	case Int:
		return int64(n) >= min && int64(n) <= max
	case Uint:
		return uint64(n) <= uint64(max)
	}
	return false
}

func fitsUnsigned(value LiteralValue, max uint64) bool {
	switch n := numberOf(value).(type) {
	case Int:
		return n >= 0 && uint64(n) <= max
	case Uint:
		return uint64(n) <= max
	}
	return false
}
