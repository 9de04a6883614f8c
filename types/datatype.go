package types

import (
	"fmt"
	"strings"
)

// DataType is one of Primitive, Array, Ref or Function.
type DataType interface {
	is_DataType()
	String() string
}

type Primitive int

const (
	Bool Primitive = iota
	Char
	String
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
	F32
	F64
	Void
	// Any is used internally for unification and is not available in the language.
	Any
)

func (v Primitive) is_DataType() {}

type Array struct {
	Elem DataType
}

func (v Array) is_DataType() {}

type Ref struct {
	Target DataType
}

func (v Ref) is_DataType() {}

type Function struct {
	Params []DataType
	Return DataType
}

func (v Function) is_DataType() {}

var primitiveNames = map[Primitive]string{
	Bool:   "bool",
	Char:   "char",
	String: "str",
	I8:     "i8",
	I16:    "i16",
	I32:    "i32",
	I64:    "i64",
	U8:     "u8",
	U16:    "u16",
	U32:    "u32",
	U64:    "u64",
	F32:    "f32",
	F64:    "f64",
	Void:   "void",
	Any:    "any",
}

func (v Primitive) String() string {
	if name, ok := primitiveNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Primitive(%d)", int(v))
}

func (v Array) String() string {
	return "[" + v.Elem.String() + "]"
}

func (v Ref) String() string {
	return "&" + v.Target.String()
}

func (v Function) String() string {
	var params []string
	for _, param := range v.Params {
		params = append(params, param.String())
	}
	ret := DataType(Void)
	if v.Return != nil {
		ret = v.Return
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(params, ", "), ret)
}

// Equal compares two data types structurally.
func Equal(a, b DataType) bool {
	switch x := a.(type) {
	case Primitive:
		y, ok := b.(Primitive)
		return ok && x == y
	case Array:
		y, ok := b.(Array)
		return ok && Equal(x.Elem, y.Elem)
	case Ref:
		y, ok := b.(Ref)
		return ok && Equal(x.Target, y.Target)
	case Function:
		y, ok := b.(Function)
		if !ok || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if !Equal(x.Params[i], y.Params[i]) {
				return false
			}
		}
		return Equal(returnOf(x), returnOf(y))
	case nil:
		return b == nil
	}
	return false
}

func returnOf(f Function) DataType {
	if f.Return == nil {
		return Void
	}
	return f.Return
}

func IsSignedInteger(t DataType) bool {
	switch t {
	case I8, I16, I32, I64:
		return true
	}
	return false
}

func IsUnsignedInteger(t DataType) bool {
	switch t {
	case U8, U16, U32, U64:
		return true
	}
	return false
}

func IsInteger(t DataType) bool {
	return IsSignedInteger(t) || IsUnsignedInteger(t)
}

func IsFloat(t DataType) bool {
	return t == F32 || t == F64
}

func IsNumeric(t DataType) bool {
	return IsInteger(t) || IsFloat(t)
}

// ContainsAny reports whether t is any or is built from it.
func ContainsAny(t DataType) bool {
	switch t := t.(type) {
	case Primitive:
		return t == Any
	case Array:
		return ContainsAny(t.Elem)
	case Ref:
		return ContainsAny(t.Target)
	case Function:
		for _, p := range t.Params {
			if ContainsAny(p) {
				return true
			}
		}
		return t.Return != nil && ContainsAny(t.Return)
	}
	return false
}

func IsPointer(t DataType) bool {
	_, ok := t.(Ref)
	return ok
}

// StaticSize returns the number of bytes a value of t occupies in static
// storage. Strings and arrays are dynamically sized.
func StaticSize(t DataType) (int, error) {
	switch v := t.(type) {
	case Primitive:
		switch v {
		case Bool, Char, I8, U8:
			return 1, nil
		case I16, U16:
			return 2, nil
		case I32, U32, F32:
			return 4, nil
		case I64, U64, F64:
			return 8, nil
		case Void:
			return 0, nil
		}
	case Ref, Function:
		return 8, nil
	}
	return 0, NoStaticSize{Type: t}
}

// ParseDataType is the inverse of DataType.String. The internal any type is
// not accepted.
func ParseDataType(name string) (DataType, error) {
	name = strings.TrimSpace(name)

	if strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]") {
		elem, err := ParseDataType(name[1 : len(name)-1])
		if err != nil {
			return nil, err
		}
		return Array{Elem: elem}, nil
	}
	if strings.HasPrefix(name, "&") {
		target, err := ParseDataType(name[1:])
		if err != nil {
			return nil, err
		}
		return Ref{Target: target}, nil
	}
	if strings.HasPrefix(name, "fn(") {
		return parseFunctionType(name)
	}

	for prim, primName := range primitiveNames {
		if primName == name && prim != Any {
			return prim, nil
		}
	}
	return nil, fmt.Errorf("unknown data type %q", name)
}

func parseFunctionType(name string) (DataType, error) {
	depth := 0
	closing := -1
	for i := len("fn("); i < len(name); i++ {
		switch name[i] {
		case '(', '[':
			depth++
		case ']':
			depth--
		case ')':
			if depth == 0 {
				closing = i
			} else {
				depth--
			}
		}
		if closing != -1 {
			break
		}
	}
	if closing == -1 {
		return nil, fmt.Errorf("unterminated parameter list in %q", name)
	}

	f := Function{Return: Void}
	for _, param := range splitTopLevel(name[len("fn("):closing]) {
		dt, err := ParseDataType(param)
		if err != nil {
			return nil, err
		}
		f.Params = append(f.Params, dt)
	}

	rest := strings.TrimSpace(name[closing+1:])
	if rest != "" {
		if !strings.HasPrefix(rest, "->") {
			return nil, fmt.Errorf("expected -> after parameters in %q", name)
		}
		ret, err := ParseDataType(rest[2:])
		if err != nil {
			return nil, err
		}
		f.Return = ret
	}
	return f, nil
}

func splitTopLevel(s string) (parts []string) {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
