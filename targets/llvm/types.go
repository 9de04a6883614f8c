package llvm

import (
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/pontaoski/oxide/errors"
	"github.com/pontaoski/oxide/types"
)

var (
	Int8  = &lltypes.IntType{BitSize: 8}
	Int16 = &lltypes.IntType{BitSize: 16}
	Int32 = &lltypes.IntType{BitSize: 32}
	Int64 = &lltypes.IntType{BitSize: 64}

	Float32 = &lltypes.FloatType{Kind: lltypes.FloatKindFloat}
	Float64 = &lltypes.FloatType{Kind: lltypes.FloatKindDouble}

	// Booleans and chars are bytes, as in static storage.
	Boolean = Int8
	Char    = Int8

	Void = lltypes.Void
)

var primitives = map[types.Primitive]lltypes.Type{
	types.Bool: Boolean,
	types.Char: Char,
	types.I8:   Int8,
	types.I16:  Int16,
	types.I32:  Int32,
	types.I64:  Int64,
	types.U8:   Int8,
	types.U16:  Int16,
	types.U32:  Int32,
	types.U64:  Int64,
	types.F32:  Float32,
	types.F64:  Float64,
	types.Void: Void,
	// Strings are handled as a pointer to their first byte.
	types.String: lltypes.NewPointer(Int8),
}

// lowerType maps a data type to its LLVM counterpart. Arrays decay to a
// pointer to their first element.
func lowerType(t types.DataType) lltypes.Type {
	switch t := t.(type) {
	case types.Primitive:
		if ll, ok := primitives[t]; ok {
			return ll
		}
	case types.Ref:
		elem := lowerType(t.Target)
		if lltypes.IsVoid(elem) {
			elem = Int8
		}
		return lltypes.NewPointer(elem)
	case types.Array:
		return lltypes.NewPointer(lowerType(t.Elem))
	case types.Function:
		return lltypes.NewPointer(lowerSignature(t))
	}
	panic(errors.Internalf(errors.UnsupportedOperand, "type %s has no LLVM representation", t))
}

func lowerSignature(f types.Function) *lltypes.FuncType {
	var params []lltypes.Type
	for _, p := range f.Params {
		params = append(params, lowerType(p))
	}
	ret := lltypes.Type(Void)
	if f.Return != nil {
		ret = lowerType(f.Return)
	}
	return lltypes.NewFunc(ret, params...)
}
