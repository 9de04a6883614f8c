package llvm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/pontaoski/oxide/image"
)

// TypeInfoGlobal holds the NUL terminated JSON type information of a module.
const TypeInfoGlobal = "__oxide_types"

func registerTypeInfoWithModule(t image.TypeInfo, m *ir.Module) {
	data, err := json.Marshal(t)
	if err != nil {
		panic(err)
	}

	g := m.NewGlobalDef(TypeInfoGlobal, constant.NewCharArray(append(data, 0)))
	g.Immutable = true
}

// TypeInfo extracts the type information registered in m.
func TypeInfo(m *ir.Module) (t image.TypeInfo, err error) {
	for _, g := range m.Globals {
		if g.Name() != TypeInfoGlobal {
			continue
		}
		arr, ok := g.Init.(*constant.CharArray)
		if !ok {
			return t, fmt.Errorf("%s is not a character array", TypeInfoGlobal)
		}
		err = json.Unmarshal(bytes.TrimRight(arr.X, "\x00"), &t)
		return
	}
	return t, fmt.Errorf("module has no %s global", TypeInfoGlobal)
}

// TypeInfoFromFile reads the type information of an LLVM assembly file.
func TypeInfoFromFile(path string) (image.TypeInfo, error) {
	m, err := asm.ParseFile(path)
	if err != nil {
		return image.TypeInfo{}, err
	}
	return TypeInfo(m)
}
