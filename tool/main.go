package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"strconv"

	"github.com/alecthomas/participle"

	. "github.com/dave/jennifer/jen"
)

type OpcodeTable struct {
	Opcodes []*Opcode `@@*`
}

type Opcode struct {
	Name     string   `"op" @Ident`
	Mnemonic string   `@String`
	Operands []string `@("size" | "reg" | "const" | "addr")* ";"`
}

var operandIds = map[string]string{
	"size":  "Size",
	"reg":   "Reg",
	"const": "Const",
	"addr":  "Addr",
}

func (t *OpcodeTable) Validate() error {
	seen := map[string]bool{}
	for _, op := range t.Opcodes {
		if seen[op.Name] {
			return fmt.Errorf("opcode %s declared twice", op.Name)
		}
		seen[op.Name] = true
	}
	if len(t.Opcodes) > 256 {
		return fmt.Errorf("%d opcodes do not fit in a byte", len(t.Opcodes))
	}
	return nil
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}

func GenerateOpcodes(pkgname string, t *OpcodeTable) string {
	f := NewFile(pkgname)
	f.HeaderComment("Code generated by opgen from opcodes.def. DO NOT EDIT.")

	var consts []Code
	var names []Code
	var layouts []Code
	for i, op := range t.Opcodes {
		if i == 0 {
			consts = append(consts, Id(op.Name).Id("ByteCode").Op("=").Iota())
		} else {
			consts = append(consts, Id(op.Name))
		}

		names = append(names, Lit(unquote(op.Mnemonic)))

		var operands []Code
		for _, operand := range op.Operands {
			operands = append(operands, Id(operandIds[operand]))
		}
		layouts = append(layouts, Values(operands...))
	}

	f.Const().Defs(consts...)
	f.Comment("Count is the number of opcodes.")
	f.Const().Id("Count").Op("=").Lit(len(t.Opcodes))
	f.Var().Id("Names").Op("=").Index(Op("...")).String().Values(names...)
	f.Var().Id("layouts").Op("=").Index(Op("...")).Index().Id("Operand").Values(layouts...)

	return fmt.Sprintf("%#v", f)
}

func main() {
	parser := participle.MustBuild(&OpcodeTable{})

	in := os.Args[1]
	out := os.Args[2]
	pkgname := os.Args[3]

	inData, err := ioutil.ReadFile(in)
	if err != nil {
		panic(err)
	}

	table := OpcodeTable{}
	err = parser.ParseBytes(inData, &table)
	if err != nil {
		panic(err)
	}
	if err = table.Validate(); err != nil {
		panic(err)
	}

	err = ioutil.WriteFile(out, []byte(GenerateOpcodes(pkgname, &table)), 0644)
	if err != nil {
		panic(err)
	}
}
