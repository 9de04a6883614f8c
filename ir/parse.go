package ir

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle"
	"github.com/alecthomas/participle/lexer"
	"github.com/pontaoski/oxide/errors"
	"github.com/pontaoski/oxide/symbols"
	"github.com/pontaoski/oxide/types"
	"github.com/ztrue/tracerr"
)

type progAST struct {
	Decls []*declAST `@@*`
}

type declAST struct {
	Static *staticAST `  @@`
	Func   *funcAST   `| @@`
}

type staticAST struct {
	Pos   lexer.Position
	Name  string      `"static" @Ident ":"`
	Type  *typeAST    `@@ "="`
	Value *literalAST `@@`
}

type funcAST struct {
	Pos    lexer.Position
	Name   string      `"fn" @Ident "("`
	Params []*paramAST `(@@ ("," @@)*)? ")"`
	Return *typeAST    `"-" ">" @@ "{"`
	Blocks []*blockAST `@@* "}"`
}

type paramAST struct {
	Pos  lexer.Position
	Tn   uint64   `"%" @Int ":"`
	Type *typeAST `@@`
}

type blockAST struct {
	ID  int      `"block" @Int ":"`
	Ops []*opAST `@@*`
}

type typeAST struct {
	Array *typeAST   `  "[" @@ "]"`
	Ref   *typeAST   `| "&" @@`
	Fn    *fnTypeAST `| "fn" @@`
	Name  string     `| @Ident`
}

type fnTypeAST struct {
	Params []*typeAST `"(" (@@ ("," @@)*)? ")"`
	Return *typeAST   `"-" ">" @@`
}

type opAST struct {
	Pos   lexer.Position
	Def   *defAST   `  @@`
	Store *storeAST `| @@`
	Label *labelAST `| @@`
	Jump  *jumpAST  `| @@`
	Cond  *condAST  `| @@`
	Call  *callAST  `| @@`
	Ret   *retAST   `| @@`
	Scope *scopeAST `| @@`
	Nop   bool      `| @"nop"`
}

type defAST struct {
	Target uint64     `"%" @Int ":"`
	Type   *typeAST   `@@ "="`
	Binary *binaryAST `( @@`
	Unary  *unaryAST  `| @@`
	Call   *callAST   `| @@`
	Value  *valueAST  `| @@ )`
}

type binaryAST struct {
	Op    string    `@("add" | "sub" | "mul" | "div" | "mod" | "gt" | "lt" | "ge" | "le" | "eq" | "ne" | "shl" | "shr" | "and" | "or" | "xor")`
	Left  *valueAST `@@ ","`
	Right *valueAST `@@`
}

type unaryAST struct {
	Op      string    `@("not" | "deref" | "ref" | "copy")`
	Operand *valueAST `@@`
}

type storeAST struct {
	Op     string    `@("store" | "storecopy")`
	Target *valueAST `@@ ","`
	Source *valueAST `@@`
}

type labelAST struct {
	ID uint64 `"label" @Int`
}

type jumpAST struct {
	Target uint64 `"jump" @Int`
}

type condAST struct {
	Op        string    `@("jumpif" | "jumpifnot")`
	Condition *valueAST `@@ ","`
	Target    uint64    `@Int`
}

type callAST struct {
	Callee string      `"call" @Ident "("`
	Args   []*valueAST `(@@ ("," @@)*)? ")"`
}

type retAST struct {
	Void  bool      `"ret" ( @"void"`
	Value *valueAST `| @@ )`
}

type scopeAST struct {
	Op    string `@("push" | "pop")`
	Bytes uint64 `@Int`
}

type valueAST struct {
	Pos    lexer.Position
	Tn     *tnAST    `  @@`
	Static *string   `| "@" @Ident`
	Const  *constAST `| @@`
}

type tnAST struct {
	ID uint64 `"%" @Int`
}

type constAST struct {
	Literal *literalAST `@@`
	Type    *typeAST    `":" @@`
}

type literalAST struct {
	Neg    bool    `@"-"?`
	Number *string `( @(Float | Int)`
	Char   *string `| @Char`
	String *string `| @String`
	Bool   *string `| @("true" | "false") )`
}

var parser = participle.MustBuild(&progAST{}, participle.UseLookahead(2))

// Parse reads a program in textual IR form.
//
//	static answer: i32 = 42
//	fn main() -> i32 {
//	block 0:
//		%0: i32 = add @answer, 1:i32
//		ret %0
//	}
func Parse(filename string, src []byte) (*Program, error) {
	return ParseFiles(Source{Filename: filename, Src: src})
}

// Source is one file of textual IR.
type Source struct {
	Filename string
	Src      []byte
}

// ParseFiles reads several files into a single program. Statics and
// functions share one namespace across all of them.
func ParseFiles(sources ...Source) (prog *Program, err error) {
	asts := make([]*progAST, len(sources))
	for i, source := range sources {
		asts[i] = &progAST{}
		if err := parser.ParseBytes(source.Src, asts[i]); err != nil {
			return nil, tracerr.Wrap(errors.Syntax{Filename: source.Filename, Err: err})
		}
	}

	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	r := &reader{
		prog: &Program{Symbols: symbols.NewTable()},
	}
	r.read(sources, asts)
	return r.prog, nil
}

var literalParser = participle.MustBuild(&literalAST{})

// ParseLiteral reads a literal written as a value of type t, like the
// left-hand side of a constant: -3, 2.5, 'x', true.
func ParseLiteral(text string, t types.DataType) (lit types.LiteralValue, err error) {
	ast := literalAST{}
	if err := literalParser.ParseString(text, &ast); err != nil {
		return nil, tracerr.Wrap(errors.Syntax{Filename: "<literal>", Err: err})
	}

	defer func() {
		if r := recover(); r != nil {
			rerr, ok := r.(error)
			if ok {
				err = tracerr.Wrap(rerr)
			} else {
				panic(r)
			}
		}
	}()

	r := &reader{filename: "<literal>"}
	return r.readLiteral(lexer.Position{Line: 1, Column: 1}, &ast, t), nil
}

type reader struct {
	filename string
	prog     *Program

	tns    map[symbols.TnID]types.DataType
	labels map[symbols.LabelID]bool
	jumps  map[symbols.LabelID]lexer.Position
}

type pendingCall struct {
	call     *Call
	pos      lexer.Position
	filename string
}

func (r *reader) span(pos lexer.Position) types.Span {
	return types.SingleCharSpan(types.Position{
		Line:     pos.Line,
		Column:   pos.Column,
		Filename: r.filename,
	})
}

func (r *reader) fail(pos lexer.Position, err error) {
	panic(fmt.Errorf("%s: %w", r.span(pos).From, err))
}

func (r *reader) read(sources []Source, asts []*progAST) {
	for i, ast := range asts {
		r.filename = sources[i].Filename
		for _, decl := range ast.Decls {
			if decl.Static != nil {
				r.readStatic(decl.Static)
			}
		}
	}

	var calls []pendingCall
	for i, ast := range asts {
		r.filename = sources[i].Filename
		for _, decl := range ast.Decls {
			if decl.Func == nil {
				continue
			}
			if _, ok := r.prog.Function(decl.Func.Name); ok {
				panic(errors.DuplicateDefinition{Name: decl.Func.Name, Location: r.span(decl.Func.Pos)})
			}
			fn, fnCalls := r.readFunc(decl.Func)
			r.prog.Functions = append(r.prog.Functions, fn)
			calls = append(calls, fnCalls...)
		}
	}

	// Calls may refer to functions defined further down.
	for _, c := range calls {
		r.filename = c.filename
		callee, ok := r.prog.Function(c.call.Callee)
		if !ok {
			panic(errors.UndefinedName{What: "function", Name: c.call.Callee, Location: r.span(c.pos)})
		}
		if len(callee.Params) != len(c.call.Args) {
			r.fail(c.pos, fmt.Errorf("%s takes %d arguments, %d given", callee.Name, len(callee.Params), len(c.call.Args)))
		}
		for i, arg := range c.call.Args {
			if !types.Equal(arg.Type(), callee.Params[i].DataType) {
				panic(errors.TypeMismatch{Expected: callee.Params[i].DataType, Got: arg.Type(), Location: r.span(c.pos)})
			}
		}
		if c.call.Target != nil && !types.Equal(c.call.Target.DataType, callee.Return) {
			panic(errors.TypeMismatch{Expected: callee.Return, Got: c.call.Target.DataType, Location: r.span(c.pos)})
		}
	}
}

func (r *reader) readStatic(s *staticAST) {
	if _, ok := r.prog.Symbols.LookupStatic(s.Name); ok {
		panic(errors.DuplicateDefinition{Name: s.Name, Location: r.span(s.Pos)})
	}
	t := r.readType(s.Type)
	lit := r.readLiteral(s.Pos, s.Value, t)
	if _, err := r.prog.Symbols.AddStatic(s.Name, t, lit); err != nil {
		r.fail(s.Pos, err)
	}
}

func (r *reader) readType(t *typeAST) types.DataType {
	switch {
	case t.Array != nil:
		return types.Array{Elem: r.readType(t.Array)}
	case t.Ref != nil:
		return types.Ref{Target: r.readType(t.Ref)}
	case t.Fn != nil:
		fn := types.Function{Return: r.readType(t.Fn.Return)}
		for _, p := range t.Fn.Params {
			fn.Params = append(fn.Params, r.readType(p))
		}
		return fn
	}
	dt, err := types.ParseDataType(t.Name)
	if err != nil {
		panic(err)
	}
	return dt
}

func unquote(s string) string {
	if u, err := strconv.Unquote(s); err == nil {
		return u
	}
	return s
}

// readLiteral builds the literal for a value written at type t. The number tag
// follows the type, so 1 is Int at i32 and Uint at u8.
func (r *reader) readLiteral(pos lexer.Position, l *literalAST, t types.DataType) types.LiteralValue {
	switch {
	case l.Bool != nil:
		return types.BoolLiteral(*l.Bool == "true")
	case l.Char != nil:
		runes := []rune(unquote(*l.Char))
		if len(runes) != 1 {
			r.fail(pos, fmt.Errorf("invalid character literal %s", *l.Char))
		}
		return types.CharLiteral(runes[0])
	case l.String != nil:
		return types.StringLiteral(unquote(*l.String))
	}

	text := *l.Number
	if types.IsFloat(t) {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			r.fail(pos, err)
		}
		if l.Neg {
			f = -f
		}
		return types.NumericLiteral{Number: types.Float(f)}
	}

	if _, err := strconv.ParseUint(text, 0, 64); err != nil {
		if _, ferr := strconv.ParseFloat(text, 64); ferr == nil {
			panic(errors.TypeMismatch{Expected: t, Got: types.F64, Location: r.span(pos)})
		}
		r.fail(pos, err)
	}

	if types.IsSignedInteger(t) {
		n, err := strconv.ParseInt(text, 0, 64)
		if l.Neg {
			n, err = strconv.ParseInt("-"+text, 0, 64)
		}
		if err != nil {
			r.fail(pos, types.LiteralOutOfRange{Literal: types.StringLiteral(text), Type: t})
		}
		return types.NumericLiteral{Number: types.Int(n)}
	}

	n, _ := strconv.ParseUint(text, 0, 64)
	lit := types.NumericLiteral{Number: types.Uint(n)}
	if l.Neg {
		r.fail(pos, types.LiteralOutOfRange{Literal: lit, Type: t})
	}
	return lit
}

func (r *reader) readFunc(f *funcAST) (*FunctionGraph, []pendingCall) {
	r.tns = map[symbols.TnID]types.DataType{}
	r.labels = map[symbols.LabelID]bool{}
	r.jumps = map[symbols.LabelID]lexer.Position{}

	fn := &FunctionGraph{Name: f.Name, Return: r.readType(f.Return)}
	for _, p := range f.Params {
		tn := r.define(p.Pos, symbols.TnID(p.Tn), r.readType(p.Type))
		fn.Params = append(fn.Params, tn)
	}

	var calls []pendingCall
	for _, b := range f.Blocks {
		block := BasicBlock{ID: b.ID}
		for _, o := range b.Ops {
			op := r.readOp(fn, o)
			if c, ok := op.(Call); ok {
				calls = append(calls, pendingCall{&c, o.Pos, r.filename})
			}
			block.Ops = append(block.Ops, op)
		}
		fn.Blocks = append(fn.Blocks, block)
	}

	for label, pos := range r.jumps {
		if !r.labels[label] {
			panic(errors.UndefinedName{What: "label", Name: strconv.FormatUint(uint64(label), 10), Location: r.span(pos)})
		}
	}
	return fn, calls
}

func (r *reader) define(pos lexer.Position, id symbols.TnID, t types.DataType) Tn {
	if prev, ok := r.tns[id]; ok && !types.Equal(prev, t) {
		panic(errors.TypeMismatch{Expected: prev, Got: t, Location: r.span(pos)})
	}
	r.tns[id] = t
	r.prog.Symbols.ReserveTn(id)
	return Tn{ID: id, DataType: t}
}

func (r *reader) readValue(v *valueAST) Value {
	switch {
	case v.Tn != nil:
		id := symbols.TnID(v.Tn.ID)
		t, ok := r.tns[id]
		if !ok {
			panic(errors.UndefinedName{What: "temporary", Name: fmt.Sprintf("%%%d", id), Location: r.span(v.Pos)})
		}
		return Tn{ID: id, DataType: t}
	case v.Static != nil:
		id, ok := r.prog.Symbols.LookupStatic(*v.Static)
		if !ok {
			panic(errors.UndefinedName{What: "static", Name: *v.Static, Location: r.span(v.Pos)})
		}
		s, _ := r.prog.Symbols.Static(id)
		return Static{ID: id, Name: s.Name, DataType: s.DataType}
	}

	t := r.readType(v.Const.Type)
	lit := r.readLiteral(v.Pos, v.Const.Literal, t)
	if _, err := types.StaticSize(t); err == nil {
		if _, err := types.Encode(lit, t); err != nil {
			r.fail(v.Pos, err)
		}
	}
	return Const{Literal: lit, DataType: t}
}

func (r *reader) sameType(pos lexer.Position, want types.DataType, values ...Value) {
	for _, v := range values {
		if !types.Equal(v.Type(), want) {
			panic(errors.TypeMismatch{Expected: want, Got: v.Type(), Location: r.span(pos)})
		}
	}
}

func (r *reader) jumpTo(pos lexer.Position, id uint64) symbols.LabelID {
	label := symbols.LabelID(id)
	if _, ok := r.jumps[label]; !ok {
		r.jumps[label] = pos
	}
	return label
}

func (r *reader) readOp(fn *FunctionGraph, o *opAST) Operator {
	switch {
	case o.Def != nil:
		return r.readDef(o.Pos, o.Def)
	case o.Store != nil:
		target := r.readValue(o.Store.Target)
		source := r.readValue(o.Store.Source)
		ref, ok := target.Type().(types.Ref)
		if !ok {
			panic(errors.TypeMismatch{Expected: types.Ref{Target: source.Type()}, Got: target.Type(), Location: r.span(o.Pos)})
		}
		if o.Store.Op == "storecopy" {
			r.sameType(o.Pos, ref, source)
			return DerefCopy{Target: target, Source: source}
		}
		r.sameType(o.Pos, ref.Target, source)
		return DerefAssign{Target: target, Source: source}
	case o.Label != nil:
		label := symbols.LabelID(o.Label.ID)
		if r.labels[label] {
			panic(errors.DuplicateDefinition{Name: fmt.Sprintf("label %d", label), Location: r.span(o.Pos)})
		}
		r.labels[label] = true
		r.prog.Symbols.ReserveLabel(label)
		return Label{Label: label}
	case o.Jump != nil:
		return Jump{Target: r.jumpTo(o.Pos, o.Jump.Target)}
	case o.Cond != nil:
		cond := r.readValue(o.Cond.Condition)
		if !types.Equal(cond.Type(), types.Bool) && !types.IsInteger(cond.Type()) {
			panic(errors.TypeMismatch{Expected: types.Bool, Got: cond.Type(), Location: r.span(o.Pos)})
		}
		target := r.jumpTo(o.Pos, o.Cond.Target)
		if o.Cond.Op == "jumpif" {
			return JumpIf{Condition: cond, Target: target}
		}
		return JumpIfNot{Condition: cond, Target: target}
	case o.Call != nil:
		return r.readCall(nil, o.Call)
	case o.Ret != nil:
		if o.Ret.Void {
			if !types.Equal(fn.Return, types.Void) {
				panic(errors.TypeMismatch{Expected: fn.Return, Got: types.Void, Location: r.span(o.Pos)})
			}
			return Return{}
		}
		v := r.readValue(o.Ret.Value)
		r.sameType(o.Pos, fn.Return, v)
		return Return{Value: v}
	case o.Scope != nil:
		if o.Scope.Op == "push" {
			return PushScope{Bytes: o.Scope.Bytes}
		}
		return PopScope{Bytes: o.Scope.Bytes}
	}
	return Nop{}
}

func (r *reader) readCall(target *Tn, c *callAST) Call {
	call := Call{Target: target, Callee: c.Callee}
	for _, a := range c.Args {
		call.Args = append(call.Args, r.readValue(a))
	}
	return call
}

func (r *reader) readDef(pos lexer.Position, d *defAST) Operator {
	t := r.readType(d.Type)

	switch {
	case d.Binary != nil:
		left := r.readValue(d.Binary.Left)
		right := r.readValue(d.Binary.Right)
		target := r.define(pos, symbols.TnID(d.Target), t)
		return r.binary(pos, d.Binary.Op, target, left, right)
	case d.Unary != nil:
		operand := r.readValue(d.Unary.Operand)
		target := r.define(pos, symbols.TnID(d.Target), t)
		switch d.Unary.Op {
		case "not":
			r.sameType(pos, t, operand)
			return BitNot{Target: target, Operand: operand}
		case "deref":
			r.sameType(pos, types.Ref{Target: t}, operand)
			return Deref{Target: target, Ref: operand}
		case "ref":
			if _, ok := operand.(Const); ok {
				r.fail(pos, fmt.Errorf("cannot take the address of constant %s", operand))
			}
			r.sameType(pos, types.Ref{Target: operand.Type()}, target)
			return Ref{Target: target, Ref: operand}
		}
		r.sameType(pos, t, operand)
		return Copy{Target: target, Source: operand}
	case d.Call != nil:
		target := r.define(pos, symbols.TnID(d.Target), t)
		return r.readCall(&target, d.Call)
	}

	source := r.readValue(d.Value)
	target := r.define(pos, symbols.TnID(d.Target), t)
	r.sameType(pos, t, source)
	return Assign{Target: target, Source: source}
}

func (r *reader) binary(pos lexer.Position, op string, target Tn, left, right Value) Operator {
	switch op {
	case "gt", "lt", "ge", "le", "eq", "ne":
		r.sameType(pos, left.Type(), right)
		r.sameType(pos, types.Bool, target)
	case "shl", "shr":
		r.sameType(pos, target.DataType, left)
		if !types.IsInteger(right.Type()) {
			panic(errors.TypeMismatch{Expected: types.U8, Got: right.Type(), Location: r.span(pos)})
		}
	default:
		r.sameType(pos, target.DataType, left, right)
	}

	switch op {
	case "add":
		return Add{target, left, right}
	case "sub":
		return Sub{target, left, right}
	case "mul":
		return Mul{target, left, right}
	case "div":
		return Div{target, left, right}
	case "mod":
		return Mod{target, left, right}
	case "gt":
		return Greater{target, left, right}
	case "lt":
		return Less{target, left, right}
	case "ge":
		return GreaterEqual{target, left, right}
	case "le":
		return LessEqual{target, left, right}
	case "eq":
		return Equal{target, left, right}
	case "ne":
		return NotEqual{target, left, right}
	case "shl":
		return BitShiftLeft{target, left, right}
	case "shr":
		return BitShiftRight{target, left, right}
	case "and":
		return BitAnd{target, left, right}
	case "or":
		return BitOr{target, left, right}
	}
	return BitXor{target, left, right}
}
