// Package ist holds the intermediate syntax tree: a rewritable sequence of
// syntax nodes that the parser folds from a flat token stream into nested
// expressions and statements.
//
// Nodes live in an Arena and are addressed by NodeID. A node's identity is its
// id, so rewriting a node in place keeps every outstanding reference valid.
package ist

import (
	"github.com/pontaoski/oxide/symbols"
	"github.com/pontaoski/oxide/types"
)

type NodeID int32

// Nil is the absent node.
const Nil NodeID = -1

type treeID uint32

// detached marks nodes owned by a parent's payload instead of a sequence.
const detached treeID = 0

type Param struct {
	Name string
	Type types.DataType
}

// Children is the nested payload of a node.
type Children interface {
	is_Children()
}

// List is a flat list of detached nodes, e.g. the operands of an operator.
type List []NodeID

func (v List) is_Children() {}

// Sequence is a nested sub-sequence carved out during parsing.
type Sequence struct {
	*Tree
}

func (v Sequence) is_Children() {}

// ScopeBlock holds the statements of a scope and the scope they declare names in.
type ScopeBlock struct {
	Statements []*Tree
	Scope      symbols.ScopeID
}

func (v ScopeBlock) is_Children() {}

type FunctionParams []Param

func (v FunctionParams) is_Children() {}

type Function struct {
	Name   string
	Params []Param
	Return types.DataType
	Body   ScopeBlock
}

func (v Function) is_Children() {}

type TypeCast struct {
	DataType types.DataType
	Expr     NodeID
}

func (v TypeCast) is_Children() {}

type Call struct {
	Callable NodeID
	Args     []NodeID
}

func (v Call) is_Children() {}

type Node struct {
	left  NodeID
	right NodeID
	owner treeID
	live  bool

	Children Children
	Token    types.Token
	// DataType is what the node evaluates to. Void until type checking runs.
	DataType types.DataType
}

func (n *Node) Left() NodeID  { return n.left }
func (n *Node) Right() NodeID { return n.right }

// Detached reports whether the node belongs to a payload rather than a sequence.
func (n *Node) Detached() bool { return n.owner == detached }

// payloadNodes calls f for every node directly referenced by c, including the
// nodes of nested sequences and statements.
func payloadNodes(c Children, f func(NodeID)) {
	eachTree := func(t *Tree) {
		if t == nil {
			return
		}
		for id := t.first; id != Nil; id = t.arena.nodes[id].right {
			f(id)
		}
	}

	switch v := c.(type) {
	case List:
		for _, id := range v {
			f(id)
		}
	case Sequence:
		eachTree(v.Tree)
	case ScopeBlock:
		for _, stmt := range v.Statements {
			eachTree(stmt)
		}
	case Function:
		for _, stmt := range v.Body.Statements {
			eachTree(stmt)
		}
	case TypeCast:
		f(v.Expr)
	case Call:
		f(v.Callable)
		for _, id := range v.Args {
			f(id)
		}
	}
}
