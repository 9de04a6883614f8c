package ist

import (
	"fmt"
	"io"
	"strings"
)

func (t *Tree) String() string {
	var sb strings.Builder
	t.Format(&sb)
	return sb.String()
}

// Format writes one line per node, indented one level per nesting depth.
func (t *Tree) Format(w io.Writer) {
	t.format(w, 0)
}

func (t *Tree) format(w io.Writer, indent int) {
	for id := t.first; id != Nil; id = t.arena.nodes[id].right {
		t.arena.writeNode(w, id, indent)
	}
}

func writeIndent(w io.Writer, indent int) {
	io.WriteString(w, strings.Repeat("  ", indent))
}

func (a *Arena) writeNode(w io.Writer, id NodeID, indent int) {
	n := a.Node(id)
	writeIndent(w, indent)
	fmt.Fprintf(w, "| %s (p: %d) (dt: %s)\n", n.Token, n.Token.Priority, n.DataType)

	writeStatements := func(statements []*Tree) {
		for _, stmt := range statements {
			stmt.format(w, indent+1)
			writeIndent(w, indent+1)
			io.WriteString(w, "---\n")
		}
	}

	switch children := n.Children.(type) {
	case List:
		for _, child := range children {
			a.writeNode(w, child, indent+1)
		}
	case Sequence:
		children.format(w, indent+1)
	case ScopeBlock:
		writeStatements(children.Statements)
	case FunctionParams:
		for _, param := range children {
			writeIndent(w, indent+1)
			fmt.Fprintf(w, "%s: %s\n", param.Name, param.Type)
		}
	case Function:
		var params []string
		for _, param := range children.Params {
			params = append(params, fmt.Sprintf("%s: %s", param.Name, param.Type))
		}
		writeIndent(w, indent+1)
		fmt.Fprintf(w, "fn %s(%s) -> %s\n", children.Name, strings.Join(params, ", "), children.Return)
		writeStatements(children.Body.Statements)
	case TypeCast:
		writeIndent(w, indent+1)
		fmt.Fprintf(w, "as %s\n", children.DataType)
		a.writeNode(w, children.Expr, indent+1)
	case Call:
		writeIndent(w, indent+1)
		io.WriteString(w, "call:\n")
		a.writeNode(w, children.Callable, indent+2)
		writeIndent(w, indent+1)
		io.WriteString(w, "args:\n")
		for _, arg := range children.Args {
			a.writeNode(w, arg, indent+2)
		}
	}
}
