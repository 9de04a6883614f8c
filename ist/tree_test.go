package ist

import (
	"testing"

	"github.com/alecthomas/repr"
	"github.com/pontaoski/oxide/errors"
	"github.com/pontaoski/oxide/types"
)

func tok(v string) types.Token {
	return types.Token{Kind: types.IDENT, Value: v}
}

func values(t *Tree) (out []string) {
	it := t.Iter()
	for id, ok := it.Next(); ok; id, ok = it.Next() {
		out = append(out, t.Node(id).Token.Value)
	}
	return
}

func build(values ...string) (*Tree, []NodeID) {
	tree := NewArena().NewTree()
	var ids []NodeID
	for _, v := range values {
		ids = append(ids, tree.Append(tok(v)))
	}
	return tree, ids
}

// checkLinks verifies that left and right links agree and that first/last
// point at the ends.
func checkLinks(t *testing.T, tree *Tree) {
	t.Helper()
	prev := Nil
	for id := tree.First(); id != Nil; id = tree.Node(id).Right() {
		n := tree.Node(id)
		if n.Left() != prev {
			t.Fatalf("node %d has left %d, expected %d", id, n.Left(), prev)
		}
		if n.owner != tree.id {
			t.Fatalf("node %d is owned by %d, expected %d", id, n.owner, tree.id)
		}
		prev = id
	}
	if tree.Last() != prev {
		t.Fatalf("last is %d, expected %d", tree.Last(), prev)
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func expectMalformed(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.IsInternal(err, errors.MalformedSplice) {
			t.Errorf("%s: expected a malformed splice panic, got %v", name, r)
		}
	}()
	f()
}

func TestAppendAndIterate(t *testing.T) {
	tree, _ := build("a", "b", "c")
	checkLinks(t, tree)

	if got := values(tree); !equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order %v", got)
	}
	// Iteration can be restarted from the sequence.
	if got := values(tree); !equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("second iteration yielded %v", got)
	}
	if tree.Len() != 3 || tree.HasOneItem() || tree.IsEmpty() {
		t.Fatalf("unexpected length bookkeeping")
	}
}

func TestDropEnds(t *testing.T) {
	tree, _ := build("a", "b", "c")
	arena := tree.Arena()

	tree.DropFirst()
	tree.DropLast()
	checkLinks(t, tree)
	if got := values(tree); !equal(got, []string{"b"}) || !tree.HasOneItem() {
		t.Fatalf("unexpected contents %v", got)
	}

	tree.DropLast()
	if !tree.IsEmpty() || tree.Last() != Nil {
		t.Fatalf("tree should be empty")
	}
	tree.DropFirst()
	tree.DropLast()
	if arena.Live() != 0 {
		t.Fatalf("expected every node to be freed, %d live", arena.Live())
	}
}

func TestExtractNode(t *testing.T) {
	for i := 0; i < 4; i++ {
		tree, ids := build("a", "b", "c", "d")
		expected := append([]string{}, []string{"a", "b", "c", "d"}[:i]...)
		expected = append(expected, []string{"a", "b", "c", "d"}[i+1:]...)

		got := tree.ExtractNode(ids[i])
		checkLinks(t, tree)
		if got != ids[i] || !tree.Node(got).Detached() {
			t.Fatalf("extracted node should be detached")
		}
		if v := values(tree); !equal(v, expected) {
			t.Fatalf("extracting %d left %v, expected %v", i, v, expected)
		}
	}

	tree, ids := build("only")
	tree.ExtractNode(ids[0])
	if !tree.IsEmpty() || tree.First() != Nil || tree.Last() != Nil {
		t.Fatalf("extracting the only node should empty the tree")
	}
}

func TestExtractSliceIntegrity(t *testing.T) {
	all := []string{"a", "b", "c", "d", "e", "f"}

	for start := 0; start < len(all); start++ {
		for end := start; end < len(all); end++ {
			tree, ids := build(all...)
			slice := tree.ExtractSlice(ids[start], ids[end])
			checkLinks(t, tree)
			checkLinks(t, slice)

			var remainder []string
			remainder = append(remainder, all[:start]...)
			remainder = append(remainder, all[end+1:]...)
			if got := values(tree); !equal(got, remainder) {
				t.Fatalf("[%d,%d] remainder %v, expected %v", start, end, got, remainder)
			}
			if got := values(slice); !equal(got, all[start:end+1]) {
				t.Fatalf("[%d,%d] slice %v, expected %v", start, end, got, all[start:end+1])
			}

			at := Nil
			if start > 0 {
				at = ids[start-1]
			}
			tree.SpliceAfter(at, slice)
			checkLinks(t, tree)
			if got := values(tree); !equal(got, all) {
				t.Fatalf("[%d,%d] reinsertion gave %v", start, end, got)
			}
			if !slice.IsEmpty() {
				t.Fatalf("spliced sequence should be empty")
			}
		}
	}
}

func TestInsertAfter(t *testing.T) {
	tree, ids := build("a", "c")
	tree.InsertAfter(ids[0], tok("b"))
	tree.InsertAfter(Nil, tok("start"))
	tree.InsertAfter(ids[1], tok("end"))
	checkLinks(t, tree)
	if got := values(tree); !equal(got, []string{"start", "a", "b", "c", "end"}) {
		t.Fatalf("unexpected order %v", got)
	}
}

func TestSubstitute(t *testing.T) {
	tree, ids := build("x", "+", "y")
	arena := tree.Arena()

	// Fold "x + y" into the operator node, the way the parser builds binary
	// expressions.
	left := tree.ExtractNode(ids[0])
	right := tree.ExtractNode(ids[2])
	op := arena.NewDetached(types.Token{Kind: types.ARITHMETIC, Value: "+", Priority: 3})
	arena.Node(op).Children = List{left, right}
	arena.Node(op).DataType = types.I32

	tree.Substitute(ids[1], op)
	checkLinks(t, tree)

	n := tree.Node(ids[1])
	if n.Token.Kind != types.ARITHMETIC || !types.Equal(n.DataType, types.I32) {
		t.Fatalf("substitution did not copy the token and type: %s", repr.String(n.Token))
	}
	if list, ok := n.Children.(List); !ok || len(list) != 2 || list[0] != left {
		t.Fatalf("substitution did not copy the payload")
	}
	if tree.First() != ids[1] || !tree.HasOneItem() {
		t.Fatalf("position of the substituted node changed")
	}
	if arena.Live() != 3 {
		t.Fatalf("replacement wrapper should be freed, %d live", arena.Live())
	}

	// Replacing the payload again frees the operands that are not reused.
	cast := arena.NewDetached(types.Token{Kind: types.TYPE_CAST})
	arena.Node(cast).Children = TypeCast{DataType: types.I64, Expr: left}
	tree.Substitute(ids[1], cast)
	if arena.Live() != 2 {
		t.Fatalf("unused operand should be freed, %d live", arena.Live())
	}
	expectMalformed(t, "freed operand", func() { arena.Node(right) })

	tree.Release()
	if arena.Live() != 0 {
		t.Fatalf("release should free payloads, %d live", arena.Live())
	}
}

func TestSubstituteWithOwnOperand(t *testing.T) {
	tree := NewArena().NewTree()
	arena := tree.Arena()

	// Unwrap "(x)" into "x", where x carries a payload of its own.
	paren := tree.Append(types.Token{Kind: types.LPAREN, Value: "("})
	x := arena.NewDetached(tok("x"))
	inner := arena.NewDetached(tok("y"))
	arena.Node(x).Children = List{inner}
	arena.Node(x).DataType = types.I32
	arena.Node(paren).Children = List{x}

	tree.Substitute(paren, x)
	checkLinks(t, tree)

	n := tree.Node(paren)
	if n.Token.Value != "x" || !types.Equal(n.DataType, types.I32) {
		t.Fatalf("operand was not copied into the node: %s", repr.String(n.Token))
	}
	if list, ok := n.Children.(List); !ok || len(list) != 1 || list[0] != inner {
		t.Fatalf("operand payload was not kept: %s", repr.String(n.Children))
	}
	if arena.Live() != 2 {
		t.Fatalf("expected the node and its payload to be live, got %d", arena.Live())
	}
	expectMalformed(t, "freed operand", func() { arena.Node(x) })

	first := arena.NewDetached(tok("a"))
	second := arena.NewDetached(tok("b"))
	if first == second || first == paren || second == paren || first == inner || second == inner {
		t.Fatalf("recycled slots alias: %d %d (node %d, payload %d)", first, second, paren, inner)
	}
	if tree.Node(paren).Token.Value != "x" {
		t.Fatalf("allocation overwrote the substituted node")
	}
}

func TestMalformedSplices(t *testing.T) {
	a, aIDs := build("a1", "a2", "a3")
	_, bIDs := build("b1")

	expectMalformed(t, "foreign node", func() { a.ExtractNode(bIDs[0]) })
	expectMalformed(t, "reversed slice", func() { a.ExtractSlice(aIDs[2], aIDs[0]) })
	expectMalformed(t, "self splice", func() { a.SpliceAfter(Nil, a) })

	a.ExtractNode(aIDs[1])
	expectMalformed(t, "detached node", func() { a.ExtractNode(aIDs[1]) })
	expectMalformed(t, "replacement in sequence", func() { a.Substitute(aIDs[2], aIDs[0]) })

	other := a.Arena().NewTree()
	foreign := other.Append(tok("o"))
	replacement := a.Arena().NewDetached(tok("r"))
	expectMalformed(t, "substitute into another sequence", func() { a.Substitute(foreign, replacement) })
	if other.Node(foreign).Token.Value != "o" {
		t.Fatalf("foreign node was modified")
	}
}

func TestFormat(t *testing.T) {
	arena := NewArena()
	tree := arena.NewTree()

	fn := tree.Append(types.Token{Kind: types.FN, Value: "fn"})
	body := arena.NewTree()
	ret := body.Append(types.Token{Kind: types.RETURN, Value: "return"})
	lit := arena.NewDetached(types.Token{Kind: types.LITERAL, Literal: types.NumericLiteral{Number: types.Int(1)}})
	arena.Node(lit).DataType = types.I32
	cast := arena.NewDetached(types.Token{Kind: types.TYPE_CAST})
	arena.Node(cast).Children = TypeCast{DataType: types.I64, Expr: lit}
	arena.Node(cast).DataType = types.I64
	body.Node(ret).Children = List{cast}

	tree.Node(fn).Children = Function{
		Name:   "main",
		Params: []Param{{Name: "argc", Type: types.U8}},
		Return: types.I64,
		Body:   ScopeBlock{Statements: []*Tree{body}, Scope: 1},
	}

	callee := arena.NewDetached(types.Token{Kind: types.IDENT, Value: "main"})
	arg := arena.NewDetached(types.Token{Kind: types.LITERAL, Literal: types.NumericLiteral{Number: types.Uint(2)}})
	call := tree.Append(types.Token{Kind: types.FUNCTION_CALL})
	tree.Node(call).Children = Call{Callable: callee, Args: []NodeID{arg}}

	expected := `| FN(fn) (p: 0) (dt: void)
  fn main(argc: u8) -> i64
  | RETURN(return) (p: 0) (dt: void)
    | TYPE_CAST (p: 0) (dt: i64)
      as i64
      | LITERAL(1) (p: 0) (dt: i32)
  ---
| FUNCTION_CALL (p: 0) (dt: void)
  call:
    | IDENT(main) (p: 0) (dt: void)
  args:
    | LITERAL(2) (p: 0) (dt: void)
`
	if got := tree.String(); got != expected {
		t.Fatalf("unexpected snapshot:\n%s\nexpected:\n%s", got, expected)
	}
}
