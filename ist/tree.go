package ist

import (
	"github.com/pontaoski/oxide/errors"
	"github.com/pontaoski/oxide/types"
)

// Tree is a doubly linked sequence of nodes. Every node belongs to exactly one
// sequence or payload at a time; every splice repairs both neighbours before
// returning.
type Tree struct {
	arena *Arena
	id    treeID
	first NodeID
	last  NodeID
}

func (t *Tree) Arena() *Arena  { return t.arena }
func (t *Tree) First() NodeID  { return t.first }
func (t *Tree) Last() NodeID   { return t.last }
func (t *Tree) IsEmpty() bool  { return t.first == Nil }
func (t *Tree) Node(id NodeID) *Node {
	return t.arena.Node(id)
}

func (t *Tree) HasOneItem() bool {
	return t.first != Nil && t.first == t.last
}

func (t *Tree) Len() (n int) {
	for id := t.first; id != Nil; id = t.arena.nodes[id].right {
		n++
	}
	return
}

// Slice returns the node ids in order.
func (t *Tree) Slice() (ids []NodeID) {
	for id := t.first; id != Nil; id = t.arena.nodes[id].right {
		ids = append(ids, id)
	}
	return
}

func (t *Tree) mustOwn(id NodeID) *Node {
	n := t.arena.Node(id)
	if n.owner != t.id {
		panic(errors.Internalf(errors.MalformedSplice, "node %d does not belong to this sequence", id))
	}
	return n
}

// Append adds a new node at the end of the sequence.
func (t *Tree) Append(tok types.Token) NodeID {
	id := t.arena.alloc(tok, t.id)
	t.linkAfter(t.last, id)
	return id
}

// InsertAfter adds a new node right after at, or at the front when at is Nil.
func (t *Tree) InsertAfter(at NodeID, tok types.Token) NodeID {
	if at != Nil {
		t.mustOwn(at)
	}
	id := t.arena.alloc(tok, t.id)
	t.linkAfter(at, id)
	return id
}

func (t *Tree) linkAfter(at, id NodeID) {
	n := t.arena.nodes[id]
	if at == Nil {
		n.left = Nil
		n.right = t.first
		if t.first != Nil {
			t.arena.nodes[t.first].left = id
		} else {
			t.last = id
		}
		t.first = id
		return
	}

	prev := t.arena.nodes[at]
	n.left = at
	n.right = prev.right
	if prev.right != Nil {
		t.arena.nodes[prev.right].left = id
	} else {
		t.last = id
	}
	prev.right = id
}

// DropFirst removes and frees the first node. Nothing happens on an empty sequence.
func (t *Tree) DropFirst() {
	if t.first == Nil {
		return
	}
	t.arena.Free(t.ExtractNode(t.first))
}

// DropLast removes and frees the last node. Nothing happens on an empty sequence.
func (t *Tree) DropLast() {
	if t.last == Nil {
		return
	}
	t.arena.Free(t.ExtractNode(t.last))
}

// ExtractNode unlinks id from the sequence and returns it detached, so it can
// be placed in a payload or freed.
func (t *Tree) ExtractNode(id NodeID) NodeID {
	n := t.mustOwn(id)

	if n.left == Nil {
		t.first = n.right
	} else {
		t.arena.nodes[n.left].right = n.right
	}
	if n.right == Nil {
		t.last = n.left
	} else {
		t.arena.nodes[n.right].left = n.left
	}

	n.left = Nil
	n.right = Nil
	n.owner = detached
	return id
}

// ExtractSlice removes the run from start to end, both included, and returns
// it as a new sequence in the same arena.
func (t *Tree) ExtractSlice(start, end NodeID) *Tree {
	startNode := t.mustOwn(start)
	endNode := t.mustOwn(end)

	for id := start; id != end; id = t.arena.nodes[id].right {
		if id == Nil {
			panic(errors.Internalf(errors.MalformedSplice, "node %d does not follow node %d", end, start))
		}
	}

	slice := t.arena.NewTree()
	for id := start; id != endNode.right; id = t.arena.nodes[id].right {
		t.arena.nodes[id].owner = slice.id
	}

	if startNode.left == Nil {
		t.first = endNode.right
	} else {
		t.arena.nodes[startNode.left].right = endNode.right
	}
	if endNode.right == Nil {
		t.last = startNode.left
	} else {
		t.arena.nodes[endNode.right].left = startNode.left
	}

	startNode.left = Nil
	endNode.right = Nil
	slice.first = start
	slice.last = end
	return slice
}

// SpliceAfter moves every node of other into t after at, or to the front when
// at is Nil. other is left empty.
func (t *Tree) SpliceAfter(at NodeID, other *Tree) {
	if other == t {
		panic(errors.Internalf(errors.MalformedSplice, "cannot splice a sequence into itself"))
	}
	if at != Nil {
		t.mustOwn(at)
	}
	if other.first == Nil {
		return
	}

	for id := other.first; id != Nil; id = t.arena.nodes[id].right {
		t.arena.nodes[id].owner = t.id
	}

	var next NodeID
	if at == Nil {
		next = t.first
		t.first = other.first
	} else {
		next = t.arena.nodes[at].right
		t.arena.nodes[at].right = other.first
	}
	t.arena.nodes[other.first].left = at

	t.arena.nodes[other.last].right = next
	if next == Nil {
		t.last = other.last
	} else {
		t.arena.nodes[next].left = other.last
	}

	other.first = Nil
	other.last = Nil
}

// Substitute overwrites the payload, token and type of id with those of
// replacement, keeping id's position and identity. replacement must be
// detached and is freed; nodes of the old payload that the new one does not
// reuse are freed as well.
func (t *Tree) Substitute(id, replacement NodeID) {
	n := t.mustOwn(id)
	r := t.arena.Node(replacement)
	if !r.Detached() {
		panic(errors.Internalf(errors.MalformedSplice, "replacement %d is still in a sequence", replacement))
	}
	if id == replacement {
		panic(errors.Internalf(errors.MalformedSplice, "node %d substituted with itself", id))
	}

	// replacement may itself sit in n's payload, as when unwrapping (x) to x.
	keep := map[NodeID]bool{replacement: true}
	t.arena.reachable(r.Children, keep)
	if keep[id] {
		panic(errors.Internalf(errors.MalformedSplice, "node %d would contain itself", id))
	}
	t.arena.releasePayload(n.Children, keep)

	n.Children = r.Children
	n.Token = r.Token
	n.DataType = r.DataType

	r.Children = nil
	t.arena.release(replacement, nil)
}

// Release frees every node of the sequence, including payloads.
func (t *Tree) Release() {
	for t.first != Nil {
		t.DropFirst()
	}
}

// Iter returns a forward iterator starting at the current first node. Call
// Iter again to restart.
func (t *Tree) Iter() *Iterator {
	return &Iterator{arena: t.arena, next: t.first}
}

type Iterator struct {
	arena *Arena
	next  NodeID
}

func (it *Iterator) Next() (NodeID, bool) {
	if it.next == Nil {
		return Nil, false
	}
	id := it.next
	it.next = it.arena.Node(id).right
	return id, true
}
