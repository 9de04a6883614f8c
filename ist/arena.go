package ist

import (
	"github.com/pontaoski/oxide/errors"
	"github.com/pontaoski/oxide/types"
)

// Arena owns the nodes of every tree built while parsing one unit. Freed slots
// are recycled through a free list.
type Arena struct {
	nodes    []*Node
	free     []NodeID
	lastTree treeID
}

func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) NewTree() *Tree {
	a.lastTree++
	return &Tree{arena: a, id: a.lastTree, first: Nil, last: Nil}
}

func (a *Arena) alloc(tok types.Token, owner treeID) NodeID {
	var id NodeID
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		id = NodeID(len(a.nodes))
		a.nodes = append(a.nodes, &Node{})
	}

	*a.nodes[id] = Node{
		left:     Nil,
		right:    Nil,
		owner:    owner,
		live:     true,
		Token:    tok,
		DataType: types.Void,
	}
	return id
}

// NewDetached creates a node that belongs to no sequence, to be placed in a
// payload or substituted into a tree.
func (a *Arena) NewDetached(tok types.Token) NodeID {
	return a.alloc(tok, detached)
}

// Node returns the node with the given id. It panics on freed or unknown ids.
func (a *Arena) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(a.nodes) || !a.nodes[id].live {
		panic(errors.Internalf(errors.MalformedSplice, "node %d is not live", id))
	}
	return a.nodes[id]
}

// Live returns the number of allocated nodes.
func (a *Arena) Live() int {
	return len(a.nodes) - len(a.free)
}

// Free releases a detached node and everything in its payload.
func (a *Arena) Free(id NodeID) {
	n := a.Node(id)
	if !n.Detached() {
		panic(errors.Internalf(errors.MalformedSplice, "node %d is still in a sequence", id))
	}
	a.release(id, nil)
}

func (a *Arena) release(id NodeID, keep map[NodeID]bool) {
	n := a.nodes[id]
	if !n.live {
		return
	}
	a.releasePayload(n.Children, keep)
	*n = Node{left: Nil, right: Nil}
	a.free = append(a.free, id)
}

// releasePayload frees the nodes of c, skipping those in keep and their payloads.
func (a *Arena) releasePayload(c Children, keep map[NodeID]bool) {
	if c == nil {
		return
	}
	var ids []NodeID
	payloadNodes(c, func(id NodeID) {
		ids = append(ids, id)
	})
	for _, id := range ids {
		if keep[id] || !a.nodes[id].live {
			continue
		}
		a.release(id, keep)
	}
}

// reachable collects every node referenced from c, at any depth.
func (a *Arena) reachable(c Children, into map[NodeID]bool) {
	payloadNodes(c, func(id NodeID) {
		if into[id] {
			return
		}
		into[id] = true
		a.reachable(a.nodes[id].Children, into)
	})
}
