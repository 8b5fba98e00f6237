package subband

import (
	"fmt"
)

// Role identifies one of the four subbands produced by a decomposition.
type Role int

const (
	LL Role = iota
	LH
	HL
	HH
)

var roles = [4]Role{LL, LH, HL, HH}

func (r Role) String() string {
	switch r {
	case LL:
		return "LL"
	case LH:
		return "LH"
	case HL:
		return "HL"
	case HH:
		return "HH"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func (r Role) valid() bool {
	return LL <= r && r <= HH
}

// Node is one slot of a subband tree. A leaf carries a subband matrix, a
// branch carries the four subbands its matrix was decomposed into.
type Node struct {
	Leaf     Matrix
	Children *[4]*Node
}

func NewLeaf(m Matrix) *Node {
	return &Node{Leaf: m}
}

func NewBranch(ll, lh, hl, hh *Node) *Node {
	return &Node{Children: &[4]*Node{ll, lh, hl, hh}}
}

func (n *Node) IsLeaf() bool {
	return n.Children == nil
}

// Child returns the node in slot r of a branch.
func (n *Node) Child(r Role) *Node {
	if n.IsLeaf() || r.valid() != true {
		return nil
	}
	return n.Children[r]
}

// Depth is 0 for a leaf and one more than the deepest child for a branch.
func (n *Node) Depth() int {
	if n.IsLeaf() {
		return 0
	}
	d := 0
	for _, c := range n.Children {
		d = max(d, c.Depth())
	}
	return d + 1
}

// Leaves counts the leaf subbands below n.
func (n *Node) Leaves() int {
	if n.IsLeaf() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.Leaves()
	}
	return total
}
