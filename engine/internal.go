package engine

import (
	"encoding/binary"

	"vqlite/pager"
)

// InternalNode is a typed view over a page buffer known to hold an
// internal node.
type InternalNode struct {
	Node
}

// AsInternal views page as an internal node.
func AsInternal(p *pager.Page) InternalNode {
	return InternalNode{Node{Page: p}}
}

// InitializeInternal resets page to an empty, non-root internal node with
// no children yet.
func (n InternalNode) InitializeInternal() {
	n.setNodeType(nodeTypeInternal)
	n.SetIsRoot(false)
	n.SetNumKeys(0)
	n.SetRightChild(InvalidPageNum)
}

// NumKeys returns how many keys (and therefore left children) this node
// currently stores.
func (n InternalNode) NumKeys() uint32 {
	return binary.LittleEndian.Uint32(n.data()[InternalNodeNumKeysOffset : InternalNodeNumKeysOffset+uint32(InternalNodeNumKeysSize)])
}

// SetNumKeys overwrites the node's key count.
func (n InternalNode) SetNumKeys(c uint32) {
	binary.LittleEndian.PutUint32(n.data()[InternalNodeNumKeysOffset:InternalNodeNumKeysOffset+uint32(InternalNodeNumKeysSize)], c)
}

// RightChild returns the page number of the subtree whose keys exceed
// every key stored in this node.
func (n InternalNode) RightChild() uint32 {
	return binary.LittleEndian.Uint32(n.data()[InternalNodeRightChildOffset : InternalNodeRightChildOffset+uint32(InternalNodeRightChildSize)])
}

// SetRightChild records the page number of the rightmost subtree.
func (n InternalNode) SetRightChild(p uint32) {
	binary.LittleEndian.PutUint32(n.data()[InternalNodeRightChildOffset:InternalNodeRightChildOffset+uint32(InternalNodeRightChildSize)], p)
}

func (n InternalNode) cellOffset(i uint32) uint32 {
	return InternalNodeHeaderSize + i*InternalNodeCellSize
}

// Cell returns the raw {child, key} bytes for cell i.
func (n InternalNode) Cell(i uint32) []byte {
	off := n.cellOffset(i)
	return n.data()[off : off+InternalNodeCellSize]
}

// Child returns the page number stored in cell i.
func (n InternalNode) Child(i uint32) uint32 {
	off := n.cellOffset(i)
	return binary.LittleEndian.Uint32(n.data()[off : off+InternalNodeChildSize])
}

// SetChild overwrites the page number stored in cell i.
func (n InternalNode) SetChild(i uint32, child uint32) {
	off := n.cellOffset(i)
	binary.LittleEndian.PutUint32(n.data()[off:off+InternalNodeChildSize], child)
}

// Key returns the key stored in cell i: the maximum key reachable through
// Child(i).
func (n InternalNode) Key(i uint32) uint32 {
	off := n.cellOffset(i) + InternalNodeChildSize
	return binary.LittleEndian.Uint32(n.data()[off : off+InternalNodeKeySize])
}

// SetKey overwrites the key stored in cell i.
func (n InternalNode) SetKey(i uint32, key uint32) {
	off := n.cellOffset(i) + InternalNodeChildSize
	binary.LittleEndian.PutUint32(n.data()[off:off+InternalNodeKeySize], key)
}

// ChildPage returns the page number of the subtree that key must descend
// into: the child of the first cell whose key is >= key, or RightChild()
// if every stored key is smaller.
func (n InternalNode) ChildPage(key uint32) uint32 {
	i := n.findChildSlot(key)
	if i < n.NumKeys() {
		return n.Child(i)
	}
	return n.RightChild()
}

// findChildSlot returns the smallest i with Key(i) >= key, or NumKeys() if
// none.
func (n InternalNode) findChildSlot(key uint32) uint32 {
	numKeys := n.NumKeys()
	lo, hi := uint32(0), numKeys
	for lo < hi {
		mid := (lo + hi) / 2
		if n.Key(mid) >= key {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// FindChildIndex returns the index of the cell whose child page number is
// childPageNum, or NumKeys() if childPageNum is the right child (or is not
// present at all — callers needing to tell those two apart compare against
// RightChild() themselves).
func (n InternalNode) FindChildIndex(childPageNum uint32) uint32 {
	numKeys := n.NumKeys()
	for i := uint32(0); i < numKeys; i++ {
		if n.Child(i) == childPageNum {
			return i
		}
	}
	return numKeys
}

// MaxKey is the greatest key this node's own cells record: the last
// stored key, not the true maximum reachable through RightChild(). See
// DESIGN.md for why this node deliberately does not recurse into the
// right child to find the true subtree maximum.
func (n InternalNode) MaxKey() uint32 {
	numKeys := n.NumKeys()
	if numKeys == 0 {
		return 0
	}
	return n.Key(numKeys - 1)
}

// InsertCell shifts cells [i, NumKeys()) one slot right and writes
// {child, key} at i, then increments NumKeys. The caller must have
// verified NumKeys() < InternalNodeMaxKeys.
func (n InternalNode) InsertCell(i uint32, child uint32, key uint32) {
	numKeys := n.NumKeys()
	for j := numKeys; j > i; j-- {
		copy(n.Cell(j), n.Cell(j-1))
	}
	n.SetChild(i, child)
	n.SetKey(i, key)
	n.SetNumKeys(numKeys + 1)
}

// UpdateKeyForChild finds the cell whose child page is childPageNum and
// rewrites its key to newMax. It is a no-op when childPageNum is the right
// child: the right child's true maximum is never stored locally, only
// implied, so propagation in that case belongs to the grandparent instead
// (see BTree.propagateMaxKeyChange).
func (n InternalNode) UpdateKeyForChild(childPageNum uint32, newMax uint32) {
	i := n.FindChildIndex(childPageNum)
	if i < n.NumKeys() {
		n.SetKey(i, newMax)
	}
}
