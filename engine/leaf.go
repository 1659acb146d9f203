package engine

import (
	"encoding/binary"

	"vqlite/pager"
)

// LeafNode is a typed view over a page buffer known to hold a leaf node.
type LeafNode struct {
	Node
}

// AsLeaf views page as a leaf node. The caller is responsible for having
// checked NodeType first, or for having just initialized the page itself.
func AsLeaf(p *pager.Page) LeafNode {
	return LeafNode{Node{Page: p}}
}

// InitializeLeaf resets page to an empty, non-root leaf with no right
// sibling.
func (n LeafNode) InitializeLeaf() {
	n.setNodeType(nodeTypeLeaf)
	n.SetIsRoot(false)
	n.SetNumCells(0)
	n.SetNextLeaf(0)
}

// NumCells returns how many cells this leaf currently holds.
func (n LeafNode) NumCells() uint32 {
	return binary.LittleEndian.Uint32(n.data()[LeafNodeNumCellsOffset : LeafNodeNumCellsOffset+uint32(LeafNodeNumCellsSize)])
}

// SetNumCells overwrites the leaf's cell count.
func (n LeafNode) SetNumCells(c uint32) {
	binary.LittleEndian.PutUint32(n.data()[LeafNodeNumCellsOffset:LeafNodeNumCellsOffset+uint32(LeafNodeNumCellsSize)], c)
}

// NextLeaf returns the page number of this leaf's right sibling, or 0 if
// it is the rightmost leaf.
func (n LeafNode) NextLeaf() uint32 {
	return binary.LittleEndian.Uint32(n.data()[LeafNodeNextLeafOffset : LeafNodeNextLeafOffset+uint32(LeafNodeNextLeafSize)])
}

// SetNextLeaf records the page number of this leaf's right sibling.
func (n LeafNode) SetNextLeaf(p uint32) {
	binary.LittleEndian.PutUint32(n.data()[LeafNodeNextLeafOffset:LeafNodeNextLeafOffset+uint32(LeafNodeNextLeafSize)], p)
}

// cellOffset returns the byte offset of cell i within the page.
func (n LeafNode) cellOffset(i uint32) uint32 {
	return LeafNodeHeaderSize + i*LeafNodeCellSize
}

// Cell returns the raw {key, value} bytes for cell i.
func (n LeafNode) Cell(i uint32) []byte {
	off := n.cellOffset(i)
	return n.data()[off : off+LeafNodeCellSize]
}

// Key returns the key stored in cell i.
func (n LeafNode) Key(i uint32) uint32 {
	off := n.cellOffset(i) + LeafNodeKeyOffset
	return binary.LittleEndian.Uint32(n.data()[off : off+LeafNodeKeySize])
}

// SetKey overwrites the key stored in cell i.
func (n LeafNode) SetKey(i uint32, key uint32) {
	off := n.cellOffset(i) + LeafNodeKeyOffset
	binary.LittleEndian.PutUint32(n.data()[off:off+LeafNodeKeySize], key)
}

// Value returns the raw row bytes stored in cell i.
func (n LeafNode) Value(i uint32) []byte {
	off := n.cellOffset(i) + LeafNodeValueOffset
	return n.data()[off : off+LeafNodeValueSize]
}

// Row decodes the row stored in cell i.
func (n LeafNode) Row(i uint32) Row {
	return Deserialize(n.Value(i))
}

// MaxKey is the greatest key reachable through this leaf: the last cell's
// key, or 0 if the leaf is empty.
func (n LeafNode) MaxKey() uint32 {
	numCells := n.NumCells()
	if numCells == 0 {
		return 0
	}
	return n.Key(numCells - 1)
}

// FindKeyIndex binary-searches the leaf's sorted cells for key, returning
// (index, true) if found, or (insertion index, false) otherwise — the
// smallest i with Key(i) > key, or NumCells() if none.
func (n LeafNode) FindKeyIndex(key uint32) (uint32, bool) {
	numCells := n.NumCells()
	lo, hi := uint32(0), numCells
	for lo < hi {
		mid := (lo + hi) / 2
		k := n.Key(mid)
		if k == key {
			return mid, true
		}
		if k < key {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, false
}

// InsertCell shifts cells [i, NumCells()) one slot right and writes
// {key, row} at i, then increments NumCells. The caller must have already
// verified NumCells() < LeafNodeMaxCells; a leaf observed to be full at
// insertion time must go through the split path instead.
func (n LeafNode) InsertCell(i uint32, key uint32, row Row) {
	numCells := n.NumCells()
	for j := numCells; j > i; j-- {
		copy(n.Cell(j), n.Cell(j-1))
	}
	n.SetKey(i, key)
	Serialize(row, n.Value(i))
	n.SetNumCells(numCells + 1)
}
