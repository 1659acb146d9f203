package engine

import (
	"unsafe"

	"vqlite/pager"
)

// Common node header layout: every page, leaf or internal, starts with
// these three fields.
const (
	NodeTypeSize   = unsafe.Sizeof(uint8(0))
	NodeTypeOffset = uint32(0)

	IsRootSize   = unsafe.Sizeof(uint8(0))
	IsRootOffset = uint32(NodeTypeOffset) + uint32(NodeTypeSize)

	ParentPointerSize   = unsafe.Sizeof(uint32(0))
	ParentPointerOffset = IsRootOffset + uint32(IsRootSize)

	CommonNodeHeaderSize = uint32(NodeTypeSize) + uint32(IsRootSize) + uint32(ParentPointerSize)
)

// Leaf node header layout. A leaf additionally tracks how many cells it
// holds and the page number of its right sibling (0 when there is none).
const (
	LeafNodeNumCellsSize   = unsafe.Sizeof(uint32(0))
	LeafNodeNumCellsOffset = CommonNodeHeaderSize

	LeafNodeNextLeafSize   = unsafe.Sizeof(uint32(0))
	LeafNodeNextLeafOffset = LeafNodeNumCellsOffset + uint32(LeafNodeNumCellsSize)

	LeafNodeHeaderSize = LeafNodeNextLeafOffset + uint32(LeafNodeNextLeafSize)
)

// Leaf node body layout: an array of {key, Row} cells sorted by key.
const (
	LeafNodeKeySize   = uint32(4)
	LeafNodeKeyOffset = uint32(0)

	LeafNodeValueSize   = RowSize
	LeafNodeValueOffset = LeafNodeKeyOffset + LeafNodeKeySize

	LeafNodeCellSize = LeafNodeKeySize + LeafNodeValueSize

	LeafNodeSpaceForCells = pager.PageSize - LeafNodeHeaderSize
	LeafNodeMaxCells      = LeafNodeSpaceForCells / LeafNodeCellSize
)

// Split constants: a one-past-full leaf (LeafNodeMaxCells+1 cells) splits so
// the left sibling keeps the larger or equal half.
const (
	LeafNodeRightSplitCount = (LeafNodeMaxCells + 1) / 2
	LeafNodeLeftSplitCount  = (LeafNodeMaxCells + 1) - LeafNodeRightSplitCount
)

// Internal node header layout. An internal node tracks how many keys it
// stores and the page number of the subtree right of all of them.
const (
	InternalNodeNumKeysSize   = unsafe.Sizeof(uint32(0))
	InternalNodeNumKeysOffset = CommonNodeHeaderSize

	InternalNodeRightChildSize   = unsafe.Sizeof(uint32(0))
	InternalNodeRightChildOffset = InternalNodeNumKeysOffset + uint32(InternalNodeNumKeysSize)

	InternalNodeHeaderSize = InternalNodeRightChildOffset + uint32(InternalNodeRightChildSize)
)

// Internal node body layout: an array of {child, key} cells sorted by key,
// where key[i] is the maximum key reachable through child[i].
const (
	InternalNodeChildSize = uint32(4)
	InternalNodeKeySize   = uint32(4)
	InternalNodeCellSize  = InternalNodeChildSize + InternalNodeKeySize

	InternalNodeSpaceForCells = pager.PageSize - InternalNodeHeaderSize
	InternalNodeMaxKeys       = InternalNodeSpaceForCells / InternalNodeCellSize
)

// InvalidPageNum marks an uninitialized child slot in a fresh internal
// node.
const InvalidPageNum = uint32(0xFFFFFFFF)

const (
	nodeTypeLeaf     = uint8(0)
	nodeTypeInternal = uint8(1)
)
