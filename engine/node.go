package engine

import (
	"encoding/binary"

	"vqlite/pager"
)

// Node is a typed view over a page buffer, exposing the fields common to
// both leaf and internal nodes. It never outlives the page it wraps.
type Node struct {
	Page *pager.Page
}

func (n Node) data() []byte { return n.Page.Data[:] }

// NodeType reports whether the page holds a leaf or an internal node.
func (n Node) NodeType() uint8 { return n.data()[NodeTypeOffset] }

func (n Node) setNodeType(t uint8) { n.data()[NodeTypeOffset] = t }

// IsLeaf reports whether the page is a leaf node.
func (n Node) IsLeaf() bool { return n.NodeType() == nodeTypeLeaf }

// IsRoot reports whether this page is the tree's current root.
func (n Node) IsRoot() bool { return n.data()[IsRootOffset] != 0 }

// SetIsRoot marks or unmarks this page as the tree's root.
func (n Node) SetIsRoot(v bool) {
	if v {
		n.data()[IsRootOffset] = 1
	} else {
		n.data()[IsRootOffset] = 0
	}
}

// ParentPageNum returns the page number of this node's parent. It is
// meaningful only when IsRoot() is false.
func (n Node) ParentPageNum() uint32 {
	return binary.LittleEndian.Uint32(n.data()[ParentPointerOffset : ParentPointerOffset+uint32(ParentPointerSize)])
}

// SetParentPageNum records the page number of this node's parent.
func (n Node) SetParentPageNum(p uint32) {
	binary.LittleEndian.PutUint32(n.data()[ParentPointerOffset:ParentPointerOffset+uint32(ParentPointerSize)], p)
}
