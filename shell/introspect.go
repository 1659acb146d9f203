package shell

import (
	"fmt"
	"io"

	"vqlite/engine"
)

func printHelp(w io.Writer) error {
	lines := []string{
		"Meta-commands:",
		"  .exit        flush and quit",
		"  .help        show this list",
		"  .constants   print layout constants",
		"  .btree       print the tree as indented text",
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func printConstants(w io.Writer) error {
	rows := [][2]any{
		{"ROW_SIZE", engine.RowSize},
		{"COMMON_NODE_HEADER_SIZE", engine.CommonNodeHeaderSize},
		{"LEAF_NODE_HEADER_SIZE", engine.LeafNodeHeaderSize},
		{"LEAF_NODE_CELL_SIZE", engine.LeafNodeCellSize},
		{"LEAF_NODE_SPACE_FOR_CELLS", engine.LeafNodeSpaceForCells},
		{"LEAF_NODE_MAX_CELLS", engine.LeafNodeMaxCells},
		{"INTERNAL_NODE_HEADER_SIZE", engine.InternalNodeHeaderSize},
		{"INTERNAL_NODE_CELL_SIZE", engine.InternalNodeCellSize},
		{"INTERNAL_NODE_MAX_KEYS", engine.InternalNodeMaxKeys},
	}
	if _, err := fmt.Fprintln(w, "Constants:"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%s: %v\n", r[0], r[1]); err != nil {
			return err
		}
	}
	return nil
}

// printTree renders the tree as indented text rooted at page 0: each
// internal node's keys and children at increasing depth, each leaf's
// cell count and keys.
func printTree(w io.Writer, table *engine.Table) error {
	return printSubtree(w, table, table.RootPageNum(), 0)
}

func printSubtree(w io.Writer, table *engine.Table, pageNum uint32, depth int) error {
	page, err := table.PageAddress(pageNum)
	if err != nil {
		return err
	}
	node := engine.Node{Page: page}
	indent := func(extra int) string {
		s := ""
		for i := 0; i < depth+extra; i++ {
			s += "  "
		}
		return s
	}

	if node.IsLeaf() {
		leaf := engine.AsLeaf(page)
		numCells := leaf.NumCells()
		if _, err := fmt.Fprintf(w, "%sleaf (size %d)\n", indent(0), numCells); err != nil {
			return err
		}
		for i := uint32(0); i < numCells; i++ {
			if _, err := fmt.Fprintf(w, "%s- %d\n", indent(1), leaf.Key(i)); err != nil {
				return err
			}
		}
		return nil
	}

	internal := engine.AsInternal(page)
	numKeys := internal.NumKeys()
	if _, err := fmt.Fprintf(w, "%sinternal (size %d)\n", indent(0), numKeys); err != nil {
		return err
	}
	for i := uint32(0); i < numKeys; i++ {
		if err := printSubtree(w, table, internal.Child(i), depth+1); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s- key %d\n", indent(1), internal.Key(i)); err != nil {
			return err
		}
	}
	return printSubtree(w, table, internal.RightChild(), depth+1)
}
