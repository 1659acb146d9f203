package engine

import (
	"slices"

	"vqlite/pager"
)

// BTree is the disk-resident B+tree over a single table. The root is
// always page 0 for the life of the file: a split transforms page 0 in
// place into an internal node rather than ever reallocating it.
type BTree struct {
	pager *pager.Pager
}

// OpenBTree wraps an already-open pager in a BTree, initializing page 0 as
// an empty leaf root if the file is brand new.
func OpenBTree(p *pager.Pager) (*BTree, error) {
	t := &BTree{pager: p}
	if p.NumPages == 0 {
		pg, err := p.GetPage(0)
		if err != nil {
			return nil, err
		}
		root := AsLeaf(pg)
		root.InitializeLeaf()
		root.SetIsRoot(true)
	}
	return t, nil
}

// Cursor is a position in the tree: a page number, a cell number within
// that page, and whether the position has run off the end of the table.
type Cursor struct {
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// cursorForKey descends from the root to the leaf that does, or should,
// contain key. It lands on the matching cell if key is present, or on the
// insertion position otherwise.
func (t *BTree) cursorForKey(key uint32) (Cursor, error) {
	pageNum := uint32(0)
	for {
		pg, err := t.pager.GetPage(pageNum)
		if err != nil {
			return Cursor{}, err
		}
		node := Node{Page: pg}
		if node.IsLeaf() {
			leaf := AsLeaf(pg)
			idx, _ := leaf.FindKeyIndex(key)
			return Cursor{PageNum: pageNum, CellNum: idx, EndOfTable: idx >= leaf.NumCells()}, nil
		}
		pageNum = AsInternal(pg).ChildPage(key)
	}
}

// firstLeafPage descends to the leftmost leaf of the tree.
func (t *BTree) firstLeafPage() (uint32, error) {
	pageNum := uint32(0)
	for {
		pg, err := t.pager.GetPage(pageNum)
		if err != nil {
			return 0, err
		}
		node := Node{Page: pg}
		if node.IsLeaf() {
			return pageNum, nil
		}
		internal := AsInternal(pg)
		if internal.NumKeys() > 0 {
			pageNum = internal.Child(0)
		} else {
			pageNum = internal.RightChild()
		}
	}
}

// Start returns a cursor positioned at the first row in key order, or at
// end-of-table if the tree is empty.
func (t *BTree) Start() (Cursor, error) {
	pageNum, err := t.firstLeafPage()
	if err != nil {
		return Cursor{}, err
	}
	pg, err := t.pager.GetPage(pageNum)
	if err != nil {
		return Cursor{}, err
	}
	leaf := AsLeaf(pg)
	return Cursor{PageNum: pageNum, CellNum: 0, EndOfTable: leaf.NumCells() == 0}, nil
}

// Advance moves the cursor to the next cell in ascending key order,
// crossing into the right sibling leaf when the current one is exhausted.
func (t *BTree) Advance(c *Cursor) error {
	pg, err := t.pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}
	leaf := AsLeaf(pg)
	c.CellNum++
	if c.CellNum < leaf.NumCells() {
		return nil
	}
	next := leaf.NextLeaf()
	if next == 0 {
		c.EndOfTable = true
		return nil
	}
	c.PageNum = next
	c.CellNum = 0
	return nil
}

// Row returns the row the cursor currently points at.
func (t *BTree) Row(c Cursor) (Row, error) {
	pg, err := t.pager.GetPage(c.PageNum)
	if err != nil {
		return Row{}, err
	}
	return AsLeaf(pg).Row(c.CellNum), nil
}

// Lookup returns the row stored under key, or ErrKeyNotFound.
func (t *BTree) Lookup(key uint32) (Row, error) {
	c, err := t.cursorForKey(key)
	if err != nil {
		return Row{}, err
	}
	pg, err := t.pager.GetPage(c.PageNum)
	if err != nil {
		return Row{}, err
	}
	leaf := AsLeaf(pg)
	if c.CellNum >= leaf.NumCells() || leaf.Key(c.CellNum) != key {
		return Row{}, ErrKeyNotFound
	}
	return leaf.Row(c.CellNum), nil
}

// nodeMaxKey loads pageNum and returns its MaxKey, whether it is a leaf or
// an internal node.
func (t *BTree) nodeMaxKey(pageNum uint32) (uint32, error) {
	pg, err := t.pager.GetPage(pageNum)
	if err != nil {
		return 0, err
	}
	if (Node{Page: pg}).IsLeaf() {
		return AsLeaf(pg).MaxKey(), nil
	}
	return AsInternal(pg).MaxKey(), nil
}

// setParent records parentPageNum as childPageNum's parent.
func (t *BTree) setParent(childPageNum, parentPageNum uint32) error {
	pg, err := t.pager.GetPage(childPageNum)
	if err != nil {
		return err
	}
	(Node{Page: pg}).SetParentPageNum(parentPageNum)
	return nil
}

// Insert adds key/row to the tree. It fails with ErrDuplicateKey if key is
// already present, and with ErrTableFull if satisfying the insert would
// require a page number beyond pager.TableMaxPages.
func (t *BTree) Insert(key uint32, row Row) error {
	c, err := t.cursorForKey(key)
	if err != nil {
		return err
	}
	pg, err := t.pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}
	leaf := AsLeaf(pg)
	if c.CellNum < leaf.NumCells() && leaf.Key(c.CellNum) == key {
		return ErrDuplicateKey
	}

	if leaf.NumCells() < LeafNodeMaxCells {
		oldMax := leaf.MaxKey()
		leaf.InsertCell(c.CellNum, key, row)
		if leaf.IsRoot() {
			return nil
		}
		newMax := leaf.MaxKey()
		if newMax == oldMax {
			return nil
		}
		return t.propagateMaxKeyChange(leaf.ParentPageNum(), c.PageNum, newMax)
	}

	return t.splitLeafAndInsert(c.PageNum, c.CellNum, key, row)
}

// propagateMaxKeyChange rewrites the stored key for childPageNum in its
// parent, then keeps walking up while the parent's own MaxKey keeps
// changing as a result. When childPageNum is its parent's right_child, the
// parent has no stored key for it at all — the true subtree maximum was
// never recorded there, only implied — so propagation stops; see
// DESIGN.md for the chosen max-key semantics.
func (t *BTree) propagateMaxKeyChange(parentPageNum, childPageNum, newMax uint32) error {
	for {
		pg, err := t.pager.GetPage(parentPageNum)
		if err != nil {
			return err
		}
		parent := AsInternal(pg)
		if parent.RightChild() == childPageNum {
			return nil
		}
		oldParentMax := parent.MaxKey()
		parent.UpdateKeyForChild(childPageNum, newMax)
		if parent.IsRoot() {
			return nil
		}
		newParentMax := parent.MaxKey()
		if newParentMax == oldParentMax {
			return nil
		}
		childPageNum = parentPageNum
		parentPageNum = parent.ParentPageNum()
	}
}

// allocatePage hands out the next free page number, failing with
// ErrTableFull rather than the pager's generic out-of-range error when the
// table has no room left.
func (t *BTree) allocatePage() (*pager.Page, error) {
	if uint32(t.pager.NumPages) >= pager.TableMaxPages {
		return nil, ErrTableFull
	}
	return t.pager.GetPage(uint32(t.pager.NumPages))
}

// splitLeafAndInsert handles an insert that overflows a full leaf: the
// existing cells plus the new one are redistributed across the old page
// and a freshly allocated sibling, the sibling chain is spliced in, and
// the split is propagated to the parent (or promotes a new root).
func (t *BTree) splitLeafAndInsert(oldPageNum, insertIdx, key uint32, row Row) error {
	oldPg, err := t.pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	oldLeaf := AsLeaf(oldPg)

	type cell struct {
		key uint32
		row Row
	}
	all := make([]cell, 0, LeafNodeMaxCells+1)
	for i := uint32(0); i < LeafNodeMaxCells; i++ {
		if i == insertIdx {
			all = append(all, cell{key, row})
		}
		all = append(all, cell{oldLeaf.Key(i), oldLeaf.Row(i)})
	}
	if insertIdx == LeafNodeMaxCells {
		all = append(all, cell{key, row})
	}

	newPg, err := t.allocatePage()
	if err != nil {
		return err
	}
	newPageNum := newPg.PageNum
	newLeaf := AsLeaf(newPg)
	newLeaf.InitializeLeaf()
	newLeaf.SetParentPageNum(oldLeaf.ParentPageNum())

	leftCount := uint32(LeafNodeLeftSplitCount)
	rightCount := uint32(len(all)) - leftCount

	for i := uint32(0); i < leftCount; i++ {
		oldLeaf.SetKey(i, all[i].key)
		Serialize(all[i].row, oldLeaf.Value(i))
	}
	oldLeaf.SetNumCells(leftCount)

	for i := uint32(0); i < rightCount; i++ {
		c := all[leftCount+i]
		newLeaf.SetKey(i, c.key)
		Serialize(c.row, newLeaf.Value(i))
	}
	newLeaf.SetNumCells(rightCount)

	newLeaf.SetNextLeaf(oldLeaf.NextLeaf())
	oldLeaf.SetNextLeaf(newPageNum)

	if oldLeaf.IsRoot() {
		return t.createNewRoot(newPageNum)
	}

	parentPageNum := oldLeaf.ParentPageNum()
	return t.internalInsertAfterChildSplit(parentPageNum, oldPageNum, newPageNum, newLeaf.MaxKey())
}

// createNewRoot is called when page 0 itself just split (as a leaf or as
// an internal node). It preserves the root's identity at page 0: the old
// root's entire contents are copied into a freshly allocated page, which
// becomes the left child, and page 0 is reinitialized as an internal node
// with one key pointing at that copy and a right child at rightChildPage.
func (t *BTree) createNewRoot(rightChildPage uint32) error {
	leftPg, err := t.allocatePage()
	if err != nil {
		return err
	}
	leftChildPage := leftPg.PageNum

	rootPg, err := t.pager.GetPage(0)
	if err != nil {
		return err
	}
	leftPg.Data = rootPg.Data
	leftPg.Dirty = true
	left := Node{Page: leftPg}
	left.SetIsRoot(false)
	left.SetParentPageNum(0)

	// The copy's own children still record the old root's page number (0)
	// as their parent; point them at the copy's new page instead. A leaf
	// has no children, so this is only needed when an internal root split.
	if !left.IsLeaf() {
		leftInternal := AsInternal(leftPg)
		for i := uint32(0); i < leftInternal.NumKeys(); i++ {
			if err := t.setParent(leftInternal.Child(i), leftChildPage); err != nil {
				return err
			}
		}
		if err := t.setParent(leftInternal.RightChild(), leftChildPage); err != nil {
			return err
		}
	}

	if err := t.setParent(rightChildPage, 0); err != nil {
		return err
	}

	leftMax, err := t.nodeMaxKey(leftChildPage)
	if err != nil {
		return err
	}

	root := AsInternal(rootPg)
	root.InitializeInternal()
	root.SetIsRoot(true)
	root.SetNumKeys(1)
	root.SetChild(0, leftChildPage)
	root.SetKey(0, leftMax)
	root.SetRightChild(rightChildPage)
	return nil
}

// internalInsertAfterChildSplit is called after originalChild (a child of
// parentPageNum) split and produced a new right sibling newChild holding
// the upper half of its cells. It writes a new keyed entry for newChild
// into the parent, splitting the parent in turn if it has no room.
func (t *BTree) internalInsertAfterChildSplit(parentPageNum, originalChild, newChild, newChildMaxKey uint32) error {
	pg, err := t.pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	parent := AsInternal(pg)

	origMax, err := t.nodeMaxKey(originalChild)
	if err != nil {
		return err
	}
	origWasRightChild := parent.RightChild() == originalChild

	if parent.NumKeys() >= InternalNodeMaxKeys {
		return t.splitInternalAndInsert(parentPageNum, originalChild, origMax, newChild, newChildMaxKey, origWasRightChild)
	}

	if origWasRightChild {
		parent.InsertCell(parent.NumKeys(), originalChild, origMax)
		parent.SetRightChild(newChild)
	} else {
		i := parent.FindChildIndex(originalChild)
		parent.SetKey(i, origMax)
		parent.InsertCell(i+1, newChild, newChildMaxKey)
	}
	if err := t.setParent(newChild, parentPageNum); err != nil {
		return err
	}

	if parent.IsRoot() {
		return nil
	}
	return t.propagateMaxKeyChange(parent.ParentPageNum(), parentPageNum, parent.MaxKey())
}

// splitInternalAndInsert handles an insert into a full internal node: the
// existing {child, key} cells plus the pending one are redistributed
// around the median, the median's child becomes the (reused) parent
// page's new right_child, and the remainder moves to a freshly allocated
// sibling — promoting a new root if the split reaches page 0.
func (t *BTree) splitInternalAndInsert(parentPageNum, originalChild, origMax, newChild, newChildMaxKey uint32, origWasRightChild bool) error {
	pg, err := t.pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	parent := AsInternal(pg)
	numKeys := parent.NumKeys()

	type cell struct {
		child uint32
		key   uint32
	}
	cells := make([]cell, 0, numKeys+1)
	for j := uint32(0); j < numKeys; j++ {
		cells = append(cells, cell{parent.Child(j), parent.Key(j)})
	}

	var finalRightChild uint32
	if origWasRightChild {
		cells = append(cells, cell{originalChild, origMax})
		finalRightChild = newChild
	} else {
		idx := int(parent.FindChildIndex(originalChild))
		cells[idx].key = origMax
		cells = slices.Insert(cells, idx+1, cell{newChild, newChildMaxKey})
		finalRightChild = parent.RightChild()
	}

	total := uint32(len(cells))
	leftCount := (total + 1) / 2
	if leftCount >= total {
		leftCount = total - 1
	}
	rightCells := cells[leftCount+1:]

	siblingPg, err := t.allocatePage()
	if err != nil {
		return err
	}
	siblingPageNum := siblingPg.PageNum
	sibling := AsInternal(siblingPg)
	sibling.InitializeInternal()
	sibling.SetParentPageNum(parent.ParentPageNum())

	for i := uint32(0); i < leftCount; i++ {
		parent.SetChild(i, cells[i].child)
		parent.SetKey(i, cells[i].key)
	}
	parent.SetNumKeys(leftCount)
	parent.SetRightChild(cells[leftCount].child)

	for i, c := range rightCells {
		sibling.SetChild(uint32(i), c.child)
		sibling.SetKey(uint32(i), c.key)
	}
	sibling.SetNumKeys(uint32(len(rightCells)))
	sibling.SetRightChild(finalRightChild)

	for i := uint32(0); i < leftCount; i++ {
		if err := t.setParent(cells[i].child, parentPageNum); err != nil {
			return err
		}
	}
	if err := t.setParent(cells[leftCount].child, parentPageNum); err != nil {
		return err
	}
	for _, c := range rightCells {
		if err := t.setParent(c.child, siblingPageNum); err != nil {
			return err
		}
	}
	if err := t.setParent(finalRightChild, siblingPageNum); err != nil {
		return err
	}

	if parent.IsRoot() {
		return t.createNewRoot(siblingPageNum)
	}

	grandParent := parent.ParentPageNum()
	return t.internalInsertAfterChildSplit(grandParent, parentPageNum, siblingPageNum, sibling.MaxKey())
}
