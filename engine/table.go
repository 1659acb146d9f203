package engine

import (
	"errors"
	"fmt"

	"vqlite/pager"
)

// Table is the public façade over a single B+tree-backed table file: open
// it, insert and look up rows by id, and scan them back in key order.
type Table struct {
	pager *pager.Pager
	tree  *BTree
}

// Open opens (or creates) the database file at path and prepares its
// B+tree root.
func Open(path string) (*Table, error) {
	p, err := pager.OpenPager(path)
	if err != nil {
		if errors.Is(err, pager.ErrCorruptFile) {
			return nil, fmt.Errorf("opening table %s: %w: %w", path, ErrCorruptFile, err)
		}
		return nil, fmt.Errorf("opening table %s: %w: %w", path, ErrIOFailure, err)
	}
	tree, err := OpenBTree(p)
	if err != nil {
		return nil, fmt.Errorf("opening table %s: %w", path, err)
	}
	return &Table{pager: p, tree: tree}, nil
}

// Close flushes every cached page to disk and closes the underlying file.
// A flush failure surfaces as ErrIOFailure: the spec treats this as fatal
// rather than something the caller can retry past.
func (t *Table) Close() error {
	if err := t.pager.Close(); err != nil {
		return fmt.Errorf("closing table: %w: %w", ErrIOFailure, err)
	}
	return nil
}

// Insert adds a row under key id, failing with ErrDuplicateKey if id is
// already present or ErrTableFull if the file has no room left.
func (t *Table) Insert(id uint32, username, email string) error {
	return t.tree.Insert(id, NewRow(id, username, email))
}

// Lookup returns the row stored under id, or ErrKeyNotFound.
func (t *Table) Lookup(id uint32) (Row, error) {
	return t.tree.Lookup(id)
}

// SelectAll calls visit once per row, in ascending key order, stopping
// early if visit returns an error.
func (t *Table) SelectAll(visit func(Row) error) error {
	c, err := t.tree.Start()
	if err != nil {
		return err
	}
	for !c.EndOfTable {
		row, err := t.tree.Row(c)
		if err != nil {
			return err
		}
		if err := visit(row); err != nil {
			return err
		}
		if err := t.tree.Advance(&c); err != nil {
			return err
		}
	}
	return nil
}

// RootPageNum is always 0: the root never moves for the life of the file.
func (t *Table) RootPageNum() uint32 { return 0 }

// PageAddress returns the in-memory address backing page n, for the
// .btree / debugging surface.
func (t *Table) PageAddress(n uint32) (*pager.Page, error) {
	return t.pager.GetPage(n)
}

// NumPages returns how many pages the file currently occupies.
func (t *Table) NumPages() uint32 { return uint32(t.pager.NumPages) }
