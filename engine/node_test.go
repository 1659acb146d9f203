package engine

import (
	"os"
	"testing"

	"vqlite/pager"
)

func newTempPager(t *testing.T) *pager.Pager {
	t.Helper()
	f, err := os.CreateTemp("", "vqlite-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	p, err := pager.OpenPager(name)
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	t.Cleanup(func() {
		p.File.Close()
		os.Remove(name)
	})
	return p
}

func TestLeafInsertCellKeepsSortedOrder(t *testing.T) {
	p := newTempPager(t)
	pg, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	leaf := AsLeaf(pg)
	leaf.InitializeLeaf()

	entries := []struct {
		idx uint32
		key uint32
	}{
		{0, 10},
		{0, 5},
		{2, 20},
	}
	for _, e := range entries {
		leaf.InsertCell(e.idx, e.key, NewRow(e.key, "u", "e@x.com"))
	}

	if leaf.NumCells() != 3 {
		t.Fatalf("NumCells() = %d; want 3", leaf.NumCells())
	}
	wantKeys := []uint32{5, 10, 20}
	for i, want := range wantKeys {
		if got := leaf.Key(uint32(i)); got != want {
			t.Errorf("Key(%d) = %d; want %d", i, got, want)
		}
	}
	if leaf.MaxKey() != 20 {
		t.Errorf("MaxKey() = %d; want 20", leaf.MaxKey())
	}
}

func TestLeafFindKeyIndex(t *testing.T) {
	p := newTempPager(t)
	pg, _ := p.GetPage(0)
	leaf := AsLeaf(pg)
	leaf.InitializeLeaf()
	for i, k := range []uint32{10, 20, 30} {
		leaf.InsertCell(uint32(i), k, NewRow(k, "u", "e@x.com"))
	}

	if idx, found := leaf.FindKeyIndex(20); !found || idx != 1 {
		t.Errorf("FindKeyIndex(20) = (%d, %v); want (1, true)", idx, found)
	}
	if idx, found := leaf.FindKeyIndex(15); found || idx != 1 {
		t.Errorf("FindKeyIndex(15) = (%d, %v); want (1, false)", idx, found)
	}
	if idx, found := leaf.FindKeyIndex(99); found || idx != 3 {
		t.Errorf("FindKeyIndex(99) = (%d, %v); want (3, false)", idx, found)
	}
}

func TestInternalChildPageDescendsByMaxKey(t *testing.T) {
	p := newTempPager(t)
	pg, _ := p.GetPage(0)
	internal := AsInternal(pg)
	internal.InitializeInternal()
	internal.SetNumKeys(2)
	internal.SetChild(0, 5)
	internal.SetKey(0, 10)
	internal.SetChild(1, 6)
	internal.SetKey(1, 20)
	internal.SetRightChild(7)

	cases := []struct {
		key  uint32
		want uint32
	}{
		{1, 5},
		{10, 5},
		{11, 6},
		{20, 6},
		{21, 7},
	}
	for _, c := range cases {
		if got := internal.ChildPage(c.key); got != c.want {
			t.Errorf("ChildPage(%d) = %d; want %d", c.key, got, c.want)
		}
	}
}

// TestInternalMaxKeyIsLastStoredKeyNotRightChildMax pins the chosen
// resolution to the max-key ambiguity: MaxKey reflects the last stored
// key, never the true maximum reachable through right_child.
func TestInternalMaxKeyIsLastStoredKeyNotRightChildMax(t *testing.T) {
	p := newTempPager(t)

	pg, _ := p.GetPage(0)
	rightPg, _ := p.GetPage(1)
	rightLeaf := AsLeaf(rightPg)
	rightLeaf.InitializeLeaf()
	rightLeaf.InsertCell(0, 999, NewRow(999, "u", "e@x.com"))

	internal := AsInternal(pg)
	internal.InitializeInternal()
	internal.SetNumKeys(1)
	internal.SetChild(0, 2)
	internal.SetKey(0, 50)
	internal.SetRightChild(rightPg.PageNum)

	if got := internal.MaxKey(); got != 50 {
		t.Fatalf("MaxKey() = %d; want 50 (the last stored key, not 999 from right_child)", got)
	}
}

func TestInternalFindChildIndex(t *testing.T) {
	p := newTempPager(t)
	pg, _ := p.GetPage(0)
	internal := AsInternal(pg)
	internal.InitializeInternal()
	internal.SetNumKeys(2)
	internal.SetChild(0, 11)
	internal.SetKey(0, 10)
	internal.SetChild(1, 12)
	internal.SetKey(1, 20)
	internal.SetRightChild(13)

	if idx := internal.FindChildIndex(12); idx != 1 {
		t.Errorf("FindChildIndex(12) = %d; want 1", idx)
	}
	if idx := internal.FindChildIndex(13); idx != internal.NumKeys() {
		t.Errorf("FindChildIndex(rightChild) = %d; want NumKeys() = %d", idx, internal.NumKeys())
	}
}
