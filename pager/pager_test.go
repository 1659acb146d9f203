package pager

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Test opening an empty pager file.
func TestOpenPagerEmptyFile(t *testing.T) {
	tmp, err := os.CreateTemp("", "pager_test_empty_*.db")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	p, err := OpenPager(path)
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	defer p.Close()

	if len(p.Pages) != 0 {
		t.Errorf("expected 0 pages, got %d", len(p.Pages))
	}

	size, err := p.FileSize()
	if err != nil {
		t.Fatalf("FileSize: %v", err)
	}
	if size != 0 {
		t.Errorf("expected file size 0, got %d", size)
	}
}

// A corrupt file length (not a multiple of PageSize) must fail to open.
func TestOpenPagerCorruptLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "corrupt.db")
	if err := os.WriteFile(path, make([]byte, PageSize+17), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := OpenPager(path)
	if err == nil {
		t.Fatalf("expected OpenPager to reject a file whose length is not a multiple of PageSize")
	}
	if !errors.Is(err, ErrCorruptFile) {
		t.Errorf("OpenPager error = %v; want it to wrap ErrCorruptFile", err)
	}
}

// GetPage(0) on a brand-new file allocates page 0 rather than erroring,
// matching the contract that asking for the next free page grows the table.
func TestGetPageGrowsOnFirstTouch(t *testing.T) {
	tmp, err := os.CreateTemp("", "pager_test_grow_*.db")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	p, err := OpenPager(path)
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	defer p.Close()

	pg, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage(0): %v", err)
	}
	if !pg.Dirty {
		t.Errorf("expected newly allocated page to be dirty")
	}
	if p.NumPages != 1 {
		t.Errorf("expected NumPages=1 after first GetPage, got %d", p.NumPages)
	}

	// Asking for a page past the next free one is out of range.
	if _, err := p.GetPage(2); err == nil {
		t.Errorf("expected GetPage(2) to fail when NumPages=1")
	}
}

// Allocating, writing, and flushing a page persists its bytes at the right
// file offset.
func TestAllocateAndFlushPage(t *testing.T) {
	tmp, err := os.CreateTemp("", "pager_test_alloc_*.db")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	p, err := OpenPager(path)
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	defer p.Close()

	pg, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	pg.Data[0] = 0xAB
	pg.Data[PageSize-1] = 0xCD

	if err := p.FlushPage(0); err != nil {
		t.Fatalf("FlushPage: %v", err)
	}

	size, err := p.FileSize()
	if err != nil {
		t.Fatalf("FileSize: %v", err)
	}
	if size != PageSize {
		t.Errorf("expected file size %d, got %d", PageSize, size)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) != PageSize {
		t.Fatalf("expected read data length %d, got %d", PageSize, len(data))
	}
	if data[0] != 0xAB {
		t.Errorf("expected byte 0 = 0xAB, got 0x%X", data[0])
	}
	if data[PageSize-1] != 0xCD {
		t.Errorf("expected byte at %d = 0xCD, got 0x%X", PageSize-1, data[PageSize-1])
	}
	if pg.Dirty {
		t.Errorf("expected page dirty=false after flush")
	}
}

// Loading an existing full page from disk returns its actual bytes.
func TestLoadExistingPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exist.db")

	buf := make([]byte, PageSize)
	for i := range buf {
		buf[i] = 0x01
	}
	if err := os.WriteFile(path, buf, 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := OpenPager(path)
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	defer p.Close()

	if p.NumPages != 1 {
		t.Errorf("expected 1 page, got %d", p.NumPages)
	}
	pg, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if pg.Dirty {
		t.Errorf("expected loaded page dirty=false")
	}
	if pg.Data[0] != 0x01 || pg.Data[PageSize-1] != 0x01 {
		t.Errorf("unexpected data in loaded page: first=0x%X last=0x%X", pg.Data[0], pg.Data[PageSize-1])
	}
}

// A page cached once is the same instance on a second GetPage.
func TestGetPageReturnsSameInstance(t *testing.T) {
	tmp, err := os.CreateTemp("", "pager_test_sameinst_*.db")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	p, err := OpenPager(path)
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	defer p.Close()

	first, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	second, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if first != second {
		t.Errorf("GetPage returned a different page instance")
	}
}

// GetPage beyond TableMaxPages always fails, regardless of NumPages.
func TestGetPageBeyondTableMaxPages(t *testing.T) {
	tmp, err := os.CreateTemp("", "pager_test_toomany_*.db")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	p, err := OpenPager(path)
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	defer p.Close()

	if _, err := p.GetPage(TableMaxPages); err == nil {
		t.Errorf("expected GetPage(TableMaxPages) to fail")
	}
}
