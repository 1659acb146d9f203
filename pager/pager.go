package pager

import (
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	TableMaxPages = 100
	PageSize      = 4096
)

// ErrCorruptFile is returned by OpenPager when the file's length is not a
// multiple of PageSize.
var ErrCorruptFile = errors.New("corrupt file")

// Page is one in-memory, possibly-dirty copy of a page-sized window of the
// database file.
type Page struct {
	Data    [PageSize]byte
	Pager   *Pager
	PageNum uint32
	Dirty   bool
}

// Pager owns the open file and caches up to TableMaxPages pages in memory.
// There is no eviction and no concurrency: the cache is exactly as large as
// the table is ever allowed to grow.
type Pager struct {
	File     *os.File
	Pages    []*Page
	NumPages int
}

func (p *Pager) FileSize() (int64, error) {
	fi, err := p.File.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// OpenPager opens the file, read+write, creating it if absent. The file
// length must be a positive multiple of PageSize, or zero for a fresh file;
// anything else means the file is corrupt.
func OpenPager(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	fileSize := fi.Size()
	if fileSize%PageSize != 0 {
		f.Close()
		return nil, fmt.Errorf("OpenPager: %s: file length %d is not a multiple of page size %d: %w", path, fileSize, PageSize, ErrCorruptFile)
	}
	numPages := int(fileSize / PageSize)

	p := &Pager{
		File:     f,
		Pages:    make([]*Page, numPages),
		NumPages: numPages,
	}
	return p, nil
}

// loadPageFromDisk handles the raw seek+read and returns a fresh Page.
// Hitting EOF partway through the read is benign: the rest of the page is
// left zeroed, since it genuinely is new.
func (p *Pager) loadPageFromDisk(pageNum uint32) (*Page, error) {
	off := int64(pageNum) * PageSize
	if _, err := p.File.Seek(off, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek page %d: %w", pageNum, err)
	}
	pg := &Page{
		Pager:   p,
		PageNum: pageNum,
	}
	if _, err := io.ReadFull(p.File, pg.Data[:]); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("read page %d: %w", pageNum, err)
	}
	return pg, nil
}

// GetPage returns the page numbered pageNum, loading it from disk on first
// touch. Asking for pageNum == NumPages grows the table by one zeroed page
// and advances NumPages; asking for anything further out is out of range.
func (p *Pager) GetPage(pageNum uint32) (*Page, error) {
	if pageNum >= TableMaxPages {
		return nil, fmt.Errorf("GetPage: page %d out of bounds (max %d)", pageNum, TableMaxPages)
	}
	if pageNum > uint32(p.NumPages) {
		return nil, fmt.Errorf("GetPage: page %d beyond next free page (%d)", pageNum, p.NumPages)
	}

	if pageNum == uint32(p.NumPages) {
		pg := &Page{Pager: p, PageNum: pageNum, Dirty: true}
		p.Pages = append(p.Pages, pg)
		p.NumPages++
		return pg, nil
	}

	// if not yet in cache, pull it in
	if p.Pages[pageNum] == nil {
		pg, err := p.loadPageFromDisk(pageNum)
		if err != nil {
			return nil, err
		}
		p.Pages[pageNum] = pg
	}
	return p.Pages[pageNum], nil
}

// FlushPage writes the full PageSize bytes of page pgNo to its offset in the
// file. Internal-node headers and cells occupy arbitrary byte ranges within
// a page, so a partial write is never correct — the whole page is always
// persisted.
func (p *Pager) FlushPage(pgNo uint32) error {
	if pgNo >= uint32(len(p.Pages)) {
		return nil
	}
	pg := p.Pages[pgNo]
	if pg == nil {
		return nil
	}
	off := int64(pgNo) * PageSize
	if _, err := p.File.Seek(off, io.SeekStart); err != nil {
		return err
	}
	if _, err := p.File.Write(pg.Data[:]); err != nil {
		return err
	}
	pg.Dirty = false
	return nil
}

// FlushAll writes every cached page to disk. Called exactly once, on
// teardown.
func (p *Pager) FlushAll() error {
	for i, pg := range p.Pages {
		if pg != nil {
			if err := p.FlushPage(uint32(i)); err != nil {
				return err
			}
		}
	}
	return p.File.Sync()
}

// Close flushes every cached page and closes the file. A flush failure
// here is fatal: the file may now be corrupt and there's no handle left to
// retry against.
func (p *Pager) Close() error {
	if err := p.FlushAll(); err != nil {
		p.File.Close()
		return err
	}
	return p.File.Close()
}
