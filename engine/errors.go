package engine

import "errors"

// Sentinel errors surfaced by engine operations. The shell classifies a
// returned error with errors.Is against these rather than matching on
// message text.
var (
	// ErrDuplicateKey is returned when Insert is called with an id that
	// already exists in the table.
	ErrDuplicateKey = errors.New("duplicate key")

	// ErrKeyNotFound is returned when Lookup does not find the requested
	// id.
	ErrKeyNotFound = errors.New("key not found")

	// ErrTableFull is returned when an insert would need to allocate a
	// page beyond pager.TableMaxPages.
	ErrTableFull = errors.New("table full")

	// ErrOutOfRange names a page or cell index outside its legal
	// interval. No engine operation returns it: a page number the pager
	// rejects comes back as the pager's own unwrapped error.
	ErrOutOfRange = errors.New("index out of range")

	// ErrCorruptFile is returned by Open when the file's length is not a
	// multiple of the page size. Tree pages are not validated on load: a
	// child pointer of InvalidPageNum surfaces as the pager's bounds
	// error, not as ErrCorruptFile.
	ErrCorruptFile = errors.New("corrupt file")

	// ErrIOFailure wraps an underlying os/file error from Open or Close.
	// A read error while loading a page during later operations is
	// returned as the pager reports it, without this wrapper.
	ErrIOFailure = errors.New("i/o failure")
)
