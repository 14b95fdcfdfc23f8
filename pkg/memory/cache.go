package memory

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/XtremeXSPC/dsviz/pkg/logflags"
)

const cachePageSize = 256

// CachedReader caches fixed-size pages read from an underlying Reader.
// Structure traversal chases the same pointers repeatedly (a summary,
// a tree render and a DOT export of the same list hit the same nodes),
// so even a small cache removes most host round trips.
type CachedReader struct {
	mem   Reader
	pages *lru.Cache
}

// NewCachedReader wraps mem with a page cache holding up to npages
// pages of cachePageSize bytes each.
func NewCachedReader(mem Reader, npages int) (*CachedReader, error) {
	pages, err := lru.New(npages)
	if err != nil {
		return nil, err
	}
	return &CachedReader{mem: mem, pages: pages}, nil
}

// ReadMemory implements Reader.
func (r *CachedReader) ReadMemory(buf []byte, addr uint64) (int, error) {
	total := 0
	for total < len(buf) {
		pageAddr := (addr + uint64(total)) &^ uint64(cachePageSize-1)
		page, err := r.page(pageAddr)
		if err != nil {
			// The page may straddle the end of a segment while the
			// requested range is still fully mapped. Serve the rest of
			// the read directly, uncached.
			n, derr := r.mem.ReadMemory(buf[total:], addr+uint64(total))
			return total + n, derr
		}
		off := (addr + uint64(total)) - pageAddr
		n := copy(buf[total:], page[off:])
		total += n
	}
	return total, nil
}

func (r *CachedReader) page(pageAddr uint64) ([]byte, error) {
	if v, ok := r.pages.Get(pageAddr); ok {
		return v.([]byte), nil
	}
	page := make([]byte, cachePageSize)
	if _, err := r.mem.ReadMemory(page, pageAddr); err != nil {
		return nil, err
	}
	logflags.MemoryLogger().Debugf("cached page at %#x", pageAddr)
	r.pages.Add(pageAddr, page)
	return page, nil
}
