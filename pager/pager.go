// Package pager maps fixed-size pages between a backing file and an
// in-memory write-back cache indexed by page number. It knows nothing
// about what a page contains — that's the table package's job.
package pager

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	// PageSize is the fixed size, in bytes, of every page.
	PageSize = 4096
	// TableMaxPages bounds the pager's slot table. The test workloads
	// in this lineage never exceed a handful of pages, so a fixed
	// array keyed by page number is enough; eviction is not needed.
	TableMaxPages = 100
)

// ErrTableFull is returned when a page beyond TableMaxPages is requested
// or allocated. It is fatal: there is no eviction policy to fall back to.
var ErrTableFull = errors.New("page table exhausted")

// ErrCorruption is returned when a backing file's length is not a
// multiple of PageSize.
var ErrCorruption = errors.New("database file length is not a multiple of the page size")

// Page is one PageSize-byte buffer, owned by exactly one Pager.
type Page struct {
	Data  [PageSize]byte
	Dirty bool
}

// Pager provides exclusive read/write access to the pages of a single
// file, with a write-back cache keyed by page number.
type Pager struct {
	file     *os.File
	NumPages uint32
	pages    [TableMaxPages]*Page
}

// OpenPager opens or creates the file at path and computes how many
// pages it currently holds. It fails if the file's length is not a
// multiple of PageSize, which indicates a corrupt or foreign file.
func OpenPager(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	fi, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	size := fi.Size()
	if size%PageSize != 0 {
		return nil, errors.Wrapf(ErrCorruption, "%s: length %d is not a multiple of %d", path, size, PageSize)
	}
	return &Pager{
		file:     f,
		NumPages: uint32(size / PageSize),
	}, nil
}

// FileSize reports the current on-disk length of the backing file.
func (p *Pager) FileSize() (int64, error) {
	fi, err := p.file.Stat()
	if err != nil {
		return 0, errors.Wrap(err, "stat")
	}
	return fi.Size(), nil
}

// GetPage returns a mutable handle to the buffer for page n, reading
// it from disk on first access. Requesting beyond the file's current
// extent extends the pager's notion of how many pages exist, so that
// AllocatePage can hand out fresh pages by simple appending.
func (p *Pager) GetPage(n uint32) (*Page, error) {
	if n >= TableMaxPages {
		return nil, errors.Wrapf(ErrTableFull, "page %d", n)
	}
	if p.pages[n] == nil {
		page := &Page{}
		if n < p.NumPages {
			off := int64(n) * PageSize
			if _, err := p.file.ReadAt(page.Data[:], off); err != nil && err != io.EOF {
				return nil, errors.Wrapf(err, "read page %d", n)
			}
		}
		p.pages[n] = page
		if n >= p.NumPages {
			p.NumPages = n + 1
		}
	}
	return p.pages[n], nil
}

// AllocatePage hands out the next free page number by appending: pages
// are never freed in this design, so "next free" is just the current
// page count.
func (p *Pager) AllocatePage() (uint32, error) {
	n := p.NumPages
	if n >= TableMaxPages {
		return 0, errors.Wrapf(ErrTableFull, "page %d", n)
	}
	if _, err := p.GetPage(n); err != nil {
		return 0, err
	}
	return n, nil
}

// FlushPage writes page n back to its offset in the file, if cached.
func (p *Pager) FlushPage(n uint32) error {
	page := p.pages[n]
	if page == nil {
		return nil
	}
	off := int64(n) * PageSize
	if _, err := p.file.WriteAt(page.Data[:], off); err != nil {
		return errors.Wrapf(err, "write page %d", n)
	}
	page.Dirty = false
	return nil
}

// Close flushes every dirty cached page in page-number order, then
// closes the file. It does not truncate.
func (p *Pager) Close() error {
	for i := uint32(0); i < p.NumPages; i++ {
		page := p.pages[i]
		if page == nil || !page.Dirty {
			continue
		}
		if err := p.FlushPage(i); err != nil {
			return err
		}
	}
	return errors.Wrap(p.file.Close(), "close")
}
