package table

import "sort"

// Cursor identifies a position in a specific leaf: a page number, a
// cell index within that leaf, and whether it has walked off the end
// of the table.
type Cursor struct {
	tree       *BTree
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// TableStart returns a cursor positioned at the first key in the
// leftmost leaf.
func (t *BTree) TableStart() (*Cursor, error) {
	cursor, err := t.TableFind(0)
	if err != nil {
		return nil, err
	}
	page, err := t.Pager.GetPage(cursor.PageNum)
	if err != nil {
		return nil, err
	}
	cursor.CellNum = 0
	cursor.EndOfTable = leafNumCells(page.Data[:]) == 0
	return cursor, nil
}

// TableFind descends from the root to the leaf that must contain key,
// positioning a cursor at the existing key or at the insertion point
// that preserves leaf ordering.
func (t *BTree) TableFind(key uint32) (*Cursor, error) {
	return t.findFrom(t.RootPageNum, key)
}

func (t *BTree) findFrom(pageNum uint32, key uint32) (*Cursor, error) {
	page, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	if getNodeType(page.Data[:]) == NodeTypeLeaf {
		return t.leafFind(pageNum, key)
	}
	return t.internalFind(pageNum, key)
}

func (t *BTree) leafFind(pageNum uint32, key uint32) (*Cursor, error) {
	page, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	buf := page.Data[:]
	numCells := leafNumCells(buf)
	idx := sort.Search(int(numCells), func(i int) bool {
		return leafKey(buf, uint32(i)) >= key
	})
	return &Cursor{tree: t, PageNum: pageNum, CellNum: uint32(idx)}, nil
}

func (t *BTree) internalFind(pageNum uint32, key uint32) (*Cursor, error) {
	page, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	buf := page.Data[:]
	numKeys := internalNumKeys(buf)
	idx := internalFindChildIndex(buf, numKeys, key)
	child := internalChildAtOrRight(buf, idx, numKeys)
	return t.findFrom(child, key)
}

func internalFindChildIndex(buf []byte, numKeys uint32, key uint32) uint32 {
	idx := sort.Search(int(numKeys), func(i int) bool {
		return internalKey(buf, uint32(i)) >= key
	})
	return uint32(idx)
}

// Advance moves the cursor to the next key in order, following
// next-leaf sibling pointers across leaf boundaries.
func (c *Cursor) Advance() error {
	page, err := c.tree.Pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}
	buf := page.Data[:]
	c.CellNum++
	if c.CellNum < leafNumCells(buf) {
		return nil
	}
	next := leafNextLeaf(buf)
	if next == 0 {
		c.EndOfTable = true
		return nil
	}
	nextPage, err := c.tree.Pager.GetPage(next)
	if err != nil {
		return err
	}
	c.PageNum = next
	c.CellNum = 0
	c.EndOfTable = leafNumCells(nextPage.Data[:]) == 0
	return nil
}

// Seek repositions an existing cursor at the first key >= target,
// without walking from TableStart. It is not part of the REPL's
// surface (select is always a full scan) — it exists as substrate for
// table_find reuse and point lookups in tests.
func (c *Cursor) Seek(target uint32) error {
	found, err := c.tree.TableFind(target)
	if err != nil {
		return err
	}
	*c = *found
	page, err := c.tree.Pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}
	c.EndOfTable = c.CellNum >= leafNumCells(page.Data[:])
	return nil
}

// Valid reports whether the cursor sits on an existing key (as
// opposed to an insertion point past the leaf's occupied cells or
// the end of the table).
func (c *Cursor) Valid() bool {
	if c.EndOfTable {
		return false
	}
	page, err := c.tree.Pager.GetPage(c.PageNum)
	if err != nil {
		return false
	}
	return c.CellNum < leafNumCells(page.Data[:])
}

// Key returns the key at the cursor. Call only when Valid().
func (c *Cursor) Key() uint32 {
	page, _ := c.tree.Pager.GetPage(c.PageNum)
	return leafKey(page.Data[:], c.CellNum)
}
