// Package table implements the storage core described by this
// engine's specification: a paged B+ tree (see btree.go / node.go),
// the fixed row codec (row.go), and the façade below that insert and
// select are built on.
package table

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"vqlite/column"
	"vqlite/pager"
)

// Table is the single-table façade: a pager, the B+ tree built on top
// of it, and the operations the shell drives.
type Table struct {
	Pager *pager.Pager
	Tree  *BTree
}

// Open opens (or creates) the database file at path and prepares its
// B+ tree for use, creating an empty root leaf if the file was empty.
func Open(path string) (*Table, error) {
	p, err := pager.OpenPager(path)
	if err != nil {
		return nil, errors.Wrap(err, "open table")
	}
	tree, err := NewBTree(p)
	if err != nil {
		return nil, errors.Wrap(err, "open table")
	}
	return &Table{Pager: p, Tree: tree}, nil
}

// Insert serialises row and inserts it by primary key, rejecting
// duplicates with ErrDuplicateKey.
func (tb *Table) Insert(row Row) error {
	return tb.Tree.Insert(row.ID, row)
}

// Select performs a full scan in key order, calling fn once per row.
func (tb *Table) Select(fn func(Row) error) error {
	cursor, err := tb.Tree.TableStart()
	if err != nil {
		return err
	}
	for !cursor.EndOfTable {
		row, err := tb.Tree.readRow(cursor)
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
		if err := cursor.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// PrintTree renders the on-disk tree for the `.btree` shell command.
func (tb *Table) PrintTree() (string, error) {
	return tb.Tree.PrintTree()
}

// PrintConstants renders the node-layout constants for the
// `.constants` shell command.
func (tb *Table) PrintConstants() string {
	var sb strings.Builder
	sb.WriteString("Constants:\n")
	fmt.Fprintf(&sb, "ROW_SIZE: %d\n", RowSize)
	fmt.Fprintf(&sb, "COMMON_NODE_HEADER_SIZE: %d\n", commonHeaderSize)
	fmt.Fprintf(&sb, "LEAF_NODE_HEADER_SIZE: %d\n", LeafHeaderSize)
	fmt.Fprintf(&sb, "LEAF_NODE_CELL_SIZE: %d\n", LeafCellSize)
	fmt.Fprintf(&sb, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", leafSpaceForCells)
	fmt.Fprintf(&sb, "LEAF_NODE_MAX_CELLS: %d\n", LeafMaxCells)
	fmt.Fprintf(&sb, "INTERNAL_NODE_HEADER_SIZE: %d\n", InternalHeaderSize)
	fmt.Fprintf(&sb, "INTERNAL_NODE_CELL_SIZE: %d\n", InternalCellSize)
	fmt.Fprintf(&sb, "INTERNAL_NODE_MAX_CELLS: %d\n", InternalMaxCells)
	for _, col := range column.Schema {
		fmt.Fprintf(&sb, "COLUMN %s: offset %d, size %d\n", col.Name, col.Offset, col.Size)
	}
	return sb.String()
}

// Close flushes the pager's write-back cache and closes the backing
// file. This is the only durability boundary the engine provides.
func (tb *Table) Close() error {
	return tb.Pager.Close()
}
