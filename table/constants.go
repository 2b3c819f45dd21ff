package table

import (
	"vqlite/column"
	"vqlite/pager"
)

// RowSize is the serialised size of one row.
const RowSize = column.RowSize

const (
	idOffset       = 0
	usernameOffset = idOffset + column.IDSize
	emailOffset    = usernameOffset + column.UsernameSize
)

// Common node header: node type tag, is-root flag, parent page number.
const (
	nodeTypeOffset = 0
	nodeTypeSize   = 1

	isRootOffset = nodeTypeOffset + nodeTypeSize
	isRootSize   = 1

	parentOffset = isRootOffset + isRootSize
	parentSize   = 4

	commonHeaderSize = nodeTypeSize + isRootSize + parentSize
)

// Leaf node header: cell count plus the right-sibling page number.
const (
	leafNumCellsOffset = commonHeaderSize
	leafNumCellsSize   = 4

	leafNextLeafOffset = leafNumCellsOffset + leafNumCellsSize
	leafNextLeafSize   = 4

	// LeafHeaderSize is the byte offset at which the leaf's cell array begins.
	LeafHeaderSize = commonHeaderSize + leafNumCellsSize + leafNextLeafSize
)

// Leaf cell: a 4-byte key followed by a RowSize-byte value.
const (
	leafKeySize     = 4
	leafValueOffset = leafKeySize

	// LeafCellSize is the size of one (key, row) cell.
	LeafCellSize = leafKeySize + RowSize

	leafSpaceForCells = pager.PageSize - LeafHeaderSize

	// LeafMaxCells is the largest number of cells that fit between the
	// end of the leaf header and the end of the page.
	LeafMaxCells = leafSpaceForCells / LeafCellSize

	// LeafLeftSplitCount and LeafRightSplitCount are how a full leaf's
	// LeafMaxCells+1 virtual cells are divided on split.
	LeafLeftSplitCount  = (LeafMaxCells + 1 + 1) / 2
	LeafRightSplitCount = (LeafMaxCells + 1) - LeafLeftSplitCount
)

// Internal node header: key count plus the rightmost child page number.
const (
	internalNumKeysOffset = commonHeaderSize
	internalNumKeysSize   = 4

	internalRightChildOffset = internalNumKeysOffset + internalNumKeysSize
	internalRightChildSize   = 4

	// InternalHeaderSize is the byte offset at which the internal
	// node's cell array begins.
	InternalHeaderSize = commonHeaderSize + internalNumKeysSize + internalRightChildSize
)

// Internal cell: a 4-byte child page number followed by a 4-byte key.
const (
	internalChildSize = 4
	internalKeySize   = 4

	// InternalCellSize is the size of one (child, key) cell.
	InternalCellSize = internalChildSize + internalKeySize

	// InternalMaxCells is deliberately small and NOT size-derived — the
	// reference layout keeps it at 3 so that splits are exercised by
	// modest fixtures instead of requiring hundreds of keys.
	InternalMaxCells = 3
)

// invalidPage marks an internal node's right-child slot as unset,
// distinguishing "no right child yet" from the valid page number 0.
const invalidPage = ^uint32(0)

// NodeType tags what a page holds.
type NodeType uint8

const (
	NodeTypeInternal NodeType = 0
	NodeTypeLeaf     NodeType = 1
)
