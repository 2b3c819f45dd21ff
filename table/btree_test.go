package table

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vqlite/pager"
)

// newTestTree opens a fresh B+ tree backed by a file in t.TempDir().
func newTestTree(t *testing.T) *BTree {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	p, err := pager.OpenPager(path)
	require.NoError(t, err)
	tree, err := NewBTree(p)
	require.NoError(t, err)
	return tree
}

func rowFor(id uint32) Row {
	return Row{ID: id, Username: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("user%d@example.com", id)}
}

func selectAll(t *testing.T, tree *BTree) []Row {
	t.Helper()
	cursor, err := tree.TableStart()
	require.NoError(t, err)
	var rows []Row
	for !cursor.EndOfTable {
		row, err := tree.readRow(cursor)
		require.NoError(t, err)
		rows = append(rows, row)
		require.NoError(t, cursor.Advance())
	}
	return rows
}

func TestInsertAndSelectSingleRow(t *testing.T) {
	tree := newTestTree(t)
	require.NoError(t, tree.Insert(1, rowFor(1)))

	rows := selectAll(t, tree)
	require.Len(t, rows, 1)
	require.Equal(t, rowFor(1), rows[0])
}

func TestInsertRejectsDuplicateKey(t *testing.T) {
	tree := newTestTree(t)
	require.NoError(t, tree.Insert(1, rowFor(1)))
	err := tree.Insert(1, rowFor(1))
	require.Equal(t, ErrDuplicateKey, err)
}

func TestInsertOutOfOrderKeepsKeyOrder(t *testing.T) {
	tree := newTestTree(t)
	for _, id := range []uint32{3, 1, 2} {
		require.NoError(t, tree.Insert(id, rowFor(id)))
	}
	rows := selectAll(t, tree)
	require.Len(t, rows, 3)
	for i, row := range rows {
		require.Equal(t, uint32(i+1), row.ID)
	}
}

func TestLeafSplitOnFullLeaf(t *testing.T) {
	tree := newTestTree(t)
	for id := uint32(1); id <= LeafMaxCells+1; id++ {
		require.NoError(t, tree.Insert(id, rowFor(id)))
	}
	rows := selectAll(t, tree)
	require.Len(t, rows, int(LeafMaxCells+1))
	for i, row := range rows {
		require.Equal(t, uint32(i+1), row.ID)
	}

	rootPage, err := tree.Pager.GetPage(tree.RootPageNum)
	require.NoError(t, err)
	require.Equal(t, NodeTypeInternal, getNodeType(rootPage.Data[:]))
}

func TestManyInsertsProduceOrderedScanAcrossMultipleSplits(t *testing.T) {
	tree := newTestTree(t)
	const n = 100
	for id := uint32(1); id <= n; id++ {
		require.NoError(t, tree.Insert(id, rowFor(id)))
	}
	rows := selectAll(t, tree)
	require.Len(t, rows, n)
	for i, row := range rows {
		require.Equal(t, uint32(i+1), row.ID)
		require.Equal(t, rowFor(uint32(i+1)), row)
	}
}

func TestPrintTreeThreeLeafKeys(t *testing.T) {
	tree := newTestTree(t)
	for _, id := range []uint32{3, 1, 2} {
		require.NoError(t, tree.Insert(id, rowFor(id)))
	}
	out, err := tree.PrintTree()
	require.NoError(t, err)
	require.Equal(t, "Tree: \n- leaf (size 3)\n 1\n 2\n 3\n", out)
}

func TestPrintTreeAfterInternalSplit(t *testing.T) {
	tree := newTestTree(t)
	const n = 35
	for id := uint32(1); id <= n; id++ {
		require.NoError(t, tree.Insert(id, rowFor(id)))
	}
	out, err := tree.PrintTree()
	require.NoError(t, err)
	require.Contains(t, out, "- internal (size")
	require.Contains(t, out, "- leaf (size")
}

func TestCursorSeekFindsExistingKey(t *testing.T) {
	tree := newTestTree(t)
	for _, id := range []uint32{5, 10, 15} {
		require.NoError(t, tree.Insert(id, rowFor(id)))
	}
	cursor, err := tree.TableStart()
	require.NoError(t, err)
	require.NoError(t, cursor.Seek(10))
	require.True(t, cursor.Valid())
	require.Equal(t, uint32(10), cursor.Key())
}

func TestCursorSeekPastEndIsNotValid(t *testing.T) {
	tree := newTestTree(t)
	require.NoError(t, tree.Insert(1, rowFor(1)))
	cursor, err := tree.TableStart()
	require.NoError(t, err)
	require.NoError(t, cursor.Seek(100))
	require.False(t, cursor.Valid())
}

func TestGetNodeMaxKeyOnLeaf(t *testing.T) {
	tree := newTestTree(t)
	for _, id := range []uint32{1, 2, 3} {
		require.NoError(t, tree.Insert(id, rowFor(id)))
	}
	max, err := tree.getNodeMaxKey(tree.RootPageNum)
	require.NoError(t, err)
	require.Equal(t, uint32(3), max)
}
