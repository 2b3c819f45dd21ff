package table

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenInsertSelectClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tb, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, tb.Insert(Row{ID: 1, Username: "alice", Email: "alice@example.com"}))
	require.NoError(t, tb.Insert(Row{ID: 2, Username: "bob", Email: "bob@example.com"}))

	var got []Row
	require.NoError(t, tb.Select(func(r Row) error {
		got = append(got, r)
		return nil
	}))
	require.Equal(t, []Row{
		{ID: 1, Username: "alice", Email: "alice@example.com"},
		{ID: 2, Username: "bob", Email: "bob@example.com"},
	}, got)

	require.NoError(t, tb.Close())
}

func TestDataPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tb, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, tb.Insert(Row{ID: 1, Username: "alice", Email: "alice@example.com"}))
	require.NoError(t, tb.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	var got []Row
	require.NoError(t, reopened.Select(func(r Row) error {
		got = append(got, r)
		return nil
	}))
	require.Equal(t, []Row{{ID: 1, Username: "alice", Email: "alice@example.com"}}, got)
}

func TestPrintConstants(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tb, err := Open(path)
	require.NoError(t, err)
	defer tb.Close()

	out := tb.PrintConstants()
	require.True(t, strings.HasPrefix(out, "Constants:\n"))
	require.Contains(t, out, "ROW_SIZE: 291\n")
	require.Contains(t, out, "LEAF_NODE_MAX_CELLS: 13\n")
	require.Contains(t, out, "INTERNAL_NODE_MAX_CELLS: 3\n")
	require.Contains(t, out, "COLUMN username: offset 4, size 32\n")
}
