package main

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"vqlite/table"
)

// runSession feeds script (one statement per line) through runREPL
// exactly as the original acceptance harness drives the compiled
// binary over a piped, non-interactive subprocess stdin, and returns
// everything written to stdout.
func runSession(t *testing.T, tb *table.Table, script string) string {
	t.Helper()
	var out bytes.Buffer
	stdin := io.NopCloser(strings.NewReader(script))
	require.NoError(t, runREPL(tb, stdin, &out))
	return out.String()
}

func TestREPLInsertSelectExit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tb, err := table.Open(path)
	require.NoError(t, err)

	out := runSession(t, tb, "insert 1 user1 person1@example.com\nselect\n.exit\n")
	require.Equal(t, `db > Executed.
db > 1 "user1" "person1@example.com"
Executed.
db > `, out)
}

func TestREPLOverlongField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tb, err := table.Open(path)
	require.NoError(t, err)

	script := "insert 1 " + strings.Repeat("a", 40) + " b\n.exit\n"
	out := runSession(t, tb, script)
	require.Equal(t, `db > String is too long.
db > `, out)
}

func TestREPLPersistenceAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	tbA, err := table.Open(path)
	require.NoError(t, err)
	outA := runSession(t, tbA, "insert 1 user1 person1@example.com\nselect\n.exit\n")
	require.Equal(t, `db > Executed.
db > 1 "user1" "person1@example.com"
Executed.
db > `, outA)

	tbB, err := table.Open(path)
	require.NoError(t, err)
	outB := runSession(t, tbB, "select\n.exit\n")
	require.Equal(t, `db > 1 "user1" "person1@example.com"
Executed.
db > `, outB)
}

func TestREPLDuplicateAfterReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	tbA, err := table.Open(path)
	require.NoError(t, err)
	outA := runSession(t, tbA, "insert 1 user1 person1@example.com\ninsert 5 user5 person5@example.com\ninsert 2 user2 person2@example.com\nselect\n.exit\n")
	require.Equal(t, `db > Executed.
db > Executed.
db > Executed.
db > 1 "user1" "person1@example.com"
2 "user2" "person2@example.com"
5 "user5" "person5@example.com"
Executed.
db > `, outA)

	tbB, err := table.Open(path)
	require.NoError(t, err)
	outB := runSession(t, tbB, "select\ninsert 1 user1 person1@example.com\n.exit\n")
	require.Equal(t, `db > 1 "user1" "person1@example.com"
2 "user2" "person2@example.com"
5 "user5" "person5@example.com"
Executed.
db > Error: Duplicate key.
db > `, outB)
}

func TestREPLBtreeAfterThreeInserts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tb, err := table.Open(path)
	require.NoError(t, err)

	out := runSession(t, tb, "insert 1 user1 person1@example.com\ninsert 2 user2 person2@example.com\ninsert 3 user3 person3@example.com\nselect\n.btree\n.exit\n")
	require.Equal(t, `db > Executed.
db > Executed.
db > Executed.
db > 1 "user1" "person1@example.com"
2 "user2" "person2@example.com"
3 "user3" "person3@example.com"
Executed.
db > Tree: 
- leaf (size 3)
 1
 2
 3
db > `, out)
}

func TestREPLLeafSplitAcrossNineteenInserts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tb, err := table.Open(path)
	require.NoError(t, err)

	var script strings.Builder
	for i := 1; i <= 19; i++ {
		fmt.Fprintf(&script, "insert %d user%d person%d@example.com\n", i, i, i)
	}
	script.WriteString("select\n.exit\n")

	out := runSession(t, tb, script.String())

	var want strings.Builder
	for i := 0; i < 19; i++ {
		want.WriteString("db > Executed.\n")
	}
	want.WriteString("db > ")
	for i := 1; i <= 19; i++ {
		fmt.Fprintf(&want, "%d \"user%d\" \"person%d@example.com\"\n", i, i, i)
	}
	want.WriteString("Executed.\ndb > ")

	require.Equal(t, want.String(), out)
}

func TestREPLUnrecognizedCommandAndKeyword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	tb, err := table.Open(path)
	require.NoError(t, err)

	out := runSession(t, tb, ".frobnicate\ndelete 1\n.exit\n")
	require.Equal(t, `db > Unrecognized command '.frobnicate'.
db > Unrecognized keyword at start of 'delete 1'.
db > `, out)
}
