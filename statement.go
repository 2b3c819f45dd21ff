package main

import (
	"fmt"
	"io"
	"strings"

	"vqlite/internal/dbfatal"
	"vqlite/table"
)

// executeStatement dispatches a non-dot command line to insert or
// select, or reports it as unrecognised. Tokenising the line is the
// REPL's framing, not core work; the field-level validation that
// follows (id range, string length) lives in the table package.
func executeStatement(tb *table.Table, stdout io.Writer, line string) {
	switch {
	case line == "select":
		executeSelect(tb, stdout)
	case strings.HasPrefix(line, "insert"):
		executeInsert(tb, stdout, line)
	default:
		fmt.Fprintf(stdout, "Unrecognized keyword at start of '%s'.\n", line)
	}
}

func executeInsert(tb *table.Table, stdout io.Writer, line string) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		fmt.Fprintln(stdout, table.ErrSyntax)
		return
	}

	row, err := table.ParseInsertArgs(fields[1], fields[2], fields[3])
	if err != nil {
		fmt.Fprintln(stdout, err)
		return
	}

	if err := tb.Insert(row); err != nil {
		if err == table.ErrDuplicateKey {
			fmt.Fprintln(stdout, err)
			return
		}
		dbfatal.Fatal(dbfatal.Classify(err), err)
		return
	}
	fmt.Fprintln(stdout, "Executed.")
}

func executeSelect(tb *table.Table, stdout io.Writer) {
	err := tb.Select(func(row table.Row) error {
		fmt.Fprintf(stdout, "%d %q %q\n", row.ID, row.Username, row.Email)
		return nil
	})
	if err != nil {
		dbfatal.Fatal(dbfatal.Classify(err), err)
		return
	}
	fmt.Fprintln(stdout, "Executed.")
}
