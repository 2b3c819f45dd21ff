package main

import (
	"fmt"
	"io"

	"vqlite/internal/dbfatal"
	"vqlite/table"
)

// handleMetaCommand dispatches a dot-command, reporting whether the
// shell should stop reading further input. `.exit` is the only clean
// shutdown path (spec.md §6): it flushes the pager and asks the REPL
// loop to stop, emitting no further output; the process itself exits
// with status 0 once runREPL returns, from main().
func handleMetaCommand(tb *table.Table, stdout io.Writer, line string) (exit bool) {
	switch line {
	case ".exit":
		if err := tb.Close(); err != nil {
			dbfatal.Fatal(dbfatal.Classify(err), err)
			return true
		}
		return true

	case ".btree":
		tree, err := tb.PrintTree()
		if err != nil {
			dbfatal.Fatal(dbfatal.Classify(err), err)
			return true
		}
		fmt.Fprint(stdout, tree)
		return false

	case ".constants":
		fmt.Fprint(stdout, tb.PrintConstants())
		return false

	default:
		fmt.Fprintf(stdout, "Unrecognized command '%s'.\n", line)
		return false
	}
}
