package main

import (
	"io"
	"strings"

	"github.com/chzyer/readline"

	"vqlite/internal/dbfatal"
	"vqlite/table"
)

// runREPL is the engine's one I/O boundary (spec.md §1, §6): it reads
// lines with the prompt `db > `, dispatches each to a meta command or
// a statement, and loops until `.exit` or end of input. Every line it
// prints beyond the prompt itself ends in a single newline; no blank
// line separates a command's output from the next prompt. stdin and
// stdout are explicit (rather than hardcoded to os.Stdin/os.Stdout) so
// the protocol can be driven over a piped, non-interactive reader in
// tests exactly as the original acceptance harness drives the
// compiled binary over a subprocess pipe.
func runREPL(tb *table.Table, stdin io.ReadCloser, stdout io.Writer) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "db > ",
		Stdin:                  stdin,
		Stdout:                 stdout,
		DisableAutoSaveHistory: true,
		HistoryLimit:           -1,
		FuncIsTerminal:         func() bool { return false },
	})
	if err != nil {
		dbfatal.Fatal(dbfatal.KindIO, err)
		return nil
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			dbfatal.Fatal(dbfatal.KindIO, err)
			return nil
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if handleMetaCommand(tb, stdout, line) {
				return nil
			}
			continue
		}
		executeStatement(tb, stdout, line)
	}
}
