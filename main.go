// Command vqlite is a small single-file relational database shell: a
// paged B+ tree on disk, and a line-oriented REPL answering `insert`
// and `select` against one fixed-schema table.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vqlite/internal/dbfatal"
	"vqlite/table"
)

var errMissingFilename = fmt.Errorf("Must supply a database filename.")

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vqlite <database file>",
		Short:         "A small single-file relational database shell",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errMissingFilename
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			tb, err := table.Open(args[0])
			if err != nil {
				dbfatal.Fatal(dbfatal.Classify(err), err)
				return nil
			}
			return runREPL(tb, os.Stdin, os.Stdout)
		},
	}
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
