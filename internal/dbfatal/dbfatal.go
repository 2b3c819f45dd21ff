// Package dbfatal classifies and reports the three fatal error kinds
// this engine recognises — table-full, I/O failure, and file
// corruption — and terminates the process. User-input errors
// (syntax, range, duplicate key) never reach this package; they are
// recoverable and handled entirely within the shell loop.
package dbfatal

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vqlite/pager"
)

var log = logrus.New()

// Kind is one of the three process-terminating failure classes.
type Kind int

const (
	KindIO Kind = iota
	KindTableFull
	KindCorruption
)

func (k Kind) String() string {
	switch k {
	case KindTableFull:
		return "table_full"
	case KindCorruption:
		return "corruption"
	default:
		return "io"
	}
}

// Classify inspects err for the pager's sentinel errors to decide
// which fatal kind it represents. Anything else is treated as an I/O
// failure, since no other fatal condition exists in this design.
func Classify(err error) Kind {
	switch {
	case errors.Is(err, pager.ErrTableFull):
		return KindTableFull
	case errors.Is(err, pager.ErrCorruption):
		return KindCorruption
	default:
		return KindIO
	}
}

// Fatal logs err with its kind and terminates the process with
// status 1. It never returns.
func Fatal(kind Kind, err error) {
	log.WithField("kind", kind.String()).Error(err)
	os.Exit(1)
}
