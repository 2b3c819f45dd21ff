package table

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"

	"vqlite/column"
)

// Row is the engine's one fixed schema: an unsigned 32-bit primary
// key, a username up to 32 bytes, and an email up to 255 bytes.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// Recoverable errors, surfaced to the shell verbatim via their
// Error() text — these never change tree state.
var (
	ErrSyntax        = fmt.Errorf("Syntax error. Could not parse statement.")
	ErrNegativeID    = fmt.Errorf("ID must be positive.")
	ErrStringTooLong = fmt.Errorf("String is too long.")
	ErrDuplicateKey  = fmt.Errorf("Error: Duplicate key.")
)

// ParseInsertArgs validates and builds the Row for an `insert <id>
// <username> <email>` statement.
func ParseInsertArgs(idText, username, email string) (Row, error) {
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil {
		return Row{}, ErrSyntax
	}
	if id < 0 {
		return Row{}, ErrNegativeID
	}
	if id > (1<<32)-1 {
		return Row{}, ErrNegativeID
	}
	if len(username) > column.UsernameSize || len(email) > column.EmailSize {
		return Row{}, ErrStringTooLong
	}
	return Row{ID: uint32(id), Username: username, Email: email}, nil
}

// SerializeRow writes row into dst, which must be exactly RowSize bytes.
func SerializeRow(row Row, dst []byte) error {
	if len(dst) != RowSize {
		return fmt.Errorf("SerializeRow: dst length %d, want %d", len(dst), RowSize)
	}
	for i := range dst {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint32(dst[idOffset:idOffset+column.IDSize], row.ID)
	copy(dst[usernameOffset:usernameOffset+column.UsernameSize], row.Username)
	copy(dst[emailOffset:emailOffset+column.EmailSize], row.Email)
	return nil
}

// DeserializeRow reads a Row back out of a RowSize-byte slice.
func DeserializeRow(src []byte) (Row, error) {
	if len(src) != RowSize {
		return Row{}, fmt.Errorf("DeserializeRow: src length %d, want %d", len(src), RowSize)
	}
	id := binary.LittleEndian.Uint32(src[idOffset : idOffset+column.IDSize])
	username := string(bytes.TrimRight(src[usernameOffset:usernameOffset+column.UsernameSize], "\x00"))
	email := string(bytes.TrimRight(src[emailOffset:emailOffset+column.EmailSize], "\x00"))
	return Row{ID: id, Username: username, Email: email}, nil
}
