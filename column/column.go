// Package column describes the one fixed row schema this engine ever
// stores: id, username, email, in declaration order. The spec this
// engine implements has no CREATE TABLE and no schema evolution, so
// unlike a general-purpose schema package this one is not a builder —
// it is the single source of truth for field sizes and offsets that
// the table package's row codec and node codec both derive from.
package column

// Field widths, fixed by the row format.
const (
	IDSize       = 4
	UsernameSize = 32
	EmailSize    = 255
)

// RowSize is the serialised size of one row: the fields laid out
// contiguously in declaration order.
const RowSize = IDSize + UsernameSize + EmailSize

// Column describes one field of the row for introspection purposes
// (the `.constants` shell command).
type Column struct {
	Name   string
	Offset uint32
	Size   uint32
}

// Schema lists the row's fields in on-disk order.
var Schema = []Column{
	{Name: "id", Offset: 0, Size: IDSize},
	{Name: "username", Offset: IDSize, Size: UsernameSize},
	{Name: "email", Offset: IDSize + UsernameSize, Size: EmailSize},
}
