package data

import "errors"

var (
	// ErrUnknownColumn is returned when a named column is not in the table.
	ErrUnknownColumn = errors.New("data: unknown column")
	// ErrColumnExists is returned when a derived column would shadow an existing one.
	ErrColumnExists = errors.New("data: column already exists")
	// ErrLengthMismatch is returned when a column does not match the table's row count.
	ErrLengthMismatch = errors.New("data: column length mismatch")
	// ErrWrongKind is returned when a numeric accessor is used on a categorical column or vice versa.
	ErrWrongKind = errors.New("data: wrong column kind")
	// ErrEmptyTable is returned when an operation needs at least one row.
	ErrEmptyTable = errors.New("data: empty table")
	// ErrUnsafePath is returned for archive entries that would extract outside the target directory.
	ErrUnsafePath = errors.New("data: archive entry escapes extract dir")
	// ErrFetch is returned when the remote archive cannot be retrieved.
	ErrFetch = errors.New("data: fetch failed")
)
