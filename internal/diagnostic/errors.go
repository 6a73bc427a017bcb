package diagnostic

import "errors"

var (
	// ErrInvalidTables is returned when a rule or prescription table breaks an invariant.
	ErrInvalidTables = errors.New("invalid diagnostic tables")
	// ErrNotFound is returned when no configuration row has been stored yet.
	ErrNotFound = errors.New("diagnostic config not found")
)
