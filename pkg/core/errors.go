package core

import "errors"

// ErrInvalidPath is returned when a column or row path is empty or does not
// resolve against the tree it addresses.
var ErrInvalidPath = errors.New("invalid path")

// ErrTypeMismatch is returned when an operation meant for one column kind is
// applied to another (e.g. extending a compound column as if it were hidden).
var ErrTypeMismatch = errors.New("column type mismatch")
