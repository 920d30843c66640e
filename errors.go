package hashtable

import "github.com/cockroachdb/errors"

// ErrCapacityOverflow is returned by an insertion that would grow a
// non-BIG table's dense value array past math.MaxUint32-1 entries. The
// check runs before any mutation, so the table's invariants are untouched
// when this error is returned (see WithBig and DESIGN.md for the
// BIG/non-BIG distinction this module draws in Go).
var ErrCapacityOverflow = errors.New("hashtable: capacity overflow: table would exceed the non-BIG value-count limit")
