package hashtable

import "math"

// nonBigEntryLimit is the largest dense-array length a non-BIG table may
// reach before an insertion is refused with ErrCapacityOverflow.
const nonBigEntryLimit = math.MaxUint32 - 1

// checkCapacityOverflow implements the guard described by
// ErrCapacityOverflow, factored out of each variant's checkOverflow method
// so it can be unit tested without allocating a multi-gigabyte slice.
func checkCapacityOverflow(currentLen int, big bool) error {
	if !big && currentLen == nonBigEntryLimit {
		return ErrCapacityOverflow
	}
	return nil
}
