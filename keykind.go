package hashtable

import "reflect"

// isArithmeticKey reports whether K is one of Go's numeric kinds. Per
// spec §4.1, when the key type is arithmetic the cached full-hash
// comparison during probing can be elided: two distinct numeric keys that
// happen to share a partial hash and a 32/64-bit truncated hash still
// differ under ==, and == is cheap for numeric types, so there is nothing
// the extra hash comparison buys beyond what Eq already gives for free.
// For everything else (strings, structs, pointers-as-identity, ...) the
// cached hash is compared first to avoid an expensive Eq call.
func isArithmeticKey[K any]() bool {
	switch reflect.TypeOf(new(K)).Elem().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
