package hashtable

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/Davidah121/An-Efficient-HashTable/hashing"
)

func (m *Map[K, V]) toBuiltinMap() map[K]V {
	r := make(map[K]V)
	m.All(func(k K, v V) bool {
		r[k] = v
		return true
	})
	return r
}

func TestMapBasic(t *testing.T) {
	const count = 200
	m := NewMap[int, int](hashing.IntHasher)
	e := make(map[int]int)

	require.EqualValues(t, 0, m.Len())
	for i := 0; i < count; i++ {
		_, ok := m.Get(i)
		require.False(t, ok)
	}

	for i := 0; i < count; i++ {
		require.NoError(t, m.Put(i, i+count))
		e[i] = i + count
		v, ok := m.Get(i)
		require.True(t, ok)
		require.EqualValues(t, i+count, v)
		require.EqualValues(t, i+1, m.Len())
	}
	require.Equal(t, e, m.toBuiltinMap())

	for i := 0; i < count; i++ {
		require.NoError(t, m.Put(i, i+2*count))
		e[i] = i + 2*count
	}
	require.Equal(t, e, m.toBuiltinMap())
	require.EqualValues(t, count, m.Len())

	for i := 0; i < count; i++ {
		require.True(t, m.Delete(i))
		delete(e, i)
		require.EqualValues(t, count-i-1, m.Len())
		_, ok := m.Get(i)
		require.False(t, ok)
	}
	require.Equal(t, e, m.toBuiltinMap())
}

func TestMapEmptyTableIsUnallocated(t *testing.T) {
	m := NewMap[int, int](hashing.IntHasher)
	require.EqualValues(t, 0, m.BucketCount())
	require.False(t, m.Contains(0))
	m.Rehash() // must be a no-op, not a panic
	require.EqualValues(t, 0, m.BucketCount())
}

func TestMapTryPutAndAt(t *testing.T) {
	m := NewMap[string, int](hashing.StringHasher)

	it, err := m.TryPut("a", 1)
	require.NoError(t, err)
	require.True(t, it.Valid())
	require.EqualValues(t, 1, it.Value())

	it2, err := m.TryPut("a", 99)
	require.NoError(t, err)
	require.EqualValues(t, 1, it2.Value(), "TryPut must not overwrite an existing key")

	v, err := m.At("b")
	require.NoError(t, err)
	require.EqualValues(t, 0, *v)
	*v = 42
	got, ok := m.Get("b")
	require.True(t, ok)
	require.EqualValues(t, 42, got)
}

func TestMapDeleteBackShiftsControlPlane(t *testing.T) {
	// Insert and delete enough keys that long occupied runs form, so vacate's
	// backward-shift loop actually has displaced entries to move, not just
	// the trivial case.
	m := NewMap[int, int](hashing.IntHasher, WithEqual[int, Pair[int, int]](func(a, b int) bool { return a == b }))
	for i := 0; i < 5000; i++ {
		require.NoError(t, m.Put(i, i))
	}
	for i := 0; i < 5000; i += 2 {
		require.True(t, m.Delete(i))
	}
	for i := 0; i < 5000; i++ {
		v, ok := m.Get(i)
		if i%2 == 0 {
			require.False(t, ok)
		} else {
			require.True(t, ok)
			require.EqualValues(t, i, v)
		}
	}
	require.EqualValues(t, 2500, m.Len())
}

func TestMapIteratorSurvivesRehash(t *testing.T) {
	m := NewMap[int, int](hashing.IntHasher)
	require.NoError(t, m.Put(1, 100))
	it := m.Find(1)
	require.True(t, it.Valid())

	for i := 2; i < 10000; i++ {
		require.NoError(t, m.Put(i, i))
	}

	// it.bucketIdx is stale after the rehashes above, but the entry it names
	// is still valid: value_idx is stable across a rehash, and Erase
	// re-derives the bucket.
	require.EqualValues(t, 1, it.Key())
	require.EqualValues(t, 100, it.Value())
	it.Erase()
	_, ok := m.Get(1)
	require.False(t, ok)
}

func TestMapClearVsFastClear(t *testing.T) {
	m := NewMap[int, int](hashing.IntHasher)
	for i := 0; i < 100; i++ {
		require.NoError(t, m.Put(i, i))
	}
	buckets := m.BucketCount()

	m.FastClear()
	require.EqualValues(t, 0, m.Len())
	require.EqualValues(t, buckets, m.BucketCount(), "FastClear must retain capacity")

	for i := 0; i < 100; i++ {
		require.NoError(t, m.Put(i, i))
	}
	m.Clear()
	require.EqualValues(t, 0, m.Len())
	require.EqualValues(t, 0, m.BucketCount(), "Clear must deallocate")
}

func TestMapForceRehashOnEmptyIsNoop(t *testing.T) {
	m := NewMap[int, int](hashing.IntHasher)
	m.Rehash()
	require.EqualValues(t, 0, m.BucketCount())
}

func TestMapRandomAgainstBuiltin(t *testing.T) {
	m := NewMap[int, int](hashing.IntHasher)
	e := make(map[int]int)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20000; i++ {
		switch r := rng.Float64(); {
		case r < 0.5:
			k, v := rng.Intn(2000), rng.Int()
			require.NoError(t, m.Put(k, v))
			e[k] = v
		case r < 0.85:
			k := rng.Intn(2000)
			wantV, wantOK := e[k]
			gotV, gotOK := m.Get(k)
			require.Equal(t, wantOK, gotOK)
			if wantOK {
				require.Equal(t, wantV, gotV)
			}
		default:
			k := rng.Intn(2000)
			_, wantOK := e[k]
			delete(e, k)
			gotOK := m.Delete(k)
			require.Equal(t, wantOK, gotOK)
		}
	}
	require.Equal(t, e, m.toBuiltinMap())
	require.EqualValues(t, len(e), m.Len())
}

func TestMapClone(t *testing.T) {
	m := NewMap[int, int](hashing.IntHasher)
	for i := 0; i < 50; i++ {
		require.NoError(t, m.Put(i, i*i))
	}
	c := m.Clone()
	require.Equal(t, m.toBuiltinMap(), c.toBuiltinMap())

	require.NoError(t, c.Put(0, -1))
	got, _ := m.Get(0)
	require.EqualValues(t, 0, got, "mutating a clone must not affect the original")
}

func TestMapShrinkToFit(t *testing.T) {
	m := NewMap[int, int](hashing.IntHasher, WithCapacity[int, Pair[int, int]](10000))
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Put(i, i))
	}
	m.ShrinkToFit()
	require.Equal(t, m.toBuiltinMap(), map[int]int{0: 0, 1: 1, 2: 2, 3: 3, 4: 4, 5: 5, 6: 6, 7: 7, 8: 8, 9: 9})
}

func TestFindAsHeterogeneousLookup(t *testing.T) {
	type userID struct{ raw string }
	m := NewMap[userID, int](func(u userID) uint64 { return hashing.StringHasher(u.raw) })
	require.NoError(t, m.Put(userID{"alice"}, 1))

	v, ok := FindAs[userID, int, string](m, "alice", hashing.StringHasher, func(k userID, probe string) bool {
		return k.raw == probe
	})
	require.True(t, ok)
	require.EqualValues(t, 1, v)

	require.True(t, DeleteAs[userID, int, string](m, "alice", hashing.StringHasher, func(k userID, probe string) bool {
		return k.raw == probe
	}))
	require.EqualValues(t, 0, m.Len())
}

func TestMapCloneIsAFaithfulDeepCopy(t *testing.T) {
	m := NewMap[int, int](hashing.IntHasher)
	for i := 0; i < 300; i++ {
		require.NoError(t, m.Put(i, i*7))
	}
	c := m.Clone()
	// go-cmp gives a readable diff on failure, which require.Equal's
	// reflect.DeepEqual-based output does not for large maps.
	if diff := cmp.Diff(m.toBuiltinMap(), c.toBuiltinMap()); diff != "" {
		t.Fatalf("Clone produced a divergent snapshot (-original +clone):\n%s", diff)
	}
}

func TestMapCapacityOverflowGuard(t *testing.T) {
	err := checkCapacityOverflow(nonBigEntryLimit, false)
	require.ErrorIs(t, err, ErrCapacityOverflow)

	require.NoError(t, checkCapacityOverflow(nonBigEntryLimit, true))
	require.NoError(t, checkCapacityOverflow(nonBigEntryLimit-1, false))
}
