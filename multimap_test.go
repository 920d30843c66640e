package hashtable

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Davidah121/An-Efficient-HashTable/hashing"
)

func TestMultiMapBasic(t *testing.T) {
	m := NewMultiMap[string, int](hashing.StringHasher)
	require.NoError(t, m.Insert("a", 1))
	require.NoError(t, m.Insert("a", 2))
	require.NoError(t, m.Insert("b", 3))

	require.EqualValues(t, 3, m.Len())
	require.EqualValues(t, 2, m.KeyCount())
	require.EqualValues(t, 2, m.Count("a"))
	require.EqualValues(t, 1, m.Count("b"))
	require.EqualValues(t, 0, m.Count("c"))

	vs := m.Values("a")
	sort.Ints(vs)
	require.Equal(t, []int{1, 2}, vs)
}

func TestMultiMapEraseOneKeepsOtherValues(t *testing.T) {
	m := NewMultiMap[string, int](hashing.StringHasher)
	require.NoError(t, m.Insert("a", 1))
	require.NoError(t, m.Insert("a", 2))
	require.NoError(t, m.Insert("a", 3))

	require.True(t, m.EraseOne("a", func(v int) bool { return v == 2 }))
	require.EqualValues(t, 2, m.Count("a"))

	vs := m.Values("a")
	sort.Ints(vs)
	require.Equal(t, []int{1, 3}, vs)
}

func TestMultiMapEraseOneLastValueRemovesBucket(t *testing.T) {
	m := NewMultiMap[string, int](hashing.StringHasher)
	require.NoError(t, m.Insert("a", 1))
	require.NoError(t, m.Insert("b", 2))

	require.True(t, m.EraseOne("a", func(v int) bool { return v == 1 }))
	require.EqualValues(t, 1, m.KeyCount())
	require.False(t, m.EraseOne("a", func(v int) bool { return true }))
	require.EqualValues(t, 1, m.Count("b"))
}

func TestMultiMapEraseAll(t *testing.T) {
	m := NewMultiMap[string, int](hashing.StringHasher)
	for i := 0; i < 5; i++ {
		require.NoError(t, m.Insert("a", i))
	}
	require.NoError(t, m.Insert("b", 100))

	n := m.EraseAll("a")
	require.Equal(t, 5, n)
	require.EqualValues(t, 0, m.Count("a"))
	require.EqualValues(t, 1, m.KeyCount())
	require.EqualValues(t, 1, m.Len())
}

func TestMultiMapClearAndFastClear(t *testing.T) {
	m := NewMultiMap[string, int](hashing.StringHasher)
	for i := 0; i < 100; i++ {
		require.NoError(t, m.Insert("a", i))
	}
	buckets := m.BucketCount()

	m.FastClear()
	require.EqualValues(t, 0, m.Len())
	require.EqualValues(t, buckets, m.BucketCount())

	require.NoError(t, m.Insert("a", 1))
	m.Clear()
	require.EqualValues(t, 0, m.Len())
	require.EqualValues(t, 0, m.BucketCount())
}

func TestMultiMapAllVisitsEveryPair(t *testing.T) {
	m := NewMultiMap[int, int](hashing.IntHasher)
	want := 0
	for k := 0; k < 20; k++ {
		for j := 0; j < k%4+1; j++ {
			require.NoError(t, m.Insert(k, j))
			want++
		}
	}
	got := 0
	m.All(func(k, v int) bool {
		got++
		return true
	})
	require.Equal(t, want, got)
	require.Equal(t, want, m.Len())
}

func TestMultiMapShrinkToFit(t *testing.T) {
	m := NewMultiMap[string, int](hashing.StringHasher)
	for i := 0; i < 100; i++ {
		require.NoError(t, m.Insert("a", i))
	}
	require.Equal(t, 100, m.EraseAll("a"))

	m.ShrinkToFit()
	require.EqualValues(t, 0, m.Len())
	require.EqualValues(t, 0, m.KeyCount())

	require.NoError(t, m.Insert("b", 7))
	require.EqualValues(t, []int{7}, m.Values("b"))
}

func TestMultiMapClone(t *testing.T) {
	m := NewMultiMap[string, int](hashing.StringHasher)
	require.NoError(t, m.Insert("a", 1))
	require.NoError(t, m.Insert("a", 2))

	c := m.Clone()
	require.NoError(t, c.Insert("a", 3))
	require.EqualValues(t, 2, m.Count("a"))
	require.EqualValues(t, 3, c.Count("a"))
}
