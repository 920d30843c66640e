package hashtable

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Davidah121/An-Efficient-HashTable/hashing"
)

func TestMultiSetBasic(t *testing.T) {
	s := NewMultiSet[string](hashing.StringHasher)
	require.NoError(t, s.Add("a"))
	require.NoError(t, s.Add("a"))
	require.NoError(t, s.Add("b"))

	require.EqualValues(t, 3, s.Len())
	require.EqualValues(t, 2, s.KeyCount())
	require.EqualValues(t, 2, s.Count("a"))
	require.EqualValues(t, 1, s.Count("b"))
	require.EqualValues(t, 0, s.Count("c"))
}

func TestMultiSetRemoveOneKeepsRemainder(t *testing.T) {
	s := NewMultiSet[string](hashing.StringHasher)
	for i := 0; i < 3; i++ {
		require.NoError(t, s.Add("a"))
	}
	require.True(t, s.RemoveOne("a"))
	require.EqualValues(t, 2, s.Count("a"))
}

func TestMultiSetRemoveOneLastOccurrenceRemovesBucket(t *testing.T) {
	s := NewMultiSet[string](hashing.StringHasher)
	require.NoError(t, s.Add("a"))
	require.NoError(t, s.Add("b"))

	require.True(t, s.RemoveOne("a"))
	require.EqualValues(t, 1, s.KeyCount())
	require.False(t, s.RemoveOne("a"))
	require.EqualValues(t, 1, s.Count("b"))
}

func TestMultiSetRemoveAll(t *testing.T) {
	s := NewMultiSet[string](hashing.StringHasher)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Add("a"))
	}
	require.NoError(t, s.Add("b"))

	n := s.RemoveAll("a")
	require.Equal(t, 5, n)
	require.EqualValues(t, 0, s.Count("a"))
	require.EqualValues(t, 1, s.Len())
}

func TestMultiSetAllVisitsEveryOccurrence(t *testing.T) {
	s := NewMultiSet[int](hashing.IntHasher)
	want := 0
	for k := 0; k < 20; k++ {
		for j := 0; j < k%3+1; j++ {
			require.NoError(t, s.Add(k))
			want++
		}
	}
	got := 0
	s.All(func(k int) bool {
		got++
		return true
	})
	require.Equal(t, want, got)
	require.Equal(t, want, s.Len())
}

func TestMultiSetClearAndFastClear(t *testing.T) {
	s := NewMultiSet[int](hashing.IntHasher)
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Add(i%10))
	}
	buckets := s.BucketCount()

	s.FastClear()
	require.EqualValues(t, 0, s.Len())
	require.EqualValues(t, buckets, s.BucketCount())

	require.NoError(t, s.Add(1))
	s.Clear()
	require.EqualValues(t, 0, s.Len())
	require.EqualValues(t, 0, s.BucketCount())
}

func TestMultiSetShrinkToFit(t *testing.T) {
	s := NewMultiSet[string](hashing.StringHasher)
	for i := 0; i < 100; i++ {
		require.NoError(t, s.Add("a"))
	}
	require.Equal(t, 100, s.RemoveAll("a"))

	s.ShrinkToFit()
	require.EqualValues(t, 0, s.Len())
	require.EqualValues(t, 0, s.KeyCount())

	require.NoError(t, s.Add("b"))
	require.EqualValues(t, 1, s.Count("b"))
}

func TestMultiSetClone(t *testing.T) {
	s := NewMultiSet[string](hashing.StringHasher)
	require.NoError(t, s.Add("a"))
	require.NoError(t, s.Add("a"))

	c := s.Clone()
	require.NoError(t, c.Add("a"))
	require.EqualValues(t, 2, s.Count("a"))
	require.EqualValues(t, 3, c.Count("a"))
}
