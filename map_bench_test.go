package hashtable

import (
	"fmt"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"

	"github.com/Davidah121/An-Efficient-HashTable/hashing"
)

func BenchmarkMapPutGrow(b *testing.B) {
	perfbench.Open(b)
	for _, n := range []int{1 << 10, 1 << 14, 1 << 18} {
		b.Run(fmt.Sprintf("n=%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				m := NewMap[int, int](hashing.IntHasher)
				for k := 0; k < n; k++ {
					m.Put(k, k)
				}
			}
		})
	}
}

func BenchmarkMapGetHit(b *testing.B) {
	perfbench.Open(b)
	const n = 1 << 16
	m := NewMap[int, int](hashing.IntHasher)
	for k := 0; k < n; k++ {
		m.Put(k, k)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Get(i % n)
	}
}

func BenchmarkMapGetMiss(b *testing.B) {
	perfbench.Open(b)
	const n = 1 << 16
	m := NewMap[int, int](hashing.IntHasher)
	for k := 0; k < n; k++ {
		m.Put(k, k)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Get(n + i)
	}
}

func BenchmarkMapDeleteInsertChurn(b *testing.B) {
	perfbench.Open(b)
	const n = 1 << 14
	m := NewMap[int, int](hashing.IntHasher, WithCapacity[int, Pair[int, int]](n))
	for k := 0; k < n; k++ {
		m.Put(k, k)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k := i % n
		m.Delete(k)
		m.Put(k, k)
	}
}
