package basic

import (
	"bytes"
	"maps"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/Hakuto4838/skipmap/skiplist"
	"github.com/Hakuto4838/skipmap/skiplist/analyTool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptSource 依序回傳預先排好的亂數，用來控制節點高度
type scriptSource struct {
	vals []float64
	i    int
}

func (s *scriptSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func checkStruct[K any, V any](t *testing.T, sl *BasicSkipList[K, V]) {
	t.Helper()
	require.NoError(t, analyTool.CheckStruct[K, V](sl))
}

func TestBasicSkipListInterface(t *testing.T) {
	var _ skiplist.Map[int, string] = (*BasicSkipList[int, string])(nil)
	var _ skiplist.Analyable[int, string] = (*BasicSkipList[int, string])(nil)
	var _ skiplist.Nodelike[int, string] = nodeView[int, string]{}
}

func TestBasicSkipListBasic(t *testing.T) {
	sl := NewBasicSkipList[int, int](42)
	keys := []int{5, 3, 8, 1}
	for _, k := range keys {
		_, replaced, err := sl.Set(k, k*10)
		require.NoError(t, err)
		require.False(t, replaced)
	}

	assert.Equal(t, []int{1, 3, 5, 8}, slices.Collect(sl.Keys()))
	assert.Equal(t, []int{10, 30, 50, 80}, slices.Collect(sl.Values()))

	v, err := sl.Get(3)
	require.NoError(t, err)
	assert.Equal(t, 30, v)

	v, removed, err := sl.Remove(3)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 30, v)

	_, err = sl.Get(3)
	assert.ErrorIs(t, err, skiplist.ErrKeyNotFound)
	assert.Equal(t, 3, sl.Size())
	checkStruct(t, sl)
}

func TestEmptyList(t *testing.T) {
	sl, err := New[int, string]()
	require.NoError(t, err)

	_, err = sl.Get(7)
	assert.ErrorIs(t, err, skiplist.ErrKeyNotFound)

	ok, err := sl.ContainsKey(7)
	require.NoError(t, err)
	assert.False(t, ok)

	_, removed, err := sl.Remove(7)
	require.NoError(t, err)
	assert.False(t, removed)

	assert.Equal(t, 0, sl.Size())
	assert.Empty(t, slices.Collect(sl.Keys()))
	_, levels := sl.GetMaxStats()
	assert.Equal(t, 1, levels)
	checkStruct(t, sl)
}

func TestSetReplace(t *testing.T) {
	sl := NewBasicSkipList[string, int](1)
	_, _, err := sl.Set("a", 1)
	require.NoError(t, err)

	prev, replaced, err := sl.Set("a", 2)
	require.NoError(t, err)
	assert.True(t, replaced)
	assert.Equal(t, 1, prev)
	assert.Equal(t, 1, sl.Size())

	v, err := sl.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestNilKey(t *testing.T) {
	cmpPtr := func(a, b *int) int { return *a - *b }
	sl, err := NewWithComparator[*int, string](cmpPtr, WithSeed(3))
	require.NoError(t, err)

	one := 1
	_, _, err = sl.Set(&one, "one")
	require.NoError(t, err)

	_, _, err = sl.Set(nil, "x")
	assert.ErrorIs(t, err, skiplist.ErrNilKey)
	_, err = sl.Get(nil)
	assert.ErrorIs(t, err, skiplist.ErrNilKey)
	assert.False(t, skiplist.IsNotFound(err))
	_, _, err = sl.Remove(nil)
	assert.ErrorIs(t, err, skiplist.ErrNilKey)
	it, err := sl.Seek(nil)
	assert.ErrorIs(t, err, skiplist.ErrNilKey)
	assert.Nil(t, it)

	// 只有 not found 會被轉成 false
	_, err = sl.ContainsKey(nil)
	assert.ErrorIs(t, err, skiplist.ErrNilKey)

	assert.Equal(t, 1, sl.Size())
	checkStruct(t, sl)
}

func TestNilInterfaceKey(t *testing.T) {
	sl, err := NewTextual[any, int]()
	require.NoError(t, err)
	_, _, err = sl.Set(nil, 1)
	assert.ErrorIs(t, err, skiplist.ErrNilKey)
	_, _, err = sl.Set("k", 1)
	assert.NoError(t, err)
}

func TestLookup(t *testing.T) {
	sl := NewBasicSkipList[int, string](5)
	_, _, err := sl.Set(1, "a")
	require.NoError(t, err)

	v, found, err := sl.Lookup(1)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", v)

	v, found, err = sl.Lookup(2)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "", v)
}

func TestRemoveIdempotent(t *testing.T) {
	sl := NewBasicSkipList[int, int](7)
	for i := 0; i < 20; i++ {
		_, _, err := sl.Set(i, i)
		require.NoError(t, err)
	}

	v, removed, err := sl.Remove(10)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 10, v)
	after := slices.Collect(sl.Keys())

	_, removed, err = sl.Remove(10)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, after, slices.Collect(sl.Keys()))
	assert.Equal(t, 19, sl.Size())
	checkStruct(t, sl)
}

func TestInsertRemoveRoundTrip(t *testing.T) {
	sl := NewBasicSkipList[int, int](11)
	for _, k := range []int{4, 2, 9, 7} {
		_, _, err := sl.Set(k, k*k)
		require.NoError(t, err)
	}
	before := maps.Collect(sl.All())

	_, _, err := sl.Set(5, 25)
	require.NoError(t, err)
	_, removed, err := sl.Remove(5)
	require.NoError(t, err)
	require.True(t, removed)

	assert.Equal(t, before, maps.Collect(sl.All()))
	assert.Equal(t, []int{2, 4, 7, 9}, slices.Collect(sl.Keys()))
	assert.Equal(t, len(before), sl.Size())
	for k, v := range before {
		got, err := sl.Get(k)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
	ok, err := sl.ContainsKey(5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIncreasingInsertKeepsLevels(t *testing.T) {
	sl := NewBasicSkipList[int, int](42)
	for i := 0; i < 300; i++ {
		_, _, err := sl.Set(i, i)
		require.NoError(t, err)
		require.NoError(t, analyTool.CheckStruct[int, int](sl), "after inserting %d", i)
	}
}

func TestRandomOperations(t *testing.T) {
	sl, err := New[int, int](WithSeed(99))
	require.NoError(t, err)
	model := map[int]int{}
	r := rand.New(rand.NewSource(2024))

	for i := 0; i < 5000; i++ {
		k := r.Intn(500)
		switch r.Intn(3) {
		case 0, 1:
			prev, replaced, err := sl.Set(k, i)
			require.NoError(t, err)
			old, exists := model[k]
			require.Equal(t, exists, replaced)
			if exists {
				require.Equal(t, old, prev)
			}
			model[k] = i
		case 2:
			v, removed, err := sl.Remove(k)
			require.NoError(t, err)
			old, exists := model[k]
			require.Equal(t, exists, removed)
			if exists {
				require.Equal(t, old, v)
			}
			delete(model, k)
		}

		if i%250 == 0 {
			checkStruct(t, sl)
		}
	}

	require.Equal(t, len(model), sl.Size())
	require.Equal(t, slices.Sorted(maps.Keys(model)), slices.Collect(sl.Keys()))
	for k := 0; k < 500; k++ {
		v, err := sl.Get(k)
		if want, ok := model[k]; ok {
			require.NoError(t, err)
			require.Equal(t, want, v)
		} else {
			require.ErrorIs(t, err, skiplist.ErrKeyNotFound)
		}
	}
	checkStruct(t, sl)
}

func TestLevelTrimAfterRemove(t *testing.T) {
	src := &scriptSource{vals: []float64{0.1, 0.1, 0.9, 0.9, 0.9}}
	sl, err := New[int, int](WithRandSource(src))
	require.NoError(t, err)

	_, _, err = sl.Set(2, 20) // 高度 3
	require.NoError(t, err)
	_, _, err = sl.Set(1, 10) // 高度 1
	require.NoError(t, err)
	_, _, err = sl.Set(3, 30) // 高度 1
	require.NoError(t, err)

	_, levels := sl.GetMaxStats()
	require.Equal(t, 3, levels)
	assert.Equal(t, []int{3, 1, 1}, analyTool.CountLevel[int, int](sl))

	_, removed, err := sl.Remove(2)
	require.NoError(t, err)
	require.True(t, removed)

	_, levels = sl.GetMaxStats()
	assert.Equal(t, 1, levels)
	assert.Equal(t, []int{1, 3}, slices.Collect(sl.Keys()))
	checkStruct(t, sl)
}

func TestHeightCapped(t *testing.T) {
	sl, err := New[int, int](WithRandSource(&scriptSource{vals: []float64{0}}))
	require.NoError(t, err)
	_, _, err = sl.Set(1, 1)
	require.NoError(t, err)

	_, levels := sl.GetMaxStats()
	assert.Equal(t, MaxHeight, levels)
	checkStruct(t, sl)
}

func TestHeightDistribution(t *testing.T) {
	sl := NewBasicSkipList[int, int](123)
	const n = 20000
	for i := 0; i < n; i++ {
		_, _, err := sl.Set(i, i)
		require.NoError(t, err)
	}
	counts := analyTool.CountLevel[int, int](sl)
	require.Equal(t, n, counts[0])
	// p = 0.5 時每上一層節點數約減半
	ratio := float64(counts[1]) / float64(counts[0])
	assert.InDelta(t, 0.5, ratio, 0.05)
	ratio = float64(counts[2]) / float64(counts[1])
	assert.InDelta(t, 0.5, ratio, 0.05)
}

func TestInvalidProbability(t *testing.T) {
	for _, p := range []float64{0, 1, -0.5, 1.5} {
		_, err := New[int, int](WithProbability(p))
		assert.ErrorIs(t, err, skiplist.ErrInvalidProbability, "p=%v", p)
	}
	_, err := NewWithComparator[int, int](nil)
	assert.Error(t, err)

	sl, err := New[int, int](WithProbability(0.25), WithSeed(1))
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		_, _, err := sl.Set(i, i)
		require.NoError(t, err)
	}
	checkStruct(t, sl)
}

func TestTextualOrder(t *testing.T) {
	sl, err := NewTextual[int, int](WithSeed(8))
	require.NoError(t, err)
	for _, k := range []int{9, 10, 1, 100} {
		_, _, err := sl.Set(k, k)
		require.NoError(t, err)
	}
	// 字典序而非數值順序
	assert.Equal(t, []int{1, 10, 100, 9}, slices.Collect(sl.Keys()))
}

func TestIteratorAndSeek(t *testing.T) {
	sl := NewBasicSkipList[int, string](4)
	for _, k := range []int{10, 20, 30, 40} {
		_, _, err := sl.Set(k, strings.Repeat("x", k/10))
		require.NoError(t, err)
	}

	var got []int
	for k := range sl.Keys() {
		if k > 20 {
			break
		}
		got = append(got, k)
	}
	assert.Equal(t, []int{10, 20}, got)

	it, err := sl.Seek(25)
	require.NoError(t, err)
	require.True(t, it.Valid())
	assert.Equal(t, 30, it.Key())
	assert.Equal(t, "xxx", it.Value())
	it.Next()
	assert.Equal(t, 40, it.Key())
	it.Next()
	assert.False(t, it.Valid())
	it.Next()
	assert.False(t, it.Valid())

	it, err = sl.Seek(41)
	require.NoError(t, err)
	assert.False(t, it.Valid())

	var pairs []string
	sl.ForEach(func(k int, v string) {
		pairs = append(pairs, v)
	})
	assert.Equal(t, []string{"x", "xx", "xxx", "xxxx"}, pairs)
}

func TestDump(t *testing.T) {
	src := &scriptSource{vals: []float64{0.1, 0.9, 0.9}}
	sl, err := New[int, int](WithRandSource(src))
	require.NoError(t, err)
	_, _, err = sl.Set(5, 50) // 高度 2
	require.NoError(t, err)
	_, _, err = sl.Set(1, 10) // 高度 1
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sl.Dump(&buf))
	want := strings.Join([]string{
		"front ->",
		"  Height = 2 -> [5, 50]",
		"  Height = 1 -> [1, 10]",
		"At [1, 10] :",
		"  Height = 1 -> [5, 50]",
		"At [5, 50] :",
		"  Height = 2 -> null",
		"  Height = 1 -> null",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestSlotReuse(t *testing.T) {
	sl := NewBasicSkipList[int, int](6)
	for i := 0; i < 10; i++ {
		_, _, err := sl.Set(i, i)
		require.NoError(t, err)
	}
	arena := len(sl.nodes)
	for i := 0; i < 5; i++ {
		_, _, err := sl.Remove(i)
		require.NoError(t, err)
	}
	for i := 100; i < 105; i++ {
		_, _, err := sl.Set(i, i)
		require.NoError(t, err)
	}
	assert.Equal(t, arena, len(sl.nodes))
	assert.Equal(t, []int{5, 6, 7, 8, 9, 100, 101, 102, 103, 104}, slices.Collect(sl.Keys()))
	checkStruct(t, sl)
}

func TestClear(t *testing.T) {
	sl := NewBasicSkipList[int, int](9)
	for i := 0; i < 100; i++ {
		_, _, err := sl.Set(i, i)
		require.NoError(t, err)
	}
	sl.Clear()
	assert.Equal(t, 0, sl.Size())
	assert.Empty(t, slices.Collect(sl.Keys()))
	checkStruct(t, sl)

	// 底層陣列不再持有舊節點
	require.GreaterOrEqual(t, cap(sl.nodes), 101)
	for i, nd := range sl.nodes[1:101] {
		require.Zero(t, nd.key, "slot %d", i+1)
		require.Zero(t, nd.value, "slot %d", i+1)
		require.Nil(t, nd.next, "slot %d", i+1)
	}

	_, _, err := sl.Set(1, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, slices.Collect(sl.Keys()))
}

func TestFastSource(t *testing.T) {
	sl, err := New[int64, int64](WithRandSource(skiplist.NewFastSource(17)), WithCapacity(1000))
	require.NoError(t, err)
	for i := int64(0); i < 1000; i++ {
		_, _, err := sl.Set(i, i)
		require.NoError(t, err)
	}
	checkStruct(t, sl)
	assert.Equal(t, 1000, sl.Size())
}

func BenchmarkSet(b *testing.B) {
	sl := NewBasicSkipList[int, int](1)
	r := rand.New(rand.NewSource(1))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sl.Set(r.Int(), i)
	}
}

func BenchmarkGet(b *testing.B) {
	const n = 100000
	sl := NewBasicSkipList[int, int](1)
	for i := 0; i < n; i++ {
		sl.Set(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sl.Get(i % n)
	}
}

func BenchmarkSetRemove(b *testing.B) {
	sl := NewBasicSkipList[int, int](1)
	for i := 0; i < b.N; i++ {
		sl.Set(i, i)
		sl.Remove(i)
	}
}
