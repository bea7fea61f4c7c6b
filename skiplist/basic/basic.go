package basic

import (
	"cmp"
	"time"

	"github.com/Hakuto4838/skipmap/skiplist"
	"github.com/pkg/errors"
)

const (
	// MaxHeight 單一節點 tower 的高度上限
	MaxHeight          = 32
	defaultProbability = 0.5
	initialHeight      = 16
)

// BasicSkipList 以 arena 保存節點的 skip list。
// nodes[0] 是虛擬 head，它的 tower 就是 front array；
// 沒有任何 tower 會指回 head，所以 ref 0 同時代表「空連結」。
//
// 不是併發安全的，同一個實例只能由一個 goroutine 操作。
type BasicSkipList[K any, V any] struct {
	nodes   []node[K, V]
	free    []ref
	update  []ref // predecessor vector，長度與 front 相同
	level   int
	size    int
	prob    float64
	compare skiplist.Comparator[K]
	rand    skiplist.RandSource
	nilable bool
}

type options struct {
	prob     float64
	rand     skiplist.RandSource
	capacity int
}

type Option func(*options)

// WithProbability 設定升層機率，必須落在 (0, 1)
func WithProbability(p float64) Option {
	return func(o *options) {
		o.prob = p
	}
}

// WithRandSource 指定亂數來源
func WithRandSource(src skiplist.RandSource) Option {
	return func(o *options) {
		o.rand = src
	}
}

// WithSeed 使用 seed 建立可重現的亂數來源
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rand = skiplist.NewSeededSource(seed)
	}
}

// WithCapacity 預先配置 n 個節點的空間
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// New 建立以 K 自然順序排序的 skip list
func New[K cmp.Ordered, V any](opts ...Option) (*BasicSkipList[K, V], error) {
	return NewWithComparator[K, V](skiplist.OrderedCompare[K], opts...)
}

// NewTextual 建立以 key 字串表示做字典序排序的 skip list。
// 數值或結構型別的 key 請改用 New 或 NewWithComparator。
func NewTextual[K any, V any](opts ...Option) (*BasicSkipList[K, V], error) {
	return NewWithComparator[K, V](skiplist.TextualCompare[K], opts...)
}

func NewWithComparator[K any, V any](compare skiplist.Comparator[K], opts ...Option) (*BasicSkipList[K, V], error) {
	if compare == nil {
		return nil, errors.New("basic: nil comparator")
	}
	o := options{prob: defaultProbability}
	for _, opt := range opts {
		opt(&o)
	}
	if !(o.prob > 0 && o.prob < 1) {
		return nil, errors.Wrapf(skiplist.ErrInvalidProbability, "got %v", o.prob)
	}
	if o.rand == nil {
		o.rand = skiplist.NewSeededSource(time.Now().UnixNano())
	}
	return newList[K, V](compare, o), nil
}

// NewBasicSkipList 以預設機率與指定 seed 建立 skip list
func NewBasicSkipList[K cmp.Ordered, V any](seed int64) *BasicSkipList[K, V] {
	return newList[K, V](skiplist.OrderedCompare[K], options{
		prob: defaultProbability,
		rand: skiplist.NewSeededSource(seed),
	})
}

func newList[K any, V any](compare skiplist.Comparator[K], o options) *BasicSkipList[K, V] {
	sl := &BasicSkipList[K, V]{
		nodes:   make([]node[K, V], 1, max(o.capacity, 0)+1),
		update:  make([]ref, initialHeight),
		level:   1,
		prob:    o.prob,
		compare: compare,
		rand:    o.rand,
		nilable: skiplist.Nilable[K](),
	}
	sl.nodes[nilRef].next = make([]ref, initialHeight)
	return sl
}

func (sl *BasicSkipList[K, V]) checkKey(key K) error {
	if sl.nilable && skiplist.IsNilKey(key) {
		return skiplist.ErrNilKey
	}
	return nil
}

func (sl *BasicSkipList[K, V]) Get(key K) (V, error) {
	v, found, err := sl.Lookup(key)
	if err != nil {
		return v, err
	}
	if !found {
		return v, skiplist.ErrKeyNotFound
	}
	return v, nil
}

func (sl *BasicSkipList[K, V]) Lookup(key K) (value V, found bool, err error) {
	if err = sl.checkKey(key); err != nil {
		return value, false, err
	}
	if x := sl.find(key); x != nilRef {
		return sl.nodes[x].value, true, nil
	}
	return value, false, nil
}

// ContainsKey 只把 ErrKeyNotFound 轉成 false，其他錯誤照常回傳
func (sl *BasicSkipList[K, V]) ContainsKey(key K) (bool, error) {
	_, err := sl.Get(key)
	switch {
	case err == nil:
		return true, nil
	case skiplist.IsNotFound(err):
		return false, nil
	default:
		return false, err
	}
}

func (sl *BasicSkipList[K, V]) Size() int {
	return sl.size
}

// Clear 移除所有節點，level 回到 1
func (sl *BasicSkipList[K, V]) Clear() {
	clear(sl.nodes[nilRef].next)
	// 舊節點留在底層陣列會讓 key/value 無法被回收
	clear(sl.nodes[1:])
	sl.nodes = sl.nodes[:1]
	sl.free = sl.free[:0]
	sl.level = 1
	sl.size = 0
}

func (sl *BasicSkipList[K, V]) Compare(a, b K) int {
	return sl.compare(a, b)
}

func (sl *BasicSkipList[K, V]) GetHead() skiplist.Nodelike[K, V] {
	return nodeView[K, V]{list: sl, r: nilRef}
}

func (sl *BasicSkipList[K, V]) GetMaxStats() (int, int) {
	return sl.size, sl.level
}
