package basic

import "iter"

// Iterator 沿著第 0 層由小到大走訪，只能前進。
// 走訪期間修改 list 的結果未定義。
type Iterator[K any, V any] struct {
	list *BasicSkipList[K, V]
	p    ref
}

// Iterator 回傳停在最小 key 上的 Iterator
func (sl *BasicSkipList[K, V]) Iterator() *Iterator[K, V] {
	return &Iterator[K, V]{
		list: sl,
		p:    sl.nodes[nilRef].next[0],
	}
}

// Seek 回傳停在第一個 key >= target 的 Iterator，nil key 回傳 ErrNilKey
func (sl *BasicSkipList[K, V]) Seek(key K) (*Iterator[K, V], error) {
	if err := sl.checkKey(key); err != nil {
		return nil, err
	}
	return &Iterator[K, V]{
		list: sl,
		p:    sl.findPrev(key, nil),
	}, nil
}

func (it *Iterator[K, V]) Valid() bool {
	return it.p != nilRef
}

func (it *Iterator[K, V]) Next() {
	if it.p != nilRef {
		it.p = it.list.nodes[it.p].next[0]
	}
}

func (it *Iterator[K, V]) Key() K {
	return it.list.nodes[it.p].key
}

func (it *Iterator[K, V]) Value() V {
	return it.list.nodes[it.p].value
}

func (sl *BasicSkipList[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := sl.Iterator(); it.Valid(); it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

func (sl *BasicSkipList[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for it := sl.Iterator(); it.Valid(); it.Next() {
			if !yield(it.Key()) {
				return
			}
		}
	}
}

func (sl *BasicSkipList[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for it := sl.Iterator(); it.Valid(); it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// ForEach 依 key 升冪對每一組 key/value 呼叫 action
func (sl *BasicSkipList[K, V]) ForEach(action func(key K, value V)) {
	for x := sl.nodes[nilRef].next[0]; x != nilRef; x = sl.nodes[x].next[0] {
		action(sl.nodes[x].key, sl.nodes[x].value)
	}
}
