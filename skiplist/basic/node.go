package basic

import "github.com/Hakuto4838/skipmap/skiplist"

// ref 是節點在 arena 中的 index
type ref int32

const nilRef ref = 0

type node[K any, V any] struct {
	key   K
	value V
	next  []ref
}

// alloc 取得一個高度為 height 的節點，優先重用已釋放的位置
func (sl *BasicSkipList[K, V]) alloc(key K, value V, height int) ref {
	if n := len(sl.free); n > 0 {
		x := sl.free[n-1]
		sl.free = sl.free[:n-1]
		nd := &sl.nodes[x]
		nd.key = key
		nd.value = value
		if cap(nd.next) >= height {
			nd.next = nd.next[:height]
			clear(nd.next)
		} else {
			nd.next = make([]ref, height)
		}
		return x
	}
	sl.nodes = append(sl.nodes, node[K, V]{
		key:   key,
		value: value,
		next:  make([]ref, height),
	})
	return ref(len(sl.nodes) - 1)
}

// release 清掉節點內容並放回 free list，tower 的底層陣列留給下次 alloc
func (sl *BasicSkipList[K, V]) release(x ref) {
	nd := &sl.nodes[x]
	var zk K
	var zv V
	nd.key = zk
	nd.value = zv
	nd.next = nd.next[:0]
	sl.free = append(sl.free, x)
}

// nodeView 實作 Nodelike 介面
type nodeView[K any, V any] struct {
	list *BasicSkipList[K, V]
	r    ref
}

func (nv nodeView[K, V]) GetKey() K {
	return nv.list.nodes[nv.r].key
}

func (nv nodeView[K, V]) GetValue() V {
	return nv.list.nodes[nv.r].value
}

func (nv nodeView[K, V]) GetLevel() int {
	if nv.r == nilRef {
		return nv.list.level - 1
	}
	return len(nv.list.nodes[nv.r].next) - 1
}

func (nv nodeView[K, V]) GetNextAt(level int) skiplist.Nodelike[K, V] {
	if level < 0 || level > nv.GetLevel() {
		return nil
	}
	nx := nv.list.nodes[nv.r].next[level]
	if nx == nilRef {
		return nil
	}
	return nodeView[K, V]{list: nv.list, r: nx}
}
