package skiplist

import (
	"io"
	"iter"
)

// Map 是有序 key/value 容器的對外合約。
// 實作不保證併發安全，多個 goroutine 共用同一個實例時需由呼叫端自行加鎖。
type Map[K any, V any] interface {
	// Set 插入或更新 key，更新時回傳舊值與 replaced=true
	Set(key K, value V) (prev V, replaced bool, err error)
	// Get 找不到 key 時回傳 ErrKeyNotFound
	Get(key K) (V, error)
	// Lookup 與 Get 相同，但以 found 表示是否存在
	Lookup(key K) (value V, found bool, err error)
	ContainsKey(key K) (bool, error)
	// Remove 刪除 key，不存在時 removed=false 且不回傳錯誤
	Remove(key K) (value V, removed bool, err error)
	Size() int

	Keys() iter.Seq[K]
	Values() iter.Seq[V]
	All() iter.Seq2[K, V]
	ForEach(action func(key K, value V))

	// Dump 輸出所有節點的 tower 結構，格式不保證穩定
	Dump(w io.Writer) error
}

// Analyable 提供分析功能的介面
type Analyable[K any, V any] interface {
	// GetHead 回傳虛擬 head，其 tower 即 front array
	GetHead() Nodelike[K, V]
	// GetMaxStats 獲取節點數和目前層數
	GetMaxStats() (size int, levels int)
	// Compare 使用 list 本身的排序規則比較兩個 key
	Compare(a, b K) int
}

type Nodelike[K any, V any] interface {
	GetKey() K
	GetValue() V
	// GetLevel 回傳 tower 最高層的 index (高度 - 1)
	GetLevel() int
	// GetNextAt 該層沒有下一個節點時回傳 nil
	GetNextAt(level int) Nodelike[K, V]
}
