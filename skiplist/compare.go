package skiplist

import (
	"cmp"
	"fmt"
	"reflect"
	"strings"
)

// Comparator 回傳負數、0、正數分別代表 a < b、a == b、a > b
type Comparator[K any] func(a, b K) int

// OrderedCompare 依 K 的自然順序比較
func OrderedCompare[K cmp.Ordered](a, b K) int {
	return cmp.Compare(a, b)
}

// TextualCompare 以 fmt.Sprint 後的字串做字典序比較。
// 數值 key 的順序會與數值大小不同 (例如 "10" < "9")，只適合字串類的 key。
func TextualCompare[K any](a, b K) int {
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// Nilable 回報 K 的值是否可能為 nil
func Nilable[K any]() bool {
	t := reflect.TypeFor[K]()
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	}
	return false
}

// IsNilKey 判斷 key 是否為 nil
func IsNilKey[K any](key K) bool {
	v := any(key)
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}
