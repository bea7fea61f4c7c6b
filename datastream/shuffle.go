package datastream

import "math/rand"

// ShuffledKeys 回傳 0..n-1 打亂後的排列 (Fisher-Yates)
func ShuffledKeys(n int, r *rand.Rand) []int64 {
	keys := make([]int64, n)
	for i := range keys {
		keys[i] = int64(i)
	}
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		keys[i], keys[j] = keys[j], keys[i]
	}
	return keys
}
