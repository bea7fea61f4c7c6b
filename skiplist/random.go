package skiplist

import (
	"math/rand"

	"github.com/valyala/fastrand"
)

// RandSource 產生 [0, 1) 的亂數，用來決定新節點的高度
type RandSource interface {
	Float64() float64
}

// NewSeededSource 回傳以 seed 初始化的 math/rand 來源，相同 seed 會得到相同的高度序列
func NewSeededSource(seed int64) RandSource {
	return rand.New(rand.NewSource(seed))
}

// FastSource 以 fastrand.RNG 實作 RandSource，比 math/rand 快，適合 benchmark
type FastSource struct {
	rng fastrand.RNG
}

// zeroSeed 取代 seed 0，fastrand 在狀態為 0 時會改用全域亂數重新播種
const zeroSeed = 0x9e3779b9

func NewFastSource(seed uint32) *FastSource {
	if seed == 0 {
		seed = zeroSeed
	}
	s := &FastSource{}
	s.rng.Seed(seed)
	return s
}

// Float64 取 24 bits 組成 [0, 1) 的浮點數
func (s *FastSource) Float64() float64 {
	return float64(s.rng.Uint32()>>8) / (1 << 24)
}
