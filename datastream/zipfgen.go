package datastream

import (
	"math"
	"math/rand"
)

// ZipfDataGenerator 產生符合 Zipf 分布的查詢序列，權重 1/(i+b)^a 在 index 上隨機打亂
type ZipfDataGenerator struct {
	n       int
	a, b    float64
	Weights []float64
	cdf     []float64
	rng     *rand.Rand
}

func NewZipfDataGenerator(n int, a, b float64, seed int64) *ZipfDataGenerator {
	rng := rand.New(rand.NewSource(seed))
	weights := make([]float64, n)
	var sum float64
	for i := 1; i <= n; i++ {
		weights[i-1] = 1.0 / math.Pow(float64(i)+b, a)
		sum += weights[i-1]
	}
	// 正規化
	for i := range weights {
		weights[i] /= sum
	}
	rng.Shuffle(len(weights), func(i, j int) {
		weights[i], weights[j] = weights[j], weights[i]
	})
	return &ZipfDataGenerator{
		n:       n,
		a:       a,
		b:       b,
		Weights: weights,
		cdf:     cumulative(weights),
		rng:     rng,
	}
}

// Next 產生一筆查詢 (回傳索引 0~n-1)
func (z *ZipfDataGenerator) Next() int {
	return searchCDF(z.cdf, z.rng.Float64())
}

// GenerateSequence 產生指定長度的查詢序列
func (z *ZipfDataGenerator) GenerateSequence(seqLen int) []int {
	seq := make([]int, seqLen)
	for i := range seq {
		seq[i] = z.Next()
	}
	return seq
}

func (z *ZipfDataGenerator) GetKeyMap() map[int64]float64 {
	result := make(map[int64]float64, z.n)
	for i, w := range z.Weights {
		result[int64(i)] = w
	}
	return result
}

func (z *ZipfDataGenerator) Entropy() float64 {
	return entropy(z.Weights)
}

func cumulative(weights []float64) []float64 {
	cdf := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		sum += w
		cdf[i] = sum
	}
	return cdf
}

// searchCDF 以二分搜尋找出第一個 cdf >= r 的 index
func searchCDF(cdf []float64, r float64) int {
	lo, hi := 0, len(cdf)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if r > cdf[mid] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func entropy(weights []float64) float64 {
	h := 0.0
	for _, p := range weights {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
