package datastream

import "math/rand"

// UniformDataGenerator 產生符合平均分布的查詢序列，每個索引出現機率皆相同
type UniformDataGenerator struct {
	n   int
	cdf []float64
	rng *rand.Rand
}

func NewUniformDataGenerator(n int, seed int64) *UniformDataGenerator {
	cdf := make([]float64, n)
	for i := 0; i < n; i++ {
		cdf[i] = float64(i+1) / float64(n)
	}
	return &UniformDataGenerator{
		n:   n,
		cdf: cdf,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Next 產生一筆查詢 (回傳索引 0~n-1)
func (u *UniformDataGenerator) Next() int {
	return searchCDF(u.cdf, u.rng.Float64())
}

func (u *UniformDataGenerator) GenerateSequence(seqLen int) []int {
	seq := make([]int, seqLen)
	for i := range seq {
		seq[i] = u.Next()
	}
	return seq
}

func (u *UniformDataGenerator) GetKeyMap() map[int64]float64 {
	result := make(map[int64]float64, u.n)
	for i := 0; i < u.n; i++ {
		result[int64(i)] = 1.0 / float64(u.n)
	}
	return result
}

func (u *UniformDataGenerator) Entropy() float64 {
	pdf := make([]float64, u.n)
	for i := range pdf {
		pdf[i] = 1.0 / float64(u.n)
	}
	return entropy(pdf)
}
