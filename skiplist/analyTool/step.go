package analyTool

import "github.com/Hakuto4838/skipmap/skiplist"

type StepMap[K comparable] map[K]int

// FindStep 計算找到指定 key 的總步數和各層步數，向下移動一層也算一步
func FindStep[K any, V any](sl skiplist.Analyable[K, V], key K) (step int, level []int) {
	step, level, _ = findStep(sl, key)
	return step, level
}

func findStep[K any, V any](sl skiplist.Analyable[K, V], key K) (int, []int, bool) {
	_, levels := sl.GetMaxStats()
	stepsPerLevel := make([]int, levels)
	cur := sl.GetHead()
	totalSteps := 0

	for h := levels - 1; h >= 0; h-- {
		levelSteps := 0
		for {
			next := cur.GetNextAt(h)
			if next == nil || sl.Compare(next.GetKey(), key) >= 0 {
				break
			}
			cur = next
			levelSteps++
		}

		// 如果找到目標 key，記錄步數並返回
		if next := cur.GetNextAt(h); next != nil && sl.Compare(next.GetKey(), key) == 0 {
			levelSteps++ // 加上最後一步
			stepsPerLevel[h] = levelSteps
			return totalSteps + levelSteps, stepsPerLevel, true
		}

		stepsPerLevel[h] = levelSteps
		totalSteps += levelSteps + 1 // 加上向下移動
	}

	// 沒找到時回傳搜尋過程中的總步數
	return totalSteps, stepsPerLevel, false
}

// AnalyzeStep 根據 dist 提供的 key 出現機率計算平均搜尋步數，只計入存在於 list 中的 key
func AnalyzeStep[K comparable, V any](sl skiplist.Analyable[K, V], dist map[K]float64) (float64, StepMap[K]) {
	if len(dist) == 0 {
		return 0, nil
	}

	step := StepMap[K]{}
	var totalExpectedSteps, totalProbability float64
	for k, p := range dist {
		s, _, ok := findStep(sl, k)
		if !ok {
			continue
		}
		step[k] = s
		totalExpectedSteps += float64(s) * p
		totalProbability += p
	}

	if totalProbability > 0 {
		return totalExpectedSteps / totalProbability, step
	}
	return 0, step
}
