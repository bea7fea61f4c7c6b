package basic

// findPrev 從最高層往下走，update[h] 記錄第 h 層最後一個 key < target 的節點。
// 回傳第 0 層第一個 key >= target 的節點，沒有則回傳 nilRef。
// update 為 nil 時只搜尋不記錄。
func (sl *BasicSkipList[K, V]) findPrev(key K, update []ref) ref {
	cur := nilRef
	for h := sl.level - 1; h >= 0; h-- {
		for {
			nx := sl.nodes[cur].next[h]
			if nx == nilRef || sl.compare(sl.nodes[nx].key, key) >= 0 {
				break
			}
			cur = nx
		}
		if update != nil {
			update[h] = cur
		}
	}
	return sl.nodes[cur].next[0]
}

// find 回傳 key 對應的節點，不存在時回傳 nilRef
func (sl *BasicSkipList[K, V]) find(key K) ref {
	x := sl.findPrev(key, nil)
	if x != nilRef && sl.compare(sl.nodes[x].key, key) == 0 {
		return x
	}
	return nilRef
}

// randomHeight 從 1 開始，每次以 prob 的機率加一層
func (sl *BasicSkipList[K, V]) randomHeight() int {
	h := 1
	for h < MaxHeight && sl.rand.Float64() < sl.prob {
		h++
	}
	return h
}

// grow 確保 front 與 update 至少有 height 層，保留 update 目前的內容
func (sl *BasicSkipList[K, V]) grow(height int) {
	front := sl.nodes[nilRef].next
	if height <= len(front) {
		return
	}
	sl.nodes[nilRef].next = append(front, make([]ref, height-len(front))...)
	update := make([]ref, height)
	copy(update, sl.update)
	sl.update = update
}
