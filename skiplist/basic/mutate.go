package basic

// Set 插入或更新 key。key 已存在時只替換 value，回傳舊值與 replaced=true。
func (sl *BasicSkipList[K, V]) Set(key K, value V) (prev V, replaced bool, err error) {
	if err = sl.checkKey(key); err != nil {
		return prev, false, err
	}

	x := sl.findPrev(key, sl.update)
	if x != nilRef && sl.compare(sl.nodes[x].key, key) == 0 {
		nd := &sl.nodes[x]
		prev, nd.value = nd.value, value
		return prev, true, nil
	}

	height := sl.randomHeight()
	if height > sl.level {
		sl.grow(height)
		// 新的層還沒有任何節點，前驅一律是 head
		for h := sl.level; h < height; h++ {
			sl.update[h] = nilRef
		}
		sl.level = height
	}

	x = sl.alloc(key, value, height)
	next := sl.nodes[x].next
	for h := 0; h < height; h++ {
		pn := sl.nodes[sl.update[h]].next
		next[h] = pn[h]
		pn[h] = x
	}
	sl.size++
	return prev, false, nil
}

// Remove 刪除 key 並回傳其 value。key 不存在時 removed=false。
func (sl *BasicSkipList[K, V]) Remove(key K) (value V, removed bool, err error) {
	if err = sl.checkKey(key); err != nil {
		return value, false, err
	}

	x := sl.findPrev(key, sl.update)
	if x == nilRef || sl.compare(sl.nodes[x].key, key) != 0 {
		return value, false, nil
	}

	// 前驅不再指向 x 時代表已超過 x 的 tower 高度
	for h := 0; h < sl.level; h++ {
		pn := sl.nodes[sl.update[h]].next
		if pn[h] != x {
			break
		}
		pn[h] = sl.nodes[x].next[h]
	}

	front := sl.nodes[nilRef].next
	for sl.level > 1 && front[sl.level-1] == nilRef {
		sl.level--
	}

	value = sl.nodes[x].value
	sl.release(x)
	sl.size--
	return value, true, nil
}
