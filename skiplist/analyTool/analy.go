package analyTool

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Hakuto4838/skipmap/skiplist"
	"github.com/pkg/errors"
)

// PrintSkipList 打印 skip list 的結構，每層一行，沒有出現在該層的節點留白
func PrintSkipList[K any, V any](w io.Writer, sl skiplist.Analyable[K, V], maxLevel, maxNodes int) {
	_, levels := sl.GetMaxStats()
	maxLevel = min(maxLevel, levels-1)
	output := make([]strings.Builder, maxLevel+1)

	for i := maxLevel; i >= 0; i-- {
		fmt.Fprintf(&output[i], "level %d : ", i)
	}

	node := sl.GetHead().GetNextAt(0)
	if node == nil {
		fmt.Fprintln(w, "skip list is empty")
		return
	}

	for count := 0; node != nil && count < maxNodes; count++ {
		lv := node.GetLevel()
		for i := range output {
			if i <= lv {
				fmt.Fprintf(&output[i], "%3v ->", node.GetKey())
			} else {
				output[i].WriteString("    ->")
			}
		}
		node = node.GetNextAt(0)
	}

	for i := maxLevel; i >= 0; i-- {
		fmt.Fprintln(w, output[i].String())
	}
}

// PrintSkipListToCSV 將 skip list 的結構輸出到 CSV，第一欄是層號
func PrintSkipListToCSV[K any, V any](sl skiplist.Analyable[K, V], maxLevel, maxNodes int, writer *csv.Writer) error {
	_, levels := sl.GetMaxStats()
	maxLevel = min(maxLevel, levels-1)

	var nodes []skiplist.Nodelike[K, V]
	for node := sl.GetHead().GetNextAt(0); node != nil && len(nodes) < maxNodes; node = node.GetNextAt(0) {
		nodes = append(nodes, node)
	}

	for i := maxLevel; i >= 0; i-- {
		row := make([]string, 0, len(nodes)+1)
		row = append(row, fmt.Sprintf("level %d", i))
		for _, node := range nodes {
			if node.GetLevel() >= i {
				row = append(row, fmt.Sprint(node.GetKey()))
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrapf(err, "write level %d", i)
		}
	}
	writer.Flush()
	return writer.Error()
}

// PrintLink 打印每一層實際的連結順序
func PrintLink[K any, V any](w io.Writer, sl skiplist.Analyable[K, V], maxLevel, maxNodes int) {
	head := sl.GetHead()
	maxLevel = min(maxLevel, head.GetLevel())

	for i := maxLevel; i >= 0; i-- {
		fmt.Fprintf(w, "level %d : head ->", i)
		count := 0
		for node := head.GetNextAt(i); node != nil && count < maxNodes; node = node.GetNextAt(i) {
			fmt.Fprintf(w, " %v ->", node.GetKey())
			count++
		}
		fmt.Fprintln(w, " nil")
	}
}

// CheckStruct 檢查 skip list 的結構是否正確：
// 第 0 層嚴格遞增且節點數等於 size；tower 高度大於 i 的節點恰好依序串在第 i 層；
// 層數已收斂到最高非空的 front。
func CheckStruct[K any, V any](sl skiplist.Analyable[K, V]) error {
	size, levels := sl.GetMaxStats()
	if levels < 1 {
		return errors.Errorf("level count %d < 1", levels)
	}
	head := sl.GetHead()
	if head.GetLevel() != levels-1 {
		return errors.Errorf("head level %d does not match level count %d", head.GetLevel(), levels)
	}
	if levels > 1 && head.GetNextAt(levels-1) == nil {
		return errors.Errorf("top level %d is empty but level count is %d", levels-1, levels)
	}

	// list[i] 是目前在第 i 層最後一個看到的節點
	list := make([]skiplist.Nodelike[K, V], levels)
	for i := range list {
		list[i] = head
	}

	count := 0
	var prev skiplist.Nodelike[K, V]
	for node := head.GetNextAt(0); node != nil; node = node.GetNextAt(0) {
		count++
		if prev != nil && sl.Compare(prev.GetKey(), node.GetKey()) >= 0 {
			return errors.Errorf("level 0 not strictly increasing: %v before %v", prev.GetKey(), node.GetKey())
		}
		nodelv := node.GetLevel()
		if nodelv >= levels {
			return errors.Errorf("node %v level %d exceeds level count %d", node.GetKey(), nodelv, levels)
		}
		for i := 1; i <= nodelv; i++ {
			if next := list[i].GetNextAt(i); next != node {
				return errors.Errorf("level %d: node %v is not linked after its predecessor", i, node.GetKey())
			}
			list[i] = node
		}
		prev = node
	}

	for i := 1; i < levels; i++ {
		if next := list[i].GetNextAt(i); next != nil {
			return errors.Errorf("level %d: node %v is not present on level 0", i, next.GetKey())
		}
	}
	if count != size {
		return errors.Errorf("level 0 holds %d nodes but size is %d", count, size)
	}
	return nil
}

// CountLevel 計算每層的節點數量
func CountLevel[K any, V any](sl skiplist.Analyable[K, V]) []int {
	_, levels := sl.GetMaxStats()
	levelCounts := make([]int, levels)

	// 該節點存在於 level 0 到 nodeLevel 的所有層
	for current := sl.GetHead().GetNextAt(0); current != nil; current = current.GetNextAt(0) {
		for i := 0; i <= current.GetLevel() && i < levels; i++ {
			levelCounts[i]++
		}
	}
	return levelCounts
}

// PrintLevelCount 印出每層的節點數量
func PrintLevelCount[K any, V any](w io.Writer, sl skiplist.Analyable[K, V]) {
	size, levels := sl.GetMaxStats()
	levelCounts := CountLevel(sl)
	fmt.Fprintf(w, "level stats (nodes: %d, levels: %d):\n", size, levels)
	for i := levels - 1; i >= 0; i-- {
		fmt.Fprintf(w, "Level %2d: %d\n", i, levelCounts[i])
	}
}
