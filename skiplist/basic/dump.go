package basic

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Dump 將 front 以及每個節點的 tower 由上到下寫到 w
func (sl *BasicSkipList[K, V]) Dump(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "front ->"); err != nil {
		return errors.Wrap(err, "dump front")
	}
	if err := sl.dumpTower(w, nilRef, sl.level); err != nil {
		return err
	}
	for x := sl.nodes[nilRef].next[0]; x != nilRef; x = sl.nodes[x].next[0] {
		nd := &sl.nodes[x]
		if _, err := fmt.Fprintf(w, "At [%v, %v] :\n", nd.key, nd.value); err != nil {
			return errors.Wrapf(err, "dump node %v", nd.key)
		}
		if err := sl.dumpTower(w, x, len(nd.next)); err != nil {
			return err
		}
	}
	return nil
}

func (sl *BasicSkipList[K, V]) dumpTower(w io.Writer, x ref, height int) error {
	next := sl.nodes[x].next
	for h := height - 1; h >= 0; h-- {
		var err error
		if nx := next[h]; nx == nilRef {
			_, err = fmt.Fprintf(w, "  Height = %d -> null\n", h+1)
		} else {
			_, err = fmt.Fprintf(w, "  Height = %d -> [%v, %v]\n", h+1, sl.nodes[nx].key, sl.nodes[nx].value)
		}
		if err != nil {
			return errors.Wrap(err, "dump tower")
		}
	}
	return nil
}
