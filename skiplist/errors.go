package skiplist

import "github.com/pkg/errors"

var (
	// ErrNilKey key 為 nil (pointer、interface、map、slice、func、chan)
	ErrNilKey = errors.New("skiplist: nil key")
	// ErrKeyNotFound key 格式正確但不存在
	ErrKeyNotFound = errors.New("skiplist: key not found")
	// ErrInvalidProbability 升層機率必須落在 (0, 1)
	ErrInvalidProbability = errors.New("skiplist: leveling probability must be in (0, 1)")
)

// IsNotFound 判斷 err 是否為 ErrKeyNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}
