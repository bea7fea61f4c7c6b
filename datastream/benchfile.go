package datastream

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	randv2 "math/rand/v2"
	"os"
	"slices"

	"github.com/pkg/errors"
)

// 檔案格式（LittleEndian）：
// [8]byte  Magic: "SLBENCH1"
// uint16   Version: 1
// uint16   Reserved: 0
// uint32   DistCount
// 重複 DistCount 次（key 升冪）：
//   int64   Key
//   float64 Weight
// uint64   OpCount
// 重複 OpCount 次：
//   uint8   OperationType (0=Query,1=Insert,2=Delete)
//   int64   Key

var (
	benchMagic   = [8]byte{'S', 'L', 'B', 'E', 'N', 'C', 'H', '1'}
	benchVersion = uint16(1)
)

type BenchFile struct {
	Dist map[int64]float64
	Ops  []Operation
}

// Params 描述一個 bench 檔的產生參數
//   - N: key 數量
//   - A, B: Zipf 參數。A = 0 時使用均勻分布；否則需滿足 A > 1、B >= 1
//   - K: 操作數量（需 >= N，以保證每個 key 至少出現一次）
//   - Phase1Ratio: 第一階段佔 K 的比例，第一階段會覆蓋所有 key
//   - DeleteRatio: key 已在表中時產生 Delete 的機率
//   - SimpleKey: true 時 key 為 0..N-1，否則為不重複的隨機 uint32
type Params struct {
	N           int
	A           float64
	B           float64
	Seed        uint64
	K           int
	Phase1Ratio float64
	DeleteRatio float64
	SimpleKey   bool
}

// Validate 檢查參數是否能產生合法的 bench 檔
func (p Params) Validate() error {
	if p.N <= 0 {
		return errors.Errorf("invalid n: %d", p.N)
	}
	if p.A != 0 && (p.A <= 1.0 || p.B < 1.0) {
		return errors.Errorf("invalid zipf params: a=%v must >1, b=%v must >=1", p.A, p.B)
	}
	if p.K < p.N {
		return errors.Errorf("k (%d) must be >= n (%d) to ensure each key appears at least once", p.K, p.N)
	}
	if phase1 := p.phase1Size(); phase1 < p.N || phase1 > p.K {
		return errors.Errorf("phase1Size (%d) must satisfy n <= phase1Size <= k", phase1)
	}
	if p.DeleteRatio < 0.0 || p.DeleteRatio > 1.0 {
		return errors.Errorf("deleteRatio (%v) must be between 0.0 and 1.0", p.DeleteRatio)
	}
	return nil
}

func (p Params) phase1Size() int {
	return int(float64(p.K) * p.Phase1Ratio)
}

// GenerateBench 依 Params 產生操作序列。
// 規則：
//   - 第一階段先保證每個 key 至少出現一次，其餘由分布補齊後洗牌
//   - 第二階段直接由分布取樣
//   - key 不在表中時輸出 Insert；已在表中時以 DeleteRatio 輸出 Delete，否則 Query
func GenerateBench(p Params) (*BenchFile, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	r := randv2.New(randv2.NewPCG(p.Seed, 0))

	// 1) 建立 rank -> key 的隨機對應（不重複）
	rankToKey := make([]int64, p.N)
	if p.SimpleKey {
		for i := range rankToKey {
			rankToKey[i] = int64(i)
		}
		r.Shuffle(len(rankToKey), func(i, j int) { rankToKey[i], rankToKey[j] = rankToKey[j], rankToKey[i] })
	} else {
		check := make(map[int64]struct{}, p.N)
		for i := range rankToKey {
			genKey := int64(r.Uint32())
			for _, ok := check[genKey]; ok; _, ok = check[genKey] {
				genKey = int64(r.Uint32())
			}
			rankToKey[i] = genKey
			check[genKey] = struct{}{}
		}
	}

	// 2) 依 rank 計算理論機率，並決定取樣方式
	weights := make([]float64, p.N)
	var sample func() int
	if p.A == 0 {
		for i := range weights {
			weights[i] = 1.0 / float64(p.N)
		}
		sample = func() int { return r.IntN(p.N) }
	} else {
		var sumW float64
		for i := range weights {
			weights[i] = 1.0 / math.Pow(p.B+float64(i), p.A)
			sumW += weights[i]
		}
		for i := range weights {
			weights[i] /= sumW
		}
		zipf := randv2.NewZipf(r, p.A, p.B, uint64(p.N-1))
		sample = func() int { return int(zipf.Uint64()) }
	}

	bf := &BenchFile{
		Dist: make(map[int64]float64, p.N),
		Ops:  make([]Operation, 0, p.K),
	}
	for rank, key := range rankToKey {
		bf.Dist[key] = weights[rank]
	}

	// 3) 第一階段：前 n 個覆蓋所有 key，後面用分布補齊，最後打亂
	phase1Keys := make([]int64, p.phase1Size())
	copy(phase1Keys, rankToKey)
	for i := p.N; i < len(phase1Keys); i++ {
		phase1Keys[i] = rankToKey[sample()]
	}
	r.Shuffle(len(phase1Keys), func(i, j int) { phase1Keys[i], phase1Keys[j] = phase1Keys[j], phase1Keys[i] })

	present := make(map[int64]bool, p.N)
	emit := func(key int64) {
		op := OpInsert
		if present[key] {
			if r.Float64() < p.DeleteRatio {
				op = OpDelete
				present[key] = false
			} else {
				op = OpQuery
			}
		} else {
			present[key] = true
		}
		bf.Ops = append(bf.Ops, Operation{Type: op, Key: key})
	}
	for _, key := range phase1Keys {
		emit(key)
	}

	// 4) 第二階段：剩餘操作直接取樣
	for i := len(phase1Keys); i < p.K; i++ {
		emit(rankToKey[sample()])
	}
	return bf, nil
}

// WriteBenchFile 產生 bench 檔並寫入 filename
func WriteBenchFile(filename string, p Params) (*BenchFile, error) {
	bf, err := GenerateBench(p)
	if err != nil {
		return nil, err
	}
	file, err := os.Create(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", filename)
	}
	defer file.Close()

	if err := bf.Encode(file); err != nil {
		return nil, errors.Wrapf(err, "write %s", filename)
	}
	return bf, file.Close()
}

// Encode 以 SLBENCH1 格式寫出，分布依 key 升冪輸出以確保可重現
func (bf *BenchFile) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	put := func(v any) error {
		return binary.Write(bw, binary.LittleEndian, v)
	}

	// Header
	if _, err := bw.Write(benchMagic[:]); err != nil {
		return errors.Wrap(err, "write magic")
	}
	if err := put(benchVersion); err != nil {
		return errors.Wrap(err, "write version")
	}
	if err := put(uint16(0)); err != nil { // reserved
		return errors.Wrap(err, "write reserved")
	}

	keys := make([]int64, 0, len(bf.Dist))
	for k := range bf.Dist {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if err := put(uint32(len(keys))); err != nil {
		return errors.Wrap(err, "write dist count")
	}
	for _, k := range keys {
		if err := put(k); err != nil {
			return errors.Wrap(err, "write dist key")
		}
		if err := put(bf.Dist[k]); err != nil {
			return errors.Wrap(err, "write dist weight")
		}
	}

	if err := put(uint64(len(bf.Ops))); err != nil {
		return errors.Wrap(err, "write op count")
	}
	for _, op := range bf.Ops {
		if err := put(uint8(op.Type)); err != nil {
			return errors.Wrap(err, "write op type")
		}
		if err := put(op.Key); err != nil {
			return errors.Wrap(err, "write op key")
		}
	}
	return bw.Flush()
}

// ReadBenchFile 讀取 bin 檔案，回傳分布與操作序列
func ReadBenchFile(filename string) (*BenchFile, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	defer fd.Close()

	bf, err := DecodeBenchFile(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filename)
	}
	return bf, nil
}

// DecodeBenchFile 由 r 解析 SLBENCH1 格式
func DecodeBenchFile(r io.Reader) (*BenchFile, error) {
	br := bufio.NewReader(r)
	get := func(v any) error {
		return binary.Read(br, binary.LittleEndian, v)
	}

	var magic [8]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, errors.Wrap(err, "read magic")
	}
	if magic != benchMagic {
		return nil, errors.Errorf("invalid magic: %q", magic)
	}
	var ver, reserved uint16
	if err := get(&ver); err != nil {
		return nil, errors.Wrap(err, "read version")
	}
	if ver != benchVersion {
		return nil, errors.Errorf("unsupported version: %d", ver)
	}
	if err := get(&reserved); err != nil {
		return nil, errors.Wrap(err, "read reserved")
	}

	var distCount uint32
	if err := get(&distCount); err != nil {
		return nil, errors.Wrap(err, "read dist count")
	}
	dist := make(map[int64]float64, distCount)
	for i := uint32(0); i < distCount; i++ {
		var key int64
		var weight float64
		if err := get(&key); err != nil {
			return nil, errors.Wrapf(err, "read dist key %d", i)
		}
		if err := get(&weight); err != nil {
			return nil, errors.Wrapf(err, "read dist weight %d", i)
		}
		dist[key] = weight
	}

	var opCount uint64
	if err := get(&opCount); err != nil {
		return nil, errors.Wrap(err, "read op count")
	}
	ops := make([]Operation, 0, min(opCount, 1<<20))
	for i := uint64(0); i < opCount; i++ {
		var t uint8
		var key int64
		if err := get(&t); err != nil {
			return nil, errors.Wrapf(err, "read op %d", i)
		}
		if err := get(&key); err != nil {
			return nil, errors.Wrapf(err, "read op %d", i)
		}
		if OperationType(t) > OpDelete {
			return nil, errors.Errorf("op %d: unknown operation type %d", i, t)
		}
		ops = append(ops, Operation{Type: OperationType(t), Key: key})
	}

	return &BenchFile{Dist: dist, Ops: ops}, nil
}

// ToSequenceModel 將 BenchFile 轉為可重播的 SequenceModel
func (bf *BenchFile) ToSequenceModel() *SequenceModel {
	if bf == nil {
		return NewSequenceModelFromOps(nil)
	}
	return NewSequenceModelFromOps(bf.Ops)
}

// Entropy 計算分布的熵（單位：bit）
func (bf *BenchFile) Entropy() float64 {
	return EntropyFromDist(bf.Dist)
}

// EntropyFromDist 計算分布的熵（單位：bit）。
// dist 的 value 應為已正規化的機率；會自動忽略 <= 0 的值。
func EntropyFromDist(dist map[int64]float64) float64 {
	h := 0.0
	for _, p := range dist {
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
