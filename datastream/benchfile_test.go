package datastream

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"
)

func floatAlmostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func testParams() Params {
	return Params{
		N:           16,
		A:           1.2,
		B:           1,
		Seed:        42,
		K:           400,
		Phase1Ratio: 0.25,
		DeleteRatio: 0.2,
		SimpleKey:   true,
	}
}

func TestWriteAndReadBenchFile(t *testing.T) {
	p := testParams()
	file := filepath.Join(t.TempDir(), "bench.bin")

	want, err := WriteBenchFile(file, p)
	if err != nil {
		t.Fatalf("WriteBenchFile error: %v", err)
	}
	bf, err := ReadBenchFile(file)
	if err != nil {
		t.Fatalf("ReadBenchFile error: %v", err)
	}

	// 驗證分布 map
	if len(bf.Dist) != len(want.Dist) {
		t.Fatalf("dist len mismatch: got %d, want %d", len(bf.Dist), len(want.Dist))
	}
	sum := 0.0
	for k, vexp := range want.Dist {
		vgot, ok := bf.Dist[k]
		if !ok {
			t.Fatalf("missing key in dist: %v", k)
		}
		if !floatAlmostEqual(vgot, vexp, 1e-12) {
			t.Fatalf("weight mismatch for key %v: got %v, want %v", k, vgot, vexp)
		}
		sum += vgot
	}
	if !floatAlmostEqual(sum, 1, 1e-9) {
		t.Fatalf("dist sum = %v, want 1", sum)
	}

	// 驗證操作序列
	if len(bf.Ops) != p.K {
		t.Fatalf("ops len mismatch: got %d, want %d", len(bf.Ops), p.K)
	}
	for i := range bf.Ops {
		if bf.Ops[i] != want.Ops[i] {
			t.Fatalf("op[%d] = %v, want %v", i, bf.Ops[i], want.Ops[i])
		}
	}
}

func TestGenerateBenchOperationRules(t *testing.T) {
	p := testParams()
	bf, err := GenerateBench(p)
	if err != nil {
		t.Fatalf("GenerateBench error: %v", err)
	}

	present := map[int64]bool{}
	deletes := 0
	for i, op := range bf.Ops {
		if _, ok := bf.Dist[op.Key]; !ok {
			t.Fatalf("op[%d] key %d not in dist", i, op.Key)
		}
		switch op.Type {
		case OpInsert:
			if present[op.Key] {
				t.Fatalf("op[%d] Insert on present key %d", i, op.Key)
			}
			present[op.Key] = true
		case OpQuery:
			if !present[op.Key] {
				t.Fatalf("op[%d] Query on absent key %d", i, op.Key)
			}
		case OpDelete:
			if !present[op.Key] {
				t.Fatalf("op[%d] Delete on absent key %d", i, op.Key)
			}
			present[op.Key] = false
			deletes++
		default:
			t.Fatalf("op[%d] unknown type %v", i, op.Type)
		}
	}
	if deletes == 0 {
		t.Errorf("expected some Delete ops with deleteRatio %v", p.DeleteRatio)
	}

	// 第一階段覆蓋所有 key
	phase1 := map[int64]bool{}
	for _, op := range bf.Ops[:p.phase1Size()] {
		phase1[op.Key] = true
	}
	if len(phase1) != p.N {
		t.Errorf("phase1 covers %d keys, want %d", len(phase1), p.N)
	}
}

func TestGenerateBenchDeterministic(t *testing.T) {
	p := testParams()
	p.SimpleKey = false
	a, err := GenerateBench(p)
	if err != nil {
		t.Fatalf("GenerateBench error: %v", err)
	}
	b, err := GenerateBench(p)
	if err != nil {
		t.Fatalf("GenerateBench error: %v", err)
	}
	for i := range a.Ops {
		if a.Ops[i] != b.Ops[i] {
			t.Fatalf("op[%d] differs: %v vs %v", i, a.Ops[i], b.Ops[i])
		}
	}
	if len(a.Dist) != p.N {
		t.Fatalf("random keys not unique: %d distinct, want %d", len(a.Dist), p.N)
	}
}

func TestGenerateBenchUniform(t *testing.T) {
	p := testParams()
	p.A = 0
	p.DeleteRatio = 0
	bf, err := GenerateBench(p)
	if err != nil {
		t.Fatalf("GenerateBench error: %v", err)
	}
	for k, w := range bf.Dist {
		if !floatAlmostEqual(w, 1.0/float64(p.N), 1e-12) {
			t.Fatalf("uniform weight for %d = %v", k, w)
		}
	}
	inserts := 0
	for _, op := range bf.Ops {
		if op.Type == OpDelete {
			t.Fatalf("deleteRatio 0 produced Delete")
		}
		if op.Type == OpInsert {
			inserts++
		}
	}
	if inserts != p.N {
		t.Errorf("inserts = %d, want %d", inserts, p.N)
	}
	if h := bf.Entropy(); !floatAlmostEqual(h, 4, 1e-9) {
		t.Errorf("entropy = %v, want 4", h)
	}
}

func TestGenerateBenchInvalidParams(t *testing.T) {
	cases := map[string]func(p *Params){
		"n":           func(p *Params) { p.N = 0 },
		"zipf a":      func(p *Params) { p.A = 0.5 },
		"zipf b":      func(p *Params) { p.B = 0.5 },
		"k < n":       func(p *Params) { p.K = p.N - 1 },
		"phase1":      func(p *Params) { p.Phase1Ratio = 0.01 },
		"phase1 > k":  func(p *Params) { p.Phase1Ratio = 1.5 },
		"deleteRatio": func(p *Params) { p.DeleteRatio = 1.1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := testParams()
			mutate(&p)
			if _, err := GenerateBench(p); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestDecodeBenchFileErrors(t *testing.T) {
	if _, err := DecodeBenchFile(bytes.NewReader([]byte("NOTBENCH\x01\x00"))); err == nil {
		t.Fatalf("expected error for bad magic")
	}

	bf := &BenchFile{
		Dist: map[int64]float64{1: 0.5, 2: 0.5},
		Ops:  []Operation{{Type: OpInsert, Key: 1}, {Type: OpQuery, Key: 1}},
	}
	var buf bytes.Buffer
	if err := bf.Encode(&buf); err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	raw := buf.Bytes()

	// 截斷
	if _, err := DecodeBenchFile(bytes.NewReader(raw[:len(raw)-3])); err == nil {
		t.Fatalf("expected error for truncated file")
	}

	// 版本錯誤
	bad := append([]byte(nil), raw...)
	bad[8] = 9
	if _, err := DecodeBenchFile(bytes.NewReader(bad)); err == nil {
		t.Fatalf("expected error for unsupported version")
	}

	// 未知操作種類，header 16 bytes + 2 筆分布各 16 bytes + op count 8 bytes
	bad = append([]byte(nil), raw...)
	bad[16+2*16+8] = 7
	if _, err := DecodeBenchFile(bytes.NewReader(bad)); err == nil {
		t.Fatalf("expected error for unknown op type")
	}

	got, err := DecodeBenchFile(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("DecodeBenchFile error: %v", err)
	}
	if len(got.Ops) != 2 || got.Ops[1] != (Operation{Type: OpQuery, Key: 1}) {
		t.Fatalf("decoded ops = %v", got.Ops)
	}
}

func TestReadBenchFileMissing(t *testing.T) {
	if _, err := ReadBenchFile(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
