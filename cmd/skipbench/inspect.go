package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/Hakuto4838/skipmap/datastream"
	"github.com/Hakuto4838/skipmap/internal/app"
	"github.com/Hakuto4838/skipmap/internal/logger"
	"github.com/Hakuto4838/skipmap/skiplist"
	"github.com/Hakuto4838/skipmap/skiplist/analyTool"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type inspectOptions struct {
	ListOptions `mapstructure:",squash"`
	Keys        string  `mapstructure:"keys"`
	MaxLevel    int     `mapstructure:"max-level"`
	MaxNodes    int     `mapstructure:"max-nodes"`
	CSV         string  `mapstructure:"csv"`
	Dist        string  `mapstructure:"dist"`
	DistN       int     `mapstructure:"dist-n"`
	ZipfA       float64 `mapstructure:"zipf-a"`
	ZipfB       float64 `mapstructure:"zipf-b"`
	Queries     int     `mapstructure:"queries"`

	keys []int64
}

const (
	distNone    = "none"
	distZipf    = "zipf"
	distUniform = "uniform"
)

func (o *inspectOptions) AddFlags(fs *pflag.FlagSet) {
	o.addFlags(fs, 1)
	fs.StringVar(&o.Keys, "keys", "5,3,8,1", "comma separated keys to insert, value is the insertion index")
	fs.IntVar(&o.MaxLevel, "max-level", 16, "highest level to print")
	fs.IntVar(&o.MaxNodes, "max-nodes", 64, "maximum nodes to print per level")
	fs.StringVar(&o.CSV, "csv", "", "also write the level grid to this CSV file")
	fs.StringVar(&o.Dist, "dist", distNone, "insert keys 0..dist-n-1 from a query distribution instead of --keys: none, zipf or uniform")
	fs.IntVar(&o.DistN, "dist-n", 64, "number of keys in the query distribution")
	fs.Float64Var(&o.ZipfA, "zipf-a", 1.07, "zipf exponent a, weights are 1/(i+b)^a")
	fs.Float64Var(&o.ZipfB, "zipf-b", 1, "zipf offset b")
	fs.IntVar(&o.Queries, "queries", 1000, "queries sampled from the distribution to measure search steps")
}

func (o *inspectOptions) Validate() []error {
	errs := o.validate()
	keys, err := parseKeys(o.Keys)
	if err != nil {
		errs = append(errs, err)
	}
	o.keys = keys
	if o.MaxLevel < 0 || o.MaxNodes < 1 {
		errs = append(errs, errors.Errorf("--max-level must be >= 0 and --max-nodes >= 1, got %d and %d", o.MaxLevel, o.MaxNodes))
	}
	switch o.Dist {
	case distNone:
	case distZipf, distUniform:
		if o.DistN < 1 {
			errs = append(errs, errors.Errorf("--dist-n must be >= 1, got %d", o.DistN))
		}
		if o.Queries < 0 {
			errs = append(errs, errors.Errorf("--queries must be >= 0, got %d", o.Queries))
		}
		if o.Dist == distZipf && (o.ZipfA <= 0 || o.ZipfB < 0) {
			errs = append(errs, errors.Errorf("invalid zipf params: a=%v must >0, b=%v must >=0", o.ZipfA, o.ZipfB))
		}
	default:
		errs = append(errs, errors.Errorf("--dist must be one of %s/%s/%s, got %q", distNone, distZipf, distUniform, o.Dist))
	}
	return errs
}

// keyStream 依 --dist 建立查詢分布，none 時回傳 nil
func (o *inspectOptions) keyStream() datastream.KeyStream {
	switch o.Dist {
	case distZipf:
		return datastream.NewZipfDataGenerator(o.DistN, o.ZipfA, o.ZipfB, o.Seed)
	case distUniform:
		return datastream.NewUniformDataGenerator(o.DistN, o.Seed)
	}
	return nil
}

func newInspectCommand(g *globalOptions, out io.Writer) *app.Command {
	o := &inspectOptions{}
	return app.NewCommand("inspect", "insert keys and print the resulting structure",
		app.WithCommandOptions(o),
		app.WithCommandRunFunc(func([]string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			return o.run(out, log)
		}),
	)
}

func (o *inspectOptions) run(out io.Writer, log *logger.Logger) error {
	gen := o.keyStream()
	keys := o.keys
	if gen != nil {
		// 分布的 key 是 0..n-1，以亂序插入
		keys = datastream.ShuffledKeys(o.DistN, rand.New(rand.NewSource(o.Seed)))
		log.Debug("keys from distribution", zap.String("dist", o.Dist), zap.Int("n", o.DistN))
	}

	sl, err := o.newList(o.Seed, len(keys))
	if err != nil {
		return err
	}
	for i, k := range keys {
		if _, replaced, err := sl.Set(k, int64(i)); err != nil {
			return err
		} else if replaced {
			log.Debug("key replaced", zap.Int64("key", k))
		}
	}

	size, levels := sl.GetMaxStats()
	fmt.Fprintf(out, "size: %d, levels: %d\n\n", size, levels)
	if err := sl.Dump(out); err != nil {
		return err
	}
	fmt.Fprintln(out)
	analyTool.PrintSkipList[int64, int64](out, sl, o.MaxLevel, o.MaxNodes)
	fmt.Fprintln(out)
	analyTool.PrintLink[int64, int64](out, sl, o.MaxLevel, o.MaxNodes)
	fmt.Fprintln(out)
	analyTool.PrintLevelCount[int64, int64](out, sl)

	if o.CSV != "" {
		if err := o.writeCSV(sl); err != nil {
			return err
		}
		log.Info("csv written", zap.String("file", o.CSV))
	}

	if gen != nil {
		o.reportSteps(out, sl, gen)
	}

	if err := analyTool.CheckStruct[int64, int64](sl); err != nil {
		fmt.Fprintf(out, "structure: %v\n", err)
		return errors.Wrap(err, "structure check")
	}
	fmt.Fprintln(out, "structure: ok")
	return nil
}

func (o *inspectOptions) writeCSV(sl skiplist.Analyable[int64, int64]) error {
	f, err := os.Create(o.CSV)
	if err != nil {
		return errors.Wrapf(err, "create %s", o.CSV)
	}
	defer f.Close()
	if err := analyTool.PrintSkipListToCSV[int64, int64](sl, o.MaxLevel, o.MaxNodes, csv.NewWriter(f)); err != nil {
		return errors.Wrapf(err, "write %s", o.CSV)
	}
	return f.Close()
}

// reportSteps 印出分布的熵，並比較依權重的期望步數與取樣查詢的平均步數
func (o *inspectOptions) reportSteps(out io.Writer, sl skiplist.Analyable[int64, int64], gen datastream.KeyStream) {
	fmt.Fprintf(out, "\ndistribution: %s, keys: %d, entropy: %.4f bits\n", o.Dist, o.DistN, gen.Entropy())
	expected, _ := analyTool.AnalyzeStep[int64, int64](sl, gen.GetKeyMap())
	fmt.Fprintf(out, "expected steps: %.4f\n", expected)
	if o.Queries == 0 {
		return
	}
	total := 0
	for _, idx := range gen.GenerateSequence(o.Queries) {
		step, _ := analyTool.FindStep[int64, int64](sl, int64(idx))
		total += step
	}
	fmt.Fprintf(out, "sampled steps: %.4f over %d queries\n\n", float64(total)/float64(o.Queries), o.Queries)
}
