package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Hakuto4838/skipmap/datastream"
	"github.com/Hakuto4838/skipmap/internal/app"
	"github.com/Hakuto4838/skipmap/internal/logger"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type genOptions struct {
	N           string  `mapstructure:"n"`
	K           string  `mapstructure:"k"`
	A           float64 `mapstructure:"a"`
	B           float64 `mapstructure:"b"`
	Seed        int64   `mapstructure:"seed"`
	Phase1Ratio float64 `mapstructure:"phase1-ratio"`
	DeleteRatio float64 `mapstructure:"delete-ratio"`
	Nums        int     `mapstructure:"nums"`
	Out         string  `mapstructure:"out"`
	Path        string  `mapstructure:"path"`
	SimpleKey   bool    `mapstructure:"simple-key"`

	n, k int
}

func (o *genOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.N, "n", "1e4", "number of keys (支援科學記號，如 1e5)")
	fs.StringVar(&o.K, "k", "1e5", "number of operations to generate (支援科學記號，如 1e6)")
	fs.Float64Var(&o.A, "a", 1.07, "Zipf parameter a (設為 0 時使用均勻分布)")
	fs.Float64Var(&o.B, "b", 1.0, "Zipf parameter b (當 a > 0 時有效)")
	fs.Int64Var(&o.Seed, "seed", time.Now().UnixNano(), "seed of the first file, file i uses seed+i")
	fs.Float64Var(&o.Phase1Ratio, "phase1-ratio", 0.5, "ratio of phase1 operations")
	fs.Float64Var(&o.DeleteRatio, "delete-ratio", 0.1, "probability of Delete when the key is present")
	fs.IntVar(&o.Nums, "nums", 1, "number of files to generate")
	fs.StringVar(&o.Out, "out", "", "output filename prefix (留空則自動生成)")
	fs.StringVar(&o.Path, "path", ".", "output directory path")
	fs.BoolVar(&o.SimpleKey, "simple-key", false, "use keys 0..n-1 instead of random uint32 keys")
}

func (o *genOptions) Validate() []error {
	var errs []error
	var err error
	if o.n, err = parseScientificNotation(o.N); err != nil {
		errs = append(errs, errors.Wrap(err, "--n"))
	}
	if o.k, err = parseScientificNotation(o.K); err != nil {
		errs = append(errs, errors.Wrap(err, "--k"))
	}
	if o.Nums < 1 {
		errs = append(errs, errors.Errorf("--nums must be >= 1, got %d", o.Nums))
	}
	if len(errs) == 0 {
		if err := o.params(0).Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (o *genOptions) params(i int) datastream.Params {
	return datastream.Params{
		N:           o.n,
		A:           o.A,
		B:           o.B,
		Seed:        uint64(o.Seed + int64(i)),
		K:           o.k,
		Phase1Ratio: o.Phase1Ratio,
		DeleteRatio: o.DeleteRatio,
		SimpleKey:   o.SimpleKey,
	}
}

// fileName 依參數自動命名，nums > 1 時加上編號
func (o *genOptions) fileName(i int) string {
	prefix := o.Out
	if prefix == "" {
		prefix = fmt.Sprintf("bench_n%s_k%s_a%s_b%s_p1r%s_dr%s",
			formatScientific(o.n),
			formatScientific(o.k),
			formatDecimal(o.A),
			formatDecimal(o.B),
			formatDecimal(o.Phase1Ratio),
			formatDecimal(o.DeleteRatio))
	}
	if o.Nums == 1 {
		return prefix + ".bin"
	}
	return fmt.Sprintf("%s_%d.bin", prefix, i)
}

func newGenCommand(g *globalOptions, out io.Writer) *app.Command {
	o := &genOptions{}
	return app.NewCommand("gen", "generate SLBENCH1 workload files",
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

func (o *genOptions) run(out io.Writer, log *logger.Logger) error {
	if o.Path != "" && o.Path != "." {
		if err := os.MkdirAll(o.Path, 0o755); err != nil {
			return errors.Wrapf(err, "create output directory %s", o.Path)
		}
	}

	rows := make([][]string, 0, o.Nums)
	for i := 0; i < o.Nums; i++ {
		outfile := filepath.Join(o.Path, o.fileName(i))
		p := o.params(i)
		bf, err := datastream.WriteBenchFile(outfile, p)
		if err != nil {
			return err
		}
		log.Info("bench file written",
			zap.String("file", outfile),
			zap.Int("ops", len(bf.Ops)),
			zap.Uint64("seed", p.Seed),
		)
		rows = append(rows, []string{
			outfile,
			fmt.Sprintf("%d", len(bf.Dist)),
			fmt.Sprintf("%d", len(bf.Ops)),
			fmt.Sprintf("%.6f", bf.Entropy()),
		})
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"File", "Keys", "Ops", "Entropy"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
	return nil
}
