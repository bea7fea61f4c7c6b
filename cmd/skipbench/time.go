package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/Hakuto4838/skipmap/datastream"
	"github.com/Hakuto4838/skipmap/internal/app"
	"github.com/Hakuto4838/skipmap/internal/logger"
	"github.com/Hakuto4838/skipmap/skiplist/analyTool"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type timeOptions struct {
	ListOptions `mapstructure:",squash"`
	Sizes       string `mapstructure:"sizes"`
	Runs        int    `mapstructure:"runs"`
	Check       bool   `mapstructure:"check"`

	sizes []int
}

func (o *timeOptions) AddFlags(fs *pflag.FlagSet) {
	o.addFlags(fs, time.Now().UnixNano())
	fs.StringVar(&o.Sizes, "sizes", "100,1000,10000,100000,1000000", "comma separated list sizes (支援科學記號，如 1e5)")
	fs.IntVar(&o.Runs, "runs", 1, "how many times to repeat each size")
	fs.BoolVar(&o.Check, "check", false, "verify the structure after the set phase")
}

func (o *timeOptions) Validate() []error {
	errs := o.validate()
	sizes, err := parseSizes(o.Sizes)
	if err != nil {
		errs = append(errs, err)
	}
	o.sizes = sizes
	if o.Runs < 1 {
		errs = append(errs, errors.Errorf("--runs must be >= 1, got %d", o.Runs))
	}
	return errs
}

func newTimeCommand(g *globalOptions, out io.Writer) *app.Command {
	o := &timeOptions{}
	return app.NewCommand("time", "time bulk set/get/remove on shuffled keys",
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

// phaseTimes 依序是 set、get、remove 的耗時
type phaseTimes [3]time.Duration

func (o *timeOptions) run(out io.Writer, log *logger.Logger) error {
	rows := make([][]string, 0, len(o.sizes))
	for _, n := range o.sizes {
		var total phaseTimes
		for r := 0; r < o.Runs; r++ {
			t, err := o.timeOnce(n, o.Seed+int64(r), log)
			if err != nil {
				return errors.Wrapf(err, "size %d run %d", n, r)
			}
			for i := range total {
				total[i] += t[i]
			}
		}
		row := []string{fmt.Sprintf("%d", n)}
		for _, d := range total {
			row = append(row, fmt.Sprintf("%.3f", durationMs(d)/float64(o.Runs)))
		}
		rows = append(rows, row)
		log.Info("size done", zap.Int("size", n), zap.Int("runs", o.Runs))
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Size", "set(ms)", "get(ms)", "remove(ms)"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()
	return nil
}

func (o *timeOptions) timeOnce(n int, seed int64, log *logger.Logger) (phaseTimes, error) {
	var t phaseTimes
	sl, err := o.newList(seed, n)
	if err != nil {
		return t, err
	}
	keys := datastream.ShuffledKeys(n, rand.New(rand.NewSource(seed)))

	start := time.Now()
	for _, k := range keys {
		if _, _, err := sl.Set(k, k); err != nil {
			return t, err
		}
	}
	t[0] = time.Since(start)

	if o.Check {
		if err := analyTool.CheckStruct[int64, int64](sl); err != nil {
			return t, errors.Wrap(err, "structure check after set")
		}
		_, levels := sl.GetMaxStats()
		log.Debug("structure ok", zap.Int("size", n), zap.Int("levels", levels))
	}

	missed := 0
	start = time.Now()
	for _, k := range keys {
		if _, found, _ := sl.Lookup(k); !found {
			missed++
		}
	}
	t[1] = time.Since(start)
	if missed > 0 {
		return t, errors.Errorf("%d keys missing after set", missed)
	}

	start = time.Now()
	for _, k := range keys {
		if _, _, err := sl.Remove(k); err != nil {
			return t, err
		}
	}
	t[2] = time.Since(start)

	if sl.Size() != 0 {
		return t, errors.Errorf("size %d after removing every key", sl.Size())
	}
	log.Debug("run timed",
		zap.Int("size", n),
		zap.Duration("set", t[0]),
		zap.Duration("get", t[1]),
		zap.Duration("remove", t[2]),
	)
	return t, nil
}

func durationMs(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
