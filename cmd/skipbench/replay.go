package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/Hakuto4838/skipmap/datastream"
	"github.com/Hakuto4838/skipmap/internal/app"
	"github.com/Hakuto4838/skipmap/internal/logger"
	"github.com/Hakuto4838/skipmap/skiplist/analyTool"
	"github.com/Hakuto4838/skipmap/skiplist/basic"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type replayOptions struct {
	ListOptions `mapstructure:",squash"`
	File        string `mapstructure:"file"`
	Dir         string `mapstructure:"dir"`
	Runs        int    `mapstructure:"runs"`
}

func (o *replayOptions) AddFlags(fs *pflag.FlagSet) {
	o.addFlags(fs, 1)
	fs.StringVar(&o.File, "file", "", "existing bench file (SLBENCH1 format)")
	fs.StringVar(&o.Dir, "dir", "", "directory containing bench files (all .bin files are replayed)")
	fs.IntVar(&o.Runs, "runs", 5, "how many times to replay each file")
}

func (o *replayOptions) Validate() []error {
	errs := o.validate()
	if (o.File == "") == (o.Dir == "") {
		errs = append(errs, errors.New("exactly one of --file or --dir must be provided"))
	}
	if o.Runs < 1 {
		errs = append(errs, errors.Errorf("--runs must be >= 1, got %d", o.Runs))
	}
	return errs
}

func newReplayCommand(g *globalOptions, out io.Writer) *app.Command {
	o := &replayOptions{}
	return app.NewCommand("replay", "replay SLBENCH1 workload files against the skip list",
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

type replayStats struct {
	avgMs    float64
	minMs    float64
	maxMs    float64
	avgSteps float64
}

func (o *replayOptions) run(out io.Writer, log *logger.Logger) error {
	paths := []string{o.File}
	if o.Dir != "" {
		files, err := collectBenchFilesFromDir(o.Dir)
		if err != nil {
			return errors.Wrapf(err, "scan directory %s", o.Dir)
		}
		if len(files) == 0 {
			return errors.Errorf("no .bin files found in directory: %s", o.Dir)
		}
		paths = files
	}

	rows := make([][]string, 0, len(paths)+1)
	var totalOps int
	var totalSec float64
	var allStats []replayStats
	for idx, path := range paths {
		bf, err := datastream.ReadBenchFile(path)
		if err != nil {
			// 目錄模式下跳過壞檔，單檔模式直接失敗
			if len(paths) == 1 {
				return err
			}
			log.Warn("skip bench file", zap.String("file", path), zap.Error(err))
			continue
		}
		log.Info("replaying",
			zap.String("file", filepath.Base(path)),
			zap.Int("index", idx+1),
			zap.Int("total", len(paths)),
			zap.Int("ops", len(bf.Ops)),
		)

		stats, err := o.benchmark(bf)
		if err != nil {
			return errors.Wrapf(err, "replay %s", path)
		}
		allStats = append(allStats, stats)
		totalOps += len(bf.Ops)
		totalSec += stats.avgMs / 1000.0
		rows = append(rows, []string{
			filepath.Base(path),
			fmt.Sprintf("%d", len(bf.Ops)),
			fmt.Sprintf("%.6f", bf.Entropy()),
			fmt.Sprintf("%d", o.Runs),
			fmt.Sprintf("%.3f", stats.avgMs),
			fmt.Sprintf("%.3f", stats.minMs),
			fmt.Sprintf("%.3f", stats.maxMs),
			fmt.Sprintf("%.2f", throughput(len(bf.Ops), stats.avgMs/1000.0)),
			fmt.Sprintf("%.6f", stats.avgSteps),
		})
	}
	if len(allStats) == 0 {
		return errors.New("no bench file could be replayed")
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"File", "Ops", "Entropy", "Runs", "Avg(ms)", "Min(ms)", "Max(ms)", "Ops/s", "AvgSteps"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	if len(allStats) > 1 {
		agg := aggregate(allStats)
		table.SetFooter([]string{
			"ALL",
			fmt.Sprintf("%d", totalOps),
			"",
			fmt.Sprintf("%d", o.Runs*len(allStats)),
			fmt.Sprintf("%.3f", agg.avgMs),
			fmt.Sprintf("%.3f", agg.minMs),
			fmt.Sprintf("%.3f", agg.maxMs),
			fmt.Sprintf("%.2f", throughput(totalOps, totalSec)),
			fmt.Sprintf("%.6f", agg.avgSteps),
		})
	}
	table.Render()
	return nil
}

// benchmark 重播 Runs 次，搜尋步數取自第一次重播結束時的結構
func (o *replayOptions) benchmark(bf *datastream.BenchFile) (replayStats, error) {
	durations := make([]float64, 0, o.Runs)
	var stats replayStats
	for i := 0; i < o.Runs; i++ {
		sl, err := o.newList(o.Seed+int64(i), len(bf.Dist))
		if err != nil {
			return stats, err
		}
		elapsed, err := replayOps(sl, bf.ToSequenceModel())
		if err != nil {
			return stats, err
		}
		durations = append(durations, durationMs(elapsed))
		if i == 0 {
			stats.avgSteps, _ = analyTool.AnalyzeStep[int64, int64](sl, bf.Dist)
		}
	}
	slices.Sort(durations)
	stats.avgMs = average(durations)
	stats.minMs = durations[0]
	stats.maxMs = durations[len(durations)-1]
	return stats, nil
}

func replayOps(sl *basic.BasicSkipList[int64, int64], m *datastream.SequenceModel) (time.Duration, error) {
	start := time.Now()
	for op, ok := m.Next(); ok; op, ok = m.Next() {
		var err error
		switch op.Type {
		case datastream.OpQuery:
			_, _, err = sl.Lookup(op.Key)
		case datastream.OpInsert:
			_, _, err = sl.Set(op.Key, op.Key)
		case datastream.OpDelete:
			_, _, err = sl.Remove(op.Key)
		}
		if err != nil {
			return 0, errors.Wrapf(err, "%v %d", op.Type, op.Key)
		}
	}
	return time.Since(start), nil
}

// collectBenchFilesFromDir 收集指定目錄下所有 .bin 檔案，依檔名排序
func collectBenchFilesFromDir(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".bin" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

func aggregate(all []replayStats) replayStats {
	agg := replayStats{minMs: all[0].minMs, maxMs: all[0].maxMs}
	avgs := make([]float64, 0, len(all))
	steps := make([]float64, 0, len(all))
	for _, s := range all {
		avgs = append(avgs, s.avgMs)
		steps = append(steps, s.avgSteps)
		agg.minMs = min(agg.minMs, s.minMs)
		agg.maxMs = max(agg.maxMs, s.maxMs)
	}
	agg.avgMs = average(avgs)
	agg.avgSteps = average(steps)
	return agg
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func throughput(ops int, sec float64) float64 {
	if sec <= 0 {
		return 0
	}
	return float64(ops) / sec
}
