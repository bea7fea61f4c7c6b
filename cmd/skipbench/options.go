package main

import (
	"github.com/Hakuto4838/skipmap/internal/logger"
	"github.com/Hakuto4838/skipmap/skiplist"
	"github.com/Hakuto4838/skipmap/skiplist/basic"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

const (
	rngMath = "math"
	rngFast = "fast"
)

type globalOptions struct {
	LogLevel string `mapstructure:"log-level"`

	log *logger.Logger
}

func (o *globalOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.LogLevel, "log-level", "info", "log level: debug/info/warn/error")
}

func (o *globalOptions) Validate() []error {
	switch o.LogLevel {
	case "debug", "info", "warn", "error":
		return nil
	}
	return []error{errors.Errorf("--log-level must be one of debug/info/warn/error, got %q", o.LogLevel)}
}

// logger 第一次呼叫時建立，之後重用
func (o *globalOptions) logger() (*logger.Logger, error) {
	if o.log != nil {
		return o.log, nil
	}
	l, err := logger.New(appName, o.LogLevel)
	if err != nil {
		return nil, err
	}
	o.log = l
	return l, nil
}

// ListOptions 是每個 command 共用的 skip list 參數
type ListOptions struct {
	Prob float64 `mapstructure:"prob"`
	Seed int64   `mapstructure:"seed"`
	RNG  string  `mapstructure:"rng"`
}

func (o *ListOptions) addFlags(fs *pflag.FlagSet, seed int64) {
	fs.Float64Var(&o.Prob, "prob", 0.5, "promotion probability of the skip list, in (0, 1)")
	fs.Int64Var(&o.Seed, "seed", seed, "seed for the skip list height source")
	fs.StringVar(&o.RNG, "rng", rngMath, "height source: math (math/rand) or fast (fastrand)")
}

func (o *ListOptions) validate() []error {
	var errs []error
	if !(o.Prob > 0 && o.Prob < 1) {
		errs = append(errs, errors.Errorf("--prob must be in (0, 1), got %v", o.Prob))
	}
	if o.RNG != rngMath && o.RNG != rngFast {
		errs = append(errs, errors.Errorf("--rng must be %s or %s, got %q", rngMath, rngFast, o.RNG))
	}
	return errs
}

// newList 建立 key/value 都是 int64 的 skip list，seed 由呼叫端依 run 編號調整
func (o *ListOptions) newList(seed int64, capacity int) (*basic.BasicSkipList[int64, int64], error) {
	var src skiplist.RandSource
	if o.RNG == rngFast {
		src = skiplist.NewFastSource(uint32(seed))
	} else {
		src = skiplist.NewSeededSource(seed)
	}
	sl, err := basic.New[int64, int64](
		basic.WithProbability(o.Prob),
		basic.WithRandSource(src),
		basic.WithCapacity(capacity),
	)
	return sl, errors.Wrap(err, "create skip list")
}
