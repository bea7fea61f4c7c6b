package logger

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 包一層 zap.Logger，保留 AtomicLevel 以便執行中調整
type Logger struct {
	*zap.Logger
	level zap.AtomicLevel
}

// New 建立輸出到 stderr 的 console logger，stdout 留給結果表格
func New(name, level string, opts ...zap.Option) (*Logger, error) {
	zl := zap.NewAtomicLevel()
	cfg := zap.Config{
		Level:            zl,
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	zapLogger, err := cfg.Build(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "build zap logger")
	}

	l := &Logger{
		Logger: zapLogger.Named(name),
		level:  zl,
	}
	return l, l.ChangeLevel(level)
}

// ChangeLevel 只接受 debug/info/warn/error
func (l *Logger) ChangeLevel(level string) error {
	switch level {
	case "debug":
		l.level.SetLevel(zap.DebugLevel)
	case "info", "":
		l.level.SetLevel(zap.InfoLevel)
	case "warn":
		l.level.SetLevel(zap.WarnLevel)
	case "error":
		l.level.SetLevel(zap.ErrorLevel)
	default:
		return errors.Errorf("log level only be debug/info/warn/error, got %q", level)
	}
	return nil
}

// Level 回傳目前的等級
func (l *Logger) Level() zapcore.Level {
	return l.level.Level()
}
