package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

const prefixField = "prefix"

var (
	// Logger is the shared root logger; GetLogger derives prefixed entries from it.
	Logger = logrus.New()
)

type Config struct {
	File       string
	Verbosity  int
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func init() {
	Logger.SetFormatter(newFormatter(false))
	Logger.SetOutput(os.Stdout)
	Logger.SetLevel(logrus.InfoLevel)
}

func newFormatter(forceFormatting bool) logrus.Formatter {
	return &prefixed.TextFormatter{
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02 15:04:05",
		ForceFormatting:  forceFormatting,
		QuoteEmptyFields: true,
	}
}

// Init configures level and outputs. An empty File logs to stdout only.
func Init(cfg Config) error {
	Logger.SetLevel(levelFor(cfg.Verbosity))
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(newFormatter(false))

	if cfg.File == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	rotating := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    orDefault(cfg.MaxSizeMB, 5),
		MaxBackups: orDefault(cfg.MaxBackups, 10),
		MaxAge:     orDefault(cfg.MaxAgeDays, 14),
		Compress:   cfg.Compress,
	}

	Logger.SetOutput(io.MultiWriter(os.Stdout, rotating))
	Logger.SetFormatter(newFormatter(true))
	return nil
}

func levelFor(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.InfoLevel
	case verbosity == 1:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

func GetLogger(prefix string) *logrus.Entry {
	return Logger.WithField(prefixField, prefix)
}
