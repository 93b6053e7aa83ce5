package logging

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/langexch/langexch/internal/config"
)

const (
	DefaultLogFilePath = "langexch.log"
	DefaultMaxSizeMB   = 50
	DefaultMaxBackups  = 5
	DefaultMaxAgeDays  = 30

	consoleTimeFormat = "2006-01-02 15:04:05"
)

// Apply sets the global log level and output writers (console + rotating file).
// When cfg.File is empty, a default filename in the current working directory is used.
func Apply(cfg config.LoggingConfig) {
	SetLevel(cfg.Level)
	applyOutputs(cfg)
}

// SetLevel changes the global log level. Unknown levels fall back to info.
func SetLevel(level string) {
	switch level {
	case "trace":
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// LevelForVerbosity maps a -v count to a level name, keeping base when verbosity is 0
func LevelForVerbosity(verbosity int, base string) string {
	switch {
	case verbosity <= 0:
		return base
	case verbosity == 1:
		return "debug"
	default:
		return "trace"
	}
}

func applyOutputs(cfg config.LoggingConfig) {
	maxSize := DefaultMaxSizeMB
	if cfg.MaxSizeMB > 0 {
		maxSize = cfg.MaxSizeMB
	}
	maxBackups := DefaultMaxBackups
	if cfg.MaxBackups >= 0 {
		maxBackups = cfg.MaxBackups
	}
	maxAgeDays := DefaultMaxAgeDays
	if cfg.MaxAgeDays >= 0 {
		maxAgeDays = cfg.MaxAgeDays
	}

	logFilePath := cfg.File
	if logFilePath == "" {
		logFilePath = DefaultLogFilePath
	}

	consoleOutput := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: consoleTimeFormat}
	log.Logger = zerolog.New(consoleOutput).With().Timestamp().Logger()

	if err := ensureLogDir(logFilePath); err != nil {
		log.Error().Err(err).Str("path", logFilePath).Msg("Failed to prepare log directory; logging to console only")
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   cfg.Compress,
	}

	fileConsole := zerolog.ConsoleWriter{
		Out:        fileWriter,
		TimeFormat: consoleTimeFormat,
		NoColor:    true,
	}

	multi := zerolog.MultiLevelWriter(consoleOutput, fileConsole)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
