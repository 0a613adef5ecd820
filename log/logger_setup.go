package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	errSubloggerConfigIsNil  = errors.New("sublogger config is nil")
	errUnhandledOutputWriter = errors.New("unhandled output writer")
	errSubLoggerNotFound     = errors.New("sub logger not found")
	errFileSettingsMissing   = errors.New("file output requires file settings")
	errUnhandledFormat       = errors.New("unhandled log format")
)

// GenDefaultSettings return struct with known sane/working logger settings
func GenDefaultSettings() Config {
	enabled := true
	return Config{
		Enabled: &enabled,
		SubLoggerConfig: SubLoggerConfig{
			Level:  defaultLevels,
			Output: "console",
		},
		Format: "text",
		LoggerFileConfig: &FileConfig{
			FileName: "log.txt",
			MaxSize:  DefaultMaxFileSize,
		},
	}
}

func newFormatter(format string) logrus.Formatter {
	if strings.EqualFold(format, "json") {
		return &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	}
	return &logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: timestampFormat,
	}
}

func getWriters(s *SubLoggerConfig) (io.Writer, error) {
	if s == nil {
		return nil, errSubloggerConfigIsNil
	}
	var writers []io.Writer
	for _, output := range strings.Split(s.Output, "|") {
		switch strings.ToLower(strings.TrimSpace(output)) {
		case "stdout", "console":
			writers = append(writers, os.Stdout)
		case "stderr":
			writers = append(writers, os.Stderr)
		case "file":
			if fileWriter == nil {
				return nil, errFileSettingsMissing
			}
			writers = append(writers, fileWriter)
		default:
			return nil, fmt.Errorf("%w: %s", errUnhandledOutputWriter, output)
		}
	}
	if len(writers) == 1 {
		return writers[0], nil
	}
	return io.MultiWriter(writers...), nil
}

func splitLevel(level string) (l Levels) {
	for _, lvl := range strings.Split(level, "|") {
		switch strings.ToUpper(strings.TrimSpace(lvl)) {
		case "DEBUG":
			l.Debug = true
		case "INFO":
			l.Info = true
		case "WARN":
			l.Warn = true
		case "ERROR":
			l.Error = true
		}
	}
	return
}

func configureSubLogger(s *SubLoggerConfig) error {
	sl, found := subLoggers[strings.ToUpper(s.Name)]
	if !found {
		return fmt.Errorf("%w: %s", errSubLoggerNotFound, s.Name)
	}
	output, err := getWriters(s)
	if err != nil {
		return err
	}
	sl.levels = splitLevel(s.Level)
	sl.backend.SetOutput(output)
	return nil
}

// SetupGlobalLogger applies c to every registered sub logger, then applies
// any per sub logger overrides. logDir is where the rotating log file is
// written when the file output is used.
func SetupGlobalLogger(c *Config, logDir string) error {
	if c == nil {
		return errSubloggerConfigIsNil
	}
	mu.Lock()
	defer mu.Unlock()

	if c.Format != "" && !strings.EqualFold(c.Format, "text") && !strings.EqualFold(c.Format, "json") {
		return fmt.Errorf("%w: %s", errUnhandledFormat, c.Format)
	}
	formatter = newFormatter(c.Format)

	if fileWriter != nil {
		if err := fileWriter.Close(); err != nil {
			return err
		}
		fileWriter = nil
	}
	if fc := c.LoggerFileConfig; fc != nil && fc.FileName != "" {
		maxSize := fc.MaxSize
		if maxSize <= 0 {
			maxSize = DefaultMaxFileSize
		}
		fileWriter = &lumberjack.Logger{
			Filename:   filepath.Join(logDir, fc.FileName),
			MaxSize:    maxSize,
			MaxBackups: fc.MaxBackups,
			Compress:   fc.Compress,
		}
	}

	enabled := c.Enabled == nil || *c.Enabled
	output, err := getWriters(&c.SubLoggerConfig)
	if err != nil {
		return err
	}
	for _, sl := range subLoggers {
		sl.backend.SetFormatter(formatter)
		sl.backend.SetOutput(output)
		sl.levels = Levels{}
		if enabled {
			sl.levels = splitLevel(c.Level)
		}
	}
	if !enabled {
		return nil
	}
	for i := range c.SubLoggers {
		if err := configureSubLogger(&c.SubLoggers[i]); err != nil {
			return err
		}
	}
	return nil
}

// CloseLogger closes the rotating log file if one is open
func CloseLogger() error {
	mu.Lock()
	defer mu.Unlock()
	if fileWriter == nil {
		return nil
	}
	err := fileWriter.Close()
	fileWriter = nil
	return err
}
