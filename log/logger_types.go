package log

import (
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	timestampFormat = "02/01/2006 15:04:05"
	defaultLevels   = "INFO|WARN|ERROR"
	// DefaultMaxFileSize for logger rotation file in megabytes
	DefaultMaxFileSize = 100
)

var (
	// mu guards sub logger configuration and the shared backends below
	mu         sync.RWMutex
	subLoggers = map[string]*SubLogger{}
	formatter  logrus.Formatter = newFormatter("")
	fileWriter *lumberjack.Logger
)

// Config holds the logger configuration loaded from the config file
type Config struct {
	Enabled          *bool `json:"enabled" mapstructure:"enabled"`
	SubLoggerConfig  `mapstructure:",squash"`
	Format           string            `json:"format,omitempty" mapstructure:"format"`
	LoggerFileConfig *FileConfig       `json:"fileSettings,omitempty" mapstructure:"fileSettings"`
	SubLoggers       []SubLoggerConfig `json:"subloggers,omitempty" mapstructure:"subloggers"`
}

// SubLoggerConfig holds sub logger configuration settings. Level is a pipe
// separated list of enabled levels and Output a pipe separated list of
// writers: console, stdout, stderr or file.
type SubLoggerConfig struct {
	Name   string `json:"name,omitempty" mapstructure:"name"`
	Level  string `json:"level" mapstructure:"level"`
	Output string `json:"output" mapstructure:"output"`
}

// FileConfig configures the rotating log file used by the "file" output
type FileConfig struct {
	FileName   string `json:"filename,omitempty" mapstructure:"filename"`
	MaxSize    int    `json:"maxsize,omitempty" mapstructure:"maxsize"`
	MaxBackups int    `json:"maxbackups,omitempty" mapstructure:"maxbackups"`
	Compress   bool   `json:"compress,omitempty" mapstructure:"compress"`
}

// Levels flags for each sub logger type
type Levels struct {
	Info, Debug, Warn, Error bool
}

func (l Levels) enabled(level logrus.Level) bool {
	switch level {
	case logrus.InfoLevel:
		return l.Info
	case logrus.DebugLevel:
		return l.Debug
	case logrus.WarnLevel:
		return l.Warn
	case logrus.ErrorLevel:
		return l.Error
	}
	return false
}

// SubLogger is a named log stream with its own levels and output
type SubLogger struct {
	name    string
	levels  Levels
	backend *logrus.Logger
}

// Name returns the sub logger name as it appears on log lines
func (sl *SubLogger) Name() string { return sl.name }
