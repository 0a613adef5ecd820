package log

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// CustomLogHook is a function type for external log handling. It should return
// true if the library's internal logging system should be bypassed, or false
// if the library's internal logging system should be used.
type CustomLogHook func(header, subLoggerName string, a ...any) (bypassLibraryLogSystem bool)

var customLogHook CustomLogHook

// SetCustomLogHook sets a custom log hook function that allows the complete
// bypass of the library's internal logging system.
func SetCustomLogHook(h CustomLogHook) {
	mu.Lock()
	customLogHook = h
	mu.Unlock()
}

func header(level logrus.Level) string {
	switch level {
	case logrus.DebugLevel:
		return "[DEBUG]"
	case logrus.WarnLevel:
		return "[WARN]"
	case logrus.ErrorLevel:
		return "[ERROR]"
	default:
		return "[INFO]"
	}
}

func stage(sl *SubLogger, level logrus.Level, msg func() string) {
	if sl == nil {
		return
	}
	mu.RLock()
	defer mu.RUnlock()
	if !sl.levels.enabled(level) {
		return
	}
	data := msg()
	if customLogHook != nil && customLogHook(header(level), sl.name, data) {
		return
	}
	sl.backend.WithField("sublogger", sl.name).Log(level, data)
}

// Info takes a pointer subLogger struct and string and logs at info level
func Info(sl *SubLogger, data string) {
	stage(sl, logrus.InfoLevel, func() string { return data })
}

// Infoln takes a pointer subLogger struct and interface and logs at info level
func Infoln(sl *SubLogger, v ...any) {
	stage(sl, logrus.InfoLevel, func() string { return fmt.Sprint(v...) })
}

// Infof takes a pointer subLogger struct, string and interface formats and
// logs at info level
func Infof(sl *SubLogger, data string, v ...any) {
	stage(sl, logrus.InfoLevel, func() string { return fmt.Sprintf(data, v...) })
}

// Debug takes a pointer subLogger struct and string and logs at debug level
func Debug(sl *SubLogger, data string) {
	stage(sl, logrus.DebugLevel, func() string { return data })
}

// Debugf takes a pointer subLogger struct, string and interface formats and
// logs at debug level
func Debugf(sl *SubLogger, data string, v ...any) {
	stage(sl, logrus.DebugLevel, func() string { return fmt.Sprintf(data, v...) })
}

// Warn takes a pointer subLogger struct and string and logs at warn level
func Warn(sl *SubLogger, data string) {
	stage(sl, logrus.WarnLevel, func() string { return data })
}

// Warnf takes a pointer subLogger struct, string and interface formats and
// logs at warn level
func Warnf(sl *SubLogger, data string, v ...any) {
	stage(sl, logrus.WarnLevel, func() string { return fmt.Sprintf(data, v...) })
}

// Error takes a pointer subLogger struct and string and logs at error level
func Error(sl *SubLogger, data string) {
	stage(sl, logrus.ErrorLevel, func() string { return data })
}

// Errorln takes a pointer subLogger struct and interface and logs at error level
func Errorln(sl *SubLogger, v ...any) {
	stage(sl, logrus.ErrorLevel, func() string { return fmt.Sprint(v...) })
}

// Errorf takes a pointer subLogger struct, string and interface formats and
// logs at error level
func Errorf(sl *SubLogger, data string, v ...any) {
	stage(sl, logrus.ErrorLevel, func() string { return fmt.Sprintf(data, v...) })
}
