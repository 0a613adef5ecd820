package log

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Global vars related to the logger package
var (
	Global      *SubLogger
	ConfigMgr   *SubLogger
	RequestSys  *SubLogger
	ExchangeSys *SubLogger
)

func newBackend() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(formatter)
	// Level filtering happens per sub logger, not in logrus
	l.SetLevel(logrus.TraceLevel)
	return l
}

func registerNewSubLogger(name string) *SubLogger {
	mu.Lock()
	defer mu.Unlock()
	sl := &SubLogger{
		name:    strings.ToUpper(name),
		levels:  splitLevel(defaultLevels),
		backend: newBackend(),
	}
	subLoggers[sl.name] = sl
	return sl
}

// register all loggers at package init()
func init() {
	Global = registerNewSubLogger("LOG")
	ConfigMgr = registerNewSubLogger("CONFIG")
	RequestSys = registerNewSubLogger("REQUESTER")
	ExchangeSys = registerNewSubLogger("EXCHANGE")
}
