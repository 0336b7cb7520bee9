package common

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

var loggerOnce sync.Once

var singleton *log.Logger

// logger returns the process-wide engine logger, creating it on first use.
func logger() *log.Logger {
	loggerOnce.Do(func() {
		singleton = log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    true,
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          "oxy",
		})
		singleton.SetLevel(log.InfoLevel)
	})
	return singleton
}

// SetLogLevel sets the minimum level of the engine logger.
// Unknown level names leave the current level untouched and return false.
//
// Parameters:
//   - level: one of "debug", "info", "warn", "error", "fatal"
//
// Returns:
//   - bool: true if the level was recognized
func SetLogLevel(level string) bool {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return false
	}
	logger().SetLevel(lvl)
	return true
}

func LogDebug(msg string, args ...any) {
	logger().Helper()
	logger().Debugf(msg, args...)
}

func LogInfo(msg string, args ...any) {
	logger().Helper()
	logger().Infof(msg, args...)
}

func LogWarn(msg string, args ...any) {
	logger().Helper()
	logger().Warnf(msg, args...)
}

func LogError(msg string, args ...any) {
	logger().Helper()
	logger().Errorf(msg, args...)
}

// LogFatal logs at fatal level and exits the process.
func LogFatal(msg string, args ...any) {
	logger().Helper()
	logger().Fatalf(msg, args...)
}
