package instance

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the instance package's logger instance.
// It uses a no-op logger by default.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger configures the instance package's logger. Callback faults
// are reported through it, so tests and applications that need the
// fault side channel should install a real logger before registering
// callbacks.
func SetLogger(l *zap.Logger) {
	logger = l
}
