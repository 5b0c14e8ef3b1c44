package obs

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	loggerMu sync.Mutex
	logger   = logrus.New()
)

// LogOptions configures the shared application logger.
type LogOptions struct {
	Level  string // trace|debug|info|warning|error|fatal
	Format string // text|json
	File   string // path prefix for a log file; empty means stdout only
}

// InitLogger configures the shared logger. Safe to call once at startup.
func InitLogger(opts LogOptions) {
	loggerMu.Lock()
	defer loggerMu.Unlock()

	l := logrus.New()

	switch opts.Level {
	case "trace":
		l.SetLevel(logrus.TraceLevel)
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "warning", "warn":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	case "fatal":
		l.SetLevel(logrus.FatalLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}

	if opts.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	}

	if opts.File != "" {
		name := fmt.Sprintf("%s_%s.log", opts.File, time.Now().Format("2006-01-02_15-04-05"))
		file, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			l.Fatalf("failed to open log file %s: %v", name, err)
		}
		l.SetOutput(io.MultiWriter(file, os.Stdout))
	} else {
		l.SetOutput(os.Stdout)
	}

	logger = l
}

// Logger returns the shared structured logger used across the service.
func Logger() *logrus.Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	return logger
}
