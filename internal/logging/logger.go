package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/klye32/fit-coach/pkg"
)

type LoggerSetupParams struct {
	LogFileName      string
	LogToStdout      bool
	LogLevel         string
	LogFormatJSON    bool
	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

// Setup configures logrus output, level and format, plus the sentry
// hook when enabled. Logs rotate via lumberjack when a file is set.
func Setup(params LoggerSetupParams) error {
	if params.LogFormatJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
	}

	log.SetLevel(getLevel(params.LogLevel))

	if params.SentryEnabled {
		if params.SentryDSN == "" {
			return fmt.Errorf("sentry enabled but dsn not provided")
		}
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         params.SentryDSN,
			Environment: params.Environment,
			ServerName:  params.SentryServerName,
		}); err != nil {
			return fmt.Errorf("sentry init: %w", err)
		}
		log.AddHook(NewSentryHook([]log.Level{
			log.PanicLevel,
			log.FatalLevel,
			log.ErrorLevel,
		}))
	}

	if params.LogFileName == "" {
		log.SetOutput(os.Stdout)
		return nil
	}

	if dir := filepath.Dir(params.LogFileName); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create logs dir %s: %w", dir, err)
		}
	}

	rotatedWriter := &lumberjack.Logger{
		Filename: params.LogFileName,
		MaxSize:  50, // megabytes
		Compress: true,
	}

	if params.LogToStdout {
		log.SetOutput(pkg.NewCombinedWriter(os.Stdout, rotatedWriter))
	} else {
		log.SetOutput(rotatedWriter)
	}

	return nil
}

func getLevel(level string) log.Level {
	switch level {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.TraceLevel
	}
}
