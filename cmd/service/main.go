package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/klye32/fit-coach/internal"
	"github.com/klye32/fit-coach/internal/config"
	"github.com/klye32/fit-coach/internal/logging"
)

func main() {
	env := flag.String("env", "development", "environment: development or production")
	configPath := flag.String("config", "./config.toml", "path to the TOML config file")
	logToStdout := flag.Bool("o", true, "additionally write logs to stdout")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(fmt.Sprintf("load config: %s", err))
	}

	if err := logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout || *logToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.Environment == "production" || cfg.Environment == "prod",
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "fit-coach",
	}); err != nil {
		panic(fmt.Sprintf("logger setup: %s", err))
	}

	version := versionInfo()
	log.Infof("starting fit-coach service, version: %s, env: %s", version, cfg.Environment)

	openAIAPIKey := os.Getenv("OPENAI_API_KEY")
	if openAIAPIKey == "" {
		log.Warnln("OPENAI_API_KEY not set, recommendations will be unavailable")
	}

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true" && os.Getenv("HONEYCOMB_API_KEY") != ""

	server, err := internal.NewServer(internal.NewServerParams{
		Config:                  cfg,
		OpenAIAPIKey:            openAIAPIKey,
		VersionInfo:             version,
		HoneycombTracingEnabled: honeycombEnabled,
	})
	if err != nil {
		log.Fatalf("create server: %s", err)
	}

	server.Serve()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	receivedSig := <-quit

	log.Warnf("signal [%s] received, shutting down ...", receivedSig)

	server.GracefulShutdown()
}

func versionInfo() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}
