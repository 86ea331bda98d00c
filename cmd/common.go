package main

import (
	"fmt"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"crepbook/internal/config"
	"crepbook/internal/logging"
	"crepbook/pkg/usecase"
)

func loadConfig() *config.Config {
	cfg := config.LoadOrDefault()
	if rootDir != "" {
		cfg.Paths.Root = rootDir
	}
	if journalOn {
		cfg.Paths.Journal = true
	}
	if verbose {
		cfg.Logging.Level = "debug"
		cfg.Logging.Development = true
	}
	return cfg
}

func newLogger(cfg *config.Config) *logging.Logger {
	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	return logging.NewOrNop(logCfg)
}

func newUseCaseService(cfg *config.Config, logger *logging.Logger) (*usecase.Service, error) {
	return usecase.New(usecase.Options{
		ConfigDir: cfg.Paths.ConfigDir,
		Root:      cfg.Paths.Root,
		Journal:   cfg.Paths.Journal,
		Logger:    logger.Logger,
	})
}

// withService runs fn with a service built from flags and environment, and
// releases it afterwards.
func withService(fn func(svc *usecase.Service) error) error {
	cfg := loadConfig()
	logger := newLogger(cfg)
	defer logger.Sync()

	svc, err := newUseCaseService(cfg, logger)
	if err != nil {
		return err
	}

	runErr := fn(svc)
	if closeErr := svc.Close(); closeErr != nil && runErr == nil {
		runErr = fmt.Errorf("close journal: %w", closeErr)
	}

	return runErr
}

// render prints v in the selected output format, or calls text for the
// default human-readable form.
func render(v any, text func()) error {
	switch outputFormat {
	case "", "text":
		text()
		return nil
	case "json":
		data, err := sonic.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		fmt.Println(string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		fmt.Print(string(data))
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want text, json or yaml)", outputFormat)
	}
}

func printSummary(lines ...string) {
	fmt.Println("=== Summary ===")
	for _, line := range lines {
		fmt.Println(line)
	}
}
