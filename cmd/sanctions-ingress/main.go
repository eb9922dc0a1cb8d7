package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/finreg-data/sanctions-ingress/pkg/config"
	"github.com/finreg-data/sanctions-ingress/pkg/pipeline"
)

func main() {
	var (
		inputPath  = pflag.StringP("input", "i", "", "path to the input CSV (default "+config.DefaultInputPath+")")
		outputPath = pflag.StringP("output", "o", "", "path for the processed output CSV (default "+config.DefaultOutputPath+")")
		quiet      = pflag.BoolP("quiet", "q", false, "suppress progress output")
		configFile = pflag.String("config", "", "optional YAML settings file")
	)
	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	// Flags override file and environment settings.
	if *inputPath != "" {
		cfg.InputPath = *inputPath
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}
	if *quiet {
		cfg.Quiet = true
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger setup error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := pipeline.New(cfg, logger).Run(ctx); err != nil {
		logger.Error("Processing failed", zap.Error(err))
		os.Exit(1)
	}
}

// buildLogger constructs the run logger. Quiet mode keeps errors only.
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.LogFormat == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	if cfg.Quiet {
		level = zapcore.ErrorLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
