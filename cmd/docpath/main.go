package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jacoelho/docpath/internal/config"
	"github.com/jacoelho/docpath/internal/exit"
	"github.com/jacoelho/docpath/internal/runner"
)

func main() {
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		exitResult = exit.Errorf("Error: failed to initialize logger: %v\n", err)
		exitResult.Print()
		return exitResult.ExitCode
	}
	defer logger.Sync() //nolint:errcheck

	r, exitResult := runner.New(cfg, logger)
	if exitResult != nil {
		exitResult.Print()
		return exitResult.ExitCode
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return r.Run(ctx)
}

// newLogger builds a JSON logger on stderr. Only warnings are shown unless
// debug is set.
func newLogger(debug bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}
