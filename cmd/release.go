package cmd

import (
	"context"
	"fmt"

	"github.com/compozy/ghrelease/internal/logger"
	"go.uber.org/zap"
)

// runRelease wires the dependencies and runs a single release.
func runRelease(ctx context.Context) error {
	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log, err := logger.NewZapLogger(level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		// stderr sync fails on some platforms
		_ = log.Sync()
	}()

	c, err := newContainer(log)
	if err != nil {
		return err
	}
	result, err := c.releaseOrchestrator().Execute(ctx, c.cfg)
	if err != nil {
		return err
	}
	log.Debug("Release finished",
		zap.Int64("id", result.Release.ID),
		zap.Int("assets", len(result.Assets)))
	return nil
}
