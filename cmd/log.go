package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/urfave/cli/v3"
	"hermannm.dev/devlog"
)

var level slog.LevelVar

// SetupLogging installs a devlog handler writing to w as the default
// logger.
func SetupLogging(w io.Writer) {
	slog.SetDefault(slog.New(devlog.NewHandler(w, &devlog.Options{
		Level: &level,
	})))
}

// DebugFlag switches the default logger to debug level.
func DebugFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "debug",
		Usage:   "Enable debug logging",
		Sources: cli.EnvVars("ROT_DICE_DEBUG"),
	}
}

// ApplyLogLevel is a Before hook honoring --debug.
func ApplyLogLevel(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
	return ctx, nil
}
