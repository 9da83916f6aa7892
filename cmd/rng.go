package cmd

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// RngCommand creates the rng command
func RngCommand() *cli.Command {
	return &cli.Command{
		Name:  "rng",
		Usage: "Boot a simulated board and draw bytes from its RNG server",
		Flags: append(boardFlags(),
			&cli.IntFlag{
				Name:    "count",
				Usage:   "Number of bytes to draw",
				Value:   32,
				Sources: cli.EnvVars("ROT_DICE_RNG_COUNT"),
			},
			&cli.StringFlag{
				Name:    "out",
				Usage:   "Write the bytes to the specified path instead of printing hex",
				Sources: cli.EnvVars("ROT_DICE_RNG_OUT"),
			},
		),
		Action: runRngCommand,
	}
}

func runRngCommand(ctx context.Context, cmd *cli.Command) error {
	count := cmd.Int("count")
	if count < 0 {
		return errors.New("--count must not be negative")
	}
	b, err := boot(ctx, cmd)
	if err != nil {
		return fmt.Errorf("stage0 failed: %w", err)
	}

	buf := make([]byte, count)
	err = b.serve(ctx, func(ctx context.Context, c clients) error {
		if c.rng == nil {
			return errors.New("rng server has no dice seed")
		}
		_, err := io.ReadFull(c.rng.Reader(ctx), buf)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to draw random bytes: %w", err)
	}

	if path := cmd.String("out"); path != "" {
		if err := afero.WriteFile(fs, path, buf, 0o600); err != nil {
			return fmt.Errorf("failed to write random bytes: %w", err)
		}
		return nil
	}
	fmt.Fprintln(cmd.Root().Writer, hex.EncodeToString(buf))
	return nil
}
