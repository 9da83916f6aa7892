package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/urfave/cli/v3"
)

// KeysCommand creates the keys commands
func KeysCommand() *cli.Command {
	return &cli.Command{
		Name:  "keys",
		Usage: "Manage manufacturing line keys",
		Commands: []*cli.Command{
			keysGenerateCommand(),
		},
	}
}

func keysGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate the line root and intermediate keys",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "key-dir",
				Usage:   "Directory to write the keys to (default ~/.config/rot-dice/keys)",
				Sources: cli.EnvVars("ROT_DICE_KEY_DIR"),
			},
		},
		Action: runKeysGenerateCommand,
	}
}

func runKeysGenerateCommand(ctx context.Context, cmd *cli.Command) error {
	store, err := keyStore(cmd)
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	for _, name := range []string{rootKeyName, intermediateKeyName} {
		pub, err := store.Generate(name, rand.Reader)
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", name, err)
		}
		fmt.Fprintf(w, "%s: %s\n", name, hex.EncodeToString(pub))
	}
	return nil
}
