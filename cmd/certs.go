package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/anchorageoss/rot-dice/keys"
	"github.com/anchorageoss/rot-dice/verify"
)

// CertsCommand creates the certs command
func CertsCommand() *cli.Command {
	return &cli.Command{
		Name:  "certs",
		Usage: "Boot a simulated board and dump its attestation certificate chain",
		Flags: append(boardFlags(),
			&cli.BoolFlag{
				Name:    "pem",
				Usage:   "Output the chain as PEM certificates",
				Sources: cli.EnvVars("ROT_DICE_PEM"),
			},
			&cli.BoolFlag{
				Name:    "verify",
				Usage:   "Check every link of the chain",
				Sources: cli.EnvVars("ROT_DICE_VERIFY"),
			},
			rootKeyFlag(),
		),
		Action: runCertsCommand,
	}
}

func rootKeyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "root-key",
		Usage:   "Manufacturing root public key (hex); defaults to the line-root key in --key-dir",
		Sources: cli.EnvVars("ROT_DICE_ROOT_KEY"),
	}
}

// rootKey resolves --root-key. Without the flag the line-root public key
// from --key-dir is used when present.
func rootKey(cmd *cli.Command) ([]byte, error) {
	if s := cmd.String("root-key"); s != "" {
		return keys.ParsePublicKey(s)
	}
	store, err := keyStore(cmd)
	if err != nil {
		return nil, err
	}
	pub, err := store.LoadPublicKey(rootKeyName)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return pub, err
}

func runCertsCommand(ctx context.Context, cmd *cli.Command) error {
	b, err := boot(ctx, cmd)
	if err != nil {
		return fmt.Errorf("stage0 failed: %w", err)
	}

	var chain [][]byte
	err = b.serve(ctx, func(ctx context.Context, c clients) error {
		var err error
		chain, err = c.attest.CertChain(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to read certificate chain: %w", err)
	}

	w := cmd.Root().Writer
	formatter := verify.NewFormatter()
	if cmd.Bool("pem") {
		fmt.Fprint(w, formatter.FormatPEM(chain))
		return nil
	}

	certs, err := verify.ParseChain(chain)
	if err != nil {
		return fmt.Errorf("failed to parse certificate chain: %w", err)
	}
	fmt.Fprintf(w, "Certificate chain (%d certificates):\n", len(certs))
	fmt.Fprint(w, formatter.FormatChain(certs, "  "))
	if !cmd.Bool("verify") {
		return nil
	}

	root, err := rootKey(cmd)
	if err != nil {
		return err
	}
	links, verr := verify.VerifyChain(certs, root)
	fmt.Fprintln(w, "Links:")
	for _, l := range links {
		if l.Valid {
			fmt.Fprintf(w, "  ✓ %s signed by %s\n", l.Subject, l.Issuer)
		} else {
			fmt.Fprintf(w, "  ✗ %s: %s\n", l.Subject, l.Error)
		}
	}
	if verr != nil {
		return fmt.Errorf("chain verification failed: %w", verr)
	}
	return nil
}
