package cmd

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/anchorageoss/rot-dice/attest"
	"github.com/anchorageoss/rot-dice/verify"
)

// AttestCommand creates the attest commands
func AttestCommand() *cli.Command {
	return &cli.Command{
		Name:  "attest",
		Usage: "Collect and verify attestation evidence",
		Commands: []*cli.Command{
			attestQuoteCommand(),
			attestVerifyCommand(),
		},
	}
}

func attestQuoteCommand() *cli.Command {
	return &cli.Command{
		Name:  "quote",
		Usage: "Boot a simulated board, record measurements and collect a quote",
		Flags: append(boardFlags(),
			&cli.StringFlag{
				Name:    "nonce",
				Usage:   "Quote nonce (hex); drawn from the board RNG if unset",
				Sources: cli.EnvVars("ROT_DICE_NONCE"),
			},
			&cli.StringSliceFlag{
				Name:    "measure",
				Usage:   "SHA3-256 digest (hex) to record before quoting; repeatable",
				Sources: cli.EnvVars("ROT_DICE_MEASURE"),
			},
			&cli.StringFlag{
				Name:    "out",
				Usage:   "Write the CBOR evidence to the specified path",
				Sources: cli.EnvVars("ROT_DICE_EVIDENCE_OUT"),
			},
			rootKeyFlag(),
			&cli.BoolFlag{
				Name:    "json",
				Usage:   "Output in JSON format",
				Sources: cli.EnvVars("ROT_DICE_JSON"),
			},
		),
		Action: runAttestQuoteCommand,
	}
}

func attestVerifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Verify CBOR attestation evidence",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "evidence",
				Usage:    "Path to CBOR evidence",
				Required: true,
				Sources:  cli.EnvVars("ROT_DICE_EVIDENCE"),
			},
			&cli.StringFlag{
				Name:    "nonce",
				Usage:   "Expected quote nonce (hex)",
				Sources: cli.EnvVars("ROT_DICE_NONCE"),
			},
			&cli.StringFlag{
				Name:    "fwid",
				Usage:   "Expected firmware measurement of the alias certificate (hex)",
				Sources: cli.EnvVars("ROT_DICE_FWID"),
			},
			&cli.StringFlag{
				Name:    "key-dir",
				Usage:   "Directory holding the manufacturing line keys",
				Sources: cli.EnvVars("ROT_DICE_KEY_DIR"),
			},
			rootKeyFlag(),
			&cli.BoolFlag{
				Name:    "json",
				Usage:   "Output in JSON format",
				Sources: cli.EnvVars("ROT_DICE_JSON"),
			},
		},
		Action: runAttestVerifyCommand,
	}
}

func parseDigests(in []string) ([][attest.DigestSize]byte, error) {
	out := make([][attest.DigestSize]byte, 0, len(in))
	for _, s := range in {
		d, err := parseSeed("measurement", s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func runAttestQuoteCommand(ctx context.Context, cmd *cli.Command) error {
	digests, err := parseDigests(cmd.StringSlice("measure"))
	if err != nil {
		return err
	}
	var nonce []byte
	if s := cmd.String("nonce"); s != "" {
		if nonce, err = hex.DecodeString(s); err != nil {
			return fmt.Errorf("failed to decode nonce hex: %w", err)
		}
	}
	root, err := rootKey(cmd)
	if err != nil {
		return err
	}

	b, err := boot(ctx, cmd)
	if err != nil {
		return fmt.Errorf("stage0 failed: %w", err)
	}
	var ev *attest.Evidence
	err = b.serve(ctx, func(ctx context.Context, c clients) error {
		for _, d := range digests {
			if err := c.attest.Record(ctx, d); err != nil {
				return fmt.Errorf("failed to record measurement: %w", err)
			}
		}
		if nonce == nil {
			if c.rng == nil {
				return errors.New("no rng to draw a nonce from; pass --nonce")
			}
			nonce = make([]byte, 32)
			if _, err := io.ReadFull(c.rng.Reader(ctx), nonce); err != nil {
				return fmt.Errorf("failed to draw nonce: %w", err)
			}
		}
		var err error
		ev, err = c.attest.Collect(ctx, nonce)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to collect evidence: %w", err)
	}

	if path := cmd.String("out"); path != "" {
		raw, err := ev.Marshal()
		if err != nil {
			return err
		}
		if err := afero.WriteFile(fs, path, raw, 0o644); err != nil {
			return fmt.Errorf("failed to write evidence: %w", err)
		}
	}

	result, err := verify.Evidence(ev, &verify.VerifyRequest{Nonce: nonce, RootPublicKey: root})
	if err != nil {
		return err
	}
	return printResult(cmd, ev, result)
}

func runAttestVerifyCommand(ctx context.Context, cmd *cli.Command) error {
	raw, err := afero.ReadFile(fs, cmd.String("evidence"))
	if err != nil {
		return fmt.Errorf("failed to read evidence: %w", err)
	}
	ev, err := attest.ParseEvidence(raw)
	if err != nil {
		return err
	}

	req := &verify.VerifyRequest{}
	if s := cmd.String("nonce"); s != "" {
		if req.Nonce, err = hex.DecodeString(s); err != nil {
			return fmt.Errorf("failed to decode nonce hex: %w", err)
		}
	}
	if s := cmd.String("fwid"); s != "" {
		fwid, err := parseSeed("fwid", s)
		if err != nil {
			return err
		}
		req.ExpectedFWID = &fwid
	}
	if req.RootPublicKey, err = rootKey(cmd); err != nil {
		return err
	}

	result, err := verify.Evidence(ev, req)
	if err != nil {
		return fmt.Errorf("failed to parse evidence: %w", err)
	}
	return printResult(cmd, ev, result)
}

// printResult writes result and fails the command when it is not valid.
func printResult(cmd *cli.Command, ev *attest.Evidence, result *verify.VerifyResult) error {
	w := cmd.Root().Writer
	formatter := verify.NewFormatter()
	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(formatter.FormatVerificationResult(result)); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(w, "Serial Number: %s\n", result.SerialNumber)
		fmt.Fprintf(w, "FWID: %s\n", result.FWIDHex)
		fmt.Fprintf(w, "Nonce: %s\n", hex.EncodeToString(ev.Nonce))
		fmt.Fprintf(w, "Alias Public Key: %s\n", result.AliasKeyHex)
		if log, err := attest.ParseLog(ev.Log); err == nil {
			fmt.Fprint(w, formatter.FormatLog(log, ""))
		}
		fmt.Fprintf(w, "Chain: %s\n", status(result.ChainValid))
		fmt.Fprintf(w, "Quote: %s\n", status(result.QuoteValid))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  ✗ %s\n", e)
		}
	}
	if !result.Valid {
		return fmt.Errorf("evidence verification failed: %s", strings.Join(result.Errors, "; "))
	}
	return nil
}

func status(ok bool) string {
	if ok {
		return "✓ valid"
	}
	return "✗ invalid"
}
