package cmd

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

// Stage0Command creates the stage0 command
func Stage0Command() *cli.Command {
	return &cli.Command{
		Name:  "stage0",
		Usage: "Simulate a board reset and run the DICE pipeline",
		Flags: append(boardFlags(),
			&cli.StringFlag{
				Name:    "out",
				Usage:   "Write the handoff memory image to the specified path",
				Sources: cli.EnvVars("ROT_DICE_HANDOFF_OUT"),
			},
			&cli.BoolFlag{
				Name:    "json",
				Usage:   "Output in JSON format",
				Sources: cli.EnvVars("ROT_DICE_JSON"),
			},
		),
		Action: runStage0Command,
	}
}

type stage0Output struct {
	Enabled      bool   `json:"enabled"`
	Mode         string `json:"mode"`
	SerialNumber string `json:"serialNumber,omitempty"`
	FWID         string `json:"fwid,omitempty"`
	ChainLen     int    `json:"chainLen"`
}

func runStage0Command(ctx context.Context, cmd *cli.Command) error {
	b, err := boot(ctx, cmd)
	if err != nil {
		return fmt.Errorf("stage0 failed: %w", err)
	}
	if path := cmd.String("out"); path != "" {
		if err := afero.WriteFile(fs, path, b.ram.Snapshot(), 0o644); err != nil {
			return fmt.Errorf("failed to write handoff image: %w", err)
		}
	}

	out := stage0Output{Enabled: b.result.Enabled, Mode: cmd.String("mode"), ChainLen: b.result.ChainLen}
	if out.Enabled {
		out.SerialNumber = b.result.SerialNumber.String()
		out.FWID = hex.EncodeToString(b.result.FWID[:])
	}

	w := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if !out.Enabled {
		fmt.Fprintln(w, "DICE disabled: no identity produced")
		return nil
	}
	fmt.Fprintf(w, "Mode: %s\n", out.Mode)
	fmt.Fprintf(w, "Serial Number: %s\n", out.SerialNumber)
	fmt.Fprintf(w, "FWID: %s\n", out.FWID)
	fmt.Fprintf(w, "Chain Length: %d\n", out.ChainLen)
	return nil
}
