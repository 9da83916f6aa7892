package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/anchorageoss/rot-dice/cmd"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:   "rot-dice",
		Usage:  "Simulate the LPC55 root of trust DICE identity and attestation tasks",
		Flags:  []cli.Flag{cmd.DebugFlag()},
		Before: cmd.ApplyLogLevel,
		Commands: []*cli.Command{
			cmd.Stage0Command(),
			cmd.CertsCommand(),
			cmd.AttestCommand(),
			cmd.RngCommand(),
			cmd.KeysCommand(),
		},
	}
}

func main() {
	cmd.SetupLogging(os.Stderr)
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
