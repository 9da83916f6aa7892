package cmd

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/anchorageoss/rot-dice/attest"
	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/ipc"
	"github.com/anchorageoss/rot-dice/keys"
	"github.com/anchorageoss/rot-dice/mfg"
	"github.com/anchorageoss/rot-dice/pkg/lpc55"
	"github.com/anchorageoss/rot-dice/rng"
	"github.com/anchorageoss/rot-dice/stage0"
)

// fs is the filesystem commands read images and keys from.
var fs afero.Fs = afero.NewOsFs()

// newClock returns the clock used for certificate timestamps and TRNG
// waits.
var newClock = func() clock.Clock { return clock.RealClock{} }

// defaultCdi is the CDI of an unprovisioned development board.
const defaultCdi = "2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a2a"

func boardFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "cdi",
			Usage:   "CDI left by the boot ROM (hex, all zeros disables DICE)",
			Value:   defaultCdi,
			Sources: cli.EnvVars("ROT_DICE_CDI"),
		},
		&cli.StringFlag{
			Name:    "image",
			Usage:   "Path to the firmware image measured into the FWID",
			Sources: cli.EnvVars("ROT_DICE_IMAGE"),
		},
		&cli.StringFlag{
			Name:    "mode",
			Usage:   "Manufacturing mode: self or serial",
			Value:   "self",
			Sources: cli.EnvVars("ROT_DICE_MODE"),
		},
		&cli.StringFlag{
			Name:    "puf-secret",
			Usage:   "Secret of the simulated PUF (hex); required in serial mode",
			Sources: cli.EnvVars("ROT_DICE_PUF_SECRET"),
		},
		&cli.StringFlag{
			Name:    "flash",
			Usage:   "Path to the flash image persisting manufacturing state across runs",
			Sources: cli.EnvVars("ROT_DICE_FLASH"),
		},
		&cli.StringFlag{
			Name:    "serial-number",
			Usage:   "Platform serial number the manufacturing line assigns",
			Value:   "BRM00000001",
			Sources: cli.EnvVars("ROT_DICE_SERIAL_NUMBER"),
		},
		&cli.StringFlag{
			Name:    "key-dir",
			Usage:   "Directory holding the manufacturing line keys (default ~/.config/rot-dice/keys)",
			Sources: cli.EnvVars("ROT_DICE_KEY_DIR"),
		},
		&cli.StringFlag{
			Name:    "entropy",
			Usage:   "Seed of the simulated TRNG (hex, random if unset)",
			Sources: cli.EnvVars("ROT_DICE_ENTROPY"),
		},
	}
}

// Line key names under --key-dir.
const (
	rootKeyName         = "line-root"
	intermediateKeyName = "line-intermediate"
)

func parseSeed(name, s string) ([32]byte, error) {
	var seed [32]byte
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return seed, fmt.Errorf("failed to decode %s hex: %w", name, err)
	}
	if len(b) != len(seed) {
		return seed, fmt.Errorf("%s must be %d bytes, got %d", name, len(seed), len(b))
	}
	copy(seed[:], b)
	return seed, nil
}

func keyStore(cmd *cli.Command) (*keys.Store, error) {
	dir := cmd.String("key-dir")
	if dir == "" {
		d, err := keys.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	return keys.NewStore(fs, dir), nil
}

// board is a simulated LPC55 after stage0 ran.
type board struct {
	syscon  *lpc55.SimSyscon
	ram     *lpc55.SRAM
	entropy [32]byte
	result  *stage0.Result
}

// boot simulates a reset of the board described by the flags of cmd. In
// serial mode an unprogrammed board is manufactured by an in-process line
// signing with the keys in --key-dir.
func boot(ctx context.Context, cmd *cli.Command) (*board, error) {
	raw, err := parseSeed("cdi", cmd.String("cdi"))
	if err != nil {
		return nil, err
	}
	mode, err := stage0.ParseMode(cmd.String("mode"))
	if err != nil {
		return nil, err
	}
	image, err := keys.ReadImage(fs, cmd.String("image"))
	if err != nil {
		return nil, err
	}

	b := &board{syscon: lpc55.NewSimSyscon()}
	if s := cmd.String("entropy"); s != "" {
		if b.entropy, err = parseSeed("entropy", s); err != nil {
			return nil, err
		}
	} else if _, err := io.ReadFull(rand.Reader, b.entropy[:]); err != nil {
		return nil, fmt.Errorf("failed to seed trng: %w", err)
	}

	regs := lpc55.NewMemRegs()
	lpc55.LoadCdi(regs, raw)
	clear(raw[:])
	b.ram = lpc55.NewUSB1Ram(b.syscon)
	sb := &stage0.Board{
		Mode:    mode,
		Syscon:  b.syscon,
		Cdi:     lpc55.NewCdiBank(regs),
		Handoff: b.ram,
		Image:   image,
		Clock:   newClock(),
		Logger:  slog.Default(),
	}

	if s := cmd.String("puf-secret"); s != "" {
		secret, err := parseSeed("puf secret", s)
		if err != nil {
			return nil, err
		}
		sb.Puf = lpc55.NewSimPuf(secret)
	}
	flash, err := loadFlash(cmd.String("flash"))
	if err != nil {
		return nil, err
	}
	if sb.Store, err = mfg.NewStateStore(flash, mfg.DefaultRegion); err != nil {
		return nil, err
	}

	if mode == stage0.ModeSerial {
		if sb.Puf == nil {
			return nil, errors.New("serial mode requires --puf-secret")
		}
		b.result, err = bootSerial(ctx, cmd, sb)
	} else {
		b.result, err = stage0.Run(ctx, sb)
	}
	if err != nil {
		return nil, err
	}
	if err := saveFlash(cmd.String("flash"), flash); err != nil {
		return nil, err
	}
	return b, nil
}

func bootSerial(ctx context.Context, cmd *cli.Command, sb *stage0.Board) (*stage0.Result, error) {
	dev, line := lpc55.NewSimUsartPair()
	sb.Usart = dev
	programmed, err := sb.Store.IsProgrammed()
	if err != nil {
		return nil, err
	}
	if programmed {
		return stage0.Run(ctx, sb)
	}

	sn, err := cert.ParseSerialNumber(cmd.String("serial-number"))
	if err != nil {
		return nil, err
	}
	ca, err := lineCA(cmd)
	if err != nil {
		return nil, err
	}
	var g errgroup.Group
	g.Go(func() error {
		return mfg.NewHost(line, slog.Default()).Manufacture(ctx, sn, ca)
	})
	res, err := stage0.Run(ctx, sb)
	if err != nil {
		_ = line.Close()
		_ = g.Wait()
		return nil, err
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("manufacturing line failed: %w", err)
	}
	return res, nil
}

func lineCA(cmd *cli.Command) (*mfg.LineCA, error) {
	store, err := keyStore(cmd)
	if err != nil {
		return nil, err
	}
	root, err := store.LoadSeed(rootKeyName)
	if err != nil {
		return nil, fmt.Errorf("failed to load line root key: %w", err)
	}
	defer clear(root[:])
	intermediate, err := store.LoadSeed(intermediateKeyName)
	if err != nil {
		return nil, fmt.Errorf("failed to load line intermediate key: %w", err)
	}
	defer clear(intermediate[:])
	return mfg.NewLineCA(root, intermediate, newClock())
}

func loadFlash(path string) (*lpc55.SimFlash, error) {
	region := mfg.DefaultRegion
	if path == "" {
		return lpc55.NewSimFlash(region.Start, region.Size()), nil
	}
	img, err := afero.ReadFile(fs, path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return lpc55.NewSimFlash(region.Start, region.Size()), nil
	case err != nil:
		return nil, fmt.Errorf("failed to read flash image: %w", err)
	case len(img) != int(region.Size()):
		return nil, fmt.Errorf("flash image must be %d bytes, got %d", region.Size(), len(img))
	}
	return lpc55.NewSimFlashFromImage(region.Start, img), nil
}

func saveFlash(path string, flash *lpc55.SimFlash) error {
	if path == "" {
		return nil
	}
	if err := afero.WriteFile(fs, path, flash.Image(), 0o644); err != nil {
		return fmt.Errorf("failed to write flash image: %w", err)
	}
	return nil
}

// clients are connected to the task servers of a booted board.
type clients struct {
	attest *attest.Client
	// rng is nil when the handoff memory holds no RNG seed.
	rng *rng.Client
}

// serve runs the attestation and RNG servers over the handoff memory of b
// until fn returns.
func (b *board) serve(ctx context.Context, fn func(ctx context.Context, c clients) error) error {
	log := slog.Default()
	attestSrv := attest.FromHandoff(b.ram, log)
	defer attestSrv.Close()

	trngCfg := lpc55.DefaultRngConfig()
	trngCfg.Logger = log.With("periph", "trng")
	hw, err := lpc55.NewHwRng(lpc55.NewRngSim(b.entropy), b.syscon, newClock(), trngCfg)
	if err != nil {
		return err
	}
	if err := hw.Init(); err != nil {
		return fmt.Errorf("failed to start trng: %w", err)
	}
	defer hw.Close()
	gen, err := rng.FromHandoff(b.ram, hw, rng.DefaultConfig())
	if errors.Is(err, rng.ErrNoDiceSeed) {
		log.Warn("rng server disabled", "err", err)
	} else if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	attestEp := ipc.NewEndpoint("attest")
	g.Go(func() error { return ipc.Serve(gctx, attestEp, attestSrv, log) })
	c := clients{attest: attest.NewClient(attestEp)}
	if gen != nil {
		rngEp := ipc.NewEndpoint("rng")
		srv := rng.NewServer(gen, log)
		g.Go(func() error { return ipc.Serve(gctx, rngEp, srv, log) })
		c.rng = rng.NewClient(rngEp)
	}

	ferr := fn(gctx, c)
	cancel()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return ferr
}
