package mfg

import (
	"context"
	"errors"
	"fmt"

	"github.com/anchorageoss/rot-dice/crypto"
	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

// Serial manufactures a board over the USART on first boot and loads the
// persisted identity afterwards.
type Serial struct {
	cfg Config
}

// NewSerial returns a Serial variant. cfg must provide the PUF, the state
// store, the syscon and the USART.
func NewSerial(cfg Config) (*Serial, error) {
	switch {
	case cfg.Puf == nil:
		return nil, errors.New("serial manufacturing requires a puf")
	case cfg.Store == nil:
		return nil, errors.New("serial manufacturing requires a state store")
	case cfg.Syscon == nil:
		return nil, errors.New("serial manufacturing requires a syscon")
	case cfg.Usart == nil:
		return nil, errors.New("serial manufacturing requires a usart")
	}
	return &Serial{cfg: cfg}, nil
}

func (s *Serial) Run(ctx context.Context) (*Result, error) {
	log := s.cfg.logger()
	programmed, err := s.cfg.Store.IsProgrammed()
	if err != nil {
		return nil, err
	}
	if programmed {
		log.Debug("loading dice state from flash")
		return s.fromFlash()
	}

	kc, seed, err := enroll(s.cfg.Puf)
	if err != nil {
		return nil, err
	}
	defer seed.Zeroize()
	kp := crypto.NewKeypair(seed)

	log.Info("waiting for manufacturing line", "usart", lpc55.DefaultUsartConfig())
	lpc55.TurnOnUsart(s.cfg.Syscon)
	collected, err := NewDriver(s.cfg.Usart, kp, log).Run(ctx)
	lpc55.TurnOffUsart(s.cfg.Syscon)
	if err != nil {
		kp.Zeroize()
		return nil, err
	}
	// Flash is write-once; only a verified identity is stored.
	if err := checkIdentity(collected, kp.Public()); err != nil {
		kp.Zeroize()
		log.Warn("not persisting manufacturing state", "error", err)
		return nil, err
	}

	st := &DiceState{
		PersistIDKeyCode: kc,
		SerialNumber:     collected.SerialNumber,
		PersistIDCert:    collected.PersistIDCert,
		IntermediateCert: collected.IntermediateCert,
	}
	if _, err := s.cfg.Store.Save(st); err != nil {
		kp.Zeroize()
		return nil, err
	}
	log.Info("manufacturing complete", "serial_number", st.SerialNumber)

	return &Result{
		SerialNumber:     st.SerialNumber,
		PersistIDKeypair: kp,
		PersistIDCert:    st.PersistIDCert,
		IntermediateCert: st.IntermediateCert,
	}, nil
}

func (s *Serial) fromFlash() (*Result, error) {
	st, err := s.cfg.Store.Load()
	if err != nil {
		return nil, err
	}
	seed, err := regenerate(s.cfg.Puf, st.PersistIDKeyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to regenerate persistent id: %w", err)
	}
	defer seed.Zeroize()
	return &Result{
		SerialNumber:     st.SerialNumber,
		PersistIDKeypair: crypto.NewKeypair(seed),
		PersistIDCert:    st.PersistIDCert,
		IntermediateCert: st.IntermediateCert,
	}, nil
}
