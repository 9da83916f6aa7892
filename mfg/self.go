package mfg

import (
	"context"
	"errors"

	"github.com/anchorageoss/rot-dice/cert"
	"github.com/anchorageoss/rot-dice/crypto"
)

// SelfSigned issues the PersistentId certificate under its own key.
//
// The key comes from the PUF when one is configured and from the CDI
// otherwise. With a PUF and a state store the key code is persisted on
// first boot, so the identity survives firmware updates.
type SelfSigned struct {
	cfg Config
	cdi *crypto.Cdi
}

// NewSelfSigned returns a SelfSigned variant. cdi is used when cfg has no
// PUF.
func NewSelfSigned(cfg Config, cdi *crypto.Cdi) (*SelfSigned, error) {
	if cfg.Puf == nil && cdi == nil {
		return nil, errors.New("self-signed manufacturing requires a puf or a cdi")
	}
	return &SelfSigned{cfg: cfg, cdi: cdi}, nil
}

func (m *SelfSigned) Run(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.cfg.Puf != nil && m.cfg.Store != nil {
		programmed, err := m.cfg.Store.IsProgrammed()
		if err != nil {
			return nil, err
		}
		if programmed {
			return m.fromFlash()
		}
	}

	var seed *crypto.PersistIDSeed
	var st *DiceState
	if m.cfg.Puf == nil {
		seed = crypto.NewPersistIDSeed(m.cdi)
	} else {
		kc, s, err := enroll(m.cfg.Puf)
		if err != nil {
			return nil, err
		}
		seed = s
		st = &DiceState{PersistIDKeyCode: kc, SerialNumber: SelfSignedSN}
	}
	defer seed.Zeroize()
	kp := crypto.NewKeypair(seed)

	var serial cert.CertSerialNumber
	self := m.cfg.builder().DeviceIDSelf(serial.Next(), SelfSignedSN, kp)
	blob := cert.MustSizedBlob(self.Bytes())

	if st != nil && m.cfg.Store != nil {
		st.PersistIDCert = blob
		if _, err := m.cfg.Store.Save(st); err != nil {
			kp.Zeroize()
			return nil, err
		}
	}
	m.cfg.logger().Debug("self-signed persistent id issued", "serial", serial)

	return &Result{
		CertSerialNumber: serial,
		SerialNumber:     SelfSignedSN,
		PersistIDKeypair: kp,
		PersistIDCert:    blob,
	}, nil
}

func (m *SelfSigned) fromFlash() (*Result, error) {
	st, err := m.cfg.Store.Load()
	if err != nil {
		return nil, err
	}
	seed, err := regenerate(m.cfg.Puf, st.PersistIDKeyCode)
	if err != nil {
		return nil, err
	}
	defer seed.Zeroize()
	return &Result{
		// The stored certificate consumed serial 1.
		CertSerialNumber: 1,
		SerialNumber:     st.SerialNumber,
		PersistIDKeypair: crypto.NewKeypair(seed),
		PersistIDCert:    st.PersistIDCert,
	}, nil
}
