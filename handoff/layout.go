package handoff

import (
	"fmt"
	"sort"

	"github.com/anchorageoss/rot-dice/pkg/lpc55"
)

// Base is the bus address of the handoff memory.
const Base = lpc55.USB1RamBase

// Region is a window of handoff memory reserved for one consumer. Start is
// relative to Base.
type Region struct {
	Name  string
	Start uint32
	Size  uint32
}

// Addr returns the bus address of the region.
func (r Region) Addr() uint32 { return Base + r.Start }

func (r Region) End() uint32 { return r.Start + r.Size }

func (r Region) String() string {
	return fmt.Sprintf("%s 0x%08x+0x%04x", r.Name, r.Addr(), r.Size)
}

// These must agree with the kernel's extern-regions table.
var (
	CertsRegion     = Region{Name: "certs", Start: 0x0000, Size: 0x0a00}
	AliasRegion     = Region{Name: "alias", Start: 0x0a00, Size: 0x0800}
	SpMeasureRegion = Region{Name: "spmeasure", Start: 0x1200, Size: 0x0800}
	RngRegion       = Region{Name: "rng", Start: 0x1a00, Size: 0x0100}
)

// Regions returns the handoff regions in address order.
func Regions() []Region {
	return []Region{CertsRegion, AliasRegion, SpMeasureRegion, RngRegion}
}

// Magic frames a handoff payload.
type Magic [16]byte

var (
	CertsMagic     = Magic{0x61, 0x3c, 0xc9, 0x2e, 0x42, 0x97, 0x96, 0xf5, 0xfa, 0xc8, 0x76, 0x69, 0x9a, 0xf2, 0x07, 0xbf}
	AliasMagic     = Magic{0x3e, 0xbc, 0x3c, 0xdc, 0x60, 0x37, 0xab, 0x86, 0xf0, 0x60, 0x20, 0x52, 0xc4, 0xfd, 0xd5, 0x58}
	SpMeasureMagic = Magic{0xec, 0x4a, 0xc2, 0x1c, 0xb5, 0xaa, 0x5b, 0x34, 0x47, 0x84, 0x96, 0x4a, 0x0a, 0x55, 0x54, 0x37}
	RngMagic       = Magic{0xb2, 0x48, 0x4b, 0x83, 0x3f, 0xee, 0xc0, 0xc0, 0xba, 0x0a, 0x5b, 0x6c, 0x34, 0x98, 0x45, 0x6c}
)

// Validate checks that every payload type fits its region, that regions do
// not overlap, that magics are distinct and that the layout fits the
// backing RAM.
func Validate() error {
	payloads := []Data{&CertData{}, &AliasData{}, &SpMeasureData{}, &RngData{}}
	magics := make(map[Magic]string)
	regions := make([]Region, 0, len(payloads))
	for _, d := range payloads {
		r := d.Region()
		size, err := MaxSize(d)
		if err != nil {
			return err
		}
		if uint32(size) > r.Size {
			return fmt.Errorf("%s payload of %d bytes exceeds region size %d", r.Name, size, r.Size)
		}
		if other, ok := magics[d.ExpectedMagic()]; ok {
			return fmt.Errorf("%s magic duplicates %s", r.Name, other)
		}
		magics[d.ExpectedMagic()] = r.Name
		regions = append(regions, r)
	}

	sort.Slice(regions, func(i, j int) bool { return regions[i].Start < regions[j].Start })
	for i := 1; i < len(regions); i++ {
		if regions[i].Start < regions[i-1].End() {
			return fmt.Errorf("region %s overlaps %s", regions[i], regions[i-1])
		}
	}
	if last := regions[len(regions)-1]; last.End() > lpc55.USB1RamSize {
		return fmt.Errorf("region %s exceeds handoff memory", last)
	}
	return nil
}

func init() {
	if err := Validate(); err != nil {
		panic(err)
	}
}
