package phy

import (
	"errors"
	"testing"

	"github.com/hwdrivers/mdio/miim"
)

// scriptBus is a PHY with canned register state at a single bus
// address. Reads can be overridden per register with a queue of
// values, for latched bits and self-clearing polls.
type scriptBus struct {
	addr uint8
	regs map[uint8]uint16
	seq  map[uint8][]uint16

	lastWrite uint16
	err       error
}

func (b *scriptBus) decode(ctrl uint16) (phyAddr, regAddr uint8) {
	return uint8(ctrl >> 7 & 0b11111), uint8(ctrl >> 2 & 0b11111)
}

func (b *scriptBus) Read(ctrl uint16) (uint16, error) {
	if b.err != nil {
		return 0, b.err
	}
	phyAddr, regAddr := b.decode(ctrl)
	if phyAddr != b.addr {
		return 0xffff, nil
	}
	if q := b.seq[regAddr]; len(q) > 0 {
		v := q[0]
		b.seq[regAddr] = q[1:]
		return v, nil
	}
	return b.regs[regAddr], nil
}

func (b *scriptBus) Write(ctrl, data uint16) error {
	if b.err != nil {
		return b.err
	}
	phyAddr, regAddr := b.decode(ctrl)
	if phyAddr == b.addr {
		if b.regs == nil {
			b.regs = map[uint8]uint16{}
		}
		b.regs[regAddr] = data
		b.lastWrite = data
	}
	return nil
}

func TestDetect(t *testing.T) {
	bus := &scriptBus{addr: 7, regs: map[uint8]uint16{miim.PHYID1: 0x0022}}
	d, err := Detect(bus)
	if err != nil {
		t.Fatal(err)
	}
	if d.Addr != 7 {
		t.Fatalf("detected address %d, want 7", d.Addr)
	}

	empty := &scriptBus{addr: 7} // id reads as zero
	if _, err := Detect(empty); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Detect on empty bus: %v, want ErrNotFound", err)
	}
}

func TestID(t *testing.T) {
	bus := &scriptBus{addr: 1, regs: map[uint8]uint16{
		miim.PHYID1: 0x0022,
		miim.PHYID2: 0x1550,
	}}
	id, err := New(bus, 1).ID()
	if err != nil {
		t.Fatal(err)
	}
	if id != 0x00221550 {
		t.Fatalf("id %#08x, want 0x00221550", id)
	}
}

func TestReset(t *testing.T) {
	// The reset bit reads as set for a few polls, then clears.
	bus := &scriptBus{addr: 1, seq: map[uint8][]uint16{
		miim.BMCR: {miim.BMCRReset, miim.BMCRReset, miim.BMCRReset, 0},
	}}
	d := New(bus, 1)
	if err := d.Reset(); err != nil {
		t.Fatal(err)
	}
	if bus.lastWrite != miim.BMCRReset {
		t.Fatalf("reset wrote %#04x", bus.lastWrite)
	}
}

func TestResetStuck(t *testing.T) {
	bus := &scriptBus{addr: 1, regs: map[uint8]uint16{
		miim.BMCR: miim.BMCRReset,
	}}
	if err := New(bus, 1).Reset(); err == nil {
		t.Fatal("reset of a stuck device succeeded")
	}
}

func TestLinkUp(t *testing.T) {
	// Link came back after a drop: the first read returns the
	// latched-low state, the second the current one.
	bus := &scriptBus{addr: 1, seq: map[uint8][]uint16{
		miim.BMSR: {0, miim.BMSRLinkUp},
	}}
	up, err := New(bus, 1).LinkUp()
	if err != nil {
		t.Fatal(err)
	}
	if !up {
		t.Fatal("link reported down")
	}

	bus = &scriptBus{addr: 1}
	up, err = New(bus, 1).LinkUp()
	if err != nil {
		t.Fatal(err)
	}
	if up {
		t.Fatal("link reported up on a dead bus")
	}
}

func TestRestartAutoNeg(t *testing.T) {
	bus := &scriptBus{addr: 1, regs: map[uint8]uint16{
		miim.BMCR: miim.BMCRFullDuplex,
	}}
	if err := New(bus, 1).RestartAutoNeg(); err != nil {
		t.Fatal(err)
	}
	want := uint16(miim.BMCRFullDuplex | miim.BMCRANEnable | miim.BMCRANRestart)
	if bus.lastWrite != want {
		t.Fatalf("wrote %#04x, want %#04x", bus.lastWrite, want)
	}
}

func TestBusErrorPropagates(t *testing.T) {
	errBus := errors.New("bus gone")
	bus := &scriptBus{addr: 1, err: errBus}
	if _, err := New(bus, 1).ID(); !errors.Is(err, errBus) {
		t.Fatalf("ID error = %v, want wrapped %v", err, errBus)
	}
	if _, err := Detect(bus); !errors.Is(err, errBus) {
		t.Fatalf("Detect error = %v, want wrapped %v", err, errBus)
	}
}
