// Package mdiotest simulates a clause 22 PHY behind the two
// management bus pins, for testing transports and drivers
// without hardware.
package mdiotest

import (
	"periph.io/x/conn/v3/gpio"

	"github.com/hwdrivers/mdio/bitbang"
	"github.com/hwdrivers/mdio/miim"
)

// Management frame structure, as seen from the device.
const (
	preambleBits = 32
	// Driven control bits: start (2), op (2), PHY address (5),
	// register address (5).
	ctrlBits = 14

	opWrite = 0b01
	opRead  = 0b10
)

// PHY is a simulated device on the management bus. It decodes
// frames on rising MDC edges and backs reads and writes with a
// 32-entry register file. The zero value is a device at address
// 0 with all registers zero.
//
// Wire it to a transport through its pin views:
//
//	sim := &mdiotest.PHY{Addr: 1}
//	bus := bitbang.New(sim.DataPin(), sim.ClockPin(), sim.Clock())
//
// Frames addressed elsewhere leave the line untouched, so reads
// from empty addresses yield 0xffff. Self-clearing BMCR bits
// (reset, autonegotiation restart) clear on write, the way a
// real device eventually would.
type PHY struct {
	Addr uint8
	Regs [32]uint16

	mdc  gpio.Level // last clock level, for edge detection
	in   gpio.Level // level driven by the bus master

	state simState
	ones  int    // consecutive high bits while hunting for a frame
	frame uint16 // incoming control bit accumulator
	acc   uint32 // incoming turnaround+data bit accumulator
	nbits int
	ta    int
	reg   uint8
	// selected reports whether the decoded frame addresses
	// this device.
	selected bool

	driving bool       // device currently drives the line
	level   gpio.Level // level it drives
	out     uint16     // remaining read data, MSB first
	nout    int
}

type simState int

const (
	statePreamble simState = iota
	stateFrame
	stateWriteData
	stateReadTurnaround
	stateReadData
)

// DataPin returns the device's view of the shared MDIO line.
func (p *PHY) DataPin() bitbang.DataPin { return dataPin{p} }

// ClockPin returns the device's view of the MDC line.
func (p *PHY) ClockPin() bitbang.ClockPin { return clockPin{p} }

// Clock returns a timing source without delay, so tests run at
// full speed.
func (p *PHY) Clock() bitbang.Clock { return nopClock{} }

type dataPin struct{ p *PHY }

func (d dataPin) Out(l gpio.Level) error {
	d.p.in = l
	return nil
}

func (d dataPin) Read() gpio.Level {
	if d.p.driving {
		return d.p.level
	}
	// Nobody drives the line; the pull-up wins.
	return gpio.High
}

type clockPin struct{ p *PHY }

func (c clockPin) Out(l gpio.Level) error {
	if l && !c.p.mdc {
		c.p.clockEdge()
	}
	c.p.mdc = l
	return nil
}

type nopClock struct{}

func (nopClock) Wait() error { return nil }

// clockEdge advances the frame decoder by the one bit time a
// rising MDC edge marks.
func (p *PHY) clockEdge() {
	bit := p.in
	switch p.state {
	case statePreamble:
		if bit {
			p.ones++
			return
		}
		if p.ones >= preambleBits {
			// The first low bit after a full preamble is
			// the start of frame.
			p.frame = 0
			p.nbits = 1
			p.state = stateFrame
		}
		p.ones = 0
	case stateFrame:
		p.frame <<= 1
		if bit {
			p.frame |= 1
		}
		p.nbits++
		if p.nbits < ctrlBits {
			return
		}
		if p.frame>>12 != 0b01 {
			// Not a frame start after all; hunt again.
			p.resync()
			return
		}
		p.selected = uint8(p.frame>>5&0b11111) == p.Addr
		p.reg = uint8(p.frame & 0b11111)
		switch p.frame >> 10 & 0b11 {
		case opWrite:
			p.acc = 0
			p.nbits = 0
			p.state = stateWriteData
		case opRead:
			p.ta = 0
			p.state = stateReadTurnaround
		default:
			p.resync()
		}
	case stateWriteData:
		p.acc <<= 1
		if bit {
			p.acc |= 1
		}
		p.nbits++
		// Two turnaround bits followed by the data word.
		if p.nbits < 2+16 {
			return
		}
		if p.selected {
			p.commit(uint16(p.acc))
		}
		p.resync()
	case stateReadTurnaround:
		p.ta++
		if p.ta == 1 {
			if p.selected {
				// Second turnaround bit time: the device
				// takes the line and pulls it low.
				p.driving = true
				p.level = gpio.Low
			}
			return
		}
		if !p.selected {
			p.resync()
			return
		}
		p.out = p.Regs[p.reg]
		p.nout = 16
		p.state = stateReadData
		p.shiftOut()
	case stateReadData:
		p.shiftOut()
	}
}

// shiftOut presents the next read data bit, or releases the
// line once all 16 are out.
func (p *PHY) shiftOut() {
	if p.nout == 0 {
		p.driving = false
		p.resync()
		return
	}
	p.nout--
	p.level = gpio.Level(p.out>>p.nout&1 == 1)
}

func (p *PHY) resync() {
	p.state = statePreamble
	p.ones = 0
}

func (p *PHY) commit(data uint16) {
	if p.reg == miim.BMCR {
		data &^= miim.BMCRReset | miim.BMCRANRestart
	}
	p.Regs[p.reg] = data
}
