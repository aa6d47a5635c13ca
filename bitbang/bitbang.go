// Package bitbang drives the MDIO management bus in software,
// by toggling a data and a clock GPIO pin in step with a
// periodic timing source.
//
// The data pin should be open-drain, or wired with a pull-up:
// during the read turnaround the transport stops driving the
// line and the remote device is expected to take it over. An
// address with no device behind it therefore reads back all
// ones.
package bitbang

import (
	"periph.io/x/conn/v3/gpio"
)

// DataPin is the bidirectional MDIO line. periph.io gpio.PinIO
// pins satisfy it as-is.
type DataPin interface {
	Out(l gpio.Level) error
	Read() gpio.Level
}

// ClockPin is the MDC line, driven only by this side.
type ClockPin interface {
	Out(l gpio.Level) error
}

// Clock paces the bus. Every call to Wait blocks until the next
// period boundary of a free-running timer; two periods make one
// MDC cycle. A Wait error aborts the transaction in progress,
// because a frame with a missing clock edge cannot be resumed.
type Clock interface {
	Wait() error
}

// preambleBits is the length of the synchronization preamble.
const preambleBits = 32

// Transport is a bit-banged MDIO bus. It implements
// mdio.ReadWriter.
//
// The transport holds no state between transactions; every
// transaction starts with a fresh preamble, which is also the
// only way to recover a device from a torn frame. A transaction
// runs to completion or fails at the offending bit, and the
// pins and clock must not be touched by anyone else while one
// is in flight.
type Transport struct {
	mdio DataPin
	mdc  ClockPin
	clk  Clock
}

// New returns a transport over the given pins and timing
// source. The MDC pin should be low and the MDIO pin configured
// as an output before the first transaction.
func New(mdio DataPin, mdc ClockPin, clk Clock) *Transport {
	return &Transport{mdio: mdio, mdc: mdc, clk: clk}
}

// pulse clocks one bit time: half a period with MDC high, half
// with it low. Every bit on the bus, in either direction, costs
// exactly one pulse.
func (t *Transport) pulse() error {
	if err := t.clk.Wait(); err != nil {
		return err
	}
	if err := t.mdc.Out(gpio.High); err != nil {
		return err
	}
	if err := t.clk.Wait(); err != nil {
		return err
	}
	return t.mdc.Out(gpio.Low)
}

// preamble holds the data line high for 32 bit times, forcing
// the remote device into sync regardless of prior bus state.
func (t *Transport) preamble() error {
	if err := t.mdio.Out(gpio.High); err != nil {
		return err
	}
	for i := 0; i < preambleBits; i++ {
		if err := t.pulse(); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transport) writeBit(b gpio.Level) error {
	if err := t.mdio.Out(b); err != nil {
		return err
	}
	return t.pulse()
}

// writeBits writes the n most significant bits of b, highest
// first.
func (t *Transport) writeBits(b byte, n int) error {
	for i := 0; i < min(n, 8); i++ {
		if err := t.writeBit(gpio.Level(b>>(7-i)&1 == 1)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Transport) writeByte(b byte) error {
	return t.writeBits(b, 8)
}

func (t *Transport) writeWord(w uint16) error {
	if err := t.writeByte(byte(w >> 8)); err != nil {
		return err
	}
	return t.writeByte(byte(w))
}

// turnaround gives up the data line for two bit times. The line
// is not driven; the remote device pulls it low on the second
// bit and follows with the data.
func (t *Transport) turnaround() error {
	if err := t.pulse(); err != nil {
		return err
	}
	return t.pulse()
}

func (t *Transport) readBit() (gpio.Level, error) {
	b := t.mdio.Read()
	if err := t.pulse(); err != nil {
		return gpio.Low, err
	}
	return b, nil
}

func (t *Transport) readByte() (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		bit, err := t.readBit()
		if err != nil {
			return 0, err
		}
		if bit {
			b |= 1 << (7 - i)
		}
	}
	return b, nil
}

func (t *Transport) readWord() (uint16, error) {
	hi, err := t.readByte()
	if err != nil {
		return 0, err
	}
	lo, err := t.readByte()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// Read implements mdio.Reader. It sends the preamble and the 14
// driven control bits, stopping short of the two turnaround
// bits which are not driven by this side, waits out the
// turnaround and reads back the 16 data bits.
func (t *Transport) Read(ctrl uint16) (uint16, error) {
	if err := t.preamble(); err != nil {
		return 0, err
	}
	if err := t.writeByte(byte(ctrl >> 8)); err != nil {
		return 0, err
	}
	if err := t.writeBits(byte(ctrl), 6); err != nil {
		return 0, err
	}
	if err := t.turnaround(); err != nil {
		return 0, err
	}
	return t.readWord()
}

// Write implements mdio.Writer: preamble, 16 control bits, 16
// data bits, all driven by this side.
func (t *Transport) Write(ctrl, data uint16) error {
	if err := t.preamble(); err != nil {
		return err
	}
	if err := t.writeWord(ctrl); err != nil {
		return err
	}
	return t.writeWord(data)
}
