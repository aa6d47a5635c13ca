// Package miim implements the standard MII management protocol
// (IEEE 802.3 clause 22) on top of an MDIO bus.
//
// A management frame carries a 2-bit start pattern, a 2-bit op
// code, a 5-bit PHY address, a 5-bit register address and 2
// turnaround bits, followed by 16 bits of register data. This
// package composes the control words and leaves the bit timing
// to the bus.
package miim

import "github.com/hwdrivers/mdio"

// Control word field offsets, counted from the least
// significant bit.
const (
	phyAddrOffset = 7
	regAddrOffset = 2
	addrMask      = 0b11111
)

// Fixed control bit patterns: start of frame 01, op code 10
// (read) or 01 (write). On a write this side also drives the
// turnaround bits as 10; on a read they are left to the device.
const (
	readCtrl  uint16 = 0b0110_00000_00000_00
	writeCtrl uint16 = 0b0101_00000_00000_10
)

// ReadCtrl returns the control word for reading the given
// register of the given PHY. Addresses are truncated to their
// low 5 bits.
func ReadCtrl(phyAddr, regAddr uint8) uint16 {
	return readCtrl | addrBits(phyAddr, regAddr)
}

// WriteCtrl is like ReadCtrl, for a write operation.
func WriteCtrl(phyAddr, regAddr uint8) uint16 {
	return writeCtrl | addrBits(phyAddr, regAddr)
}

func addrBits(phyAddr, regAddr uint8) uint16 {
	return uint16(phyAddr&addrMask)<<phyAddrOffset |
		uint16(regAddr&addrMask)<<regAddrOffset
}

// Read reads a PHY register over any MDIO bus.
func Read(bus mdio.Reader, phyAddr, regAddr uint8) (uint16, error) {
	return bus.Read(ReadCtrl(phyAddr, regAddr))
}

// Write writes a PHY register over any MDIO bus.
func Write(bus mdio.Writer, phyAddr, regAddr uint8, data uint16) error {
	return bus.Write(WriteCtrl(phyAddr, regAddr), data)
}

// Device is a single PHY on a bus.
type Device struct {
	Bus  mdio.ReadWriter
	Addr uint8
}

// Read reads the register at the given address.
func (d *Device) Read(regAddr uint8) (uint16, error) {
	return Read(d.Bus, d.Addr, regAddr)
}

// Write writes the register at the given address.
func (d *Device) Write(regAddr uint8, data uint16) error {
	return Write(d.Bus, d.Addr, regAddr, data)
}
