// Package phy manages Ethernet PHYs through their standard
// clause 22 registers.
package phy

import (
	"errors"
	"fmt"

	"github.com/hwdrivers/mdio"
	"github.com/hwdrivers/mdio/miim"
)

// resetAttempts bounds the BMCR reset poll. The standard allows
// a PHY to hold the reset bit for up to 0.5s; at a 2.5MHz bus a
// poll costs ~26µs, so the bound is comfortably past that.
const resetAttempts = 20000

// ErrNotFound is returned by Detect when no address answers.
var ErrNotFound = errors.New("phy: no device found")

// Device is an Ethernet PHY on an MDIO bus.
type Device struct {
	miim.Device
}

// New returns the PHY at the given bus address.
func New(bus mdio.ReadWriter, addr uint8) *Device {
	return &Device{miim.Device{Bus: bus, Addr: addr}}
}

// Detect scans all 32 addresses and returns the first with a
// device behind it. An empty address reads all ones (the bus
// idles high), and an all-zero identifier likewise means
// nothing drove the line.
func Detect(bus mdio.ReadWriter) (*Device, error) {
	for addr := uint8(0); addr < 32; addr++ {
		id, err := miim.Read(bus, addr, miim.PHYID1)
		if err != nil {
			return nil, fmt.Errorf("phy: scan address %d: %w", addr, err)
		}
		if id != 0xffff && id != 0x0000 {
			return New(bus, addr), nil
		}
	}
	return nil, ErrNotFound
}

// ID returns the 32-bit identifier from the two id registers.
func (d *Device) ID() (uint32, error) {
	hi, err := d.Read(miim.PHYID1)
	if err != nil {
		return 0, fmt.Errorf("phy: read id1: %w", err)
	}
	lo, err := d.Read(miim.PHYID2)
	if err != nil {
		return 0, fmt.Errorf("phy: read id2: %w", err)
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

// Reset soft-resets the PHY and waits for the reset bit to
// self-clear.
func (d *Device) Reset() error {
	if err := d.Write(miim.BMCR, miim.BMCRReset); err != nil {
		return fmt.Errorf("phy: reset: %w", err)
	}
	for i := 0; i < resetAttempts; i++ {
		bmcr, err := d.Read(miim.BMCR)
		if err != nil {
			return fmt.Errorf("phy: reset poll: %w", err)
		}
		if bmcr&miim.BMCRReset == 0 {
			return nil
		}
	}
	return errors.New("phy: reset did not complete")
}

// LinkUp reports whether the link is established. The status
// bit latches low on link loss; the register is read twice and
// the second, current state reported.
func (d *Device) LinkUp() (bool, error) {
	if _, err := d.Read(miim.BMSR); err != nil {
		return false, fmt.Errorf("phy: read status: %w", err)
	}
	bmsr, err := d.Read(miim.BMSR)
	if err != nil {
		return false, fmt.Errorf("phy: read status: %w", err)
	}
	return bmsr&miim.BMSRLinkUp != 0, nil
}

// RestartAutoNeg enables autonegotiation and restarts it.
func (d *Device) RestartAutoNeg() error {
	bmcr, err := d.Read(miim.BMCR)
	if err != nil {
		return fmt.Errorf("phy: read control: %w", err)
	}
	bmcr |= miim.BMCRANEnable | miim.BMCRANRestart
	if err := d.Write(miim.BMCR, bmcr); err != nil {
		return fmt.Errorf("phy: restart autoneg: %w", err)
	}
	return nil
}
