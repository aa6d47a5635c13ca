// Package mdio provides access to the two-wire Management Data
// Input/Output bus used to manage Ethernet PHYs and switches.
//
// MDIO here refers to the two-pin (MDIO, MDC) interface itself;
// the standard management protocol carried over it is implemented
// by package miim. The split leaves room for the non-standard
// frame variants some switches use for extended register access:
// those can compose their own control words and go through the
// same bus.
//
// Package bitbang implements the bus in software on two GPIO
// pins, for hardware without a dedicated management controller.
package mdio

// Reader performs read transactions on an MDIO bus.
type Reader interface {
	// Read performs the transaction described by the 16
	// control bits and returns the 16 data bits sent back by
	// the remote device.
	Read(ctrl uint16) (uint16, error)
}

// Writer performs write transactions on an MDIO bus.
type Writer interface {
	// Write performs the transaction described by the 16
	// control bits, sending the 16 data bits to the remote
	// device.
	Write(ctrl, data uint16) error
}

// ReadWriter is a bus supporting both transaction kinds.
type ReadWriter interface {
	Reader
	Writer
}
