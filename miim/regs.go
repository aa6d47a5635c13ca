package miim

// Standard clause 22 management registers. Registers 16 and up
// are vendor specific.
const (
	BMCR   = 0x00 // basic mode control
	BMSR   = 0x01 // basic mode status
	PHYID1 = 0x02 // identifier, high word
	PHYID2 = 0x03 // identifier, low word
	ANAR   = 0x04 // autonegotiation advertisement
	ANLPAR = 0x05 // autonegotiation link partner ability
	ANER   = 0x06 // autonegotiation expansion
)

// BMCR bits.
const (
	BMCRReset      = 1 << 15 // self-clearing
	BMCRLoopback   = 1 << 14
	BMCRSpeed100   = 1 << 13
	BMCRANEnable   = 1 << 12
	BMCRPowerDown  = 1 << 11
	BMCRIsolate    = 1 << 10
	BMCRANRestart  = 1 << 9 // self-clearing
	BMCRFullDuplex = 1 << 8
)

// BMSR bits.
const (
	BMSRANComplete  = 1 << 5
	BMSRRemoteFault = 1 << 4
	BMSRANCapable   = 1 << 3
	BMSRLinkUp      = 1 << 2 // latched low on link loss
	BMSRJabber      = 1 << 1
	BMSRExtended    = 1 << 0
)
