// Command mdioctl reads and writes Ethernet PHY registers by
// bit-banging the MDIO management bus on two GPIO header pins.
//
//	mdioctl -mdio GPIO2 -mdc GPIO3 scan
//	mdioctl -mdio GPIO2 -mdc GPIO3 read 1 2
//	mdioctl -mdio GPIO2 -mdc GPIO3 write 1 0 0x1200
//
// The MDIO pin should be wired with a pull-up; the device pulls
// the line during read turnarounds.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/benbjohnson/clock"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/hwdrivers/mdio/bitbang"
	"github.com/hwdrivers/mdio/miim"
	"github.com/hwdrivers/mdio/phy"
)

var (
	mdioPin = flag.String("mdio", "", "MDIO (data) pin name")
	mdcPin  = flag.String("mdc", "", "MDC (clock) pin name")
	freq    = 2500 * physic.KiloHertz
)

func main() {
	flag.Var(&freq, "freq", "MDC frequency")
	flag.Parse()
	log.SetFlags(log.Flags() &^ (log.Ldate | log.Ltime))
	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "mdioctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		return errors.New("missing command: read, write, id or scan")
	}
	bus, stop, err := openBus()
	if err != nil {
		return err
	}
	defer stop()

	cmd, args := args[0], args[1:]
	switch cmd {
	case "read":
		phyAddr, regAddr, err := parseAddrs(args)
		if err != nil {
			return err
		}
		v, err := miim.Read(bus, phyAddr, regAddr)
		if err != nil {
			return err
		}
		fmt.Printf("0x%04x\n", v)
	case "write":
		if len(args) != 3 {
			return errors.New("usage: write <phy> <reg> <value>")
		}
		phyAddr, regAddr, err := parseAddrs(args[:2])
		if err != nil {
			return err
		}
		v, err := strconv.ParseUint(args[2], 0, 16)
		if err != nil {
			return fmt.Errorf("value %q: %w", args[2], err)
		}
		return miim.Write(bus, phyAddr, regAddr, uint16(v))
	case "id":
		if len(args) != 1 {
			return errors.New("usage: id <phy>")
		}
		addr, err := strconv.ParseUint(args[0], 0, 5)
		if err != nil {
			return fmt.Errorf("phy address %q: %w", args[0], err)
		}
		id, err := phy.New(bus, uint8(addr)).ID()
		if err != nil {
			return err
		}
		fmt.Printf("0x%08x\n", id)
	case "scan":
		found := 0
		for addr := uint8(0); addr < 32; addr++ {
			id, err := miim.Read(bus, addr, miim.PHYID1)
			if err != nil {
				return err
			}
			if id == 0xffff || id == 0x0000 {
				continue
			}
			full, err := phy.New(bus, addr).ID()
			if err != nil {
				return err
			}
			log.Printf("phy %2d: id 0x%08x", addr, full)
			found++
		}
		if found == 0 {
			log.Printf("no devices found")
		}
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
	return nil
}

func openBus() (*bitbang.Transport, func(), error) {
	if *mdioPin == "" || *mdcPin == "" {
		return nil, nil, errors.New("both -mdio and -mdc are required")
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	data := gpioreg.ByName(*mdioPin)
	if data == nil {
		return nil, nil, fmt.Errorf("no such pin: %s", *mdioPin)
	}
	clk := gpioreg.ByName(*mdcPin)
	if clk == nil {
		return nil, nil, fmt.Errorf("no such pin: %s", *mdcPin)
	}
	// Idle state: data released high, clock low.
	if err := data.Out(gpio.High); err != nil {
		return nil, nil, err
	}
	if err := clk.Out(gpio.Low); err != nil {
		return nil, nil, err
	}
	ticker := bitbang.NewTicker(clock.New(), freq)
	return bitbang.New(data, clk, ticker), ticker.Stop, nil
}

func parseAddrs(args []string) (phyAddr, regAddr uint8, err error) {
	if len(args) != 2 {
		return 0, 0, errors.New("usage: <phy> <reg>")
	}
	p, err := strconv.ParseUint(args[0], 0, 5)
	if err != nil {
		return 0, 0, fmt.Errorf("phy address %q: %w", args[0], err)
	}
	r, err := strconv.ParseUint(args[1], 0, 5)
	if err != nil {
		return 0, 0, fmt.Errorf("register address %q: %w", args[1], err)
	}
	return uint8(p), uint8(r), nil
}
