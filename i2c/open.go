package i2c

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kidoman/embd"
	"gobot.io/x/gobot/sysfs"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Drivers understood by Open.
const (
	DriverSysfs  = "sysfs"
	DriverPeriph = "periph"
	DriverEmbd   = "embd"
	DriverSPI    = "spi"
)

var ErrUnknownDriver = errors.New("unknown bus driver")

// Open returns a register bus for the peripheral at addr on the named
// device. For DriverSysfs the device is a path like /dev/i2c-1, for
// DriverPeriph and DriverSPI it is a periph.io bus or port name ("" selects
// the first one) and for DriverEmbd it is a bus number or a /dev/i2c-N path.
// The address is ignored for SPI.
func Open(driver, device string, addr int) (Bus, io.Closer, error) {
	switch driver {
	case DriverSysfs, "":
		dev, err := sysfs.NewI2cDevice(device)
		if err != nil {
			return nil, nil, fmt.Errorf("open I2C device: %w", err)
		}
		return NewDeviceBus(dev, addr), dev, nil

	case DriverPeriph:
		if _, err := host.Init(); err != nil {
			return nil, nil, fmt.Errorf("init periph host: %w", err)
		}
		bus, err := i2creg.Open(device)
		if err != nil {
			return nil, nil, fmt.Errorf("open I2C bus: %w", err)
		}
		return NewPeriphBus(bus, uint16(addr)), bus, nil

	case DriverSPI:
		if _, err := host.Init(); err != nil {
			return nil, nil, fmt.Errorf("init periph host: %w", err)
		}
		port, err := spireg.Open(device)
		if err != nil {
			return nil, nil, fmt.Errorf("open SPI port: %w", err)
		}
		conn, err := port.Connect(10*physic.MegaHertz, spi.Mode3, 8)
		if err != nil {
			port.Close()
			return nil, nil, fmt.Errorf("connect SPI port: %w", err)
		}
		return NewSPIBus(conn), port, nil

	case DriverEmbd:
		n, err := busNumber(device)
		if err != nil {
			return nil, nil, err
		}
		b := NewEmbdBus(embd.NewI2CBus(n), byte(addr))
		return b, b, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

func busNumber(device string) (byte, error) {
	s := strings.TrimPrefix(device, "/dev/i2c-")
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("parse bus number %q: %w", device, err)
	}
	return byte(n), nil
}
