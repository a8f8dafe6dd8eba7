// Package sensehat exposes the sensors of the Raspberry Pi Sense HAT as
// board components: the LSM9DS1 motion sensor and the HTS221 and LPS25H
// environmental sensors.
package sensehat

import (
	"fmt"
	"io"

	"github.com/calmh/imupi/i2c"
	"github.com/calmh/imupi/iks4a1"
	hat "github.com/kastelo-labs/sensehat"
	"gobot.io/x/gobot/sysfs"
)

// Device is an I2C device that serves both the register level access in
// this package and the sensehat library. A gobot sysfs I2C device is one.
type Device interface {
	i2c.Device
	hat.Device
}

// Instances are the board instance numbers of the Sense HAT sensors.
type Instances struct {
	IMU      int
	Humidity int
	Pressure int
}

// Register opens the I2C device at path and adds the Sense HAT sensors to
// the board. The sensors still need to be initialized.
func Register(b *iks4a1.Board, path string, declination float64) (Instances, io.Closer, error) {
	dev, err := sysfs.NewI2cDevice(path)
	if err != nil {
		return Instances{}, nil, fmt.Errorf("open I2C device: %w", err)
	}
	inst := Instances{
		IMU:      b.AddMotion(LSM9DS1(dev, declination)),
		Humidity: b.AddEnv(HTS221(dev)),
		Pressure: b.AddEnv(LPS25H(dev)),
	}
	return inst, dev, nil
}

// field is a bit field in a control register.
type field struct {
	reg   uint8
	shift uint8
	width uint8
}

func (f field) mask() uint8 {
	return (1<<f.width - 1) << f.shift
}

func readField(bus i2c.Bus, f field) (uint8, error) {
	var buf [1]byte
	if err := bus.ReadRegs(f.reg, buf[:]); err != nil {
		return 0, fmt.Errorf("read register %#02x: %w", f.reg, err)
	}
	return buf[0] & f.mask() >> f.shift, nil
}

func writeField(bus i2c.Bus, f field, v uint8) error {
	var buf [1]byte
	if err := bus.ReadRegs(f.reg, buf[:]); err != nil {
		return fmt.Errorf("read register %#02x: %w", f.reg, err)
	}
	buf[0] = buf[0]&^f.mask() | v<<f.shift&f.mask()
	if err := bus.WriteRegs(f.reg, buf[:]); err != nil {
		return fmt.Errorf("write register %#02x: %w", f.reg, err)
	}
	return nil
}

// rateIndex returns the index of the lowest rate in rates that is at least
// hz, skipping index zero, or the last one.
func rateIndex(rates []float32, hz float32) uint8 {
	for i := 1; i < len(rates); i++ {
		if rates[i] >= hz {
			return uint8(i)
		}
	}
	return uint8(len(rates) - 1)
}

// scaleIndex returns the index of the smallest full scale that fits fs.
func scaleIndex(scales []int32, fs int32) (uint8, error) {
	best := -1
	for i, s := range scales {
		if s >= fs && (best < 0 || s < scales[best]) {
			best = i
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("full scale %d out of range", fs)
	}
	return uint8(best), nil
}
