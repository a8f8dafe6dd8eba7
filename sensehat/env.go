package sensehat

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/calmh/imupi/i2c"
	"github.com/calmh/imupi/iks4a1"
	hat "github.com/kastelo-labs/sensehat"
)

// ST HTS221 Humidity & Temperature Sensor
// ST LPS25H Pressure & Temperature Sensor

const (
	hts221Address = 0x5f
	hts221ID      = 0xbc
	lps25hAddress = 0x5c
	lps25hID      = 0xbd

	envWhoAmIReg  = 0x0f
	envCtrlReg1   = 0x20
	envPowerOn    = 0x80
	envInitData   = envPowerOn | 0x04 // BDU=1, one shot
	hts221ODRBits = 2
	lps25hODRBits = 3
)

var (
	hts221Rates = []float32{0, 1, 7, 12.5}
	lps25hRates = []float32{0, 1, 7, 12.5, 25}
)

var errDisabled = errors.New("sensor disabled")

// reading is a sensor returning its main value and temperature, as the
// sensehat library does for humidity and pressure.
type reading interface {
	Data() (float64, float64, error)
}

// envChip is an HTS221 or LPS25H. Both functions are served by one data
// read, cached for maxAge.
type envChip struct {
	bus     i2c.Bus
	open    func() (reading, error)
	main    iks4a1.Function
	caps    iks4a1.EnvCapabilities
	rates   []float32
	odr     field
	maxAge  time.Duration
	initODR uint8

	mut         sync.Mutex
	src         reading
	enabled     iks4a1.Function
	cached      time.Time
	value       float64
	temperature float64
}

func HTS221(dev Device) iks4a1.Env {
	bus := i2c.NewDeviceBus(dev, hts221Address)
	return iks4a1.Env{
		Name: "HTS221",
		ID:   hts221ID,
		Open: func() (iks4a1.EnvComponent, error) {
			return newHTS221(bus, func() (reading, error) { return hat.NewHTS221(dev) }), nil
		},
	}
}

func newHTS221(bus i2c.Bus, open func() (reading, error)) *envChip {
	return &envChip{
		bus:  bus,
		open: open,
		main: iks4a1.EnvHumidity,
		caps: iks4a1.EnvCapabilities{
			Temperature: true,
			Humidity:    true,
			HumMaxODR:   12.5,
			TempMaxODR:  12.5,
		},
		rates:   hts221Rates,
		odr:     field{envCtrlReg1, 0, hts221ODRBits},
		maxAge:  time.Second,
		initODR: 1,
	}
}

func LPS25H(dev Device) iks4a1.Env {
	bus := i2c.NewDeviceBus(dev, lps25hAddress)
	return iks4a1.Env{
		Name: "LPS25H",
		ID:   lps25hID,
		Open: func() (iks4a1.EnvComponent, error) {
			return newLPS25H(bus, func() (reading, error) { return hat.NewLPS25H(dev) }), nil
		},
	}
}

func newLPS25H(bus i2c.Bus, open func() (reading, error)) *envChip {
	return &envChip{
		bus:  bus,
		open: open,
		main: iks4a1.EnvPressure,
		caps: iks4a1.EnvCapabilities{
			Temperature: true,
			Pressure:    true,
			PressMaxODR: 25,
			TempMaxODR:  25,
		},
		rates:   lps25hRates,
		odr:     field{envCtrlReg1, 4, lps25hODRBits},
		maxAge:  time.Second,
		initODR: 1,
	}
}

// Init sets up the chip through the sensehat library and leaves it powered
// down at 1 Hz until a function is enabled.
func (c *envChip) Init() error {
	c.mut.Lock()
	defer c.mut.Unlock()

	src, err := c.open()
	if err != nil {
		return err
	}
	c.src = src
	c.enabled = 0
	c.cached = time.Time{}
	return c.writeCtrl(envInitData&^envPowerOn | c.initODR<<c.odr.shift)
}

func (c *envChip) DeInit() error {
	c.mut.Lock()
	defer c.mut.Unlock()
	c.enabled = 0
	return c.power(false)
}

func (c *envChip) ReadID() (uint8, error) {
	return c.ReadReg(envWhoAmIReg)
}

func (c *envChip) Capabilities() iks4a1.EnvCapabilities {
	return c.caps
}

func (c *envChip) ReadReg(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := c.bus.ReadRegs(reg, buf[:]); err != nil {
		return 0, fmt.Errorf("read register %#02x: %w", reg, err)
	}
	return buf[0], nil
}

func (c *envChip) WriteReg(reg, val uint8) error {
	if err := c.bus.WriteRegs(reg, []byte{val}); err != nil {
		return fmt.Errorf("write register %#02x: %w", reg, err)
	}
	return nil
}

func (c *envChip) writeCtrl(v uint8) error {
	return c.WriteReg(envCtrlReg1, v)
}

func (c *envChip) power(on bool) error {
	v, err := c.ReadReg(envCtrlReg1)
	if err != nil {
		return err
	}
	if on {
		return c.writeCtrl(v | envPowerOn)
	}
	return c.writeCtrl(v &^ envPowerOn)
}

func (c *envChip) Sensor(f iks4a1.Function) iks4a1.EnvSensor {
	if f == iks4a1.EnvTemperature || f == c.main {
		return envFunc{c, f}
	}
	return nil
}

// refresh reads new values unless the cached ones are younger than age.
func (c *envChip) refresh(age time.Duration) error {
	if time.Since(c.cached) < age {
		return nil
	}
	if c.src == nil {
		return iks4a1.ErrNoInit
	}
	value, temp, err := c.src.Data()
	if err != nil {
		return fmt.Errorf("read data: %w", err)
	}
	c.value, c.temperature = value, temp
	c.cached = time.Now()
	return nil
}

type envFunc struct {
	c *envChip
	f iks4a1.Function
}

func (e envFunc) Enable() error {
	e.c.mut.Lock()
	defer e.c.mut.Unlock()
	if e.c.enabled == 0 {
		if err := e.c.power(true); err != nil {
			return err
		}
	}
	e.c.enabled |= e.f
	return nil
}

func (e envFunc) Disable() error {
	e.c.mut.Lock()
	defer e.c.mut.Unlock()
	e.c.enabled &^= e.f
	if e.c.enabled == 0 {
		return e.c.power(false)
	}
	return nil
}

func (e envFunc) OutputDataRate() (float32, error) {
	v, err := readField(e.c.bus, e.c.odr)
	if err != nil {
		return 0, err
	}
	if int(v) >= len(e.c.rates) {
		return 0, fmt.Errorf("output data rate %d: unknown setting", v)
	}
	return e.c.rates[v], nil
}

// SetOutputDataRate selects the lowest rate at or above hz. Both
// functions of the chip share the rate.
func (e envFunc) SetOutputDataRate(hz float32) error {
	return writeField(e.c.bus, e.c.odr, rateIndex(e.c.rates, hz))
}

func (e envFunc) Value() (float32, error) {
	e.c.mut.Lock()
	defer e.c.mut.Unlock()
	if e.c.enabled&e.f == 0 {
		return 0, errDisabled
	}
	if err := e.c.refresh(e.c.maxAge); err != nil {
		return 0, err
	}
	if e.f == iks4a1.EnvTemperature {
		return float32(e.c.temperature), nil
	}
	return float32(e.c.value), nil
}
