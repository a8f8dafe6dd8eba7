package iks4a1

import (
	"github.com/calmh/imupi/i2c"
	"github.com/calmh/imupi/lsm6dsv16b"
)

// LSM6DSV16B describes an LSM6DSV16B on bus. Opening it selects the main
// register bank so that the ID check reads WHO_AM_I.
func LSM6DSV16B(bus i2c.Bus) Motion {
	return Motion{
		Name: "LSM6DSV16B",
		ID:   lsm6dsv16b.ID,
		Open: func() (MotionComponent, error) {
			s := lsm6dsv16b.NewSensor(bus)
			if err := s.Device().SetMemBank(lsm6dsv16b.MainBank); err != nil {
				return nil, err
			}
			return &LSM6DSV16BComponent{s}, nil
		},
	}
}

// LSM6DSV16BComponent adapts lsm6dsv16b.Sensor to the board interfaces.
type LSM6DSV16BComponent struct {
	s *lsm6dsv16b.Sensor
}

// Driver returns the underlying sensor.
func (c *LSM6DSV16BComponent) Driver() *lsm6dsv16b.Sensor {
	return c.s
}

func (c *LSM6DSV16BComponent) Init() error                      { return c.s.Init() }
func (c *LSM6DSV16BComponent) DeInit() error                    { return c.s.DeInit() }
func (c *LSM6DSV16BComponent) ReadID() (uint8, error)           { return c.s.ReadID() }
func (c *LSM6DSV16BComponent) ReadReg(reg uint8) (uint8, error) { return c.s.ReadReg(reg) }
func (c *LSM6DSV16BComponent) WriteReg(reg, val uint8) error    { return c.s.WriteReg(reg, val) }

func (c *LSM6DSV16BComponent) Capabilities() Capabilities {
	caps := c.s.Capabilities()
	return Capabilities{
		Acc:        caps.Acc,
		Gyro:       caps.Gyro,
		Magneto:    caps.Magneto,
		LowPower:   caps.LowPower,
		GyroMaxFS:  caps.GyroMaxFS,
		AccMaxFS:   caps.AccMaxFS,
		MagMaxFS:   caps.MagMaxFS,
		GyroMaxODR: caps.GyroMaxODR,
		AccMaxODR:  caps.AccMaxODR,
		MagMaxODR:  caps.MagMaxODR,
	}
}

func (c *LSM6DSV16BComponent) Sensor(f Function) MotionSensor {
	switch f {
	case MotionAccelero:
		return lsm6dsv16bAcc{c.s}
	case MotionGyro:
		return lsm6dsv16bGyro{c.s}
	}
	return nil
}

func (c *LSM6DSV16BComponent) FIFONumSamples() (uint16, error)   { return c.s.FIFONumSamples() }
func (c *LSM6DSV16BComponent) FIFOFullStatus() (bool, error)     { return c.s.FIFOFullStatus() }
func (c *LSM6DSV16BComponent) FIFOSetINT1FIFOFull(on bool) error { return c.s.FIFOSetINT1FIFOFull(on) }
func (c *LSM6DSV16BComponent) FIFOSetINT2FIFOFull(on bool) error { return c.s.FIFOSetINT2FIFOFull(on) }
func (c *LSM6DSV16BComponent) FIFOSetWatermarkLevel(l uint8) error {
	return c.s.FIFOSetWatermarkLevel(l)
}
func (c *LSM6DSV16BComponent) FIFOSetStopOnFth(on bool) error { return c.s.FIFOSetStopOnFth(on) }
func (c *LSM6DSV16BComponent) FIFOData() ([6]byte, error)     { return c.s.FIFOData() }

func (c *LSM6DSV16BComponent) FIFOSetMode(mode uint8) error {
	return c.s.FIFOSetMode(lsm6dsv16b.FIFOMode(mode))
}

func (c *LSM6DSV16BComponent) FIFOTag() (uint8, error) {
	tag, err := c.s.FIFOTag()
	return uint8(tag), err
}

func (c *LSM6DSV16BComponent) EnableFreeFallDetection(pin IntPin) error {
	return c.s.EnableFreeFallDetection(lsm6dsv16b.IntPin(pin))
}

func (c *LSM6DSV16BComponent) EnableWakeUpDetection(pin IntPin) error {
	return c.s.EnableWakeUpDetection(lsm6dsv16b.IntPin(pin))
}

func (c *LSM6DSV16BComponent) EnableTiltDetection(pin IntPin) error {
	return c.s.EnableTiltDetection(lsm6dsv16b.IntPin(pin))
}

func (c *LSM6DSV16BComponent) EnablePedometer(pin IntPin) error {
	return c.s.EnablePedometer(lsm6dsv16b.IntPin(pin))
}

func (c *LSM6DSV16BComponent) DisableFreeFallDetection() error { return c.s.DisableFreeFallDetection() }
func (c *LSM6DSV16BComponent) DisableWakeUpDetection() error   { return c.s.DisableWakeUpDetection() }
func (c *LSM6DSV16BComponent) DisableTiltDetection() error     { return c.s.DisableTiltDetection() }
func (c *LSM6DSV16BComponent) DisablePedometer() error         { return c.s.DisablePedometer() }
func (c *LSM6DSV16BComponent) StepCount() (uint16, error)      { return c.s.StepCount() }
func (c *LSM6DSV16BComponent) ResetStepCounter() error         { return c.s.ResetStepCounter() }

func (c *LSM6DSV16BComponent) EventStatus() (EventStatus, error) {
	st, err := c.s.EventStatus()
	return EventStatus(st), err
}

type lsm6dsv16bAcc struct {
	s *lsm6dsv16b.Sensor
}

func (a lsm6dsv16bAcc) Enable() error                      { return a.s.AccEnable() }
func (a lsm6dsv16bAcc) Disable() error                     { return a.s.AccDisable() }
func (a lsm6dsv16bAcc) Sensitivity() (float32, error)      { return a.s.AccSensitivity() }
func (a lsm6dsv16bAcc) OutputDataRate() (float32, error)   { return a.s.AccOutputDataRate() }
func (a lsm6dsv16bAcc) SetOutputDataRate(hz float32) error { return a.s.AccSetOutputDataRate(hz) }
func (a lsm6dsv16bAcc) FullScale() (int32, error)          { return a.s.AccFullScale() }
func (a lsm6dsv16bAcc) SetFullScale(fs int32) error        { return a.s.AccSetFullScale(fs) }
func (a lsm6dsv16bAcc) DRDYStatus() (bool, error)          { return a.s.AccDRDYStatus() }
func (a lsm6dsv16bAcc) SetPowerMode(mode uint8) error      { return a.s.AccSetPowerMode(mode) }
func (a lsm6dsv16bAcc) FIFOSetBDR(hz float32) error        { return a.s.FIFOAccSetBDR(hz) }

func (a lsm6dsv16bAcc) SetFilterMode(lowHighPass, mode uint8) error {
	return a.s.AccSetFilterMode(lowHighPass, mode)
}

func (a lsm6dsv16bAcc) AxesRaw() (AxesRaw, error) {
	v, err := a.s.AccAxesRaw()
	return AxesRaw(v), err
}

func (a lsm6dsv16bAcc) Axes() (Axes, error) {
	v, err := a.s.AccAxes()
	return Axes(v), err
}

func (a lsm6dsv16bAcc) FIFOAxes() (Axes, error) {
	v, err := a.s.FIFOAccAxes()
	return Axes(v), err
}

type lsm6dsv16bGyro struct {
	s *lsm6dsv16b.Sensor
}

func (g lsm6dsv16bGyro) Enable() error                      { return g.s.GyroEnable() }
func (g lsm6dsv16bGyro) Disable() error                     { return g.s.GyroDisable() }
func (g lsm6dsv16bGyro) Sensitivity() (float32, error)      { return g.s.GyroSensitivity() }
func (g lsm6dsv16bGyro) OutputDataRate() (float32, error)   { return g.s.GyroOutputDataRate() }
func (g lsm6dsv16bGyro) SetOutputDataRate(hz float32) error { return g.s.GyroSetOutputDataRate(hz) }
func (g lsm6dsv16bGyro) FullScale() (int32, error)          { return g.s.GyroFullScale() }
func (g lsm6dsv16bGyro) SetFullScale(fs int32) error        { return g.s.GyroSetFullScale(fs) }
func (g lsm6dsv16bGyro) DRDYStatus() (bool, error)          { return g.s.GyroDRDYStatus() }
func (g lsm6dsv16bGyro) SetPowerMode(mode uint8) error      { return g.s.GyroSetPowerMode(mode) }
func (g lsm6dsv16bGyro) FIFOSetBDR(hz float32) error        { return g.s.FIFOGyroSetBDR(hz) }

func (g lsm6dsv16bGyro) SetFilterMode(lowHighPass, mode uint8) error {
	return g.s.GyroSetFilterMode(lowHighPass, mode)
}

func (g lsm6dsv16bGyro) AxesRaw() (AxesRaw, error) {
	v, err := g.s.GyroAxesRaw()
	return AxesRaw(v), err
}

func (g lsm6dsv16bGyro) Axes() (Axes, error) {
	v, err := g.s.GyroAxes()
	return Axes(v), err
}

func (g lsm6dsv16bGyro) FIFOAxes() (Axes, error) {
	v, err := g.s.FIFOGyroAxes()
	return Axes(v), err
}
