// Package lsm6dsv16b drives the ST LSM6DSV16B 6-axis IMU and its embedded
// function engine (FSM, pedometer, sensor fusion).
package lsm6dsv16b

import (
	"errors"
	"fmt"
	"time"

	"github.com/calmh/imupi/i2c"
)

// ST LSM6DSV16B Accelerometer, Gyroscope & Embedded Functions

// ID is the WHO_AM_I value.
const ID = 0x71

// 7-bit I2C addresses, selected by the SDO/SA0 pin.
const (
	AddressLow  = 0x6a
	AddressHigh = 0x6b
)

var ErrTimeout = errors.New("timeout waiting for device")

type Device struct {
	bus   i2c.Bus
	sleep func(time.Duration)
}

func New(bus i2c.Bus) *Device {
	return &Device{bus: bus, sleep: time.Sleep}
}

func (d *Device) ReadRegs(reg uint8, buf []byte) error {
	if err := d.bus.ReadRegs(reg, buf); err != nil {
		return fmt.Errorf("read register %#02x: %w", reg, err)
	}
	return nil
}

func (d *Device) WriteRegs(reg uint8, data []byte) error {
	if err := d.bus.WriteRegs(reg, data); err != nil {
		return fmt.Errorf("write register %#02x: %w", reg, err)
	}
	return nil
}

func (d *Device) readReg(reg uint8) (uint8, error) {
	var buf [1]byte
	err := d.ReadRegs(reg, buf[:])
	return buf[0], err
}

func (d *Device) writeReg(reg, val uint8) error {
	return d.WriteRegs(reg, []byte{val})
}

// update performs a read-modify-write of a single register.
func (d *Device) update(reg uint8, fn func(v uint8) uint8) error {
	v, err := d.readReg(reg)
	if err != nil {
		return err
	}
	return d.writeReg(reg, fn(v))
}

func (d *Device) readField(f field) (uint8, error) {
	v, err := d.readReg(f.reg)
	return f.get(v), err
}

func (d *Device) writeField(f field, x uint8) error {
	return d.update(f.reg, func(v uint8) uint8 { return f.set(v, x) })
}

func (d *Device) readBool(f field) (bool, error) {
	v, err := d.readField(f)
	return v != 0, err
}

func (d *Device) writeBool(f field, on bool) error {
	return d.writeField(f, b2u(on))
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

type MemBank uint8

// shubRegAccess selects the sensor hub bank in FUNC_CFG_ACCESS.
const shubRegAccess = 0x40

const (
	MainBank     MemBank = 0
	EmbeddedBank MemBank = 1
)

func (d *Device) SetMemBank(bank MemBank) error {
	return d.writeField(fldEmbFuncAccess, uint8(bank))
}

func (d *Device) MemBank() (MemBank, error) {
	v, err := d.readField(fldEmbFuncAccess)
	return MemBank(v), err
}

// withEmbedded runs fn with the embedded function bank selected. The main
// bank is selected again afterwards, whatever happened.
func (d *Device) withEmbedded(fn func() error) (err error) {
	defer func() {
		if rerr := d.SetMemBank(MainBank); rerr != nil {
			err = errors.Join(err, fmt.Errorf("restore main bank: %w", rerr))
		}
	}()
	if err := d.SetMemBank(EmbeddedBank); err != nil {
		return fmt.Errorf("select embedded bank: %w", err)
	}
	return fn()
}

// withSensorHub runs fn with the sensor hub bank selected and clears the
// bank selection afterwards.
func (d *Device) withSensorHub(fn func() error) (err error) {
	defer func() {
		if rerr := d.writeReg(regFuncCfgAccess, 0x00); rerr != nil {
			err = errors.Join(err, fmt.Errorf("restore main bank: %w", rerr))
		}
	}()
	if err := d.writeReg(regFuncCfgAccess, shubRegAccess); err != nil {
		return fmt.Errorf("select sensor hub bank: %w", err)
	}
	return fn()
}

func (d *Device) ID() (uint8, error) {
	return d.readReg(regWhoAmI)
}

type ResetMode uint8

const (
	ResetReady           ResetMode = 0
	ResetGlobal          ResetMode = 1
	ResetRestoreCalParam ResetMode = 2
	ResetRestoreCtrlRegs ResetMode = 4
)

// SetReset triggers a reset. Bit 2 of the mode maps to CTRL3.boot, bit 1 to
// CTRL3.sw_reset and bit 0 to FUNC_CFG_ACCESS.sw_por.
func (d *Device) SetReset(mode ResetMode) error {
	var buf [1]byte
	if err := d.ReadRegs(regCtrl3, buf[:]); err != nil {
		return err
	}
	ctrl3 := buf[0]
	if err := d.ReadRegs(regFuncCfgAccess, buf[:]); err != nil {
		return err
	}
	access := buf[0]

	ctrl3 = fldBoot.set(ctrl3, uint8(mode&4)>>2)
	ctrl3 = fldSWReset.set(ctrl3, uint8(mode&2)>>1)
	access = fldSWPor.set(access, uint8(mode&1))

	if err := d.writeReg(regCtrl3, ctrl3); err != nil {
		return err
	}
	return d.writeReg(regFuncCfgAccess, access)
}

// Reset returns the reset currently in progress, or ResetReady once the
// device has completed it.
func (d *Device) Reset() (ResetMode, error) {
	ctrl3, err := d.readReg(regCtrl3)
	if err != nil {
		return ResetGlobal, err
	}
	access, err := d.readReg(regFuncCfgAccess)
	if err != nil {
		return ResetGlobal, err
	}
	mode := ResetMode(fldBoot.get(ctrl3)<<2 | fldSWReset.get(ctrl3)<<1 | fldSWPor.get(access))
	switch mode {
	case ResetReady, ResetGlobal, ResetRestoreCalParam, ResetRestoreCtrlRegs:
		return mode, nil
	default:
		return ResetGlobal, nil
	}
}

// WaitReset triggers a reset and polls until the device reports ready.
func (d *Device) WaitReset(mode ResetMode, timeout time.Duration) error {
	if err := d.SetReset(mode); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	deadline := time.Now().Add(timeout)
	for {
		m, err := d.Reset()
		if err != nil {
			return fmt.Errorf("reset status: %w", err)
		}
		if m == ResetReady {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrTimeout
		}
		d.sleep(time.Millisecond)
	}
}

func (d *Device) SetAutoIncrement(on bool) error {
	return d.writeBool(fldIfInc, on)
}

func (d *Device) AutoIncrement() (bool, error) {
	return d.readBool(fldIfInc)
}

func (d *Device) SetBlockDataUpdate(on bool) error {
	return d.writeBool(fldBDU, on)
}

func (d *Device) BlockDataUpdate() (bool, error) {
	return d.readBool(fldBDU)
}
