package lsm6dsv16b

import (
	"encoding/binary"
	"fmt"
)

type StepCounterMode struct {
	Enable          bool
	FalseStepReject bool
}

func (d *Device) SetStepCounterMode(m StepCounterMode) error {
	err := d.withEmbedded(func() error {
		return d.writeBool(fldPedoEn, m.Enable)
	})
	if err != nil {
		return fmt.Errorf("pedometer enable: %w", err)
	}
	return d.pageUpdate(pgPedoCmdReg, func(v uint8) uint8 {
		return v&^pedoFPRejectionEn | bit(m.FalseStepReject, pedoFPRejectionEn)
	})
}

func (d *Device) StepCounterMode() (StepCounterMode, error) {
	var m StepCounterMode
	err := d.withEmbedded(func() (err error) {
		m.Enable, err = d.readBool(fldPedoEn)
		return err
	})
	if err != nil {
		return m, err
	}
	v, err := d.pageReadByte(pgPedoCmdReg)
	m.FalseStepReject = v&pedoFPRejectionEn != 0
	return m, err
}

func (d *Device) Steps() (uint16, error) {
	var buf [2]byte
	err := d.withEmbedded(func() error {
		return d.ReadRegs(embStepCounterL, buf[:])
	})
	return binary.LittleEndian.Uint16(buf[:]), err
}

// ResetSteps zeroes the step counter.
func (d *Device) ResetSteps() error {
	return d.withEmbedded(func() error {
		return d.writeBool(fldPedoRstStep, true)
	})
}

// SetStepCounterDebounce sets the number of steps needed before the
// counter starts counting.
func (d *Device) SetStepCounterDebounce(steps uint8) error {
	return d.PageWrite(pgPedoDebStepsConf, []byte{steps})
}

func (d *Device) StepCounterDebounce() (uint8, error) {
	return d.pageReadByte(pgPedoDebStepsConf)
}

// SetStepCounterPeriod sets the time period for step detection on delta
// time, 1 LSB = 6.4 ms.
func (d *Device) SetStepCounterPeriod(period uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], period)
	return d.PageWrite(pgPedoSCDeltaTL, buf[:])
}

func (d *Device) StepCounterPeriod() (uint16, error) {
	var buf [2]byte
	err := d.PageRead(pgPedoSCDeltaTL, buf[:])
	return binary.LittleEndian.Uint16(buf[:]), err
}

func (d *Device) embeddedBool(f field) (bool, error) {
	var on bool
	err := d.withEmbedded(func() (err error) {
		on, err = d.readBool(f)
		return err
	})
	return on, err
}

func (d *Device) setEmbeddedBool(f field, on bool) error {
	return d.withEmbedded(func() error {
		return d.writeBool(f, on)
	})
}

func (d *Device) SetSigMotion(on bool) error {
	return d.setEmbeddedBool(fldSignMotionEn, on)
}

func (d *Device) SigMotion() (bool, error) {
	return d.embeddedBool(fldSignMotionEn)
}

func (d *Device) SetTilt(on bool) error {
	return d.setEmbeddedBool(fldTiltEn, on)
}

func (d *Device) Tilt() (bool, error) {
	return d.embeddedBool(fldTiltEn)
}

// SetSFLPGameRotation enables the sensor fusion game rotation vector.
func (d *Device) SetSFLPGameRotation(on bool) error {
	return d.setEmbeddedBool(fldSFLPGameEn, on)
}

func (d *Device) SFLPGameRotation() (bool, error) {
	return d.embeddedBool(fldSFLPGameEn)
}

// SFLPGameInit restarts the sensor fusion algorithm.
func (d *Device) SFLPGameInit() error {
	return d.setEmbeddedBool(fldSFLPGameInit, true)
}

type SFLPRate uint8

const (
	SFLP15Hz  SFLPRate = 0
	SFLP30Hz  SFLPRate = 1
	SFLP60Hz  SFLPRate = 2
	SFLP120Hz SFLPRate = 3
	SFLP240Hz SFLPRate = 4
	SFLP480Hz SFLPRate = 5
)

func (r SFLPRate) Hz() float32 {
	return 15 * float32(int(1)<<r)
}

func (d *Device) SetSFLPDataRate(r SFLPRate) error {
	return d.withEmbedded(func() error {
		return d.writeField(fldSFLPGameODR, uint8(r))
	})
}

func (d *Device) SFLPDataRate() (SFLPRate, error) {
	var r SFLPRate
	err := d.withEmbedded(func() error {
		v, err := d.readField(fldSFLPGameODR)
		r = SFLPRate(v)
		return err
	})
	return r, err
}

// SFLPConfigure writes the recommended sensor fusion setup.
func (d *Device) SFLPConfigure() error {
	return d.PageWrite(pgSFLPConfig, []byte{0x50})
}

type FSMPermission uint8

const (
	ProtectCtrlRegs FSMPermission = 0
	WriteCtrlReg    FSMPermission = 1
)

// SetFSMPermission lets the FSM write the control registers.
func (d *Device) SetFSMPermission(p FSMPermission) error {
	return d.writeField(fldFSMWrCtrlEn, uint8(p))
}

func (d *Device) FSMPermission() (FSMPermission, error) {
	v, err := d.readField(fldFSMWrCtrlEn)
	return FSMPermission(v), err
}

// FSMPermissionStatus reports whether the FSM currently owns the control
// registers.
func (d *Device) FSMPermissionStatus() (bool, error) {
	return d.readBool(fldFSMWrCtrlSt)
}

// SetFSMMode enables the FSM programs given as a bit mask, program 1 in
// bit 0. The FSM engine is enabled when any program is.
func (d *Device) SetFSMMode(programs uint8) error {
	return d.withEmbedded(func() error {
		if err := d.writeReg(embFSMEnable, programs); err != nil {
			return err
		}
		return d.writeBool(fldFSMEn, programs != 0)
	})
}

func (d *Device) FSMMode() (uint8, error) {
	var v uint8
	err := d.withEmbedded(func() (err error) {
		v, err = d.readReg(embFSMEnable)
		return err
	})
	return v, err
}

// FSMInit restarts the FSM programs.
func (d *Device) FSMInit() error {
	return d.withEmbedded(func() error {
		return d.update(embFuncInitB, func(v uint8) uint8 { return v | 0x01 })
	})
}

func (d *Device) SetFSMLongCounter(n uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], n)
	return d.withEmbedded(func() error {
		return d.WriteRegs(embFSMLongCounter, buf[:])
	})
}

func (d *Device) FSMLongCounter() (uint16, error) {
	var buf [2]byte
	err := d.withEmbedded(func() error {
		return d.ReadRegs(embFSMLongCounter, buf[:])
	})
	return binary.LittleEndian.Uint16(buf[:]), err
}

// FSMOutputs returns the output register of each of the eight programs.
func (d *Device) FSMOutputs() ([8]uint8, error) {
	var buf [8]uint8
	err := d.withEmbedded(func() error {
		return d.ReadRegs(embFSMOuts1, buf[:])
	})
	return buf, err
}

type FSMRate uint8

const (
	FSM15Hz  FSMRate = 0
	FSM30Hz  FSMRate = 1
	FSM60Hz  FSMRate = 2
	FSM120Hz FSMRate = 3
	FSM240Hz FSMRate = 4
	FSM480Hz FSMRate = 5
	FSM960Hz FSMRate = 6
)

func (d *Device) SetFSMDataRate(r FSMRate) error {
	return d.withEmbedded(func() error {
		return d.writeField(fldFSMODR, uint8(r))
	})
}

func (d *Device) FSMDataRate() (FSMRate, error) {
	var r FSMRate
	err := d.withEmbedded(func() error {
		v, err := d.readField(fldFSMODR)
		r = FSMRate(v)
		return err
	})
	return r, err
}

func (d *Device) SetFSMLongCounterTimeout(n uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], n)
	return d.PageWrite(pgFSMLCTimeoutL, buf[:])
}

func (d *Device) FSMLongCounterTimeout() (uint16, error) {
	var buf [2]byte
	err := d.PageRead(pgFSMLCTimeoutL, buf[:])
	return binary.LittleEndian.Uint16(buf[:]), err
}

func (d *Device) SetFSMPrograms(n uint8) error {
	return d.PageWrite(pgFSMPrograms, []byte{n})
}

func (d *Device) FSMPrograms() (uint8, error) {
	return d.pageReadByte(pgFSMPrograms)
}

// SetFSMStartAddress sets where the FSM programs begin in embedded
// memory. DefaultFSMStartAddress is the usual value.
func (d *Device) SetFSMStartAddress(addr uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], addr)
	return d.PageWrite(pgFSMStartAddL, buf[:])
}

func (d *Device) FSMStartAddress() (uint16, error) {
	var buf [2]byte
	err := d.PageRead(pgFSMStartAddL, buf[:])
	return binary.LittleEndian.Uint16(buf[:]), err
}

const DefaultFSMStartAddress = defaultFSMStartAddr
