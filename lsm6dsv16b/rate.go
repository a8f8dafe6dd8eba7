package lsm6dsv16b

import (
	"encoding/binary"
	"fmt"

	"github.com/calmh/imupi/i2c"
)

// ODR is the output data rate code shared by the accelerometer, the
// gyroscope and the FIFO batch data rates.
type ODR uint8

const (
	ODROff    ODR = 0x0
	ODR1Hz875 ODR = 0x1 // accelerometer low power only
	ODR7Hz5   ODR = 0x2
	ODR15Hz   ODR = 0x3
	ODR30Hz   ODR = 0x4
	ODR60Hz   ODR = 0x5
	ODR120Hz  ODR = 0x6
	ODR240Hz  ODR = 0x7
	ODR480Hz  ODR = 0x8
	ODR960Hz  ODR = 0x9
	ODR1920Hz ODR = 0xa
	ODR3840Hz ODR = 0xb
	ODR7680Hz ODR = 0xc
)

var odrHz = map[ODR]float32{
	ODROff:    0,
	ODR1Hz875: 1.875,
	ODR7Hz5:   7.5,
	ODR15Hz:   15,
	ODR30Hz:   30,
	ODR60Hz:   60,
	ODR120Hz:  120,
	ODR240Hz:  240,
	ODR480Hz:  480,
	ODR960Hz:  960,
	ODR1920Hz: 1920,
	ODR3840Hz: 3840,
	ODR7680Hz: 7680,
}

// Hz returns the nominal rate, and false for an unknown code.
func (o ODR) Hz() (float32, bool) {
	hz, ok := odrHz[o]
	return hz, ok
}

// XLODRFromHz returns the slowest accelerometer rate at or above hz.
func XLODRFromHz(hz float32) ODR {
	if hz <= 1.875 {
		return ODR1Hz875
	}
	return GYODRFromHz(hz)
}

// GYODRFromHz returns the slowest gyroscope rate at or above hz.
func GYODRFromHz(hz float32) ODR {
	for odr := ODR7Hz5; odr < ODR7680Hz; odr++ {
		if hz <= odrHz[odr] {
			return odr
		}
	}
	return ODR7680Hz
}

type XLMode uint8

const (
	XLHighPerformance    XLMode = 0x0
	XLHighPerformanceTDM XLMode = 0x2
	XLLowPower2Avg       XLMode = 0x4
	XLLowPower4Avg       XLMode = 0x5
	XLLowPower8Avg       XLMode = 0x6
	XLNormal             XLMode = 0x7
)

type GYMode uint8

const (
	GYHighPerformance GYMode = 0x0
	GYSleep           GYMode = 0x4
	GYLowPower        GYMode = 0x5
)

func (d *Device) SetXLDataRate(odr ODR) error {
	return d.writeField(fldODRXL, uint8(odr))
}

func (d *Device) XLDataRate() (ODR, error) {
	v, err := d.readField(fldODRXL)
	return ODR(v), err
}

func (d *Device) SetGYDataRate(odr ODR) error {
	return d.writeField(fldODRG, uint8(odr))
}

func (d *Device) GYDataRate() (ODR, error) {
	v, err := d.readField(fldODRG)
	return ODR(v), err
}

func (d *Device) SetXLMode(mode XLMode) error {
	return d.writeField(fldOpModeXL, uint8(mode))
}

func (d *Device) XLMode() (XLMode, error) {
	v, err := d.readField(fldOpModeXL)
	return XLMode(v), err
}

func (d *Device) SetGYMode(mode GYMode) error {
	return d.writeField(fldOpModeG, uint8(mode))
}

func (d *Device) GYMode() (GYMode, error) {
	v, err := d.readField(fldOpModeG)
	return GYMode(v), err
}

type XLFullScale uint8

const (
	XL2g  XLFullScale = 0x0
	XL4g  XLFullScale = 0x1
	XL8g  XLFullScale = 0x2
	XL16g XLFullScale = 0x3
)

// Sensitivity returns mg/LSB.
func (fs XLFullScale) Sensitivity() float32 {
	switch fs {
	case XL2g:
		return 0.061
	case XL4g:
		return 0.122
	case XL8g:
		return 0.244
	case XL16g:
		return 0.488
	}
	return 0
}

// G returns the range in g.
func (fs XLFullScale) G() int32 {
	return 2 << fs
}

type GYFullScale uint8

const (
	GY125dps  GYFullScale = 0x0
	GY250dps  GYFullScale = 0x1
	GY500dps  GYFullScale = 0x2
	GY1000dps GYFullScale = 0x3
	GY2000dps GYFullScale = 0x4
	GY4000dps GYFullScale = 0xc
)

// Sensitivity returns mdps/LSB.
func (fs GYFullScale) Sensitivity() float32 {
	switch fs {
	case GY125dps:
		return 4.375
	case GY250dps:
		return 8.75
	case GY500dps:
		return 17.5
	case GY1000dps:
		return 35
	case GY2000dps:
		return 70
	case GY4000dps:
		return 140
	}
	return 0
}

// DPS returns the range in degrees per second.
func (fs GYFullScale) DPS() int32 {
	if fs == GY4000dps {
		return 4000
	}
	return 125 << fs
}

func (d *Device) SetXLFullScale(fs XLFullScale) error {
	return d.writeField(fldFSXL, uint8(fs))
}

func (d *Device) XLFullScale() (XLFullScale, error) {
	v, err := d.readField(fldFSXL)
	return XLFullScale(v), err
}

func (d *Device) SetGYFullScale(fs GYFullScale) error {
	return d.writeField(fldFSG, uint8(fs))
}

func (d *Device) GYFullScale() (GYFullScale, error) {
	v, err := d.readField(fldFSG)
	return GYFullScale(v), err
}

// SetXLDualChannel enables the second accelerometer channel, fixed at the
// maximum full scale.
func (d *Device) SetXLDualChannel(on bool) error {
	return d.writeBool(fldXLDualCEn, on)
}

func (d *Device) XLDualChannel() (bool, error) {
	return d.readBool(fldXLDualCEn)
}

type DataReadyMode uint8

const (
	DRDYLatched DataReadyMode = 0
	DRDYPulsed  DataReadyMode = 1
)

func (d *Device) SetDataReadyMode(mode DataReadyMode) error {
	return d.writeField(fldDRDYPulsed, uint8(mode))
}

func (d *Device) DataReadyMode() (DataReadyMode, error) {
	v, err := d.readField(fldDRDYPulsed)
	return DataReadyMode(v), err
}

type DataReady struct {
	XL, GY, Temp bool
}

func (d *Device) DataReady() (DataReady, error) {
	v, err := d.readReg(regStatus)
	return DataReady{
		XL:   v&0x01 != 0,
		GY:   v&0x02 != 0,
		Temp: v&0x04 != 0,
	}, err
}

func (d *Device) TemperatureRaw() (int16, error) {
	r := i2c.NewReader(d.bus)
	raw := r.Signed(regOutTempH, regOutTempL)
	if err := r.Error(); err != nil {
		return 0, fmt.Errorf("temperature: %w", err)
	}
	return int16(raw), nil
}

// TemperatureCelsius converts a raw OUT_TEMP reading.
func TemperatureCelsius(raw int16) float32 {
	return float32(raw)/256 + 25
}

func (d *Device) readAxes(reg uint8) ([3]int16, error) {
	var buf [6]byte
	var val [3]int16
	if err := d.ReadRegs(reg, buf[:]); err != nil {
		return val, err
	}
	for i := range val {
		val[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}
	return val, nil
}

// AngularRateRaw returns the gyroscope X, Y and Z output.
func (d *Device) AngularRateRaw() ([3]int16, error) {
	return d.readAxes(regOutXLG)
}

// AccelerationRaw returns the accelerometer X, Y and Z output. The device
// lays the registers out Z first.
func (d *Device) AccelerationRaw() ([3]int16, error) {
	zyx, err := d.readAxes(regOutZLA)
	return [3]int16{zyx[2], zyx[1], zyx[0]}, err
}

// DualAccelerationRaw returns the dual channel accelerometer output.
func (d *Device) DualAccelerationRaw() ([3]int16, error) {
	zyx, err := d.readAxes(regOutZLADualC)
	return [3]int16{zyx[2], zyx[1], zyx[0]}, err
}

// Timestamp returns the free running timestamp counter, 21.75 µs per LSB
// nominally (see InternalFrequency).
func (d *Device) Timestamp() (uint32, error) {
	var buf [4]byte
	if err := d.ReadRegs(regTimestamp0, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (d *Device) SetTimestamp(on bool) error {
	return d.writeBool(fldTimestampEn, on)
}

func (d *Device) TimestampEnabled() (bool, error) {
	return d.readBool(fldTimestampEn)
}

// InternalFrequency returns the factory ODR trim, in steps of 0.13 %.
func (d *Device) InternalFrequency() (int8, error) {
	v, err := d.readField(fldFreqFine)
	return int8(v), err
}

type XLSelfTest uint8

const (
	XLSelfTestDisable   XLSelfTest = 0x0
	XLSelfTestPositive  XLSelfTest = 0x1
	XLSelfTestNegative  XLSelfTest = 0x2
	XLSelfTestOffsetPos XLSelfTest = 0x5
	XLSelfTestOffsetNeg XLSelfTest = 0x6
)

func (d *Device) SetXLSelfTest(st XLSelfTest) error {
	return d.update(regCtrl10, func(v uint8) uint8 {
		v = fldSTXL.set(v, uint8(st)&0x03)
		return fldXLSTOffset.set(v, uint8(st&0x04)>>2)
	})
}

func (d *Device) XLSelfTest() (XLSelfTest, error) {
	v, err := d.readReg(regCtrl10)
	return XLSelfTest(fldXLSTOffset.get(v)<<2 | fldSTXL.get(v)), err
}

type GYSelfTest uint8

const (
	GYSelfTestDisable  GYSelfTest = 0x0
	GYSelfTestPositive GYSelfTest = 0x1
	GYSelfTestNegative GYSelfTest = 0x2
)

func (d *Device) SetGYSelfTest(st GYSelfTest) error {
	return d.writeField(fldSTG, uint8(st))
}

func (d *Device) GYSelfTest() (GYSelfTest, error) {
	v, err := d.readField(fldSTG)
	return GYSelfTest(v), err
}
