package lsm6dsv16b

type PinMode uint8

const (
	PushPull  PinMode = 0
	OpenDrain PinMode = 1
)

func (d *Device) SetIntPinMode(mode PinMode) error {
	return d.writeField(fldPPOD, uint8(mode))
}

func (d *Device) IntPinMode() (PinMode, error) {
	v, err := d.readField(fldPPOD)
	return PinMode(v), err
}

type Polarity uint8

const (
	ActiveHigh Polarity = 0
	ActiveLow  Polarity = 1
)

func (d *Device) SetPinPolarity(p Polarity) error {
	return d.writeField(fldHLActive, uint8(p))
}

func (d *Device) PinPolarity() (Polarity, error) {
	v, err := d.readField(fldHLActive)
	return Polarity(v), err
}

// SetI2CI3C enables or disables the I2C and MIPI I3C interfaces. SPI is
// always available.
func (d *Device) SetI2CI3C(enabled bool) error {
	return d.writeBool(fldI2CI3CDisable, !enabled)
}

func (d *Device) I2CI3C() (bool, error) {
	dis, err := d.readBool(fldI2CI3CDisable)
	return !dis, err
}

type SPIMode uint8

const (
	SPI4Wire SPIMode = 0
	SPI3Wire SPIMode = 1
)

func (d *Device) SetSPIMode(mode SPIMode) error {
	return d.writeField(fldSIM, uint8(mode))
}

func (d *Device) SPIMode() (SPIMode, error) {
	v, err := d.readField(fldSIM)
	return SPIMode(v), err
}

// IBITime is the I3C bus available time required before an in-band
// interrupt.
type IBITime uint8

const (
	IBI2us  IBITime = 0
	IBI50us IBITime = 1
	IBI1ms  IBITime = 2
	IBI25ms IBITime = 3
)

func (d *Device) SetI3CIBITime(t IBITime) error {
	return d.writeField(fldBusActSel, uint8(t))
}

func (d *Device) I3CIBITime() (IBITime, error) {
	v, err := d.readField(fldBusActSel)
	return IBITime(v), err
}

// SetI3CIntEnable routes interrupts over I3C in-band signalling.
func (d *Device) SetI3CIntEnable(on bool) error {
	return d.writeBool(fldIntEnI3C, on)
}

func (d *Device) I3CIntEnable() (bool, error) {
	return d.readBool(fldIntEnI3C)
}

type I3CResetMode uint8

const (
	I3CSWRstDynAddr I3CResetMode = 0
	I3CGlobalRst    I3CResetMode = 1
)

func (d *Device) SetI3CResetMode(mode I3CResetMode) error {
	return d.writeField(fldIBHRPorEn, uint8(mode))
}

func (d *Device) I3CResetMode() (I3CResetMode, error) {
	v, err := d.readField(fldIBHRPorEn)
	return I3CResetMode(v), err
}

func (d *Device) SetSDOPullUp(on bool) error {
	return d.writeBool(fldSDOPuEn, on)
}

func (d *Device) SDOPullUp() (bool, error) {
	return d.readBool(fldSDOPuEn)
}

func (d *Device) SetSDAPullUp(on bool) error {
	return d.writeBool(fldSDAPuEn, on)
}

func (d *Device) SDAPullUp() (bool, error) {
	return d.readBool(fldSDAPuEn)
}

// TDM audio interface

func (d *Device) SetTDMWclkPullUp(on bool) error {
	return d.writeBool(fldTDMWclkPuDis, !on)
}

func (d *Device) TDMWclkPullUp() (bool, error) {
	dis, err := d.readBool(fldTDMWclkPuDis)
	return !dis, err
}

func (d *Device) SetTDMOutPullUp(on bool) error {
	return d.writeBool(fldTDMOutPuEn, on)
}

func (d *Device) TDMOutPullUp() (bool, error) {
	return d.readBool(fldTDMOutPuEn)
}

type TDMClock uint8

const (
	WCLK16kHzBCLK2048kHz TDMClock = 0x1
	WCLK8kHzBCLK2048kHz  TDMClock = 0x4
)

func (d *Device) SetTDMClock(c TDMClock) error {
	return d.update(regTDMCfg0, func(v uint8) uint8 {
		v = fldTDMWclkBclkSel.set(v, uint8(c&0x4)>>2)
		return fldTDMWclk.set(v, uint8(c&0x3))
	})
}

func (d *Device) TDMClock() (TDMClock, error) {
	v, err := d.readReg(regTDMCfg0)
	return TDMClock(fldTDMWclkBclkSel.get(v)<<2 | fldTDMWclk.get(v)), err
}

type TDMSlot uint8

const (
	TDMSlot012 TDMSlot = 0
	TDMSlot456 TDMSlot = 1
)

func (d *Device) SetTDMSlot(s TDMSlot) error {
	return d.writeField(fldTDMSlotSel, uint8(s))
}

func (d *Device) TDMSlot() (TDMSlot, error) {
	v, err := d.readField(fldTDMSlotSel)
	return TDMSlot(v), err
}

type TDMEdge uint8

const (
	BCLKRising  TDMEdge = 0
	BCLKFalling TDMEdge = 1
)

func (d *Device) SetTDMBclkEdge(e TDMEdge) error {
	return d.writeField(fldTDMBclkEdge, uint8(e))
}

func (d *Device) TDMBclkEdge() (TDMEdge, error) {
	v, err := d.readField(fldTDMBclkEdge)
	return TDMEdge(v), err
}

func (d *Device) SetTDMDelayed(on bool) error {
	return d.writeBool(fldTDMDelayedCfg, on)
}

func (d *Device) TDMDelayed() (bool, error) {
	return d.readBool(fldTDMDelayedCfg)
}

type TDMAxes struct {
	X, Y, Z bool
}

func (d *Device) SetTDMAxes(a TDMAxes) error {
	return d.update(regTDMCfg1, func(v uint8) uint8 {
		v = fldTDMXLXEn.set(v, b2u(a.X))
		v = fldTDMXLYEn.set(v, b2u(a.Y))
		return fldTDMXLZEn.set(v, b2u(a.Z))
	})
}

func (d *Device) TDMAxes() (TDMAxes, error) {
	v, err := d.readReg(regTDMCfg1)
	return TDMAxes{
		X: fldTDMXLXEn.get(v) != 0,
		Y: fldTDMXLYEn.get(v) != 0,
		Z: fldTDMXLZEn.get(v) != 0,
	}, err
}

type TDMAxisOrder uint8

const (
	TDMOrderZYX TDMAxisOrder = 0
	TDMOrderXZY TDMAxisOrder = 1
	TDMOrderXYZ TDMAxisOrder = 2
)

func (d *Device) SetTDMAxisOrder(o TDMAxisOrder) error {
	return d.writeField(fldTDMAxesOrd, uint8(o))
}

func (d *Device) TDMAxisOrder() (TDMAxisOrder, error) {
	v, err := d.readField(fldTDMAxesOrd)
	return TDMAxisOrder(v), err
}

type TDMFullScale uint8

const (
	TDM2g TDMFullScale = 0
	TDM4g TDMFullScale = 1
	TDM8g TDMFullScale = 2
)

func (d *Device) SetTDMFullScale(fs TDMFullScale) error {
	return d.writeField(fldTDMFSXL, uint8(fs))
}

func (d *Device) TDMFullScale() (TDMFullScale, error) {
	v, err := d.readField(fldTDMFSXL)
	return TDMFullScale(v), err
}

func (d *Device) SetTDMDataMask(on bool) error {
	return d.writeBool(fldTDMDataMask, on)
}

func (d *Device) TDMDataMask() (bool, error) {
	return d.readBool(fldTDMDataMask)
}
