package lsm6dsv16b

// Bandwidth selects the LPF1 (gyroscope) or LPF2 (accelerometer) cutoff,
// from the lightest to the strongest filtering.
type Bandwidth uint8

const (
	BandwidthUltraLight Bandwidth = iota
	BandwidthVeryLight
	BandwidthLight
	BandwidthMedium
	BandwidthStrong
	BandwidthVeryStrong
	BandwidthAggressive
	BandwidthXtreme
)

func (d *Device) SetGYLowPass1(on bool) error {
	return d.writeBool(fldLPF1GEn, on)
}

func (d *Device) GYLowPass1() (bool, error) {
	return d.readBool(fldLPF1GEn)
}

func (d *Device) SetGYLowPass1Bandwidth(bw Bandwidth) error {
	return d.writeField(fldLPF1GBW, uint8(bw))
}

func (d *Device) GYLowPass1Bandwidth() (Bandwidth, error) {
	v, err := d.readField(fldLPF1GBW)
	return Bandwidth(v), err
}

func (d *Device) SetXLLowPass2(on bool) error {
	return d.writeBool(fldLPF2XLEn, on)
}

func (d *Device) XLLowPass2() (bool, error) {
	return d.readBool(fldLPF2XLEn)
}

// SetXLLowPass2Bandwidth sets the accelerometer LPF2 cutoff. The same field
// sets the high pass cutoff when the slope filter is enabled.
func (d *Device) SetXLLowPass2Bandwidth(bw Bandwidth) error {
	return d.writeField(fldHPLPF2XLBW, uint8(bw))
}

func (d *Device) XLLowPass2Bandwidth() (Bandwidth, error) {
	v, err := d.readField(fldHPLPF2XLBW)
	return Bandwidth(v), err
}

func (d *Device) SetXLHighPass(on bool) error {
	return d.writeBool(fldHPSlopeXLEn, on)
}

func (d *Device) XLHighPass() (bool, error) {
	return d.readBool(fldHPSlopeXLEn)
}

func (d *Device) SetXLFastSettling(on bool) error {
	return d.writeBool(fldXLFastSettl, on)
}

func (d *Device) XLFastSettling() (bool, error) {
	return d.readBool(fldXLFastSettl)
}

type HPMode uint8

const (
	HPNormal    HPMode = 0
	HPReference HPMode = 1
)

func (d *Device) SetXLHighPassMode(mode HPMode) error {
	return d.writeField(fldHPRefModeXL, uint8(mode))
}

func (d *Device) XLHighPassMode() (HPMode, error) {
	v, err := d.readField(fldHPRefModeXL)
	return HPMode(v), err
}

type AntiSpike uint8

const (
	AntiSpikeAuto   AntiSpike = 0
	AntiSpikeAlways AntiSpike = 1
)

func (d *Device) SetAntiSpike(mode AntiSpike) error {
	return d.writeField(fldASFCtrl, uint8(mode))
}

func (d *Device) AntiSpike() (AntiSpike, error) {
	v, err := d.readField(fldASFCtrl)
	return AntiSpike(v), err
}

// SettlingMask suppresses data-ready and embedded function interrupts
// while the filters settle after a configuration change.
type SettlingMask struct {
	DRDY  bool
	IRQXL bool
	IRQGY bool
}

func (d *Device) SetSettlingMask(m SettlingMask) error {
	if err := d.writeBool(fldDRDYMask, m.DRDY); err != nil {
		return err
	}
	return d.update(regEmbFuncCfg, func(v uint8) uint8 {
		v = fldIrqMaskXLSettl.set(v, b2u(m.IRQXL))
		return fldIrqMaskGSettl.set(v, b2u(m.IRQGY))
	})
}

func (d *Device) SettlingMask() (SettlingMask, error) {
	var m SettlingMask
	ctrl4, err := d.readReg(regCtrl4)
	if err != nil {
		return m, err
	}
	cfg, err := d.readReg(regEmbFuncCfg)
	if err != nil {
		return m, err
	}
	m.DRDY = fldDRDYMask.get(ctrl4) != 0
	m.IRQXL = fldIrqMaskXLSettl.get(cfg) != 0
	m.IRQGY = fldIrqMaskGSettl.get(cfg) != 0
	return m, nil
}

// WakeupFeed selects the signal the wake-up and activity detectors see.
type WakeupFeed uint8

const (
	WakeupFeedSlope        WakeupFeed = 0
	WakeupFeedHighPass     WakeupFeed = 1
	WakeupFeedLPWithOffset WakeupFeed = 2
)

func (d *Device) SetWakeupFeed(feed WakeupFeed) error {
	if err := d.writeField(fldUsrOffOnWU, uint8(feed&0x02)>>1); err != nil {
		return err
	}
	return d.writeField(fldSlopeFDS, uint8(feed&0x01))
}

func (d *Device) WakeupFeed() (WakeupFeed, error) {
	ths, err := d.readReg(regWakeUpThs)
	if err != nil {
		return 0, err
	}
	cfg, err := d.readReg(regTapCfg0)
	if err != nil {
		return 0, err
	}
	return WakeupFeed(fldUsrOffOnWU.get(ths)<<1 | fldSlopeFDS.get(cfg)), nil
}

type SixDFeed uint8

const (
	SixDFeedODRDiv2 SixDFeed = 0
	SixDFeedLowPass SixDFeed = 1
)

func (d *Device) SetSixDFeed(feed SixDFeed) error {
	return d.writeField(fldLowPassOn6D, uint8(feed))
}

func (d *Device) SixDFeed() (SixDFeed, error) {
	v, err := d.readField(fldLowPassOn6D)
	return SixDFeed(v), err
}

// SetMaskXLSettling masks the event detectors while the accelerometer
// settles.
func (d *Device) SetMaskXLSettling(on bool) error {
	return d.writeBool(fldHWMaskXLSettl, on)
}

func (d *Device) MaskXLSettling() (bool, error) {
	return d.readBool(fldHWMaskXLSettl)
}
