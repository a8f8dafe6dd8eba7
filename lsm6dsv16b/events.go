package lsm6dsv16b

// ActMode selects what the device does while inactive.
type ActMode uint8

const (
	XLAndGYNotAffected      ActMode = 0
	XLLowPowerGYNotAffected ActMode = 1
	XLLowPowerGYSleep       ActMode = 2
	XLLowPowerGYPowerDown   ActMode = 3
)

func (d *Device) SetActMode(mode ActMode) error {
	return d.writeField(fldInactEn, uint8(mode))
}

func (d *Device) ActMode() (ActMode, error) {
	v, err := d.readField(fldInactEn)
	return ActMode(v), err
}

// SleepToActDur is the number of samples above threshold needed to leave
// the inactive state.
type SleepToActDur uint8

const (
	SleepToActAt1stSample SleepToActDur = 0
	SleepToActAt2ndSample SleepToActDur = 1
	SleepToActAt3rdSample SleepToActDur = 2
	SleepToActAt4thSample SleepToActDur = 3
)

func (d *Device) SetSleepToActDur(dur SleepToActDur) error {
	return d.writeField(fldInactDur, uint8(dur))
}

func (d *Device) SleepToActDur() (SleepToActDur, error) {
	v, err := d.readField(fldInactDur)
	return SleepToActDur(v), err
}

// SleepODR is the accelerometer rate used while inactive.
type SleepODR uint8

const (
	SleepODR1Hz875 SleepODR = 0
	SleepODR15Hz   SleepODR = 1
	SleepODR30Hz   SleepODR = 2
	SleepODR60Hz   SleepODR = 3
)

func (d *Device) SetSleepODR(odr SleepODR) error {
	return d.writeField(fldXLInactODR, uint8(odr))
}

func (d *Device) SleepODR() (SleepODR, error) {
	v, err := d.readField(fldXLInactODR)
	return SleepODR(v), err
}

type ActThresholds struct {
	WakeUpMg     uint32
	InactivityMg uint32
}

// Weights of the 6-bit wake-up and inactivity thresholds, in mg/LSB,
// indexed by INACTIVITY_DUR.wu_inact_ths_w.
var actWeights = [...]float32{7.8125, 15.625, 31.25, 62.5, 125, 250}

// SetActThresholds picks the finest weight that can represent both
// thresholds. Thresholds beyond the coarsest weight saturate.
func (d *Device) SetActThresholds(t ActThresholds) error {
	w, wk, inact := uint8(len(actWeights)-1), uint8(0x3f), uint8(0x3f)
	for i, weight := range actWeights {
		limit := uint32(weight * 63)
		if t.WakeUpMg < limit && t.InactivityMg < limit {
			w = uint8(i)
			wk = uint8(float32(t.WakeUpMg) / weight)
			inact = uint8(float32(t.InactivityMg) / weight)
			break
		}
	}

	if err := d.writeField(fldWuInactThsW, w); err != nil {
		return err
	}
	if err := d.writeField(fldInactThs, inact); err != nil {
		return err
	}
	return d.writeField(fldWkThs, wk)
}

func (d *Device) ActThresholds() (ActThresholds, error) {
	var t ActThresholds
	w, err := d.readField(fldWuInactThsW)
	if err != nil {
		return t, err
	}
	inact, err := d.readField(fldInactThs)
	if err != nil {
		return t, err
	}
	wk, err := d.readField(fldWkThs)
	if err != nil {
		return t, err
	}
	if int(w) >= len(actWeights) {
		w = uint8(len(actWeights) - 1)
	}
	t.WakeUpMg = uint32(float32(wk) * actWeights[w])
	t.InactivityMg = uint32(float32(inact) * actWeights[w])
	return t, nil
}

// WakeupWindows holds the wake-up duration (Shock, 1 LSB = 1/ODR) and the
// sleep duration (Quiet, 1 LSB = 512/ODR).
type WakeupWindows struct {
	Shock uint8
	Quiet uint8
}

func (d *Device) SetWakeupWindows(w WakeupWindows) error {
	return d.update(regWakeUpDur, func(v uint8) uint8 {
		v = fldWakeDur.set(v, w.Shock)
		return fldSleepDur.set(v, w.Quiet)
	})
}

func (d *Device) WakeupWindows() (WakeupWindows, error) {
	v, err := d.readReg(regWakeUpDur)
	return WakeupWindows{Shock: fldWakeDur.get(v), Quiet: fldSleepDur.get(v)}, err
}

type TapAxes struct {
	X, Y, Z bool
}

func (d *Device) SetTapDetection(a TapAxes) error {
	return d.writeField(fldTapXYZEn, b2u(a.X)|b2u(a.Y)<<1|b2u(a.Z)<<2)
}

func (d *Device) TapDetection() (TapAxes, error) {
	v, err := d.readField(fldTapXYZEn)
	return TapAxes{X: v&1 != 0, Y: v&2 != 0, Z: v&4 != 0}, err
}

// TapThresholds are 5-bit values, 1 LSB = FS/32.
type TapThresholds struct {
	X, Y, Z uint8
}

func (d *Device) SetTapThresholds(t TapThresholds) error {
	if err := d.writeField(fldTapThsZ, t.Z); err != nil {
		return err
	}
	if err := d.writeField(fldTapThsY, t.Y); err != nil {
		return err
	}
	return d.writeField(fldTapThsX, t.X)
}

func (d *Device) TapThresholds() (TapThresholds, error) {
	var t TapThresholds
	var err error
	if t.Z, err = d.readField(fldTapThsZ); err != nil {
		return t, err
	}
	if t.Y, err = d.readField(fldTapThsY); err != nil {
		return t, err
	}
	t.X, err = d.readField(fldTapThsX)
	return t, err
}

type TapPriority uint8

const (
	TapPriorityXYZ TapPriority = 0x3
	TapPriorityYXZ TapPriority = 0x5
	TapPriorityXZY TapPriority = 0x6
	TapPriorityZYX TapPriority = 0x0
	TapPriorityYZX TapPriority = 0x1
	TapPriorityZXY TapPriority = 0x2
)

func (d *Device) SetTapPriority(p TapPriority) error {
	return d.writeField(fldTapPriority, uint8(p))
}

func (d *Device) TapPriority() (TapPriority, error) {
	v, err := d.readField(fldTapPriority)
	return TapPriority(v), err
}

// TapWindows holds the tap shock, quiet and double tap gap durations.
type TapWindows struct {
	Shock uint8
	Quiet uint8
	Gap   uint8
}

func (d *Device) SetTapWindows(w TapWindows) error {
	return d.update(regTapDur, func(v uint8) uint8 {
		v = fldTapShock.set(v, w.Shock)
		v = fldTapQuiet.set(v, w.Quiet)
		return fldTapDur.set(v, w.Gap)
	})
}

func (d *Device) TapWindows() (TapWindows, error) {
	v, err := d.readReg(regTapDur)
	return TapWindows{
		Shock: fldTapShock.get(v),
		Quiet: fldTapQuiet.get(v),
		Gap:   fldTapDur.get(v),
	}, err
}

type TapMode uint8

const (
	OnlySingle       TapMode = 0
	BothSingleDouble TapMode = 1
)

func (d *Device) SetTapMode(mode TapMode) error {
	return d.writeField(fldSingleDouble, uint8(mode))
}

func (d *Device) TapMode() (TapMode, error) {
	v, err := d.readField(fldSingleDouble)
	return TapMode(v), err
}

type SixDThreshold uint8

const (
	Deg80 SixDThreshold = 0
	Deg70 SixDThreshold = 1
	Deg60 SixDThreshold = 2
	Deg50 SixDThreshold = 3
)

func (d *Device) SetSixDThreshold(t SixDThreshold) error {
	return d.writeField(fldSixDThs, uint8(t))
}

func (d *Device) SixDThreshold() (SixDThreshold, error) {
	v, err := d.readField(fldSixDThs)
	return SixDThreshold(v), err
}

// SetFreeFallWindow sets the 6-bit free fall duration, 1 LSB = 1/ODR. The
// top bit lives in WAKE_UP_DUR.
func (d *Device) SetFreeFallWindow(dur uint8) error {
	if err := d.writeField(fldFFDurHigh, (dur&0x20)>>5); err != nil {
		return err
	}
	return d.writeField(fldFFDur, dur&0x1f)
}

func (d *Device) FreeFallWindow() (uint8, error) {
	hi, err := d.readField(fldFFDurHigh)
	if err != nil {
		return 0, err
	}
	lo, err := d.readField(fldFFDur)
	return hi<<5 + lo, err
}

type FreeFallThreshold uint8

const (
	FF156mg FreeFallThreshold = 0
	FF219mg FreeFallThreshold = 1
	FF250mg FreeFallThreshold = 2
	FF312mg FreeFallThreshold = 3
	FF344mg FreeFallThreshold = 4
	FF406mg FreeFallThreshold = 5
	FF469mg FreeFallThreshold = 6
	FF500mg FreeFallThreshold = 7
)

func (d *Device) SetFreeFallThreshold(t FreeFallThreshold) error {
	return d.writeField(fldFFThs, uint8(t))
}

func (d *Device) FreeFallThreshold() (FreeFallThreshold, error) {
	v, err := d.readField(fldFFThs)
	return FreeFallThreshold(v), err
}
