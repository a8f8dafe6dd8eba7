package lsm6dsv16b

import (
	"errors"
	"fmt"

	"github.com/calmh/imupi/i2c"
)

var (
	ErrUnsupportedMode = errors.New("unsupported operating mode")
	ErrUnknownSetting  = errors.New("unknown register setting")
)

type AccMode int

const (
	AccHighPerformance AccMode = iota
	AccHighAccuracy
	AccNormal
	AccLowPower1
	AccLowPower2
	AccLowPower3
)

type GyroMode int

const (
	GyroHighPerformance GyroMode = iota
	GyroHighAccuracy
	GyroSleep
	GyroLowPower
)

type Capabilities struct {
	Acc        bool
	Gyro       bool
	Magneto    bool
	LowPower   bool
	GyroMaxFS  int32
	AccMaxFS   int32
	MagMaxFS   int32
	GyroMaxODR float32
	AccMaxODR  float32
	MagMaxODR  float32
}

// Axes are in mg for the accelerometer and mdps for the gyroscope.
type Axes struct {
	X, Y, Z int32
}

type AxesRaw struct {
	X, Y, Z int16
}

// Sensor keeps the enable state of the accelerometer and the gyroscope.
// The rate set while a sensor is disabled is remembered and applied when
// it is enabled.
type Sensor struct {
	dev         *Device
	initialized bool
	accEnabled  bool
	gyroEnabled bool
	accODR      ODR
	gyroODR     ODR
}

func NewSensor(bus i2c.Bus) *Sensor {
	return &Sensor{dev: New(bus)}
}

// Device gives access to the full register level driver.
func (s *Sensor) Device() *Device {
	return s.dev
}

func (s *Sensor) Initialized() bool {
	return s.initialized
}

// Init sets up register auto increment and block data update, leaves the
// FIFO in bypass mode and both sensors powered down at ±2 g and ±2000 dps.
func (s *Sensor) Init() error {
	d := s.dev
	if err := d.SetAutoIncrement(true); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := d.SetBlockDataUpdate(true); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := d.SetFIFOMode(BypassMode); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	s.accODR = ODR120Hz
	if err := d.SetXLDataRate(ODROff); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := d.SetXLFullScale(XL2g); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	s.gyroODR = ODR120Hz
	if err := d.SetGYDataRate(ODROff); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := d.SetGYFullScale(GY2000dps); err != nil {
		return fmt.Errorf("init: %w", err)
	}

	s.initialized = true
	return nil
}

func (s *Sensor) DeInit() error {
	if err := s.AccDisable(); err != nil {
		return err
	}
	if err := s.GyroDisable(); err != nil {
		return err
	}
	s.accODR = ODROff
	s.gyroODR = ODROff
	s.initialized = false
	return nil
}

func (s *Sensor) ReadID() (uint8, error) {
	return s.dev.ID()
}

func (s *Sensor) Capabilities() Capabilities {
	return Capabilities{
		Acc:        true,
		Gyro:       true,
		LowPower:   true,
		GyroMaxFS:  4000,
		AccMaxFS:   16,
		GyroMaxODR: 7680,
		AccMaxODR:  7680,
	}
}

func (s *Sensor) AccEnable() error {
	if s.accEnabled {
		return nil
	}
	if err := s.dev.SetXLDataRate(s.accODR); err != nil {
		return fmt.Errorf("enable accelerometer: %w", err)
	}
	s.accEnabled = true
	return nil
}

func (s *Sensor) AccDisable() error {
	if !s.accEnabled {
		return nil
	}
	odr, err := s.dev.XLDataRate()
	if err != nil {
		return fmt.Errorf("disable accelerometer: %w", err)
	}
	s.accODR = odr
	if err := s.dev.SetXLDataRate(ODROff); err != nil {
		return fmt.Errorf("disable accelerometer: %w", err)
	}
	s.accEnabled = false
	return nil
}

func (s *Sensor) AccEnabled() bool {
	return s.accEnabled
}

func (s *Sensor) AccSensitivity() (float32, error) {
	fs, err := s.dev.XLFullScale()
	if err != nil {
		return 0, err
	}
	sens := fs.Sensitivity()
	if sens == 0 {
		return 0, ErrUnknownSetting
	}
	return sens, nil
}

func (s *Sensor) AccOutputDataRate() (float32, error) {
	odr, err := s.dev.XLDataRate()
	if err != nil {
		return 0, err
	}
	hz, ok := odr.Hz()
	if !ok {
		return 0, ErrUnknownSetting
	}
	return hz, nil
}

func (s *Sensor) AccSetOutputDataRate(hz float32) error {
	return s.AccSetOutputDataRateWithMode(hz, AccHighPerformance)
}

// AccSetOutputDataRateWithMode selects the operating mode and clamps the
// rate to what the mode supports.
func (s *Sensor) AccSetOutputDataRateWithMode(hz float32, mode AccMode) error {
	var xlMode XLMode
	var odr float32
	switch mode {
	case AccHighPerformance:
		xlMode, odr = XLHighPerformance, clamp(hz, 7.5, 7680)
	case AccNormal:
		xlMode, odr = XLNormal, clamp(hz, 7.5, 1920)
	case AccLowPower1, AccLowPower2, AccLowPower3:
		xlMode = [...]XLMode{XLLowPower2Avg, XLLowPower4Avg, XLLowPower8Avg}[mode-AccLowPower1]
		odr = hz
		if hz != 1.875 {
			odr = clamp(hz, 15, 240)
		}
	default:
		return ErrUnsupportedMode
	}

	if err := s.dev.SetXLMode(xlMode); err != nil {
		return fmt.Errorf("accelerometer mode: %w", err)
	}
	if !s.accEnabled {
		s.accODR = XLODRFromHz(odr)
		return nil
	}
	return s.dev.SetXLDataRate(XLODRFromHz(odr))
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// AccFullScale returns the range in g.
func (s *Sensor) AccFullScale() (int32, error) {
	fs, err := s.dev.XLFullScale()
	if err != nil {
		return 0, err
	}
	return fs.G(), nil
}

// AccSetFullScale selects the smallest range that holds g.
func (s *Sensor) AccSetFullScale(g int32) error {
	fs := XL16g
	switch {
	case g <= 2:
		fs = XL2g
	case g <= 4:
		fs = XL4g
	case g <= 8:
		fs = XL8g
	}
	return s.dev.SetXLFullScale(fs)
}

func (s *Sensor) AccAxesRaw() (AxesRaw, error) {
	v, err := s.dev.AccelerationRaw()
	return AxesRaw{v[0], v[1], v[2]}, err
}

func (s *Sensor) AccAxes() (Axes, error) {
	raw, err := s.dev.AccelerationRaw()
	if err != nil {
		return Axes{}, err
	}
	sens, err := s.AccSensitivity()
	if err != nil {
		return Axes{}, err
	}
	return scale(raw, sens), nil
}

func scale(raw [3]int16, sens float32) Axes {
	return Axes{
		X: int32(float32(raw[0]) * sens),
		Y: int32(float32(raw[1]) * sens),
		Z: int32(float32(raw[2]) * sens),
	}
}

func (s *Sensor) GyroEnable() error {
	if s.gyroEnabled {
		return nil
	}
	if err := s.dev.SetGYDataRate(s.gyroODR); err != nil {
		return fmt.Errorf("enable gyroscope: %w", err)
	}
	s.gyroEnabled = true
	return nil
}

func (s *Sensor) GyroDisable() error {
	if !s.gyroEnabled {
		return nil
	}
	odr, err := s.dev.GYDataRate()
	if err != nil {
		return fmt.Errorf("disable gyroscope: %w", err)
	}
	s.gyroODR = odr
	if err := s.dev.SetGYDataRate(ODROff); err != nil {
		return fmt.Errorf("disable gyroscope: %w", err)
	}
	s.gyroEnabled = false
	return nil
}

func (s *Sensor) GyroEnabled() bool {
	return s.gyroEnabled
}

func (s *Sensor) GyroSensitivity() (float32, error) {
	fs, err := s.dev.GYFullScale()
	if err != nil {
		return 0, err
	}
	sens := fs.Sensitivity()
	if sens == 0 {
		return 0, ErrUnknownSetting
	}
	return sens, nil
}

func (s *Sensor) GyroOutputDataRate() (float32, error) {
	odr, err := s.dev.GYDataRate()
	if err != nil {
		return 0, err
	}
	hz, ok := odr.Hz()
	if !ok || odr == ODR1Hz875 {
		return 0, ErrUnknownSetting
	}
	return hz, nil
}

func (s *Sensor) GyroSetOutputDataRate(hz float32) error {
	return s.GyroSetOutputDataRateWithMode(hz, GyroHighPerformance)
}

func (s *Sensor) GyroSetOutputDataRateWithMode(hz float32, mode GyroMode) error {
	var gyMode GYMode
	var odr float32
	switch mode {
	case GyroHighPerformance:
		gyMode, odr = GYHighPerformance, clamp(hz, 7.5, 7680)
	case GyroLowPower:
		gyMode, odr = GYLowPower, clamp(hz, 7.5, 240)
	default:
		return ErrUnsupportedMode
	}

	if err := s.dev.SetGYMode(gyMode); err != nil {
		return fmt.Errorf("gyroscope mode: %w", err)
	}
	if !s.gyroEnabled {
		s.gyroODR = GYODRFromHz(odr)
		return nil
	}
	return s.dev.SetGYDataRate(GYODRFromHz(odr))
}

// GyroFullScale returns the range in dps.
func (s *Sensor) GyroFullScale() (int32, error) {
	fs, err := s.dev.GYFullScale()
	if err != nil {
		return 0, err
	}
	if fs.Sensitivity() == 0 {
		return 0, ErrUnknownSetting
	}
	return fs.DPS(), nil
}

// GyroSetFullScale selects the smallest range that holds dps.
func (s *Sensor) GyroSetFullScale(dps int32) error {
	fs := GY4000dps
	switch {
	case dps <= 125:
		fs = GY125dps
	case dps <= 250:
		fs = GY250dps
	case dps <= 500:
		fs = GY500dps
	case dps <= 1000:
		fs = GY1000dps
	case dps <= 2000:
		fs = GY2000dps
	}
	return s.dev.SetGYFullScale(fs)
}

func (s *Sensor) GyroAxesRaw() (AxesRaw, error) {
	v, err := s.dev.AngularRateRaw()
	return AxesRaw{v[0], v[1], v[2]}, err
}

func (s *Sensor) GyroAxes() (Axes, error) {
	raw, err := s.dev.AngularRateRaw()
	if err != nil {
		return Axes{}, err
	}
	sens, err := s.GyroSensitivity()
	if err != nil {
		return Axes{}, err
	}
	return scale(raw, sens), nil
}

func (s *Sensor) ReadReg(reg uint8) (uint8, error) {
	return s.dev.readReg(reg)
}

func (s *Sensor) WriteReg(reg, val uint8) error {
	return s.dev.writeReg(reg, val)
}

func (s *Sensor) AccDRDYStatus() (bool, error) {
	src, err := s.dev.AllSources()
	return src.DRDYXL, err
}

func (s *Sensor) GyroDRDYStatus() (bool, error) {
	src, err := s.dev.AllSources()
	return src.DRDYGY, err
}

// AccSetPowerMode takes an XLMode value; anything unknown selects high
// performance mode. Normal mode is only reached through
// AccSetOutputDataRateWithMode.
func (s *Sensor) AccSetPowerMode(mode uint8) error {
	m := XLHighPerformance
	switch XLMode(mode) {
	case XLHighPerformanceTDM, XLLowPower2Avg, XLLowPower4Avg, XLLowPower8Avg:
		m = XLMode(mode)
	}
	return s.dev.SetXLMode(m)
}

// GyroSetPowerMode takes a GYMode value; anything unknown selects low
// power mode.
func (s *Sensor) GyroSetPowerMode(mode uint8) error {
	m := GYLowPower
	switch GYMode(mode) {
	case GYHighPerformance, GYSleep:
		m = GYMode(mode)
	}
	return s.dev.SetGYMode(m)
}

// AccSetFilterMode enables LPF2 when lowHighPass is zero and disables it
// otherwise. The bandwidth is written in both cases.
func (s *Sensor) AccSetFilterMode(lowHighPass uint8, mode uint8) error {
	if err := s.dev.SetXLLowPass2(lowHighPass == 0); err != nil {
		return err
	}
	return s.dev.SetXLLowPass2Bandwidth(bandwidth(mode))
}

func (s *Sensor) GyroSetFilterMode(lowHighPass uint8, mode uint8) error {
	if err := s.dev.SetGYLowPass1(lowHighPass == 0); err != nil {
		return err
	}
	return s.dev.SetGYLowPass1Bandwidth(bandwidth(mode))
}

func bandwidth(mode uint8) Bandwidth {
	if mode > uint8(BandwidthXtreme) {
		return BandwidthXtreme
	}
	return Bandwidth(mode)
}

// FIFO helpers

func (s *Sensor) FIFONumSamples() (uint16, error) {
	st, err := s.dev.FIFOStatus()
	return st.Level, err
}

func (s *Sensor) FIFOFullStatus() (bool, error) {
	st, err := s.dev.FIFOStatus()
	return st.Full, err
}

func (s *Sensor) FIFOSetINT1FIFOFull(on bool) error {
	return s.dev.update(regInt1Ctrl, func(v uint8) uint8 {
		return v&^intFIFOFull | bit(on, intFIFOFull)
	})
}

func (s *Sensor) FIFOSetINT2FIFOFull(on bool) error {
	return s.dev.update(regInt2Ctrl, func(v uint8) uint8 {
		return v&^intFIFOFull | bit(on, intFIFOFull)
	})
}

func (s *Sensor) FIFOSetWatermarkLevel(wtm uint8) error {
	return s.dev.SetFIFOWatermark(wtm)
}

func (s *Sensor) FIFOSetStopOnFth(on bool) error {
	return s.dev.SetFIFOStopOnWatermark(on)
}

func (s *Sensor) FIFOSetMode(mode FIFOMode) error {
	return s.dev.SetFIFOMode(mode)
}

// FIFOTag returns the tag of the next record without popping it.
func (s *Sensor) FIFOTag() (Tag, error) {
	v, err := s.dev.readReg(regFIFODataOutTag)
	if err != nil {
		return TagEmpty, err
	}
	return decodeTag(v), nil
}

// FIFOData returns the data of the next record and pops it.
func (s *Sensor) FIFOData() ([6]byte, error) {
	var buf [6]byte
	err := s.dev.ReadRegs(regFIFODataOutByte0, buf[:])
	return buf, err
}

func (s *Sensor) FIFOAccAxes() (Axes, error) {
	sens, err := s.AccSensitivity()
	if err != nil {
		return Axes{}, err
	}
	rec, err := s.dev.FIFOOutRaw()
	if err != nil {
		return Axes{}, err
	}
	return scale(rec.Axes(), sens), nil
}

func (s *Sensor) FIFOGyroAxes() (Axes, error) {
	sens, err := s.GyroSensitivity()
	if err != nil {
		return Axes{}, err
	}
	rec, err := s.dev.FIFOOutRaw()
	if err != nil {
		return Axes{}, err
	}
	return scale(rec.Axes(), sens), nil
}

func (s *Sensor) FIFOAccSetBDR(hz float32) error {
	return s.dev.SetFIFOXLBatch(BDRFromHz(hz))
}

func (s *Sensor) FIFOGyroSetBDR(hz float32) error {
	return s.dev.SetFIFOGYBatch(BDRFromHz(hz))
}
