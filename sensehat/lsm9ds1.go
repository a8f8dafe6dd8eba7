package sensehat

import (
	"fmt"
	"math"
	"sync"

	"github.com/calmh/imupi/i2c"
	"github.com/calmh/imupi/iks4a1"
)

// ST LSM9DS1 iNEMO inertial module, 3D magnetometer, 3D accelerometer, 3D
// gyroscope

const (
	lsm9ds1AccelAddress = 0x6a
	lsm9ds1AccelID      = 0x68
	lsm9ds1WhoAmIReg    = 0x0f
	lsm9ds1CtrlReg1G    = 0x10
	lsm9ds1GyroXOutLReg = 0x18
	lsm9ds1CtrlReg6XL   = 0x20
	lsm9ds1CtrlReg8     = 0x22
	lsm9ds1Ctrl8Init    = 0b_0100_0100 // BDU=1, IF_ADD_INC=1
	lsm9ds1AccelXOutReg = 0x28

	lsm9ds1MagnAddress  = 0x1c
	lsm9ds1MagnID       = 0x3d
	lsm9ds1CtrlReg1M    = 0x20
	lsm9ds1CtrlReg2M    = 0x21
	lsm9ds1CtrlReg3M    = 0x22
	lsm9ds1MagnXOutLReg = 0x28
	lsm9ds1MagnAutoInc  = 0x80
	lsm9ds1MagnPowerOff = 0b_11
)

var magnInitData = [][2]byte{
	{lsm9ds1CtrlReg1M, 0b_1001_0000}, // TEMP_COMP=1, 10 Hz
	{lsm9ds1CtrlReg2M, 0b_0000_0000}, // ±4 gauss
	{lsm9ds1CtrlReg3M, lsm9ds1MagnPowerOff},
}

var (
	fldODRXL = field{lsm9ds1CtrlReg6XL, 5, 3}
	fldFSXL  = field{lsm9ds1CtrlReg6XL, 3, 2}
	fldODRG  = field{lsm9ds1CtrlReg1G, 5, 3}
	fldFSG   = field{lsm9ds1CtrlReg1G, 3, 2}
	fldDOM   = field{lsm9ds1CtrlReg1M, 2, 3}
	fldFSM   = field{lsm9ds1CtrlReg2M, 5, 2}
	fldMDM   = field{lsm9ds1CtrlReg3M, 0, 2}
)

// Rates and scales are indexed by register field value. Scales of zero
// mark reserved settings.
var (
	accelRates  = []float32{0, 10, 50, 119, 238, 476, 952}
	gyroRates   = []float32{0, 14.9, 59.5, 119, 238, 476, 952}
	magnRates   = []float32{0.625, 1.25, 2.5, 5, 10, 20, 40, 80}
	accelScales = []int32{2, 16, 4, 8}
	gyroScales  = []int32{245, 500, 0, 2000}
	magnScales  = []int32{4, 8, 12, 16}
	accelSens   = []float32{0.061, 0.732, 0.122, 0.244} // mg/LSB
	gyroSens    = []float32{8.75, 17.5, 0, 70}          // mdps/LSB
	magnSens    = []float32{0.14, 0.29, 0.43, 0.58}     // mgauss/LSB
)

type Point struct {
	X, Y, Z int16
}

// Calibration is the range of magnetometer readings seen so far, used to
// remove the hard iron offset.
type Calibration struct {
	Min Point
	Max Point
}

// LSM9DS1Component is the motion sensor of the Sense HAT. The
// magnetometer lives at its own I2C address.
type LSM9DS1Component struct {
	ag, m i2c.Bus
	mo    float64

	mut      sync.Mutex
	cal      Calibration
	mx       Point
	accelODR uint8
	gyroODR  uint8
	accelOn  bool
	gyroOn   bool
}

// LSM9DS1 describes the Sense HAT motion sensor. Declination is added to
// compass headings, in degrees.
func LSM9DS1(dev i2c.Device, declination float64) iks4a1.Motion {
	ag := i2c.NewDeviceBus(dev, lsm9ds1AccelAddress)
	m := i2c.NewDeviceBus(dev, lsm9ds1MagnAddress)
	return iks4a1.Motion{
		Name: "LSM9DS1",
		ID:   lsm9ds1AccelID,
		Open: func() (iks4a1.MotionComponent, error) {
			return newLSM9DS1(ag, m, declination), nil
		},
	}
}

func newLSM9DS1(ag, m i2c.Bus, declination float64) *LSM9DS1Component {
	return &LSM9DS1Component{ag: ag, m: m, mo: declination}
}

// Init leaves all three sensors powered down at their lowest full scale.
func (s *LSM9DS1Component) Init() error {
	var id [1]byte
	if err := s.m.ReadRegs(lsm9ds1WhoAmIReg, id[:]); err != nil {
		return fmt.Errorf("read magnetometer ID: %w", err)
	}
	if id[0] != lsm9ds1MagnID {
		return fmt.Errorf("magnetometer ID %#02x, expected %#02x", id[0], lsm9ds1MagnID)
	}

	for _, line := range [][2]byte{
		{lsm9ds1CtrlReg8, lsm9ds1Ctrl8Init},
		{lsm9ds1CtrlReg6XL, 0},
		{lsm9ds1CtrlReg1G, 0},
	} {
		if err := s.ag.WriteRegs(line[0], line[1:]); err != nil {
			return fmt.Errorf("write control register %#02x: %w", line[0], err)
		}
	}
	for _, line := range magnInitData {
		if err := s.m.WriteRegs(line[0], line[1:]); err != nil {
			return fmt.Errorf("write control register %#02x: %w", line[0], err)
		}
	}

	s.mut.Lock()
	s.accelODR = 1
	s.gyroODR = 1
	s.accelOn = false
	s.gyroOn = false
	s.mut.Unlock()
	return nil
}

func (s *LSM9DS1Component) DeInit() error {
	for _, f := range []iks4a1.Function{iks4a1.MotionAccelero, iks4a1.MotionGyro, iks4a1.MotionMagneto} {
		if err := s.Sensor(f).Disable(); err != nil {
			return err
		}
	}
	return nil
}

func (s *LSM9DS1Component) ReadID() (uint8, error) {
	return s.ReadReg(lsm9ds1WhoAmIReg)
}

func (s *LSM9DS1Component) ReadReg(reg uint8) (uint8, error) {
	var buf [1]byte
	if err := s.ag.ReadRegs(reg, buf[:]); err != nil {
		return 0, fmt.Errorf("read register %#02x: %w", reg, err)
	}
	return buf[0], nil
}

func (s *LSM9DS1Component) WriteReg(reg, val uint8) error {
	if err := s.ag.WriteRegs(reg, []byte{val}); err != nil {
		return fmt.Errorf("write register %#02x: %w", reg, err)
	}
	return nil
}

func (s *LSM9DS1Component) Capabilities() iks4a1.Capabilities {
	return iks4a1.Capabilities{
		Acc:        true,
		Gyro:       true,
		Magneto:    true,
		GyroMaxFS:  2000,
		AccMaxFS:   16,
		MagMaxFS:   16,
		GyroMaxODR: 952,
		AccMaxODR:  952,
		MagMaxODR:  80,
	}
}

func (s *LSM9DS1Component) Sensor(f iks4a1.Function) iks4a1.MotionSensor {
	switch f {
	case iks4a1.MotionAccelero:
		return lsm9ds1Accel{s}
	case iks4a1.MotionGyro:
		return lsm9ds1Gyro{s}
	case iks4a1.MotionMagneto:
		return lsm9ds1Magn{s}
	}
	return nil
}

// readAxes reads three little endian axes starting at reg.
func readAxes(bus i2c.Bus, reg uint8) (iks4a1.AxesRaw, error) {
	r := i2c.NewReader(bus)
	x := int16(r.Signed(reg+1, reg))
	y := int16(r.Signed(reg+3, reg+2))
	z := int16(r.Signed(reg+5, reg+4))
	if err := r.Error(); err != nil {
		return iks4a1.AxesRaw{}, fmt.Errorf("read data: %w", err)
	}
	return iks4a1.AxesRaw{X: x, Y: y, Z: z}, nil
}

func scaleAxes(raw iks4a1.AxesRaw, sens float32) iks4a1.Axes {
	return iks4a1.Axes{
		X: int32(float32(raw.X) * sens),
		Y: int32(float32(raw.Y) * sens),
		Z: int32(float32(raw.Z) * sens),
	}
}

func sensitivity(bus i2c.Bus, fs field, sens []float32) (float32, error) {
	v, err := readField(bus, fs)
	if err != nil {
		return 0, err
	}
	if sens[v] == 0 {
		return 0, fmt.Errorf("full scale setting %d: reserved", v)
	}
	return sens[v], nil
}

type lsm9ds1Accel struct {
	s *LSM9DS1Component
}

func (a lsm9ds1Accel) Enable() error {
	a.s.mut.Lock()
	defer a.s.mut.Unlock()
	if err := writeField(a.s.ag, fldODRXL, a.s.accelODR); err != nil {
		return err
	}
	a.s.accelOn = true
	return nil
}

func (a lsm9ds1Accel) Disable() error {
	a.s.mut.Lock()
	defer a.s.mut.Unlock()
	if err := writeField(a.s.ag, fldODRXL, 0); err != nil {
		return err
	}
	a.s.accelOn = false
	return nil
}

func (a lsm9ds1Accel) Sensitivity() (float32, error) {
	return sensitivity(a.s.ag, fldFSXL, accelSens)
}

func (a lsm9ds1Accel) OutputDataRate() (float32, error) {
	a.s.mut.Lock()
	defer a.s.mut.Unlock()
	return accelRates[a.s.accelODR], nil
}

// SetOutputDataRate is remembered while the accelerometer is disabled.
func (a lsm9ds1Accel) SetOutputDataRate(hz float32) error {
	a.s.mut.Lock()
	defer a.s.mut.Unlock()
	a.s.accelODR = rateIndex(accelRates, hz)
	if !a.s.accelOn {
		return nil
	}
	return writeField(a.s.ag, fldODRXL, a.s.accelODR)
}

func (a lsm9ds1Accel) FullScale() (int32, error) {
	v, err := readField(a.s.ag, fldFSXL)
	return accelScales[v], err
}

func (a lsm9ds1Accel) SetFullScale(fs int32) error {
	v, err := scaleIndex(accelScales, fs)
	if err != nil {
		return err
	}
	return writeField(a.s.ag, fldFSXL, v)
}

func (a lsm9ds1Accel) AxesRaw() (iks4a1.AxesRaw, error) {
	return readAxes(a.s.ag, lsm9ds1AccelXOutReg)
}

func (a lsm9ds1Accel) Axes() (iks4a1.Axes, error) {
	sens, err := a.Sensitivity()
	if err != nil {
		return iks4a1.Axes{}, err
	}
	raw, err := a.AxesRaw()
	if err != nil {
		return iks4a1.Axes{}, err
	}
	return scaleAxes(raw, sens), nil
}

type lsm9ds1Gyro struct {
	s *LSM9DS1Component
}

func (g lsm9ds1Gyro) Enable() error {
	g.s.mut.Lock()
	defer g.s.mut.Unlock()
	if err := writeField(g.s.ag, fldODRG, g.s.gyroODR); err != nil {
		return err
	}
	g.s.gyroOn = true
	return nil
}

func (g lsm9ds1Gyro) Disable() error {
	g.s.mut.Lock()
	defer g.s.mut.Unlock()
	if err := writeField(g.s.ag, fldODRG, 0); err != nil {
		return err
	}
	g.s.gyroOn = false
	return nil
}

func (g lsm9ds1Gyro) Sensitivity() (float32, error) {
	return sensitivity(g.s.ag, fldFSG, gyroSens)
}

func (g lsm9ds1Gyro) OutputDataRate() (float32, error) {
	g.s.mut.Lock()
	defer g.s.mut.Unlock()
	return gyroRates[g.s.gyroODR], nil
}

func (g lsm9ds1Gyro) SetOutputDataRate(hz float32) error {
	g.s.mut.Lock()
	defer g.s.mut.Unlock()
	g.s.gyroODR = rateIndex(gyroRates, hz)
	if !g.s.gyroOn {
		return nil
	}
	return writeField(g.s.ag, fldODRG, g.s.gyroODR)
}

func (g lsm9ds1Gyro) FullScale() (int32, error) {
	v, err := readField(g.s.ag, fldFSG)
	return gyroScales[v], err
}

func (g lsm9ds1Gyro) SetFullScale(fs int32) error {
	v, err := scaleIndex(gyroScales, fs)
	if err != nil {
		return err
	}
	return writeField(g.s.ag, fldFSG, v)
}

func (g lsm9ds1Gyro) AxesRaw() (iks4a1.AxesRaw, error) {
	return readAxes(g.s.ag, lsm9ds1GyroXOutLReg)
}

func (g lsm9ds1Gyro) Axes() (iks4a1.Axes, error) {
	sens, err := g.Sensitivity()
	if err != nil {
		return iks4a1.Axes{}, err
	}
	raw, err := g.AxesRaw()
	if err != nil {
		return iks4a1.Axes{}, err
	}
	return scaleAxes(raw, sens), nil
}

type lsm9ds1Magn struct {
	s *LSM9DS1Component
}

func (m lsm9ds1Magn) Enable() error {
	return writeField(m.s.m, fldMDM, 0)
}

func (m lsm9ds1Magn) Disable() error {
	return writeField(m.s.m, fldMDM, lsm9ds1MagnPowerOff)
}

func (m lsm9ds1Magn) Sensitivity() (float32, error) {
	return sensitivity(m.s.m, fldFSM, magnSens)
}

func (m lsm9ds1Magn) OutputDataRate() (float32, error) {
	v, err := readField(m.s.m, fldDOM)
	return magnRates[v], err
}

func (m lsm9ds1Magn) SetOutputDataRate(hz float32) error {
	v := uint8(len(magnRates) - 1)
	for i, r := range magnRates {
		if r >= hz {
			v = uint8(i)
			break
		}
	}
	return writeField(m.s.m, fldDOM, v)
}

func (m lsm9ds1Magn) FullScale() (int32, error) {
	v, err := readField(m.s.m, fldFSM)
	return magnScales[v], err
}

func (m lsm9ds1Magn) SetFullScale(fs int32) error {
	v, err := scaleIndex(magnScales, fs)
	if err != nil {
		return err
	}
	return writeField(m.s.m, fldFSM, v)
}

// AxesRaw also widens the calibration range.
func (m lsm9ds1Magn) AxesRaw() (iks4a1.AxesRaw, error) {
	raw, err := readAxes(m.s.m, lsm9ds1MagnXOutLReg|lsm9ds1MagnAutoInc)
	if err != nil {
		return raw, err
	}
	m.s.mut.Lock()
	m.s.mx = Point(raw)
	m.s.updateCalibration(raw.X, raw.Y, raw.Z)
	m.s.mut.Unlock()
	return raw, nil
}

func (m lsm9ds1Magn) Axes() (iks4a1.Axes, error) {
	sens, err := m.Sensitivity()
	if err != nil {
		return iks4a1.Axes{}, err
	}
	raw, err := m.AxesRaw()
	if err != nil {
		return iks4a1.Axes{}, err
	}
	return scaleAxes(raw, sens), nil
}

func (s *LSM9DS1Component) Calibration() Calibration {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.cal
}

func (s *LSM9DS1Component) SetCalibration(cal Calibration) {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.cal = cal
}

// Compass returns the headings in degrees in the XY, XZ and YZ planes of
// the last magnetometer reading, corrected for the calibration range and
// the declination.
func (s *LSM9DS1Component) Compass() (xy, xz, yz float64) {
	s.mut.Lock()
	defer s.mut.Unlock()
	x := float64(s.mx.X - (s.cal.Max.X+s.cal.Min.X)/2)
	y := float64(s.mx.Y - (s.cal.Max.Y+s.cal.Min.Y)/2)
	z := float64(s.mx.Z - (s.cal.Max.Z+s.cal.Min.Z)/2)
	return compass(y, x, s.mo), compass(z, x, s.mo), compass(z, y, s.mo)
}

func (s *LSM9DS1Component) updateCalibration(x, y, z int16) {
	if s.cal.Max.X == 0 || x > s.cal.Max.X {
		s.cal.Max.X = x
	}
	if s.cal.Min.X == 0 || x < s.cal.Min.X {
		s.cal.Min.X = x
	}
	if s.cal.Max.Y == 0 || y > s.cal.Max.Y {
		s.cal.Max.Y = y
	}
	if s.cal.Min.Y == 0 || y < s.cal.Min.Y {
		s.cal.Min.Y = y
	}
	if s.cal.Max.Z == 0 || z > s.cal.Max.Z {
		s.cal.Max.Z = z
	}
	if s.cal.Min.Z == 0 || z < s.cal.Min.Z {
		s.cal.Min.Z = z
	}
}

func compass(y, x, o float64) float64 {
	v := math.Atan2(y, x)/math.Pi*180 + o
	for v > 360 {
		v -= 360
	}
	for v < 0 {
		v += 360
	}
	return v
}
