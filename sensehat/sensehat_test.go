package sensehat

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/calmh/imupi/iks4a1"
)

type regBus struct {
	regs [256]byte
}

func (b *regBus) ReadRegs(reg uint8, buf []byte) error {
	copy(buf, b.regs[reg:])
	return nil
}

func (b *regBus) WriteRegs(reg uint8, data []byte) error {
	copy(b.regs[reg:], data)
	return nil
}

type fakeReading struct {
	value, temp float64
	reads       int
	err         error
}

func (r *fakeReading) Data() (float64, float64, error) {
	r.reads++
	return r.value, r.temp, r.err
}

func TestRateIndex(t *testing.T) {
	cases := []struct {
		hz  float32
		idx uint8
	}{
		{0, 1},
		{1, 1},
		{2, 2},
		{12.5, 3},
		{25, 4},
		{100, 4},
	}

	for _, tc := range cases {
		if idx := rateIndex(lps25hRates, tc.hz); idx != tc.idx {
			t.Errorf("%d != expected %d for %v", idx, tc.idx, tc.hz)
		}
	}
}

func TestScaleIndex(t *testing.T) {
	cases := []struct {
		fs  int32
		idx uint8
	}{
		{1, 0},
		{2, 0},
		{3, 2},
		{8, 3},
		{9, 1},
		{16, 1},
	}

	for _, tc := range cases {
		idx, err := scaleIndex(accelScales, tc.fs)
		if err != nil {
			t.Fatal(err)
		}
		if idx != tc.idx {
			t.Errorf("%d != expected %d for %v", idx, tc.idx, tc.fs)
		}
	}
	if _, err := scaleIndex(accelScales, 17); err == nil {
		t.Error("unexpected nil error for 17 g")
	}
}

func TestEnvChip(t *testing.T) {
	bus := &regBus{}
	bus.regs[envWhoAmIReg] = lps25hID
	src := &fakeReading{value: 1013.25, temp: 21.5}
	b := iks4a1.NewBoard()
	inst := b.AddEnv(iks4a1.Env{
		Name: "LPS25H",
		ID:   lps25hID,
		Open: func() (iks4a1.EnvComponent, error) {
			return newLPS25H(bus, func() (reading, error) { return src, nil }), nil
		},
	})

	if err := b.EnvInit(inst, iks4a1.EnvHumidity); !errors.Is(err, iks4a1.ErrComponentFailure) {
		t.Errorf("humidity on a pressure sensor: %v", err)
	}
	if err := b.EnvInit(inst, iks4a1.EnvPressure); err != nil {
		t.Fatal(err)
	}
	if bus.regs[envCtrlReg1] != 0x94 {
		t.Errorf("%#02x != expected 0x94", bus.regs[envCtrlReg1])
	}
	if err := b.EnvEnable(inst, iks4a1.EnvTemperature); !errors.Is(err, iks4a1.ErrWrongParam) {
		t.Errorf("temperature was not initialized: %v", err)
	}

	p, err := b.EnvValue(inst, iks4a1.EnvPressure)
	if err != nil {
		t.Fatal(err)
	}
	if p != 1013.25 {
		t.Errorf("%v != expected 1013.25", p)
	}
	if _, err := b.EnvValue(inst, iks4a1.EnvPressure); err != nil {
		t.Fatal(err)
	}
	if src.reads != 1 {
		t.Errorf("%d != expected 1 read within the cache age", src.reads)
	}

	if err := b.EnvSetOutputDataRate(inst, iks4a1.EnvPressure, 10); err != nil {
		t.Fatal(err)
	}
	if odr, _ := b.EnvOutputDataRate(inst, iks4a1.EnvPressure); odr != 12.5 {
		t.Errorf("%v != expected 12.5", odr)
	}
	if bus.regs[envCtrlReg1] != 0xb4 {
		t.Errorf("%#02x != expected 0xb4", bus.regs[envCtrlReg1])
	}

	if err := b.EnvDisable(inst, iks4a1.EnvPressure); err != nil {
		t.Fatal(err)
	}
	if bus.regs[envCtrlReg1]&envPowerOn != 0 {
		t.Error("still powered after the last function was disabled")
	}
	if _, err := b.EnvValue(inst, iks4a1.EnvPressure); !errors.Is(err, errDisabled) {
		t.Errorf("disabled: %v", err)
	}
}

func TestEnvChipTemperature(t *testing.T) {
	bus := &regBus{}
	src := &fakeReading{value: 45, temp: 19.25}
	c := newHTS221(bus, func() (reading, error) { return src, nil })
	if err := c.Init(); err != nil {
		t.Fatal(err)
	}
	if bus.regs[envCtrlReg1] != 0x05 {
		t.Errorf("%#02x != expected 0x05", bus.regs[envCtrlReg1])
	}
	for _, f := range []iks4a1.Function{iks4a1.EnvTemperature, iks4a1.EnvHumidity} {
		if err := c.Sensor(f).Enable(); err != nil {
			t.Fatal(err)
		}
	}
	if c.Sensor(iks4a1.EnvPressure) != nil {
		t.Error("HTS221 has no pressure sensor")
	}
	if v, _ := c.Sensor(iks4a1.EnvTemperature).Value(); v != 19.25 {
		t.Errorf("%v != expected 19.25", v)
	}
	if v, _ := c.Sensor(iks4a1.EnvHumidity).Value(); v != 45 {
		t.Errorf("%v != expected 45", v)
	}

	src.err = errors.New("bus")
	c.cached = time.Time{}
	if _, err := c.Sensor(iks4a1.EnvHumidity).Value(); err == nil {
		t.Error("unexpected nil error")
	}
}

func TestLSM9DS1(t *testing.T) {
	ag, m := &regBus{}, &regBus{}
	ag.regs[lsm9ds1WhoAmIReg] = lsm9ds1AccelID
	m.regs[lsm9ds1WhoAmIReg] = lsm9ds1MagnID
	b := iks4a1.NewBoard()
	inst := b.AddMotion(iks4a1.Motion{
		Name: "LSM9DS1",
		ID:   lsm9ds1AccelID,
		Open: func() (iks4a1.MotionComponent, error) { return newLSM9DS1(ag, m, 0), nil },
	})

	all := iks4a1.MotionAccelero | iks4a1.MotionGyro | iks4a1.MotionMagneto
	if err := b.MotionInit(inst, all); err != nil {
		t.Fatal(err)
	}
	if ag.regs[lsm9ds1CtrlReg6XL] != 0x20 || ag.regs[lsm9ds1CtrlReg1G] != 0x20 {
		t.Errorf("CTRL_REG6_XL %#02x CTRL_REG1_G %#02x, expected 0x20", ag.regs[lsm9ds1CtrlReg6XL], ag.regs[lsm9ds1CtrlReg1G])
	}
	if m.regs[lsm9ds1CtrlReg3M] != 0 {
		t.Errorf("%#02x != expected continuous magnetometer", m.regs[lsm9ds1CtrlReg3M])
	}

	if err := b.MotionSetFullScale(inst, iks4a1.MotionAccelero, 4); err != nil {
		t.Fatal(err)
	}
	copy(ag.regs[lsm9ds1AccelXOutReg:], []byte{0xe8, 0x03, 0x18, 0xfc, 0, 0})
	a, err := b.MotionAxes(inst, iks4a1.MotionAccelero)
	if err != nil {
		t.Fatal(err)
	}
	if a != (iks4a1.Axes{X: 122, Y: -122, Z: 0}) {
		t.Errorf("%v != expected {122 -122 0}", a)
	}

	if err := b.MotionSetOutputDataRate(inst, iks4a1.MotionGyro, 100); err != nil {
		t.Fatal(err)
	}
	if odr, _ := b.MotionOutputDataRate(inst, iks4a1.MotionGyro); odr != 119 {
		t.Errorf("%v != expected 119", odr)
	}
	if ag.regs[lsm9ds1CtrlReg1G]>>5 != 3 {
		t.Errorf("%#02x != expected ODR 3", ag.regs[lsm9ds1CtrlReg1G])
	}

	copy(m.regs[lsm9ds1MagnXOutLReg|lsm9ds1MagnAutoInc:], []byte{100, 0, 0, 0, 0, 0})
	if _, err := b.MotionAxesRaw(inst, iks4a1.MotionMagneto); err != nil {
		t.Fatal(err)
	}
	copy(m.regs[lsm9ds1MagnXOutLReg|lsm9ds1MagnAutoInc:], []byte{0x9c, 0xff, 0, 0, 0, 0})
	if _, err := b.MotionAxesRaw(inst, iks4a1.MotionMagneto); err != nil {
		t.Fatal(err)
	}
	copy(m.regs[lsm9ds1MagnXOutLReg|lsm9ds1MagnAutoInc:], []byte{0, 0, 100, 0, 0, 0})
	if _, err := b.MotionAxesRaw(inst, iks4a1.MotionMagneto); err != nil {
		t.Fatal(err)
	}

	c := newLSM9DS1(ag, m, 0)
	c.cal = Calibration{Min: Point{-100, -100, 0}, Max: Point{100, 100, 0}}
	c.mx = Point{0, 100, 0}
	if xy, _, _ := c.Compass(); math.Abs(xy-90) > 1e-9 {
		t.Errorf("%v != expected 90", xy)
	}

	if err := b.MotionDeInit(inst); err != nil {
		t.Fatal(err)
	}
	if m.regs[lsm9ds1CtrlReg3M] != lsm9ds1MagnPowerOff || ag.regs[lsm9ds1CtrlReg6XL]>>5 != 0 {
		t.Error("sensors not powered down")
	}
}

func TestCalibrationRange(t *testing.T) {
	s := newLSM9DS1(&regBus{}, &regBus{}, 0)
	for _, p := range []Point{{10, -5, 3}, {-20, 7, 1}, {5, 0, 9}} {
		s.updateCalibration(p.X, p.Y, p.Z)
	}
	exp := Calibration{Min: Point{-20, -5, 1}, Max: Point{10, 7, 9}}
	if cal := s.Calibration(); cal != exp {
		t.Errorf("%v != expected %v", cal, exp)
	}
}
