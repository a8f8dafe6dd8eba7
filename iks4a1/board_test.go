package iks4a1

import (
	"errors"
	"testing"
)

type fakeMotion struct {
	id      uint8
	caps    Capabilities
	inits   int
	deinits int
	sensors map[Function]*fakeMotionSensor
	failID  error
}

func (c *fakeMotion) Init() error                { c.inits++; return nil }
func (c *fakeMotion) DeInit() error              { c.deinits++; return nil }
func (c *fakeMotion) ReadID() (uint8, error)     { return c.id, c.failID }
func (c *fakeMotion) Capabilities() Capabilities { return c.caps }

func (c *fakeMotion) Sensor(f Function) MotionSensor {
	if s, ok := c.sensors[f]; ok {
		return s
	}
	return nil
}

type fakeMotionSensor struct {
	enabled   bool
	enableErr error
	odr       float32
	fs        int32
	axes      Axes
}

func (s *fakeMotionSensor) Enable() error                      { s.enabled = true; return s.enableErr }
func (s *fakeMotionSensor) Disable() error                     { s.enabled = false; return nil }
func (s *fakeMotionSensor) Sensitivity() (float32, error)      { return 1, nil }
func (s *fakeMotionSensor) OutputDataRate() (float32, error)   { return s.odr, nil }
func (s *fakeMotionSensor) SetOutputDataRate(hz float32) error { s.odr = hz; return nil }
func (s *fakeMotionSensor) FullScale() (int32, error)          { return s.fs, nil }
func (s *fakeMotionSensor) SetFullScale(fs int32) error        { s.fs = fs; return nil }
func (s *fakeMotionSensor) AxesRaw() (AxesRaw, error)          { return AxesRaw{1, 2, 3}, nil }
func (s *fakeMotionSensor) Axes() (Axes, error)                { return s.axes, nil }

func newFakeMotion() *fakeMotion {
	return &fakeMotion{
		id:   0x42,
		caps: Capabilities{Acc: true, Gyro: true},
		sensors: map[Function]*fakeMotionSensor{
			MotionAccelero: {axes: Axes{1, -1, 1000}},
			MotionGyro:     {},
		},
	}
}

func fakeBoard(c *fakeMotion) *Board {
	b := NewBoard()
	b.AddMotion(Motion{Name: "FAKE", ID: 0x42, Open: func() (MotionComponent, error) { return c, nil }})
	return b
}

func TestMotionInit(t *testing.T) {
	c := newFakeMotion()
	b := fakeBoard(c)

	if err := b.MotionInit(0, MotionAccelero); err != nil {
		t.Fatal(err)
	}
	if c.inits != 1 {
		t.Errorf("%d != expected 1 inits", c.inits)
	}
	if !c.sensors[MotionAccelero].enabled || c.sensors[MotionGyro].enabled {
		t.Error("only the accelerometer should be enabled")
	}
	a, err := b.MotionAxes(0, MotionAccelero)
	if err != nil {
		t.Fatal(err)
	}
	if a != (Axes{1, -1, 1000}) {
		t.Errorf("%v != expected {1 -1 1000}", a)
	}
	if _, err := b.MotionAxes(0, MotionGyro); !errors.Is(err, ErrWrongParam) {
		t.Errorf("uninitialized function: %v", err)
	}
	if funcs, _ := b.MotionFunctions(0); funcs != MotionAccelero {
		t.Errorf("%#x != expected %#x", funcs, MotionAccelero)
	}
}

func TestMotionInitErrors(t *testing.T) {
	cases := []struct {
		name  string
		setup func(c *fakeMotion)
		funcs Function
		err   error
	}{
		{"wrong ID", func(c *fakeMotion) { c.id = 0x41 }, MotionAccelero, ErrNoInit},
		{"ID read", func(c *fakeMotion) { c.failID = errors.New("bus") }, MotionAccelero, ErrNoInit},
		{"missing function", func(c *fakeMotion) {}, MotionAccelero | MotionMagneto, ErrComponentFailure},
		{"enable", func(c *fakeMotion) { c.sensors[MotionGyro].enableErr = errors.New("bus") }, MotionGyro, ErrComponentFailure},
	}

	for _, tc := range cases {
		c := newFakeMotion()
		tc.setup(c)
		b := fakeBoard(c)
		err := b.MotionInit(0, tc.funcs)
		if !errors.Is(err, tc.err) {
			t.Errorf("%v != expected %v for %s", err, tc.err, tc.name)
		}
		if _, err := b.MotionReadID(0); !errors.Is(err, ErrNoInit) {
			t.Errorf("%v != expected no init after failed %s", err, tc.name)
		}
	}
}

func TestMotionParams(t *testing.T) {
	c := newFakeMotion()
	b := fakeBoard(c)

	if _, err := b.MotionAxes(0, MotionAccelero); !errors.Is(err, ErrNoInit) {
		t.Errorf("before init: %v", err)
	}
	if err := b.MotionInit(1, MotionAccelero); !errors.Is(err, ErrWrongParam) {
		t.Errorf("unknown instance: %v", err)
	}
	if _, err := b.MotionName(-1); !errors.Is(err, ErrWrongParam) {
		t.Errorf("negative instance: %v", err)
	}

	if err := b.MotionInit(0, MotionAccelero|MotionGyro); err != nil {
		t.Fatal(err)
	}
	if err := b.MotionEnable(0, MotionAccelero|MotionGyro); !errors.Is(err, ErrWrongParam) {
		t.Errorf("several functions: %v", err)
	}
	if err := b.MotionSetOutputDataRate(0, MotionGyro, 240); err != nil {
		t.Fatal(err)
	}
	if odr, _ := b.MotionOutputDataRate(0, MotionGyro); odr != 240 {
		t.Errorf("%v != expected 240", odr)
	}
	if err := b.MotionSetFullScale(0, MotionGyro, 500); err != nil {
		t.Fatal(err)
	}
	if fs, _ := b.MotionFullScale(0, MotionGyro); fs != 500 {
		t.Errorf("%d != expected 500", fs)
	}
	if err := b.MotionDisable(0, MotionGyro); err != nil || c.sensors[MotionGyro].enabled {
		t.Errorf("disable: %v", err)
	}

	if _, err := b.FIFONumSamples(0); !errors.Is(err, ErrWrongParam) {
		t.Errorf("FIFO on a component without one: %v", err)
	}
	if _, err := b.MotionReadRegister(0, 0x0f); !errors.Is(err, ErrWrongParam) {
		t.Errorf("register access on a component without it: %v", err)
	}

	if err := b.MotionDeInit(0); err != nil {
		t.Fatal(err)
	}
	if c.deinits != 1 {
		t.Errorf("%d != expected 1 deinits", c.deinits)
	}
	if _, err := b.MotionAxes(0, MotionAccelero); !errors.Is(err, ErrNoInit) {
		t.Errorf("after deinit: %v", err)
	}
}

type fakeEnv struct {
	values map[Function]*fakeEnvSensor
}

func (c *fakeEnv) Init() error            { return nil }
func (c *fakeEnv) DeInit() error          { return nil }
func (c *fakeEnv) ReadID() (uint8, error) { return 0xbd, nil }

func (c *fakeEnv) Capabilities() EnvCapabilities {
	return EnvCapabilities{Temperature: true, Pressure: true, TempMaxODR: 25, PressMaxODR: 25}
}

func (c *fakeEnv) Sensor(f Function) EnvSensor {
	if s, ok := c.values[f]; ok {
		return s
	}
	return nil
}

type fakeEnvSensor struct {
	enabled bool
	value   float32
	err     error
}

func (s *fakeEnvSensor) Enable() error                      { s.enabled = true; return nil }
func (s *fakeEnvSensor) Disable() error                     { s.enabled = false; return nil }
func (s *fakeEnvSensor) OutputDataRate() (float32, error)   { return 1, nil }
func (s *fakeEnvSensor) SetOutputDataRate(hz float32) error { return nil }
func (s *fakeEnvSensor) Value() (float32, error)            { return s.value, s.err }

func TestEnv(t *testing.T) {
	c := &fakeEnv{values: map[Function]*fakeEnvSensor{
		EnvTemperature: {value: 21.5},
		EnvPressure:    {value: 1013.25, err: errors.New("bus")},
	}}
	b := NewBoard()
	inst := b.AddEnv(Env{Name: "FAKE", ID: 0xbd, Open: func() (EnvComponent, error) { return c, nil }})

	if err := b.EnvInit(inst, EnvHumidity); !errors.Is(err, ErrComponentFailure) {
		t.Errorf("missing humidity: %v", err)
	}
	if err := b.EnvInit(inst, EnvTemperature|EnvPressure); err != nil {
		t.Fatal(err)
	}
	if !c.values[EnvPressure].enabled {
		t.Error("pressure not enabled")
	}
	v, err := b.EnvValue(inst, EnvTemperature)
	if err != nil {
		t.Fatal(err)
	}
	if v != 21.5 {
		t.Errorf("%v != expected 21.5", v)
	}
	if _, err := b.EnvValue(inst, EnvPressure); !errors.Is(err, ErrComponentFailure) {
		t.Errorf("value read error: %v", err)
	}
	if _, err := b.EnvValue(inst, EnvHumidity); !errors.Is(err, ErrWrongParam) {
		t.Errorf("humidity: %v", err)
	}
	if caps, _ := b.EnvCapabilities(inst); caps.PressMaxODR != 25 {
		t.Errorf("%v != expected 25", caps.PressMaxODR)
	}
}

func TestMotionComponent(t *testing.T) {
	c := newFakeMotion()
	b := fakeBoard(c)

	if _, err := b.MotionComponent(0); !errors.Is(err, ErrNoInit) {
		t.Errorf("%v != expected %v", err, ErrNoInit)
	}
	if err := b.MotionInit(0, MotionGyro); err != nil {
		t.Fatal(err)
	}
	comp, err := b.MotionComponent(0)
	if err != nil {
		t.Fatal(err)
	}
	if comp != MotionComponent(c) {
		t.Error("component is not the registered one")
	}
}

func TestEnvInitWrongID(t *testing.T) {
	c := &fakeEnv{values: map[Function]*fakeEnvSensor{EnvTemperature: {}}}
	b := NewBoard()
	inst := b.AddEnv(Env{Name: "FAKE", ID: 0xb1, Open: func() (EnvComponent, error) { return c, nil }})

	if err := b.EnvInit(inst, EnvTemperature); !errors.Is(err, ErrNoInit) {
		t.Errorf("%v != expected no init", err)
	}
	if _, err := b.EnvValue(inst, EnvTemperature); !errors.Is(err, ErrNoInit) {
		t.Errorf("%v != expected no init", err)
	}
}
