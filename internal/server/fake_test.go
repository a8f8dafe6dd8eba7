package server

import (
	"errors"
	"testing"

	"github.com/calmh/imupi/iks4a1"
)

type fakeIMU struct {
	sensors map[iks4a1.Function]*fakeAxis
}

func (c *fakeIMU) Init() error            { return nil }
func (c *fakeIMU) DeInit() error          { return nil }
func (c *fakeIMU) ReadID() (uint8, error) { return 0x42, nil }

func (c *fakeIMU) Capabilities() iks4a1.Capabilities {
	return iks4a1.Capabilities{Acc: true, Gyro: true}
}

func (c *fakeIMU) Sensor(f iks4a1.Function) iks4a1.MotionSensor {
	if s, ok := c.sensors[f]; ok {
		return s
	}
	return nil
}

type fakeAxis struct {
	enabled bool
	axes    iks4a1.Axes
}

func (s *fakeAxis) Enable() error                      { s.enabled = true; return nil }
func (s *fakeAxis) Disable() error                     { s.enabled = false; return nil }
func (s *fakeAxis) Sensitivity() (float32, error)      { return 1, nil }
func (s *fakeAxis) OutputDataRate() (float32, error)   { return 120, nil }
func (s *fakeAxis) SetOutputDataRate(hz float32) error { return nil }
func (s *fakeAxis) FullScale() (int32, error)          { return 2, nil }
func (s *fakeAxis) SetFullScale(fs int32) error        { return nil }
func (s *fakeAxis) AxesRaw() (iks4a1.AxesRaw, error)   { return iks4a1.AxesRaw{}, nil }
func (s *fakeAxis) Axes() (iks4a1.Axes, error)         { return s.axes, nil }

type fakeEnv struct {
	sensors map[iks4a1.Function]*fakeValue
}

func (c *fakeEnv) Init() error            { return nil }
func (c *fakeEnv) DeInit() error          { return nil }
func (c *fakeEnv) ReadID() (uint8, error) { return 0xbd, nil }

func (c *fakeEnv) Capabilities() iks4a1.EnvCapabilities {
	return iks4a1.EnvCapabilities{Temperature: true, Pressure: true}
}

func (c *fakeEnv) Sensor(f iks4a1.Function) iks4a1.EnvSensor {
	if s, ok := c.sensors[f]; ok {
		return s
	}
	return nil
}

var errPoweredDown = errors.New("powered down")

type fakeValue struct {
	enabled bool
	value   float32
}

func (s *fakeValue) Enable() error                      { s.enabled = true; return nil }
func (s *fakeValue) Disable() error                     { s.enabled = false; return nil }
func (s *fakeValue) OutputDataRate() (float32, error)   { return 1, nil }
func (s *fakeValue) SetOutputDataRate(hz float32) error { return nil }

func (s *fakeValue) Value() (float32, error) {
	if !s.enabled {
		return 0, errPoweredDown
	}
	return s.value, nil
}

// newTestBoard returns a board with an initialized accelerometer and
// gyroscope at motion instance 0 and a thermometer and barometer at env
// instance 0.
func newTestBoard(t *testing.T) *iks4a1.Board {
	t.Helper()

	imu := &fakeIMU{sensors: map[iks4a1.Function]*fakeAxis{
		iks4a1.MotionAccelero: {axes: iks4a1.Axes{X: 1, Y: 2, Z: 3}},
		iks4a1.MotionGyro:     {axes: iks4a1.Axes{X: -100, Y: 200, Z: 300}},
	}}
	env := &fakeEnv{sensors: map[iks4a1.Function]*fakeValue{
		iks4a1.EnvTemperature: {value: 21.456},
		iks4a1.EnvPressure:    {value: 1013.25},
	}}

	b := iks4a1.NewBoard()
	b.AddMotion(iks4a1.Motion{
		Name: "FAKEIMU",
		ID:   0x42,
		Open: func() (iks4a1.MotionComponent, error) { return imu, nil },
	})
	b.AddEnv(iks4a1.Env{
		Name: "FAKEENV",
		ID:   0xbd,
		Open: func() (iks4a1.EnvComponent, error) { return env, nil },
	})
	if err := b.MotionInit(0, iks4a1.MotionAccelero|iks4a1.MotionGyro); err != nil {
		t.Fatal(err)
	}
	if err := b.EnvInit(0, iks4a1.EnvTemperature|iks4a1.EnvPressure); err != nil {
		t.Fatal(err)
	}
	return b
}
