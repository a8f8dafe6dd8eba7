package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/calmh/imupi/iks4a1"
	"github.com/calmh/imupi/lsm6dsv16b"
)

type fakeFIFO struct {
	mode      uint8
	int1      bool
	watermark uint8
	stopOnFth bool
	samples   []iks4a1.Axes
	gyro      *fakeGyro
}

func (c *fakeFIFO) Init() error            { return nil }
func (c *fakeFIFO) DeInit() error          { return nil }
func (c *fakeFIFO) ReadID() (uint8, error) { return lsm6dsv16b.ID, nil }

func (c *fakeFIFO) Capabilities() iks4a1.Capabilities {
	return iks4a1.Capabilities{Acc: true, Gyro: true}
}

func (c *fakeFIFO) Sensor(f iks4a1.Function) iks4a1.MotionSensor {
	if f == iks4a1.MotionGyro {
		return c.gyro
	}
	return nil
}

func (c *fakeFIFO) FIFONumSamples() (uint16, error)         { return uint16(len(c.samples)), nil }
func (c *fakeFIFO) FIFOFullStatus() (bool, error)           { return len(c.samples) > fifoWatermark, nil }
func (c *fakeFIFO) FIFOSetINT1FIFOFull(on bool) error       { c.int1 = on; return nil }
func (c *fakeFIFO) FIFOSetINT2FIFOFull(on bool) error       { return nil }
func (c *fakeFIFO) FIFOSetWatermarkLevel(level uint8) error { c.watermark = level; return nil }
func (c *fakeFIFO) FIFOSetStopOnFth(on bool) error          { c.stopOnFth = on; return nil }
func (c *fakeFIFO) FIFOTag() (uint8, error)                 { return uint8(lsm6dsv16b.TagGYNC), nil }
func (c *fakeFIFO) FIFOData() ([6]byte, error)              { return [6]byte{}, nil }

func (c *fakeFIFO) FIFOSetMode(mode uint8) error {
	c.mode = mode
	if mode == uint8(lsm6dsv16b.BypassMode) {
		c.samples = nil
	}
	return nil
}

type fakeGyro struct {
	c   *fakeFIFO
	odr float32
	bdr float32
}

func (s *fakeGyro) Enable() error                      { return nil }
func (s *fakeGyro) Disable() error                     { return nil }
func (s *fakeGyro) Sensitivity() (float32, error)      { return 1, nil }
func (s *fakeGyro) OutputDataRate() (float32, error)   { return s.odr, nil }
func (s *fakeGyro) SetOutputDataRate(hz float32) error { s.odr = hz; return nil }
func (s *fakeGyro) FullScale() (int32, error)          { return 2000, nil }
func (s *fakeGyro) SetFullScale(fs int32) error        { return nil }
func (s *fakeGyro) AxesRaw() (iks4a1.AxesRaw, error)   { return iks4a1.AxesRaw{}, nil }
func (s *fakeGyro) Axes() (iks4a1.Axes, error)         { return iks4a1.Axes{}, nil }
func (s *fakeGyro) FIFOSetBDR(hz float32) error        { s.bdr = hz; return nil }

func (s *fakeGyro) FIFOAxes() (iks4a1.Axes, error) {
	a := s.c.samples[0]
	s.c.samples = s.c.samples[1:]
	return a, nil
}

func newTestDemo(t *testing.T) (*demo, *fakeFIFO, *bytes.Buffer) {
	t.Helper()
	c := &fakeFIFO{mode: 0xff}
	c.gyro = &fakeGyro{c: c}

	b := iks4a1.NewBoard()
	b.AddMotion(iks4a1.Motion{
		Name: "LSM6DSV16B",
		ID:   lsm6dsv16b.ID,
		Open: func() (iks4a1.MotionComponent, error) { return c, nil },
	})
	if err := b.MotionInit(0, iks4a1.MotionGyro); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	d := newDemo(b, 0, &out, func() (bool, error) { return b.FIFOFullStatus(0) })
	d.sleep = func(time.Duration) {}
	return d, c, &out
}

func TestDemoConfig(t *testing.T) {
	d, c, out := newTestDemo(t)
	if err := d.config(); err != nil {
		t.Fatal(err)
	}
	if c.gyro.odr != sampleODR || c.gyro.bdr != fifoBDR {
		t.Errorf("ODR %v BDR %v != expected %v %v", c.gyro.odr, c.gyro.bdr, sampleODR, fifoBDR)
	}
	if !c.int1 || !c.stopOnFth || c.watermark != fifoWatermark {
		t.Errorf("INT1 %v stop %v watermark %d not configured", c.int1, c.stopOnFth, c.watermark)
	}
	if !strings.Contains(out.String(), "------ LSM6DSV16B FIFO Continuous Mode DEMO ------") {
		t.Errorf("missing banner in %q", out.String())
	}
}

func TestDemoStates(t *testing.T) {
	d, c, out := newTestDemo(t)

	// Starts by stopping the FIFO.
	if err := d.step(); err != nil {
		t.Fatal(err)
	}
	if d.state != stateIdle || c.mode != uint8(lsm6dsv16b.BypassMode) {
		t.Fatalf("state %d mode %d after bypass", d.state, c.mode)
	}
	if !strings.Contains(out.String(), "\r\nPress USER button to start the DEMO...\r\n") {
		t.Errorf("missing prompt in %q", out.String())
	}

	// Button presses outside idle and run are ignored.
	d.state = stateDownload
	d.button()
	if d.state != stateDownload {
		t.Errorf("%d != expected %d", d.state, stateDownload)
	}
	d.state = stateIdle

	d.button()
	if err := d.step(); err != nil {
		t.Fatal(err)
	}
	if d.state != stateRun || c.mode != uint8(lsm6dsv16b.StreamMode) {
		t.Fatalf("state %d mode %d after start", d.state, c.mode)
	}

	for i := 0; i < 32; i++ {
		c.samples = append(c.samples, iks4a1.Axes{X: int32(i), Y: -int32(i), Z: 1000})
	}
	out.Reset()
	if err := d.step(); err != nil {
		t.Fatal(err)
	}
	if d.state != stateDownload {
		t.Fatalf("%d != expected %d", d.state, stateDownload)
	}
	if out.String() != "." {
		t.Errorf("%q != expected progress dot", out.String())
	}

	out.Reset()
	if err := d.step(); err != nil {
		t.Fatal(err)
	}
	if d.state != stateRun {
		t.Errorf("%d != expected %d", d.state, stateRun)
	}
	if len(c.samples) != 0 {
		t.Errorf("%d samples left in FIFO", len(c.samples))
	}
	got := out.String()
	for _, exp := range []string{
		"\r\n\r\n32 samples in FIFO.\r\n\r\nStarted downloading data from FIFO...\r\n\r\n",
		"[DATA ##]     GYR_X     GYR_Y     GYR_Z\r\n",
		"[DATA 01]         0         0      1000\r\n",
		"[DATA 10]         9        -9      1000\r\n",
		"\r\nSample list limited to: 10\r\n\r\n",
	} {
		if !strings.Contains(got, exp) {
			t.Errorf("missing %q in %q", exp, got)
		}
	}
	if strings.Contains(got, "[DATA 11]") {
		t.Error("more samples printed than the list limit")
	}

	d.button()
	if err := d.step(); err != nil {
		t.Fatal(err)
	}
	if d.state != stateIdle || c.mode != uint8(lsm6dsv16b.BypassMode) {
		t.Errorf("state %d mode %d after stop", d.state, c.mode)
	}
}
