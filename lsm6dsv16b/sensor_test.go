package lsm6dsv16b

import (
	"errors"
	"testing"
)

func newFakeSensor() (*Sensor, *fakeBus) {
	d, b := newFake()
	return &Sensor{dev: d}, b
}

func TestSensorInit(t *testing.T) {
	s, b := newFakeSensor()
	b.main[regCtrl1] = 0x06
	b.main[regFIFOCtrl4] = 0x06
	b.main[regCtrl8] = 0x03

	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if b.main[regCtrl3] != 0x44 {
		t.Errorf("CTRL3 %#02x != expected 0x44", b.main[regCtrl3])
	}
	if b.main[regFIFOCtrl4] != 0 {
		t.Errorf("FIFO mode %#02x != expected bypass", b.main[regFIFOCtrl4])
	}
	if b.main[regCtrl1] != 0 || b.main[regCtrl2] != 0 {
		t.Errorf("sensors not powered down: %#02x %#02x", b.main[regCtrl1], b.main[regCtrl2])
	}
	if fs, _ := s.AccFullScale(); fs != 2 {
		t.Errorf("%d != expected 2 g", fs)
	}
	if fs, _ := s.GyroFullScale(); fs != 2000 {
		t.Errorf("%d != expected 2000 dps", fs)
	}
	if !s.Initialized() {
		t.Error("not initialized")
	}
}

func TestSensorEnableUsesCachedRate(t *testing.T) {
	s, b := newFakeSensor()
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	if err := s.AccSetOutputDataRate(400); err != nil {
		t.Fatal(err)
	}
	if b.main[regCtrl1]&0x0f != 0 {
		t.Error("rate written while disabled")
	}
	if err := s.AccEnable(); err != nil {
		t.Fatal(err)
	}
	if odr, _ := s.AccOutputDataRate(); odr != 480 {
		t.Errorf("%v != expected 480", odr)
	}

	if err := s.AccSetOutputDataRate(30); err != nil {
		t.Fatal(err)
	}
	if err := s.AccDisable(); err != nil {
		t.Fatal(err)
	}
	if b.main[regCtrl1]&0x0f != 0 {
		t.Error("not powered down")
	}
	if err := s.AccEnable(); err != nil {
		t.Fatal(err)
	}
	if odr, _ := s.AccOutputDataRate(); odr != 30 {
		t.Errorf("%v != expected 30", odr)
	}
}

func TestSensorEnableIdempotent(t *testing.T) {
	s, b := newFakeSensor()
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.GyroEnable(); err != nil {
		t.Fatal(err)
	}
	n := len(b.writes)
	if err := s.GyroEnable(); err != nil {
		t.Fatal(err)
	}
	if len(b.writes) != n {
		t.Error("second enable wrote to the device")
	}
}

func TestAccOutputDataRateWithMode(t *testing.T) {
	cases := []struct {
		hz   float32
		mode AccMode
		odr  ODR
		op   XLMode
		err  error
	}{
		{1, AccHighPerformance, ODR7Hz5, XLHighPerformance, nil},
		{10000, AccHighPerformance, ODR7680Hz, XLHighPerformance, nil},
		{5000, AccNormal, ODR1920Hz, XLNormal, nil},
		{1.875, AccLowPower1, ODR1Hz875, XLLowPower2Avg, nil},
		{5, AccLowPower2, ODR15Hz, XLLowPower4Avg, nil},
		{1000, AccLowPower3, ODR240Hz, XLLowPower8Avg, nil},
		{100, AccHighAccuracy, ODROff, XLHighPerformance, ErrUnsupportedMode},
	}

	for _, tc := range cases {
		s, b := newFakeSensor()
		s.accEnabled = true
		err := s.AccSetOutputDataRateWithMode(tc.hz, tc.mode)
		if !errors.Is(err, tc.err) {
			t.Errorf("unexpected error %v for %v", err, tc)
			continue
		}
		if odr := ODR(fldODRXL.get(b.main[regCtrl1])); odr != tc.odr {
			t.Errorf("%d != expected %d for %v", odr, tc.odr, tc)
		}
		if op := XLMode(fldOpModeXL.get(b.main[regCtrl1])); op != tc.op {
			t.Errorf("mode %d != expected %d for %v", op, tc.op, tc)
		}
	}
}

func TestGyroOutputDataRateWithMode(t *testing.T) {
	cases := []struct {
		hz   float32
		mode GyroMode
		odr  ODR
		err  error
	}{
		{1, GyroHighPerformance, ODR7Hz5, nil},
		{7680, GyroHighPerformance, ODR7680Hz, nil},
		{1000, GyroLowPower, ODR240Hz, nil},
		{100, GyroSleep, ODROff, ErrUnsupportedMode},
		{100, GyroHighAccuracy, ODROff, ErrUnsupportedMode},
	}

	for _, tc := range cases {
		s, b := newFakeSensor()
		s.gyroEnabled = true
		err := s.GyroSetOutputDataRateWithMode(tc.hz, tc.mode)
		if !errors.Is(err, tc.err) {
			t.Errorf("unexpected error %v for %v", err, tc)
			continue
		}
		if odr := ODR(fldODRG.get(b.main[regCtrl2])); odr != tc.odr {
			t.Errorf("%d != expected %d for %v", odr, tc.odr, tc)
		}
	}
}

func TestSetFullScale(t *testing.T) {
	cases := []struct {
		in  int32
		acc int32
	}{
		{1, 2},
		{2, 2},
		{3, 4},
		{8, 8},
		{9, 16},
		{100, 16},
	}
	for _, tc := range cases {
		s, _ := newFakeSensor()
		if err := s.AccSetFullScale(tc.in); err != nil {
			t.Fatal(err)
		}
		if fs, _ := s.AccFullScale(); fs != tc.acc {
			t.Errorf("%d != expected %d for %d", fs, tc.acc, tc.in)
		}
	}

	gyro := []struct {
		in  int32
		out int32
	}{
		{100, 125},
		{250, 250},
		{1500, 2000},
		{2001, 4000},
	}
	for _, tc := range gyro {
		s, _ := newFakeSensor()
		if err := s.GyroSetFullScale(tc.in); err != nil {
			t.Fatal(err)
		}
		if fs, _ := s.GyroFullScale(); fs != tc.out {
			t.Errorf("%d != expected %d for %d", fs, tc.out, tc.in)
		}
	}
}

func TestSensorAxes(t *testing.T) {
	s, b := newFakeSensor()
	b.main[regCtrl8] = uint8(XL4g)
	b.main[regCtrl6] = uint8(GY250dps)
	copy(b.main[regOutZLA:], []byte{0xe8, 0x03, 0x00, 0x00, 0x18, 0xfc})
	copy(b.main[regOutXLG:], []byte{0x64, 0x00, 0x00, 0x00, 0x9c, 0xff})

	acc, err := s.AccAxes()
	if err != nil {
		t.Fatal(err)
	}
	if acc != (Axes{-122, 0, 122}) {
		t.Errorf("%v != expected {-122 0 122}", acc)
	}
	raw, err := s.AccAxesRaw()
	if err != nil {
		t.Fatal(err)
	}
	if raw != (AxesRaw{-1000, 0, 1000}) {
		t.Errorf("%v != expected {-1000 0 1000}", raw)
	}

	gyro, err := s.GyroAxes()
	if err != nil {
		t.Fatal(err)
	}
	if gyro != (Axes{875, 0, -875}) {
		t.Errorf("%v != expected {875 0 -875}", gyro)
	}
}

func TestSensorDRDY(t *testing.T) {
	s, b := newFakeSensor()
	b.main[regStatus] = 0x02

	if rdy, _ := s.AccDRDYStatus(); rdy {
		t.Error("accelerometer reported ready")
	}
	if rdy, _ := s.GyroDRDYStatus(); !rdy {
		t.Error("gyroscope not ready")
	}
}

func TestPowerMode(t *testing.T) {
	cases := []struct {
		in  uint8
		acc XLMode
		gy  GYMode
	}{
		{0, XLHighPerformance, GYHighPerformance},
		{4, XLLowPower2Avg, GYSleep},
		{5, XLLowPower4Avg, GYLowPower},
		{6, XLLowPower8Avg, GYLowPower},
		{2, XLHighPerformanceTDM, GYLowPower},
		{1, XLHighPerformance, GYLowPower},
		{7, XLHighPerformance, GYLowPower},
	}

	for _, tc := range cases {
		s, _ := newFakeSensor()
		if err := s.AccSetPowerMode(tc.in); err != nil {
			t.Fatal(err)
		}
		if err := s.GyroSetPowerMode(tc.in); err != nil {
			t.Fatal(err)
		}
		if m, _ := s.dev.XLMode(); m != tc.acc {
			t.Errorf("%d != expected %d for %d", m, tc.acc, tc.in)
		}
		if m, _ := s.dev.GYMode(); m != tc.gy {
			t.Errorf("%d != expected %d for %d", m, tc.gy, tc.in)
		}
	}
}

func TestFilterMode(t *testing.T) {
	s, b := newFakeSensor()

	if err := s.AccSetFilterMode(0, 3); err != nil {
		t.Fatal(err)
	}
	if b.main[regCtrl9]&0x08 == 0 || fldHPLPF2XLBW.get(b.main[regCtrl8]) != 3 {
		t.Errorf("unexpected filter %#02x %#02x", b.main[regCtrl9], b.main[regCtrl8])
	}
	if err := s.GyroSetFilterMode(1, 42); err != nil {
		t.Fatal(err)
	}
	if b.main[regCtrl7]&0x01 != 0 || fldLPF1GBW.get(b.main[regCtrl6]) != uint8(BandwidthXtreme) {
		t.Errorf("unexpected filter %#02x %#02x", b.main[regCtrl7], b.main[regCtrl6])
	}
}

func TestSensorFIFO(t *testing.T) {
	s, b := newFakeSensor()
	b.main[regCtrl6] = uint8(GY2000dps)
	b.main[regFIFOStatus1] = 2
	b.main[regFIFOStatus2] = 0x20
	b.fifo = [][7]byte{
		{uint8(TagGYNC) << 3, 0x01, 0x00, 0xff, 0xff, 0x0a, 0x00},
		{uint8(TagGYNC) << 3, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00},
	}

	if n, _ := s.FIFONumSamples(); n != 2 {
		t.Errorf("%d != expected 2", n)
	}
	if full, _ := s.FIFOFullStatus(); !full {
		t.Error("FIFO not full")
	}
	if tag, _ := s.FIFOTag(); tag != TagGYNC {
		t.Errorf("%v != expected %v", tag, TagGYNC)
	}
	if len(b.fifo) != 2 {
		t.Fatal("tag read consumed a record")
	}

	axes, err := s.FIFOGyroAxes()
	if err != nil {
		t.Fatal(err)
	}
	if axes != (Axes{70, -70, 700}) {
		t.Errorf("%v != expected {70 -70 700}", axes)
	}
	data, err := s.FIFOData()
	if err != nil {
		t.Fatal(err)
	}
	if data != [6]byte{0x02, 0, 0, 0, 0, 0} {
		t.Errorf("unexpected data % x", data)
	}
	if len(b.fifo) != 0 {
		t.Error("records not consumed")
	}
}

func TestSensorFIFOConfig(t *testing.T) {
	s, b := newFakeSensor()

	if err := s.FIFOSetINT1FIFOFull(true); err != nil {
		t.Fatal(err)
	}
	if err := s.FIFOSetWatermarkLevel(31); err != nil {
		t.Fatal(err)
	}
	if err := s.FIFOSetStopOnFth(true); err != nil {
		t.Fatal(err)
	}
	if err := s.FIFOGyroSetBDR(7680); err != nil {
		t.Fatal(err)
	}
	if err := s.FIFOSetMode(StreamMode); err != nil {
		t.Fatal(err)
	}

	if b.main[regInt1Ctrl] != 0x20 {
		t.Errorf("INT1 %#02x != expected 0x20", b.main[regInt1Ctrl])
	}
	if b.main[regFIFOCtrl1] != 31 || b.main[regFIFOCtrl2] != 0x80 {
		t.Errorf("watermark %d, %#02x != expected 31, 0x80", b.main[regFIFOCtrl1], b.main[regFIFOCtrl2])
	}
	if b.main[regFIFOCtrl3] != 0xc0 || b.main[regFIFOCtrl4] != 0x06 {
		t.Errorf("FIFO %#02x %#02x != expected 0xc0 0x06", b.main[regFIFOCtrl3], b.main[regFIFOCtrl4])
	}
}

func TestSensorDeInit(t *testing.T) {
	s, b := newFakeSensor()
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	if err := s.AccEnable(); err != nil {
		t.Fatal(err)
	}
	if err := s.DeInit(); err != nil {
		t.Fatal(err)
	}
	if s.AccEnabled() || s.Initialized() || b.main[regCtrl1]&0x0f != 0 {
		t.Error("not shut down")
	}
	if err := s.AccEnable(); err != nil {
		t.Fatal(err)
	}
	if b.main[regCtrl1]&0x0f != 0 {
		t.Error("rate not cleared by deinit")
	}
}

func TestFreeFallDetection(t *testing.T) {
	s, b := newFakeSensor()
	s.accEnabled = true

	if err := s.EnableFreeFallDetection(Int2); err != nil {
		t.Fatal(err)
	}
	if b.main[regMD2Cfg]&mdFreeFall == 0 || b.main[regMD1Cfg]&mdFreeFall != 0 {
		t.Errorf("unexpected routes %#02x %#02x", b.main[regMD1Cfg], b.main[regMD2Cfg])
	}
	if b.main[regFunctionsEnable]&0x80 == 0 {
		t.Error("interrupts not enabled")
	}
	if odr, _ := s.AccOutputDataRate(); odr != 480 {
		t.Errorf("%v != expected 480", odr)
	}
	if th, _ := s.dev.FreeFallThreshold(); th != FF312mg {
		t.Errorf("%d != expected %d", th, FF312mg)
	}

	b.main[regAllIntSrc] = 0x01
	st, err := s.EventStatus()
	if err != nil {
		t.Fatal(err)
	}
	if !st.FreeFall || st.WakeUp {
		t.Errorf("unexpected status %+v", st)
	}

	if err := s.DisableFreeFallDetection(); err != nil {
		t.Fatal(err)
	}
	if b.main[regMD2Cfg]&mdFreeFall != 0 || b.main[regFunctionsEnable]&0x80 != 0 {
		t.Error("free fall still routed")
	}
	if st, _ := s.EventStatus(); st.FreeFall {
		t.Error("unrouted event reported")
	}
}

func TestPedometer(t *testing.T) {
	s, b := newFakeSensor()

	if err := s.EnablePedometer(Int1); err != nil {
		t.Fatal(err)
	}
	if b.emb[embFuncEnA]&0x08 == 0 || b.emb[embFuncInt1]&embStep == 0 {
		t.Errorf("pedometer not set up: %#02x %#02x", b.emb[embFuncEnA], b.emb[embFuncInt1])
	}
	if b.main[regMD1Cfg]&mdEmbFunc == 0 {
		t.Error("embedded functions not routed")
	}
	if fs, _ := s.AccFullScale(); fs != 8 {
		t.Errorf("%d != expected 8", fs)
	}
	if err := s.DisablePedometer(); err != nil {
		t.Fatal(err)
	}
	if b.emb[embFuncEnA]&0x08 != 0 || b.emb[embFuncInt1] != 0 {
		t.Error("pedometer still enabled")
	}
}

func TestRouteUnknownPin(t *testing.T) {
	s, _ := newFakeSensor()
	if err := s.EnableTiltDetection(IntPin(3)); !errors.Is(err, ErrUnknownSetting) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestSensorFIFOTag(t *testing.T) {
	cases := []struct {
		reg uint8
		tag Tag
	}{
		{0x08, TagGYNC},
		{0x12, TagXLNC},
		{0xba, TagGravity},
		{0xf8, TagEmpty}, // 0x1f is not a tag
		{0x70, TagEmpty}, // 0x0e neither
	}

	for _, tc := range cases {
		s, b := newFakeSensor()
		b.main[regFIFODataOutTag] = tc.reg
		tag, err := s.FIFOTag()
		if err != nil {
			t.Fatal(err)
		}
		if tag != tc.tag {
			t.Errorf("%d != expected %d for %#02x", tag, tc.tag, tc.reg)
		}
	}
}
