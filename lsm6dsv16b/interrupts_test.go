package lsm6dsv16b

import "testing"

func TestRouteInt1Basic(t *testing.T) {
	d, b := newFake()

	if err := d.SetPinInt1Route(Route{DRDYXL: true, FIFOFull: true}); err != nil {
		t.Fatal(err)
	}
	if b.main[regInt1Ctrl] != 0x21 {
		t.Errorf("%#02x != expected 0x21", b.main[regInt1Ctrl])
	}
	if b.main[regMD1Cfg] != 0 {
		t.Errorf("%#02x != expected 0", b.main[regMD1Cfg])
	}
	if b.main[regFunctionsEnable]&0x80 != 0 {
		t.Error("interrupts enabled without event routes")
	}
}

func TestRouteInt1Events(t *testing.T) {
	d, b := newFake()

	if err := d.SetPinInt1Route(Route{WakeUp: true, Tilt: true}); err != nil {
		t.Fatal(err)
	}
	if b.main[regMD1Cfg] != mdWakeUp|mdEmbFunc {
		t.Errorf("%#02x != expected %#02x", b.main[regMD1Cfg], mdWakeUp|mdEmbFunc)
	}
	if b.emb[embFuncInt1] != embTilt {
		t.Errorf("%#02x != expected %#02x", b.emb[embFuncInt1], embTilt)
	}
	if b.main[regFunctionsEnable]&0x80 == 0 {
		t.Error("interrupts not enabled")
	}

	r, err := d.PinInt1Route()
	if err != nil {
		t.Fatal(err)
	}
	if !r.WakeUp || !r.Tilt || r.FreeFall || r.DRDYXL {
		t.Errorf("unexpected route %+v", r)
	}
}

func TestRouteInterruptsEnableFromOtherPin(t *testing.T) {
	d, b := newFake()

	if err := d.SetPinInt2Route(Route{FreeFall: true}); err != nil {
		t.Fatal(err)
	}
	if err := d.SetPinInt1Route(Route{DRDYGY: true}); err != nil {
		t.Fatal(err)
	}
	if b.main[regFunctionsEnable]&0x80 == 0 {
		t.Error("INT1 route disabled the INT2 events")
	}
}

func TestRouteInt1Timestamp(t *testing.T) {
	d, b := newFake()

	if err := d.SetPinInt1Route(Route{Timestamp: true}); err != nil {
		t.Fatal(err)
	}
	if b.main[regCtrl4]&0x10 == 0 {
		t.Error("int2_on_int1 not set")
	}
	if b.main[regMD2Cfg]&md2Timestamp == 0 {
		t.Error("timestamp not routed")
	}

	r, err := d.PinInt1Route()
	if err != nil {
		t.Fatal(err)
	}
	if !r.Timestamp {
		t.Errorf("unexpected route %+v", r)
	}
}

func TestRouteInt2(t *testing.T) {
	d, b := newFake()

	r := Route{DRDYTemp: true, EmbFuncStandBy: true, FIFOTh: true, FSM: 0x81, StepCountOverflow: true}
	if err := d.SetPinInt2Route(r); err != nil {
		t.Fatal(err)
	}
	if b.main[regCtrl4]&0x04 == 0 {
		t.Error("temperature data ready not routed")
	}
	if b.main[regInt2Ctrl] != 0x88 {
		t.Errorf("%#02x != expected 0x88", b.main[regInt2Ctrl])
	}
	if b.emb[embFSMInt2] != 0x81 {
		t.Errorf("%#02x != expected 0x81", b.emb[embFSMInt2])
	}
	if b.pages[1][0x83]&pedoCarryCountEn == 0 {
		t.Error("step count overflow not routed")
	}

	got, err := d.PinInt2Route()
	if err != nil {
		t.Fatal(err)
	}
	if !got.DRDYTemp || !got.EmbFuncStandBy || !got.FIFOTh || got.FSM != 0x81 || !got.StepCountOverflow {
		t.Errorf("unexpected route %+v", got)
	}
}

func TestIntNotification(t *testing.T) {
	d, b := newFake()

	if err := d.SetIntNotification(BasePulsedEmbLatched); err != nil {
		t.Fatal(err)
	}
	if b.main[regTapCfg0]&0x01 != 0 || b.emb[embPageRW]&0x80 == 0 {
		t.Errorf("unexpected latch bits %#02x %#02x", b.main[regTapCfg0], b.emb[embPageRW])
	}
	if n, _ := d.IntNotification(); n != BasePulsedEmbLatched {
		t.Errorf("%d != expected %d", n, BasePulsedEmbLatched)
	}
}

func TestAllSources(t *testing.T) {
	d, b := newFake()
	b.main[regFIFOStatus2] = 0x20
	b.main[regAllIntSrc] = 0x02
	b.main[regStatus] = 0x03
	b.main[regWakeUpSrc] = 0x41
	b.main[regTapSrc] = 0x40
	b.main[regEmbFuncStatusMP] = embTilt
	b.main[regFSMStatusMP] = 0x05
	b.emb[embFuncSrc] = 0x04

	s, err := d.AllSources()
	if err != nil {
		t.Fatal(err)
	}
	if !s.FIFOFull || !s.WakeUp || !s.DRDYXL || !s.DRDYGY || s.DRDYTemp {
		t.Errorf("unexpected status sources %+v", s)
	}
	if !s.WakeUpX || !s.SleepChange || !s.SingleTap || s.DoubleTap {
		t.Errorf("unexpected event sources %+v", s)
	}
	if !s.Tilt || s.FSM != 0x05 || !s.EmbFuncStandBy || !s.StepCountInc {
		t.Errorf("unexpected embedded sources %+v", s)
	}

	if !b.wrote(MainBank, regFunctionsEnable, 0x08) {
		t.Error("latch reset not disabled during read")
	}
	if b.main[regFunctionsEnable] != 0 {
		t.Errorf("%#02x != expected 0", b.main[regFunctionsEnable])
	}
}
