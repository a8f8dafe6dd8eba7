package lsm6dsv16b

import "testing"

func TestActThresholds(t *testing.T) {
	cases := []struct {
		in     ActThresholds
		weight uint8
		wk     uint8
		inact  uint8
		out    ActThresholds
	}{
		{ActThresholds{100, 50}, 0, 12, 6, ActThresholds{93, 46}},
		{ActThresholds{1000, 0}, 2, 32, 0, ActThresholds{1000, 0}},
		{ActThresholds{0, 4000}, 4, 0, 32, ActThresholds{0, 4000}},
		{ActThresholds{20000, 0}, 5, 0x3f, 0x3f, ActThresholds{15750, 15750}},
	}

	for _, tc := range cases {
		d, b := newFake()
		if err := d.SetActThresholds(tc.in); err != nil {
			t.Fatal(err)
		}
		if w := fldWuInactThsW.get(b.main[regInactivityDur]); w != tc.weight {
			t.Errorf("weight %d != expected %d for %v", w, tc.weight, tc.in)
		}
		if b.main[regWakeUpThs] != tc.wk || b.main[regInactivityThs] != tc.inact {
			t.Errorf("%d, %d != expected %d, %d for %v", b.main[regWakeUpThs], b.main[regInactivityThs], tc.wk, tc.inact, tc.in)
		}
		out, err := d.ActThresholds()
		if err != nil {
			t.Fatal(err)
		}
		if out != tc.out {
			t.Errorf("%v != expected %v for %v", out, tc.out, tc.in)
		}
	}
}

func TestFreeFallWindow(t *testing.T) {
	d, b := newFake()

	if err := d.SetFreeFallWindow(0x25); err != nil {
		t.Fatal(err)
	}
	if b.main[regWakeUpDur] != 0x80 || b.main[regFreeFall] != 0x28 {
		t.Errorf("%#02x %#02x != expected 0x80 0x28", b.main[regWakeUpDur], b.main[regFreeFall])
	}
	if dur, _ := d.FreeFallWindow(); dur != 0x25 {
		t.Errorf("%#02x != expected 0x25", dur)
	}
}

func TestTapThresholds(t *testing.T) {
	d, b := newFake()

	if err := d.SetTapThresholds(TapThresholds{X: 1, Y: 2, Z: 3}); err != nil {
		t.Fatal(err)
	}
	if b.main[regTapCfg1] != 3 || b.main[regTapCfg2] != 2 || b.main[regTapThs6D] != 1 {
		t.Errorf("unexpected registers %d %d %d", b.main[regTapCfg1], b.main[regTapCfg2], b.main[regTapThs6D])
	}
	if th, _ := d.TapThresholds(); th != (TapThresholds{1, 2, 3}) {
		t.Errorf("%v != expected {1 2 3}", th)
	}
}

func TestWakeupWindows(t *testing.T) {
	d, b := newFake()

	if err := d.SetWakeupWindows(WakeupWindows{Shock: 2, Quiet: 5}); err != nil {
		t.Fatal(err)
	}
	if b.main[regWakeUpDur] != 0x45 {
		t.Errorf("%#02x != expected 0x45", b.main[regWakeUpDur])
	}
}
