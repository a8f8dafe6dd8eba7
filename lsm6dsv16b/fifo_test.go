package lsm6dsv16b

import "testing"

func TestFIFOStatus(t *testing.T) {
	d, b := newFake()
	b.main[regFIFOStatus1] = 0x34
	b.main[regFIFOStatus2] = 0xa1

	st, err := d.FIFOStatus()
	if err != nil {
		t.Fatal(err)
	}
	if st.Level != 0x134 || !st.Full || !st.Watermark || st.Overrun || st.BDR {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestFIFOOutRaw(t *testing.T) {
	cases := []struct {
		rec  [7]byte
		tag  Tag
		cnt  uint8
		axes [3]int16
	}{
		{[7]byte{0x01<<3 | 2<<1, 0x10, 0x00, 0xff, 0xff, 0x00, 0x80}, TagGYNC, 2, [3]int16{16, -1, -32768}},
		{[7]byte{0x02 << 3, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00}, TagXLNC, 0, [3]int16{1, 2, 3}},
		{[7]byte{0x1f<<3 | 3<<1, 0, 0, 0, 0, 0, 0}, TagEmpty, 3, [3]int16{}},
	}

	for _, tc := range cases {
		d, b := newFake()
		b.fifo = [][7]byte{tc.rec}

		rec, err := d.FIFOOutRaw()
		if err != nil {
			t.Fatal(err)
		}
		if rec.Tag != tc.tag || rec.Cnt != tc.cnt || rec.Axes() != tc.axes {
			t.Errorf("%v/%d/%v != expected %v/%d/%v", rec.Tag, rec.Cnt, rec.Axes(), tc.tag, tc.cnt, tc.axes)
		}
		if len(b.fifo) != 0 {
			t.Error("record not consumed")
		}
	}
}

func TestBDRFromHz(t *testing.T) {
	cases := []struct {
		hz  float32
		bdr BDR
	}{
		{-1, BDRNotBatched},
		{0, BDRNotBatched},
		{1, BDR1Hz875},
		{15, BDR15Hz},
		{7680, BDR7680Hz},
	}

	for _, tc := range cases {
		if res := BDRFromHz(tc.hz); res != tc.bdr {
			t.Errorf("%d != expected %d for %v", res, tc.bdr, tc.hz)
		}
	}
}

func TestFIFOBatchFields(t *testing.T) {
	d, b := newFake()

	if err := d.SetFIFOXLBatch(BDR60Hz); err != nil {
		t.Fatal(err)
	}
	if err := d.SetFIFOGYBatch(BDR7680Hz); err != nil {
		t.Fatal(err)
	}
	if b.main[regFIFOCtrl3] != 0xc5 {
		t.Errorf("%#02x != expected 0xc5", b.main[regFIFOCtrl3])
	}

	if err := d.SetFIFOMode(StreamMode); err != nil {
		t.Fatal(err)
	}
	if err := d.SetFIFOTimestampBatch(TimestampDec8); err != nil {
		t.Fatal(err)
	}
	if b.main[regFIFOCtrl4] != 0x86 {
		t.Errorf("%#02x != expected 0x86", b.main[regFIFOCtrl4])
	}
}

func TestFIFOBatchCounterThreshold(t *testing.T) {
	d, b := newFake()
	b.main[regCounterBDR1] = 0x60

	if err := d.SetFIFOBatchCounterThreshold(0x2f3); err != nil {
		t.Fatal(err)
	}
	if b.main[regCounterBDR1] != 0x62 || b.main[regCounterBDR2] != 0xf3 {
		t.Errorf("%#02x %#02x != expected 0x62 0xf3", b.main[regCounterBDR1], b.main[regCounterBDR2])
	}
	if th, _ := d.FIFOBatchCounterThreshold(); th != 0x2f3 {
		t.Errorf("%#x != expected 0x2f3", th)
	}
}

func TestFIFOCompressRealTime(t *testing.T) {
	d, b := newFake()

	if err := d.SetFIFOCompressRealTime(true); err != nil {
		t.Fatal(err)
	}
	if b.main[regFIFOCtrl2]&0x40 == 0 || b.emb[embFuncEnB]&0x08 == 0 {
		t.Errorf("compression not enabled: %#02x %#02x", b.main[regFIFOCtrl2], b.emb[embFuncEnB])
	}
}

func TestTagString(t *testing.T) {
	if s := TagGameRotation.String(); s != "game rotation" {
		t.Errorf("%q != expected %q", s, "game rotation")
	}
	if s := Tag(0x1e).String(); s != "tag 0x1e" {
		t.Errorf("%q != expected %q", s, "tag 0x1e")
	}
}
