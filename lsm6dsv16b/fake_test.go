package lsm6dsv16b

import (
	"errors"
	"time"
)

// fakeBus models the three register banks of the device, the embedded
// advanced feature pages and the FIFO output queue.
type fakeBus struct {
	main   [256]byte
	emb    [256]byte
	shub   [256]byte
	pages  [16][256]byte
	fifo   [][7]byte
	writes []fakeWrite
	fail   map[uint8]bool
}

type fakeWrite struct {
	bank MemBank
	reg  uint8
	val  uint8
}

const shubBank MemBank = 2

var errFake = errors.New("fake bus error")

func newFake() (*Device, *fakeBus) {
	b := &fakeBus{}
	b.emb[embFuncExecStatus] = 0x01 // end of operation
	b.main[regStatus] = 0x01        // accelerometer data ready
	d := New(b)
	d.sleep = func(time.Duration) {}
	return d, b
}

func (b *fakeBus) bank(reg uint8) MemBank {
	switch {
	case reg == regFuncCfgAccess:
		return MainBank
	case b.main[regFuncCfgAccess]&0x80 != 0:
		return EmbeddedBank
	case b.main[regFuncCfgAccess]&0x40 != 0:
		return shubBank
	}
	return MainBank
}

func (b *fakeBus) regs(bank MemBank) *[256]byte {
	switch bank {
	case EmbeddedBank:
		return &b.emb
	case shubBank:
		return &b.shub
	}
	return &b.main
}

func (b *fakeBus) page() (*[256]byte, uint8) {
	return &b.pages[b.emb[embPageSel]>>4], b.emb[embPageAddress]
}

func (b *fakeBus) ReadRegs(reg uint8, buf []byte) error {
	if b.fail[reg] {
		return errFake
	}
	bank := b.bank(reg)
	if bank == MainBank && (reg == regFIFODataOutTag || reg == regFIFODataOutByte0) && len(b.fifo) > 0 {
		rec := b.fifo[0]
		if len(buf) >= 6 {
			b.fifo = b.fifo[1:]
		}
		copy(buf, rec[reg-regFIFODataOutTag:])
		return nil
	}
	regs := b.regs(bank)
	for i := range buf {
		r := reg + uint8(i)
		if bank == EmbeddedBank && r == embPageValue && b.emb[embPageRW]&0x20 != 0 {
			pg, addr := b.page()
			buf[i] = pg[addr]
			b.emb[embPageAddress]++
			continue
		}
		buf[i] = regs[r]
	}
	return nil
}

func (b *fakeBus) WriteRegs(reg uint8, data []byte) error {
	if b.fail[reg] {
		return errFake
	}
	bank := b.bank(reg)
	regs := b.regs(bank)
	for i, v := range data {
		r := reg + uint8(i)
		b.writes = append(b.writes, fakeWrite{bank, r, v})
		if bank == EmbeddedBank && r == embPageValue && b.emb[embPageRW]&0x40 != 0 {
			pg, addr := b.page()
			pg[addr] = v
			b.emb[embPageAddress]++
			continue
		}
		regs[r] = v
	}
	return nil
}

// wrote reports whether reg in bank was ever written with val.
func (b *fakeBus) wrote(bank MemBank, reg, val uint8) bool {
	for _, w := range b.writes {
		if w.bank == bank && w.reg == reg && w.val == val {
			return true
		}
	}
	return false
}
