package lsm6dsv16b

import (
	"fmt"

	"github.com/calmh/imupi/i2c"
)

// INTx_CTRL bits
const (
	intDRDYXL     = 1 << 0
	intDRDYG      = 1 << 1
	intFIFOTh     = 1 << 3
	intFIFOOvr    = 1 << 4
	intFIFOFull   = 1 << 5
	intCntBDR     = 1 << 6
	int2EmbFuncOp = 1 << 7
)

// MDx_CFG bits
const (
	md2Timestamp   = 1 << 0
	mdEmbFunc      = 1 << 1
	md6D           = 1 << 2
	mdDoubleTap    = 1 << 3
	mdFreeFall     = 1 << 4
	mdWakeUp       = 1 << 5
	mdSingleTap    = 1 << 6
	mdSleepChange  = 1 << 7
	mdEventsRouted = md6D | mdDoubleTap | mdFreeFall | mdWakeUp | mdSingleTap | mdSleepChange
)

// EMB_FUNC_INTx, EMB_FUNC_STATUS bits
const (
	embStep   = 1 << 3
	embTilt   = 1 << 4
	embSigMot = 1 << 5
	embFSMLC  = 1 << 7
)

// Route selects the signals driven on an interrupt pin. FSM holds one bit
// per state machine program, program 1 in bit 0.
type Route struct {
	DRDYXL            bool
	DRDYGY            bool
	DRDYTemp          bool // INT2 only
	FIFOTh            bool
	FIFOOvr           bool
	FIFOFull          bool
	FIFOBDR           bool
	Timestamp         bool
	SixD              bool
	DoubleTap         bool
	FreeFall          bool
	WakeUp            bool
	SingleTap         bool
	SleepChange       bool
	SleepStatus       bool
	StepDetector      bool
	StepCountOverflow bool
	Tilt              bool
	SigMot            bool
	EmbFuncStandBy    bool
	FSMLC             bool
	FSM               uint8
}

func (r Route) ctrlBits() uint8 {
	var v uint8
	v |= bit(r.DRDYXL, intDRDYXL)
	v |= bit(r.DRDYGY, intDRDYG)
	v |= bit(r.FIFOTh, intFIFOTh)
	v |= bit(r.FIFOOvr, intFIFOOvr)
	v |= bit(r.FIFOFull, intFIFOFull)
	v |= bit(r.FIFOBDR, intCntBDR)
	return v
}

func (r Route) embBits() uint8 {
	return bit(r.StepDetector, embStep) | bit(r.Tilt, embTilt) | bit(r.SigMot, embSigMot) | bit(r.FSMLC, embFSMLC)
}

// mdBits returns the MDx_CFG event bits, except emb_func and timestamp.
func (r Route) mdBits() uint8 {
	var v uint8
	v |= bit(r.SixD, md6D)
	v |= bit(r.DoubleTap, mdDoubleTap)
	v |= bit(r.FreeFall, mdFreeFall)
	v |= bit(r.WakeUp, mdWakeUp)
	v |= bit(r.SingleTap, mdSingleTap)
	v |= bit(r.SleepChange || r.SleepStatus, mdSleepChange)
	return v
}

// events reports whether any basic event detector is routed.
func (r Route) events() bool {
	return r.mdBits() != 0
}

func (r *Route) setCtrl(v uint8) {
	r.DRDYXL = v&intDRDYXL != 0
	r.DRDYGY = v&intDRDYG != 0
	r.FIFOTh = v&intFIFOTh != 0
	r.FIFOOvr = v&intFIFOOvr != 0
	r.FIFOFull = v&intFIFOFull != 0
	r.FIFOBDR = v&intCntBDR != 0
}

func (r *Route) setMD(v uint8) {
	r.SixD = v&md6D != 0
	r.DoubleTap = v&mdDoubleTap != 0
	r.FreeFall = v&mdFreeFall != 0
	r.WakeUp = v&mdWakeUp != 0
	r.SingleTap = v&mdSingleTap != 0
	r.SleepChange = v&mdSleepChange != 0
}

func (r *Route) setEmb(v uint8) {
	r.StepDetector = v&embStep != 0
	r.Tilt = v&embTilt != 0
	r.SigMot = v&embSigMot != 0
	r.FSMLC = v&embFSMLC != 0
}

func bit(on bool, mask uint8) uint8 {
	if on {
		return mask
	}
	return 0
}

type pin struct {
	name    string
	ctrl    uint8
	md      uint8
	embInt  uint8
	fsmInt  uint8
	ctrlMsk uint8
}

var (
	pin1 = pin{"INT1", regInt1Ctrl, regMD1Cfg, embFuncInt1, embFSMInt1, 0x7b}
	pin2 = pin{"INT2", regInt2Ctrl, regMD2Cfg, embFuncInt2, embFSMInt2, 0xfb}
)

// routeEmbedded writes the embedded function routes of a pin and reports
// whether any of them is set.
func (d *Device) routeEmbedded(p pin, r Route) (routed bool, err error) {
	err = d.withEmbedded(func() error {
		emb := r.embBits()
		if err := d.update(p.embInt, func(v uint8) uint8 {
			return v&^(embStep|embTilt|embSigMot|embFSMLC) | emb
		}); err != nil {
			return err
		}
		routed = emb != 0 || r.FSM != 0
		return d.writeReg(p.fsmInt, r.FSM)
	})
	if err != nil {
		return false, fmt.Errorf("%s embedded route: %w", p.name, err)
	}
	return routed, nil
}

func (d *Device) SetPinInt1Route(r Route) error {
	emb, err := d.routeEmbedded(pin1, r)
	if err != nil {
		return err
	}
	// Timestamp and embedded end-of-operation only exist on INT2; they
	// reach INT1 through int2_on_int1.
	if err := d.writeBool(fldInt2OnInt1, r.EmbFuncStandBy || r.Timestamp); err != nil {
		return err
	}
	if err := d.update(regInt2Ctrl, func(v uint8) uint8 {
		return v&^int2EmbFuncOp | bit(r.EmbFuncStandBy, int2EmbFuncOp)
	}); err != nil {
		return err
	}
	if err := d.update(regMD2Cfg, func(v uint8) uint8 {
		return v&^md2Timestamp | bit(r.Timestamp, md2Timestamp)
	}); err != nil {
		return err
	}
	return d.finishRoute(pin1, r, emb, d.PinInt2Route)
}

func (d *Device) SetPinInt2Route(r Route) error {
	emb, err := d.routeEmbedded(pin2, r)
	if err != nil {
		return err
	}
	if r.EmbFuncStandBy || r.Timestamp {
		if err := d.writeBool(fldInt2OnInt1, false); err != nil {
			return err
		}
	}
	if err := d.writeBool(fldInt2DRDYTemp, r.DRDYTemp); err != nil {
		return err
	}
	if err := d.update(regMD2Cfg, func(v uint8) uint8 {
		return v&^md2Timestamp | bit(r.Timestamp, md2Timestamp)
	}); err != nil {
		return err
	}
	return d.finishRoute(pin2, r, emb, d.PinInt1Route)
}

// finishRoute writes the parts common to both pins and updates the global
// interrupt enable from the routes of this pin and the other one.
func (d *Device) finishRoute(p pin, r Route, emb bool, other func() (Route, error)) error {
	if err := d.writeBool(fldSleepStatusInt, r.SleepStatus); err != nil {
		return err
	}

	ctrl := r.ctrlBits()
	if p == pin2 {
		ctrl |= bit(r.EmbFuncStandBy, int2EmbFuncOp)
	}
	if err := d.update(p.ctrl, func(v uint8) uint8 {
		return v&^p.ctrlMsk | ctrl
	}); err != nil {
		return err
	}

	md := r.mdBits() | bit(emb, mdEmbFunc)
	if err := d.update(p.md, func(v uint8) uint8 {
		return v&md2Timestamp | md
	}); err != nil {
		return err
	}

	if err := d.pageUpdate(pgPedoCmdReg, func(v uint8) uint8 {
		return v&^pedoCarryCountEn | bit(r.StepCountOverflow, pedoCarryCountEn)
	}); err != nil {
		return fmt.Errorf("%s step count overflow route: %w", p.name, err)
	}

	o, err := other()
	if err != nil {
		return err
	}
	return d.writeBool(fldInterruptsEn, r.events() || o.events())
}

func (d *Device) PinInt1Route() (Route, error) {
	var r Route
	ctrl4, err := d.readReg(regCtrl4)
	if err != nil {
		return r, err
	}
	if fldInt2OnInt1.get(ctrl4) != 0 {
		int2, err := d.readReg(regInt2Ctrl)
		if err != nil {
			return r, err
		}
		md2, err := d.readReg(regMD2Cfg)
		if err != nil {
			return r, err
		}
		r.EmbFuncStandBy = int2&int2EmbFuncOp != 0
		r.Timestamp = md2&md2Timestamp != 0
	}
	return r, d.readRoute(pin1, &r)
}

func (d *Device) PinInt2Route() (Route, error) {
	var r Route
	ctrl4, err := d.readReg(regCtrl4)
	if err != nil {
		return r, err
	}
	r.DRDYTemp = fldInt2DRDYTemp.get(ctrl4) != 0
	if err := d.readRoute(pin2, &r); err != nil {
		return r, err
	}
	int2, err := d.readReg(regInt2Ctrl)
	if err != nil {
		return r, err
	}
	md2, err := d.readReg(regMD2Cfg)
	if err != nil {
		return r, err
	}
	r.EmbFuncStandBy = int2&int2EmbFuncOp != 0
	r.Timestamp = md2&md2Timestamp != 0
	return r, nil
}

func (d *Device) readRoute(p pin, r *Route) error {
	rd := i2c.NewReader(d.bus)
	dur := rd.Byte(regInactivityDur)
	ctrl := rd.Byte(p.ctrl)
	md := rd.Byte(p.md)
	if err := rd.Error(); err != nil {
		return fmt.Errorf("%s route: %w", p.name, err)
	}
	r.SleepStatus = fldSleepStatusInt.get(uint8(dur)) != 0
	r.setCtrl(uint8(ctrl))
	r.setMD(uint8(md))

	err := d.withEmbedded(func() error {
		emb, err := d.readReg(p.embInt)
		if err != nil {
			return err
		}
		r.setEmb(emb)
		r.FSM, err = d.readReg(p.fsmInt)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s embedded route: %w", p.name, err)
	}

	pedo, err := d.pageReadByte(pgPedoCmdReg)
	if err != nil {
		return fmt.Errorf("%s step count overflow route: %w", p.name, err)
	}
	r.StepCountOverflow = pedo&pedoCarryCountEn != 0
	return nil
}

// Notification selects pulsed or latched interrupts, separately for the
// basic and the embedded functions.
type Notification uint8

const (
	AllIntPulsed         Notification = 0
	BaseLatchedEmbPulsed Notification = 1
	BasePulsedEmbLatched Notification = 2
	AllIntLatched        Notification = 3
)

func (d *Device) SetIntNotification(n Notification) error {
	if err := d.writeField(fldLIR, uint8(n&0x01)); err != nil {
		return err
	}
	return d.withEmbedded(func() error {
		return d.writeField(fldEmbFuncLIR, uint8(n&0x02)>>1)
	})
}

func (d *Device) IntNotification() (Notification, error) {
	lir, err := d.readField(fldLIR)
	if err != nil {
		return 0, err
	}
	var emb uint8
	err = d.withEmbedded(func() error {
		emb, err = d.readField(fldEmbFuncLIR)
		return err
	})
	return Notification(emb<<1 | lir), err
}

// Sources is a snapshot of every interrupt and status source.
type Sources struct {
	DRDYXL, DRDYGY, DRDYTemp  bool
	Timestamp                 bool
	FreeFall                  bool
	WakeUp                    bool
	WakeUpX, WakeUpY, WakeUpZ bool
	SingleTap, DoubleTap      bool
	TapX, TapY, TapZ          bool
	TapSign                   bool
	SixD                      bool
	SixDXL, SixDXH            bool
	SixDYL, SixDYH            bool
	SixDZL, SixDZH            bool
	SleepChange, SleepState   bool
	StepDetector              bool
	StepCountInc              bool
	StepCountOverflow         bool
	StepOnDeltaTime           bool
	EmbFuncStandBy            bool
	EmbFuncTimeExceed         bool
	Tilt, SigMot              bool
	FSMLC                     bool
	FSM                       uint8
	FIFOBDR                   bool
	FIFOFull                  bool
	FIFOOvr                   bool
	FIFOTh                    bool
}

// AllSources reads every status register in one go. Latched interrupts
// are not cleared by the first block read.
func (d *Device) AllSources() (Sources, error) {
	var s Sources
	if err := d.writeBool(fldDisRstLIRAll, true); err != nil {
		return s, err
	}

	r := i2c.NewReader(d.bus)
	buf := r.Block(regFIFOStatus1, 4)
	if err := r.Error(); err != nil {
		return s, fmt.Errorf("all sources: %w", err)
	}
	fifo, src, status := buf[1], buf[2], buf[3]
	s.FIFOBDR = fifo&0x10 != 0
	s.FIFOFull = fifo&0x20 != 0
	s.FIFOOvr = fifo&0x40 != 0
	s.FIFOTh = fifo&0x80 != 0
	s.FreeFall = src&0x01 != 0
	s.WakeUp = src&0x02 != 0
	s.SixD = src&0x10 != 0
	s.DRDYXL = status&0x01 != 0
	s.DRDYGY = status&0x02 != 0
	s.DRDYTemp = status&0x04 != 0
	s.Timestamp = status&0x80 != 0

	if err := d.writeBool(fldDisRstLIRAll, false); err != nil {
		return s, err
	}

	buf = r.Block(regWakeUpSrc, 7)
	if err := r.Error(); err != nil {
		return s, fmt.Errorf("all sources: %w", err)
	}
	wu, tap, d6d, emb := buf[0], buf[1], buf[2], buf[4]
	s.WakeUpX = wu&0x01 != 0
	s.WakeUpY = wu&0x02 != 0
	s.WakeUpZ = wu&0x04 != 0
	s.SleepState = wu&0x10 != 0
	s.SleepChange = wu&0x40 != 0
	s.TapX = tap&0x01 != 0
	s.TapY = tap&0x02 != 0
	s.TapZ = tap&0x04 != 0
	s.TapSign = tap&0x08 != 0
	s.DoubleTap = tap&0x20 != 0
	s.SingleTap = tap&0x40 != 0
	s.SixDZL = d6d&0x01 != 0
	s.SixDZH = d6d&0x02 != 0
	s.SixDYL = d6d&0x04 != 0
	s.SixDYH = d6d&0x08 != 0
	s.SixDXL = d6d&0x10 != 0
	s.SixDXH = d6d&0x20 != 0
	s.StepDetector = emb&embStep != 0
	s.Tilt = emb&embTilt != 0
	s.SigMot = emb&embSigMot != 0
	s.FSMLC = emb&embFSMLC != 0
	s.FSM = buf[5]

	err := d.withEmbedded(func() error {
		exec, err := d.readReg(embFuncExecStatus)
		if err != nil {
			return err
		}
		src, err := d.readReg(embFuncSrc)
		if err != nil {
			return err
		}
		s.EmbFuncStandBy = fldEmbFuncEndOp.get(exec) != 0
		s.EmbFuncTimeExceed = fldEmbFuncExecOvr.get(exec) != 0
		s.StepCountInc = src&0x04 != 0
		s.StepCountOverflow = src&0x08 != 0
		s.StepOnDeltaTime = src&0x10 != 0
		s.StepDetector = src&0x20 != 0
		return nil
	})
	if err != nil {
		return s, fmt.Errorf("all sources: %w", err)
	}
	return s, nil
}
