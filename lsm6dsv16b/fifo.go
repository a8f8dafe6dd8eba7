package lsm6dsv16b

import (
	"encoding/binary"
	"fmt"
)

// SetFIFOWatermark sets the watermark threshold, in 7-byte records.
func (d *Device) SetFIFOWatermark(wtm uint8) error {
	return d.writeField(fldWTM, wtm)
}

func (d *Device) FIFOWatermark() (uint8, error) {
	return d.readField(fldWTM)
}

// SetFIFOXLDualFSMBatch batches the dual channel accelerometer data as
// selected by the FSM.
func (d *Device) SetFIFOXLDualFSMBatch(on bool) error {
	return d.writeBool(fldXLDualCFSM, on)
}

func (d *Device) FIFOXLDualFSMBatch() (bool, error) {
	return d.readBool(fldXLDualCFSM)
}

// Compression selects how often an uncompressed record is forced into a
// compressed FIFO stream.
type Compression uint8

const (
	CompressionDisable Compression = 0
	Compression8To1    Compression = 1
	Compression16To1   Compression = 2
	Compression32To1   Compression = 3
)

func (d *Device) SetFIFOCompressAlgo(c Compression) error {
	return d.writeField(fldUncomprRate, uint8(c))
}

func (d *Device) FIFOCompressAlgo() (Compression, error) {
	v, err := d.readField(fldUncomprRate)
	return Compression(v), err
}

// SetFIFOVirtualSensODRChange stores a CFG-change record whenever a batch
// rate changes.
func (d *Device) SetFIFOVirtualSensODRChange(on bool) error {
	return d.writeBool(fldODRChgEn, on)
}

func (d *Device) FIFOVirtualSensODRChange() (bool, error) {
	return d.readBool(fldODRChgEn)
}

// SetFIFOCompressRealTime enables run time compression. The embedded
// function side of the compressor is enabled along with it.
func (d *Device) SetFIFOCompressRealTime(on bool) error {
	if err := d.writeBool(fldFIFOComprRTEn, on); err != nil {
		return err
	}
	return d.withEmbedded(func() error {
		return d.writeBool(fldFIFOComprEn, on)
	})
}

func (d *Device) FIFOCompressRealTime() (bool, error) {
	return d.readBool(fldFIFOComprRTEn)
}

func (d *Device) SetFIFOStopOnWatermark(on bool) error {
	return d.writeBool(fldStopOnWTM, on)
}

func (d *Device) FIFOStopOnWatermark() (bool, error) {
	return d.readBool(fldStopOnWTM)
}

// BDR is a FIFO batch data rate. The codes follow ODR.
type BDR uint8

const (
	BDRNotBatched BDR = BDR(ODROff)
	BDR1Hz875     BDR = BDR(ODR1Hz875)
	BDR7Hz5       BDR = BDR(ODR7Hz5)
	BDR15Hz       BDR = BDR(ODR15Hz)
	BDR30Hz       BDR = BDR(ODR30Hz)
	BDR60Hz       BDR = BDR(ODR60Hz)
	BDR120Hz      BDR = BDR(ODR120Hz)
	BDR240Hz      BDR = BDR(ODR240Hz)
	BDR480Hz      BDR = BDR(ODR480Hz)
	BDR960Hz      BDR = BDR(ODR960Hz)
	BDR1920Hz     BDR = BDR(ODR1920Hz)
	BDR3840Hz     BDR = BDR(ODR3840Hz)
	BDR7680Hz     BDR = BDR(ODR7680Hz)
)

// BDRFromHz returns the slowest batch rate at or above hz; zero and below
// disables batching.
func BDRFromHz(hz float32) BDR {
	if hz <= 0 {
		return BDRNotBatched
	}
	return BDR(XLODRFromHz(hz))
}

func (b BDR) Hz() (float32, bool) {
	return ODR(b).Hz()
}

func (d *Device) SetFIFOXLBatch(bdr BDR) error {
	return d.writeField(fldBDRXL, uint8(bdr))
}

func (d *Device) FIFOXLBatch() (BDR, error) {
	v, err := d.readField(fldBDRXL)
	return BDR(v), err
}

func (d *Device) SetFIFOGYBatch(bdr BDR) error {
	return d.writeField(fldBDRGY, uint8(bdr))
}

func (d *Device) FIFOGYBatch() (BDR, error) {
	v, err := d.readField(fldBDRGY)
	return BDR(v), err
}

type FIFOMode uint8

const (
	BypassMode         FIFOMode = 0
	FIFOOnlyMode       FIFOMode = 1
	StreamWTMToFull    FIFOMode = 2
	StreamToFIFOMode   FIFOMode = 3
	BypassToStreamMode FIFOMode = 4
	StreamMode         FIFOMode = 6
	BypassToFIFOMode   FIFOMode = 7
)

func (d *Device) SetFIFOMode(mode FIFOMode) error {
	return d.writeField(fldFIFOMode, uint8(mode))
}

func (d *Device) FIFOMode() (FIFOMode, error) {
	v, err := d.readField(fldFIFOMode)
	return FIFOMode(v), err
}

type TempBatch uint8

const (
	TempNotBatched    TempBatch = 0
	TempBatched1Hz875 TempBatch = 1
	TempBatched15Hz   TempBatch = 2
	TempBatched60Hz   TempBatch = 3
)

func (d *Device) SetFIFOTempBatch(b TempBatch) error {
	return d.writeField(fldODRTBatch, uint8(b))
}

func (d *Device) FIFOTempBatch() (TempBatch, error) {
	v, err := d.readField(fldODRTBatch)
	return TempBatch(v), err
}

// TimestampDecimation writes a timestamp record every 1, 8 or 32 batched
// records.
type TimestampDecimation uint8

const (
	TimestampNotBatched TimestampDecimation = 0
	TimestampDec1       TimestampDecimation = 1
	TimestampDec8       TimestampDecimation = 2
	TimestampDec32      TimestampDecimation = 3
)

func (d *Device) SetFIFOTimestampBatch(dec TimestampDecimation) error {
	return d.writeField(fldDecTSBatch, uint8(dec))
}

func (d *Device) FIFOTimestampBatch() (TimestampDecimation, error) {
	v, err := d.readField(fldDecTSBatch)
	return TimestampDecimation(v), err
}

// SetFIFOBatchCounterThreshold sets the 10-bit batch counter threshold.
func (d *Device) SetFIFOBatchCounterThreshold(th uint16) error {
	if err := d.writeField(fldCntBDRThH, uint8(th>>8)&0x03); err != nil {
		return err
	}
	return d.writeReg(regCounterBDR2, uint8(th))
}

func (d *Device) FIFOBatchCounterThreshold() (uint16, error) {
	var buf [2]byte
	if err := d.ReadRegs(regCounterBDR1, buf[:]); err != nil {
		return 0, err
	}
	return uint16(fldCntBDRThH.get(buf[0]))<<8 | uint16(buf[1]), nil
}

type BatchCountEvent uint8

const (
	XLBatchEvent BatchCountEvent = 0
	GYBatchEvent BatchCountEvent = 1
)

func (d *Device) SetFIFOBatchCountEvent(ev BatchCountEvent) error {
	return d.writeField(fldTrigCounterBDR, uint8(ev))
}

func (d *Device) FIFOBatchCountEvent() (BatchCountEvent, error) {
	v, err := d.readField(fldTrigCounterBDR)
	return BatchCountEvent(v), err
}

type SFLPBatch struct {
	GameRotation bool
	Gravity      bool
	Gbias        bool
}

func (d *Device) SetFIFOSFLPBatch(b SFLPBatch) error {
	return d.withEmbedded(func() error {
		return d.update(embFuncFIFOEnA, func(v uint8) uint8 {
			v = fldSFLPGameFIFOEn.set(v, b2u(b.GameRotation))
			v = fldSFLPGravFIFOEn.set(v, b2u(b.Gravity))
			return fldSFLPGbiasFIFOEn.set(v, b2u(b.Gbias))
		})
	})
}

func (d *Device) FIFOSFLPBatch() (SFLPBatch, error) {
	var b SFLPBatch
	err := d.withEmbedded(func() error {
		v, err := d.readReg(embFuncFIFOEnA)
		b.GameRotation = fldSFLPGameFIFOEn.get(v) != 0
		b.Gravity = fldSFLPGravFIFOEn.get(v) != 0
		b.Gbias = fldSFLPGbiasFIFOEn.get(v) != 0
		return err
	})
	return b, err
}

func (d *Device) SetFIFOStepCounterBatch(on bool) error {
	return d.withEmbedded(func() error {
		return d.writeBool(fldStepCntFIFOEn, on)
	})
}

func (d *Device) FIFOStepCounterBatch() (bool, error) {
	var on bool
	err := d.withEmbedded(func() (err error) {
		on, err = d.readBool(fldStepCntFIFOEn)
		return err
	})
	return on, err
}

type FIFOStatus struct {
	Level      uint16
	BDR        bool
	Full       bool
	Overrun    bool
	Watermark  bool
	OvrLatched bool
}

func (d *Device) FIFOStatus() (FIFOStatus, error) {
	var buf [2]byte
	if err := d.ReadRegs(regFIFOStatus1, buf[:]); err != nil {
		return FIFOStatus{}, fmt.Errorf("FIFO status: %w", err)
	}
	st := buf[1]
	return FIFOStatus{
		Level:      uint16(st&0x01)<<8 | uint16(buf[0]),
		OvrLatched: st&0x08 != 0,
		BDR:        st&0x10 != 0,
		Full:       st&0x20 != 0,
		Overrun:    st&0x40 != 0,
		Watermark:  st&0x80 != 0,
	}, nil
}

// Tag identifies the sensor a FIFO record came from.
type Tag uint8

const (
	TagEmpty         Tag = 0x00
	TagGYNC          Tag = 0x01
	TagXLNC          Tag = 0x02
	TagTemperature   Tag = 0x03
	TagTimestamp     Tag = 0x04
	TagCfgChange     Tag = 0x05
	TagXLNCT2        Tag = 0x06
	TagXLNCT1        Tag = 0x07
	TagXL2xC         Tag = 0x08
	TagXL3xC         Tag = 0x09
	TagGYNCT2        Tag = 0x0a
	TagGYNCT1        Tag = 0x0b
	TagGY2xC         Tag = 0x0c
	TagGY3xC         Tag = 0x0d
	TagStepCounter   Tag = 0x12
	TagGameRotation  Tag = 0x13
	TagGyroscopeBias Tag = 0x16
	TagGravity       Tag = 0x17
	TagXLDualCore    Tag = 0x1d
)

var tagNames = map[Tag]string{
	TagEmpty:         "empty",
	TagGYNC:          "gyroscope",
	TagXLNC:          "accelerometer",
	TagTemperature:   "temperature",
	TagTimestamp:     "timestamp",
	TagCfgChange:     "config change",
	TagXLNCT2:        "accelerometer t-2",
	TagXLNCT1:        "accelerometer t-1",
	TagXL2xC:         "accelerometer 2xC",
	TagXL3xC:         "accelerometer 3xC",
	TagGYNCT2:        "gyroscope t-2",
	TagGYNCT1:        "gyroscope t-1",
	TagGY2xC:         "gyroscope 2xC",
	TagGY3xC:         "gyroscope 3xC",
	TagStepCounter:   "step counter",
	TagGameRotation:  "game rotation",
	TagGyroscopeBias: "gyroscope bias",
	TagGravity:       "gravity",
	TagXLDualCore:    "accelerometer dual core",
}

func (t Tag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return fmt.Sprintf("tag %#02x", uint8(t))
}

// FIFORecord is one 7-byte FIFO entry.
type FIFORecord struct {
	Tag  Tag
	Cnt  uint8
	Data [6]byte
}

// Axes interprets the record data as three little endian int16.
func (r FIFORecord) Axes() [3]int16 {
	var v [3]int16
	for i := range v {
		v[i] = int16(binary.LittleEndian.Uint16(r.Data[2*i:]))
	}
	return v
}

// decodeTag extracts the tag from a FIFO_DATA_OUT_TAG value. Unknown tags
// read as TagEmpty.
func decodeTag(b byte) Tag {
	t := Tag(b >> 3)
	if _, ok := tagNames[t]; !ok {
		return TagEmpty
	}
	return t
}

// FIFOOutRaw pops one record. Unknown tags read as TagEmpty.
func (d *Device) FIFOOutRaw() (FIFORecord, error) {
	var buf [7]byte
	if err := d.ReadRegs(regFIFODataOutTag, buf[:]); err != nil {
		return FIFORecord{}, fmt.Errorf("FIFO out: %w", err)
	}
	rec := FIFORecord{
		Tag: decodeTag(buf[0]),
		Cnt: (buf[0] >> 1) & 0x03,
	}
	copy(rec.Data[:], buf[1:])
	return rec, nil
}
