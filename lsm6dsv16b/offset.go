package lsm6dsv16b

// SetXLOffsetOnOut applies the user offsets to the output registers, not
// only to the wake-up function.
func (d *Device) SetXLOffsetOnOut(on bool) error {
	return d.writeBool(fldUsrOffOnOut, on)
}

func (d *Device) XLOffsetOnOut() (bool, error) {
	return d.readBool(fldUsrOffOnOut)
}

// XLOffset is the accelerometer user offset per axis, in g.
type XLOffset struct {
	X, Y, Z float32
}

const (
	offsetFineWeight   = 0.0078125
	offsetCoarseWeight = 0.125
)

func (o XLOffset) within(weight float32) bool {
	lim := weight * 127
	for _, v := range [...]float32{o.X, o.Y, o.Z} {
		if v >= lim || v <= -lim {
			return false
		}
	}
	return true
}

// SetXLOffset writes the user offsets with the finest weight that holds
// all three axes. Offsets beyond the coarse range are written as -1 LSB
// at the coarse weight.
func (d *Device) SetXLOffset(o XLOffset) error {
	var regs [3]uint8 // z, y, x
	var coarse bool
	switch {
	case o.within(offsetFineWeight):
		regs = [3]uint8{offsetReg(o.Z, offsetFineWeight), offsetReg(o.Y, offsetFineWeight), offsetReg(o.X, offsetFineWeight)}
	case o.within(offsetCoarseWeight):
		coarse = true
		regs = [3]uint8{offsetReg(o.Z, offsetCoarseWeight), offsetReg(o.Y, offsetCoarseWeight), offsetReg(o.X, offsetCoarseWeight)}
	default:
		coarse = true
		regs = [3]uint8{0xff, 0xff, 0xff}
	}

	for i, reg := range [...]uint8{regZOfsUsr, regYOfsUsr, regXOfsUsr} {
		if err := d.writeReg(reg, regs[i]); err != nil {
			return err
		}
	}
	return d.writeBool(fldUsrOffW, coarse)
}

func offsetReg(v, weight float32) uint8 {
	return uint8(int8(v / weight))
}

func (d *Device) XLOffset() (XLOffset, error) {
	var o XLOffset
	coarse, err := d.readBool(fldUsrOffW)
	if err != nil {
		return o, err
	}
	var buf [3]byte
	if err := d.ReadRegs(regZOfsUsr, buf[:]); err != nil {
		return o, err
	}
	weight := float32(offsetFineWeight)
	if coarse {
		weight = offsetCoarseWeight
	}
	o.Z = float32(int8(buf[0])) * weight
	o.Y = float32(int8(buf[1])) * weight
	o.X = float32(int8(buf[2])) * weight
	return o, nil
}
