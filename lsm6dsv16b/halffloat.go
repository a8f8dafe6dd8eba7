package lsm6dsv16b

import "math"

// halfBits converts f to IEEE 754 binary16, rounding to nearest even.
// Values too large become signed infinity; NaN stays NaN.
func halfBits(f float32) uint16 {
	b := math.Float32bits(f)
	sgn := uint16((b & 0x80000000) >> 16)
	exp := b & 0x7f800000

	if exp >= 0x47800000 {
		if exp == 0x7f800000 {
			if sig := b & 0x007fffff; sig != 0 {
				h := uint16(0x7c00 + (sig >> 13))
				if h == 0x7c00 {
					// NaN payload lost in the shift
					h++
				}
				return sgn + h
			}
		}
		return sgn + 0x7c00
	}

	if exp <= 0x38000000 {
		if exp < 0x33000000 {
			return sgn
		}
		exp >>= 23
		sig := 0x00800000 + (b & 0x007fffff)
		sig >>= 113 - exp
		if sig&0x3fff != 0x1000 || b&0x7ff != 0 {
			sig += 0x1000
		}
		// A carry out of the significand yields the smallest normal.
		return sgn + uint16(sig>>13)
	}

	hexp := uint16((exp - 0x38000000) >> 13)
	sig := b & 0x007fffff
	if sig&0x3fff != 0x1000 {
		sig += 0x1000
	}
	// A carry propagates into the exponent, up to infinity.
	return sgn + hexp + uint16(sig>>13)
}
