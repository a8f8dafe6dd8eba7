package lsm6dsv16b

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	pollInterval = 100 * time.Microsecond
	pollAttempts = 10000
)

// gbiasScale is the SFLP gyroscope bias scale factor per output rate.
var gbiasScale = map[SFLPRate]float32{
	SFLP15Hz:  0.04,
	SFLP30Hz:  0.02,
	SFLP60Hz:  0.01,
	SFLP120Hz: 0.005,
	SFLP240Hz: 0.0025,
	SFLP480Hz: 0.00125,
}

// SFLPGameGbias injects a gyroscope bias, in dps, into the sensor fusion
// block. The accelerometer is started at 120 Hz if it was powered down
// and the previous rates and modes are restored afterwards.
func (d *Device) SFLPGameGbias(ctx context.Context, x, y, z float32) (err error) {
	rate, err := d.SFLPDataRate()
	if err != nil {
		return fmt.Errorf("gbias: %w", err)
	}
	k, ok := gbiasScale[rate]
	if !ok {
		k = 0.005
	}
	var hf [6]byte
	for i, v := range [...]float32{x, y, z} {
		binary.LittleEndian.PutUint16(hf[2*i:], halfBits(v*(math.Pi/180)/k))
	}

	var saved [2]byte
	if err := d.ReadRegs(regCtrl1, saved[:]); err != nil {
		return fmt.Errorf("gbias: %w", err)
	}
	defer func() {
		if rerr := d.WriteRegs(regCtrl1, saved[:]); rerr != nil {
			err = errors.Join(err, fmt.Errorf("gbias restore: %w", rerr))
			return
		}
		if rerr := d.writeBool(fldEmbFuncDebug, false); rerr != nil {
			err = errors.Join(err, fmt.Errorf("gbias restore: %w", rerr))
		}
	}()

	if err := d.gbiasSequence(ctx, saved[0], hf[:]); err != nil {
		return fmt.Errorf("gbias: %w", err)
	}
	return nil
}

func (d *Device) gbiasSequence(ctx context.Context, ctrl1 uint8, hf []byte) error {
	if err := d.SetXLMode(XLHighPerformance); err != nil {
		return err
	}
	if err := d.SetGYMode(GYHighPerformance); err != nil {
		return err
	}
	if ODR(fldODRXL.get(ctrl1)) == ODROff {
		if err := d.SetXLDataRate(ODR120Hz); err != nil {
			return err
		}
	}

	// Stop the algorithms while the bias is written.
	var enabled [2]byte
	err := d.withEmbedded(func() error {
		if err := d.ReadRegs(embFuncEnA, enabled[:]); err != nil {
			return err
		}
		if err := d.WriteRegs(embFuncEnA, []byte{0, 0}); err != nil {
			return err
		}
		return d.waitEndOp(ctx)
	})
	if err != nil {
		return fmt.Errorf("disable embedded functions: %w", err)
	}

	if err := d.writeBool(fldEmbFuncDebug, true); err != nil {
		return err
	}

	enabled[0] |= 0x02 // SFLP game rotation
	err = d.withEmbedded(func() error {
		return d.WriteRegs(embFuncEnA, enabled[:])
	})
	if err != nil {
		return fmt.Errorf("enable embedded functions: %w", err)
	}

	fs, err := d.XLFullScale()
	if err != nil {
		return err
	}
	xl, err := d.waitAcceleration(ctx)
	if err != nil {
		return err
	}

	// Seed the SFLP initialization with the current acceleration.
	err = d.withSensorHub(func() error {
		var buf [4]byte
		for i, v := range xl {
			binary.LittleEndian.PutUint32(buf[:], uint32(int32(v)<<fs))
			if err := d.WriteRegs(uint8(0x02+3*i), buf[:3]); err != nil {
				return err
			}
		}
		for i := range xl {
			if err := d.WriteRegs(uint8(0x0b+3*i), []byte{0, 0, 0}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("SFLP seed: %w", err)
	}

	d.sleep(time.Millisecond)
	if err := d.withEmbedded(func() error { return d.waitEndOp(ctx) }); err != nil {
		return fmt.Errorf("SFLP init: %w", err)
	}

	return d.PageWrite(pgSFLPGameGbiasXL, hf)
}

func (d *Device) waitEndOp(ctx context.Context) error {
	return d.poll(ctx, func() (bool, error) {
		return d.readBool(fldEmbFuncEndOp)
	})
}

func (d *Device) waitAcceleration(ctx context.Context) ([3]int16, error) {
	err := d.poll(ctx, func() (bool, error) {
		rdy, err := d.DataReady()
		return rdy.XL, err
	})
	if err != nil {
		return [3]int16{}, fmt.Errorf("wait for acceleration: %w", err)
	}
	return d.AccelerationRaw()
}

// poll calls done until it reports true, the context is cancelled or the
// attempts run out.
func (d *Device) poll(ctx context.Context, done func() (bool, error)) error {
	for i := 0; i < pollAttempts; i++ {
		ok, err := done()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		d.sleep(pollInterval)
	}
	return ErrTimeout
}
