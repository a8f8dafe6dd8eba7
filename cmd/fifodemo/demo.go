package main

import (
	"fmt"
	"io"
	"time"

	"github.com/calmh/imupi/iks4a1"
	"github.com/calmh/imupi/lsm6dsv16b"
)

const (
	sampleODR     = 15   // Hz
	fifoBDR       = 7680 // Hz
	fifoWatermark = 31
	sampleListMax = 10
)

type state int

const (
	stateIdle state = iota
	stateSetContinuous
	stateRun
	stateDownload
	stateSetBypass
)

// demo fills the FIFO with gyroscope samples in continuous mode and
// prints them each time it is full.
type demo struct {
	b     *iks4a1.Board
	inst  int
	out   io.Writer
	state state

	// event reports the FIFO full interrupt.
	event func() (bool, error)
	sleep func(time.Duration)

	prevSamples uint16
}

func newDemo(b *iks4a1.Board, inst int, out io.Writer, event func() (bool, error)) *demo {
	return &demo{
		b:     b,
		inst:  inst,
		out:   out,
		state: stateSetBypass,
		event: event,
		sleep: time.Sleep,
	}
}

func (d *demo) config() error {
	if err := d.b.MotionSetOutputDataRate(d.inst, iks4a1.MotionGyro, sampleODR); err != nil {
		return fmt.Errorf("set gyroscope ODR: %w", err)
	}
	if err := d.b.FIFOSetBDR(d.inst, iks4a1.MotionGyro, fifoBDR); err != nil {
		return fmt.Errorf("set FIFO BDR: %w", err)
	}
	if err := d.b.FIFOSetIntFIFOFull(d.inst, iks4a1.Int1, true); err != nil {
		return fmt.Errorf("route FIFO full to INT1: %w", err)
	}
	if err := d.b.FIFOSetWatermarkLevel(d.inst, fifoWatermark); err != nil {
		return fmt.Errorf("set FIFO watermark: %w", err)
	}
	if err := d.b.FIFOSetStopOnFth(d.inst, true); err != nil {
		return fmt.Errorf("set FIFO stop on watermark: %w", err)
	}
	fmt.Fprint(d.out, "\r\n------ LSM6DSV16B FIFO Continuous Mode DEMO ------\r\n")
	return nil
}

// button starts a stopped demo and stops a running one. Presses in the
// transitional states are ignored.
func (d *demo) button() {
	switch d.state {
	case stateIdle:
		d.state = stateSetContinuous
	case stateRun:
		d.state = stateSetBypass
	}
}

func (d *demo) step() error {
	switch d.state {
	case stateSetContinuous:
		if err := d.setContinuous(); err != nil {
			return err
		}
		d.state = stateRun

	case stateRun:
		n, err := d.b.FIFONumSamples(d.inst)
		if err != nil {
			return err
		}
		if n != d.prevSamples {
			d.prevSamples = n
			fmt.Fprint(d.out, ".")
		}
		ev, err := d.event()
		if err != nil {
			return err
		}
		if ev {
			d.state = stateDownload
		}

	case stateDownload:
		full, err := d.b.FIFOFullStatus(d.inst)
		if err != nil {
			return err
		}
		if full {
			if err := d.download(); err != nil {
				return err
			}
			d.state = stateRun
		}

	case stateSetBypass:
		if err := d.setBypass(); err != nil {
			return err
		}
		d.prevSamples = 0
		d.state = stateIdle
	}
	return nil
}

func (d *demo) setBypass() error {
	if err := d.b.FIFOSetMode(d.inst, uint8(lsm6dsv16b.BypassMode)); err != nil {
		return fmt.Errorf("set bypass mode: %w", err)
	}
	fmt.Fprint(d.out, "\r\nFIFO is stopped in Bypass mode.\r\n")
	fmt.Fprint(d.out, "\r\nPress USER button to start the DEMO...\r\n")
	return nil
}

func (d *demo) setContinuous() error {
	fmt.Fprint(d.out, "\r\nLSM6DSV16B starts to store the data into FIFO...\r\n\r\n")
	d.sleep(time.Second)
	if err := d.b.FIFOSetMode(d.inst, uint8(lsm6dsv16b.StreamMode)); err != nil {
		return fmt.Errorf("set continuous mode: %w", err)
	}
	return nil
}

// download reads every sample in the FIFO and prints the first few.
func (d *demo) download() error {
	n, err := d.b.FIFONumSamples(d.inst)
	if err != nil {
		return err
	}
	fmt.Fprintf(d.out, "\r\n\r\n%d samples in FIFO.\r\n\r\nStarted downloading data from FIFO...\r\n\r\n", n)
	fmt.Fprint(d.out, "[DATA ##]     GYR_X     GYR_Y     GYR_Z\r\n")
	for i := 0; i < int(n); i++ {
		axes, err := d.b.FIFOAxes(d.inst, iks4a1.MotionGyro)
		if err != nil {
			return fmt.Errorf("read FIFO sample %d: %w", i, err)
		}
		if i < sampleListMax {
			fmt.Fprintf(d.out, "[DATA %02d]  %8d  %8d  %8d\r\n", i+1, axes.X, axes.Y, axes.Z)
		}
	}
	if n > sampleListMax {
		fmt.Fprintf(d.out, "\r\nSample list limited to: %d\r\n\r\n", sampleListMax)
	}
	return nil
}
