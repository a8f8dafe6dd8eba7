package server

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/calmh/imupi/iks4a1"
	log "github.com/sirupsen/logrus"
)

// AvgIMU keeps a moving window of accelerometer readings and the tilt
// angles derived from them.
type AvgIMU struct {
	read   func() (iks4a1.Axes, error)
	intv   time.Duration
	mut    sync.Mutex
	accel  [][3]int32
	angles [][3]float64
}

func NewAvgIMU(total, intv time.Duration, read func() (iks4a1.Axes, error)) *AvgIMU {
	size := int(total / intv)
	if size < 1 {
		size = 1
	}
	return &AvgIMU{
		read:   read,
		intv:   intv,
		accel:  make([][3]int32, 0, size),
		angles: make([][3]float64, 0, size),
	}
}

func (a *AvgIMU) Serve(ctx context.Context) {
	t := time.NewTicker(a.intv)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		axes, err := a.read()
		if err != nil {
			log.Debugln("read acceleration:", err)
			continue
		}
		a.update(axes.X, axes.Y, axes.Z)
	}
}

func (a *AvgIMU) update(x, y, z int32) {
	a.mut.Lock()
	defer a.mut.Unlock()
	xy := angle(float64(y), float64(x))
	xz := angle(float64(z), float64(x))
	yz := angle(float64(z), float64(y))
	if len(a.accel) < cap(a.accel) {
		a.accel = append(a.accel, [3]int32{x, y, z})
		a.angles = append(a.angles, [3]float64{xy, xz, yz})
	} else {
		copy(a.accel, a.accel[1:])
		copy(a.angles, a.angles[1:])
		a.accel[len(a.accel)-1] = [3]int32{x, y, z}
		a.angles[len(a.angles)-1] = [3]float64{xy, xz, yz}
	}
}

// Acceleration returns the latest reading, in mg.
func (a *AvgIMU) Acceleration() [3]int32 {
	a.mut.Lock()
	defer a.mut.Unlock()
	if len(a.accel) == 0 {
		return [3]int32{}
	}
	return a.accel[len(a.accel)-1]
}

// AccelAngles returns the median angles over the window, in degrees.
func (a *AvgIMU) AccelAngles() (xy, xz, yz float64) {
	a.mut.Lock()
	defer a.mut.Unlock()
	if len(a.angles) == 0 {
		return 0, 0, 0
	}
	var med [3]float64
	vals := make([]float64, len(a.angles))
	for p := range med {
		for i := range a.angles {
			vals[i] = a.angles[i][p]
		}
		sort.Float64s(vals)
		med[p] = vals[len(vals)/2]
	}
	return med[0], med[1], med[2]
}

// Deviation returns the spread of the angles over the window.
func (a *AvgIMU) Deviation() (xy, xz, yz float64) {
	a.mut.Lock()
	defer a.mut.Unlock()
	if len(a.angles) == 0 {
		return 0, 0, 0
	}
	lo, hi := a.angles[0], a.angles[0]
	for _, v := range a.angles[1:] {
		for p := range v {
			if v[p] < lo[p] {
				lo[p] = v[p]
			}
			if v[p] > hi[p] {
				hi[p] = v[p]
			}
		}
	}
	return hi[0] - lo[0], hi[1] - lo[1], hi[2] - lo[2]
}

func angle(y, x float64) float64 {
	v := math.Atan2(y, x) / math.Pi * 180
	for v > 180 {
		v -= 360
	}
	for v < -180 {
		v += 360
	}
	return v
}

func round(x float64, prec int) float64 {
	pow := math.Pow10(prec)
	return math.Round(x*pow) / pow
}
