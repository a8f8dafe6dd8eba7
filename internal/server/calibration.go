package server

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/calmh/imupi/iks4a1"
	"github.com/calmh/imupi/sensehat"
)

// Calibration is persisted between runs. Gbias is the gyroscope zero rate
// offset in dps, fed to the sensor fusion block at start.
type Calibration struct {
	Gbias        [3]float32           `json:"gbias_dps"`
	Magnetometer sensehat.Calibration `json:"magnetometer"`
}

var errNoSamples = errors.New("no gyroscope samples")

func saveCalibration(file string, cal Calibration) error {
	fd, err := os.Create(file)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(fd)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&cal); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}

func loadCalibration(file string) Calibration {
	fd, err := os.Open(file)
	if err != nil {
		return Calibration{}
	}
	defer fd.Close()

	var cal Calibration
	dec := json.NewDecoder(fd)
	if err := dec.Decode(&cal); err != nil {
		return Calibration{}
	}

	return cal
}

// measureGbias averages n gyroscope readings taken intv apart while the
// sensor is at rest.
func measureGbias(ctx context.Context, read func() (iks4a1.Axes, error), n int, intv time.Duration) ([3]float32, error) {
	var sum [3]int64
	got := 0
	t := time.NewTicker(intv)
	defer t.Stop()
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return [3]float32{}, ctx.Err()
		case <-t.C:
		}
		axes, err := read()
		if err != nil {
			continue
		}
		sum[0] += int64(axes.X)
		sum[1] += int64(axes.Y)
		sum[2] += int64(axes.Z)
		got++
	}
	if got == 0 {
		return [3]float32{}, errNoSamples
	}
	var res [3]float32
	for i := range sum {
		// mdps to dps
		res[i] = float32(sum[i]) / float32(got) / 1000
	}
	return res, nil
}
