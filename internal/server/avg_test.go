package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/calmh/imupi/iks4a1"
)

func TestAngle(t *testing.T) {
	cases := []struct {
		y, x  float64
		angle float64
	}{
		{0, 1, 0},
		{1, 1, 45},
		{1, 0, 90},
		{0, -1, 180},
		{-1, -1, -135},
		{-1, 0, -90},
	}

	for _, tc := range cases {
		if a := round(angle(tc.y, tc.x), 6); a != tc.angle {
			t.Errorf("%v != expected %v for %v", a, tc.angle, tc)
		}
	}
}

func TestRound(t *testing.T) {
	cases := []struct {
		x    float64
		prec int
		res  float64
	}{
		{1.2345, 2, 1.23},
		{2.5, 0, 3},
		{-2.5, 0, -3},
	}

	for _, tc := range cases {
		if r := round(tc.x, tc.prec); r != tc.res {
			t.Errorf("%v != expected %v for %v", r, tc.res, tc)
		}
	}
}

func TestAvgIMUWindow(t *testing.T) {
	a := NewAvgIMU(3*time.Second, time.Second, nil)

	if acc := a.Acceleration(); acc != [3]int32{} {
		t.Errorf("%v != expected zero before first sample", acc)
	}

	// XY angles 0, 90, 45, 45, 45; the first two fall out of the window.
	a.update(1000, 0, 0)
	a.update(0, 1000, 0)
	a.update(1000, 1000, 0)
	xy, _, _ := a.AccelAngles()
	if xy != 45 {
		t.Errorf("%v != expected median 45", xy)
	}
	dxy, _, _ := a.Deviation()
	if dxy != 90 {
		t.Errorf("%v != expected deviation 90", dxy)
	}

	a.update(1000, 1000, 0)
	a.update(1000, 1000, 0)
	dxy, _, _ = a.Deviation()
	if dxy != 0 {
		t.Errorf("%v != expected deviation 0 once the window has moved", dxy)
	}
	if acc := a.Acceleration(); acc != [3]int32{1000, 1000, 0} {
		t.Errorf("%v != expected latest sample", acc)
	}
}

func TestAvgIMUServe(t *testing.T) {
	reads := 0
	read := func() (iks4a1.Axes, error) {
		reads++
		if reads == 1 {
			return iks4a1.Axes{}, errors.New("first read fails")
		}
		return iks4a1.Axes{X: 0, Y: 0, Z: 1000}, nil
	}
	a := NewAvgIMU(time.Second, time.Millisecond, read)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Serve(ctx)
		close(done)
	}()

	deadline := time.Now().Add(5 * time.Second)
	for a.Acceleration() != [3]int32{0, 0, 1000} {
		if time.Now().After(deadline) {
			t.Fatal("no sample recorded")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	<-done

	_, xz, yz := a.AccelAngles()
	if xz != 90 || yz != 90 {
		t.Errorf("%v, %v != expected 90, 90", xz, yz)
	}
}
