package main

import (
	"errors"
	"io"
	"testing"

	"github.com/calmh/imupi/i2c"
)

// zeroBus reads zeros, so the identity check fails.
type zeroBus struct{}

func (zeroBus) ReadRegs(reg uint8, buf []byte) error {
	for i := range buf {
		buf[i] = 0
	}
	return nil
}

func (zeroBus) WriteRegs(reg uint8, data []byte) error { return nil }

type closeCounter int

func (c *closeCounter) Close() error {
	*c++
	return nil
}

func TestRunClosesBusOnError(t *testing.T) {
	var closed closeCounter
	defer func(f func(string, string, int) (i2c.Bus, io.Closer, error)) { openBus = f }(openBus)
	openBus = func(string, string, int) (i2c.Bus, io.Closer, error) {
		return zeroBus{}, &closed, nil
	}

	if err := run("sysfs", "/dev/i2c-1", 0x6a, -1); err == nil {
		t.Fatal("unexpected nil error for a missing device")
	}
	if closed != 1 {
		t.Errorf("%d != expected %d", closed, 1)
	}
}

func TestRunOpenError(t *testing.T) {
	errOpen := errors.New("no bus")
	defer func(f func(string, string, int) (i2c.Bus, io.Closer, error)) { openBus = f }(openBus)
	openBus = func(string, string, int) (i2c.Bus, io.Closer, error) {
		return nil, nil, errOpen
	}

	if err := run("sysfs", "/dev/i2c-1", 0x6a, -1); !errors.Is(err, errOpen) {
		t.Errorf("unexpected error %v", err)
	}
}
