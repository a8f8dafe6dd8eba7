// Package iks4a1 dispatches generic motion and environmental sensor calls
// to the components registered on a board, addressed by instance number.
package iks4a1

import (
	"errors"
	"fmt"
	"math/bits"
	"sync"
)

var (
	ErrWrongParam       = errors.New("wrong parameter")
	ErrComponentFailure = errors.New("component failure")
	ErrNoInit           = errors.New("instance not initialized")
)

// Function is a bit set of sensor functions. Motion and environmental
// functions share the bit values and are told apart by the registry used.
type Function uint32

const (
	MotionGyro     Function = 1 << 0
	MotionAccelero Function = 1 << 1
	MotionMagneto  Function = 1 << 2
)

const (
	EnvTemperature Function = 1 << 0
	EnvPressure    Function = 1 << 1
	EnvHumidity    Function = 1 << 2
)

// single reports whether f names exactly one function.
func (f Function) single() bool {
	return bits.OnesCount32(uint32(f)) == 1
}

// Board holds the motion and environmental sensor instances. Instance
// numbers are assigned in registration order, starting at zero for each
// kind.
//
// The board methods do no locking. Goroutines sharing a board hold its lock
// around each sequence of calls.
type Board struct {
	sync.Mutex
	motion []*motionSlot
	env    []*envSlot
}

func NewBoard() *Board {
	return &Board{}
}

func failure(err error) error {
	return fmt.Errorf("%w: %w", ErrComponentFailure, err)
}

// notFound wraps a failure to identify the component at init.
func notFound(err error) error {
	return fmt.Errorf("%w: %w", ErrNoInit, err)
}
