package iks4a1

import "fmt"

// Optional interfaces implemented by components that support the extended
// operations. Calls on components without them fail with ErrWrongParam.

type RegisterAccess interface {
	ReadReg(reg uint8) (uint8, error)
	WriteReg(reg, val uint8) error
}

// Implemented by MotionSensor.
type DRDYReporter interface {
	DRDYStatus() (bool, error)
}

// Implemented by MotionSensor.
type PowerModeSetter interface {
	SetPowerMode(mode uint8) error
}

// Implemented by MotionSensor.
type FilterModeSetter interface {
	SetFilterMode(lowHighPass, mode uint8) error
}

type FIFO interface {
	FIFONumSamples() (uint16, error)
	FIFOFullStatus() (bool, error)
	FIFOSetINT1FIFOFull(on bool) error
	FIFOSetINT2FIFOFull(on bool) error
	FIFOSetWatermarkLevel(level uint8) error
	FIFOSetStopOnFth(on bool) error
	FIFOSetMode(mode uint8) error
	FIFOTag() (uint8, error)
	FIFOData() ([6]byte, error)
}

// Implemented by MotionSensor.
type FIFOSensor interface {
	FIFOAxes() (Axes, error)
	FIFOSetBDR(hz float32) error
}

type IntPin int

const (
	Int1 IntPin = 1
	Int2 IntPin = 2
)

type EventStatus struct {
	FreeFall  bool
	WakeUp    bool
	SingleTap bool
	DoubleTap bool
	SixD      bool
	Step      bool
	Tilt      bool
}

type Events interface {
	EnableFreeFallDetection(pin IntPin) error
	DisableFreeFallDetection() error
	EnableWakeUpDetection(pin IntPin) error
	DisableWakeUpDetection() error
	EnableTiltDetection(pin IntPin) error
	DisableTiltDetection() error
	EnablePedometer(pin IntPin) error
	DisablePedometer() error
	StepCount() (uint16, error)
	ResetStepCounter() error
	EventStatus() (EventStatus, error)
}

func unsupported(instance int, op string) error {
	return fmt.Errorf("motion instance %d %s: %w", instance, op, ErrWrongParam)
}

func (b *Board) MotionReadRegister(instance int, reg uint8) (uint8, error) {
	slot, err := b.motionSlot(instance)
	if err != nil {
		return 0, err
	}
	ra, ok := slot.comp.(RegisterAccess)
	if !ok {
		return 0, unsupported(instance, "register access")
	}
	v, err := ra.ReadReg(reg)
	if err != nil {
		return 0, failure(err)
	}
	return v, nil
}

func (b *Board) MotionWriteRegister(instance int, reg, val uint8) error {
	slot, err := b.motionSlot(instance)
	if err != nil {
		return err
	}
	ra, ok := slot.comp.(RegisterAccess)
	if !ok {
		return unsupported(instance, "register access")
	}
	if err := ra.WriteReg(reg, val); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) EnvReadRegister(instance int, reg uint8) (uint8, error) {
	slot, err := b.envSlot(instance)
	if err != nil {
		return 0, err
	}
	ra, ok := slot.comp.(RegisterAccess)
	if !ok {
		return 0, fmt.Errorf("env instance %d register access: %w", instance, ErrWrongParam)
	}
	v, err := ra.ReadReg(reg)
	if err != nil {
		return 0, failure(err)
	}
	return v, nil
}

func (b *Board) EnvWriteRegister(instance int, reg, val uint8) error {
	slot, err := b.envSlot(instance)
	if err != nil {
		return err
	}
	ra, ok := slot.comp.(RegisterAccess)
	if !ok {
		return fmt.Errorf("env instance %d register access: %w", instance, ErrWrongParam)
	}
	if err := ra.WriteReg(reg, val); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) MotionDRDYStatus(instance int, f Function) (bool, error) {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return false, err
	}
	d, ok := s.(DRDYReporter)
	if !ok {
		return false, unsupported(instance, "data ready status")
	}
	v, err := d.DRDYStatus()
	if err != nil {
		return false, failure(err)
	}
	return v, nil
}

func (b *Board) MotionSetPowerMode(instance int, f Function, mode uint8) error {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return err
	}
	p, ok := s.(PowerModeSetter)
	if !ok {
		return unsupported(instance, "power mode")
	}
	if err := p.SetPowerMode(mode); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) MotionSetFilterMode(instance int, f Function, lowHighPass, mode uint8) error {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return err
	}
	p, ok := s.(FilterModeSetter)
	if !ok {
		return unsupported(instance, "filter mode")
	}
	if err := p.SetFilterMode(lowHighPass, mode); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) fifo(instance int) (FIFO, error) {
	slot, err := b.motionSlot(instance)
	if err != nil {
		return nil, err
	}
	f, ok := slot.comp.(FIFO)
	if !ok {
		return nil, unsupported(instance, "FIFO")
	}
	return f, nil
}

func (b *Board) FIFONumSamples(instance int) (uint16, error) {
	f, err := b.fifo(instance)
	if err != nil {
		return 0, err
	}
	n, err := f.FIFONumSamples()
	if err != nil {
		return 0, failure(err)
	}
	return n, nil
}

func (b *Board) FIFOFullStatus(instance int) (bool, error) {
	f, err := b.fifo(instance)
	if err != nil {
		return false, err
	}
	full, err := f.FIFOFullStatus()
	if err != nil {
		return false, failure(err)
	}
	return full, nil
}

// FIFOSetIntFIFOFull routes the FIFO full flag to pin or removes it.
func (b *Board) FIFOSetIntFIFOFull(instance int, pin IntPin, on bool) error {
	f, err := b.fifo(instance)
	if err != nil {
		return err
	}
	switch pin {
	case Int1:
		err = f.FIFOSetINT1FIFOFull(on)
	case Int2:
		err = f.FIFOSetINT2FIFOFull(on)
	default:
		return fmt.Errorf("interrupt pin %d: %w", pin, ErrWrongParam)
	}
	if err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) FIFOSetWatermarkLevel(instance int, level uint8) error {
	f, err := b.fifo(instance)
	if err != nil {
		return err
	}
	if err := f.FIFOSetWatermarkLevel(level); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) FIFOSetStopOnFth(instance int, on bool) error {
	f, err := b.fifo(instance)
	if err != nil {
		return err
	}
	if err := f.FIFOSetStopOnFth(on); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) FIFOSetMode(instance int, mode uint8) error {
	f, err := b.fifo(instance)
	if err != nil {
		return err
	}
	if err := f.FIFOSetMode(mode); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) FIFOTag(instance int) (uint8, error) {
	f, err := b.fifo(instance)
	if err != nil {
		return 0, err
	}
	tag, err := f.FIFOTag()
	if err != nil {
		return 0, failure(err)
	}
	return tag, nil
}

func (b *Board) FIFOData(instance int) ([6]byte, error) {
	f, err := b.fifo(instance)
	if err != nil {
		return [6]byte{}, err
	}
	data, err := f.FIFOData()
	if err != nil {
		return [6]byte{}, failure(err)
	}
	return data, nil
}

func (b *Board) fifoSensor(instance int, f Function) (FIFOSensor, error) {
	s, err := b.motionSensor(instance, f)
	if err != nil {
		return nil, err
	}
	fs, ok := s.(FIFOSensor)
	if !ok {
		return nil, unsupported(instance, "FIFO")
	}
	return fs, nil
}

func (b *Board) FIFOAxes(instance int, f Function) (Axes, error) {
	fs, err := b.fifoSensor(instance, f)
	if err != nil {
		return Axes{}, err
	}
	a, err := fs.FIFOAxes()
	if err != nil {
		return Axes{}, failure(err)
	}
	return a, nil
}

func (b *Board) FIFOSetBDR(instance int, f Function, hz float32) error {
	fs, err := b.fifoSensor(instance, f)
	if err != nil {
		return err
	}
	if err := fs.FIFOSetBDR(hz); err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) events(instance int) (Events, error) {
	slot, err := b.motionSlot(instance)
	if err != nil {
		return nil, err
	}
	e, ok := slot.comp.(Events)
	if !ok {
		return nil, unsupported(instance, "event detection")
	}
	return e, nil
}

// EnableEvent routes the named detector to pin. Event is one of
// "free-fall", "wake-up", "tilt" and "pedometer".
func (b *Board) EnableEvent(instance int, event string, pin IntPin) error {
	e, err := b.events(instance)
	if err != nil {
		return err
	}
	switch event {
	case EventFreeFall:
		err = e.EnableFreeFallDetection(pin)
	case EventWakeUp:
		err = e.EnableWakeUpDetection(pin)
	case EventTilt:
		err = e.EnableTiltDetection(pin)
	case EventPedometer:
		err = e.EnablePedometer(pin)
	default:
		return fmt.Errorf("event %q: %w", event, ErrWrongParam)
	}
	if err != nil {
		return failure(err)
	}
	return nil
}

func (b *Board) DisableEvent(instance int, event string) error {
	e, err := b.events(instance)
	if err != nil {
		return err
	}
	switch event {
	case EventFreeFall:
		err = e.DisableFreeFallDetection()
	case EventWakeUp:
		err = e.DisableWakeUpDetection()
	case EventTilt:
		err = e.DisableTiltDetection()
	case EventPedometer:
		err = e.DisablePedometer()
	default:
		return fmt.Errorf("event %q: %w", event, ErrWrongParam)
	}
	if err != nil {
		return failure(err)
	}
	return nil
}

const (
	EventFreeFall  = "free-fall"
	EventWakeUp    = "wake-up"
	EventTilt      = "tilt"
	EventPedometer = "pedometer"
)

func (b *Board) EventStatus(instance int) (EventStatus, error) {
	e, err := b.events(instance)
	if err != nil {
		return EventStatus{}, err
	}
	st, err := e.EventStatus()
	if err != nil {
		return EventStatus{}, failure(err)
	}
	return st, nil
}

func (b *Board) StepCount(instance int) (uint16, error) {
	e, err := b.events(instance)
	if err != nil {
		return 0, err
	}
	n, err := e.StepCount()
	if err != nil {
		return 0, failure(err)
	}
	return n, nil
}

func (b *Board) ResetStepCounter(instance int) error {
	e, err := b.events(instance)
	if err != nil {
		return err
	}
	if err := e.ResetStepCounter(); err != nil {
		return failure(err)
	}
	return nil
}
