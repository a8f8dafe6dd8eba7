package lsm6dsv16b

import "fmt"

// IntPin selects the interrupt line an event is routed to.
type IntPin int

const (
	Int1 IntPin = 1
	Int2 IntPin = 2
)

// EventStatus reports detected events, each only if it is routed to a pin.
type EventStatus struct {
	FreeFall  bool
	WakeUp    bool
	SingleTap bool
	DoubleTap bool
	SixD      bool
	Step      bool
	Tilt      bool
}

func (s *Sensor) route(pin IntPin, fn func(r *Route)) error {
	switch pin {
	case Int1:
		r, err := s.dev.PinInt1Route()
		if err != nil {
			return err
		}
		fn(&r)
		return s.dev.SetPinInt1Route(r)
	case Int2:
		r, err := s.dev.PinInt2Route()
		if err != nil {
			return err
		}
		fn(&r)
		return s.dev.SetPinInt2Route(r)
	}
	return fmt.Errorf("interrupt pin %d: %w", pin, ErrUnknownSetting)
}

func (s *Sensor) unroute(fn func(r *Route)) error {
	if err := s.route(Int1, fn); err != nil {
		return err
	}
	return s.route(Int2, fn)
}

// EnableFreeFallDetection runs the accelerometer at 480 Hz, ±2 g with a
// 312 mg threshold held for three samples.
func (s *Sensor) EnableFreeFallDetection(pin IntPin) error {
	if err := s.AccSetOutputDataRate(480); err != nil {
		return err
	}
	if err := s.AccSetFullScale(2); err != nil {
		return err
	}
	if err := s.dev.SetFreeFallWindow(3); err != nil {
		return err
	}
	if err := s.dev.SetFreeFallThreshold(FF312mg); err != nil {
		return err
	}
	return s.route(pin, func(r *Route) { r.FreeFall = true })
}

func (s *Sensor) DisableFreeFallDetection() error {
	if err := s.unroute(func(r *Route) { r.FreeFall = false }); err != nil {
		return err
	}
	if err := s.dev.SetFreeFallThreshold(FF156mg); err != nil {
		return err
	}
	return s.dev.SetFreeFallWindow(0)
}

// EnableWakeUpDetection runs the accelerometer at 480 Hz, ±2 g and wakes
// on a 63 mg change.
func (s *Sensor) EnableWakeUpDetection(pin IntPin) error {
	if err := s.AccSetOutputDataRate(480); err != nil {
		return err
	}
	if err := s.AccSetFullScale(2); err != nil {
		return err
	}
	ths, err := s.dev.ActThresholds()
	if err != nil {
		return err
	}
	ths.WakeUpMg = 63
	if err := s.dev.SetActThresholds(ths); err != nil {
		return err
	}
	win, err := s.dev.WakeupWindows()
	if err != nil {
		return err
	}
	win.Shock = 0
	if err := s.dev.SetWakeupWindows(win); err != nil {
		return err
	}
	return s.route(pin, func(r *Route) { r.WakeUp = true })
}

func (s *Sensor) DisableWakeUpDetection() error {
	if err := s.unroute(func(r *Route) { r.WakeUp = false }); err != nil {
		return err
	}
	ths, err := s.dev.ActThresholds()
	if err != nil {
		return err
	}
	ths.WakeUpMg = 0
	return s.dev.SetActThresholds(ths)
}

// EnableTiltDetection runs the accelerometer at 30 Hz, ±2 g.
func (s *Sensor) EnableTiltDetection(pin IntPin) error {
	if err := s.AccSetOutputDataRate(30); err != nil {
		return err
	}
	if err := s.AccSetFullScale(2); err != nil {
		return err
	}
	if err := s.dev.SetTilt(true); err != nil {
		return err
	}
	return s.route(pin, func(r *Route) { r.Tilt = true })
}

func (s *Sensor) DisableTiltDetection() error {
	if err := s.unroute(func(r *Route) { r.Tilt = false }); err != nil {
		return err
	}
	return s.dev.SetTilt(false)
}

// EnablePedometer runs the accelerometer at 30 Hz, ±8 g with the step
// counter on and routes the step detector.
func (s *Sensor) EnablePedometer(pin IntPin) error {
	if err := s.AccSetOutputDataRate(30); err != nil {
		return err
	}
	if err := s.AccSetFullScale(8); err != nil {
		return err
	}
	if err := s.dev.SetStepCounterMode(StepCounterMode{Enable: true}); err != nil {
		return err
	}
	return s.route(pin, func(r *Route) { r.StepDetector = true })
}

func (s *Sensor) DisablePedometer() error {
	if err := s.unroute(func(r *Route) { r.StepDetector = false }); err != nil {
		return err
	}
	return s.dev.SetStepCounterMode(StepCounterMode{})
}

func (s *Sensor) StepCount() (uint16, error) {
	return s.dev.Steps()
}

func (s *Sensor) ResetStepCounter() error {
	return s.dev.ResetSteps()
}

func (s *Sensor) EventStatus() (EventStatus, error) {
	var st EventStatus
	r1, err := s.dev.PinInt1Route()
	if err != nil {
		return st, err
	}
	r2, err := s.dev.PinInt2Route()
	if err != nil {
		return st, err
	}
	src, err := s.dev.AllSources()
	if err != nil {
		return st, err
	}
	st.FreeFall = (r1.FreeFall || r2.FreeFall) && src.FreeFall
	st.WakeUp = (r1.WakeUp || r2.WakeUp) && src.WakeUp
	st.SingleTap = (r1.SingleTap || r2.SingleTap) && src.SingleTap
	st.DoubleTap = (r1.DoubleTap || r2.DoubleTap) && src.DoubleTap
	st.SixD = (r1.SixD || r2.SixD) && src.SixD
	st.Step = (r1.StepDetector || r2.StepDetector) && src.StepDetector
	st.Tilt = (r1.Tilt || r2.Tilt) && src.Tilt
	return st, nil
}
