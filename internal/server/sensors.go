package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/calmh/imupi/datalog"
	"github.com/calmh/imupi/i2c"
	"github.com/calmh/imupi/iks4a1"
	"github.com/calmh/imupi/internal/config"
	"github.com/calmh/imupi/lsm6dsv16b"
	"github.com/calmh/imupi/sensehat"
	log "github.com/sirupsen/logrus"
)

const resetTimeout = 100 * time.Millisecond

// sensors is the board as set up from the configuration.
type sensors struct {
	board   *iks4a1.Board
	imu     int
	hat     *sensehat.Instances
	handler *datalog.Handler
	closers []io.Closer
}

func openSensors(opt *config.IMUPiOpt) (*sensors, error) {
	bus, closer, err := i2c.Open(opt.IMU.Driver, opt.IMU.Device, opt.IMU.Address)
	if err != nil {
		return nil, err
	}
	s := &sensors{
		board:   iks4a1.NewBoard(),
		closers: []io.Closer{closer},
	}

	// Start from the power on register values regardless of what ran
	// before us.
	if err := lsm6dsv16b.New(bus).WaitReset(lsm6dsv16b.ResetRestoreCtrlRegs, resetTimeout); err != nil {
		log.Warnln("reset LSM6DSV16B:", err)
	}
	s.imu = s.board.AddMotion(iks4a1.LSM6DSV16B(bus))

	if opt.SenseHat.Enabled {
		inst, closer, err := sensehat.Register(s.board, opt.SenseHat.Device, opt.SenseHat.Declination)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("sense hat: %w", err)
		}
		s.hat = &inst
		s.closers = append(s.closers, closer)
	}

	s.handler = datalog.NewHandler(s.board, datalog.DefaultCatalog, datalog.PresentationString(Version, "0.0.0"))
	if err := s.handler.Init(); err != nil {
		log.Warnln("init sensors:", err)
	}
	return s, nil
}

func (s *sensors) Close() {
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			log.Debugln("close:", err)
		}
	}
}

// enableAll powers up every initialized function on the board.
func (s *sensors) enableAll() error {
	s.board.Lock()
	defer s.board.Unlock()

	var errs []error
	for i := 0; i < s.board.MotionInstances(); i++ {
		funcs, err := s.board.MotionFunctions(i)
		if err != nil {
			continue
		}
		for _, fn := range motionFields {
			if funcs&fn.f == 0 {
				continue
			}
			if err := s.board.MotionEnable(i, fn.f); err != nil {
				errs = append(errs, err)
			}
		}
	}
	for i := 0; i < s.board.EnvInstances(); i++ {
		funcs, err := s.board.EnvFunctions(i)
		if err != nil {
			continue
		}
		for _, fn := range envFields {
			if funcs&fn.f == 0 {
				continue
			}
			if err := s.board.EnvEnable(i, fn.f); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (s *sensors) readMotion(f iks4a1.Function) func() (iks4a1.Axes, error) {
	return func() (iks4a1.Axes, error) {
		s.board.Lock()
		defer s.board.Unlock()
		return s.board.MotionAxes(s.imu, f)
	}
}

func (s *sensors) fields(decimals int) map[string]interface{} {
	fields := make(map[string]interface{})
	s.board.Lock()
	readFields(s.board, fields, decimals)
	s.board.Unlock()
	return fields
}

// compass returns the Sense HAT magnetometer, if there is one.
func (s *sensors) compass() *sensehat.LSM9DS1Component {
	if s.hat == nil {
		return nil
	}
	s.board.Lock()
	defer s.board.Unlock()
	c, err := s.board.MotionComponent(s.hat.IMU)
	if err != nil {
		return nil
	}
	lc, _ := c.(*sensehat.LSM9DS1Component)
	return lc
}

// applyCalibration feeds the stored gyroscope bias to the sensor fusion
// block and restores the magnetometer range.
func (s *sensors) applyCalibration(ctx context.Context, cal Calibration) {
	if c := s.compass(); c != nil {
		c.SetCalibration(cal.Magnetometer)
	}
	if cal.Gbias == [3]float32{} {
		return
	}
	s.board.Lock()
	defer s.board.Unlock()
	dev := lsm6dsv16bDevice(s.board, s.imu)
	if dev == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := dev.SFLPGameGbias(ctx, cal.Gbias[0], cal.Gbias[1], cal.Gbias[2]); err != nil {
		log.Warnln("apply gyroscope bias:", err)
		return
	}
	log.Debugf("gyroscope bias %v dps applied", cal.Gbias)
}

// persistCalibration saves the calibration whenever the magnetometer range
// has grown, checking every intv.
func (s *sensors) persistCalibration(ctx context.Context, file string, cal Calibration, intv time.Duration) {
	c := s.compass()
	if c == nil {
		return
	}
	t := time.NewTicker(intv)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		cur := c.Calibration()
		if cur == cal.Magnetometer {
			continue
		}
		cal.Magnetometer = cur
		if err := saveCalibration(file, cal); err != nil {
			log.Warnln("save calibration:", err)
			continue
		}
		log.Debugln("saved calibration to", file)
	}
}
