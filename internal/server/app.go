package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calmh/imupi/datalog"
	"github.com/calmh/imupi/iks4a1"
	"github.com/calmh/imupi/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "0.1.0"

const (
	calibrationCheckInterval = time.Minute
	gbiasSamples             = 100
	gbiasInterval            = 10 * time.Millisecond
	broadcastDecimals        = 2
)

type mainApp struct {
	name string
	cmd  *cobra.Command
	args []string
	opt  *config.IMUPiOpt
}

type MainApp interface {
	Run() error
	PrepareRun() MainApp
	GetOpt() *config.IMUPiOpt
	SetOpt(*config.IMUPiOpt)
	ProbeSensor() error
	Dump() error
}

func NewMainApp(cmd *cobra.Command, args []string) MainApp {
	return &mainApp{
		cmd:  cmd,
		args: args,
	}
}

func (a *mainApp) GetOpt() *config.IMUPiOpt {
	return a.opt
}

func (a *mainApp) SetOpt(opt *config.IMUPiOpt) { a.opt = opt }

func (a *mainApp) PrepareRun() MainApp {
	desc := config.NewIMUPiDesc()
	err := desc.Parse(a.cmd)
	if err != nil {
		log.Errorln(err)
		os.Exit(1)
		return nil
	}
	desc.PostParse()
	a.opt = &desc.Opt
	a.name = config.DefaultAppName
	return a
}

func (a *mainApp) Run() error {
	log.Infoln("version:", Version)
	log.Infoln("imu.driver:", a.opt.IMU.Driver)
	log.Infoln("imu.device:", a.opt.IMU.Device)
	log.Infof("imu.address: %#02x", a.opt.IMU.Address)
	log.Infoln("sensehat.enabled:", a.opt.SenseHat.Enabled)
	log.Infoln("datalog.enabled:", a.opt.DataLog.Enabled)
	log.Infoln("datalog.port:", a.opt.DataLog.Port)
	log.Infoln("metrics.listen:", a.opt.Metrics.Listen)
	log.Infoln("debug:", a.opt.Debug)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s, err := openSensors(a.opt)
	if err != nil {
		log.Errorln(err)
		return err
	}
	defer s.Close()

	// With a DataLog host attached the host decides which sensors are
	// powered.
	if !a.opt.DataLog.Enabled {
		if err := s.enableAll(); err != nil {
			log.Warnln("enable sensors:", err)
		}
	}

	cal := loadCalibration(a.opt.Calibration)
	s.applyCalibration(ctx, cal)
	go s.persistCalibration(ctx, a.opt.Calibration, cal, calibrationCheckInterval)

	avg := NewAvgIMU(a.opt.Metrics.Window(), a.opt.Metrics.SampleInterval(), s.readMotion(iks4a1.MotionAccelero))
	go avg.Serve(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registerIMU(reg, s.board, s.imu, avg)
	registerEnv(reg, s.board)
	if c := s.compass(); c != nil {
		registerCompass(reg, c)
	}
	if a.opt.DataLog.Enabled {
		registerDataLog(reg, s.handler)
	}

	room := NewRoom()
	go room.Run(ctx)
	go broadcast(ctx, room, s, a.opt.Metrics.SampleInterval())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/websocket", room)
	srv := &http.Server{Addr: a.opt.Metrics.Listen, Handler: mux}

	errs := make(chan error, 2)
	go func() {
		log.Infoln("start HTTP listen on", a.opt.Metrics.Listen)
		errs <- srv.ListenAndServe()
	}()

	if a.opt.DataLog.Enabled {
		port, err := datalog.OpenPort(a.opt.DataLog.Port, a.opt.DataLog.Baud)
		if err != nil {
			log.Errorln(err)
			srv.Close()
			return err
		}
		defer port.Close()
		dl := datalog.NewServer(s.handler, port, a.opt.DataLog.Interval())
		go func() {
			log.Infoln("serving DataLog on", a.opt.DataLog.Port)
			errs <- dl.Serve(ctx)
		}()
	}

	select {
	case <-ctx.Done():
		log.Infoln("shutting down")
	case err = <-errs:
		log.Errorln(err)
	}

	sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer scancel()
	if serr := srv.Shutdown(sctx); serr != nil {
		log.Debugln("HTTP shutdown:", serr)
	}
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// broadcast sends the sensor readings to the websocket clients every intv.
func broadcast(ctx context.Context, room *Room, s *sensors, intv time.Duration) {
	t := time.NewTicker(intv)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if room.Clients() == 0 {
				continue
			}
			fields := s.fields(broadcastDecimals)
			fields["when"] = now
			if err := room.Broadcast(ctx, fields); err != nil {
				return
			}
		}
	}
}

func (a *mainApp) ProbeSensor() error {
	s, err := openSensors(a.opt)
	if err != nil {
		log.Errorln(err)
		return err
	}
	defer s.Close()

	if err := s.enableAll(); err != nil {
		log.Warnln("enable sensors:", err)
	}
	// Let the first samples land.
	time.Sleep(100 * time.Millisecond)

	log.Infoln("Probing sensors...")
	probe(os.Stdout, s.board)

	calibrate, _ := a.cmd.Flags().GetBool("calibrate")
	if !calibrate {
		return nil
	}

	log.Infoln("Measuring gyroscope bias, keep the sensor still...")
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	gbias, err := measureGbias(ctx, s.readMotion(iks4a1.MotionGyro), gbiasSamples, gbiasInterval)
	if err != nil {
		log.Errorln(err)
		return err
	}
	cal := loadCalibration(a.opt.Calibration)
	cal.Gbias = gbias
	if err := saveCalibration(a.opt.Calibration, cal); err != nil {
		log.Errorln(err)
		return err
	}
	log.Infof("gyroscope bias %v dps saved to %s", gbias, a.opt.Calibration)
	return nil
}

// probe prints the identity, the initialized functions and one reading of
// every sensor on the board.
func probe(w io.Writer, b *iks4a1.Board) {
	b.Lock()
	defer b.Unlock()

	for i := 0; i < b.MotionInstances(); i++ {
		name, _ := b.MotionName(i)
		id, err := b.MotionReadID(i)
		if err != nil {
			fmt.Fprintf(w, "- motion %d %s: %v\n", i, name, err)
			continue
		}
		funcs, _ := b.MotionFunctions(i)
		fmt.Fprintf(w, "- motion %d %s id %#02x functions %#x\n", i, name, id, uint32(funcs))
		for _, fn := range motionFields {
			if funcs&fn.f == 0 {
				continue
			}
			if axes, err := b.MotionAxes(i, fn.f); err != nil {
				fmt.Fprintf(w, "    %s: %v\n", fn.name, err)
			} else {
				fmt.Fprintf(w, "    %s: %d %d %d\n", fn.name, axes.X, axes.Y, axes.Z)
			}
		}
	}

	for i := 0; i < b.EnvInstances(); i++ {
		name, _ := b.EnvName(i)
		id, err := b.EnvReadID(i)
		if err != nil {
			fmt.Fprintf(w, "- env %d %s: %v\n", i, name, err)
			continue
		}
		funcs, _ := b.EnvFunctions(i)
		fmt.Fprintf(w, "- env %d %s id %#02x functions %#x\n", i, name, id, uint32(funcs))
		for _, fn := range envFields {
			if funcs&fn.f == 0 {
				continue
			}
			if v, err := b.EnvValue(i, fn.f); err != nil {
				fmt.Fprintf(w, "    %s: %v\n", fn.name, err)
			} else {
				fmt.Fprintf(w, "    %s: %.2f\n", fn.name, v)
			}
		}
	}
}

// Dump prints the sensor readings as one JSON object per interval.
func (a *mainApp) Dump() error {
	interval, _ := a.cmd.Flags().GetDuration("interval")
	decimals, _ := a.cmd.Flags().GetInt("decimals")
	buffer, _ := a.cmd.Flags().GetBool("buffer")
	if interval <= 0 {
		interval = time.Second
	}

	s, err := openSensors(a.opt)
	if err != nil {
		log.Errorln(err)
		return err
	}
	defer s.Close()
	if err := s.enableAll(); err != nil {
		log.Warnln("enable sensors:", err)
	}

	out := io.Writer(os.Stdout)
	if buffer {
		bw := bufio.NewWriter(out)
		defer bw.Flush()
		out = bw
	}
	enc := json.NewEncoder(out)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-t.C:
			fields := s.fields(decimals)
			fields["when"] = now
			if err := enc.Encode(fields); err != nil {
				return err
			}
		}
	}
}
