package server

import (
	"strings"

	"github.com/calmh/imupi/datalog"
	"github.com/calmh/imupi/iks4a1"
	"github.com/calmh/imupi/lsm6dsv16b"
	"github.com/calmh/imupi/sensehat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "sensors"

var (
	directions = []string{"x", "y", "z"}
	planes     = []string{"xy", "xz", "yz"}
)

var envMetrics = []struct {
	f    iks4a1.Function
	name string
}{
	{iks4a1.EnvTemperature, "temperature_celsius"},
	{iks4a1.EnvPressure, "pressure_mb"},
	{iks4a1.EnvHumidity, "humidity_percent"},
}

// registerIMU exports the averaged accelerometer state and the gyroscope,
// temperature and FIFO level of the LSM6DSV16B at instance imu.
func registerIMU(reg prometheus.Registerer, b *iks4a1.Board, imu int, avg *AvgIMU) {
	f := promauto.With(reg)
	const sub = "lsm6dsv16b"

	for i, dir := range directions {
		i := i
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   sub,
			Name:        "accel_field",
			ConstLabels: prometheus.Labels{"direction": dir},
		}, func() float64 {
			return float64(avg.Acceleration()[i])
		})
	}

	for i, plane := range planes {
		i := i
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   sub,
			Name:        "accel_angle_degrees",
			ConstLabels: prometheus.Labels{"plane": plane},
		}, func() float64 {
			xy, xz, yz := avg.AccelAngles()
			return round([]float64{xy, xz, yz}[i], 2)
		})
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   sub,
			Name:        "accel_deviation_degrees",
			ConstLabels: prometheus.Labels{"plane": plane},
		}, func() float64 {
			xy, xz, yz := avg.Deviation()
			return round([]float64{xy, xz, yz}[i], 2)
		})
	}

	for i, dir := range directions {
		i := i
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   sub,
			Name:        "gyro_mdps",
			ConstLabels: prometheus.Labels{"direction": dir},
		}, func() float64 {
			b.Lock()
			axes, err := b.MotionAxes(imu, iks4a1.MotionGyro)
			b.Unlock()
			if err != nil {
				return 0
			}
			return float64([]int32{axes.X, axes.Y, axes.Z}[i])
		})
	}

	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: sub,
		Name:      "fifo_samples",
	}, func() float64 {
		b.Lock()
		n, err := b.FIFONumSamples(imu)
		b.Unlock()
		if err != nil {
			return 0
		}
		return float64(n)
	})

	if dev := lsm6dsv16bDevice(b, imu); dev != nil {
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: sub,
			Name:      "temperature_celsius",
		}, func() float64 {
			b.Lock()
			raw, err := dev.TemperatureRaw()
			b.Unlock()
			if err != nil {
				return 0
			}
			return round(float64(lsm6dsv16b.TemperatureCelsius(raw)), 2)
		})
	}
}

// registerEnv exports the initialized functions of the environmental
// sensors.
func registerEnv(reg prometheus.Registerer, b *iks4a1.Board) {
	f := promauto.With(reg)
	for inst := 0; inst < b.EnvInstances(); inst++ {
		inst := inst
		name, _ := b.EnvName(inst)
		funcs, err := b.EnvFunctions(inst)
		if err != nil {
			continue
		}
		for _, m := range envMetrics {
			m := m
			if funcs&m.f == 0 {
				continue
			}
			f.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: strings.ToLower(name),
				Name:      m.name,
			}, func() float64 {
				b.Lock()
				v, err := b.EnvValue(inst, m.f)
				b.Unlock()
				if err != nil {
					return 0
				}
				return round(float64(v), 2)
			})
		}
	}
}

// registerCompass exports the tilt compensated heading of the Sense HAT
// magnetometer.
func registerCompass(reg prometheus.Registerer, c *sensehat.LSM9DS1Component) {
	f := promauto.With(reg)
	for i, plane := range planes {
		i := i
		f.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Subsystem:   "lsm9ds1",
			Name:        "compass_degrees",
			ConstLabels: prometheus.Labels{"plane": plane},
		}, func() float64 {
			xy, xz, yz := c.Compass()
			return round([]float64{xy, xz, yz}[i], 2)
		})
	}
}

func registerDataLog(reg prometheus.Registerer, h *datalog.Handler) {
	f := promauto.With(reg)
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "datalog",
		Name:      "streaming",
	}, func() float64 {
		if h.Active() {
			return 1
		}
		return 0
	})
	f.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "datalog",
		Name:      "enabled_mask",
	}, func() float64 {
		return float64(h.Enabled())
	})
}

func lsm6dsv16bDevice(b *iks4a1.Board, imu int) *lsm6dsv16b.Device {
	c, err := b.MotionComponent(imu)
	if err != nil {
		return nil
	}
	lc, ok := c.(*iks4a1.LSM6DSV16BComponent)
	if !ok {
		return nil
	}
	return lc.Driver().Device()
}
