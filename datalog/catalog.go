package datalog

import "github.com/calmh/imupi/iks4a1"

// SensorType is the sensor kind addressed by a sensor command.
type SensorType uint8

const (
	Accelerometer SensorType = 1
	Gyroscope     SensorType = 2
	Magnetometer  SensorType = 3
	Temperature   SensorType = 4
	Humidity      SensorType = 5
	Pressure      SensorType = 6
)

var sensorTypes = []SensorType{Accelerometer, Gyroscope, Magnetometer, Temperature, Humidity, Pressure}

func (t SensorType) String() string {
	switch t {
	case Accelerometer:
		return "accelerometer"
	case Gyroscope:
		return "gyroscope"
	case Magnetometer:
		return "magnetometer"
	case Temperature:
		return "temperature"
	case Humidity:
		return "humidity"
	case Pressure:
		return "pressure"
	default:
		return "unknown"
	}
}

// motion reports whether the type lives in the board's motion registry.
func (t SensorType) motion() bool {
	return t <= Magnetometer
}

func (t SensorType) function() iks4a1.Function {
	switch t {
	case Accelerometer:
		return iks4a1.MotionAccelero
	case Gyroscope:
		return iks4a1.MotionGyro
	case Magnetometer:
		return iks4a1.MotionMagneto
	case Temperature:
		return iks4a1.EnvTemperature
	case Humidity:
		return iks4a1.EnvHumidity
	case Pressure:
		return iks4a1.EnvPressure
	default:
		return 0
	}
}

// Limits are the full scales and output data rates a sensor offers for one
// function, as presented to the host.
type Limits struct {
	FullScales []uint32
	ODRs       []float32
}

// Catalog maps a component name to the sensor types it provides.
type Catalog map[string]map[SensorType]Limits

// DefaultCatalog knows the sensors this module has drivers for.
var DefaultCatalog = Catalog{
	"LSM6DSV16B": {
		Accelerometer: {
			FullScales: []uint32{2, 4, 8, 16},
			ODRs:       []float32{1.875, 7.5, 15, 30, 60, 120, 240, 480, 960, 1920, 3840, 7680},
		},
		Gyroscope: {
			FullScales: []uint32{125, 250, 500, 1000, 2000, 4000},
			ODRs:       []float32{7.5, 15, 30, 60, 120, 240, 480, 960, 1920, 3840, 7680},
		},
	},
	"LSM9DS1": {
		Accelerometer: {
			FullScales: []uint32{2, 4, 8, 16},
			ODRs:       []float32{10, 50, 119, 238, 476, 952},
		},
		Gyroscope: {
			FullScales: []uint32{245, 500, 2000},
			ODRs:       []float32{14.9, 59.5, 119, 238, 476, 952},
		},
		Magnetometer: {
			FullScales: []uint32{4, 8, 12, 16},
			ODRs:       []float32{0.625, 1.25, 2.5, 5, 10, 20, 40, 80},
		},
	},
	"HTS221": {
		Temperature: {FullScales: []uint32{120}, ODRs: []float32{1, 7, 12.5}},
		Humidity:    {FullScales: []uint32{100}, ODRs: []float32{1, 7, 12.5}},
	},
	"LPS25H": {
		Temperature: {FullScales: []uint32{105}, ODRs: []float32{1, 7, 12.5, 25}},
		Pressure:    {FullScales: []uint32{1260}, ODRs: []float32{1, 7, 12.5, 25}},
	},
}

// candidate is a board instance that can serve a sensor type.
type candidate struct {
	name     string
	instance int
	limits   Limits
}

// candidates lists, per sensor type, the board instances the catalog knows
// in registration order.
func (c Catalog) candidates(b *iks4a1.Board) map[SensorType][]candidate {
	res := make(map[SensorType][]candidate)
	for i := 0; i < b.MotionInstances(); i++ {
		name, _ := b.MotionName(i)
		for t, l := range c[name] {
			if t.motion() {
				res[t] = append(res[t], candidate{name: name, instance: i, limits: l})
			}
		}
	}
	for i := 0; i < b.EnvInstances(); i++ {
		name, _ := b.EnvName(i)
		for t, l := range c[name] {
			if !t.motion() {
				res[t] = append(res[t], candidate{name: name, instance: i, limits: l})
			}
		}
	}
	return res
}
