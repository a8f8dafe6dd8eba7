package server

import (
	"strings"

	"github.com/calmh/imupi/iks4a1"
	log "github.com/sirupsen/logrus"
)

type fieldName struct {
	f    iks4a1.Function
	name string
}

var motionFields = []fieldName{
	{iks4a1.MotionAccelero, "accel_mg"},
	{iks4a1.MotionGyro, "gyro_mdps"},
	{iks4a1.MotionMagneto, "magn_mgauss"},
}

var envFields = []fieldName{
	{iks4a1.EnvTemperature, "temperature_c"},
	{iks4a1.EnvPressure, "pressure_hpa"},
	{iks4a1.EnvHumidity, "humidity_rh"},
}

// readFields reads every initialized function on the board into fields,
// keyed by chip and quantity like "lsm6dsv16b_accel_mg_x" or
// "lps25h_pressure_hpa".
func readFields(b *iks4a1.Board, fields map[string]interface{}, decimals int) {
	for i := 0; i < b.MotionInstances(); i++ {
		name, _ := b.MotionName(i)
		funcs, err := b.MotionFunctions(i)
		if err != nil {
			continue
		}
		prefix := strings.ToLower(name) + "_"
		for _, fn := range motionFields {
			if funcs&fn.f == 0 {
				continue
			}
			axes, err := b.MotionAxes(i, fn.f)
			if err != nil {
				log.Debugf("read %s %s: %v", name, fn.name, err)
				continue
			}
			fields[prefix+fn.name+"_x"] = axes.X
			fields[prefix+fn.name+"_y"] = axes.Y
			fields[prefix+fn.name+"_z"] = axes.Z
		}
	}

	for i := 0; i < b.EnvInstances(); i++ {
		name, _ := b.EnvName(i)
		funcs, err := b.EnvFunctions(i)
		if err != nil {
			continue
		}
		prefix := strings.ToLower(name) + "_"
		for _, fn := range envFields {
			if funcs&fn.f == 0 {
				continue
			}
			v, err := b.EnvValue(i, fn.f)
			if err != nil {
				log.Debugf("read %s %s: %v", name, fn.name, err)
				continue
			}
			fields[prefix+fn.name] = round(float64(v), decimals)
		}
	}
}
