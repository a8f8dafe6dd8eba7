package datalog

import log "github.com/sirupsen/logrus"

// Offsets in a stream message.
const (
	streamTimeOffset  = 3
	streamFlagsOffset = 7
	streamDataOffset  = 9
)

// streamOrder is the order samples appear in a stream message.
var streamOrder = []SensorType{Pressure, Temperature, Humidity, Accelerometer, Gyroscope, Magnetometer}

func enableBit(t SensorType) uint32 {
	switch t {
	case Pressure:
		return EnablePressure
	case Temperature:
		return EnableTemperature
	case Humidity:
		return EnableHumidity
	case Accelerometer:
		return EnableAccelerometer
	case Gyroscope:
		return EnableGyroscope
	case Magnetometer:
		return EnableMagnetometer
	default:
		return 0
	}
}

// newDataFlag is the bit marking a sample of type t in a stream message.
func newDataFlag(t SensorType) uint16 {
	switch t {
	case Pressure:
		return 1 << 0
	case Temperature:
		return 1 << 1
	case Humidity:
		return 1 << 2
	case Accelerometer:
		return 1 << 3
	case Gyroscope:
		return 1 << 4
	case Magnetometer:
		return 1 << 5
	default:
		return 0
	}
}

// Stream returns the next stream message: the microseconds since streaming
// started, the new data flags and the samples of every enabled sensor that
// has one ready. It returns false when streaming is off or no sensor had
// new data.
func (h *Handler) Stream() (*Msg, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.active {
		return nil, false
	}
	h.board.Lock()
	defer h.board.Unlock()

	m := NewMsg(h.dest, DevAddr, CmdStartStreaming)
	Serialize(m.Data[streamTimeOffset:], uint32(h.now().Sub(h.started).Microseconds()), 4)

	idx := streamDataOffset
	var flags uint16
	for _, t := range streamOrder {
		if h.enabled&enableBit(t) == 0 {
			continue
		}
		n, ok := h.sample(t, m.Data[idx:])
		if !ok {
			continue
		}
		flags |= newDataFlag(t)
		idx += n
	}
	if flags == 0 {
		return nil, false
	}

	Serialize(m.Data[streamFlagsOffset:], uint32(flags), 2)
	m.Len = idx
	return m, true
}

// sample writes the current value of sensor type t to dst and returns the
// number of bytes written. Motion sensors that report data ready status
// are skipped until they have new data.
func (h *Handler) sample(t SensorType, dst []byte) (int, bool) {
	c, err := h.selected(t)
	if err != nil {
		return 0, false
	}
	f := t.function()

	if !t.motion() {
		v, err := h.board.EnvValue(c.instance, f)
		if err != nil {
			log.Debugf("Read %s %s: %v", c.name, t, err)
			return 0, false
		}
		putFloat(dst, v)
		return 4, true
	}

	if ready, err := h.board.MotionDRDYStatus(c.instance, f); err == nil && !ready {
		return 0, false
	}
	axes, err := h.board.MotionAxes(c.instance, f)
	if err != nil {
		log.Debugf("Read %s %s: %v", c.name, t, err)
		return 0, false
	}
	SerializeS32(dst[0:], axes.X, 4)
	SerializeS32(dst[4:], axes.Y, 4)
	SerializeS32(dst[8:], axes.Z, 4)
	return 12, true
}
