package datalog

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// Sensor subcommands, carried in Data[3] of a CmdSensor message. Data[4]
// holds the SensorType.
const (
	SubGetSensorName    = 0x01
	SubReadRegister     = 0x02
	SubWriteRegister    = 0x03
	SubGetFullScaleList = 0x04
	SubSetFullScale     = 0x05
	SubGetODRList       = 0x06
	SubSetODR           = 0x07
	SubGetSensorList    = 0x14
	SubSetSensorIndex   = 0x15
	SubWriteMulti       = 0x16
	SubReadMulti        = 0x17
	SubReadModifyWrite  = 0x18
	SubGetFullScale     = 0x1e
	SubGetODR           = 0x1f
)

const (
	sensorReplyHeaderLen = 5
	multiHeaderLen       = 6
)

func (h *Handler) sensorCommand(m *Msg) bool {
	t := SensorType(m.Data[4])
	if t.function() == 0 {
		log.Debugf("Sensor command %#02x for unknown type %d", m.Data[3], m.Data[4])
		return false
	}

	switch m.Data[3] {
	case SubGetSensorName:
		c, err := h.selected(t)
		if err != nil {
			return false
		}
		sendName(m, c.name)
		return true

	case SubGetSensorList:
		var names []string
		for _, c := range h.sensors[t] {
			names = append(names, c.name)
		}
		sendName(m, strings.Join(names, ","))
		return true

	case SubReadRegister:
		v, err := h.readReg(t, m.Data[5])
		if err != nil {
			log.Debugf("Read %s register %#02x: %v", t, m.Data[5], err)
			return false
		}
		replyHeader(m)
		m.Data[6] = v
		m.Len = 7
		return true

	case SubWriteRegister:
		if err := h.writeReg(t, m.Data[5], m.Data[6]); err != nil {
			log.Debugf("Write %s register %#02x: %v", t, m.Data[5], err)
			return false
		}
		replyHeader(m)
		m.Len = 7
		return true

	case SubGetFullScaleList:
		c, err := h.selected(t)
		if err != nil {
			return false
		}
		replyHeader(m)
		fs := c.limits.FullScales
		Serialize(m.Data[5:], uint32(len(fs)), 4)
		for i, v := range fs {
			Serialize(m.Data[9+4*i:], v, 4)
		}
		m.Len = 9 + 4*len(fs)
		return true

	case SubSetFullScale:
		c, err := h.selected(t)
		if err != nil {
			return false
		}
		fs := DeserializeS32(m.Data[5:], 4)
		if t.motion() {
			if err := h.board.MotionSetFullScale(c.instance, t.function(), fs); err != nil {
				log.Debugf("Set %s full scale %d: %v", t, fs, err)
				return false
			}
		}
		replyHeader(m)
		m.Len = 9
		return true

	case SubGetFullScale:
		c, err := h.selected(t)
		if err != nil {
			return false
		}
		var fs int32
		if t.motion() {
			fs, err = h.board.MotionFullScale(c.instance, t.function())
			if err != nil {
				log.Debugf("Get %s full scale: %v", t, err)
				return false
			}
		}
		replyHeader(m)
		SerializeS32(m.Data[5:], fs, 4)
		m.Len = 9
		return true

	case SubGetODRList:
		c, err := h.selected(t)
		if err != nil {
			return false
		}
		replyHeader(m)
		odrs := c.limits.ODRs
		Serialize(m.Data[5:], uint32(len(odrs)), 4)
		for i, v := range odrs {
			putFloat(m.Data[9+4*i:], v)
		}
		m.Len = 9 + 4*len(odrs)
		return true

	case SubSetODR:
		c, err := h.selected(t)
		if err != nil {
			return false
		}
		hz := getFloat(m.Data[5:])
		if t.motion() {
			err = h.board.MotionSetOutputDataRate(c.instance, t.function(), hz)
		} else {
			err = h.board.EnvSetOutputDataRate(c.instance, t.function(), hz)
		}
		if err != nil {
			log.Debugf("Set %s data rate %v: %v", t, hz, err)
			return false
		}
		replyHeader(m)
		m.Len = 9
		return true

	case SubGetODR:
		c, err := h.selected(t)
		if err != nil {
			return false
		}
		var hz float32
		if t.motion() {
			hz, err = h.board.MotionOutputDataRate(c.instance, t.function())
		} else {
			hz, err = h.board.EnvOutputDataRate(c.instance, t.function())
		}
		if err != nil {
			log.Debugf("Get %s data rate: %v", t, err)
			return false
		}
		replyHeader(m)
		putFloat(m.Data[5:], hz)
		m.Len = 9
		return true

	case SubSetSensorIndex:
		ok := true
		if err := h.selectSensor(t, int(m.Data[5])); err != nil {
			log.Warnf("Select %s %d: %v", t, m.Data[5], err)
			ok = false
		}
		replyHeader(m)
		m.Data[5] = boolByte(ok)
		m.Len = 6
		return true

	case SubWriteMulti:
		n := int(m.Data[5])
		ok := multiHeaderLen+2*n <= MaxLen
		for i := 0; ok && i < n; i++ {
			reg, val := m.Data[6+2*i], m.Data[7+2*i]
			if err := h.writeReg(t, reg, val); err != nil {
				log.Debugf("Write %s register %#02x: %v", t, reg, err)
				ok = false
			}
		}
		if !ok {
			m.Data[5] = 0
		}
		replyHeader(m)
		m.Len = multiHeaderLen
		return true

	case SubReadMulti:
		n := int(m.Data[5])
		ok := multiHeaderLen+2*n <= MaxLen
		for i := 0; ok && i < n; i++ {
			reg := m.Data[6+2*i]
			v, err := h.readReg(t, reg)
			if err != nil {
				log.Debugf("Read %s register %#02x: %v", t, reg, err)
				ok = false
			}
			m.Data[7+2*i] = v
		}
		replyHeader(m)
		// The reply holds the header and the register/value pairs only.
		// Hosts that expect a length of 8+2n see two bytes fewer.
		if ok {
			m.Len = multiHeaderLen + 2*n
		} else {
			m.Data[5] = 0
			m.Len = multiHeaderLen
		}
		return true

	case SubReadModifyWrite:
		reg, and, or := m.Data[5], m.Data[6], m.Data[7]
		v, err := h.readReg(t, reg)
		if err == nil {
			v = v&and | or
			err = h.writeReg(t, reg, v)
		}
		if err != nil {
			log.Debugf("Modify %s register %#02x: %v", t, reg, err)
		}
		replyHeader(m)
		m.Data[6] = v
		m.Data[7] = boolByte(err == nil)
		m.Len = 8
		return true

	default:
		log.Debugf("Unhandled sensor command %#02x", m.Data[3])
		return false
	}
}

func sendName(m *Msg, name string) {
	replyHeader(m)
	m.Len = sensorReplyHeaderLen + copy(m.Data[sensorReplyHeaderLen:], name)
}

func (h *Handler) readReg(t SensorType, reg uint8) (uint8, error) {
	c, err := h.selected(t)
	if err != nil {
		return 0, err
	}
	if t.motion() {
		return h.board.MotionReadRegister(c.instance, reg)
	}
	return h.board.EnvReadRegister(c.instance, reg)
}

func (h *Handler) writeReg(t SensorType, reg, val uint8) error {
	c, err := h.selected(t)
	if err != nil {
		return err
	}
	if t.motion() {
		return h.board.MotionWriteRegister(c.instance, reg, val)
	}
	return h.board.EnvWriteRegister(c.instance, reg, val)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
