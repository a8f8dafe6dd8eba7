package datalog

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/calmh/imupi/iks4a1"
	log "github.com/sirupsen/logrus"
)

// DevAddr is the protocol address of this device.
const DevAddr = 50

// Commands.
const (
	CmdPing             = 0x01
	CmdPresString       = 0x02
	CmdNACK             = 0x03
	CmdCheckModeSupport = 0x04
	CmdStartStreaming   = 0x08
	CmdStopStreaming    = 0x09
	CmdSetDateTime      = 0x0c
	CmdEnterDFU         = 0x0e
	CmdEnableDisable    = 0x10
	CmdSensor           = 0x50

	CmdReply = 0x80
)

// ModeExtended is the DataLog mode announced in the presentation string
// and in the mode support reply.
const ModeExtended = 101

// Sensor enable bits, as sent with CmdStartStreaming and CmdEnableDisable.
const (
	EnablePressure      uint32 = 1 << 0
	EnableTemperature   uint32 = 1 << 1
	EnableHumidity      uint32 = 1 << 2
	EnableAccelerometer uint32 = 1 << 4
	EnableGyroscope     uint32 = 1 << 5
	EnableMagnetometer  uint32 = 1 << 6
)

var errNoSensor = errors.New("no sensor selected")

// PresentationString returns the identification sent in reply to
// CmdPresString.
func PresentationString(firmware, library string) string {
	return fmt.Sprintf("MEMS shield demo,%d,%s,%s,IKS4A1", ModeExtended, firmware, library)
}

// Handler executes protocol commands against the sensors of a board and
// produces the sample stream. It is safe for concurrent use.
type Handler struct {
	board   *iks4a1.Board
	pres    string
	sensors map[SensorType][]candidate
	current map[SensorType]int
	now     func() time.Time

	mu      sync.Mutex
	enabled uint32
	active  bool
	dest    byte
	started time.Time
}

// NewHandler returns a handler for the sensors on the board that the
// catalog knows about. The board instances are initialized through Init or
// through CmdSensor set index commands.
func NewHandler(b *iks4a1.Board, catalog Catalog, pres string) *Handler {
	h := &Handler{
		board:   b,
		pres:    pres,
		sensors: catalog.candidates(b),
		current: make(map[SensorType]int),
		now:     time.Now,
		dest:    1,
	}
	for _, t := range sensorTypes {
		h.current[t] = -1
	}
	return h
}

// Init selects the first sensor of every type.
func (h *Handler) Init() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.board.Lock()
	defer h.board.Unlock()

	var errs []error
	for _, t := range sensorTypes {
		if len(h.sensors[t]) == 0 {
			continue
		}
		if err := h.selectSensor(t, 0); err != nil {
			errs = append(errs, fmt.Errorf("select %s: %w", t, err))
		}
	}
	return errors.Join(errs...)
}

// Active reports whether streaming is on.
func (h *Handler) Active() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

func (h *Handler) Enabled() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enabled
}

// Selected returns the name of the selected sensor of type t.
func (h *Handler) Selected(t SensorType) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c, err := h.selected(t)
	if err != nil {
		return "", false
	}
	return c.name, true
}

func replyHeader(m *Msg) {
	m.Data[0] = m.Data[1]
	m.Data[1] = DevAddr
	m.Data[2] += CmdReply
}

// Handle executes the command in m. When it returns true m has been
// replaced by the reply to send back.
func (h *Handler) Handle(m *Msg) bool {
	if m.Len < 2 || m.Data[0] != DevAddr {
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.board.Lock()
	defer h.board.Unlock()

	switch m.Data[2] {
	case CmdPing:
		if m.Len != 3 {
			return false
		}
		replyHeader(m)
		m.Len = 3
		return true

	case CmdEnterDFU:
		if m.Len != 3 {
			return false
		}
		log.Infoln("Firmware update mode requested; not supported")
		replyHeader(m)
		m.Len = 3
		return false

	case CmdPresString:
		if m.Len != 3 {
			return false
		}
		replyHeader(m)
		m.Len = 3 + copy(m.Data[3:], h.pres)
		return true

	case CmdCheckModeSupport:
		if m.Len < 3 {
			return false
		}
		replyHeader(m)
		SerializeS32(m.Data[3:], ModeExtended, 4)
		m.Len = 7
		return true

	case CmdSensor:
		if m.Len < 5 {
			return false
		}
		return h.sensorCommand(m)

	case CmdStartStreaming:
		if m.Len < 3 {
			return false
		}
		h.setEnabled(Deserialize(m.Data[3:], 4))
		h.active = true
		h.started = h.now()
		h.dest = m.Data[1]
		log.Infof("Streaming started to %d, sensors %#x", h.dest, h.enabled)
		replyHeader(m)
		m.Len = 3
		return true

	case CmdStopStreaming:
		if m.Len < 3 {
			return false
		}
		h.setEnabled(0)
		h.active = false
		log.Infoln("Streaming stopped")
		replyHeader(m)
		return true

	case CmdEnableDisable:
		if m.Len < 4 {
			return false
		}
		h.setEnabled(Deserialize(m.Data[3:], 4))
		replyHeader(m)
		m.Len = 4
		return true

	case CmdSetDateTime:
		if m.Len < 3 {
			return false
		}
		// The host clock is owned by the operating system.
		log.Debugf("Host time %02d:%02d:%02d", m.Data[3], m.Data[4], m.Data[5])
		replyHeader(m)
		m.Len = 3
		return true

	default:
		log.Debugf("Unhandled command %#02x", m.Data[2])
		return false
	}
}

// setEnabled enables the selected sensors named in mask and disables the
// others.
func (h *Handler) setEnabled(mask uint32) {
	if mask == h.enabled {
		return
	}
	h.enabled = mask
	for _, t := range sensorTypes {
		c, err := h.selected(t)
		if err != nil {
			continue
		}
		on := mask&enableBit(t) != 0
		if err := h.enable(t, c, on); err != nil {
			log.Warnf("Enable %s %s: %v", c.name, t, err)
		}
	}
}

func (h *Handler) enable(t SensorType, c candidate, on bool) error {
	f := t.function()
	switch {
	case t.motion() && on:
		return h.board.MotionEnable(c.instance, f)
	case t.motion():
		return h.board.MotionDisable(c.instance, f)
	case on:
		return h.board.EnvEnable(c.instance, f)
	default:
		return h.board.EnvDisable(c.instance, f)
	}
}

func (h *Handler) selected(t SensorType) (candidate, error) {
	idx, ok := h.current[t]
	if !ok || idx < 0 {
		return candidate{}, fmt.Errorf("%s: %w", t, errNoSensor)
	}
	return h.sensors[t][idx], nil
}

// selectSensor makes the idx'th candidate the sensor of type t, disabling
// the previous one and initializing the new one with the function added.
func (h *Handler) selectSensor(t SensorType, idx int) error {
	list := h.sensors[t]
	if idx < 0 || idx >= len(list) {
		return fmt.Errorf("%s index %d: %w", t, idx, iks4a1.ErrWrongParam)
	}
	next := list[idx]
	cur := h.current[t]
	if cur == idx {
		return nil
	}
	if cur >= 0 {
		if err := h.enable(t, list[cur], false); err != nil {
			return fmt.Errorf("disable %s: %w", list[cur].name, err)
		}
	}

	f := t.function()
	if t.motion() {
		have, _ := h.board.MotionFunctions(next.instance)
		if have&f == 0 {
			if err := h.board.MotionInit(next.instance, have|f); err != nil {
				return err
			}
		}
	} else {
		have, _ := h.board.EnvFunctions(next.instance)
		if have&f == 0 {
			if err := h.board.EnvInit(next.instance, have|f); err != nil {
				return err
			}
		}
	}
	h.current[t] = idx
	log.Debugf("Selected %s %s", next.name, t)
	return nil
}
