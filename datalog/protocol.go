// Package datalog speaks the ST DataLog serial protocol used by the
// Unicleo GUI: byte stuffed frames carrying commands to a device at
// address 50 and a stream of sensor samples back.
package datalog

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Frame control bytes.
const (
	EOF   = 0xf0
	BS    = 0xf1
	BSEOF = 0xf2
)

// MaxLen is the largest message, checksum included.
const MaxLen = 512

var (
	ErrChecksum = errors.New("checksum mismatch")
	ErrEscape   = errors.New("invalid escape sequence")
	ErrTooLong  = errors.New("message too long")
	ErrEmpty    = errors.New("empty message")
)

// Msg is a protocol message. Data[0] is the destination address, Data[1]
// the source address and Data[2] the command.
type Msg struct {
	Data [MaxLen]byte
	Len  int
}

// NewMsg returns a message holding b.
func NewMsg(b ...byte) *Msg {
	var m Msg
	m.Len = copy(m.Data[:], b)
	return &m
}

func (m *Msg) Bytes() []byte {
	return m.Data[:m.Len]
}

func (m *Msg) String() string {
	return fmt.Sprintf("% x", m.Bytes())
}

// Encode returns the byte stuffed frame of the message followed by its
// checksum, terminated by EOF. The message is not modified.
func Encode(m *Msg) []byte {
	var chk byte
	out := make([]byte, 0, 2*(m.Len+1)+1)
	for _, b := range m.Bytes() {
		chk -= b
		out = stuff(out, b)
	}
	out = stuff(out, chk)
	return append(out, EOF)
}

func stuff(out []byte, b byte) []byte {
	switch b {
	case EOF:
		return append(out, BS, BSEOF)
	case BS:
		return append(out, BS, BS)
	}
	return append(out, b)
}

// Decode reverses the byte stuffing of a frame, with or without its
// terminating EOF, and verifies and strips the checksum.
func Decode(frame []byte) (*Msg, error) {
	if n := len(frame); n > 0 && frame[n-1] == EOF {
		frame = frame[:n-1]
	}

	var m Msg
	escaped := false
	for _, b := range frame {
		if b == EOF {
			return nil, ErrEscape
		}
		if !escaped && b == BS {
			escaped = true
			continue
		}
		if escaped {
			switch b {
			case BS:
			case BSEOF:
				b = EOF
			default:
				return nil, ErrEscape
			}
			escaped = false
		}
		if m.Len == MaxLen {
			return nil, ErrTooLong
		}
		m.Data[m.Len] = b
		m.Len++
	}
	if escaped {
		return nil, ErrEscape
	}
	if m.Len == 0 {
		return nil, ErrEmpty
	}

	var sum byte
	for _, b := range m.Bytes() {
		sum += b
	}
	if sum != 0 {
		return nil, ErrChecksum
	}
	m.Len--
	return &m, nil
}

// Serialize stores the low n bytes of v at dst, least significant first.
func Serialize(dst []byte, v uint32, n int) {
	for i := 0; i < n; i++ {
		dst[i] = byte(v)
		v >>= 8
	}
}

// Deserialize reads an n byte little endian value from src.
func Deserialize(src []byte, n int) uint32 {
	var v uint32
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint32(src[i])
	}
	return v
}

func SerializeS32(dst []byte, v int32, n int) {
	Serialize(dst, uint32(v), n)
}

// DeserializeS32 reads an n byte little endian value from src and sign
// extends it.
func DeserializeS32(src []byte, n int) int32 {
	v := Deserialize(src, n)
	if n < 4 {
		shift := uint(32 - 8*n)
		return int32(v<<shift) >> shift
	}
	return int32(v)
}

func putFloat(dst []byte, f float32) {
	binary.LittleEndian.PutUint32(dst, math.Float32bits(f))
}

func getFloat(src []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(src))
}
