package i2c

import "fmt"

// A Device is typically a *sysfs.I2cDevice (gobot.io/x/gobot/sysfs).
type Device interface {
	SetAddress(address int) error
	ReadByteData(reg uint8) (val uint8, err error)
	ReadWordData(reg uint8) (val uint16, err error)
	WriteByteData(reg, val uint8) error
}

// A Bus reads and writes runs of consecutive registers on a single
// peripheral. Implementations exist for the gobot sysfs device, periph.io
// I2C and SPI connections and embd I2C buses.
type Bus interface {
	ReadRegs(reg uint8, buf []byte) error
	WriteRegs(reg uint8, data []byte) error
}

// Reader latches the first error seen, so that a sequence of register reads
// can be checked once at the end.
type Reader struct {
	bus   Bus
	error error
}

func NewReader(bus Bus) *Reader {
	return &Reader{bus: bus}
}

func (r *Reader) Error() error {
	return r.error
}

func (r *Reader) Reset() {
	r.error = nil
}

// Read returns the value of each given register, reading them in reverse
// order. Listing the high byte first thus reads the low byte first.
func (r *Reader) Read(regs ...uint8) ([]byte, error) {
	res := make([]byte, len(regs))

	for i := len(regs) - 1; i >= 0; i-- {
		if err := r.bus.ReadRegs(regs[i], res[i:i+1]); err != nil {
			return nil, fmt.Errorf("read byte register: %w", err)
		}
	}
	return res, nil
}

// Signed returns the registers as a big endian signed integer, most
// significant register first.
func (r *Reader) Signed(regs ...uint8) int {
	if r.error != nil {
		return 0
	}
	data, err := r.Read(regs...)
	if err != nil {
		r.error = err
		return 0
	}
	return signed(data)
}

func (r *Reader) Byte(reg uint8) int {
	if r.error != nil {
		return 0
	}
	var val [1]byte
	if err := r.bus.ReadRegs(reg, val[:]); err != nil {
		r.error = fmt.Errorf("read byte register: %w", err)
		return 0
	}
	return int(val[0])
}

// Block reads n consecutive registers starting at reg.
func (r *Reader) Block(reg uint8, n int) []byte {
	buf := make([]byte, n)
	if r.error != nil {
		return buf
	}
	if err := r.bus.ReadRegs(reg, buf); err != nil {
		r.error = fmt.Errorf("read block at %#02x: %w", reg, err)
	}
	return buf
}

func signed(data []byte) int {
	res := int(int8(data[0]))
	for _, val := range data[1:] {
		res <<= 8
		res |= int(val)
	}
	return res
}
