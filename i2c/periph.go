package i2c

import (
	pi2c "periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/spi"
)

// PeriphBus is a register bus over a periph.io I2C device.
type PeriphBus struct {
	dev *pi2c.Dev
}

func NewPeriphBus(bus pi2c.Bus, addr uint16) *PeriphBus {
	return &PeriphBus{dev: &pi2c.Dev{Bus: bus, Addr: addr}}
}

func (b *PeriphBus) ReadRegs(reg uint8, buf []byte) error {
	return b.dev.Tx([]byte{reg}, buf)
}

func (b *PeriphBus) WriteRegs(reg uint8, data []byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	w = append(w, data...)
	return b.dev.Tx(w, nil)
}

// SPIBus is a register bus over a four wire SPI connection, using the ST
// convention of setting bit 7 of the address byte on reads.
type SPIBus struct {
	conn spi.Conn
}

func NewSPIBus(conn spi.Conn) *SPIBus {
	return &SPIBus{conn: conn}
}

func (b *SPIBus) ReadRegs(reg uint8, buf []byte) error {
	w := make([]byte, len(buf)+1)
	r := make([]byte, len(buf)+1)
	w[0] = reg | 0x80
	if err := b.conn.Tx(w, r); err != nil {
		return err
	}
	copy(buf, r[1:])
	return nil
}

func (b *SPIBus) WriteRegs(reg uint8, data []byte) error {
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg&0x7f)
	w = append(w, data...)
	r := make([]byte, len(w))
	return b.conn.Tx(w, r)
}
