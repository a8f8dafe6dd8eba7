package i2c

import "github.com/kidoman/embd"

// EmbdBus talks to one peripheral on an embd I2C bus. The host driver must
// be registered by the caller, typically by importing
// github.com/kidoman/embd/host/rpi.
type EmbdBus struct {
	bus  embd.I2CBus
	addr byte
}

func NewEmbdBus(bus embd.I2CBus, addr byte) *EmbdBus {
	return &EmbdBus{bus: bus, addr: addr}
}

func (b *EmbdBus) ReadRegs(reg uint8, buf []byte) error {
	return b.bus.ReadFromReg(b.addr, reg, buf)
}

func (b *EmbdBus) WriteRegs(reg uint8, data []byte) error {
	return b.bus.WriteToReg(b.addr, reg, data)
}

func (b *EmbdBus) Close() error {
	return b.bus.Close()
}
