package i2c

import (
	"fmt"
	"sync"
)

// DeviceBus addresses one peripheral on a shared Device. The address is set
// before every transfer since other drivers may use the same Device.
type DeviceBus struct {
	dev  Device
	addr int
	mut  sync.Mutex
}

func NewDeviceBus(dev Device, addr int) *DeviceBus {
	return &DeviceBus{dev: dev, addr: addr}
}

func (b *DeviceBus) ReadRegs(reg uint8, buf []byte) error {
	b.mut.Lock()
	defer b.mut.Unlock()

	if err := b.dev.SetAddress(b.addr); err != nil {
		return fmt.Errorf("set device address: %w", err)
	}
	for i := range buf {
		val, err := b.dev.ReadByteData(reg + uint8(i))
		if err != nil {
			return fmt.Errorf("read byte register %#02x: %w", reg+uint8(i), err)
		}
		buf[i] = val
	}
	return nil
}

func (b *DeviceBus) WriteRegs(reg uint8, data []byte) error {
	b.mut.Lock()
	defer b.mut.Unlock()

	if err := b.dev.SetAddress(b.addr); err != nil {
		return fmt.Errorf("set device address: %w", err)
	}
	for i, val := range data {
		if err := b.dev.WriteByteData(reg+uint8(i), val); err != nil {
			return fmt.Errorf("write byte register %#02x: %w", reg+uint8(i), err)
		}
	}
	return nil
}
