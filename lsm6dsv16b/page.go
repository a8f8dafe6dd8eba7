package lsm6dsv16b

import (
	"errors"
	"fmt"
)

// PageWrite writes data to the embedded advanced feature pages starting at
// address. Bits 8-11 of the address select the page.
func (d *Device) PageWrite(address uint16, data []byte) error {
	return d.pageAccess(fldPageWrite, address, len(data), func(i int) error {
		return d.writeReg(embPageValue, data[i])
	})
}

// PageRead fills buf from the embedded advanced feature pages starting at
// address.
func (d *Device) PageRead(address uint16, buf []byte) error {
	return d.pageAccess(fldPageRead, address, len(buf), func(i int) error {
		v, err := d.readReg(embPageValue)
		buf[i] = v
		return err
	})
}

func (d *Device) pageAccess(dir field, address uint16, n int, fn func(i int) error) error {
	return d.withEmbedded(func() (err error) {
		if err := d.update(embPageRW, func(v uint8) uint8 {
			v = fldPageRead.set(v, 0)
			v = fldPageWrite.set(v, 0)
			return dir.set(v, 1)
		}); err != nil {
			return fmt.Errorf("page access mode: %w", err)
		}
		defer func() {
			if rerr := d.closePage(); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}()

		msb := uint8(address>>8) & 0x0f
		lsb := uint8(address)
		if err := d.selectPage(msb); err != nil {
			return err
		}
		if err := d.writeReg(embPageAddress, lsb); err != nil {
			return fmt.Errorf("page address: %w", err)
		}

		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return fmt.Errorf("page value %#03x: %w", uint16(msb)<<8|uint16(lsb), err)
			}
			lsb++
			if lsb == 0 {
				// The address counter wrapped into the next page.
				msb++
				if err := d.selectPage(msb); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (d *Device) selectPage(page uint8) error {
	err := d.update(embPageSel, func(v uint8) uint8 {
		return fldPageSel.set(v, page) | 0x01
	})
	if err != nil {
		return fmt.Errorf("select page %d: %w", page, err)
	}
	return nil
}

func (d *Device) closePage() error {
	if err := d.selectPage(0); err != nil {
		return err
	}
	err := d.update(embPageRW, func(v uint8) uint8 {
		v = fldPageRead.set(v, 0)
		return fldPageWrite.set(v, 0)
	})
	if err != nil {
		return fmt.Errorf("page access mode: %w", err)
	}
	return nil
}

func (d *Device) pageReadByte(address uint16) (uint8, error) {
	var buf [1]byte
	err := d.PageRead(address, buf[:])
	return buf[0], err
}

func (d *Device) pageUpdate(address uint16, fn func(v uint8) uint8) error {
	v, err := d.pageReadByte(address)
	if err != nil {
		return err
	}
	return d.PageWrite(address, []byte{fn(v)})
}
