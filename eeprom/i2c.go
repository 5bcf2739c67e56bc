package eeprom

import (
	"fmt"
	"time"

	"github.com/kidoman/embd"
)

const (
	// 7 bit bus addresses of the two chips. The second chip answers on the
	// base address plus one.
	chipBaseAddress = 0x54

	// a page write needs this long to land before the chip acks again
	writeCycleTime = 5 * time.Millisecond
)

// I2CDevice talks the Device contract to the two real chips over an embd
// I2C bus. Every transfer starts with the 16 bit in-chip offset, high byte
// first, which is all the address register the chips have; SplitAddress
// supplies the chip select.
type I2CDevice struct {
	bus embd.I2CBus
}

func NewI2CDevice(bus embd.I2CBus) *I2CDevice {

	return &I2CDevice{bus: bus}

}

func chipAddress(chip int) byte {

	return byte(chipBaseAddress + chip)

}

func (d *I2CDevice) WritePage(page int, data []byte) error {

	if err := checkPage(page); err != nil {
		return err
	}

	if len(data) > PageSize {

		return fmt.Errorf("page write of %d bytes exceeds page size %d", len(data), PageSize)

	}

	return d.WriteAt(PageAddress(page), data)
}

func (d *I2CDevice) ReadPage(page int) ([]byte, error) {

	if err := checkPage(page); err != nil {
		return nil, err
	}

	chip, offset := SplitAddress(PageAddress(page))

	if err := d.setReadAddress(chip, offset); err != nil {

		return nil, err

	}

	buf, err := d.bus.ReadBytes(chipAddress(chip), PageSize)

	if err != nil {

		return nil, fmt.Errorf("failed to read page %d: %v", page, err)

	}

	return buf, nil
}

func (d *I2CDevice) ReadByte(addr uint32) (byte, error) {

	if err := checkAddr(addr, 1); err != nil {
		return 0, err
	}

	chip, offset := SplitAddress(addr)

	if err := d.setReadAddress(chip, offset); err != nil {

		return 0, err

	}

	return d.bus.ReadByte(chipAddress(chip))
}

func (d *I2CDevice) WriteAt(addr uint32, data []byte) error {

	if err := checkAddr(addr, len(data)); err != nil {
		return err
	}

	chip, offset := SplitAddress(addr)

	frame := make([]byte, 0, 2+len(data))

	frame = append(frame, byte(offset>>8), byte(offset))

	frame = append(frame, data...)

	if err := d.bus.WriteBytes(chipAddress(chip), frame); err != nil {

		return fmt.Errorf("failed to write %d bytes at %d: %v", len(data), addr, err)

	}

	time.Sleep(writeCycleTime)

	return nil
}

// setReadAddress points the chip's internal address counter at offset by
// doing an address-only write.
func (d *I2CDevice) setReadAddress(chip int, offset uint16) error {

	if err := d.bus.WriteBytes(chipAddress(chip), []byte{byte(offset >> 8), byte(offset)}); err != nil {

		return fmt.Errorf("failed to set read address %d on chip %d: %v", offset, chip, err)

	}

	return nil
}

func (d *I2CDevice) Close() error {

	return d.bus.Close()

}
