package eeprom

import (
	"fmt"
)

// BlankByte is the value every cell holds after an erase.
const BlankByte = 0xFF

// Device is the page level contract the logger writes through. A page write
// never spans pages and a short write leaves the tail of the page untouched,
// so stale bytes from an earlier record stay behind the new one.
type Device interface {

	// WritePage writes data at the start of the given page. len(data) must
	// not exceed PageSize.
	WritePage(page int, data []byte) error

	// ReadPage returns the full PageSize bytes of the given page.
	ReadPage(page int) ([]byte, error)

	// ReadByte reads one byte at a flat byte address.
	ReadByte(addr uint32) (byte, error)

	// WriteAt writes a small raw buffer at a flat byte address. Used for the
	// two byte counter update, never for record data.
	WriteAt(addr uint32, data []byte) error

	Close() error
}

func checkPage(page int) error {

	if page < 0 || page >= TotalPages {

		return fmt.Errorf("page %d out of range [0,%d)", page, TotalPages)

	}

	return nil
}

func checkAddr(addr uint32, n int) error {

	if addr+uint32(n) > TotalBytes {

		return fmt.Errorf("address %d+%d past end of store", addr, n)

	}

	return nil
}

// FileDevice keeps the whole store in one memory mapped image file with the
// exact on-chip layout. It is the default backend for the daemon and the
// only backend the tests use.
type FileDevice struct {
	mapped *MappedFile
}

// NewFileDevice opens (or creates) an image file of exactly TotalBytes. A
// freshly created image is filled with the blank byte, same as a new chip.
func NewFileDevice(path string) (*FileDevice, error) {

	mapped, created, err := openMappedFile(path, TotalBytes)

	if err != nil {

		return nil, fmt.Errorf("failed to open eeprom image: %v", err)

	}

	if created {

		blank := make([]byte, TotalBytes)

		for i := range blank {

			blank[i] = BlankByte

		}

		if _, err := mapped.WriteAt(blank, 0); err != nil {

			mapped.syncAndClose()

			return nil, fmt.Errorf("failed to blank new eeprom image: %v", err)

		}

	}

	return &FileDevice{mapped: mapped}, nil
}

func (d *FileDevice) WritePage(page int, data []byte) error {

	if err := checkPage(page); err != nil {
		return err
	}

	if len(data) > PageSize {

		return fmt.Errorf("page write of %d bytes exceeds page size %d", len(data), PageSize)

	}

	_, err := d.mapped.WriteAt(data, int64(PageAddress(page)))

	return err
}

func (d *FileDevice) ReadPage(page int) ([]byte, error) {

	if err := checkPage(page); err != nil {
		return nil, err
	}

	buf := make([]byte, PageSize)

	if _, err := d.mapped.ReadAt(buf, int64(PageAddress(page))); err != nil {

		return nil, err

	}

	return buf, nil
}

func (d *FileDevice) ReadByte(addr uint32) (byte, error) {

	if err := checkAddr(addr, 1); err != nil {
		return 0, err
	}

	buf := make([]byte, 1)

	if _, err := d.mapped.ReadAt(buf, int64(addr)); err != nil {

		return 0, err

	}

	return buf[0], nil
}

func (d *FileDevice) WriteAt(addr uint32, data []byte) error {

	if err := checkAddr(addr, len(data)); err != nil {
		return err
	}

	_, err := d.mapped.WriteAt(data, int64(addr))

	return err
}

func (d *FileDevice) Close() error {

	return d.mapped.syncAndClose()

}
