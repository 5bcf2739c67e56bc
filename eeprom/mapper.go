package eeprom

// The store is two 64KiB EEPROM chips presented as one flat page range.
// Each chip only exposes a 16 bit address register, so bit 16 of the flat
// byte address picks the chip.

const (
	PageSize = 128 // bytes per page

	TotalPages = 1024 // page 0 .. page 1023 across both chips

	TotalBytes = PageSize * TotalPages

	chipSpan = 1 << 16 // addressable bytes per chip
)

// PageAddress converts a logical page index into the flat byte address of
// the first byte of that page. Callers must keep page inside [0, TotalPages).
func PageAddress(page int) uint32 {

	return uint32(page) * PageSize

}

// SplitAddress splits a flat byte address into the chip select (0 or 1) and
// the 16 bit offset inside that chip.
func SplitAddress(addr uint32) (chip int, offset uint16) {

	chip = int(addr >> 16)

	offset = uint16(addr & 0xFFFF)

	return chip, offset

}
