package datalog

import (
	"fmt"

	"airlogx/eeprom"
)

// Reserved page layout. Pages 0..23 never rotate; the counter and the three
// text pages live at these fixed indexes and everything from dataPageBase up
// is the circular record area.
const (
	entryCountPage = 12

	headerPage = 21

	infoPage = 22

	titlesPage = 23

	dataPageBase = 24

	// MaxEntries is how many records fit before the log wraps.
	MaxEntries = eeprom.TotalPages - dataPageBase
)

// The persisted counter carries this tag bit so an initialized zero count
// can be told apart from an erased page. Mask recovers the count.
const (
	countTag = 0x1000

	countMask = 0x0FFF
)

const headerText = "Kitronik Data Logger - Air Quality & Environmental Board for BBC micro:bit - www.kitronik.co.uk"

// metaStore owns the reserved pages: the fixed header, the free form project
// info, the active column titles and the two byte entry counter.
type metaStore struct {
	dev eeprom.Device
}

func (m metaStore) writeHeader() error {

	return m.dev.WritePage(headerPage, packPage(headerText+lineEnd))

}

func (m metaStore) writeProjectInfo(name, subject string) error {

	info := "Name: " + name + lineEnd + "Subject: " + subject + lineEnd

	return m.dev.WritePage(infoPage, packPage(info))
}

// writeTitles is idempotent for a given config: same toggles and delimiter
// produce byte identical page content.
func (m metaStore) writeTitles(cfg Config) error {

	return m.dev.WritePage(titlesPage, packPage(formatTitles(cfg)))

}

// readEntryCount reads the persisted counter. present is false when the
// counter page has never been written since the last erase.
func (m metaStore) readEntryCount() (uint16, bool, error) {

	addr := eeprom.PageAddress(entryCountPage)

	hi, err := m.dev.ReadByte(addr)

	if err != nil {

		return 0, false, fmt.Errorf("failed to read entry count: %v", err)

	}

	lo, err := m.dev.ReadByte(addr + 1)

	if err != nil {

		return 0, false, fmt.Errorf("failed to read entry count: %v", err)

	}

	raw := uint16(hi)<<8 | uint16(lo)

	// an erased page reads back all ones, which also carries the tag bit
	if raw == 0xFFFF || raw&countTag == 0 {

		return 0, false, nil

	}

	return raw & countMask, true, nil
}

// writeEntryCount persists the counter with the tag bit set, big endian, as
// a raw two byte write so the rest of the page is left alone.
func (m metaStore) writeEntryCount(count uint16) error {

	tagged := count | countTag

	data := []byte{byte(tagged >> 8), byte(tagged)}

	return m.dev.WriteAt(eeprom.PageAddress(entryCountPage), data)
}
