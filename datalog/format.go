package datalog

import (
	"strconv"
	"strings"

	"airlogx/models"
)

// Every stored line ends with CR LF and then the sentinel byte. The sentinel
// is the pound sign of the board's character set; a reader trims the page at
// the first sentinel to drop the stale bytes behind it.
const (
	lineEnd = "\r\n"

	sentinel = 0xA3

	blankByte = 0xFF
)

// fieldValue renders one field of a snapshot in the selected unit.
// Fahrenheit keeps the firmware's integer convention: the raw Celsius value
// scaled through (raw*18+320)/10.
func fieldValue(cfg Config, f Field, r models.Readings) string {

	switch f {

	case FieldDate:
		return r.Date

	case FieldTime:
		return r.Time

	case FieldTemperature:

		if cfg.TempUnit == UnitFahrenheit {

			return strconv.Itoa((r.Temperature*18 + 320) / 10)

		}

		return strconv.Itoa(r.Temperature)

	case FieldPressure:

		if cfg.PressUnit == UnitMillibar {

			return strconv.Itoa(r.Pressure / 100)

		}

		return strconv.Itoa(r.Pressure)

	case FieldHumidity:
		return strconv.Itoa(r.Humidity)

	case FieldIAQ:
		return strconv.Itoa(r.IAQ)

	case FieldECO2:
		return strconv.Itoa(r.ECO2)

	case FieldLight:
		return strconv.Itoa(r.Light)

	}

	return ""
}

// formatRecord joins the enabled fields, in canonical order, each followed
// by the delimiter, and terminates the line. Disabled fields contribute
// nothing, not even an empty slot.
func formatRecord(cfg Config, r models.Readings) string {

	var sb strings.Builder

	for f := Field(0); f < numFields; f++ {

		if !cfg.Include[f] {

			continue

		}

		sb.WriteString(fieldValue(cfg, f, r))

		sb.WriteByte(cfg.Delimiter)

	}

	sb.WriteString(lineEnd)

	return sb.String()
}

// formatTitles builds the column title line with the same inclusion filter
// and ordering as formatRecord, so columns line up as long as the same
// config was active at both title time and record time.
func formatTitles(cfg Config) string {

	var sb strings.Builder

	for f := Field(0); f < numFields; f++ {

		if !cfg.Include[f] {

			continue

		}

		sb.WriteString(f.String())

		sb.WriteByte(cfg.Delimiter)

	}

	sb.WriteString(lineEnd)

	return sb.String()
}

// packPage turns a terminated line into page content by appending the
// sentinel byte.
func packPage(line string) []byte {

	buf := make([]byte, 0, len(line)+1)

	buf = append(buf, line...)

	buf = append(buf, sentinel)

	return buf
}

// trimAtSentinel cuts page content at the first sentinel, dropping it and
// everything behind it. A blank byte ends the content too, so an erased
// page decodes as empty. A page with neither comes back whole.
func trimAtSentinel(page []byte) []byte {

	for i, b := range page {

		if b == sentinel || b == blankByte {

			return page[:i]

		}
	}

	return page
}
