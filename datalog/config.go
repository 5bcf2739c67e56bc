package datalog

import (
	"fmt"
)

// Field identifies one loggable column. The declaration order is the
// canonical column order and never changes.
type Field int

const (
	FieldDate Field = iota

	FieldTime

	FieldTemperature

	FieldPressure

	FieldHumidity

	FieldIAQ

	FieldECO2

	FieldLight

	numFields
)

var fieldTitles = [numFields]string{

	"Date",

	"Time",

	"Temperature",

	"Pressure",

	"Humidity",

	"IAQ Score",

	"eCO2",

	"Light",
}

func (f Field) String() string {

	if f < 0 || f >= numFields {

		return fmt.Sprintf("Field(%d)", int(f))

	}

	return fieldTitles[f]
}

// FieldByName resolves a column title (as used in config files) back to its
// Field. The match is exact.
func FieldByName(name string) (Field, error) {

	for f := Field(0); f < numFields; f++ {

		if fieldTitles[f] == name {

			return f, nil

		}
	}

	return 0, fmt.Errorf("unknown field %q", name)
}

type TemperatureUnit int

const (
	UnitCelsius TemperatureUnit = iota

	UnitFahrenheit
)

type PressureUnit int

const (
	UnitPascals PressureUnit = iota

	UnitMillibar
)

// the four separators the board firmware accepts
const (
	SeparatorSemicolon = ';'

	SeparatorTab = '\t'

	SeparatorComma = ','

	SeparatorSpace = ' '
)

// Config is the whole field inclusion state: eight toggles, two unit
// selectors and the delimiter. It is session state only, nothing here is
// persisted; callers re-apply it before logging starts.
type Config struct {
	Include [numFields]bool

	TempUnit TemperatureUnit

	PressUnit PressureUnit

	Delimiter byte
}

// DefaultConfig enables every column, Celsius, Pascals and the semicolon
// delimiter.
func DefaultConfig() Config {

	cfg := Config{Delimiter: SeparatorSemicolon}

	for f := range cfg.Include {

		cfg.Include[f] = true

	}

	return cfg
}

func ValidSeparator(d byte) bool {

	switch d {

	case SeparatorSemicolon, SeparatorTab, SeparatorComma, SeparatorSpace:

		return true

	default:

		return false

	}
}
