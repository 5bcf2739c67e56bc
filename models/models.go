package models

// Readings is one snapshot of every value the board can log. Numeric values
// stay in the raw units the sensors report (whole °C, Pa, %, ppm); unit
// conversion happens at format time.
type Readings struct {
	Date string `json:"date"` // DD/MM/YY

	Time string `json:"time"` // HH:MM:SS

	Temperature int `json:"temperature"`

	Pressure int `json:"pressure"`

	Humidity int `json:"humidity"`

	IAQ int `json:"iaq"`

	ECO2 int `json:"eco2"`

	Light int `json:"light"`
}

// Operations accepted over the replay link.
const (
	OpDump = "dump"

	OpCount = "count"

	OpErase = "erase"
)

type Query struct {
	QueryID uint64 `json:"query_id"`

	Op string `json:"op"`
}

type QueryResponse struct {
	QueryID uint64 `json:"query_id"`

	Entries int `json:"entries"`

	Full bool `json:"full"`

	Lines []string `json:"lines,omitempty"`

	Error string `json:"error,omitempty"`
}
