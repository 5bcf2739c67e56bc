package server

import (
	"path/filepath"
	"strings"
	"testing"

	"airlogx/datalog"
	"airlogx/eeprom"
	"airlogx/models"
)

func newTestLogger(t *testing.T) *datalog.Logger {

	t.Helper()

	dev, err := eeprom.NewFileDevice(filepath.Join(t.TempDir(), "eeprom.img"))

	if err != nil {
		t.Fatalf("Failed to create device: %v", err)
	}

	t.Cleanup(func() { dev.Close() })

	return datalog.New(dev, datalog.DefaultConfig(), nil)
}

func sampleReadings(light int) models.Readings {

	return models.Readings{

		Date: "14/03/26",

		Time: "09:30:00",

		Temperature: 21,

		Pressure: 101100,

		Humidity: 50,

		IAQ: 85,

		ECO2: 420,

		Light: light,
	}
}

func TestHandleQuery(t *testing.T) {

	lg := newTestLogger(t)

	cache, err := newEntryCache()

	if err != nil {
		t.Fatalf("newEntryCache: %v", err)
	}

	for i := 0; i < 3; i++ {

		if err := lg.LogData(sampleReadings(i)); err != nil {
			t.Fatalf("LogData: %v", err)
		}
	}

	testCases := []struct {
		name    string
		query   models.Query
		entries int
		lines   int // 0 means don't check
		isError bool
	}{
		{name: "count", query: models.Query{QueryID: 1, Op: models.OpCount}, entries: 3},
		{name: "dump", query: models.Query{QueryID: 2, Op: models.OpDump}, entries: 3, lines: 7},
		{name: "unknown op", query: models.Query{QueryID: 3, Op: "bogus"}, isError: true},
		{name: "erase", query: models.Query{QueryID: 4, Op: models.OpErase}},
		{name: "count after erase", query: models.Query{QueryID: 5, Op: models.OpCount}, entries: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {

			response := handleQuery(lg, cache, tc.query)

			if response.QueryID != tc.query.QueryID {
				t.Errorf("QueryID = %d, want %d", response.QueryID, tc.query.QueryID)
			}

			if tc.isError && response.Error == "" {
				t.Error("expected an error in the response")
			}

			if !tc.isError && response.Error != "" {
				t.Errorf("unexpected error: %s", response.Error)
			}

			if response.Entries != tc.entries {
				t.Errorf("Entries = %d, want %d", response.Entries, tc.entries)
			}

			if tc.lines > 0 && len(response.Lines) != tc.lines {
				t.Errorf("got %d lines, want %d: %q", len(response.Lines), tc.lines, response.Lines)
			}
		})
	}
}

func TestDumpServedFromCacheMatchesStore(t *testing.T) {

	lg := newTestLogger(t)

	cache, err := newEntryCache()

	if err != nil {
		t.Fatalf("newEntryCache: %v", err)
	}

	for i := 0; i < 5; i++ {

		if err := lg.LogData(sampleReadings(i)); err != nil {
			t.Fatalf("LogData: %v", err)
		}
	}

	first := dumpResponse(lg, cache, 1)

	if first.Error != "" {
		t.Fatalf("dump error: %s", first.Error)
	}

	// second dump hits the cache; content must be identical
	second := dumpResponse(lg, cache, 2)

	if strings.Join(first.Lines, "\n") != strings.Join(second.Lines, "\n") {
		t.Error("cached dump differs from direct dump")
	}

	// a write moves the generation, so the next dump sees the new record
	if err := lg.LogData(sampleReadings(99)); err != nil {
		t.Fatalf("LogData: %v", err)
	}

	third := dumpResponse(lg, cache, 3)

	if len(third.Lines) != len(second.Lines)+1 {
		t.Errorf("dump after write has %d lines, want %d", len(third.Lines), len(second.Lines)+1)
	}

	last := third.Lines[len(third.Lines)-1]

	if !strings.Contains(last, ";99;") {
		t.Errorf("last line = %q, want the new record", last)
	}
}
