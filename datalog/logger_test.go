package datalog

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"airlogx/eeprom"
	"airlogx/models"
)

func newTestLogger(t *testing.T) (*Logger, eeprom.Device) {

	t.Helper()

	dev, err := eeprom.NewFileDevice(filepath.Join(t.TempDir(), "eeprom.img"))

	if err != nil {
		t.Fatalf("Failed to create device: %v", err)
	}

	t.Cleanup(func() { dev.Close() })

	return New(dev, DefaultConfig(), nil), dev
}

func mustLog(t *testing.T, lg *Logger, r models.Readings) {

	t.Helper()

	if err := lg.LogData(r); err != nil {
		t.Fatalf("LogData: %v", err)
	}
}

func TestCountGrowsUntilFull(t *testing.T) {

	lg, _ := newTestLogger(t)

	for i := 0; i < 5; i++ {

		mustLog(t, lg, testReadings)

		count, full, err := lg.Count()

		if err != nil {
			t.Fatalf("Count: %v", err)
		}

		if count != i+1 || full {
			t.Fatalf("after %d records: count=%d full=%v", i+1, count, full)
		}
	}
}

func TestTransmitFreshStore(t *testing.T) {

	lg, _ := newTestLogger(t)

	if err := lg.SetProjectInfo("Class 4B", "Air quality"); err != nil {
		t.Fatalf("SetProjectInfo: %v", err)
	}

	for i := 0; i < 3; i++ {
		mustLog(t, lg, testReadings)
	}

	var buf bytes.Buffer

	if err := lg.SendAllData(&buf); err != nil {
		t.Fatalf("SendAllData: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")

	// header + two info lines + titles + three records
	if len(lines) != 7 {
		t.Fatalf("got %d lines: %q", len(lines), lines)
	}

	if !strings.HasPrefix(lines[0], "Kitronik Data Logger") {
		t.Errorf("header line = %q", lines[0])
	}

	if lines[1] != "Name: Class 4B" || lines[2] != "Subject: Air quality" {
		t.Errorf("info lines = %q %q", lines[1], lines[2])
	}

	if lines[3] != "Date;Time;Temperature;Pressure;Humidity;IAQ Score;eCO2;Light;" {
		t.Errorf("titles line = %q", lines[3])
	}

	for i := 4; i < 7; i++ {

		if lines[i] != "14/03/26;09:30:00;25;101325;48;92;450;180;" {
			t.Errorf("record line %d = %q", i, lines[i])
		}
	}
}

func TestWrapAroundAtCapacity(t *testing.T) {

	lg, dev := newTestLogger(t)

	for i := 0; i < MaxEntries; i++ {

		r := testReadings

		r.Light = i % 256

		mustLog(t, lg, r)
	}

	count, full, err := lg.Count()

	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if count != MaxEntries || !full {
		t.Fatalf("after %d records: count=%d full=%v", MaxEntries, count, full)
	}

	before, err := lg.ReadEntry(0)

	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}

	// one more record must land on the oldest slot
	r := testReadings

	r.Temperature = -7

	mustLog(t, lg, r)

	after, err := lg.ReadEntry(0)

	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}

	if after == before {
		t.Error("record 1001 did not overwrite slot 0")
	}

	if !strings.Contains(after, ";-7;") {
		t.Errorf("slot 0 after wrap = %q", after)
	}

	// store stays full and the transmitter still sends every slot
	count, full, err = lg.Count()

	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if count != MaxEntries || !full {
		t.Errorf("after wrap: count=%d full=%v", count, full)
	}

	// persisted counter is back to slot 1
	m := metaStore{dev: dev}

	persisted, present, err := m.readEntryCount()

	if err != nil || !present {
		t.Fatalf("readEntryCount: %v present=%v", err, present)
	}

	if persisted != 1 {
		t.Errorf("persisted count after wrap = %d, want 1", persisted)
	}
}

func TestEraseResetsEverything(t *testing.T) {

	lg, dev := newTestLogger(t)

	for i := 0; i < 4; i++ {
		mustLog(t, lg, testReadings)
	}

	if err := lg.EraseData(); err != nil {
		t.Fatalf("EraseData: %v", err)
	}

	m := metaStore{dev: dev}

	count, present, err := m.readEntryCount()

	if err != nil {
		t.Fatalf("readEntryCount: %v", err)
	}

	if present && count != 0 {
		t.Errorf("persisted count after erase = %d (present=%v), want 0", count, present)
	}

	// data pages really are blank again
	page, err := dev.ReadPage(24)

	if err != nil {
		t.Fatalf("ReadPage: %v", err)
	}

	for i, b := range page {
		if b != eeprom.BlankByte {
			t.Fatalf("page 24 byte %d = %#x after erase", i, b)
		}
	}

	// next session starts at slot zero
	mustLog(t, lg, testReadings)

	c, full, err := lg.Count()

	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if c != 1 || full {
		t.Errorf("after erase and one record: count=%d full=%v", c, full)
	}
}

func TestTitlesIdempotent(t *testing.T) {

	lg, dev := newTestLogger(t)

	mustLog(t, lg, testReadings)

	first, err := dev.ReadPage(23)

	if err != nil {
		t.Fatalf("ReadPage: %v", err)
	}

	m := metaStore{dev: dev}

	if err := m.writeTitles(DefaultConfig()); err != nil {
		t.Fatalf("writeTitles: %v", err)
	}

	second, err := dev.ReadPage(23)

	if err != nil {
		t.Fatalf("ReadPage: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("titles page changed between identical writes")
	}
}

func TestCountSurvivesRestart(t *testing.T) {

	lg, dev := newTestLogger(t)

	for i := 0; i < 7; i++ {
		mustLog(t, lg, testReadings)
	}

	// a new Logger over the same device is a power cycle
	restarted := New(dev, DefaultConfig(), nil)

	count, full, err := restarted.Count()

	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if count != 7 || full {
		t.Errorf("after restart: count=%d full=%v, want 7 false", count, full)
	}

	restarted.mu.Lock()

	slot := restarted.cur.count

	restarted.mu.Unlock()

	if slot != 7 {
		t.Errorf("next slot after restart = %d, want 7", slot)
	}
}

// counterDropDevice passes everything through except the raw counter write,
// which it swallows with an error. That is the crash window between the
// data page write and the counter persist.
type counterDropDevice struct {
	eeprom.Device

	dropping bool
}

func (d *counterDropDevice) WriteAt(addr uint32, data []byte) error {

	if d.dropping {

		return fmt.Errorf("simulated power loss before counter persist")

	}

	return d.Device.WriteAt(addr, data)
}

func TestPowerLossBeforeCounterPersist(t *testing.T) {

	base, err := eeprom.NewFileDevice(filepath.Join(t.TempDir(), "eeprom.img"))

	if err != nil {
		t.Fatalf("Failed to create device: %v", err)
	}

	defer base.Close()

	dev := &counterDropDevice{Device: base}

	lg := New(dev, DefaultConfig(), nil)

	for i := 0; i < 3; i++ {
		mustLog(t, lg, testReadings)
	}

	// the fourth record's page write lands but the counter persist is lost
	dev.dropping = true

	r := testReadings

	r.Humidity = 99

	if err := lg.LogData(r); err == nil {
		t.Fatal("expected error from dropped counter persist")
	}

	dev.dropping = false

	// restart: the cursor resumes at the old count
	restarted := New(dev, DefaultConfig(), nil)

	count, _, err := restarted.Count()

	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if count != 3 {
		t.Fatalf("count after power loss = %d, want 3", count)
	}

	// slot 3 holds the orphaned record for the moment
	orphan, err := restarted.ReadEntry(3)

	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}

	if !strings.Contains(orphan, ";99;") {
		t.Errorf("slot 3 = %q, want the orphaned record", orphan)
	}

	// the next write reuses the same slot, no slot is skipped or duplicated
	r.Humidity = 55

	if err := restarted.LogData(r); err != nil {
		t.Fatalf("LogData: %v", err)
	}

	replaced, err := restarted.ReadEntry(3)

	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}

	if !strings.Contains(replaced, ";55;") {
		t.Errorf("slot 3 after rewrite = %q", replaced)
	}

	count, _, err = restarted.Count()

	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	if count != 4 {
		t.Errorf("count after rewrite = %d, want 4", count)
	}
}

func TestSeparatorValidation(t *testing.T) {

	lg, _ := newTestLogger(t)

	if err := lg.SelectSeparator('|'); err == nil {
		t.Error("expected error for unsupported separator")
	}

	if err := lg.SelectSeparator('\t'); err != nil {
		t.Errorf("SelectSeparator(tab): %v", err)
	}
}

func TestMetadataLines(t *testing.T) {

	lg, _ := newTestLogger(t)

	if err := lg.SetProjectInfo("Bench", "Soak test"); err != nil {
		t.Fatalf("SetProjectInfo: %v", err)
	}

	mustLog(t, lg, testReadings)

	lines, err := lg.MetadataLines()

	if err != nil {
		t.Fatalf("MetadataLines: %v", err)
	}

	if len(lines) != 4 {
		t.Fatalf("got %d metadata lines: %q", len(lines), lines)
	}

	if lines[1] != "Name: Bench" || lines[2] != "Subject: Soak test" {
		t.Errorf("info lines = %q %q", lines[1], lines[2])
	}
}

func TestGenerationBumpsOnMutation(t *testing.T) {

	lg, _ := newTestLogger(t)

	g0 := lg.Generation()

	mustLog(t, lg, testReadings)

	g1 := lg.Generation()

	if g1 == g0 {
		t.Error("generation did not move on LogData")
	}

	if err := lg.EraseData(); err != nil {
		t.Fatalf("EraseData: %v", err)
	}

	if lg.Generation() == g1 {
		t.Error("generation did not move on EraseData")
	}
}
