package datalog

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"airlogx/eeprom"
	"airlogx/models"
)

// Logger is the circular data logger. All mutable state lives here: the
// field inclusion config, the entry cursor and the titles-written flag.
// One mutex serializes operations because the sampler and the query server
// run on separate goroutines; the store itself still sees one writer at a
// time, same as the board.
type Logger struct {
	mu sync.Mutex

	dev eeprom.Device

	cfg Config

	meta metaStore

	cur cursor

	titlesDown bool

	projectName string

	projectSubject string

	// bumped on every mutation so read caches can drop stale entries
	gen uint64

	log *zap.Logger
}

func New(dev eeprom.Device, cfg Config, zl *zap.Logger) *Logger {

	if zl == nil {

		zl = zap.NewNop()

	}

	return &Logger{

		dev: dev,

		cfg: cfg,

		meta: metaStore{dev: dev},

		log: zl,
	}
}

// IncludeField toggles one column. Changing the set after the first record
// of a session does not rewrite the titles page; the stored titles stay as
// they were when logging started, which is the board firmware's behavior.
func (l *Logger) IncludeField(f Field, on bool) {

	l.mu.Lock()

	defer l.mu.Unlock()

	if f < 0 || f >= numFields {

		return

	}

	if l.titlesDown && l.cfg.Include[f] != on {

		l.log.Warn("field set changed after titles were written, stored titles no longer match",

			zap.String("field", f.String()))

	}

	l.cfg.Include[f] = on
}

func (l *Logger) SetTemperatureUnit(u TemperatureUnit) {

	l.mu.Lock()

	defer l.mu.Unlock()

	l.cfg.TempUnit = u

}

func (l *Logger) SetPressureUnit(u PressureUnit) {

	l.mu.Lock()

	defer l.mu.Unlock()

	l.cfg.PressUnit = u

}

// SelectSeparator picks the delimiter for titles and records. Only tab,
// semicolon, comma and space are accepted.
func (l *Logger) SelectSeparator(d byte) error {

	l.mu.Lock()

	defer l.mu.Unlock()

	if !ValidSeparator(d) {

		return fmt.Errorf("unsupported separator %q", d)

	}

	l.cfg.Delimiter = d

	return nil
}

// SetProjectInfo writes the header and project info pages right away and
// remembers the strings for later erases.
func (l *Logger) SetProjectInfo(name, subject string) error {

	l.mu.Lock()

	defer l.mu.Unlock()

	l.projectName = name

	l.projectSubject = subject

	if err := l.meta.writeHeader(); err != nil {

		return err

	}

	if err := l.meta.writeProjectInfo(name, subject); err != nil {

		return err

	}

	l.gen++

	return nil
}

// ensureSession lazily brings the reserved pages up before the first record
// of a session: cursor load, header, project info and the titles line for
// the currently enabled fields.
func (l *Logger) ensureSession() error {

	if err := l.cur.load(l.meta); err != nil {

		return err

	}

	if l.titlesDown {

		return nil

	}

	if err := l.meta.writeHeader(); err != nil {

		return err

	}

	if err := l.meta.writeProjectInfo(l.projectName, l.projectSubject); err != nil {

		return err

	}

	if err := l.meta.writeTitles(l.cfg); err != nil {

		return err

	}

	l.titlesDown = true

	l.log.Info("log session started",

		zap.Int("entries", l.cur.count),

		zap.Bool("full", l.cur.full))

	return nil
}

// LogData appends one record. The cursor advances and is persisted even
// when the page write fails, which mirrors the board firmware; the write
// error still reaches the caller.
func (l *Logger) LogData(r models.Readings) error {

	l.mu.Lock()

	defer l.mu.Unlock()

	if err := l.ensureSession(); err != nil {

		return err

	}

	page := dataPageBase + l.cur.count

	writeErr := l.dev.WritePage(page, packPage(formatRecord(l.cfg, r)))

	if writeErr != nil {

		l.log.Error("record write failed", zap.Int("page", page), zap.Error(writeErr))

	}

	if err := l.cur.advance(l.meta); err != nil {

		if writeErr == nil {

			writeErr = err

		}
	}

	l.gen++

	return writeErr
}

// EraseData blanks every page of the store, reserved ones included, then
// re-seeds the counter at zero. 1024 page writes; a failure partway leaves
// a mix of erased and stale pages and the only recovery is to run it again.
func (l *Logger) EraseData() error {

	l.mu.Lock()

	defer l.mu.Unlock()

	l.log.Info("erasing data store")

	blank := make([]byte, eeprom.PageSize)

	for i := range blank {

		blank[i] = eeprom.BlankByte

	}

	for page := 0; page < eeprom.TotalPages; page++ {

		if err := l.dev.WritePage(page, blank); err != nil {

			return fmt.Errorf("erase failed at page %d: %v", page, err)

		}
	}

	if err := l.meta.writeEntryCount(0); err != nil {

		return fmt.Errorf("failed to reset entry count: %v", err)

	}

	l.cur.reset()

	l.titlesDown = false

	l.gen++

	l.log.Info("data store erased")

	return nil
}

// Count reports how many data pages currently hold valid records and
// whether the store has wrapped.
func (l *Logger) Count() (int, bool, error) {

	l.mu.Lock()

	defer l.mu.Unlock()

	if err := l.cur.load(l.meta); err != nil {

		return 0, false, err

	}

	if l.cur.full {

		return MaxEntries, true, nil

	}

	return l.cur.count, false, nil
}

// ReadEntry returns the decoded record text of one logical slot, without
// its line terminator.
func (l *Logger) ReadEntry(slot int) (string, error) {

	l.mu.Lock()

	defer l.mu.Unlock()

	return l.readEntry(slot)
}

func (l *Logger) readEntry(slot int) (string, error) {

	if slot < 0 || slot >= MaxEntries {

		return "", fmt.Errorf("slot %d out of range [0,%d)", slot, MaxEntries)

	}

	page, err := l.dev.ReadPage(dataPageBase + slot)

	if err != nil {

		return "", err

	}

	return trimLine(page), nil
}

// Generation counts mutations; read caches key on it.
func (l *Logger) Generation() uint64 {

	l.mu.Lock()

	defer l.mu.Unlock()

	return l.gen
}
