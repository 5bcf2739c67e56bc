package datalog

import (
	"io"
	"strings"
)

// trimLine decodes page content into line text: cut at the sentinel, then
// drop the line terminator.
func trimLine(page []byte) string {

	return strings.TrimRight(string(trimAtSentinel(page)), "\r\n")

}

// SendAllData replays the whole store in storage order: header, project
// info, titles, then every valid data page. Each page is emitted up to its
// sentinel so stale bytes never leave the device. Oldest-written is always
// slot zero; once the log has wrapped the overwritten records are gone and
// only the current set is sent.
func (l *Logger) SendAllData(w io.Writer) error {

	l.mu.Lock()

	defer l.mu.Unlock()

	if err := l.cur.load(l.meta); err != nil {

		return err

	}

	for _, page := range []int{headerPage, infoPage, titlesPage} {

		data, err := l.dev.ReadPage(page)

		if err != nil {

			return err

		}

		if _, err := w.Write(trimAtSentinel(data)); err != nil {

			return err

		}
	}

	count := l.cur.count

	if l.cur.full {

		count = MaxEntries

	}

	for slot := 0; slot < count; slot++ {

		data, err := l.dev.ReadPage(dataPageBase + slot)

		if err != nil {

			return err

		}

		if _, err := w.Write(trimAtSentinel(data)); err != nil {

			return err

		}
	}

	return nil
}

// MetadataLines returns the header, project info and titles pages decoded
// into individual text lines, for callers that ship the dump as discrete
// messages instead of a byte stream.
func (l *Logger) MetadataLines() ([]string, error) {

	l.mu.Lock()

	defer l.mu.Unlock()

	if err := l.cur.load(l.meta); err != nil {

		return nil, err

	}

	var lines []string

	for _, page := range []int{headerPage, infoPage, titlesPage} {

		data, err := l.dev.ReadPage(page)

		if err != nil {

			return nil, err

		}

		for _, line := range strings.Split(trimLine(data), "\r\n") {

			lines = append(lines, line)

		}
	}

	return lines, nil
}
