package datalog

// cursor is the entry cursor state machine: Uninitialized until the first
// load, then Active(count, full). count is the next slot to write, relative
// to the first data page. Only the eraser moves it back to Uninitialized.
type cursor struct {
	count int

	full bool

	active bool
}

// load pulls the persisted count on the first call of a session. An absent
// counter means a fresh or erased store, count zero.
func (c *cursor) load(m metaStore) error {

	if c.active {

		return nil

	}

	count, present, err := m.readEntryCount()

	if err != nil {

		return err

	}

	if present {

		c.count = int(count)

	} else {

		c.count = 0

	}

	c.active = true

	return nil
}

// advance moves the cursor past a just written slot and persists the new
// count. Hitting MaxEntries wraps back to slot zero and latches full.
func (c *cursor) advance(m metaStore) error {

	c.count++

	if c.count == MaxEntries {

		c.full = true

		c.count = 0

	}

	return m.writeEntryCount(uint16(c.count))
}

// reset drops back to a fresh Active(0, false) after an erase.
func (c *cursor) reset() {

	c.count = 0

	c.full = false

	c.active = true

}
