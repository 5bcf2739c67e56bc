package eeprom

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// MappedFile is a fixed size memory mapped file. The store never grows, so
// there is no remap path.
type MappedFile struct {
	file *os.File

	data []byte

	size int

	mu sync.RWMutex

	isClosed bool
}

// openMappedFile opens a file, pads it to size if needed and maps it into
// memory. The second return reports whether the file had to be created or
// extended, so the caller can blank fresh images.
func openMappedFile(path string, size int) (*MappedFile, bool, error) {

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)

	if err != nil {

		return nil, false, fmt.Errorf("failed to open file: %v", err)
	}

	info, err := file.Stat()

	if err != nil {
		file.Close()
		return nil, false, fmt.Errorf("failed to stat file: %v", err)
	}

	created := false

	if int(info.Size()) < size {

		if err := file.Truncate(int64(size)); err != nil {
			file.Close()
			return nil, false, fmt.Errorf("failed to truncate file: %v", err)
		}

		created = true

	}

	data, err := unix.Mmap(

		int(file.Fd()),

		0,

		size,

		unix.PROT_READ|unix.PROT_WRITE,

		unix.MAP_SHARED,
	)

	if err != nil {
		file.Close()
		return nil, false, fmt.Errorf("failed to mmap file: %v", err)
	}

	return &MappedFile{

		file: file,

		data: data,

		size: size,

	}, created, nil
}

// ReadAt reads data from the mapped file at the specified offset
func (m *MappedFile) ReadAt(b []byte, offset int64) (int, error) {

	m.mu.RLock()

	defer m.mu.RUnlock()

	if m.isClosed {

		return 0, fmt.Errorf("file already closed")

	}

	if offset+int64(len(b)) > int64(m.size) {

		return 0, fmt.Errorf("read would exceed mapped region size")

	}

	copy(b, m.data[offset:offset+int64(len(b))])

	return len(b), nil

}

// WriteAt writes data to the mapped file at the specified offset
func (m *MappedFile) WriteAt(b []byte, offset int64) (int, error) {

	m.mu.Lock()

	defer m.mu.Unlock()

	if m.isClosed {

		return 0, fmt.Errorf("file already closed")

	}

	if offset+int64(len(b)) > int64(m.size) {

		return 0, fmt.Errorf("write would exceed mapped region size")

	}

	copy(m.data[offset:], b)

	return len(b), nil

}

// Sync flushes the mapping back to disk.
func (m *MappedFile) Sync() error {

	m.mu.Lock()

	defer m.mu.Unlock()

	if m.isClosed {

		return fmt.Errorf("file already closed")

	}

	return unix.Msync(m.data, unix.MS_SYNC)

}

// syncAndClose flushes the mapping, unmaps it and closes the file.
func (m *MappedFile) syncAndClose() error {

	m.mu.Lock()

	defer m.mu.Unlock()

	if m.isClosed {

		return nil

	}

	m.isClosed = true

	if err := unix.Msync(m.data, unix.MS_SYNC); err != nil {

		m.file.Close()

		return fmt.Errorf("failed to sync mapping: %v", err)

	}

	if err := unix.Munmap(m.data); err != nil {

		m.file.Close()

		return fmt.Errorf("failed to unmap file: %v", err)

	}

	m.data = nil

	return m.file.Close()

}
