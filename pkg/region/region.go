// Package region partitions one file into named, independently growable
// byte ranges so several durable structures can share a single persistent
// address space without collision.
//
// The file starts with a fixed 4 KiB header followed by an array of
// fixed-size buckets:
//
//	[Magic(4)][Version(4)][BucketSize(8)][StoreID(16)][AssignmentTable(4064)]
//
// The assignment table holds one byte per bucket: the id of the region that
// owns it, or 0xFF for an unassigned bucket. A region's logical byte range
// is the concatenation of its buckets in ascending file order; because
// growth always claims the lowest free bucket and buckets are never
// released, that order is stable and is recovered from the header alone on
// reopen.
package region

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

const (
	// HeaderSize is the fixed space reserved at the head of the file.
	HeaderSize = 4096

	// DefaultBucketSize is the allocation unit for fresh files.
	DefaultBucketSize = 64 * 1024

	// MaxRegions bounds region ids. Ids are stored as single bytes in the
	// assignment table, with 0xFF marking an unassigned bucket.
	MaxRegions = 255

	formatVersion = 1

	magicOffset   = 0
	versionOffset = 4
	bucketOffset  = 8
	idOffset      = 16
	tableOffset   = 32

	// MaxBuckets is the capacity of the assignment table.
	MaxBuckets = HeaderSize - tableOffset

	unassigned = 0xFF
)

var magic = [4]byte{'S', 'K', 'L', 'D'}

// Config holds configuration for opening a region file.
type Config struct {
	Path       string // Path to the region file
	BucketSize int64  // Allocation unit for a fresh file; 0 = DefaultBucketSize
}

// Manager owns one region file and hands out Region handles.
type Manager struct {
	file       *os.File
	path       string
	id         uuid.UUID
	bucketSize int64
	table      []byte            // bucket -> owning region id, 0xFF = unassigned
	buckets    map[uint8][]int64 // region id -> bucket indexes in logical order
	regions    map[int]*Region
	mutex      sync.Mutex
}

// Region is a named byte range inside the manager's file. All offsets are
// region-relative; the manager maps them onto buckets.
type Region struct {
	manager *Manager
	id      uint8
}

// Open creates or reopens the region file at config.Path. A fresh file gets
// a new header and store id; an existing file is validated and its bucket
// assignments read back. BucketSize only applies when creating; reopening
// always uses the persisted size.
func Open(config Config) (*Manager, error) {
	if dir := filepath.Dir(config.Path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, err
		}
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, err
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}

	m := &Manager{
		file:    file,
		path:    config.Path,
		buckets: make(map[uint8][]int64),
		regions: make(map[int]*Region),
	}

	if stat.Size() == 0 {
		m.bucketSize = config.BucketSize
		if m.bucketSize == 0 {
			m.bucketSize = DefaultBucketSize
		}
		if m.bucketSize < 0 {
			file.Close()
			return nil, fmt.Errorf("invalid bucket size %d", config.BucketSize)
		}
		m.id = uuid.New()
		m.table = make([]byte, MaxBuckets)
		for i := range m.table {
			m.table[i] = unassigned
		}
		if err := m.writeHeader(); err != nil {
			file.Close()
			return nil, err
		}
		return m, nil
	}

	if err := m.readHeader(); err != nil {
		file.Close()
		return nil, err
	}

	return m, nil
}

// Region returns the stable handle for the given region id. Repeated calls
// with the same id return the same handle referring to the same bytes.
// An id outside [0, MaxRegions) is a programming error and panics.
func (m *Manager) Region(id int) *Region {
	if id < 0 || id >= MaxRegions {
		panic(fmt.Sprintf("region: id %d out of range [0, %d)", id, MaxRegions))
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	r, ok := m.regions[id]
	if !ok {
		r = &Region{manager: m, id: uint8(id)}
		m.regions[id] = r
	}
	return r
}

// ID returns the store identity recorded in the header.
func (m *Manager) ID() uuid.UUID {
	return m.id
}

// Path returns the region file path.
func (m *Manager) Path() string {
	return m.path
}

// BucketSize returns the persisted allocation unit.
func (m *Manager) BucketSize() int64 {
	return m.bucketSize
}

// Size returns the current file size: the header plus all assigned buckets.
func (m *Manager) Size() int64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	var assigned int64
	for _, owner := range m.table {
		if owner != unassigned {
			assigned++
		}
	}
	return HeaderSize + assigned*m.bucketSize
}

// Sync flushes outstanding writes to disk.
func (m *Manager) Sync() error {
	return m.file.Sync()
}

// Close syncs and closes the underlying file.
func (m *Manager) Close() error {
	if err := m.file.Sync(); err != nil {
		m.file.Close()
		return err
	}
	return m.file.Close()
}

// Size returns the bytes currently assigned to the region.
func (r *Region) Size() int64 {
	m := r.manager
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return int64(len(m.buckets[r.id])) * m.bucketSize
}

// Grow assigns free buckets until the region holds at least n bytes. The
// file is extended and synced before the header records the new
// assignments, so a crash in between leaves only unreferenced tail space.
// Grown space reads as zeros.
func (r *Region) Grow(n int64) error {
	if n < 0 {
		return fmt.Errorf("region %d: cannot grow to negative size %d", r.id, n)
	}

	m := r.manager
	m.mutex.Lock()
	defer m.mutex.Unlock()

	current := int64(len(m.buckets[r.id])) * m.bucketSize
	if current >= n {
		return nil
	}

	needed := (n - current + m.bucketSize - 1) / m.bucketSize

	var claimed []int64
	for i := 0; i < len(m.table) && int64(len(claimed)) < needed; i++ {
		if m.table[i] == unassigned {
			claimed = append(claimed, int64(i))
		}
	}
	if int64(len(claimed)) < needed {
		return fmt.Errorf("region file full: region %d needs %d more buckets, %d free", r.id, needed, len(claimed))
	}

	highest := claimed[len(claimed)-1]
	newSize := HeaderSize + (highest+1)*m.bucketSize
	if err := m.file.Truncate(newSize); err != nil {
		return err
	}
	if err := m.file.Sync(); err != nil {
		return err
	}

	for _, b := range claimed {
		m.table[b] = r.id
		m.buckets[r.id] = append(m.buckets[r.id], b)
	}

	return m.writeHeader()
}

// ReadAt fills p from the region starting at the region-relative offset.
func (r *Region) ReadAt(p []byte, off int64) error {
	return r.manager.regionIO(r.id, p, off, false)
}

// WriteAt writes p into the region at the region-relative offset. The write
// is not synced; callers needing durability follow with Sync.
func (r *Region) WriteAt(p []byte, off int64) error {
	return r.manager.regionIO(r.id, p, off, true)
}

// Sync flushes outstanding writes to disk.
func (r *Region) Sync() error {
	return r.manager.file.Sync()
}

// regionIO maps a region-relative range onto bucket-sized file chunks.
func (m *Manager) regionIO(id uint8, p []byte, off int64, write bool) error {
	op := "read"
	if write {
		op = "write"
	}

	if off < 0 {
		return fmt.Errorf("region %d: %s at negative offset %d", id, op, off)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	buckets := m.buckets[id]
	size := int64(len(buckets)) * m.bucketSize
	if off+int64(len(p)) > size {
		return fmt.Errorf("region %d: %s of %d bytes at offset %d exceeds region size %d", id, op, len(p), off, size)
	}

	for len(p) > 0 {
		bucket := buckets[off/m.bucketSize]
		within := off % m.bucketSize
		chunk := m.bucketSize - within
		if int64(len(p)) < chunk {
			chunk = int64(len(p))
		}

		fileOff := HeaderSize + bucket*m.bucketSize + within
		var err error
		if write {
			_, err = m.file.WriteAt(p[:chunk], fileOff)
		} else {
			_, err = m.file.ReadAt(p[:chunk], fileOff)
		}
		if err != nil {
			return err
		}

		p = p[chunk:]
		off += chunk
	}

	return nil
}

func (m *Manager) writeHeader() error {
	header := make([]byte, HeaderSize)
	copy(header[magicOffset:], magic[:])
	binary.LittleEndian.PutUint32(header[versionOffset:], formatVersion)
	binary.LittleEndian.PutUint64(header[bucketOffset:], uint64(m.bucketSize))
	copy(header[idOffset:], m.id[:])
	copy(header[tableOffset:], m.table)

	if _, err := m.file.WriteAt(header, 0); err != nil {
		return err
	}
	return m.file.Sync()
}

func (m *Manager) readHeader() error {
	header := make([]byte, HeaderSize)
	if _, err := m.file.ReadAt(header, 0); err != nil {
		return fmt.Errorf("failed to read region file header: %w", err)
	}

	if !bytes.Equal(header[magicOffset:magicOffset+4], magic[:]) {
		return fmt.Errorf("%s is not a region file (bad magic)", m.path)
	}

	version := binary.LittleEndian.Uint32(header[versionOffset:])
	if version != formatVersion {
		return fmt.Errorf("unsupported region file version %d", version)
	}

	m.bucketSize = int64(binary.LittleEndian.Uint64(header[bucketOffset:]))
	if m.bucketSize <= 0 {
		return fmt.Errorf("region file declares invalid bucket size %d", m.bucketSize)
	}

	id, err := uuid.FromBytes(header[idOffset : idOffset+16])
	if err != nil {
		return err
	}
	m.id = id

	m.table = make([]byte, MaxBuckets)
	copy(m.table, header[tableOffset:])

	for i, owner := range m.table {
		if owner == unassigned {
			continue
		}
		m.buckets[owner] = append(m.buckets[owner], int64(i))
	}

	return nil
}
