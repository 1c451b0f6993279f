package store

import (
	"encoding/binary"
	"fmt"

	"github.com/google/btree"

	"github.com/ssargent/skuld/pkg/codec"
	"github.com/ssargent/skuld/pkg/region"
	"github.com/ssargent/skuld/pkg/todo"
)

// Slot layout inside the todos region. The region is an array of fixed-size
// slots, each holding one encoded record behind a small header:
//
//	[State(1)][Pad(3)][ValueLen(4)][Seq(8)][Key(8)][Reserved(8)][Value(2048)]
//
// State 0 marks a free slot, which is also what freshly grown (zero-filled)
// space reads as. Seq is a per-file monotonic write sequence; when a crash
// leaves two live slots for one key, the higher seq wins on reopen.
const (
	slotHeaderSize = 32
	slotValueSize  = codec.MaxEncodedSize
	slotSize       = slotHeaderSize + slotValueSize

	slotStateOffset = 0
	slotLenOffset   = 4
	slotSeqOffset   = 8
	slotKeyOffset   = 16

	slotFree byte = 0
	slotLive byte = 1
)

const btreeDegree = 2

// slotRef locates a live record: which slot holds the value for a key.
// Seq is carried for duplicate resolution during rebuild.
type slotRef struct {
	key  uint64
	slot int64
	seq  uint64
}

func lessSlotRef(a, b slotRef) bool {
	return a.key < b.key
}

// Map is a durable ordered map from record id to todo, persisted entirely
// inside one region. The btree index and free-slot list are in-memory only
// and are rebuilt from the slots at open; restart equals reconstruction.
type Map struct {
	region *region.Region
	codec  *codec.TodoCodec
	index  *btree.BTreeG[slotRef]
	free   []int64
	seq    uint64
	slots  int64
}

// OpenMap binds a map to its region and rebuilds all in-memory state from
// the slot array. Two live slots for one key (the trace of an interrupted
// update) are resolved in favor of the higher sequence number; the loser
// and any slot whose record fails validation are released on disk.
func OpenMap(r *region.Region, c *codec.TodoCodec) (*Map, *RecoveryResult, error) {
	m := &Map{
		region: r,
		codec:  c,
		index:  btree.NewG[slotRef](btreeDegree, lessSlotRef),
		slots:  r.Size() / slotSize,
	}

	result := &RecoveryResult{IndexRebuilt: true}
	repaired := false

	buf := make([]byte, slotSize)
	for slot := int64(0); slot < m.slots; slot++ {
		if err := r.ReadAt(buf, slot*slotSize); err != nil {
			return nil, nil, err
		}
		result.SlotsScanned++

		switch buf[slotStateOffset] {
		case slotFree:
			m.free = append(m.free, slot)
			continue
		case slotLive:
		default:
			return nil, nil, fmt.Errorf("todos region: slot %d has invalid state %d", slot, buf[slotStateOffset])
		}

		valueLen := binary.LittleEndian.Uint32(buf[slotLenOffset : slotLenOffset+4])
		seq := binary.LittleEndian.Uint64(buf[slotSeqOffset : slotSeqOffset+8])
		key := binary.LittleEndian.Uint64(buf[slotKeyOffset : slotKeyOffset+8])

		valid := valueLen <= slotValueSize
		if valid {
			record, err := c.Decode(buf[slotHeaderSize : slotHeaderSize+int64(valueLen)])
			valid = err == nil && record.ID == key
		}
		if !valid {
			// A torn write from an interrupted insert; the record was
			// never acknowledged, so releasing the slot loses nothing.
			if err := m.markFree(slot); err != nil {
				return nil, nil, err
			}
			m.free = append(m.free, slot)
			result.SlotsRepaired++
			repaired = true
			continue
		}

		if seq > m.seq {
			m.seq = seq
		}

		ref := slotRef{key: key, slot: slot, seq: seq}
		if existing, ok := m.index.Get(slotRef{key: key}); ok {
			loser := existing
			if existing.seq < seq {
				m.index.ReplaceOrInsert(ref)
			} else {
				loser = ref
			}
			if err := m.markFree(loser.slot); err != nil {
				return nil, nil, err
			}
			m.free = append(m.free, loser.slot)
			result.SlotsRepaired++
			repaired = true
			continue
		}

		m.index.ReplaceOrInsert(ref)
	}

	if repaired {
		if err := r.Sync(); err != nil {
			return nil, nil, err
		}
	}

	result.RecordsValidated = int64(m.index.Len())
	return m, result, nil
}

// Get returns the record stored under key. Reading a slot the index points
// at cannot fail recoverably: an I/O error or a record that no longer
// decodes means the file is corrupted, which panics.
func (m *Map) Get(key uint64) (*todo.Todo, bool) {
	ref, ok := m.index.Get(slotRef{key: key})
	if !ok {
		return nil, false
	}
	return m.readSlot(ref.slot), true
}

// Insert stores t under key, returning the previous record if the key was
// present. The new record goes to a fresh slot and is synced before the
// old slot is released, so a crash in between leaves two live slots whose
// sequence numbers decide the survivor on reopen.
func (m *Map) Insert(key uint64, t *todo.Todo) (*todo.Todo, error) {
	data, err := m.codec.Encode(t)
	if err != nil {
		return nil, err
	}

	var prev *todo.Todo
	prevSlot := int64(-1)
	if ref, ok := m.index.Get(slotRef{key: key}); ok {
		prev = m.readSlot(ref.slot)
		prevSlot = ref.slot
	}

	slot, err := m.allocSlot()
	if err != nil {
		return nil, err
	}

	seq := m.seq + 1
	if err := m.writeSlot(slot, key, seq, data); err != nil {
		m.free = append(m.free, slot)
		return nil, err
	}
	m.seq = seq
	m.index.ReplaceOrInsert(slotRef{key: key, slot: slot, seq: seq})

	if prevSlot >= 0 {
		if err := m.freeSlot(prevSlot); err != nil {
			return prev, err
		}
		m.free = append(m.free, prevSlot)
	}

	return prev, nil
}

// Remove deletes the record under key and returns the prior value, with
// ok reporting whether the key was present.
func (m *Map) Remove(key uint64) (*todo.Todo, bool, error) {
	ref, ok := m.index.Get(slotRef{key: key})
	if !ok {
		return nil, false, nil
	}

	prior := m.readSlot(ref.slot)
	if err := m.freeSlot(ref.slot); err != nil {
		return nil, false, err
	}

	m.index.Delete(slotRef{key: key})
	m.free = append(m.free, ref.slot)
	return prior, true, nil
}

// Len returns the number of live records.
func (m *Map) Len() int {
	return m.index.Len()
}

// Ascend visits every record in ascending key order until fn returns false.
func (m *Map) Ascend(fn func(key uint64, t *todo.Todo) bool) {
	m.index.Ascend(func(ref slotRef) bool {
		return fn(ref.key, m.readSlot(ref.slot))
	})
}

// allocSlot pops a free slot, growing the region by one allocation unit
// when none remain. Grown space is zero-filled, so every new slot already
// reads as free.
func (m *Map) allocSlot() (int64, error) {
	if len(m.free) == 0 {
		if err := m.region.Grow((m.slots + 1) * slotSize); err != nil {
			return 0, err
		}
		grown := m.region.Size() / slotSize
		for slot := m.slots; slot < grown; slot++ {
			m.free = append(m.free, slot)
		}
		m.slots = grown
	}

	slot := m.free[0]
	m.free = m.free[1:]
	return slot, nil
}

func (m *Map) writeSlot(slot int64, key uint64, seq uint64, data []byte) error {
	buf := make([]byte, slotHeaderSize+len(data))
	buf[slotStateOffset] = slotLive
	binary.LittleEndian.PutUint32(buf[slotLenOffset:], uint32(len(data)))
	binary.LittleEndian.PutUint64(buf[slotSeqOffset:], seq)
	binary.LittleEndian.PutUint64(buf[slotKeyOffset:], key)
	copy(buf[slotHeaderSize:], data)

	if err := m.region.WriteAt(buf, slot*slotSize); err != nil {
		return err
	}
	return m.region.Sync()
}

func (m *Map) freeSlot(slot int64) error {
	if err := m.markFree(slot); err != nil {
		return err
	}
	return m.region.Sync()
}

// markFree flips the slot's state byte without syncing; the stale value
// bytes stay behind but a free slot is never read.
func (m *Map) markFree(slot int64) error {
	return m.region.WriteAt([]byte{slotFree}, slot*slotSize+slotStateOffset)
}

func (m *Map) readSlot(slot int64) *todo.Todo {
	header := make([]byte, slotHeaderSize)
	if err := m.region.ReadAt(header, slot*slotSize); err != nil {
		panic(fmt.Sprintf("todos region: slot %d read failed: %v", slot, err))
	}

	valueLen := binary.LittleEndian.Uint32(header[slotLenOffset : slotLenOffset+4])
	if valueLen > slotValueSize {
		panic(fmt.Sprintf("todos region: slot %d declares value length %d", slot, valueLen))
	}

	value := make([]byte, valueLen)
	if err := m.region.ReadAt(value, slot*slotSize+slotHeaderSize); err != nil {
		panic(fmt.Sprintf("todos region: slot %d read failed: %v", slot, err))
	}

	return m.codec.MustDecode(value)
}
