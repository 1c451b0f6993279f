package store

import (
	"encoding/binary"

	"github.com/ssargent/skuld/pkg/region"
)

// cellSize is the persisted footprint of the counter: one little-endian
// uint64 at offset 0 of its region.
const cellSize = 8

// Cell is a durable uint64 counter. The value lives at the head of its
// region; a fresh region reads as zero, so the counter starts at 0 and the
// first allocation returns 1.
type Cell struct {
	region *region.Region
	value  uint64
}

// OpenCell binds a counter to its region, growing the region on first use
// and loading the persisted value.
func OpenCell(r *region.Region) (*Cell, error) {
	if r.Size() < cellSize {
		if err := r.Grow(cellSize); err != nil {
			return nil, err
		}
	}

	var buf [cellSize]byte
	if err := r.ReadAt(buf[:], 0); err != nil {
		return nil, err
	}

	return &Cell{
		region: r,
		value:  binary.LittleEndian.Uint64(buf[:]),
	}, nil
}

// Next persists value+1 and returns it. The write is synced before the new
// value is handed out, so an id observed by a caller is never reissued
// after a crash. There is no rollback: an id consumed by a caller that
// fails afterwards is gone for good.
func (c *Cell) Next() (uint64, error) {
	next := c.value + 1

	var buf [cellSize]byte
	binary.LittleEndian.PutUint64(buf[:], next)
	if err := c.region.WriteAt(buf[:], 0); err != nil {
		return 0, err
	}
	if err := c.region.Sync(); err != nil {
		return 0, err
	}

	c.value = next
	return next, nil
}

// Current returns the last allocated value without advancing the counter.
func (c *Cell) Current() uint64 {
	return c.value
}
