package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/ssargent/skuld/pkg/todo"
)

const (
	// MaxEncodedSize bounds the encoded form of a single todo. Storage
	// reserves exactly this much per record; the field limits in pkg/todo
	// keep every representable todo inside it.
	MaxEncodedSize = 2048

	// MinEncodedSize is the fixed portion of the format: the checksum,
	// numeric fields, two absent-optional tags and three empty
	// length-prefixed strings.
	MinEncodedSize = 36
)

// ErrTooLarge is returned by Encode when a todo would exceed MaxEncodedSize.
// Field limits are enforced upstream, so hitting it indicates a defect.
var ErrTooLarge = errors.New("encoded todo exceeds maximum record size")

// TodoCodec serializes todos into the store's binary record format
type TodoCodec struct{}

// NewTodoCodec creates a new todo codec instance
func NewTodoCodec() *TodoCodec {
	return &TodoCodec{}
}

// EncodedSize returns the exact number of bytes Encode produces for t.
func (c *TodoCodec) EncodedSize(t *todo.Todo) int {
	size := MinEncodedSize + len(t.Title) + len(t.Description) + len(t.Owner)
	if t.DueDate != nil {
		size += 8
	}
	if t.UpdatedAt != nil {
		size += 8
	}
	return size
}

// Encode serializes a todo into the binary record format
// Format: [CRC32(4)][ID(8)][Status(1)][Priority(1)][CreatedAt(8)]
// [DueDate(1+8?)][UpdatedAt(1+8?)][TitleLen(4)][Title][DescLen(4)][Desc][OwnerLen(4)][Owner]
func (c *TodoCodec) Encode(t *todo.Todo) ([]byte, error) {
	if !t.Status.Valid() {
		return nil, fmt.Errorf("invalid status tag %d", uint8(t.Status))
	}
	if !t.Priority.Valid() {
		return nil, fmt.Errorf("invalid priority tag %d", uint8(t.Priority))
	}

	size := c.EncodedSize(t)
	if size > MaxEncodedSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrTooLarge, size, MaxEncodedSize)
	}

	buf := make([]byte, size)
	off := 4 // checksum is written last

	binary.LittleEndian.PutUint64(buf[off:], t.ID)
	off += 8
	buf[off] = byte(t.Status)
	off++
	buf[off] = byte(t.Priority)
	off++
	binary.LittleEndian.PutUint64(buf[off:], t.CreatedAt)
	off += 8

	off = putOptional(buf, off, t.DueDate)
	off = putOptional(buf, off, t.UpdatedAt)
	off = putString(buf, off, t.Title)
	off = putString(buf, off, t.Description)
	putString(buf, off, t.Owner)

	binary.LittleEndian.PutUint32(buf[0:], crc32.ChecksumIEEE(buf[4:]))

	return buf, nil
}

// Decode deserializes a binary record into a todo. It verifies the checksum
// and rejects any structural deviation: bad enum tags, bad presence tags,
// lengths that overrun the buffer, trailing bytes.
func (c *TodoCodec) Decode(data []byte) (*todo.Todo, error) {
	if len(data) < MinEncodedSize {
		return nil, fmt.Errorf("data too short for todo record: %d bytes", len(data))
	}
	if len(data) > MaxEncodedSize {
		return nil, fmt.Errorf("data exceeds maximum record size: %d bytes", len(data))
	}

	stored := binary.LittleEndian.Uint32(data[0:4])
	if actual := crc32.ChecksumIEEE(data[4:]); stored != actual {
		return nil, fmt.Errorf("CRC32 mismatch: %d != %d", stored, actual)
	}

	t := &todo.Todo{}
	off := 4

	t.ID = binary.LittleEndian.Uint64(data[off:])
	off += 8

	status := todo.Status(data[off])
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status tag %d", data[off])
	}
	t.Status = status
	off++

	priority := todo.Priority(data[off])
	if !priority.Valid() {
		return nil, fmt.Errorf("invalid priority tag %d", data[off])
	}
	t.Priority = priority
	off++

	t.CreatedAt = binary.LittleEndian.Uint64(data[off:])
	off += 8

	var err error
	if t.DueDate, off, err = getOptional(data, off, "due date"); err != nil {
		return nil, err
	}
	if t.UpdatedAt, off, err = getOptional(data, off, "updated at"); err != nil {
		return nil, err
	}
	if t.Title, off, err = getString(data, off, "title"); err != nil {
		return nil, err
	}
	if t.Description, off, err = getString(data, off, "description"); err != nil {
		return nil, err
	}
	if t.Owner, off, err = getString(data, off, "owner"); err != nil {
		return nil, err
	}

	if off != len(data) {
		return nil, fmt.Errorf("%d trailing bytes after todo record", len(data)-off)
	}

	return t, nil
}

// MustDecode decodes bytes the store itself wrote. Records at rest are
// trusted to be Encode output, so failure means corruption and panics
// rather than returning an error.
func (c *TodoCodec) MustDecode(data []byte) *todo.Todo {
	t, err := c.Decode(data)
	if err != nil {
		panic(fmt.Sprintf("todo record corrupted: %v", err))
	}
	return t
}

func putOptional(buf []byte, off int, v *uint64) int {
	if v == nil {
		buf[off] = 0
		return off + 1
	}
	buf[off] = 1
	binary.LittleEndian.PutUint64(buf[off+1:], *v)
	return off + 9
}

func putString(buf []byte, off int, s string) int {
	binary.LittleEndian.PutUint32(buf[off:], uint32(len(s)))
	off += 4
	copy(buf[off:], s)
	return off + len(s)
}

func getOptional(data []byte, off int, field string) (*uint64, int, error) {
	if off >= len(data) {
		return nil, 0, fmt.Errorf("data too short for %s presence tag", field)
	}
	switch data[off] {
	case 0:
		return nil, off + 1, nil
	case 1:
		if off+9 > len(data) {
			return nil, 0, fmt.Errorf("data too short for %s value", field)
		}
		v := binary.LittleEndian.Uint64(data[off+1:])
		return &v, off + 9, nil
	default:
		return nil, 0, fmt.Errorf("invalid %s presence tag %d", field, data[off])
	}
}

func getString(data []byte, off int, field string) (string, int, error) {
	if off+4 > len(data) {
		return "", 0, fmt.Errorf("data too short for %s length", field)
	}
	n := binary.LittleEndian.Uint32(data[off:])
	off += 4
	if uint32(len(data)-off) < n {
		return "", 0, fmt.Errorf("data too short for %s: %d bytes declared, %d remain", field, n, len(data)-off)
	}
	return string(data[off : off+int(n)]), off + int(n), nil
}
