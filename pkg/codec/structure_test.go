package codec

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/ssargent/skuld/pkg/todo"
)

// TestTagValues_Stable pins the persisted enum tags. These bytes live in
// records at rest; renumbering them silently breaks every existing store.
func TestTagValues_Stable(t *testing.T) {
	statusTags := []struct {
		status todo.Status
		tag    byte
	}{
		{todo.StatusPending, 0},
		{todo.StatusInProgress, 1},
		{todo.StatusCompleted, 2},
	}
	for _, tc := range statusTags {
		if byte(tc.status) != tc.tag {
			t.Errorf("Status %v tag changed: got %d, want %d", tc.status, byte(tc.status), tc.tag)
		}
	}

	priorityTags := []struct {
		priority todo.Priority
		tag      byte
	}{
		{todo.PriorityLow, 0},
		{todo.PriorityMedium, 1},
		{todo.PriorityHigh, 2},
		{todo.PriorityUrgent, 3},
	}
	for _, tc := range priorityTags {
		if byte(tc.priority) != tc.tag {
			t.Errorf("Priority %v tag changed: got %d, want %d", tc.priority, byte(tc.priority), tc.tag)
		}
	}
}

// TestRecordFormat_GoldenBytes pins the exact wire layout. A failure here
// means the format changed and previously written stores can no longer be
// read.
func TestRecordFormat_GoldenBytes(t *testing.T) {
	codec := NewTodoCodec()

	due := uint64(256)
	record := &todo.Todo{
		ID:        7,
		Title:     "Go",
		Status:    todo.StatusInProgress,
		Priority:  todo.PriorityUrgent,
		DueDate:   &due,
		CreatedAt: 1,
		Owner:     "ab",
	}

	encoded, err := codec.Encode(record)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	body := []byte{
		0x07, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // ID = 7
		0x01,                                           // Status = InProgress
		0x03,                                           // Priority = Urgent
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // CreatedAt = 1
		0x01,                                           // DueDate present
		0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // DueDate = 256
		0x00,                   // UpdatedAt absent
		0x02, 0x00, 0x00, 0x00, // TitleLen = 2
		'G', 'o',
		0x00, 0x00, 0x00, 0x00, // DescLen = 0
		0x02, 0x00, 0x00, 0x00, // OwnerLen = 2
		'a', 'b',
	}

	expected := make([]byte, 4+len(body))
	copy(expected[4:], body)
	binary.LittleEndian.PutUint32(expected[0:], crc32.ChecksumIEEE(body))

	if !bytes.Equal(encoded, expected) {
		t.Errorf("Record layout changed:\ngot  %x\nwant %x", encoded, expected)
	}
}

// TestRecordFormat_SizeConstants keeps the advertised size constants honest.
func TestRecordFormat_SizeConstants(t *testing.T) {
	codec := NewTodoCodec()

	empty := &todo.Todo{}
	if size := codec.EncodedSize(empty); size != MinEncodedSize {
		t.Errorf("MinEncodedSize drifted: empty record encodes to %d, constant says %d", size, MinEncodedSize)
	}

	encoded, err := codec.Encode(empty)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(encoded) != MinEncodedSize {
		t.Errorf("Empty record encoded to %d bytes, want %d", len(encoded), MinEncodedSize)
	}
}
