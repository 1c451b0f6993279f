package todo

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Field size limits enforced before a record reaches the codec. The
// worst-case encoding of a record at these limits stays inside the codec's
// 2048-byte bound.
const (
	MaxTitleLen       = 256
	MaxDescriptionLen = 1536
	MaxOwnerLen       = 128
)

// Status identifies where a todo sits in its lifecycle.
// The numeric values are persisted as encoding tags; never renumber.
type Status uint8

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
)

// Priority ranks how urgent a todo is.
// The numeric values are persisted as encoding tags; never renumber.
type Priority uint8

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

// Todo is one task record.
type Todo struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	DueDate     *uint64  `json:"due_date,omitempty"`
	CreatedAt   uint64   `json:"created_at"`
	UpdatedAt   *uint64  `json:"updated_at,omitempty"`
	Owner       string   `json:"owner"`
}

// Payload carries the caller-supplied fields for add and update operations.
type Payload struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     *uint64  `json:"due_date,omitempty"`
}

// Valid reports whether s is one of the defined status values.
func (s Status) Valid() bool {
	return s <= StatusCompleted
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInProgress:
		return "in_progress"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// ParseStatus maps a string form back to a Status.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "in_progress", "in-progress", "inprogress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return 0, fmt.Errorf("unknown status %q", s)
	}
}

// MarshalJSON renders the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("unknown status tag %d", uint8(s))
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the string forms produced by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParseStatus(v)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Valid reports whether p is one of the defined priority values.
func (p Priority) Valid() bool {
	return p <= PriorityUrgent
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	case PriorityUrgent:
		return "urgent"
	default:
		return fmt.Sprintf("priority(%d)", uint8(p))
	}
}

// ParsePriority maps a string form back to a Priority.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	case "urgent":
		return PriorityUrgent, nil
	default:
		return 0, fmt.Errorf("unknown priority %q", s)
	}
}

// MarshalJSON renders the priority as its string form.
func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown priority tag %d", uint8(p))
	}
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts the string forms produced by MarshalJSON.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := ParsePriority(v)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
