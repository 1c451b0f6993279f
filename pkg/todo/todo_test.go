package todo

import (
	"encoding/json"
	"testing"
)

func TestStatus_StringParseRoundTrip(t *testing.T) {
	statuses := []Status{StatusPending, StatusInProgress, StatusCompleted}

	for _, s := range statuses {
		parsed, err := ParseStatus(s.String())
		if err != nil {
			t.Fatalf("ParseStatus(%q) failed: %v", s.String(), err)
		}
		if parsed != s {
			t.Errorf("Round trip mismatch: got %v, want %v", parsed, s)
		}
	}
}

func TestPriority_StringParseRoundTrip(t *testing.T) {
	priorities := []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

	for _, p := range priorities {
		parsed, err := ParsePriority(p.String())
		if err != nil {
			t.Fatalf("ParsePriority(%q) failed: %v", p.String(), err)
		}
		if parsed != p {
			t.Errorf("Round trip mismatch: got %v, want %v", parsed, p)
		}
	}
}

func TestParseStatus_Forms(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "pending", input: "pending", want: StatusPending},
		{name: "underscore form", input: "in_progress", want: StatusInProgress},
		{name: "hyphen form", input: "in-progress", want: StatusInProgress},
		{name: "compact form", input: "inprogress", want: StatusInProgress},
		{name: "mixed case", input: "Completed", want: StatusCompleted},
		{name: "surrounding whitespace", input: "  pending  ", want: StatusPending},
		{name: "unknown", input: "done", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseStatus(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Errorf("Expected error for %q, got %v", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatus(%q) failed: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseStatus(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParsePriority_Unknown(t *testing.T) {
	if _, err := ParsePriority("critical"); err == nil {
		t.Error("Expected error for unknown priority")
	}
}

func TestStatus_Valid(t *testing.T) {
	if !StatusPending.Valid() || !StatusInProgress.Valid() || !StatusCompleted.Valid() {
		t.Error("Defined statuses should be valid")
	}
	if Status(3).Valid() {
		t.Error("Status tag 3 should be invalid")
	}
}

func TestPriority_Valid(t *testing.T) {
	if !PriorityLow.Valid() || !PriorityUrgent.Valid() {
		t.Error("Defined priorities should be valid")
	}
	if Priority(4).Valid() {
		t.Error("Priority tag 4 should be invalid")
	}
}

func TestTodo_JSONShape(t *testing.T) {
	due := uint64(1719043200000000000)
	todo := Todo{
		ID:          7,
		Title:       "Buy milk",
		Description: "Two liters",
		Status:      StatusInProgress,
		Priority:    PriorityHigh,
		DueDate:     &due,
		CreatedAt:   1719000000000000000,
		Owner:       "alice",
	}

	data, err := json.Marshal(todo)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"id":7,"title":"Buy milk","description":"Two liters","status":"in_progress",` +
		`"priority":"high","due_date":1719043200000000000,"created_at":1719000000000000000,"owner":"alice"}`
	if string(data) != want {
		t.Errorf("JSON mismatch:\ngot  %s\nwant %s", data, want)
	}

	var back Todo
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back.Status != StatusInProgress || back.Priority != PriorityHigh {
		t.Errorf("Enum round trip mismatch: %v %v", back.Status, back.Priority)
	}
	if back.UpdatedAt != nil {
		t.Errorf("Expected absent updated_at to stay nil, got %v", *back.UpdatedAt)
	}
}

func TestPayload_UnknownEnumJSON(t *testing.T) {
	var p Payload
	if err := json.Unmarshal([]byte(`{"title":"x","priority":"severe"}`), &p); err == nil {
		t.Error("Expected error for unknown priority string")
	}

	var s Status
	if err := json.Unmarshal([]byte(`"archived"`), &s); err == nil {
		t.Error("Expected error for unknown status string")
	}
}

func TestErrors_Kinds(t *testing.T) {
	nf := NotFoundf("Todo with id=%d not found", 999)
	if nf.Error() != "Todo with id=999 not found" {
		t.Errorf("Unexpected message: %s", nf.Error())
	}
	if !IsNotFound(nf) {
		t.Error("IsNotFound should match NotFoundError")
	}
	if IsInvalidInput(nf) {
		t.Error("IsInvalidInput should not match NotFoundError")
	}

	ii := InvalidInputf("Title cannot be empty")
	if ii.Error() != "Title cannot be empty" {
		t.Errorf("Unexpected message: %s", ii.Error())
	}
	if !IsInvalidInput(ii) {
		t.Error("IsInvalidInput should match InvalidInputError")
	}
	if IsNotFound(ii) {
		t.Error("IsNotFound should not match InvalidInputError")
	}
}
