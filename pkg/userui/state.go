package userui

import (
	"errors"
	"fmt"

	"github.com/getmockd/fireflow/pkg/collection"
)

// ErrBusy is returned when an action is attempted while a submit or delete
// is in flight.
var ErrBusy = errors.New("another operation is in progress")

// RefreshError reports a failed re-fetch. When returned by Submit or
// Remove the mutation itself was applied and only the list is stale.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return "refresh: " + e.Err.Error()
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// Mode is the controller's current state.
type Mode int

// Controller modes.
const (
	ModeIdle Mode = iota
	ModeEditing
	ModeSubmitting
	ModeDeleting
)

var modeNames = map[Mode]string{
	ModeIdle:       "idle",
	ModeEditing:    "editing",
	ModeSubmitting: "submitting",
	ModeDeleting:   "deleting",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	for mode, name := range modeNames {
		if name == string(b) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("unknown mode %q", string(b))
}

// FormState is the pending form input.
type FormState struct {
	Name string `json:"name"`
	Age  string `json:"age"`
	// EditTarget is the id of the record being edited; empty means create.
	EditTarget string `json:"editTarget,omitempty"`
}

// Editing reports whether the form is bound to a record.
func (f FormState) Editing() bool {
	return f.EditTarget != ""
}

// fields returns the writable payload.
func (f FormState) fields() collection.Fields {
	return collection.Fields{Name: f.Name, Age: f.Age}
}

// opKind identifies the in-flight operation.
type opKind int

const (
	opNone opKind = iota
	opSubmit
	opDelete
)

// pending describes the in-flight operation, if any.
type pending struct {
	kind opKind
	// target is the record being written (submit in update mode) or
	// removed (delete).
	target string
}

func (p pending) busy() bool {
	return p.kind != opNone
}
