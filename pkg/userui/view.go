package userui

import (
	"slices"

	"github.com/getmockd/fireflow/pkg/collection"
)

// Button labels.
const (
	LabelAdd        = "Add"
	LabelUpdate     = "Update"
	LabelAdding     = "Adding..."
	LabelEditing    = "Editing..."
	LabelDelete     = "Delete"
	LabelDeleting   = "Deleting..."
	LabelEditButton = "Edit"
)

// View is an immutable rendering of the controller state.
type View struct {
	Mode    Mode                `json:"mode"`
	Loading bool                `json:"loading"`
	Form    FormState           `json:"form"`
	Records []collection.Record `json:"records"`
	Rows    []Row               `json:"rows"`

	// DeletingID is the record whose delete is in flight.
	DeletingID string `json:"deletingId,omitempty"`

	SubmitLabel    string `json:"submitLabel"`
	SubmitDisabled bool   `json:"submitDisabled"`
	InputsDisabled bool   `json:"inputsDisabled"`

	// Error is the last reported error, cleared by the next success.
	Error string `json:"error,omitempty"`
}

// Row is one rendered list entry with its action state.
type Row struct {
	collection.Record
	EditDisabled   bool   `json:"editDisabled"`
	DeleteDisabled bool   `json:"deleteDisabled"`
	DeleteLabel    string `json:"deleteLabel"`
}

// Snapshot renders the current state.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	mode := c.modeLocked()
	busy := c.op.busy()

	v := View{
		Mode:           mode,
		Loading:        c.loading,
		Form:           c.form,
		Records:        slices.Clone(c.records),
		Rows:           make([]Row, len(c.records)),
		SubmitDisabled: busy,
		InputsDisabled: c.op.kind == opSubmit,
		SubmitLabel:    submitLabel(c.op, c.form),
	}
	if v.Records == nil {
		v.Records = []collection.Record{}
	}
	if c.op.kind == opDelete {
		v.DeletingID = c.op.target
	}
	if c.lastErr != nil {
		v.Error = c.lastErr.Error()
	}

	for i, r := range c.records {
		label := LabelDelete
		if v.DeletingID == r.ID {
			label = LabelDeleting
		}
		v.Rows[i] = Row{
			Record:         r,
			EditDisabled:   busy,
			DeleteDisabled: busy,
			DeleteLabel:    label,
		}
	}
	return v
}

// submitLabel reflects mode and busy state. While submitting, the label
// follows the binding captured when the submit started.
func submitLabel(op pending, form FormState) string {
	if op.kind == opSubmit {
		if op.target != "" {
			return LabelEditing
		}
		return LabelAdding
	}
	if form.Editing() {
		return LabelUpdate
	}
	return LabelAdd
}

// Row returns the row for id, if listed.
func (v View) Row(id string) (Row, bool) {
	for _, r := range v.Rows {
		if r.ID == id {
			return r, true
		}
	}
	return Row{}, false
}
