package userui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/getmockd/fireflow/pkg/collection"
	"github.com/getmockd/fireflow/pkg/logging"
)

// DefaultResource is the collection name used in errors when none is set.
const DefaultResource = "users"

// Controller is the form controller and list synchronizer for one
// collection. It is safe for concurrent use.
type Controller struct {
	coll     collection.Collection
	mapper   *collection.Mapper
	resource string
	log      *slog.Logger

	mu         sync.Mutex
	form       FormState
	op         pending
	records    []collection.Record
	loading    bool
	lastErr    error
	refreshGen uint64

	// notifyMu serializes observer delivery so views arrive in order.
	notifyMu sync.Mutex
	subsMu   sync.Mutex
	subs     map[int]func(View)
	nextSub  int
}

// Option configures a Controller.
type Option func(*Controller)

// WithMapper sets the document-to-record mapping.
func WithMapper(m *collection.Mapper) Option {
	return func(c *Controller) {
		if m != nil {
			c.mapper = m
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithResource sets the collection name reported in errors.
func WithResource(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.resource = name
		}
	}
}

// New creates a Controller. The list starts in the loading state until the
// first Refresh (usually via Init) completes.
func New(coll collection.Collection, opts ...Option) *Controller {
	c := &Controller{
		coll:     coll,
		mapper:   collection.DefaultMapper(),
		resource: DefaultResource,
		log:      logging.Nop(),
		loading:  true,
		subs:     make(map[int]func(View)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init performs the initial fetch.
func (c *Controller) Init(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh re-fetches the whole collection and replaces the list.
//
// If several refreshes overlap, only the most recently started one
// publishes its result; older ones return without touching state.
func (c *Controller) Refresh(ctx context.Context) error {
	err := c.refresh(ctx)
	c.notify()
	return err
}

func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	c.refreshGen++
	gen := c.refreshGen
	c.loading = true
	c.mu.Unlock()
	c.notify()

	docs, err := c.coll.FetchAll(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.refreshGen {
		c.log.Debug("discarding superseded refresh", "generation", gen)
		return err
	}

	c.loading = false
	if err != nil {
		c.lastErr = &RefreshError{Err: err}
		c.log.Warn("refresh failed", "error", err)
		return c.lastErr
	}

	c.records = c.mapper.Records(docs)
	c.lastErr = nil
	c.log.Debug("list refreshed", "count", len(c.records))
	return nil
}

// SetName updates the pending name. Rejected while a submit is in flight.
func (c *Controller) SetName(name string) error {
	return c.updateForm(func(f *FormState) { f.Name = name })
}

// SetAge updates the pending age. Rejected while a submit is in flight.
func (c *Controller) SetAge(age string) error {
	return c.updateForm(func(f *FormState) { f.Age = age })
}

// SetInput updates both inputs at once.
func (c *Controller) SetInput(name, age string) error {
	return c.updateForm(func(f *FormState) {
		f.Name = name
		f.Age = age
	})
}

func (c *Controller) updateForm(fn func(*FormState)) error {
	c.mu.Lock()
	if c.op.kind == opSubmit {
		c.mu.Unlock()
		return ErrBusy
	}
	fn(&c.form)
	c.lastErr = nil
	c.mu.Unlock()
	c.notify()
	return nil
}

// Edit binds the form to record: its name and age become the pending input
// and the next Submit updates record.ID. No network call is made.
func (c *Controller) Edit(record collection.Record) error {
	if record.ID == "" {
		return &collection.ValidationError{Field: "id", Message: "record has no id"}
	}

	c.mu.Lock()
	if c.op.busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.form = FormState{Name: record.Name, Age: record.Age, EditTarget: record.ID}
	c.lastErr = nil
	c.mu.Unlock()

	c.notify()
	return nil
}

// EditByID binds the form to the listed record with the given id.
func (c *Controller) EditByID(id string) error {
	c.mu.Lock()
	if c.op.busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	i := slices.IndexFunc(c.records, func(r collection.Record) bool { return r.ID == id })
	if i < 0 {
		c.mu.Unlock()
		return &collection.NotFoundError{Resource: c.resource, ID: id}
	}
	record := c.records[i]
	c.mu.Unlock()

	return c.Edit(record)
}

// CancelEdit returns the form to create mode and clears the inputs.
func (c *Controller) CancelEdit() error {
	c.mu.Lock()
	if c.op.busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.form = FormState{}
	c.lastErr = nil
	c.mu.Unlock()

	c.notify()
	return nil
}

// Submit writes the pending input: an update of the bound record in edit
// mode, otherwise a create. After a successful write the inputs are
// cleared, the list is re-fetched and the form returns to create mode.
//
// On a failed write the form keeps its input and binding and the error is
// reported. If the write succeeds but the re-fetch fails, the written
// record is applied to the local list, the form is still reset, and the
// returned error wraps the refresh failure alongside the written record.
func (c *Controller) Submit(ctx context.Context) (collection.Record, error) {
	c.mu.Lock()
	if c.op.busy() {
		c.mu.Unlock()
		return collection.Record{}, ErrBusy
	}
	form := c.form
	if err := validate(form); err != nil {
		c.mu.Unlock()
		return collection.Record{}, err
	}
	c.op = pending{kind: opSubmit, target: form.EditTarget}
	c.mu.Unlock()
	c.notify()

	record := collection.Record{ID: form.EditTarget, Name: form.Name, Age: form.Age}
	var err error
	if form.Editing() {
		err = c.coll.UpdateByID(ctx, form.EditTarget, form.fields())
	} else {
		record.ID, err = c.coll.Insert(ctx, form.fields())
	}

	if err != nil {
		c.mu.Lock()
		c.op = pending{}
		if form.Editing() {
			c.lastErr = fmt.Errorf("update %s: %w", form.EditTarget, err)
		} else {
			c.lastErr = fmt.Errorf("create: %w", err)
		}
		err = c.lastErr
		c.mu.Unlock()

		c.log.Warn("submit failed", "editTarget", form.EditTarget, "error", err)
		c.notify()
		return collection.Record{}, err
	}

	c.log.Info("record written", "id", record.ID, "update", form.Editing())

	c.mu.Lock()
	c.form = FormState{}
	c.mu.Unlock()
	c.notify()

	refreshErr := c.refresh(ctx)

	c.mu.Lock()
	if refreshErr != nil {
		c.records = applyWrite(c.records, record)
	}
	c.op = pending{}
	c.mu.Unlock()
	c.notify()

	if refreshErr != nil {
		return record, refreshErr
	}
	return record, nil
}

// Remove deletes the record with the given id, then re-fetches the list.
// A record that is already gone counts as deleted. If the removed record
// was bound to the form, the form returns to create mode.
func (c *Controller) Remove(ctx context.Context, id string) error {
	if id == "" {
		return &collection.ValidationError{Field: "id", Message: "is required"}
	}

	c.mu.Lock()
	if c.op.busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	c.op = pending{kind: opDelete, target: id}
	c.mu.Unlock()
	c.notify()

	err := c.coll.DeleteByID(ctx, id)
	if err != nil && !collection.IsNotFound(err) {
		c.mu.Lock()
		c.op = pending{}
		c.lastErr = fmt.Errorf("delete %s: %w", id, err)
		err = c.lastErr
		c.mu.Unlock()

		c.log.Warn("delete failed", "id", id, "error", err)
		c.notify()
		return err
	}
	if err != nil {
		c.log.Debug("record already deleted", "id", id)
	} else {
		c.log.Info("record deleted", "id", id)
	}

	refreshErr := c.refresh(ctx)

	c.mu.Lock()
	if refreshErr != nil {
		c.records = slices.DeleteFunc(slices.Clone(c.records), func(r collection.Record) bool { return r.ID == id })
	}
	if c.form.EditTarget == id {
		c.form = FormState{}
	}
	c.op = pending{}
	c.mu.Unlock()
	c.notify()

	return refreshErr
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.modeLocked()
}

func (c *Controller) modeLocked() Mode {
	switch c.op.kind {
	case opSubmit:
		return ModeSubmitting
	case opDelete:
		return ModeDeleting
	}
	if c.form.Editing() {
		return ModeEditing
	}
	return ModeIdle
}

// Form returns the pending input.
func (c *Controller) Form() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// Records returns a copy of the current list.
func (c *Controller) Records() []collection.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.records)
}

// Err returns the last reported error, or nil after a successful operation.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Subscribe registers fn to receive a View after every state change and
// returns a function that removes it. Views are delivered synchronously
// and in order, so fn must not block for long and must not call back into
// the controller's mutating methods.
func (c *Controller) Subscribe(fn func(View)) (unsubscribe func()) {
	c.subsMu.Lock()
	key := c.nextSub
	c.nextSub++
	c.subs[key] = fn
	c.subsMu.Unlock()

	return func() {
		c.subsMu.Lock()
		delete(c.subs, key)
		c.subsMu.Unlock()
	}
}

func (c *Controller) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.subsMu.Lock()
	if len(c.subs) == 0 {
		c.subsMu.Unlock()
		return
	}
	fns := make([]func(View), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subsMu.Unlock()

	view := c.Snapshot()
	for _, fn := range fns {
		fn(view)
	}
}

// validate enforces required-field presence.
func validate(f FormState) error {
	if f.Name == "" {
		return &collection.ValidationError{Field: collection.FieldName, Message: "is required"}
	}
	if f.Age == "" {
		return &collection.ValidationError{Field: collection.FieldAge, Message: "is required"}
	}
	return nil
}

// applyWrite reflects a successful write in a list that could not be
// re-fetched.
func applyWrite(records []collection.Record, written collection.Record) []collection.Record {
	out := slices.Clone(records)
	for i := range out {
		if out[i].ID == written.ID {
			out[i] = written
			return out
		}
	}
	return append(out, written)
}
