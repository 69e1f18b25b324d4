package collection

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getmockd/fireflow/internal/id"
)

// Memory is a thread-safe in-memory Collection.
// Documents are returned in insertion order.
type Memory struct {
	mu    sync.RWMutex
	name  string
	items map[string]*Document
	order []string
	seed  []map[string]any
	newID func() string
	now   func() time.Time
}

// MemoryOption configures a Memory collection.
type MemoryOption func(*Memory)

// WithSeed sets documents loaded on creation and on Reset.
// A seed document without an "id" key gets a generated one.
func WithSeed(docs ...map[string]any) MemoryOption {
	return func(m *Memory) {
		m.seed = append(m.seed, docs...)
	}
}

// WithIDGenerator overrides the id generator (UUID v4 by default).
func WithIDGenerator(fn func() string) MemoryOption {
	return func(m *Memory) {
		m.newID = fn
	}
}

// NewMemory creates an in-memory collection. It returns an error when the
// seed data contains duplicate ids.
func NewMemory(name string, opts ...MemoryOption) (*Memory, error) {
	m := &Memory{
		name:  name,
		items: make(map[string]*Document),
		newID: id.UUID,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.loadSeed(); err != nil {
		return nil, err
	}
	return m, nil
}

// loadSeed replaces the contents with the seed data. On error the current
// contents are left untouched.
func (m *Memory) loadSeed() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make(map[string]*Document, len(m.seed))
	order := make([]string, 0, len(m.seed))

	for i, data := range m.seed {
		doc := FromJSON(data, "id")
		if doc.ID == "" {
			doc.ID = m.newID()
		}
		if _, exists := items[doc.ID]; exists {
			return fmt.Errorf("duplicate ID %q in seed data at index %d", doc.ID, i)
		}
		now := m.now()
		doc.CreatedAt = now
		doc.UpdatedAt = now
		items[doc.ID] = &doc
		order = append(order, doc.ID)
	}

	m.items = items
	m.order = order
	return nil
}

// FetchAll returns a copy of every document in insertion order.
func (m *Memory) FetchAll(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]Document, 0, len(m.order))
	for _, docID := range m.order {
		docs = append(docs, m.items[docID].clone())
	}
	return docs, nil
}

// Insert adds a document and returns its generated id.
func (m *Memory) Insert(ctx context.Context, fields Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	docID := m.newID()
	if _, exists := m.items[docID]; exists {
		return "", &ConflictError{Resource: m.name, ID: docID}
	}

	now := m.now()
	m.items[docID] = &Document{
		ID:        docID,
		Data:      fields.Map(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.order = append(m.order, docID)
	return docID, nil
}

// UpdateByID sets name and age on an existing document, keeping any other
// fields it carries.
func (m *Memory) UpdateByID(ctx context.Context, docID string, fields Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.items[docID]
	if !ok {
		return &NotFoundError{Resource: m.name, ID: docID}
	}

	updated := doc.clone()
	for k, v := range fields.Map() {
		updated.Data[k] = v
	}
	updated.UpdatedAt = m.now()
	m.items[docID] = &updated
	return nil
}

// DeleteByID removes a document.
func (m *Memory) DeleteByID(ctx context.Context, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[docID]; !ok {
		return &NotFoundError{Resource: m.name, ID: docID}
	}

	delete(m.items, docID)
	for i, existing := range m.order {
		if existing == docID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Reset restores the collection to its seed data.
func (m *Memory) Reset() error {
	return m.loadSeed()
}

// Count returns the number of documents.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Ensure Memory implements Collection.
var _ Collection = (*Memory)(nil)
