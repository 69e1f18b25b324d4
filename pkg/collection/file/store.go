// Package file provides a JSON file backed collection.
//
// The whole collection lives in one file. It is loaded on Open and written
// back atomically (temp file + rename) before every mutation returns, so a
// FetchAll after a successful write always observes it.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/getmockd/fireflow/internal/id"
	"github.com/getmockd/fireflow/pkg/collection"
	"github.com/getmockd/fireflow/pkg/logging"
)

// Current data format version for migration support
const dataVersion = 1

// ErrReadOnly is returned by mutations on a read-only store.
var ErrReadOnly = errors.New("collection file is read-only")

// Config configures a Store.
type Config struct {
	// Path is the JSON data file.
	Path string
	// Name is the collection name recorded in the file and in errors.
	Name string
	// ReadOnly rejects every mutation.
	ReadOnly bool
}

// Store implements collection.Collection on top of a JSON file.
type Store struct {
	cfg  Config
	mu   sync.RWMutex
	data *storeData
	log  *slog.Logger
	now  func() time.Time
}

// storeData is the on-disk layout.
type storeData struct {
	Version   int              `json:"version"`
	Name      string           `json:"name"`
	Documents []map[string]any `json:"documents"`
}

// New creates a Store. Call Open before use.
func New(cfg Config, log *slog.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		cfg:  cfg,
		data: &storeData{Version: dataVersion, Name: cfg.Name},
		log:  log,
		now:  time.Now,
	}
}

// Open loads the data file, creating its directory if needed. A missing
// file is an empty collection.
func (s *Store) Open(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.Path == "" {
		return errors.New("data file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(s.cfg.Path), 0o700); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	raw, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.data = &storeData{Version: dataVersion, Name: s.cfg.Name}
			return nil
		}
		return fmt.Errorf("read data file: %w", err)
	}

	var stored storeData
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&stored); err != nil {
		return fmt.Errorf("parse data file %s: %w", s.cfg.Path, err)
	}
	if stored.Version > dataVersion {
		return fmt.Errorf("data file %s has version %d, newest supported is %d", s.cfg.Path, stored.Version, dataVersion)
	}
	if stored.Name == "" {
		stored.Name = s.cfg.Name
	}
	s.data = &stored
	s.log.Debug("loaded collection file", "path", s.cfg.Path, "documents", len(stored.Documents))
	return nil
}

// FetchAll returns every document in file order.
func (s *Store) FetchAll(ctx context.Context) ([]collection.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]collection.Document, len(s.data.Documents))
	for i, raw := range s.data.Documents {
		docs[i] = collection.FromJSON(raw, "id")
	}
	return docs, nil
}

// Insert appends a document with a generated id and saves.
func (s *Store) Insert(ctx context.Context, fields collection.Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ReadOnly {
		return "", ErrReadOnly
	}

	now := s.now()
	doc := collection.Document{
		ID:        id.UUID(),
		Data:      fields.Map(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.data.Documents = append(s.data.Documents, doc.ToJSON())
	if err := s.save(); err != nil {
		s.data.Documents = s.data.Documents[:len(s.data.Documents)-1]
		return "", err
	}
	return doc.ID, nil
}

// UpdateByID sets name and age on a document and saves.
func (s *Store) UpdateByID(ctx context.Context, docID string, fields collection.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ReadOnly {
		return ErrReadOnly
	}

	i := s.indexOf(docID)
	if i < 0 {
		return &collection.NotFoundError{Resource: s.data.Name, ID: docID}
	}

	prev := s.data.Documents[i]
	doc := collection.FromJSON(prev, "id")
	for k, v := range fields.Map() {
		doc.Data[k] = v
	}
	doc.UpdatedAt = s.now()
	updated := doc.ToJSON()
	updated["id"] = prev["id"]
	s.data.Documents[i] = updated
	if err := s.save(); err != nil {
		s.data.Documents[i] = prev
		return err
	}
	return nil
}

// DeleteByID removes a document and saves.
func (s *Store) DeleteByID(ctx context.Context, docID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.ReadOnly {
		return ErrReadOnly
	}

	i := s.indexOf(docID)
	if i < 0 {
		return &collection.NotFoundError{Resource: s.data.Name, ID: docID}
	}

	prev := s.data.Documents
	docs := make([]map[string]any, 0, len(prev)-1)
	docs = append(docs, prev[:i]...)
	docs = append(docs, prev[i+1:]...)
	s.data.Documents = docs
	if err := s.save(); err != nil {
		s.data.Documents = prev
		return err
	}
	return nil
}

// indexOf finds a document by id. Caller holds the lock.
func (s *Store) indexOf(docID string) int {
	for i, raw := range s.data.Documents {
		if collection.IDString(raw["id"]) == docID {
			return i
		}
	}
	return -1
}

// save writes the data file atomically. Caller holds the write lock.
func (s *Store) save() error {
	s.data.Version = dataVersion
	if s.data.Documents == nil {
		s.data.Documents = []map[string]any{}
	}

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode data file: %w", err)
	}

	tmpFile := s.cfg.Path + ".tmp"
	if err := os.WriteFile(tmpFile, raw, 0o600); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmpFile, s.cfg.Path); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

// Ensure Store implements collection.Collection.
var _ collection.Collection = (*Store)(nil)
