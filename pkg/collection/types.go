package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Field names exchanged with every store.
const (
	FieldName = "name"
	FieldAge  = "age"
)

// Collection is the document store the controller reads and writes.
type Collection interface {
	// FetchAll returns every document. Order is the store's and is not
	// guaranteed to be stable across calls.
	FetchAll(ctx context.Context) ([]Document, error)

	// Insert creates a document and returns its store-assigned id.
	Insert(ctx context.Context, fields Fields) (string, error)

	// UpdateByID overwrites the name and age of an existing document.
	UpdateByID(ctx context.Context, id string, fields Fields) error

	// DeleteByID removes a document.
	DeleteByID(ctx context.Context, id string) error
}

// Fields is the payload written to the collection.
type Fields struct {
	Name string `json:"name"`
	Age  string `json:"age"`
}

// Map returns the fields as document data.
func (f Fields) Map() map[string]any {
	return map[string]any{
		FieldName: f.Name,
		FieldAge:  f.Age,
	}
}

// Document is a raw document as stored.
type Document struct {
	// ID is assigned by the store and never changes.
	ID string `json:"id"`
	// Data contains the document fields (arbitrary JSON).
	Data map[string]any `json:"-"`
	// CreatedAt is when the document was created, if the store tracks it.
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is when the document was last modified, if the store tracks it.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Record is one user entity as the controller sees it.
type Record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  string `json:"age"`
}

// Fields returns the writable part of the record.
func (r Record) Fields() Fields {
	return Fields{Name: r.Name, Age: r.Age}
}

// ListResponse is the envelope for collection listings on the wire.
type ListResponse struct {
	Data []map[string]any `json:"data"`
	Meta ListMeta         `json:"meta"`
}

// ListMeta carries listing metadata.
type ListMeta struct {
	Total int `json:"total"`
	Count int `json:"count"`
}

// ErrorResponse is the JSON error body of the REST dialect.
type ErrorResponse struct {
	Error      string `json:"error"`
	Resource   string `json:"resource,omitempty"`
	ID         string `json:"id,omitempty"`
	Detail     string `json:"detail,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	Hint       string `json:"hint,omitempty"`
	Field      string `json:"field,omitempty"`
}

// ToJSON flattens a document into a JSON-compatible map.
// Data fields are merged at the root level with id and timestamps.
func (d *Document) ToJSON() map[string]any {
	result := make(map[string]any, len(d.Data)+3)
	for k, v := range d.Data {
		result[k] = v
	}

	result["id"] = d.ID
	if !d.CreatedAt.IsZero() {
		result["createdAt"] = d.CreatedAt.Format(time.RFC3339)
	}
	if !d.UpdatedAt.IsZero() {
		result["updatedAt"] = d.UpdatedAt.Format(time.RFC3339)
	}
	return result
}

// FromJSON builds a Document from a flattened JSON map, extracting the id
// and timestamps.
func FromJSON(data map[string]any, idField string) Document {
	if idField == "" {
		idField = "id"
	}

	doc := Document{Data: make(map[string]any, len(data))}

	doc.ID = IDString(data[idField])
	if ts, ok := data["createdAt"].(string); ok {
		doc.CreatedAt, _ = time.Parse(time.RFC3339, ts)
	}
	if ts, ok := data["updatedAt"].(string); ok {
		doc.UpdatedAt, _ = time.Parse(time.RFC3339, ts)
	}

	for k, v := range data {
		if k == idField || k == "createdAt" || k == "updatedAt" {
			continue
		}
		doc.Data[k] = v
	}
	return doc
}

// IDString renders a stored id value as a string. Stores that assign
// numeric ids keep their JSON text form, so 7 becomes "7".
func IDString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return id
	case json.Number:
		return id.String()
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return fmt.Sprint(id)
	}
}

// clone returns a deep-enough copy of the document for handing to callers.
func (d *Document) clone() Document {
	out := *d
	out.Data = make(map[string]any, len(d.Data))
	for k, v := range d.Data {
		out.Data[k] = v
	}
	return out
}
