package collection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_Default(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want Record
	}{
		{
			name: "verbatim fields",
			doc:  Document{ID: "1", Data: map[string]any{"name": "Ann", "age": "30"}},
			want: Record{ID: "1", Name: "Ann", Age: "30"},
		},
		{
			name: "missing fields render empty",
			doc:  Document{ID: "2", Data: map[string]any{"email": "x@example.com"}},
			want: Record{ID: "2"},
		},
		{
			name: "nil data",
			doc:  Document{ID: "3"},
			want: Record{ID: "3"},
		},
		{
			name: "numeric age rendered as text",
			doc:  Document{ID: "4", Data: map[string]any{"name": "Cy", "age": float64(27)}},
			want: Record{ID: "4", Name: "Cy", Age: "27"},
		},
	}

	m := DefaultMapper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Record(tt.doc))
		})
	}
}

func TestMapper_NestedPaths(t *testing.T) {
	m, err := NewMapper(FieldMap{Name: "$.profile.displayName", Age: "$.profile.age"})
	require.NoError(t, err)

	doc := Document{ID: "1", Data: map[string]any{
		"profile": map[string]any{"displayName": "Ann", "age": "30"},
	}}
	assert.Equal(t, Record{ID: "1", Name: "Ann", Age: "30"}, m.Record(doc))
}

func TestMapper_EmptyFallsBackToDefault(t *testing.T) {
	m, err := NewMapper(FieldMap{Age: "$.years"})
	require.NoError(t, err)

	doc := Document{ID: "1", Data: map[string]any{"name": "Ann", "years": "30"}}
	assert.Equal(t, Record{ID: "1", Name: "Ann", Age: "30"}, m.Record(doc))
}

func TestNewMapper_InvalidPath(t *testing.T) {
	_, err := NewMapper(FieldMap{Name: "$.profile[", Age: "$.age"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid name path")
}

func TestFromJSON_ToJSON(t *testing.T) {
	doc := FromJSON(map[string]any{
		"userId":    "u1",
		"name":      "Ann",
		"createdAt": "2024-01-02T03:04:05Z",
	}, "userId")

	assert.Equal(t, "u1", doc.ID)
	assert.Equal(t, map[string]any{"name": "Ann"}, doc.Data)
	assert.Equal(t, 2024, doc.CreatedAt.Year())

	flat := doc.ToJSON()
	assert.Equal(t, "u1", flat["id"])
	assert.Equal(t, "Ann", flat["name"])
	assert.Equal(t, "2024-01-02T03:04:05Z", flat["createdAt"])
	assert.NotContains(t, flat, "updatedAt")
}

func TestIDString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{in: nil, want: ""},
		{in: "u1", want: "u1"},
		{in: json.Number("9007199254740993"), want: "9007199254740993"},
		{in: float64(7), want: "7"},
		{in: float64(1e21), want: "1000000000000000000000"},
		{in: 42, want: "42"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IDString(tt.in), "%#v", tt.in)
	}

	doc := FromJSON(map[string]any{"id": float64(7), "name": "Ann"}, "")
	assert.Equal(t, "7", doc.ID)
	assert.NotContains(t, doc.Data, "id")
}
