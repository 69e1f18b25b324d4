package collection

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// FieldMap holds the JSONPath expressions that locate name and age inside a
// document's data.
type FieldMap struct {
	Name string `yaml:"name" json:"name"`
	Age  string `yaml:"age" json:"age"`
}

// DefaultFieldMap maps the top-level "name" and "age" keys.
func DefaultFieldMap() FieldMap {
	return FieldMap{Name: "$." + FieldName, Age: "$." + FieldAge}
}

// Mapper turns raw documents into Records.
type Mapper struct {
	name jp.Expr
	age  jp.Expr
}

// NewMapper compiles a FieldMap. Empty expressions fall back to the defaults.
func NewMapper(fm FieldMap) (*Mapper, error) {
	def := DefaultFieldMap()
	if fm.Name == "" {
		fm.Name = def.Name
	}
	if fm.Age == "" {
		fm.Age = def.Age
	}

	name, err := jp.ParseString(fm.Name)
	if err != nil {
		return nil, fmt.Errorf("invalid name path %q: %w", fm.Name, err)
	}
	age, err := jp.ParseString(fm.Age)
	if err != nil {
		return nil, fmt.Errorf("invalid age path %q: %w", fm.Age, err)
	}
	return &Mapper{name: name, age: age}, nil
}

// DefaultMapper returns the verbatim top-level mapping.
func DefaultMapper() *Mapper {
	m, _ := NewMapper(DefaultFieldMap())
	return m
}

// Record maps one document. Missing fields become "" and non-string values
// are rendered with fmt.Sprint.
func (m *Mapper) Record(doc Document) Record {
	data := map[string]any(doc.Data)
	return Record{
		ID:   doc.ID,
		Name: render(m.name.First(data)),
		Age:  render(m.age.First(data)),
	}
}

// Records maps every document, preserving order.
func (m *Mapper) Records(docs []Document) []Record {
	records := make([]Record, len(docs))
	for i, doc := range docs {
		records[i] = m.Record(doc)
	}
	return records
}

func render(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
