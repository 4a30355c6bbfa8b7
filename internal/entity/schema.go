package entity

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"bizdesk/internal/transport"
	"bizdesk/internal/view"
)

// DateLayout is the wire and input format for dates.
const DateLayout = "2006-01-02"

// FieldKind controls how a form value is converted into a request body value.
type FieldKind int

const (
	Text FieldKind = iota
	Integer
	Number
	Date
	Choice
)

// Field is one editable attribute of an entity.
type Field struct {
	Key      string
	Label    string
	Kind     FieldKind
	Required bool
	// Nullable fields are sent as null when left empty.
	Nullable bool
	// Default replaces an empty value before conversion.
	Default string
	Choices []string
}

// Endpoint is a request paired with the layout of its list response.
type Endpoint struct {
	Request transport.Request
	Shape   transport.Shape
}

// Captions holds the user-facing strings for one entity.
type Captions struct {
	// Create is the form caption in create mode.
	Create string
	// Edit is the form caption in update mode; %d is the record ID.
	Edit          string
	Created       string
	Updated       string
	Deleted       string
	ConfirmDelete string
	// Required is shown when a required field is empty.
	Required string
	// NotFound is shown when a record ID is not in the list; %d is the ID.
	NotFound string
}

// Schema binds a record type to its fields, captions and endpoints.
type Schema[T any] struct {
	Name  string
	Title string
	// IDKey is the primary key attribute name.
	IDKey    string
	Fields   []Field
	Captions Captions

	ID func(T) int
	// Values returns form values keyed by Field.Key; empty string for null.
	Values func(T) map[string]string

	List Endpoint
	// Search is nil when the backend offers no search for the entity.
	Search func(query string) Endpoint
	Create func(body map[string]any) transport.Request
	Update func(id int, body map[string]any) transport.Request
	Delete func(id int) transport.Request
}

// Columns returns the ID column followed by one column per field.
func (s Schema[T]) Columns() []view.Column {
	cols := make([]view.Column, 0, len(s.Fields)+1)
	cols = append(cols, view.Column{Key: s.IDKey, Label: "ID"})
	for _, f := range s.Fields {
		cols = append(cols, view.Column{Key: f.Key, Label: f.Label})
	}
	return cols
}

// record flattens item for display, in Columns order.
func (s Schema[T]) record(item T) view.Record {
	id := s.ID(item)
	values := s.Values(item)
	out := make([]string, 0, len(s.Fields)+1)
	out = append(out, strconv.Itoa(id))
	for _, f := range s.Fields {
		v := values[f.Key]
		if v == "" && f.Nullable {
			v = "-"
		}
		out = append(out, v)
	}
	return view.Record{ID: id, Values: out}
}

// field looks up a field by key.
func (s Schema[T]) field(key string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Body validates form values and converts them into a request body.
// No request is built when validation fails.
func (s Schema[T]) Body(values map[string]string) (map[string]any, error) {
	var missing []string
	body := make(map[string]any, len(s.Fields))

	for _, f := range s.Fields {
		raw := strings.TrimSpace(values[f.Key])
		v, err := f.convert(raw)
		if err != nil {
			return nil, &ValidationError{Message: err.Error(), Fields: []string{f.Key}}
		}
		if f.Required && isZero(v) {
			missing = append(missing, f.Key)
			continue
		}
		body[f.Key] = v
	}

	if len(missing) > 0 {
		msg := s.Captions.Required
		if msg == "" {
			labels := make([]string, len(missing))
			for i, key := range missing {
				f, _ := s.field(key)
				labels[i] = f.Label
			}
			msg = "Champs obligatoires : " + strings.Join(labels, ", ")
		}
		return nil, &ValidationError{Message: msg, Fields: missing}
	}
	return body, nil
}

// convert turns a trimmed form value into a body value. Empty optional values
// become nil for Nullable and numeric fields.
func (f Field) convert(s string) (any, error) {
	if s == "" {
		s = f.Default
	}
	if s == "" {
		if f.Nullable || f.Kind == Integer || f.Kind == Number {
			return nil, nil
		}
		return "", nil
	}

	switch f.Kind {
	case Integer:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%s doit être un nombre entier", f.Label)
		}
		return n, nil
	case Number:
		n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
		if err != nil {
			return nil, fmt.Errorf("%s doit être un nombre", f.Label)
		}
		return n, nil
	case Date:
		if _, err := time.Parse(DateLayout, s); err != nil {
			return nil, fmt.Errorf("%s doit être une date (AAAA-MM-JJ)", f.Label)
		}
		return s, nil
	case Choice:
		if !slices.Contains(f.Choices, s) {
			return nil, fmt.Errorf("%s doit valoir %s", f.Label, strings.Join(f.Choices, " ou "))
		}
		return s, nil
	default:
		return s, nil
	}
}

// isZero reports a missing required value; 0 counts as missing for numeric
// references.
func isZero(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case int:
		return x == 0
	case float64:
		return false
	default:
		return false
	}
}
