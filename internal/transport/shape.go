package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Shape is the response layout an endpoint is expected to return for a list.
type Shape int

const (
	// ShapeList is a raw JSON array.
	ShapeList Shape = iota
	// ShapeData is an envelope {"data": [...]}.
	ShapeData
	// ShapeResults is an envelope {"ok": true, "results": [...]}; a missing or
	// null "results" means no match.
	ShapeResults
	// ShapeAny accepts a raw array, then "data", then "results", in that order.
	ShapeAny
)

func (s Shape) String() string {
	switch s {
	case ShapeList:
		return "list"
	case ShapeData:
		return "data"
	case ShapeResults:
		return "results"
	case ShapeAny:
		return "any"
	default:
		return fmt.Sprintf("shape(%d)", int(s))
	}
}

// ShapeError reports a payload that does not match the expected Shape.
type ShapeError struct {
	Want Shape
	Err  error
}

func (e *ShapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unexpected payload shape (want %s): %v", e.Want, e.Err)
	}
	return fmt.Sprintf("unexpected payload shape (want %s)", e.Want)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// DecodeList decodes raw as a sequence of T laid out as shape.
// The result is never nil on success.
func DecodeList[T any](raw json.RawMessage, shape Shape) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)

	var items []T
	var err error
	switch shape {
	case ShapeList:
		items, err = decodeArray[T](trimmed)
	case ShapeData:
		items, err = decodeField[T](trimmed, "data", false)
	case ShapeResults:
		items, err = decodeField[T](trimmed, "results", true)
	case ShapeAny:
		if items, err = decodeArray[T](trimmed); err == nil {
			break
		}
		if items, err = decodeField[T](trimmed, "data", false); err == nil {
			break
		}
		items, err = decodeField[T](trimmed, "results", false)
	default:
		err = fmt.Errorf("unknown shape")
	}
	if err != nil {
		return nil, &ShapeError{Want: shape, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func decodeArray[T any](data []byte) ([]T, error) {
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("not an array")
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// decodeField extracts an array stored under key in a JSON object.
// With missingOK, an absent or null field yields an empty sequence.
func decodeField[T any](data []byte, key string, missingOK bool) ([]T, error) {
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("not an object")
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	field, ok := env[key]
	if !ok || bytes.Equal(bytes.TrimSpace(field), []byte("null")) {
		if missingOK {
			return []T{}, nil
		}
		return nil, fmt.Errorf("missing %q field", key)
	}
	return decodeArray[T](bytes.TrimSpace(field))
}
