package transport

import (
	"fmt"
	"sort"
	"strings"
)

// User-facing messages emitted on failure.
const (
	MsgNetwork      = "Erreur réseau : impossible de contacter le serveur"
	MsgServerFormat = "Erreur serveur (%d)"
	MsgGeneric      = "Erreur"
	MsgBadRequest   = "Erreur interne : requête invalide"
)

// NetworkError is a transport failure: the request never produced a response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: network error: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is a response with a non-2xx status.
type HTTPError struct {
	Method string
	Path   string
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s -> %d", e.Method, e.Path, e.Status)
}

// AppError is a 2xx response whose payload explicitly signals failure.
type AppError struct {
	Method  string
	Path    string
	Message string
	Errors  map[string]string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

// EncodeError means the request body could not be serialized.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// joinFieldErrors renders a field-error mapping as "msg1, msg2" ordered by field name.
func joinFieldErrors(errs map[string]string) string {
	if len(errs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		if errs[k] != "" {
			msgs = append(msgs, errs[k])
		}
	}
	return strings.Join(msgs, ", ")
}
