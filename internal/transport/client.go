// Package transport performs single round trips against the backend REST API.
//
// A request either returns the raw payload or fails with a *NetworkError,
// *HTTPError or *AppError. Every failure emits exactly one notification before
// the error is returned; successful calls are silent.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"bizdesk/internal/notify"
)

// Encoding selects how a request body is serialized.
type Encoding int

const (
	// None sends no body.
	None Encoding = iota
	// Form sends multipart form fields.
	Form
	// JSON sends a JSON object.
	JSON
)

// RequestIDHeader carries a per-request identifier for backend log correlation.
const RequestIDHeader = "X-Request-ID"

// Request describes one round trip.
type Request struct {
	Method   string
	Path     string
	Body     map[string]any
	Encoding Encoding
}

// Doer performs a request and returns the raw payload.
type Doer interface {
	Do(ctx context.Context, req Request) (json.RawMessage, error)
}

// Client implements Doer over HTTP.
type Client struct {
	baseURL  string
	http     *http.Client
	notifier notify.Notifier
	log      *zap.Logger
	token    string
	timeout  time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithNotifier sets where failure notices go.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithToken sends a static bearer token with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// New creates a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{},
		notifier: notify.Discard,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.token != "" {
		c.http = withBearer(c.http, c.token)
	}
	return c
}

// withBearer returns a copy of hc whose transport adds the token. Timeout,
// cookie jar and redirect policy are kept.
func withBearer(hc *http.Client, token string) *http.Client {
	authed := *hc
	authed.Transport = &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		Base:   hc.Transport,
	}
	return &authed
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do implements Doer.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, c.fail(&EncodeError{Path: req.Path, Err: err}, MsgBadRequest)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, c.fail(&EncodeError{Path: req.Path, Err: err}, MsgBadRequest)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, reqID)

	log := c.log.With(
		zap.String("method", method),
		zap.String("path", req.Path),
		zap.String("request_id", reqID),
	)
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.fail(&NetworkError{Method: method, Path: req.Path, Err: err}, MsgNetwork)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, c.fail(&HTTPError{Method: method, Path: req.Path, Status: resp.StatusCode},
			fmt.Sprintf(MsgServerFormat, resp.StatusCode))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.fail(&NetworkError{Method: method, Path: req.Path, Err: err}, MsgNetwork)
	}

	if appErr := checkPayload(method, req.Path, data); appErr != nil {
		return nil, c.fail(appErr, appErr.Message)
	}

	log.Debug("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return json.RawMessage(data), nil
}

// fail emits the single notification for err and returns it.
func (c *Client) fail(err error, message string) error {
	c.log.Debug("request failed", zap.Error(err))
	c.notifier.Notify(notify.Error, message)
	return err
}

func encodeBody(req Request) (io.Reader, string, error) {
	switch req.Encoding {
	case None:
		return nil, "", nil
	case JSON:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	case Form:
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for _, key := range sortedKeys(req.Body) {
			v := req.Body[key]
			if v == nil {
				continue
			}
			if err := mw.WriteField(key, fmt.Sprint(v)); err != nil {
				return nil, "", err
			}
		}
		if err := mw.Close(); err != nil {
			return nil, "", err
		}
		return &buf, mw.FormDataContentType(), nil
	default:
		return nil, "", fmt.Errorf("unknown encoding: %d", req.Encoding)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// failureFlags holds the fields a payload uses to signal failure.
type failureFlags struct {
	OK      *bool `json:"ok"`
	Success *bool `json:"success"`
}

// failureDetail holds what a failed payload says about the failure. Both
// fields come in several shapes, so they are flattened by hand.
type failureDetail struct {
	Message json.RawMessage `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

// checkPayload returns an *AppError when the payload is an object whose
// ok/success flag is explicitly false.
func checkPayload(method, path string, data []byte) *AppError {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var flags failureFlags
	if err := json.Unmarshal(trimmed, &flags); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return nil
		}
	}
	failed := (flags.OK != nil && !*flags.OK) || (flags.Success != nil && !*flags.Success)
	if !failed {
		return nil
	}

	var detail failureDetail
	_ = json.Unmarshal(trimmed, &detail)

	fieldErrs, errsMsg := flattenErrors(detail.Errors)
	msg := flattenMessage(detail.Message)
	if msg == "" {
		msg = errsMsg
	}
	if msg == "" {
		msg = MsgGeneric
	}
	return &AppError{Method: method, Path: path, Message: msg, Errors: fieldErrs}
}

// flattenErrors reads an errors member. An object maps fields to messages;
// a list or a plain string only yields the joined message.
func flattenErrors(raw json.RawMessage) (map[string]string, string) {
	var byField map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byField); err == nil && byField != nil {
		fieldErrs := make(map[string]string, len(byField))
		for field, v := range byField {
			fieldErrs[field] = flattenMessage(v)
		}
		return fieldErrs, joinFieldErrors(fieldErrs)
	}
	return map[string]string{}, flattenMessage(raw)
}

// flattenMessage turns any JSON value into display text. Lists are joined in
// order, objects by sorted key, null is empty.
func flattenMessage(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if text := flattenMessage(item); text != "" {
				parts = append(parts, text)
			}
		}
		return strings.Join(parts, ", ")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		parts := make(map[string]string, len(obj))
		for k, v := range obj {
			parts[k] = flattenMessage(v)
		}
		return joinFieldErrors(parts)
	}

	return string(raw)
}

// IsNotified reports whether err came from a Client, which has already
// notified the user.
func IsNotified(err error) bool {
	var netErr *NetworkError
	var httpErr *HTTPError
	var appErr *AppError
	var encErr *EncodeError
	return errors.As(err, &netErr) || errors.As(err, &httpErr) ||
		errors.As(err, &appErr) || errors.As(err, &encErr)
}
