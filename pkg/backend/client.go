package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/Spart911/southclub-storefront/pkg/errors"
)

const (
	defaultTimeout             = 10 * time.Second
	errorBodyReadLimit   int64 = 4096
	headerAuthorization        = "Authorization"
	headerContentType          = "Content-Type"
	contentTypeJSON            = "application/json"
	contentTypeForm            = "application/x-www-form-urlencoded"
)

var errBaseURLRequired = errors.New("commerce api base url is required")

// Client wraps the upstream commerce REST API the storefront proxies.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewClient builds the commerce API client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

// request describes one upstream call.
type request struct {
	method string
	path   string
	query  url.Values
	body   any
	form   url.Values
	token  string
}

// do executes the request and decodes a JSON response into dest when
// dest is non-nil. Upstream errors are mapped onto coded errors using
// the response status and, when present, the JSON `detail` field.
func (c *Client) do(ctx context.Context, req request, dest any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "commerce api client not configured")
	}

	endpoint := c.buildURL(req.path)
	if len(req.query) > 0 {
		endpoint = endpoint + "?" + req.query.Encode()
	}

	var reader io.Reader
	contentType := ""
	switch {
	case req.form != nil:
		reader = strings.NewReader(req.form.Encode())
		contentType = contentTypeForm
	case req.body != nil:
		payload, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal commerce api request")
		}
		reader = bytes.NewReader(payload)
		contentType = contentTypeJSON
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build commerce api request")
	}
	if contentType != "" {
		httpReq.Header.Set(headerContentType, contentType)
	}
	if req.token != "" {
		httpReq.Header.Set(headerAuthorization, "Bearer "+req.token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute commerce api request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.mapError(resp)
	}

	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode commerce api response")
	}

	return nil
}

// apiErrorBody matches the upstream error envelope. The `detail` field
// may be a plain string or a structured validation list; both are
// flattened into a message.
type apiErrorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *Client) mapError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	detail := extractDetail(raw)
	if detail == "" {
		detail = fmt.Sprintf("status %d", resp.StatusCode)
	}

	cause := fmt.Errorf("commerce api: %s", detail)
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, cause, detail)
	case http.StatusUnauthorized, http.StatusForbidden:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, cause, "commerce api rejected credentials")
	case http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, "resource not found")
	case http.StatusConflict:
		return pkgerrors.Wrap(pkgerrors.CodeConflict, cause, detail)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "commerce api request failed")
	}
}

func extractDetail(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	var body apiErrorBody
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return strings.TrimSpace(string(raw))
	}

	var asString string
	if err := json.Unmarshal(body.Detail, &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var asList []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(body.Detail, &asList); err == nil && len(asList) > 0 {
		parts := make([]string, 0, len(asList))
		for _, item := range asList {
			if item.Msg != "" {
				parts = append(parts, item.Msg)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}

	return strings.TrimSpace(string(body.Detail))
}

func (c *Client) buildURL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
