package framework

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultRequestTimeout = time.Second * 30

// TestHarness is the HTTP client for the service under test. Every request has its own timeout;
// a request that fails before a response arrives returns a *TransportError, while any HTTP status
// at all is returned as a Response for the caller to judge.
type TestHarness struct {
	baseURL        string
	requestTimeout time.Duration
	httpClient     *http.Client
	logger         Logger
}

// Response is what the service returned for one request.
type Response struct {
	Method      string
	Path        string
	StatusCode  int
	ContentType string
	Body        []byte
}

// NewTestHarness creates a TestHarness for the service at baseURL. If connectTimeout is positive,
// it also waits until the service answers at all, so that the first test does not fail only
// because the network was slow to come up.
func NewTestHarness(
	baseURL string,
	requestTimeout time.Duration,
	connectTimeout time.Duration,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("base URL must be an absolute http or https URL, got %q", baseURL)
	}

	h := &TestHarness{
		baseURL:        strings.TrimSuffix(baseURL, "/"),
		requestTimeout: requestTimeout,
		httpClient:     &http.Client{Timeout: requestTimeout},
		logger:         debugLogger,
	}

	if connectTimeout > 0 {
		if err := awaitService(h.httpClient, h.baseURL, connectTimeout, startupOutput); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// WithNewClient returns a copy of the harness that has its own http.Client, for running
// scenarios in parallel without sharing connections.
func (h *TestHarness) WithNewClient() *TestHarness {
	h1 := *h
	h1.httpClient = &http.Client{Timeout: h.requestTimeout}
	return &h1
}

func (h *TestHarness) BaseURL() string {
	return h.baseURL
}

// Send makes one request to the service. If body is non-nil, it is sent as JSON.
func (h *TestHarness) Send(method, path string, body interface{}, logger Logger) (*Response, error) {
	if logger == nil {
		logger = h.logger
	}
	fullURL := h.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		logger.Printf(">> %s %s %s", method, path, string(data))
		reqBody = bytes.NewBuffer(data)
	} else {
		logger.Printf(">> %s %s", method, path)
	}

	req, err := http.NewRequest(method, fullURL, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: fullURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: fullURL, Err: err}
	}

	r := &Response{
		Method:      method,
		Path:        path,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        data,
	}
	logger.Printf("<< %s: %s", r.Summary(), string(data))
	return r, nil
}

// MediaType is the content type without parameters such as charset, in lowercase.
func (r *Response) MediaType() string {
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(r.ContentType))
	}
	return mediaType
}

// Summary describes the response in one line, for test reports.
func (r *Response) Summary() string {
	contentType := r.MediaType()
	if contentType == "" {
		contentType = "no content type"
	}
	return fmt.Sprintf("%s %s -> %d %s (%d bytes)", r.Method, r.Path, r.StatusCode, contentType, len(r.Body))
}
