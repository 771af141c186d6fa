package framework

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"unicode/utf8"
)

const maxBodyInError = 200

// TransportError means a request never produced an HTTP response: the connection failed, the
// request timed out, or the response body could not be read.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request failed because the per-call timeout expired.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// UnexpectedStatusError means the service answered with a status code the test did not accept.
type UnexpectedStatusError struct {
	Request  string
	Expected []int
	Actual   int
	Body     string
}

func (e *UnexpectedStatusError) Error() string {
	var expected []string
	for _, s := range e.Expected {
		expected = append(expected, strconv.Itoa(s))
	}
	msg := fmt.Sprintf("%s: expected status %s, got %d", e.Request, strings.Join(expected, " or "), e.Actual)
	if e.Body != "" {
		body := e.Body
		if len(body) > maxBodyInError {
			cut := maxBodyInError
			for cut > 0 && !utf8.RuneStart(body[cut]) {
				cut--
			}
			body = body[:cut] + "..."
		}
		msg += ": " + body
	}
	return msg
}

// SchemaViolation means an expected field of a response was missing or had the wrong JSON type.
type SchemaViolation struct {
	Field   string
	Problem string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Problem)
}

// DependencyUnmetError describes why a test could not run: some state that an earlier test
// should have produced is not available.
type DependencyUnmetError struct {
	Requirement string
}

func (e *DependencyUnmetError) Error() string {
	return "dependency unmet: " + e.Requirement
}
