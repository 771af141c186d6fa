package framework

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestHarnessRejectsBadURL(t *testing.T) {
	for _, u := range []string{"", "api.restful-api.dev", "ftp://host", "http://"} {
		_, err := NewTestHarness(u, time.Second, 0, nil, nil)
		assert.Error(t, err, "URL %q", u)
	}
}

func TestSendReturnsResponseForAnyStatus(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(404, http.Header{"Content-Type": {"application/json; charset=utf-8"}}, []byte(`{"error":"nope"}`)),
	)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		h, err := NewTestHarness(server.URL+"/", time.Second, time.Second, nil, nil)
		require.NoError(t, err)

		resp, err := h.Send("PUT", "/objects/1", map[string]string{"name": "x"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.Equal(t, "application/json", resp.MediaType())
		assert.Equal(t, `{"error":"nope"}`, string(resp.Body))
		assert.Equal(t, "PUT /objects/1 -> 404 application/json (16 bytes)", resp.Summary())

		<-requestsCh // the connectivity check
		r := <-requestsCh
		assert.Equal(t, "PUT", r.Request.Method)
		assert.Equal(t, "/objects/1", r.Request.URL.Path)
		assert.Equal(t, "application/json", r.Request.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"name":"x"}`, string(r.Body))
	})
}

func TestSendTransportError(t *testing.T) {
	httphelpers.WithServer(httphelpers.BrokenConnectionHandler(), func(server *httptest.Server) {
		h, err := NewTestHarness(server.URL, time.Second, 0, nil, nil)
		require.NoError(t, err)

		_, err = h.Send("GET", "/objects", nil, nil)
		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, "GET", te.Method)
		assert.Equal(t, server.URL+"/objects", te.URL)
	})
}

func TestSendTimeoutIsTransportError(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	})
	httphelpers.WithServer(slow, func(server *httptest.Server) {
		h, err := NewTestHarness(server.URL, time.Millisecond*50, 0, nil, nil)
		require.NoError(t, err)

		_, err = h.Send("GET", "/objects", nil, nil)
		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.True(t, te.Timeout())
	})
}

func TestUnexpectedStatusErrorMessage(t *testing.T) {
	err := &UnexpectedStatusError{Request: "POST /objects", Expected: []int{200, 201}, Actual: 500, Body: "oops"}
	assert.Equal(t, "POST /objects: expected status 200 or 201, got 500: oops", err.Error())
}

func TestUnexpectedStatusErrorTruncatesOnRuneBoundary(t *testing.T) {
	err := &UnexpectedStatusError{
		Request:  "GET /objects",
		Expected: []int{200},
		Actual:   502,
		Body:     strings.Repeat("a", 199) + "é" + "tail",
	}
	msg := err.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, ": "+strings.Repeat("a", 199)+"..."), msg)

	err.Body = strings.Repeat("b", 250)
	assert.True(t, strings.HasSuffix(err.Error(), ": "+strings.Repeat("b", 200)+"..."))
}

func TestWithNewClientKeepsSettings(t *testing.T) {
	h, err := NewTestHarness("http://localhost:1", time.Second*3, 0, nil, nil)
	require.NoError(t, err)
	h1 := h.WithNewClient()
	assert.Equal(t, h.BaseURL(), h1.BaseURL())
	assert.NotSame(t, h.httpClient, h1.httpClient)
	assert.Equal(t, time.Second*3, h1.httpClient.Timeout)
}
