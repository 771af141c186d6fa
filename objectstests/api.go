package objectstests

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/restful-objects/objects-contract-tests/framework"
	"github.com/restful-objects/objects-contract-tests/rules"
	"github.com/restful-objects/objects-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const defaultRecentWindow = time.Second * 60

// SuiteParams holds the settings that vary between runs of the suite.
type SuiteParams struct {
	// DeletedMessage and NotFoundMessage are the service's message templates, with "{id}"
	// standing for the object ID.
	DeletedMessage  string
	NotFoundMessage string

	// StrictNotFound makes a mismatched not-found message a failure instead of an
	// inconclusive skip.
	StrictNotFound bool

	// RecentWindow is how old an updatedAt timestamp may be.
	RecentWindow time.Duration

	// Parallel runs each scenario concurrently with its own HTTP client. The TestLogger must
	// then be safe for concurrent use.
	Parallel bool

	Now func() time.Time
}

func (p SuiteParams) withDefaults() SuiteParams {
	if p.DeletedMessage == "" {
		p.DeletedMessage = servicedef.DefaultDeletedMessage
	}
	if p.NotFoundMessage == "" {
		p.NotFoundMessage = servicedef.DefaultNotFoundMessage
	}
	if p.RecentWindow <= 0 {
		p.RecentWindow = defaultRecentWindow
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	return p
}

type environment struct {
	harness *framework.TestHarness
	params  SuiteParams
	rules   rules.RuleSet
}

func (e *environment) withHarness(h *framework.TestHarness) *environment {
	e1 := *e
	e1.harness = h
	return &e1
}

// T represents a test or subtest in the objects test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is outside
// of the Go test runner. Those features are provided by our lower-level framework package.
//
// It also provides functionality that is specific to testing the objects service: sending requests
// through the test harness, and assertions about responses that fail the test with a typed error
// (see framework.SchemaViolation and framework.UnexpectedStatusError).
//
// To make other assertions, you can use the assert and require packages, passing the *T as if it were
// a *testing.T.
type T struct {
	context *framework.Context
	env     *environment
}

func newTestScope(context *framework.Context, env *environment) *T {
	return &T{context: context, env: env}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// Error logs a test failure with a specific error value, which is kept in the test result.
func (t *T) Error(err error) {
	t.context.Error(err)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Skip stops the test and reports it as skipped, not failed.
func (t *T) Skip(reason string) {
	t.context.SkipWithReason(reason)
}

// SkipWithError stops the test and reports it as skipped, keeping err as the result's SkipCause.
func (t *T) SkipWithError(err error) {
	t.context.SkipWithError(err)
}

// Run runs a subtest. This is equivalent to the Run method of testing.T, except that it returns
// the subtest's result.
func (t *T) Run(name string, action func(*T)) framework.TestResult {
	return t.context.Run(name, func(c *framework.Context) {
		action(newTestScope(c, t.env))
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

func (t *T) Params() SuiteParams {
	return t.env.params
}

func (t *T) Now() time.Time {
	return t.env.params.Now()
}

// Send makes a request to the service under test. A transport failure fails the test and exits
// immediately; any HTTP response, whatever its status, is returned.
func (t *T) Send(method, path string, body interface{}) *framework.Response {
	resp, err := t.env.harness.Send(method, path, body, t.context.DebugLogger())
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
	t.context.Observe(resp.Summary())
	return resp
}

// RequireStatus fails and exits the test unless the response has one of the expected statuses.
func (t *T) RequireStatus(resp *framework.Response, expected ...int) {
	for _, s := range expected {
		if resp.StatusCode == s {
			return
		}
	}
	t.Error(&framework.UnexpectedStatusError{
		Request:  resp.Method + " " + resp.Path,
		Expected: expected,
		Actual:   resp.StatusCode,
		Body:     string(resp.Body),
	})
	t.FailNow()
}

// RequireJSON fails and exits the test unless the response declares a JSON content type.
func (t *T) RequireJSON(resp *framework.Response) {
	if resp.MediaType() != "application/json" {
		t.Errorf("%s %s: expected content type application/json, got %q", resp.Method, resp.Path, resp.ContentType)
		t.FailNow()
	}
}

func (t *T) requireJSONBody(resp *framework.Response, expectedType ldvalue.ValueType) ldvalue.Value {
	var v ldvalue.Value
	if err := json.Unmarshal(resp.Body, &v); err != nil {
		t.Error(&framework.SchemaViolation{Field: "(body)", Problem: fmt.Sprintf("not valid JSON: %s", err)})
		t.FailNow()
	}
	if v.Type() != expectedType {
		t.Error(&framework.SchemaViolation{Field: "(body)", Problem: fmt.Sprintf("expected JSON %s, got %s", expectedType, v.Type())})
		t.FailNow()
	}
	return v
}

// RequireJSONObject parses the response body, which must be a JSON object.
func (t *T) RequireJSONObject(resp *framework.Response) ldvalue.Value {
	return t.requireJSONBody(resp, ldvalue.ObjectType)
}

// RequireJSONArray parses the response body, which must be a JSON array.
func (t *T) RequireJSONArray(resp *framework.Response) ldvalue.Value {
	return t.requireJSONBody(resp, ldvalue.ArrayType)
}

// RequireField returns a property of a JSON object, failing and exiting the test if it is absent.
func (t *T) RequireField(obj ldvalue.Value, key string) ldvalue.Value {
	if !hasKey(obj, key) {
		t.Error(&framework.SchemaViolation{Field: key, Problem: "missing"})
		t.FailNow()
	}
	return obj.GetByKey(key)
}

// RequireStringField is like RequireField, but the value must also be a string.
func (t *T) RequireStringField(obj ldvalue.Value, key string) string {
	v := t.RequireField(obj, key)
	if v.Type() != ldvalue.StringType {
		t.Error(&framework.SchemaViolation{Field: key, Problem: fmt.Sprintf("expected string, got %s", v.Type())})
		t.FailNow()
	}
	return v.StringValue()
}

// RequireTimestamp returns a property that must be an RFC 3339 timestamp string.
func (t *T) RequireTimestamp(obj ldvalue.Value, key string) time.Time {
	s := t.RequireStringField(obj, key)
	ts, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t.Error(&framework.SchemaViolation{Field: key, Problem: fmt.Sprintf("not a timestamp: %q", s)})
		t.FailNow()
	}
	return ts
}

// CheckFieldEquals verifies that a property of a JSON object has exactly the expected value. A
// failure is recorded but the test continues, so that every mismatched field gets reported.
func (t *T) CheckFieldEquals(obj ldvalue.Value, key string, expected ldvalue.Value) bool {
	if !hasKey(obj, key) {
		t.Error(&framework.SchemaViolation{Field: key, Problem: "missing"})
		return false
	}
	actual := obj.GetByKey(key)
	if !actual.Equal(expected) {
		t.Errorf("field %q: expected %s, got %s", key, expected.JSONString(), actual.JSONString())
		return false
	}
	return true
}

// CheckDataEquals verifies every property of expected against the "data" object of a response.
func (t *T) CheckDataEquals(obj ldvalue.Value, expected ldvalue.Value) {
	data := t.RequireField(obj, "data")
	if data.Type() != ldvalue.ObjectType {
		t.Error(&framework.SchemaViolation{Field: "data", Problem: fmt.Sprintf("expected object, got %s", data.Type())})
		return
	}
	for _, key := range expected.Keys() {
		t.CheckFieldEquals(data, key, expected.GetByKey(key))
	}
}

func hasKey(obj ldvalue.Value, key string) bool {
	if obj.Type() != ldvalue.ObjectType {
		return false
	}
	for _, k := range obj.Keys() {
		if k == key {
			return true
		}
	}
	return false
}
