package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the state of one test or subtest. It plays the role of *testing.T for code that runs
// outside of the Go test runner, and accumulates the errors, skip reason and observed responses
// that end up in the TestResult.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	skipCause   error
	observed    []string
	errors      []error
}

// Run creates a root context, runs the action in it, and returns the results of every test
// that the action started with Context.Run.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) (result TestResult) {
	defer func() {
		if r := recover(); r != nil {
			if !c.skipped {
				c.failed = true
				var addError error
				if _, ok := r.(*Context); ok {
					if len(c.errors) == 0 {
						addError = errors.New("test failed with no failure message")
					}
				} else {
					addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
				}
				if addError != nil {
					c.errors = append(c.errors, addError)
					c.env.testLogger.TestError(c.id, addError)
				}
			}
		}
		result = TestResult{
			TestID:   c.id,
			Outcome:  c.outcome(),
			Errors:   c.errors,
			Observed: c.observed,
		}
		if result.Outcome == OutcomeSkipped {
			result.SkipReason = c.skipReason
			result.SkipCause = c.skipCause
		}
		if len(c.id.Path) != 0 {
			c.env.results.add(result)
		}
	}()

	action(c)
	return
}

func (c *Context) outcome() Outcome {
	switch {
	case c.failed:
		return OutcomeFailed
	case c.skipped:
		return OutcomeSkipped
	default:
		return OutcomePassed
	}
}

func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest and returns its result. As with testing.T, a failed subtest also marks its
// parent as failed. A subtest that the filter excludes is not started and is reported as skipped.
func (c *Context) Run(name string, action func(*Context)) TestResult {
	id := c.id.Child(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		result := TestResult{TestID: id, Outcome: OutcomeSkipped, SkipReason: excludedByFilter}
		c.env.results.add(result)
		c.env.testLogger.TestSkipped(id, result.SkipReason)
		return result
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	result := c1.run(action)
	if result.Outcome == OutcomeFailed {
		c.failed = true
	}
	if result.Outcome == OutcomeSkipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
	return result
}

// Error records a failure without stopping the test. The error value is kept as is, so callers
// inspecting the results can use errors.As on it.
func (c *Context) Error(err error) {
	c.failed = true
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.Error(fmt.Errorf(format, args...))
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// SkipWithError is like SkipWithReason, but also keeps err as the SkipCause of the result.
func (c *Context) SkipWithError(err error) {
	c.skipCause = err
	c.SkipWithReason(err.Error())
}

// Observe adds a one-line summary of something the test saw, normally an HTTP response. The
// summaries are part of the test result.
func (c *Context) Observe(summary string) {
	c.observed = append(c.observed, summary)
	c.debugLogger.Printf("observed: %s", summary)
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
