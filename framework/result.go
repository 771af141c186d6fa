package framework

import "strings"

const excludedByFilter = "excluded by filter parameters"

// Outcome is the final state of a test.
type Outcome string

const (
	OutcomePassed  Outcome = "pass"
	OutcomeFailed  Outcome = "fail"
	OutcomeSkipped Outcome = "skipped"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Skipped  []TestResult
}

type TestResult struct {
	TestID     TestID
	Outcome    Outcome
	Errors     []error
	SkipReason string
	SkipCause  error
	Observed   []string
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

func (r *Results) add(result TestResult) {
	r.Tests = append(r.Tests, result)
	switch result.Outcome {
	case OutcomeFailed:
		r.Failures = append(r.Failures, result)
	case OutcomeSkipped:
		r.Skipped = append(r.Skipped, result)
	}
}

// Merge appends the results of another run, keeping their order.
func (r *Results) Merge(other Results) {
	for _, t := range other.Tests {
		r.add(t)
	}
}

// Find returns the result of the test with the given path, if it ran.
func (r Results) Find(path ...string) (TestResult, bool) {
	want := TestID{Path: path}.String()
	for _, t := range r.Tests {
		if t.TestID.String() == want {
			return t, true
		}
	}
	return TestResult{}, false
}

// Message is the skip reason for a skipped test, or the errors of a failed one.
func (t TestResult) Message() string {
	if t.Outcome == OutcomeSkipped {
		return t.SkipReason
	}
	var ss []string
	for _, e := range t.Errors {
		ss = append(ss, e.Error())
	}
	return strings.Join(ss, "\n")
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Child returns the ID of a subtest. The parent's path is copied so sibling IDs never share
// a backing array.
func (t TestID) Child(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	return TestID{Path: append(path, name)}
}
