package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests the way "go test -run" and "-skip" do: a pattern is split on
// slashes, and each element is matched against the test name at the same depth.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.anyMatchPrefix(id.Path)) &&
		!r.MustNotMatch.anyMatchFully(id.Path)
}

type RegexList struct {
	patterns []levelPattern
}

type levelPattern struct {
	raw    string
	levels []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.raw+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	p := levelPattern{raw: value}
	for _, part := range strings.Split(value, "/") {
		rx, err := regexp.Compile(part)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		p.levels = append(p.levels, rx)
	}
	r.patterns = append(r.patterns, p)
	return nil
}

// Type is called by the command line parser when printing usage.
func (r *RegexList) Type() string {
	return "regex"
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

// anyMatchPrefix is true if some pattern could still select this test or one of its subtests.
func (r RegexList) anyMatchPrefix(path []string) bool {
	for _, p := range r.patterns {
		if p.matches(path, false) {
			return true
		}
	}
	return false
}

// anyMatchFully is true if some pattern matches at every one of its levels.
func (r RegexList) anyMatchFully(path []string) bool {
	for _, p := range r.patterns {
		if p.matches(path, true) {
			return true
		}
	}
	return false
}

func (p levelPattern) matches(path []string, full bool) bool {
	if full && len(path) < len(p.levels) {
		return false
	}
	for i, name := range path {
		if i >= len(p.levels) {
			break
		}
		if !p.levels[i].MatchString(name) {
			return false
		}
	}
	return true
}

func PrintFilterDescription(out io.Writer, filters RegexFilters) {
	if filters.MustMatch.IsDefined() || filters.MustNotMatch.IsDefined() {
		fmt.Fprintln(out, "Some tests will be skipped based on the filter criteria for this test run:")
		if filters.MustMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Fprintln(out)
	}
}
