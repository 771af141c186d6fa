package framework

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

type scenarioSummary struct {
	name                    string
	passed, failed, skipped int
	details                 []TestResult
}

// PrintResults writes a summary of a test run: one line per top-level test group, followed by
// every failed or skipped test in it.
func PrintResults(out io.Writer, results Results) {
	var groups []*scenarioSummary
	byName := make(map[string]*scenarioSummary)
	for _, t := range results.Tests {
		if len(t.TestID.Path) == 0 {
			continue
		}
		name := t.TestID.Path[0]
		g := byName[name]
		if g == nil {
			g = &scenarioSummary{name: name}
			byName[name] = g
			groups = append(groups, g)
		}
		if len(t.TestID.Path) == 1 && t.Outcome != OutcomeSkipped {
			continue // a group's own result only matters if it never ran its steps
		}
		switch t.Outcome {
		case OutcomePassed:
			g.passed++
		case OutcomeFailed:
			g.failed++
			g.details = append(g.details, t)
		case OutcomeSkipped:
			g.skipped++
			g.details = append(g.details, t)
		}
	}

	total, totalPassed := 0, 0
	fmt.Fprintln(out, "Results:")
	for _, g := range groups {
		total += g.passed + g.failed + g.skipped
		totalPassed += g.passed
		status := "PASS"
		if g.failed > 0 {
			status = "FAIL"
		}
		fmt.Fprintf(out, "  %s  %s (%d passed, %d failed, %d skipped)\n", status, g.name, g.passed, g.failed, g.skipped)
		for _, t := range g.details {
			if t.Outcome == OutcomeFailed {
				fmt.Fprintf(out, "    FAIL  %s\n", t.TestID)
				for _, line := range strings.Split(t.Message(), "\n") {
					fmt.Fprintf(out, "          %s\n", line)
				}
			} else {
				fmt.Fprintf(out, "    SKIP  %s: %s\n", t.TestID, t.SkipReason)
			}
		}
	}
	fmt.Fprintf(out, "\n%d of %d tests passed.\n", totalPassed, total)
}

type jsonTestResult struct {
	ID       string   `json:"id"`
	Outcome  Outcome  `json:"outcome"`
	Message  string   `json:"message,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Observed []string `json:"observed,omitempty"`
}

type jsonResults struct {
	OK     bool             `json:"ok"`
	Passed int              `json:"passed"`
	Failed int              `json:"failed"`
	Skip   int              `json:"skipped"`
	Tests  []jsonTestResult `json:"tests"`
}

// WriteJSONResults writes every test result as one JSON document. The counts follow the same
// rules as PrintResults, so both formats agree.
func WriteJSONResults(out io.Writer, results Results) error {
	doc := jsonResults{
		OK:    results.OK(),
		Tests: []jsonTestResult{},
	}
	for _, t := range results.Tests {
		if len(t.TestID.Path) > 1 || t.Outcome == OutcomeSkipped {
			switch t.Outcome {
			case OutcomePassed:
				doc.Passed++
			case OutcomeFailed:
				doc.Failed++
			case OutcomeSkipped:
				doc.Skip++
			}
		}
		jt := jsonTestResult{
			ID:       t.TestID.String(),
			Outcome:  t.Outcome,
			Observed: t.Observed,
		}
		if t.Outcome == OutcomeSkipped {
			jt.Message = t.SkipReason
		}
		for _, e := range t.Errors {
			jt.Errors = append(jt.Errors, e.Error())
		}
		doc.Tests = append(doc.Tests, jt)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
