package framework

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() Results {
	return Run(nil, nil, func(c *Context) {
		c.Run("lifecycle", func(c *Context) {
			c.Run("create object", func(c *Context) { c.Errorf("no id") })
			c.Run("get object by id", func(c *Context) { c.SkipWithReason("dependency unmet: created object ID") })
		})
		c.Run("listing", func(c *Context) {
			c.Run("get all objects", func(c *Context) { c.Observe("GET /objects -> 200 application/json (2 bytes)") })
		})
	})
}

func TestPrintResults(t *testing.T) {
	var buf bytes.Buffer
	PrintResults(&buf, sampleResults())
	out := buf.String()
	assert.Contains(t, out, "  FAIL  lifecycle (0 passed, 1 failed, 1 skipped)\n")
	assert.Contains(t, out, "    FAIL  lifecycle/create object\n          no id\n")
	assert.Contains(t, out, "    SKIP  lifecycle/get object by id: dependency unmet: created object ID\n")
	assert.Contains(t, out, "  PASS  listing (1 passed, 0 failed, 0 skipped)\n")
	assert.Contains(t, out, "1 of 3 tests passed.")
}

func TestWriteJSONResults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONResults(&buf, sampleResults()))

	var doc struct {
		OK      bool `json:"ok"`
		Passed  int  `json:"passed"`
		Failed  int  `json:"failed"`
		Skipped int  `json:"skipped"`
		Tests []struct {
			ID       string   `json:"id"`
			Outcome  string   `json:"outcome"`
			Message  string   `json:"message"`
			Errors   []string `json:"errors"`
			Observed []string `json:"observed"`
		} `json:"tests"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.False(t, doc.OK)
	assert.Equal(t, 1, doc.Passed)
	assert.Equal(t, 1, doc.Failed)
	assert.Equal(t, 1, doc.Skipped)
	require.Len(t, doc.Tests, 5)
	assert.Equal(t, "lifecycle/create object", doc.Tests[0].ID)
	assert.Equal(t, []string{"no id"}, doc.Tests[0].Errors)
	assert.Equal(t, "skipped", doc.Tests[1].Outcome)
	assert.Equal(t, "dependency unmet: created object ID", doc.Tests[1].Message)
}

func TestTextAndJSONCountsAgree(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("a", func(c *Context) {})
			c.Run("b", func(c *Context) {})
		})
	})

	var text bytes.Buffer
	PrintResults(&text, results)
	assert.Contains(t, text.String(), "2 of 2 tests passed.")

	var buf bytes.Buffer
	require.NoError(t, WriteJSONResults(&buf, results))
	var doc struct {
		Passed int `json:"passed"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 2, doc.Passed)
}
