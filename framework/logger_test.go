package framework

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWithPrefix(t *testing.T) {
	var target CapturingLogger
	LoggerWithPrefix(&target, "[watch] ").Printf("changed %d", 2)

	out := target.Output()
	require.Len(t, out, 1)
	assert.Equal(t, "[watch] changed 2", out[0].Message)

	LoggerWithPrefix(nil, "x").Printf("ignored")
}

func TestCapturedOutputDump(t *testing.T) {
	var l CapturingLogger
	l.Printf("first")
	l.Printf("second %s", "line")

	var buf bytes.Buffer
	l.Output().Dump(&buf, "    DEBUG ")
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "    DEBUG ["))
	assert.True(t, strings.HasSuffix(lines[1], "] second line"))
}
