package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restful-objects/objects-contract-tests/config"
	"github.com/restful-objects/objects-contract-tests/framework"
)

func noFlagsChanged(string) bool { return false }

func TestExactPattern(t *testing.T) {
	id := framework.TestID{Path: []string{"lifecycle", "get object by id (v2)"}}
	assert.Equal(t, `^lifecycle$/^get object by id \(v2\)$`, exactPattern(id))
}

func TestRerunCommandNamesFailedScenarios(t *testing.T) {
	params := &commandParams{configPath: "my config.yaml"}
	cfg := config.Default()
	failures := []framework.TestResult{
		{TestID: framework.TestID{Path: []string{"lifecycle", "create object"}}},
		{TestID: framework.TestID{Path: []string{"lifecycle"}}},
		{TestID: framework.TestID{Path: []string{"listing", "capacity"}}},
	}
	cmd := params.rerunCommand("objects-contract-tests", cfg, failures)
	assert.Equal(t,
		"objects-contract-tests --url https://api.restful-api.dev --config 'my config.yaml'"+
			" --run '^lifecycle$' --run '^listing$'",
		cmd)
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("baseUrl: http://from-file\ntimeout: 3s\n"), 0o600))

	params := &commandParams{configPath: path}
	cfg, err := params.resolveConfig(noFlagsChanged)
	require.NoError(t, err)
	assert.Equal(t, "http://from-file", cfg.BaseURL)
	assert.Equal(t, time.Second*3, cfg.Timeout)

	t.Setenv(config.EnvBaseURL, "http://from-env")
	cfg, err = params.resolveConfig(noFlagsChanged)
	require.NoError(t, err)
	assert.Equal(t, "http://from-env", cfg.BaseURL)

	params.serviceURL = "http://from-flag"
	params.timeout = time.Second
	cfg, err = params.resolveConfig(func(name string) bool { return name == "timeout" })
	require.NoError(t, err)
	assert.Equal(t, "http://from-flag", cfg.BaseURL)
	assert.Equal(t, time.Second, cfg.Timeout)
}

func TestResolveConfigRejectsBadURL(t *testing.T) {
	params := &commandParams{serviceURL: "not a url"}
	_, err := params.resolveConfig(noFlagsChanged)
	assert.Error(t, err)
}

func TestExplicitConfigMustExist(t *testing.T) {
	params := &commandParams{configPath: filepath.Join(t.TempDir(), "missing.yaml")}
	_, err := params.resolveConfig(noFlagsChanged)
	assert.Error(t, err)
}
