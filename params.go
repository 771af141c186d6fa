package main

import (
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/restful-objects/objects-contract-tests/config"
	"github.com/restful-objects/objects-contract-tests/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	configPath     string
	serviceURL     string
	timeout        time.Duration
	filters        framework.RegexFilters
	strictNotFound bool
	parallel       bool
	format         string
	debug          bool
	debugAll       bool
	noColor        bool
	watch          bool
}

func (c *commandParams) addFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&c.configPath, "config", "", "config file (default "+config.DefaultPath+" if it exists)")
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the service under test (overrides config and "+config.EnvBaseURL+")")
	fs.DurationVar(&c.timeout, "timeout", 0, "timeout for each request")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.strictNotFound, "strict-not-found", false, "fail instead of skipping when the not-found message has unexpected wording")
	fs.BoolVar(&c.parallel, "parallel", false, "run scenarios concurrently")
	fs.StringVar(&c.format, "format", "text", `report format, "text" or "json"`)
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&c.watch, "watch", false, "re-run the suite whenever the config file changes")
}

// configFile returns the config file to read and whether it was named explicitly.
func (c *commandParams) configFile() (string, bool) {
	if c.configPath != "" {
		return c.configPath, true
	}
	return config.DefaultPath, false
}

// resolveConfig merges the config file, the environment and the command line, in increasing
// order of precedence. changed reports whether a flag was set on the command line.
func (c *commandParams) resolveConfig(changed func(string) bool) (*config.Config, error) {
	path, explicit := c.configFile()
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.LookupEnv)
	if c.serviceURL != "" {
		cfg.BaseURL = c.serviceURL
	}
	if changed("timeout") {
		cfg.Timeout = c.timeout
	}
	if changed("strict-not-found") {
		cfg.StrictNotFound = c.strictNotFound
	}
	if changed("parallel") {
		cfg.Parallel = c.parallel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// rerunCommand builds a command line that runs the scenarios of the given tests again. A single
// step cannot be rerun alone, since it depends on the steps before it.
func (c *commandParams) rerunCommand(program string, cfg *config.Config, failures []framework.TestResult) string {
	var b commandBuilder
	b.add(program, "--url", cfg.BaseURL)
	if c.configPath != "" {
		b.add("--config", c.configPath)
	}
	if cfg.StrictNotFound {
		b.add("--strict-not-found")
	}
	seen := make(map[string]bool)
	for _, f := range failures {
		if len(f.TestID.Path) == 0 {
			continue
		}
		pattern := exactPattern(framework.TestID{Path: f.TestID.Path[:1]})
		if !seen[pattern] {
			seen[pattern] = true
			b.add("--run", pattern)
		}
	}
	return b.String()
}

func exactPattern(id framework.TestID) string {
	levels := make([]string, 0, len(id.Path))
	for _, name := range id.Path {
		levels = append(levels, "^"+regexp.QuoteMeta(name)+"$")
	}
	return strings.Join(levels, "/")
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
