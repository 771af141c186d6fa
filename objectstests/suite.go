package objectstests

import (
	"sync"

	"github.com/restful-objects/objects-contract-tests/framework"
	"github.com/restful-objects/objects-contract-tests/rules"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Scenarios returns every scenario of the suite in the order they run.
func Scenarios(ruleSet rules.RuleSet) []Scenario {
	return []Scenario{
		LifecycleScenario(),
		ListingScenario(ruleSet),
	}
}

func RunTestSuite(
	harness *framework.TestHarness,
	params SuiteParams,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	params = params.withDefaults()
	env := &environment{
		harness: harness,
		params:  params,
		rules:   rules.Default(params.Now()),
	}
	scenarios := Scenarios(env.rules)

	if !params.Parallel {
		return framework.Run(filter, testLogger, func(c *framework.Context) {
			t := newTestScope(c, env)
			for _, s := range scenarios {
				t.RunScenario(s)
			}
		})
	}

	all := make([]framework.Results, len(scenarios))
	var wg sync.WaitGroup
	for i, s := range scenarios {
		wg.Add(1)
		go func(i int, s Scenario) {
			defer wg.Done()
			scenarioEnv := env.withHarness(harness.WithNewClient())
			all[i] = framework.Run(filter, testLogger, func(c *framework.Context) {
				newTestScope(c, scenarioEnv).RunScenario(s)
			})
		}(i, s)
	}
	wg.Wait()

	var results framework.Results
	for _, r := range all {
		results.Merge(r)
	}
	return results
}
