package objectstests

import (
	"fmt"
	"net/http"

	"github.com/restful-objects/objects-contract-tests/framework"
	"github.com/restful-objects/objects-contract-tests/rules"
	"github.com/restful-objects/objects-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const stepGetAllObjects = "get all objects"

var requiredItemFields = []string{"id", "name", "data"}

// ListingScenario fetches the whole collection once, then runs each rule of the rule set over
// every item as a separate step.
func ListingScenario(ruleSet rules.RuleSet) Scenario {
	steps := []Step{{Name: stepGetAllObjects, Action: doGetAllObjects}}
	for _, rule := range ruleSet.Rules {
		steps = append(steps, Step{
			Name:     rule.Field,
			Requires: []Requirement{StepPassed(stepGetAllObjects)},
			Action: func(t *T, state *ScenarioState) {
				for _, v := range rule.ValidateItems(state.Collection) {
					t.Error(v)
				}
			},
		})
	}
	return Scenario{Name: "listing", Steps: steps}
}

func doGetAllObjects(t *T, state *ScenarioState) {
	resp := t.Send(http.MethodGet, servicedef.ObjectsPath, nil)
	t.RequireStatus(resp, http.StatusOK)
	t.RequireJSON(resp)
	list := t.RequireJSONArray(resp)
	if list.Count() == 0 {
		t.Errorf("expected at least one object in the collection")
		t.FailNow()
	}

	items := make([]ldvalue.Value, 0, list.Count())
	for i := 0; i < list.Count(); i++ {
		item := list.GetByIndex(i)
		for _, key := range requiredItemFields {
			if !hasKey(item, key) {
				t.Error(&framework.SchemaViolation{Field: fmt.Sprintf("[%d].%s", i, key), Problem: "missing"})
			}
		}
		items = append(items, item)
	}
	state.Collection = items
	t.Debug("fetched %d objects", len(items))
}
