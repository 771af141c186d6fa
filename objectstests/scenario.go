package objectstests

import (
	"fmt"

	"github.com/restful-objects/objects-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ScenarioState is the data that the steps of one scenario pass along to each other. The runner
// owns it and gives every step the same pointer, so anything a step stored before failing is
// still visible to the steps after it.
type ScenarioState struct {
	createdResourceID string

	// PriorStepPassed is true if the step that ran just before the current one passed.
	PriorStepPassed bool

	// Collection holds the items fetched by the listing scenario.
	Collection []ldvalue.Value

	passed map[string]bool
}

func newScenarioState() *ScenarioState {
	return &ScenarioState{passed: make(map[string]bool)}
}

// BindResourceID records the ID of the object created by this scenario. It can only be set once.
func (s *ScenarioState) BindResourceID(id string) error {
	if id == "" {
		return fmt.Errorf("cannot bind an empty resource ID")
	}
	if s.createdResourceID != "" {
		return fmt.Errorf("resource ID is already bound to %q", s.createdResourceID)
	}
	s.createdResourceID = id
	return nil
}

func (s *ScenarioState) ResourceID() (string, bool) {
	return s.createdResourceID, s.createdResourceID != ""
}

// StepPassed reports whether a step with this name has already run and passed.
func (s *ScenarioState) StepPassed(name string) bool {
	return s.passed[name]
}

func (s *ScenarioState) record(stepName string, passed bool) {
	s.passed[stepName] = passed
	s.PriorStepPassed = passed
}

// Requirement is a precondition of a step. A step whose requirements are not all satisfied is
// skipped rather than run with missing data.
type Requirement struct {
	Description string
	Satisfied   func(*ScenarioState) bool
}

// ResourceBound requires that an earlier step created an object and bound its ID.
func ResourceBound() Requirement {
	return Requirement{
		Description: "no created object ID",
		Satisfied: func(s *ScenarioState) bool {
			_, ok := s.ResourceID()
			return ok
		},
	}
}

// StepPassed requires that the named step ran earlier in the same scenario and passed.
func StepPassed(name string) Requirement {
	return Requirement{
		Description: fmt.Sprintf("step %q did not pass", name),
		Satisfied: func(s *ScenarioState) bool {
			return s.StepPassed(name)
		},
	}
}

type Step struct {
	Name     string
	Requires []Requirement
	Action   func(t *T, state *ScenarioState)
}

// Scenario is an ordered list of steps that share one ScenarioState. Steps always run in the
// declared order; there is no retry.
type Scenario struct {
	Name  string
	Steps []Step
}

// RunScenario runs the scenario as a subtest of t, with each step as a subtest of that, and
// returns the final state.
func (t *T) RunScenario(scenario Scenario) *ScenarioState {
	state := newScenarioState()
	t.Run(scenario.Name, func(t *T) {
		for _, step := range scenario.Steps {
			result := t.Run(step.Name, func(t *T) {
				for _, req := range step.Requires {
					if !req.Satisfied(state) {
						t.SkipWithError(&framework.DependencyUnmetError{Requirement: req.Description})
					}
				}
				step.Action(t, state)
			})
			state.record(step.Name, result.Outcome == framework.OutcomePassed)
		}
	})
	return state
}
