package rules

import (
	"fmt"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ItemViolation is a Violation found in one element of a collection of objects.
type ItemViolation struct {
	Index int
	ID    string
	Violation
}

func (v ItemViolation) Error() string {
	return fmt.Sprintf("item %d (id %q): %s", v.Index, v.ID, v.Violation.Error())
}

// ValidateItems applies a single rule to the "data" field of each object in items.
func (r Rule) ValidateItems(items []ldvalue.Value) []ItemViolation {
	var ret []ItemViolation
	for i, item := range items {
		if v, applies := r.Evaluate(item.GetByKey("data")); applies && v.Reason != "" {
			ret = append(ret, ItemViolation{Index: i, ID: itemID(item), Violation: v})
		}
	}
	return ret
}

// ValidateCollection applies every rule to the "data" field of each object in items. Items are
// independent: a violation in one never hides violations in another.
func (rs RuleSet) ValidateCollection(items []ldvalue.Value) []ItemViolation {
	var ret []ItemViolation
	for i, item := range items {
		for _, v := range rs.Validate(item.GetByKey("data")) {
			ret = append(ret, ItemViolation{Index: i, ID: itemID(item), Violation: v})
		}
	}
	return ret
}

func itemID(item ldvalue.Value) string {
	id := item.GetByKey("id")
	if id.Type() == ldvalue.StringType {
		return id.StringValue()
	}
	return id.JSONString()
}
