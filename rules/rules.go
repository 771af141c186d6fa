// Package rules checks the loosely-typed "data" fields of objects against the value rules of the
// objects service: known capacities, colors and generations, plausible years, numeric prices.
//
// A rule only applies when its field is present. Nothing here panics on malformed input; a value
// of the wrong JSON type is reported as a Violation like any other.
package rules

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Reason is the kind of rule violation.
type Reason string

const (
	ReasonWrongType  Reason = "wrong-type"
	ReasonOutOfRange Reason = "out-of-range"
	ReasonNotInEnum  Reason = "not-in-enum"
)

// MinYear is the earliest acceptable value of the year field.
const MinYear = 2001

var (
	ValidCapacities  = []string{"64 GB", "128 GB", "254 GB", "256 GB", "512 GB", "1 TB", "2 TB"}
	ValidColors      = []string{"Cloudy White", "Blue", "Purple", "Brown", "Red", "Elderberry", "Green", "Yellow", "Black", "White"}
	ValidGenerations = []string{"1st", "2nd", "3rd", "4th", "5th", "6th", "7th", "8th"}
)

// Check examines one field value. It returns ok=false and a reason if the value is not acceptable.
type Check func(value ldvalue.Value) (reason Reason, ok bool)

// Rule validates one logical field. Keys are looked up in order and the first one present is the
// only one checked, so a primary spelling always wins over an alternate casing.
type Rule struct {
	Field string
	Keys  []string
	Check Check
}

// RuleSet is an ordered list of rules.
type RuleSet struct {
	Rules []Rule
}

// Violation is a present field whose value broke a rule.
type Violation struct {
	Field  string
	Key    string
	Reason Reason
	Value  ldvalue.Value
}

func (v Violation) Error() string {
	return fmt.Sprintf("%s: %s %s", v.Key, v.Value.JSONString(), v.Reason)
}

// Default returns the rule set of the objects service. The upper bound of the year rule is the
// calendar year of now.
func Default(now time.Time) RuleSet {
	return RuleSet{Rules: []Rule{
		{Field: "price", Keys: []string{"price"}, Check: Decimal()},
		{Field: "capacity", Keys: []string{"capacity", "Capacity"}, Check: OneOf(ValidCapacities...)},
		{Field: "year", Keys: []string{"year"}, Check: IntegerInRange(MinYear, now.Year())},
		{Field: "color", Keys: []string{"color", "Color"}, Check: OneOf(ValidColors...)},
		{Field: "generation", Keys: []string{"generation", "Generation"}, Check: OneOf(ValidGenerations...)},
	}}
}

// Evaluate applies the rule to an object's data. applies is false if none of the rule's keys is
// present, or if data is not a JSON object at all.
func (r Rule) Evaluate(data ldvalue.Value) (violation Violation, applies bool) {
	key, value, found := lookup(data, r.Keys)
	if !found {
		return Violation{}, false
	}
	if reason, ok := r.Check(value); !ok {
		return Violation{Field: r.Field, Key: key, Reason: reason, Value: value}, true
	}
	return Violation{}, true
}

// Validate evaluates every rule against data and returns all violations, in rule order.
func (rs RuleSet) Validate(data ldvalue.Value) []Violation {
	var ret []Violation
	for _, r := range rs.Rules {
		if v, applies := r.Evaluate(data); applies && v.Reason != "" {
			ret = append(ret, v)
		}
	}
	return ret
}

// Find returns the rule for a field.
func (rs RuleSet) Find(field string) (Rule, bool) {
	for _, r := range rs.Rules {
		if r.Field == field {
			return r, true
		}
	}
	return Rule{}, false
}

func lookup(data ldvalue.Value, keys []string) (string, ldvalue.Value, bool) {
	if data.Type() != ldvalue.ObjectType {
		return "", ldvalue.Null(), false
	}
	present := make(map[string]bool, data.Count())
	for _, k := range data.Keys() {
		present[k] = true
	}
	for _, k := range keys {
		if present[k] {
			return k, data.GetByKey(k), true
		}
	}
	return "", ldvalue.Null(), false
}

// OneOf accepts a string equal to one of the allowed values.
func OneOf(allowed ...string) Check {
	set := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		set[a] = struct{}{}
	}
	return func(value ldvalue.Value) (Reason, bool) {
		if value.Type() != ldvalue.StringType {
			return ReasonWrongType, false
		}
		if _, ok := set[value.StringValue()]; !ok {
			return ReasonNotInEnum, false
		}
		return "", true
	}
}

// IntegerInRange accepts a whole number between min and max inclusive.
func IntegerInRange(min, max int) Check {
	return func(value ldvalue.Value) (Reason, bool) {
		if value.Type() != ldvalue.NumberType || !value.IsInt() {
			return ReasonWrongType, false
		}
		n := value.Float64Value()
		if n < float64(min) || n > float64(max) {
			return ReasonOutOfRange, false
		}
		return "", true
	}
}

// Decimal accepts any JSON number that reads back as a decimal number.
func Decimal() Check {
	return func(value ldvalue.Value) (Reason, bool) {
		if value.Type() != ldvalue.NumberType {
			return ReasonWrongType, false
		}
		if _, err := strconv.ParseFloat(value.JSONString(), 64); err != nil {
			return ReasonWrongType, false
		}
		return "", true
	}
}
