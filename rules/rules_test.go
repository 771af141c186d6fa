package rules

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

var testNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func data(pairs ...interface{}) ldvalue.Value {
	b := ldvalue.ObjectBuild()
	for i := 0; i < len(pairs); i += 2 {
		b.Set(pairs[i].(string), ldvalue.CopyArbitraryValue(pairs[i+1]))
	}
	return b.Build()
}

func rule(t *testing.T, field string) Rule {
	r, ok := Default(testNow).Find(field)
	require.True(t, ok, field)
	return r
}

func TestCapacity(t *testing.T) {
	r := rule(t, "capacity")
	for _, c := range ValidCapacities {
		v, applies := r.Evaluate(data("capacity", c))
		assert.True(t, applies)
		assert.Empty(t, v.Reason, c)
	}
	for _, c := range []string{"3 TB", "64GB", "", "64 gb"} {
		v, _ := r.Evaluate(data("capacity", c))
		assert.Equal(t, ReasonNotInEnum, v.Reason, c)
	}
	for _, bad := range []interface{}{64, true, nil, []interface{}{"64 GB"}} {
		v, _ := r.Evaluate(data("capacity", bad))
		assert.Equal(t, ReasonWrongType, v.Reason, "%v", bad)
	}
}

func TestYearBounds(t *testing.T) {
	r := rule(t, "year")
	current := testNow.Year()
	cases := []struct {
		year   interface{}
		reason Reason
	}{
		{2000, ReasonOutOfRange},
		{2001, ""},
		{2019, ""},
		{current, ""},
		{current + 1, ReasonOutOfRange},
		{2019.5, ReasonWrongType},
		{"2019", ReasonWrongType},
	}
	for _, c := range cases {
		t.Run(fmt.Sprint(c.year), func(t *testing.T) {
			v, applies := r.Evaluate(data("year", c.year))
			assert.True(t, applies)
			assert.Equal(t, c.reason, v.Reason)
		})
	}
}

func TestYearUsesClock(t *testing.T) {
	r, _ := Default(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)).Find("year")
	v, _ := r.Evaluate(data("year", 2030))
	assert.Empty(t, v.Reason)
}

func TestPrice(t *testing.T) {
	r := rule(t, "price")
	for _, p := range []interface{}{1849.99, 120, 0} {
		v, _ := r.Evaluate(data("price", p))
		assert.Empty(t, v.Reason, "%v", p)
	}
	for _, p := range []interface{}{"1849.99", nil, false} {
		v, _ := r.Evaluate(data("price", p))
		assert.Equal(t, ReasonWrongType, v.Reason, "%v", p)
	}
}

func TestColorAndGeneration(t *testing.T) {
	color := rule(t, "color")
	v, _ := color.Evaluate(data("Color", "Red"))
	assert.Empty(t, v.Reason)
	v, _ = color.Evaluate(data("color", "silver"))
	assert.Equal(t, ReasonNotInEnum, v.Reason)

	gen := rule(t, "generation")
	v, _ = gen.Evaluate(data("Generation", "4th"))
	assert.Empty(t, v.Reason)
	v, _ = gen.Evaluate(data("generation", "9th"))
	assert.Equal(t, ReasonNotInEnum, v.Reason)
}

func TestPrimaryKeyWinsOverAlternateCasing(t *testing.T) {
	r := rule(t, "capacity")

	v, applies := r.Evaluate(data("capacity", "64 GB", "Capacity", "bogus"))
	assert.True(t, applies)
	assert.Empty(t, v.Reason)

	v, _ = r.Evaluate(data("capacity", "bogus", "Capacity", "64 GB"))
	assert.Equal(t, "capacity", v.Key)
	assert.Equal(t, ReasonNotInEnum, v.Reason)
}

func TestAbsentFieldsAreValid(t *testing.T) {
	rs := Default(testNow)
	assert.Empty(t, rs.Validate(data("CPU model", "Intel Core i9", "Strap Colour", "Elderberry")))
	assert.Empty(t, rs.Validate(ldvalue.Null()))
	assert.Empty(t, rs.Validate(ldvalue.String("not an object")))

	_, applies := rule(t, "year").Evaluate(data("Year", 1990))
	assert.False(t, applies)
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	rs := Default(testNow)
	d := data("price", "free", "capacity", "3 TB", "year", 1999, "Color", 7, "generation", "1st")

	violations := rs.Validate(d)
	require.Len(t, violations, 4)
	assert.Equal(t, "price", violations[0].Field)
	assert.Equal(t, ReasonWrongType, violations[0].Reason)
	assert.True(t, ldvalue.String("free").Equal(violations[0].Value))
	assert.Equal(t, "capacity", violations[1].Field)
	assert.Equal(t, ReasonOutOfRange, violations[2].Reason)
	assert.Equal(t, "Color", violations[3].Key)
	assert.Equal(t, `capacity: "3 TB" not-in-enum`, violations[1].Error())

	assert.Equal(t, violations, rs.Validate(d), "validation must be repeatable")
}

func TestValidateCollection(t *testing.T) {
	items := []ldvalue.Value{
		data("id", "1", "name", "Google Pixel 6 Pro", "data", map[string]interface{}{"color": "Cloudy White", "capacity": "128 GB"}),
		data("id", "2", "name", "Apple iPhone 12 Mini, 256GB, Blue", "data", nil),
		data("id", "3", "name", "Broken", "data", map[string]interface{}{"capacity": "3 TB", "price": 389.99}),
		data("id", "4", "name", "Apple AirPods", "data", map[string]interface{}{"generation": "3rd", "price": 120}),
	}
	violations := Default(testNow).ValidateCollection(items)
	require.Len(t, violations, 1)
	assert.Equal(t, 2, violations[0].Index)
	assert.Equal(t, "3", violations[0].ID)
	assert.Equal(t, "capacity", violations[0].Field)
	assert.Equal(t, ReasonNotInEnum, violations[0].Reason)
	assert.Equal(t, `item 2 (id "3"): capacity: "3 TB" not-in-enum`, violations[0].Error())

	capacity := rule(t, "capacity")
	assert.Equal(t, violations, capacity.ValidateItems(items))
	assert.Empty(t, rule(t, "price").ValidateItems(items))
}
