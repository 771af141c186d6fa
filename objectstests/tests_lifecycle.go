package objectstests

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/restful-objects/objects-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const (
	stepCreateObject     = "create object"
	stepGetObjectByID    = "get object by id"
	stepUpdateObject     = "update object"
	stepDeleteObject     = "delete object"
	stepGetDeletedObject = "get deleted object"

	testObjectName = "Apple MacBook Pro 16"
)

func createObjectParams() servicedef.ObjectParams {
	return servicedef.ObjectParams{
		Name: testObjectName,
		Data: ldvalue.ObjectBuild().
			Set("year", ldvalue.Int(2019)).
			Set("price", ldvalue.Float64(1849.99)).
			Set("CPU model", ldvalue.String("Intel Core i9")).
			Set("Hard disk size", ldvalue.String("1 TB")).
			Build(),
	}
}

func updateObjectParams() servicedef.ObjectParams {
	return servicedef.ObjectParams{
		Name: testObjectName,
		Data: ldvalue.ObjectBuild().
			Set("year", ldvalue.Int(2019)).
			Set("price", ldvalue.Float64(2049.99)).
			Set("CPU model", ldvalue.String("Intel Core i9")).
			Set("Hard disk size", ldvalue.String("1 TB")).
			Set("color", ldvalue.String("silver")).
			Build(),
	}
}

// LifecycleScenario creates one object, reads it back, replaces it, deletes it, and then checks
// that it can no longer be read.
func LifecycleScenario() Scenario {
	return Scenario{
		Name: "lifecycle",
		Steps: []Step{
			{Name: stepCreateObject, Action: doCreateObject},
			{Name: stepGetObjectByID, Requires: []Requirement{ResourceBound()}, Action: doGetObjectByID},
			{Name: stepUpdateObject, Requires: []Requirement{ResourceBound()}, Action: doUpdateObject},
			{Name: stepDeleteObject, Requires: []Requirement{ResourceBound()}, Action: doDeleteObject},
			{
				Name:     stepGetDeletedObject,
				Requires: []Requirement{ResourceBound(), StepPassed(stepDeleteObject)},
				Action:   doGetDeletedObject,
			},
		},
	}
}

func doCreateObject(t *T, state *ScenarioState) {
	params := createObjectParams()
	resp := t.Send(http.MethodPost, servicedef.ObjectsPath, params)
	t.RequireStatus(resp, http.StatusOK, http.StatusCreated)
	t.RequireJSON(resp)
	body := t.RequireJSONObject(resp)

	// The ID is bound before the remaining checks, so a mismatch below does not stop the later
	// steps from cleaning up the object.
	id := t.RequireStringField(body, "id")
	require.NoError(t, state.BindResourceID(id), "invalid object ID in create response")
	t.Debug("created object %s", id)

	t.CheckFieldEquals(body, "name", ldvalue.String(params.Name))
	t.CheckDataEquals(body, params.Data)
	t.RequireTimestamp(body, "createdAt")
}

func doGetObjectByID(t *T, state *ScenarioState) {
	id, _ := state.ResourceID()
	params := createObjectParams()
	resp := t.Send(http.MethodGet, servicedef.ObjectPath(id), nil)
	t.RequireStatus(resp, http.StatusOK)
	t.RequireJSON(resp)
	body := t.RequireJSONObject(resp)

	t.CheckFieldEquals(body, "id", ldvalue.String(id))
	t.CheckFieldEquals(body, "name", ldvalue.String(params.Name))
	t.CheckDataEquals(body, params.Data)
}

func doUpdateObject(t *T, state *ScenarioState) {
	id, _ := state.ResourceID()
	params := updateObjectParams()
	resp := t.Send(http.MethodPut, servicedef.ObjectPath(id), params)
	t.RequireStatus(resp, http.StatusOK)
	t.RequireJSON(resp)
	body := t.RequireJSONObject(resp)

	t.CheckFieldEquals(body, "id", ldvalue.String(id))
	t.CheckFieldEquals(body, "name", ldvalue.String(params.Name))
	t.CheckDataEquals(body, params.Data)

	updatedAt := t.RequireTimestamp(body, "updatedAt")
	window := t.Params().RecentWindow
	earliest := t.Now().Add(-window)
	assert.True(t, updatedAt.After(earliest),
		"updatedAt %s is not within the last %s", updatedAt.Format(timestampFormat), window)
}

func doDeleteObject(t *T, state *ScenarioState) {
	id, _ := state.ResourceID()
	resp := t.Send(http.MethodDelete, servicedef.ObjectPath(id), nil)
	t.RequireStatus(resp, http.StatusOK)
	t.RequireJSON(resp)
	body := t.RequireJSONObject(resp)

	message := t.RequireStringField(body, "message")
	assert.Equal(t, servicedef.FormatMessage(t.Params().DeletedMessage, id), message,
		"unexpected delete confirmation")
}

func doGetDeletedObject(t *T, state *ScenarioState) {
	id, _ := state.ResourceID()
	resp := t.Send(http.MethodGet, servicedef.ObjectPath(id), nil)
	t.RequireStatus(resp, http.StatusNotFound)
	body := t.RequireJSONObject(resp)

	message := t.RequireStringField(body, "error")
	expected := servicedef.FormatMessage(t.Params().NotFoundMessage, id)
	if strings.Contains(message, expected) {
		return
	}
	if t.Params().StrictNotFound {
		t.Errorf("not-found message %q does not contain %q", message, expected)
		return
	}
	t.Skip(fmt.Sprintf("inconclusive: got 404 but message %q does not contain %q", message, expected))
}
