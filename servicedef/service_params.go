package servicedef

import (
	"net/url"
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ObjectsPath is the collection resource of the service under test.
const ObjectsPath = "/objects"

// IDPlaceholder is replaced by the object ID in message templates.
const IDPlaceholder = "{id}"

const (
	DefaultDeletedMessage  = "Object with id = {id} has been deleted."
	DefaultNotFoundMessage = "Object with id={id} was not found."
)

// ObjectParams is the request body for creating or replacing an object.
type ObjectParams struct {
	Name string        `json:"name"`
	Data ldvalue.Value `json:"data"`
}

// Object is an object as the service returns it. Only one of CreatedAt and UpdatedAt
// is normally present, depending on which operation produced the response.
type Object struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Data      ldvalue.Value `json:"data"`
	CreatedAt string        `json:"createdAt,omitempty"`
	UpdatedAt string        `json:"updatedAt,omitempty"`
}

type DeleteConfirmation struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ObjectPath returns the resource path for a single object.
func ObjectPath(id string) string {
	return ObjectsPath + "/" + url.PathEscape(id)
}

// FormatMessage substitutes the object ID into a message template such as
// DefaultDeletedMessage.
func FormatMessage(template, id string) string {
	return strings.ReplaceAll(template, IDPlaceholder, id)
}
