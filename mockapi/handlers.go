package mockapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/restful-objects/objects-contract-tests/servicedef"
)

// patchParams distinguishes absent fields from null ones.
type patchParams struct {
	Name *string        `json:"name"`
	Data *ldvalue.Value `json:"data"`
}

// listObjects handles GET /objects, optionally filtered by repeated id query parameters.
func (s *Service) listObjects(w http.ResponseWriter, r *http.Request) {
	objects := s.store.list(r.URL.Query()["id"])
	views := make([]servicedef.Object, 0, len(objects))
	for _, o := range objects {
		views = append(views, withoutTimestamps(o))
	}
	writeJSON(w, http.StatusOK, views)
}

// getObject handles GET /objects/{id}
func (s *Service) getObject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, ok := s.store.get(id)
	if !ok {
		s.writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, withoutTimestamps(o))
}

// createObject handles POST /objects
func (s *Service) createObject(w http.ResponseWriter, r *http.Request) {
	var params servicedef.ObjectParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, servicedef.ErrorResponse{Error: badBodyMessage})
		return
	}
	o := s.store.put(servicedef.Object{
		Name:      params.Name,
		Data:      params.Data,
		CreatedAt: s.now(),
	}, false)
	writeJSON(w, http.StatusOK, o)
}

// replaceObject handles PUT /objects/{id}
func (s *Service) replaceObject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.rejectReserved(w, id, "overridden", "PUT") {
		return
	}
	var params servicedef.ObjectParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, servicedef.ErrorResponse{Error: badBodyMessage})
		return
	}
	o, ok := s.store.update(id, func(o *servicedef.Object) {
		*o = servicedef.Object{
			Name:      params.Name,
			Data:      params.Data,
			UpdatedAt: s.now(),
		}
	})
	if !ok {
		s.writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// patchObject handles PATCH /objects/{id}
func (s *Service) patchObject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.rejectReserved(w, id, "overridden", "PATCH") {
		return
	}
	var params patchParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeJSON(w, http.StatusBadRequest, servicedef.ErrorResponse{Error: badBodyMessage})
		return
	}
	o, ok := s.store.update(id, func(o *servicedef.Object) {
		if params.Name != nil {
			o.Name = *params.Name
		}
		if params.Data != nil {
			o.Data = *params.Data
		}
		o.CreatedAt = ""
		o.UpdatedAt = s.now()
	})
	if !ok {
		s.writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// deleteObject handles DELETE /objects/{id}
func (s *Service) deleteObject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.rejectReserved(w, id, "deleted", "DELETE") {
		return
	}
	if !s.store.delete(id) {
		s.writeNotFound(w, id)
		return
	}
	writeJSON(w, http.StatusOK, servicedef.DeleteConfirmation{
		Message: servicedef.FormatMessage(s.opts.DeletedMessage, id),
	})
}

func (s *Service) rejectReserved(w http.ResponseWriter, id, verb, method string) bool {
	if !s.store.isReserved(id) {
		return false
	}
	writeJSON(w, http.StatusMethodNotAllowed, servicedef.ErrorResponse{
		Error: id + " is a reserved id and the data object of it cannot be " + verb +
			". You can create your own new object via POST request and try to send a " + method +
			" request with new generated object id.",
	})
	return true
}

func withoutTimestamps(o servicedef.Object) servicedef.Object {
	o.CreatedAt = ""
	o.UpdatedAt = ""
	return o
}
