// Package mockapi is an in-memory stand-in for the public objects service. It answers the same
// routes with the same wire shapes and messages, so the contract tests can run without network
// access, and it can be told to reword its not-found message the way the real service once did.
package mockapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/restful-objects/objects-contract-tests/framework"
	"github.com/restful-objects/objects-contract-tests/servicedef"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

const badBodyMessage = "400 Bad Request. If you are trying to create or update the data, potential issue is that you are sending incorrect body json or it is missing at all."

// Options configures a Service. Zero values select the public service's behavior.
type Options struct {
	// DeletedMessage and NotFoundMessage are templates in which "{id}" is replaced by the
	// object ID.
	DeletedMessage  string
	NotFoundMessage string

	Now    func() time.Time
	Logger framework.Logger
}

// Service is an http.Handler serving the /objects resource.
type Service struct {
	store  *objectStore
	opts   Options
	router chi.Router
}

func New(opts Options) *Service {
	if opts.DeletedMessage == "" {
		opts.DeletedMessage = servicedef.DefaultDeletedMessage
	}
	if opts.NotFoundMessage == "" {
		opts.NotFoundMessage = servicedef.DefaultNotFoundMessage
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = framework.NullLogger()
	}
	s := &Service{store: newObjectStore(), opts: opts}

	r := chi.NewRouter()
	r.Use(s.logRequests)
	r.Route(servicedef.ObjectsPath, func(r chi.Router) {
		r.Get("/", s.listObjects)
		r.Post("/", s.createObject)
		r.Get("/{id}", s.getObject)
		r.Put("/{id}", s.replaceObject)
		r.Patch("/{id}", s.patchObject)
		r.Delete("/{id}", s.deleteObject)
	})
	s.router = r
	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Reset restores the initial sample objects and discards everything else.
func (s *Service) Reset() {
	s.store.reset()
}

// Put adds or replaces an object directly, bypassing the HTTP API. If o.ID is empty, an ID is
// generated. Unlike objects created with POST, a new object added this way appears in the full
// listing. The stored object is returned.
func (s *Service) Put(o servicedef.Object) servicedef.Object {
	return s.store.put(o, true)
}

func (s *Service) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.opts.Logger.Printf("%s %s", r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (s *Service) now() string {
	return s.opts.Now().UTC().Format(timestampFormat)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func (s *Service) writeNotFound(w http.ResponseWriter, id string) {
	writeJSON(w, http.StatusNotFound, servicedef.ErrorResponse{
		Error: servicedef.FormatMessage(s.opts.NotFoundMessage, id),
	})
}
