package mockapi

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/restful-objects/objects-contract-tests/servicedef"
)

// The public service ships with these objects, and they cannot be changed or deleted.
const seedObjectsJSON = `[
  {"id": "1", "name": "Google Pixel 6 Pro", "data": {"color": "Cloudy White", "capacity": "128 GB"}},
  {"id": "2", "name": "Apple iPhone 12 Mini, 256GB, Blue", "data": null},
  {"id": "3", "name": "Apple iPhone 12 Pro Max", "data": {"color": "Cloudy White", "capacity GB": 512}},
  {"id": "4", "name": "Apple iPhone 11, 64GB", "data": {"price": 389.99, "color": "Purple"}},
  {"id": "5", "name": "Samsung Galaxy Z Fold2", "data": {"price": 689.99, "color": "Brown"}},
  {"id": "6", "name": "Apple AirPods", "data": {"generation": "3rd", "price": 120}},
  {"id": "7", "name": "Apple MacBook Pro 16", "data": {"year": 2019, "price": 1849.99, "CPU model": "Intel Core i9", "Hard disk size": "1 TB"}},
  {"id": "8", "name": "Apple Watch Series 8", "data": {"Strap Colour": "Elderberry", "Case Size": "41mm"}},
  {"id": "9", "name": "Beats Studio3 Wireless", "data": {"Color": "Red", "Description": "High-performance wireless noise cancelling headphones"}},
  {"id": "10", "name": "Apple iPad Mini 5th Gen", "data": {"Capacity": "64 GB", "Screen size": 7.9}},
  {"id": "11", "name": "Apple iPad Mini 5th Gen", "data": {"Capacity": "254 GB", "Screen size": 7.9}},
  {"id": "12", "name": "Apple iPad Air", "data": {"Generation": "4th", "Price": "419.99", "Capacity": "64 GB"}},
  {"id": "13", "name": "Apple iPad Air", "data": {"Generation": "4th", "Price": "519.99", "Capacity": "256 GB"}}
]`

// objectStore holds objects in insertion order. As on the public service, objects created
// through the API are unlisted: they can be fetched by ID but do not appear in the full listing.
type objectStore struct {
	objects  map[string]servicedef.Object
	order    []string
	reserved map[string]bool
	unlisted map[string]bool
	lock     sync.Mutex
}

func newObjectStore() *objectStore {
	s := &objectStore{}
	s.reset()
	return s
}

func (s *objectStore) reset() {
	var seed []servicedef.Object
	if err := json.Unmarshal([]byte(seedObjectsJSON), &seed); err != nil {
		panic(err) // the seed is a constant, so this is a programming error
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.objects = make(map[string]servicedef.Object, len(seed))
	s.reserved = make(map[string]bool, len(seed))
	s.unlisted = make(map[string]bool)
	s.order = nil
	for _, o := range seed {
		s.objects[o.ID] = o
		s.reserved[o.ID] = true
		s.order = append(s.order, o.ID)
	}
}

func (s *objectStore) list(ids []string) []servicedef.Object {
	s.lock.Lock()
	defer s.lock.Unlock()
	all := len(ids) == 0
	if all {
		ids = s.order
	}
	ret := make([]servicedef.Object, 0, len(ids))
	for _, id := range ids {
		if all && s.unlisted[id] {
			continue
		}
		if o, ok := s.objects[id]; ok {
			ret = append(ret, o)
		}
	}
	return ret
}

func (s *objectStore) get(id string) (servicedef.Object, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	o, ok := s.objects[id]
	return o, ok
}

func (s *objectStore) isReserved(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.reserved[id]
}

// put stores an object. If o.ID is empty, a new ID is generated. The listed flag only matters
// for a new object.
func (s *objectStore) put(o servicedef.Object, listed bool) servicedef.Object {
	s.lock.Lock()
	defer s.lock.Unlock()
	if o.ID == "" {
		o.ID = newObjectID()
	}
	if _, exists := s.objects[o.ID]; !exists {
		s.order = append(s.order, o.ID)
		if !listed {
			s.unlisted[o.ID] = true
		}
	}
	s.objects[o.ID] = o
	return o
}

// update changes an existing object in place. It returns false, and calls nothing, if there
// is no object with this ID.
func (s *objectStore) update(id string, change func(*servicedef.Object)) (servicedef.Object, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	o, ok := s.objects[id]
	if !ok {
		return servicedef.Object{}, false
	}
	change(&o)
	o.ID = id
	s.objects[id] = o
	return o, true
}

func (s *objectStore) delete(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.objects[id]; !ok {
		return false
	}
	delete(s.objects, id)
	delete(s.unlisted, id)
	for i, x := range s.order {
		if x == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// newObjectID makes an ID in the style of the public service: 32 lowercase hex digits.
func newObjectID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}
