package mockapi

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restful-objects/objects-contract-tests/servicedef"
)

func TestUpdateMissingObjectDoesNotCreateIt(t *testing.T) {
	s := newObjectStore()
	o := s.put(servicedef.Object{Name: "x"}, false)
	require.True(t, s.delete(o.ID))

	called := false
	_, ok := s.update(o.ID, func(*servicedef.Object) { called = true })
	assert.False(t, ok)
	assert.False(t, called)
	_, found := s.get(o.ID)
	assert.False(t, found)
}

func TestUpdateKeepsID(t *testing.T) {
	s := newObjectStore()
	o := s.put(servicedef.Object{Name: "x"}, false)
	updated, ok := s.update(o.ID, func(o *servicedef.Object) { *o = servicedef.Object{Name: "y"} })
	require.True(t, ok)
	assert.Equal(t, o.ID, updated.ID)
	assert.Equal(t, "y", updated.Name)
}

func TestConcurrentUpdateAndDeleteNeverRevivesObject(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := newObjectStore()
		o := s.put(servicedef.Object{Name: "x"}, false)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.update(o.ID, func(o *servicedef.Object) { o.Name = "patched" })
		}()
		go func() {
			defer wg.Done()
			s.delete(o.ID)
		}()
		wg.Wait()

		_, found := s.get(o.ID)
		assert.False(t, found)
		assert.Len(t, s.list([]string{o.ID}), 0)
	}
}
