package devbackend

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// store is an insertion-ordered in-memory collection.
type store[T any] struct {
	mu    sync.Mutex
	items map[string]T
	order []string
	setID func(*T, string)
}

func newStore[T any](setID func(*T, string)) *store[T] {
	return &store[T]{items: make(map[string]T), setID: setID}
}

func (s *store[T]) List() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id])
	}
	return out
}

func (s *store[T]) Get(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	return item, ok
}

func (s *store[T]) Create(item T) T {
	id := uuid.NewString()
	s.setID(&item, id)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = item
	s.order = append(s.order, id)
	return item
}

func (s *store[T]) Update(id string, item T) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		var zero T
		return zero, false
	}
	s.setID(&item, id)
	s.items[id] = item
	return item, true
}

func (s *store[T]) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// resourceDef binds one store to its validation and server-side field fill.
type resourceDef[T any] struct {
	store *store[T]
	// validate returns DRF-style field errors; empty means valid.
	validate func(T) fieldErrors
	// prepare fills derived read-only fields before the item is stored.
	// Called on create and update; may be nil.
	prepare func(*T, bool)
}

// mountResource registers the five conventional routes for one resource.
func mountResource[T any](r chi.Router, s *Server, base string, def resourceDef[T]) {
	r.Get(base, func(w http.ResponseWriter, req *http.Request) {
		writeList(s, w, def.store.List())
	})
	r.Get(base+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		item, ok := def.store.Get(chi.URLParam(req, "id"))
		if !ok {
			writeError(w, http.StatusNotFound, "Not found", "not_found")
			return
		}
		writeJSON(w, http.StatusOK, item)
	})
	r.Post(base, func(w http.ResponseWriter, req *http.Request) {
		var in T
		if !decodeBody(w, req, &in) {
			return
		}
		if fe := def.validate(in); len(fe) > 0 {
			writeFieldErrors(w, fe)
			return
		}
		if def.prepare != nil {
			def.prepare(&in, true)
		}
		writeJSON(w, http.StatusCreated, def.store.Create(in))
	})
	r.Put(base+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		var in T
		if !decodeBody(w, req, &in) {
			return
		}
		if fe := def.validate(in); len(fe) > 0 {
			writeFieldErrors(w, fe)
			return
		}
		if def.prepare != nil {
			def.prepare(&in, false)
		}
		item, ok := def.store.Update(chi.URLParam(req, "id"), in)
		if !ok {
			writeError(w, http.StatusNotFound, "Not found", "not_found")
			return
		}
		writeJSON(w, http.StatusOK, item)
	})
	r.Delete(base+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		if !def.store.Delete(chi.URLParam(req, "id")) {
			writeError(w, http.StatusNotFound, "Not found", "not_found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func nowStamp() string { return time.Now().UTC().Format(time.RFC3339) }
