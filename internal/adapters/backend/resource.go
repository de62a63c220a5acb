package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dentnotion/dentnotion/internal/api"
)

// resource implements the five conventional operations every clinic resource
// shares. Concrete clients embed it with their endpoint path and label; only
// X-rays add operations beyond these.
type resource[T any] struct {
	c *api.Client
	// path is the collection path with trailing slash, e.g. "/patients/".
	path string
	// label names the resource in failure messages, e.g. "patient".
	label string
}

func (r resource[T]) List(ctx context.Context) (api.List[T], error) {
	return r.list(ctx, nil)
}

func (r resource[T]) list(ctx context.Context, query url.Values) (api.List[T], error) {
	raw, err := r.c.Do(ctx, api.Request{
		Method:    http.MethodGet,
		Path:      r.path,
		Query:     query,
		ErrPrefix: "Failed to fetch " + r.label + "s",
	})
	if err != nil {
		return api.List[T]{Results: []T{}}, err
	}
	return api.DecodeList[T](raw)
}

func (r resource[T]) Get(ctx context.Context, id string) (T, error) {
	var out T
	raw, err := r.c.Get(ctx, r.path+id+"/", "Failed to fetch "+r.label)
	if err != nil {
		return out, err
	}
	err = api.DecodeInto(raw, &out)
	return out, err
}

func (r resource[T]) Create(ctx context.Context, in T) (T, error) {
	var out T
	raw, err := r.c.Do(ctx, api.Request{
		Method:    http.MethodPost,
		Path:      r.path,
		Body:      in,
		ErrPrefix: "Failed to create " + r.label,
	})
	if err != nil {
		return out, err
	}
	err = api.DecodeInto(raw, &out)
	return out, err
}

func (r resource[T]) Update(ctx context.Context, id string, in T) (T, error) {
	var out T
	raw, err := r.c.Do(ctx, api.Request{
		Method:    http.MethodPut,
		Path:      r.path + id + "/",
		Body:      in,
		ErrPrefix: "Failed to update " + r.label,
	})
	if err != nil {
		return out, err
	}
	err = api.DecodeInto(raw, &out)
	return out, err
}

func (r resource[T]) Delete(ctx context.Context, id string) error {
	return r.c.Delete(ctx, r.path+id+"/", "Failed to delete "+r.label)
}
