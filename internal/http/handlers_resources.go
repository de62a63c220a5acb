package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/dentnotion/dentnotion/internal/api"
	"github.com/dentnotion/dentnotion/internal/service"
)

// ResourceClient is the conventional five-operation client every clinic
// resource exposes. The backend adapters satisfy it.
type ResourceClient[T any] interface {
	List(ctx context.Context) (api.List[T], error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, in T) (T, error)
	Update(ctx context.Context, id string, in T) (T, error)
	Delete(ctx context.Context, id string) error
}

// ResourceHandlers proxies the conventional operations of one resource to the
// backend, translating backend failures into gateway responses.
type ResourceHandlers[T any] struct {
	client ResourceClient[T]
}

// NewResourceHandlers constructs handlers over one resource client.
func NewResourceHandlers[T any](client ResourceClient[T]) *ResourceHandlers[T] {
	return &ResourceHandlers[T]{client: client}
}

// List returns the normalized collection: always a count and a results array,
// regardless of how the backend shaped its response.
func (h *ResourceHandlers[T]) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.client.List(r.Context())
	if err != nil {
		WriteAPIError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// Get returns one item by id.
func (h *ResourceHandlers[T]) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.client.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		WriteAPIError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// Create forwards a new item to the backend.
func (h *ResourceHandlers[T]) Create(w http.ResponseWriter, r *http.Request) {
	var in T
	if !DecodeJSON(w, r, &in) {
		return
	}
	item, err := h.client.Create(r.Context(), in)
	if err != nil {
		WriteAPIError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, item)
}

// Update replaces one item by id.
func (h *ResourceHandlers[T]) Update(w http.ResponseWriter, r *http.Request) {
	var in T
	if !DecodeJSON(w, r, &in) {
		return
	}
	item, err := h.client.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		WriteAPIError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// Delete removes one item by id.
func (h *ResourceHandlers[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.client.Delete(r.Context(), r.PathValue("id")); err != nil {
		WriteAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

type bulkDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// BulkDelete removes a batch of items one by one, stopping at the first
// failure. On success the response reports how many deletions completed.
func (h *ResourceHandlers[T]) BulkDelete(w http.ResponseWriter, r *http.Request) {
	var req bulkDeleteRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.IDs) == 0 {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "empty_batch", Err: errors.New("no ids given")})
		return
	}
	deleted, err := service.DeleteAll(r.Context(), h.client.Delete, req.IDs)
	if err != nil {
		WriteAPIError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, bulkDeleteResponse{Deleted: deleted})
}
