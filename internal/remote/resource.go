package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	apperrors "erp-portal/pkg/errors"
)

// Resource is a standard collection endpoint: list, get, create, update,
// delete under one path
type Resource[T Record] struct {
	client *Client
	name   string
	path   string
}

// NewResource binds a collection at path, such as "/currencies/"
func NewResource[T Record](client *Client, name, path string) *Resource[T] {
	return &Resource[T]{client: client, name: name, path: path}
}

// Name is the resource name used in logs and permission keys
func (r *Resource[T]) Name() string {
	return r.name
}

// List returns all records, de-duplicated by id
func (r *Resource[T]) List(ctx context.Context, query url.Values) ([]T, error) {
	var items []T
	if err := r.client.Do(ctx, http.MethodGet, r.path, query, nil, &items); err != nil {
		return nil, err
	}
	return DedupeByID(items), nil
}

func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	if err := r.checkID(id); err != nil {
		return item, err
	}
	err := r.client.Do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &item)
	return item, err
}

func (r *Resource[T]) Create(ctx context.Context, item T) (T, error) {
	var created T
	err := r.client.Do(ctx, http.MethodPost, r.path, nil, item, &created)
	return created, err
}

// Update replaces the record with the given id
func (r *Resource[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var updated T
	if err := r.checkID(id); err != nil {
		return updated, err
	}
	err := r.client.Do(ctx, http.MethodPut, r.itemPath(id), nil, item, &updated)
	return updated, err
}

func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if err := r.checkID(id); err != nil {
		return err
	}
	return r.client.Do(ctx, http.MethodDelete, r.itemPath(id), nil, nil, nil)
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + url.PathEscape(id) + "/"
}

func (r *Resource[T]) checkID(id string) error {
	if id == "" {
		return apperrors.BadRequest(fmt.Sprintf(errEmptyIDFmt, r.name))
	}
	return nil
}
