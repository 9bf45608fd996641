package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/melevanoronha/admin-console/internal/domain/catalog"
)

// Resource is the REST gateway for one catalog entity.
type Resource[T any] struct {
	client *Client
	schema catalog.Schema
}

func NewResource[T any](c *Client, schema catalog.Schema) *Resource[T] {
	return &Resource[T]{client: c, schema: schema}
}

func (r *Resource[T]) Schema() catalog.Schema { return r.schema }

func (r *Resource[T]) List(ctx context.Context, filter string) ([]T, error) {
	var items []T
	err := r.client.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         r.schema.Endpoint,
		Query:        r.schema.ListQuery(filter),
		DefaultError: r.failure("loading"),
	}, &items)
	return items, err
}

func (r *Resource[T]) Get(ctx context.Context, id catalog.ID) (*T, error) {
	var item *T
	err := r.client.Do(ctx, Request{
		Method:       http.MethodGet,
		Path:         r.schema.ItemPath(id),
		DefaultError: r.failure("loading"),
	}, &item)
	return item, err
}

// Create returns the stored record, or nil when the backend answers without a body.
func (r *Resource[T]) Create(ctx context.Context, body catalog.Body) (*T, error) {
	var item *T
	err := r.client.Do(ctx, r.withBody(Request{
		Method:       http.MethodPost,
		Path:         r.schema.Endpoint,
		DefaultError: r.failure("creating"),
	}, body), &item)
	return item, err
}

func (r *Resource[T]) Update(ctx context.Context, id catalog.ID, body catalog.Body) (*T, error) {
	var item *T
	err := r.client.Do(ctx, r.withBody(Request{
		Method:       http.MethodPut,
		Path:         r.schema.ItemPath(id),
		DefaultError: r.failure("updating"),
	}, body), &item)
	return item, err
}

func (r *Resource[T]) Delete(ctx context.Context, id catalog.ID) error {
	return r.client.Do(ctx, Request{
		Method:       http.MethodDelete,
		Path:         r.schema.ItemPath(id),
		DefaultError: r.failure("deleting"),
	}, nil)
}

func (r *Resource[T]) withBody(req Request, body catalog.Body) Request {
	if body.Form != nil {
		req.Form = body.Form
	} else if body.JSON != nil {
		req.JSON = body.JSON
	}
	return req
}

func (r *Resource[T]) failure(verb string) string {
	return fmt.Sprintf("error %s %s", verb, strings.ToLower(r.schema.Label))
}
