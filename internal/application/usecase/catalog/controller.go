package catalog

import (
	"context"
	"fmt"

	"github.com/melevanoronha/admin-console/internal/domain/catalog"
	"github.com/melevanoronha/admin-console/pkg/apperror"
)

// Snapshot is the JSON view of a container's state.
type Snapshot struct {
	Entity          string               `json:"entity"`
	Label           string               `json:"label"`
	Items           any                  `json:"items"`
	Loading         bool                 `json:"loading"`
	Filter          string               `json:"filter,omitempty"`
	Search          string               `json:"search,omitempty"`
	FormOpen        bool                 `json:"formOpen"`
	Editing         any                  `json:"editing,omitempty"`
	Selected        any                  `json:"selected,omitempty"`
	Values          map[string][]string  `json:"values"`
	Attachments     map[string][]string  `json:"attachments,omitempty"`
	FieldErrors     apperror.FieldErrors `json:"fieldErrors,omitempty"`
	ImageRefreshKey int                  `json:"imageRefreshKey"`
}

// Controller is the entity-agnostic face of a Container, used for routing by entity name.
type Controller interface {
	Schema() catalog.Schema
	Snapshot() Snapshot
	Load(ctx context.Context) error
	SetFilter(ctx context.Context, filter string) error
	Search(term string)
	ShowForm()
	Edit(ctx context.Context, id catalog.ID) error
	CloseForm()
	Submit(ctx context.Context, values catalog.FormValues) error
	ViewDetails(ctx context.Context, id catalog.ID) error
	CloseDetails()
	Delete(ctx context.Context, id catalog.ID) error
	MediaLinks(ctx context.Context, id catalog.ID) (catalog.MediaLinks, error)
}

// Registry looks controllers up by entity name, keeping registration order.
type Registry struct {
	byName map[string]Controller
	names  []string
}

func NewRegistry(controllers ...Controller) *Registry {
	r := &Registry{byName: make(map[string]Controller, len(controllers))}
	for _, c := range controllers {
		name := c.Schema().Name
		if _, dup := r.byName[name]; dup {
			continue
		}
		r.byName[name] = c
		r.names = append(r.names, name)
	}
	return r
}

func (r *Registry) Get(name string) (Controller, bool) {
	c, ok := r.byName[name]
	return c, ok
}

func (r *Registry) Names() []string {
	return append([]string{}, r.names...)
}

// MediaLinks resolves a record's media for the worker's probe.
func (r *Registry) MediaLinks(ctx context.Context, entity string, id catalog.ID) (catalog.MediaLinks, error) {
	c, ok := r.byName[entity]
	if !ok {
		return catalog.MediaLinks{}, fmt.Errorf("unknown entity %q", entity)
	}
	return c.MediaLinks(ctx, id)
}

var _ Controller = (*Container[catalog.Dica])(nil)
