package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/melevanoronha/admin-console/internal/application/service"
	"github.com/melevanoronha/admin-console/internal/domain/catalog"
	"github.com/melevanoronha/admin-console/pkg/apperror"
	"github.com/melevanoronha/admin-console/pkg/logger"
)

const fixFormMessage = "please fix the form errors"

var defaultFieldToasts = []catalog.FieldToast{catalog.WhatsAppToast}

// Gateway is the backend surface of one entity.
type Gateway[T catalog.Entity] interface {
	List(ctx context.Context, filter string) ([]T, error)
	Get(ctx context.Context, id catalog.ID) (*T, error)
	Create(ctx context.Context, body catalog.Body) (*T, error)
	Update(ctx context.Context, id catalog.ID, body catalog.Body) (*T, error)
	Delete(ctx context.Context, id catalog.ID) error
}

type state[T catalog.Entity] struct {
	all             []T
	items           []T
	loading         bool
	filter          string
	search          string
	formOpen        bool
	editing         *T
	selected        *T
	values          catalog.FormValues
	fieldErrors     apperror.FieldErrors
	imageRefreshKey int
}

// Container holds the list, form and detail state of one entity screen.
type Container[T catalog.Entity] struct {
	schema    catalog.Schema
	gateway   Gateway[T]
	notifier  service.Notifier
	publisher service.EventPublisher
	logger    logger.Logger

	mu sync.Mutex
	st state[T]
}

func NewContainer[T catalog.Entity](schema catalog.Schema, gw Gateway[T], notifier service.Notifier, publisher service.EventPublisher, log logger.Logger) *Container[T] {
	return &Container[T]{
		schema:    schema,
		gateway:   gw,
		notifier:  notifier,
		publisher: publisher,
		logger:    log.With(zap.String("entity", schema.Name)),
		st:        state[T]{values: schema.Blank()},
	}
}

func (c *Container[T]) Schema() catalog.Schema { return c.schema }

// Load refreshes the list using the current category filter.
func (c *Container[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.st.loading = true
	filter := c.st.filter
	c.mu.Unlock()

	items, err := c.gateway.List(ctx, filter)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.loading = false
	if err != nil {
		c.notifier.Error(apperror.Message(err, c.failure("loading", "list")))
		return err
	}
	c.st.all = items
	c.applySearch()
	return nil
}

// SetFilter changes the server-side category filter and reloads.
func (c *Container[T]) SetFilter(ctx context.Context, filter string) error {
	c.mu.Lock()
	c.st.filter = filter
	c.mu.Unlock()
	return c.Load(ctx)
}

// Search filters the loaded list locally. Entities without search terms ignore it.
func (c *Container[T]) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.search = term
	c.applySearch()
}

func (c *Container[T]) applySearch() {
	term := strings.ToLower(strings.TrimSpace(c.st.search))
	if term == "" {
		c.st.items = c.st.all
		return
	}
	filtered := make([]T, 0, len(c.st.all))
	for _, item := range c.st.all {
		s, ok := any(item).(catalog.Searchable)
		if !ok {
			filtered = append(filtered, item)
			continue
		}
		for _, field := range s.SearchTerms() {
			if strings.Contains(strings.ToLower(field), term) {
				filtered = append(filtered, item)
				break
			}
		}
	}
	c.st.items = filtered
}

// ShowForm opens an empty create form.
func (c *Container[T]) ShowForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.editing = nil
	c.st.fieldErrors = nil
	c.st.values = c.schema.Blank()
	c.st.formOpen = true
}

// Edit opens the form pre-filled with the record, fetching it when it is not in the list.
func (c *Container[T]) Edit(ctx context.Context, id catalog.ID) error {
	rec, ok := c.find(id)
	if !ok {
		fetched, err := c.gateway.Get(ctx, id)
		if err != nil {
			c.notifier.Error(apperror.Message(err, c.failure("loading", "")))
			return err
		}
		if fetched == nil {
			return apperror.NewHTTP(0, c.failure("loading", ""))
		}
		rec = *fetched
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.editing = &rec
	c.st.fieldErrors = nil
	c.st.values = rec.FormValues()
	c.st.formOpen = true
	return nil
}

func (c *Container[T]) CloseForm() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.formOpen = false
	c.st.fieldErrors = nil
	c.st.editing = nil
	c.st.values = c.schema.Blank()
}

// Submit creates or updates depending on whether a record is being edited.
func (c *Container[T]) Submit(ctx context.Context, values catalog.FormValues) error {
	c.mu.Lock()
	c.st.values = values
	editing := c.st.editing
	c.st.loading = true
	c.mu.Unlock()

	creating := editing == nil
	if fields := c.schema.Validate(values, creating); fields != nil {
		err := apperror.NewValidation(0, fixFormMessage, fields)
		c.rejectSubmit(err)
		return err
	}

	body := c.schema.Body(values)
	var (
		saved *T
		err   error
		id    catalog.ID
	)
	if creating {
		saved, err = c.gateway.Create(ctx, body)
	} else {
		id = (*editing).EntityID()
		saved, err = c.gateway.Update(ctx, id, body)
	}
	if err != nil {
		c.rejectSubmit(err)
		return err
	}
	if saved != nil && (*saved).EntityID() != "" {
		id = (*saved).EntityID()
	}

	eventType, verb := service.ContentUpdated, "updated"
	if creating {
		eventType, verb = service.ContentCreated, "created"
	}
	c.notifier.Success(fmt.Sprintf("%s %s successfully", c.schema.Label, verb))

	c.mu.Lock()
	c.st.values = c.schema.Blank()
	c.st.formOpen = false
	c.st.editing = nil
	c.st.selected = nil
	c.st.imageRefreshKey++
	c.st.fieldErrors = nil
	c.mu.Unlock()

	c.publish(ctx, eventType, id)
	return c.Load(ctx)
}

func (c *Container[T]) rejectSubmit(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.loading = false

	if fields, ok := apperror.Fields(err); ok && len(fields) > 0 {
		c.st.fieldErrors = fields
		c.notifier.Error(c.fieldToast(fields))
		return
	}

	c.st.fieldErrors = nil
	c.notifier.Error(apperror.Message(err, c.failure("saving", "")))
}

// ViewDetails shows a record from the loaded list, fetching it only when the list does not have it.
func (c *Container[T]) ViewDetails(ctx context.Context, id catalog.ID) error {
	if rec, ok := c.find(id); ok {
		c.mu.Lock()
		c.st.selected = &rec
		c.mu.Unlock()
		return nil
	}

	c.setLoading(true)
	rec, err := c.gateway.Get(ctx, id)
	c.setLoading(false)
	if err != nil {
		c.notifier.Error(apperror.Message(err, c.failure("fetching", "details")))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.selected = rec
	return nil
}

func (c *Container[T]) CloseDetails() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.st.selected = nil
}

func (c *Container[T]) Delete(ctx context.Context, id catalog.ID) error {
	if id == "" {
		return nil
	}
	c.setLoading(true)
	if err := c.gateway.Delete(ctx, id); err != nil {
		c.setLoading(false)
		c.notifier.Error(apperror.Message(err, c.failure("deleting", "")))
		return err
	}
	c.notifier.Success(fmt.Sprintf("%s deleted successfully", c.schema.Label))
	c.publish(ctx, service.ContentDeleted, id)
	return c.Load(ctx)
}

// MediaLinks returns the media referenced by the stored record.
func (c *Container[T]) MediaLinks(ctx context.Context, id catalog.ID) (catalog.MediaLinks, error) {
	rec, err := c.gateway.Get(ctx, id)
	if err != nil {
		return catalog.MediaLinks{}, err
	}
	if rec == nil {
		return catalog.MediaLinks{}, nil
	}
	return (*rec).MediaLinks(), nil
}

func (c *Container[T]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		Entity:          c.schema.Name,
		Label:           c.schema.Label,
		Items:           append([]T{}, c.st.items...),
		Loading:         c.st.loading,
		Filter:          c.st.filter,
		Search:          c.st.search,
		FormOpen:        c.st.formOpen,
		Values:          copyFields(c.st.values.Fields),
		Attachments:     attachmentNames(c.st.values.Files),
		FieldErrors:     c.st.fieldErrors,
		ImageRefreshKey: c.st.imageRefreshKey,
	}
	if c.st.editing != nil {
		snap.Editing = *c.st.editing
	}
	if c.st.selected != nil {
		snap.Selected = *c.st.selected
	}
	return snap
}

// fieldToast picks the first field with its own toast, falling back to the generic form message.
func (c *Container[T]) fieldToast(fields apperror.FieldErrors) string {
	toasts := c.schema.FieldToasts
	if toasts == nil {
		toasts = defaultFieldToasts
	}
	for _, ft := range toasts {
		if msg, ok := fields[ft.Field]; ok {
			return ft.Prefix + msg
		}
	}
	return fixFormMessage
}

func (c *Container[T]) find(id catalog.ID) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.st.all {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *Container[T]) setLoading(v bool) {
	c.mu.Lock()
	c.st.loading = v
	c.mu.Unlock()
}

func (c *Container[T]) publish(ctx context.Context, eventType service.ContentEventType, id catalog.ID) {
	if c.publisher == nil {
		return
	}
	event := service.ContentEvent{
		EventType:  eventType,
		Entity:     c.schema.Name,
		ID:         id.String(),
		OccurredAt: time.Now().UTC(),
	}
	if err := c.publisher.PublishContentEvent(ctx, event); err != nil {
		c.logger.Warn("Failed to publish content event", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}

func (c *Container[T]) failure(verb, suffix string) string {
	msg := fmt.Sprintf("error %s %s", verb, strings.ToLower(c.schema.Label))
	if suffix != "" {
		msg += " " + suffix
	}
	return msg
}

func copyFields(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for k, v := range in {
		out[k] = append([]string{}, v...)
	}
	return out
}

func attachmentNames(files map[string][]catalog.File) map[string][]string {
	if len(files) == 0 {
		return nil
	}
	out := make(map[string][]string, len(files))
	for k, list := range files {
		for _, f := range list {
			out[k] = append(out[k], f.Name)
		}
	}
	return out
}
