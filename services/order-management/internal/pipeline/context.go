package pipeline

import (
	"time"

	"github.com/muhammadchandra19/exchange/pkg/util"
)

// TaskContext carries per-invocation state between tasks. It is owned by a
// single command invocation and is not safe for concurrent use.
type TaskContext struct {
	id         string
	createdAt  time.Time
	attributes map[string]any
	metadata   map[string]string
}

// NewTaskContext returns an empty context with a fresh sortable id.
func NewTaskContext() *TaskContext {
	return &TaskContext{
		id:         util.NewULID(),
		createdAt:  time.Now().UTC(),
		attributes: make(map[string]any),
		metadata:   make(map[string]string),
	}
}

// ID returns the context id.
func (c *TaskContext) ID() string {
	return c.id
}

// CreatedAt returns when the context was created.
func (c *TaskContext) CreatedAt() time.Time {
	return c.createdAt
}

// Put stores an attribute.
func (c *TaskContext) Put(key string, value any) {
	c.attributes[key] = value
}

// Get returns an attribute.
func (c *TaskContext) Get(key string) (any, bool) {
	v, ok := c.attributes[key]
	return v, ok
}

// Has reports whether an attribute is set.
func (c *TaskContext) Has(key string) bool {
	_, ok := c.attributes[key]
	return ok
}

// Remove deletes an attribute.
func (c *TaskContext) Remove(key string) {
	delete(c.attributes, key)
}

// PutMetadata stores a metadata entry. Metadata survives Reset.
func (c *TaskContext) PutMetadata(key, value string) {
	c.metadata[key] = value
}

// Metadata returns a metadata entry.
func (c *TaskContext) Metadata(key string) string {
	return c.metadata[key]
}

// Reset clears attributes and keeps metadata.
func (c *TaskContext) Reset() {
	c.attributes = make(map[string]any)
}

// Value returns the attribute stored under key when it has type V.
func Value[V any](c *TaskContext, key string) (V, bool) {
	var zero V
	raw, ok := c.attributes[key]
	if !ok {
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		return zero, false
	}
	return v, true
}
