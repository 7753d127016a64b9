// Package fixtures provides test data factories for repository and e2e tests.
//
// Usage:
//
//	f := fixtures.New(repo)
//	m := f.CreateModel(t)
//	named := f.CreateModel(t, fixtures.WithName("alpha"))
//	many := f.CreateModels(t, 5)
package fixtures

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/forgo/modelservice/internal/model"
)

// Store is the part of a model repository the factory needs
type Store interface {
	Save(ctx context.Context, m *model.Model) (*model.Model, error)
}

// Factory creates test models in a store
type Factory struct {
	store  Store
	nextID atomic.Int64
}

// New creates a new fixture factory. Generated ids start at 1.
func New(store Store) *Factory {
	return &Factory{store: store}
}

// ModelOpts customizes a created model
type ModelOpts struct {
	ID   *int64
	Name string
}

// WithID fixes the model id
func WithID(id int64) func(*ModelOpts) {
	return func(o *ModelOpts) { o.ID = &id }
}

// WithName fixes the model name
func WithName(name string) func(*ModelOpts) {
	return func(o *ModelOpts) { o.Name = name }
}

// CreateModel stores a model and fails the test on error
func (f *Factory) CreateModel(t *testing.T, opts ...func(*ModelOpts)) *model.Model {
	t.Helper()

	o := &ModelOpts{}
	for _, opt := range opts {
		opt(o)
	}

	id := f.nextID.Add(1)
	if o.ID != nil {
		id = *o.ID
	}
	name := o.Name
	if name == "" {
		name = fmt.Sprintf("model-%d", id)
	}

	saved, err := f.store.Save(context.Background(), &model.Model{ID: id, Name: name})
	if err != nil {
		t.Fatalf("fixtures: failed to create model %d: %v", id, err)
	}
	return saved
}

// CreateModels stores n models with consecutive generated ids
func (f *Factory) CreateModels(t *testing.T, n int) []*model.Model {
	t.Helper()

	out := make([]*model.Model, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.CreateModel(t))
	}
	return out
}
