package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/forgo/modelservice/internal/model"
)

// MemoryModelRepository keeps models in process memory. It is the default
// store and the one used by tests.
type MemoryModelRepository struct {
	mu     sync.RWMutex
	models map[int64]model.Model
}

// NewMemoryModelRepository creates an empty in-memory repository
func NewMemoryModelRepository() *MemoryModelRepository {
	return &MemoryModelRepository{models: make(map[int64]model.Model)}
}

// Exists reports whether a model with id is stored
func (r *MemoryModelRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.models[id]
	return ok, nil
}

// Find returns a copy of the model with id, or nil when absent
func (r *MemoryModelRepository) Find(ctx context.Context, id int64) (*model.Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.models[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// Save stores m. An id that is already stored is rejected.
func (r *MemoryModelRepository) Save(ctx context.Context, m *model.Model) (*model.Model, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.models[m.ID]; ok {
		return nil, platformerrors.New(platformerrors.CodeAlreadyExists,
			fmt.Sprintf("model store: save: id %d already exists", m.ID))
	}
	r.models[m.ID] = *m
	saved := *m
	return &saved, nil
}

// DeleteByID removes the model with id; a missing id is not an error
func (r *MemoryModelRepository) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.models, id)
	return nil
}

// DeleteAll removes every model
func (r *MemoryModelRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.models)
	return nil
}

// Ping always succeeds
func (r *MemoryModelRepository) Ping(ctx context.Context) error {
	return nil
}

// ListAll returns every model ordered by id
func (r *MemoryModelRepository) ListAll(ctx context.Context) ([]*model.Model, error) {
	return r.sorted(nil), nil
}

// ListPage returns one page ordered by req.Sort, or by id when unsorted
func (r *MemoryModelRepository) ListPage(ctx context.Context, req model.PageRequest) (model.Page[*model.Model], error) {
	if err := validateSort(req.Sort); err != nil {
		return model.Page[*model.Model]{}, err
	}

	all := r.sorted(req.Sort)
	total := int64(len(all))

	start := min(req.Offset(), total)
	end := min(start+int64(req.Size), total)
	return model.NewPage(all[start:end], req, total), nil
}

func (r *MemoryModelRepository) sorted(orders []model.SortOrder) []*model.Model {
	r.mu.RLock()
	out := make([]*model.Model, 0, len(r.models))
	for _, m := range r.models {
		m := m
		out = append(out, &m)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b *model.Model) int {
		for _, o := range orders {
			var c int
			switch o.Property {
			case "name":
				c = cmp.Compare(a.Name, b.Name)
			default:
				c = cmp.Compare(a.ID, b.ID)
			}
			if o.Direction == model.SortDesc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
