package service

import (
	"context"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/forgo/modelservice/internal/model"
)

// ModelRepository defines the interface for model storage.
// Find returns nil, nil when no model has the id.
type ModelRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Find(ctx context.Context, id int64) (*model.Model, error)
	Save(ctx context.Context, m *model.Model) (*model.Model, error)
	DeleteByID(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	ListAll(ctx context.Context) ([]*model.Model, error)
	ListPage(ctx context.Context, req model.PageRequest) (model.Page[*model.Model], error)
}

// ModelService enforces model invariants before touching storage.
//
// Check-then-act sequences are not atomic: two concurrent creates for the
// same id are resolved by the repository's uniqueness constraint.
type ModelService struct {
	repo ModelRepository
}

// ModelServiceConfig holds dependencies for the model service
type ModelServiceConfig struct {
	Repo ModelRepository
}

// NewModelService creates a new model service
func NewModelService(cfg ModelServiceConfig) *ModelService {
	return &ModelService{repo: cfg.Repo}
}

// Create stores a new model. The request must carry an id that is not
// already taken; the stored record is returned as saved.
func (s *ModelService) Create(ctx context.Context, req *model.ModelRequest) (*model.Model, error) {
	if req == nil || req.ID == nil {
		return nil, ErrIDRequired
	}

	existing, err := s.repo.Find(ctx, *req.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrModelExists
	}

	m := req.ToModel()
	saved, err := s.repo.Save(ctx, &m)
	if platformerrors.GetCode(err) == platformerrors.CodeAlreadyExists {
		// lost a race with a concurrent create for the same id
		return nil, ErrModelExists
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// GetByID returns the model with the given id
func (s *ModelService) GetByID(ctx context.Context, id *int64) (*model.Model, error) {
	if id == nil {
		return nil, ErrIDRequired
	}

	m, err := s.repo.Find(ctx, *id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrModelNotFound
	}
	return m, nil
}

// DeleteByID removes the model with the given id
func (s *ModelService) DeleteByID(ctx context.Context, id *int64) error {
	if id == nil {
		return ErrIDRequired
	}

	exists, err := s.repo.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrModelNotFound
	}
	return s.repo.DeleteByID(ctx, *id)
}

// DeleteAll removes every model
func (s *ModelService) DeleteAll(ctx context.Context) error {
	return s.repo.DeleteAll(ctx)
}

// ListAll returns every model
func (s *ModelService) ListAll(ctx context.Context) ([]*model.Model, error) {
	return s.repo.ListAll(ctx)
}

// ListPage returns one page of models. A page past the end is empty, not
// an error.
func (s *ModelService) ListPage(ctx context.Context, req model.PageRequest) (model.Page[*model.Model], error) {
	return s.repo.ListPage(ctx, req.Normalize())
}
