package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/forgo/modelservice/internal/database"
	"github.com/forgo/modelservice/internal/model"
)

// surrealSortFields maps sortable properties to record fields.
var surrealSortFields = map[string]string{
	"id":   "model_id",
	"name": "name",
}

// SurrealModelRepository stores models as `model:<id>` records in SurrealDB
type SurrealModelRepository struct {
	db database.Database
}

// NewSurrealModelRepository creates a new SurrealDB-backed repository
func NewSurrealModelRepository(db database.Database) *SurrealModelRepository {
	return &SurrealModelRepository{db: db}
}

// Exists reports whether a model record exists for id
func (r *SurrealModelRepository) Exists(ctx context.Context, id int64) (bool, error) {
	m, err := r.Find(ctx, id)
	if err != nil {
		return false, err
	}
	return m != nil, nil
}

// Find retrieves a model by id, returning nil when absent
func (r *SurrealModelRepository) Find(ctx context.Context, id int64) (*model.Model, error) {
	query := `SELECT model_id, name FROM type::thing("model", $id)`
	vars := map[string]interface{}{"id": id}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, storeError(err, "find")
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, nil
	}
	return parseModel(data), nil
}

// Save creates the model record. Creating an id that already exists fails.
func (r *SurrealModelRepository) Save(ctx context.Context, m *model.Model) (*model.Model, error) {
	query := `
		CREATE type::thing("model", $id) CONTENT {
			model_id: $id,
			name: $name
		}
	`
	vars := map[string]interface{}{
		"id":   m.ID,
		"name": m.Name,
	}

	if err := r.db.Execute(ctx, query, vars); err != nil {
		if isUniqueConstraintError(err) {
			return nil, platformerrors.Wrap(err, platformerrors.CodeAlreadyExists, "model store: save")
		}
		return nil, storeError(err, "save")
	}

	saved := *m
	return &saved, nil
}

// DeleteByID deletes the model record for id
func (r *SurrealModelRepository) DeleteByID(ctx context.Context, id int64) error {
	query := `DELETE type::thing("model", $id)`
	return storeError(r.db.Execute(ctx, query, map[string]interface{}{"id": id}), "delete")
}

// DeleteAll deletes every model record
func (r *SurrealModelRepository) DeleteAll(ctx context.Context) error {
	return storeError(r.db.Execute(ctx, `DELETE model`, nil), "delete all")
}

// Ping checks the underlying connection
func (r *SurrealModelRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// ListAll returns every model ordered by id
func (r *SurrealModelRepository) ListAll(ctx context.Context) ([]*model.Model, error) {
	results, err := r.db.Query(ctx, `SELECT model_id, name FROM model ORDER BY model_id ASC`, nil)
	if err != nil {
		return nil, storeError(err, "list")
	}
	return parseModels(statementRows(results, 0)), nil
}

// ListPage counts all records and selects one window in a single round trip
func (r *SurrealModelRepository) ListPage(ctx context.Context, req model.PageRequest) (model.Page[*model.Model], error) {
	if err := validateSort(req.Sort); err != nil {
		return model.Page[*model.Model]{}, err
	}

	query := fmt.Sprintf(`
		SELECT count() AS count FROM model GROUP ALL;
		SELECT model_id, name FROM model ORDER BY %s LIMIT $limit START $start;
	`, surrealOrderBy(req.Sort))
	vars := map[string]interface{}{
		"limit": req.Size,
		"start": req.Offset(),
	}

	results, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return model.Page[*model.Model]{}, storeError(err, "list page")
	}

	total := extractCount(statementRows(results, 0))
	content := parseModels(statementRows(results, 1))
	return model.NewPage(content, req, total), nil
}

func surrealOrderBy(orders []model.SortOrder) string {
	parts := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		parts = append(parts, surrealSortFields[o.Property]+" "+string(o.Direction))
	}
	parts = append(parts, "model_id ASC")
	return strings.Join(parts, ", ")
}

func parseModels(rows []interface{}) []*model.Model {
	out := make([]*model.Model, 0, len(rows))
	for _, row := range rows {
		if data, ok := row.(map[string]interface{}); ok {
			out = append(out, parseModel(data))
		}
	}
	return out
}

func parseModel(data map[string]interface{}) *model.Model {
	return &model.Model{
		ID:   getInt64(data, "model_id"),
		Name: getString(data, "name"),
	}
}
