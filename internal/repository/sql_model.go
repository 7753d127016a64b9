package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/forgo/modelservice/internal/database"
	"github.com/forgo/modelservice/internal/model"
)

// SQLModelRepository stores models in a `models` table on PostgreSQL or SQLite
type SQLModelRepository struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLModelRepository creates the repository and makes sure the table exists
func NewSQLModelRepository(ctx context.Context, db *sql.DB, dialect database.Dialect) (*SQLModelRepository, error) {
	r := &SQLModelRepository{db: db, dialect: dialect}
	if err := r.createTables(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *SQLModelRepository) createTables(ctx context.Context) error {
	stmt := `CREATE TABLE IF NOT EXISTS models (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL
	)`
	if _, err := r.db.ExecContext(ctx, stmt); err != nil {
		return storeError(err, "create tables")
	}
	return nil
}

func (r *SQLModelRepository) bind(query string) string {
	if r.dialect != database.DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString(r.dialect.Placeholder(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Exists reports whether a row exists for id
func (r *SQLModelRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, r.bind(`SELECT EXISTS (SELECT 1 FROM models WHERE id = ?)`), id).Scan(&exists)
	if err != nil {
		return false, storeError(err, "exists")
	}
	return exists, nil
}

// Find retrieves a model by id, returning nil when absent
func (r *SQLModelRepository) Find(ctx context.Context, id int64) (*model.Model, error) {
	var m model.Model
	err := r.db.QueryRowContext(ctx, r.bind(`SELECT id, name FROM models WHERE id = ?`), id).Scan(&m.ID, &m.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeError(err, "find")
	}
	return &m, nil
}

// Save inserts the model. A duplicate id violates the primary key.
func (r *SQLModelRepository) Save(ctx context.Context, m *model.Model) (*model.Model, error) {
	_, err := r.db.ExecContext(ctx, r.bind(`INSERT INTO models (id, name) VALUES (?, ?)`), m.ID, m.Name)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, platformerrors.Wrap(err, platformerrors.CodeAlreadyExists, "model store: save")
		}
		return nil, storeError(err, "save")
	}
	saved := *m
	return &saved, nil
}

// DeleteByID deletes the row for id
func (r *SQLModelRepository) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, r.bind(`DELETE FROM models WHERE id = ?`), id)
	return storeError(err, "delete")
}

// DeleteAll deletes every row
func (r *SQLModelRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM models`)
	return storeError(err, "delete all")
}

// Ping checks the connection
func (r *SQLModelRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListAll returns every model ordered by id
func (r *SQLModelRepository) ListAll(ctx context.Context) ([]*model.Model, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM models ORDER BY id ASC`)
	if err != nil {
		return nil, storeError(err, "list")
	}
	defer rows.Close()
	return scanModels(rows)
}

// ListPage counts all rows and selects one window
func (r *SQLModelRepository) ListPage(ctx context.Context, req model.PageRequest) (model.Page[*model.Model], error) {
	if err := validateSort(req.Sort); err != nil {
		return model.Page[*model.Model]{}, err
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM models`).Scan(&total); err != nil {
		return model.Page[*model.Model]{}, storeError(err, "count")
	}

	query := fmt.Sprintf(`SELECT id, name FROM models ORDER BY %s LIMIT ? OFFSET ?`, sqlOrderBy(req.Sort))
	rows, err := r.db.QueryContext(ctx, r.bind(query), req.Size, req.Offset())
	if err != nil {
		return model.Page[*model.Model]{}, storeError(err, "list page")
	}
	defer rows.Close()

	content, err := scanModels(rows)
	if err != nil {
		return model.Page[*model.Model]{}, err
	}
	return model.NewPage(content, req, total), nil
}

// sqlOrderBy builds an ORDER BY clause from validated sort orders only.
func sqlOrderBy(orders []model.SortOrder) string {
	parts := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		parts = append(parts, sortColumns[o.Property]+" "+string(o.Direction))
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", ")
}

func scanModels(rows *sql.Rows) ([]*model.Model, error) {
	out := make([]*model.Model, 0)
	for rows.Next() {
		var m model.Model
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, storeError(err, "scan")
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeError(err, "rows")
	}
	return out, nil
}
