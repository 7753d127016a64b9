package repository

import (
	"context"
	"testing"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgo/modelservice/internal/database"
	"github.com/forgo/modelservice/internal/model"
	"github.com/forgo/modelservice/internal/testing/testdb"
)

func TestSQLModelRepository_BindPostgresPlaceholders(t *testing.T) {
	r := &SQLModelRepository{dialect: database.DialectPostgres}
	assert.Equal(t, "SELECT id FROM models WHERE id = $1 LIMIT $2", r.bind("SELECT id FROM models WHERE id = ? LIMIT ?"))

	r.dialect = database.DialectSQLite
	assert.Equal(t, "WHERE id = ?", r.bind("WHERE id = ?"))
}

func TestSQLOrderBy(t *testing.T) {
	assert.Equal(t, "id ASC", sqlOrderBy(nil))
	assert.Equal(t, "name DESC, id ASC", sqlOrderBy([]model.SortOrder{{Property: "name", Direction: model.SortDesc}}))
}

func TestSQLModelRepository_DuplicateSaveIsTagged(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLModelRepository(ctx, testdb.SQLite(t), database.DialectSQLite)
	require.NoError(t, err)

	_, err = repo.Save(ctx, &model.Model{ID: 1, Name: "a"})
	require.NoError(t, err)

	_, err = repo.Save(ctx, &model.Model{ID: 1, Name: "b"})
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeAlreadyExists, platformerrors.GetCode(err))
}

func TestSQLModelRepository_ClosedDatabaseIsStoreFault(t *testing.T) {
	ctx := context.Background()
	db := testdb.SQLite(t)
	repo, err := NewSQLModelRepository(ctx, db, database.DialectSQLite)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = repo.Find(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, platformerrors.CodeDatabase, platformerrors.GetCode(err))
	assert.Equal(t, model.KindUnexpected, model.KindOf(err))
}

func TestSurrealOrderBy(t *testing.T) {
	assert.Equal(t, "model_id ASC", surrealOrderBy(nil))
	assert.Equal(t, "name ASC, model_id ASC", surrealOrderBy([]model.SortOrder{{Property: "name", Direction: model.SortAsc}}))
}

func TestHelpers_ExtractCount(t *testing.T) {
	results := []interface{}{
		map[string]interface{}{"status": "OK", "result": []interface{}{map[string]interface{}{"count": uint64(4)}}},
		map[string]interface{}{"status": "OK", "result": []interface{}{}},
	}
	assert.Equal(t, int64(4), extractCount(statementRows(results, 0)))
	assert.Equal(t, int64(0), extractCount(statementRows(results, 1)))
	assert.Nil(t, statementRows(results, 5))
}

func TestHelpers_ParseModel(t *testing.T) {
	m := parseModel(map[string]interface{}{"model_id": int64(9), "name": "nine"})
	assert.Equal(t, &model.Model{ID: 9, Name: "nine"}, m)

	m = parseModel(map[string]interface{}{"model_id": float64(3), "name": "three"})
	assert.Equal(t, int64(3), m.ID)
}
