// Package repository implements model storage.
//
// Three interchangeable implementations satisfy service.ModelRepository:
//
//   - MemoryModelRepository: a mutex-guarded map, the default
//   - SurrealModelRepository: SurrealQL over a database.Database
//   - SQLModelRepository: database/sql with the pgx or sqlite driver
//
// # Conventions
//
//   - Find returns nil, nil when no record has the id
//   - Save rejects an existing id with a CodeAlreadyExists platform error
//   - ListPage orders by id unless the request names a sort; unknown sort
//     properties are rejected with CodeInvalidInput
//   - Backend faults are wrapped with CodeDatabase
//
// # Example Usage
//
//	db, err := database.OpenSQL(ctx, database.DialectSQLite, "file:models.db")
//	repo, err := NewSQLModelRepository(ctx, db, database.DialectSQLite)
//	page, err := repo.ListPage(ctx, model.PageRequest{Page: 0, Size: 20})
package repository
