// Package service implements the business logic layer for the model service.
//
// # Service Pattern
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods enforce invariants before any write reaches storage
//   - Errors are returned as sentinel failures from errors.go
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// The service defines the repository contract it needs. Memory, SurrealDB
// and SQL implementations live in the repository package.
//
// # Example Usage
//
//	svc := NewModelService(ModelServiceConfig{Repo: repo})
//	m, err := svc.Create(ctx, &model.ModelRequest{ID: &id, Name: &name})
//	if errors.Is(err, ErrModelExists) {
//	    // id already taken
//	}
package service
