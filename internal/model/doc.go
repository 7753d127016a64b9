// Package model defines the domain types shared by every layer of the
// model service.
//
// # Types
//
//   - Model: the managed record, identified by a caller-supplied id
//   - ModelRequest: the create payload, validated before the service runs
//   - PageRequest / Page: pagination input and output
//   - Failure / ErrorKind: classified failures
//   - ErrorEnvelope: the JSON body of every failed request
//
// # Failures
//
// Every failure that should reach a client as something other than a 500
// is a *Failure with a kind:
//
//	model.NewFailure(model.KindNotFound, "No model with given id found.")
//
// KindOf looks through wrapped errors, so a Failure keeps its kind after
// fmt.Errorf("...: %w", err).
//
// # Pagination
//
// Page numbers are zero-based. Sizes are clamped to 1..2000 and default to
// 20. Sorting follows the Spring Data query form:
//
//	?page=0&size=50&sort=name,desc&sort=id
package model
