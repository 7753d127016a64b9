package service

import "github.com/forgo/modelservice/internal/model"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable. Each one carries a
// model.ErrorKind that decides how it is translated at the HTTP boundary.

// ===== Model Errors =====
var (
	ErrIDRequired    = model.NewFailure(model.KindInvalidArgument, "id is required.")
	ErrModelExists   = model.NewFailure(model.KindConflict, "Model with same id exists.")
	ErrModelNotFound = model.NewFailure(model.KindNotFound, "No model with given id found.")
)
