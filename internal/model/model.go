package model

import "strings"

// Model is the only managed resource: a caller-identified name record.
type Model struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ModelRequest is the create payload. Both fields are pointers so that an
// omitted field can be told apart from a zero value.
type ModelRequest struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name"`
}

// Validate checks the create payload. Violations are reported in field
// declaration order: id first, then name.
func (r *ModelRequest) Validate() []FieldError {
	var errors []FieldError

	if r.ID == nil {
		errors = append(errors, FieldError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		errors = append(errors, FieldError{
			Field:   "name",
			Message: "name is required",
		})
	}

	return errors
}

// ToModel converts the payload into a Model. Absent fields become zero values.
func (r *ModelRequest) ToModel() Model {
	var m Model
	if r.ID != nil {
		m.ID = *r.ID
	}
	if r.Name != nil {
		m.Name = *r.Name
	}
	return m
}

// DeletedResponse is returned after a single model is deleted.
type DeletedResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

// MessageResponse carries a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}
