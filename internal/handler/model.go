package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/forgo/modelservice/internal/model"
)

var (
	errEmptyBody    = errors.New("request body is empty")
	errNullBody     = errors.New("request body is null")
	errTrailingData = errors.New("request body has trailing data")
)

// ErrInvalidPathID is returned when the {id} path segment is not an integer
var ErrInvalidPathID = model.NewFailure(model.KindInvalidArgument, "id must be a valid integer.")

// Confirmation messages
const (
	MessageModelDeleted     = "Model deleted."
	MessageAllModelsDeleted = "All models deleted."
)

// ModelServicer is the model service as seen by the handler
type ModelServicer interface {
	Create(ctx context.Context, req *model.ModelRequest) (*model.Model, error)
	GetByID(ctx context.Context, id *int64) (*model.Model, error)
	DeleteByID(ctx context.Context, id *int64) error
	DeleteAll(ctx context.Context) error
	ListAll(ctx context.Context) ([]*model.Model, error)
	ListPage(ctx context.Context, req model.PageRequest) (model.Page[*model.Model], error)
}

// ModelHandler handles model endpoints
type ModelHandler struct {
	modelService ModelServicer
}

// NewModelHandler creates a new model handler
func NewModelHandler(modelService ModelServicer) *ModelHandler {
	return &ModelHandler{
		modelService: modelService,
	}
}

// Create handles POST /model - store a new model
func (h *ModelHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ModelRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	if fieldErrors := req.Validate(); len(fieldErrors) > 0 {
		WriteError(w, r, model.NewValidationFailure(fieldErrors))
		return
	}

	created, err := h.modelService.Create(r.Context(), &req)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /model - list every model
func (h *ModelHandler) List(w http.ResponseWriter, r *http.Request) {
	models, err := h.modelService.ListAll(r.Context())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	if models == nil {
		models = []*model.Model{}
	}

	WriteJSON(w, http.StatusOK, models)
}

// Get handles GET /model/{id} - fetch one model
func (h *ModelHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	found, err := h.modelService.GetByID(r.Context(), &id)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, found)
}

// Page handles GET /model/page - one page of models
// Query: page (0-based), size, sort=property[,asc|desc] (repeatable)
func (h *ModelHandler) Page(w http.ResponseWriter, r *http.Request) {
	req := model.ParsePageRequest(r.URL.Query())

	page, err := h.modelService.ListPage(r.Context(), req)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// Delete handles DELETE /model/{id} - remove one model
func (h *ModelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	if err := h.modelService.DeleteByID(r.Context(), &id); err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, model.DeletedResponse{
		Message: MessageModelDeleted,
		ID:      id,
	})
}

// Erase handles DELETE /erase - remove every model
func (h *ModelHandler) Erase(w http.ResponseWriter, r *http.Request) {
	if err := h.modelService.DeleteAll(r.Context()); err != nil {
		WriteError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, model.MessageResponse{Message: MessageAllModelsDeleted})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, ErrInvalidPathID
	}
	return id, nil
}
