package repository

import (
	"fmt"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/forgo/modelservice/internal/model"
)

// storeError tags a backend failure with a platform error code. The
// result is nil when err is nil.
func storeError(err error, op string) error {
	if err == nil {
		return nil
	}
	return platformerrors.Wrap(err, platformerrors.CodeDatabase, "model store: "+op)
}

// sortColumns maps sortable properties to their storage column names.
var sortColumns = map[string]string{
	"id":   "id",
	"name": "name",
}

// validateSort rejects orderings on properties the store does not know.
func validateSort(orders []model.SortOrder) error {
	for _, o := range orders {
		if _, ok := sortColumns[o.Property]; !ok {
			return platformerrors.New(platformerrors.CodeInvalidInput,
				fmt.Sprintf("model store: no property %q found for type Model", o.Property))
		}
	}
	return nil
}
