package model

import (
	"errors"
	"fmt"

	pkgopenapi "github.com/goliatone/go-regforms/pkg/openapi"
)

var (
	errOperationIDMissing     = errors.New("model builder: operation id is required")
	errOperationPathMissing   = errors.New("model builder: operation path is required")
	errOperationMethodMissing = errors.New("model builder: operation method is required")
)

func validateOperation(op pkgopenapi.Operation) error {
	switch {
	case op.ID == "":
		return errOperationIDMissing
	case op.Path == "":
		return errOperationPathMissing
	case op.Method == "":
		return errOperationMethodMissing
	}
	if err := op.RequestBody.Validate(); err != nil {
		return fmt.Errorf("model builder: %s request body: %w", op.ID, err)
	}
	return nil
}
