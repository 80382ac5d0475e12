package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// readFS reads name out of files unless ctx is already done.
func readFS(ctx context.Context, files fs.FS, name string) ([]byte, error) {
	switch {
	case files == nil:
		return nil, errors.New("openapi loader: no filesystem configured for fs sources")
	case name == "":
		return nil, errors.New("openapi loader: empty fs location")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(files, name)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: %s: %w", name, err)
	}
	return data, nil
}
