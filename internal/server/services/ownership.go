package services

import (
	"context"
	"errors"

	"github.com/bcheng02/flash-cards/internal/common"
)

type ownerLookup func(ctx context.Context, id int64) (int64, error)

// authorize returns common.ErrorForbidden unless userID owns the resource.
// A missing resource is reported the same way so callers cannot tell which ids exist.
func authorize(ctx context.Context, lookup ownerLookup, userID, id int64) error {
	owner, err := lookup(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorForbidden
		}
		return err
	}
	if owner != userID {
		return common.ErrorForbidden
	}
	return nil
}

// internalOr passes through the sentinels callers map to a status and
// collapses anything else into common.ErrorInternal.
func internalOr(err error) error {
	switch {
	case errors.Is(err, common.ErrorForbidden),
		errors.Is(err, common.ErrorValidation),
		errors.Is(err, common.ErrorNotFound):
		return err
	default:
		return common.ErrorInternal
	}
}
