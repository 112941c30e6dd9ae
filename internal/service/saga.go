package service

import (
	"context"
	"log"
)

// compensated runs a forward action and, when it fails, issues the
// compensating action exactly once. The compensation is best-effort: its
// failure is logged and never changes the returned error.
func compensated[T any](ctx context.Context, forward func(context.Context) (T, error), compensate func(context.Context) error) (T, error) {
	result, err := forward(ctx)
	if err == nil {
		return result, nil
	}

	if cerr := compensate(ctx); cerr != nil {
		log.Printf("compensating action failed: %v", cerr)
	}

	var zero T
	return zero, err
}
