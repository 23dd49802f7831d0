package tui

import (
	"errors"
	"fmt"

	"github.com/pders01/screener/internal/cache"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// superseded reports whether a result was replaced by a newer request and
// should be dropped without touching the view.
func superseded(err error) bool {
	return errors.Is(err, cache.ErrSuperseded)
}
