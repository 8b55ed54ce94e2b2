package cli

import (
	"errors"
	"fmt"

	"coto-cli/internal/api"
)

func errNoServer() error {
	return errors.New("no server configured; run `coto session login --server <url> --token <token>` (or pass --server)")
}

type notFoundError struct {
	kind string
	key  string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.key)
}

func errNotFound(kind, key string) error {
	return notFoundError{kind: kind, key: key}
}

// friendlyErr rewrites API auth failures into an actionable message; other
// errors pass through untouched.
func friendlyErr(err error) error {
	if errors.Is(err, api.ErrNotSignedIn) {
		return errors.New("not signed in; run `coto session login --token <token>`")
	}
	return err
}
