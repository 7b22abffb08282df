package cli

import "fmt"

// notFoundError reports a lookup that matched nothing, e.g. ink for a slide
// that was never annotated.
type notFoundError struct {
	what  string
	where string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found for %s", e.what, e.where)
}

func errNotFound(what, where string) error {
	return notFoundError{what: what, where: where}
}
