package countries

import (
	"errors"
	"fmt"
)

// ErrCountryNotFound is returned by Get when the API has no country for the code.
var ErrCountryNotFound = errors.New("country not found")

// QueryError wraps a failed GraphQL operation.
type QueryError struct {
	Operation string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s query failed: %v", e.Operation, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}
