// api/errors/directory_errors.go
package errors

import "errors"

var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrDatabaseOperation     = errors.New("database operation failed")
	ErrInvalidSearchCriteria = errors.New("invalid search criteria")
)
