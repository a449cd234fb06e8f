// api/errors/condition_errors.go
package errors

import "errors"

var (
	ErrSessionNotFound      = errors.New("builder session not found")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrUnknownAttribute     = errors.New("unknown attribute")
	ErrInvalidConditionData = errors.New("invalid condition data")
	ErrInvalidCategory      = errors.New("invalid condition category")
	ErrInvalidLogic         = errors.New("invalid group logic")
	ErrCheckInProgress      = errors.New("reference check already in progress")
	ErrInternalServer       = errors.New("internal server error")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidPagination    = errors.New("invalid pagination parameters")
)
