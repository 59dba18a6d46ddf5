package errors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalid          = errors.New("invalid")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrTooMany          = errors.New("too many requests")
	ErrInternal         = errors.New("internal")
	ErrInvalidMove      = errors.New("invalid move")
	ErrDuplicateRelease = errors.New("duplicate release")
	ErrVersionConflict  = errors.New("version conflict")
	ErrMalformedTree    = errors.New("malformed tree")
	ErrLocked           = errors.New("content locked")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}

func IsLocked(err error) bool {
	return errors.Is(err, ErrLocked)
}
