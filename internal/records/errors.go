package records

import "errors"

var (
	ErrMissingEmail      = errors.New("email is required")
	ErrMissingUsername   = errors.New("username is required")
	ErrMissingRecordName = errors.New("record name is required")
	ErrUserNotFound      = errors.New("user not found")
	ErrRecordNotFound    = errors.New("record not found")
)
