package application

import "errors"

var (
	ErrInvalidEmail  = errors.New("invalid email")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrAlreadyExists = errors.New("user already exists")
	ErrAuthFailed    = errors.New("auth failed")
	ErrNotFound      = errors.New("user not found")
)

// ParamError reports a missing, malformed or meaningless request parameter.
type ParamError struct {
	Message string
}

func (e *ParamError) Error() string {
	if e.Message == "" {
		return "Not enough/ Wrong params entered"
	}
	return e.Message
}

func paramErr(msg string) error {
	return &ParamError{Message: msg}
}
