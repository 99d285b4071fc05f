package errs

import "errors"

var InvalidCredentials = errors.New("invalid credentials")

var (
	InternalError      = errors.New("internal error")
	GeneratingToken    = errors.New("error generating token")
	EmailRequired      = errors.New("email is required")
	EmailNotAllowed    = errors.New("email domain is not allowed")
	FailedToCreateUser = errors.New("failed to create user")
	MissingCredentials = errors.New("username and password are required")
	UserAlreadyExists  = errors.New("user already exists")
	UserNotFound       = errors.New("user not found")
)

var ErrMissingJWTSecret = errors.New("jwt: secret is not configured")
