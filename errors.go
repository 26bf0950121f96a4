package accounts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// ErrTokenInvalid covers every verification token failure: bad signature,
// malformed payload, wrong secret, or expiry. Callers get one coarse kind.
var ErrTokenInvalid = goerrors.New("invalid verification token", goerrors.CategoryAuth).
	WithTextCode("TOKEN_INVALID").
	WithCode(goerrors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is returned when a password comparison fails
var ErrMismatchedHashAndPassword = errors.New("mismatched password and hash")

// ErrNoEmptyString rejects empty plaintext passwords before hashing
var ErrNoEmptyString = errors.New("string must not be empty")

// ErrUnableToFindSession is the error when a request has no session cookie
var ErrUnableToFindSession = errors.New("unable to find session")

// ErrUnableToDecodeSession unable to decode the JWT held by a session cookie
var ErrUnableToDecodeSession = errors.New("unable to decode session")
