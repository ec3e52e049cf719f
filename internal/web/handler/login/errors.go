package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login payload cannot
	// be parsed.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrInvalidCredentials is returned when the provided username and/or
	// password are not valid.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrWebAccessDenied is returned when the user authenticated but their
	// role does not grant access to the web application.
	ErrWebAccessDenied = errors.New("web application access denied")

	// ErrInternalServerError is returned for unexpected failures during the
	// login process.
	ErrInternalServerError = errors.New("internal server error")
)
