package validator

import "errors"

var (
	ErrEmptyTitle         = errors.New("title cannot be empty")
	ErrTitleTooLong       = errors.New("title must be at most 200 characters")
	ErrEmptyRecipient     = errors.New("recipient name cannot be empty")
	ErrRecipientTooLong   = errors.New("recipient name must be at most 120 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRedirectURL = errors.New("redirect target must be an http or https URL")
)
