package validator

import (
	"net/mail"
	"net/url"
	"strings"
)

// ValidateTitle checks a document title from the create form
func ValidateTitle(title string) error {
	title = strings.TrimSpace(title)

	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > 200 {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateRecipientName checks the recipient name from the create form
func ValidateRecipientName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return ErrEmptyRecipient
	}
	if len(name) > 120 {
		return ErrRecipientTooLong
	}
	return nil
}

// ValidateEmail checks an optional recipient email.
// An empty string is valid - the field is not required.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateRedirectURL checks the optional ?redirect= target on the
// tracking endpoint. Only absolute http/https URLs are allowed, which
// keeps the endpoint from becoming an open redirector for other schemes.
func ValidateRedirectURL(urlStr string) error {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return ErrInvalidRedirectURL
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return ErrInvalidRedirectURL
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return ErrInvalidRedirectURL
	}
	if parsedURL.Host == "" {
		return ErrInvalidRedirectURL
	}
	return nil
}
