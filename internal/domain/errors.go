package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTooManyAttempts    = errors.New("too many login attempts")

	ErrEmptySubmission    = errors.New("submission has neither text nor image")
	ErrSubmissionInFlight = errors.New("a submission is already in flight")

	ErrEmptySourceList  = errors.New("source list contains no URLs")
	ErrInvalidNewsTitle = errors.New("invalid news title")
	ErrInvalidNewsID    = errors.New("invalid news ID")

	ErrPreviewNotFound = errors.New("preview resource not found")
	ErrImageTooLarge   = errors.New("image exceeds size limit")
	ErrNotAnImage      = errors.New("uploaded file is not an image")

	ErrBackendUnavailable = errors.New("verification backend unavailable")
	ErrMalformedResponse  = errors.New("malformed backend response")
)
