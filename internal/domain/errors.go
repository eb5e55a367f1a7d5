package domain

import "errors"

var (
	// ErrDuplicateContent is returned by a content store when the
	// fingerprint uniqueness constraint rejects an insert.
	ErrDuplicateContent = errors.New("content already exists")

	ErrTaskNotFound        = errors.New("fetch task not found")
	ErrTrackedUserNotFound = errors.New("tracked user not found")
)
