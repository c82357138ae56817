package repository

import "errors"

var (
	// ErrImageNotFound indicates the image was not found
	ErrImageNotFound = errors.New("image not found")

	// ErrNotADirectory indicates folder mode was given a regular file
	ErrNotADirectory = errors.New("not a directory")
)
