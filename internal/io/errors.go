package io

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by errors.Is when a referenced path is absent.
	ErrNotFound = errors.New("path not found")
	// ErrDecode is matched by errors.Is when a file exists but is not a readable image.
	ErrDecode = errors.New("image decode failed")
)

// NotFoundError reports a missing source file.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("image not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// DecodeError reports a file that exists but could not be decoded.
type DecodeError struct {
	Path   string
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("failed to decode image: %s", e.Path)
	}
	return fmt.Sprintf("failed to decode image %s: %s", e.Path, e.Reason)
}

func (e *DecodeError) Unwrap() error { return ErrDecode }
