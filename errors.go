package main

import (
	"errors"
	"fmt"
)

// Failure kinds surfaced by the validation gate and the merge engine.
var (
	// ErrNoInput is returned when a merge is requested with no files.
	ErrNoInput = errors.New("no files provided")

	// ErrFileTooLarge is returned when a file exceeds the size limit.
	ErrFileTooLarge = errors.New("file exceeds maximum size")

	// ErrNotPDF is returned when a file's declared media type is not
	// application/pdf.
	ErrNotPDF = errors.New("not a PDF")

	// ErrParse is returned when a file's bytes cannot be parsed as a
	// PDF document. Encrypted documents fall under this as well.
	ErrParse = errors.New("cannot parse PDF")
)

// FileError ties a failure kind to the input that caused it.
type FileError struct {
	Name  string
	Index int // position in the submitted order, 0-based
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file %q (#%d): %v", e.Name, e.Index+1, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }
