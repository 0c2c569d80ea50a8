package thresholds

import "errors"

var (
	ErrOutOfRange = errors.New("threshold out of range")
	ErrEmptyPatch = errors.New("no threshold values supplied")
	ErrNotFound   = errors.New("threshold settings not found")
)

const (
	ErrorCodeValidation = "VALIDATION_ERROR"
	ErrorCodeStorage    = "STORAGE_ERROR"
)
