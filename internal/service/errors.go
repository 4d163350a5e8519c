package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNetwork       = errors.New("weather API request failed")
	ErrParse         = errors.New("unexpected weather API payload")
	ErrValidation    = errors.New("data is not in the expected format")
	ErrUnknownSource = errors.New("unknown data source")
	ErrRateLimited   = errors.New("rate limit wait canceled")
)

// ValidationError lists the record fields that were missing or not numeric.
// A nil record reports no fields.
type ValidationError struct {
	Source string
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s: %s: record is empty", e.Source, ErrValidation)
	}
	return fmt.Sprintf("%s: %s: invalid fields [%s]", e.Source, ErrValidation, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
