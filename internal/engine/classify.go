package engine

import (
	"errors"
	"fmt"
	"strconv"

	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

// Class is the reporting category of a task failure.
type Class int

const (
	// ClassUnexpected covers anything not anticipated; reported in full.
	ClassUnexpected Class = iota
	// ClassSchema covers configuration that failed decoding or validation.
	ClassSchema
	// ClassDomain covers named, expected failures; reported by message.
	ClassDomain
)

func (c Class) String() string {
	switch c {
	case ClassSchema:
		return "schema"
	case ClassDomain:
		return "domain"
	default:
		return "unexpected"
	}
}

// Classify returns the category of err.
func Classify(err error) Class {
	var (
		validationErr *voilaerrors.ValidationError
		parseErr      *voilaerrors.ParseError
		domainErr     *voilaerrors.DomainError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &parseErr):
		return ClassSchema
	case errors.As(err, &domainErr):
		return ClassDomain
	default:
		return ClassUnexpected
	}
}

func schemaMessage(err error) string {
	var validationErr *voilaerrors.ValidationError
	if errors.As(err, &validationErr) {
		if validationErr.Field == "" {
			return validationErr.Message
		}
		if got := formatValue(validationErr.Value); got != "" {
			return fmt.Sprintf("%s %s (got %s)", validationErr.Field, validationErr.Message, got)
		}
		return fmt.Sprintf("%s %s", validationErr.Field, validationErr.Message)
	}

	var parseErr *voilaerrors.ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Error()
	}
	return err.Error()
}

// formatValue renders scalar offending values; collections are left out.
func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		if v == "" {
			return ""
		}
		return strconv.Quote(v)
	case int, int64, float64, bool:
		return fmt.Sprint(v)
	default:
		return ""
	}
}
