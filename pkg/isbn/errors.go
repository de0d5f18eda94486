package isbn

import (
	"fmt"
	"strings"
)

// ErrorKind classifies the structural defects a parse can record.
type ErrorKind int

const (
	// ErrEmpty means no input was provided.
	ErrEmpty ErrorKind = iota
	// ErrInvalidCharacters means non-digit characters remained after
	// stripping formatting characters and trimming the checksum.
	ErrInvalidCharacters
	// ErrInvalidLength means the digit count, before checksum trimming,
	// is not one of 9, 10, 12 or 13.
	ErrInvalidLength
	// ErrInvalidProductCode means the leading three digits are neither
	// 978 nor 979.
	ErrInvalidProductCode
	// ErrInvalidCountryCode means no registration-group rule matched,
	// or the matching rule declares a zero-length group.
	ErrInvalidCountryCode
	// ErrCannotFormatInvalid means a format was requested for a result
	// that failed validation.
	ErrCannotFormatInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case ErrEmpty:
		return "Empty"
	case ErrInvalidCharacters:
		return "InvalidCharacters"
	case ErrInvalidLength:
		return "InvalidLength"
	case ErrInvalidProductCode:
		return "InvalidProductCode"
	case ErrInvalidCountryCode:
		return "InvalidCountryCode"
	case ErrCannotFormatInvalid:
		return "CannotFormatInvalid"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

func (k ErrorKind) message() string {
	switch k {
	case ErrEmpty:
		return "no ISBN supplied"
	case ErrInvalidCharacters:
		return "ISBN contains characters that are not digits"
	case ErrInvalidLength:
		return "ISBN has the wrong number of digits"
	case ErrInvalidProductCode:
		return "product code is not a book prefix (978 or 979)"
	case ErrInvalidCountryCode:
		return "no registration group matches the code"
	case ErrCannotFormatInvalid:
		return "cannot format an invalid ISBN"
	default:
		return "unknown error"
	}
}

// ParseError is one recorded structural defect.
type ParseError struct {
	Kind    ErrorKind
	Message string
}

func (e ParseError) Error() string {
	return e.Message
}

// FormatError is returned when formatting is requested for an invalid
// result. It carries the accumulated parse errors for diagnostics.
type FormatError struct {
	Raw    string
	Errors []ParseError
}

func (e *FormatError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, pe := range e.Errors {
		msgs = append(msgs, pe.Message)
	}
	return fmt.Sprintf("%s: %q: %s", ErrCannotFormatInvalid.message(), e.Raw, strings.Join(msgs, "; "))
}

// Kind reports the error classification, always ErrCannotFormatInvalid.
func (e *FormatError) Kind() ErrorKind {
	return ErrCannotFormatInvalid
}
