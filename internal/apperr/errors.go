package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for the error translator.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConnection Kind = "connection"
	KindTransport  Kind = "transport"
	KindInternal   Kind = "internal"
)

// Error is the domain error carried from repositories and the pipeline up to
// the error middleware.
type Error struct {
	Kind    Kind
	Message string
	// Fields lists the missing or invalid JSON fields of a validation failure.
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports missing or malformed input. No statement has been issued
// when this is returned.
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// MissingFields builds the validation error for absent required fields.
func MissingFields(fields ...string) *Error {
	return Validation("Campos obrigatórios ausentes: "+strings.Join(fields, ", "), fields...)
}

// NotFound reports that no row matched the given id.
func NotFound(resource string, id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s com id %d não encontrado", resource, id)}
}

// Connection wraps a failure to obtain a database connection.
func Connection(err error) *Error {
	return &Error{Kind: KindConnection, Message: "Falha ao conectar ao banco de dados", Err: err}
}

// Transport wraps a statement execution failure.
func Transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Message: "Falha ao " + op, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
