package application

// ErrorKind tags a failed Result so callers can branch on the class of
// failure instead of sniffing message text.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindBusinessRule ErrorKind = "business_rule"
	KindInternal     ErrorKind = "internal"
)

// Failure is the error variant of a Result.
type Failure struct {
	Kind    ErrorKind
	Message string
}

func (f *Failure) Error() string { return f.Message }

// Result is the uniform return type of every use case: either a value with
// an optional human-readable message, or a tagged failure. Use cases never
// panic or return raw errors across this boundary.
type Result[T any] struct {
	value   T
	message string
	failure *Failure
}

func Ok[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// OkMsg attaches a human-readable success message for the response envelope.
func OkMsg[T any](value T, message string) Result[T] {
	return Result[T]{value: value, message: message}
}

func Fail[T any](kind ErrorKind, message string) Result[T] {
	return Result[T]{failure: &Failure{Kind: kind, Message: message}}
}

func (r Result[T]) IsFailure() bool { return r.failure != nil }

func (r Result[T]) Value() T { return r.value }

func (r Result[T]) Message() string { return r.message }

// Failure returns the failure variant, or nil on success.
func (r Result[T]) Failure() *Failure { return r.failure }
