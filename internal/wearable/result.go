package wearable

// ResultKind discriminates the three terminal outcomes of a Task.
type ResultKind int

const (
	ResultSuccess ResultKind = iota
	ResultFailure
	ResultCancelled
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuccess:
		return "success"
	case ResultFailure:
		return "failure"
	default:
		return "cancelled"
	}
}

// Result is exactly one of success(value), failure(err) or cancelled.
type Result[T any] struct {
	Kind  ResultKind
	Value T
	Err   error
}

// Success wraps a value.
func Success[T any](v T) Result[T] {
	return Result[T]{Kind: ResultSuccess, Value: v}
}

// Failure wraps an error.
func Failure[T any](err error) Result[T] {
	return Result[T]{Kind: ResultFailure, Err: err}
}

// Cancelled returns the cancelled outcome.
func Cancelled[T any]() Result[T] {
	return Result[T]{Kind: ResultCancelled}
}
