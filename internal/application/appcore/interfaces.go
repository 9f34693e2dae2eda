package appcore

import "context"

// UseCase is the base interface for all use cases.
// TInput is the command or query type, TResult the output type.
type UseCase[TInput any, TResult any] interface {
	Execute(ctx context.Context, in TInput) (TResult, error)
}

// Command is a marker interface for state-changing inputs
type Command interface {
	CommandName() string
}

// Query is a marker interface for read-only inputs
type Query interface {
	QueryName() string
}

// Result is the base result structure
type Result[T any] struct {
	Value T
}
