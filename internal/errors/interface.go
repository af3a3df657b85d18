package errors

// ErrorCode identifies a failure independently of its message.
type ErrorCode string

// Error is a coded error. Unwrap returns the wrapped cause, if any.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

// Factory builds coded errors. WithData appends data to the message.
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}
