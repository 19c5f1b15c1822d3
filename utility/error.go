package utility

// simError carries a plain message; Err keeps call sites short.
type simError struct {
	message string
}

func (e *simError) Error() string {
	return e.message
}

func Err(message string) error {
	return &simError{message: message}
}
