package ocpp

import "fmt"

// ErrorCode is an OCPP-J RPC framework error code, carried on CallError frames.
type ErrorCode string

const (
	ErrorCodeFormationViolation            ErrorCode = "FormationViolation"
	ErrorCodeGenericError                  ErrorCode = "GenericError"
	ErrorCodeInternalError                 ErrorCode = "InternalError"
	ErrorCodeMessageTypeNotSupported       ErrorCode = "MessageTypeNotSupported"
	ErrorCodeNotImplemented                ErrorCode = "NotImplemented"
	ErrorCodeNotSupported                  ErrorCode = "NotSupported"
	ErrorCodeOccurrenceConstraintViolation ErrorCode = "OccurrenceConstraintViolation"
	ErrorCodePropertyConstraintViolation   ErrorCode = "PropertyConstraintViolation"
	ErrorCodeProtocolError                 ErrorCode = "ProtocolError"
	ErrorCodeRpcFrameworkError             ErrorCode = "RpcFrameworkError"
	ErrorCodeSecurityError                 ErrorCode = "SecurityError"
	ErrorCodeTypeConstraintViolation       ErrorCode = "TypeConstraintViolation"
)

// TransportError is fatal to the current connection attempt. The engine never
// retries it on its own.
type TransportError struct {
	Reason string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %s", e.Reason, e.Err)
	}
	return fmt.Sprintf("transport: %s", e.Reason)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(reason string, err error) *TransportError {
	return &TransportError{Reason: reason, Err: err}
}

// ProtocolViolation marks a malformed or misdirected frame. The frame is
// dropped and the connection stays usable.
type ProtocolViolation struct {
	Reason string
}

func (e *ProtocolViolation) Error() string {
	return fmt.Sprintf("protocol violation: %s", e.Reason)
}

func ProtocolViolationf(format string, args ...interface{}) *ProtocolViolation {
	return &ProtocolViolation{Reason: fmt.Sprintf(format, args...)}
}

// TimeoutError resolves a pending call whose deadline passed without a
// matching CallResult or CallError.
type TimeoutError struct {
	UniqueId string
	Action   string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("action timeout: %s [%s]", e.Action, e.UniqueId)
}
