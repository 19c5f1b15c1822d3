package ocpp

import (
	"encoding/json"
	"fmt"
)

type CallType int

const (
	CallTypeRequest CallType = 2
	CallTypeResult  CallType = 3
	CallTypeError   CallType = 4
)

// Call is an OCPP-J Call message, the 4-tuple [2, uniqueId, action, payload].
type Call struct {
	TypeId   CallType
	UniqueId string
	Action   string
	Payload  Request
}

func (call *Call) MarshalJSON() ([]byte, error) {
	fields := make([]interface{}, 4)
	fields[0] = int(call.TypeId)
	fields[1] = call.UniqueId
	fields[2] = call.Action
	fields[3] = call.Payload
	return json.Marshal(fields)
}

func CreateCall(request Request, uniqueId string) *Call {
	return &Call{
		TypeId:   CallTypeRequest,
		UniqueId: uniqueId,
		Action:   request.GetFeatureName(),
		Payload:  request,
	}
}

// CallResult is an OCPP-J CallResult message, containing an OCPP Response.
type CallResult struct {
	TypeId   CallType
	UniqueId string
	Payload  Response
}

func (callResult *CallResult) MarshalJSON() ([]byte, error) {
	fields := make([]interface{}, 3)
	fields[0] = int(callResult.TypeId)
	fields[1] = callResult.UniqueId
	fields[2] = callResult.Payload
	return json.Marshal(fields)
}

func CreateCallResult(response Response, uniqueId string) *CallResult {
	return &CallResult{
		TypeId:   CallTypeResult,
		UniqueId: uniqueId,
		Payload:  response,
	}
}

// CallError is an OCPP-J CallError message. It doubles as the typed error a
// caller receives when the counter-party answered with messageTypeId 4.
type CallError struct {
	TypeId           CallType
	UniqueId         string
	ErrorCode        ErrorCode
	ErrorDescription string
	ErrorDetails     map[string]interface{}
}

func (callError *CallError) Error() string {
	return fmt.Sprintf("%s: %s", callError.ErrorCode, callError.ErrorDescription)
}

func (callError *CallError) MarshalJSON() ([]byte, error) {
	details := callError.ErrorDetails
	if details == nil {
		details = map[string]interface{}{}
	}
	fields := make([]interface{}, 5)
	fields[0] = int(callError.TypeId)
	fields[1] = callError.UniqueId
	fields[2] = string(callError.ErrorCode)
	fields[3] = callError.ErrorDescription
	fields[4] = details
	return json.Marshal(fields)
}

func CreateCallError(uniqueId string, code ErrorCode, description string) *CallError {
	return &CallError{
		TypeId:           CallTypeError,
		UniqueId:         uniqueId,
		ErrorCode:        code,
		ErrorDescription: description,
	}
}

// ParseMessage decodes the outer array of a wire frame.
func ParseMessage(data []byte) ([]interface{}, error) {
	var fields []interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, ProtocolViolationf("invalid json: %s", err)
	}
	return fields, nil
}

func MessageType(fields []interface{}) (CallType, error) {
	if len(fields) < 3 {
		return 0, ProtocolViolationf("incompatible message structure, %d elements", len(fields))
	}
	rawTypeId, ok := fields[0].(float64)
	if !ok {
		return 0, ProtocolViolationf("invalid message type id %v", fields[0])
	}
	typeId := CallType(rawTypeId)
	switch typeId {
	case CallTypeRequest, CallTypeResult, CallTypeError:
		return typeId, nil
	}
	return 0, ProtocolViolationf("unknown message type id %v", rawTypeId)
}

func UniqueIdOf(fields []interface{}) (string, error) {
	if len(fields) < 2 {
		return "", ProtocolViolationf("missing unique id")
	}
	uniqueId, ok := fields[1].(string)
	if !ok {
		return "", ProtocolViolationf("invalid unique id %v", fields[1])
	}
	return uniqueId, nil
}

// ParseCall decodes a messageTypeId 2 frame into a typed request. The action
// decides the payload type via the feature registry.
func ParseCall(fields []interface{}) (*Call, error) {
	if len(fields) != 4 {
		return nil, ProtocolViolationf("unsupported call format; expected 4 elements, got %d", len(fields))
	}
	uniqueId, err := UniqueIdOf(fields)
	if err != nil {
		return nil, err
	}
	action, ok := fields[2].(string)
	if !ok {
		return nil, ProtocolViolationf("invalid action %v", fields[2])
	}
	requestType, err := RequestTypeForAction(action)
	if err != nil {
		return nil, err
	}
	request, err := ParseRawJsonRequest(fields[3], requestType)
	if err != nil {
		return nil, ProtocolViolationf("decoding %s payload: %s", action, err)
	}
	return &Call{
		TypeId:   CallTypeRequest,
		UniqueId: uniqueId,
		Action:   action,
		Payload:  request,
	}, nil
}

// ParseCallResult decodes a messageTypeId 3 frame. The caller supplies the
// action of the pending call the frame answers, since the wire carries none.
func ParseCallResult(fields []interface{}, action string) (*CallResult, error) {
	if len(fields) != 3 {
		return nil, ProtocolViolationf("unsupported call result format; expected 3 elements, got %d", len(fields))
	}
	uniqueId, err := UniqueIdOf(fields)
	if err != nil {
		return nil, err
	}
	responseType, err := ResponseTypeForAction(action)
	if err != nil {
		return nil, err
	}
	response, err := ParseRawJsonResponse(fields[2], responseType)
	if err != nil {
		return nil, ProtocolViolationf("decoding %s response: %s", action, err)
	}
	return &CallResult{
		TypeId:   CallTypeResult,
		UniqueId: uniqueId,
		Payload:  response,
	}, nil
}

func ParseCallError(fields []interface{}) (*CallError, error) {
	if len(fields) != 5 {
		return nil, ProtocolViolationf("unsupported call error format; expected 5 elements, got %d", len(fields))
	}
	uniqueId, err := UniqueIdOf(fields)
	if err != nil {
		return nil, err
	}
	code, ok := fields[2].(string)
	if !ok {
		return nil, ProtocolViolationf("invalid error code %v", fields[2])
	}
	description, _ := fields[3].(string)
	details, _ := fields[4].(map[string]interface{})
	return &CallError{
		TypeId:           CallTypeError,
		UniqueId:         uniqueId,
		ErrorCode:        ErrorCode(code),
		ErrorDescription: description,
		ErrorDetails:     details,
	}, nil
}
