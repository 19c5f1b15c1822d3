package ocpp

import (
	"encoding/json"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Request message
type Request interface {
	// GetFeatureName Returns the unique name of the feature, to which this request belongs to.
	GetFeatureName() string
}

// Response message
type Response interface {
	// GetFeatureName Returns the unique name of the feature, to which this request belongs to.
	GetFeatureName() string
}

// Validate checks payloads against their struct tags before they reach a
// use-case handler. Shared by both roles.
var Validate = validator.New()

func ParseRawJsonRequest(raw interface{}, requestType reflect.Type) (Request, error) {
	if raw == nil {
		raw = &struct{}{}
	}
	bytes, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	request := reflect.New(requestType).Interface()
	if err = json.Unmarshal(bytes, &request); err != nil {
		return nil, err
	}
	result := request.(Request)
	if err = Validate.Struct(result); err != nil {
		return nil, err
	}
	return result, nil
}

func ParseRawJsonResponse(raw interface{}, responseType reflect.Type) (Response, error) {
	if raw == nil {
		raw = &struct{}{}
	}
	bytes, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	response := reflect.New(responseType).Interface()
	if err = json.Unmarshal(bytes, &response); err != nil {
		return nil, err
	}
	result := response.(Response)
	if err = Validate.Struct(result); err != nil {
		return nil, err
	}
	return result, nil
}
