package provisioning

import "cpsim/types"

const (
	GetVariablesFeatureName = "GetVariables"
	SetVariablesFeatureName = "SetVariables"
)

type GetVariableStatus string
type SetVariableStatus string

const (
	GetVariableStatusAccepted         GetVariableStatus = "Accepted"
	GetVariableStatusRejected         GetVariableStatus = "Rejected"
	GetVariableStatusUnknownComponent GetVariableStatus = "UnknownComponent"
	GetVariableStatusUnknownVariable  GetVariableStatus = "UnknownVariable"
	GetVariableStatusNotSupported     GetVariableStatus = "NotSupportedAttributeType"

	SetVariableStatusAccepted         SetVariableStatus = "Accepted"
	SetVariableStatusRejected         SetVariableStatus = "Rejected"
	SetVariableStatusUnknownComponent SetVariableStatus = "UnknownComponent"
	SetVariableStatusUnknownVariable  SetVariableStatus = "UnknownVariable"
	SetVariableStatusNotSupported     SetVariableStatus = "NotSupportedAttributeType"
	SetVariableStatusRebootRequired   SetVariableStatus = "RebootRequired"
)

type GetVariableData struct {
	AttributeType types.AttributeType `json:"attributeType,omitempty"`
	Component     types.Component     `json:"component" validate:"required"`
	Variable      types.Variable      `json:"variable" validate:"required"`
}

type GetVariableResult struct {
	AttributeStatus GetVariableStatus   `json:"attributeStatus" validate:"required"`
	AttributeType   types.AttributeType `json:"attributeType,omitempty"`
	AttributeValue  string              `json:"attributeValue,omitempty" validate:"omitempty,max=2500"`
	Component       types.Component     `json:"component" validate:"required"`
	Variable        types.Variable      `json:"variable" validate:"required"`
	StatusInfo      *types.StatusInfo   `json:"attributeStatusInfo,omitempty"`
}

type GetVariablesRequest struct {
	GetVariableData []GetVariableData `json:"getVariableData" validate:"required,min=1,dive"`
}

type GetVariablesResponse struct {
	GetVariableResult []GetVariableResult `json:"getVariableResult" validate:"required,min=1,dive"`
}

type SetVariableData struct {
	AttributeType  types.AttributeType `json:"attributeType,omitempty"`
	AttributeValue string              `json:"attributeValue" validate:"max=1000"`
	Component      types.Component     `json:"component" validate:"required"`
	Variable       types.Variable      `json:"variable" validate:"required"`
}

type SetVariableResult struct {
	AttributeType   types.AttributeType `json:"attributeType,omitempty"`
	AttributeStatus SetVariableStatus   `json:"attributeStatus" validate:"required"`
	Component       types.Component     `json:"component" validate:"required"`
	Variable        types.Variable      `json:"variable" validate:"required"`
	StatusInfo      *types.StatusInfo   `json:"attributeStatusInfo,omitempty"`
}

type SetVariablesRequest struct {
	SetVariableData []SetVariableData `json:"setVariableData" validate:"required,min=1,dive"`
}

type SetVariablesResponse struct {
	SetVariableResult []SetVariableResult `json:"setVariableResult" validate:"required,min=1,dive"`
}

func (r GetVariablesRequest) GetFeatureName() string {
	return GetVariablesFeatureName
}

func (c GetVariablesResponse) GetFeatureName() string {
	return GetVariablesFeatureName
}

func (r SetVariablesRequest) GetFeatureName() string {
	return SetVariablesFeatureName
}

func (c SetVariablesResponse) GetFeatureName() string {
	return SetVariablesFeatureName
}
