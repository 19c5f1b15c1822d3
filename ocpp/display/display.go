package display

import "cpsim/types"

const (
	SetDisplayMessageFeatureName     = "SetDisplayMessage"
	GetDisplayMessagesFeatureName    = "GetDisplayMessages"
	ClearDisplayMessageFeatureName   = "ClearDisplayMessage"
	NotifyDisplayMessagesFeatureName = "NotifyDisplayMessages"
)

type DisplayMessageStatus string
type GetDisplayMessagesStatus string
type ClearMessageStatus string

const (
	DisplayMessageStatusAccepted                  DisplayMessageStatus = "Accepted"
	DisplayMessageStatusNotSupportedMessageFormat DisplayMessageStatus = "NotSupportedMessageFormat"
	DisplayMessageStatusRejected                  DisplayMessageStatus = "Rejected"
	DisplayMessageStatusNotSupportedPriority      DisplayMessageStatus = "NotSupportedPriority"
	DisplayMessageStatusNotSupportedState         DisplayMessageStatus = "NotSupportedState"
	DisplayMessageStatusUnknownTransaction        DisplayMessageStatus = "UnknownTransaction"

	GetDisplayMessagesStatusAccepted GetDisplayMessagesStatus = "Accepted"
	GetDisplayMessagesStatusUnknown  GetDisplayMessagesStatus = "Unknown"

	ClearMessageStatusAccepted ClearMessageStatus = "Accepted"
	ClearMessageStatusUnknown  ClearMessageStatus = "Unknown"
)

type SetDisplayMessageRequest struct {
	Message types.MessageInfo `json:"message" validate:"required"`
}

type SetDisplayMessageResponse struct {
	Status     DisplayMessageStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo    `json:"statusInfo,omitempty"`
}

type GetDisplayMessagesRequest struct {
	Id        []int                 `json:"id,omitempty"`
	RequestId int                   `json:"requestId" validate:"gte=0"`
	Priority  types.MessagePriority `json:"priority,omitempty"`
	State     types.MessageState    `json:"state,omitempty"`
}

type GetDisplayMessagesResponse struct {
	Status     GetDisplayMessagesStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo        `json:"statusInfo,omitempty"`
}

type ClearDisplayMessageRequest struct {
	Id int `json:"id" validate:"gte=0"`
}

type ClearDisplayMessageResponse struct {
	Status     ClearMessageStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo  `json:"statusInfo,omitempty"`
}

type NotifyDisplayMessagesRequest struct {
	RequestId   int                 `json:"requestId" validate:"gte=0"`
	Tbc         bool                `json:"tbc,omitempty"`
	MessageInfo []types.MessageInfo `json:"messageInfo,omitempty" validate:"omitempty,dive"`
}

type NotifyDisplayMessagesResponse struct {
}

func (r SetDisplayMessageRequest) GetFeatureName() string {
	return SetDisplayMessageFeatureName
}

func (c SetDisplayMessageResponse) GetFeatureName() string {
	return SetDisplayMessageFeatureName
}

func (r GetDisplayMessagesRequest) GetFeatureName() string {
	return GetDisplayMessagesFeatureName
}

func (c GetDisplayMessagesResponse) GetFeatureName() string {
	return GetDisplayMessagesFeatureName
}

func (r ClearDisplayMessageRequest) GetFeatureName() string {
	return ClearDisplayMessageFeatureName
}

func (c ClearDisplayMessageResponse) GetFeatureName() string {
	return ClearDisplayMessageFeatureName
}

func (r NotifyDisplayMessagesRequest) GetFeatureName() string {
	return NotifyDisplayMessagesFeatureName
}

func (c NotifyDisplayMessagesResponse) GetFeatureName() string {
	return NotifyDisplayMessagesFeatureName
}

func NewSetDisplayMessageResponse(status DisplayMessageStatus) *SetDisplayMessageResponse {
	return &SetDisplayMessageResponse{Status: status}
}

func NewClearDisplayMessageResponse(status ClearMessageStatus) *ClearDisplayMessageResponse {
	return &ClearDisplayMessageResponse{Status: status}
}
