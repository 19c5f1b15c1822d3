package localauth

import "cpsim/types"

const SendLocalListFeatureName = "SendLocalList"

type UpdateType string
type SendLocalListStatus string

const (
	UpdateTypeDifferential UpdateType = "Differential"
	UpdateTypeFull         UpdateType = "Full"

	SendLocalListStatusAccepted        SendLocalListStatus = "Accepted"
	SendLocalListStatusFailed          SendLocalListStatus = "Failed"
	SendLocalListStatusVersionMismatch SendLocalListStatus = "VersionMismatch"
)

type SendLocalListRequest struct {
	VersionNumber          int                       `json:"versionNumber" validate:"gte=0"`
	UpdateType             UpdateType                `json:"updateType" validate:"required"`
	LocalAuthorizationList []types.AuthorizationData `json:"localAuthorizationList,omitempty" validate:"omitempty,dive"`
}

type SendLocalListResponse struct {
	Status     SendLocalListStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty"`
}

func (r SendLocalListRequest) GetFeatureName() string {
	return SendLocalListFeatureName
}

func (c SendLocalListResponse) GetFeatureName() string {
	return SendLocalListFeatureName
}

// NewSendLocalListRequest creates SendLocalListRequest containing all required fields. Optional fields may be set afterward.
func NewSendLocalListRequest(version int, updateType UpdateType) *SendLocalListRequest {
	return &SendLocalListRequest{VersionNumber: version, UpdateType: updateType}
}

func NewSendLocalListResponse(status SendLocalListStatus) *SendLocalListResponse {
	return &SendLocalListResponse{Status: status}
}
