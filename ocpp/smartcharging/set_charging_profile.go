package smartcharging

import "cpsim/types"

const SetChargingProfileFeatureName = "SetChargingProfile"

type ChargingProfileStatus string

const (
	ChargingProfileStatusAccepted ChargingProfileStatus = "Accepted"
	ChargingProfileStatusRejected ChargingProfileStatus = "Rejected"
)

type SetChargingProfileRequest struct {
	EvseId          int                   `json:"evseId" validate:"gte=0"`
	ChargingProfile types.ChargingProfile `json:"chargingProfile" validate:"required"`
}

type SetChargingProfileResponse struct {
	Status     ChargingProfileStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo     `json:"statusInfo,omitempty"`
}

func (r SetChargingProfileRequest) GetFeatureName() string {
	return SetChargingProfileFeatureName
}

func (c SetChargingProfileResponse) GetFeatureName() string {
	return SetChargingProfileFeatureName
}

func NewSetChargingProfileRequest(evseId int, profile types.ChargingProfile) *SetChargingProfileRequest {
	return &SetChargingProfileRequest{EvseId: evseId, ChargingProfile: profile}
}

func NewSetChargingProfileResponse(status ChargingProfileStatus) *SetChargingProfileResponse {
	return &SetChargingProfileResponse{Status: status}
}
