package smartcharging

import "cpsim/types"

const ClearChargingProfileFeatureName = "ClearChargingProfile"

type ClearChargingProfileStatus string

const (
	ClearChargingProfileStatusAccepted ClearChargingProfileStatus = "Accepted"
	ClearChargingProfileStatusUnknown  ClearChargingProfileStatus = "Unknown"
)

type ClearChargingProfileCriterion struct {
	EvseId                 *int                         `json:"evseId,omitempty" validate:"omitempty,gte=0"`
	ChargingProfilePurpose types.ChargingProfilePurpose `json:"chargingProfilePurpose,omitempty"`
	StackLevel             *int                         `json:"stackLevel,omitempty" validate:"omitempty,gte=0"`
}

type ClearChargingProfileRequest struct {
	ChargingProfileId       *int                           `json:"chargingProfileId,omitempty"`
	ChargingProfileCriteria *ClearChargingProfileCriterion `json:"chargingProfileCriteria,omitempty"`
}

type ClearChargingProfileResponse struct {
	Status     ClearChargingProfileStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo          `json:"statusInfo,omitempty"`
}

func (r ClearChargingProfileRequest) GetFeatureName() string {
	return ClearChargingProfileFeatureName
}

func (c ClearChargingProfileResponse) GetFeatureName() string {
	return ClearChargingProfileFeatureName
}

func NewClearChargingProfileResponse(status ClearChargingProfileStatus) *ClearChargingProfileResponse {
	return &ClearChargingProfileResponse{Status: status}
}
