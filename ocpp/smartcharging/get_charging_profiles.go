package smartcharging

import "cpsim/types"

const (
	GetChargingProfilesFeatureName    = "GetChargingProfiles"
	ReportChargingProfilesFeatureName = "ReportChargingProfiles"
)

type GetChargingProfileStatus string
type ChargingLimitSource string

const (
	GetChargingProfileStatusAccepted   GetChargingProfileStatus = "Accepted"
	GetChargingProfileStatusNoProfiles GetChargingProfileStatus = "NoProfiles"

	ChargingLimitSourceEMS   ChargingLimitSource = "EMS"
	ChargingLimitSourceOther ChargingLimitSource = "Other"
	ChargingLimitSourceSO    ChargingLimitSource = "SO"
	ChargingLimitSourceCSO   ChargingLimitSource = "CSO"
)

type ChargingProfileCriterion struct {
	ChargingProfilePurpose types.ChargingProfilePurpose `json:"chargingProfilePurpose,omitempty"`
	StackLevel             *int                         `json:"stackLevel,omitempty" validate:"omitempty,gte=0"`
	ChargingProfileId      []int                        `json:"chargingProfileId,omitempty"`
	ChargingLimitSource    []ChargingLimitSource        `json:"chargingLimitSource,omitempty" validate:"omitempty,max=4"`
}

type GetChargingProfilesRequest struct {
	RequestId       int                      `json:"requestId" validate:"gte=0"`
	EvseId          *int                     `json:"evseId,omitempty" validate:"omitempty,gte=0"`
	ChargingProfile ChargingProfileCriterion `json:"chargingProfile" validate:"required"`
}

type GetChargingProfilesResponse struct {
	Status     GetChargingProfileStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo        `json:"statusInfo,omitempty"`
}

type ReportChargingProfilesRequest struct {
	RequestId           int                     `json:"requestId" validate:"gte=0"`
	ChargingLimitSource ChargingLimitSource     `json:"chargingLimitSource" validate:"required"`
	Tbc                 bool                    `json:"tbc,omitempty"`
	EvseId              int                     `json:"evseId" validate:"gte=0"`
	ChargingProfile     []types.ChargingProfile `json:"chargingProfile" validate:"required,min=1,dive"`
}

type ReportChargingProfilesResponse struct {
}

func (r GetChargingProfilesRequest) GetFeatureName() string {
	return GetChargingProfilesFeatureName
}

func (c GetChargingProfilesResponse) GetFeatureName() string {
	return GetChargingProfilesFeatureName
}

func (r ReportChargingProfilesRequest) GetFeatureName() string {
	return ReportChargingProfilesFeatureName
}

func (c ReportChargingProfilesResponse) GetFeatureName() string {
	return ReportChargingProfilesFeatureName
}

func NewGetChargingProfilesResponse(status GetChargingProfileStatus) *GetChargingProfilesResponse {
	return &GetChargingProfilesResponse{Status: status}
}
