package smartcharging

import "cpsim/types"

const GetCompositeScheduleFeatureName = "GetCompositeSchedule"

type GetCompositeScheduleRequest struct {
	Duration         int                    `json:"duration" validate:"gt=0"`
	ChargingRateUnit types.ChargingRateUnit `json:"chargingRateUnit,omitempty"`
	EvseId           int                    `json:"evseId" validate:"gte=0"`
}

type GetCompositeScheduleResponse struct {
	Status     types.GenericStatus      `json:"status" validate:"required"`
	Schedule   *types.CompositeSchedule `json:"schedule,omitempty"`
	StatusInfo *types.StatusInfo        `json:"statusInfo,omitempty"`
}

func (r GetCompositeScheduleRequest) GetFeatureName() string {
	return GetCompositeScheduleFeatureName
}

func (c GetCompositeScheduleResponse) GetFeatureName() string {
	return GetCompositeScheduleFeatureName
}

func NewGetCompositeScheduleRequest(duration, evseId int) *GetCompositeScheduleRequest {
	return &GetCompositeScheduleRequest{Duration: duration, EvseId: evseId}
}

func NewGetCompositeScheduleResponse(status types.GenericStatus) *GetCompositeScheduleResponse {
	return &GetCompositeScheduleResponse{Status: status}
}
