package meter

import "cpsim/types"

const MeterValuesFeatureName = "MeterValues"

type MeterValuesRequest struct {
	EvseId     int                `json:"evseId" validate:"gte=0"`
	MeterValue []types.MeterValue `json:"meterValue" validate:"required,min=1,dive"`
}

type MeterValuesResponse struct {
}

func (r MeterValuesRequest) GetFeatureName() string {
	return MeterValuesFeatureName
}

func (c MeterValuesResponse) GetFeatureName() string {
	return MeterValuesFeatureName
}

func NewMeterValuesRequest(evseId int, values []types.MeterValue) *MeterValuesRequest {
	return &MeterValuesRequest{EvseId: evseId, MeterValue: values}
}

func NewMeterValuesResponse() *MeterValuesResponse {
	return &MeterValuesResponse{}
}
