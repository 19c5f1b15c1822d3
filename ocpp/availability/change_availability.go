package availability

import "cpsim/types"

const ChangeAvailabilityFeatureName = "ChangeAvailability"

type ChangeAvailabilityStatus string

const (
	ChangeAvailabilityStatusAccepted  ChangeAvailabilityStatus = "Accepted"
	ChangeAvailabilityStatusRejected  ChangeAvailabilityStatus = "Rejected"
	ChangeAvailabilityStatusScheduled ChangeAvailabilityStatus = "Scheduled"
)

type ChangeAvailabilityRequest struct {
	OperationalStatus types.OperationalStatus `json:"operationalStatus" validate:"required"`
	Evse              *types.EVSE             `json:"evse,omitempty"`
}

type ChangeAvailabilityResponse struct {
	Status     ChangeAvailabilityStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo        `json:"statusInfo,omitempty"`
}

func (r ChangeAvailabilityRequest) GetFeatureName() string {
	return ChangeAvailabilityFeatureName
}

func (c ChangeAvailabilityResponse) GetFeatureName() string {
	return ChangeAvailabilityFeatureName
}

func NewChangeAvailabilityRequest(status types.OperationalStatus) *ChangeAvailabilityRequest {
	return &ChangeAvailabilityRequest{OperationalStatus: status}
}

func NewChangeAvailabilityResponse(status ChangeAvailabilityStatus) *ChangeAvailabilityResponse {
	return &ChangeAvailabilityResponse{Status: status}
}
