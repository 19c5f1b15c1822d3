package reservation

import "cpsim/types"

const ReserveNowFeatureName = "ReserveNow"

type ReserveNowStatus string

const (
	ReserveNowStatusAccepted    ReserveNowStatus = "Accepted"
	ReserveNowStatusFaulted     ReserveNowStatus = "Faulted"
	ReserveNowStatusOccupied    ReserveNowStatus = "Occupied"
	ReserveNowStatusRejected    ReserveNowStatus = "Rejected"
	ReserveNowStatusUnavailable ReserveNowStatus = "Unavailable"
)

type ReserveNowRequest struct {
	Id             int                 `json:"id" validate:"gte=0"`
	ExpiryDateTime *types.DateTime     `json:"expiryDateTime" validate:"required"`
	ConnectorType  types.ConnectorType `json:"connectorType,omitempty"`
	IdToken        types.IdToken       `json:"idToken" validate:"required"`
	EvseId         *int                `json:"evseId,omitempty" validate:"omitempty,gt=0"`
	GroupIdToken   *types.IdToken      `json:"groupIdToken,omitempty"`
}

type ReserveNowResponse struct {
	Status     ReserveNowStatus  `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo `json:"statusInfo,omitempty"`
}

func (r ReserveNowRequest) GetFeatureName() string {
	return ReserveNowFeatureName
}

func (c ReserveNowResponse) GetFeatureName() string {
	return ReserveNowFeatureName
}

func NewReserveNowRequest(id int, expiry *types.DateTime, idToken types.IdToken) *ReserveNowRequest {
	return &ReserveNowRequest{Id: id, ExpiryDateTime: expiry, IdToken: idToken}
}

func NewReserveNowResponse(status ReserveNowStatus) *ReserveNowResponse {
	return &ReserveNowResponse{Status: status}
}
