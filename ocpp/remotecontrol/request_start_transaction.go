package remotecontrol

import "cpsim/types"

const RequestStartTransactionFeatureName = "RequestStartTransaction"

type RequestStartStopStatus string

const (
	RequestStartStopStatusAccepted RequestStartStopStatus = "Accepted"
	RequestStartStopStatusRejected RequestStartStopStatus = "Rejected"
)

type RequestStartTransactionRequest struct {
	EvseId          *int                   `json:"evseId,omitempty" validate:"omitempty,gt=0"`
	RemoteStartId   int                    `json:"remoteStartId" validate:"gte=0"`
	IdToken         types.IdToken          `json:"idToken" validate:"required"`
	ChargingProfile *types.ChargingProfile `json:"chargingProfile,omitempty"`
	GroupIdToken    *types.IdToken         `json:"groupIdToken,omitempty"`
}

type RequestStartTransactionResponse struct {
	Status        RequestStartStopStatus `json:"status" validate:"required"`
	TransactionId string                 `json:"transactionId,omitempty" validate:"omitempty,max=36"`
	StatusInfo    *types.StatusInfo      `json:"statusInfo,omitempty"`
}

func (r RequestStartTransactionRequest) GetFeatureName() string {
	return RequestStartTransactionFeatureName
}

func (c RequestStartTransactionResponse) GetFeatureName() string {
	return RequestStartTransactionFeatureName
}

func NewRequestStartTransactionRequest(remoteStartId int, idToken types.IdToken) *RequestStartTransactionRequest {
	return &RequestStartTransactionRequest{RemoteStartId: remoteStartId, IdToken: idToken}
}

func NewRequestStartTransactionResponse(status RequestStartStopStatus) *RequestStartTransactionResponse {
	return &RequestStartTransactionResponse{Status: status}
}
