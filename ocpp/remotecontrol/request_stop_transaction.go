package remotecontrol

import "cpsim/types"

const RequestStopTransactionFeatureName = "RequestStopTransaction"

type RequestStopTransactionRequest struct {
	TransactionId string `json:"transactionId" validate:"required,max=36"`
}

type RequestStopTransactionResponse struct {
	Status     RequestStartStopStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo      `json:"statusInfo,omitempty"`
}

func (r RequestStopTransactionRequest) GetFeatureName() string {
	return RequestStopTransactionFeatureName
}

func (c RequestStopTransactionResponse) GetFeatureName() string {
	return RequestStopTransactionFeatureName
}

func NewRequestStopTransactionRequest(transactionId string) *RequestStopTransactionRequest {
	return &RequestStopTransactionRequest{TransactionId: transactionId}
}

func NewRequestStopTransactionResponse(status RequestStartStopStatus) *RequestStopTransactionResponse {
	return &RequestStopTransactionResponse{Status: status}
}
