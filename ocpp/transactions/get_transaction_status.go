package transactions

const GetTransactionStatusFeatureName = "GetTransactionStatus"

type GetTransactionStatusRequest struct {
	TransactionId string `json:"transactionId,omitempty" validate:"omitempty,max=36"`
}

type GetTransactionStatusResponse struct {
	OngoingIndicator *bool `json:"ongoingIndicator,omitempty"`
	MessagesInQueue  bool  `json:"messagesInQueue"`
}

func (r GetTransactionStatusRequest) GetFeatureName() string {
	return GetTransactionStatusFeatureName
}

func (c GetTransactionStatusResponse) GetFeatureName() string {
	return GetTransactionStatusFeatureName
}

func NewGetTransactionStatusResponse(ongoing *bool, queued bool) *GetTransactionStatusResponse {
	return &GetTransactionStatusResponse{OngoingIndicator: ongoing, MessagesInQueue: queued}
}
