package availability

import "cpsim/types"

const StatusNotificationFeatureName = "StatusNotification"

type StatusNotificationRequest struct {
	Timestamp       *types.DateTime       `json:"timestamp" validate:"required"`
	ConnectorStatus types.ConnectorStatus `json:"connectorStatus" validate:"required"`
	EvseId          int                   `json:"evseId" validate:"gt=0"`
	ConnectorId     int                   `json:"connectorId" validate:"gt=0"`
}

type StatusNotificationResponse struct {
}

func (r StatusNotificationRequest) GetFeatureName() string {
	return StatusNotificationFeatureName
}

func (c StatusNotificationResponse) GetFeatureName() string {
	return StatusNotificationFeatureName
}

func NewStatusNotificationRequest(evseId, connectorId int, status types.ConnectorStatus) *StatusNotificationRequest {
	return &StatusNotificationRequest{
		Timestamp:       types.Now(),
		ConnectorStatus: status,
		EvseId:          evseId,
		ConnectorId:     connectorId,
	}
}

func NewStatusNotificationResponse() *StatusNotificationResponse {
	return &StatusNotificationResponse{}
}
