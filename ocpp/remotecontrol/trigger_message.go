package remotecontrol

import "cpsim/types"

const TriggerMessageFeatureName = "TriggerMessage"

type MessageTrigger string
type TriggerMessageStatus string

const (
	MessageTriggerBootNotification               MessageTrigger = "BootNotification"
	MessageTriggerLogStatusNotification          MessageTrigger = "LogStatusNotification"
	MessageTriggerFirmwareStatusNotification     MessageTrigger = "FirmwareStatusNotification"
	MessageTriggerHeartbeat                      MessageTrigger = "Heartbeat"
	MessageTriggerMeterValues                    MessageTrigger = "MeterValues"
	MessageTriggerSignChargingStationCertificate MessageTrigger = "SignChargingStationCertificate"
	MessageTriggerSignV2GCertificate             MessageTrigger = "SignV2GCertificate"
	MessageTriggerSignCombinedCertificate        MessageTrigger = "SignCombinedCertificate"
	MessageTriggerStatusNotification             MessageTrigger = "StatusNotification"
	MessageTriggerTransactionEvent               MessageTrigger = "TransactionEvent"

	TriggerMessageStatusAccepted       TriggerMessageStatus = "Accepted"
	TriggerMessageStatusRejected       TriggerMessageStatus = "Rejected"
	TriggerMessageStatusNotImplemented TriggerMessageStatus = "NotImplemented"
)

type TriggerMessageRequest struct {
	RequestedMessage MessageTrigger `json:"requestedMessage" validate:"required"`
	Evse             *types.EVSE    `json:"evse,omitempty"`
}

type TriggerMessageResponse struct {
	Status     TriggerMessageStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo    `json:"statusInfo,omitempty"`
}

func (r TriggerMessageRequest) GetFeatureName() string {
	return TriggerMessageFeatureName
}

func (c TriggerMessageResponse) GetFeatureName() string {
	return TriggerMessageFeatureName
}

func NewTriggerMessageRequest(requested MessageTrigger) *TriggerMessageRequest {
	return &TriggerMessageRequest{RequestedMessage: requested}
}

func NewTriggerMessageResponse(status TriggerMessageStatus) *TriggerMessageResponse {
	return &TriggerMessageResponse{Status: status}
}
