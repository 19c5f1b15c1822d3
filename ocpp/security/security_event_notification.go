package security

import "cpsim/types"

const SecurityEventNotificationFeatureName = "SecurityEventNotification"

const (
	SecurityEventSettingSystemTime  = "SettingSystemTime"
	SecurityEventStartupOfDevice    = "StartupOfTheDevice"
	SecurityEventResetOrReboot      = "ResetOrReboot"
	SecurityEventReconfiguration    = "ReconfigurationOfSecurityParameters"
	SecurityEventInvalidMessages    = "InvalidMessages"
	SecurityEventTamperDetection    = "TamperDetectionActivated"
	SecurityEventInvalidFirmware    = "InvalidFirmwareSignature"
	SecurityEventInvalidCertificate = "InvalidChargingStationCertificate"
	SecurityEventInvalidCsmsCert    = "InvalidCentralSystemCertificate"
	SecurityEventMemoryExhaustion   = "MemoryExhaustion"
	SecurityEventFirmwareUpdated    = "FirmwareUpdated"
)

type SecurityEventNotificationRequest struct {
	Type      string          `json:"type" validate:"required,max=50"`
	Timestamp *types.DateTime `json:"timestamp" validate:"required"`
	TechInfo  string          `json:"techInfo,omitempty" validate:"omitempty,max=255"`
}

type SecurityEventNotificationResponse struct {
}

func (r SecurityEventNotificationRequest) GetFeatureName() string {
	return SecurityEventNotificationFeatureName
}

func (c SecurityEventNotificationResponse) GetFeatureName() string {
	return SecurityEventNotificationFeatureName
}

func NewSecurityEventNotificationRequest(eventType string) *SecurityEventNotificationRequest {
	return &SecurityEventNotificationRequest{Type: eventType, Timestamp: types.Now()}
}

func NewSecurityEventNotificationResponse() *SecurityEventNotificationResponse {
	return &SecurityEventNotificationResponse{}
}
