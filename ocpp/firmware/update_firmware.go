package firmware

import "cpsim/types"

const UpdateFirmwareFeatureName = "UpdateFirmware"

type UpdateFirmwareStatus string

const (
	UpdateFirmwareStatusAccepted           UpdateFirmwareStatus = "Accepted"
	UpdateFirmwareStatusRejected           UpdateFirmwareStatus = "Rejected"
	UpdateFirmwareStatusAcceptedCanceled   UpdateFirmwareStatus = "AcceptedCanceled"
	UpdateFirmwareStatusInvalidCertificate UpdateFirmwareStatus = "InvalidCertificate"
	UpdateFirmwareStatusRevokedCertificate UpdateFirmwareStatus = "RevokedCertificate"
)

type Firmware struct {
	Location           string          `json:"location" validate:"required,max=512"`
	RetrieveDateTime   *types.DateTime `json:"retrieveDateTime" validate:"required"`
	InstallDateTime    *types.DateTime `json:"installDateTime,omitempty"`
	SigningCertificate string          `json:"signingCertificate,omitempty" validate:"omitempty,max=5500"`
	Signature          string          `json:"signature,omitempty" validate:"omitempty,max=800"`
}

type UpdateFirmwareRequest struct {
	Retries       *int     `json:"retries,omitempty" validate:"omitempty,gte=0"`
	RetryInterval *int     `json:"retryInterval,omitempty" validate:"omitempty,gte=0"`
	RequestId     int      `json:"requestId" validate:"gte=0"`
	Firmware      Firmware `json:"firmware" validate:"required"`
}

type UpdateFirmwareResponse struct {
	Status     UpdateFirmwareStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo    `json:"statusInfo,omitempty"`
}

func (r UpdateFirmwareRequest) GetFeatureName() string {
	return UpdateFirmwareFeatureName
}

func (c UpdateFirmwareResponse) GetFeatureName() string {
	return UpdateFirmwareFeatureName
}

func NewUpdateFirmwareRequest(requestId int, fw Firmware) *UpdateFirmwareRequest {
	return &UpdateFirmwareRequest{RequestId: requestId, Firmware: fw}
}

func NewUpdateFirmwareResponse(status UpdateFirmwareStatus) *UpdateFirmwareResponse {
	return &UpdateFirmwareResponse{Status: status}
}
