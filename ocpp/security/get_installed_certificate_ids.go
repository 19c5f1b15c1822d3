package security

import "cpsim/types"

const GetInstalledCertificateIdsFeatureName = "GetInstalledCertificateIds"

type GetInstalledCertificateStatus string

const (
	GetInstalledCertificateStatusAccepted GetInstalledCertificateStatus = "Accepted"
	GetInstalledCertificateStatusNotFound GetInstalledCertificateStatus = "NotFound"
)

type GetInstalledCertificateIdsRequest struct {
	CertificateType []types.CertificateType `json:"certificateType,omitempty" validate:"omitempty,dive,required"`
}

type GetInstalledCertificateIdsResponse struct {
	Status                   GetInstalledCertificateStatus    `json:"status" validate:"required"`
	CertificateHashDataChain []types.CertificateHashDataChain `json:"certificateHashDataChain,omitempty" validate:"omitempty,dive"`
	StatusInfo               *types.StatusInfo                `json:"statusInfo,omitempty"`
}

func (r GetInstalledCertificateIdsRequest) GetFeatureName() string {
	return GetInstalledCertificateIdsFeatureName
}

func (c GetInstalledCertificateIdsResponse) GetFeatureName() string {
	return GetInstalledCertificateIdsFeatureName
}

func NewGetInstalledCertificateIdsResponse(status GetInstalledCertificateStatus) *GetInstalledCertificateIdsResponse {
	return &GetInstalledCertificateIdsResponse{Status: status}
}
