package security

import "cpsim/types"

const InstallCertificateFeatureName = "InstallCertificate"

type InstallCertificateStatus string

const (
	InstallCertificateStatusAccepted InstallCertificateStatus = "Accepted"
	InstallCertificateStatusRejected InstallCertificateStatus = "Rejected"
	InstallCertificateStatusFailed   InstallCertificateStatus = "Failed"
)

type InstallCertificateRequest struct {
	CertificateType types.CertificateType `json:"certificateType" validate:"required"`
	Certificate     string                `json:"certificate" validate:"required,max=5500"`
}

type InstallCertificateResponse struct {
	Status     InstallCertificateStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo        `json:"statusInfo,omitempty"`
}

func (r InstallCertificateRequest) GetFeatureName() string {
	return InstallCertificateFeatureName
}

func (c InstallCertificateResponse) GetFeatureName() string {
	return InstallCertificateFeatureName
}

func NewInstallCertificateRequest(certType types.CertificateType, certificate string) *InstallCertificateRequest {
	return &InstallCertificateRequest{CertificateType: certType, Certificate: certificate}
}

func NewInstallCertificateResponse(status InstallCertificateStatus) *InstallCertificateResponse {
	return &InstallCertificateResponse{Status: status}
}
