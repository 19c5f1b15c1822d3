package security

import "cpsim/types"

const (
	SignCertificateFeatureName   = "SignCertificate"
	CertificateSignedFeatureName = "CertificateSigned"
)

type CertificateSigningUse string

const (
	CertificateSigningUseChargingStation CertificateSigningUse = "ChargingStationCertificate"
	CertificateSigningUseV2G             CertificateSigningUse = "V2GCertificate"
)

type CertificateSignedStatus string

const (
	CertificateSignedStatusAccepted CertificateSignedStatus = "Accepted"
	CertificateSignedStatusRejected CertificateSignedStatus = "Rejected"
)

type SignCertificateRequest struct {
	Csr             string                `json:"csr" validate:"required,max=5500"`
	CertificateType CertificateSigningUse `json:"certificateType,omitempty"`
}

type SignCertificateResponse struct {
	Status     types.GenericStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo   `json:"statusInfo,omitempty"`
}

type CertificateSignedRequest struct {
	CertificateChain string                `json:"certificateChain" validate:"required,max=10000"`
	CertificateType  CertificateSigningUse `json:"certificateType,omitempty"`
}

type CertificateSignedResponse struct {
	Status     CertificateSignedStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo       `json:"statusInfo,omitempty"`
}

func (r SignCertificateRequest) GetFeatureName() string {
	return SignCertificateFeatureName
}

func (c SignCertificateResponse) GetFeatureName() string {
	return SignCertificateFeatureName
}

func (r CertificateSignedRequest) GetFeatureName() string {
	return CertificateSignedFeatureName
}

func (c CertificateSignedResponse) GetFeatureName() string {
	return CertificateSignedFeatureName
}

func NewSignCertificateRequest(csr string) *SignCertificateRequest {
	return &SignCertificateRequest{Csr: csr}
}

func NewSignCertificateResponse(status types.GenericStatus) *SignCertificateResponse {
	return &SignCertificateResponse{Status: status}
}

func NewCertificateSignedRequest(chain string) *CertificateSignedRequest {
	return &CertificateSignedRequest{CertificateChain: chain}
}

func NewCertificateSignedResponse(status CertificateSignedStatus) *CertificateSignedResponse {
	return &CertificateSignedResponse{Status: status}
}
