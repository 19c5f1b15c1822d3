package security

import "cpsim/types"

const DeleteCertificateFeatureName = "DeleteCertificate"

type DeleteCertificateStatus string

const (
	DeleteCertificateStatusAccepted DeleteCertificateStatus = "Accepted"
	DeleteCertificateStatusFailed   DeleteCertificateStatus = "Failed"
	DeleteCertificateStatusNotFound DeleteCertificateStatus = "NotFound"
)

type DeleteCertificateRequest struct {
	CertificateHashData types.CertificateHashData `json:"certificateHashData" validate:"required"`
}

type DeleteCertificateResponse struct {
	Status     DeleteCertificateStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo       `json:"statusInfo,omitempty"`
}

func (r DeleteCertificateRequest) GetFeatureName() string {
	return DeleteCertificateFeatureName
}

func (c DeleteCertificateResponse) GetFeatureName() string {
	return DeleteCertificateFeatureName
}

func NewDeleteCertificateRequest(hashData types.CertificateHashData) *DeleteCertificateRequest {
	return &DeleteCertificateRequest{CertificateHashData: hashData}
}

func NewDeleteCertificateResponse(status DeleteCertificateStatus) *DeleteCertificateResponse {
	return &DeleteCertificateResponse{Status: status}
}
