package authorization

import "cpsim/types"

const AuthorizeFeatureName = "Authorize"

type CertificateStatus string

const (
	CertificateStatusAccepted               CertificateStatus = "Accepted"
	CertificateStatusSignatureError         CertificateStatus = "SignatureError"
	CertificateStatusCertificateExpired     CertificateStatus = "CertificateExpired"
	CertificateStatusCertificateRevoked     CertificateStatus = "CertificateRevoked"
	CertificateStatusNoCertificateAvailable CertificateStatus = "NoCertificateAvailable"
	CertificateStatusCertChainError         CertificateStatus = "CertChainError"
	CertificateStatusContractCancelled      CertificateStatus = "ContractCancelled"
)

type AuthorizeRequest struct {
	Certificate string        `json:"certificate,omitempty" validate:"omitempty,max=5500"`
	IdToken     types.IdToken `json:"idToken" validate:"required"`
}

type AuthorizeResponse struct {
	CertificateStatus CertificateStatus `json:"certificateStatus,omitempty"`
	IdTokenInfo       types.IdTokenInfo `json:"idTokenInfo" validate:"required"`
}

func (r AuthorizeRequest) GetFeatureName() string {
	return AuthorizeFeatureName
}

func (c AuthorizeResponse) GetFeatureName() string {
	return AuthorizeFeatureName
}

func NewAuthorizeRequest(idToken types.IdToken) *AuthorizeRequest {
	return &AuthorizeRequest{IdToken: idToken}
}

func NewAuthorizeResponse(info types.IdTokenInfo) *AuthorizeResponse {
	return &AuthorizeResponse{IdTokenInfo: info}
}
