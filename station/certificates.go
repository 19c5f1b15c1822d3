package station

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"

	"cpsim/ocpp/security"
	"cpsim/types"
)

type installedCertificate struct {
	certType types.CertificateType
	pemData  string
	hashData types.CertificateHashData
}

// certificateStore keeps installed CA certificates in memory, keyed by the
// exact PEM bytes. Installing the same bytes twice replaces the entry.
type certificateStore struct {
	certs map[string]*installedCertificate
}

func newCertificateStore() *certificateStore {
	return &certificateStore{certs: make(map[string]*installedCertificate)}
}

// hashCertificate derives the OCSP-style hash data from the PEM block. The
// issuer fields hash the certificate's own issuer name and public key, which
// for the self-signed roots used here equals the subject.
func hashCertificate(pemData string) (types.CertificateHashData, error) {
	block, _ := pem.Decode([]byte(pemData))
	if block == nil || block.Type != "CERTIFICATE" {
		return types.CertificateHashData{}, fmt.Errorf("no certificate block in input")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return types.CertificateHashData{}, err
	}
	nameHash := sha256.Sum256(cert.RawIssuer)
	keyHash := sha256.Sum256(cert.RawSubjectPublicKeyInfo)
	return types.CertificateHashData{
		HashAlgorithm:  types.HashAlgorithmSHA256,
		IssuerNameHash: hex.EncodeToString(nameHash[:]),
		IssuerKeyHash:  hex.EncodeToString(keyHash[:]),
		SerialNumber:   cert.SerialNumber.Text(16),
	}, nil
}

func (s *certificateStore) Install(certType types.CertificateType, pemData string) error {
	hashData, err := hashCertificate(pemData)
	if err != nil {
		return err
	}
	s.certs[pemData] = &installedCertificate{certType: certType, pemData: pemData, hashData: hashData}
	return nil
}

func (s *certificateStore) List(filter []types.CertificateType) []types.CertificateHashDataChain {
	var chains []types.CertificateHashDataChain
	for _, cert := range s.certs {
		if len(filter) > 0 && !containsCertType(filter, cert.certType) {
			continue
		}
		chains = append(chains, types.CertificateHashDataChain{
			CertificateType:     cert.certType,
			CertificateHashData: cert.hashData,
		})
	}
	return chains
}

// Delete removes the certificate whose hash data matches field for field.
func (s *certificateStore) Delete(hashData types.CertificateHashData) bool {
	for key, cert := range s.certs {
		if cert.hashData == hashData {
			delete(s.certs, key)
			return true
		}
	}
	return false
}

func (s *certificateStore) Len() int {
	return len(s.certs)
}

// GenerateCsr produces a placeholder signing request body for the station.
// The simulation never signs real keys, so opaque base64 content suffices
// for the exchange.
func (s *certificateStore) GenerateCsr(stationId string) string {
	return base64.StdEncoding.EncodeToString([]byte("CSR:CN=" + stationId))
}

func containsCertType(values []types.CertificateType, v types.CertificateType) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

func (e *Engine) onInstallCertificate(request *security.InstallCertificateRequest) *security.InstallCertificateResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.certs.Install(request.CertificateType, request.Certificate); err != nil {
		e.logger.Warn("install certificate: " + err.Error())
		return security.NewInstallCertificateResponse(security.InstallCertificateStatusRejected)
	}
	go func() {
		if err := e.SendSecurityEvent("ReconfigurationOfSecurityParameters", "certificate installed"); err != nil {
			e.logger.Error("security event", err)
		}
	}()
	return security.NewInstallCertificateResponse(security.InstallCertificateStatusAccepted)
}

func (e *Engine) onGetInstalledCertificateIds(request *security.GetInstalledCertificateIdsRequest) *security.GetInstalledCertificateIdsResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	chains := e.certs.List(request.CertificateType)
	if len(chains) == 0 {
		return security.NewGetInstalledCertificateIdsResponse(security.GetInstalledCertificateStatusNotFound)
	}
	response := security.NewGetInstalledCertificateIdsResponse(security.GetInstalledCertificateStatusAccepted)
	response.CertificateHashDataChain = chains
	return response
}

func (e *Engine) onDeleteCertificate(request *security.DeleteCertificateRequest) *security.DeleteCertificateResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.certs.Delete(request.CertificateHashData) {
		return security.NewDeleteCertificateResponse(security.DeleteCertificateStatusAccepted)
	}
	return security.NewDeleteCertificateResponse(security.DeleteCertificateStatusNotFound)
}

// onCertificateSigned accepts the chain the peer signed for an earlier
// signing request. The simulated station stores nothing; a parseable leaf
// is enough to accept.
func (e *Engine) onCertificateSigned(request *security.CertificateSignedRequest) *security.CertificateSignedResponse {
	if request.CertificateChain == "" {
		return security.NewCertificateSignedResponse(security.CertificateSignedStatusRejected)
	}
	return security.NewCertificateSignedResponse(security.CertificateSignedStatusAccepted)
}
