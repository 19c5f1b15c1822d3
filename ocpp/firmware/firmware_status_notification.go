package firmware

const StatusNotificationFeatureName = "FirmwareStatusNotification"

type Status string

const (
	StatusDownloaded                Status = "Downloaded"
	StatusDownloadFailed            Status = "DownloadFailed"
	StatusDownloading               Status = "Downloading"
	StatusDownloadScheduled         Status = "DownloadScheduled"
	StatusDownloadPaused            Status = "DownloadPaused"
	StatusIdle                      Status = "Idle"
	StatusInstallationFailed        Status = "InstallationFailed"
	StatusInstalling                Status = "Installing"
	StatusInstalled                 Status = "Installed"
	StatusInstallRebooting          Status = "InstallRebooting"
	StatusInstallScheduled          Status = "InstallScheduled"
	StatusInstallVerificationFailed Status = "InstallVerificationFailed"
	StatusInvalidSignature          Status = "InvalidSignature"
	StatusSignatureVerified         Status = "SignatureVerified"
)

type StatusNotificationRequest struct {
	Status    Status `json:"status" validate:"required"`
	RequestId *int   `json:"requestId,omitempty" validate:"omitempty,gte=0"`
}

type StatusNotificationResponse struct {
}

func (r StatusNotificationRequest) GetFeatureName() string {
	return StatusNotificationFeatureName
}

func (c StatusNotificationResponse) GetFeatureName() string {
	return StatusNotificationFeatureName
}

func NewStatusNotificationRequest(status Status, requestId *int) *StatusNotificationRequest {
	return &StatusNotificationRequest{Status: status, RequestId: requestId}
}

func NewStatusNotificationResponse() *StatusNotificationResponse {
	return &StatusNotificationResponse{}
}
