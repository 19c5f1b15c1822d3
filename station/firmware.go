package station

import (
	"time"

	"cpsim/ocpp/firmware"
	"cpsim/ocpp/provisioning"
)

// firmwareRun tracks one update from acceptance to its terminal status.
type firmwareRun struct {
	requestId int
	status    firmware.Status
	cancel    chan struct{}
}

// onUpdateFirmware starts the staged download and install pipeline. A second
// request while one runs either cancels the running one or is rejected,
// according to configuration.
func (e *Engine) onUpdateFirmware(request *firmware.UpdateFirmwareRequest) *firmware.UpdateFirmwareResponse {
	e.mu.Lock()
	status := firmware.UpdateFirmwareStatusAccepted
	if e.fw != nil && !terminalFirmwareStatus(e.fw.status) {
		if !e.conf.Firmware.CancelOnNewRequest {
			e.mu.Unlock()
			return firmware.NewUpdateFirmwareResponse(firmware.UpdateFirmwareStatusRejected)
		}
		close(e.fw.cancel)
		status = firmware.UpdateFirmwareStatusAcceptedCanceled
	}
	run := &firmwareRun{
		requestId: request.RequestId,
		status:    firmware.StatusDownloadScheduled,
		cancel:    make(chan struct{}),
	}
	e.fw = run
	e.mu.Unlock()

	go e.runFirmwareUpdate(run)
	return firmware.NewUpdateFirmwareResponse(status)
}

func terminalFirmwareStatus(status firmware.Status) bool {
	switch status {
	case firmware.StatusInstalled, firmware.StatusDownloadFailed,
		firmware.StatusInstallationFailed, firmware.StatusInstallVerificationFailed,
		firmware.StatusInvalidSignature, firmware.StatusIdle:
		return true
	}
	return false
}

// SetFirmwareOutcome selects the terminal status the next update run reports,
// Installed when never set.
func (e *Engine) SetFirmwareOutcome(status firmware.Status) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.variables["FirmwareCtrlr.SimulatedOutcome"] = string(status)
}

func (e *Engine) firmwareOutcome() firmware.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.variables["FirmwareCtrlr.SimulatedOutcome"]; ok && v != "" {
		return firmware.Status(v)
	}
	return firmware.StatusInstalled
}

// runFirmwareUpdate walks the status ladder with a configurable delay per
// stage, reporting each transition. Installed ends with a reboot and a fresh
// boot handshake.
func (e *Engine) runFirmwareUpdate(run *firmwareRun) {
	outcome := e.firmwareOutcome()
	delay := time.Duration(e.conf.Firmware.StageDelayMillis) * time.Millisecond

	stages := []firmware.Status{firmware.StatusDownloading}
	switch outcome {
	case firmware.StatusDownloadFailed:
		stages = append(stages, firmware.StatusDownloadFailed)
	case firmware.StatusInvalidSignature:
		stages = append(stages, firmware.StatusDownloaded, firmware.StatusInvalidSignature)
	case firmware.StatusInstallationFailed:
		stages = append(stages, firmware.StatusDownloaded, firmware.StatusInstalling, firmware.StatusInstallationFailed)
	case firmware.StatusInstallVerificationFailed:
		stages = append(stages, firmware.StatusDownloaded, firmware.StatusInstalling, firmware.StatusInstallVerificationFailed)
	default:
		stages = append(stages, firmware.StatusDownloaded, firmware.StatusInstalling, firmware.StatusInstalled)
	}

	requestId := run.requestId
	for _, stage := range stages {
		select {
		case <-run.cancel:
			return
		case <-time.After(delay):
		}
		e.mu.Lock()
		if e.fw != run {
			e.mu.Unlock()
			return
		}
		run.status = stage
		e.mu.Unlock()
		if _, err := e.Call(firmware.NewStatusNotificationRequest(stage, &requestId)); err != nil {
			e.logger.Error("firmware status", err)
			return
		}
	}

	if run.status == firmware.StatusInstalled {
		e.Disconnect()
		if err := e.Reconnect(); err != nil {
			e.logger.Error("post-update reconnect", err)
			return
		}
		if _, err := e.Boot(provisioning.BootReasonFirmwareUpdate); err != nil {
			e.logger.Error("post-update boot", err)
		}
	}
}
