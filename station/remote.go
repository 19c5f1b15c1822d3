package station

import (
	"time"

	"cpsim/ocpp/availability"
	"cpsim/ocpp/datatransfer"
	"cpsim/ocpp/firmware"
	"cpsim/ocpp/meter"
	"cpsim/ocpp/provisioning"
	"cpsim/ocpp/remotecontrol"
	"cpsim/ocpp/security"
	"cpsim/ocpp/transactions"
	"cpsim/types"
)

// onRequestStartTransaction accepts when a connector is free; the transaction
// itself starts after the reply, carrying the remoteStartId back on the
// Started event.
func (e *Engine) onRequestStartTransaction(request *remotecontrol.RequestStartTransactionRequest) *remotecontrol.RequestStartTransactionResponse {
	e.mu.Lock()
	evseId := 0
	if request.EvseId != nil {
		evseId = *request.EvseId
		if _, ok := e.state.Evses[evseId]; !ok {
			e.mu.Unlock()
			return remotecontrol.NewRequestStartTransactionResponse(remotecontrol.RequestStartStopStatusRejected)
		}
	} else {
		free, ok := e.state.firstFreeEvse("")
		if !ok {
			e.mu.Unlock()
			return remotecontrol.NewRequestStartTransactionResponse(remotecontrol.RequestStartStopStatusRejected)
		}
		evseId = free
	}
	if e.state.transactionOn(evseId, 1) != nil {
		e.mu.Unlock()
		return remotecontrol.NewRequestStartTransactionResponse(remotecontrol.RequestStartStopStatusRejected)
	}
	token := request.IdToken
	e.lastToken = &token
	e.state.Lifecycle = StateAuthorized
	if request.ChargingProfile != nil {
		profile := *request.ChargingProfile
		e.state.Profiles[profileKey{evseId, profile.ChargingProfilePurpose, profile.StackLevel}] = profile
	}
	remoteStartId := request.RemoteStartId
	e.mu.Unlock()

	go func() {
		if err := e.startTransaction(evseId, 1, &token, transactions.TriggerReasonRemoteStart, transactions.ChargingStateIdle, &remoteStartId); err != nil {
			e.logger.Error("remote start", err)
		}
	}()
	return remotecontrol.NewRequestStartTransactionResponse(remotecontrol.RequestStartStopStatusAccepted)
}

func (e *Engine) onRequestStopTransaction(request *remotecontrol.RequestStopTransactionRequest) *remotecontrol.RequestStopTransactionResponse {
	e.mu.Lock()
	var target *Transaction
	for _, tx := range e.state.Transactions {
		if tx.TransactionId == request.TransactionId {
			target = tx
			break
		}
	}
	e.mu.Unlock()
	if target == nil {
		return remotecontrol.NewRequestStopTransactionResponse(remotecontrol.RequestStartStopStatusRejected)
	}
	go func() {
		if err := e.EndTransaction(target.EvseId, target.ConnectorId, transactions.StoppedReasonRemote); err != nil {
			e.logger.Error("remote stop", err)
		}
	}()
	return remotecontrol.NewRequestStopTransactionResponse(remotecontrol.RequestStartStopStatusAccepted)
}

// onTriggerMessage replays the requested notification. The response goes out
// before the triggered call, which runs as its own goroutine.
func (e *Engine) onTriggerMessage(request *remotecontrol.TriggerMessageRequest) *remotecontrol.TriggerMessageResponse {
	switch request.RequestedMessage {
	case remotecontrol.MessageTriggerBootNotification:
		go func() {
			if _, err := e.Boot(provisioning.BootReasonTriggered); err != nil {
				e.logger.Error("triggered boot", err)
			}
		}()
	case remotecontrol.MessageTriggerHeartbeat:
		go func() {
			if _, err := e.Heartbeat(); err != nil {
				e.logger.Error("triggered heartbeat", err)
			}
		}()
	case remotecontrol.MessageTriggerStatusNotification:
		if request.Evse == nil || request.Evse.ConnectorId == nil {
			return remotecontrol.NewTriggerMessageResponse(remotecontrol.TriggerMessageStatusRejected)
		}
		e.mu.Lock()
		connector, err := e.state.connector(request.Evse.Id, *request.Evse.ConnectorId)
		e.mu.Unlock()
		if err != nil {
			return remotecontrol.NewTriggerMessageResponse(remotecontrol.TriggerMessageStatusRejected)
		}
		evseId, connectorId, status := request.Evse.Id, *request.Evse.ConnectorId, connector.Status
		go e.notifyStatus(evseId, connectorId, status)
	case remotecontrol.MessageTriggerMeterValues:
		evseId := 1
		if request.Evse != nil {
			evseId = request.Evse.Id
		}
		go e.sendMeterValues(evseId)
	case remotecontrol.MessageTriggerTransactionEvent:
		e.mu.Lock()
		var target *Transaction
		for _, tx := range e.state.Transactions {
			if request.Evse == nil || tx.EvseId == request.Evse.Id {
				target = tx
				break
			}
		}
		e.mu.Unlock()
		if target == nil {
			return remotecontrol.NewTriggerMessageResponse(remotecontrol.TriggerMessageStatusRejected)
		}
		go func() {
			if err := e.updateTransaction(target, transactions.TriggerReasonTrigger, target.ChargingState); err != nil {
				e.logger.Error("triggered transaction event", err)
			}
		}()
	case remotecontrol.MessageTriggerFirmwareStatusNotification:
		e.mu.Lock()
		status := firmware.StatusIdle
		if e.fw != nil {
			status = e.fw.status
		}
		e.mu.Unlock()
		go func() {
			if _, err := e.Call(firmware.NewStatusNotificationRequest(status, nil)); err != nil {
				e.logger.Error("triggered firmware status", err)
			}
		}()
	case remotecontrol.MessageTriggerSignChargingStationCertificate:
		go func() {
			request := &security.SignCertificateRequest{
				Csr:             e.certs.GenerateCsr(e.conf.Station.Id),
				CertificateType: security.CertificateSigningUseChargingStation,
			}
			if _, err := e.Call(request); err != nil {
				e.logger.Error("sign certificate", err)
			}
		}()
	default:
		return remotecontrol.NewTriggerMessageResponse(remotecontrol.TriggerMessageStatusNotImplemented)
	}
	return remotecontrol.NewTriggerMessageResponse(remotecontrol.TriggerMessageStatusAccepted)
}

func (e *Engine) sendMeterValues(evseId int) {
	e.mu.Lock()
	energy := 0.0
	for _, tx := range e.state.Transactions {
		if tx.EvseId == evseId {
			energy = tx.energyWh
			break
		}
	}
	e.mu.Unlock()
	sample := types.MeterValue{
		Timestamp: types.Now(),
		SampledValue: []types.SampledValue{{
			Value:         energy,
			Context:       types.ReadingContextTrigger,
			Measurand:     types.MeasurandEnergyActiveImportRegister,
			UnitOfMeasure: &types.UnitOfMeasure{Unit: "Wh"},
		}},
	}
	if _, err := e.Call(meter.NewMeterValuesRequest(evseId, []types.MeterValue{sample})); err != nil {
		e.logger.Error("meter values", err)
	}
}

// onChangeAvailability takes effect at once on idle connectors. A connector
// with a running transaction keeps serving it; the change is recorded and
// applied when the transaction ends, which the Scheduled status signals.
func (e *Engine) onChangeAvailability(request *availability.ChangeAvailabilityRequest) *availability.ChangeAvailabilityResponse {
	e.mu.Lock()
	var keys []evseKey
	if request.Evse != nil {
		evse, ok := e.state.Evses[request.Evse.Id]
		if !ok {
			e.mu.Unlock()
			return availability.NewChangeAvailabilityResponse(availability.ChangeAvailabilityStatusRejected)
		}
		if request.Evse.ConnectorId != nil {
			if _, ok := evse.Connectors[*request.Evse.ConnectorId]; !ok {
				e.mu.Unlock()
				return availability.NewChangeAvailabilityResponse(availability.ChangeAvailabilityStatusRejected)
			}
			keys = append(keys, evseKey{evse.Id, *request.Evse.ConnectorId})
		} else {
			for connectorId := range evse.Connectors {
				keys = append(keys, evseKey{evse.Id, connectorId})
			}
		}
	} else {
		for evseId, evse := range e.state.Evses {
			for connectorId := range evse.Connectors {
				keys = append(keys, evseKey{evseId, connectorId})
			}
		}
	}

	scheduled := false
	type change struct {
		key    evseKey
		status types.ConnectorStatus
	}
	var applied []change
	for _, key := range keys {
		if e.state.Transactions[key] != nil {
			e.pendingAvailability[key] = request.OperationalStatus
			scheduled = true
			continue
		}
		connector := e.state.Evses[key.evseId].Connectors[key.connectorId]
		status := types.ConnectorStatusAvailable
		if request.OperationalStatus == types.OperationalStatusInoperative {
			status = types.ConnectorStatusUnavailable
		}
		if connector.Status != status {
			connector.Status = status
			applied = append(applied, change{key, status})
		}
	}
	e.mu.Unlock()

	for _, c := range applied {
		go e.notifyStatus(c.key.evseId, c.key.connectorId, c.status)
	}
	if scheduled {
		return availability.NewChangeAvailabilityResponse(availability.ChangeAvailabilityStatusScheduled)
	}
	return availability.NewChangeAvailabilityResponse(availability.ChangeAvailabilityStatusAccepted)
}

// applyPendingAvailability runs after a transaction ends on the key.
func (e *Engine) applyPendingAvailability(key evseKey) {
	e.mu.Lock()
	operational, ok := e.pendingAvailability[key]
	if !ok {
		e.mu.Unlock()
		return
	}
	delete(e.pendingAvailability, key)
	connector := e.state.Evses[key.evseId].Connectors[key.connectorId]
	status := types.ConnectorStatusAvailable
	if operational == types.OperationalStatusInoperative {
		status = types.ConnectorStatusUnavailable
	}
	connector.Status = status
	e.mu.Unlock()
	e.notifyStatus(key.evseId, key.connectorId, status)
}

func (e *Engine) onGetTransactionStatus(request *transactions.GetTransactionStatusRequest) *transactions.GetTransactionStatusResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	if request.TransactionId == "" {
		return transactions.NewGetTransactionStatusResponse(nil, len(e.offlineQueue) > 0)
	}
	ongoing := false
	for _, tx := range e.state.Transactions {
		if tx.TransactionId == request.TransactionId {
			ongoing = true
			break
		}
	}
	queued := false
	for _, queuedEvent := range e.offlineQueue {
		if queuedEvent.TransactionInfo.TransactionId == request.TransactionId {
			queued = true
			break
		}
	}
	return transactions.NewGetTransactionStatusResponse(&ongoing, queued)
}

func (e *Engine) onDataTransfer(request *datatransfer.DataTransferRequest) *datatransfer.DataTransferResponse {
	if request.VendorId != e.conf.Station.VendorName {
		return datatransfer.NewDataTransferResponse(datatransfer.DataTransferStatusUnknownVendorId)
	}
	switch request.MessageId {
	case "", "Echo":
		response := datatransfer.NewDataTransferResponse(datatransfer.DataTransferStatusAccepted)
		response.Data = request.Data
		return response
	case "Uptime":
		response := datatransfer.NewDataTransferResponse(datatransfer.DataTransferStatusAccepted)
		response.Data = time.Since(e.startedAt).String()
		return response
	default:
		return datatransfer.NewDataTransferResponse(datatransfer.DataTransferStatusUnknownMessageId)
	}
}
