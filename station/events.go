package station

import (
	"fmt"
	"time"

	"cpsim/metrics/counters"
	"cpsim/ocpp/authorization"
	"cpsim/ocpp/availability"
	"cpsim/ocpp/provisioning"
	"cpsim/ocpp/reservation"
	"cpsim/ocpp/security"
	"cpsim/ocpp/transactions"
	"cpsim/types"
	"cpsim/utility"
)

// Boot announces the station and, when accepted, reports every connector.
// While the registration status is Pending the station answers inbound
// variable calls but refrains from further own calls.
func (e *Engine) Boot(reason provisioning.BootReason) (*provisioning.BootNotificationResponse, error) {
	request := provisioning.NewBootNotificationRequest(reason, provisioning.ChargingStation{
		Model:        e.conf.Station.Model,
		VendorName:   e.conf.Station.VendorName,
		SerialNumber: e.conf.Station.SerialNumber,
	})
	response, err := e.Call(request)
	if err != nil {
		return nil, err
	}
	boot := response.(*provisioning.BootNotificationResponse)

	e.mu.Lock()
	e.state.Registration = string(boot.Status)
	if boot.Status == provisioning.RegistrationStatusAccepted {
		e.state.Lifecycle = StateAvailable
		if boot.Interval > 0 {
			e.setVariableLocked("OCPPCommCtrlr.HeartbeatInterval", fmt.Sprintf("%d", boot.Interval))
		}
	}
	e.mu.Unlock()

	if boot.Status == provisioning.RegistrationStatusAccepted {
		e.scheduleHeartbeat()
		e.reportAllConnectors()
	}
	return boot, nil
}

// SendSecurityEvent reports a security-relevant occurrence to the peer.
func (e *Engine) SendSecurityEvent(eventType, techInfo string) error {
	request := security.NewSecurityEventNotificationRequest(eventType)
	request.TechInfo = techInfo
	_, err := e.Call(request)
	return err
}

func (e *Engine) Heartbeat() (*provisioning.HeartbeatResponse, error) {
	response, err := e.Call(provisioning.NewHeartbeatRequest())
	if err != nil {
		return nil, err
	}
	return response.(*provisioning.HeartbeatResponse), nil
}

func (e *Engine) reportAllConnectors() {
	e.mu.Lock()
	type report struct {
		evseId, connectorId int
		status              types.ConnectorStatus
	}
	var reports []report
	for evseId, evse := range e.state.Evses {
		for connectorId, connector := range evse.Connectors {
			reports = append(reports, report{evseId, connectorId, connector.Status})
		}
	}
	e.mu.Unlock()
	for _, r := range reports {
		e.notifyStatus(r.evseId, r.connectorId, r.status)
	}
}

// notifyStatus emits the StatusNotification plus the matching NotifyEvent
// delta, the pair every availability change mandates.
func (e *Engine) notifyStatus(evseId, connectorId int, status types.ConnectorStatus) {
	if !e.Online() {
		return
	}
	if _, err := e.Call(availability.NewStatusNotificationRequest(evseId, connectorId, status)); err != nil {
		e.logger.Error("status notification", err)
	}
	e.mu.Lock()
	e.notifySeq++
	seq := e.notifySeq
	e.eventSeq++
	eventId := e.eventSeq
	e.mu.Unlock()
	event := availability.EventData{
		EventId:               eventId,
		Timestamp:             types.Now(),
		Trigger:               availability.EventTriggerDelta,
		ActualValue:           string(status),
		Component:             types.Component{Name: "Connector", EVSE: &types.EVSE{Id: evseId, ConnectorId: &connectorId}},
		Variable:              types.Variable{Name: "AvailabilityState"},
		EventNotificationType: availability.EventNotificationHardWiredNotification,
	}
	if _, err := e.Call(availability.NewNotifyEventRequest(seq, []availability.EventData{event})); err != nil {
		e.logger.Error("notify event", err)
	}
}

// Authorize resolves an idToken: local list first, then cache, then a remote
// Authorize call, unless policy forces the round trip. Offline, anything but
// an Accepted cache or list hit yields Unknown, and with LocalAuthorizeOffline
// disabled even those hits do.
func (e *Engine) Authorize(idToken types.IdToken) (*types.IdTokenInfo, error) {
	e.mu.Lock()
	forceRemote := e.conf.Authorization.ForceRemote
	cacheEnabled := e.conf.Authorization.CacheEnabled
	online := e.online
	if !forceRemote && (online || e.localAuthorizeOffline) {
		if info, ok := e.localList.Lookup(idToken.IdToken); ok {
			e.mu.Unlock()
			return info, nil
		}
		if cacheEnabled {
			if info, ok := e.cache.Lookup(idToken.IdToken, time.Now()); ok && info.Status == types.AuthorizationStatusAccepted {
				e.mu.Unlock()
				return info, nil
			}
		}
	}
	e.mu.Unlock()

	if !online {
		return types.NewIdTokenInfo(types.AuthorizationStatusUnknown), nil
	}
	response, err := e.Call(authorization.NewAuthorizeRequest(idToken))
	if err != nil {
		return nil, err
	}
	auth := response.(*authorization.AuthorizeResponse)
	if cacheEnabled {
		e.mu.Lock()
		e.cache.Upsert(idToken.IdToken, auth.IdTokenInfo, time.Now())
		e.mu.Unlock()
	}
	info := auth.IdTokenInfo
	return &info, nil
}

// PresentToken simulates an RFID or contract presentation on an EVSE. On an
// Accepted outcome the station is authorized and, when the configured start
// point is Authorized, the transaction starts immediately.
func (e *Engine) PresentToken(idToken types.IdToken, evseId int) (*types.IdTokenInfo, error) {
	info, err := e.Authorize(idToken)
	if err != nil {
		return nil, err
	}
	if info.Status != types.AuthorizationStatusAccepted {
		return info, nil
	}
	if len(info.EvseId) > 0 && !containsInt(info.EvseId, evseId) {
		rejected := types.NewIdTokenInfo(types.AuthorizationStatusNotAllowedTypeEVSE)
		return rejected, nil
	}
	e.mu.Lock()
	if reserved, ok := e.reservationOnEvse(evseId); ok {
		if !e.tokenMatchesReservation(idToken, info, reserved) {
			e.mu.Unlock()
			return types.NewIdTokenInfo(types.AuthorizationStatusInvalid), nil
		}
	}
	e.state.Lifecycle = StateAuthorized
	e.lastToken = &idToken
	startNow := e.txStartPoint == TxStartPointAuthorized
	e.mu.Unlock()

	if startNow {
		if err := e.startTransaction(evseId, 1, &idToken, transactions.TriggerReasonAuthorized, transactions.ChargingStateIdle, nil); err != nil {
			return info, err
		}
	}
	return info, nil
}

// PlugIn simulates the cable connecting on a connector.
func (e *Engine) PlugIn(evseId, connectorId int) error {
	e.mu.Lock()
	connector, err := e.state.connector(evseId, connectorId)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if connector.Status == types.ConnectorStatusFaulted || connector.Status == types.ConnectorStatusUnavailable {
		e.mu.Unlock()
		return utility.Err(fmt.Sprintf("connector %d/%d not usable: %s", evseId, connectorId, connector.Status))
	}
	connector.Status = types.ConnectorStatusOccupied
	tx := e.state.transactionOn(evseId, connectorId)
	authorized := e.state.Lifecycle == StateAuthorized
	startHere := tx == nil && authorized && e.txStartPoint == TxStartPointPowerPathClosed
	e.state.Lifecycle = StateEVConnectedPreSession
	idToken := e.authorizedTokenLocked()
	e.mu.Unlock()

	e.notifyStatus(evseId, connectorId, types.ConnectorStatusOccupied)

	if tx != nil {
		return e.updateTransaction(tx, transactions.TriggerReasonCablePluggedIn, transactions.ChargingStateEVConnected)
	}
	if startHere {
		return e.startTransaction(evseId, connectorId, idToken, transactions.TriggerReasonCablePluggedIn, transactions.ChargingStateEVConnected, nil)
	}
	return nil
}

// StartCharging simulates the power path closing and current flowing.
func (e *Engine) StartCharging(evseId, connectorId int) error {
	e.mu.Lock()
	tx := e.state.transactionOn(evseId, connectorId)
	authorized := e.state.Lifecycle == StateEVConnectedPreSession || e.state.Lifecycle == StateAuthorized
	idToken := e.authorizedTokenLocked()
	e.state.Lifecycle = StateEnergyTransferStarted
	if tx != nil {
		tx.startPointReached = true
	}
	e.mu.Unlock()

	if tx != nil {
		return e.updateTransaction(tx, transactions.TriggerReasonChargingStateChanged, transactions.ChargingStateCharging)
	}
	if !authorized {
		return utility.Err("energy transfer without authorization")
	}
	return e.startTransaction(evseId, connectorId, idToken, transactions.TriggerReasonChargingStateChanged, transactions.ChargingStateCharging, nil)
}

// SuspendCharging pauses energy transfer without ending the session.
func (e *Engine) SuspendCharging(evseId, connectorId int, byEV bool) error {
	e.mu.Lock()
	tx := e.state.transactionOn(evseId, connectorId)
	e.state.Lifecycle = StateEnergyTransferSuspended
	e.mu.Unlock()
	if tx == nil {
		return utility.Err("no active transaction to suspend")
	}
	state := transactions.ChargingStateSuspendedEVSE
	if byEV {
		state = transactions.ChargingStateSuspendedEV
	}
	return e.updateTransaction(tx, transactions.TriggerReasonChargingStateChanged, state)
}

func (e *Engine) ResumeCharging(evseId, connectorId int) error {
	e.mu.Lock()
	tx := e.state.transactionOn(evseId, connectorId)
	e.state.Lifecycle = StateEnergyTransferStarted
	e.mu.Unlock()
	if tx == nil {
		return utility.Err("no active transaction to resume")
	}
	return e.updateTransaction(tx, transactions.TriggerReasonChargingStateChanged, transactions.ChargingStateCharging)
}

// StopWithToken simulates presenting a token to end the session. The token
// must be the starting one or share its group.
func (e *Engine) StopWithToken(idToken types.IdToken, evseId, connectorId int) error {
	e.mu.Lock()
	tx := e.state.transactionOn(evseId, connectorId)
	e.mu.Unlock()
	if tx == nil {
		return utility.Err("no active transaction to stop")
	}
	info, err := e.Authorize(idToken)
	if err != nil {
		return err
	}
	if info.Status != types.AuthorizationStatusAccepted {
		return utility.Err("stop token not accepted: " + string(info.Status))
	}
	e.mu.Lock()
	e.state.Lifecycle = StateStopAuthorized
	e.mu.Unlock()
	if err := e.updateTransaction(tx, transactions.TriggerReasonStopAuthorized, transactions.ChargingStateEVConnected); err != nil {
		return err
	}
	return e.EndTransaction(evseId, connectorId, transactions.StoppedReasonLocal)
}

// EndTransaction closes the session with the given stopped reason.
func (e *Engine) EndTransaction(evseId, connectorId int, reason transactions.StoppedReason) error {
	e.mu.Lock()
	key := evseKey{evseId, connectorId}
	tx := e.state.Transactions[key]
	if tx == nil {
		e.mu.Unlock()
		return utility.Err(fmt.Sprintf("no active transaction on %d/%d", evseId, connectorId))
	}
	delete(e.state.Transactions, key)
	tx.EndedAt = types.Now()
	tx.ChargingState = transactions.ChargingStateIdle
	e.state.Lifecycle = StateEVConnectedPostSession
	counters.ObserveTransactions(e.conf.Station.Id, e.state.activeTransactionCount())
	request := transactions.NewTransactionEventRequest(transactions.TransactionEventEnded, transactions.TriggerReasonEVDeparted, tx.nextSeqNo(), transactions.Transaction{
		TransactionId: tx.TransactionId,
		ChargingState: transactions.ChargingStateIdle,
		StoppedReason: reason,
	})
	request.Evse = &types.EVSE{Id: evseId, ConnectorId: &connectorId}
	request.IdToken = tx.IdToken
	request.MeterValue = tx.MeterValues
	deliver := e.sendTransactionEventLocked(request)
	e.mu.Unlock()

	if deliver {
		e.deliverTransactionEvent(tx, request)
	}

	e.applyPendingAvailability(key)

	if e.resetPending() {
		e.performScheduledReset()
	}
	return nil
}

// Unplug frees the connector after the session ended.
func (e *Engine) Unplug(evseId, connectorId int) error {
	e.mu.Lock()
	connector, err := e.state.connector(evseId, connectorId)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	if tx := e.state.transactionOn(evseId, connectorId); tx != nil {
		e.mu.Unlock()
		return utility.Err("cannot unplug with an active transaction")
	}
	connector.Status = types.ConnectorStatusAvailable
	e.state.Lifecycle = StateAvailable
	e.mu.Unlock()
	e.notifyStatus(evseId, connectorId, types.ConnectorStatusAvailable)
	return nil
}

// TripFault simulates a hardware fault on a connector. A fault on a reserved
// connector removes the reservation with a Removed update.
func (e *Engine) TripFault(evseId, connectorId int) error {
	e.mu.Lock()
	connector, err := e.state.connector(evseId, connectorId)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	connector.Status = types.ConnectorStatusFaulted
	e.state.Lifecycle = StateFaulted
	removedReservation := 0
	if connector.ReservationId != 0 {
		if res := e.state.Reservations[connector.ReservationId]; res != nil && res.Status == ReservationActive {
			res.Status = ReservationRemoved
			removedReservation = res.Id
		}
		connector.ReservationId = 0
	}
	e.mu.Unlock()

	e.notifyStatus(evseId, connectorId, types.ConnectorStatusFaulted)
	if removedReservation != 0 {
		e.cancelExpiryJob(removedReservation)
		if _, err := e.Call(reservation.NewReservationStatusUpdateRequest(removedReservation, reservation.ReservationUpdateStatusRemoved)); err != nil {
			e.logger.Error("reservation status update", err)
		}
	}
	return nil
}

// ClearFault recovers the connector; Faulted requires explicit recovery.
func (e *Engine) ClearFault(evseId, connectorId int) error {
	e.mu.Lock()
	connector, err := e.state.connector(evseId, connectorId)
	if err != nil {
		e.mu.Unlock()
		return err
	}
	connector.Status = types.ConnectorStatusAvailable
	e.state.Lifecycle = StateAvailable
	e.mu.Unlock()
	e.notifyStatus(evseId, connectorId, types.ConnectorStatusAvailable)
	return nil
}

// MeterTick advances the simulated meter and emits a periodic Updated event
// carrying the sample.
func (e *Engine) MeterTick(evseId, connectorId int, energyWh float64) error {
	e.mu.Lock()
	tx := e.state.transactionOn(evseId, connectorId)
	if tx == nil {
		e.mu.Unlock()
		return utility.Err("no active transaction for meter values")
	}
	tx.energyWh += energyWh
	sample := types.MeterValue{
		Timestamp: types.Now(),
		SampledValue: []types.SampledValue{{
			Value:         tx.energyWh,
			Context:       types.ReadingContextSamplePeriodic,
			Measurand:     types.MeasurandEnergyActiveImportRegister,
			UnitOfMeasure: &types.UnitOfMeasure{Unit: "Wh"},
		}},
	}
	tx.MeterValues = append(tx.MeterValues, sample)
	request := transactions.NewTransactionEventRequest(transactions.TransactionEventUpdated, transactions.TriggerReasonMeterValuePeriodic, tx.nextSeqNo(), transactions.Transaction{
		TransactionId: tx.TransactionId,
		ChargingState: tx.ChargingState,
	})
	request.Evse = &types.EVSE{Id: evseId, ConnectorId: &connectorId}
	request.MeterValue = []types.MeterValue{sample}
	deliver := e.sendTransactionEventLocked(request)
	e.mu.Unlock()

	if deliver {
		e.deliverTransactionEvent(tx, request)
	}
	return nil
}

func (e *Engine) startTransaction(evseId, connectorId int, idToken *types.IdToken, trigger transactions.TriggerReason, state transactions.ChargingState, remoteStartId *int) error {
	e.mu.Lock()
	key := evseKey{evseId, connectorId}
	if existing := e.state.Transactions[key]; existing != nil {
		e.mu.Unlock()
		// second transaction on an occupied key is a programming error in the scenario
		return utility.Err(fmt.Sprintf("transaction already active on %d/%d", evseId, connectorId))
	}
	tx := &Transaction{
		TransactionId:     utility.NewUUID(),
		EvseId:            evseId,
		ConnectorId:       connectorId,
		IdToken:           idToken,
		ChargingState:     state,
		RemoteStartId:     remoteStartId,
		StartedAt:         types.Now(),
		startPointReached: true,
	}
	e.state.Transactions[key] = tx
	counters.ObserveTransactions(e.conf.Station.Id, e.state.activeTransactionCount())
	request := transactions.NewTransactionEventRequest(transactions.TransactionEventStarted, trigger, tx.nextSeqNo(), transactions.Transaction{
		TransactionId: tx.TransactionId,
		ChargingState: state,
		RemoteStartId: remoteStartId,
	})
	request.Evse = &types.EVSE{Id: evseId, ConnectorId: &connectorId}
	request.IdToken = idToken
	deliver := e.sendTransactionEventLocked(request)
	e.mu.Unlock()

	if deliver {
		e.deliverTransactionEvent(tx, request)
	}
	return nil
}

func (e *Engine) updateTransaction(tx *Transaction, trigger transactions.TriggerReason, state transactions.ChargingState) error {
	e.mu.Lock()
	tx.ChargingState = state
	request := transactions.NewTransactionEventRequest(transactions.TransactionEventUpdated, trigger, tx.nextSeqNo(), transactions.Transaction{
		TransactionId: tx.TransactionId,
		ChargingState: state,
	})
	request.Evse = &types.EVSE{Id: tx.EvseId, ConnectorId: &tx.ConnectorId}
	deliver := e.sendTransactionEventLocked(request)
	e.mu.Unlock()

	if deliver {
		e.deliverTransactionEvent(tx, request)
	}
	return nil
}

// sendTransactionEventLocked queues the event while offline so the seqNo and
// the queue slot are taken in one step, keeping the flush order identical to
// the emission order. It reports whether the caller must deliver the event
// after releasing the mutex.
func (e *Engine) sendTransactionEventLocked(request *transactions.TransactionEventRequest) bool {
	if e.online {
		return true
	}
	request.Offline = true
	e.offlineQueue = append(e.offlineQueue, request)
	counters.ObserveOfflineQueue(e.conf.Station.Id, len(e.offlineQueue))
	return false
}

func (e *Engine) deliverTransactionEvent(tx *Transaction, request *transactions.TransactionEventRequest) {
	response, err := e.Call(request)
	if err != nil {
		e.logger.Error("transaction event "+string(request.EventType), err)
		return
	}
	e.processTransactionEventResponse(tx, request, response.(*transactions.TransactionEventResponse))
}

func (e *Engine) processTransactionEventResponse(tx *Transaction, request *transactions.TransactionEventRequest, response *transactions.TransactionEventResponse) {
	if response.IdTokenInfo == nil {
		return
	}
	if request.IdToken != nil && e.conf.Authorization.CacheEnabled {
		e.mu.Lock()
		e.cache.Upsert(request.IdToken.IdToken, *response.IdTokenInfo, time.Now())
		e.mu.Unlock()
	}
	if response.IdTokenInfo.Status != types.AuthorizationStatusAccepted {
		e.deauthorize(tx)
	}
}

// deauthorize applies the policy for a non-Accepted idTokenInfo on an event
// response: stop the transaction when StopTxOnInvalidId is set and the start
// point was reached, otherwise suspend energy transfer only.
func (e *Engine) deauthorize(tx *Transaction) {
	e.mu.Lock()
	stop := e.stopTxOnInvalidId && tx.startPointReached
	stillActive := e.state.Transactions[evseKey{tx.EvseId, tx.ConnectorId}] == tx
	e.mu.Unlock()
	if !stillActive {
		return
	}
	if stop {
		if err := e.EndTransaction(tx.EvseId, tx.ConnectorId, transactions.StoppedReasonDeAuthorized); err != nil {
			e.logger.Error("deauthorized stop", err)
		}
		return
	}
	if err := e.updateTransaction(tx, transactions.TriggerReasonDeauthorized, transactions.ChargingStateSuspendedEVSE); err != nil {
		e.logger.Error("deauthorized suspend", err)
	}
}

// flushOfflineQueue replays queued transaction events strictly in original
// order before any new traffic.
func (e *Engine) flushOfflineQueue() error {
	for {
		e.mu.Lock()
		if len(e.offlineQueue) == 0 {
			e.mu.Unlock()
			return nil
		}
		request := e.offlineQueue[0]
		e.offlineQueue = e.offlineQueue[1:]
		counters.ObserveOfflineQueue(e.conf.Station.Id, len(e.offlineQueue))
		key := evseKey{0, 0}
		if request.Evse != nil && request.Evse.ConnectorId != nil {
			key = evseKey{request.Evse.Id, *request.Evse.ConnectorId}
		}
		tx := e.state.Transactions[key]
		e.mu.Unlock()

		response, err := e.flushCall(request)
		if err != nil {
			e.logger.Error("offline queue flush", err)
			continue
		}
		if tx != nil {
			e.processTransactionEventResponse(tx, request, response.(*transactions.TransactionEventResponse))
		}
	}
}

// QueuedEventCount reports the offline queue depth.
func (e *Engine) QueuedEventCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.offlineQueue)
}

// ActiveTransaction returns the transaction on the given connector, nil when
// none is running.
func (e *Engine) ActiveTransaction(evseId, connectorId int) *Transaction {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.transactionOn(evseId, connectorId)
}

func (e *Engine) authorizedTokenLocked() *types.IdToken {
	return e.lastToken
}

func containsInt(values []int, v int) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
