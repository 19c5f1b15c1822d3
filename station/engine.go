package station

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"cpsim/internal"
	"cpsim/internal/config"
	"cpsim/metrics/counters"
	"cpsim/ocpp"
	"cpsim/ocpp/authorization"
	"cpsim/ocpp/availability"
	"cpsim/ocpp/datatransfer"
	"cpsim/ocpp/display"
	"cpsim/ocpp/firmware"
	"cpsim/ocpp/localauth"
	"cpsim/ocpp/provisioning"
	"cpsim/ocpp/remotecontrol"
	"cpsim/ocpp/reservation"
	"cpsim/ocpp/security"
	"cpsim/ocpp/smartcharging"
	"cpsim/ocpp/transactions"
	"cpsim/transport"
	"cpsim/types"
	"cpsim/utility"
)

// Engine simulates one charging station. All station state is owned by the
// engine instance and guarded by one mutex; inbound handlers run as
// independent goroutines replying asynchronously, so the receive loop never
// blocks on handler execution.
type Engine struct {
	conf   *config.Config
	logger internal.LogHandler

	correlator *Correlator
	scheduler  gocron.Scheduler

	mu        sync.Mutex
	conn      *transport.Connection
	online    bool
	state     *StationState
	cache     *AuthCache
	localList *LocalList
	certs     *certificateStore
	messages  map[int]displayMessage
	variables map[string]string
	fw        *firmwareRun

	offlineQueue        []*transactions.TransactionEventRequest
	reservationJobs     map[int]gocron.Job
	pendingAvailability map[evseKey]types.OperationalStatus

	startedAt      time.Time
	resetScheduled bool
	heartbeatJob   gocron.Job

	callTimeout           time.Duration
	heartbeatInterval     time.Duration
	stopTxOnInvalidId     bool
	localAuthorizeOffline bool
	txStartPoint          TxStartPoint
	password              string

	lastToken *types.IdToken

	notifySeq int
	eventSeq  int
}

func NewEngine(conf *config.Config, logger internal.LogHandler) *Engine {
	evses := make(map[int]evseTopology)
	for _, evse := range conf.Evses {
		connectorType := types.ConnectorType(evse.ConnectorType)
		if connectorType == "" {
			connectorType = types.ConnectorTypeType2
		}
		evses[evse.Id] = evseTopology{connectors: evse.Connectors, connectorType: connectorType}
	}
	if len(evses) == 0 {
		evses[1] = evseTopology{connectors: 1, connectorType: types.ConnectorTypeType2}
	}
	scheduler, _ := gocron.NewScheduler()
	scheduler.Start()

	e := &Engine{
		conf:                  conf,
		logger:                logger,
		correlator:            NewCorrelator(conf.Station.Id, logger),
		scheduler:             scheduler,
		state:                 newStationState(evses),
		cache:                 NewAuthCache(conf.Authorization.CacheCapacity, time.Duration(conf.Authorization.CacheLifetime)*time.Second),
		localList:             NewLocalList(),
		certs:                 newCertificateStore(),
		messages:              make(map[int]displayMessage),
		variables:             make(map[string]string),
		reservationJobs:       make(map[int]gocron.Job),
		pendingAvailability:   make(map[evseKey]types.OperationalStatus),
		startedAt:             time.Now(),
		callTimeout:           time.Duration(conf.CallTimeout) * time.Second,
		heartbeatInterval:     time.Duration(conf.HeartbeatInterval) * time.Second,
		stopTxOnInvalidId:     conf.Authorization.StopTxOnInvalidId,
		localAuthorizeOffline: conf.Authorization.LocalAuthorizeOffline,
		txStartPoint:          TxStartPoint(conf.Authorization.TxStartPoint),
		password:              conf.Station.Password,
	}
	e.seedVariables()
	return e
}

func (e *Engine) StationId() string {
	return e.conf.Station.Id
}

// SetCallTimeout overrides the default deadline for subsequent calls.
func (e *Engine) SetCallTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callTimeout = timeout
}

// Connect opens the connection under the configured security profile and
// starts consuming frames. It does not send BootNotification; Boot does.
func (e *Engine) Connect() error {
	return e.connect(true)
}

func (e *Engine) connect(markOnline bool) error {
	creds := transport.Credentials{
		Password:       e.currentPassword(),
		ClientCertFile: e.conf.Station.ClientCertFile,
		ClientKeyFile:  e.conf.Station.ClientKeyFile,
		CACertFile:     e.conf.Station.CACertFile,
	}
	conn, err := transport.Connect(e.conf.Station.Endpoint, e.conf.Station.Id, e.conf.Station.SecurityProfile, creds, e.logger)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.conn = conn
	e.online = markOnline
	e.mu.Unlock()
	go e.receiveLoop(conn)
	return nil
}

func (e *Engine) currentPassword() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.variables["SecurityCtrlr.BasicAuthPassword"]; ok {
		return v
	}
	return e.password
}

func (e *Engine) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// Disconnect simulates losing the link. Physical events keep advancing state
// and transaction events queue for the next connection.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	conn := e.conn
	e.conn = nil
	e.online = false
	e.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// Reconnect re-opens the connection and flushes queued transaction events
// strictly in original order before any new traffic. The station counts as
// offline until the queue drains, so events raised during the flush join the
// queue and go out in turn while other calls are refused.
func (e *Engine) Reconnect() error {
	if err := e.connect(false); err != nil {
		return err
	}
	err := e.flushOfflineQueue()
	e.mu.Lock()
	e.online = e.conn != nil
	e.mu.Unlock()
	return err
}

// scheduleHeartbeat (re)starts the periodic heartbeat at the current
// interval. Boot calls it after every accepted registration, so an interval
// pushed back by the peer takes effect immediately.
func (e *Engine) scheduleHeartbeat() {
	e.mu.Lock()
	interval := e.heartbeatInterval
	job := e.heartbeatJob
	e.heartbeatJob = nil
	e.mu.Unlock()
	if job != nil {
		_ = e.scheduler.RemoveJob(job.ID())
	}
	if interval <= 0 {
		return
	}
	newJob, err := e.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if !e.Online() {
				return
			}
			if _, err := e.Heartbeat(); err != nil {
				e.logger.Error("heartbeat", err)
			}
		}),
	)
	if err != nil {
		e.logger.Error("schedule heartbeat", err)
		return
	}
	e.mu.Lock()
	e.heartbeatJob = newJob
	e.mu.Unlock()
}

func (e *Engine) Stop() {
	e.Disconnect()
	e.correlator.Stop()
	_ = e.scheduler.Shutdown()
}

// SendCall transmits a Call and returns the pending handle. The uniqueId is
// unique among in-flight calls on this connection.
func (e *Engine) SendCall(request ocpp.Request) (*PendingCall, error) {
	e.mu.Lock()
	conn := e.conn
	online := e.online
	timeout := e.callTimeout
	registration := e.state.Registration
	e.mu.Unlock()
	if conn == nil || !online {
		return nil, ocpp.NewTransportError("not connected", nil)
	}
	// until the registration is accepted only further boot attempts go out
	if (registration == string(provisioning.RegistrationStatusPending) ||
		registration == string(provisioning.RegistrationStatusRejected)) &&
		request.GetFeatureName() != provisioning.BootNotificationFeatureName {
		return nil, utility.Err("call withheld until registration is accepted: " + request.GetFeatureName())
	}
	return e.transmit(conn, request, timeout)
}

func (e *Engine) transmit(conn *transport.Connection, request ocpp.Request, timeout time.Duration) (*PendingCall, error) {
	uniqueId := utility.NewUUID()
	pending := e.correlator.Register(uniqueId, request.GetFeatureName(), timeout)
	frame := ocpp.CreateCall(request, uniqueId)
	data, err := frame.MarshalJSON()
	if err != nil {
		return nil, err
	}
	counters.CountFrameSent(e.conf.Station.Id, "Call")
	if err = conn.Send(data); err != nil {
		return pending, ocpp.NewTransportError("sending call", err)
	}
	return pending, nil
}

// Call sends a request and blocks until its single resolution.
func (e *Engine) Call(request ocpp.Request) (ocpp.Response, error) {
	pending, err := e.SendCall(request)
	if err != nil {
		return nil, err
	}
	outcome := <-pending.Outcome()
	return outcome.Response, outcome.Err
}

// flushCall carries a queued frame out while the station still counts as
// offline to everyone else. Only the reconnection flush uses it.
func (e *Engine) flushCall(request ocpp.Request) (ocpp.Response, error) {
	e.mu.Lock()
	conn := e.conn
	timeout := e.callTimeout
	e.mu.Unlock()
	if conn == nil {
		return nil, ocpp.NewTransportError("not connected", nil)
	}
	pending, err := e.transmit(conn, request, timeout)
	if err != nil {
		return nil, err
	}
	outcome := <-pending.Outcome()
	return outcome.Response, outcome.Err
}

func (e *Engine) receiveLoop(conn *transport.Connection) {
	for {
		select {
		case data, ok := <-conn.Received():
			if !ok {
				return
			}
			e.handleFrame(conn, data)
		case err := <-conn.Lost():
			e.logger.Error("connection lost", err)
			e.mu.Lock()
			if e.conn == conn {
				e.conn = nil
				e.online = false
			}
			e.mu.Unlock()
			return
		}
	}
}

func (e *Engine) handleFrame(conn *transport.Connection, data []byte) {
	stationId := e.conf.Station.Id
	fields, err := ocpp.ParseMessage(data)
	if err != nil {
		counters.CountProtocolError(stationId)
		e.logger.Error("malformed frame dropped", err)
		return
	}
	callType, err := ocpp.MessageType(fields)
	if err != nil {
		counters.CountProtocolError(stationId)
		e.logger.Error("malformed frame dropped", err)
		return
	}
	switch callType {
	case ocpp.CallTypeRequest:
		counters.CountFrameReceived(stationId, "Call")
		call, err := ocpp.ParseCall(fields)
		if err != nil {
			counters.CountProtocolError(stationId)
			e.logger.Error("invalid call dropped", err)
			if uniqueId, idErr := ocpp.UniqueIdOf(fields); idErr == nil {
				e.sendCallError(conn, ocpp.CreateCallError(uniqueId, ocpp.ErrorCodeFormationViolation, err.Error()))
			}
			return
		}
		// handlers reply asynchronously; the loop moves on
		go e.dispatch(conn, call)

	case ocpp.CallTypeResult:
		counters.CountFrameReceived(stationId, "CallResult")
		uniqueId, err := ocpp.UniqueIdOf(fields)
		if err != nil {
			counters.CountProtocolError(stationId)
			e.logger.Error("invalid call result dropped", err)
			return
		}
		action, ok := e.correlator.ActionFor(uniqueId)
		if !ok {
			counters.CountProtocolError(stationId)
			e.logger.Warn(fmt.Sprintf("call result for unknown unique id %s dropped", uniqueId))
			return
		}
		result, err := ocpp.ParseCallResult(fields, action)
		if err != nil {
			_ = e.correlator.Resolve(uniqueId, CallOutcome{Err: err})
			return
		}
		_ = e.correlator.Resolve(uniqueId, CallOutcome{Response: result.Payload})

	case ocpp.CallTypeError:
		counters.CountFrameReceived(stationId, "CallError")
		callError, err := ocpp.ParseCallError(fields)
		if err != nil {
			counters.CountProtocolError(stationId)
			e.logger.Error("invalid call error dropped", err)
			return
		}
		if err := e.correlator.Resolve(callError.UniqueId, CallOutcome{Err: callError}); err != nil {
			e.logger.Warn(err.Error())
		}
	}
}

func (e *Engine) dispatch(conn *transport.Connection, call *ocpp.Call) {
	response, callError := e.handleInbound(call)
	if callError != nil {
		callError.UniqueId = call.UniqueId
		e.sendCallError(conn, callError)
		return
	}
	frame := ocpp.CreateCallResult(response, call.UniqueId)
	data, err := frame.MarshalJSON()
	if err != nil {
		e.logger.Error("encoding response for "+call.Action, err)
		return
	}
	counters.CountFrameSent(e.conf.Station.Id, "CallResult")
	if err = conn.Send(data); err != nil {
		e.logger.Error("sending response for "+call.Action, err)
	}
}

func (e *Engine) sendCallError(conn *transport.Connection, callError *ocpp.CallError) {
	data, err := callError.MarshalJSON()
	if err != nil {
		return
	}
	counters.CountFrameSent(e.conf.Station.Id, "CallError")
	if err = conn.Send(data); err != nil {
		e.logger.Error("sending call error", err)
	}
}

// handleInbound routes a management-system call to its use-case handler.
func (e *Engine) handleInbound(call *ocpp.Call) (ocpp.Response, *ocpp.CallError) {
	e.logger.FeatureEvent(call.Action, e.conf.Station.Id, "request received")
	switch request := call.Payload.(type) {
	case *availability.ChangeAvailabilityRequest:
		return e.onChangeAvailability(request), nil
	case *remotecontrol.RequestStartTransactionRequest:
		return e.onRequestStartTransaction(request), nil
	case *remotecontrol.RequestStopTransactionRequest:
		return e.onRequestStopTransaction(request), nil
	case *remotecontrol.TriggerMessageRequest:
		return e.onTriggerMessage(request), nil
	case *reservation.ReserveNowRequest:
		return e.onReserveNow(request), nil
	case *reservation.CancelReservationRequest:
		return e.onCancelReservation(request), nil
	case *localauth.SendLocalListRequest:
		return e.onSendLocalList(request), nil
	case *localauth.GetLocalListVersionRequest:
		return e.onGetLocalListVersion(request), nil
	case *authorization.ClearCacheRequest:
		return e.onClearCache(request), nil
	case *smartcharging.SetChargingProfileRequest:
		return e.onSetChargingProfile(request), nil
	case *smartcharging.GetChargingProfilesRequest:
		return e.onGetChargingProfiles(request), nil
	case *smartcharging.ClearChargingProfileRequest:
		return e.onClearChargingProfile(request), nil
	case *smartcharging.GetCompositeScheduleRequest:
		return e.onGetCompositeSchedule(request), nil
	case *firmware.UpdateFirmwareRequest:
		return e.onUpdateFirmware(request), nil
	case *provisioning.ResetRequest:
		return e.onReset(request), nil
	case *provisioning.GetVariablesRequest:
		return e.onGetVariables(request), nil
	case *provisioning.SetVariablesRequest:
		return e.onSetVariables(request), nil
	case *transactions.GetTransactionStatusRequest:
		return e.onGetTransactionStatus(request), nil
	case *datatransfer.DataTransferRequest:
		return e.onDataTransfer(request), nil
	case *display.SetDisplayMessageRequest:
		return e.onSetDisplayMessage(request), nil
	case *display.GetDisplayMessagesRequest:
		return e.onGetDisplayMessages(request), nil
	case *display.ClearDisplayMessageRequest:
		return e.onClearDisplayMessage(request), nil
	case *security.InstallCertificateRequest:
		return e.onInstallCertificate(request), nil
	case *security.GetInstalledCertificateIdsRequest:
		return e.onGetInstalledCertificateIds(request), nil
	case *security.DeleteCertificateRequest:
		return e.onDeleteCertificate(request), nil
	case *security.CertificateSignedRequest:
		return e.onCertificateSigned(request), nil
	}
	return nil, ocpp.CreateCallError(call.UniqueId, ocpp.ErrorCodeNotImplemented, "action not supported by this station: "+call.Action)
}

// Lifecycle reports the current lifecycle state.
func (e *Engine) Lifecycle() LifecycleState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Lifecycle
}

// Variable reads a device-model variable by "Component.Variable" key.
func (e *Engine) Variable(key string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.variables[key]
	return v, ok
}

func (e *Engine) setVariableLocked(key, value string) {
	e.variables[key] = value
	switch key {
	case "TxCtrlr.StopTxOnInvalidId":
		e.stopTxOnInvalidId = value == "true"
	case "AuthCtrlr.LocalAuthorizeOffline":
		e.localAuthorizeOffline = value == "true"
	case "TxCtrlr.TxStartPoint":
		e.txStartPoint = TxStartPoint(value)
	case "OCPPCommCtrlr.HeartbeatInterval":
		if seconds, err := strconv.Atoi(value); err == nil {
			e.heartbeatInterval = time.Duration(seconds) * time.Second
		}
	case "SecurityCtrlr.BasicAuthPassword":
		e.password = value
	}
}
