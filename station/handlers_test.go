package station

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpsim/internal"
	"cpsim/internal/config"
	"cpsim/ocpp/authorization"
	"cpsim/ocpp/availability"
	"cpsim/ocpp/display"
	"cpsim/ocpp/firmware"
	"cpsim/ocpp/localauth"
	"cpsim/ocpp/provisioning"
	"cpsim/ocpp/remotecontrol"
	"cpsim/ocpp/reservation"
	"cpsim/ocpp/transactions"
	"cpsim/types"
)

func reserveRequest(id int, evseId *int, token string, expiry time.Time) *reservation.ReserveNowRequest {
	return &reservation.ReserveNowRequest{
		Id:             id,
		ExpiryDateTime: types.NewDateTime(expiry),
		IdToken:        acceptedToken(token),
		EvseId:         evseId,
	}
}

func TestReserveNowOnSpecificEvse(t *testing.T) {
	engine := newTestEngine(t)
	evseId := 1

	response := engine.onReserveNow(reserveRequest(7, &evseId, "TAG-1", time.Now().Add(time.Hour)))
	require.Equal(t, reservation.ReserveNowStatusAccepted, response.Status)

	connector, err := engine.state.connector(1, 1)
	require.NoError(t, err)
	assert.Equal(t, types.ConnectorStatusReserved, connector.Status)
	assert.Equal(t, 7, connector.ReservationId)
	engine.mu.Lock()
	_, scheduled := engine.reservationJobs[7]
	engine.mu.Unlock()
	assert.True(t, scheduled, "expiry timer runs on the shared scheduler")

	// the only connector is now held, a second reservation cannot land
	second := engine.onReserveNow(reserveRequest(8, &evseId, "TAG-2", time.Now().Add(time.Hour)))
	assert.Equal(t, reservation.ReserveNowStatusOccupied, second.Status)
}

func TestReserveNowUnknownEvseRejected(t *testing.T) {
	engine := newTestEngine(t)
	evseId := 99
	response := engine.onReserveNow(reserveRequest(1, &evseId, "TAG-1", time.Now().Add(time.Hour)))
	assert.Equal(t, reservation.ReserveNowStatusRejected, response.Status)
}

func TestReserveNowWithoutEvsePicksFreeOne(t *testing.T) {
	engine := newTestEngine(t)

	response := engine.onReserveNow(reserveRequest(3, nil, "TAG-1", time.Now().Add(time.Hour)))
	require.Equal(t, reservation.ReserveNowStatusAccepted, response.Status)
	connector, err := engine.state.connector(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, connector.ReservationId)

	// everything reserved now
	again := engine.onReserveNow(reserveRequest(4, nil, "TAG-2", time.Now().Add(time.Hour)))
	assert.Equal(t, reservation.ReserveNowStatusOccupied, again.Status)
}

func TestCancelReservationFreesConnector(t *testing.T) {
	engine := newTestEngine(t)
	evseId := 1
	require.Equal(t, reservation.ReserveNowStatusAccepted,
		engine.onReserveNow(reserveRequest(5, &evseId, "TAG-1", time.Now().Add(time.Hour))).Status)

	response := engine.onCancelReservation(&reservation.CancelReservationRequest{ReservationId: 5})
	require.Equal(t, reservation.CancelReservationStatusAccepted, response.Status)
	connector, err := engine.state.connector(1, 1)
	require.NoError(t, err)
	assert.Equal(t, types.ConnectorStatusAvailable, connector.Status)
	assert.Equal(t, 0, connector.ReservationId)

	// cancelling twice, or an unknown id, is rejected
	again := engine.onCancelReservation(&reservation.CancelReservationRequest{ReservationId: 5})
	assert.Equal(t, reservation.CancelReservationStatusRejected, again.Status)
}

func TestReservationExpires(t *testing.T) {
	engine := newTestEngine(t)
	evseId := 1
	require.Equal(t, reservation.ReserveNowStatusAccepted,
		engine.onReserveNow(reserveRequest(6, &evseId, "TAG-1", time.Now().Add(100*time.Millisecond))).Status)

	assert.Eventually(t, func() bool {
		engine.mu.Lock()
		defer engine.mu.Unlock()
		res := engine.state.Reservations[6]
		return res != nil && res.Status == ReservationExpired
	}, 3*time.Second, 20*time.Millisecond)

	connector, err := engine.state.connector(1, 1)
	require.NoError(t, err)
	assert.Equal(t, types.ConnectorStatusAvailable, connector.Status)
}

func TestReservedEvseRejectsForeignToken(t *testing.T) {
	engine := newTestEngine(t)
	evseId := 1
	require.Equal(t, reservation.ReserveNowStatusAccepted,
		engine.onReserveNow(reserveRequest(9, &evseId, "HOLDER", time.Now().Add(time.Hour))).Status)
	seedAccepted(engine, "HOLDER")
	seedAccepted(engine, "INTRUDER")

	info, err := engine.PresentToken(acceptedToken("INTRUDER"), 1)
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusInvalid, info.Status)

	info, err = engine.PresentToken(acceptedToken("HOLDER"), 1)
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusAccepted, info.Status)
}

func TestReservedEvseAcceptsGroupToken(t *testing.T) {
	engine := newTestEngine(t)
	group := acceptedToken("GROUP-1")
	evseId := 1
	request := reserveRequest(10, &evseId, "HOLDER", time.Now().Add(time.Hour))
	request.GroupIdToken = &group
	require.Equal(t, reservation.ReserveNowStatusAccepted, engine.onReserveNow(request).Status)
	engine.cache.Upsert("SIBLING", types.IdTokenInfo{
		Status:       types.AuthorizationStatusAccepted,
		GroupIdToken: &group,
	}, time.Now())

	info, err := engine.PresentToken(acceptedToken("SIBLING"), 1)
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusAccepted, info.Status)
}

func TestChangeAvailabilityIdleConnector(t *testing.T) {
	engine := newTestEngine(t)

	response := engine.onChangeAvailability(&availability.ChangeAvailabilityRequest{
		OperationalStatus: types.OperationalStatusInoperative,
	})
	require.Equal(t, availability.ChangeAvailabilityStatusAccepted, response.Status)
	connector, err := engine.state.connector(1, 1)
	require.NoError(t, err)
	assert.Equal(t, types.ConnectorStatusUnavailable, connector.Status)

	response = engine.onChangeAvailability(&availability.ChangeAvailabilityRequest{
		OperationalStatus: types.OperationalStatusOperative,
	})
	require.Equal(t, availability.ChangeAvailabilityStatusAccepted, response.Status)
	assert.Equal(t, types.ConnectorStatusAvailable, connector.Status)
}

func TestChangeAvailabilityDeferredDuringTransaction(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-1")
	_, err := engine.PresentToken(acceptedToken("TAG-1"), 1)
	require.NoError(t, err)
	require.NoError(t, engine.PlugIn(1, 1))

	response := engine.onChangeAvailability(&availability.ChangeAvailabilityRequest{
		OperationalStatus: types.OperationalStatusInoperative,
	})
	require.Equal(t, availability.ChangeAvailabilityStatusScheduled, response.Status)
	connector, err := engine.state.connector(1, 1)
	require.NoError(t, err)
	assert.Equal(t, types.ConnectorStatusOccupied, connector.Status, "running session keeps the connector")

	require.NoError(t, engine.EndTransaction(1, 1, transactions.StoppedReasonLocal))
	assert.Equal(t, types.ConnectorStatusUnavailable, connector.Status, "recorded change applies once the session ends")
}

func TestChangeAvailabilityUnknownTargetRejected(t *testing.T) {
	engine := newTestEngine(t)
	connectorId := 9
	response := engine.onChangeAvailability(&availability.ChangeAvailabilityRequest{
		OperationalStatus: types.OperationalStatusInoperative,
		Evse:              &types.EVSE{Id: 1, ConnectorId: &connectorId},
	})
	assert.Equal(t, availability.ChangeAvailabilityStatusRejected, response.Status)
}

func getVariable(component, variable string) provisioning.GetVariableData {
	return provisioning.GetVariableData{
		Component: types.Component{Name: component},
		Variable:  types.Variable{Name: variable},
	}
}

func TestGetVariables(t *testing.T) {
	engine := newTestEngine(t)
	response := engine.onGetVariables(&provisioning.GetVariablesRequest{GetVariableData: []provisioning.GetVariableData{
		getVariable("OCPPCommCtrlr", "HeartbeatInterval"),
		getVariable("BogusCtrlr", "Anything"),
		getVariable("SecurityCtrlr", "BasicAuthPassword"),
		getVariable("TxCtrlr", "NoSuchVariable"),
	}})
	require.Len(t, response.GetVariableResult, 4)
	assert.Equal(t, provisioning.GetVariableStatusAccepted, response.GetVariableResult[0].AttributeStatus)
	assert.Equal(t, "600", response.GetVariableResult[0].AttributeValue)
	assert.Equal(t, provisioning.GetVariableStatusUnknownComponent, response.GetVariableResult[1].AttributeStatus)
	assert.Equal(t, provisioning.GetVariableStatusRejected, response.GetVariableResult[2].AttributeStatus, "password never reads back")
	assert.Equal(t, provisioning.GetVariableStatusUnknownVariable, response.GetVariableResult[3].AttributeStatus)
}

func TestSetVariablesChangesLivePolicy(t *testing.T) {
	engine := newTestEngine(t)
	response := engine.onSetVariables(&provisioning.SetVariablesRequest{SetVariableData: []provisioning.SetVariableData{
		{Component: types.Component{Name: "TxCtrlr"}, Variable: types.Variable{Name: "StopTxOnInvalidId"}, AttributeValue: "false"},
		{Component: types.Component{Name: "TxCtrlr"}, Variable: types.Variable{Name: "TxStartPoint"}, AttributeValue: "Authorized"},
		{Component: types.Component{Name: "OCPPCommCtrlr"}, Variable: types.Variable{Name: "HeartbeatInterval"}, AttributeValue: "30"},
	}})
	for _, result := range response.SetVariableResult {
		assert.Equal(t, provisioning.SetVariableStatusAccepted, result.AttributeStatus)
	}
	engine.mu.Lock()
	defer engine.mu.Unlock()
	assert.False(t, engine.stopTxOnInvalidId)
	assert.Equal(t, TxStartPointAuthorized, engine.txStartPoint)
	assert.Equal(t, 30*time.Second, engine.heartbeatInterval)
}

func TestSetVariablesRejectsSecurityProfile(t *testing.T) {
	engine := newTestEngine(t)
	response := engine.onSetVariables(&provisioning.SetVariablesRequest{SetVariableData: []provisioning.SetVariableData{
		{Component: types.Component{Name: "SecurityCtrlr"}, Variable: types.Variable{Name: "SecurityProfile"}, AttributeValue: "3"},
	}})
	require.Len(t, response.SetVariableResult, 1)
	assert.Equal(t, provisioning.SetVariableStatusRejected, response.SetVariableResult[0].AttributeStatus)
	value, ok := engine.Variable("SecurityCtrlr.SecurityProfile")
	require.True(t, ok)
	assert.Equal(t, "1", value)
}

func TestResetPerEvseRejected(t *testing.T) {
	engine := newTestEngine(t)
	evseId := 1
	response := engine.onReset(&provisioning.ResetRequest{Type: provisioning.ResetTypeImmediate, EvseId: &evseId})
	assert.Equal(t, provisioning.ResetStatusRejected, response.Status)
}

func TestResetOnIdleWithTransactionScheduled(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-1")
	_, err := engine.PresentToken(acceptedToken("TAG-1"), 1)
	require.NoError(t, err)
	require.NoError(t, engine.PlugIn(1, 1))

	response := engine.onReset(&provisioning.ResetRequest{Type: provisioning.ResetTypeOnIdle})
	require.Equal(t, provisioning.ResetStatusScheduled, response.Status)
	engine.mu.Lock()
	scheduled := engine.resetScheduled
	engine.mu.Unlock()
	assert.True(t, scheduled)
	assert.NotNil(t, engine.ActiveTransaction(1, 1), "OnIdle never interrupts a running session")
}

func TestSetAndClearDisplayMessage(t *testing.T) {
	engine := newTestEngine(t)
	message := types.MessageInfo{
		Id:       1,
		Priority: types.MessagePriorityNormalCycle,
		Message:  types.MessageContent{Format: types.MessageFormatUTF8, Content: "Welcome"},
	}
	response := engine.onSetDisplayMessage(&display.SetDisplayMessageRequest{Message: message})
	require.Equal(t, display.DisplayMessageStatusAccepted, response.Status)

	// same id replaces
	message.Message.Content = "Hello"
	require.Equal(t, display.DisplayMessageStatusAccepted, engine.onSetDisplayMessage(&display.SetDisplayMessageRequest{Message: message}).Status)
	engine.mu.Lock()
	stored := engine.messages[1]
	engine.mu.Unlock()
	assert.Equal(t, "Hello", stored.info.Message.Content)

	cleared := engine.onClearDisplayMessage(&display.ClearDisplayMessageRequest{Id: 1})
	assert.Equal(t, display.ClearMessageStatusAccepted, cleared.Status)
	missing := engine.onClearDisplayMessage(&display.ClearDisplayMessageRequest{Id: 1})
	assert.Equal(t, display.ClearMessageStatusUnknown, missing.Status)
}

func TestSetDisplayMessageUnsupportedFormat(t *testing.T) {
	engine := newTestEngine(t)
	response := engine.onSetDisplayMessage(&display.SetDisplayMessageRequest{Message: types.MessageInfo{
		Id:       2,
		Priority: types.MessagePriorityNormalCycle,
		Message:  types.MessageContent{Format: types.MessageFormatHTML, Content: "<b>hi</b>"},
	}})
	assert.Equal(t, display.DisplayMessageStatusNotSupportedMessageFormat, response.Status)
}

func TestSetDisplayMessageUnknownTransaction(t *testing.T) {
	engine := newTestEngine(t)
	response := engine.onSetDisplayMessage(&display.SetDisplayMessageRequest{Message: types.MessageInfo{
		Id:            3,
		Priority:      types.MessagePriorityNormalCycle,
		TransactionId: "no-such-tx",
		Message:       types.MessageContent{Format: types.MessageFormatUTF8, Content: "hi"},
	}})
	assert.Equal(t, display.DisplayMessageStatusUnknownTransaction, response.Status)
}

func TestGetDisplayMessagesUnknownWhenEmpty(t *testing.T) {
	engine := newTestEngine(t)
	response := engine.onGetDisplayMessages(&display.GetDisplayMessagesRequest{RequestId: 1})
	assert.Equal(t, display.GetDisplayMessagesStatusUnknown, response.Status)
}

func updateFirmwareRequest(requestId int) *firmware.UpdateFirmwareRequest {
	return &firmware.UpdateFirmwareRequest{
		RequestId: requestId,
		Firmware: firmware.Firmware{
			Location:         "https://fw.example.com/2.1.0.bin",
			RetrieveDateTime: types.Now(),
		},
	}
}

func TestUpdateFirmwareCancelsRunningUpdate(t *testing.T) {
	engine := newTestEngine(t)

	first := engine.onUpdateFirmware(updateFirmwareRequest(1))
	require.Equal(t, firmware.UpdateFirmwareStatusAccepted, first.Status)

	second := engine.onUpdateFirmware(updateFirmwareRequest(2))
	assert.Equal(t, firmware.UpdateFirmwareStatusAcceptedCanceled, second.Status)
}

func TestUpdateFirmwareRejectedWhenCancelDisabled(t *testing.T) {
	engine := newTestEngine(t)
	engine.conf.Firmware.CancelOnNewRequest = false

	require.Equal(t, firmware.UpdateFirmwareStatusAccepted, engine.onUpdateFirmware(updateFirmwareRequest(1)).Status)
	assert.Equal(t, firmware.UpdateFirmwareStatusRejected, engine.onUpdateFirmware(updateFirmwareRequest(2)).Status)
}

func TestClearCache(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-1")
	require.Equal(t, 1, engine.cache.Len())

	response := engine.onClearCache(&authorization.ClearCacheRequest{})
	require.Equal(t, authorization.ClearCacheStatusAccepted, response.Status)
	assert.Equal(t, 0, engine.cache.Len())

	engine.conf.Authorization.CacheEnabled = false
	rejected := engine.onClearCache(&authorization.ClearCacheRequest{})
	assert.Equal(t, authorization.ClearCacheStatusRejected, rejected.Status)
}

func TestSendLocalListHandler(t *testing.T) {
	engine := newTestEngine(t)
	request := localauth.NewSendLocalListRequest(1, localauth.UpdateTypeFull)
	request.LocalAuthorizationList = []types.AuthorizationData{listEntry("L01", types.AuthorizationStatusAccepted)}

	response := engine.onSendLocalList(request)
	require.Equal(t, localauth.SendLocalListStatusAccepted, response.Status)
	version := engine.onGetLocalListVersion(&localauth.GetLocalListVersionRequest{})
	assert.Equal(t, 1, version.VersionNumber)

	// the list now answers offline authorization
	info, err := engine.Authorize(acceptedToken("L01"))
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusAccepted, info.Status)
}

func TestRequestStartTransactionRejectedWhenBusy(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-1")
	_, err := engine.PresentToken(acceptedToken("TAG-1"), 1)
	require.NoError(t, err)
	require.NoError(t, engine.PlugIn(1, 1))

	evseId := 1
	response := engine.onRequestStartTransaction(&remotecontrol.RequestStartTransactionRequest{
		RemoteStartId: 42,
		IdToken:       acceptedToken("REMOTE"),
		EvseId:        &evseId,
	})
	assert.Equal(t, remotecontrol.RequestStartStopStatusRejected, response.Status)
}

func TestRequestStartTransactionCarriesRemoteStartId(t *testing.T) {
	engine := newTestEngine(t)
	evseId := 1
	response := engine.onRequestStartTransaction(&remotecontrol.RequestStartTransactionRequest{
		RemoteStartId: 42,
		IdToken:       acceptedToken("REMOTE"),
		EvseId:        &evseId,
	})
	require.Equal(t, remotecontrol.RequestStartStopStatusAccepted, response.Status)

	require.Eventually(t, func() bool {
		return engine.ActiveTransaction(1, 1) != nil
	}, 2*time.Second, 10*time.Millisecond, "transaction starts after the reply")
	tx := engine.ActiveTransaction(1, 1)
	require.NotNil(t, tx.RemoteStartId)
	assert.Equal(t, 42, *tx.RemoteStartId)
}

func TestRequestStopTransactionUnknownId(t *testing.T) {
	engine := newTestEngine(t)
	response := engine.onRequestStopTransaction(&remotecontrol.RequestStopTransactionRequest{TransactionId: "missing"})
	assert.Equal(t, remotecontrol.RequestStartStopStatusRejected, response.Status)
}

func TestGetTransactionStatus(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-1")
	_, err := engine.PresentToken(acceptedToken("TAG-1"), 1)
	require.NoError(t, err)
	require.NoError(t, engine.PlugIn(1, 1))
	tx := engine.ActiveTransaction(1, 1)
	require.NotNil(t, tx)

	response := engine.onGetTransactionStatus(&transactions.GetTransactionStatusRequest{TransactionId: tx.TransactionId})
	require.NotNil(t, response.OngoingIndicator)
	assert.True(t, *response.OngoingIndicator)
	assert.True(t, response.MessagesInQueue, "offline events for the transaction are queued")

	blanket := engine.onGetTransactionStatus(&transactions.GetTransactionStatusRequest{})
	assert.Nil(t, blanket.OngoingIndicator)
	assert.True(t, blanket.MessagesInQueue)
}

func TestReserveNowFiltersByConnectorType(t *testing.T) {
	engine := newTestEngine(t)

	request := reserveRequest(7, nil, "B01", time.Now().Add(time.Hour))
	request.ConnectorType = types.ConnectorTypeCCS2
	response := engine.onReserveNow(request)
	assert.Equal(t, reservation.ReserveNowStatusRejected, response.Status, "no connector of the requested type exists")

	request = reserveRequest(7, nil, "B01", time.Now().Add(time.Hour))
	request.ConnectorType = types.ConnectorTypeType2
	response = engine.onReserveNow(request)
	assert.Equal(t, reservation.ReserveNowStatusAccepted, response.Status)
}

func TestReserveNowPicksEvseByConnectorType(t *testing.T) {
	conf, err := config.Default()
	require.NoError(t, err)
	conf.Evses = []config.EvseConfig{
		{Id: 1, Connectors: 1, ConnectorType: string(types.ConnectorTypeType2)},
		{Id: 2, Connectors: 1, ConnectorType: string(types.ConnectorTypeCCS2)},
	}
	engine := NewEngine(conf, internal.NewLogger())
	t.Cleanup(engine.Stop)

	request := reserveRequest(9, nil, "B02", time.Now().Add(time.Hour))
	request.ConnectorType = types.ConnectorTypeCCS2
	response := engine.onReserveNow(request)
	require.Equal(t, reservation.ReserveNowStatusAccepted, response.Status)

	res := engine.state.Reservations[9]
	require.NotNil(t, res)
	assert.Equal(t, 2, res.EvseId)
	assert.Equal(t, types.ConnectorStatusReserved, engine.state.Evses[2].Connectors[1].Status)

	evseId := 1
	request = reserveRequest(10, &evseId, "B03", time.Now().Add(time.Hour))
	request.ConnectorType = types.ConnectorTypeCCS2
	response = engine.onReserveNow(request)
	assert.Equal(t, reservation.ReserveNowStatusRejected, response.Status, "named EVSE has no connector of that type")
}
