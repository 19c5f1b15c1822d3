package peer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpsim/internal"
	"cpsim/ocpp/authorization"
	"cpsim/ocpp/availability"
	"cpsim/ocpp/provisioning"
	"cpsim/ocpp/security"
	"cpsim/ocpp/transactions"
	"cpsim/types"
)

func newTestHandler() *SystemHandler {
	return NewSystemHandler(internal.NewLogger())
}

func bootRequest() *provisioning.BootNotificationRequest {
	return provisioning.NewBootNotificationRequest(provisioning.BootReasonPowerUp, provisioning.ChargingStation{
		Model:      "CP Model 1.0",
		VendorName: "tzi.app",
	})
}

func authorize(t *testing.T, handler *SystemHandler, token string) *authorization.AuthorizeResponse {
	t.Helper()
	response, err := handler.Handle("CP001", authorization.NewAuthorizeRequest(
		types.IdToken{IdToken: token, Type: types.IdTokenTypeISO14443}))
	require.NoError(t, err)
	return response.(*authorization.AuthorizeResponse)
}

func TestTokenDatabase(t *testing.T) {
	handler := newTestHandler()
	cases := []struct {
		token  string
		status types.AuthorizationStatus
	}{
		{"100000C01", types.AuthorizationStatusAccepted},
		{"100000C02", types.AuthorizationStatusInvalid},
		{"100000C03", types.AuthorizationStatusAccepted},
		{"100000C04", types.AuthorizationStatusAccepted},
		{"100000C06", types.AuthorizationStatusBlocked},
		{"100000C07", types.AuthorizationStatusExpired},
		{"SOMETHING-ELSE", types.AuthorizationStatusUnknown},
	}
	for _, c := range cases {
		response := authorize(t, handler, c.token)
		assert.Equal(t, c.status, response.IdTokenInfo.Status, "token %s", c.token)
	}

	group := authorize(t, handler, "100000C03")
	require.NotNil(t, group.IdTokenInfo.GroupIdToken)
	assert.Equal(t, "A100000G1", group.IdTokenInfo.GroupIdToken.IdToken)
}

func TestSetTokenOverrides(t *testing.T) {
	handler := newTestHandler()
	handler.SetToken("100000C01", types.IdTokenInfo{Status: types.AuthorizationStatusNoCredit})
	response := authorize(t, handler, "100000C01")
	assert.Equal(t, types.AuthorizationStatusNoCredit, response.IdTokenInfo.Status)
}

func TestBootNotification(t *testing.T) {
	handler := newTestHandler()
	handler.SetHeartbeatInterval(120)

	response, err := handler.Handle("CP001", bootRequest())
	require.NoError(t, err)
	boot := response.(*provisioning.BootNotificationResponse)
	assert.Equal(t, provisioning.RegistrationStatusAccepted, boot.Status)
	assert.Equal(t, 120, boot.Interval)
	assert.Equal(t, 1, handler.StationView("CP001").BootCount)
}

func TestPendingOnBootAnswersPendingOnce(t *testing.T) {
	handler := newTestHandler()
	handler.SetPendingOnBoot("CP001")

	first, err := handler.Handle("CP001", bootRequest())
	require.NoError(t, err)
	assert.Equal(t, provisioning.RegistrationStatusPending, first.(*provisioning.BootNotificationResponse).Status)

	second, err := handler.Handle("CP001", bootRequest())
	require.NoError(t, err)
	assert.Equal(t, provisioning.RegistrationStatusAccepted, second.(*provisioning.BootNotificationResponse).Status)
}

func TestTransactionEventTracking(t *testing.T) {
	handler := newTestHandler()

	for seqNo, eventType := range []transactions.TransactionEventType{
		transactions.TransactionEventStarted,
		transactions.TransactionEventUpdated,
		transactions.TransactionEventEnded,
	} {
		event := transactions.NewTransactionEventRequest(eventType, transactions.TriggerReasonCablePluggedIn, seqNo, transactions.Transaction{
			TransactionId: "tx-1",
			ChargingState: transactions.ChargingStateCharging,
		})
		if seqNo > 0 {
			event.Offline = true
		}
		_, err := handler.Handle("CP001", event)
		require.NoError(t, err)
	}

	view := handler.StationView("CP001")
	tx := view.Transactions["tx-1"]
	require.NotNil(t, tx)
	assert.Equal(t, []int{0, 1, 2}, tx.SeqNos)
	assert.True(t, tx.Ended)
	assert.Equal(t, 2, tx.OfflineEvents)
	assert.Equal(t, transactions.ChargingStateCharging, tx.LastState)
}

func TestTransactionEventOutOfOrderSeqNoRejected(t *testing.T) {
	handler := newTestHandler()
	first := transactions.NewTransactionEventRequest(transactions.TransactionEventStarted, transactions.TriggerReasonAuthorized, 0, transactions.Transaction{TransactionId: "tx-3"})
	_, err := handler.Handle("CP001", first)
	require.NoError(t, err)

	replay := transactions.NewTransactionEventRequest(transactions.TransactionEventUpdated, transactions.TriggerReasonMeterValuePeriodic, 0, transactions.Transaction{TransactionId: "tx-3"})
	_, err = handler.Handle("CP001", replay)
	require.Error(t, err)

	next := transactions.NewTransactionEventRequest(transactions.TransactionEventUpdated, transactions.TriggerReasonMeterValuePeriodic, 1, transactions.Transaction{TransactionId: "tx-3"})
	_, err = handler.Handle("CP001", next)
	assert.NoError(t, err)
}

func TestTransactionEventEchoesTokenInfo(t *testing.T) {
	handler := newTestHandler()
	event := transactions.NewTransactionEventRequest(transactions.TransactionEventStarted, transactions.TriggerReasonAuthorized, 0, transactions.Transaction{TransactionId: "tx-2"})
	event.IdToken = &types.IdToken{IdToken: "100000C06", Type: types.IdTokenTypeISO14443}

	response, err := handler.Handle("CP001", event)
	require.NoError(t, err)
	info := response.(*transactions.TransactionEventResponse).IdTokenInfo
	require.NotNil(t, info)
	assert.Equal(t, types.AuthorizationStatusBlocked, info.Status)
}

func TestStatusNotificationAndEvents(t *testing.T) {
	handler := newTestHandler()
	_, err := handler.Handle("CP001", availability.NewStatusNotificationRequest(1, 1, types.ConnectorStatusOccupied))
	require.NoError(t, err)
	_, err = handler.Handle("CP001", availability.NewNotifyEventRequest(1, []availability.EventData{{EventId: 1}}))
	require.NoError(t, err)

	view := handler.StationView("CP001")
	assert.Equal(t, types.ConnectorStatusOccupied, view.Connectors["1/1"])
	assert.Equal(t, 1, view.NotifyEvents)
}

func TestSecurityEventsRecorded(t *testing.T) {
	handler := newTestHandler()
	_, err := handler.Handle("CP001", security.NewSecurityEventNotificationRequest("SettingSystemTime"))
	require.NoError(t, err)
	view := handler.StationView("CP001")
	assert.Equal(t, []string{"SettingSystemTime"}, view.SecurityEvents)
}

func TestUnknownActionAnswersNil(t *testing.T) {
	handler := newTestHandler()
	response, err := handler.Handle("CP001", &provisioning.ResetRequest{Type: provisioning.ResetTypeImmediate})
	require.NoError(t, err)
	assert.Nil(t, response, "station-bound actions are not accepted from stations")
}

func TestStationsAreIsolated(t *testing.T) {
	handler := newTestHandler()
	_, err := handler.Handle("CP001", bootRequest())
	require.NoError(t, err)
	_, err = handler.Handle("CP002", bootRequest())
	require.NoError(t, err)
	_, err = handler.Handle("CP002", bootRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, handler.StationView("CP001").BootCount)
	assert.Equal(t, 2, handler.StationView("CP002").BootCount)
}
