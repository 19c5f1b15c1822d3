package peer

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpsim/internal"
	"cpsim/internal/config"
	"cpsim/ocpp/provisioning"
	"cpsim/ocpp/remotecontrol"
	"cpsim/station"
	"cpsim/types"
)

func startTestServer(t *testing.T) *Server {
	t.Helper()
	conf, err := config.Default()
	require.NoError(t, err)
	conf.Peer.BindIP = "127.0.0.1"
	conf.Peer.Port = "0"

	server := NewServer(conf, internal.NewLogger())
	go func() { _ = server.Start() }()
	t.Cleanup(func() { _ = server.Stop() })
	require.Eventually(t, func() bool { return server.Addr() != "" }, 2*time.Second, 10*time.Millisecond)
	return server
}

func startTestStation(t *testing.T, server *Server) *station.Engine {
	t.Helper()
	conf, err := config.Default()
	require.NoError(t, err)
	conf.Station.Endpoint = "ws://" + server.Addr() + "/ws"

	engine := station.NewEngine(conf, internal.NewLogger())
	engine.SetCallTimeout(3 * time.Second)
	require.NoError(t, engine.Connect())
	t.Cleanup(engine.Stop)
	require.Eventually(t, func() bool { return server.Connected(engine.StationId()) }, 2*time.Second, 10*time.Millisecond)
	return engine
}

func token(id string) types.IdToken {
	return types.IdToken{IdToken: id, Type: types.IdTokenTypeISO14443}
}

func TestBootHandshakeOverWire(t *testing.T) {
	server := startTestServer(t)
	server.Handler().SetHeartbeatInterval(120)
	engine := startTestStation(t, server)

	boot, err := engine.Boot(provisioning.BootReasonPowerUp)
	require.NoError(t, err)
	assert.Equal(t, provisioning.RegistrationStatusAccepted, boot.Status)

	value, ok := engine.Variable("OCPPCommCtrlr.HeartbeatInterval")
	require.True(t, ok)
	assert.Equal(t, "120", value, "boot reply interval replaces the configured one")

	_, err = engine.Heartbeat()
	require.NoError(t, err)
	view := server.Handler().StationView(engine.StationId())
	assert.Equal(t, 1, view.BootCount)
	assert.Equal(t, 1, view.Heartbeats)
	assert.Equal(t, types.ConnectorStatusAvailable, view.Connectors["1/1"], "boot reports every connector")
}

func TestPendingBootOverWire(t *testing.T) {
	server := startTestServer(t)
	engine := startTestStation(t, server)
	server.Handler().SetPendingOnBoot(engine.StationId())

	boot, err := engine.Boot(provisioning.BootReasonPowerUp)
	require.NoError(t, err)
	assert.Equal(t, provisioning.RegistrationStatusPending, boot.Status)

	_, err = engine.Heartbeat()
	require.Error(t, err, "only boot attempts go out while pending")

	boot, err = engine.Boot(provisioning.BootReasonPowerUp)
	require.NoError(t, err)
	assert.Equal(t, provisioning.RegistrationStatusAccepted, boot.Status)
}

func TestFullChargingSessionOverWire(t *testing.T) {
	server := startTestServer(t)
	engine := startTestStation(t, server)
	_, err := engine.Boot(provisioning.BootReasonPowerUp)
	require.NoError(t, err)

	info, err := engine.PresentToken(token("100000C01"), 1)
	require.NoError(t, err)
	require.Equal(t, types.AuthorizationStatusAccepted, info.Status)

	require.NoError(t, engine.PlugIn(1, 1))
	tx := engine.ActiveTransaction(1, 1)
	require.NotNil(t, tx)
	require.NoError(t, engine.StartCharging(1, 1))
	require.NoError(t, engine.MeterTick(1, 1, 1500))
	require.NoError(t, engine.StopWithToken(token("100000C01"), 1, 1))
	require.NoError(t, engine.Unplug(1, 1))

	view := server.Handler().StationView(engine.StationId())
	record := view.Transactions[tx.TransactionId]
	require.NotNil(t, record, "peer saw the transaction")
	assert.True(t, record.Ended)
	assert.True(t, sort.IntsAreSorted(record.SeqNos), "events arrived in order: %v", record.SeqNos)
	for i, seqNo := range record.SeqNos {
		assert.Equal(t, i, seqNo)
	}
	assert.Equal(t, types.ConnectorStatusAvailable, view.Connectors["1/1"])
}

func TestBlockedTokenNeverStartsSession(t *testing.T) {
	server := startTestServer(t)
	engine := startTestStation(t, server)
	_, err := engine.Boot(provisioning.BootReasonPowerUp)
	require.NoError(t, err)

	info, err := engine.PresentToken(token("100000C06"), 1)
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusBlocked, info.Status)
	assert.Nil(t, engine.ActiveTransaction(1, 1))
}

func TestOfflineQueueFlushesInOrderOnReconnect(t *testing.T) {
	server := startTestServer(t)
	engine := startTestStation(t, server)
	_, err := engine.Boot(provisioning.BootReasonPowerUp)
	require.NoError(t, err)

	_, err = engine.PresentToken(token("100000C01"), 1)
	require.NoError(t, err)
	require.NoError(t, engine.PlugIn(1, 1))
	tx := engine.ActiveTransaction(1, 1)
	require.NotNil(t, tx)

	engine.Disconnect()
	require.NoError(t, engine.MeterTick(1, 1, 900))
	require.NoError(t, engine.MeterTick(1, 1, 600))
	require.Greater(t, engine.QueuedEventCount(), 0)

	require.NoError(t, engine.Reconnect())
	assert.Equal(t, 0, engine.QueuedEventCount())

	view := server.Handler().StationView(engine.StationId())
	record := view.Transactions[tx.TransactionId]
	require.NotNil(t, record)
	assert.Equal(t, 2, record.OfflineEvents, "flushed events keep the offline flag")
	for i, seqNo := range record.SeqNos {
		assert.Equal(t, i, seqNo, "seqNo sequence survives the outage")
	}
}

func TestRemoteStartAndStopOverWire(t *testing.T) {
	server := startTestServer(t)
	engine := startTestStation(t, server)
	_, err := engine.Boot(provisioning.BootReasonPowerUp)
	require.NoError(t, err)

	evseId := 1
	response, err := server.Call(engine.StationId(), &remotecontrol.RequestStartTransactionRequest{
		RemoteStartId: 7,
		IdToken:       token("100000C01"),
		EvseId:        &evseId,
	}, 3*time.Second)
	require.NoError(t, err)
	require.Equal(t, remotecontrol.RequestStartStopStatusAccepted,
		response.(*remotecontrol.RequestStartTransactionResponse).Status)

	require.Eventually(t, func() bool {
		return engine.ActiveTransaction(1, 1) != nil
	}, 2*time.Second, 10*time.Millisecond)
	tx := engine.ActiveTransaction(1, 1)

	response, err = server.Call(engine.StationId(), &remotecontrol.RequestStopTransactionRequest{
		TransactionId: tx.TransactionId,
	}, 3*time.Second)
	require.NoError(t, err)
	require.Equal(t, remotecontrol.RequestStartStopStatusAccepted,
		response.(*remotecontrol.RequestStopTransactionResponse).Status)

	require.Eventually(t, func() bool {
		return engine.ActiveTransaction(1, 1) == nil
	}, 2*time.Second, 10*time.Millisecond)
	view := server.Handler().StationView(engine.StationId())
	record := view.Transactions[tx.TransactionId]
	require.NotNil(t, record)
	assert.True(t, record.Ended)
}

func TestPeerQueriesVariablesOverWire(t *testing.T) {
	server := startTestServer(t)
	engine := startTestStation(t, server)

	response, err := server.Call(engine.StationId(), &provisioning.GetVariablesRequest{
		GetVariableData: []provisioning.GetVariableData{{
			Component: types.Component{Name: "TxCtrlr"},
			Variable:  types.Variable{Name: "TxStartPoint"},
		}},
	}, 3*time.Second)
	require.NoError(t, err)
	results := response.(*provisioning.GetVariablesResponse).GetVariableResult
	require.Len(t, results, 1)
	assert.Equal(t, provisioning.GetVariableStatusAccepted, results[0].AttributeStatus)
	assert.Equal(t, "PowerPathClosed", results[0].AttributeValue)
}
