package station

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpsim/internal"
	"cpsim/internal/config"
	"cpsim/ocpp/datatransfer"
	"cpsim/ocpp/transactions"
	"cpsim/types"
)

// newTestEngine builds an offline engine on the default one EVSE, one
// connector topology. Outbound calls fail fast with a transport error, so
// transaction events land in the offline queue.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	conf, err := config.Default()
	require.NoError(t, err)
	engine := NewEngine(conf, internal.NewLogger())
	t.Cleanup(engine.Stop)
	return engine
}

func acceptedToken(id string) types.IdToken {
	return types.IdToken{IdToken: id, Type: types.IdTokenTypeISO14443}
}

// seedAccepted plants an Accepted cache entry so offline authorization
// succeeds without a round trip.
func seedAccepted(e *Engine, id string) {
	e.cache.Upsert(id, types.IdTokenInfo{Status: types.AuthorizationStatusAccepted}, time.Now())
}

func TestOfflineSessionLifecycle(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-1")

	info, err := engine.PresentToken(acceptedToken("TAG-1"), 1)
	require.NoError(t, err)
	require.Equal(t, types.AuthorizationStatusAccepted, info.Status)
	assert.Nil(t, engine.ActiveTransaction(1, 1), "PowerPathClosed start point must not start on authorization")

	require.NoError(t, engine.PlugIn(1, 1))
	tx := engine.ActiveTransaction(1, 1)
	require.NotNil(t, tx, "plugging in after authorization starts the transaction")
	assert.Equal(t, 1, tx.SeqNo, "Started event consumes seqNo 0")

	require.NoError(t, engine.StartCharging(1, 1))
	assert.Equal(t, transactions.ChargingStateCharging, tx.ChargingState)

	require.NoError(t, engine.MeterTick(1, 1, 1500))
	require.NoError(t, engine.MeterTick(1, 1, 500))
	assert.Len(t, tx.MeterValues, 2)
	assert.Equal(t, 2000.0, tx.energyWh)

	queued := engine.QueuedEventCount()
	assert.Greater(t, queued, 0, "offline events queue instead of being dropped")

	require.NoError(t, engine.EndTransaction(1, 1, transactions.StoppedReasonLocal))
	assert.Nil(t, engine.ActiveTransaction(1, 1))
	assert.Equal(t, queued+1, engine.QueuedEventCount(), "Ended event queues too")

	require.NoError(t, engine.Unplug(1, 1))
	connector, err := engine.state.connector(1, 1)
	require.NoError(t, err)
	assert.Equal(t, types.ConnectorStatusAvailable, connector.Status)
}

func TestSequenceNumbersAreContiguous(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-1")

	_, err := engine.PresentToken(acceptedToken("TAG-1"), 1)
	require.NoError(t, err)
	require.NoError(t, engine.PlugIn(1, 1))
	require.NoError(t, engine.StartCharging(1, 1))
	require.NoError(t, engine.MeterTick(1, 1, 100))
	require.NoError(t, engine.EndTransaction(1, 1, transactions.StoppedReasonLocal))

	var got []int
	engine.mu.Lock()
	for _, event := range engine.offlineQueue {
		got = append(got, event.SeqNo)
	}
	engine.mu.Unlock()
	require.GreaterOrEqual(t, len(got), 4)
	for i, seqNo := range got {
		assert.Equal(t, i, seqNo, "event %d carries seqNo %d", i, seqNo)
	}
}

func TestPresentTokenUnknownOffline(t *testing.T) {
	engine := newTestEngine(t)

	info, err := engine.PresentToken(acceptedToken("NEVER-SEEN"), 1)
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusUnknown, info.Status)
	assert.Nil(t, engine.ActiveTransaction(1, 1))
}

func TestPresentTokenEvseRestriction(t *testing.T) {
	engine := newTestEngine(t)
	engine.cache.Upsert("TAG-9", types.IdTokenInfo{
		Status: types.AuthorizationStatusAccepted,
		EvseId: []int{2},
	}, time.Now())

	info, err := engine.PresentToken(acceptedToken("TAG-9"), 1)
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusNotAllowedTypeEVSE, info.Status)
}

func TestAuthorizePrefersLocalListOverCache(t *testing.T) {
	engine := newTestEngine(t)
	engine.localList.entries["TAG-2"] = types.IdTokenInfo{Status: types.AuthorizationStatusBlocked}
	seedAccepted(engine, "TAG-2")

	info, err := engine.Authorize(acceptedToken("TAG-2"))
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusBlocked, info.Status)
}

func TestTxStartPointAuthorizedStartsImmediately(t *testing.T) {
	engine := newTestEngine(t)
	engine.txStartPoint = TxStartPointAuthorized
	seedAccepted(engine, "TAG-1")

	_, err := engine.PresentToken(acceptedToken("TAG-1"), 1)
	require.NoError(t, err)
	require.NotNil(t, engine.ActiveTransaction(1, 1))
}

func TestUnplugWithActiveTransactionFails(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-1")

	_, err := engine.PresentToken(acceptedToken("TAG-1"), 1)
	require.NoError(t, err)
	require.NoError(t, engine.PlugIn(1, 1))
	require.Error(t, engine.Unplug(1, 1))
}

func TestStopWithForeignTokenRejected(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-1")

	_, err := engine.PresentToken(acceptedToken("TAG-1"), 1)
	require.NoError(t, err)
	require.NoError(t, engine.PlugIn(1, 1))

	err = engine.StopWithToken(acceptedToken("OTHER"), 1, 1)
	require.Error(t, err, "an unknown token cannot stop the session")
	assert.NotNil(t, engine.ActiveTransaction(1, 1))
}

func TestPlugInOnFaultedConnectorFails(t *testing.T) {
	engine := newTestEngine(t)
	require.NoError(t, engine.TripFault(1, 1))
	require.Error(t, engine.PlugIn(1, 1))

	require.NoError(t, engine.ClearFault(1, 1))
	require.NoError(t, engine.PlugIn(1, 1))
}

func TestOfflineQueuePreservesOrderUntilReconnect(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-1")

	_, err := engine.PresentToken(acceptedToken("TAG-1"), 1)
	require.NoError(t, err)
	require.NoError(t, engine.PlugIn(1, 1))
	require.NoError(t, engine.MeterTick(1, 1, 250))

	engine.mu.Lock()
	for _, event := range engine.offlineQueue {
		assert.True(t, event.Offline, "queued events are flagged offline")
	}
	first := engine.offlineQueue[0]
	engine.mu.Unlock()
	assert.Equal(t, transactions.TransactionEventStarted, first.EventType)
}

func TestDataTransfer(t *testing.T) {
	engine := newTestEngine(t)
	vendor := engine.conf.Station.VendorName

	t.Run("unknown vendor", func(t *testing.T) {
		response := engine.onDataTransfer(&datatransfer.DataTransferRequest{VendorId: "nobody"})
		assert.Equal(t, datatransfer.DataTransferStatusUnknownVendorId, response.Status)
	})
	t.Run("echo", func(t *testing.T) {
		response := engine.onDataTransfer(&datatransfer.DataTransferRequest{VendorId: vendor, MessageId: "Echo", Data: "ping"})
		require.Equal(t, datatransfer.DataTransferStatusAccepted, response.Status)
		assert.Equal(t, "ping", response.Data)
	})
	t.Run("uptime", func(t *testing.T) {
		response := engine.onDataTransfer(&datatransfer.DataTransferRequest{VendorId: vendor, MessageId: "Uptime"})
		require.Equal(t, datatransfer.DataTransferStatusAccepted, response.Status)
		assert.NotEmpty(t, response.Data)
	})
	t.Run("unknown message", func(t *testing.T) {
		response := engine.onDataTransfer(&datatransfer.DataTransferRequest{VendorId: vendor, MessageId: "Reboot"})
		assert.Equal(t, datatransfer.DataTransferStatusUnknownMessageId, response.Status)
	})
}

func TestConcurrentMeterTicksStayConsistent(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-9")
	_, err := engine.PresentToken(acceptedToken("TAG-9"), 1)
	require.NoError(t, err)
	require.NoError(t, engine.PlugIn(1, 1))
	require.NoError(t, engine.StartCharging(1, 1))

	const workers = 8
	const ticks = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < ticks; j++ {
				assert.NoError(t, engine.MeterTick(1, 1, 10))
			}
		}()
	}
	wg.Wait()

	tx := engine.ActiveTransaction(1, 1)
	require.NotNil(t, tx)
	assert.Equal(t, float64(workers*ticks*10), tx.energyWh)
	assert.Len(t, tx.MeterValues, workers*ticks)
	// Started, the Charging update, then one event per tick
	assert.Equal(t, 2+workers*ticks, engine.QueuedEventCount())
	assert.Equal(t, 2+workers*ticks, tx.SeqNo)

	engine.mu.Lock()
	for i, event := range engine.offlineQueue {
		assert.Equal(t, i, event.SeqNo, "queue position %d", i)
	}
	engine.mu.Unlock()
}

func TestAuthorizeOfflineRespectsLocalAuthorizePolicy(t *testing.T) {
	engine := newTestEngine(t)
	seedAccepted(engine, "TAG-7")

	engine.mu.Lock()
	engine.localAuthorizeOffline = false
	engine.mu.Unlock()

	info, err := engine.Authorize(acceptedToken("TAG-7"))
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusUnknown, info.Status, "offline local authorization is disabled")

	engine.mu.Lock()
	engine.setVariableLocked("AuthCtrlr.LocalAuthorizeOffline", "true")
	engine.mu.Unlock()

	info, err = engine.Authorize(acceptedToken("TAG-7"))
	require.NoError(t, err)
	assert.Equal(t, types.AuthorizationStatusAccepted, info.Status)
}
