package scenario

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpsim/internal"
	"cpsim/internal/config"
	"cpsim/peer"
	"cpsim/station"
	"cpsim/types"
	"cpsim/utility"
)

func offlineEngine(t *testing.T) *station.Engine {
	t.Helper()
	conf, err := config.Default()
	require.NoError(t, err)
	engine := station.NewEngine(conf, internal.NewLogger())
	t.Cleanup(engine.Stop)
	return engine
}

func TestRunnerExecutesStepsInOrder(t *testing.T) {
	engine := offlineEngine(t)
	var order []string
	sc := Scenario{
		Name: "ordering",
		Steps: []Step{
			{Name: "first", Do: func(e *station.Engine) error { order = append(order, "first"); return nil }},
			{Name: "second", Expect: func(e *station.Engine) error { order = append(order, "second"); return nil }},
			{Name: "third", Do: func(e *station.Engine) error { order = append(order, "third"); return nil }},
		},
	}
	require.NoError(t, NewRunner(internal.NewLogger()).Run(engine, sc))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestRunnerStopsAtFirstFailure(t *testing.T) {
	engine := offlineEngine(t)
	reached := false
	sc := Scenario{
		Name: "failing",
		Steps: []Step{
			{Name: "ok", Do: func(e *station.Engine) error { return nil }},
			{Name: "breaks", Do: func(e *station.Engine) error { return utility.Err("boom") }},
			{Name: "never", Do: func(e *station.Engine) error { reached = true; return nil }},
		},
	}
	err := NewRunner(internal.NewLogger()).Run(engine, sc)
	require.Error(t, err)
	assert.ErrorContains(t, err, `failing: step "breaks"`)
	assert.False(t, reached)
}

func TestRunnerChecksExpectations(t *testing.T) {
	engine := offlineEngine(t)
	sc := Scenario{
		Name: "expectation",
		Steps: []Step{
			{
				Name:   "tx must exist",
				Expect: func(e *station.Engine) error { return utility.Err("no transaction") },
			},
		},
	}
	err := NewRunner(internal.NewLogger()).Run(engine, sc)
	assert.ErrorContains(t, err, "no transaction")
}

func connectedEngine(t *testing.T) *station.Engine {
	t.Helper()
	peerConf, err := config.Default()
	require.NoError(t, err)
	peerConf.Peer.BindIP = "127.0.0.1"
	peerConf.Peer.Port = "0"
	server := peer.NewServer(peerConf, internal.NewLogger())
	go func() { _ = server.Start() }()
	t.Cleanup(func() { _ = server.Stop() })
	require.Eventually(t, func() bool { return server.Addr() != "" }, 2*time.Second, 10*time.Millisecond)

	conf, err := config.Default()
	require.NoError(t, err)
	conf.Station.Endpoint = "ws://" + server.Addr() + "/ws"
	engine := station.NewEngine(conf, internal.NewLogger())
	engine.SetCallTimeout(3 * time.Second)
	require.NoError(t, engine.Connect())
	t.Cleanup(engine.Stop)
	return engine
}

func TestChargingSessionScenario(t *testing.T) {
	engine := connectedEngine(t)
	token := types.IdToken{IdToken: "100000C01", Type: types.IdTokenTypeISO14443}
	err := NewRunner(internal.NewLogger()).Run(engine, ChargingSession(token, 1, 1))
	require.NoError(t, err)
	assert.Nil(t, engine.ActiveTransaction(1, 1))
}

func TestOfflineRecoveryScenario(t *testing.T) {
	engine := connectedEngine(t)
	token := types.IdToken{IdToken: "100000C01", Type: types.IdTokenTypeISO14443}
	err := NewRunner(internal.NewLogger()).Run(engine, OfflineRecovery(token, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, engine.QueuedEventCount())
}
