package station

import (
	"sync"
	"time"

	"cpsim/internal"
	"cpsim/metrics/counters"
	"cpsim/ocpp"
)

// CallOutcome is the single resolution of a pending call: a typed response,
// a CallError from the counter-party, or a TimeoutError.
type CallOutcome struct {
	Response ocpp.Response
	Err      error
}

type PendingCall struct {
	UniqueId string
	Action   string
	IssuedAt time.Time
	Deadline time.Time

	resolution chan CallOutcome
	resolved   bool
}

// Outcome delivers the resolution exactly once. Abandoning the channel does
// not retract the pending call; it stays registered until response or timeout.
func (p *PendingCall) Outcome() <-chan CallOutcome {
	return p.resolution
}

// Correlator owns the table of outstanding outbound calls for one connection.
// The receive loop and the deadline watcher are its only writers, both going
// through the same mutex.
type Correlator struct {
	mu        sync.Mutex
	pending   map[string]*PendingCall
	stationId string
	logger    internal.LogHandler
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewCorrelator(stationId string, logger internal.LogHandler) *Correlator {
	c := &Correlator{
		pending:   make(map[string]*PendingCall),
		stationId: stationId,
		logger:    logger,
		stop:      make(chan struct{}),
	}
	go c.watchDeadlines()
	return c
}

func (c *Correlator) Register(uniqueId, action string, timeout time.Duration) *PendingCall {
	now := time.Now()
	call := &PendingCall{
		UniqueId:   uniqueId,
		Action:     action,
		IssuedAt:   now,
		Deadline:   now.Add(timeout),
		resolution: make(chan CallOutcome, 1),
	}
	c.mu.Lock()
	c.pending[uniqueId] = call
	c.mu.Unlock()
	return call
}

// ActionFor reports the action of a still-pending uniqueId, needed to decode
// the payload of an incoming CallResult.
func (c *Correlator) ActionFor(uniqueId string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	call, ok := c.pending[uniqueId]
	if !ok {
		return "", false
	}
	return call.Action, true
}

// Resolve delivers the outcome for uniqueId. An unknown or already-resolved
// id is a protocol violation: the frame is dropped, the connection lives on.
func (c *Correlator) Resolve(uniqueId string, outcome CallOutcome) error {
	c.mu.Lock()
	call, ok := c.pending[uniqueId]
	if !ok {
		c.mu.Unlock()
		counters.CountProtocolError(c.stationId)
		return ocpp.ProtocolViolationf("no pending call with unique id %s", uniqueId)
	}
	delete(c.pending, uniqueId)
	call.resolved = true
	c.mu.Unlock()

	call.resolution <- outcome
	return nil
}

func (c *Correlator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Correlator) Stop() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

// watchDeadlines resolves expired calls with a TimeoutError, independent of
// any further traffic on the connection.
func (c *Correlator) watchDeadlines() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-ticker.C:
			c.expire(now)
		}
	}
}

func (c *Correlator) expire(now time.Time) {
	c.mu.Lock()
	var expired []*PendingCall
	for id, call := range c.pending {
		if now.After(call.Deadline) {
			delete(c.pending, id)
			call.resolved = true
			expired = append(expired, call)
		}
	}
	c.mu.Unlock()

	for _, call := range expired {
		counters.CountCallTimeout(c.stationId, call.Action)
		c.logger.Warn("no response for " + call.Action + " within deadline")
		call.resolution <- CallOutcome{Err: &ocpp.TimeoutError{UniqueId: call.UniqueId, Action: call.Action}}
	}
}
