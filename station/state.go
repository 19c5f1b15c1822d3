package station

import (
	"fmt"

	"cpsim/ocpp/transactions"
	"cpsim/types"
)

// LifecycleState of the simulated station, following the reusable-state
// ladder a conformance run walks through.
type LifecycleState string

const (
	StateBoot                    LifecycleState = "Boot"
	StateAvailable               LifecycleState = "Available"
	StateUnavailable             LifecycleState = "Unavailable"
	StateReserved                LifecycleState = "Reserved"
	StateAuthorized              LifecycleState = "Authorized"
	StateEVConnectedPreSession   LifecycleState = "EVConnectedPreSession"
	StateEnergyTransferStarted   LifecycleState = "EnergyTransferStarted"
	StateEnergyTransferSuspended LifecycleState = "EnergyTransferSuspended"
	StateStopAuthorized          LifecycleState = "StopAuthorized"
	StateEVConnectedPostSession  LifecycleState = "EVConnectedPostSession"
	StateEVDisconnected          LifecycleState = "EVDisconnected"
	StateFaulted                 LifecycleState = "Faulted"
)

// TxStartPoint names the trigger point after which a transaction counts as
// started for the deauthorization policy.
type TxStartPoint string

const (
	TxStartPointAuthorized      TxStartPoint = "Authorized"
	TxStartPointPowerPathClosed TxStartPoint = "PowerPathClosed"
	TxStartPointEnergyTransfer  TxStartPoint = "EnergyTransfer"
)

type ConnectorState struct {
	Type          types.ConnectorType
	Status        types.ConnectorStatus
	ReservationId int // 0 when not reserved
}

// evseTopology is the shape one EVSE is built with.
type evseTopology struct {
	connectors    int
	connectorType types.ConnectorType
}

type EvseState struct {
	Id         int
	Connectors map[int]*ConnectorState
}

type evseKey struct {
	evseId      int
	connectorId int
}

// Transaction is the station-side record of one charging session. seqNo
// starts at 0 on the Started event and increments by exactly one per event.
type Transaction struct {
	TransactionId string
	EvseId        int
	ConnectorId   int
	IdToken       *types.IdToken
	ChargingState transactions.ChargingState
	RemoteStartId *int
	SeqNo         int
	MeterValues   []types.MeterValue
	StartedAt     *types.DateTime
	EndedAt       *types.DateTime

	// startPointReached records that the configured trigger point passed,
	// arming the stop-on-invalid-id policy.
	startPointReached bool
	energyWh          float64
}

func (t *Transaction) nextSeqNo() int {
	n := t.SeqNo
	t.SeqNo++
	return n
}

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "Active"
	ReservationExpired   ReservationStatus = "Expired"
	ReservationRemoved   ReservationStatus = "Removed"
	ReservationCancelled ReservationStatus = "Cancelled"
)

type Reservation struct {
	Id            int
	EvseId        int // 0 when the reservation is not bound to one EVSE
	ConnectorType types.ConnectorType
	IdToken       types.IdToken
	GroupIdToken  *types.IdToken
	ExpiryTime    *types.DateTime
	Status        ReservationStatus
}

type profileKey struct {
	evseId     int
	purpose    types.ChargingProfilePurpose
	stackLevel int
}

// StationState is owned by one engine instance and mutated only under the
// engine mutex.
type StationState struct {
	Lifecycle    LifecycleState
	Registration string // BootNotification registration status once received

	Evses        map[int]*EvseState
	Transactions map[evseKey]*Transaction
	Reservations map[int]*Reservation
	Profiles     map[profileKey]types.ChargingProfile

	evseSeq map[string]int // per-EVSE event sequence for NotifyEvent
}

func newStationState(evses map[int]evseTopology) *StationState {
	s := &StationState{
		Lifecycle:    StateBoot,
		Evses:        make(map[int]*EvseState),
		Transactions: make(map[evseKey]*Transaction),
		Reservations: make(map[int]*Reservation),
		Profiles:     make(map[profileKey]types.ChargingProfile),
		evseSeq:      make(map[string]int),
	}
	for evseId, topology := range evses {
		evse := &EvseState{Id: evseId, Connectors: make(map[int]*ConnectorState)}
		for connectorId := 1; connectorId <= topology.connectors; connectorId++ {
			evse.Connectors[connectorId] = &ConnectorState{Type: topology.connectorType, Status: types.ConnectorStatusAvailable}
		}
		s.Evses[evseId] = evse
	}
	return s
}

func (s *StationState) connector(evseId, connectorId int) (*ConnectorState, error) {
	evse, ok := s.Evses[evseId]
	if !ok {
		return nil, fmt.Errorf("unknown evse %d", evseId)
	}
	connector, ok := evse.Connectors[connectorId]
	if !ok {
		return nil, fmt.Errorf("unknown connector %d on evse %d", connectorId, evseId)
	}
	return connector, nil
}

func (c *ConnectorState) matchesType(want types.ConnectorType) bool {
	return want == "" || c.Type == want
}

func (s *StationState) transactionOn(evseId, connectorId int) *Transaction {
	return s.Transactions[evseKey{evseId, connectorId}]
}

func (s *StationState) activeTransactionCount() int {
	return len(s.Transactions)
}

// firstFreeEvse picks the lowest-numbered EVSE with an available connector of
// the wanted type, used when ReserveNow leaves the EVSE unspecified. An empty
// type matches any connector.
func (s *StationState) firstFreeEvse(connectorType types.ConnectorType) (int, bool) {
	best := -1
	for evseId, evse := range s.Evses {
		free := false
		for _, connector := range evse.Connectors {
			if connector.Status == types.ConnectorStatusAvailable && connector.ReservationId == 0 && connector.matchesType(connectorType) {
				free = true
				break
			}
		}
		if free && (best == -1 || evseId < best) {
			best = evseId
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}
