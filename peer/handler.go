package peer

import (
	"fmt"
	"sync"

	"cpsim/internal"
	"cpsim/ocpp"
	"cpsim/ocpp/authorization"
	"cpsim/ocpp/availability"
	"cpsim/ocpp/datatransfer"
	"cpsim/ocpp/display"
	"cpsim/ocpp/firmware"
	"cpsim/ocpp/meter"
	"cpsim/ocpp/provisioning"
	"cpsim/ocpp/reservation"
	"cpsim/ocpp/security"
	"cpsim/ocpp/smartcharging"
	"cpsim/ocpp/transactions"
	"cpsim/types"
)

const defaultHeartbeatInterval = 60

// transactionRecord tracks one transaction as the station reports it.
type transactionRecord struct {
	TransactionId string
	SeqNos        []int
	LastState     transactions.ChargingState
	Ended         bool
	OfflineEvents int
}

// StationRecord is the peer's view of one station, built purely from the
// traffic it sent.
type StationRecord struct {
	BootCount      int
	Registration   provisioning.RegistrationStatus
	Heartbeats     int
	Connectors     map[string]types.ConnectorStatus
	Transactions   map[string]*transactionRecord
	SecurityEvents []string
	FirmwareStatus firmware.Status
	Reservations   map[int]reservation.ReservationUpdateStatus
	NotifyEvents   int
	MeterReports   int
}

func newStationRecord() *StationRecord {
	return &StationRecord{
		Connectors:   make(map[string]types.ConnectorStatus),
		Transactions: make(map[string]*transactionRecord),
		Reservations: make(map[int]reservation.ReservationUpdateStatus),
	}
}

// SystemHandler answers station calls from in-memory state. Tokens come from
// a fixed database seeded with one token per authorization outcome, so a
// scenario can provoke any status by picking the matching token.
type SystemHandler struct {
	logger internal.LogHandler
	mux    *sync.Mutex

	stations          map[string]*StationRecord
	tokens            map[string]types.IdTokenInfo
	pendingOnBoot     map[string]bool
	heartbeatInterval int
}

func NewSystemHandler(logger internal.LogHandler) *SystemHandler {
	handler := &SystemHandler{
		logger:            logger,
		mux:               &sync.Mutex{},
		stations:          make(map[string]*StationRecord),
		pendingOnBoot:     make(map[string]bool),
		heartbeatInterval: defaultHeartbeatInterval,
	}
	handler.tokens = map[string]types.IdTokenInfo{
		"100000C01": {Status: types.AuthorizationStatusAccepted},
		"100000C02": {Status: types.AuthorizationStatusInvalid},
		"100000C03": {Status: types.AuthorizationStatusAccepted, GroupIdToken: types.NewIdToken("A100000G1", types.IdTokenTypeCentral)},
		"100000C04": {Status: types.AuthorizationStatusAccepted, GroupIdToken: types.NewIdToken("A100000G1", types.IdTokenTypeCentral)},
		"100000C06": {Status: types.AuthorizationStatusBlocked},
		"100000C07": {Status: types.AuthorizationStatusExpired},
	}
	return handler
}

// SetHeartbeatInterval changes the interval handed out on boot.
func (h *SystemHandler) SetHeartbeatInterval(seconds int) {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.heartbeatInterval = seconds
}

// SetPendingOnBoot makes the next BootNotification from the station answer
// Pending instead of Accepted, once.
func (h *SystemHandler) SetPendingOnBoot(stationId string) {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.pendingOnBoot[stationId] = true
}

// SetToken adds or replaces a token database entry.
func (h *SystemHandler) SetToken(idToken string, info types.IdTokenInfo) {
	h.mux.Lock()
	defer h.mux.Unlock()
	h.tokens[idToken] = info
}

// Station returns the record for a station, creating it on first contact.
// Callers must hold the mutex.
func (h *SystemHandler) station(stationId string) *StationRecord {
	record, ok := h.stations[stationId]
	if !ok {
		record = newStationRecord()
		h.stations[stationId] = record
	}
	return record
}

// StationView copies the record for inspection without exposing live state.
func (h *SystemHandler) StationView(stationId string) StationRecord {
	h.mux.Lock()
	defer h.mux.Unlock()
	record := h.station(stationId)
	view := *record
	view.Connectors = make(map[string]types.ConnectorStatus, len(record.Connectors))
	for k, v := range record.Connectors {
		view.Connectors[k] = v
	}
	view.Transactions = make(map[string]*transactionRecord, len(record.Transactions))
	for k, v := range record.Transactions {
		tx := *v
		tx.SeqNos = append([]int(nil), v.SeqNos...)
		view.Transactions[k] = &tx
	}
	view.SecurityEvents = append([]string(nil), record.SecurityEvents...)
	view.Reservations = make(map[int]reservation.ReservationUpdateStatus, len(record.Reservations))
	for k, v := range record.Reservations {
		view.Reservations[k] = v
	}
	return view
}

func (h *SystemHandler) lookupToken(idToken string) types.IdTokenInfo {
	if info, ok := h.tokens[idToken]; ok {
		return info
	}
	return types.IdTokenInfo{Status: types.AuthorizationStatusUnknown}
}

// Handle answers one station-originated request. A nil response means the
// action is not one a station may send here.
func (h *SystemHandler) Handle(stationId string, request ocpp.Request) (ocpp.Response, error) {
	h.mux.Lock()
	defer h.mux.Unlock()
	record := h.station(stationId)

	switch request := request.(type) {
	case *provisioning.BootNotificationRequest:
		record.BootCount++
		status := provisioning.RegistrationStatusAccepted
		if h.pendingOnBoot[stationId] {
			delete(h.pendingOnBoot, stationId)
			status = provisioning.RegistrationStatusPending
		}
		record.Registration = status
		return provisioning.NewBootNotificationResponse(types.Now(), h.heartbeatInterval, status), nil

	case *provisioning.HeartbeatRequest:
		record.Heartbeats++
		return provisioning.NewHeartbeatResponse(types.Now()), nil

	case *availability.StatusNotificationRequest:
		key := fmt.Sprintf("%d/%d", request.EvseId, request.ConnectorId)
		record.Connectors[key] = request.ConnectorStatus
		return availability.NewStatusNotificationResponse(), nil

	case *availability.NotifyEventRequest:
		record.NotifyEvents += len(request.EventData)
		return availability.NewNotifyEventResponse(), nil

	case *authorization.AuthorizeRequest:
		info := h.lookupToken(request.IdToken.IdToken)
		return authorization.NewAuthorizeResponse(info), nil

	case *transactions.TransactionEventRequest:
		tx, ok := record.Transactions[request.TransactionInfo.TransactionId]
		if !ok {
			tx = &transactionRecord{TransactionId: request.TransactionInfo.TransactionId}
			record.Transactions[tx.TransactionId] = tx
		}
		if len(tx.SeqNos) > 0 && request.SeqNo <= tx.SeqNos[len(tx.SeqNos)-1] {
			return nil, fmt.Errorf("out of order seqNo %d on transaction %s", request.SeqNo, tx.TransactionId)
		}
		tx.SeqNos = append(tx.SeqNos, request.SeqNo)
		if request.TransactionInfo.ChargingState != "" {
			tx.LastState = request.TransactionInfo.ChargingState
		}
		if request.EventType == transactions.TransactionEventEnded {
			tx.Ended = true
		}
		if request.Offline {
			tx.OfflineEvents++
		}
		response := transactions.NewTransactionEventResponse()
		if request.IdToken != nil {
			info := h.lookupToken(request.IdToken.IdToken)
			response.IdTokenInfo = &info
		}
		return response, nil

	case *meter.MeterValuesRequest:
		record.MeterReports++
		return meter.NewMeterValuesResponse(), nil

	case *firmware.StatusNotificationRequest:
		record.FirmwareStatus = request.Status
		return firmware.NewStatusNotificationResponse(), nil

	case *security.SecurityEventNotificationRequest:
		record.SecurityEvents = append(record.SecurityEvents, request.Type)
		return security.NewSecurityEventNotificationResponse(), nil

	case *security.SignCertificateRequest:
		return security.NewSignCertificateResponse(types.GenericStatusAccepted), nil

	case *reservation.ReservationStatusUpdateRequest:
		record.Reservations[request.ReservationId] = request.ReservationUpdateStatus
		return reservation.NewReservationStatusUpdateResponse(), nil

	case *smartcharging.ReportChargingProfilesRequest:
		return &smartcharging.ReportChargingProfilesResponse{}, nil

	case *display.NotifyDisplayMessagesRequest:
		return &display.NotifyDisplayMessagesResponse{}, nil

	case *datatransfer.DataTransferRequest:
		response := datatransfer.NewDataTransferResponse(datatransfer.DataTransferStatusAccepted)
		response.Data = request.Data
		return response, nil
	}
	return nil, nil
}
