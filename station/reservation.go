package station

import (
	"time"

	"github.com/go-co-op/gocron/v2"

	"cpsim/ocpp/reservation"
	"cpsim/types"
)

// onReserveNow books a connector. A request naming an EVSE is answered from
// that EVSE's state; one without picks the first free EVSE. A connectorType
// narrows the choice to connectors of that type; none present means Rejected.
// The expiry timer runs on the shared scheduler and reports Expired on its
// own initiative.
func (e *Engine) onReserveNow(request *reservation.ReserveNowRequest) *reservation.ReserveNowResponse {
	e.mu.Lock()
	defer e.mu.Unlock()

	var evseId, connectorId int
	if request.EvseId != nil {
		evse, ok := e.state.Evses[*request.EvseId]
		if !ok {
			return reservation.NewReserveNowResponse(reservation.ReserveNowStatusRejected)
		}
		evseId = evse.Id
		typeSeen := false
		worst := reservation.ReserveNowStatusOccupied
		for id, connector := range evse.Connectors {
			if !connector.matchesType(request.ConnectorType) {
				continue
			}
			typeSeen = true
			switch connector.Status {
			case types.ConnectorStatusAvailable:
				connectorId = id
			case types.ConnectorStatusFaulted:
				worst = reservation.ReserveNowStatusFaulted
			case types.ConnectorStatusUnavailable:
				worst = reservation.ReserveNowStatusUnavailable
			}
		}
		if connectorId == 0 {
			if !typeSeen {
				return reservation.NewReserveNowResponse(reservation.ReserveNowStatusRejected)
			}
			return reservation.NewReserveNowResponse(worst)
		}
	} else {
		free, ok := e.state.firstFreeEvse(request.ConnectorType)
		if !ok {
			if request.ConnectorType != "" {
				return reservation.NewReserveNowResponse(reservation.ReserveNowStatusRejected)
			}
			return reservation.NewReserveNowResponse(reservation.ReserveNowStatusOccupied)
		}
		evseId = free
		for id, connector := range e.state.Evses[evseId].Connectors {
			if connector.Status == types.ConnectorStatusAvailable && connector.ReservationId == 0 && connector.matchesType(request.ConnectorType) {
				connectorId = id
				break
			}
		}
	}

	if existing := e.state.Reservations[request.Id]; existing != nil && existing.Status == ReservationActive {
		e.releaseReservationLocked(existing, ReservationRemoved)
	}

	connector := e.state.Evses[evseId].Connectors[connectorId]
	connector.Status = types.ConnectorStatusReserved
	connector.ReservationId = request.Id
	e.state.Reservations[request.Id] = &Reservation{
		Id:            request.Id,
		EvseId:        evseId,
		ConnectorType: request.ConnectorType,
		IdToken:       request.IdToken,
		GroupIdToken:  request.GroupIdToken,
		ExpiryTime:    request.ExpiryDateTime,
		Status:        ReservationActive,
	}
	e.scheduleExpiryLocked(request.Id, request.ExpiryDateTime.Time)

	go e.notifyStatus(evseId, connectorId, types.ConnectorStatusReserved)
	return reservation.NewReserveNowResponse(reservation.ReserveNowStatusAccepted)
}

func (e *Engine) onCancelReservation(request *reservation.CancelReservationRequest) *reservation.CancelReservationResponse {
	e.mu.Lock()
	res := e.state.Reservations[request.ReservationId]
	if res == nil || res.Status != ReservationActive {
		e.mu.Unlock()
		return reservation.NewCancelReservationResponse(reservation.CancelReservationStatusRejected)
	}
	evseId, connectorId := e.releaseReservationLocked(res, ReservationCancelled)
	e.mu.Unlock()

	if connectorId != 0 {
		go e.notifyStatus(evseId, connectorId, types.ConnectorStatusAvailable)
	}
	return reservation.NewCancelReservationResponse(reservation.CancelReservationStatusAccepted)
}

// releaseReservationLocked frees the reserved connector, cancels the expiry
// timer and records the terminal status. Returns the freed connector, 0,0
// when none was held.
func (e *Engine) releaseReservationLocked(res *Reservation, status ReservationStatus) (int, int) {
	res.Status = status
	e.cancelExpiryJobLocked(res.Id)
	evse, ok := e.state.Evses[res.EvseId]
	if !ok {
		return 0, 0
	}
	for connectorId, connector := range evse.Connectors {
		if connector.ReservationId == res.Id {
			connector.ReservationId = 0
			if connector.Status == types.ConnectorStatusReserved {
				connector.Status = types.ConnectorStatusAvailable
			}
			return res.EvseId, connectorId
		}
	}
	return 0, 0
}

func (e *Engine) scheduleExpiryLocked(reservationId int, at time.Time) {
	job, err := e.scheduler.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(at)),
		gocron.NewTask(func() { e.expireReservation(reservationId) }),
	)
	if err != nil {
		e.logger.Error("schedule reservation expiry", err)
		return
	}
	e.reservationJobs[reservationId] = job
}

func (e *Engine) cancelExpiryJob(reservationId int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cancelExpiryJobLocked(reservationId)
}

func (e *Engine) cancelExpiryJobLocked(reservationId int) {
	if job, ok := e.reservationJobs[reservationId]; ok {
		_ = e.scheduler.RemoveJob(job.ID())
		delete(e.reservationJobs, reservationId)
	}
}

func (e *Engine) expireReservation(reservationId int) {
	e.mu.Lock()
	res := e.state.Reservations[reservationId]
	if res == nil || res.Status != ReservationActive {
		e.mu.Unlock()
		return
	}
	evseId, connectorId := e.releaseReservationLocked(res, ReservationExpired)
	e.mu.Unlock()

	if connectorId != 0 {
		e.notifyStatus(evseId, connectorId, types.ConnectorStatusAvailable)
	}
	if _, err := e.Call(reservation.NewReservationStatusUpdateRequest(reservationId, reservation.ReservationUpdateStatusExpired)); err != nil {
		e.logger.Error("reservation status update", err)
	}
}

func (e *Engine) reservationOnEvse(evseId int) (*Reservation, bool) {
	for _, res := range e.state.Reservations {
		if res.Status == ReservationActive && res.EvseId == evseId {
			return res, true
		}
	}
	return nil, false
}

// tokenMatchesReservation accepts the reserving token itself or any token
// sharing the reservation's group.
func (e *Engine) tokenMatchesReservation(idToken types.IdToken, info *types.IdTokenInfo, res *Reservation) bool {
	if idToken.IdToken == res.IdToken.IdToken {
		return true
	}
	if res.GroupIdToken != nil && info.GroupIdToken != nil && info.GroupIdToken.IdToken == res.GroupIdToken.IdToken {
		return true
	}
	return false
}
