package reservation

import "cpsim/types"

const CancelReservationFeatureName = "CancelReservation"

type CancelReservationStatus string

const (
	CancelReservationStatusAccepted CancelReservationStatus = "Accepted"
	CancelReservationStatusRejected CancelReservationStatus = "Rejected"
)

type CancelReservationRequest struct {
	ReservationId int `json:"reservationId" validate:"gte=0"`
}

type CancelReservationResponse struct {
	Status     CancelReservationStatus `json:"status" validate:"required"`
	StatusInfo *types.StatusInfo       `json:"statusInfo,omitempty"`
}

func (r CancelReservationRequest) GetFeatureName() string {
	return CancelReservationFeatureName
}

func (c CancelReservationResponse) GetFeatureName() string {
	return CancelReservationFeatureName
}

func NewCancelReservationRequest(reservationId int) *CancelReservationRequest {
	return &CancelReservationRequest{ReservationId: reservationId}
}

func NewCancelReservationResponse(status CancelReservationStatus) *CancelReservationResponse {
	return &CancelReservationResponse{Status: status}
}
