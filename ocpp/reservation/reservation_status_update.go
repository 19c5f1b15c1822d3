package reservation

const ReservationStatusUpdateFeatureName = "ReservationStatusUpdate"

type ReservationUpdateStatus string

const (
	ReservationUpdateStatusExpired ReservationUpdateStatus = "Expired"
	ReservationUpdateStatusRemoved ReservationUpdateStatus = "Removed"
)

type ReservationStatusUpdateRequest struct {
	ReservationId           int                     `json:"reservationId" validate:"gte=0"`
	ReservationUpdateStatus ReservationUpdateStatus `json:"reservationUpdateStatus" validate:"required"`
}

type ReservationStatusUpdateResponse struct {
}

func (r ReservationStatusUpdateRequest) GetFeatureName() string {
	return ReservationStatusUpdateFeatureName
}

func (c ReservationStatusUpdateResponse) GetFeatureName() string {
	return ReservationStatusUpdateFeatureName
}

func NewReservationStatusUpdateRequest(reservationId int, status ReservationUpdateStatus) *ReservationStatusUpdateRequest {
	return &ReservationStatusUpdateRequest{ReservationId: reservationId, ReservationUpdateStatus: status}
}

func NewReservationStatusUpdateResponse() *ReservationStatusUpdateResponse {
	return &ReservationStatusUpdateResponse{}
}
