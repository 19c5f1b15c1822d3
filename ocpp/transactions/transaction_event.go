package transactions

import "cpsim/types"

const TransactionEventFeatureName = "TransactionEvent"

type TransactionEventType string
type TriggerReason string
type ChargingState string
type StoppedReason string

const (
	TransactionEventStarted TransactionEventType = "Started"
	TransactionEventUpdated TransactionEventType = "Updated"
	TransactionEventEnded   TransactionEventType = "Ended"

	TriggerReasonAuthorized           TriggerReason = "Authorized"
	TriggerReasonCablePluggedIn       TriggerReason = "CablePluggedIn"
	TriggerReasonChargingRateChanged  TriggerReason = "ChargingRateChanged"
	TriggerReasonChargingStateChanged TriggerReason = "ChargingStateChanged"
	TriggerReasonDeauthorized         TriggerReason = "Deauthorized"
	TriggerReasonEnergyLimitReached   TriggerReason = "EnergyLimitReached"
	TriggerReasonEVCommunicationLost  TriggerReason = "EVCommunicationLost"
	TriggerReasonEVConnectTimeout     TriggerReason = "EVConnectTimeout"
	TriggerReasonEVDeparted           TriggerReason = "EVDeparted"
	TriggerReasonEVDetected           TriggerReason = "EVDetected"
	TriggerReasonMeterValueClock      TriggerReason = "MeterValueClock"
	TriggerReasonMeterValuePeriodic   TriggerReason = "MeterValuePeriodic"
	TriggerReasonRemoteStart          TriggerReason = "RemoteStart"
	TriggerReasonRemoteStop           TriggerReason = "RemoteStop"
	TriggerReasonStopAuthorized       TriggerReason = "StopAuthorized"
	TriggerReasonTimeLimitReached     TriggerReason = "TimeLimitReached"
	TriggerReasonTrigger              TriggerReason = "Trigger"
	TriggerReasonUnlockCommand        TriggerReason = "UnlockCommand"

	ChargingStateCharging      ChargingState = "Charging"
	ChargingStateEVConnected   ChargingState = "EVConnected"
	ChargingStateSuspendedEV   ChargingState = "SuspendedEV"
	ChargingStateSuspendedEVSE ChargingState = "SuspendedEVSE"
	ChargingStateIdle          ChargingState = "Idle"

	StoppedReasonDeAuthorized    StoppedReason = "DeAuthorized"
	StoppedReasonEmergencyStop   StoppedReason = "EmergencyStop"
	StoppedReasonEVDisconnected  StoppedReason = "EVDisconnected"
	StoppedReasonGroundFault     StoppedReason = "GroundFault"
	StoppedReasonImmediateReset  StoppedReason = "ImmediateReset"
	StoppedReasonLocal           StoppedReason = "Local"
	StoppedReasonPowerLoss       StoppedReason = "PowerLoss"
	StoppedReasonRemote          StoppedReason = "Remote"
	StoppedReasonSOCLimitReached StoppedReason = "SOCLimitReached"
	StoppedReasonStoppedByEV     StoppedReason = "StoppedByEV"
	StoppedReasonTimeout         StoppedReason = "Timeout"
)

type Transaction struct {
	TransactionId     string        `json:"transactionId" validate:"required,max=36"`
	ChargingState     ChargingState `json:"chargingState,omitempty"`
	TimeSpentCharging *int          `json:"timeSpentCharging,omitempty"`
	StoppedReason     StoppedReason `json:"stoppedReason,omitempty"`
	RemoteStartId     *int          `json:"remoteStartId,omitempty"`
}

type TransactionEventRequest struct {
	EventType          TransactionEventType `json:"eventType" validate:"required"`
	Timestamp          *types.DateTime      `json:"timestamp" validate:"required"`
	TriggerReason      TriggerReason        `json:"triggerReason" validate:"required"`
	SeqNo              int                  `json:"seqNo" validate:"gte=0"`
	Offline            bool                 `json:"offline,omitempty"`
	NumberOfPhasesUsed *int                 `json:"numberOfPhasesUsed,omitempty"`
	CableMaxCurrent    *int                 `json:"cableMaxCurrent,omitempty"`
	ReservationId      *int                 `json:"reservationId,omitempty"`
	TransactionInfo    Transaction          `json:"transactionInfo" validate:"required"`
	IdToken            *types.IdToken       `json:"idToken,omitempty"`
	Evse               *types.EVSE          `json:"evse,omitempty"`
	MeterValue         []types.MeterValue   `json:"meterValue,omitempty" validate:"omitempty,dive"`
}

type TransactionEventResponse struct {
	TotalCost              *float64              `json:"totalCost,omitempty"`
	ChargingPriority       int                   `json:"chargingPriority,omitempty"`
	IdTokenInfo            *types.IdTokenInfo    `json:"idTokenInfo,omitempty"`
	UpdatedPersonalMessage *types.MessageContent `json:"updatedPersonalMessage,omitempty"`
}

func (r TransactionEventRequest) GetFeatureName() string {
	return TransactionEventFeatureName
}

func (c TransactionEventResponse) GetFeatureName() string {
	return TransactionEventFeatureName
}

func NewTransactionEventRequest(eventType TransactionEventType, reason TriggerReason, seqNo int, info Transaction) *TransactionEventRequest {
	return &TransactionEventRequest{
		EventType:       eventType,
		Timestamp:       types.Now(),
		TriggerReason:   reason,
		SeqNo:           seqNo,
		TransactionInfo: info,
	}
}

func NewTransactionEventResponse() *TransactionEventResponse {
	return &TransactionEventResponse{}
}
