package availability

import "cpsim/types"

const NotifyEventFeatureName = "NotifyEvent"

type EventTrigger string
type EventNotificationType string

const (
	EventTriggerAlerting EventTrigger = "Alerting"
	EventTriggerDelta    EventTrigger = "Delta"
	EventTriggerPeriodic EventTrigger = "Periodic"

	EventNotificationHardWiredNotification EventNotificationType = "HardWiredNotification"
	EventNotificationHardWiredMonitor      EventNotificationType = "HardWiredMonitor"
	EventNotificationPreconfiguredMonitor  EventNotificationType = "PreconfiguredMonitor"
	EventNotificationCustomMonitor         EventNotificationType = "CustomMonitor"
)

type EventData struct {
	EventId               int                   `json:"eventId" validate:"gte=0"`
	Timestamp             *types.DateTime       `json:"timestamp" validate:"required"`
	Trigger               EventTrigger          `json:"trigger" validate:"required"`
	Cause                 *int                  `json:"cause,omitempty"`
	ActualValue           string                `json:"actualValue" validate:"required,max=2500"`
	TechCode              string                `json:"techCode,omitempty" validate:"omitempty,max=50"`
	TechInfo              string                `json:"techInfo,omitempty" validate:"omitempty,max=500"`
	Cleared               bool                  `json:"cleared,omitempty"`
	TransactionId         string                `json:"transactionId,omitempty" validate:"omitempty,max=36"`
	Component             types.Component       `json:"component" validate:"required"`
	VariableMonitoringId  *int                  `json:"variableMonitoringId,omitempty"`
	EventNotificationType EventNotificationType `json:"eventNotificationType" validate:"required"`
	Variable              types.Variable        `json:"variable" validate:"required"`
}

type NotifyEventRequest struct {
	GeneratedAt *types.DateTime `json:"generatedAt" validate:"required"`
	Tbc         bool            `json:"tbc,omitempty"`
	SeqNo       int             `json:"seqNo" validate:"gte=0"`
	EventData   []EventData     `json:"eventData" validate:"required,min=1,dive"`
}

type NotifyEventResponse struct {
}

func (r NotifyEventRequest) GetFeatureName() string {
	return NotifyEventFeatureName
}

func (c NotifyEventResponse) GetFeatureName() string {
	return NotifyEventFeatureName
}

func NewNotifyEventRequest(seqNo int, data []EventData) *NotifyEventRequest {
	return &NotifyEventRequest{GeneratedAt: types.Now(), SeqNo: seqNo, EventData: data}
}

func NewNotifyEventResponse() *NotifyEventResponse {
	return &NotifyEventResponse{}
}
