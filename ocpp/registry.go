package ocpp

import (
	"fmt"
	"reflect"

	"cpsim/ocpp/authorization"
	"cpsim/ocpp/availability"
	"cpsim/ocpp/datatransfer"
	"cpsim/ocpp/display"
	"cpsim/ocpp/firmware"
	"cpsim/ocpp/localauth"
	"cpsim/ocpp/meter"
	"cpsim/ocpp/provisioning"
	"cpsim/ocpp/remotecontrol"
	"cpsim/ocpp/reservation"
	"cpsim/ocpp/security"
	"cpsim/ocpp/smartcharging"
	"cpsim/ocpp/transactions"
)

type featureTypes struct {
	request  reflect.Type
	response reflect.Type
}

var features = map[string]featureTypes{
	provisioning.BootNotificationFeatureName: {
		reflect.TypeOf(provisioning.BootNotificationRequest{}),
		reflect.TypeOf(provisioning.BootNotificationResponse{}),
	},
	provisioning.HeartbeatFeatureName: {
		reflect.TypeOf(provisioning.HeartbeatRequest{}),
		reflect.TypeOf(provisioning.HeartbeatResponse{}),
	},
	provisioning.ResetFeatureName: {
		reflect.TypeOf(provisioning.ResetRequest{}),
		reflect.TypeOf(provisioning.ResetResponse{}),
	},
	provisioning.GetVariablesFeatureName: {
		reflect.TypeOf(provisioning.GetVariablesRequest{}),
		reflect.TypeOf(provisioning.GetVariablesResponse{}),
	},
	provisioning.SetVariablesFeatureName: {
		reflect.TypeOf(provisioning.SetVariablesRequest{}),
		reflect.TypeOf(provisioning.SetVariablesResponse{}),
	},
	availability.StatusNotificationFeatureName: {
		reflect.TypeOf(availability.StatusNotificationRequest{}),
		reflect.TypeOf(availability.StatusNotificationResponse{}),
	},
	availability.ChangeAvailabilityFeatureName: {
		reflect.TypeOf(availability.ChangeAvailabilityRequest{}),
		reflect.TypeOf(availability.ChangeAvailabilityResponse{}),
	},
	availability.NotifyEventFeatureName: {
		reflect.TypeOf(availability.NotifyEventRequest{}),
		reflect.TypeOf(availability.NotifyEventResponse{}),
	},
	authorization.AuthorizeFeatureName: {
		reflect.TypeOf(authorization.AuthorizeRequest{}),
		reflect.TypeOf(authorization.AuthorizeResponse{}),
	},
	authorization.ClearCacheFeatureName: {
		reflect.TypeOf(authorization.ClearCacheRequest{}),
		reflect.TypeOf(authorization.ClearCacheResponse{}),
	},
	localauth.SendLocalListFeatureName: {
		reflect.TypeOf(localauth.SendLocalListRequest{}),
		reflect.TypeOf(localauth.SendLocalListResponse{}),
	},
	localauth.GetLocalListVersionFeatureName: {
		reflect.TypeOf(localauth.GetLocalListVersionRequest{}),
		reflect.TypeOf(localauth.GetLocalListVersionResponse{}),
	},
	transactions.TransactionEventFeatureName: {
		reflect.TypeOf(transactions.TransactionEventRequest{}),
		reflect.TypeOf(transactions.TransactionEventResponse{}),
	},
	transactions.GetTransactionStatusFeatureName: {
		reflect.TypeOf(transactions.GetTransactionStatusRequest{}),
		reflect.TypeOf(transactions.GetTransactionStatusResponse{}),
	},
	remotecontrol.RequestStartTransactionFeatureName: {
		reflect.TypeOf(remotecontrol.RequestStartTransactionRequest{}),
		reflect.TypeOf(remotecontrol.RequestStartTransactionResponse{}),
	},
	remotecontrol.RequestStopTransactionFeatureName: {
		reflect.TypeOf(remotecontrol.RequestStopTransactionRequest{}),
		reflect.TypeOf(remotecontrol.RequestStopTransactionResponse{}),
	},
	remotecontrol.TriggerMessageFeatureName: {
		reflect.TypeOf(remotecontrol.TriggerMessageRequest{}),
		reflect.TypeOf(remotecontrol.TriggerMessageResponse{}),
	},
	reservation.ReserveNowFeatureName: {
		reflect.TypeOf(reservation.ReserveNowRequest{}),
		reflect.TypeOf(reservation.ReserveNowResponse{}),
	},
	reservation.CancelReservationFeatureName: {
		reflect.TypeOf(reservation.CancelReservationRequest{}),
		reflect.TypeOf(reservation.CancelReservationResponse{}),
	},
	reservation.ReservationStatusUpdateFeatureName: {
		reflect.TypeOf(reservation.ReservationStatusUpdateRequest{}),
		reflect.TypeOf(reservation.ReservationStatusUpdateResponse{}),
	},
	smartcharging.SetChargingProfileFeatureName: {
		reflect.TypeOf(smartcharging.SetChargingProfileRequest{}),
		reflect.TypeOf(smartcharging.SetChargingProfileResponse{}),
	},
	smartcharging.GetChargingProfilesFeatureName: {
		reflect.TypeOf(smartcharging.GetChargingProfilesRequest{}),
		reflect.TypeOf(smartcharging.GetChargingProfilesResponse{}),
	},
	smartcharging.ReportChargingProfilesFeatureName: {
		reflect.TypeOf(smartcharging.ReportChargingProfilesRequest{}),
		reflect.TypeOf(smartcharging.ReportChargingProfilesResponse{}),
	},
	smartcharging.ClearChargingProfileFeatureName: {
		reflect.TypeOf(smartcharging.ClearChargingProfileRequest{}),
		reflect.TypeOf(smartcharging.ClearChargingProfileResponse{}),
	},
	smartcharging.GetCompositeScheduleFeatureName: {
		reflect.TypeOf(smartcharging.GetCompositeScheduleRequest{}),
		reflect.TypeOf(smartcharging.GetCompositeScheduleResponse{}),
	},
	firmware.UpdateFirmwareFeatureName: {
		reflect.TypeOf(firmware.UpdateFirmwareRequest{}),
		reflect.TypeOf(firmware.UpdateFirmwareResponse{}),
	},
	firmware.StatusNotificationFeatureName: {
		reflect.TypeOf(firmware.StatusNotificationRequest{}),
		reflect.TypeOf(firmware.StatusNotificationResponse{}),
	},
	security.InstallCertificateFeatureName: {
		reflect.TypeOf(security.InstallCertificateRequest{}),
		reflect.TypeOf(security.InstallCertificateResponse{}),
	},
	security.GetInstalledCertificateIdsFeatureName: {
		reflect.TypeOf(security.GetInstalledCertificateIdsRequest{}),
		reflect.TypeOf(security.GetInstalledCertificateIdsResponse{}),
	},
	security.DeleteCertificateFeatureName: {
		reflect.TypeOf(security.DeleteCertificateRequest{}),
		reflect.TypeOf(security.DeleteCertificateResponse{}),
	},
	security.SecurityEventNotificationFeatureName: {
		reflect.TypeOf(security.SecurityEventNotificationRequest{}),
		reflect.TypeOf(security.SecurityEventNotificationResponse{}),
	},
	security.SignCertificateFeatureName: {
		reflect.TypeOf(security.SignCertificateRequest{}),
		reflect.TypeOf(security.SignCertificateResponse{}),
	},
	security.CertificateSignedFeatureName: {
		reflect.TypeOf(security.CertificateSignedRequest{}),
		reflect.TypeOf(security.CertificateSignedResponse{}),
	},
	display.SetDisplayMessageFeatureName: {
		reflect.TypeOf(display.SetDisplayMessageRequest{}),
		reflect.TypeOf(display.SetDisplayMessageResponse{}),
	},
	display.GetDisplayMessagesFeatureName: {
		reflect.TypeOf(display.GetDisplayMessagesRequest{}),
		reflect.TypeOf(display.GetDisplayMessagesResponse{}),
	},
	display.ClearDisplayMessageFeatureName: {
		reflect.TypeOf(display.ClearDisplayMessageRequest{}),
		reflect.TypeOf(display.ClearDisplayMessageResponse{}),
	},
	display.NotifyDisplayMessagesFeatureName: {
		reflect.TypeOf(display.NotifyDisplayMessagesRequest{}),
		reflect.TypeOf(display.NotifyDisplayMessagesResponse{}),
	},
	meter.MeterValuesFeatureName: {
		reflect.TypeOf(meter.MeterValuesRequest{}),
		reflect.TypeOf(meter.MeterValuesResponse{}),
	},
	datatransfer.DataTransferFeatureName: {
		reflect.TypeOf(datatransfer.DataTransferRequest{}),
		reflect.TypeOf(datatransfer.DataTransferResponse{}),
	},
}

func RequestTypeForAction(action string) (reflect.Type, error) {
	ft, ok := features[action]
	if !ok {
		return nil, fmt.Errorf("unsupported action requested: %s", action)
	}
	return ft.request, nil
}

func ResponseTypeForAction(action string) (reflect.Type, error) {
	ft, ok := features[action]
	if !ok {
		return nil, fmt.Errorf("unsupported action requested: %s", action)
	}
	return ft.response, nil
}
