package scenario

import (
	"fmt"

	"cpsim/ocpp/provisioning"
	"cpsim/ocpp/transactions"
	"cpsim/station"
	"cpsim/types"
)

// ChargingSession walks one full authorize, plug in, charge, stop and unplug
// cycle on the given connector.
func ChargingSession(idToken types.IdToken, evseId, connectorId int) Scenario {
	return Scenario{
		Name: "charging-session",
		Steps: []Step{
			{
				Name: "boot",
				Do: func(e *station.Engine) error {
					boot, err := e.Boot(provisioning.BootReasonPowerUp)
					if err != nil {
						return err
					}
					if boot.Status != provisioning.RegistrationStatusAccepted {
						return fmt.Errorf("registration %s", boot.Status)
					}
					return nil
				},
			},
			{
				Name: "present token",
				Do: func(e *station.Engine) error {
					info, err := e.PresentToken(idToken, evseId)
					if err != nil {
						return err
					}
					if info.Status != types.AuthorizationStatusAccepted {
						return fmt.Errorf("authorization %s", info.Status)
					}
					return nil
				},
			},
			{
				Name: "plug in",
				Do:   func(e *station.Engine) error { return e.PlugIn(evseId, connectorId) },
			},
			{
				Name: "start charging",
				Do:   func(e *station.Engine) error { return e.StartCharging(evseId, connectorId) },
				Expect: func(e *station.Engine) error {
					if e.ActiveTransaction(evseId, connectorId) == nil {
						return fmt.Errorf("no transaction running")
					}
					return nil
				},
			},
			{
				Name: "meter sample",
				Do:   func(e *station.Engine) error { return e.MeterTick(evseId, connectorId, 1500) },
			},
			{
				Name: "stop",
				Do: func(e *station.Engine) error {
					return e.EndTransaction(evseId, connectorId, transactions.StoppedReasonLocal)
				},
			},
			{
				Name: "unplug",
				Do:   func(e *station.Engine) error { return e.Unplug(evseId, connectorId) },
				Expect: func(e *station.Engine) error {
					if tx := e.ActiveTransaction(evseId, connectorId); tx != nil {
						return fmt.Errorf("transaction %s still active", tx.TransactionId)
					}
					return nil
				},
			},
		},
	}
}

// OfflineRecovery charges through a connection loss and verifies the queued
// events drain on reconnect.
func OfflineRecovery(idToken types.IdToken, evseId, connectorId int) Scenario {
	return Scenario{
		Name: "offline-recovery",
		Steps: []Step{
			{
				Name: "boot",
				Do: func(e *station.Engine) error {
					_, err := e.Boot(provisioning.BootReasonPowerUp)
					return err
				},
			},
			{
				Name: "present token",
				Do: func(e *station.Engine) error {
					_, err := e.PresentToken(idToken, evseId)
					return err
				},
			},
			{
				Name: "plug in and charge",
				Do: func(e *station.Engine) error {
					if err := e.PlugIn(evseId, connectorId); err != nil {
						return err
					}
					return e.StartCharging(evseId, connectorId)
				},
			},
			{
				Name: "drop connection",
				Do: func(e *station.Engine) error {
					e.Disconnect()
					return e.MeterTick(evseId, connectorId, 900)
				},
				Expect: func(e *station.Engine) error {
					if e.QueuedEventCount() == 0 {
						return fmt.Errorf("expected queued events while offline")
					}
					return nil
				},
			},
			{
				Name: "reconnect",
				Do:   func(e *station.Engine) error { return e.Reconnect() },
				Expect: func(e *station.Engine) error {
					if n := e.QueuedEventCount(); n != 0 {
						return fmt.Errorf("%d events still queued", n)
					}
					return nil
				},
			},
			{
				Name: "stop and unplug",
				Do: func(e *station.Engine) error {
					if err := e.EndTransaction(evseId, connectorId, transactions.StoppedReasonLocal); err != nil {
						return err
					}
					return e.Unplug(evseId, connectorId)
				},
			},
		},
	}
}
