package station

import (
	"fmt"
	"strings"

	"cpsim/ocpp/provisioning"
	"cpsim/ocpp/transactions"
)

var knownComponents = map[string]bool{
	"OCPPCommCtrlr":      true,
	"TxCtrlr":            true,
	"AuthCtrlr":          true,
	"AuthCacheCtrlr":     true,
	"SecurityCtrlr":      true,
	"DeviceDataCtrlr":    true,
	"LocalAuthListCtrlr": true,
}

// writeOnlyVariables never come back on a read.
var writeOnlyVariables = map[string]bool{
	"SecurityCtrlr.BasicAuthPassword": true,
}

func (e *Engine) seedVariables() {
	e.variables["OCPPCommCtrlr.HeartbeatInterval"] = fmt.Sprintf("%d", e.conf.HeartbeatInterval)
	e.variables["TxCtrlr.StopTxOnInvalidId"] = fmt.Sprintf("%t", e.conf.Authorization.StopTxOnInvalidId)
	e.variables["TxCtrlr.TxStartPoint"] = e.conf.Authorization.TxStartPoint
	e.variables["AuthCtrlr.LocalAuthorizeOffline"] = fmt.Sprintf("%t", e.conf.Authorization.LocalAuthorizeOffline)
	e.variables["AuthCacheCtrlr.Enabled"] = fmt.Sprintf("%t", e.conf.Authorization.CacheEnabled)
	e.variables["SecurityCtrlr.SecurityProfile"] = fmt.Sprintf("%d", e.conf.Station.SecurityProfile)
}

func variableKey(component, variable string) string {
	return component + "." + variable
}

func (e *Engine) onGetVariables(request *provisioning.GetVariablesRequest) *provisioning.GetVariablesResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	results := make([]provisioning.GetVariableResult, 0, len(request.GetVariableData))
	for _, data := range request.GetVariableData {
		result := provisioning.GetVariableResult{
			AttributeType: data.AttributeType,
			Component:     data.Component,
			Variable:      data.Variable,
		}
		key := variableKey(data.Component.Name, data.Variable.Name)
		switch {
		case !knownComponents[data.Component.Name]:
			result.AttributeStatus = provisioning.GetVariableStatusUnknownComponent
		case writeOnlyVariables[key]:
			result.AttributeStatus = provisioning.GetVariableStatusRejected
		default:
			if value, ok := e.variables[key]; ok {
				result.AttributeStatus = provisioning.GetVariableStatusAccepted
				result.AttributeValue = value
			} else {
				result.AttributeStatus = provisioning.GetVariableStatusUnknownVariable
			}
		}
		results = append(results, result)
	}
	return &provisioning.GetVariablesResponse{GetVariableResult: results}
}

func (e *Engine) onSetVariables(request *provisioning.SetVariablesRequest) *provisioning.SetVariablesResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	results := make([]provisioning.SetVariableResult, 0, len(request.SetVariableData))
	for _, data := range request.SetVariableData {
		result := provisioning.SetVariableResult{
			AttributeType: data.AttributeType,
			Component:     data.Component,
			Variable:      data.Variable,
		}
		key := variableKey(data.Component.Name, data.Variable.Name)
		switch {
		case !knownComponents[data.Component.Name]:
			result.AttributeStatus = provisioning.SetVariableStatusUnknownComponent
		case strings.HasSuffix(key, ".SecurityProfile"):
			// profile changes require reprovisioning, not a live write
			result.AttributeStatus = provisioning.SetVariableStatusRejected
		default:
			e.setVariableLocked(key, data.AttributeValue)
			result.AttributeStatus = provisioning.SetVariableStatusAccepted
			if key == "SecurityCtrlr.BasicAuthPassword" {
				go func() {
					if err := e.SendSecurityEvent("ReconfigurationOfSecurityParameters", "basic auth password changed"); err != nil {
						e.logger.Error("security event", err)
					}
				}()
			}
		}
		results = append(results, result)
	}
	return &provisioning.SetVariablesResponse{SetVariableResult: results}
}

// onReset handles station-wide resets. Immediate ends running transactions
// and reboots at once; OnIdle waits for the last transaction to finish.
func (e *Engine) onReset(request *provisioning.ResetRequest) *provisioning.ResetResponse {
	if request.EvseId != nil {
		return provisioning.NewResetResponse(provisioning.ResetStatusRejected)
	}
	e.mu.Lock()
	active := e.state.activeTransactionCount()
	if request.Type == provisioning.ResetTypeOnIdle && active > 0 {
		e.resetScheduled = true
		e.mu.Unlock()
		return provisioning.NewResetResponse(provisioning.ResetStatusScheduled)
	}
	e.mu.Unlock()

	reason := provisioning.BootReasonRemoteReset
	if request.Type == provisioning.ResetTypeOnIdle {
		reason = provisioning.BootReasonScheduledReset
	}
	go e.performReset(request.Type == provisioning.ResetTypeImmediate, reason)
	return provisioning.NewResetResponse(provisioning.ResetStatusAccepted)
}

func (e *Engine) resetPending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.resetScheduled && e.state.activeTransactionCount() == 0
}

func (e *Engine) performScheduledReset() {
	e.mu.Lock()
	if !e.resetScheduled {
		e.mu.Unlock()
		return
	}
	e.resetScheduled = false
	e.mu.Unlock()
	go e.performReset(false, provisioning.BootReasonScheduledReset)
}

// performReset simulates the reboot: running transactions end with an
// ImmediateReset reason, the connection drops and comes back, and the boot
// handshake repeats.
func (e *Engine) performReset(stopTransactions bool, reason provisioning.BootReason) {
	if stopTransactions {
		e.mu.Lock()
		var keys []evseKey
		for key := range e.state.Transactions {
			keys = append(keys, key)
		}
		e.mu.Unlock()
		for _, key := range keys {
			if err := e.EndTransaction(key.evseId, key.connectorId, transactions.StoppedReasonImmediateReset); err != nil {
				e.logger.Error("reset stop", err)
			}
		}
	}
	e.Disconnect()
	if err := e.Reconnect(); err != nil {
		e.logger.Error("reset reconnect", err)
		return
	}
	if _, err := e.Boot(reason); err != nil {
		e.logger.Error("reset boot", err)
	}
}
