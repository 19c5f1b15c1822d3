package station

import (
	"sort"

	"cpsim/ocpp/display"
	"cpsim/types"
)

// displayMessage is one stored message slot, keyed by the message id.
type displayMessage struct {
	info types.MessageInfo
}

var supportedMessageFormats = map[types.MessageFormat]bool{
	types.MessageFormatASCII: true,
	types.MessageFormatUTF8:  true,
}

// onSetDisplayMessage stores or replaces the message with the given id.
// A message bound to a transaction requires that transaction to be running.
func (e *Engine) onSetDisplayMessage(request *display.SetDisplayMessageRequest) *display.SetDisplayMessageResponse {
	message := request.Message
	if !supportedMessageFormats[message.Message.Format] {
		return display.NewSetDisplayMessageResponse(display.DisplayMessageStatusNotSupportedMessageFormat)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if message.TransactionId != "" {
		found := false
		for _, tx := range e.state.Transactions {
			if tx.TransactionId == message.TransactionId {
				found = true
				break
			}
		}
		if !found {
			return display.NewSetDisplayMessageResponse(display.DisplayMessageStatusUnknownTransaction)
		}
	}
	e.messages[message.Id] = displayMessage{info: message}
	return display.NewSetDisplayMessageResponse(display.DisplayMessageStatusAccepted)
}

// onGetDisplayMessages answers with the match status and reports the matching
// messages in a NotifyDisplayMessages call after the reply.
func (e *Engine) onGetDisplayMessages(request *display.GetDisplayMessagesRequest) *display.GetDisplayMessagesResponse {
	e.mu.Lock()
	var matched []types.MessageInfo
	for id, message := range e.messages {
		if len(request.Id) > 0 && !containsInt(request.Id, id) {
			continue
		}
		if request.Priority != "" && message.info.Priority != request.Priority {
			continue
		}
		if request.State != "" && message.info.State != request.State {
			continue
		}
		matched = append(matched, message.info)
	}
	e.mu.Unlock()

	if len(matched) == 0 {
		return &display.GetDisplayMessagesResponse{Status: display.GetDisplayMessagesStatusUnknown}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Id < matched[j].Id })
	requestId := request.RequestId
	go func() {
		notify := &display.NotifyDisplayMessagesRequest{RequestId: requestId, MessageInfo: matched}
		if _, err := e.Call(notify); err != nil {
			e.logger.Error("notify display messages", err)
		}
	}()
	return &display.GetDisplayMessagesResponse{Status: display.GetDisplayMessagesStatusAccepted}
}

func (e *Engine) onClearDisplayMessage(request *display.ClearDisplayMessageRequest) *display.ClearDisplayMessageResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.messages[request.Id]; !ok {
		return display.NewClearDisplayMessageResponse(display.ClearMessageStatusUnknown)
	}
	delete(e.messages, request.Id)
	return display.NewClearDisplayMessageResponse(display.ClearMessageStatusAccepted)
}
