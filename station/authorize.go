package station

import (
	"cpsim/ocpp/authorization"
	"cpsim/ocpp/localauth"
)

func (e *Engine) onClearCache(_ *authorization.ClearCacheRequest) *authorization.ClearCacheResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.conf.Authorization.CacheEnabled {
		return authorization.NewClearCacheResponse(authorization.ClearCacheStatusRejected)
	}
	e.cache.Clear()
	return authorization.NewClearCacheResponse(authorization.ClearCacheStatusAccepted)
}

func (e *Engine) onSendLocalList(request *localauth.SendLocalListRequest) *localauth.SendLocalListResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	return localauth.NewSendLocalListResponse(e.localList.Apply(request))
}

func (e *Engine) onGetLocalListVersion(_ *localauth.GetLocalListVersionRequest) *localauth.GetLocalListVersionResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	return localauth.NewGetLocalListVersionResponse(e.localList.Version())
}
