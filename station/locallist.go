package station

import (
	"cpsim/ocpp/localauth"
	"cpsim/types"
)

// LocalList is the station-held, versioned table of pre-authorized tokens.
// Version 0 means no list installed.
type LocalList struct {
	version int
	entries map[string]types.IdTokenInfo
}

func NewLocalList() *LocalList {
	return &LocalList{entries: make(map[string]types.IdTokenInfo)}
}

func (l *LocalList) Version() int {
	return l.version
}

func (l *LocalList) Lookup(idToken string) (*types.IdTokenInfo, bool) {
	info, ok := l.entries[idToken]
	if !ok {
		return nil, false
	}
	return &info, true
}

func (l *LocalList) Len() int {
	return len(l.entries)
}

// Apply performs a SendLocalList update. A Full update replaces the whole
// table, clearing it when the submitted list is empty; a Differential update
// must carry a version greater than the current one and merges entries, an
// entry without idTokenInfo being a removal.
func (l *LocalList) Apply(request *localauth.SendLocalListRequest) localauth.SendLocalListStatus {
	switch request.UpdateType {
	case localauth.UpdateTypeFull:
		if request.VersionNumber <= 0 {
			return localauth.SendLocalListStatusFailed
		}
		entries := make(map[string]types.IdTokenInfo)
		for _, data := range request.LocalAuthorizationList {
			if data.IdTokenInfo == nil {
				return localauth.SendLocalListStatusFailed
			}
			entries[data.IdToken.IdToken] = *data.IdTokenInfo
		}
		l.entries = entries
		l.version = request.VersionNumber
		return localauth.SendLocalListStatusAccepted

	case localauth.UpdateTypeDifferential:
		if request.VersionNumber <= l.version {
			return localauth.SendLocalListStatusVersionMismatch
		}
		for _, data := range request.LocalAuthorizationList {
			if data.IdTokenInfo == nil {
				delete(l.entries, data.IdToken.IdToken)
				continue
			}
			l.entries[data.IdToken.IdToken] = *data.IdTokenInfo
		}
		l.version = request.VersionNumber
		return localauth.SendLocalListStatusAccepted
	}
	return localauth.SendLocalListStatusFailed
}
