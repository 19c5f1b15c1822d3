package station

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpsim/ocpp/localauth"
	"cpsim/types"
)

func listEntry(token string, status types.AuthorizationStatus) types.AuthorizationData {
	return types.AuthorizationData{
		IdToken:     types.IdToken{IdToken: token, Type: types.IdTokenTypeISO14443},
		IdTokenInfo: &types.IdTokenInfo{Status: status},
	}
}

func removalEntry(token string) types.AuthorizationData {
	return types.AuthorizationData{
		IdToken: types.IdToken{IdToken: token, Type: types.IdTokenTypeISO14443},
	}
}

func TestLocalListFullUpdateReplaces(t *testing.T) {
	list := NewLocalList()

	request := localauth.NewSendLocalListRequest(1, localauth.UpdateTypeFull)
	request.LocalAuthorizationList = []types.AuthorizationData{
		listEntry("A01", types.AuthorizationStatusAccepted),
		listEntry("A02", types.AuthorizationStatusBlocked),
	}
	assert.Equal(t, localauth.SendLocalListStatusAccepted, list.Apply(request))
	assert.Equal(t, 1, list.Version())
	assert.Equal(t, 2, list.Len())

	// a later full update drops everything it does not carry
	replacement := localauth.NewSendLocalListRequest(2, localauth.UpdateTypeFull)
	replacement.LocalAuthorizationList = []types.AuthorizationData{
		listEntry("B01", types.AuthorizationStatusAccepted),
	}
	assert.Equal(t, localauth.SendLocalListStatusAccepted, list.Apply(replacement))
	assert.Equal(t, 1, list.Len())
	_, ok := list.Lookup("A01")
	assert.False(t, ok)
	info, ok := list.Lookup("B01")
	require.True(t, ok)
	assert.Equal(t, types.AuthorizationStatusAccepted, info.Status)
}

func TestLocalListFullUpdateWithEmptyListClears(t *testing.T) {
	list := NewLocalList()
	seed := localauth.NewSendLocalListRequest(1, localauth.UpdateTypeFull)
	seed.LocalAuthorizationList = []types.AuthorizationData{listEntry("A01", types.AuthorizationStatusAccepted)}
	require.Equal(t, localauth.SendLocalListStatusAccepted, list.Apply(seed))

	clear := localauth.NewSendLocalListRequest(2, localauth.UpdateTypeFull)
	assert.Equal(t, localauth.SendLocalListStatusAccepted, list.Apply(clear))
	assert.Equal(t, 0, list.Len())
	assert.Equal(t, 2, list.Version())
}

func TestLocalListFullUpdateRequiresPositiveVersion(t *testing.T) {
	list := NewLocalList()
	request := localauth.NewSendLocalListRequest(0, localauth.UpdateTypeFull)
	assert.Equal(t, localauth.SendLocalListStatusFailed, list.Apply(request))
}

func TestLocalListDifferentialVersionMismatch(t *testing.T) {
	list := NewLocalList()
	seed := localauth.NewSendLocalListRequest(5, localauth.UpdateTypeFull)
	seed.LocalAuthorizationList = []types.AuthorizationData{listEntry("A01", types.AuthorizationStatusAccepted)}
	require.Equal(t, localauth.SendLocalListStatusAccepted, list.Apply(seed))

	stale := localauth.NewSendLocalListRequest(5, localauth.UpdateTypeDifferential)
	stale.LocalAuthorizationList = []types.AuthorizationData{listEntry("A02", types.AuthorizationStatusAccepted)}
	assert.Equal(t, localauth.SendLocalListStatusVersionMismatch, list.Apply(stale))
	assert.Equal(t, 5, list.Version())
	assert.Equal(t, 1, list.Len())
}

func TestLocalListDifferentialMergeAndRemoval(t *testing.T) {
	list := NewLocalList()
	seed := localauth.NewSendLocalListRequest(1, localauth.UpdateTypeFull)
	seed.LocalAuthorizationList = []types.AuthorizationData{
		listEntry("A01", types.AuthorizationStatusAccepted),
		listEntry("A02", types.AuthorizationStatusAccepted),
	}
	require.Equal(t, localauth.SendLocalListStatusAccepted, list.Apply(seed))

	diff := localauth.NewSendLocalListRequest(2, localauth.UpdateTypeDifferential)
	diff.LocalAuthorizationList = []types.AuthorizationData{
		removalEntry("A02"),
		listEntry("A03", types.AuthorizationStatusBlocked),
	}
	assert.Equal(t, localauth.SendLocalListStatusAccepted, list.Apply(diff))
	assert.Equal(t, 2, list.Version())
	assert.Equal(t, 2, list.Len())

	_, ok := list.Lookup("A02")
	assert.False(t, ok)
	info, ok := list.Lookup("A03")
	require.True(t, ok)
	assert.Equal(t, types.AuthorizationStatusBlocked, info.Status)
}
