package station

import (
	"sort"

	"cpsim/ocpp/smartcharging"
	"cpsim/types"
)

// onSetChargingProfile stores the profile keyed by EVSE, purpose and stack
// level; a later profile on the same key replaces the earlier one. A
// TxProfile without a matching transaction is rejected.
func (e *Engine) onSetChargingProfile(request *smartcharging.SetChargingProfileRequest) *smartcharging.SetChargingProfileResponse {
	profile := request.ChargingProfile
	e.mu.Lock()
	defer e.mu.Unlock()
	if request.EvseId > 0 {
		if _, ok := e.state.Evses[request.EvseId]; !ok {
			return smartcharging.NewSetChargingProfileResponse(smartcharging.ChargingProfileStatusRejected)
		}
	}
	if profile.ChargingProfilePurpose == types.ChargingProfilePurposeTxProfile {
		if profile.TransactionId == "" {
			return smartcharging.NewSetChargingProfileResponse(smartcharging.ChargingProfileStatusRejected)
		}
		found := false
		for _, tx := range e.state.Transactions {
			if tx.TransactionId == profile.TransactionId {
				found = true
				break
			}
		}
		if !found {
			return smartcharging.NewSetChargingProfileResponse(smartcharging.ChargingProfileStatusRejected)
		}
	}
	e.state.Profiles[profileKey{request.EvseId, profile.ChargingProfilePurpose, profile.StackLevel}] = profile
	return smartcharging.NewSetChargingProfileResponse(smartcharging.ChargingProfileStatusAccepted)
}

// onGetChargingProfiles answers with the match status; the profiles
// themselves follow in ReportChargingProfiles calls after the reply.
func (e *Engine) onGetChargingProfiles(request *smartcharging.GetChargingProfilesRequest) *smartcharging.GetChargingProfilesResponse {
	e.mu.Lock()
	matchedByEvse := make(map[int][]types.ChargingProfile)
	for key, profile := range e.state.Profiles {
		if request.EvseId != nil && key.evseId != *request.EvseId {
			continue
		}
		if !profileMatchesCriterion(profile, request.ChargingProfile) {
			continue
		}
		matchedByEvse[key.evseId] = append(matchedByEvse[key.evseId], profile)
	}
	e.mu.Unlock()

	if len(matchedByEvse) == 0 {
		return smartcharging.NewGetChargingProfilesResponse(smartcharging.GetChargingProfileStatusNoProfiles)
	}
	requestId := request.RequestId
	go func() {
		evseIds := make([]int, 0, len(matchedByEvse))
		for evseId := range matchedByEvse {
			evseIds = append(evseIds, evseId)
		}
		sort.Ints(evseIds)
		for i, evseId := range evseIds {
			report := &smartcharging.ReportChargingProfilesRequest{
				RequestId:           requestId,
				ChargingLimitSource: smartcharging.ChargingLimitSourceCSO,
				Tbc:                 i < len(evseIds)-1,
				EvseId:              evseId,
				ChargingProfile:     matchedByEvse[evseId],
			}
			if _, err := e.Call(report); err != nil {
				e.logger.Error("report charging profiles", err)
				return
			}
		}
	}()
	return smartcharging.NewGetChargingProfilesResponse(smartcharging.GetChargingProfileStatusAccepted)
}

func profileMatchesCriterion(profile types.ChargingProfile, criterion smartcharging.ChargingProfileCriterion) bool {
	if criterion.ChargingProfilePurpose != "" && profile.ChargingProfilePurpose != criterion.ChargingProfilePurpose {
		return false
	}
	if criterion.StackLevel != nil && profile.StackLevel != *criterion.StackLevel {
		return false
	}
	if len(criterion.ChargingProfileId) > 0 && !containsInt(criterion.ChargingProfileId, profile.Id) {
		return false
	}
	return true
}

func (e *Engine) onClearChargingProfile(request *smartcharging.ClearChargingProfileRequest) *smartcharging.ClearChargingProfileResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	var removed []profileKey
	for key, profile := range e.state.Profiles {
		if request.ChargingProfileId != nil && profile.Id != *request.ChargingProfileId {
			continue
		}
		if criteria := request.ChargingProfileCriteria; criteria != nil {
			if criteria.EvseId != nil && key.evseId != *criteria.EvseId {
				continue
			}
			if criteria.ChargingProfilePurpose != "" && key.purpose != criteria.ChargingProfilePurpose {
				continue
			}
			if criteria.StackLevel != nil && key.stackLevel != *criteria.StackLevel {
				continue
			}
		}
		removed = append(removed, key)
	}
	for _, key := range removed {
		delete(e.state.Profiles, key)
	}
	if len(removed) == 0 {
		return smartcharging.NewClearChargingProfileResponse(smartcharging.ClearChargingProfileStatusUnknown)
	}
	return smartcharging.NewClearChargingProfileResponse(smartcharging.ClearChargingProfileStatusAccepted)
}

// onGetCompositeSchedule merges the stored profiles for the EVSE at query
// time. Profiles never merge on write; the lowest limit across the highest
// stack levels per purpose wins for each period boundary.
func (e *Engine) onGetCompositeSchedule(request *smartcharging.GetCompositeScheduleRequest) *smartcharging.GetCompositeScheduleResponse {
	e.mu.Lock()
	defer e.mu.Unlock()
	if request.EvseId > 0 {
		if _, ok := e.state.Evses[request.EvseId]; !ok {
			return smartcharging.NewGetCompositeScheduleResponse(types.GenericStatusRejected)
		}
	}

	// highest stack level wins within a purpose, then the strictest limit
	// across purposes applies
	topByPurpose := make(map[types.ChargingProfilePurpose]types.ChargingProfile)
	for key, profile := range e.state.Profiles {
		if key.evseId != request.EvseId && key.evseId != 0 {
			continue
		}
		if current, ok := topByPurpose[key.purpose]; !ok || profile.StackLevel > current.StackLevel {
			topByPurpose[key.purpose] = profile
		}
	}
	if len(topByPurpose) == 0 {
		return smartcharging.NewGetCompositeScheduleResponse(types.GenericStatusRejected)
	}

	boundaries := map[int]bool{0: true}
	for _, profile := range topByPurpose {
		for _, schedule := range profile.ChargingSchedule {
			for _, period := range schedule.ChargingSchedulePeriod {
				if period.StartPeriod < request.Duration {
					boundaries[period.StartPeriod] = true
				}
			}
		}
	}
	starts := make([]int, 0, len(boundaries))
	for start := range boundaries {
		starts = append(starts, start)
	}
	sort.Ints(starts)

	unit := request.ChargingRateUnit
	if unit == "" {
		unit = types.ChargingRateUnitWatts
	}
	periods := make([]types.ChargingSchedulePeriod, 0, len(starts))
	for _, start := range starts {
		limit := -1.0
		for _, profile := range topByPurpose {
			if l, ok := limitAt(profile, start); ok && (limit < 0 || l < limit) {
				limit = l
			}
		}
		if limit < 0 {
			continue
		}
		periods = append(periods, types.ChargingSchedulePeriod{StartPeriod: start, Limit: limit})
	}
	if len(periods) == 0 {
		return smartcharging.NewGetCompositeScheduleResponse(types.GenericStatusRejected)
	}

	response := smartcharging.NewGetCompositeScheduleResponse(types.GenericStatusAccepted)
	response.Schedule = &types.CompositeSchedule{
		EvseId:                 request.EvseId,
		Duration:               request.Duration,
		ScheduleStart:          types.Now(),
		ChargingRateUnit:       unit,
		ChargingSchedulePeriod: periods,
	}
	return response
}

// limitAt evaluates the limit a profile imposes at the given offset in
// seconds, false when the profile says nothing about that moment.
func limitAt(profile types.ChargingProfile, offset int) (float64, bool) {
	for _, schedule := range profile.ChargingSchedule {
		limit := -1.0
		for _, period := range schedule.ChargingSchedulePeriod {
			if period.StartPeriod <= offset {
				limit = period.Limit
			}
		}
		if limit >= 0 {
			return limit, true
		}
	}
	return 0, false
}
