package service

import "raidtracker/internal/constants"

// SeasonIndex maps a millisecond timestamp onto the weekly ranking
// season counter. Everything before the first season reset belongs to
// the pre-season bucket 0.
func SeasonIndex(ts uint64) uint8 {
	if ts < constants.SeasonEpochMs {
		return 0
	}
	return uint8(1 + (ts-constants.SeasonEpochMs)/constants.SeasonWeekMs)
}
