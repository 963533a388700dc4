package service

import "raidtracker/internal/domain"

// instanceEncounters lists, per map id, the encounter ids a run has to
// kill before it counts as a full clear for the speed run board.
var instanceEncounters = map[uint32][]uint32{
	409: {1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	249: {11},
	309: {12, 13, 14, 15, 17, 19, 20, 21},
	469: {22, 23, 24, 25, 26, 27, 28, 29},
	509: {30, 31, 32, 33, 34, 35},
	531: {36, 37, 38, 39, 40, 41, 42, 163, 164, 165},
	533: {43, 44, 45, 46, 47, 48, 49, 50, 51, 52, 53, 54, 55, 56, 57},
	532: {201, 202, 203, 204, 205},
	565: {69, 70},
	544: {71},
	550: {72, 73, 74, 75},
	548: {76, 78, 79, 80, 81},
	568: {82, 83, 84, 85, 86, 87},
	534: {88, 89, 90, 91, 92},
	564: {93, 94, 95, 96, 97, 98, 99, 100, 101},
	580: {103, 104, 105, 106, 107},
	615: {108},
	616: {109},
	624: {110, 111, 112, 113},
	603: {114, 115, 116, 117, 118, 119, 120, 121, 122, 123, 124, 125, 126},
	649: {128, 129, 130, 131, 132},
	631: {133, 134, 136, 137, 138, 139, 140, 141, 143, 144},
	724: {145},
	807: {200},
	814: {206, 207, 208, 209, 210},
}

// fullClearDuration checks whether the kill attempts of one run cover
// every encounter of the map and, if so, returns the wall time between
// the first pull and the last kill.
func fullClearDuration(mapID uint32, kills []domain.InstanceAttempt) (uint64, bool) {
	required, ok := instanceEncounters[mapID]
	if !ok || len(kills) == 0 {
		return 0, false
	}

	for _, encounterID := range required {
		found := false
		for _, kill := range kills {
			if kill.EncounterID == encounterID {
				found = true
				break
			}
		}
		if !found {
			return 0, false
		}
	}

	start, end := kills[0].StartTs, kills[0].EndTs
	for _, kill := range kills[1:] {
		if kill.StartTs < start {
			start = kill.StartTs
		}
		if kill.EndTs > end {
			end = kill.EndTs
		}
	}
	return end - start, true
}
