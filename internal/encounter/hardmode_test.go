package encounter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"raidtracker/internal/domain"
)

func hardModeAttempt(encounterID uint32, duration uint64, buffs, npcsDied int) *domain.Attempt {
	attempt := domain.NewAttempt(encounterID, 0, false)
	attempt.EndTs = duration
	for i := 0; i < buffs; i++ {
		attempt.HardModeFoundBuffs[uint32(60000+i)] = struct{}{}
	}
	for i := 0; i < npcsDied; i++ {
		attempt.HardModeNpcsDied[uint32(33000+i)] = struct{}{}
	}
	return attempt
}

func TestHardModeEncounterID(t *testing.T) {
	cases := []struct {
		name     string
		attempt  *domain.Attempt
		expected uint32
	}{
		{"plain encounter untouched", hardModeAttempt(10, 60000, 0, 0), 10},
		{"flame leviathan no towers", hardModeAttempt(114, 60000, 0, 0), 114},
		{"flame leviathan two towers", hardModeAttempt(114, 60000, 1, 1), 147},
		{"flame leviathan beyond table", hardModeAttempt(114, 60000, 3, 2), 114},
		{"freya two elders", hardModeAttempt(122, 60000, 0, 2), 153},
		{"yogg no keepers", hardModeAttempt(126, 60000, 0, 0), 161},
		{"yogg two keepers", hardModeAttempt(126, 60000, 2, 0), 159},
		{"yogg all keepers", hardModeAttempt(126, 60000, 4, 0), 126},
		{"mimiron signal", hardModeAttempt(121, 60000, 1, 0), 156},
		{"thorim signal", hardModeAttempt(123, 60000, 1, 0), 155},
		{"thorim without signal", hardModeAttempt(123, 60000, 0, 0), 123},
		{"vezax signal", hardModeAttempt(125, 60000, 1, 0), 157},
		{"hodir within speed check", hardModeAttempt(124, 121000, 0, 0), 162},
		{"hodir at speed check boundary", hardModeAttempt(124, 122000, 0, 0), 162},
		{"hodir too slow", hardModeAttempt(124, 130000, 0, 0), 124},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, hardModeEncounterID(tc.attempt))
		})
	}
}
