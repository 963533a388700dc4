package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"raidtracker/internal/domain"
)

func TestFullClearDuration_CompleteClear(t *testing.T) {
	kills := []domain.InstanceAttempt{
		{EncounterID: 69, StartTs: 10000, EndTs: 100000},
		{EncounterID: 70, StartTs: 150000, EndTs: 400000},
	}

	duration, full := fullClearDuration(565, kills)

	assert.True(t, full)
	assert.Equal(t, uint64(390000), duration)
}

func TestFullClearDuration_OutOfOrderKills(t *testing.T) {
	kills := []domain.InstanceAttempt{
		{EncounterID: 70, StartTs: 150000, EndTs: 400000},
		{EncounterID: 69, StartTs: 10000, EndTs: 100000},
	}

	duration, full := fullClearDuration(565, kills)

	assert.True(t, full)
	assert.Equal(t, uint64(390000), duration)
}

func TestFullClearDuration_MissingEncounter(t *testing.T) {
	kills := []domain.InstanceAttempt{
		{EncounterID: 69, StartTs: 10000, EndTs: 100000},
	}

	_, full := fullClearDuration(565, kills)

	assert.False(t, full)
}

func TestFullClearDuration_UnknownMap(t *testing.T) {
	kills := []domain.InstanceAttempt{
		{EncounterID: 69, StartTs: 10000, EndTs: 100000},
	}

	_, full := fullClearDuration(9999, kills)

	assert.False(t, full)
}

func TestFullClearDuration_NoKills(t *testing.T) {
	_, full := fullClearDuration(565, nil)

	assert.False(t, full)
}
