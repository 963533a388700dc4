package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"raidtracker/internal/domain"
)

func addonMillis(t time.Time) uint64 {
	return uint64(t.UnixMilli())
}

func TestParseLine_LootBecomesBonusEvent(t *testing.T) {
	p, _ := newTestParser()

	events := p.ParseLine(1000, "LOOT: 21.04.24 22:54:13&Jaina receives loot: |cffa335ee|Hitem:19019:0:0:0|h[Thunderfury]|h|rx1.")
	assert.Empty(t, events)

	merged := p.PostProcess(nil)
	assert.Len(t, merged, 1)
	loot := merged[0].Kind.(domain.Loot)
	assert.Equal(t, uint32(19019), loot.ItemID)
	assert.Equal(t, uint32(1), loot.Amount)
	assert.Equal(t, domain.PlayerUnitID("Jaina"), merged[0].Subject.UnitID)
	assert.Equal(t, addonMillis(time.Date(2024, 4, 21, 22, 54, 13, 0, time.UTC)), merged[0].Timestamp)
}

func TestParseLine_ZoneInfoBecomesInstanceMap(t *testing.T) {
	p, _ := newTestParser()

	events := p.ParseLine(1000, "ZONE_INFO: 21.04.24 22:54:13&Molten Core&2")
	assert.Empty(t, events)

	merged := p.PostProcess(nil)
	assert.Len(t, merged, 1)
	zone := merged[0].Kind.(domain.InstanceMap)
	assert.Equal(t, uint32(409), zone.MapID)
	assert.Equal(t, uint32(2), zone.InstanceID)
}

func TestParseLine_ZoneInfoUnknownMapIsDropped(t *testing.T) {
	p, _ := newTestParser()

	p.ParseLine(1000, "ZONE_INFO: 21.04.24 22:54:13&Nowhere Keep&2")

	assert.Empty(t, p.PostProcess(nil))
}

func TestParseLine_ConsolidatedBatch(t *testing.T) {
	p, tr := newTestParser()

	events := p.ParseLine(1000, "CONSOLIDATED: ZONE_INFO: 21.04.24 22:54:13&Molten Core&2{PET: 21.04.24 22:54:13&Rexxar&Bitey")
	assert.Empty(t, events)

	owner, ok := tr.PetOwner(domain.PlayerUnitID("Bitey"))
	assert.True(t, ok)
	assert.Equal(t, domain.PlayerUnitID("Rexxar"), owner)

	// One zone event plus one synthesized summon.
	merged := p.PostProcess(nil)
	assert.Len(t, merged, 2)
}

func TestPostProcess_SortsAndRenumbers(t *testing.T) {
	p, _ := newTestParser()

	later := p.ParseLine(5000, "Ragnaros hits Thrall for 100.")
	earlier := p.ParseLine(2000, "Ragnaros hits Thrall for 50.")

	merged := p.PostProcess(append(later, earlier...))

	assert.Equal(t, uint64(2000), merged[0].Timestamp)
	assert.Equal(t, uint64(5000), merged[1].Timestamp)
	assert.Equal(t, uint64(1), merged[0].ID)
	assert.Equal(t, uint64(2), merged[1].ID)
}

func TestPostProcess_BackfillsDispelCaster(t *testing.T) {
	p, _ := newTestParser()

	dispel := p.ParseLine(1000, "Thrall 's Corruption is removed.")
	assert.Len(t, dispel, 1)
	cast := p.ParseLine(1050, "Uther casts Cleanse on Thrall.")
	assert.Len(t, cast, 1)

	merged := p.PostProcess(append(dispel, cast...))

	var found domain.Dispel
	var subject domain.Unit
	for _, ev := range merged {
		if d, ok := ev.Kind.(domain.Dispel); ok {
			found = d
			subject = ev.Subject
		}
	}
	assert.Equal(t, uint32(13), found.DispelSpellID)
	assert.Equal(t, uint32(12), found.TargetSpellID)
	assert.Equal(t, domain.PlayerUnitID("Uther"), subject.UnitID)
}

func TestPostProcess_DispelOutsideWindowKeepsPlaceholder(t *testing.T) {
	p, _ := newTestParser()

	dispel := p.ParseLine(1000, "Thrall 's Corruption is removed.")
	cast := p.ParseLine(1200, "Uther casts Cleanse on Thrall.")

	merged := p.PostProcess(append(dispel, cast...))

	for _, ev := range merged {
		if d, ok := ev.Kind.(domain.Dispel); ok {
			assert.Equal(t, uint32(42), d.DispelSpellID)
		}
	}
}

func TestPostProcess_SummonsMergeOnlyOnce(t *testing.T) {
	p, _ := newTestParser()

	p.ParseLine(1000, "CONSOLIDATED: PET: 21.04.24 22:54:13&Rexxar&Bitey")

	merged := p.PostProcess(nil)
	merged = p.PostProcess(merged)

	summons := 0
	for _, ev := range merged {
		if _, ok := ev.Kind.(domain.Summon); ok {
			summons++
		}
	}
	assert.Equal(t, 1, summons)
}

func TestParseLog_SplitsHeadersAndOrders(t *testing.T) {
	p, _ := newTestParser()

	log := "4/21 22:54:13.100  Ragnaros hits Thrall for 100.\n" +
		"garbage line without header\n" +
		"4/21 22:54:14.200  Uther 's Flash of Light heals Thrall for 80.\n"

	events, err := p.ParseLog(strings.NewReader(log), 2024)
	assert.NoError(t, err)
	assert.Len(t, events, 3)

	assert.IsType(t, domain.MeleeDamage{}, events[0].Kind)
	assert.Equal(t, addonMillis(time.Date(2024, time.April, 21, 22, 54, 13, 100*int(time.Millisecond), time.UTC)), events[0].Timestamp)
}
