// Package catalog exposes the static reference data the processing
// pipeline consumes: spells, NPCs, encounter membership, items and
// maps. All lookups are read-only.
package catalog

// EncounterNpc binds an NPC to the encounter it belongs to and its
// role in attempt detection.
type EncounterNpc struct {
	NpcID              uint32
	EncounterID        uint32
	RequiresDeath      bool
	CanStartEncounter  bool
	IsPivot            bool
	HealthThresholdPct *uint32
}

type Spell struct {
	ID   uint32
	Name string
}

type Npc struct {
	ID   uint32
	Name string
}

type Item struct {
	ID      uint32
	Quality uint8
	Name    string
}

type Map struct {
	ID   uint32
	Name string
}

// Store is the lookup surface of the static catalogs.
type Store interface {
	EncounterNpc(npcID uint32) (EncounterNpc, bool)
	// EncounterHasPivot reports whether any NPC of the encounter is a
	// pivot.
	EncounterHasPivot(encounterID uint32) bool
	// RequiredDeathNpcIDs lists the NPCs that must die for the
	// encounter to count as a kill.
	RequiredDeathNpcIDs(encounterID uint32) []uint32
	SpellByName(name string) (Spell, bool)
	NpcByName(name string) (Npc, bool)
	Item(itemID uint32) (Item, bool)
	MapByName(name string) (Map, bool)
}
