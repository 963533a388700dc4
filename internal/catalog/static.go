package catalog

import "strings"

// Static is an in-memory Store. The repository loads it once at
// startup; tests construct it directly.
type Static struct {
	encounterNpcs map[uint32]EncounterNpc
	spellsByName  map[string]Spell
	npcsByName    map[string]Npc
	items         map[uint32]Item
	mapsByName    map[string]Map

	pivotEncounters map[uint32]struct{}
	requiredDeaths  map[uint32][]uint32
}

func NewStatic(encounterNpcs []EncounterNpc, spells []Spell, npcs []Npc, items []Item, maps []Map) *Static {
	s := &Static{
		encounterNpcs:   make(map[uint32]EncounterNpc, len(encounterNpcs)),
		spellsByName:    make(map[string]Spell, len(spells)),
		npcsByName:      make(map[string]Npc, len(npcs)),
		items:           make(map[uint32]Item, len(items)),
		mapsByName:      make(map[string]Map, len(maps)),
		pivotEncounters: make(map[uint32]struct{}),
		requiredDeaths:  make(map[uint32][]uint32),
	}
	for _, en := range encounterNpcs {
		s.encounterNpcs[en.NpcID] = en
		if en.IsPivot {
			s.pivotEncounters[en.EncounterID] = struct{}{}
		}
		if en.RequiresDeath {
			s.requiredDeaths[en.EncounterID] = append(s.requiredDeaths[en.EncounterID], en.NpcID)
		}
	}
	for _, sp := range spells {
		s.spellsByName[sp.Name] = sp
	}
	for _, n := range npcs {
		s.npcsByName[n.Name] = n
	}
	for _, it := range items {
		s.items[it.ID] = it
	}
	for _, m := range maps {
		s.mapsByName[m.Name] = m
	}
	return s
}

func (s *Static) EncounterNpc(npcID uint32) (EncounterNpc, bool) {
	en, ok := s.encounterNpcs[npcID]
	return en, ok
}

func (s *Static) EncounterHasPivot(encounterID uint32) bool {
	_, ok := s.pivotEncounters[encounterID]
	return ok
}

func (s *Static) RequiredDeathNpcIDs(encounterID uint32) []uint32 {
	return s.requiredDeaths[encounterID]
}

// SpellByName tries an exact match first, then the first substring
// match over the catalog.
func (s *Static) SpellByName(name string) (Spell, bool) {
	if sp, ok := s.spellsByName[name]; ok {
		return sp, true
	}
	for catalogName, sp := range s.spellsByName {
		if strings.Contains(catalogName, name) {
			return sp, true
		}
	}
	return Spell{}, false
}

func (s *Static) NpcByName(name string) (Npc, bool) {
	n, ok := s.npcsByName[name]
	return n, ok
}

func (s *Static) Item(itemID uint32) (Item, bool) {
	it, ok := s.items[itemID]
	return it, ok
}

func (s *Static) MapByName(name string) (Map, bool) {
	m, ok := s.mapsByName[name]
	return m, ok
}
