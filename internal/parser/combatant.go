package parser

import (
	"strings"

	"raidtracker/internal/constants"
	"raidtracker/internal/domain"
	"raidtracker/internal/tracker"
)

const combatantInfoPrefix = "COMBATANT_INFO:"

// Field layout of a combatant info line: timestamp, name, class,
// race, gender, pet, guild name, guild rank name, guild rank index,
// 19 gear slots, talent blob.
const (
	ciTimestamp = iota
	ciName
	ciClass
	ciRace
	ciGender
	ciPet
	ciGuildName
	ciGuildRankName
	ciGuildRankIndex
	ciGearFirst
)

const (
	ciGearLast   = ciGearFirst + 18
	ciTalents    = ciGearLast + 1
	ciFieldCount = ciTalents + 1
)

var classIDs = map[string]uint8{
	"warrior": 1,
	"paladin": 2,
	"hunter":  3,
	"rogue":   4,
	"priest":  5,
	"shaman":  7,
	"mage":    8,
	"warlock": 9,
	"druid":   11,
}

var raceIDs = map[string]uint8{
	"human":     1,
	"orc":       2,
	"dwarf":     3,
	"night elf": 4,
	"nightelf":  4,
	"undead":    5,
	"scourge":   5,
	"tauren":    6,
	"gnome":     7,
	"troll":     8,
}

// parseCombatantInfo decodes a full-state snapshot line. It yields no
// events; the tracker is seeded directly.
func (p *Parser) parseCombatantInfo(ts uint64, content string) {
	args := strings.Split(strings.TrimPrefix(content, combatantInfoPrefix+" "), "&")
	if len(args) < ciFieldCount {
		return
	}

	timestamp, ok := parseAddonTime(args[ciTimestamp])
	if !ok {
		return
	}

	snapshot := tracker.CombatantSnapshot{
		Timestamp: timestamp,
		Name:      args[ciName],
		ClassID:   classIDs[strings.ToLower(args[ciClass])],
		RaceID:    raceIDs[strings.ToLower(args[ciRace])],
	}
	switch args[ciGender] {
	case "2":
		snapshot.GenderID = 1
	case "3":
		snapshot.GenderID = 2
	}

	if args[ciGuildName] != "nil" && args[ciGuildRankName] != "nil" {
		if rankIndex, ok := parseUint8(args[ciGuildRankIndex]); ok {
			snapshot.Guild = &domain.Guild{
				Name:      args[ciGuildName],
				RankName:  args[ciGuildRankName],
				RankIndex: rankIndex,
			}
		}
	}

	snapshot.Gear = parseGear(args[ciGearFirst : ciGearLast+1])

	if blob := args[ciTalents]; blob != "nil" && strings.Contains(blob, "}") {
		snapshot.Talents = strings.ReplaceAll(blob, "}", "|")
	}

	p.tracker.ApplySnapshot(snapshot)

	if petName := args[ciPet]; petName != "nil" && petName != "" {
		if pet, ok := p.unit(petName, ts); ok {
			p.tracker.SetPetOwner(pet.UnitID, domain.PlayerUnitID(args[ciName]))
		}
	}
}

// parseGear decodes the 19 slot descriptors. Slots that are empty,
// malformed or carry ids beyond the known catalog become nil.
func parseGear(slots []string) []*domain.GearItem {
	gear := make([]*domain.GearItem, 0, len(slots))
	for _, slot := range slots {
		if slot == "nil" {
			gear = append(gear, nil)
			continue
		}
		itemArgs := strings.Split(slot, ":")
		if len(itemArgs) < 2 {
			gear = append(gear, nil)
			continue
		}
		itemID, ok := parseAmount(itemArgs[0])
		if !ok {
			gear = append(gear, nil)
			continue
		}
		enchantID, ok := parseAmount(itemArgs[1])
		if !ok {
			gear = append(gear, nil)
			continue
		}
		if itemID == 0 || itemID > constants.MaxKnownItemID {
			gear = append(gear, nil)
		} else if enchantID == 0 || enchantID > constants.MaxKnownEnchantID {
			gear = append(gear, &domain.GearItem{ItemID: itemID})
		} else {
			gear = append(gear, &domain.GearItem{ItemID: itemID, EnchantID: enchantID})
		}
	}
	return gear
}
