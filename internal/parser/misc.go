package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"raidtracker/internal/domain"
)

const (
	consolidatedPrefix = "CONSOLIDATED: "
	petPrefix          = "PET: "
)

// Embedded timestamps of the addon emitted sub-lines.
const addonTimeLayout = "02.01.06 15:04:05"

var (
	reZoneInfo = regexp.MustCompile(`ZONE_INFO: ([^&]+)&(.+[^\s])&(\d+)`)
	reLoot     = regexp.MustCompile(`LOOT: ([^&]+)&(.+[^\s]) receives loot: \|c([a-zA-Z0-9]+)\|Hitem:(\d+):(\d+):(\d+):(\d+)\|h\[([a-zA-Z0-9\s']+)\]\|h\|rx(\d+)\.`)
)

// parseMisc handles the addon emitted batch lines: loot, zone info
// and pet ownership. These carry their own timestamps and surface as
// bonus events merged in during post-processing. Returns true when
// the line was consumed.
func (p *Parser) parseMisc(ts uint64, content string) bool {
	var subLines []string
	if strings.HasPrefix(content, consolidatedPrefix) {
		subLines = strings.Split(strings.TrimPrefix(content, consolidatedPrefix), "{")
	} else {
		subLines = []string{content}
	}

	consumed := false
	for _, line := range subLines {
		switch {
		case p.parseLoot(ts, line):
			consumed = true
		case p.parseZoneInfo(line):
			consumed = true
		case strings.HasPrefix(line, petPrefix):
			p.parsePet(ts, line)
			consumed = true
		}
	}
	return consumed
}

func (p *Parser) parseLoot(ts uint64, line string) bool {
	m := reLoot.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	lootTs, ok := parseAddonTime(m[1])
	if !ok {
		return true
	}
	receiver, ok := p.unit(m[2], ts)
	if !ok {
		return true
	}
	itemID, ok := parseAmount(m[4])
	if !ok {
		return true
	}
	amount, ok := parseAmount(m[9])
	if !ok {
		return true
	}
	p.bonus = append(p.bonus, domain.Event{
		Timestamp: lootTs,
		Subject:   receiver,
		Kind:      domain.Loot{ItemID: itemID, Amount: amount},
	})
	return true
}

func (p *Parser) parseZoneInfo(line string) bool {
	m := reZoneInfo.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	zoneTs, ok := parseAddonTime(m[1])
	if !ok {
		return true
	}
	instanceID, ok := parseAmount(m[3])
	if !ok {
		return true
	}
	gameMap, ok := p.catalog.MapByName(m[2])
	if !ok {
		p.logger.Debug().Str("map", m[2]).Msg("zone info names unknown map")
		return true
	}
	p.bonus = append(p.bonus, domain.Event{
		Timestamp: zoneTs,
		Kind:      domain.InstanceMap{MapID: gameMap.ID, InstanceID: instanceID},
	})
	return true
}

func (p *Parser) parsePet(ts uint64, line string) {
	args := strings.Split(strings.TrimPrefix(line, petPrefix), "&")
	if len(args) < 3 {
		return
	}
	playerName := args[1]
	petName := args[2]
	if petName == "nil" || petName == "" {
		return
	}
	pet, ok := p.unit(petName, ts)
	if !ok {
		return
	}
	p.tracker.SetPetOwner(pet.UnitID, domain.PlayerUnitID(playerName))
}

func parseAddonTime(s string) (uint64, bool) {
	t, err := time.Parse(addonTimeLayout, s)
	if err != nil {
		return 0, false
	}
	return uint64(t.UnixMilli()), true
}

func parseUint8(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}
