// Package identity canonicalizes raw actor and ability references
// into stable identifiers. A resolver is scoped to one parsing
// session so its caches never leak across runs.
package identity

import (
	"strings"

	"raidtracker/internal/catalog"
	"raidtracker/internal/domain"
)

// unknownSentinel is the placeholder the client emits when it could
// not name an actor or ability.
const unknownSentinel = "Unknown"

type Resolver struct {
	catalog catalog.Store
	units   map[string]domain.Unit
	spells  map[string]spellEntry
}

// spellEntry caches misses too: a name that resolved to nothing once
// will resolve to nothing for the whole session.
type spellEntry struct {
	id uint32
	ok bool
}

func NewResolver(store catalog.Store) *Resolver {
	return &Resolver{
		catalog: store,
		units:   make(map[string]domain.Unit),
		spells:  make(map[string]spellEntry),
	}
}

// Unit resolves a raw actor reference. Known NPC display names are
// classified first; everything else falls back to a hashed player id
// unless the name carries a possessive fragment, which indicates an
// upstream parsing inconsistency and fails resolution.
func (r *Resolver) Unit(raw string) (domain.Unit, bool) {
	if raw == unknownSentinel {
		return domain.Unit{}, false
	}
	if unit, ok := r.units[raw]; ok {
		return unit, true
	}

	var unit domain.Unit
	if npc, ok := r.catalog.NpcByName(raw); ok {
		unit = domain.Unit{
			UnitID:       domain.NpcUnitID(npc.ID),
			IsSelfDamage: strings.Contains(raw, "self damage"),
		}
	} else {
		if strings.Contains(raw, "'s ") {
			return domain.Unit{}, false
		}
		selfDamage := strings.Contains(raw, "self damage")
		unit = domain.Unit{
			UnitID:        domain.PlayerUnitID(raw),
			IsPlayer:      true,
			IsSelfDamage:  selfDamage,
			IsMindControl: !selfDamage && strings.Contains(raw, "(") && strings.Contains(raw, ")"),
		}
	}

	r.units[raw] = unit
	return unit, true
}

// Spell resolves an ability name to its catalog id.
func (r *Resolver) Spell(name string) (uint32, bool) {
	if name == unknownSentinel {
		return 0, false
	}
	if entry, ok := r.spells[name]; ok {
		return entry.id, entry.ok
	}
	var entry spellEntry
	if sp, ok := r.catalog.SpellByName(name); ok {
		entry = spellEntry{id: sp.ID, ok: true}
	}
	r.spells[name] = entry
	return entry.id, entry.ok
}

// PeriodicSpell prefers the damage-over-time variant of the ability
// before falling back to the plain name.
func (r *Resolver) PeriodicSpell(name string) (uint32, bool) {
	if name == unknownSentinel {
		return 0, false
	}
	if id, ok := r.Spell(name + " (dot)"); ok {
		return id, true
	}
	return r.Spell(name)
}
