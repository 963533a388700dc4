package tracker

// Talent vectors of the three trees; a 51 point investment marks the
// tree the ability is unique to.
const (
	specTree1 = "51|0|0"
	specTree2 = "0|51|0"
	specTree3 = "0|0|51"
)

// brainwashMarker announces an externally triggered respec.
const brainwashMarker = "Scrambled Brain"

// Abilities unique to one specialization, observed as casts.
var specByCast = map[string]string{
	"Mortal Strike":            specTree1,
	"Sweeping Strikes":         specTree1,
	"Bloodthirst":              specTree2,
	"Shield Slam":              specTree3,
	"Bulwark of the Righteous": specTree2,
	"Bestial Wrath":            specTree1,
	"Piercing Shots":           specTree2,
	"Carve":                    specTree3,
	"Enlighten":                specTree1,
	"Proclaim Champion":        specTree2,
	"Vampiric Embrace":         specTree3,
	"Dark Harvest":             specTree1,
	"Power Overwhelming":       specTree2,
	"Conflagrate":              specTree3,
	"Mark for Death":           specTree3,
}

// Abilities unique to one specialization, observed as aura gains.
var specByAuraGain = map[string]string{
	"Arcane Eclipse":    specTree1,
	"Nature Eclipse":    specTree1,
	"Blood Frenzy":      specTree2,
	"Berserk":           specTree2,
	"Tidal Surge":       specTree3,
	"Holy Might":        specTree3,
	"Tree of Life Form": specTree3,
	"Arcane Power":      specTree1,
	"Combustion":        specTree2,
	"Ice Barrier":       specTree3,
	"Seal of Command":   specTree3,
	"Elemental Mastery": specTree1,
	"Stormstrike":       specTree2,
	"Envenom":           specTree1,
	"Adrenaline Rush":   specTree2,
	"Frenzy Effect":     specTree1,
}

// Abilities unique to one specialization, observed as heals.
var specByHeal = map[string]string{
	"Holy Shock": specTree1,
}

// AssignSpecFromCast infers the caster's specialization from an
// ability only one spec can use.
func (t *Tracker) AssignSpecFromCast(casterID uint64, spell string, ts uint64) {
	p, ok := t.participants[casterID]
	if !ok {
		return
	}
	if spec, ok := specByCast[spell]; ok {
		p.RecordTalents(ts, spec)
	}
}

// AssignSpecFromAuraGain infers the receiver's specialization, and
// tracks the brainwash marker for respec back-dating.
func (t *Tracker) AssignSpecFromAuraGain(receiverID uint64, spell string, ts uint64) {
	p, ok := t.participants[receiverID]
	if !ok {
		return
	}
	if spell == brainwashMarker {
		p.MarkBrainwash(ts)
		return
	}
	if spec, ok := specByAuraGain[spell]; ok {
		p.RecordTalents(ts, spec)
	}
}

// AssignSpecFromHeal infers the caster's specialization from a heal.
func (t *Tracker) AssignSpecFromHeal(casterID uint64, spell string, ts uint64) {
	p, ok := t.participants[casterID]
	if !ok {
		return
	}
	if spec, ok := specByHeal[spell]; ok {
		p.RecordTalents(ts, spec)
	}
}
