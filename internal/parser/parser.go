// Package parser turns narrative combat log lines into typed events.
// The grammar is an ordered list of pattern rules, most specific
// first; a line that matches no rule is skipped, never an error.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"raidtracker/internal/catalog"
	"raidtracker/internal/domain"
	"raidtracker/internal/identity"
	"raidtracker/internal/tracker"
)

// Counter spell cast implied by every interrupt line.
const counterSpellID = 2139

// Reflection pseudo spell behind damage shield lines.
const damageShieldSpellID = 2

// Placeholder until post-processing back-fills the dispel cast.
const dispelPlaceholderSpellID = 42

var (
	// "Foo 's hits Bar for 10." is a client bug and rejected before
	// any other rule can mistake it for melee damage.
	reBugSpellHit = regexp.MustCompile(`(.+[^\s])\s's (cr|h)its (.+[^\s]) for (\d+)\.\s?(.*)`)

	reSpellCastAttempt = regexp.MustCompile(`(.+[^\s]) begins to cast (.+[^\s])\.`)
	reGain             = regexp.MustCompile(`(.+[^\s]) gains (\d+) (Health|health|Mana|Rage|Energy|Happiness|Focus) from (.+[^\s])\s's (.+[^\s])\.`)

	reSpellHitOrCrit       = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) (cr|h)its (.+[^\s]) for (\d+)\.\s?(.*)`)
	reSpellHitOrCritSchool = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) (cr|h)its (.+[^\s]) for (\d+) ([a-zA-Z]+) damage\.\s?(.*)`)
	reDamagePeriodic       = regexp.MustCompile(`(.+[^\s]) suffers (\d+) ([a-zA-Z]+) damage from (.+[^\s])\s's (.+[^\s])\.\s?(.*)`)
	reDamageShield         = regexp.MustCompile(`(.+[^\s]) reflects (\d+) ([a-zA-Z]+) damage to (.+[^\s])\.`)

	reMeleeHitOrCrit       = regexp.MustCompile(`(.+[^\s]) (cr|h)its (.+[^\s]) for (\d+)\.\s?(.*)`)
	reMeleeHitOrCritSchool = regexp.MustCompile(`(.+[^\s]) (cr|h)its (.+[^\s]) for (\d+) ([a-zA-Z]+) damage\.\s?(.*)`)

	reHealCrit = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) critically heals (.+[^\s]) for (\d+)\.`)
	reHealHit  = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) heals (.+[^\s]) for (\d+)\.`)

	reAuraGain = regexp.MustCompile(`(.+[^\s]) (is afflicted by|gains) (.+[^\s]) \((\d+)\)\.`)
	reAuraFade = regexp.MustCompile(`(.+[^\s]) fades from (.+[^\s])\.`)

	reSpellSplit      = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) causes (.+[^\s]) (\d+) damage\.\s?(.*)`)
	reSpellMiss       = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) misse(s|d) (.+[^\s])\.`)
	reSpellAvoided    = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) was (blocked|parried|evaded|dodged|resisted|deflected) by (.+[^\s])\.`)
	reSpellAbsorb     = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) is absorbed by (.+[^\s])\.`)
	reSpellAbsorbSelf = regexp.MustCompile(`(.+[^\s]) absorbs (.+[^\s])\s's (.+[^\s])\.`)
	reSpellReflect    = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) is reflected back by (.+[^\s])\.`)
	reProcResist      = regexp.MustCompile(`(.+[^\s]) resists (.+[^\s])\s's (.+[^\s])\.`)
	reSpellImmune     = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) fails\. (.+[^\s]) is immune\.`)

	reMeleeMiss         = regexp.MustCompile(`(.+[^\s]) misses (.+[^\s])\.`)
	reMeleeAvoided      = regexp.MustCompile(`(.+[^\s]) attacks\. (.+[^\s]) (blocks|parries|evades|dodges|deflects)\.`)
	reMeleeAbsorbResist = regexp.MustCompile(`(.+[^\s]) attacks\. (.+[^\s]) (absorbs|resists) all the damage\.`)
	reMeleeImmune       = regexp.MustCompile(`(.+[^\s]) attacks but (.+[^\s]) is immune\.`)

	reCastDurability = regexp.MustCompile(`(.+[^\s]) (casts|performs|uses) (.+[^\s]) on (.+[^\s]): (.+)\.`)
	reCastTargeted   = regexp.MustCompile(`(.+[^\s]) (casts|performs|uses) (.+[^\s]) on (.+[^\s])\.`)
	reCastUntargeted = regexp.MustCompile(`(.+[^\s]) (casts|performs|uses) (.+[^\s])\.`)

	reUnitDies = regexp.MustCompile(`(.+[^\s]) (dies|is destroyed)\.`)
	reUnitSlay = regexp.MustCompile(`(.+[^\s]) is slain by (.+[^\s])(!|\.)`)

	reDispel    = regexp.MustCompile(`(.+[^\s])\s's (.+[^\s]) is removed\.`)
	reInterrupt = regexp.MustCompile(`(.+[^\s]) interrupts (.+[^\s])\s's (.+[^\s])\.`)
)

var schools = map[string]uint8{
	"Physical": domain.SchoolPhysical,
	"Arcane":   domain.SchoolArcane,
	"Fire":     domain.SchoolFire,
	"Frost":    domain.SchoolFrost,
	"Shadow":   domain.SchoolShadow,
	"Nature":   domain.SchoolNature,
	"Holy":     domain.SchoolHoly,
}

type rule struct {
	re     *regexp.Regexp
	handle func(p *Parser, ts uint64, m []string) []domain.Event
}

// Rule order is part of the grammar: school qualified damage before
// unqualified, spell attributed before melee, heal crit before hit.
var rules = []rule{
	{reSpellCastAttempt, (*Parser).spellCastAttempt},
	{reGain, (*Parser).healthGain},
	{reSpellHitOrCrit, (*Parser).spellHitOrCrit},
	{reSpellHitOrCritSchool, (*Parser).spellHitOrCritSchool},
	{reDamagePeriodic, (*Parser).damagePeriodic},
	{reDamageShield, (*Parser).damageShield},
	{reMeleeHitOrCrit, (*Parser).meleeHitOrCrit},
	{reMeleeHitOrCritSchool, (*Parser).meleeHitOrCritSchool},
	{reHealCrit, (*Parser).healCrit},
	{reHealHit, (*Parser).healHit},
	{reAuraGain, (*Parser).auraGain},
	{reAuraFade, (*Parser).auraFade},
	{reSpellSplit, (*Parser).spellSplit},
	{reSpellMiss, (*Parser).spellMiss},
	{reSpellAvoided, (*Parser).spellAvoided},
	{reSpellAbsorb, (*Parser).spellAbsorb},
	{reSpellAbsorbSelf, (*Parser).spellAbsorbSelf},
	{reSpellReflect, (*Parser).spellReflect},
	{reProcResist, (*Parser).procResist},
	{reSpellImmune, (*Parser).spellImmune},
	{reMeleeMiss, (*Parser).meleeMiss},
	{reMeleeAvoided, (*Parser).meleeAvoided},
	{reMeleeAbsorbResist, (*Parser).meleeAbsorbResist},
	{reMeleeImmune, (*Parser).meleeImmune},
	{reCastDurability, (*Parser).castTargeted},
	{reCastTargeted, (*Parser).castTargeted},
	{reCastUntargeted, (*Parser).castUntargeted},
	{reUnitDies, (*Parser).unitDies},
	{reUnitSlay, (*Parser).unitSlay},
}

var unAuraRules = []rule{
	{reDispel, (*Parser).dispel},
	{reInterrupt, (*Parser).interrupt},
}

type Parser struct {
	resolver *identity.Resolver
	tracker  *tracker.Tracker
	catalog  catalog.Store
	logger   zerolog.Logger

	bonus         []domain.Event
	summonsMerged bool
	nextID        uint64
}

func New(resolver *identity.Resolver, tr *tracker.Tracker, store catalog.Store, logger zerolog.Logger) *Parser {
	return &Parser{
		resolver: resolver,
		tracker:  tr,
		catalog:  store,
		logger:   logger,
	}
}

// ParseLine applies the grammar to one line and returns its events.
// Unrecognized lines and resolution misses yield no events; a rule
// whose actor or numeric field fails to resolve is abandoned and the
// remaining rules are tried.
func (p *Parser) ParseLine(ts uint64, content string) []domain.Event {
	if reBugSpellHit.MatchString(content) {
		return nil
	}

	for _, r := range rules {
		m := r.re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		if events := r.handle(p, ts, m); events != nil {
			return p.stamp(ts, events)
		}
	}

	if p.parseMisc(ts, content) {
		return nil
	}

	if strings.HasPrefix(content, combatantInfoPrefix) {
		p.parseCombatantInfo(ts, content)
		return nil
	}

	for _, r := range unAuraRules {
		m := r.re.FindStringSubmatch(content)
		if m == nil {
			continue
		}
		if events := r.handle(p, ts, m); events != nil {
			return p.stamp(ts, events)
		}
	}

	return nil
}

func (p *Parser) stamp(ts uint64, events []domain.Event) []domain.Event {
	for i := range events {
		p.nextID++
		events[i].ID = p.nextID
		events[i].Timestamp = ts
	}
	return events
}

// unit resolves an actor reference and registers its participation.
func (p *Parser) unit(raw string, ts uint64) (domain.Unit, bool) {
	unit, ok := p.resolver.Unit(raw)
	if !ok {
		return domain.Unit{}, false
	}
	p.tracker.Collect(unit, raw, ts)
	return unit, true
}

func parseAmount(s string) (uint32, bool) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func castAndDamage(attacker, victim domain.Unit, spellID uint32, spellName string, hitMask uint32, dmg domain.Damage) []domain.Event {
	return []domain.Event{
		{Subject: attacker, Kind: domain.SpellCast{Target: &victim, SpellID: spellID, HitMask: hitMask}},
		{Subject: attacker, Kind: domain.SpellDamage{Damage: dmg}},
	}
}

func (p *Parser) spellCastAttempt(ts uint64, m []string) []domain.Event {
	caster, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	spellID, ok := p.resolver.Spell(m[2])
	if !ok {
		return nil
	}
	p.tracker.AssignSpecFromCast(caster.UnitID, m[2], ts)
	return []domain.Event{
		{Subject: caster, Kind: domain.SpellCast{SpellID: spellID, HitMask: domain.HitHit}},
	}
}

func (p *Parser) healthGain(ts uint64, m []string) []domain.Event {
	if !strings.Contains(m[3], "ealth") {
		return nil
	}
	target, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	amount, ok := parseAmount(m[2])
	if !ok {
		return nil
	}
	caster, ok := p.unit(m[4], ts)
	if !ok {
		return nil
	}
	spellID, ok := p.resolver.Spell(m[5])
	if !ok {
		return nil
	}
	effective := p.tracker.AttributeHeal(target.UnitID, amount)
	p.tracker.AssignSpecFromAuraGain(caster.UnitID, m[5], ts)

	return []domain.Event{
		{Subject: caster, Kind: domain.SpellCast{Target: &target, SpellID: spellID, HitMask: domain.HitHit}},
		{Subject: caster, Kind: domain.Heal{Target: target, SpellID: spellID, Total: amount, Effective: effective, HitMask: domain.HitHit}},
	}
}

func (p *Parser) spellHitOrCrit(ts uint64, m []string) []domain.Event {
	attacker, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	spellName := m[2]
	spellID, ok := p.resolver.Spell(spellName)
	if !ok {
		return nil
	}
	hitMask := domain.HitHit
	if m[3] == "cr" {
		hitMask = domain.HitCrit
	}
	victim, ok := p.unit(m[4], ts)
	if !ok {
		return nil
	}
	damage, ok := parseAmount(m[5])
	if !ok {
		return nil
	}
	trailer := parseTrailer(m[6])
	hitMask |= trailerMask(trailer)
	p.tracker.AttributeDamage(victim.UnitID, damage)
	p.tracker.AssignSpecFromCast(attacker.UnitID, spellName, ts)

	return castAndDamage(attacker, victim, spellID, spellName, hitMask, domain.Damage{
		Victim:    victim,
		SpellID:   spellID,
		SpellName: spellName,
		HitMask:   hitMask,
		Blocked:   trailerAmount(trailer, domain.HitPartialBlock),
		Components: []domain.DamageComponent{{
			School:   domain.SchoolPhysical,
			Amount:   damage,
			Resisted: trailerAmount(trailer, domain.HitPartialResist),
			Absorbed: trailerAmount(trailer, domain.HitPartialAbsorb),
		}},
	})
}

func (p *Parser) spellHitOrCritSchool(ts uint64, m []string) []domain.Event {
	attacker, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	spellName := m[2]
	spellID, ok := p.resolver.Spell(spellName)
	if !ok {
		return nil
	}
	hitMask := domain.HitHit
	if m[3] == "cr" {
		hitMask = domain.HitCrit
	}
	victim, ok := p.unit(m[4], ts)
	if !ok {
		return nil
	}
	damage, ok := parseAmount(m[5])
	if !ok {
		return nil
	}
	school, ok := schools[m[6]]
	if !ok {
		return nil
	}
	trailer := parseTrailer(m[7])
	hitMask |= trailerMask(trailer)
	p.tracker.AttributeDamage(victim.UnitID, damage)
	p.tracker.AssignSpecFromCast(attacker.UnitID, spellName, ts)

	// Fully absorbed school damage shows up as a zero amount hit; no
	// cast is emitted for those.
	if damage == 0 {
		return []domain.Event{
			{Subject: attacker, Kind: domain.SpellDamage{Damage: domain.Damage{
				Victim:    victim,
				SpellID:   spellID,
				SpellName: spellName,
				HitMask:   hitMask,
				Components: []domain.DamageComponent{{
					School:   school,
					Absorbed: trailerAmount(trailer, domain.HitPartialAbsorb),
				}},
			}}},
		}
	}

	return castAndDamage(attacker, victim, spellID, spellName, hitMask, domain.Damage{
		Victim:    victim,
		SpellID:   spellID,
		SpellName: spellName,
		HitMask:   hitMask,
		Blocked:   trailerAmount(trailer, domain.HitPartialBlock),
		Components: []domain.DamageComponent{{
			School:   school,
			Amount:   damage,
			Resisted: trailerAmount(trailer, domain.HitPartialResist),
			Absorbed: trailerAmount(trailer, domain.HitPartialAbsorb),
		}},
	})
}

func (p *Parser) damagePeriodic(ts uint64, m []string) []domain.Event {
	victim, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	damage, ok := parseAmount(m[2])
	if !ok {
		return nil
	}
	school, ok := schools[m[3]]
	if !ok {
		return nil
	}
	spellName := m[5]
	spellID, ok := p.resolver.PeriodicSpell(spellName)
	if !ok {
		return nil
	}

	attackerRaw := m[4]
	if spellName == "Power Overwhelming" && !strings.Contains(attackerRaw, "self damage") {
		// The periodic component damages the caster itself; credit
		// the spec to the original caster, then force the
		// self-damage attacker variant.
		if original, ok := p.unit(attackerRaw, ts); ok {
			p.tracker.AssignSpecFromCast(original.UnitID, spellName, ts)
		}
		attackerRaw += " (self damage)"
	}
	attacker, ok := p.unit(attackerRaw, ts)
	if !ok {
		return nil
	}
	p.tracker.AssignSpecFromCast(attacker.UnitID, spellName, ts)

	trailer := parseTrailer(m[6])
	hitMask := domain.HitHit | trailerMask(trailer)
	p.tracker.AttributeDamage(victim.UnitID, damage)

	return castAndDamage(attacker, victim, spellID, spellName, hitMask, domain.Damage{
		Victim:    victim,
		SpellID:   spellID,
		SpellName: spellName,
		HitMask:   hitMask,
		Blocked:   trailerAmount(trailer, domain.HitPartialBlock),
		OverTime:  true,
		Components: []domain.DamageComponent{{
			School:   school,
			Amount:   damage,
			Resisted: trailerAmount(trailer, domain.HitPartialResist),
			Absorbed: trailerAmount(trailer, domain.HitPartialAbsorb),
		}},
	})
}

func (p *Parser) damageShield(ts uint64, m []string) []domain.Event {
	attacker, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	damage, ok := parseAmount(m[2])
	if !ok {
		return nil
	}
	school, ok := schools[m[3]]
	if !ok {
		return nil
	}
	victim, ok := p.unit(m[4], ts)
	if !ok {
		return nil
	}
	p.tracker.AttributeDamage(victim.UnitID, damage)

	return castAndDamage(attacker, victim, damageShieldSpellID, "", domain.HitHit, domain.Damage{
		Victim:  victim,
		SpellID: damageShieldSpellID,
		HitMask: domain.HitHit,
		Components: []domain.DamageComponent{{
			School: school,
			Amount: damage,
		}},
	})
}

func (p *Parser) meleeHitOrCrit(ts uint64, m []string) []domain.Event {
	attacker, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	hitMask := domain.HitHit
	if m[2] == "cr" {
		hitMask = domain.HitCrit
	}
	victim, ok := p.unit(m[3], ts)
	if !ok {
		return nil
	}
	damage, ok := parseAmount(m[4])
	if !ok {
		return nil
	}
	trailer := parseTrailer(m[5])
	hitMask |= trailerMask(trailer)
	p.tracker.AttributeDamage(victim.UnitID, damage)

	return []domain.Event{
		{Subject: attacker, Kind: domain.MeleeDamage{Damage: domain.Damage{
			Victim:  victim,
			HitMask: hitMask,
			Blocked: trailerAmount(trailer, domain.HitPartialBlock),
			Components: []domain.DamageComponent{{
				School:   domain.SchoolPhysical,
				Amount:   damage,
				Resisted: trailerAmount(trailer, domain.HitPartialResist),
				Absorbed: trailerAmount(trailer, domain.HitPartialAbsorb),
			}},
		}}},
	}
}

func (p *Parser) meleeHitOrCritSchool(ts uint64, m []string) []domain.Event {
	attacker, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	hitMask := domain.HitHit
	if m[2] == "cr" {
		hitMask = domain.HitCrit
	}
	victim, ok := p.unit(m[3], ts)
	if !ok {
		return nil
	}
	damage, ok := parseAmount(m[4])
	if !ok {
		return nil
	}
	school, ok := schools[m[5]]
	if !ok {
		return nil
	}
	trailer := parseTrailer(m[6])
	hitMask |= trailerMask(trailer)
	p.tracker.AttributeDamage(victim.UnitID, damage)

	return []domain.Event{
		{Subject: attacker, Kind: domain.MeleeDamage{Damage: domain.Damage{
			Victim:  victim,
			HitMask: hitMask,
			Blocked: trailerAmount(trailer, domain.HitPartialBlock),
			Components: []domain.DamageComponent{{
				School:   school,
				Amount:   damage,
				Resisted: trailerAmount(trailer, domain.HitPartialResist),
				Absorbed: trailerAmount(trailer, domain.HitPartialAbsorb),
			}},
		}}},
	}
}

func (p *Parser) healCrit(ts uint64, m []string) []domain.Event {
	return p.heal(ts, m, domain.HitCrit)
}

func (p *Parser) healHit(ts uint64, m []string) []domain.Event {
	return p.heal(ts, m, domain.HitHit)
}

func (p *Parser) heal(ts uint64, m []string, hitMask uint32) []domain.Event {
	caster, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	spellID, ok := p.resolver.Spell(m[2])
	if !ok {
		return nil
	}
	target, ok := p.unit(m[3], ts)
	if !ok {
		return nil
	}
	amount, ok := parseAmount(m[4])
	if !ok {
		return nil
	}
	effective := p.tracker.AttributeHeal(target.UnitID, amount)
	p.tracker.AssignSpecFromHeal(caster.UnitID, m[2], ts)

	return []domain.Event{
		{Subject: caster, Kind: domain.SpellCast{Target: &target, SpellID: spellID, HitMask: hitMask}},
		{Subject: caster, Kind: domain.Heal{Target: target, SpellID: spellID, Total: amount, Effective: effective, HitMask: hitMask}},
	}
}

func (p *Parser) auraGain(ts uint64, m []string) []domain.Event {
	target, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	spellName := m[3]
	spellID, ok := p.resolver.Spell(spellName)
	if !ok {
		return nil
	}
	stacks, ok := parseAmount(m[4])
	if !ok {
		return nil
	}
	p.tracker.AssignSpecFromAuraGain(target.UnitID, spellName, ts)

	return []domain.Event{
		{Subject: target, Kind: domain.AuraApplication{SpellID: spellID, Stacks: stacks, Delta: int8(stacks)}},
	}
}

func (p *Parser) auraFade(ts uint64, m []string) []domain.Event {
	target, ok := p.unit(m[2], ts)
	if !ok {
		return nil
	}
	spellID, ok := p.resolver.Spell(m[1])
	if !ok {
		return nil
	}
	return []domain.Event{
		{Subject: target, Kind: domain.AuraApplication{SpellID: spellID, Delta: -1}},
	}
}

func (p *Parser) spellSplit(ts uint64, m []string) []domain.Event {
	spellName := m[2]
	spellID, ok := p.resolver.Spell(spellName)
	if !ok {
		return nil
	}
	victim, ok := p.unit(m[3], ts)
	if !ok {
		return nil
	}
	damage, ok := parseAmount(m[4])
	if !ok {
		return nil
	}

	attackerRaw := m[1]
	if spellName == "Soul Link" && !strings.Contains(attackerRaw, "self damage") {
		// Split damage lands on the caster; force the self-damage
		// attacker variant.
		attackerRaw += " (self damage)"
	}
	attacker, ok := p.unit(attackerRaw, ts)
	if !ok {
		return nil
	}

	trailer := parseTrailer(m[5])
	hitMask := domain.HitHit | trailerMask(trailer)
	p.tracker.AttributeDamage(victim.UnitID, damage)

	return castAndDamage(attacker, victim, spellID, spellName, hitMask, domain.Damage{
		Victim:    victim,
		SpellID:   spellID,
		SpellName: spellName,
		HitMask:   hitMask,
		Blocked:   trailerAmount(trailer, domain.HitPartialBlock),
		Components: []domain.DamageComponent{{
			School:   domain.SchoolPhysical,
			Amount:   damage,
			Resisted: trailerAmount(trailer, domain.HitPartialResist),
			Absorbed: trailerAmount(trailer, domain.HitPartialAbsorb),
		}},
	})
}

func (p *Parser) spellMiss(ts uint64, m []string) []domain.Event {
	return p.spellNoDamage(ts, m[1], m[2], m[4], domain.HitMiss)
}

func (p *Parser) spellAvoided(ts uint64, m []string) []domain.Event {
	var hitType uint32
	switch m[3] {
	case "blocked":
		hitType = domain.HitFullBlock
	case "parried":
		hitType = domain.HitParry
	case "evaded":
		hitType = domain.HitEvade
	case "dodged":
		hitType = domain.HitDodge
	case "deflected":
		hitType = domain.HitDeflect
	case "resisted":
		hitType = domain.HitFullResist
	}
	return p.spellNoDamage(ts, m[1], m[2], m[4], hitType)
}

func (p *Parser) spellAbsorb(ts uint64, m []string) []domain.Event {
	return p.spellNoDamage(ts, m[1], m[2], m[3], domain.HitFullAbsorb)
}

func (p *Parser) spellAbsorbSelf(ts uint64, m []string) []domain.Event {
	return p.spellNoDamage(ts, m[2], m[3], m[1], domain.HitFullAbsorb)
}

func (p *Parser) spellReflect(ts uint64, m []string) []domain.Event {
	return p.spellNoDamage(ts, m[1], m[2], m[3], domain.HitReflect)
}

func (p *Parser) procResist(ts uint64, m []string) []domain.Event {
	return p.spellNoDamage(ts, m[2], m[3], m[1], domain.HitFullResist)
}

func (p *Parser) spellImmune(ts uint64, m []string) []domain.Event {
	return p.spellNoDamage(ts, m[1], m[2], m[3], domain.HitImmune)
}

// spellNoDamage covers every fully avoided spell outcome: a cast and
// a component-less damage event carrying only the hit mask.
func (p *Parser) spellNoDamage(ts uint64, attackerRaw, spellName, victimRaw string, hitMask uint32) []domain.Event {
	attacker, ok := p.unit(attackerRaw, ts)
	if !ok {
		return nil
	}
	spellID, ok := p.resolver.Spell(spellName)
	if !ok {
		return nil
	}
	victim, ok := p.unit(victimRaw, ts)
	if !ok {
		return nil
	}
	p.tracker.AssignSpecFromCast(attacker.UnitID, spellName, ts)

	return castAndDamage(attacker, victim, spellID, spellName, hitMask, domain.Damage{
		Victim:    victim,
		SpellID:   spellID,
		SpellName: spellName,
		HitMask:   hitMask,
	})
}

func (p *Parser) meleeMiss(ts uint64, m []string) []domain.Event {
	return p.meleeNoDamage(ts, m[1], m[2], domain.HitMiss)
}

func (p *Parser) meleeAvoided(ts uint64, m []string) []domain.Event {
	var hitType uint32
	switch m[3] {
	case "blocks":
		hitType = domain.HitFullBlock
	case "parries":
		hitType = domain.HitParry
	case "evades":
		hitType = domain.HitEvade
	case "dodges":
		hitType = domain.HitDodge
	case "deflects":
		hitType = domain.HitDeflect
	}
	return p.meleeNoDamage(ts, m[1], m[2], hitType)
}

func (p *Parser) meleeAbsorbResist(ts uint64, m []string) []domain.Event {
	hitType := domain.HitFullResist
	if m[3] == "absorbs" {
		hitType = domain.HitFullAbsorb
	}
	return p.meleeNoDamage(ts, m[1], m[2], hitType)
}

func (p *Parser) meleeImmune(ts uint64, m []string) []domain.Event {
	return p.meleeNoDamage(ts, m[1], m[2], domain.HitImmune)
}

func (p *Parser) meleeNoDamage(ts uint64, attackerRaw, victimRaw string, hitMask uint32) []domain.Event {
	attacker, ok := p.unit(attackerRaw, ts)
	if !ok {
		return nil
	}
	victim, ok := p.unit(victimRaw, ts)
	if !ok {
		return nil
	}
	return []domain.Event{
		{Subject: attacker, Kind: domain.MeleeDamage{Damage: domain.Damage{Victim: victim, HitMask: hitMask}}},
	}
}

func (p *Parser) castTargeted(ts uint64, m []string) []domain.Event {
	caster, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	spellID, ok := p.resolver.Spell(m[3])
	if !ok {
		return nil
	}
	target, ok := p.unit(m[4], ts)
	if !ok {
		return nil
	}
	p.tracker.AssignSpecFromCast(caster.UnitID, m[3], ts)

	return []domain.Event{
		{Subject: caster, Kind: domain.SpellCast{Target: &target, SpellID: spellID, HitMask: domain.HitHit}},
	}
}

func (p *Parser) castUntargeted(ts uint64, m []string) []domain.Event {
	caster, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	spellID, ok := p.resolver.Spell(m[3])
	if !ok {
		return nil
	}
	p.tracker.AssignSpecFromCast(caster.UnitID, m[3], ts)

	return []domain.Event{
		{Subject: caster, Kind: domain.SpellCast{SpellID: spellID, HitMask: domain.HitHit}},
	}
}

func (p *Parser) unitDies(ts uint64, m []string) []domain.Event {
	victim, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	return []domain.Event{
		{Subject: victim, Kind: domain.Death{}},
	}
}

func (p *Parser) unitSlay(ts uint64, m []string) []domain.Event {
	victim, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	murder, ok := p.unit(m[2], ts)
	if !ok {
		return nil
	}
	return []domain.Event{
		{Subject: victim, Kind: domain.Death{Murder: &murder}},
	}
}

func (p *Parser) dispel(ts uint64, m []string) []domain.Event {
	target, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	targetSpellID, ok := p.resolver.Spell(m[2])
	if !ok {
		return nil
	}
	return []domain.Event{
		{Subject: domain.Unit{IsPlayer: true}, Kind: domain.Dispel{
			Target:        target,
			DispelSpellID: dispelPlaceholderSpellID,
			TargetSpellID: targetSpellID,
			Amount:        1,
		}},
	}
}

func (p *Parser) interrupt(ts uint64, m []string) []domain.Event {
	caster, ok := p.unit(m[1], ts)
	if !ok {
		return nil
	}
	target, ok := p.unit(m[2], ts)
	if !ok {
		return nil
	}
	interruptedSpellID, ok := p.resolver.Spell(m[3])
	if !ok {
		return nil
	}
	return []domain.Event{
		{Subject: caster, Kind: domain.SpellCast{Target: &target, SpellID: counterSpellID, HitMask: domain.HitHit}},
		{Subject: caster, Kind: domain.Interrupt{Target: target, InterruptedSpellID: interruptedSpellID}},
	}
}
