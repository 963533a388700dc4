package domain

// Hit type flags combined into the hit mask of damage, heal and cast
// events.
const (
	HitHit uint32 = 1 << iota
	HitCrit
	HitMiss
	HitFullBlock
	HitPartialBlock
	HitParry
	HitEvade
	HitDodge
	HitDeflect
	HitFullResist
	HitPartialResist
	HitFullAbsorb
	HitPartialAbsorb
	HitReflect
	HitImmune
	HitGlancing
	HitCrushing
)

// Damage schools.
const (
	SchoolPhysical uint8 = 1 << iota
	SchoolHoly
	SchoolFire
	SchoolNature
	SchoolFrost
	SchoolShadow
	SchoolArcane
)

// Event is one entry of the ordered telemetry stream of an instance.
// Events are consumed strictly in increasing id/timestamp order.
type Event struct {
	ID        uint64
	Timestamp uint64
	Subject   Unit
	Kind      EventKind
}

// EventKind is the closed set of event payloads.
type EventKind interface {
	isEventKind()
}

type CombatState struct {
	InCombat bool
}

type Death struct {
	// Murder is the slaying unit, if the log names one.
	Murder *Unit
}

type PowerType uint8

const (
	PowerHealth PowerType = iota
	PowerMana
	PowerRage
	PowerEnergy
)

type Power struct {
	Type    PowerType
	Max     uint32
	Current uint32
}

type DamageComponent struct {
	School   uint8
	Amount   uint32
	Resisted uint32
	Absorbed uint32
}

// Damage carries the shared payload of spell and melee damage.
// The event subject is the attacker.
type Damage struct {
	Victim     Unit
	SpellID    uint32
	SpellName  string
	HitMask    uint32
	Blocked    uint32
	OverTime   bool
	Components []DamageComponent
}

// Total sums the raw damage over all components.
func (d *Damage) Total() uint64 {
	var total uint64
	for _, c := range d.Components {
		total += uint64(c.Amount)
	}
	return total
}

type SpellDamage struct {
	Damage
}

type MeleeDamage struct {
	Damage
}

// Heal's subject is the caster. Effective is the portion that was not
// overheal according to the target's damage ledger.
type Heal struct {
	Target    Unit
	SpellID   uint32
	Total     uint32
	Effective uint32
	Absorb    uint32
	HitMask   uint32
}

// Threat's subject is the unit generating threat.
type Threat struct {
	Threatened Unit
	Amount     int64
}

// AuraApplication's subject is the target gaining or losing the aura.
type AuraApplication struct {
	Caster  *Unit
	SpellID uint32
	Stacks  uint32
	Delta   int8
}

// PercentPlayersInCombat is an instance wide telemetry channel. Once
// observed it becomes the authoritative combat end signal for the
// instance.
type PercentPlayersInCombat struct {
	Percentage uint32
}

type Loot struct {
	ItemID uint32
	Amount uint32
}

// SpellCast's subject is the caster; Target is nil for untargeted
// casts.
type SpellCast struct {
	Target  *Unit
	SpellID uint32
	HitMask uint32
}

// Dispel's subject is the dispelling unit. The caster is back-filled
// from a matching cast during post-processing when possible.
type Dispel struct {
	Target        Unit
	DispelSpellID uint32
	TargetSpellID uint32
	Amount        uint32
}

// Interrupt's subject is the interrupting unit.
type Interrupt struct {
	Target             Unit
	InterruptedSpellID uint32
}

// Summon's subject is the summoned unit.
type Summon struct {
	Owner Unit
}

// InstanceMap marks the zone an actor was observed in.
type InstanceMap struct {
	MapID      uint32
	InstanceID uint32
	Difficulty uint8
}

func (CombatState) isEventKind()            {}
func (Death) isEventKind()                  {}
func (Power) isEventKind()                  {}
func (SpellDamage) isEventKind()            {}
func (MeleeDamage) isEventKind()            {}
func (Heal) isEventKind()                   {}
func (Threat) isEventKind()                 {}
func (AuraApplication) isEventKind()        {}
func (PercentPlayersInCombat) isEventKind() {}
func (Loot) isEventKind()                   {}
func (SpellCast) isEventKind()              {}
func (Dispel) isEventKind()                 {}
func (Interrupt) isEventKind()              {}
func (Summon) isEventKind()                 {}
func (InstanceMap) isEventKind()            {}
