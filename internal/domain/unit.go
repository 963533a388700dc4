package domain

// Unit identifies an actor in the event stream. Self-damage and
// mind-controlled variants of the same name carry distinct unit ids
// because they represent distinct combat responsibility.
type Unit struct {
	UnitID        uint64
	IsPlayer      bool
	IsSelfDamage  bool
	IsMindControl bool
	Owner         *Unit
}

// OwnerOrSelf resolves pet and vehicle actors to their controller.
func (u *Unit) OwnerOrSelf() *Unit {
	if u.Owner != nil {
		return u.Owner
	}
	return u
}
