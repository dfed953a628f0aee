package entity

const (
	StateEmpty            = "empty"
	StateWaitingForSecond = "waiting"
	StateActive           = "active"
)

// Slot is one of the two player positions of a session. The zero value is an empty slot.
type Slot struct {
	player Player
	bound  bool
}

func Seat(player Player) Slot {
	return Slot{player: player, bound: true}
}

func (that Slot) IsEmpty() bool {
	return !that.bound
}

// Player returns the seated player; ok is false for an empty slot.
func (that Slot) Player() (Player, bool) {
	return that.player, that.bound
}

// Session is the match state of the room. It is a plain value: copying it copies the slots.
type Session struct {
	Slots [2]Slot
	// Turn is MarkUnset unless both slots are bound.
	Turn Mark
}

func (that Session) State() string {
	switch that.bound() {
	case 0:
		return StateEmpty
	case 1:
		return StateWaitingForSecond
	default:
		return StateActive
	}
}

func (that Session) IsActive() bool {
	return that.State() == StateActive
}

// Find returns the index of the slot bound to id.
func (that Session) Find(id string) (int, bool) {
	for i, slot := range that.Slots {
		if player, ok := slot.Player(); ok && player.ID == id {
			return i, true
		}
	}

	return -1, false
}

// Bind seats the player in the first empty slot. It reports false when both slots are taken.
func (that Session) Bind(player Player) (Session, bool) {
	for i, slot := range that.Slots {
		if slot.IsEmpty() {
			that.Slots[i] = Seat(player)
			return that, true
		}
	}

	return that, false
}

// Vacate empties the slot at index i and drops the turn.
func (that Session) Vacate(i int) Session {
	that.Slots[i] = Slot{}
	that.Turn = MarkUnset

	return that
}

// Players lists the seated players in slot order.
func (that Session) Players() []Player {
	players := make([]Player, 0, len(that.Slots))
	for _, slot := range that.Slots {
		if player, ok := slot.Player(); ok {
			players = append(players, player)
		}
	}

	return players
}

func (that Session) bound() int {
	n := 0
	for _, slot := range that.Slots {
		if !slot.IsEmpty() {
			n++
		}
	}

	return n
}
