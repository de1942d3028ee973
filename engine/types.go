package engine

import "strings"

// CardKind identifies one of the ten card kinds. The numeric value doubles as
// the card's rank, so the ordering is strict and total.
type CardKind uint8

const (
	Spy        CardKind = 0
	Guard      CardKind = 1
	Priest     CardKind = 2
	Baron      CardKind = 3
	Handmaid   CardKind = 4
	Prince     CardKind = 5
	Chancellor CardKind = 6
	King       CardKind = 7
	Countess   CardKind = 8
	Princess   CardKind = 9

	NumKinds = 10
)

// NoCard represents the absence of a card (empty hand slot, omitted guess).
const NoCard CardKind = 0xFF

// NoSeat represents "no target".
const NoSeat uint8 = 0xFF

// kindCounts is the number of copies of each kind in a fresh deck.
var kindCounts = [NumKinds]uint8{
	Spy:        2,
	Guard:      5,
	Priest:     2,
	Baron:      2,
	Handmaid:   2,
	Prince:     2,
	Chancellor: 2,
	King:       1,
	Countess:   1,
	Princess:   1,
}

var kindNames = [NumKinds]string{
	Spy:        "Spy",
	Guard:      "Guard",
	Priest:     "Priest",
	Baron:      "Baron",
	Handmaid:   "Handmaid",
	Prince:     "Prince",
	Chancellor: "Chancellor",
	King:       "King",
	Countess:   "Countess",
	Princess:   "Princess",
}

// AllKinds lists every kind in ascending rank.
var AllKinds = [NumKinds]CardKind{Spy, Guard, Priest, Baron, Handmaid, Prince, Chancellor, King, Countess, Princess}

// Valid reports whether k is one of the ten catalog kinds.
func (k CardKind) Valid() bool { return k < NumKinds }

// Count returns how many copies of k are in a fresh deck. Unknown kinds have 0.
func (k CardKind) Count() uint8 {
	if !k.Valid() {
		return 0
	}
	return kindCounts[k]
}

// Rank returns the comparison rank of k. NoCard ranks below every real card.
func (k CardKind) Rank() int {
	if !k.Valid() {
		return -1
	}
	return int(k)
}

// IsBonusCard reports whether playing or discarding k contributes to the
// end-of-round bonus.
func (k CardKind) IsBonusCard() bool { return k == Spy }

// String returns the display name.
func (k CardKind) String() string {
	if !k.Valid() {
		return "None"
	}
	return kindNames[k]
}

// ParseCardKind maps a display name (case-insensitive) back to its kind.
func ParseCardKind(name string) (CardKind, bool) {
	name = strings.TrimSpace(name)
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return CardKind(k), true
		}
	}
	return NoCard, false
}

// DeckSize is the number of cards in a full deck.
const DeckSize = 20

// ---------------------------------------------------------------------------
// Targeting shape per kind
// ---------------------------------------------------------------------------

// targeting describes who a kind may be aimed at.
type targeting struct {
	needsTarget         bool
	allowSelf           bool
	requireNotProtected bool
}

var kindTargeting = [NumKinds]targeting{
	Guard:  {needsTarget: true, requireNotProtected: true},
	Priest: {needsTarget: true, requireNotProtected: true},
	Baron:  {needsTarget: true, requireNotProtected: true},
	Prince: {needsTarget: true, allowSelf: true, requireNotProtected: true},
	King:   {needsTarget: true, requireNotProtected: true},
}

// NeedsTarget reports whether playing k requires choosing another player.
func (k CardKind) NeedsTarget() bool {
	return k.Valid() && kindTargeting[k].needsTarget
}

// NeedsGuess reports whether playing k requires naming a kind.
func (k CardKind) NeedsGuess() bool { return k == Guard }

// ---------------------------------------------------------------------------
// Pending interaction
// ---------------------------------------------------------------------------

// PendingType describes an interaction that must be resolved before play
// continues.
type PendingType uint8

const (
	PendingNone       PendingType = iota // 0
	PendingChancellor                    // 1: keep one of Options
)

// MaxChoiceOptions bounds the Chancellor candidate set (kept card + two draws).
const MaxChoiceOptions = 3

// PendingAction is the AwaitingChoice sub-state. A zero value means Idle.
type PendingAction struct {
	Type       PendingType
	PlayerID   uint8
	Options    [MaxChoiceOptions]CardKind
	NumOptions uint8
}

// OptionList returns the candidate kinds as a slice (allocates).
func (p PendingAction) OptionList() []CardKind {
	out := make([]CardKind, p.NumOptions)
	copy(out, p.Options[:p.NumOptions])
	return out
}

// hasOption reports whether k is among the candidates.
func (p *PendingAction) hasOption(k CardKind) bool {
	for i := uint8(0); i < p.NumOptions; i++ {
		if p.Options[i] == k {
			return true
		}
	}
	return false
}
