// Package engine implements the Love Letter rules.
//
// The whole match is a flat value type: copying a GameState yields an
// independent snapshot, so callers can hand out immutable views without
// deep-copy helpers. The engine never blocks and never logs; every mutating
// entry point returns the outbound events it produced.
package engine

const (
	MaxPlayers  = 6
	MaxHandSize = 3 // Chancellor: one held card plus two draws
	MaxBurned   = 3
)

// PlayerState holds one seat's hand, discard pile and round flags.
type PlayerState struct {
	Name       string
	Hand       [MaxHandSize]CardKind
	HandLen    uint8
	Discards   [DeckSize]CardKind
	DiscardLen uint8
	Eliminated bool
	Protected  bool
	PlayedSpy  bool // played or discarded a bonus card this round
	Score      uint8
}

// HandCards returns the hand as a slice (allocates).
func (p *PlayerState) HandCards() []CardKind {
	out := make([]CardKind, p.HandLen)
	copy(out, p.Hand[:p.HandLen])
	return out
}

// DiscardCards returns the discard pile, oldest first (allocates).
func (p *PlayerState) DiscardCards() []CardKind {
	out := make([]CardKind, p.DiscardLen)
	copy(out, p.Discards[:p.DiscardLen])
	return out
}

// Holds reports whether k is in the hand.
func (p *PlayerState) Holds(k CardKind) bool {
	for i := uint8(0); i < p.HandLen; i++ {
		if p.Hand[i] == k {
			return true
		}
	}
	return false
}

// HeldCard returns the single card in hand, or NoCard when the hand is empty.
// Outside a turn every live player holds at most one card.
func (p *PlayerState) HeldCard() CardKind {
	if p.HandLen == 0 {
		return NoCard
	}
	return p.Hand[0]
}

// DiscardSum is the rank total of the discard pile, used as tie-break.
func (p *PlayerState) DiscardSum() int {
	sum := 0
	for i := uint8(0); i < p.DiscardLen; i++ {
		sum += p.Discards[i].Rank()
	}
	return sum
}

func (p *PlayerState) addCard(k CardKind) {
	p.Hand[p.HandLen] = k
	p.HandLen++
}

// removeCard takes one copy of k out of the hand, keeping the order of the rest.
func (p *PlayerState) removeCard(k CardKind) bool {
	for i := uint8(0); i < p.HandLen; i++ {
		if p.Hand[i] == k {
			copy(p.Hand[i:p.HandLen], p.Hand[i+1:p.HandLen])
			p.HandLen--
			p.Hand[p.HandLen] = NoCard
			return true
		}
	}
	return false
}

func (p *PlayerState) clearHand() {
	p.Hand = [MaxHandSize]CardKind{NoCard, NoCard, NoCard}
	p.HandLen = 0
}

// GameState holds the complete state of a match: the locked roster, scores
// and the round in progress.
type GameState struct {
	Players       [MaxPlayers]PlayerState
	NumPlayers    uint8
	Deck          [DeckSize]CardKind // Deck[DeckLen-1] is the top
	DeckLen       uint8
	Burned        [MaxBurned]CardKind
	BurnedLen     uint8
	CurrentPlayer uint8
	FirstPlayer   uint8 // seat that opened the current round
	Round         uint16
	TurnNumber    uint16
	Flags         uint16
	Pending       PendingAction
	PointsToWin   uint8
	RNG           uint64
	Rules         HouseRules
}

// ---------------------------------------------------------------------------
// Flags bitfield
// ---------------------------------------------------------------------------

const (
	FlagRoundActive uint16 = 1 << 0
	FlagMatchOver   uint16 = 1 << 1
)

func (g *GameState) IsRoundActive() bool { return g.Flags&FlagRoundActive != 0 }
func (g *GameState) IsMatchOver() bool   { return g.Flags&FlagMatchOver != 0 }

// ---------------------------------------------------------------------------
// xorshift64 RNG
// ---------------------------------------------------------------------------

func (g *GameState) nextRand() uint64 {
	x := g.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	g.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (g *GameState) randN(n uint64) uint64 {
	return g.nextRand() % n
}

// ---------------------------------------------------------------------------
// NewGame
// ---------------------------------------------------------------------------

// NewGame locks the roster and returns a match with no round started.
func NewGame(seed uint64, names []string, rules HouseRules) (GameState, error) {
	var g GameState
	if len(names) == 0 || len(names) > MaxPlayers {
		return g, ErrConfiguration
	}
	g.RNG = seed
	if g.RNG == 0 {
		g.RNG = 1 // xorshift can't start at 0
	}
	g.Rules = rules
	g.NumPlayers = uint8(len(names))
	g.PointsToWin = rules.pointsToWin(len(names))
	for i, name := range names {
		g.Players[i].Name = name
		g.Players[i].clearHand()
	}
	g.CurrentPlayer = NoSeat
	g.FirstPlayer = NoSeat
	return g, nil
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// ActingPlayer returns the seat that must act next: the chooser while a
// choice is pending, otherwise the seat whose turn it is.
func (g *GameState) ActingPlayer() uint8 {
	if g.Pending.Type != PendingNone {
		return g.Pending.PlayerID
	}
	return g.CurrentPlayer
}

// ValidSeat reports whether seat is part of the roster.
func (g *GameState) ValidSeat(seat uint8) bool { return seat < g.NumPlayers }

// AliveCount returns how many seats are still in the round.
func (g *GameState) AliveCount() int {
	n := 0
	for i := uint8(0); i < g.NumPlayers; i++ {
		if !g.Players[i].Eliminated {
			n++
		}
	}
	return n
}

// NextAlive returns the first non-eliminated seat after from, wrapping.
// It returns NoSeat when everyone is out.
func (g *GameState) NextAlive(from uint8) uint8 {
	for step := uint8(1); step <= g.NumPlayers; step++ {
		s := (from + step) % g.NumPlayers
		if !g.Players[s].Eliminated {
			return s
		}
	}
	return NoSeat
}

// CardTotal counts every card in the deck, hands, discards and burn pile.
// It equals DeckSize whenever a round has been dealt.
func (g *GameState) CardTotal() int {
	total := int(g.DeckLen) + int(g.BurnedLen)
	for i := uint8(0); i < g.NumPlayers; i++ {
		total += int(g.Players[i].HandLen) + int(g.Players[i].DiscardLen)
	}
	return total
}

// ---------------------------------------------------------------------------
// Snapshot (Save / Restore)
// ---------------------------------------------------------------------------

// Snapshot is a complete value-copy of GameState.
type Snapshot GameState

// Save returns a snapshot of the current state.
func (g *GameState) Save() Snapshot { return Snapshot(*g) }

// Restore replaces the state with the given snapshot.
func (g *GameState) Restore(s Snapshot) { *g = GameState(s) }
