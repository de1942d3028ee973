package engine

// PublicPlayer is the part of a seat everyone may see.
type PublicPlayer struct {
	Seat       uint8
	Name       string
	Eliminated bool
	Protected  bool
	Discards   []CardKind
	Score      uint8
	HandSize   uint8
}

// PublicState is a broadcast snapshot. It owns its slices and never
// contains hand contents.
type PublicState struct {
	Round         uint16
	Active        bool
	MatchOver     bool
	CurrentPlayer uint8
	PendingSeat   uint8 // NoSeat unless someone is choosing
	DeckCount     uint8
	BurnedCount   uint8
	PointsToWin   uint8
	Players       []PublicPlayer
}

// Public takes a snapshot safe to hand to any observer.
func (g *GameState) Public() PublicState {
	ps := PublicState{
		Round:         g.Round,
		Active:        g.IsRoundActive(),
		MatchOver:     g.IsMatchOver(),
		CurrentPlayer: g.CurrentPlayer,
		PendingSeat:   NoSeat,
		DeckCount:     g.DeckLen,
		BurnedCount:   g.BurnedLen,
		PointsToWin:   g.PointsToWin,
		Players:       make([]PublicPlayer, g.NumPlayers),
	}
	if g.Pending.Type != PendingNone {
		ps.PendingSeat = g.Pending.PlayerID
	}
	for s := uint8(0); s < g.NumPlayers; s++ {
		p := &g.Players[s]
		ps.Players[s] = PublicPlayer{
			Seat:       s,
			Name:       p.Name,
			Eliminated: p.Eliminated,
			Protected:  p.Protected,
			Discards:   p.DiscardCards(),
			Score:      p.Score,
			HandSize:   p.HandLen,
		}
	}
	return ps
}
