package engine

import (
	"sort"
	"strings"
)

// WinReason records how the round winners were decided.
type WinReason uint8

const (
	WinNone         WinReason = iota // nobody left standing
	WinLastStanding                  // every other seat was eliminated
	WinHighCard                      // deck ran out, highest held rank
	WinDiscardSum                    // highest rank tied, broken by discard total
	WinShared                        // still tied after the discard total
)

// SummaryRow is one seat's line in a round summary.
type SummaryRow struct {
	Seat     uint8
	Name     string
	Score    uint8
	Winner   bool
	Bonus    bool
	Survived bool
}

// RoundSummary is the immutable result of a finished round.
type RoundSummary struct {
	Round       uint16
	Winners     []uint8
	BonusSeat   uint8 // NoSeat when no single bonus player
	Reason      WinReason
	PointsToWin uint8
	MatchOver   bool
	Rows        []SummaryRow // score descending, then name
}

// Title is the headline shown with the summary.
func (s RoundSummary) Title() string {
	if len(s.Winners) == 0 {
		return "Nobody wins the round."
	}
	names := make([]string, 0, len(s.Winners))
	for _, w := range s.Winners {
		for _, r := range s.Rows {
			if r.Seat == w {
				names = append(names, r.Name)
			}
		}
	}
	who := strings.Join(names, " & ")
	verb := " wins"
	if len(names) > 1 {
		verb = " win"
	}
	if s.MatchOver {
		return who + verb + " the match!"
	}
	return who + verb + " the round!"
}

// RoundWinners decides the winners of the round as it stands. It does not
// change any score.
func (g *GameState) RoundWinners() ([]uint8, WinReason) {
	var alive []uint8
	for s := uint8(0); s < g.NumPlayers; s++ {
		if !g.Players[s].Eliminated {
			alive = append(alive, s)
		}
	}
	switch len(alive) {
	case 0:
		return nil, WinNone
	case 1:
		return alive, WinLastStanding
	}

	// An empty hand ranks -1, below every card.
	best := -2
	var tied []uint8
	for _, s := range alive {
		r := g.Players[s].HeldCard().Rank()
		switch {
		case r > best:
			best = r
			tied = append(tied[:0], s)
		case r == best:
			tied = append(tied, s)
		}
	}
	if len(tied) == 1 {
		return tied, WinHighCard
	}

	bestSum := -1
	var top []uint8
	for _, s := range tied {
		sum := g.Players[s].DiscardSum()
		switch {
		case sum > bestSum:
			bestSum = sum
			top = append(top[:0], s)
		case sum == bestSum:
			top = append(top, s)
		}
	}
	if len(top) == 1 {
		return top, WinDiscardSum
	}
	return top, WinShared
}

// BonusPlayer returns the single seat that played or discarded a bonus card
// this round, or NoSeat when there were none or several.
func (g *GameState) BonusPlayer() uint8 {
	seat := NoSeat
	for s := uint8(0); s < g.NumPlayers; s++ {
		if !g.Players[s].PlayedSpy {
			continue
		}
		if seat != NoSeat {
			return NoSeat
		}
		seat = s
	}
	return seat
}

// endRound scores the round, closes it and emits the summary.
func (g *GameState) endRound(ev *events) {
	bonus := g.BonusPlayer()
	if bonus != NoSeat {
		g.Players[bonus].Score++
	}
	winners, reason := g.RoundWinners()
	for _, w := range winners {
		g.Players[w].Score++
	}

	g.Flags &^= FlagRoundActive
	g.Pending = PendingAction{}
	for s := uint8(0); s < g.NumPlayers; s++ {
		if g.Players[s].Score >= g.PointsToWin {
			g.Flags |= FlagMatchOver
		}
	}

	sum := g.summary(winners, bonus, reason)
	ev.public(EventStateChanged, g.Public())
	ev.log(sum.Title())
	ev.public(EventRoundEnded, sum)
}

func (g *GameState) summary(winners []uint8, bonus uint8, reason WinReason) RoundSummary {
	s := RoundSummary{
		Round:       g.Round,
		Winners:     append([]uint8(nil), winners...),
		BonusSeat:   bonus,
		Reason:      reason,
		PointsToWin: g.PointsToWin,
		MatchOver:   g.IsMatchOver(),
	}
	for seat := uint8(0); seat < g.NumPlayers; seat++ {
		p := &g.Players[seat]
		row := SummaryRow{
			Seat:     seat,
			Name:     p.Name,
			Score:    p.Score,
			Bonus:    seat == bonus,
			Survived: !p.Eliminated,
		}
		for _, w := range winners {
			if w == seat {
				row.Winner = true
			}
		}
		s.Rows = append(s.Rows, row)
	}
	sort.SliceStable(s.Rows, func(i, j int) bool {
		if s.Rows[i].Score != s.Rows[j].Score {
			return s.Rows[i].Score > s.Rows[j].Score
		}
		return s.Rows[i].Name < s.Rows[j].Name
	})
	return s
}
