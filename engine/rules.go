package engine

// HouseRules holds configurable rule settings.
type HouseRules struct {
	PointsToWin            uint8 // 0 = derived from roster size
	BurnCount              uint8 // 0 = derived from roster size
	AutoSelectSingleTarget bool  // fill in the only legal target when none is given
	PrinceDrawsBurnedCard  bool  // Prince target draws a burned card when the deck is empty
}

// DefaultHouseRules returns the standard rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		AutoSelectSingleTarget: true,
	}
}

// PointsToWinFor returns the token count that ends a match for n players.
func PointsToWinFor(n int) uint8 {
	switch {
	case n <= 2:
		return 7
	case n == 3:
		return 5
	default:
		return 4
	}
}

// BurnCountFor returns how many cards are set aside face-down at round start.
func BurnCountFor(n int) uint8 {
	if n == 2 {
		return 3
	}
	return 1
}

func (r *HouseRules) pointsToWin(n int) uint8 {
	if r.PointsToWin == 0 {
		return PointsToWinFor(n)
	}
	return r.PointsToWin
}

// burnCount never lets the burn plus the deal exceed the deck.
func (r *HouseRules) burnCount(n int) uint8 {
	b := r.BurnCount
	if b == 0 {
		b = BurnCountFor(n)
	}
	if b > MaxBurned {
		b = MaxBurned
	}
	if int(b)+n+1 > DeckSize {
		b = uint8(DeckSize - n - 1)
	}
	return b
}
