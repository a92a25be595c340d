package career

// Ranking score tuning
const (
	WIN_POINTS        = 150
	UPSET_BONUS_RATE  = 0.40
	FINISH_BONUS      = 50
	LOSS_PENALTY      = 50
	LOSS_PENALTY_HIGH = 150
	LOSS_PENALTY_TOP  = 300
	HIGH_SCORE        = 1000
	TOP_SCORE         = 2000
)

// WinPoints returns the base award and the upset bonus for beating an
// opponent, plus the finish bonus when the fight did not go the distance.
func WinPoints(winnerScore, loserScore int, finish bool) (base, upset, finishBonus int) {
	base = WIN_POINTS
	if winnerScore < loserScore {
		upset = int(float64(loserScore-winnerScore) * UPSET_BONUS_RATE)
	}
	if finish {
		finishBonus = FINISH_BONUS
	}
	return base, upset, finishBonus
}

// LossPenalty grows with the loser's standing.
func LossPenalty(loserScore int) int {
	switch {
	case loserScore > TOP_SCORE:
		return LOSS_PENALTY_TOP
	case loserScore > HIGH_SCORE:
		return LOSS_PENALTY_HIGH
	}
	return LOSS_PENALTY
}
