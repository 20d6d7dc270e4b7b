package game

// ScoreDifference is the computer's score minus the human's score.
func ScoreDifference(b *Board) int {
	return b.scores[Computer] - b.scores[Human]
}

// Leader returns the agent ahead on points, and false on a tie.
func Leader(b *Board) (Agent, bool) {
	switch diff := ScoreDifference(b); {
	case diff > 0:
		return Computer, true
	case diff < 0:
		return Human, true
	default:
		return Human, false
	}
}
