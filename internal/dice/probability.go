package dice

// WinProbability returns the probability that a single roll of a is strictly
// greater than a single roll of b, both dice fair.
func WinProbability(a, b Dice) float64 {
	if a.Len() == 0 || b.Len() == 0 {
		return 0
	}
	wins := 0
	for _, x := range a.sides {
		for _, y := range b.sides {
			if x > y {
				wins++
			}
		}
	}
	return float64(wins) / float64(a.Len()*b.Len())
}

// ProbabilityTable returns P(set[i] beats set[j]) for every pair.
func ProbabilityTable(set []Dice) [][]float64 {
	table := make([][]float64, len(set))
	for i := range set {
		table[i] = make([]float64, len(set))
		for j := range set {
			table[i][j] = WinProbability(set[i], set[j])
		}
	}
	return table
}
