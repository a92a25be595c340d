package roster

// ScoutGrade rates a fighter from A+ to F on average skill, nudged by age.
func (f *Fighter) ScoutGrade() string {
	s := f.Stats
	avg := float64(s.Striking+s.Grappling+s.TDD+s.Chin+s.Cardio) / 5

	switch {
	case f.Age < 25:
		avg += 10
	case f.Age < 29:
		avg += 5
	case f.Age > 35:
		avg -= 10
	}

	switch {
	case avg >= 95:
		return "A+"
	case avg >= 90:
		return "A"
	case avg >= 85:
		return "B+"
	case avg >= 80:
		return "B"
	case avg >= 75:
		return "C+"
	case avg >= 70:
		return "C"
	case avg >= 60:
		return "D"
	}
	return "F"
}
