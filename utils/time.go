package utils

import "fmt"

const RoundSeconds = 300

var monthNames = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

func MonthName(index int) string {
	return monthNames[((index%12)+12)%12]
}

// FightClock formats the seconds remaining in a round as M:SS.
func FightClock(remaining int) string {
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%d:%02d", remaining/60, remaining%60)
}
