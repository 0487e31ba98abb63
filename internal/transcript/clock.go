package transcript

import "fmt"

// FormatClock renders seconds as H:MM:SS, truncating fractions. Hours are not
// padded and keep counting past 24.
func FormatClock(seconds float64) string {
	total := int64(seconds)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
