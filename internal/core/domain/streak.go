package domain

// ComputeStreak counts consecutive completed days walking backward from ref.
// The walk is anchored at ref: if ref itself is not completed the streak is 0,
// even when an unbroken run ends the day before.
func ComputeStreak(dates DateSet, ref Day) int {
	streak := 0
	for d := ref; dates.Has(d); d = d.Prev() {
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive days anywhere in dates.
func LongestStreak(dates DateSet) int {
	days := dates.Days()
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].Next() == days[i] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompletionRate returns the percentage of the windowDays days starting at
// windowStart (inclusive) that appear in dates. A non-positive window yields 0.
func CompletionRate(dates DateSet, windowStart Day, windowDays int) float64 {
	if windowDays <= 0 {
		return 0
	}

	present := 0
	d := windowStart
	for i := 0; i < windowDays; i++ {
		if dates.Has(d) {
			present++
		}
		d = d.Next()
	}
	return float64(present) / float64(windowDays) * 100
}

// RollingWindowStart returns the first day of the days-long window ending at today.
func RollingWindowStart(today Day, days int) Day {
	return today.AddDays(-(days - 1))
}
