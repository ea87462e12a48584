package mlbstats

import (
	"strconv"
	"strings"
)

// Tolerant numeric parsing. Empty strings and dash-like sentinels mean
// "absent", not zero; a value the provider formats without a leading zero
// (".654") parses as 0.654. A parse failure degrades to absent and is
// never surfaced as an error.

func isAbsentSentinel(value string) bool {
	switch value {
	case "", "-", "—", "--":
		return true
	default:
		return false
	}
}

func parseOptionalFloat(raw string) *float64 {
	value := strings.TrimSpace(raw)
	if isAbsentSentinel(value) {
		return nil
	}

	// strconv accepts ".654" and "-.5"; parsing is locale-independent.
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

func parseOptionalInt(raw string) *int {
	value := strings.TrimSpace(raw)
	if isAbsentSentinel(value) {
		return nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &parsed
}

// parseWinLossPair splits a "W-L" record such as "8-2" into its two
// counts. Both sides must be plain non-negative integers.
func parseWinLossPair(raw string) (wins, losses int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	wins, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || wins < 0 {
		return 0, 0, false
	}
	losses, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || losses < 0 {
		return 0, 0, false
	}
	return wins, losses, true
}

// splitStreakCode decomposes a streak code such as "W3" or "L10" into its
// direction letter and count. Anything else reports no streak.
func splitStreakCode(code string) (count int, isWin, ok bool) {
	value := strings.TrimSpace(code)
	if len(value) < 2 {
		return 0, false, false
	}

	switch value[0] {
	case 'W', 'w':
		isWin = true
	case 'L', 'l':
		isWin = false
	default:
		return 0, false, false
	}

	count, err := strconv.Atoi(value[1:])
	if err != nil || count < 0 {
		return 0, false, false
	}
	return count, isWin, true
}
