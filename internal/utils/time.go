package utils

import (
	"fmt"
	"time"
)

// FormatShortDate renders a timestamp the way the apps show redemption and
// expiry dates: M/D/YYYY without zero padding.
func FormatShortDate(t time.Time) string {
	return t.Format("1/2/2006")
}

func FormatTimeISO(t time.Time) string {
	return t.Format(time.RFC3339)
}

func ParseTimeISO(timeStr string) (time.Time, error) {
	return time.Parse(time.RFC3339, timeStr)
}

func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, 999999999, t.Location())
}

// TimeUntilExpiration renders the remaining validity of a coupon for display:
// "N days left", "N hours left", "N minutes left" or "Expired".
func TimeUntilExpiration(expiresAt, now time.Time) string {
	diff := expiresAt.Sub(now)
	if diff <= 0 {
		return "Expired"
	}

	days := int(diff.Hours()) / 24
	hours := int(diff.Hours()) % 24

	if days > 0 {
		return fmt.Sprintf("%d day%s left", days, plural(days))
	}
	if hours > 0 {
		return fmt.Sprintf("%d hour%s left", hours, plural(hours))
	}
	minutes := int(diff.Minutes())
	return fmt.Sprintf("%d minute%s left", minutes, plural(minutes))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
