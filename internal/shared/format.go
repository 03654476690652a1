package shared

import (
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// FormatFollowers renders a follower count with thousands separators (1234567 -> "1,234,567").
func FormatFollowers(n int) string {
	return humanize.Comma(int64(n))
}

// FormatReleaseDate converts a Spotify release date to M/D/YYYY.
//
// Month precision dates use the first of the month and year precision dates are returned as is.
// An empty date falls back to the year of now. Dates with non-numeric parts are returned unchanged.
func FormatReleaseDate(date string, now time.Time) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return strconv.Itoa(now.Year())
	}

	parts := strings.Split(date, "-")
	switch len(parts) {
	case 3:
		month, mErr := strconv.Atoi(parts[1])
		day, dErr := strconv.Atoi(parts[2])
		if mErr != nil || dErr != nil {
			return date
		}
		return strconv.Itoa(month) + "/" + strconv.Itoa(day) + "/" + parts[0]
	case 2:
		month, err := strconv.Atoi(parts[1])
		if err != nil {
			return date
		}
		return strconv.Itoa(month) + "/1/" + parts[0]
	default:
		return parts[0]
	}
}
