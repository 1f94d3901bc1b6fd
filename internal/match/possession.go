package match

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Possession timeline buckets, ordered from soonest to furthest.
const (
	BucketNotSpecified  = "Not specified"
	BucketReadyToMove   = "Ready To Move In"
	BucketThreeToSix    = "3-6 months"
	BucketSixToTwelve   = "6-12 months"
	BucketOneToTwoYears = "1-2 years"
	BucketOverTwoYears  = "More than 2 years"
)

var bareYearRe = regexp.MustCompile(`^\d{4}$`)

// genericLayouts are tried, in order, for possession strings that are not
// bare years or slash/hyphen dates.
var genericLayouts = []string{
	"Jan 2006",
	"January 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// PossessionBucket normalizes a raw possession value into a timeline bucket
// relative to now. Unparseable values come back unchanged; this function
// never fails.
func PossessionBucket(raw string, now time.Time) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return BucketNotSpecified
	}

	switch strings.ToLower(s) {
	case "rtm", "ready to move in":
		return BucketReadyToMove
	}

	if bareYearRe.MatchString(s) {
		return bucketForYear(mustAtoi(s), now.Year())
	}

	if t, ok := parsePossessionDate(s, now.Location()); ok {
		return bucketForDate(t, now)
	}

	if t, ok := parseGeneric(s, now.Location()); ok {
		return bucketForDate(t, now)
	}

	return raw
}

// bucketForYear buckets a bare possession year against the current year.
func bucketForYear(year, current int) string {
	switch {
	case year <= current:
		return BucketReadyToMove
	case year == current+1:
		return BucketSixToTwelve
	case year == current+2:
		return BucketOneToTwoYears
	default:
		return BucketOverTwoYears
	}
}

// bucketForDate buckets a resolved possession date by months until it,
// computed as ceil(days / 30.44).
func bucketForDate(t, now time.Time) string {
	days := t.Sub(now).Hours() / 24
	months := int(math.Ceil(days / 30.44))

	switch {
	case months <= 0:
		return BucketReadyToMove
	case months <= 6:
		return BucketThreeToSix
	case months <= 12:
		return BucketSixToTwelve
	case months <= 24:
		return BucketOneToTwoYears
	default:
		return BucketOverTwoYears
	}
}

// parsePossessionDate handles slash and hyphen delimited dates.
// Slash dates are DD/MM/YY or DD/MM/YYYY; a 2-digit year means 2000+YY.
// Hyphen dates are YYYY-MM-DD when the first segment is 4 digits,
// otherwise DD-MM-YYYY.
func parsePossessionDate(s string, loc *time.Location) (time.Time, bool) {
	var sep string
	switch {
	case strings.Contains(s, "/"):
		sep = "/"
	case strings.Contains(s, "-"):
		sep = "-"
	default:
		return time.Time{}, false
	}

	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return time.Time{}, false
	}

	var day, month, year string
	if sep == "-" && len(parts[0]) == 4 {
		year, month, day = parts[0], parts[1], parts[2]
	} else {
		day, month, year = parts[0], parts[1], parts[2]
	}

	d, errD := strconv.Atoi(day)
	m, errM := strconv.Atoi(month)
	y, errY := strconv.Atoi(year)
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}
	if y < 100 {
		y += 2000
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}

	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, loc), true
}

// parseGeneric attempts the remaining known date layouts.
func parseGeneric(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range genericLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
