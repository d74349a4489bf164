package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Today is the working value used when a message names no day.
const Today = "today"

var (
	explicitDayPattern = tagPattern(`(0[1-9]|1[012])[ ./-](0[1-9]|[12][0-9]|3[01])`)
	relativeDayPattern = tagPattern(`today|yesterday|yday`)
	explicitDayParts   = regexp.MustCompile(`^(\d{2})[ ./-](\d{2})$`)
)

var dayRules = RuleSet{
	Field: "day",
	Rules: []Rule{
		{Name: "explicit", Pattern: explicitDayPattern, Scan: ScanTags},
		{Name: "relative", Pattern: relativeDayPattern, Scan: ScanTags},
	},
	Default: Today,
	Err:     ErrAmbiguousDay,
}

// Day is a resolved log date.
type Day struct {
	// Token is what the work log is started on: "<day>-<month>" for a
	// relative keyword, or the explicit tag as written.
	Token string `json:"token"`
	// Date is the calendar day Token stands for.
	Date      time.Time `json:"date"`
	Relative  bool      `json:"relative"`
	Defaulted bool      `json:"defaulted"`
}

// ResolveDate picks the single day named in the tag stream. Explicit
// month-day tags win over relative keywords; a stream with neither
// resolves to today, anchored on now.
func ResolveDate(stream string, now time.Time) (Day, error) {
	m, err := dayRules.Apply(strings.ToLower(stream))
	if err != nil {
		return Day{}, err
	}

	if m.Defaulted || m.Rule == "relative" {
		date := startOfDay(now)
		if m.Value == "yesterday" || m.Value == "yday" {
			date = date.AddDate(0, 0, -1)
		}
		return Day{
			Token:     fmt.Sprintf("%d-%d", date.Day(), int(date.Month())),
			Date:      date,
			Relative:  true,
			Defaulted: m.Defaulted,
		}, nil
	}

	date, err := explicitDate(m.Value, now)
	if err != nil {
		return Day{}, err
	}
	return Day{Token: m.Value, Date: date}, nil
}

// explicitDate reads a month-day token as the most recent such day on or
// before now, so a date later in the year than now belongs to last year.
// Days the month does not have are rejected rather than rolled into the
// next month.
func explicitDate(token string, now time.Time) (time.Time, error) {
	parts := explicitDayParts.FindStringSubmatch(token)
	if parts == nil {
		return time.Time{}, ErrAmbiguousDay
	}
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])

	year := now.Year()
	if time.Month(month) > now.Month() || (time.Month(month) == now.Month() && day > now.Day()) {
		year--
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if date.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %s has no day %d", ErrAmbiguousDay, time.Month(month), day)
	}
	return date, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
