// Package timeofday converts human "HH:mm" strings into minute-of-day offsets,
// the internal representation for all schedule times.
package timeofday

import (
	"strconv"
	"strings"

	appErrors "github.com/proffyhq/proffy-api/pkg/errors"
)

// MinutesPerDay is the exclusive upper bound for a slot end time: "24:00"
// parses to 1440 so a slot may run until midnight.
const MinutesPerDay = 24 * 60

// ParseMinutes converts "H:mm" or "HH:mm" (an optional ":ss" suffix is
// ignored) into minutes since midnight. Hours run 0-24 and minutes 00-59,
// but only "24:00" is accepted past 23:59.
func ParseMinutes(text string) (int, error) {
	parts := strings.Split(text, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, "time must match HH:mm, got "+strconv.Quote(text))
	}

	hours, err := parseComponent(parts[0], 1, 2)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status, "invalid hour in "+strconv.Quote(text))
	}
	minutes, err := parseComponent(parts[1], 2, 2)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status, "invalid minute in "+strconv.Quote(text))
	}
	if len(parts) == 3 {
		seconds, err := parseComponent(parts[2], 2, 2)
		if err != nil || seconds > 59 {
			return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, "invalid second in "+strconv.Quote(text))
		}
	}

	if hours > 24 || minutes > 59 {
		return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, "time out of range: "+strconv.Quote(text))
	}

	total := hours*60 + minutes
	if total > MinutesPerDay {
		return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, "time past 24:00: "+strconv.Quote(text))
	}

	return total, nil
}

func parseComponent(raw string, minDigits, maxDigits int) (int, error) {
	if len(raw) < minDigits || len(raw) > maxDigits {
		return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, "")
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, appErrors.Clone(appErrors.ErrInvalidTimeFormat, "")
		}
	}
	return strconv.Atoi(raw)
}
