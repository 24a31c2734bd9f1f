// backend/src/normalize/date.go
package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Portuguese month names, accent-stripped, as they appear in verbose
// marketplace dates ("31 de outubro de 2025 23:59 hs.").
var mesesPT = map[string]time.Month{
	"janeiro":   time.January,
	"fevereiro": time.February,
	"marco":     time.March,
	"abril":     time.April,
	"maio":      time.May,
	"junho":     time.June,
	"julho":     time.July,
	"agosto":    time.August,
	"setembro":  time.September,
	"outubro":   time.October,
	"novembro":  time.November,
	"dezembro":  time.December,
}

var (
	isoPrefixRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)
	verboseRe   = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+(\S+)\s+de\s+(\d{4})`)
)

// ParseDate parses a sale date trying, in order: ISO (with or without a
// trailing time), DD/MM/YYYY, DD-MM-YYYY and the verbose Portuguese form.
// The result is truncated to a date at midnight UTC.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if isoPrefixRe.MatchString(s) {
		if t, err := time.ParseInLocation("2006-01-02", s[:10], time.UTC); err == nil {
			return t, nil
		}
	}

	for _, layout := range []string{"02/01/2006", "02-01-2006"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	if m := verboseRe.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		month, ok := mesesPT[StripAccents(strings.ToLower(m[2]))]
		if ok {
			t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			// time.Date normalizes overflow (32 de janeiro -> 1 de fevereiro),
			// which would silently accept garbage. Reject anything that moved.
			if t.Day() == day && t.Month() == month && t.Year() == year {
				return t, nil
			}
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}
