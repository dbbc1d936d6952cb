package reconcile

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/ukaji3/dreconcile-go/pkg/dreconcile/models"
)

// Amount is a normalized currency value. Degraded is set when the input
// could not be parsed and Value was forced to zero.
type Amount struct {
	Value    decimal.Decimal
	Degraded bool
}

// Timestamp is a normalized date. Degraded is set when the input could not
// be parsed and Time is the normalizer's current time.
type Timestamp struct {
	Time     time.Time
	Degraded bool
}

// ParseCurrency normalizes a pt-BR currency cell. Numbers pass through;
// text loses the "R$" symbol, whitespace and thousands dots, and its
// decimal comma becomes a period. A blank input is a plain zero.
func ParseCurrency(c models.Cell) Amount {
	switch c.Kind {
	case models.CellNumber:
		return Amount{Value: decimal.NewFromFloat(c.Number)}
	case models.CellEmpty:
		return Amount{Value: decimal.Zero}
	}

	s := strings.ReplaceAll(c.Text, "R$", "")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '.' {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return Amount{Value: decimal.Zero}
	}
	s = strings.ReplaceAll(s, ",", ".")

	v, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Value: decimal.Zero, Degraded: true}
	}
	return Amount{Value: v}
}

var (
	dayFirstPattern  = regexp.MustCompile(`(\d{1,2})/(\d{1,2})/(\d{4})`)
	yearFirstPattern = regexp.MustCompile(`(\d{4})-(\d{1,2})-(\d{1,2})`)

	isoLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05Z07:00",
		"2006-01-02 15:04",
		"2006-01-02",
		"20060102",
	}
)

// serialEpoch is day zero of spreadsheet serial dates after the -2 offset.
var serialEpoch = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// Normalizer converts raw date cells to timestamps.
type Normalizer struct {
	// Now supplies the fallback time. Nil means time.Now.
	Now func() time.Time
}

func (n Normalizer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// ParseDate normalizes a date cell. Numbers are spreadsheet serial dates;
// text is matched against dd/mm/yyyy, then yyyy-mm-dd, then ISO-8601
// layouts. Anything else yields the current time, flagged as degraded.
func (n Normalizer) ParseDate(c models.Cell) Timestamp {
	if c.Kind == models.CellNumber {
		if t, ok := SerialToTime(c.Number); ok {
			return Timestamp{Time: t}
		}
		return Timestamp{Time: n.now(), Degraded: true}
	}

	if t, ok := ParseDateText(c.Text); ok {
		return Timestamp{Time: t}
	}
	return Timestamp{Time: n.now(), Degraded: true}
}

// ParseDateText parses the textual date forms accepted by ParseDate.
// The first pattern that matches decides; an impossible calendar date
// fails instead of trying the next pattern.
func ParseDateText(s string) (time.Time, bool) {
	if m := dayFirstPattern.FindStringSubmatch(s); m != nil {
		return civilDate(m[3], m[2], m[1])
	}
	if m := yearFirstPattern.FindStringSubmatch(s); m != nil {
		return civilDate(m[1], m[2], m[3])
	}
	return ParseISO(s)
}

// ParseISO parses an ISO-8601 timestamp with or without a zone.
func ParseISO(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func civilDate(year, month, day string) (time.Time, bool) {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if y < 1 || m < 1 || m > 12 || d < 1 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// SerialToTime converts a spreadsheet serial date. The system counts from
// 1900-01-01 and wrongly treats 1900 as a leap year, hence the -2 offset:
// serial 2 is 1900-01-01 and serial 1 is 1899-12-31. Fractions are times
// of day rounded to the microsecond. Dates outside years 1..9999 fail.
func SerialToTime(serial float64) (time.Time, bool) {
	days := serial - 2
	if math.IsNaN(days) || math.IsInf(days, 0) || math.Abs(days) > 4e6 {
		return time.Time{}, false
	}

	whole := math.Floor(days)
	micros := math.Round((days - whole) * 86400e6)
	t := serialEpoch.AddDate(0, 0, int(whole)).Add(time.Duration(micros) * time.Microsecond)
	if t.Year() < 1 || t.Year() > 9999 {
		return time.Time{}, false
	}
	return t, true
}
