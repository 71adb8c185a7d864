// Package generator builds synthetic identity codes and computes ages.
//
// Generated codes are checksum-valid but are not issued by any registry; they
// are meant for test data and fixtures.
package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	dErrors "kennitala/pkg/domain-errors"
	"kennitala/pkg/kennitala/checksum"
	"kennitala/pkg/kennitala/codec"
)

const (
	// MaxAttempts caps the check-digit retry loop. Each attempt succeeds with
	// probability 10/11, so exhausting it means the random source is broken.
	MaxAttempts = 1000

	// MinYear is the earliest birth year Random draws.
	MinYear = 1800

	// MaxYear is the latest year whose last two digits and century can be encoded.
	MaxYear = 9999
)

// Rand is the source of randomness used for the sequence field and for
// random birthdates. *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// globalRand delegates to the package-level math/rand/v2 functions, which are
// safe for concurrent use.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Generator creates codes from birthdates and computes ages.
// The zero value is not usable; construct with New.
type Generator struct {
	rand    Rand
	now     func() time.Time
	onRetry func()
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the randomness source.
func WithRand(r Rand) Option {
	return func(g *Generator) {
		g.rand = r
	}
}

// WithClock sets the function used for "today" in Random and Age.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithRetryObserver registers fn to be called each time a drawn sequence
// yields check value 10 and is discarded.
func WithRetryObserver(fn func()) Option {
	return func(g *Generator) {
		g.onRetry = fn
	}
}

// New creates a Generator. Defaults are the concurrent-safe global
// math/rand/v2 source and time.Now.
func New(opts ...Option) *Generator {
	g := &Generator{
		rand: globalRand{},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// FromBirthday returns a valid personal code for the given date, formatted
// DDMMYYRRCM with a trailing century marker.
func (g *Generator) FromBirthday(day, month, year int) (string, error) {
	if err := validateDate(day, month, year); err != nil {
		return "", err
	}
	return g.build(day, month, year)
}

// CompanyFromDate returns a valid organization code for the given founding
// date. The day field carries the +40 organization offset.
func (g *Generator) CompanyFromDate(day, month, year int) (string, error) {
	if err := validateDate(day, month, year); err != nil {
		return "", err
	}
	return g.build(checksum.CompanyDay(day), month, year)
}

// Random returns a valid code for a random birthdate between 1 January 1800
// and the end of the current year. The year is drawn first, then a day within
// that year, so leap days are reachable.
func (g *Generator) Random() (string, error) {
	day, month, year := g.randomDate()
	return g.FromBirthday(day, month, year)
}

func (g *Generator) randomDate() (day, month, year int) {
	current := g.now().Year()
	year = MinYear + g.rand.IntN(current-MinYear+1)

	dayOfYear := 1 + g.rand.IntN(daysIn(year))
	date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOfYear-1)
	return date.Day(), int(date.Month()), date.Year()
}

// build draws sequence digits until the check value is a digit.
func (g *Generator) build(day, month, year int) (string, error) {
	prefix := fmt.Sprintf("%02d%02d%02d", day, month, year%100)
	marker := codec.CenturyMarker(year)

	for range MaxAttempts {
		seq := g.rand.IntN(100)
		body := fmt.Sprintf("%s%02d", prefix, seq)
		digits, _ := codec.Digits(body)

		check := checksum.CheckDigit(digits)
		if check == checksum.Invalid {
			if g.onRetry != nil {
				g.onRetry()
			}
			continue
		}

		var b strings.Builder
		b.Grow(codec.Length + len(marker) - 1)
		b.WriteString(body)
		b.WriteByte(byte('0' + check))
		b.WriteString(marker)
		return b.String(), nil
	}

	return "", dErrors.New(dErrors.CodeInternal,
		fmt.Sprintf("no valid check digit after %d attempts", MaxAttempts))
}

// Age returns the age in whole years of the holder of code, measured at the
// generator's clock. See AgeAt.
func (g *Generator) Age(code string) int {
	return AgeAt(code, g.now())
}

// AgeAt returns the age in whole years at now, comparing local-midnight dates.
//
// Any code failing checksum.IsValid yields 0. A zero result therefore does not
// distinguish an invalid code from a holder younger than one year.
func AgeAt(code string, now time.Time) int {
	clean := codec.Clean(code)
	if !checksum.IsValid(clean) {
		return 0
	}
	bd, err := codec.DecodeBirthdate(clean)
	if err != nil {
		return 0
	}

	// organization days 41..71 are not shifted back, time.Date normalizes them
	return YearsAt(bd, now)
}

// YearsAt returns the whole years elapsed between bd and now at local
// midnight: the year difference, minus one if the birthday has not yet
// occurred in now's year.
func YearsAt(bd codec.Birthdate, now time.Time) int {
	birth := time.Date(bd.Year, time.Month(bd.Month), bd.Day, 0, 0, 0, 0, time.Local)
	now = now.In(time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	years := today.Year() - birth.Year()
	if today.Month() < birth.Month() ||
		(today.Month() == birth.Month() && today.Day() < birth.Day()) {
		years--
	}
	return years
}

func validateDate(day, month, year int) error {
	if year < 0 || year > MaxYear {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("year must be between 0 and %d", MaxYear))
	}
	if month < 1 || month > 12 {
		return dErrors.New(dErrors.CodeInvalidInput, "month must be between 1 and 12")
	}
	if day < 1 || day > daysInMonth(year, time.Month(month)) {
		return dErrors.New(dErrors.CodeInvalidInput,
			fmt.Sprintf("day %d does not exist in %04d-%02d", day, year, month))
	}
	return nil
}

func daysIn(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var defaultGenerator = New()

// FromBirthday builds a personal code with the default generator.
func FromBirthday(day, month, year int) (string, error) {
	return defaultGenerator.FromBirthday(day, month, year)
}

// CompanyFromDate builds an organization code with the default generator.
func CompanyFromDate(day, month, year int) (string, error) {
	return defaultGenerator.CompanyFromDate(day, month, year)
}

// Random builds a code for a random birthdate with the default generator.
func Random() (string, error) {
	return defaultGenerator.Random()
}

// Age returns the age of the code's holder today.
func Age(code string) int {
	return defaultGenerator.Age(code)
}
