// Package codec converts between the textual forms of an Icelandic identity
// code (kennitala) and reads the birthdate packed into its digits.
//
// Layout of the 10-digit body:
//
//	DD MM YY RR C M
//	│  │  │  │  │ └─ century marker (8 = 1800s, 9 = 1900s, 0 = 2000s)
//	│  │  │  │  └─── check digit
//	│  │  │  └────── randomization field
//	│  │  └───────── year within century
//	│  └──────────── month
//	└─────────────── day (day + 40 for organizations)
//
// The package is pure: no I/O, no clock, no randomness. It never validates the
// checksum; that lives in package checksum.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	dErrors "kennitala/pkg/domain-errors"
)

const (
	// Length is the number of digits in a compact identity code.
	Length = 10

	// HyphenatedLength is the length of the display form DDMMYY-RRCM.
	HyphenatedLength = 11

	// Separator splits the date block from the rest in the display form.
	Separator = '-'

	// datePartLength is the number of digits before the separator.
	datePartLength = 6

	// centuryIndex is the position of the century marker in the cleaned form.
	centuryIndex = 9
)

// Birthdate is the calendar date read from the first six digits and the
// century marker. It is not checked against the calendar.
type Birthdate struct {
	Day   int
	Month int
	Year  int
}

// String renders the date as YYYY-MM-DD.
func (b Birthdate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", b.Year, b.Month, b.Day)
}

// Clean strips every character that is not an ASCII decimal digit.
// It is total: the result may be empty, shorter or longer than Length.
func Clean(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ToHyphenated returns the display form DDMMYY-RRCM.
//
// The input is cleaned first and not validated beyond its length. Fewer than
// Length digits is an out_of_range error; digits past Length are dropped.
func ToHyphenated(input string) (string, error) {
	clean := Clean(input)
	if len(clean) < Length {
		return "", outOfRange(len(clean))
	}
	return clean[:datePartLength] + string(Separator) + clean[datePartLength:Length], nil
}

// DecodeBirthdate reads day, month and year from a code.
//
// The century comes from the marker digit: '8' → 18yy, '9' → 19yy, '0' → 20yy.
// Any other marker falls back to reading the year as "00"+yy, which yields a
// year in 0..99.
//
// Organization codes are returned as-is: their day is 41..71.
func DecodeBirthdate(input string) (Birthdate, error) {
	clean := Clean(input)
	if len(clean) < Length {
		return Birthdate{}, outOfRange(len(clean))
	}

	day := atoi2(clean[0:2])
	month := atoi2(clean[2:4])
	yy := clean[4:6]

	var prefix string
	switch clean[centuryIndex] {
	case '8':
		prefix = "18"
	case '9':
		prefix = "19"
	case '0':
		prefix = "20"
	default:
		prefix = "00"
	}
	year, err := strconv.Atoi(prefix + yy)
	if err != nil {
		// unreachable: clean only holds digits
		return Birthdate{}, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "year digits are not numeric")
	}

	return Birthdate{Day: day, Month: month, Year: year}, nil
}

// CenturyMarker encodes the century of year as the trailing marker digit.
// Centuries without a marker are written as their literal number ("17", "21").
func CenturyMarker(year int) string {
	century := year / 100
	switch century {
	case 18:
		return "8"
	case 19:
		return "9"
	case 20:
		return "0"
	default:
		return strconv.Itoa(century)
	}
}

// Digits converts a cleaned code to its digit values.
// It reports false if any byte is not a decimal digit.
func Digits(clean string) ([]int, bool) {
	digits := make([]int, len(clean))
	for i := 0; i < len(clean); i++ {
		c := clean[i]
		if c < '0' || c > '9' {
			return nil, false
		}
		digits[i] = int(c - '0')
	}
	return digits, true
}

func atoi2(s string) int {
	return int(s[0]-'0')*10 + int(s[1]-'0')
}

func outOfRange(got int) error {
	return dErrors.New(dErrors.CodeOutOfRange,
		fmt.Sprintf("kennitala must contain at least %d digits, got %d", Length, got))
}
