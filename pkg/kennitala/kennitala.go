// Package kennitala validates, formats and generates Icelandic identity codes.
//
// The package is a facade over three pure packages:
//
//	codec/      Clean, ToHyphenated, DecodeBirthdate
//	checksum/   IsValid, IsCompany, CheckDigit
//	generator/  FromBirthday, Random, Age
//
// checksum depends on codec only; generator depends on both.
//
// Domain purity: codec and checksum do no I/O and never read the clock.
// Age and Random read the clock through the generator; use AgeAt or a
// generator.Generator built with WithClock when time must be injected.
package kennitala

import (
	"time"

	dErrors "kennitala/pkg/domain-errors"
	"kennitala/pkg/kennitala/checksum"
	"kennitala/pkg/kennitala/codec"
	"kennitala/pkg/kennitala/generator"
)

// Birthdate is the date encoded in a code.
type Birthdate = codec.Birthdate

// Clean strips every non-digit character.
func Clean(input string) string {
	return codec.Clean(input)
}

// ToHyphenated returns the DDMMYY-RRCM display form.
func ToHyphenated(input string) (string, error) {
	return codec.ToHyphenated(input)
}

// DecodeBirthdate reads the birthdate encoded in a code.
func DecodeBirthdate(input string) (Birthdate, error) {
	return codec.DecodeBirthdate(input)
}

// IsValid reports whether code passes the length and check digit tests.
func IsValid(code string) bool {
	return checksum.IsValid(code)
}

// IsCompany reports whether code is a valid organization code.
func IsCompany(code string) bool {
	return checksum.IsCompany(code)
}

// FromBirthday generates a valid personal code for the date.
func FromBirthday(day, month, year int) (string, error) {
	return generator.FromBirthday(day, month, year)
}

// Random generates a valid code for a random birthdate since 1800.
func Random() (string, error) {
	return generator.Random()
}

// Age returns the holder's age today, or 0 when code is invalid.
func Age(code string) int {
	return generator.Age(code)
}

// AgeAt returns the holder's age at now, or 0 when code is invalid.
func AgeAt(code string, now time.Time) int {
	return generator.AgeAt(code, now)
}

// Kind distinguishes people from organizations.
type Kind string

const (
	KindPerson  Kind = "person"
	KindCompany Kind = "company"
)

// ParseKind converts a string to a Kind. Empty input means KindPerson.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindPerson:
		return KindPerson, nil
	case KindCompany:
		return KindCompany, nil
	default:
		return "", dErrors.New(dErrors.CodeInvalidInput, "kind must be person or company")
	}
}

// Kennitala is a validated identity code held in its compact 10-digit form.
//
// Invariants:
//   - exactly 10 digits
//   - check digit matches
type Kennitala struct {
	value string
}

// Parse cleans input and validates it.
func Parse(input string) (Kennitala, error) {
	clean := codec.Clean(input)
	if !checksum.IsValid(clean) {
		return Kennitala{}, dErrors.New(dErrors.CodeInvalidInput, "invalid kennitala")
	}
	return Kennitala{value: clean}, nil
}

// MustParse is like Parse but panics on invalid input.
// Use only in tests or when the value is known to be valid.
func MustParse(input string) Kennitala {
	k, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return k
}

// String returns the compact form.
func (k Kennitala) String() string {
	return k.value
}

// Hyphenated returns the DDMMYY-RRCM form.
func (k Kennitala) Hyphenated() string {
	if k.IsZero() {
		return ""
	}
	return k.value[:6] + string(codec.Separator) + k.value[6:]
}

// IsZero reports whether k is the zero value.
func (k Kennitala) IsZero() bool {
	return k.value == ""
}

// Kind classifies the holder.
func (k Kennitala) Kind() Kind {
	if checksum.IsCompany(k.value) {
		return KindCompany
	}
	return KindPerson
}

// IsCompany reports whether the holder is an organization.
func (k Kennitala) IsCompany() bool {
	return k.Kind() == KindCompany
}

// Birthdate returns the encoded date. Organization codes report the founding
// date with the +40 day offset removed.
func (k Kennitala) Birthdate() Birthdate {
	bd, _ := codec.DecodeBirthdate(k.value)
	if k.IsCompany() {
		bd.Day -= checksum.CompanyDay(0)
	}
	return bd
}

// AgeAt returns the holder's age at now. For organizations this is the age
// since the founding date.
func (k Kennitala) AgeAt(now time.Time) int {
	if k.IsZero() {
		return 0
	}
	return generator.YearsAt(k.Birthdate(), now)
}
