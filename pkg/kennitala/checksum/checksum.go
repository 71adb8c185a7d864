// Package checksum implements the modulo-11 check digit of the Icelandic
// identity code and the person/organization classification.
//
// Check digit over the first eight digits d0..d7:
//
//	sum   = 3*d0 + 2*d1 + 7*d2 + 6*d3 + 5*d4 + 4*d5 + 3*d6 + 2*d7
//	check = 11 - sum%11, with 11 written as 0
//
// A check value of 10 has no digit, so no valid code exists for that body.
package checksum

import "kennitala/pkg/kennitala/codec"

// BodyLength is the number of digits covered by the checksum.
const BodyLength = 8

// Invalid is the check value for which no valid code exists.
const Invalid = 10

// companyDayOffset is added to the day of month for organization codes.
const companyDayOffset = 40

// Weights are applied to digits 0..7 in order.
var Weights = [BodyLength]int{3, 2, 7, 6, 5, 4, 3, 2}

// CheckDigit computes the check value for the first BodyLength digits.
// It returns a value in 0..10; Invalid means the body cannot form a valid code.
// The caller must pass at least BodyLength digits.
func CheckDigit(digits []int) int {
	sum := 0
	for i, w := range Weights {
		sum += digits[i] * w
	}
	check := 11 - sum%11
	if check == 11 {
		return 0
	}
	return check
}

// IsValid reports whether code is a 10-digit identity code with a matching
// check digit. Separators and other non-digits are ignored. Empty input,
// wrong length and checksum mismatches all report false.
func IsValid(code string) bool {
	if code == "" {
		return false
	}
	clean := codec.Clean(code)
	if len(clean) != codec.Length {
		return false
	}
	digits, ok := codec.Digits(clean)
	if !ok {
		return false
	}
	// a check value of 10 never equals a digit, so those bodies fall out here
	return CheckDigit(digits) == digits[BodyLength]
}

// IsCompany reports whether code is a valid organization code. Organizations
// carry their founding day offset by 40, so the day field is 41..71 and its
// tens digit is 4 or more. Invalid codes report false.
func IsCompany(code string) bool {
	if !IsValid(code) {
		return false
	}
	clean := codec.Clean(code)
	return int(clean[0]-'0') >= companyDayOffset/10
}

// CompanyDay converts a calendar day to the day field of an organization code.
func CompanyDay(day int) int {
	return day + companyDayOffset
}
