package checksum

import (
	"testing"

	"kennitala/pkg/kennitala/codec"
)

// FuzzIsValid checks that validation never panics and that its verdict does
// not depend on separators or other non-digit noise.
func FuzzIsValid(f *testing.F) {
	f.Add("")
	f.Add("140543-3229")
	f.Add("5810080150")
	f.Add("01010002a0")
	f.Add("'; DROP TABLE people;--")
	f.Add(string([]byte{0x00, 0xff, '1'}))

	f.Fuzz(func(t *testing.T, input string) {
		valid := IsValid(input)
		clean := codec.Clean(input)

		if valid && len(clean) != codec.Length {
			t.Errorf("accepted %q with %d digits", input, len(clean))
		}
		if clean != "" && IsValid(clean) != valid {
			t.Errorf("verdict changed after cleaning %q", input)
		}
		if IsCompany(input) && !valid {
			t.Errorf("invalid code %q classified as company", input)
		}
		if valid {
			hyphenated, err := codec.ToHyphenated(input)
			if err != nil {
				t.Fatalf("valid code %q failed to format: %v", input, err)
			}
			if !IsValid(hyphenated) {
				t.Errorf("hyphenated form of %q is invalid", input)
			}
		}
	})
}
