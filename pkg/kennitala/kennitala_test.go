package kennitala_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kennitala/pkg/domain-errors"
	"kennitala/pkg/kennitala"
)

func TestFacade(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		assert.Equal(t, "1405433229", kennitala.Clean("140543-3229"))
	})

	t.Run("hyphenated", func(t *testing.T) {
		got, err := kennitala.ToHyphenated("1405433229")
		require.NoError(t, err)
		assert.Equal(t, "140543-3229", got)

		_, err = kennitala.ToHyphenated("1405")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeOutOfRange))
	})

	t.Run("validity and classification", func(t *testing.T) {
		assert.True(t, kennitala.IsValid("5810080150"))
		assert.True(t, kennitala.IsCompany("5810080150"))
		assert.True(t, kennitala.IsValid("1405433229"))
		assert.False(t, kennitala.IsCompany("1405433229"))
		assert.False(t, kennitala.IsValid(""))
	})

	t.Run("generated codes validate", func(t *testing.T) {
		code, err := kennitala.FromBirthday(17, 6, 1944)
		require.NoError(t, err)
		assert.True(t, kennitala.IsValid(code))

		code, err = kennitala.Random()
		require.NoError(t, err)
		assert.True(t, kennitala.IsValid(code))
	})

	t.Run("age", func(t *testing.T) {
		now := time.Date(2026, time.May, 14, 9, 0, 0, 0, time.Local)
		assert.Equal(t, 83, kennitala.AgeAt("140543-3229", now))
		assert.Equal(t, 82, kennitala.AgeAt("140543-3229", now.AddDate(0, 0, -1)))
		assert.Equal(t, 0, kennitala.AgeAt("140543-3329", now))
		assert.Equal(t, 0, kennitala.Age("garbage"))
	})
}

func TestParse(t *testing.T) {
	t.Run("accepts hyphenated input and stores compact form", func(t *testing.T) {
		k, err := kennitala.Parse("140543-3229")
		require.NoError(t, err)
		assert.Equal(t, "1405433229", k.String())
		assert.Equal(t, "140543-3229", k.Hyphenated())
		assert.False(t, k.IsZero())
	})

	t.Run("rejects invalid codes", func(t *testing.T) {
		for _, input := range []string{"", "320888-3209", "108883209", "14054332010"} {
			k, err := kennitala.Parse(input)
			require.Error(t, err, input)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), input)
			assert.True(t, k.IsZero())
		}
	})

	t.Run("must parse panics on invalid", func(t *testing.T) {
		assert.Panics(t, func() { kennitala.MustParse("1405433329") })
		assert.NotPanics(t, func() { kennitala.MustParse("1405433229") })
	})
}

func TestKennitala_Person(t *testing.T) {
	k := kennitala.MustParse("1405433229")

	assert.Equal(t, kennitala.KindPerson, k.Kind())
	assert.False(t, k.IsCompany())
	assert.Equal(t, kennitala.Birthdate{Day: 14, Month: 5, Year: 1943}, k.Birthdate())
	assert.Equal(t, 83, k.AgeAt(time.Date(2026, time.October, 18, 0, 0, 0, 0, time.Local)))
}

func TestKennitala_Company(t *testing.T) {
	k := kennitala.MustParse("581008-0150")

	assert.Equal(t, kennitala.KindCompany, k.Kind())
	assert.True(t, k.IsCompany())
	assert.Equal(t, kennitala.Birthdate{Day: 18, Month: 10, Year: 2008}, k.Birthdate())
	assert.Equal(t, 17, k.AgeAt(time.Date(2026, time.October, 17, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, 18, k.AgeAt(time.Date(2026, time.October, 18, 0, 0, 0, 0, time.Local)))
}

func TestKennitala_ZeroValue(t *testing.T) {
	var k kennitala.Kennitala
	assert.True(t, k.IsZero())
	assert.Empty(t, k.Hyphenated())
	assert.Equal(t, 0, k.AgeAt(time.Now()))
}

func TestParseKind(t *testing.T) {
	kind, err := kennitala.ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, kennitala.KindPerson, kind)

	kind, err = kennitala.ParseKind("company")
	require.NoError(t, err)
	assert.Equal(t, kennitala.KindCompany, kind)

	_, err = kennitala.ParseKind("robot")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
