package utils

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementSuffix_KnownValues(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "A001", want: "A002"},
		{in: "A009", want: "A010"},
		{in: "A998", want: "A999"},
		{in: "A999", want: "B001"},
		{in: "Z999", want: "AA001"},
		{in: "AZ999", want: "BA001"},
		{in: "ZZ999", want: "AAA001"},
		{in: "HA041", want: "HA042"},
		{in: "AZZ999", want: "BAA001"},
		{in: "ZZZZ999", want: "AAAAA001"},
		{in: "005", want: "006"},
		{in: "999", want: "A001"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := IncrementSuffix(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIncrementSuffix_RejectsMalformed(t *testing.T) {
	for _, in := range []string{"", "A01", "a001", "A0001", "1A001", "A-001", "AB", "A00X"} {
		t.Run(in, func(t *testing.T) {
			_, err := IncrementSuffix(in)
			assert.ErrorIs(t, err, ErrInvalidSuffix)
		})
	}
}

func TestIncrementSuffix_PreservesLettersBelow999(t *testing.T) {
	for _, letters := range []string{"A", "QX", "ZZZ"} {
		for counter := 1; counter < 999; counter += 37 {
			in := letters + pad3(counter)
			got, err := IncrementSuffix(in)
			require.NoError(t, err)
			assert.Equal(t, letters+pad3(counter+1), got)
		}
	}
}

// suffixOrdinal maps a suffix onto its position in the allocation sequence,
// treating the letters as bijective base-26 and the counter as base 999.
func suffixOrdinal(t *testing.T, suffix string) int {
	t.Helper()
	letters, digits := suffix[:len(suffix)-3], suffix[len(suffix)-3:]
	value := 0
	for _, r := range letters {
		value = value*26 + int(r-'A'+1)
	}
	counter, err := strconv.Atoi(digits)
	require.NoError(t, err)
	return (value-1)*999 + counter - 1
}

func TestIncrementSuffix_OdometerProperty(t *testing.T) {
	current := FirstSuffix
	previousOrdinal := suffixOrdinal(t, current)

	// Crosses the A..Z single-letter range and into two-letter suffixes.
	for i := 0; i < 27*999+5; i++ {
		next, err := IncrementSuffix(current)
		require.NoError(t, err)

		ordinal := suffixOrdinal(t, next)
		require.Equal(t, previousOrdinal+1, ordinal, "from %s to %s", current, next)
		require.True(t, suffixLess(current, next), "%s should sort before %s", current, next)

		current, previousOrdinal = next, ordinal
	}

	assert.Equal(t, "AB006", current)
}

func suffixLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func TestUsableSuffix(t *testing.T) {
	assert.True(t, UsableSuffix("A001"))
	assert.True(t, UsableSuffix("HA123"))
	assert.False(t, UsableSuffix("001"))
	assert.False(t, UsableSuffix("A01"))
	assert.False(t, UsableSuffix("ZZZZZZ"))
}

func TestSequenceSuffix(t *testing.T) {
	suffix, ok := SequenceSuffix("KA0912", "KA0912HA001")
	assert.True(t, ok)
	assert.Equal(t, "HA001", suffix)

	_, ok = SequenceSuffix("KB", "KA0912HA001")
	assert.False(t, ok)
}

func TestGenerateSequence(t *testing.T) {
	got, err := GenerateSequence("SKU1", "A998", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"SKU1A998", "SKU1A999", "SKU1B001", "SKU1B002"}, got)

	_, err = GenerateSequence("SKU1", "A001", 0)
	assert.Error(t, err)

	_, err = GenerateSequence("SKU1", "bad", 1)
	assert.ErrorIs(t, err, ErrInvalidSuffix)
}

func pad3(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}
