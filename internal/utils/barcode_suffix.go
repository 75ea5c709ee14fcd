package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	FirstSuffix      = "A001"
	minSuffixLength  = 4
	suffixDigits     = 3
	maxSuffixCounter = 999
)

var (
	ErrInvalidSuffix = errors.New("invalid barcode suffix")

	suffixPattern = regexp.MustCompile(`^[A-Z]*[0-9]{3}$`)
)

func IsValidSuffix(suffix string) bool {
	return suffixPattern.MatchString(suffix)
}

// IncrementSuffix returns the successor of suffix: the three digit counter
// advances until 999, then resets to 001 and the letters advance as a base-26
// odometer. All-Z letters widen by one ("ZZ999" -> "AAA001").
func IncrementSuffix(suffix string) (string, error) {
	if !IsValidSuffix(suffix) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSuffix, suffix)
	}

	split := len(suffix) - suffixDigits
	letters, digits := suffix[:split], suffix[split:]

	counter, err := strconv.Atoi(digits)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSuffix, suffix)
	}

	if counter < maxSuffixCounter {
		return fmt.Sprintf("%s%03d", letters, counter+1), nil
	}

	return incrementLetters(letters) + "001", nil
}

func incrementLetters(letters string) string {
	out := []byte(letters)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] != 'Z' {
			out[i]++
			return string(out)
		}
		out[i] = 'A'
	}
	return "A" + string(out)
}

// UsableSuffix reports whether a stored suffix can seed allocation. Anything
// shorter than four characters or off-pattern is legacy data and is ignored.
func UsableSuffix(suffix string) bool {
	return len(suffix) >= minSuffixLength && IsValidSuffix(suffix)
}

// SequenceSuffix strips prefix from a stored sequence number.
func SequenceSuffix(prefix, sequenceNumber string) (string, bool) {
	if !strings.HasPrefix(sequenceNumber, prefix) {
		return "", false
	}
	return sequenceNumber[len(prefix):], true
}

// GenerateSequence returns count identifiers of the form prefix+suffix,
// beginning with start itself.
func GenerateSequence(prefix, start string, count int) ([]string, error) {
	if count <= 0 {
		return nil, fmt.Errorf("sequence count must be positive, got %d", count)
	}
	if !IsValidSuffix(start) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSuffix, start)
	}

	sequence := make([]string, 0, count)
	current := start
	for i := 0; i < count; i++ {
		sequence = append(sequence, prefix+current)
		if i == count-1 {
			break
		}
		next, err := IncrementSuffix(current)
		if err != nil {
			return nil, err
		}
		current = next
	}

	return sequence, nil
}
