// Package slots parses, validates and serializes the hour labels a
// reservation occupies.  A reservation always covers one unbroken block of
// hours within a single day, so user input such as "9,10,11" is accepted
// while "9,11" is rejected.  The storage form is the ascending labels joined
// by commas, which Decode reads back without loss.
package slots

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MinHour and MaxHour bound the hour labels of a day.
const (
	MinHour = 0
	MaxHour = 23
)

// ErrInvalidSlots is returned for malformed or non-contiguous hour lists.
// Handlers should translate it into an HTTP 400 response.
var ErrInvalidSlots = errors.New("invalid slots")

// Set is an ascending, duplicate-free sequence of hour labels.
type Set []int

// Parse validates a comma separated list of hour labels coming from a user
// and returns the canonical ascending set.  The labels must form a single
// contiguous block once sorted.
func Parse(raw string) (Set, error) {
	s, err := parseLabels(raw)
	if err != nil {
		return nil, err
	}
	sort.Ints(s)
	for i := 1; i < len(s); i++ {
		if s[i]-s[i-1] != 1 {
			return nil, fmt.Errorf("%w: non-contiguous", ErrInvalidSlots)
		}
	}
	return s, nil
}

// Decode reads the storage form written by Encode.  Stored rows were
// validated by Parse on the way in, so contiguity is not re-checked; the
// result is still sorted and deduplicated.
func Decode(stored string) (Set, error) {
	s, err := parseLabels(stored)
	if err != nil {
		return nil, err
	}
	return Union(s), nil
}

// Encode returns the storage form of s.
func Encode(s Set) string {
	parts := make([]string, len(s))
	for i, h := range s {
		parts[i] = strconv.Itoa(h)
	}
	return strings.Join(parts, ",")
}

func parseLabels(raw string) (Set, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidSlots)
	}
	tokens := strings.Split(raw, ",")
	out := make(Set, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		h, err := strconv.Atoi(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an hour", ErrInvalidSlots, tok)
		}
		if h < MinHour || h > MaxHour {
			return nil, fmt.Errorf("%w: hour %d out of range", ErrInvalidSlots, h)
		}
		out = append(out, h)
	}
	return out, nil
}

// Union merges any number of sets into one ascending set without duplicates.
func Union(sets ...Set) Set {
	seen := make(map[int]struct{})
	out := Set{}
	for _, s := range sets {
		for _, h := range s {
			if _, ok := seen[h]; ok {
				continue
			}
			seen[h] = struct{}{}
			out = append(out, h)
		}
	}
	sort.Ints(out)
	return out
}

// Intersects reports whether s and other share at least one hour.
func (s Set) Intersects(other Set) bool {
	// both sides are sorted, walk them together
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		switch {
		case s[i] == other[j]:
			return true
		case s[i] < other[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Ints returns the labels as a plain slice, never nil, so JSON renders [].
func (s Set) Ints() []int {
	if s == nil {
		return []int{}
	}
	return []int(s)
}

// String implements fmt.Stringer using the storage form.
func (s Set) String() string { return Encode(s) }
