package domain

import (
	"fmt"
	"strings"
)

// Selection is one option letter, A through E.
type Selection string

const (
	SelectionA Selection = "A"
	SelectionB Selection = "B"
	SelectionC Selection = "C"
	SelectionD Selection = "D"
	SelectionE Selection = "E"
)

var allSelections = []Selection{SelectionA, SelectionB, SelectionC, SelectionD, SelectionE}

// Index maps A..E to 0..4, or -1 for anything else.
func (s Selection) Index() int {
	for i, candidate := range allSelections {
		if candidate == s {
			return i
		}
	}
	return -1
}

func (s Selection) String() string {
	return string(s)
}

// SelectionAt returns the letter for a day-slot option index.
func SelectionAt(index int) Selection {
	if index < 0 || index >= len(allSelections) {
		return ""
	}
	return allSelections[index]
}

// Alphabet is the set of letters a call-site accepts.
type Alphabet []Selection

var (
	// CoreAlphabet is what employees may choose from.
	CoreAlphabet = Alphabet{SelectionA, SelectionB, SelectionC}
	// FullAlphabet covers administrative and add-on flows.
	FullAlphabet = Alphabet{SelectionA, SelectionB, SelectionC, SelectionD, SelectionE}
)

// NewAlphabet builds an alphabet from letters such as "A,B,C".
func NewAlphabet(letters []string) (Alphabet, error) {
	result := make(Alphabet, 0, len(letters))
	seen := make(map[Selection]struct{})
	for _, raw := range letters {
		letter := Selection(strings.ToUpper(strings.TrimSpace(raw)))
		if letter == "" {
			continue
		}
		if letter.Index() < 0 {
			return nil, fmt.Errorf("%w: unknown option letter %q", ErrInvalidArgument, raw)
		}
		if _, ok := seen[letter]; ok {
			continue
		}
		seen[letter] = struct{}{}
		result = append(result, letter)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%w: alphabet must not be empty", ErrInvalidArgument)
	}
	return result, nil
}

func (a Alphabet) Contains(s Selection) bool {
	for _, letter := range a {
		if letter == s {
			return true
		}
	}
	return false
}

// Parse validates raw against the alphabet. The choice must be exactly one
// letter: case is significant and surrounding whitespace is rejected.
func (a Alphabet) Parse(raw string) (Selection, error) {
	value := Selection(raw)
	if len(value) != 1 || !a.Contains(value) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSelection, raw)
	}
	return value, nil
}

func (a Alphabet) Strings() []string {
	result := make([]string, 0, len(a))
	for _, letter := range a {
		result = append(result, string(letter))
	}
	return result
}
