package cards

import (
	"fmt"
	"strings"
)

// ParseKey parses a canonical card key such as "A-H", "10-S" or "q-d".
func ParseKey(key string) (Card, error) {
	rankPart, suitPart, ok := strings.Cut(strings.TrimSpace(key), "-")
	if !ok {
		return Card{}, fmt.Errorf("invalid card key %q: missing separator", key)
	}

	rank, err := parseRank(strings.ToUpper(rankPart))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card key %q: %w", key, err)
	}
	suit, err := parseSuit(strings.ToUpper(suitPart))
	if err != nil {
		return Card{}, fmt.Errorf("invalid card key %q: %w", key, err)
	}

	return NewCard(rank, suit), nil
}

// ParseKeys parses several card keys, failing on the first invalid one.
func ParseKeys(keys ...string) ([]Card, error) {
	out := make([]Card, 0, len(keys))
	for _, k := range keys {
		c, err := ParseKey(k)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// MustParseKeys is like ParseKeys but panics on error. Intended for tests.
func MustParseKeys(keys ...string) []Card {
	out, err := ParseKeys(keys...)
	if err != nil {
		panic(err)
	}
	return out
}

func parseRank(s string) (Rank, error) {
	for _, r := range Ranks {
		if r.String() == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", s)
}

func parseSuit(s string) (Suit, error) {
	for _, st := range Suits {
		if st.Symbol() == s {
			return st, nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", s)
}
