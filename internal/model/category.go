package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Category is the opinion label attached to a tweet.
type Category int8

const (
	Opposes  Category = -1
	Neutral  Category = 0
	Supports Category = 1
	News     Category = 2
)

// Categories lists every category in display order.
var Categories = []Category{Opposes, Neutral, Supports, News}

var categoryNames = map[Category]string{
	Opposes:  "opposes",
	Neutral:  "neutral",
	Supports: "supports",
	News:     "news",
}

// ParseCategory parses the integer label used in the dataset.
func ParseCategory(s string) (Category, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("category %q is not an integer", s)
	}
	if n < -1 || n > 2 {
		return 0, fmt.Errorf("category %d out of range (valid: -1, 0, 1, 2)", n)
	}
	return Category(n), nil
}

// CategoryFromName accepts either a name ("supports") or an integer label ("1").
func CategoryFromName(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return ParseCategory(s)
}

// Valid reports whether c is one of the four labels.
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", int8(c))
}

// MarshalText encodes the category by name so it can key JSON and YAML maps.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", int8(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := CategoryFromName(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
