package portfolio

import (
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Level is a skill proficiency.
type Level string

// Proficiency levels, in ascending order.
const (
	Beginner     Level = "Beginner"
	Intermediate Level = "Intermediate"
	Advanced     Level = "Advanced"
	Expert       Level = "Expert"
)

// Levels lists the valid levels in ascending order.
var Levels = []Level{Beginner, Intermediate, Advanced, Expert}

// ParseLevel accepts any casing ("expert", "EXPERT") and returns the
// canonical title-cased level.
func ParseLevel(s string) (Level, error) {
	// Casers are stateful; one per call keeps ParseLevel safe for concurrent use.
	l := Level(cases.Title(language.English).String(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q (must be one of Beginner, Intermediate, Advanced, Expert)", ErrInvalidLevel, s)
	}
	return l, nil
}

// Valid reports whether l is one of Levels.
func (l Level) Valid() bool {
	switch l {
	case Beginner, Intermediate, Advanced, Expert:
		return true
	}
	return false
}

// Rank is 1 for Beginner through 4 for Expert, 0 when invalid.
func (l Level) Rank() int {
	for i, v := range Levels {
		if v == l {
			return i + 1
		}
	}
	return 0
}

// UnmarshalJSON canonicalizes the casing. Unknown values are kept as-is
// so Validate can report them with their field path.
func (l *Level) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = canonical(s)
	return nil
}

// UnmarshalYAML canonicalizes the casing, like UnmarshalJSON.
func (l *Level) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	*l = canonical(s)
	return nil
}

func canonical(s string) Level {
	if parsed, err := ParseLevel(s); err == nil {
		return parsed
	}
	return Level(s)
}
