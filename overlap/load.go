package overlap

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/pelletier/go-toml/v2"
)

// Sentinel errors for overlap package.
var (
	// ErrNilTables is returned when a strategy is built without tables.
	ErrNilTables = errors.New("overlap: nil tables")

	// ErrBadPairKey is returned for pair keys that are not exactly two letters.
	ErrBadPairKey = errors.New("overlap: pair key must be two letters")

	// ErrDuplicateKey is returned when two keys fold to the same letter
	// or pair, such as [rules.A] and [rules.a].
	ErrDuplicateKey = errors.New("overlap: duplicate key")
)

//go:embed rules.toml
var defaultRules []byte

// fileRule is the TOML form of a Rule.
type fileRule struct {
	Min     float64            `toml:"min"`
	Max     float64            `toml:"max"`
	Special map[string]float64 `toml:"special,omitempty"`
}

// fileRotation is the TOML form of a RotationRule.
type fileRotation struct {
	Before map[string]float64 `toml:"before,omitempty"`
	After  map[string]float64 `toml:"after,omitempty"`
}

// fileTables is the TOML document layout.
type fileTables struct {
	Exceptions []string                `toml:"exceptions"`
	Default    fileRule                `toml:"default"`
	Rules      map[string]fileRule     `toml:"rules"`
	Rotations  map[string]fileRotation `toml:"rotations"`
	Pairs      map[string]float64      `toml:"pairs"`
}

// DefaultTables returns the bundled rule tables. Each call decodes a fresh
// copy, so callers may not observe each other's modifications.
func DefaultTables() *Tables {
	t, err := LoadTables(bytes.NewReader(defaultRules))
	if err != nil {
		panic("overlap: bundled rules.toml: " + err.Error())
	}
	return t
}

// LoadTables decodes rule tables from a TOML document.
//
// Layout:
//
//	exceptions = ["LT", "TA"]   # ordered pairs to dampen
//
//	[default]
//	min = 0.05
//	max = 0.15
//
//	[rules.A]
//	min = 0.1
//	max = 0.3
//	special = { V = 0.35 }
//
//	[rotations.O]
//	after = { N = -2.5 }
//	before = { R = 1.5 }
//
//	[pairs]
//	AV = 0.32
func LoadTables(r io.Reader) (*Tables, error) {
	var ft fileTables
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ft); err != nil {
		return nil, fmt.Errorf("overlap: decode tables: %w", err)
	}

	def, err := ft.Default.rule("default")
	if err != nil {
		return nil, err
	}
	t := &Tables{
		Default:    def,
		Rules:      make(map[rune]Rule, len(ft.Rules)),
		Exceptions: make(map[Pair]bool, len(ft.Exceptions)),
		Rotations:  make(map[rune]RotationRule, len(ft.Rotations)),
		Pairs:      make(map[Pair]float64, len(ft.Pairs)),
	}

	for key, fr := range ft.Rules {
		letter, err := letterKey(key)
		if err != nil {
			return nil, err
		}
		if _, dup := t.Rules[letter]; dup {
			return nil, fmt.Errorf("%w: rules.%s", ErrDuplicateKey, key)
		}
		rule, err := fr.rule(key)
		if err != nil {
			return nil, err
		}
		t.Rules[letter] = rule
	}
	for _, key := range ft.Exceptions {
		p, err := pairKey(key)
		if err != nil {
			return nil, err
		}
		t.Exceptions[p] = true
	}
	for key, fr := range ft.Rotations {
		letter, err := letterKey(key)
		if err != nil {
			return nil, err
		}
		if _, dup := t.Rotations[letter]; dup {
			return nil, fmt.Errorf("%w: rotations.%s", ErrDuplicateKey, key)
		}
		before, err := letterMap(fr.Before)
		if err != nil {
			return nil, err
		}
		after, err := letterMap(fr.After)
		if err != nil {
			return nil, err
		}
		t.Rotations[letter] = RotationRule{Before: before, After: after}
	}
	for key, v := range ft.Pairs {
		p, err := pairKey(key)
		if err != nil {
			return nil, err
		}
		if _, dup := t.Pairs[p]; dup {
			return nil, fmt.Errorf("%w: pairs.%s", ErrDuplicateKey, key)
		}
		if err := checkFraction(key, v); err != nil {
			return nil, err
		}
		t.Pairs[p] = v
	}
	return t, nil
}

func (fr fileRule) rule(name string) (Rule, error) {
	if err := checkFraction(name+".min", fr.Min); err != nil {
		return Rule{}, err
	}
	if err := checkFraction(name+".max", fr.Max); err != nil {
		return Rule{}, err
	}
	if fr.Max < fr.Min {
		return Rule{}, fmt.Errorf("overlap: rule %s: max %v below min %v", name, fr.Max, fr.Min)
	}
	special, err := letterMap(fr.Special)
	if err != nil {
		return Rule{}, err
	}
	for k, v := range fr.Special {
		if err := checkFraction(name+".special."+k, v); err != nil {
			return Rule{}, err
		}
	}
	return Rule{MinOverlap: fr.Min, MaxOverlap: fr.Max, SpecialCases: special}, nil
}

func checkFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return fmt.Errorf("overlap: %s = %v outside [0,1]", name, v)
	}
	return nil
}

func letterKey(s string) (rune, error) {
	rs := []rune(s)
	if len(rs) != 1 {
		return 0, fmt.Errorf("overlap: key %q must be a single letter", s)
	}
	return Fold(rs[0]), nil
}

func pairKey(s string) (Pair, error) {
	rs := []rune(s)
	if len(rs) != 2 {
		return Pair{}, fmt.Errorf("%w: %q", ErrBadPairKey, s)
	}
	return Pair{Fold(rs[0]), Fold(rs[1])}, nil
}

func letterMap(m map[string]float64) (map[rune]float64, error) {
	if len(m) == 0 {
		return nil, nil
	}
	out := make(map[rune]float64, len(m))
	for k, v := range m {
		r, err := letterKey(k)
		if err != nil {
			return nil, err
		}
		if _, dup := out[r]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, k)
		}
		out[r] = v
	}
	return out, nil
}
